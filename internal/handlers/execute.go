package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/utterly-dev/utterly/db"
	"github.com/utterly-dev/utterly/internal/models"
	"github.com/utterly-dev/utterly/internal/runner"
	"github.com/utterly-dev/utterly/internal/utils"
	"github.com/utterly-dev/utterly/internal/workflow"
	"gorm.io/gorm"
)

// ExecuteHandler runs workflows. It holds the constructed runner (and
// through it the generative-AI client) instead of reaching for ambient
// state.
type ExecuteHandler struct {
	Runner *runner.Runner
}

func NewExecuteHandler(r *runner.Runner) *ExecuteHandler {
	return &ExecuteHandler{Runner: r}
}

type ExecuteRequest struct {
	ChatbotID uint `json:"chatbot_id" binding:"required"`
}

func splitStopSequences(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	sequences := make([]string, 0, len(parts))

	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			sequences = append(sequences, trimmed)
		}
	}

	return sequences
}

// Execute runs the workflow synchronously and answers with the new report's
// id. Delay items block this one request; nothing else is affected.
func (h *ExecuteHandler) Execute(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	workflowID, err := utils.GetWorkflowID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var body ExecuteRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "chatbot_id is required"})
		return
	}

	var wf models.Workflow

	if err := db.DB.Preload("Project").First(&wf, workflowID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Workflow not found"})
		} else {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch workflow"})
		}
		return
	}

	if wf.Project.OwnerID != userID {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "Workflow not found"})
		return
	}

	var chatbot models.Chatbot

	if err := db.DB.Where("id = ? AND user_id = ?", body.ChatbotID, userID).First(&chatbot).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Chatbot not found"})
		} else {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch chatbot"})
		}
		return
	}

	items, err := workflow.DecodeItems(wf.Items)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid workflow items"})
		return
	}

	input := runner.RunInput{
		ProjectName:  wf.Project.Name,
		WorkflowName: wf.Name,
		ChatbotName:  chatbot.Name,
		ModelName:    chatbot.ModelName,
		Items:        items,
		Target: runner.Target{
			Endpoint:         chatbot.APIEndpoint,
			APIKey:           chatbot.APIKey,
			Model:            chatbot.ModelName,
			Temperature:      chatbot.Temperature,
			MaxTokens:        chatbot.MaxTokens,
			TopP:             chatbot.TopP,
			FrequencyPenalty: chatbot.FrequencyPenalty,
			PresencePenalty:  chatbot.PresencePenalty,
			Stop:             splitStopSequences(chatbot.StopSequences),
		},
	}

	payload, err := h.Runner.Execute(ctx.Request.Context(), input)

	if err != nil {
		log.Printf("Error executing workflow %d: %v", wf.ID, err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	metricsJSON, err := json.Marshal(payload.Metrics)

	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to encode report"})
		return
	}

	detailsJSON, err := json.Marshal(payload.Details)

	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to encode report"})
		return
	}

	report := models.Report{
		WorkflowID:   wf.ID,
		ProjectID:    wf.ProjectID,
		Name:         fmt.Sprintf("%s - %s", wf.Name, time.Now().Format(time.RFC3339)),
		OverallScore: payload.OverallScore,
		Metrics:      metricsJSON,
		Details:      detailsJSON,
	}

	if err := db.DB.Create(&report).Error; err != nil {
		log.Printf("Failed to save report for workflow %d: %v", wf.ID, err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save report"})
		return
	}

	NotifyReportReady(strconv.FormatUint(uint64(wf.ProjectID), 10), report.ID)

	ctx.JSON(http.StatusOK, gin.H{
		"success":   true,
		"report_id": report.ID,
	})
}
