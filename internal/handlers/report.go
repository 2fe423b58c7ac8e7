package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/utterly-dev/utterly/db"
	"github.com/utterly-dev/utterly/internal/models"
	"github.com/utterly-dev/utterly/internal/utils"
	"gorm.io/gorm"
)

type ReportMetadata struct {
	WorkflowName string `json:"workflow_name"`
	ProjectName  string `json:"project_name"`
	ChatbotName  string `json:"chatbot_name"`
	ModelName    string `json:"model_name"`
	Timestamp    string `json:"timestamp"`
}

type GetReportResponse struct {
	ID           uint            `json:"id"`
	Name         string          `json:"name"`
	OverallScore float64         `json:"overall_score"`
	Metrics      json.RawMessage `json:"metrics"`
	Details      json.RawMessage `json:"details"`
	Metadata     ReportMetadata  `json:"metadata"`
}

// GetReport returns one report enriched with workflow, project and chatbot
// names for display.
func GetReport(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	reportID, err := utils.GetReportID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var report models.Report

	if err := db.DB.Preload("Workflow").Preload("Workflow.Project").Preload("Workflow.Chatbot").First(&report, reportID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Report not found"})
		} else {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch report"})
		}
		return
	}

	if report.Workflow.Project.OwnerID != userID {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	chatbotName := report.Workflow.Chatbot.Name

	if chatbotName == "" {
		chatbotName = "Unknown Chatbot"
	}

	modelName := report.Workflow.Chatbot.ModelName

	if modelName == "" {
		modelName = "Unknown Model"
	}

	ctx.JSON(http.StatusOK, gin.H{"report": GetReportResponse{
		ID:           report.ID,
		Name:         report.Name,
		OverallScore: report.OverallScore,
		Metrics:      json.RawMessage(report.Metrics),
		Details:      json.RawMessage(report.Details),
		Metadata: ReportMetadata{
			WorkflowName: report.Workflow.Name,
			ProjectName:  report.Workflow.Project.Name,
			ChatbotName:  chatbotName,
			ModelName:    modelName,
			Timestamp:    report.CreatedAt.Format(time.RFC3339),
		},
	}})
}
