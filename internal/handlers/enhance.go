package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/utterly-dev/utterly/db"
	"github.com/utterly-dev/utterly/internal/genai"
	"github.com/utterly-dev/utterly/internal/models"
	"github.com/utterly-dev/utterly/internal/runner"
	"github.com/utterly-dev/utterly/internal/utils"
	"gorm.io/gorm"
)

const (
	EnhanceTypeQuestion = "question"
	EnhanceTypeAnswer   = "answer"
)

// EnhanceHandler rewrites workflow questions and expected answers with the
// generative-AI client.
type EnhanceHandler struct {
	AI *genai.Client
}

func NewEnhanceHandler(ai *genai.Client) *EnhanceHandler {
	return &EnhanceHandler{AI: ai}
}

type EnhanceRequest struct {
	Type    string `json:"type"`
	Content string `json:"content"`
}

func enhancePrompt(kind, content string) (string, error) {
	switch kind {
	case EnhanceTypeQuestion:
		return fmt.Sprintf(`Please enhance the following question to make it clearer and more specific.
Keep the same meaning but improve its quality and clarity.
Return only the enhanced question without any additional text.

Question: %s`, content), nil
	case EnhanceTypeAnswer:
		return fmt.Sprintf(`Please enhance the following answer to make it more comprehensive and accurate.
Keep the same meaning but improve its quality and clarity.
Return only the enhanced answer without any additional text.

Answer: %s`, content), nil
	default:
		return "", fmt.Errorf("unsupported enhancement type %q", kind)
	}
}

func (h *EnhanceHandler) Enhance(ctx *gin.Context) {
	var body EnhanceRequest

	if err := ctx.BindJSON(&body); err != nil || strings.TrimSpace(body.Content) == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Content is required"})
		return
	}

	prompt, err := enhancePrompt(body.Type, body.Content)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	enhanced, err := h.AI.GenerateText(ctx.Request.Context(), prompt)

	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to enhance content"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"enhanced_content": strings.TrimSpace(enhanced)})
}

type ValidateIntentRequest struct {
	Intent    string `json:"intent" binding:"required"`
	ChatbotID uint   `json:"chatbot_id" binding:"required"`
}

// ValidateIntent checks an intent's wording against a chatbot the caller
// owns. The chatbot must exist even though the check itself is local.
func ValidateIntent(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var body ValidateIntentRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Missing required fields"})
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

	analysis := runner.ValidateIntent(body.Intent)

	suggestions := analysis.Suggestions

	if suggestions == nil {
		suggestions = []string{}
	}

	ctx.JSON(http.StatusOK, gin.H{
		"is_valid":    analysis.Valid,
		"message":     analysis.Message,
		"confidence":  analysis.Confidence,
		"suggestions": suggestions,
	})
}
