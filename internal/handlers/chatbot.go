package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/utterly-dev/utterly/db"
	"github.com/utterly-dev/utterly/internal/models"
	"github.com/utterly-dev/utterly/internal/utils"
)

const defaultChatbotEndpoint = "https://api.openai.com/v1/chat/completions"

type CreateChatbotRequest struct {
	Name             string   `json:"name" binding:"required"`
	APIKey           string   `json:"api_key" binding:"required"`
	APIEndpoint      string   `json:"api_endpoint"`
	ModelName        string   `json:"model_name"`
	Temperature      *float64 `json:"temperature"`
	MaxTokens        *int     `json:"max_tokens"`
	TopP             *float64 `json:"top_p"`
	FrequencyPenalty *float64 `json:"frequency_penalty"`
	PresencePenalty  *float64 `json:"presence_penalty"`
	StopSequences    string   `json:"stop_sequences"`
}

type ChatbotSummary struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

func CreateChatbot(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var body CreateChatbotRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Name and API key are required"})
		return
	}

	chatbot := models.Chatbot{
		UserID:           userID,
		Name:             body.Name,
		APIKey:           body.APIKey,
		APIEndpoint:      body.APIEndpoint,
		ModelName:        body.ModelName,
		Temperature:      0.7,
		MaxTokens:        1000,
		TopP:             1.0,
		FrequencyPenalty: 0.0,
		PresencePenalty:  0.0,
		StopSequences:    body.StopSequences,
	}

	if chatbot.APIEndpoint == "" {
		chatbot.APIEndpoint = defaultChatbotEndpoint
	}

	if body.Temperature != nil {
		chatbot.Temperature = *body.Temperature
	}

	if body.MaxTokens != nil {
		chatbot.MaxTokens = *body.MaxTokens
	}

	if body.TopP != nil {
		chatbot.TopP = *body.TopP
	}

	if body.FrequencyPenalty != nil {
		chatbot.FrequencyPenalty = *body.FrequencyPenalty
	}

	if body.PresencePenalty != nil {
		chatbot.PresencePenalty = *body.PresencePenalty
	}

	if err := db.DB.Create(&chatbot).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create chatbot"})
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{"chatbot": gin.H{
		"id":           chatbot.ID,
		"name":         chatbot.Name,
		"api_endpoint": chatbot.APIEndpoint,
		"model_name":   chatbot.ModelName,
	}})
}

func ListChatbots(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var chatbots []models.Chatbot

	if err := db.DB.Where("user_id = ?", userID).Order("created_at DESC").Find(&chatbots).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch chatbots"})
		return
	}

	response := make([]ChatbotSummary, 0, len(chatbots))

	for _, chatbot := range chatbots {
		response = append(response, ChatbotSummary{ID: chatbot.ID, Name: chatbot.Name})
	}

	ctx.JSON(http.StatusOK, gin.H{"chatbots": response})
}
