package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/utterly-dev/utterly/internal/services"
)

// KnowledgeHandler serves knowledge base pages out of a Notion database.
type KnowledgeHandler struct {
	Notion     *services.NotionClient
	DatabaseID string
}

func NewKnowledgeHandler(notion *services.NotionClient, databaseID string) *KnowledgeHandler {
	return &KnowledgeHandler{Notion: notion, DatabaseID: databaseID}
}

func (h *KnowledgeHandler) ListPages(ctx *gin.Context) {
	if h.Notion == nil || h.DatabaseID == "" {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Knowledge base is not configured"})
		return
	}

	pages, err := h.Notion.QueryDatabase(ctx.Request.Context(), h.DatabaseID)

	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch knowledge base pages"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"pages": pages})
}
