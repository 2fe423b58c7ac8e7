package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/utterly-dev/utterly/db"
	"github.com/utterly-dev/utterly/internal/models"
	"github.com/utterly-dev/utterly/internal/utils"
	"github.com/utterly-dev/utterly/internal/workflow"
	"gorm.io/gorm"
)

type SaveWorkflowRequest struct {
	Name      string          `json:"name" binding:"required"`
	Items     []workflow.Item `json:"items" binding:"required"`
	ChatbotID uint            `json:"chatbot_id" binding:"required"`
}

type WorkflowResponse struct {
	ID        uint            `json:"id"`
	Name      string          `json:"name"`
	ProjectID uint            `json:"project_id"`
	ChatbotID uint            `json:"chatbot_id"`
	Items     []workflow.Item `json:"items"`
}

func ownedProject(ctx *gin.Context) (*models.Project, bool) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return nil, false
	}

	projectID, err := utils.GetProjectID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return nil, false
	}

	var project models.Project

	if err := db.DB.Where("id = ? AND owner_id = ?", projectID, userID).First(&project).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
		} else {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve project"})
		}
		return nil, false
	}

	return &project, true
}

func workflowResponse(wf models.Workflow) (WorkflowResponse, error) {
	items, err := workflow.DecodeItems(wf.Items)

	if err != nil {
		return WorkflowResponse{}, err
	}

	return WorkflowResponse{
		ID:        wf.ID,
		Name:      wf.Name,
		ProjectID: wf.ProjectID,
		ChatbotID: wf.ChatbotID,
		Items:     items,
	}, nil
}

// saveWorkflowBody binds and validates the shared create/update payload. The
// end-item placement rule is enforced here, at save time, so runs never see a
// misplaced end item from our own writes.
func saveWorkflowBody(ctx *gin.Context) (*SaveWorkflowRequest, []byte, bool) {
	var body SaveWorkflowRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Name, items, and chatbot_id are required"})
		return nil, nil, false
	}

	if err := workflow.ValidateItems(body.Items); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return nil, nil, false
	}

	raw, err := workflow.EncodeItems(body.Items)

	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to encode workflow items"})
		return nil, nil, false
	}

	return &body, raw, true
}

func ListWorkflows(ctx *gin.Context) {
	project, ok := ownedProject(ctx)

	if !ok {
		return
	}

	var workflows []models.Workflow

	if err := db.DB.Where("project_id = ?", project.ID).Order("updated_at DESC").Find(&workflows).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch workflows"})
		return
	}

	response := make([]WorkflowResponse, 0, len(workflows))

	for _, wf := range workflows {
		decoded, err := workflowResponse(wf)

		if err != nil {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode workflow items"})
			return
		}

		response = append(response, decoded)
	}

	ctx.JSON(http.StatusOK, gin.H{"workflows": response})
}

func CreateWorkflow(ctx *gin.Context) {
	project, ok := ownedProject(ctx)

	if !ok {
		return
	}

	body, raw, ok := saveWorkflowBody(ctx)

	if !ok {
		return
	}

	wf := models.Workflow{
		Name:      body.Name,
		Items:     raw,
		ProjectID: project.ID,
		ChatbotID: body.ChatbotID,
	}

	if err := db.DB.Create(&wf).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create workflow"})
		return
	}

	response, err := workflowResponse(wf)

	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode workflow items"})
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{"workflow": response})
}

func GetWorkflow(ctx *gin.Context) {
	project, ok := ownedProject(ctx)

	if !ok {
		return
	}

	workflowID, err := utils.GetWorkflowID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var wf models.Workflow

	if err := db.DB.Preload("Chatbot").Where("id = ? AND project_id = ?", workflowID, project.ID).First(&wf).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Workflow not found"})
		} else {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch workflow"})
		}
		return
	}

	response, err := workflowResponse(wf)

	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode workflow items"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"workflow": response,
		"chatbot":  ChatbotSummary{ID: wf.Chatbot.ID, Name: wf.Chatbot.Name},
	})
}

// UpdateWorkflow replaces the stored item list wholesale; items are never
// patched one at a time.
func UpdateWorkflow(ctx *gin.Context) {
	project, ok := ownedProject(ctx)

	if !ok {
		return
	}

	workflowID, err := utils.GetWorkflowID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var wf models.Workflow

	if err := db.DB.Where("id = ? AND project_id = ?", workflowID, project.ID).First(&wf).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Workflow not found"})
		} else {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch workflow"})
		}
		return
	}

	body, raw, ok := saveWorkflowBody(ctx)

	if !ok {
		return
	}

	wf.Name = body.Name
	wf.Items = raw
	wf.ChatbotID = body.ChatbotID

	if err := db.DB.Save(&wf).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update workflow"})
		return
	}

	response, err := workflowResponse(wf)

	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode workflow items"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"workflow": response})
}

func DeleteWorkflow(ctx *gin.Context) {
	project, ok := ownedProject(ctx)

	if !ok {
		return
	}

	workflowID, err := utils.GetWorkflowID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var wf models.Workflow

	if err := db.DB.Where("id = ? AND project_id = ?", workflowID, project.ID).First(&wf).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Workflow not found"})
		} else {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch workflow"})
		}
		return
	}

	if err := db.DB.Delete(&wf).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete workflow"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"success": true})
}
