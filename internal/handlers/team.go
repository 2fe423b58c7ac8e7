package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/utterly-dev/utterly/db"
	"github.com/utterly-dev/utterly/internal/models"
	"github.com/utterly-dev/utterly/internal/utils"
	"gorm.io/gorm"
)

type CreateTeamRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

type TeamMemberResponse struct {
	ID        uint   `json:"id"`
	UserID    uint   `json:"user_id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Role      string `json:"role"`
}

type ProjectSummary struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

type TeamResponse struct {
	ID          uint                 `json:"id"`
	Name        string               `json:"name"`
	Description string               `json:"description"`
	Members     []TeamMemberResponse `json:"members"`
	Projects    []ProjectSummary     `json:"projects"`
}

func teamResponse(team models.Team) TeamResponse {
	members := make([]TeamMemberResponse, 0, len(team.Members))

	for _, member := range team.Members {
		members = append(members, TeamMemberResponse{
			ID:        member.ID,
			UserID:    member.UserID,
			FirstName: member.User.FirstName,
			LastName:  member.User.LastName,
			Email:     member.User.Email,
			Role:      member.Role,
		})
	}

	projects := make([]ProjectSummary, 0, len(team.Projects))

	for _, project := range team.Projects {
		projects = append(projects, ProjectSummary{ID: project.ID, Name: project.Name})
	}

	return TeamResponse{
		ID:          team.ID,
		Name:        team.Name,
		Description: team.Description,
		Members:     members,
		Projects:    projects,
	}
}

// membership loads the caller's membership row for a team, answering 404 or
// 403 itself when the team or membership is missing.
func membership(ctx *gin.Context, teamID, userID uint, requireAdmin bool) (*models.TeamMember, bool) {
	var team models.Team

	if err := db.DB.First(&team, teamID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Team not found"})
		} else {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch team"})
		}
		return nil, false
	}

	var member models.TeamMember

	query := db.DB.Where("team_id = ? AND user_id = ?", teamID, userID)

	if requireAdmin {
		query = query.Where("role = ?", models.TeamRoleAdmin)
	}

	if err := query.First(&member).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			if requireAdmin {
				ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			} else {
				ctx.JSON(http.StatusForbidden, gin.H{"error": "Not a team member"})
			}
		} else {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch team membership"})
		}
		return nil, false
	}

	return &member, true
}

func ListTeams(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var teamIDs []uint

	if err := db.DB.Model(&models.TeamMember{}).Where("user_id = ?", userID).Pluck("team_id", &teamIDs).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch teams"})
		return
	}

	var teams []models.Team

	if len(teamIDs) > 0 {
		if err := db.DB.Preload("Members.User").Preload("Projects").Where("id IN ?", teamIDs).Find(&teams).Error; err != nil {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch teams"})
			return
		}
	}

	response := make([]TeamResponse, 0, len(teams))

	for _, team := range teams {
		response = append(response, teamResponse(team))
	}

	ctx.JSON(http.StatusOK, response)
}

// CreateTeam makes the creator the team's first member, as admin.
func CreateTeam(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var body CreateTeamRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Team name is required"})
		return
	}

	team := models.Team{
		Name:        body.Name,
		Description: body.Description,
		Members: []models.TeamMember{
			{UserID: userID, Role: models.TeamRoleAdmin},
		},
	}

	if err := db.DB.Create(&team).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create team"})
		return
	}

	if err := db.DB.Preload("Members.User").Preload("Projects").First(&team, team.ID).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch team"})
		return
	}

	ctx.JSON(http.StatusCreated, teamResponse(team))
}

type AddMemberRequest struct {
	Email string `json:"email" binding:"required,email"`
}

func AddTeamMember(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	teamID, err := utils.GetTeamID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var body AddMemberRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Email is required"})
		return
	}

	if _, ok := membership(ctx, teamID, userID, true); !ok {
		return
	}

	var userToAdd models.User

	if err := db.DB.Where("email = ?", body.Email).First(&userToAdd).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		} else {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch user"})
		}
		return
	}

	var existingMember models.TeamMember

	err = db.DB.Where("team_id = ? AND user_id = ?", teamID, userToAdd.ID).First(&existingMember).Error

	if err == nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "User is already a member"})
		return
	}

	if !errors.Is(err, gorm.ErrRecordNotFound) {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check membership"})
		return
	}

	newMember := models.TeamMember{
		UserID: userToAdd.ID,
		TeamID: teamID,
		Role:   models.TeamRoleMember,
	}

	if err := db.DB.Create(&newMember).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add team member"})
		return
	}

	ctx.JSON(http.StatusCreated, TeamMemberResponse{
		ID:        newMember.ID,
		UserID:    userToAdd.ID,
		FirstName: userToAdd.FirstName,
		LastName:  userToAdd.LastName,
		Email:     userToAdd.Email,
		Role:      newMember.Role,
	})
}

// RemoveTeamMember removes a member, deleting the member's posts and
// comments first. Removing the last member deletes the whole team.
func RemoveTeamMember(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	teamID, err := utils.GetTeamID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	memberID, err := utils.GetMemberID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if _, ok := membership(ctx, teamID, userID, true); !ok {
		return
	}

	var memberToRemove models.TeamMember

	if err := db.DB.Where("id = ? AND team_id = ?", memberID, teamID).First(&memberToRemove).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Member not found"})
		} else {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch member"})
		}
		return
	}

	var memberCount int64

	if err := db.DB.Model(&models.TeamMember{}).Where("team_id = ?", teamID).Count(&memberCount).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count members"})
		return
	}

	if memberCount == 1 {
		if err := db.DB.Delete(&models.Team{}, teamID).Error; err != nil {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete team"})
			return
		}

		ctx.JSON(http.StatusOK, gin.H{"success": true})
		return
	}

	if err := db.DB.Where("author_id = ?", memberToRemove.ID).Delete(&models.TeamComment{}).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove member comments"})
		return
	}

	if err := db.DB.Where("author_id = ?", memberToRemove.ID).Delete(&models.TeamPost{}).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove member posts"})
		return
	}

	if err := db.DB.Delete(&memberToRemove).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove team member"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"success": true})
}

type CreatePostRequest struct {
	Content string `json:"content" binding:"required"`
}

type TeamPostResponse struct {
	ID        uint                  `json:"id"`
	Content   string                `json:"content"`
	FirstName string                `json:"first_name"`
	LastName  string                `json:"last_name"`
	Comments  []TeamCommentResponse `json:"comments"`
}

type TeamCommentResponse struct {
	ID        uint   `json:"id"`
	Content   string `json:"content"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

func ListTeamPosts(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	teamID, err := utils.GetTeamID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if _, ok := membership(ctx, teamID, userID, false); !ok {
		return
	}

	var posts []models.TeamPost

	if err := db.DB.Preload("Author.User").Preload("Comments.Author.User").Where("team_id = ?", teamID).Order("created_at DESC").Find(&posts).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch posts"})
		return
	}

	response := make([]TeamPostResponse, 0, len(posts))

	for _, post := range posts {
		comments := make([]TeamCommentResponse, 0, len(post.Comments))

		for _, comment := range post.Comments {
			comments = append(comments, TeamCommentResponse{
				ID:        comment.ID,
				Content:   comment.Content,
				FirstName: comment.Author.User.FirstName,
				LastName:  comment.Author.User.LastName,
			})
		}

		response = append(response, TeamPostResponse{
			ID:        post.ID,
			Content:   post.Content,
			FirstName: post.Author.User.FirstName,
			LastName:  post.Author.User.LastName,
			Comments:  comments,
		})
	}

	ctx.JSON(http.StatusOK, response)
}

func CreateTeamPost(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	teamID, err := utils.GetTeamID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	member, ok := membership(ctx, teamID, userID, false)

	if !ok {
		return
	}

	var body CreatePostRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Content is required"})
		return
	}

	post := models.TeamPost{
		TeamID:   teamID,
		AuthorID: member.ID,
		Content:  body.Content,
	}

	if err := db.DB.Create(&post).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create post"})
		return
	}

	currentUser, _ := utils.GetCurrentUser(ctx)

	ctx.JSON(http.StatusCreated, TeamPostResponse{
		ID:        post.ID,
		Content:   post.Content,
		FirstName: currentUser.FirstName,
		LastName:  currentUser.LastName,
		Comments:  []TeamCommentResponse{},
	})
}

func CreateTeamComment(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	teamID, err := utils.GetTeamID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	postID, err := utils.GetPostID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	member, ok := membership(ctx, teamID, userID, false)

	if !ok {
		return
	}

	var body CreatePostRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Content is required"})
		return
	}

	var post models.TeamPost

	if err := db.DB.Where("id = ? AND team_id = ?", postID, teamID).First(&post).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		} else {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch post"})
		}
		return
	}

	comment := models.TeamComment{
		PostID:   post.ID,
		AuthorID: member.ID,
		Content:  body.Content,
	}

	if err := db.DB.Create(&comment).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create comment"})
		return
	}

	currentUser, _ := utils.GetCurrentUser(ctx)

	ctx.JSON(http.StatusCreated, TeamCommentResponse{
		ID:        comment.ID,
		Content:   comment.Content,
		FirstName: currentUser.FirstName,
		LastName:  currentUser.LastName,
	})
}

type AttachProjectRequest struct {
	ProjectID uint `json:"project_id" binding:"required"`
}

// AttachProject puts one of the caller's projects into the team.
func AttachProject(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	teamID, err := utils.GetTeamID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var body AttachProjectRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Project ID is required"})
		return
	}

	if _, ok := membership(ctx, teamID, userID, false); !ok {
		return
	}

	var project models.Project

	if err := db.DB.Where("id = ? AND owner_id = ?", body.ProjectID, userID).First(&project).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
		} else {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch project"})
		}
		return
	}

	if project.TeamID != nil && *project.TeamID == teamID {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Project is already in the team"})
		return
	}

	if err := db.DB.Model(&project).Update("team_id", teamID).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add project to team"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"success": true})
}

func DetachProject(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	teamID, err := utils.GetTeamID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	projectID, err := utils.GetProjectID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if _, ok := membership(ctx, teamID, userID, false); !ok {
		return
	}

	if err := db.DB.Model(&models.Project{}).Where("id = ? AND team_id = ?", projectID, teamID).Update("team_id", nil).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove project from team"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"success": true})
}
