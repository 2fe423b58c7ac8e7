package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/utterly-dev/utterly/internal/genai"
	"github.com/utterly-dev/utterly/internal/handlers"
	"github.com/utterly-dev/utterly/internal/middleware"
	"github.com/utterly-dev/utterly/internal/runner"
	"github.com/utterly-dev/utterly/internal/services"
	"github.com/utterly-dev/utterly/internal/types"
)

// Deps carries the constructed clients the AI-backed handlers need.
type Deps struct {
	AI               *genai.Client
	Notion           *services.NotionClient
	NotionDatabaseID string
}

func NewRouter(deps Deps) *gin.Engine {
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     types.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	execute := handlers.NewExecuteHandler(runner.New(deps.AI))
	enhance := handlers.NewEnhanceHandler(deps.AI)
	knowledge := handlers.NewKnowledgeHandler(deps.Notion, deps.NotionDatabaseID)

	api := r.Group("/api")
	{
		api.GET("/health", handlers.HealthCheck)
		api.GET("/ws/:project_id", middleware.AuthMiddleware(), handlers.WebSocket)

		auth := api.Group("/auth")
		{
			auth.POST("/register", handlers.Register)
			auth.POST("/login", handlers.Login)
			auth.POST("/logout", handlers.Logout)
			auth.POST("/forgot-password", handlers.ForgotPassword)
			auth.POST("/reset-password", handlers.ResetPassword)
			auth.GET("/me", middleware.AuthMiddleware(), handlers.Me)
			auth.PATCH("/me", middleware.AuthMiddleware(), handlers.UpdateUser)
			auth.DELETE("/me", middleware.AuthMiddleware(), handlers.DeleteUser)
		}

		chatbots := api.Group("/chatbots", middleware.AuthMiddleware())
		{
			chatbots.POST("", handlers.CreateChatbot)
			chatbots.GET("", handlers.ListChatbots)
		}

		projects := api.Group("/projects", middleware.AuthMiddleware())
		{
			projects.POST("", handlers.CreateProject)
			projects.GET("", handlers.ListProjects)
			projects.PATCH("/:project_id", handlers.UpdateProject)
			projects.DELETE("/:project_id", handlers.DeleteProject)

			projects.GET("/:project_id/workflows", handlers.ListWorkflows)
			projects.POST("/:project_id/workflows", handlers.CreateWorkflow)
			projects.GET("/:project_id/workflows/:workflow_id", handlers.GetWorkflow)
			projects.PUT("/:project_id/workflows/:workflow_id", handlers.UpdateWorkflow)
			projects.DELETE("/:project_id/workflows/:workflow_id", handlers.DeleteWorkflow)
		}

		workflows := api.Group("/workflows", middleware.AuthMiddleware())
		{
			workflows.POST("/:workflow_id/execute", execute.Execute)
		}

		reports := api.Group("/reports", middleware.AuthMiddleware())
		{
			reports.GET("/:report_id", handlers.GetReport)
		}

		teams := api.Group("/teams", middleware.AuthMiddleware())
		{
			teams.GET("", handlers.ListTeams)
			teams.POST("", handlers.CreateTeam)
			teams.POST("/:team_id/members", handlers.AddTeamMember)
			teams.DELETE("/:team_id/members/:member_id", handlers.RemoveTeamMember)
			teams.GET("/:team_id/posts", handlers.ListTeamPosts)
			teams.POST("/:team_id/posts", handlers.CreateTeamPost)
			teams.POST("/:team_id/posts/:post_id/comments", handlers.CreateTeamComment)
			teams.POST("/:team_id/projects", handlers.AttachProject)
			teams.DELETE("/:team_id/projects/:project_id", handlers.DetachProject)
		}

		api.GET("/knowledge/pages", middleware.AuthMiddleware(), knowledge.ListPages)
		api.POST("/enhance", middleware.AuthMiddleware(), enhance.Enhance)
		api.POST("/intents/validate", middleware.AuthMiddleware(), handlers.ValidateIntent)
	}

	return r
}
