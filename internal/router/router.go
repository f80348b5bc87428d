package router

import (
	"time"

	"github.com/fracas-dev/fracas/internal/handlers"
	"github.com/fracas-dev/fracas/internal/middleware"
	"github.com/fracas-dev/fracas/internal/types"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func NewRouter() *gin.Engine {
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     types.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	authed := middleware.AuthMiddleware()

	api := r.Group("/api")
	{
		api.GET("/health", handlers.HealthCheck)

		auth := api.Group("/auth")
		{
			auth.POST("/register", handlers.Register)
			auth.POST("/login", handlers.Login)
			auth.POST("/logout", authed, handlers.Logout)
			auth.GET("/me", authed, handlers.Me)
		}

		users := api.Group("/users")
		{
			users.GET("", handlers.ListUsers)
			users.GET("/:user_id", handlers.GetUser)
			users.POST("", authed, handlers.CreateUser)
			users.PATCH("/:user_id", authed, handlers.UpdateUser)
			users.DELETE("/:user_id", authed, handlers.DeleteUser)
		}

		teams := api.Group("/teams")
		{
			teams.GET("", handlers.ListTeams)
			teams.GET("/:team_name", handlers.GetTeam)
			teams.GET("/:team_name/members", handlers.TeamMembers)
			teams.GET("/:team_name/lead", handlers.TeamLead)
			teams.GET("/:team_name/subsystems", handlers.TeamSubsystems)
			teams.POST("", authed, handlers.CreateTeam)
			teams.PATCH("/:team_name", authed, handlers.UpdateTeam)
			teams.DELETE("/:team_name", authed, handlers.DeleteTeam)
		}

		subsystems := api.Group("/subsystems")
		{
			subsystems.GET("", handlers.ListSubsystems)
			subsystems.GET("/:subsystem_name", handlers.GetSubsystem)
			subsystems.GET("/:subsystem_name/parent", handlers.SubsystemParent)
			subsystems.POST("", authed, handlers.CreateSubsystem)
			subsystems.PATCH("/:subsystem_name", authed, handlers.UpdateSubsystem)
			subsystems.DELETE("/:subsystem_name", authed, handlers.DeleteSubsystem)
		}

		records := api.Group("/records")
		{
			records.GET("", handlers.ListRecords)
			records.GET("/:record_id", handlers.GetRecord)
			records.GET("/:record_id/comments", handlers.RecordComments)
			records.POST("", authed, handlers.CreateRecord)
			records.PATCH("/:record_id", authed, handlers.UpdateRecord)
			records.DELETE("/:record_id", authed, handlers.DeleteRecord)
		}

		comments := api.Group("/comments")
		{
			comments.GET("", handlers.ListComments)
			comments.GET("/:comment_id", handlers.GetComment)
			comments.GET("/:comment_id/record", handlers.CommentRecord)
			comments.POST("", authed, handlers.CreateComment)
			comments.PATCH("/:comment_id", authed, handlers.UpdateComment)
			comments.DELETE("/:comment_id", authed, handlers.DeleteComment)
		}
	}

	return r
}
