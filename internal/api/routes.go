package api

import (
	"github.com/gin-gonic/gin"
)

func SetupRoutes(router *gin.Engine, handler *Handler) {
	api := router.Group("/api")
	{
		api.POST("/clients", handler.CreateClient)
		api.GET("/clients/:id", handler.GetClient)
		api.GET("/clients/:id/matches", handler.GetClientMatches)
		api.POST("/clients/:id/contact", handler.MarkContacted)
		api.POST("/clients/:id/follow-up", handler.ScheduleFollowUp)
		api.PUT("/clients/:id/priority", handler.UpdatePriority)
		api.PUT("/clients/:id/status", handler.UpdateClientStatus)
		api.GET("/follow-ups/due", handler.GetDueFollowUps)

		api.POST("/properties", handler.UpsertProperties)

		api.POST("/tasks", handler.CreateTask)
		api.GET("/tasks/:id", handler.GetTask)
		api.POST("/tasks/:id/complete", handler.CompleteTask)
		api.GET("/tasks/:id/next-occurrence", handler.PreviewNextOccurrence)

		api.GET("/lookups", handler.ListLookups)
		api.GET("/lookups/:kind", handler.GetLookup)
	}
}
