package http

import "github.com/gin-gonic/gin"

// Register mounts the REST routes on r
func (h *Handlers) Register(r gin.IRouter) {
	r.GET("/health", h.Health)

	sessions := r.Group("/sessions")
	sessions.POST("", h.CreateSession)
	sessions.GET("", h.ListSessions)
	sessions.GET("/:id", h.GetSession)
	sessions.POST("/:id/input", h.WriteInput)
	sessions.POST("/:id/resize", h.ResizeSession)
	sessions.DELETE("/:id", h.CloseSession)

	r.POST("/commands/run", h.RunCommand)
	r.GET("/shells", h.ListShells)

	r.GET("/system/stats", h.SystemStats)
	r.GET("/system/home", h.HomeDirectory)
}
