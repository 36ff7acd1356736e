package v1

import (
	"github.com/gin-gonic/gin"

	"recipehub/media-api/internal/interfaces/httpserver/handlers"
)

// Routes encapsulates versioned route registration.
type Routes struct {
	handlers *handlers.Provider
	auth     gin.HandlerFunc
}

func NewRoutes(provider *handlers.Provider, auth gin.HandlerFunc) *Routes {
	return &Routes{handlers: provider, auth: auth}
}

// Register attaches all media routes under /v1/media.
func (r *Routes) Register(router gin.IRouter) {
	group := router.Group("/v1/media", r.auth)
	m := r.handlers.Media

	group.GET("", m.List)
	group.GET("/upload-mode", m.UploadMode)
	group.POST("/upload", m.Upload)
	group.POST("/presign", m.Presign)
	group.POST("/confirm", m.Confirm)
	group.GET("/stats", m.Stats)
	group.POST("/bulk/delete", m.BulkDelete)
	group.POST("/bulk/tags", m.BulkTags)
	group.POST("/cleanup", m.Cleanup)
	group.GET("/:id", m.Get)
	group.PATCH("/:id", m.Update)
	group.DELETE("/:id", m.Delete)
	group.POST("/:id/usage", m.RecordUsage)
}
