package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/linskybing/admission-portal/internal/api/handlers"
)

// ListingRoutes registers a listing and the modal endpoints opened from it.
func ListingRoutes(rg *gin.RouterGroup, path string, h *handlers.ListHandler) {
	list := rg.Group(path)
	{
		list.GET("", h.Refresh)
		list.GET("/snapshot", h.Snapshot)
		list.POST("/refresh", h.Refresh)
		list.GET("/:id", h.Detail)

		list.POST("/:id/modal", h.OpenModal)
		list.GET("/:id/modal", h.GetModal)
		list.DELETE("/:id/modal", h.CloseModal)
		list.PUT("/:id/modal/notes", h.UpdateNotes)
		list.POST("/:id/modal/confirm", h.Confirm)
	}
}
