package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/linskybing/admission-portal/internal/api/handlers"
	"github.com/linskybing/admission-portal/internal/api/middleware"
	"github.com/linskybing/admission-portal/pkg/metrics"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func RegisterRoutes(r *gin.Engine, h *handlers.Handlers) {
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(metrics.Handler()))
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	r.POST("/login", h.Auth.Login)
	r.POST("/logout", h.Auth.Logout)

	auth := r.Group("/")
	auth.Use(middleware.JWTAuthMiddleware())
	{
		auth.GET("/auth/status", h.Auth.Status)

		ListingRoutes(auth, "/verifications", h.Verification)
		ListingRoutes(auth, "/payments", h.Payment)

		auth.GET("/notifications", h.Notification.List)
		auth.GET("/ws/notifications", h.Notification.Stream)

		audit := auth.Group("/audit/reviews")
		{
			audit.GET("", h.Audit.GetReviewLogs)
		}
	}
}
