package testutils

import (
	"github.com/gin-gonic/gin"
	"github.com/linskybing/admission-portal/internal/api/middleware"
)

// SetupRouter returns a test-mode engine with the production middleware
// chain; register adds the routes under test.
func SetupRouter(register func(r *gin.Engine)) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.RecoveryMiddleware(), middleware.CORSMiddleware())
	register(r)
	return r
}
