package activity

import (
	"docregistry/internal/auth"
	"docregistry/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, jwtSecret string) {
	activities := r.Group("/activity")
	activities.Use(middleware.AuthMiddleware(jwtSecret))
	{
		activities.GET("",
			middleware.RateLimitByUser(2, 5),
			middleware.RoleMiddleware(auth.RoleHR, auth.RoleAdmin),
			handler.ListRecent,
		)
	}
}
