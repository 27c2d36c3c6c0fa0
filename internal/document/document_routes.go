package document

import (
	"docregistry/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, rdb *redis.Client, jwtSecret string) {
	documents := r.Group("/documents")
	{
		documents.GET("",
			middleware.AuthMiddleware(jwtSecret),
			middleware.RateLimitByUser(3, 10),
			handler.List,
		)

		documents.POST("",
			middleware.AuthMiddleware(jwtSecret),
			middleware.RateLimitByUser(0.5, 2),
			middleware.Idempotency(rdb),
			handler.Create,
		)

		// Uploads also come from guests; identity is attached when present.
		documents.POST("/upload",
			middleware.OptionalAuthMiddleware(jwtSecret),
			middleware.RateLimitByIP(0.2, 2),
			handler.Upload,
		)

		documents.POST("/ingest-url",
			middleware.OptionalAuthMiddleware(jwtSecret),
			middleware.RateLimitByIP(0.2, 2),
			handler.IngestURL,
		)

		documents.DELETE("/:id",
			middleware.AuthMiddleware(jwtSecret),
			middleware.RateLimitByUser(0.5, 2),
			handler.Delete,
		)
	}
}
