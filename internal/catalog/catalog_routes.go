package catalog

import (
	"go-storefront/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler) {
	products := r.Group("/products")
	{
		products.GET("",
			middleware.RateLimitByIP(10, 20),
			handler.List,
		)
		products.GET("/:id",
			middleware.RateLimitByIP(20, 40),
			handler.Detail,
		)
	}
}
