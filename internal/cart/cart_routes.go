package cart

import (
	"go-storefront/internal/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes mounts the cart endpoints. idem may be nil, which turns
// Idempotency-Key handling off.
func RegisterRoutes(r *gin.RouterGroup, handler *Handler, idem middleware.IdempotencyStore) {
	carts := r.Group("/carts")
	carts.Use(middleware.CartSession())
	{
		carts.GET("", handler.Detail)
		carts.GET("/billing", handler.Billing)
		carts.GET("/items/:productId/quantity", handler.Quantity)

		// per IP first: a client can mint fresh cart ids at will
		mutations := carts.Group("",
			middleware.RateLimitByIP(30, 60),
			middleware.RateLimitByCart(20, 40),
		)
		{
			mutations.DELETE("", handler.Clear)
			mutations.POST("/items", middleware.Idempotency(idem, handler.logger), handler.AddItem)
			mutations.POST("/items/:productId/increment", handler.Increment)
			mutations.POST("/items/:productId/decrement", handler.Decrement)
			mutations.DELETE("/items/:productId", handler.DeleteItem)
		}
	}
}
