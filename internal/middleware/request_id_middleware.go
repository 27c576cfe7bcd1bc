package middleware

import (
	"go-storefront/internal/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(response.RequestIDKey)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(response.RequestIDKey, id)
		c.Header(response.RequestIDKey, id)
		c.Next()
	}
}
