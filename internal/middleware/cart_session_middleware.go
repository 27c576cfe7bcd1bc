package middleware

import (
	"net/http"

	"go-storefront/internal/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// CartIDKey is the gin context key holding the resolved cart session.
	CartIDKey = "cart_id"

	CartIDHeader = "X-Cart-ID"
	CartIDCookie = "cart_id"

	cartCookieMaxAge = 30 * 24 * 60 * 60
)

// CartSession resolves the cart id from the X-Cart-ID header or the cart_id
// cookie, issuing a fresh one when neither is present. The id is echoed
// back in both places so clients can keep using it.
func CartSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		cartID := c.GetHeader(CartIDHeader)
		if cartID == "" {
			cartID, _ = c.Cookie(CartIDCookie)
		}

		if cartID == "" {
			cartID = uuid.NewString()
		} else if _, err := uuid.Parse(cartID); err != nil {
			response.Abort(c, http.StatusBadRequest, "INVALID_INPUT", "Invalid cart ID", nil)
			return
		}

		c.Set(CartIDKey, cartID)
		c.Header(CartIDHeader, cartID)
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(CartIDCookie, cartID, cartCookieMaxAge, "/", "", false, true)

		c.Next()
	}
}
