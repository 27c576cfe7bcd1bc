package response

import (
	"time"

	"go-storefront/internal/pkg/apperror"

	"github.com/gin-gonic/gin"
)

// RequestIDKey is the gin context key the request id middleware writes to.
const RequestIDKey = "X-Request-ID"

type Meta struct {
	Count  int    `json:"count"`
	Source string `json:"source,omitempty"`
}

type APIResponse struct {
	Success   bool         `json:"success"`
	Data      interface{}  `json:"data"`
	Meta      *Meta        `json:"meta,omitempty"` // omitempty so it disappears when nil
	Error     *ErrorDetail `json:"error"`
	Message   string       `json:"message"`
	RequestID string       `json:"requestId"`
	Timestamp string       `json:"timestamp"`
}

type ErrorDetail struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details"`
}

func Success(c *gin.Context, status int, data interface{}, meta *Meta) {
	c.JSON(status, APIResponse{
		Success:   true,
		Data:      data,
		Meta:      meta,
		RequestID: c.GetString(RequestIDKey),
		Timestamp: time.Now().Format(time.RFC3339),
	})
}

func Error(c *gin.Context, status int, errCode string, message string, details interface{}) {
	c.JSON(status, APIResponse{
		Success: false,
		Data:    nil,
		Error: &ErrorDetail{
			Code:    errCode,
			Message: message,
			Details: details,
		},
		Message:   message,
		RequestID: c.GetString(RequestIDKey),
		Timestamp: time.Now().Format(time.RFC3339),
	})
}

// Abort writes an error envelope and stops the middleware chain.
func Abort(c *gin.Context, status int, errCode string, message string, details interface{}) {
	Error(c, status, errCode, message, details)
	c.Abort()
}

// FromError maps err through apperror.ToHTTP and writes the envelope.
func FromError(c *gin.Context, err error) {
	he := apperror.ToHTTP(err)
	Error(c, he.Status, he.Code, he.Message, he.Details)
}
