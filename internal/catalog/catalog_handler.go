package catalog

import (
	"net/http"

	"go-storefront/internal/pkg/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(s Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("catalog.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("catalog.handler")
	}
	return &Handler{service: s, logger: l}
}

// List handles GET /products?keyword=
func (h *Handler) List(c *gin.Context) {
	var q ListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_QUERY", "Invalid query", err.Error())
		return
	}

	products, err := h.service.List(c.Request.Context(), q.Keyword)
	if err != nil {
		h.logger.Error("http list products failed", zap.String("keyword", q.Keyword), zap.Error(err))
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, products, &response.Meta{Count: len(products), Source: "catalog"})
}

// Detail handles GET /products/:id
func (h *Handler) Detail(c *gin.Context) {
	id := c.Param("id")
	product, err := h.service.Detail(c.Request.Context(), id)
	if err != nil {
		h.logger.Warn("http product detail failed", zap.String("product_id", id), zap.Error(err))
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, product, nil)
}
