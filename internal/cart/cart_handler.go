package cart

import (
	"net/http"

	"go-storefront/internal/middleware"
	"go-storefront/internal/pkg/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(s Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("cart.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("cart.handler")
	}
	return &Handler{service: s, logger: l}
}

func (h *Handler) Detail(c *gin.Context) {
	res, err := h.service.Detail(c.Request.Context(), c.GetString(middleware.CartIDKey))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, res, &response.Meta{Count: len(res.Items)})
}

func (h *Handler) AddItem(c *gin.Context) {
	var req AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Debug("invalid add item payload", zap.Error(err))
		response.Error(c, http.StatusBadRequest, "INVALID_INPUT", "Invalid product payload", err.Error())
		return
	}

	res, err := h.service.AddItem(c.Request.Context(), c.GetString(middleware.CartIDKey), req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, res, &response.Meta{Count: len(res.Items)})
}

func (h *Handler) Increment(c *gin.Context) {
	res, err := h.service.Increment(c.Request.Context(), c.GetString(middleware.CartIDKey), ProductID(c.Param("productId")))
	h.writeCart(c, res, err)
}

func (h *Handler) Decrement(c *gin.Context) {
	res, err := h.service.Decrement(c.Request.Context(), c.GetString(middleware.CartIDKey), ProductID(c.Param("productId")))
	h.writeCart(c, res, err)
}

func (h *Handler) DeleteItem(c *gin.Context) {
	res, err := h.service.DeleteItem(c.Request.Context(), c.GetString(middleware.CartIDKey), ProductID(c.Param("productId")))
	h.writeCart(c, res, err)
}

func (h *Handler) Clear(c *gin.Context) {
	res, err := h.service.Clear(c.Request.Context(), c.GetString(middleware.CartIDKey))
	h.writeCart(c, res, err)
}

func (h *Handler) Quantity(c *gin.Context) {
	res, err := h.service.Quantity(c.Request.Context(), c.GetString(middleware.CartIDKey), ProductID(c.Param("productId")))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, res, nil)
}

func (h *Handler) Billing(c *gin.Context) {
	res, err := h.service.Billing(c.Request.Context(), c.GetString(middleware.CartIDKey))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, res, nil)
}

func (h *Handler) writeCart(c *gin.Context, res CartResponse, err error) {
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, res, &response.Meta{Count: len(res.Items)})
}
