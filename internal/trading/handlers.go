package trading

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mrDinkelman185/FINCo/internal/types"
	"github.com/mrDinkelman185/FINCo/pkg/response"
)

// GinHandlers contains HTTP handlers for order endpoints
type GinHandlers struct {
	service *Service
}

// NewGinHandlers creates a new set of HTTP handlers for order endpoints
func NewGinHandlers(service *Service) *GinHandlers {
	return &GinHandlers{service: service}
}

// CreateOrderHandler handles POST requests to create new orders
// Request body should contain the order details
func (h *GinHandlers) CreateOrderHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req types.OrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			response.BadRequest(c, err.Error())
			return
		}

		order, err := h.service.CreateOrder(&req)
		response.Handle(c, order, err)
	}
}

// GetOrderHandler handles GET requests to retrieve an order
// URL parameter: order_code
func (h *GinHandlers) GetOrderHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		order, err := h.service.GetOrder(c.Param("order_code"))
		response.Handle(c, order, err)
	}
}

// ListOrdersHandler handles GET requests to list orders
// Optional query parameter: account_id
func (h *GinHandlers) ListOrdersHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var accountID *int64
		if raw := c.Query("account_id"); raw != "" {
			id, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				response.BadRequest(c, "Invalid account_id")
				return
			}
			accountID = &id
		}

		orders, err := h.service.ListOrders(accountID)
		response.Handle(c, orders, err)
	}
}

// AmendOrderHandler handles PUT requests to amend a pending order
// URL parameter: order_code; body carries optional price and quantity
func (h *GinHandlers) AmendOrderHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var changes types.AmendRequest
		if err := c.ShouldBindJSON(&changes); err != nil {
			response.BadRequest(c, err.Error())
			return
		}

		order, err := h.service.AmendOrder(c.Param("order_code"), &changes)
		response.Handle(c, order, err)
	}
}

// CancelOrderHandler handles DELETE requests to cancel an order
// URL parameter: order_code
func (h *GinHandlers) CancelOrderHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		orderCode := c.Param("order_code")
		err := h.service.CancelOrder(orderCode)
		response.Handle(c, gin.H{"order_code": orderCode, "status": string(types.StatusCancelled)}, err)
	}
}

// ApplyFillHandler handles POST requests from the execution feed
// URL parameter: order_code; body carries fill quantity and price
func (h *GinHandlers) ApplyFillHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req types.FillRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			response.BadRequest(c, err.Error())
			return
		}

		order, err := h.service.ApplyFill(c.Param("order_code"), req.Quantity, req.Price)
		response.Handle(c, order, err)
	}
}
