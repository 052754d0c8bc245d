package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/shopmesh/storefront-backend/internal/models"
	"github.com/shopmesh/storefront-backend/internal/services"
	"github.com/shopmesh/storefront-backend/internal/utils"
)

type OrderHandler struct {
	orderService *services.OrderService
}

func NewOrderHandler(orderService *services.OrderService) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
	}
}

type orderUserRequest struct {
	UserID string `json:"userId"`
}

type orderStatusRequest struct {
	UserID      string `json:"userId"`
	OrderStatus string `json:"orderStatus"`
}

type paymentStatusRequest struct {
	UserID        string `json:"userId"`
	PaymentStatus string `json:"paymentStatus"`
}

// POST /api/orders
func (h *OrderHandler) Create(c *gin.Context) {
	var req services.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid input", err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	order, err := h.orderService.Create(c.Request.Context(), &req)
	if err != nil {
		var invalidProduct *services.InvalidProductError
		switch {
		case errors.Is(err, services.ErrEmptyOrder):
			utils.BadRequestResponse(c, "Order must contain at least one item", nil)
		case errors.Is(err, services.ErrInvalidPayment):
			utils.BadRequestResponse(c, "Invalid payment method", nil)
		case errors.As(err, &invalidProduct):
			utils.BadRequestResponse(c, "Invalid product: "+invalidProduct.ProductID, nil)
		default:
			utils.InternalErrorResponse(c, "Failed to create order")
		}
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message": "Order created successfully",
		"order":   order,
	})
}

// GET /api/orders
func (h *OrderHandler) List(c *gin.Context) {
	var req orderUserRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.UserID == "" {
		utils.BadRequestResponse(c, "User ID is required", nil)
		return
	}

	orders, err := h.orderService.List(req.UserID)
	if err != nil {
		utils.InternalErrorResponse(c, "Failed to fetch orders")
		return
	}

	utils.SuccessResponse(c, gin.H{"orders": orders})
}

// GET /api/orders/:id
func (h *OrderHandler) GetByID(c *gin.Context) {
	var req orderUserRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.UserID == "" {
		utils.BadRequestResponse(c, "User ID is required", nil)
		return
	}

	order, err := h.orderService.GetByID(c.Param("id"), req.UserID)
	if err != nil {
		if errors.Is(err, services.ErrOrderNotFound) {
			utils.NotFoundResponse(c, "Order")
			return
		}
		utils.InternalErrorResponse(c, "Failed to fetch order")
		return
	}

	utils.SuccessResponse(c, gin.H{"order": order})
}

// PATCH /api/orders/:id/status
func (h *OrderHandler) UpdateOrderStatus(c *gin.Context) {
	var req orderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.UserID == "" || req.OrderStatus == "" {
		utils.BadRequestResponse(c, "User ID and order status are required", nil)
		return
	}

	order, err := h.orderService.UpdateOrderStatus(c.Param("id"), req.UserID, models.OrderStatus(req.OrderStatus))
	if err != nil {
		if errors.Is(err, services.ErrOrderNotFound) {
			utils.NotFoundResponse(c, "Order")
			return
		}
		utils.InternalErrorResponse(c, "Failed to update order status")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": "Order status updated",
		"order":   order,
	})
}

// PATCH /api/orders/:id/payment
func (h *OrderHandler) UpdatePaymentStatus(c *gin.Context) {
	var req paymentStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.UserID == "" || req.PaymentStatus == "" {
		utils.BadRequestResponse(c, "User ID and payment status are required", nil)
		return
	}

	order, err := h.orderService.UpdatePaymentStatus(c.Param("id"), req.UserID, models.PaymentStatus(req.PaymentStatus))
	if err != nil {
		if errors.Is(err, services.ErrOrderNotFound) {
			utils.NotFoundResponse(c, "Order")
			return
		}
		utils.InternalErrorResponse(c, "Failed to update payment status")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": "Payment status updated",
		"order":   order,
	})
}

// PATCH /api/orders/:id/cancel
func (h *OrderHandler) Cancel(c *gin.Context) {
	var req orderUserRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.UserID == "" {
		utils.BadRequestResponse(c, "User ID is required", nil)
		return
	}

	order, err := h.orderService.Cancel(c.Param("id"), req.UserID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrOrderNotFound):
			utils.NotFoundResponse(c, "Order")
		case errors.Is(err, services.ErrOrderNotCancellable):
			utils.BadRequestResponse(c, "Cannot cancel order that has been shipped or delivered", nil)
		default:
			utils.InternalErrorResponse(c, "Failed to cancel order")
		}
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": "Order cancelled",
		"order":   order,
	})
}
