package handlers

import (
	"encoding/json"
	"errors"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/shopmesh/storefront-backend/internal/models"
	"github.com/shopmesh/storefront-backend/internal/registry/client"
	"github.com/shopmesh/storefront-backend/internal/services"
	"github.com/shopmesh/storefront-backend/internal/utils"
)

type CartHandler struct {
	cartService *services.CartService
}

func NewCartHandler(cartService *services.CartService) *CartHandler {
	return &CartHandler{
		cartService: cartService,
	}
}

type cartUserRequest struct {
	UserID string `json:"userId"`
}

type addItemRequest struct {
	UserID    string          `json:"userId"`
	ProductID string          `json:"productId"`
	Quantity  json.RawMessage `json:"quantity"`
}

// parseQuantity tolerates the quantity arriving as a number, a numeric
// string, or not at all; anything unparseable falls back to 1.
func parseQuantity(raw json.RawMessage) int {
	if len(raw) == 0 {
		return 1
	}
	var n int
	if err := json.Unmarshal(raw, &n); err == nil {
		return n
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if n, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
			return n
		}
	}
	return 1
}

type updateItemRequest struct {
	UserID   string `json:"userId"`
	Quantity int    `json:"quantity"`
}

func cartPayload(cart *models.Cart) gin.H {
	return gin.H{
		"cart":   cart,
		"totals": cart.CalculateTotals(),
	}
}

// POST /api/carts/get
func (h *CartHandler) GetCart(c *gin.Context) {
	var req cartUserRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.UserID == "" {
		utils.BadRequestResponse(c, "User ID is required", nil)
		return
	}

	cart, err := h.cartService.GetOrCreateCart(req.UserID)
	if err != nil {
		utils.InternalErrorResponse(c, "Failed to fetch cart")
		return
	}

	utils.SuccessResponse(c, cartPayload(cart))
}

// POST /api/carts/items
func (h *CartHandler) AddItem(c *gin.Context) {
	var req addItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid input", err.Error())
		return
	}
	if req.UserID == "" || req.ProductID == "" {
		utils.BadRequestResponse(c, "User ID and product ID are required", nil)
		return
	}

	cart, err := h.cartService.AddItem(c.Request.Context(), req.UserID, req.ProductID, parseQuantity(req.Quantity))
	if err != nil {
		var depErr *client.DependencyError
		if errors.As(err, &depErr) {
			utils.NotFoundResponse(c, "Product")
			return
		}
		utils.InternalErrorResponse(c, "Failed to add item to cart")
		return
	}

	utils.CreatedResponse(c, cartPayload(cart))
}

// PUT /api/carts/items/:itemId
func (h *CartHandler) UpdateItem(c *gin.Context) {
	var req updateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.UserID == "" {
		utils.BadRequestResponse(c, "User ID is required", nil)
		return
	}

	cart, err := h.cartService.UpdateItem(req.UserID, c.Param("itemId"), req.Quantity)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidQuantity):
			utils.BadRequestResponse(c, "Quantity must be at least 1", nil)
		case errors.Is(err, services.ErrCartNotFound):
			utils.NotFoundResponse(c, "Cart")
		case errors.Is(err, services.ErrCartItemNotFound):
			utils.NotFoundResponse(c, "Item")
		default:
			utils.InternalErrorResponse(c, "Failed to update cart item")
		}
		return
	}

	utils.SuccessResponse(c, cartPayload(cart))
}

// POST /api/carts/items/:itemId/remove
//
// Removal is idempotent; an already absent item still succeeds.
func (h *CartHandler) RemoveItem(c *gin.Context) {
	var req cartUserRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.UserID == "" {
		utils.BadRequestResponse(c, "User ID is required", nil)
		return
	}

	cart, err := h.cartService.RemoveItem(req.UserID, c.Param("itemId"))
	if err != nil {
		if errors.Is(err, services.ErrCartNotFound) {
			utils.NotFoundResponse(c, "Cart")
			return
		}
		utils.InternalErrorResponse(c, "Failed to remove cart item")
		return
	}

	utils.SuccessResponse(c, cartPayload(cart))
}

// POST /api/carts/clear
func (h *CartHandler) Clear(c *gin.Context) {
	var req cartUserRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.UserID == "" {
		utils.BadRequestResponse(c, "User ID is required", nil)
		return
	}

	cart, err := h.cartService.Clear(req.UserID)
	if err != nil {
		if errors.Is(err, services.ErrCartNotFound) {
			utils.NotFoundResponse(c, "Cart")
			return
		}
		utils.InternalErrorResponse(c, "Failed to clear cart")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": "Cart cleared",
		"cart":    cart,
		"totals":  cart.CalculateTotals(),
	})
}
