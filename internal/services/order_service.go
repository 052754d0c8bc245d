package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/shopmesh/storefront-backend/internal/models"
	"github.com/shopmesh/storefront-backend/internal/registry/client"
)

var (
	ErrOrderNotFound       = errors.New("order not found")
	ErrEmptyOrder          = errors.New("order must contain items")
	ErrInvalidPayment      = errors.New("invalid payment method")
	ErrOrderNotCancellable = errors.New("cannot cancel order that has been shipped or delivered")
)

// InvalidProductError names the offending product when an order references
// something the product service does not know.
type InvalidProductError struct {
	ProductID string
	Err       error
}

func (e *InvalidProductError) Error() string {
	return "invalid product: " + e.ProductID
}

func (e *InvalidProductError) Unwrap() error {
	return e.Err
}

// OrderService owns orders. Item name/price/imageUrl are re-fetched from the
// product service at creation time and overwrite whatever the client sent, so
// stale or forged client prices never reach a persisted order.
type OrderService struct {
	db *gorm.DB
	rc *client.Client
}

type OrderItemRequest struct {
	ProductID string  `json:"productId" validate:"required"`
	Quantity  int     `json:"quantity" validate:"required,min=1"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
}

type CreateOrderRequest struct {
	UserID          string                 `json:"userId" validate:"required"`
	Items           []OrderItemRequest     `json:"items" validate:"dive"`
	TotalAmount     float64                `json:"totalAmount"`
	ShippingAddress map[string]interface{} `json:"shippingAddress"`
	PaymentMethod   models.PaymentMethod   `json:"paymentMethod" validate:"required"`
}

func NewOrderService(db *gorm.DB, rc *client.Client) *OrderService {
	return &OrderService{db: db, rc: rc}
}

// Create verifies every item against the product service, persists the order
// as Processing/Pending, then clears the user's cart best-effort: a failed
// clear is logged, never surfaced, so an otherwise-successful order stands.
func (s *OrderService) Create(ctx context.Context, req *CreateOrderRequest) (*models.Order, error) {
	if len(req.Items) == 0 {
		return nil, ErrEmptyOrder
	}

	switch req.PaymentMethod {
	case models.PaymentMethodCreditCard, models.PaymentMethodPayPal, models.PaymentMethodCashOnDelivery:
	default:
		return nil, ErrInvalidPayment
	}

	items := make([]models.OrderItem, 0, len(req.Items))
	for _, item := range req.Items {
		product, err := s.rc.GetProductDetails(ctx, item.ProductID)
		if err != nil {
			return nil, &InvalidProductError{ProductID: item.ProductID, Err: err}
		}

		quantity := item.Quantity
		if quantity < 1 {
			quantity = 1
		}

		items = append(items, models.OrderItem{
			ProductID: item.ProductID,
			Name:      product.Name,
			Price:     product.Price,
			Quantity:  quantity,
			ImageURL:  product.Image,
		})
	}

	order := &models.Order{
		UserID:          req.UserID,
		Items:           items,
		TotalAmount:     req.TotalAmount,
		ShippingAddress: models.JSONB(req.ShippingAddress),
		PaymentMethod:   req.PaymentMethod,
		PaymentStatus:   models.PaymentStatusPending,
		OrderStatus:     models.OrderStatusProcessing,
	}

	if err := s.db.Create(order).Error; err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	if err := s.rc.ClearCart(ctx, req.UserID); err != nil {
		logrus.WithError(err).WithField("user_id", req.UserID).Warn("Failed to clear cart after order creation")
	}

	return order, nil
}

// List returns the user's orders, newest first.
func (s *OrderService) List(userID string) ([]models.Order, error) {
	var orders []models.Order
	if err := s.db.Preload("Items").Where("user_id = ?", userID).Order("created_at DESC").Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch orders: %w", err)
	}
	return orders, nil
}

// GetByID enforces ownership by matching both id and userId in the query; an
// order belonging to someone else is indistinguishable from a missing one.
func (s *OrderService) GetByID(id, userID string) (*models.Order, error) {
	var order models.Order
	if err := s.db.Preload("Items").Where("id = ? AND user_id = ?", id, userID).First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &order, nil
}

// UpdateOrderStatus overwrites the order status after the ownership check.
// Only Cancel enforces a transition rule.
func (s *OrderService) UpdateOrderStatus(id, userID string, status models.OrderStatus) (*models.Order, error) {
	order, err := s.GetByID(id, userID)
	if err != nil {
		return nil, err
	}

	if err := s.db.Model(&models.Order{}).Where("id = ?", order.ID).Update("order_status", status).Error; err != nil {
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}
	order.OrderStatus = status
	return order, nil
}

// UpdatePaymentStatus overwrites the payment status; it is independent of the
// order status, with no automatic coupling between the two.
func (s *OrderService) UpdatePaymentStatus(id, userID string, status models.PaymentStatus) (*models.Order, error) {
	order, err := s.GetByID(id, userID)
	if err != nil {
		return nil, err
	}

	if err := s.db.Model(&models.Order{}).Where("id = ?", order.ID).Update("payment_status", status).Error; err != nil {
		return nil, fmt.Errorf("failed to update payment status: %w", err)
	}
	order.PaymentStatus = status
	return order, nil
}

// Cancel transitions Processing -> Cancelled; any other current status
// rejects the request.
func (s *OrderService) Cancel(id, userID string) (*models.Order, error) {
	order, err := s.GetByID(id, userID)
	if err != nil {
		return nil, err
	}

	if !order.CanCancel() {
		return nil, ErrOrderNotCancellable
	}

	if err := s.db.Model(&models.Order{}).Where("id = ?", order.ID).Update("order_status", models.OrderStatusCancelled).Error; err != nil {
		return nil, fmt.Errorf("failed to cancel order: %w", err)
	}
	order.OrderStatus = models.OrderStatusCancelled
	return order, nil
}
