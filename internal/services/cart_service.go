package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/shopmesh/storefront-backend/internal/models"
	"github.com/shopmesh/storefront-backend/internal/registry/client"
)

var (
	ErrCartNotFound     = errors.New("cart not found")
	ErrCartItemNotFound = errors.New("item not found in cart")
	ErrInvalidQuantity  = errors.New("valid quantity is required")
)

// CartService owns per-user carts. Item name/price/image are snapshotted from
// the product service at add time; totals are derived on every read, never
// stored.
type CartService struct {
	db *gorm.DB
	rc *client.Client
}

func NewCartService(db *gorm.DB, rc *client.Client) *CartService {
	return &CartService{db: db, rc: rc}
}

// GetOrCreateCart always returns a cart: the single creation path for the
// lazily created per-user cart.
func (s *CartService) GetOrCreateCart(userID string) (*models.Cart, error) {
	var cart models.Cart
	err := s.db.Preload("Items").Where("user_id = ?", userID).First(&cart).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		cart = models.Cart{UserID: userID, Items: []models.CartItem{}}
		if err := s.db.Create(&cart).Error; err != nil {
			return nil, fmt.Errorf("failed to create cart: %w", err)
		}
		return &cart, nil
	}
	if err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &cart, nil
}

// AddItem looks the product up through the registry, then merges it into the
// cart: an existing line for the same product has its quantity incremented,
// anything else is appended as a new line. The read-modify-write runs inside
// a transaction so concurrent adds for the same user do not lose updates.
func (s *CartService) AddItem(ctx context.Context, userID, productID string, quantity int) (*models.Cart, error) {
	product, err := s.rc.GetProductDetails(ctx, productID)
	if err != nil {
		return nil, err
	}

	if quantity < 1 {
		quantity = 1
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		var cart models.Cart
		err := tx.Where("user_id = ?", userID).First(&cart).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			cart = models.Cart{UserID: userID}
			if err := tx.Create(&cart).Error; err != nil {
				return fmt.Errorf("failed to create cart: %w", err)
			}
		} else if err != nil {
			return fmt.Errorf("database error: %w", err)
		}

		var item models.CartItem
		err = tx.Where("cart_id = ? AND product_id = ?", cart.ID, productID).First(&item).Error
		switch {
		case err == nil:
			if err := tx.Model(&item).Update("quantity", item.Quantity+quantity).Error; err != nil {
				return fmt.Errorf("failed to update item quantity: %w", err)
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			item = models.CartItem{
				CartID:    cart.ID,
				ProductID: productID,
				Name:      product.Name,
				Price:     product.Price,
				Quantity:  quantity,
				Image:     product.Image,
			}
			if err := tx.Create(&item).Error; err != nil {
				return fmt.Errorf("failed to add item: %w", err)
			}
		default:
			return fmt.Errorf("database error: %w", err)
		}

		return s.touch(tx, cart.ID)
	})
	if err != nil {
		return nil, err
	}

	return s.getCartWithItems(userID)
}

// UpdateItem sets the absolute quantity of an existing line.
func (s *CartService) UpdateItem(userID, itemID string, quantity int) (*models.Cart, error) {
	if quantity < 1 {
		return nil, ErrInvalidQuantity
	}

	cart, err := s.getCartWithItems(userID)
	if err != nil {
		return nil, err
	}

	found := false
	for _, item := range cart.Items {
		if item.ID == itemID {
			found = true
			break
		}
	}
	if !found {
		return nil, ErrCartItemNotFound
	}

	if err := s.db.Model(&models.CartItem{}).Where("id = ?", itemID).Update("quantity", quantity).Error; err != nil {
		return nil, fmt.Errorf("failed to update item: %w", err)
	}
	if err := s.touch(s.db, cart.ID); err != nil {
		return nil, err
	}

	return s.getCartWithItems(userID)
}

// RemoveItem filters the line out. Removing an id that is not in the cart is
// a no-op, not an error.
func (s *CartService) RemoveItem(userID, itemID string) (*models.Cart, error) {
	cart, err := s.getCartWithItems(userID)
	if err != nil {
		return nil, err
	}

	if err := s.db.Where("cart_id = ? AND id = ?", cart.ID, itemID).Delete(&models.CartItem{}).Error; err != nil {
		return nil, fmt.Errorf("failed to remove item: %w", err)
	}
	if err := s.touch(s.db, cart.ID); err != nil {
		return nil, err
	}

	return s.getCartWithItems(userID)
}

// Clear empties the cart's items. Unlike GetOrCreateCart it does not create
// one: clearing a cart that was never touched is a NotFound.
func (s *CartService) Clear(userID string) (*models.Cart, error) {
	cart, err := s.getCartWithItems(userID)
	if err != nil {
		return nil, err
	}

	if err := s.db.Where("cart_id = ?", cart.ID).Delete(&models.CartItem{}).Error; err != nil {
		return nil, fmt.Errorf("failed to clear cart: %w", err)
	}
	if err := s.touch(s.db, cart.ID); err != nil {
		return nil, err
	}

	return s.getCartWithItems(userID)
}

func (s *CartService) getCartWithItems(userID string) (*models.Cart, error) {
	var cart models.Cart
	if err := s.db.Preload("Items").Where("user_id = ?", userID).First(&cart).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCartNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &cart, nil
}

func (s *CartService) touch(tx *gorm.DB, cartID string) error {
	if err := tx.Model(&models.Cart{}).Where("id = ?", cartID).Update("updated_at", time.Now()).Error; err != nil {
		return fmt.Errorf("failed to update cart: %w", err)
	}
	return nil
}
