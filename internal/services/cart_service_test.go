package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"github.com/shopmesh/storefront-backend/internal/models"
	"github.com/shopmesh/storefront-backend/internal/registry/client"
)

type CartServiceTestSuite struct {
	suite.Suite
	db   *gorm.DB
	mesh *fakeMesh
	svc  *CartService
}

func (s *CartServiceTestSuite) SetupTest() {
	s.db = newTestDB(s.T(), &models.Cart{}, &models.CartItem{})
	s.mesh = newFakeMesh(s.T())
	s.mesh.setProduct(models.Product{
		BaseModel: models.BaseModel{ID: "p1"},
		Name:      "Coffee Beans",
		Price:     12.50,
		Image:     "/uploads/beans.jpg",
	})
	s.svc = NewCartService(s.db, s.mesh.client())
}

func (s *CartServiceTestSuite) TestGetOrCreateCartIsLazy() {
	cart, err := s.svc.GetOrCreateCart("u1")
	s.Require().NoError(err)
	s.Empty(cart.Items)

	again, err := s.svc.GetOrCreateCart("u1")
	s.Require().NoError(err)
	s.Equal(cart.ID, again.ID)
}

func (s *CartServiceTestSuite) TestAddItemMergesSameProductIntoOneLine() {
	ctx := context.Background()

	_, err := s.svc.AddItem(ctx, "u1", "p1", 2)
	s.Require().NoError(err)

	cart, err := s.svc.AddItem(ctx, "u1", "p1", 3)
	s.Require().NoError(err)

	s.Require().Len(cart.Items, 1)
	s.Equal(5, cart.Items[0].Quantity)
	s.Equal("Coffee Beans", cart.Items[0].Name)
	s.Equal(12.50, cart.Items[0].Price)

	totals := cart.CalculateTotals()
	s.Equal(62.50, totals.Subtotal)
	s.Equal(5, totals.ItemCount)
}

func (s *CartServiceTestSuite) TestAddItemDefaultsQuantityToOne() {
	cart, err := s.svc.AddItem(context.Background(), "u1", "p1", 0)
	s.Require().NoError(err)
	s.Require().Len(cart.Items, 1)
	s.Equal(1, cart.Items[0].Quantity)
}

func (s *CartServiceTestSuite) TestAddItemUnknownProduct() {
	_, err := s.svc.AddItem(context.Background(), "u1", "nope", 1)
	s.Require().Error(err)

	var depErr *client.DependencyError
	s.ErrorAs(err, &depErr)
	s.Equal("product", depErr.Service)
}

func (s *CartServiceTestSuite) TestUpdateItemSetsAbsoluteQuantity() {
	cart, err := s.svc.AddItem(context.Background(), "u1", "p1", 2)
	s.Require().NoError(err)
	itemID := cart.Items[0].ID

	cart, err = s.svc.UpdateItem("u1", itemID, 7)
	s.Require().NoError(err)
	s.Equal(7, cart.Items[0].Quantity)

	_, err = s.svc.UpdateItem("u1", itemID, 0)
	s.ErrorIs(err, ErrInvalidQuantity)

	_, err = s.svc.UpdateItem("u1", "missing-item", 1)
	s.ErrorIs(err, ErrCartItemNotFound)

	_, err = s.svc.UpdateItem("nobody", itemID, 1)
	s.ErrorIs(err, ErrCartNotFound)
}

func (s *CartServiceTestSuite) TestRemoveItemIsIdempotent() {
	cart, err := s.svc.AddItem(context.Background(), "u1", "p1", 2)
	s.Require().NoError(err)
	itemID := cart.Items[0].ID

	cart, err = s.svc.RemoveItem("u1", itemID)
	s.Require().NoError(err)
	s.Empty(cart.Items)

	// Removing it again still succeeds.
	cart, err = s.svc.RemoveItem("u1", itemID)
	s.Require().NoError(err)
	s.Empty(cart.Items)
}

func (s *CartServiceTestSuite) TestClear() {
	_, err := s.svc.Clear("nobody")
	s.ErrorIs(err, ErrCartNotFound)

	_, err = s.svc.AddItem(context.Background(), "u1", "p1", 3)
	s.Require().NoError(err)

	cart, err := s.svc.Clear("u1")
	s.Require().NoError(err)
	s.Empty(cart.Items)
	s.Equal(0, cart.CalculateTotals().ItemCount)
}

func TestCartServiceSuite(t *testing.T) {
	suite.Run(t, new(CartServiceTestSuite))
}
