package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/shopmesh/storefront-backend/internal/models"
	"github.com/shopmesh/storefront-backend/internal/utils"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrNotProductOwner = errors.New("not authorized to modify this product")
)

var productSortFields = []string{"name", "price", "category", "stock", "created_at"}

type ProductService struct {
	db      *gorm.DB
	storage *StorageService
}

type CreateProductRequest struct {
	Name        string  `validate:"required,max=255"`
	Description string  `validate:"max=5000"`
	Price       float64 `validate:"required,min=0"`
	Category    string  `validate:"max=100"`
	Stock       int     `validate:"min=0"`
}

// UpdateProductRequest fields are applied only when present.
type UpdateProductRequest struct {
	Name        *string
	Description *string
	Price       *float64
	Category    *string
	Stock       *int
}

type ProductListResult struct {
	TotalProducts int64            `json:"totalProducts"`
	TotalPages    int              `json:"totalPages"`
	CurrentPage   int              `json:"currentPage"`
	Products      []models.Product `json:"products"`
}

func NewProductService(db *gorm.DB, storage *StorageService) *ProductService {
	return &ProductService{db: db, storage: storage}
}

// List returns one catalog page: optional equality filter on category,
// optional "field:direction" sort, newest-first by default.
func (s *ProductService) List(params utils.PaginationParams) (*ProductListResult, error) {
	query := s.db.Model(&models.Product{})

	if params.Category != "" {
		query = query.Where("category = ?", params.Category)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count products: %w", err)
	}

	query = utils.ApplySort(query, params.Sort, productSortFields)
	query = utils.ApplyPagination(query, params)

	var products []models.Product
	if err := query.Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch products: %w", err)
	}

	return &ProductListResult{
		TotalProducts: total,
		TotalPages:    utils.TotalPages(total, params.Limit),
		CurrentPage:   params.Page,
		Products:      products,
	}, nil
}

func (s *ProductService) GetByID(id string) (*models.Product, error) {
	var product models.Product
	if err := s.db.Where("id = ?", id).First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &product, nil
}

func (s *ProductService) Create(creatorID string, req *CreateProductRequest, imagePath string) (*models.Product, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	product := &models.Product{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Category:    req.Category,
		Stock:       req.Stock,
		Image:       imagePath,
		CreatedBy:   creatorID,
	}

	if err := s.db.Create(product).Error; err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	return product, nil
}

// Update applies the provided fields after the ownership-or-admin check.
// When a new image path is given the previous image file is removed from
// storage before the record is updated.
func (s *ProductService) Update(id, userID string, role models.UserRole, req *UpdateProductRequest, newImagePath string) (*models.Product, error) {
	product, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	if product.CreatedBy != userID && role != models.UserRoleAdmin {
		return nil, ErrNotProductOwner
	}

	if req.Name != nil {
		product.Name = *req.Name
	}
	if req.Description != nil {
		product.Description = *req.Description
	}
	if req.Price != nil {
		product.Price = *req.Price
	}
	if req.Category != nil {
		product.Category = *req.Category
	}
	if req.Stock != nil {
		product.Stock = *req.Stock
	}

	if newImagePath != "" {
		if product.Image != "" && s.storage != nil {
			s.storage.DeleteImage(product.Image)
		}
		product.Image = newImagePath
	}

	if err := s.db.Save(product).Error; err != nil {
		return nil, fmt.Errorf("failed to update product: %w", err)
	}

	return product, nil
}

// Delete removes the product and its stored image after the same
// ownership-or-admin check.
func (s *ProductService) Delete(id, userID string, role models.UserRole) error {
	product, err := s.GetByID(id)
	if err != nil {
		return err
	}

	if product.CreatedBy != userID && role != models.UserRoleAdmin {
		return ErrNotProductOwner
	}

	if product.Image != "" && s.storage != nil {
		s.storage.DeleteImage(product.Image)
	}

	if err := s.db.Delete(product).Error; err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}

	return nil
}
