package handlers

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/shopmesh/storefront-backend/internal/models"
	"github.com/shopmesh/storefront-backend/internal/services"
	"github.com/shopmesh/storefront-backend/internal/utils"
)

type ProductHandler struct {
	productService *services.ProductService
	storage        *services.StorageService
}

func NewProductHandler(productService *services.ProductService, storage *services.StorageService) *ProductHandler {
	return &ProductHandler{
		productService: productService,
		storage:        storage,
	}
}

// GET /api/products
func (h *ProductHandler) List(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	result, err := h.productService.List(params)
	if err != nil {
		utils.InternalErrorResponse(c, "Failed to fetch products")
		return
	}

	utils.SuccessResponse(c, result)
}

// GET /api/products/:id
func (h *ProductHandler) GetByID(c *gin.Context) {
	product, err := h.productService.GetByID(c.Param("id"))
	if err != nil {
		if errors.Is(err, services.ErrProductNotFound) {
			utils.NotFoundResponse(c, "Product")
			return
		}
		utils.InternalErrorResponse(c, "")
		return
	}

	utils.SuccessResponse(c, gin.H{"product": product})
}

// POST /api/products (multipart/form-data, optional image file)
func (h *ProductHandler) Create(c *gin.Context) {
	userID, ok := utils.GetUserIDFromContext(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	price, err := strconv.ParseFloat(c.PostForm("price"), 64)
	if err != nil {
		utils.BadRequestResponse(c, "Price must be a number", nil)
		return
	}
	stock, _ := strconv.Atoi(c.DefaultPostForm("stock", "0"))

	req := services.CreateProductRequest{
		Name:        c.PostForm("name"),
		Description: c.PostForm("description"),
		Price:       price,
		Category:    c.PostForm("category"),
		Stock:       stock,
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	imagePath, err := h.saveUploadedImage(c)
	if err != nil {
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	product, err := h.productService.Create(userID, &req, imagePath)
	if err != nil {
		utils.InternalErrorResponse(c, "Failed to create product")
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message": "Product created successfully",
		"product": product,
	})
}

// PUT /api/products/:id (multipart/form-data, fields optional)
func (h *ProductHandler) Update(c *gin.Context) {
	userID, ok := utils.GetUserIDFromContext(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}
	roleStr, _ := utils.GetUserRoleFromContext(c)
	role := models.UserRole(roleStr)

	var req services.UpdateProductRequest
	if v, ok := c.GetPostForm("name"); ok {
		req.Name = &v
	}
	if v, ok := c.GetPostForm("description"); ok {
		req.Description = &v
	}
	if v, ok := c.GetPostForm("price"); ok {
		price, err := strconv.ParseFloat(v, 64)
		if err != nil {
			utils.BadRequestResponse(c, "Price must be a number", nil)
			return
		}
		req.Price = &price
	}
	if v, ok := c.GetPostForm("category"); ok {
		req.Category = &v
	}
	if v, ok := c.GetPostForm("stock"); ok {
		stock, err := strconv.Atoi(v)
		if err != nil {
			utils.BadRequestResponse(c, "Stock must be an integer", nil)
			return
		}
		req.Stock = &stock
	}

	newImagePath, err := h.saveUploadedImage(c)
	if err != nil {
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	product, err := h.productService.Update(c.Param("id"), userID, role, &req, newImagePath)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrProductNotFound):
			utils.NotFoundResponse(c, "Product")
		case errors.Is(err, services.ErrNotProductOwner):
			utils.ForbiddenResponse(c, "Not authorized to update this product")
		default:
			utils.InternalErrorResponse(c, "Failed to update product")
		}
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": "Product updated successfully",
		"product": product,
	})
}

// DELETE /api/products/:id
func (h *ProductHandler) Delete(c *gin.Context) {
	userID, ok := utils.GetUserIDFromContext(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}
	roleStr, _ := utils.GetUserRoleFromContext(c)
	role := models.UserRole(roleStr)

	if err := h.productService.Delete(c.Param("id"), userID, role); err != nil {
		switch {
		case errors.Is(err, services.ErrProductNotFound):
			utils.NotFoundResponse(c, "Product")
		case errors.Is(err, services.ErrNotProductOwner):
			utils.ForbiddenResponse(c, "Not authorized to delete this product")
		default:
			utils.InternalErrorResponse(c, "Failed to delete product")
		}
		return
	}

	utils.SuccessResponse(c, gin.H{"message": "Product deleted successfully"})
}

// saveUploadedImage stores the "image" form file when present. An
// absent file is not an error; the product keeps no image or its
// previous one.
func (h *ProductHandler) saveUploadedImage(c *gin.Context) (string, error) {
	fileHeader, err := c.FormFile("image")
	if err != nil {
		return "", nil
	}

	file, err := fileHeader.Open()
	if err != nil {
		return "", err
	}
	defer file.Close()

	return h.storage.SaveImage(file, fileHeader)
}
