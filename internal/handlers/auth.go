package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/shopmesh/storefront-backend/internal/services"
	"github.com/shopmesh/storefront-backend/internal/utils"
)

type AuthHandler struct {
	authService *services.AuthService
}

func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// POST /api/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req services.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid input", err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	result, err := h.authService.Register(&req)
	if err != nil {
		if errors.Is(err, services.ErrUserExists) {
			utils.ConflictResponse(c, "User already exists with this email or username")
			return
		}
		utils.InternalErrorResponse(c, "Registration failed")
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message": "User registered successfully",
		"token":   result.Token,
		"user":    result.User,
	})
}

// POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req services.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid input", err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	result, err := h.authService.Login(&req)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			utils.UnauthorizedResponse(c, "Invalid credentials")
			return
		}
		utils.InternalErrorResponse(c, "Login failed")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": "Login successful",
		"token":   result.Token,
		"user":    result.User,
	})
}

// POST /api/auth/google-login
func (h *AuthHandler) GoogleLogin(c *gin.Context) {
	var req struct {
		IDToken string `json:"idToken" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "idToken is required", nil)
		return
	}

	result, err := h.authService.GoogleLogin(c.Request.Context(), req.IDToken)
	if err != nil {
		utils.InternalErrorResponse(c, "Google login failed")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": "Google login successful",
		"token":   result.Token,
		"user":    result.User,
	})
}

// GET /api/auth/validate-token
//
// The endpoint every other service calls, one HTTP round trip per
// authenticated request to them.
func (h *AuthHandler) ValidateToken(c *gin.Context) {
	token, ok := utils.BearerToken(c)
	if !ok {
		utils.UnauthorizedResponse(c, "No token provided")
		return
	}

	user, err := h.authService.ValidateToken(token)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			utils.NotFoundResponse(c, "User")
			return
		}
		utils.UnauthorizedResponse(c, "Invalid or expired token")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"valid":    true,
		"userId":   user.ID,
		"username": user.Username,
		"email":    user.Email,
		"role":     user.Role,
	})
}

// GET /api/auth/user
func (h *AuthHandler) GetCurrentUser(c *gin.Context) {
	userID, ok := utils.GetUserIDFromContext(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	user, err := h.authService.GetUserByID(userID)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			utils.NotFoundResponse(c, "User")
			return
		}
		utils.InternalErrorResponse(c, "")
		return
	}

	utils.SuccessResponse(c, gin.H{"user": user.Public()})
}

// GET /api/auth/users/:userId
//
// Internal read for peer services; returns public fields only.
func (h *AuthHandler) GetUserByID(c *gin.Context) {
	user, err := h.authService.GetUserByID(c.Param("userId"))
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			utils.NotFoundResponse(c, "User")
			return
		}
		utils.InternalErrorResponse(c, "")
		return
	}

	utils.SuccessResponse(c, gin.H{"user": user.Public()})
}
