package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/shopmesh/storefront-backend/internal/registry/client"
	"github.com/shopmesh/storefront-backend/internal/services"
	"github.com/shopmesh/storefront-backend/internal/utils"
)

type UserHandler struct {
	userService *services.UserService
}

func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

// GET /api/users/profile
func (h *UserHandler) GetProfile(c *gin.Context) {
	userID, ok := utils.GetUserIDFromContext(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}
	bearer, _ := c.Get("bearer_token")
	token, _ := bearer.(string)

	profile, err := h.userService.GetProfile(c.Request.Context(), userID, token)
	if err != nil {
		var depErr *client.DependencyError
		if errors.As(err, &depErr) {
			utils.UpstreamErrorResponse(c, "Failed to fetch user details", gin.H{
				"service": depErr.Service,
				"message": depErr.Message,
			})
			return
		}
		utils.InternalErrorResponse(c, "Failed to fetch profile")
		return
	}

	utils.SuccessResponse(c, gin.H{"profile": profile})
}

// PUT /api/users/profile
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	userID, ok := utils.GetUserIDFromContext(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	var req services.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid input", err.Error())
		return
	}

	profile, err := h.userService.UpdateProfile(userID, &req)
	if err != nil {
		utils.InternalErrorResponse(c, "Failed to update profile")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": "Profile updated successfully",
		"profile": profile,
	})
}

// GET /api/users/:userId
//
// Internal read for peer services; stored profile fields only, no
// call back to the auth service.
func (h *UserHandler) GetProfileByID(c *gin.Context) {
	profile, err := h.userService.GetProfileByID(c.Param("userId"))
	if err != nil {
		if errors.Is(err, services.ErrProfileNotFound) {
			utils.NotFoundResponse(c, "Profile")
			return
		}
		utils.InternalErrorResponse(c, "")
		return
	}

	utils.SuccessResponse(c, gin.H{"profile": profile})
}
