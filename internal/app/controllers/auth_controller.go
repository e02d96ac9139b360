package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/edverse/registrar/internal/app/models/dto"
	"github.com/edverse/registrar/internal/app/services"
	"github.com/edverse/registrar/internal/middleware"
)

// AuthController handles authentication endpoints
type AuthController struct {
	authService *services.AuthService
}

// NewAuthController creates a new AuthController
func NewAuthController(authService *services.AuthService) *AuthController {
	return &AuthController{authService: authService}
}

// Login exchanges credentials for a token pair
func (c *AuthController) Login(ctx *gin.Context) {
	var req dto.LoginRequest
	if !bindJSON(ctx, &req) {
		return
	}

	tokens, err := c.authService.Login(ctx, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(tokens))
}

// RefreshToken rotates a refresh token into a new token pair
func (c *AuthController) RefreshToken(ctx *gin.Context) {
	var req dto.RefreshTokenRequest
	if !bindJSON(ctx, &req) {
		return
	}

	tokens, err := c.authService.RefreshToken(ctx, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(tokens))
}

// Logout revokes every active refresh token of the caller
func (c *AuthController) Logout(ctx *gin.Context) {
	caller, ok := callerOrAbort(ctx)
	if !ok {
		return
	}

	if err := c.authService.Logout(ctx, caller.UserID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.SuccessResponse{Message: "Logged out"}))
}

// GetProfile returns the caller's own account view
func (c *AuthController) GetProfile(ctx *gin.Context) {
	caller, ok := callerOrAbort(ctx)
	if !ok {
		return
	}

	profile, err := c.authService.GetProfile(ctx, caller.UserID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(profile))
}
