package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/libraryhub/libraryhub/internal/auth"
)

// AuthController handles login and refresh-token rotation.
type AuthController struct {
	service *auth.Service
}

// NewAuthController creates a new AuthController.
func NewAuthController(service *auth.Service) *AuthController {
	return &AuthController{service: service}
}

// Token exchanges email and password for an access/refresh token pair.
// POST /api/auth/token
func (ac *AuthController) Token(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "email and password are required")
		return
	}

	user, err := ac.service.Authenticate(req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrAccountLocked):
			respondError(c, http.StatusLocked, err.Error())
		case errors.Is(err, auth.ErrInvalidCredentials):
			respondError(c, http.StatusUnauthorized, err.Error())
		default:
			respondInternalError(c, err, "authenticate")
		}
		return
	}

	pair, err := ac.service.IssueTokens(user)
	if err != nil {
		respondInternalError(c, err, "issue tokens")
		return
	}
	c.JSON(http.StatusOK, pair)
}

// RefreshToken rotates a refresh token and returns a fresh token pair.
// The presented token is revoked whether or not rotation succeeds again later.
// POST /api/auth/refresh-token
func (ac *AuthController) RefreshToken(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "refresh_token is required")
		return
	}

	pair, err := ac.service.Refresh(req.RefreshToken)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidToken) || errors.Is(err, auth.ErrTokenExpired) {
			respondError(c, http.StatusUnauthorized, "invalid refresh token")
			return
		}
		respondInternalError(c, err, "refresh token")
		return
	}
	c.JSON(http.StatusOK, pair)
}
