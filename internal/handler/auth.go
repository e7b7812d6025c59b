package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/netcode-labs/auth-service/internal/model"
	"github.com/netcode-labs/auth-service/internal/service"
)

type AuthHandler struct {
	auth  *service.AuthService
	users *service.UserService
	debug bool
}

func NewAuthHandler(auth *service.AuthService, users *service.UserService, debug bool) *AuthHandler {
	return &AuthHandler{auth: auth, users: users, debug: debug}
}

// Login godoc
// @Summary Authenticate with email and password
// @Tags auth
// @Accept json
// @Produce json
// @Param request body model.LoginRequest true "Credentials"
// @Success 200 {object} model.TokenResponse
// @Failure 401 {object} model.ErrorResponse
// @Failure 404 {object} model.ErrorResponse
// @Failure 422 {object} model.ValidationErrorResponse
// @Router /api/v1/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeValidationError(c, err)
		return
	}

	resp, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		writeAuthError(c, h.debug, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Logout godoc
// @Summary Revoke the presented token pair
// @Tags auth
// @Security BearerAuth
// @Success 204
// @Failure 403 {object} model.ErrorResponse
// @Failure 404 {object} model.ErrorResponse
// @Router /api/v1/logout [get]
func (h *AuthHandler) Logout(c *gin.Context) {
	claims := GetAuthClaims(c)
	if claims == nil {
		writeError(c, http.StatusForbidden, msgNotAuthenticated)
		return
	}

	if err := h.auth.Logout(c.Request.Context(), claims); err != nil {
		writeAuthError(c, h.debug, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// Refresh godoc
// @Summary Rotate a token pair
// @Tags auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body model.RefreshRequest true "Refresh token"
// @Success 200 {object} model.TokenResponse
// @Failure 403 {object} model.ErrorResponse
// @Failure 404 {object} model.ErrorResponse
// @Failure 422 {object} model.ValidationErrorResponse
// @Failure 500 {object} model.ErrorResponse
// @Router /api/v1/refresh [post]
func (h *AuthHandler) Refresh(c *gin.Context) {
	claims := GetAuthClaims(c)
	if claims == nil {
		writeError(c, http.StatusForbidden, msgNotAuthenticated)
		return
	}

	var req model.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeValidationError(c, err)
		return
	}

	resp, err := h.auth.Refresh(c.Request.Context(), claims, req.RefreshToken)
	if err != nil {
		writeAuthError(c, h.debug, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Register godoc
// @Summary Register a new user (root role required)
// @Tags auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body model.RegisterRequest true "New user"
// @Success 201
// @Failure 403 {object} model.ErrorResponse
// @Failure 409 {object} model.ErrorResponse
// @Failure 422 {object} model.ValidationErrorResponse
// @Router /api/v1/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req model.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeValidationError(c, err)
		return
	}

	id, err := h.users.Register(c.Request.Context(), req.Email, req.Username, req.Password, req.DisplayName)
	if err != nil {
		writeAuthError(c, h.debug, err)
		return
	}

	c.Header("Location", "/api/v1/users/"+id)
	c.Status(http.StatusCreated)
}
