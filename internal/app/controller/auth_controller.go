package controller

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/hvngo/shop-backend/internal/app/service"
	apperrors "github.com/hvngo/shop-backend/internal/errors"
	"github.com/hvngo/shop-backend/internal/middleware"
)

type AuthController struct {
	authService service.AuthService
}

func NewAuthController(authService service.AuthService) *AuthController {
	return &AuthController{authService: authService}
}

type registerRequest struct {
	Username string `json:"username" binding:"required,min=3,max=50"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

func (ctrl *AuthController) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid registration payload: "+err.Error())
		return
	}

	_, err := ctrl.authService.Register(req.Username, req.Email, req.Password)
	switch {
	case errors.Is(err, service.ErrUsernameAlreadyExists):
		apperrors.Conflict(c, apperrors.AuthUsernameExists, "Username is already taken")
	case errors.Is(err, service.ErrEmailAlreadyExists):
		apperrors.Conflict(c, apperrors.AuthEmailExists, "Email is already registered")
	case err != nil:
		respondStorageError(c, err, "user")
	default:
		c.JSON(http.StatusCreated, gin.H{"message": "User registered successfully"})
	}
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (ctrl *AuthController) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Username and password are required")
		return
	}

	result, err := ctrl.authService.Login(req.Username, req.Password)
	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		apperrors.RespondWithError(c, http.StatusUnauthorized, apperrors.AuthInvalidCredentials, "Invalid username or password")
	case err != nil:
		apperrors.InternalError(c, "Failed to log in")
	default:
		c.JSON(http.StatusOK, result)
	}
}

// Me returns the authenticated user's own account.
func (ctrl *AuthController) Me(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		apperrors.Unauthorized(c, "Authentication required")
		return
	}

	user, err := ctrl.authService.GetUserByID(userID)
	switch {
	case errors.Is(err, service.ErrUserNotFound):
		apperrors.NotFound(c, apperrors.ResourceNotFound, "User not found")
	case err != nil:
		respondStorageError(c, err, "user")
	default:
		c.JSON(http.StatusOK, user)
	}
}

func (ctrl *AuthController) Logout(c *gin.Context) {
	header := c.GetHeader("Authorization")
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || token == "" {
		apperrors.Unauthorized(c, "Authorization header is required")
		return
	}

	if err := ctrl.authService.Logout(c.Request.Context(), token); err != nil {
		apperrors.InternalError(c, "Failed to log out")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}
