// backend/internal/api/handlers/auth.go
package handlers

import (
	"net/http"

	"github.com/Ayash-Bera/kuna/backend/internal/auth"
	"github.com/Ayash-Bera/kuna/backend/internal/middleware"
	"github.com/Ayash-Bera/kuna/backend/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type AuthHandler struct {
	authService *auth.Service
	logger      *logrus.Logger
}

func NewAuthHandler(authService *auth.Service, logger *logrus.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		logger:      logger,
	}
}

// Login accepts form-encoded or JSON credentials and returns a bearer token
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		respondBindError(c, err)
		return
	}

	result, err := h.authService.Login(req.Email, req.Password)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, models.LoginResponse{
		AccessToken: result.AccessToken,
		TokenType:   result.TokenType,
		User: models.AdminUserResponse{
			Email: result.Identity.Email,
			Name:  result.Identity.Name,
			Role:  result.Identity.Role,
		},
	})
}

// Me returns the caller's identity
func (h *AuthHandler) Me(c *gin.Context) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		middleware.Unauthorized(c)
		return
	}

	c.JSON(http.StatusOK, models.AdminUserResponse{
		Email: identity.Email,
		Name:  identity.Name,
		Role:  identity.Role,
	})
}
