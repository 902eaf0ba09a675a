// backend/internal/api/handlers/admin.go
package handlers

import (
	"net/http"

	"github.com/Ayash-Bera/kuna/backend/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type AdminHandler struct {
	adminService *services.AdminService
	logger       *logrus.Logger
}

func NewAdminHandler(adminService *services.AdminService, logger *logrus.Logger) *AdminHandler {
	return &AdminHandler{
		adminService: adminService,
		logger:       logger,
	}
}

func (h *AdminHandler) ListSessions(c *gin.Context) {
	sessions, err := h.adminService.ListSessions()
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, sessions)
}
