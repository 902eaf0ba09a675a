// backend/internal/api/handlers/therapist.go
package handlers

import (
	"net/http"

	"github.com/Ayash-Bera/kuna/backend/internal/models"
	"github.com/Ayash-Bera/kuna/backend/internal/services"
	"github.com/Ayash-Bera/kuna/backend/pkg/utils"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type TherapistHandler struct {
	therapistService *services.TherapistService
	logger           *logrus.Logger
}

func NewTherapistHandler(therapistService *services.TherapistService, logger *logrus.Logger) *TherapistHandler {
	return &TherapistHandler{
		therapistService: therapistService,
		logger:           logger,
	}
}

// Register handles the public therapist sign-up form
func (h *TherapistHandler) Register(c *gin.Context) {
	var req models.TherapistRegistrationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	id, err := h.therapistService.Register(req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Therapist registered successfully", id)
}

func (h *TherapistHandler) List(c *gin.Context) {
	therapists, err := h.therapistService.ListAll()
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, therapists)
}

func (h *TherapistHandler) Delete(c *gin.Context) {
	if err := h.therapistService.Delete(c.Param("id")); err != nil {
		respondError(c, h.logger, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "Therapist deleted successfully", "")
}
