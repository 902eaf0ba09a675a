// backend/internal/api/handlers/questionnaire.go
package handlers

import (
	"net/http"

	"github.com/Ayash-Bera/kuna/backend/internal/models"
	"github.com/Ayash-Bera/kuna/backend/internal/services"
	"github.com/Ayash-Bera/kuna/backend/pkg/utils"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type QuestionnaireHandler struct {
	questionnaireService *services.QuestionnaireService
	logger               *logrus.Logger
}

func NewQuestionnaireHandler(questionnaireService *services.QuestionnaireService, logger *logrus.Logger) *QuestionnaireHandler {
	return &QuestionnaireHandler{
		questionnaireService: questionnaireService,
		logger:               logger,
	}
}

func (h *QuestionnaireHandler) ListQuestions(c *gin.Context) {
	questions, err := h.questionnaireService.ListQuestions()
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, questions)
}

func (h *QuestionnaireHandler) Submit(c *gin.Context) {
	var req models.SubmitQuestionnaireRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	sessionID, err := h.questionnaireService.Submit(req.Email, req.Answers)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, models.SubmitQuestionnaireResponse{SessionID: sessionID})
}

func (h *QuestionnaireHandler) GetResults(c *gin.Context) {
	results, err := h.questionnaireService.GetResults(c.Param("session_id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, results)
}

func (h *QuestionnaireHandler) SelectTherapist(c *gin.Context) {
	var req models.UserSelectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	if err := h.questionnaireService.SelectTherapist(req); err != nil {
		respondError(c, h.logger, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Selection recorded successfully", "")
}
