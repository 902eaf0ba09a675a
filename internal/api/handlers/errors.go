// backend/internal/api/handlers/errors.go
package handlers

import (
	"errors"
	"net/http"
	"reflect"
	"strings"
	"sync"

	"github.com/Ayash-Bera/kuna/backend/internal/auth"
	"github.com/Ayash-Bera/kuna/backend/internal/middleware"
	"github.com/Ayash-Bera/kuna/backend/internal/services"
	"github.com/Ayash-Bera/kuna/backend/pkg/utils"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
)

var registerOnce sync.Once

// RegisterValidation makes binding errors report json field names
func RegisterValidation() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			for _, tag := range []string{"json", "form"} {
				name, _, _ := strings.Cut(fld.Tag.Get(tag), ",")
				if name == "-" {
					return ""
				}
				if name != "" {
					return name
				}
			}
			return fld.Name
		})
	})
}

// respondBindError answers a request whose body failed to bind
func respondBindError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			rule := fe.Tag()
			if fe.Param() != "" {
				rule += "=" + fe.Param()
			}
			fields[fe.Field()] = rule
		}
		utils.ErrorResponse(c, http.StatusUnprocessableEntity, "Validation failed", fields)
		return
	}
	utils.ErrorResponse(c, http.StatusUnprocessableEntity, "Invalid request body", nil)
}

// respondError maps service and auth errors to status codes. Anything
// unexpected is logged and answered with a generic 500.
func respondError(c *gin.Context, logger *logrus.Logger, err error) {
	if se, ok := services.AsServiceError(err); ok {
		switch se.Code {
		case services.ErrorInvalid, services.ErrorConflict:
			utils.ErrorResponse(c, http.StatusBadRequest, se.Message, nil)
		case services.ErrorNotFound:
			utils.ErrorResponse(c, http.StatusNotFound, se.Message, nil)
		case services.ErrorForbidden:
			utils.ErrorResponse(c, http.StatusForbidden, se.Message, nil)
		case services.ErrorUnauthorized:
			c.Header("WWW-Authenticate", "Bearer")
			utils.ErrorResponse(c, http.StatusUnauthorized, se.Message, nil)
		default:
			utils.ErrorResponse(c, http.StatusBadRequest, se.Message, nil)
		}
		return
	}

	switch {
	case errors.Is(err, auth.ErrInvalidCredentials):
		c.Header("WWW-Authenticate", "Bearer")
		utils.ErrorResponse(c, http.StatusUnauthorized, "Incorrect email or password", nil)
	case errors.Is(err, auth.ErrInvalidToken):
		middleware.Unauthorized(c)
	case errors.Is(err, auth.ErrForbidden):
		utils.ErrorResponse(c, http.StatusForbidden, "Not enough permissions", nil)
	default:
		logger.WithError(err).WithFields(logrus.Fields{
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"request_id": c.GetString("request_id"),
		}).Error("Request failed")
		utils.ErrorResponse(c, http.StatusInternalServerError, "Internal server error", nil)
	}
}
