package utils

import (
	"github.com/gin-gonic/gin"
)

type APIResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	ID      string `json:"id,omitempty"`
}

type ErrorBody struct {
	Success bool              `json:"success"`
	Detail  string            `json:"detail"`
	Errors  map[string]string `json:"errors,omitempty"`
}

// SuccessResponse writes {"success": true, "message": ...} plus the id of a created record when given
func SuccessResponse(c *gin.Context, code int, message string, id string) {
	c.JSON(code, APIResponse{
		Success: true,
		Message: message,
		ID:      id,
	})
}

// ErrorResponse writes {"success": false, "detail": ...} with optional per-field errors
func ErrorResponse(c *gin.Context, code int, detail string, fields map[string]string) {
	c.JSON(code, ErrorBody{
		Success: false,
		Detail:  detail,
		Errors:  fields,
	})
}

// AbortWithError is ErrorResponse for middleware that must stop the chain
func AbortWithError(c *gin.Context, code int, detail string) {
	ErrorResponse(c, code, detail, nil)
	c.Abort()
}
