// internal/utils/response.go
package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/javajoker/geomarket/internal/i18n"
)

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Context keys shared by middleware and handlers.
const (
	ContextKeyLang      = "lang"
	ContextKeySubjectID = "subject_id"
	ContextKeyRole      = "role"
	ContextKeyRequestID = "request_id"
)

type APIResponse struct {
	Status  string      `json:"status"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Details interface{} `json:"details,omitempty"`
}

func SuccessResponse(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusOK, APIResponse{
		Status:  StatusSuccess,
		Message: message,
		Data:    data,
	})
}

func CreatedResponse(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusCreated, APIResponse{
		Status:  StatusSuccess,
		Message: message,
		Data:    data,
	})
}

func ErrorResponse(c *gin.Context, statusCode int, message string, details interface{}) {
	c.AbortWithStatusJSON(statusCode, APIResponse{
		Status:  StatusError,
		Message: message,
		Details: details,
	})
}

func BadRequestResponse(c *gin.Context, message string, details interface{}) {
	if message == "" {
		message = i18n.T(GetLangFromContext(c), i18n.KeyInvalidRequest)
	}
	ErrorResponse(c, http.StatusBadRequest, message, details)
}

func UnauthorizedResponse(c *gin.Context, message string) {
	if message == "" {
		message = i18n.T(GetLangFromContext(c), i18n.KeyAuthRequired)
	}
	ErrorResponse(c, http.StatusUnauthorized, message, nil)
}

func ForbiddenResponse(c *gin.Context, message string) {
	if message == "" {
		message = i18n.T(GetLangFromContext(c), i18n.KeyForbidden)
	}
	ErrorResponse(c, http.StatusForbidden, message, nil)
}

func NotFoundResponse(c *gin.Context, message string) {
	if message == "" {
		message = i18n.T(GetLangFromContext(c), i18n.KeyNotFound)
	}
	ErrorResponse(c, http.StatusNotFound, message, nil)
}

func ConflictResponse(c *gin.Context, message string) {
	ErrorResponse(c, http.StatusConflict, message, nil)
}

// InternalErrorResponse logs err and answers 500 with a generic message.
func InternalErrorResponse(c *gin.Context, err error) {
	logrus.WithError(err).WithFields(logrus.Fields{
		"request_id": GetRequestIDFromContext(c),
		"method":     c.Request.Method,
		"path":       c.FullPath(),
	}).Error("Request failed")
	ErrorResponse(c, http.StatusInternalServerError, i18n.T(GetLangFromContext(c), i18n.KeyInternalError), nil)
}

func ValidationErrorResponse(c *gin.Context, errors []ValidationError) {
	message := i18n.T(GetLangFromContext(c), i18n.KeyValidationInvalid, "input")
	ErrorResponse(c, http.StatusUnprocessableEntity, message, errors)
}

func GetLangFromContext(c *gin.Context) string {
	if lang, exists := c.Get(ContextKeyLang); exists {
		if langStr, ok := lang.(string); ok {
			return langStr
		}
	}
	return "en"
}

func GetSubjectIDFromContext(c *gin.Context) (uint, bool) {
	if id, exists := c.Get(ContextKeySubjectID); exists {
		if subjectID, ok := id.(uint); ok {
			return subjectID, true
		}
	}
	return 0, false
}

func GetRoleFromContext(c *gin.Context) (string, bool) {
	if role, exists := c.Get(ContextKeyRole); exists {
		if roleStr, ok := role.(string); ok {
			return roleStr, true
		}
	}
	return "", false
}

func GetRequestIDFromContext(c *gin.Context) string {
	return c.GetString(ContextKeyRequestID)
}
