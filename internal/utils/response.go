// internal/utils/response.go
package utils

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Piyush5621/AnarchyBay/internal/i18n"
)

// APIResponse is the envelope of every JSON body the API writes.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *APIError   `json:"error,omitempty"`
	Meta    interface{} `json:"meta,omitempty"`
}

type APIError struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

var defaultErrorCodes = map[int]string{
	http.StatusBadRequest:          "BAD_REQUEST",
	http.StatusUnauthorized:        "UNAUTHORIZED",
	http.StatusForbidden:           "FORBIDDEN",
	http.StatusNotFound:            "NOT_FOUND",
	http.StatusConflict:            "CONFLICT",
	http.StatusTooManyRequests:     "RATE_LIMITED",
	http.StatusInternalServerError: "INTERNAL_ERROR",
	http.StatusBadGateway:          "BAD_GATEWAY",
	http.StatusServiceUnavailable:  "SERVICE_UNAVAILABLE",
}

func SuccessResponse(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: data})
}

func CreatedResponse(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, APIResponse{Success: true, Data: data})
}

// PaginatedResponse writes one page of a listing. The counts are repeated in
// X-Total-Count and X-Total-Pages for clients that only read headers.
func PaginatedResponse(c *gin.Context, data interface{}, total int64, params PaginationParams) {
	meta := params.Meta(total)
	c.Header("X-Total-Count", strconv.FormatInt(meta.Total, 10))
	c.Header("X-Total-Pages", strconv.Itoa(meta.TotalPages))
	c.JSON(http.StatusOK, APIResponse{
		Success: true,
		Data:    data,
		Meta:    gin.H{"pagination": meta},
	})
}

func ErrorResponse(c *gin.Context, status int, code, message string, details interface{}) {
	c.JSON(status, APIResponse{
		Error: &APIError{Code: code, Message: message, Details: details},
	})
}

// Fail writes an error with the conventional code for status.
func Fail(c *gin.Context, status int, message string) {
	code, ok := defaultErrorCodes[status]
	if !ok {
		code = "ERROR"
	}
	ErrorResponse(c, status, code, message, nil)
}

func BadRequestResponse(c *gin.Context, message string, details interface{}) {
	if message == "" {
		message = i18n.T(GetLangFromContext(c), i18n.KeyValidationInvalid, "request")
	}
	ErrorResponse(c, http.StatusBadRequest, "BAD_REQUEST", message, details)
}

func UnauthorizedResponse(c *gin.Context, message string) {
	if message == "" {
		message = i18n.T(GetLangFromContext(c), i18n.KeyAuthRequired)
	}
	Fail(c, http.StatusUnauthorized, message)
}

func ForbiddenResponse(c *gin.Context, message string) {
	if message == "" {
		message = i18n.T(GetLangFromContext(c), i18n.KeyRoleAccessDenied)
	}
	Fail(c, http.StatusForbidden, message)
}

// InternalErrorResponse never echoes the underlying error to the client.
func InternalErrorResponse(c *gin.Context) {
	Fail(c, http.StatusInternalServerError, "Internal server error")
}

func ValidationErrorResponse(c *gin.Context, errors []ValidationError) {
	message := i18n.T(GetLangFromContext(c), i18n.KeyValidationInvalid, "input")
	ErrorResponse(c, http.StatusBadRequest, "VALIDATION_ERROR", message, errors)
}
