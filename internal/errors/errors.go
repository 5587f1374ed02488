package errors

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Error codes
const (
	// Authentication errors
	ErrCodeUnauthorized       = "UNAUTHORIZED"
	ErrCodeInvalidCredentials = "INVALID_CREDENTIALS"
	ErrCodeUserDisabled       = "USER_DISABLED"

	// Authorization errors
	ErrCodeForbidden = "FORBIDDEN"

	// Validation errors
	ErrCodeInvalidInput = "INVALID_INPUT"
	ErrCodeNoFamily     = "NO_FAMILY"

	// Resource errors
	ErrCodeNotFound        = "NOT_FOUND"
	ErrCodeConflict        = "CONFLICT"
	ErrCodeAlreadyInFamily = "ALREADY_IN_FAMILY"

	// Service errors
	ErrCodeInternalError      = "INTERNAL_ERROR"
	ErrCodeServiceUnavailable = "SERVICE_UNAVAILABLE"
)

// APIError is the error envelope returned by every failing endpoint.
// Code mirrors the HTTP status; Kind is the machine-readable error code.
type APIError struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Code    int         `json:"code"`
	Kind    string      `json:"error"`
	Details interface{} `json:"details,omitempty"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	return e.Message
}

// NewAPIError creates a new APIError
func NewAPIError(status int, kind, message string) *APIError {
	return &APIError{
		Success: false,
		Message: message,
		Code:    status,
		Kind:    kind,
	}
}

// NewAPIErrorWithDetails creates a new APIError with details
func NewAPIErrorWithDetails(status int, kind, message string, details interface{}) *APIError {
	err := NewAPIError(status, kind, message)
	err.Details = details
	return err
}

// RespondWithError sends an error response
func RespondWithError(c *gin.Context, err *APIError) {
	c.JSON(err.Code, err)
}

func respond(c *gin.Context, status int, kind, message, fallback string) {
	if message == "" {
		message = fallback
	}
	RespondWithError(c, NewAPIError(status, kind, message))
}

// Helper functions for common error responses

// Unauthorized sends a 401 response
func Unauthorized(c *gin.Context, message string) {
	respond(c, http.StatusUnauthorized, ErrCodeUnauthorized, message, "Authentication required")
}

// InvalidCredentials sends a 401 response for a failed login
func InvalidCredentials(c *gin.Context, message string) {
	respond(c, http.StatusUnauthorized, ErrCodeInvalidCredentials, message, "Invalid phone or password")
}

// UserDisabled sends a 403 response for a deactivated account
func UserDisabled(c *gin.Context, message string) {
	respond(c, http.StatusForbidden, ErrCodeUserDisabled, message, "User account is disabled")
}

// Forbidden sends a 403 response
func Forbidden(c *gin.Context, message string) {
	respond(c, http.StatusForbidden, ErrCodeForbidden, message, "Access denied")
}

// NotFound sends a 404 response
func NotFound(c *gin.Context, message string) {
	respond(c, http.StatusNotFound, ErrCodeNotFound, message, "Resource not found")
}

// BadRequest sends a 400 response
func BadRequest(c *gin.Context, message string) {
	respond(c, http.StatusBadRequest, ErrCodeInvalidInput, message, "Invalid request")
}

// BadRequestWithDetails sends a 400 response with details
func BadRequestWithDetails(c *gin.Context, message string, details interface{}) {
	RespondWithError(c, NewAPIErrorWithDetails(http.StatusBadRequest, ErrCodeInvalidInput, message, details))
}

// NoFamily sends a 400 response for a caller without an active family
func NoFamily(c *gin.Context, message string) {
	respond(c, http.StatusBadRequest, ErrCodeNoFamily, message, "You have not joined a family")
}

// Conflict sends a 409 response
func Conflict(c *gin.Context, message string) {
	respond(c, http.StatusConflict, ErrCodeConflict, message, "Resource conflict")
}

// AlreadyInFamily sends a 409 response for a user that already has a family
func AlreadyInFamily(c *gin.Context, message string) {
	respond(c, http.StatusConflict, ErrCodeAlreadyInFamily, message, "User already belongs to a family")
}

// InternalError sends a 500 response
func InternalError(c *gin.Context, message string) {
	respond(c, http.StatusInternalServerError, ErrCodeInternalError, message, "Internal server error")
}

// ServiceUnavailable sends a 503 response
func ServiceUnavailable(c *gin.Context, message string) {
	respond(c, http.StatusServiceUnavailable, ErrCodeServiceUnavailable, message, "Service temporarily unavailable")
}
