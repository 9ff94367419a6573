package errors

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Error codes
const (
	// Validation errors
	ErrCodeInvalidInput  = "INVALID_INPUT"
	ErrCodeInvalidFormat = "INVALID_FORMAT"

	// Resource errors
	ErrCodeNotFound = "NOT_FOUND"
	ErrCodeConflict = "CONFLICT"

	// Transport errors
	ErrCodeUnsupportedMediaType = "UNSUPPORTED_MEDIA_TYPE"
	ErrCodeTooManyRequests      = "TOO_MANY_REQUESTS"

	// Service errors
	ErrCodeInternalError      = "INTERNAL_ERROR"
	ErrCodeServiceUnavailable = "SERVICE_UNAVAILABLE"
)

// Error keys identify which rule an entity request broke. Clients match on
// these rather than on messages.
const (
	KeyIDExists    = "idexists"
	KeyIDNull      = "idnull"
	KeyIDInvalid   = "idinvalid"
	KeyIDNotFound  = "idnotfound"
	KeyUserInvalid = "userinvalid"
	KeyUserExists  = "userexists"
)

// APIError represents a standardized API error response
type APIError struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	return e.Message
}

// EntityDetails names the entity and rule an error refers to
type EntityDetails struct {
	EntityName string `json:"entityName"`
	ErrorKey   string `json:"errorKey"`
}

// NewAPIError creates a new APIError
func NewAPIError(code, message string) *APIError {
	return &APIError{
		Code:    code,
		Message: message,
	}
}

// NewAPIErrorWithDetails creates a new APIError with details
func NewAPIErrorWithDetails(code, message string, details interface{}) *APIError {
	return &APIError{
		Code:    code,
		Message: message,
		Details: details,
	}
}

// RespondWithError sends an error response and stops the handler chain
func RespondWithError(c *gin.Context, statusCode int, err *APIError) {
	c.AbortWithStatusJSON(statusCode, err)
}

// Helper functions for common error responses

// NotFound sends a 404 response
func NotFound(c *gin.Context, message string) {
	if message == "" {
		message = "Resource not found"
	}
	RespondWithError(c, http.StatusNotFound, NewAPIError(ErrCodeNotFound, message))
}

// BadRequest sends a 400 response
func BadRequest(c *gin.Context, message string) {
	if message == "" {
		message = "Invalid request"
	}
	RespondWithError(c, http.StatusBadRequest, NewAPIError(ErrCodeInvalidInput, message))
}

// BadRequestWithDetails sends a 400 response with details
func BadRequestWithDetails(c *gin.Context, message string, details interface{}) {
	RespondWithError(c, http.StatusBadRequest, NewAPIErrorWithDetails(ErrCodeInvalidInput, message, details))
}

// BadRequestAlert sends a 400 response naming the entity and the broken rule
func BadRequestAlert(c *gin.Context, message, entityName, errorKey string) {
	BadRequestWithDetails(c, message, EntityDetails{EntityName: entityName, ErrorKey: errorKey})
}

// Conflict sends a 409 response
func Conflict(c *gin.Context, message string) {
	if message == "" {
		message = "Resource conflict"
	}
	RespondWithError(c, http.StatusConflict, NewAPIError(ErrCodeConflict, message))
}

// ConflictAlert sends a 409 response naming the entity and the broken rule
func ConflictAlert(c *gin.Context, message, entityName, errorKey string) {
	RespondWithError(c, http.StatusConflict, NewAPIErrorWithDetails(ErrCodeConflict, message,
		EntityDetails{EntityName: entityName, ErrorKey: errorKey}))
}

// UnsupportedMediaType sends a 415 response
func UnsupportedMediaType(c *gin.Context, message string) {
	if message == "" {
		message = "Unsupported content type"
	}
	RespondWithError(c, http.StatusUnsupportedMediaType, NewAPIError(ErrCodeUnsupportedMediaType, message))
}

// TooManyRequests sends a 429 response
func TooManyRequests(c *gin.Context, message string) {
	if message == "" {
		message = "Too many requests"
	}
	RespondWithError(c, http.StatusTooManyRequests, NewAPIError(ErrCodeTooManyRequests, message))
}

// InternalError sends a 500 response
func InternalError(c *gin.Context, message string) {
	if message == "" {
		message = "Internal server error"
	}
	RespondWithError(c, http.StatusInternalServerError, NewAPIError(ErrCodeInternalError, message))
}

// ServiceUnavailable sends a 503 response
func ServiceUnavailable(c *gin.Context, message string) {
	if message == "" {
		message = "Service temporarily unavailable"
	}
	RespondWithError(c, http.StatusServiceUnavailable, NewAPIError(ErrCodeServiceUnavailable, message))
}
