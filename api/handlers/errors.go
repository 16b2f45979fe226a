package handlers

import (
	"net/http"

	"github.com/creativehub205/ladies-tailor-shop/api/middleware"
	"github.com/creativehub205/ladies-tailor-shop/internal/service"
	"github.com/creativehub205/ladies-tailor-shop/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Error represents an API error
type Error struct {
	Message    string
	StatusCode int
	Code       string
}

// Error implements the error interface
func (e *Error) Error() string {
	return e.Message
}

// Common API errors
var (
	ErrInvalidID          = &Error{Message: "Invalid ID", StatusCode: http.StatusBadRequest, Code: "INVALID_ID"}
	ErrInvalidRequest     = &Error{Message: "Invalid request body", StatusCode: http.StatusBadRequest, Code: "INVALID_REQUEST"}
	ErrOrderNotFound      = &Error{Message: "Order not found", StatusCode: http.StatusNotFound, Code: "NOT_FOUND"}
	ErrCustomerNotFound   = &Error{Message: "Customer not found", StatusCode: http.StatusNotFound, Code: "NOT_FOUND"}
	ErrCustomerHasOrders  = &Error{Message: "Cannot delete customer with existing orders. Please delete all orders first.", StatusCode: http.StatusBadRequest, Code: "CUSTOMER_HAS_ORDERS"}
	ErrInvalidCredentials = &Error{Message: "Invalid credentials", StatusCode: http.StatusUnauthorized, Code: "INVALID_CREDENTIALS"}
	ErrTokenRequired      = &Error{Message: "Access token required", StatusCode: http.StatusUnauthorized, Code: "UNAUTHORIZED"}
	ErrInvalidToken       = &Error{Message: "Invalid or expired token", StatusCode: http.StatusForbidden, Code: "FORBIDDEN"}
	ErrConflict           = &Error{Message: "Resource already exists", StatusCode: http.StatusConflict, Code: "CONFLICT"}
	ErrUploadTooLarge     = &Error{Message: "Design image too large", StatusCode: http.StatusRequestEntityTooLarge, Code: "UPLOAD_TOO_LARGE"}
	ErrDatabase           = &Error{Message: "Database error", StatusCode: http.StatusInternalServerError, Code: "INTERNAL_ERROR"}
)

// classify maps service errors onto API errors. Unknown errors map to nil.
func classify(err error) *Error {
	var apiErr *Error
	var verr *service.ValidationError

	switch {
	case errors.As(err, &apiErr):
		return apiErr
	case errors.As(err, &verr):
		return &Error{Message: verr.Message, StatusCode: http.StatusBadRequest, Code: "VALIDATION_ERROR"}
	case errors.Is(err, service.ErrOrderNotFound):
		return ErrOrderNotFound
	case errors.Is(err, service.ErrCustomerNotFound):
		return ErrCustomerNotFound
	case errors.Is(err, service.ErrCustomerHasOrders):
		return ErrCustomerHasOrders
	case errors.Is(err, service.ErrInvalidCredentials):
		return ErrInvalidCredentials
	case errors.Is(err, service.ErrConflict):
		return ErrConflict
	case errors.Is(err, session.ErrInvalidToken), errors.Is(err, session.ErrRevokedToken):
		return ErrInvalidToken
	}
	return nil
}

// RespondError writes err as {"error": message} with the matching status.
// Unclassified errors are logged and reported as a database error.
func RespondError(c *gin.Context, err error, log *logrus.Logger) {
	apiErr := classify(err)
	if apiErr == nil {
		log.WithError(err).WithFields(logrus.Fields{
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"request_id": c.GetString(middleware.RequestIDKey),
		}).Error("Request failed")
		apiErr = ErrDatabase
	}

	c.AbortWithStatusJSON(apiErr.StatusCode, gin.H{"error": apiErr.Message})
}
