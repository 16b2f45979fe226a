package service

import (
	"github.com/pkg/errors"
)

// Domain errors returned by the service layer
var (
	ErrOrderNotFound      = errors.New("order not found")
	ErrCustomerNotFound   = errors.New("customer not found")
	ErrTailorNotFound     = errors.New("tailor not found")
	ErrCustomerHasOrders  = errors.New("customer has existing orders")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrConflict           = errors.New("record already exists")
)

// ValidationError reports a request field that failed validation
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func invalid(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// IsValidationError reports whether err is, or wraps, a ValidationError
func IsValidationError(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}
