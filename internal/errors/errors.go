package errors

import (
	"errors"
	"net/http"
)

var (
	// ErrUserNotFound is returned when a user is not found.
	ErrUserNotFound = errors.New("user not found")
	// ErrCropNotFound is returned when a crop is not found.
	ErrCropNotFound = errors.New("crop not found")
	// ErrShipmentNotFound is returned when a shipment is not found.
	ErrShipmentNotFound = errors.New("shipment not found")
	// ErrTransactionNotFound is returned when a transaction is not found.
	ErrTransactionNotFound = errors.New("transaction not found")

	// ErrEmailExists is returned when registering with a duplicate email.
	ErrEmailExists = errors.New("email already registered")
	// ErrInvalidCredentials is returned when email or password is incorrect.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrInvalidToken is returned when a bearer token fails verification.
	ErrInvalidToken = errors.New("invalid token")
	// ErrExpiredToken is returned when a bearer token is past its expiry.
	ErrExpiredToken = errors.New("token expired")
	// ErrInvalidRefreshToken is returned when a refresh token is invalid or revoked.
	ErrInvalidRefreshToken = errors.New("invalid or expired refresh token")
	// ErrAccountDeactivated is returned when the authenticated account is inactive.
	ErrAccountDeactivated = errors.New("account is deactivated")
	// ErrForbidden is returned on role or ownership mismatch.
	ErrForbidden = errors.New("insufficient permissions")

	// ErrMissingFarmDetails is returned when a farmer registers without farm details.
	ErrMissingFarmDetails = errors.New("farm details are required for farmer accounts")
	// ErrInvalidQuantity is returned when a quantity is out of range.
	ErrInvalidQuantity = errors.New("quantity must be at least 1")
	// ErrInsufficientQuantity is returned when a sale exceeds the remaining crop quantity.
	ErrInsufficientQuantity = errors.New("insufficient crop quantity")
	// ErrCropUnavailable is returned when the crop is not open for sale.
	ErrCropUnavailable = errors.New("crop is not available")
	// ErrInvalidTransition is returned on a disallowed status transition.
	ErrInvalidTransition = errors.New("invalid status transition")
	// ErrInvalidQRPayload is returned when a QR payload cannot be decoded.
	ErrInvalidQRPayload = errors.New("invalid qr payload")
)

// Envelope is the uniform response shape for every endpoint.
type Envelope struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Errors  interface{} `json:"errors,omitempty"`
}

// HTTPError represents an HTTP error with status code and machine code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
	Fields     map[string]string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// NewValidationError creates a 422 error carrying field-level messages.
func NewValidationError(fields map[string]string) *HTTPError {
	return &HTTPError{
		StatusCode: http.StatusUnprocessableEntity,
		Message:    "validation failed",
		Code:       "VALIDATION_ERROR",
		Fields:     fields,
	}
}

// ToEnvelope converts an HTTPError to the uniform response envelope.
func (e *HTTPError) ToEnvelope() Envelope {
	env := Envelope{
		Success: false,
		Message: e.Message,
	}
	if len(e.Fields) > 0 {
		env.Errors = e.Fields
	}
	return env
}

// MapErrorToHTTP maps domain errors to HTTP errors. Anything unrecognized
// becomes a 500 with a generic message so internals never leak to callers.
func MapErrorToHTTP(err error) *HTTPError {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr
	}

	switch {
	case errors.Is(err, ErrUserNotFound),
		errors.Is(err, ErrCropNotFound),
		errors.Is(err, ErrShipmentNotFound),
		errors.Is(err, ErrTransactionNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "NOT_FOUND")
	case errors.Is(err, ErrEmailExists):
		return NewHTTPError(http.StatusConflict, err.Error(), "EMAIL_EXISTS")
	case errors.Is(err, ErrInvalidCredentials):
		return NewHTTPError(http.StatusUnauthorized, err.Error(), "INVALID_CREDENTIALS")
	case errors.Is(err, ErrInvalidToken):
		return NewHTTPError(http.StatusUnauthorized, err.Error(), "INVALID_TOKEN")
	case errors.Is(err, ErrExpiredToken):
		return NewHTTPError(http.StatusUnauthorized, err.Error(), "EXPIRED_TOKEN")
	case errors.Is(err, ErrInvalidRefreshToken):
		return NewHTTPError(http.StatusUnauthorized, err.Error(), "INVALID_REFRESH_TOKEN")
	case errors.Is(err, ErrAccountDeactivated):
		return NewHTTPError(http.StatusUnauthorized, err.Error(), "ACCOUNT_DEACTIVATED")
	case errors.Is(err, ErrForbidden):
		return NewHTTPError(http.StatusForbidden, err.Error(), "FORBIDDEN")
	case errors.Is(err, ErrMissingFarmDetails):
		return NewValidationError(map[string]string{"farmDetails": err.Error()})
	case errors.Is(err, ErrInvalidQuantity):
		return NewValidationError(map[string]string{"quantity": err.Error()})
	case errors.Is(err, ErrInsufficientQuantity),
		errors.Is(err, ErrCropUnavailable),
		errors.Is(err, ErrInvalidTransition),
		errors.Is(err, ErrInvalidQRPayload):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "BAD_REQUEST")
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
}
