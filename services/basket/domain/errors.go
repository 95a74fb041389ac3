// Package domain holds the sentinel errors shared by the basket bounded
// context. Use errors.Is() to check these.
package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation is the single family covering every domain precondition
	// failure: unknown seller key, missing required object, state toggles on
	// the wrong state, numeric bounds, and string-format violations. All are
	// local and non-retryable.
	ErrValidation = errors.New("validation failure")

	// ErrBasketNotFound indicates the requested basket does not exist.
	ErrBasketNotFound = errors.New("basket not found")

	// ErrCouponNotFound indicates the requested coupon does not exist.
	ErrCouponNotFound = errors.New("coupon not found")

	// ErrBasketAlreadyExists indicates the customer already has a basket.
	ErrBasketAlreadyExists = errors.New("basket already exists for customer")
)

// Validationf wraps ErrValidation with a formatted detail message so callers
// can match the family with errors.Is while keeping the specific reason.
func Validationf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}
