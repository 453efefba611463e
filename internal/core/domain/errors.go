package domain

import (
	"errors"
	"fmt"
)

// Common domain errors
var (
	ErrNotFound           = errors.New("resource not found")
	ErrInvalidInput       = errors.New("invalid input")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrInternalServer     = errors.New("internal server error")
	ErrDuplicateEntry     = errors.New("duplicate entry")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenInvalid       = errors.New("token invalid")
)

// User errors
var (
	ErrUserNotFound      = errors.New("user not found")
	ErrUserAlreadyExists = errors.New("user already exists")
	ErrUserInactive      = errors.New("user account is inactive")
	ErrInvalidPassword   = errors.New("invalid password")
)

// Order errors
var (
	ErrPartNotFound             = errors.New("part not found")
	ErrPartInactive             = errors.New("part is not available")
	ErrEmptyOrder               = errors.New("order has no line items")
	ErrShippingMethodNotFound   = errors.New("shipping method not found")
	ErrOrderNotFound            = errors.New("order not found")
	ErrInvalidStatusTransition  = errors.New("invalid order status transition")
	ErrOrderNumberConflict      = errors.New("order number already exists")
)

// Quote errors
var (
	ErrQuoteNotFound     = errors.New("quote not found")
	ErrQuoteNotOpen      = errors.New("quote is not open")
	ErrQuoteExpired      = errors.New("quote has expired")
)

// InsufficientStockError reports a line item that cannot be satisfied.
// It carries enough detail for the client to adjust the cart.
type InsufficientStockError struct {
	PartID    uint
	Available int
	Requested int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for part %d: requested %d, available %d",
		e.PartID, e.Requested, e.Available)
}
