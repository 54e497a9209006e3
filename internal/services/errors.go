// internal/services/errors.go
package services

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserExists         = errors.New("user with this email already exists")
	ErrMerchantExists     = errors.New("merchant with this email already exists")

	ErrProductExists     = errors.New("product with this ean already exists")
	ErrStockNotOwned     = errors.New("stock does not belong to merchant")
	ErrStockLineNotFound = errors.New("stock line not found")
	ErrStockLineExists   = errors.New("product is already stocked at this location")

	ErrCartNotFound     = errors.New("cart not found")
	ErrOrderNotFound    = errors.New("order not found")
	ErrOrderNotOwned    = errors.New("order belongs to another user")
	ErrOrderConfirmed   = errors.New("order is already confirmed")
	ErrCartEmpty        = errors.New("cart is empty")
	ErrOrderItemMissing = errors.New("order item not found")
	ErrSKUNotFound      = errors.New("sku not found")
)

// InsufficientStockError reports that a stock line cannot cover a quantity.
type InsufficientStockError struct {
	SKUID     uint
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for sku %d: requested %d, available %d", e.SKUID, e.Requested, e.Available)
}
