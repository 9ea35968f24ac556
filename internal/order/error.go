package order

import "errors"

var (
	// -- Validation & Input --
	ErrInvalidOrderID  = errors.New("invalid order id")
	ErrUnknownStatus   = errors.New("unknown order status")
	ErrReasonRequired  = errors.New("rejection reason is required")
	ErrNoItems         = errors.New("order has no items")
	ErrInvalidQuantity = errors.New("order item quantity must be at least 1")

	// -- Resource State --
	ErrOrderNotFound = errors.New("order not found")
)
