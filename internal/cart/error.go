package cart

import "errors"

var (
	// -- Validation & Input --
	ErrInvalidQuantity  = errors.New("cart quantity must be at least 1")
	ErrInvalidProductID = errors.New("invalid product id")

	// -- Resource State --
	ErrItemNotFound   = errors.New("cart item not found")
	ErrNothingChecked = errors.New("no cart items are checked")
)
