package product

import "errors"

var (
	// -- Validation & Input --
	ErrInvalidProductID = errors.New("invalid product id")
	ErrInvalidPrice     = errors.New("product price must be positive")
	ErrNameRequired     = errors.New("product name is required")
	ErrUnknownCategory  = errors.New("unknown category id")

	// -- Resource State --
	ErrProductNotFound = errors.New("product not found")
)
