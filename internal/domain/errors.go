package domain

import "errors"

var (
	// ErrNotFound indicates the requested entity was not found.
	ErrNotFound = errors.New("not found")

	// ErrInvalidProduct indicates an unknown or unavailable product reference.
	ErrInvalidProduct = errors.New("invalid product")

	// ErrInvalidCustomization indicates a selection naming an option or
	// choice the product does not define.
	ErrInvalidCustomization = errors.New("invalid customization")

	// ErrInvalidQuantity indicates a quantity outside the allowed range.
	ErrInvalidQuantity = errors.New("invalid quantity")

	// ErrLineOutOfRange indicates a line index past the end of the order.
	ErrLineOutOfRange = errors.New("line out of range")

	// ErrEmptyOrder indicates a checkout attempt on an order with no lines.
	ErrEmptyOrder = errors.New("empty order")

	// ErrOrderFinalized indicates a mutation attempt on a finalized order.
	ErrOrderFinalized = errors.New("order already finalized")

	// ErrInvalidPayment indicates an unrecognized payment method.
	ErrInvalidPayment = errors.New("invalid payment method")

	// ErrInvalidCategory indicates an unrecognized product category.
	ErrInvalidCategory = errors.New("invalid category")

	// ErrPersistence indicates a storage failure. The operation that hit it
	// left no partial state behind and may be retried.
	ErrPersistence = errors.New("persistence failure")
)
