package pricing

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidQuantity is returned when a dimension or quantity is negative or NaN.
	ErrInvalidQuantity = errors.New("pricing: invalid quantity")
	// ErrMissingMaterial is returned when a component or slot references an unknown material.
	ErrMissingMaterial = errors.New("pricing: material reference not found")
	// ErrBelowMinimumPrice is returned when an operator-entered unit price violates the computed floor.
	ErrBelowMinimumPrice = errors.New("pricing: unit price below minimum")
	// ErrZoneUnresolved is returned when a zone id was supplied but not found in the snapshot.
	ErrZoneUnresolved = errors.New("pricing: zone not resolved")
	// ErrCatalogUnresolved is returned when a catalog id was supplied but not found in the snapshot.
	ErrCatalogUnresolved = errors.New("pricing: catalog not resolved")
	// ErrUnpriceable is returned when a standard request names neither a catalog nor a material.
	ErrUnpriceable = errors.New("pricing: request references neither catalog nor material")
)

// FloorError reports a rejected unit price together with the computed floor so
// the caller can display it.
type FloorError struct {
	Offered float64
	Minimum Money
}

func (e *FloorError) Error() string {
	return fmt.Sprintf("pricing: unit price %.2f below minimum %d", e.Offered, e.Minimum)
}

// Unwrap lets errors.Is match ErrBelowMinimumPrice.
func (e *FloorError) Unwrap() error { return ErrBelowMinimumPrice }
