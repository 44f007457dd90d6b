// Package profile samples terrain between two points and checks radio link clearance over it.
package profile

import "errors"

var (
	// ErrInsufficientPoints is returned when a profile is requested without two points.
	ErrInsufficientPoints = errors.New("two points are required")

	// ErrSelectionFull is returned when a third point is added to a selection.
	ErrSelectionFull = errors.New("selection already holds two points")

	// ErrInvalidParameter is returned for out-of-range link parameters or a zero-length path.
	ErrInvalidParameter = errors.New("invalid link parameter")
)
