package domain

import "errors"

// ErrPopulationNotFound is returned when a named population grid does not exist.
var ErrPopulationNotFound = errors.New("population grid not found")
