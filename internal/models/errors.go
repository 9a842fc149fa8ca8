package models

import "errors"

// Lookup errors. Each one is recoverable at the (choice, year) granularity.
var (
	ErrNotFound         = errors.New("record not found")
	ErrNoData           = errors.New("no core zone group size data")
	ErrNoMatch          = errors.New("no comparable historical choice sets")
	ErrNoRecord         = errors.New("no exact choice set record")
	ErrStoreUnavailable = errors.New("record store unavailable")
	ErrInvalidDate      = errors.New("invalid permit date")
)
