package repository

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned by all repositories when a lookup misses.
var ErrNotFound = errors.New("not found")

// InsufficientStockError aborts a stock issue when any line item exceeds the
// available balance. No balance changes when it is returned.
type InsufficientStockError struct {
	SAPCode   string
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s: requested %d, available %d",
		e.SAPCode, e.Requested, e.Available)
}
