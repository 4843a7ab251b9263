package epoch

import (
	"errors"
	"fmt"
)

// Sentinel error kinds for this package. These allow errors.Is/As from callers.
var (
	ErrOutOfRange  = errors.New("timestamp out of range")
	ErrInvalidUnit = errors.New("invalid timestamp unit")
	ErrMalformed   = errors.New("malformed date/time")
)

// ConversionRangeError reports a timestamp whose calendar date cannot be
// represented with a four-digit year.
type ConversionRangeError struct {
	Value int64
	Unit  Unit
}

func (e *ConversionRangeError) Error() string {
	return fmt.Sprintf("%s: %d%s converts outside years %04d-%04d",
		ErrOutOfRange, e.Value, e.Unit, MinYear, MaxYear)
}

func (e *ConversionRangeError) Unwrap() error {
	return ErrOutOfRange
}
