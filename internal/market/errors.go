package market

import (
	"errors"
	"fmt"
)

var (
	// ErrNoCandles is returned when the upstream answered with an empty series.
	ErrNoCandles = errors.New("no candles returned")

	ErrShortRow     = errors.New("candle row has fewer than 6 fields")
	ErrMissingField = errors.New("missing field")
	ErrNotNumeric   = errors.New("value is not numeric")
	ErrNonFinite    = errors.New("value is NaN or infinite")
	ErrInvalidOHLC  = errors.New("low/high do not bound open/close")
	ErrUnordered    = errors.New("open times are not strictly ascending")
	ErrBadSymbol    = errors.New("invalid symbol")
)

// FetchError reports that candles for one symbol/interval pair could not be obtained.
type FetchError struct {
	Symbol   string
	Interval string
	Err      error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetching %s %s candles: %v", e.Symbol, e.Interval, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// MalformedCandleError points at the record and field that failed normalization.
type MalformedCandleError struct {
	Index int
	Field string
	Value string
	Err   error
}

func (e *MalformedCandleError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("candle %d: %s: %v", e.Index, e.Field, e.Err)
	}
	return fmt.Sprintf("candle %d: %s=%q: %v", e.Index, e.Field, e.Value, e.Err)
}

func (e *MalformedCandleError) Unwrap() error {
	return e.Err
}
