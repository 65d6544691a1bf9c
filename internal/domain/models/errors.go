package models

import (
	"errors"
	"fmt"
)

// ErrorKind classifies estimation failures so callers can report them.
type ErrorKind string

const (
	KindFetch               ErrorKind = "fetch"
	KindInsufficientData    ErrorKind = "insufficient_data"
	KindUnsupportedInterval ErrorKind = "unsupported_interval"
	KindRegression          ErrorKind = "regression"

	// Reply-only kinds, never carried by an EstimationError.
	KindInvalidRequest ErrorKind = "invalid_request"
	KindInternal       ErrorKind = "internal"
)

var (
	ErrFetch               = errors.New("market data fetch failed")
	ErrInsufficientData    = errors.New("insufficient data")
	ErrUnsupportedInterval = errors.New("unsupported interval")
	ErrRegression          = errors.New("regression failed")
)

// EstimationError is the tagged error returned by every pipeline stage.
type EstimationError struct {
	Kind   ErrorKind
	Op     string
	Ticker string
	Err    error
}

func (e *EstimationError) Error() string {
	msg := e.Op
	if e.Ticker != "" {
		msg += " " + e.Ticker
	}
	if sentinel := e.Kind.sentinel(); sentinel != nil {
		msg += ": " + sentinel.Error()
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *EstimationError) Unwrap() error { return e.Err }

// Is matches the sentinel of the error's kind.
func (e *EstimationError) Is(target error) bool {
	return target == e.Kind.sentinel()
}

func (k ErrorKind) sentinel() error {
	switch k {
	case KindFetch:
		return ErrFetch
	case KindInsufficientData:
		return ErrInsufficientData
	case KindUnsupportedInterval:
		return ErrUnsupportedInterval
	case KindRegression:
		return ErrRegression
	default:
		return nil
	}
}

func NewFetchError(ticker string, err error) error {
	return &EstimationError{Kind: KindFetch, Op: "fetch", Ticker: ticker, Err: err}
}

func NewInsufficientDataError(op, format string, a ...interface{}) error {
	return &EstimationError{Kind: KindInsufficientData, Op: op, Err: fmt.Errorf(format, a...)}
}

func NewUnsupportedIntervalError(op, interval string) error {
	return &EstimationError{Kind: KindUnsupportedInterval, Op: op, Err: fmt.Errorf("%q is not one of daily, weekly, monthly", interval)}
}

func NewRegressionError(format string, a ...interface{}) error {
	return &EstimationError{Kind: KindRegression, Op: "regression", Err: fmt.Errorf(format, a...)}
}

// KindOf returns the kind of a tagged error, or "" for other errors.
func KindOf(err error) ErrorKind {
	var ee *EstimationError
	if errors.As(err, &ee) {
		return ee.Kind
	}
	return ""
}
