package model

import (
	"errors"
	"fmt"
	"time"
)

// Error classes shared by every stage of the pipeline. Producers wrap these
// with context; callers match them with errors.Is.
var (
	ErrInvalidArgument  = errors.New("invalid argument")
	ErrNotFound         = errors.New("not found")
	ErrValidation       = errors.New("validation failure")
	ErrAlreadyPublished = errors.New("already published")
	ErrIO               = errors.New("io failure")
)

// DayLayout is the date format used in user-facing messages.
const DayLayout = "Mon, 02-Jan-2006"

// DayError ties a failure to the symbol and trading day it happened on.
type DayError struct {
	Symbol string
	Day    time.Time
	Err    error
}

func (e *DayError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Symbol, e.Day.Format(DayLayout), e.Err)
}

func (e *DayError) Unwrap() error { return e.Err }
