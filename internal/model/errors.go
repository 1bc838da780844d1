package model

import (
	"errors"
	"fmt"
)

var (
	// ErrDataIntegrity marks disclosures that are missing, malformed or too few.
	ErrDataIntegrity = errors.New("data integrity")
	// ErrDataUnavailable marks a benchmark series that could not be retrieved.
	ErrDataUnavailable = errors.New("data unavailable")
)

// Pipeline stage names used in StageError and log fields.
const (
	StageLoad    = "load"
	StageAlign   = "align"
	StageCompose = "compose"
	StageCompare = "compare"
	StageRender  = "render"
)

// StageError identifies the fund and stage an evaluation failed in.
type StageError struct {
	Fund  string
	Stage string
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("fund %s: %s: %v", e.Fund, e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

// Warning is a non-fatal partial-data condition: the ticker's rows are excluded downstream.
type Warning struct {
	Ticker string
	Reason string
}

func (w Warning) String() string {
	return fmt.Sprintf("%s: %s", w.Ticker, w.Reason)
}
