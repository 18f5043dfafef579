package common

import "errors"

// Sentinel errors shared across nzbmule layers. Callers match them with
// errors.Is.
var (
	// ErrModeConflict is returned when more than one mutually exclusive
	// mode switch is set on the command line.
	ErrModeConflict = errors.New("more than one mutually exclusive mode flag is set")

	// ErrCancelled wraps context cancellation so a run can report how far
	// it got before the interrupt.
	ErrCancelled = errors.New("run cancelled")

	// ErrLedger marks resume-ledger storage faults. They abort the run:
	// without the ledger the dedup state is unknown and continuing would
	// risk duplicate uploads.
	ErrLedger = errors.New("resume ledger storage error")
)
