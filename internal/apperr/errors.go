// Package apperr holds the business error kinds shared by the store, the
// booking engine and the HTTP adaptor. Callers branch on them with errors.Is.
package apperr

import "errors"

var (
	ErrInvalidSlot      = errors.New("invalid availability slot")
	ErrInvalidDate      = errors.New("invalid booking date")
	ErrInvalidInput     = errors.New("invalid input")
	ErrOwnerMismatch    = errors.New("owner mismatch")
	ErrSlotUnavailable  = errors.New("slot unavailable")
	ErrAlreadyCancelled = errors.New("booking already cancelled")
	ErrNotFound         = errors.New("not found")

	// ErrStoreUnavailable marks failures of the store round-trip itself
	// (network, pool, driver). It is the only kind worth retrying.
	ErrStoreUnavailable = errors.New("store unavailable")
)

type storeError struct {
	err error
}

func (e *storeError) Error() string {
	return e.err.Error()
}

func (e *storeError) Unwrap() []error {
	return []error{ErrStoreUnavailable, e.err}
}

// Store tags err as ErrStoreUnavailable while keeping the driver error in the chain.
func Store(err error) error {
	if err == nil {
		return nil
	}
	return &storeError{err: err}
}

// IsBusiness reports whether err is one of the expected business outcomes
// rather than an infrastructure failure.
func IsBusiness(err error) bool {
	for _, kind := range []error{
		ErrInvalidSlot,
		ErrInvalidDate,
		ErrInvalidInput,
		ErrOwnerMismatch,
		ErrSlotUnavailable,
		ErrAlreadyCancelled,
		ErrNotFound,
	} {
		if errors.Is(err, kind) {
			return true
		}
	}
	return false
}
