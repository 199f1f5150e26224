package apperrors

import "errors"

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrConflict indicates the operation conflicts with the current state of the resource.
var ErrConflict = errors.New("operation conflicts with resource state")

// ErrForbidden indicates the actor is not allowed to perform the operation.
var ErrForbidden = errors.New("operation not allowed")

// ErrUnbalanced indicates a journal entry whose debits and credits do not match per currency.
var ErrUnbalanced = errors.New("journal entry does not balance")

// ErrInvalidAccount indicates a line references an unknown or wrong-tenant account.
var ErrInvalidAccount = errors.New("invalid account reference")

// ErrInactiveAccount indicates a line references a deactivated account.
var ErrInactiveAccount = errors.New("account is inactive")

// ErrCurrencyMismatch indicates a line currency that disagrees with its account.
var ErrCurrencyMismatch = errors.New("currency mismatch")

// ErrInvalidTransition indicates a remittance state edge that is not allowed.
var ErrInvalidTransition = errors.New("invalid state transition")

// ErrDoubleReversal indicates an attempt to reverse an entry that was already reversed.
var ErrDoubleReversal = errors.New("entry already reversed")

// ErrMissingPolicy indicates no commission policy rule matched a commission-bearing event.
var ErrMissingPolicy = errors.New("no matching commission policy")

// ErrUnknownEventKind indicates a business event kind the posting engine cannot project.
var ErrUnknownEventKind = errors.New("unknown event kind")

// ErrBusy indicates the per-tenant append queue is full; the caller may retry.
var ErrBusy = errors.New("tenant write queue is full")

// ErrInternal indicates an underlying store failure; retryable at the caller's discretion.
var ErrInternal = errors.New("internal error")

// AppError carries a status code alongside the wrapped cause. Repositories use it
// to classify store failures without leaking SQL details to callers.
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrInternal
}

// NewAppError creates an AppError wrapping the given cause.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}
