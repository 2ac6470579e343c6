package domain

import "fmt"

// UploadError is the failure result of an upload. Kind is one of the sentinel
// errors (ErrInvalidDraft, ErrNetworkFailure, ErrUploadInFlight) so callers can
// branch with errors.Is; Reason is the short user-facing explanation.
type UploadError struct {
	Kind   error
	Reason string
	Err    error
}

// NewUploadError builds an UploadError.
func NewUploadError(kind error, reason string, cause error) *UploadError {
	return &UploadError{Kind: kind, Reason: reason, Err: cause}
}

func (e *UploadError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%v: %s: %v", e.Kind, e.Reason, e.Err)
	}
	return fmt.Sprintf("%v: %s", e.Kind, e.Reason)
}

// Is matches the sentinel kind.
func (e *UploadError) Is(target error) bool {
	return target == e.Kind
}

// Unwrap exposes the underlying cause.
func (e *UploadError) Unwrap() error {
	return e.Err
}

// Retryable reports whether resubmitting the same draft may succeed.
func (e *UploadError) Retryable() bool {
	return e.Kind == ErrNetworkFailure
}
