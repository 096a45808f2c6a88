package apperrors

import "errors"

// Sentinel errors for the annotation pipeline. Services wrap these with
// fmt.Errorf("%w: ...") so the HTTP layer can map them with errors.Is.
var (
	// ErrValidation marks a document or request that fails schema rules. Never
	// retried, never partially applied.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound marks a missing staged entry or a missing sidecar where one
	// is required.
	ErrNotFound = errors.New("not found")

	// ErrAccess marks permission or unreachable-path failures.
	ErrAccess = errors.New("access denied")

	// ErrDecode marks a sidecar that exists but cannot be parsed, or that does
	// not satisfy the document schema. The store never repairs this itself;
	// callers decide the recovery policy.
	ErrDecode = errors.New("decode failure")
)
