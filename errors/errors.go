package errors

import "fmt"

var (
	// Validation and permission failures. Terminal for the requested
	// operation, never retried.
	ErrInvalidMember = fmt.Errorf("member does not exist")
	ErrNotAMember    = fmt.Errorf("sender is not a member of the chat")
	ErrForbidden     = fmt.Errorf("operation restricted to the author")
	ErrNotFound      = fmt.Errorf("record not found")

	// Identity failures.
	ErrInvalidCredentials = fmt.Errorf("invalid credentials")
	ErrUserAlreadyExists  = fmt.Errorf("user already exists")
	ErrInvalidPassword    = fmt.Errorf("password does not meet complexity rules")
	ErrTokenGeneration    = fmt.Errorf("token generation failed")

	// ErrTransientStore marks a store failure with an uncertain outcome.
	// Read paths may retry with backoff; mutating paths must surface it
	// untouched so the caller decides whether a retry is safe.
	ErrTransientStore = fmt.Errorf("transient store failure")

	ErrWorkerPanic = fmt.Errorf("worker panic")
)
