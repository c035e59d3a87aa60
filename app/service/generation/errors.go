package generation

import (
	"errors"
	"fmt"
	"strings"
)

// ResourceExhaustedMarker is the status text the API uses for rate and quota limits.
const ResourceExhaustedMarker = "RESOURCE_EXHAUSTED"

var (
	// ErrResourceExhausted is wrapped by backends that detect rate limiting
	// from a status code rather than from the message text.
	ErrResourceExhausted = errors.New("resource exhausted")

	ErrRetryExhausted    = errors.New("generation retries exhausted, try again later")
	ErrMalformedResponse = errors.New("malformed generation response")
)

// Kind is the retry classification of a generation failure.
type Kind int

const (
	KindFatal Kind = iota
	KindTransient
)

func (k Kind) String() string {
	switch k {
	case KindTransient:
		return "transient"
	case KindFatal:
		return "fatal"
	default:
		return "unknown"
	}
}

// IsResourceExhausted reports whether err signals temporary rate or quota exhaustion.
func IsResourceExhausted(err error) bool {
	if err == nil || errors.Is(err, ErrRetryExhausted) {
		return false
	}
	if errors.Is(err, ErrResourceExhausted) {
		return true
	}
	return strings.Contains(strings.ToUpper(err.Error()), ResourceExhaustedMarker)
}

// Classify returns KindTransient for resource exhaustion and KindFatal for
// everything else.
func Classify(err error) Kind {
	if IsResourceExhausted(err) {
		return KindTransient
	}
	return KindFatal
}

// FatalError is a non-retryable generation failure.
type FatalError struct {
	Err error
}

func (e *FatalError) Error() string {
	return fmt.Sprintf("generation failed: %v", e.Err)
}

func (e *FatalError) Unwrap() error {
	return e.Err
}

// RetryExhaustedError is returned after every attempt failed transiently.
// It matches ErrRetryExhausted with errors.Is.
type RetryExhaustedError struct {
	Attempts int
	Last     error
}

func (e *RetryExhaustedError) Error() string {
	return fmt.Sprintf("%v after %d attempts: %v", ErrRetryExhausted, e.Attempts, e.Last)
}

func (e *RetryExhaustedError) Is(target error) bool {
	return target == ErrRetryExhausted
}

// IsFatal reports whether err is a non-retryable generation failure.
func IsFatal(err error) bool {
	var fatal *FatalError
	return errors.As(err, &fatal)
}
