package it600

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrConnection reports an unreachable host, a transport failure, a timeout
	// or a response that could not be decrypted or parsed.
	ErrConnection = errors.New("it600: connection error")
	// ErrAuthentication reports a reachable host whose responses cannot be
	// decrypted with the key derived from the configured EUID.
	ErrAuthentication = errors.New("it600: authentication error")
	// ErrCommand reports a request rejected by the gateway or an unknown device.
	ErrCommand = errors.New("it600: command error")
	// ErrValidation reports an out of range argument, checked before any network call.
	ErrValidation = errors.New("it600: validation error")
)

func connectionError(msg string, cause error) error {
	if cause == nil {
		return fmt.Errorf("%w: %s", ErrConnection, msg)
	}
	return fmt.Errorf("%w: %s: %w", ErrConnection, msg, cause)
}

func commandError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrCommand, fmt.Sprintf(format, args...))
}

func validationError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// IsConnectionError reports whether err belongs to the connection class.
func IsConnectionError(err error) bool {
	return errors.Is(err, ErrConnection)
}

// IsAuthenticationError reports whether err belongs to the authentication class.
func IsAuthenticationError(err error) bool {
	return errors.Is(err, ErrAuthentication)
}

// PollError reports the buckets whose detail exchange failed in a poll whose
// readall succeeded. Those buckets keep their previous devices and every other
// bucket was refreshed, so the gateway is still reachable.
type PollError struct {
	Buckets []string
	Err     error
}

func (e *PollError) Error() string {
	return fmt.Sprintf("it600: partial poll, failed buckets [%s]: %v", strings.Join(e.Buckets, ", "), e.Err)
}

func (e *PollError) Unwrap() error {
	return e.Err
}

// IsPartialPollError reports whether err is a *PollError.
func IsPartialPollError(err error) bool {
	var pollErr *PollError
	return errors.As(err, &pollErr)
}
