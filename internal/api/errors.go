package api

import (
	"errors"
	"fmt"
)

// Kind classifies what went wrong with a request. Every failure a
// caller sees is exactly one of these; none are retried automatically.
type Kind int

const (
	// KindNetwork covers transport failures: DNS, refused connections,
	// timeouts, a response that never arrived.
	KindNetwork Kind = iota
	// KindServer covers responses with a non-2xx status.
	KindServer
	// KindDecode covers 2xx responses whose body did not decode into
	// the expected shape.
	KindDecode
	// KindUnauthorized is the 401 subset of server failures, kept
	// separate because flows message it differently.
	KindUnauthorized
)

func (k Kind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindServer:
		return "server"
	case KindDecode:
		return "decode"
	case KindUnauthorized:
		return "unauthorized"
	default:
		return "unknown"
	}
}

// Error is the single error type the client returns.
type Error struct {
	Kind   Kind
	Status int // HTTP status, 0 for transport failures
	Err    error
}

func (e *Error) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s error (status %d): %v", e.Kind, e.Status, e.Err)
	}
	return fmt.Sprintf("%s error: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func networkErr(err error) *Error {
	return &Error{Kind: KindNetwork, Err: err}
}

func serverErr(status int) *Error {
	kind := KindServer
	if status == 401 {
		kind = KindUnauthorized
	}
	return &Error{Kind: kind, Status: status, Err: fmt.Errorf("unexpected status %d", status)}
}

func decodeErr(err error) *Error {
	return &Error{Kind: KindDecode, Err: err}
}

// ErrKind reports the classification of a client error, or false when
// the error did not come from this package.
func ErrKind(err error) (Kind, bool) {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Kind, true
	}
	return 0, false
}

// IsUnauthorized reports whether the error is a 401 response.
func IsUnauthorized(err error) bool {
	k, ok := ErrKind(err)
	return ok && k == KindUnauthorized
}
