package api

import (
	"errors"
	"fmt"
)

// Kind partitions every failure the client can produce. The partition is
// closed: callers can switch over it exhaustively instead of matching error
// types.
type Kind int

const (
	// KindTransient covers transport failures, timeouts, and non-200 HTTP
	// statuses. Only this kind is eligible for the retry loop.
	KindTransient Kind = iota

	// KindUnauthorized means the session token is missing or expired.
	KindUnauthorized

	// KindPermissionDenied means the server rejected the credentials or the
	// request content (e.g. a wrong captcha during login).
	KindPermissionDenied

	// KindInvalidRequest covers every other structured failure code.
	KindInvalidRequest

	// KindRetriesExhausted is raised when the retry budget for transient
	// failures runs out.
	KindRetriesExhausted
)

func (k Kind) String() string {
	switch k {
	case KindTransient:
		return "transient"
	case KindUnauthorized:
		return "unauthorized"
	case KindPermissionDenied:
		return "permission denied"
	case KindInvalidRequest:
		return "invalid request"
	case KindRetriesExhausted:
		return "retries exhausted"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Error is the single error type returned by the client. Code is the
// platform status code when one was received, zero otherwise.
type Error struct {
	Kind    Kind
	Code    int
	Message string

	err error
}

func (e *Error) Error() string {
	switch {
	case e.Code != 0 && e.Message != "":
		return fmt.Sprintf("%s: code %d: %s", e.Kind, e.Code, e.Message)
	case e.Code != 0:
		return fmt.Sprintf("%s: code %d", e.Kind, e.Code)
	case e.Message != "":
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	default:
		return e.Kind.String()
	}
}

func (e *Error) Unwrap() error {
	return e.err
}

// KindOf reports the Kind carried by err, if err came from this client.
func KindOf(err error) (Kind, bool) {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Kind, true
	}
	return 0, false
}

func isKind(err error, k Kind) bool {
	got, ok := KindOf(err)
	return ok && got == k
}

// IsTransient reports whether err is a retryable transport failure.
func IsTransient(err error) bool { return isKind(err, KindTransient) }

// IsUnauthorized reports whether err signals a missing or expired token.
func IsUnauthorized(err error) bool { return isKind(err, KindUnauthorized) }

// IsPermissionDenied reports whether err signals rejected credentials or
// request content.
func IsPermissionDenied(err error) bool { return isKind(err, KindPermissionDenied) }

// IsInvalidRequest reports whether err carries an unexpected platform code.
func IsInvalidRequest(err error) bool { return isKind(err, KindInvalidRequest) }

// IsRetriesExhausted reports whether err means the retry budget ran out.
func IsRetriesExhausted(err error) bool { return isKind(err, KindRetriesExhausted) }

func transientErr(err error) *Error {
	return &Error{Kind: KindTransient, Message: err.Error(), err: err}
}

func transientStatus(status int) *Error {
	return &Error{Kind: KindTransient, Message: fmt.Sprintf("http status %d", status)}
}
