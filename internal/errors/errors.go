package errors

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// Kind identifies which step of a check-in produced a failure.
type Kind int

const (
	KindUnknown Kind = iota
	KindAuth
	KindLookup
	KindAvailability
	KindParse
	KindCheckIn
	KindUsage
	KindRejected
	KindExhausted
)

var kindNames = map[Kind]string{
	KindUnknown:      "unknown",
	KindAuth:         "auth",
	KindLookup:       "lookup",
	KindAvailability: "availability",
	KindParse:        "parse",
	KindCheckIn:      "checkin",
	KindUsage:        "usage",
	KindRejected:     "rejected",
	KindExhausted:    "exhausted",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return kindNames[KindUnknown]
}

// Error is a failure tagged with its Kind. Op names the operation that failed and is
// kept out of the message so the message can be shown to staff unchanged.
type Error struct {
	Kind    Kind
	Op      string
	Message string
	Err     error
}

func (e *Error) Error() string {
	switch {
	case e.Message == "" && e.Err != nil:
		return e.Err.Error()
	case e.Err != nil:
		return e.Message + ": " + e.Err.Error()
	default:
		return e.Message
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a tagged error with a fixed message.
func New(kind Kind, op, message string) *Error {
	return &Error{Kind: kind, Op: op, Message: message}
}

// Newf creates a tagged error with a formatted message.
func Newf(kind Kind, op, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Op: op, Message: fmt.Sprintf(format, args...)}
}

// Wrap tags err with kind. Errors that already carry a Kind keep it, so an auth failure
// raised while resolving a barcode is still reported as an auth failure.
func Wrap(kind Kind, op string, err error) error {
	if err == nil {
		return nil
	}
	var tagged *Error
	if errors.As(err, &tagged) {
		return err
	}
	return &Error{Kind: kind, Op: op, Err: err}
}

// WrapMsg tags err with kind and prefixes message.
func WrapMsg(kind Kind, op string, err error, message string) error {
	if err == nil {
		return nil
	}
	var tagged *Error
	if errors.As(err, &tagged) {
		return err
	}
	return &Error{Kind: kind, Op: op, Message: message, Err: err}
}

// KindOf returns the Kind of the first tagged error in err's chain.
func KindOf(err error) Kind {
	var tagged *Error
	if errors.As(err, &tagged) {
		return tagged.Kind
	}
	return KindUnknown
}

// IsTimeout reports whether err was caused by a request deadline.
func IsTimeout(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
