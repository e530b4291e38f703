// Package errs holds the protocol error taxonomy. Every domain sentinel carries
// a Kind so callers can branch on the class of failure with errors.Is, and a
// Code so they can branch on the exact failure.
package errs

import (
	"errors"
	"fmt"
	"strings"
)

type Kind uint8

const (
	Validation Kind = iota + 1
	State
	Authorization
	NotFound
	Timing
	EffectFailure
)

var kindNames = map[Kind]string{
	Validation:    "validation",
	State:         "state",
	Authorization: "authorization",
	NotFound:      "not_found",
	Timing:        "timing",
	EffectFailure: "effect_failure",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "unknown"
}

// Error lets a bare Kind be used as an errors.Is target.
func (k Kind) Error() string { return k.String() + " error" }

// Error is a classified protocol failure. Entity, ID and Status describe the
// record the failure was detected on, so a caller can tell whether a retry
// against fresh state makes sense.
type Error struct {
	Kind   Kind
	Code   string
	Msg    string
	Entity string
	ID     uint64
	Status string
	cause  error
}

func New(kind Kind, code, msg string) *Error {
	return &Error{Kind: kind, Code: code, Msg: msg}
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Msg)
	if e.Entity != "" {
		fmt.Fprintf(&b, " (%s %d", e.Entity, e.ID)
		if e.Status != "" {
			fmt.Fprintf(&b, ", status=%s", e.Status)
		}
		b.WriteString(")")
	}
	if e.cause != nil {
		b.WriteString(": ")
		b.WriteString(e.cause.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.cause }

// Is matches another *Error by code, or a Kind by class.
func (e *Error) Is(target error) bool {
	switch t := target.(type) {
	case Kind:
		return e.Kind == t
	case *Error:
		return t.Code != "" && e.Code == t.Code
	}
	return false
}

// On returns a copy annotated with the entity it was raised for.
func (e *Error) On(entity string, id uint64, status string) *Error {
	c := *e
	c.Entity, c.ID, c.Status = entity, id, status
	return &c
}

// Wrap returns a copy carrying cause.
func (e *Error) Wrap(cause error) *Error {
	c := *e
	c.cause = cause
	return &c
}

// Withf returns a copy whose message is extended with detail.
func (e *Error) Withf(format string, args ...any) *Error {
	c := *e
	c.Msg = e.Msg + ": " + fmt.Sprintf(format, args...)
	return &c
}

// KindOf reports the kind of err, or 0 when err is not classified.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

// As extracts the classified error, if any.
func As(err error) (*Error, bool) {
	var e *Error
	ok := errors.As(err, &e)
	return e, ok
}
