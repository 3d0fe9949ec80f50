package schema

import (
	"errors"
	"fmt"
)

// Kind tags a handler failure so that it maps onto a protocol error code
// without inspecting the message text.
type Kind int

const (
	KindInternal Kind = iota
	KindUnknown
	KindInvalid
	KindServer
)

func (k Kind) String() string {
	switch k {
	case KindUnknown:
		return "unknown"
	case KindInvalid:
		return "invalid"
	case KindServer:
		return "server"
	}
	return "internal"
}

// Error is a failure with an explicit kind.
type Error struct {
	Kind    Kind
	Message string
	Data    interface{}
	cause   error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.cause
}

// NewError creates a tagged error.
func NewError(kind Kind, message string, data interface{}) *Error {
	return &Error{Kind: kind, Message: message, Data: data}
}

// Wrap tags err with kind, keeping it reachable through errors.Is/As.
func Wrap(kind Kind, err error, format string, args ...interface{}) *Error {
	msg := fmt.Sprintf(format, args...)
	if err != nil {
		msg = msg + ": " + err.Error()
	}
	return &Error{Kind: kind, Message: msg, cause: err}
}

func NewUnknownTool(name string) *Error {
	return NewError(KindUnknown, "Unknown tool: "+name, nil)
}

func NewUnknownMethod(method string) *Error {
	return NewError(KindUnknown, "Unknown method: "+method, nil)
}

func NewInvalidParams(format string, args ...interface{}) *Error {
	return NewError(KindInvalid, fmt.Sprintf(format, args...), nil)
}

func NewInternal(format string, args ...interface{}) *Error {
	return NewError(KindInternal, fmt.Sprintf(format, args...), nil)
}

// KindOf returns the kind carried by err, KindInternal when untagged.
func KindOf(err error) Kind {
	var tagged *Error
	if errors.As(err, &tagged) {
		return tagged.Kind
	}
	return KindInternal
}
