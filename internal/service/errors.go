package service

import "errors"

// Error kinds surfaced to callers. Anything else is an internal failure.
var (
	ErrUnauthenticated  = errors.New("Unauthorized")
	ErrInvalidArgument  = errors.New("invalid argument")
	ErrNotFound         = errors.New("Not found")
	ErrInvalidOperation = errors.New("invalid operation")
)

// Error carries a caller-facing message for one of the error kinds.
type Error struct {
	Kind error
	Msg  string
}

func (e *Error) Error() string {
	return e.Msg
}

func (e *Error) Is(target error) bool {
	return target == e.Kind
}

func invalidArgument(msg string) error {
	return &Error{Kind: ErrInvalidArgument, Msg: msg}
}

func invalidOperation(msg string) error {
	return &Error{Kind: ErrInvalidOperation, Msg: msg}
}
