package apperror

import (
	"errors"
	"fmt"
)

type Kind int

const (
	KindInternal Kind = iota
	KindClientInput
	KindNotFound
	KindExtraction
)

func (k Kind) String() string {
	switch k {
	case KindClientInput:
		return "client_input"
	case KindNotFound:
		return "not_found"
	case KindExtraction:
		return "extraction_failure"
	default:
		return "internal"
	}
}

// Error carries a user-facing Message; Err, when set, is the cause and is
// never shown to clients.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func ClientInput(message string) error {
	return &Error{Kind: KindClientInput, Message: message}
}

func NotFound(message string) error {
	return &Error{Kind: KindNotFound, Message: message}
}

func Extraction(message string, cause error) error {
	return &Error{Kind: KindExtraction, Message: message, Err: cause}
}

// KindOf reports KindInternal for errors that are not *Error.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
