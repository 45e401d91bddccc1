package api

import "errors"

// ErrInvalidRequest marks errors caused by the client's request body.
var ErrInvalidRequest = errors.New("invalid_request")

// ErrModelNotFound is returned when a model id matches no corpus.
var ErrModelNotFound = errors.New("model not found")

type invalidRequestError struct {
	msg string
}

func (e invalidRequestError) Error() string {
	return e.msg
}

func (e invalidRequestError) Unwrap() error {
	return ErrInvalidRequest
}

func newInvalidRequest(msg string) error {
	return invalidRequestError{msg: msg}
}
