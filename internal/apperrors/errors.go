package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a failure by where it happened.
type Kind string

const (
	KindValidation Kind = "validation"
	KindParse      Kind = "parse"
	KindIO         Kind = "io"
	KindNetwork    Kind = "network"
	KindBackend    Kind = "backend"
)

var (
	ErrActionsDisabled = errors.New("live actions are not available")
	ErrBusy            = errors.New("action already in progress")
	ErrSuperseded      = errors.New("load superseded by a newer upload")
	ErrNoReport        = errors.New("no data loaded")
)

// AppError is a user-facing failure with the HTTP status it maps to.
type AppError struct {
	Kind       Kind   `json:"kind"`
	Message    string `json:"message"`
	HTTPStatus int    `json:"-"`
	Err        error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NewValidation(message string) *AppError {
	return &AppError{Kind: KindValidation, Message: message, HTTPStatus: http.StatusBadRequest}
}

func NewParse(message string, err error) *AppError {
	return &AppError{Kind: KindParse, Message: message, HTTPStatus: http.StatusBadRequest, Err: err}
}

func NewIO(message string, err error) *AppError {
	return &AppError{Kind: KindIO, Message: message, HTTPStatus: http.StatusBadRequest, Err: err}
}

func NewNetwork(message string, err error) *AppError {
	return &AppError{Kind: KindNetwork, Message: message, HTTPStatus: http.StatusBadGateway, Err: err}
}

func NewBackend(message string) *AppError {
	return &AppError{Kind: KindBackend, Message: message, HTTPStatus: http.StatusUnprocessableEntity}
}

// Is reports whether err carries an AppError of the given kind.
func Is(err error, kind Kind) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Kind == kind
}

// HTTPStatus maps any error to a response status.
func HTTPStatus(err error) int {
	var appErr *AppError
	switch {
	case errors.As(err, &appErr):
		return appErr.HTTPStatus
	case errors.Is(err, ErrActionsDisabled), errors.Is(err, ErrBusy), errors.Is(err, ErrSuperseded):
		return http.StatusConflict
	case errors.Is(err, ErrNoReport):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// Message returns the text shown to the user.
func Message(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Error()
	}
	return err.Error()
}
