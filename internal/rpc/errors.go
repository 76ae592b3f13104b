package rpc

import (
	"errors"
	"net/http"

	"github.com/user/notecards/internal/content"
)

// Code is the machine-readable error code in the response envelope.
type Code string

const (
	CodeBadRequest         Code = "BAD_REQUEST"
	CodeForbidden          Code = "FORBIDDEN"
	CodeNotFound           Code = "NOT_FOUND"
	CodeStoreUnavailable   Code = "STORE_UNAVAILABLE"
	CodeMethodNotSupported Code = "METHOD_NOT_SUPPORTED"
	CodeNotFoundProcedure  Code = "NOT_FOUND_PROCEDURE"
	CodeInternal           Code = "INTERNAL_SERVER_ERROR"
)

// Status returns the HTTP status sent with c.
func (c Code) Status() int {
	switch c {
	case CodeBadRequest:
		return http.StatusBadRequest
	case CodeForbidden:
		return http.StatusForbidden
	case CodeNotFound, CodeNotFoundProcedure:
		return http.StatusNotFound
	case CodeStoreUnavailable:
		return http.StatusServiceUnavailable
	case CodeMethodNotSupported:
		return http.StatusMethodNotAllowed
	default:
		return http.StatusInternalServerError
	}
}

// Error is the error half of the response envelope. On the client side it
// unwraps to the matching content sentinel, so errors.Is and errors.As work
// the same on both ends of the wire.
type Error struct {
	Code    Code                 `json:"code"`
	Message string               `json:"message"`
	Fields  []content.FieldError `json:"fields,omitempty"`
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error {
	switch e.Code {
	case CodeBadRequest:
		if len(e.Fields) > 0 {
			return &content.ValidationError{Errors: e.Fields}
		}
		return content.ErrValidation
	case CodeForbidden:
		return content.ErrForbidden
	case CodeNotFound:
		return content.ErrNotFound
	case CodeStoreUnavailable:
		return content.ErrStoreUnavailable
	default:
		return nil
	}
}

// toError maps a procedure error onto the wire. ok is false for errors
// outside the taxonomy; those are reported as STORE_UNAVAILABLE.
func toError(err error) (e *Error, ok bool) {
	var rpcErr *Error
	if errors.As(err, &rpcErr) {
		return rpcErr, true
	}

	switch {
	case errors.Is(err, content.ErrValidation):
		e = &Error{Code: CodeBadRequest, Message: err.Error()}
		var ve *content.ValidationError
		if errors.As(err, &ve) {
			e.Fields = ve.Errors
		}
		return e, true
	case errors.Is(err, content.ErrForbidden):
		return &Error{Code: CodeForbidden, Message: content.ErrForbidden.Error()}, true
	case errors.Is(err, content.ErrNotFound):
		return &Error{Code: CodeNotFound, Message: err.Error()}, true
	case errors.Is(err, content.ErrStoreUnavailable):
		return &Error{Code: CodeStoreUnavailable, Message: content.ErrStoreUnavailable.Error()}, true
	default:
		return &Error{Code: CodeStoreUnavailable, Message: content.ErrStoreUnavailable.Error()}, false
	}
}
