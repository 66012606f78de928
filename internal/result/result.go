// Package result provides the envelope every forwarding operation returns.
//
// A Result is either a success, optionally carrying a payload, or an error
// carrying a message. Both variants carry a transport status code. Fields are
// unexported so a Result cannot change after it is built.
package result

import (
	"encoding/json"
	"net/http"
)

const (
	// DefaultErrorMessage is used when an error is built without a message.
	DefaultErrorMessage = "Unknown error"

	// DefaultErrorStatus is used when an error is built without a status.
	DefaultErrorStatus = http.StatusInternalServerError

	// DefaultSuccessStatus is the status of a bare success.
	DefaultSuccessStatus = http.StatusOK
)

// Empty is the payload type of operations that return no data.
type Empty struct{}

// Result is the outcome of one operation.
type Result[T any] struct {
	ok      bool
	data    T
	message string
	status  int
}

// Success builds a success carrying data and the given status.
func Success[T any](data T, status int) Result[T] {
	return Result[T]{ok: true, data: data, status: status}
}

// SuccessEmpty builds a payload-less success with DefaultSuccessStatus.
func SuccessEmpty() Result[Empty] {
	return Result[Empty]{ok: true, status: DefaultSuccessStatus}
}

// Error builds an error. An empty message becomes DefaultErrorMessage and a
// zero status becomes DefaultErrorStatus.
func Error[T any](message string, status int) Result[T] {
	if message == "" {
		message = DefaultErrorMessage
	}
	if status == 0 {
		status = DefaultErrorStatus
	}
	return Result[T]{message: message, status: status}
}

// ErrorMessage builds an error with the given message and DefaultErrorStatus.
func ErrorMessage[T any](message string) Result[T] {
	return Error[T](message, DefaultErrorStatus)
}

// ErrorStatus builds an error with the given status and DefaultErrorMessage.
func ErrorStatus[T any](status int) Result[T] {
	return Error[T](DefaultErrorMessage, status)
}

// FromError captures an unexpected fault as an error with DefaultErrorStatus.
func FromError[T any](err error) Result[T] {
	if err == nil {
		return ErrorStatus[T](DefaultErrorStatus)
	}
	return Error[T](err.Error(), DefaultErrorStatus)
}

// IsSuccess reports whether r is the success variant.
func (r Result[T]) IsSuccess() bool { return r.ok }

// Data returns the payload. It is the zero value for errors.
func (r Result[T]) Data() T { return r.data }

// ErrorMessage returns the error message, or "" for a success.
func (r Result[T]) ErrorMessage() string { return r.message }

// StatusCode returns the transport status associated with the outcome.
func (r Result[T]) StatusCode() int { return r.status }

type wireResult[T any] struct {
	Success    bool   `json:"success"`
	StatusCode int    `json:"status_code"`
	Data       *T     `json:"data,omitempty"`
	Error      string `json:"error,omitempty"`
}

// MarshalJSON encodes r as {"success", "status_code", "data", "error"}.
// data is present only on success and error only on failure.
func (r Result[T]) MarshalJSON() ([]byte, error) {
	w := wireResult[T]{Success: r.ok, StatusCode: r.status}
	if r.ok {
		w.Data = &r.data
	} else {
		w.Error = r.message
	}
	return json.Marshal(w)
}
