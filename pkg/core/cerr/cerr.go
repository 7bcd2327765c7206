// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package cerr contains the core errors which carry an HTTP status
// code next to their wrapped error, so adapters may report them
// without knowing which use case or repository produced them.
package cerr

import (
	"errors"
	"fmt"
	"net/http"
)

type Error struct {
	Err            error
	HTTPStatusCode int
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Error() string {
	return fmt.Sprintf("[%d] %s", e.HTTPStatusCode, e.Err.Error())
}

func BadRequest(err error) *Error {
	return &Error{Err: err, HTTPStatusCode: http.StatusBadRequest}
}

func Authentication(err error) *Error {
	return &Error{Err: err, HTTPStatusCode: http.StatusUnauthorized}
}

func Authorization(err error) *Error {
	return &Error{Err: err, HTTPStatusCode: http.StatusForbidden}
}

func NotFound(err error) *Error {
	return &Error{Err: err, HTTPStatusCode: http.StatusNotFound}
}

func Conflict(err error) *Error {
	return &Error{Err: err, HTTPStatusCode: http.StatusConflict}
}

func TooManyRequests(err error) *Error {
	return &Error{Err: err, HTTPStatusCode: http.StatusTooManyRequests}
}

// StatusCode returns the HTTP status code of the first *Error in the
// err chain, or http.StatusInternalServerError if there is none.
func StatusCode(err error) int {
	var e *Error
	if errors.As(err, &e) {
		return e.HTTPStatusCode
	}
	return http.StatusInternalServerError
}

// Is reports whether err wraps an *Error with the given status code.
func Is(err error, code int) bool {
	return StatusCode(err) == code
}

// FieldError reports an invalid value of a named input field. Adapters
// may report it next to the field name, while Err carries a stable
// reason string (such as "TOO_SHORT") for the API clients.
type FieldError struct {
	Field string
	Err   error
}

func (fe *FieldError) Unwrap() error {
	return fe.Err
}

func (fe *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", fe.Field, fe.Err.Error())
}

// Invalid returns a BadRequest error wrapping a FieldError.
func Invalid(field string, err error) *Error {
	return BadRequest(&FieldError{Field: field, Err: err})
}
