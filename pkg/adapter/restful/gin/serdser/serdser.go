// Copyright (c) 2023-2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package serdser contains the serialization and deserialization
// helpers which are shared by all resources packages. Requests are
// bound and validated using the gin binding package and errors are
// serialized either as {"detail": "..."} or as a map from the invalid
// field names to their error messages.
package serdser

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/momeni/fuelfinder/pkg/core/cerr"
	"github.com/momeni/fuelfinder/pkg/core/log"
)

// Bind deserializes and validates the request into req using the b
// binding. If it fails, the error is written as the response and false
// is returned, so the caller may return immediately.
func Bind(c *gin.Context, req any, b binding.Binding) bool {
	switch err := c.ShouldBindWith(req, b).(type) {
	case *validator.InvalidValidationError:
		c.JSON(http.StatusInternalServerError, gin.H{
			"detail": err.Error(),
		})
	case validator.ValidationErrors:
		var nameToErrs map[string][]string
		for _, ferr := range err {
			AddErr(&nameToErrs, ferr.Field(), Message(ferr))
		}
		c.JSON(http.StatusBadRequest, nameToErrs)
	default:
		if err == nil {
			return true
		}
		c.JSON(http.StatusBadRequest, gin.H{
			"detail": err.Error(),
		})
	}
	return false
}

// BindBody works like Bind for the request body, choosing the binding
// based on the Content-Type header (e.g., JSON or url-encoded form).
func BindBody(c *gin.Context, req any) bool {
	return Bind(c, req, binding.Default(c.Request.Method, c.ContentType()))
}

func AddErr(errs *map[string][]string, name string, msgs ...string) {
	if (*errs) == nil {
		*errs = make(map[string][]string)
	}
	if elist, ok := (*errs)[name]; !ok {
		(*errs)[name] = msgs
	} else {
		(*errs)[name] = append(elist, msgs...)
	}
}

func Assert(errs *map[string][]string, ok bool, name string, msgs ...string) bool {
	if ok {
		return true
	}
	AddErr(errs, name, msgs...)
	return false
}

// ParseID parses the name path parameter as a positive int64 and
// writes a 400 response if it is not acceptable.
func ParseID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		var errs map[string][]string
		AddErr(&errs, name, "must be a positive integer")
		c.JSON(http.StatusBadRequest, errs)
		return 0, false
	}
	return id, true
}

// SerErr serializes err as the response. A cerr.Error determines the
// status code, while other errors are reported with 500. A wrapped
// cerr.FieldError is reported as a map from its field name to its
// reason. Internal errors are logged, but their details are hidden.
func SerErr(c *gin.Context, err error) {
	var ce *cerr.Error
	if !errors.As(err, &ce) {
		log.Error(c, "request failed", log.Err("err", err))
		c.JSON(http.StatusInternalServerError, gin.H{
			"detail": "internal server error",
		})
		return
	}
	var fe *cerr.FieldError
	if errors.As(ce.Err, &fe) {
		c.JSON(ce.HTTPStatusCode, map[string][]string{
			fe.Field: {fe.Err.Error()},
		})
		return
	}
	c.JSON(ce.HTTPStatusCode, gin.H{
		"detail": ce.Err.Error(),
	})
}
