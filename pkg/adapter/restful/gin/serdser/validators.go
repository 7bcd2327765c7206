// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package serdser

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/momeni/fuelfinder/pkg/core/model"
)

var registerOnce sync.Once

// RegisterValidators registers the "password" and "username" tags in
// the gin default validator and makes the validation errors to report
// the json (or form/uri) names of the fields. It may be called more
// than once.
func RegisterValidators() (err error) {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			err = errors.New("unexpected gin validator engine")
			return
		}
		v.RegisterTagNameFunc(fieldName)
		err = errors.Join(
			v.RegisterValidation("password", func(fl validator.FieldLevel) bool {
				return model.ValidatePassword(fl.Field().String()) == model.PasswordOK
			}),
			v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
				return model.ValidateUsername(fl.Field().String()) == model.UsernameOK
			}),
		)
	})
	return err
}

func fieldName(f reflect.StructField) string {
	for _, tag := range []string{"json", "form", "uri"} {
		name, _, _ := strings.Cut(f.Tag.Get(tag), ",")
		if name == "-" {
			return ""
		}
		if name != "" {
			return name
		}
	}
	return f.Name
}

// Message returns the message which is reported to the clients for
// the ferr validation failure. Password and username failures are
// reported by their stable reason names, such as TOO_SHORT.
func Message(ferr validator.FieldError) string {
	s, _ := ferr.Value().(string)
	switch ferr.Tag() {
	case "password":
		return model.ValidatePassword(s).String()
	case "username":
		return model.ValidateUsername(s).String()
	case "required":
		return "REQUIRED"
	case "email":
		return "INVALID_EMAIL"
	}
	return ferr.Error()
}
