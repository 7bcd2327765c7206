// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package model

import (
	"strings"
	"unicode"
)

// Password length boundaries.
const (
	MinPasswordLength = 8
	MaxPasswordLength = 32
)

// Username length boundaries.
const (
	MinUsernameLength = 3
	MaxUsernameLength = 32
)

// passwordSpecials lists the non-alphanumeric characters which may
// appear in a password.
const passwordSpecials = "!#$%&'()*+,-.:;<=>?@[]^_`{}|~"

// PasswordError enumerates the reasons for rejecting a password.
// The zero value (PasswordOK) means that the password is acceptable.
type PasswordError int

const (
	PasswordOK PasswordError = iota
	PasswordTooShort
	PasswordTooLong
	PasswordNoUppercase
	PasswordNoLowercase
	PasswordNoDigit
	PasswordRepeatNoMatch
	PasswordIllegalCharacter
)

var passwordErrorNames = [...]string{
	PasswordOK:               "OK",
	PasswordTooShort:         "TOO_SHORT",
	PasswordTooLong:          "TOO_LONG",
	PasswordNoUppercase:      "NO_UPPERCASE",
	PasswordNoLowercase:      "NO_LOWERCASE",
	PasswordNoDigit:          "NO_DIGIT",
	PasswordRepeatNoMatch:    "REPEAT_NO_MATCH",
	PasswordIllegalCharacter: "ILLEGAL_CHARACTER",
}

// String returns the stable upper-case name of pe which is reported
// to the API clients.
func (pe PasswordError) String() string {
	if pe < 0 || int(pe) >= len(passwordErrorNames) {
		return "UNKNOWN"
	}
	return passwordErrorNames[pe]
}

// Error implements the error interface.
func (pe PasswordError) Error() string {
	return "password: " + pe.String()
}

// ValidatePassword checks p against the password rules in a fixed
// order and returns the first violated rule, or PasswordOK.
// Length is counted in characters. Letter cases and digits are
// recognized in all scripts, while the allowed characters are only
// the ASCII letters, digits, and punctuation.
func ValidatePassword(p string) PasswordError {
	n := len([]rune(p))
	switch {
	case n < MinPasswordLength:
		return PasswordTooShort
	case n > MaxPasswordLength:
		return PasswordTooLong
	case !strings.ContainsFunc(p, unicode.IsUpper):
		return PasswordNoUppercase
	case !strings.ContainsFunc(p, unicode.IsLower):
		return PasswordNoLowercase
	case !strings.ContainsFunc(p, unicode.IsDigit):
		return PasswordNoDigit
	}
	for _, r := range p {
		if !isASCIIAlnum(r) && !strings.ContainsRune(passwordSpecials, r) {
			return PasswordIllegalCharacter
		}
	}
	return PasswordOK
}

// ValidatePasswordRepeat validates p like ValidatePassword and then
// ensures that the repeated password matches it.
func ValidatePasswordRepeat(p, repeat string) PasswordError {
	if pe := ValidatePassword(p); pe != PasswordOK {
		return pe
	}
	if p != repeat {
		return PasswordRepeatNoMatch
	}
	return PasswordOK
}

// UsernameError enumerates the reasons for rejecting a username.
type UsernameError int

const (
	UsernameOK UsernameError = iota
	UsernameTooShort
	UsernameTooLong
	UsernameIllegalCharacter
)

var usernameErrorNames = [...]string{
	UsernameOK:               "OK",
	UsernameTooShort:         "TOO_SHORT",
	UsernameTooLong:          "TOO_LONG",
	UsernameIllegalCharacter: "ILLEGAL_CHARACTER",
}

// String returns the stable upper-case name of ue.
func (ue UsernameError) String() string {
	if ue < 0 || int(ue) >= len(usernameErrorNames) {
		return "UNKNOWN"
	}
	return usernameErrorNames[ue]
}

// Error implements the error interface.
func (ue UsernameError) Error() string {
	return "username: " + ue.String()
}

// ValidateUsername checks u length and its characters. Letters,
// digits, underscore, dot, and hyphen are allowed.
func ValidateUsername(u string) UsernameError {
	n := len([]rune(u))
	switch {
	case n < MinUsernameLength:
		return UsernameTooShort
	case n > MaxUsernameLength:
		return UsernameTooLong
	}
	for _, r := range u {
		if !isASCIIAlnum(r) && r != '_' && r != '.' && r != '-' {
			return UsernameIllegalCharacter
		}
	}
	return UsernameOK
}

func isUpper(r rune) bool { return r >= 'A' && r <= 'Z' }
func isLower(r rune) bool { return r >= 'a' && r <= 'z' }
func isDigit(r rune) bool { return r >= '0' && r <= '9' }

func isASCIIAlnum(r rune) bool {
	return isUpper(r) || isLower(r) || isDigit(r)
}
