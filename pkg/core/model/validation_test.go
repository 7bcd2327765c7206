// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package model_test

import (
	"strings"
	"testing"

	"github.com/momeni/fuelfinder/pkg/core/model"
	"github.com/stretchr/testify/assert"
)

func TestValidatePassword(t *testing.T) {
	cases := []struct {
		pass string
		want model.PasswordError
	}{
		{"Abcdef1", model.PasswordTooShort},
		{"Abcdefg1" + strings.Repeat("x", 25), model.PasswordTooLong},
		{"abcdefg1", model.PasswordNoUppercase},
		{"ABCDEFG1", model.PasswordNoLowercase},
		{"Abcdefgh", model.PasswordNoDigit},
		{"Abcdefg1 ", model.PasswordIllegalCharacter},
		{"Abc/defg1", model.PasswordIllegalCharacter},
		{"Abcdefg1\"", model.PasswordIllegalCharacter},
		{"Abcdefg1é", model.PasswordIllegalCharacter},
		{"ÄÄÄÄÄÄa1", model.PasswordIllegalCharacter},
		{"äbcdefg1", model.PasswordNoUppercase},
		{"ÄBCDEFG1", model.PasswordNoLowercase},
		{"Abcdefg٣", model.PasswordIllegalCharacter},
		{"Abcdefg1", model.PasswordOK},
		{"Abcdefg1!~{}", model.PasswordOK},
		{"Abcdefg1" + strings.Repeat("x", 24), model.PasswordOK},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, model.ValidatePassword(c.pass), c.pass)
	}
}

func TestValidatePasswordRepeat(t *testing.T) {
	assert.Equal(t, model.PasswordOK,
		model.ValidatePasswordRepeat("Abcdefg1", "Abcdefg1"))
	assert.Equal(t, model.PasswordRepeatNoMatch,
		model.ValidatePasswordRepeat("Abcdefg1", "Abcdefg2"))
	assert.Equal(t, model.PasswordTooShort,
		model.ValidatePasswordRepeat("abc", "abc"))
}

func TestPasswordErrorNames(t *testing.T) {
	assert.Equal(t, "OK", model.PasswordOK.String())
	assert.Equal(t, "REPEAT_NO_MATCH", model.PasswordRepeatNoMatch.String())
	assert.Equal(t, "ILLEGAL_CHARACTER", model.PasswordIllegalCharacter.String())
	assert.Equal(t, "UNKNOWN", model.PasswordError(99).String())
	assert.Equal(t, "password: NO_DIGIT", model.PasswordNoDigit.Error())
}

func TestValidateUsername(t *testing.T) {
	cases := []struct {
		name string
		want model.UsernameError
	}{
		{"ab", model.UsernameTooShort},
		{strings.Repeat("a", 33), model.UsernameTooLong},
		{"a b c", model.UsernameIllegalCharacter},
		{"ali@home", model.UsernameIllegalCharacter},
		{"john.doe-1_x", model.UsernameOK},
		{strings.Repeat("a", 32), model.UsernameOK},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, model.ValidateUsername(c.name), c.name)
	}
	assert.Equal(t, "UNKNOWN", model.UsernameError(-1).String())
}

func TestParseEnums(t *testing.T) {
	r, err := model.ParseRole("Owner")
	assert.NoError(t, err)
	assert.Equal(t, model.RoleOwner, r)
	_, err = model.ParseRole("owner")
	assert.Error(t, err)

	s, err := model.ParseAccountStatus("BANNED")
	assert.NoError(t, err)
	assert.Equal(t, model.StatusBanned, s)
	_, err = model.ParseAccountStatus("")
	assert.Error(t, err)

	ps, err := model.ParsePriceStatus("ACCEPTED")
	assert.NoError(t, err)
	assert.Equal(t, model.PriceAccepted, ps)
	_, err = model.ParsePriceStatus("DONE")
	assert.Error(t, err)
}

func TestUserPredicatesAcceptNil(t *testing.T) {
	var u *model.User
	assert.False(t, u.IsAdmin())
	assert.False(t, u.IsBanned())
	u = &model.User{Role: model.RoleAdmin, Status: model.StatusBanned}
	assert.True(t, u.IsAdmin())
	assert.True(t, u.IsBanned())
}
