// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package model contains the entities and value objects of the fuel
// station locator. Models are plain structs without any dependency on
// the adapters layer. Database rows and HTTP DTOs are converted to and
// from these types in their respective adapter packages.
package model

import (
	"fmt"
	"time"
)

// Role is the authorization role of a User.
type Role string

const (
	RoleUser  Role = "User"  // regular user, may review and submit prices
	RoleOwner Role = "Owner" // owns at least one fuel station
	RoleAdmin Role = "Admin" // may manage stations, catalogs, and users
)

// ParseRole validates the s string as a Role.
func ParseRole(s string) (Role, error) {
	switch r := Role(s); r {
	case RoleUser, RoleOwner, RoleAdmin:
		return r, nil
	default:
		return "", fmt.Errorf("unknown role: %q", s)
	}
}

// AccountStatus is the lifecycle status of a User account.
// New accounts become Active once their e-mail address is confirmed.
// Banned accounts cannot log in or use authenticated endpoints.
type AccountStatus string

const (
	StatusNew    AccountStatus = "NEW"
	StatusActive AccountStatus = "ACTIVE"
	StatusBanned AccountStatus = "BANNED"
)

// ParseAccountStatus validates the s string as an AccountStatus.
func ParseAccountStatus(s string) (AccountStatus, error) {
	switch st := AccountStatus(s); st {
	case StatusNew, StatusActive, StatusBanned:
		return st, nil
	default:
		return "", fmt.Errorf("unknown account status: %q", s)
	}
}

// User represents a registered account.
type User struct {
	ID             int64
	Username       string
	Email          string
	EmailConfirmed bool
	PasswordHash   string
	Role           Role
	Status         AccountStatus
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// IsAdmin reports whether u is a non-nil administrator.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// IsBanned reports whether u is a non-nil banned account.
func (u *User) IsBanned() bool {
	return u != nil && u.Status == StatusBanned
}
