// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package settings

// Default makes (*p) point to a copy of v if it is nil, so optional
// YAML settings can be read without nil checks after the validation.
// An explicitly configured value is kept as is.
func Default[T any](p **T, v T) {
	if *p == nil {
		*p = &v
	}
}

// Nil2Zero defaults (*p) to the zero value of T, e.g., an omitted
// enabled switch reads as false.
func Nil2Zero[T any](p **T) {
	var zero T
	Default(p, zero)
}
