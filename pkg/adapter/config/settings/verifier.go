// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package settings

import (
	"cmp"
	"fmt"
)

// OutOfRangeError reports a setting which was clamped into its
// [Min, Max] bounds. Value holds the configured value and it is nil
// when the bounds themselves are inverted.
type OutOfRangeError[T cmp.Ordered] struct {
	Value    *T
	Min, Max *T
}

// Below reports whether the minimum bound was violated.
func (e *OutOfRangeError[T]) Below() bool {
	return e.Value != nil && e.Min != nil && *e.Value < *e.Min
}

func (e *OutOfRangeError[T]) Error() string {
	switch {
	case e.Value == nil:
		return fmt.Sprintf("min %v is greater than max %v", *e.Min, *e.Max)
	case e.Below():
		return fmt.Sprintf("%v is less than min %v", *e.Value, *e.Min)
	default:
		return fmt.Sprintf("%v is greater than max %v", *e.Value, *e.Max)
	}
}

// VerifyRange clamps (**value) into the minb/maxb bounds, each of them
// being optional, and reports the original value if it was clamped.
// A nil (*value) is an omitted setting and passes unchanged.
func VerifyRange[T cmp.Ordered](
	value **T, minb, maxb *T,
) *OutOfRangeError[T] {
	if minb != nil && maxb != nil && *minb > *maxb {
		return &OutOfRangeError[T]{Min: minb, Max: maxb}
	}
	if *value == nil {
		return nil
	}
	v := **value
	switch {
	case minb != nil && v < *minb:
		**value = *minb
	case maxb != nil && v > *maxb:
		**value = *maxb
	default:
		return nil
	}
	return &OutOfRangeError[T]{Value: &v, Min: minb, Max: maxb}
}
