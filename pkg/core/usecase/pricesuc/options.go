// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package pricesuc

import (
	"errors"
	"fmt"

	"github.com/momeni/fuelfinder/pkg/core/model"
)

// Option is a functional option for the prices use case.
type Option func(uc *UseCase) error

// WithPagination configures the default and maximum page sizes.
func WithPagination(pg model.Pagination) Option {
	return func(uc *UseCase) error {
		if pg.DefaultPageSize <= 0 || pg.MaxPageSize < pg.DefaultPageSize {
			return fmt.Errorf("invalid page sizes: %+v", pg)
		}
		if uc.pagination.MaxPageSize != 0 {
			return errors.New("pagination is already configured")
		}
		uc.pagination = pg
		return nil
	}
}
