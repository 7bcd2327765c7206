// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package postgres

import (
	"fmt"

	"github.com/momeni/fuelfinder/pkg/core/cerr"
	"github.com/momeni/fuelfinder/pkg/core/model"
	"gorm.io/gorm"
)

// Sorts maps the public sort keys of a collection to the SQL columns
// or expressions which implement them.
type Sorts map[string]string

// Paginate counts the rows which are selected by q and loads the pr
// page of them into a slice of T. The q query must have a model and
// its filters, but no order or limit clause. The pr.SortBy key is
// resolved using sorts and the tie column (e.g., the primary key) is
// used as a secondary order, so pages remain stable. The scopes are
// only applied to the page query, so they may add preloads or selects
// which would break the counting query.
func Paginate[T any](
	q *gorm.DB,
	pr model.PageRequest,
	sorts Sorts,
	tie string,
	scopes ...func(*gorm.DB) *gorm.DB,
) ([]T, int64, error) {
	col, ok := sorts[pr.SortBy]
	if !ok {
		return nil, 0, cerr.BadRequest(
			fmt.Errorf("unsupported sort key: %q", pr.SortBy),
		)
	}
	q = q.Session(&gorm.Session{})
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("counting rows: %w", err)
	}
	rows := make([]T, 0, pr.PageSize)
	if total == 0 || int64(pr.Offset()) >= total {
		return rows, total, nil
	}
	dir := " ASC"
	if pr.Descending {
		dir = " DESC"
	}
	err := q.Scopes(scopes...).
		Order(col + dir).
		Order(tie + dir).
		Offset(pr.Offset()).
		Limit(pr.PageSize).
		Find(&rows).Error
	if err != nil {
		return nil, 0, fmt.Errorf("loading page: %w", err)
	}
	return rows, total, nil
}
