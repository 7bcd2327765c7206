// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package model

import (
	"fmt"
	"math"
	"slices"
)

// MaxOffset is the largest number of rows which may precede a page.
const MaxOffset = math.MaxInt32

// PageRequest describes one page of a paginated query.
// PageNumber is one-based. SortBy must be one of the sort keys which
// are accepted by the queried collection.
type PageRequest struct {
	PageNumber int
	PageSize   int
	SortBy     string
	Descending bool
}

// Offset returns the number of rows which precede the requested page.
func (pr PageRequest) Offset() int {
	return (pr.PageNumber - 1) * pr.PageSize
}

// Pagination holds the page size limits of paginated queries.
type Pagination struct {
	DefaultPageSize int
	MaxPageSize     int
}

// SortSpec describes the accepted sort keys of a collection and its
// default sort order which is used when no key is requested.
type SortSpec struct {
	Keys           []string
	DefaultKey     string
	DefaultDescend bool
}

// Normalize fills the zero fields of pr with their defaults and
// validates the rest. A zero page number means the first page and a
// zero page size means pg.DefaultPageSize.
func (pr *PageRequest) Normalize(pg Pagination, ss SortSpec) error {
	switch {
	case pr.PageNumber == 0:
		pr.PageNumber = 1
	case pr.PageNumber < 0:
		return fmt.Errorf("page number must be positive: %d", pr.PageNumber)
	}
	switch {
	case pr.PageSize == 0:
		pr.PageSize = pg.DefaultPageSize
	case pr.PageSize < 0:
		return fmt.Errorf("page size must be positive: %d", pr.PageSize)
	case pr.PageSize > pg.MaxPageSize:
		return fmt.Errorf(
			"page size must be at most %d: %d",
			pg.MaxPageSize, pr.PageSize,
		)
	}
	if pr.PageSize > 0 && pr.PageNumber-1 > MaxOffset/pr.PageSize {
		return fmt.Errorf("page number is too large: %d", pr.PageNumber)
	}
	if pr.SortBy == "" {
		pr.SortBy = ss.DefaultKey
		pr.Descending = ss.DefaultDescend
		return nil
	}
	if !slices.Contains(ss.Keys, pr.SortBy) {
		return fmt.Errorf("unsupported sort key: %q", pr.SortBy)
	}
	return nil
}

// Page is one page of a paginated query result.
// NextPage is nil when there are no more pages.
type Page[T any] struct {
	Data          []T
	PageNumber    int
	PageSize      int
	NextPage      *int
	TotalPages    int
	TotalElements int64
}

// NewPage wraps data, which is the pr page of a collection with total
// elements, and computes the continuation metadata.
func NewPage[T any](data []T, pr PageRequest, total int64) *Page[T] {
	if data == nil {
		data = []T{}
	}
	p := &Page[T]{
		Data:          data,
		PageNumber:    pr.PageNumber,
		PageSize:      pr.PageSize,
		TotalElements: total,
	}
	if pr.PageSize > 0 {
		p.TotalPages = int((total + int64(pr.PageSize) - 1) /
			int64(pr.PageSize))
	}
	if pr.PageNumber < p.TotalPages {
		next := pr.PageNumber + 1
		p.NextPage = &next
	}
	return p
}

// PageOf slices the pr page out of the all slice which must hold the
// whole sorted collection.
func PageOf[T any](all []T, pr PageRequest) *Page[T] {
	from := min(max(pr.Offset(), 0), len(all))
	to := min(from+pr.PageSize, len(all))
	return NewPage(all[from:to], pr, int64(len(all)))
}

// MapPage converts the data items of p using the f function while
// keeping its pagination metadata.
func MapPage[T, U any](p *Page[T], f func(T) U) *Page[U] {
	data := make([]U, len(p.Data))
	for i, t := range p.Data {
		data[i] = f(t)
	}
	return &Page[U]{
		Data:          data,
		PageNumber:    p.PageNumber,
		PageSize:      p.PageSize,
		NextPage:      p.NextPage,
		TotalPages:    p.TotalPages,
		TotalElements: p.TotalElements,
	}
}
