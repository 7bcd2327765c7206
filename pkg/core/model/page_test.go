// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package model_test

import (
	"math"
	"strconv"
	"testing"

	"github.com/momeni/fuelfinder/pkg/core/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	testPagination = model.Pagination{DefaultPageSize: 10, MaxPageSize: 50}
	testSortSpec   = model.SortSpec{
		Keys:           []string{"createdAt", "rate"},
		DefaultKey:     "createdAt",
		DefaultDescend: true,
	}
)

func TestPageRequestNormalizeDefaults(t *testing.T) {
	var pr model.PageRequest
	require.NoError(t, pr.Normalize(testPagination, testSortSpec))
	assert.Equal(t, model.PageRequest{
		PageNumber: 1,
		PageSize:   10,
		SortBy:     "createdAt",
		Descending: true,
	}, pr)
	assert.Equal(t, 0, pr.Offset())
}

func TestPageRequestNormalizeKeepsExplicitValues(t *testing.T) {
	pr := model.PageRequest{PageNumber: 3, PageSize: 50, SortBy: "rate"}
	require.NoError(t, pr.Normalize(testPagination, testSortSpec))
	assert.Equal(t, "rate", pr.SortBy)
	assert.False(t, pr.Descending)
	assert.Equal(t, 100, pr.Offset())
}

func TestPageRequestNormalizeRejectsBadValues(t *testing.T) {
	for _, pr := range []model.PageRequest{
		{PageNumber: -1},
		{PageSize: -5},
		{PageSize: 51},
		{SortBy: "name"},
		{PageNumber: math.MaxInt, PageSize: 2},
		{PageNumber: model.MaxOffset/50 + 2, PageSize: 50},
	} {
		assert.Error(t, pr.Normalize(testPagination, testSortSpec), "%+v", pr)
	}
}

func TestPageRequestNormalizeAcceptsTheLastOffset(t *testing.T) {
	pr := model.PageRequest{PageNumber: model.MaxOffset/50 + 1, PageSize: 50}
	require.NoError(t, pr.Normalize(testPagination, testSortSpec))
	assert.LessOrEqual(t, pr.Offset(), model.MaxOffset)
	assert.Positive(t, pr.Offset())
}

func TestNewPage(t *testing.T) {
	p := model.NewPage[int](nil, model.PageRequest{PageNumber: 1, PageSize: 10}, 0)
	assert.NotNil(t, p.Data)
	assert.Empty(t, p.Data)
	assert.Zero(t, p.TotalPages)
	assert.Nil(t, p.NextPage)

	p = model.NewPage([]int{1, 2}, model.PageRequest{PageNumber: 1, PageSize: 10}, 25)
	assert.Equal(t, 3, p.TotalPages)
	assert.Equal(t, int64(25), p.TotalElements)
	if assert.NotNil(t, p.NextPage) {
		assert.Equal(t, 2, *p.NextPage)
	}

	p = model.NewPage([]int{1}, model.PageRequest{PageNumber: 3, PageSize: 10}, 25)
	assert.Nil(t, p.NextPage)
}

func TestPageOf(t *testing.T) {
	all := []int{1, 2, 3, 4, 5}
	p := model.PageOf(all, model.PageRequest{PageNumber: 2, PageSize: 2})
	assert.Equal(t, []int{3, 4}, p.Data)
	assert.Equal(t, 3, p.TotalPages)
	if assert.NotNil(t, p.NextPage) {
		assert.Equal(t, 3, *p.NextPage)
	}

	p = model.PageOf(all, model.PageRequest{PageNumber: 3, PageSize: 2})
	assert.Equal(t, []int{5}, p.Data)
	assert.Nil(t, p.NextPage)

	p = model.PageOf(all, model.PageRequest{PageNumber: 4, PageSize: 2})
	assert.Empty(t, p.Data)
	assert.Equal(t, int64(5), p.TotalElements)
}

func TestMapPage(t *testing.T) {
	p := model.PageOf([]int{1, 2, 3}, model.PageRequest{PageNumber: 1, PageSize: 2})
	q := model.MapPage(p, strconv.Itoa)
	assert.Equal(t, []string{"1", "2"}, q.Data)
	assert.Equal(t, p.NextPage, q.NextPage)
	assert.Equal(t, p.TotalPages, q.TotalPages)
	assert.Equal(t, p.TotalElements, q.TotalElements)
}
