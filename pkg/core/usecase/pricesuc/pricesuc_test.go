// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package pricesuc_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/momeni/fuelfinder/internal/test/sqlitedb"
	"github.com/momeni/fuelfinder/pkg/adapter/db/postgres"
	"github.com/momeni/fuelfinder/pkg/adapter/db/postgres/pricesrp"
	"github.com/momeni/fuelfinder/pkg/adapter/db/postgres/stationsrp"
	"github.com/momeni/fuelfinder/pkg/core/cerr"
	"github.com/momeni/fuelfinder/pkg/core/model"
	"github.com/momeni/fuelfinder/pkg/core/repo"
	"github.com/momeni/fuelfinder/pkg/core/usecase/pricesuc"
	"github.com/stretchr/testify/suite"
)

type PricesSuite struct {
	suite.Suite

	ctx  context.Context
	pool *postgres.Pool
	uc   *pricesuc.UseCase

	admin, owner, sara *model.User
	gas, diesel, lpg   int64
	station            int64
}

func TestPricesSuite(t *testing.T) {
	suite.Run(t, new(PricesSuite))
}

func (s *PricesSuite) SetupTest() {
	s.ctx = context.Background()
	t := s.T()
	s.pool = sqlitedb.New(s.ctx, t)
	var err error
	s.uc, err = pricesuc.New(s.pool, stationsrp.New(), pricesrp.New())
	s.Require().NoError(err)

	s.admin = sqlitedb.CreateUser(s.ctx, t, s.pool, "admin", model.RoleAdmin)
	s.owner = sqlitedb.CreateUser(s.ctx, t, s.pool, "owner", model.RoleOwner)
	s.sara = sqlitedb.CreateUser(s.ctx, t, s.pool, "sara", model.RoleUser)
	s.gas = sqlitedb.CreateNamed(s.ctx, t, s.pool, model.FuelTypes, "Gasoline")
	s.diesel = sqlitedb.CreateNamed(s.ctx, t, s.pool, model.FuelTypes, "Diesel")
	s.lpg = sqlitedb.CreateNamed(s.ctx, t, s.pool, model.FuelTypes, "LPG")
	s.station = sqlitedb.CreateStation(s.ctx, t, s.pool, "Azadi", 35.7, 51.3, s.gas, s.diesel)

	err = s.pool.Conn(s.ctx, func(ctx context.Context, c repo.Conn) error {
		return stationsrp.New().Conn(c).AddOwner(ctx, s.station, s.owner.ID)
	})
	s.Require().NoError(err)
}

func (s *PricesSuite) requireStatus(err error, code int) {
	s.Require().Error(err)
	s.Equal(code, cerr.StatusCode(err), "%v", err)
}

func (s *PricesSuite) submit(actor *model.User, in ...model.PriceInput) []model.FuelPrice {
	created, err := s.uc.Submit(s.ctx, actor, s.station, in)
	s.Require().NoError(err)
	return created
}

func (s *PricesSuite) current() map[int64]float64 {
	cur, err := s.uc.Current(s.ctx, s.station)
	s.Require().NoError(err)
	m := make(map[int64]float64, len(cur))
	for _, p := range cur {
		m[p.FuelType.ID] = p.Price
	}
	return m
}

func (s *PricesSuite) TestSubmitStatusDependsOnRole() {
	created := s.submit(s.sara, model.PriceInput{FuelTypeID: s.gas, Price: 1.499, Available: true})
	s.Require().Len(created, 1)
	p := created[0]
	s.Equal(model.PricePending, p.Status)
	s.Equal(model.PriorityUser, p.Priority)
	s.Equal(1.5, p.Price)
	s.Equal("Gasoline", p.FuelType.Name)
	s.Equal(s.sara.ID, p.UserID)
	s.NotZero(p.ID)
	s.Empty(s.current())

	created = s.submit(s.owner,
		model.PriceInput{FuelTypeID: s.gas, Price: 1.45, Available: true},
		model.PriceInput{FuelTypeID: s.diesel, Price: 1.1},
	)
	s.Require().Len(created, 2)
	s.Equal(model.PriceAccepted, created[0].Status)
	s.Equal(model.PriorityOwner, created[0].Priority)
	s.False(created[1].Available)
	s.Equal(map[int64]float64{s.gas: 1.45, s.diesel: 1.1}, s.current())

	created = s.submit(s.admin, model.PriceInput{FuelTypeID: s.gas, Price: 1.42})
	s.Equal(model.PriceAccepted, created[0].Status)
	s.Equal(1.42, s.current()[s.gas])
}

func (s *PricesSuite) TestSubmitValidation() {
	_, err := s.uc.Submit(s.ctx, s.sara, s.station, nil)
	s.requireStatus(err, http.StatusBadRequest)
	_, err = s.uc.Submit(s.ctx, s.sara, s.station, []model.PriceInput{
		{FuelTypeID: s.gas, Price: 0},
	})
	s.requireStatus(err, http.StatusBadRequest)
	_, err = s.uc.Submit(s.ctx, s.sara, s.station, []model.PriceInput{
		{FuelTypeID: s.gas, Price: 1}, {FuelTypeID: s.gas, Price: 2},
	})
	s.requireStatus(err, http.StatusBadRequest)
	_, err = s.uc.Submit(s.ctx, s.sara, s.station, []model.PriceInput{
		{FuelTypeID: s.lpg, Price: 1},
	})
	s.requireStatus(err, http.StatusBadRequest)
	var fe *cerr.FieldError
	s.Require().ErrorAs(err, &fe)
	s.Equal("prices", fe.Field)

	_, err = s.uc.Submit(s.ctx, s.sara, 999, []model.PriceInput{
		{FuelTypeID: s.gas, Price: 1},
	})
	s.requireStatus(err, http.StatusNotFound)
	_, err = s.uc.Current(s.ctx, 999)
	s.requireStatus(err, http.StatusNotFound)
}

func (s *PricesSuite) TestModeration() {
	p := s.submit(s.sara, model.PriceInput{FuelTypeID: s.gas, Price: 1.3})[0]
	s.submit(s.sara, model.PriceInput{FuelTypeID: s.diesel, Price: 1.0})

	_, err := s.uc.Pending(s.ctx, s.sara, model.PageRequest{})
	s.requireStatus(err, http.StatusForbidden)
	page, err := s.uc.Pending(s.ctx, s.admin, model.PageRequest{})
	s.Require().NoError(err)
	s.Equal(int64(2), page.TotalElements)
	s.Equal(p.ID, page.Data[0].ID)
	s.Equal("Gasoline", page.Data[0].FuelType.Name)

	_, err = s.uc.Moderate(s.ctx, s.sara, p.ID, model.PriceAccepted)
	s.requireStatus(err, http.StatusForbidden)
	_, err = s.uc.Moderate(s.ctx, s.admin, p.ID, model.PricePending)
	s.requireStatus(err, http.StatusBadRequest)
	_, err = s.uc.Moderate(s.ctx, s.admin, 999, model.PriceAccepted)
	s.requireStatus(err, http.StatusNotFound)

	m, err := s.uc.Moderate(s.ctx, s.admin, p.ID, model.PriceAccepted)
	s.Require().NoError(err)
	s.Equal(model.PriceAccepted, m.Status)
	s.Equal(1.3, s.current()[s.gas])
	_, err = s.uc.Moderate(s.ctx, s.admin, p.ID, model.PriceRejected)
	s.requireStatus(err, http.StatusConflict)

	page, err = s.uc.Pending(s.ctx, s.admin, model.PageRequest{})
	s.Require().NoError(err)
	s.Require().Len(page.Data, 1)
	_, err = s.uc.Moderate(s.ctx, s.admin, page.Data[0].ID, model.PriceRejected)
	s.Require().NoError(err)
	_, ok := s.current()[s.diesel]
	s.False(ok)
}

func (s *PricesSuite) TestHistory() {
	for _, p := range []float64{1.1, 1.3, 1.2} {
		s.submit(s.owner, model.PriceInput{FuelTypeID: s.gas, Price: p})
	}
	s.submit(s.owner, model.PriceInput{FuelTypeID: s.diesel, Price: 0.9})
	s.submit(s.sara, model.PriceInput{FuelTypeID: s.gas, Price: 0.5})

	page, err := s.uc.History(s.ctx, s.station, s.gas, model.PageRequest{})
	s.Require().NoError(err)
	s.Equal(int64(3), page.TotalElements)
	prices := make([]float64, len(page.Data))
	for i, p := range page.Data {
		prices[i] = p.Price
	}
	s.Equal([]float64{1.2, 1.3, 1.1}, prices)

	page, err = s.uc.History(s.ctx, s.station, s.gas, model.PageRequest{
		SortBy: "price", PageSize: 2,
	})
	s.Require().NoError(err)
	s.Equal(1.1, page.Data[0].Price)
	s.Equal(1.2, page.Data[1].Price)
	s.Require().NotNil(page.NextPage)

	_, err = s.uc.History(s.ctx, s.station, s.gas, model.PageRequest{SortBy: "rate"})
	s.requireStatus(err, http.StatusBadRequest)
	_, err = s.uc.History(s.ctx, 999, s.gas, model.PageRequest{})
	s.requireStatus(err, http.StatusNotFound)
}
