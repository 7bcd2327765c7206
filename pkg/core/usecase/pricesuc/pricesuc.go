// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package pricesuc contains the prices UseCase which supports the
// reporting and moderation of fuel prices.
//
// Prices which are reported by the station owners (or admins) are
// accepted immediately with a higher priority, while other users'
// reports wait in the pending state until an admin moderates them.
// The current price of a fuel type at a station is its newest accepted
// price, and the priority breaks the ties.
package pricesuc

import (
	"context"
	"errors"
	"fmt"

	"github.com/momeni/fuelfinder/pkg/core/cerr"
	"github.com/momeni/fuelfinder/pkg/core/log"
	"github.com/momeni/fuelfinder/pkg/core/model"
	"github.com/momeni/fuelfinder/pkg/core/repo"
)

var historySortSpec = model.SortSpec{
	Keys:           []string{"createdAt", "price"},
	DefaultKey:     "createdAt",
	DefaultDescend: true,
}

var pendingSortSpec = model.SortSpec{
	Keys:       []string{"createdAt"},
	DefaultKey: "createdAt",
}

// UseCase represents the prices use case.
type UseCase struct {
	pool       repo.Pool
	stationsrp repo.Stations
	pricesrp   repo.Prices

	pagination model.Pagination
}

// New instantiates a prices use case.
func New(p repo.Pool, s repo.Stations, pr repo.Prices, opts ...Option) (*UseCase, error) {
	uc := &UseCase{pool: p, stationsrp: s, pricesrp: pr}
	for _, opt := range opts {
		if err := opt(uc); err != nil {
			return nil, fmt.Errorf("invalid option: %w", err)
		}
	}
	if uc.pagination.MaxPageSize == 0 {
		uc.pagination = model.Pagination{DefaultPageSize: 20, MaxPageSize: 100}
	}
	return uc, nil
}

func mustExist(ctx context.Context, q repo.StationsQueryer, id int64) error {
	ok, err := q.Exists(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return cerr.NotFound(errors.New("fuel station not found"))
	}
	return nil
}

// Current returns the current price of each fuel type at the
// stationID station.
func (pu *UseCase) Current(ctx context.Context, stationID int64) (cur []model.FuelPrice, err error) {
	err = pu.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) (err error) {
		if err := mustExist(ctx, pu.stationsrp.Conn(c), stationID); err != nil {
			return err
		}
		cur, err = pu.pricesrp.Conn(c).Current(ctx, []int64{stationID}, nil)
		return err
	})
	if err != nil {
		cur = nil
	}
	return cur, err
}

// History returns the pr page of accepted prices of the fuelTypeID
// fuel type at the stationID station, newest first by default.
func (pu *UseCase) History(
	ctx context.Context, stationID, fuelTypeID int64, pr model.PageRequest,
) (*model.Page[model.FuelPrice], error) {
	if err := pr.Normalize(pu.pagination, historySortSpec); err != nil {
		return nil, cerr.BadRequest(err)
	}
	var prices []model.FuelPrice
	var total int64
	err := pu.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) (err error) {
		if err = mustExist(ctx, pu.stationsrp.Conn(c), stationID); err != nil {
			return err
		}
		prices, total, err = pu.pricesrp.Conn(c).History(
			ctx, stationID, fuelTypeID, pr,
		)
		return err
	})
	if err != nil {
		return nil, err
	}
	return model.NewPage(prices, pr, total), nil
}

func validateInputs(in []model.PriceInput) ([]int64, error) {
	if len(in) == 0 {
		return nil, cerr.Invalid("prices", errors.New("at least one price is required"))
	}
	seen := make(map[int64]bool, len(in))
	ids := make([]int64, 0, len(in))
	for i := range in {
		if err := in[i].Normalize(); err != nil {
			return nil, cerr.Invalid("prices", err)
		}
		if seen[in[i].FuelTypeID] {
			return nil, cerr.Invalid("prices", fmt.Errorf(
				"fuel type %d is repeated", in[i].FuelTypeID,
			))
		}
		seen[in[i].FuelTypeID] = true
		ids = append(ids, in[i].FuelTypeID)
	}
	return ids, nil
}

// Submit reports the in prices for the stationID station on behalf
// of actor. Each fuel type may be given once and must be offered by
// the station. Reports of admins and the station owners are accepted
// immediately, while others are kept pending for the moderation.
func (pu *UseCase) Submit(
	ctx context.Context, actor *model.User, stationID int64, in []model.PriceInput,
) (created []model.FuelPrice, err error) {
	ids, err := validateInputs(in)
	if err != nil {
		return nil, err
	}
	err = pu.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		sq := pu.stationsrp.Conn(c)
		if err := mustExist(ctx, sq, stationID); err != nil {
			return err
		}
		n, err := sq.CountFuelTypes(ctx, stationID, ids)
		if err != nil {
			return err
		}
		if n != int64(len(ids)) {
			return cerr.Invalid("prices", errors.New(
				"fuel types must be offered by the station",
			))
		}
		status, priority := model.PricePending, model.PriorityUser
		if actor.IsAdmin() {
			status, priority = model.PriceAccepted, model.PriorityOwner
		} else {
			owner, err := sq.IsOwner(ctx, stationID, actor.ID)
			if err != nil {
				return err
			}
			if owner {
				status, priority = model.PriceAccepted, model.PriorityOwner
			}
		}
		types, err := sq.FuelTypes(ctx, stationID)
		if err != nil {
			return err
		}
		names := make(map[int64]string, len(types))
		for _, ft := range types {
			names[ft.ID] = ft.Name
		}
		prices := make([]model.FuelPrice, len(in))
		for i, p := range in {
			prices[i] = model.FuelPrice{
				StationID: stationID,
				FuelType: model.NamedEntity{
					ID: p.FuelTypeID, Name: names[p.FuelTypeID],
				},
				Price:     p.Price,
				Available: p.Available,
				Status:    status,
				Priority:  priority,
				UserID:    actor.ID,
			}
		}
		created, err = pu.pricesrp.Conn(c).Create(ctx, prices)
		return err
	})
	if err != nil {
		return nil, err
	}
	log.Info(
		ctx, "submitted fuel prices", log.ID("station", stationID),
		log.Actor(actor.ID, actor.Username),
		log.String("status", string(created[0].Status)),
	)
	return created, nil
}

// Pending returns the pr page of prices which wait for moderation,
// oldest first by default. Only admins may list them.
func (pu *UseCase) Pending(ctx context.Context, actor *model.User, pr model.PageRequest) (*model.Page[model.FuelPrice], error) {
	if !actor.IsAdmin() {
		return nil, cerr.Authorization(errors.New("admin role is required"))
	}
	if err := pr.Normalize(pu.pagination, pendingSortSpec); err != nil {
		return nil, cerr.BadRequest(err)
	}
	var prices []model.FuelPrice
	var total int64
	err := pu.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) (err error) {
		prices, total, err = pu.pricesrp.Conn(c).Pending(ctx, pr)
		return err
	})
	if err != nil {
		return nil, err
	}
	return model.NewPage(prices, pr, total), nil
}

// Moderate accepts or rejects the priceID pending price. Prices which
// are not pending may not be moderated again. Only admins may
// moderate prices.
func (pu *UseCase) Moderate(
	ctx context.Context, actor *model.User, priceID int64, s model.PriceStatus,
) (p *model.FuelPrice, err error) {
	if !actor.IsAdmin() {
		return nil, cerr.Authorization(errors.New("admin role is required"))
	}
	if s != model.PriceAccepted && s != model.PriceRejected {
		return nil, cerr.Invalid("status", fmt.Errorf(
			"status must be %s or %s", model.PriceAccepted, model.PriceRejected,
		))
	}
	err = pu.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		return c.Tx(ctx, func(ctx context.Context, tx repo.Tx) error {
			q := pu.pricesrp.Tx(tx)
			p, err = q.ByID(ctx, priceID)
			if err != nil {
				return err
			}
			if p.Status != model.PricePending {
				return cerr.Conflict(fmt.Errorf(
					"price is already %s", p.Status,
				))
			}
			if err = q.SetStatus(ctx, priceID, s); err != nil {
				return err
			}
			p.Status = s
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	log.Info(
		ctx, "moderated a fuel price", log.ID("price", priceID),
		log.String("status", string(s)), log.Actor(actor.ID, actor.Username),
	)
	return p, nil
}
