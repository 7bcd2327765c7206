// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package reviewsuc contains the reviews UseCase. Each user may review
// each fuel station once, and may update or delete that review later.
package reviewsuc

import (
	"context"
	"errors"
	"fmt"

	"github.com/momeni/fuelfinder/pkg/core/cerr"
	"github.com/momeni/fuelfinder/pkg/core/log"
	"github.com/momeni/fuelfinder/pkg/core/model"
	"github.com/momeni/fuelfinder/pkg/core/repo"
)

var sortSpec = model.SortSpec{
	Keys:           []string{"createdAt", "rate"},
	DefaultKey:     "createdAt",
	DefaultDescend: true,
}

// UseCase represents the reviews use case.
type UseCase struct {
	pool       repo.Pool
	reviewsrp  repo.Reviews
	stationsrp repo.Stations
	usersrp    repo.Users

	pagination model.Pagination
}

// New instantiates a reviews use case.
func New(p repo.Pool, r repo.Reviews, s repo.Stations, u repo.Users, opts ...Option) (*UseCase, error) {
	uc := &UseCase{pool: p, reviewsrp: r, stationsrp: s, usersrp: u}
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

func (rv *UseCase) list(
	ctx context.Context,
	pr model.PageRequest,
	f func(context.Context, repo.Conn, model.PageRequest) ([]model.Review, int64, error),
) (*model.Page[model.Review], error) {
	if err := pr.Normalize(rv.pagination, sortSpec); err != nil {
		return nil, cerr.BadRequest(err)
	}
	var reviews []model.Review
	var total int64
	err := rv.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) (err error) {
		reviews, total, err = f(ctx, c, pr)
		return err
	})
	if err != nil {
		return nil, err
	}
	return model.NewPage(reviews, pr, total), nil
}

// ListForStation returns the pr page of the stationID station reviews.
func (rv *UseCase) ListForStation(ctx context.Context, stationID int64, pr model.PageRequest) (*model.Page[model.Review], error) {
	return rv.list(ctx, pr, func(ctx context.Context, c repo.Conn, pr model.PageRequest) ([]model.Review, int64, error) {
		ok, err := rv.stationsrp.Conn(c).Exists(ctx, stationID)
		if err != nil {
			return nil, 0, err
		}
		if !ok {
			return nil, 0, cerr.NotFound(errors.New("fuel station not found"))
		}
		return rv.reviewsrp.Conn(c).ForStation(ctx, stationID, pr)
	})
}

// ListForUser returns the pr page of reviews which were written by the
// username user.
func (rv *UseCase) ListForUser(ctx context.Context, username string, pr model.PageRequest) (*model.Page[model.Review], error) {
	return rv.list(ctx, pr, func(ctx context.Context, c repo.Conn, pr model.PageRequest) ([]model.Review, int64, error) {
		u, err := rv.usersrp.Conn(c).ByUsername(ctx, username)
		if err != nil {
			return nil, 0, err
		}
		return rv.reviewsrp.Conn(c).ForUser(ctx, u.ID, pr)
	})
}

// Create adds the actor review of the stationID station.
func (rv *UseCase) Create(
	ctx context.Context, actor *model.User, stationID int64, in model.ReviewInput,
) (r *model.Review, err error) {
	if err = in.Normalize(); err != nil {
		return nil, cerr.BadRequest(err)
	}
	err = rv.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		ok, err := rv.stationsrp.Conn(c).Exists(ctx, stationID)
		if err != nil {
			return err
		}
		if !ok {
			return cerr.NotFound(errors.New("fuel station not found"))
		}
		q := rv.reviewsrp.Conn(c)
		ok, err = q.Exists(ctx, stationID, actor.ID)
		if err != nil {
			return err
		}
		if ok {
			return cerr.Conflict(errors.New("station is already reviewed"))
		}
		r, err = q.Create(ctx, &model.Review{
			StationID: stationID,
			UserID:    actor.ID,
			Content:   in.Content,
			Rate:      in.Rate,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	log.Info(
		ctx, "reviewed a fuel station", log.ID("station", stationID),
		log.ID("review", r.ID), log.Actor(actor.ID, actor.Username),
	)
	return r, nil
}

// Update replaces the content and rate of the reviewID review.
// Only its author may update a review.
func (rv *UseCase) Update(
	ctx context.Context, actor *model.User, reviewID int64, in model.ReviewInput,
) (r *model.Review, err error) {
	if err = in.Normalize(); err != nil {
		return nil, cerr.BadRequest(err)
	}
	err = rv.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		q := rv.reviewsrp.Conn(c)
		r, err = q.ByID(ctx, reviewID)
		if err != nil {
			return err
		}
		if r.UserID != actor.ID {
			return cerr.Authorization(
				errors.New("only the author may update a review"),
			)
		}
		r, err = q.Update(ctx, reviewID, in)
		return err
	})
	if err != nil {
		r = nil
	}
	return r, err
}

// Delete removes the reviewID review. Its author and admins may
// delete a review.
func (rv *UseCase) Delete(ctx context.Context, actor *model.User, reviewID int64) error {
	return rv.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		q := rv.reviewsrp.Conn(c)
		r, err := q.ByID(ctx, reviewID)
		if err != nil {
			return err
		}
		if r.UserID != actor.ID && !actor.IsAdmin() {
			return cerr.Authorization(
				errors.New("only the author and admins may delete a review"),
			)
		}
		if err = q.Delete(ctx, reviewID); err != nil {
			return err
		}
		log.Info(
			ctx, "deleted a review", log.ID("review", reviewID),
			log.Actor(actor.ID, actor.Username),
		)
		return nil
	})
}

// Summary returns the average rate and count of the stationID station
// reviews.
func (rv *UseCase) Summary(ctx context.Context, stationID int64) (s model.RatingSummary, err error) {
	err = rv.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		ok, err := rv.stationsrp.Conn(c).Exists(ctx, stationID)
		if err != nil {
			return err
		}
		if !ok {
			return cerr.NotFound(errors.New("fuel station not found"))
		}
		s, err = rv.reviewsrp.Conn(c).Summary(ctx, stationID)
		return err
	})
	return s, err
}
