// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package stationsuc contains the stations UseCase which supports
// searching for fuel stations and managing their details.
//
// Searching narrows the candidates in the database using a bounding
// box around the requested centre. The exact great-circle distances
// are computed afterwards, so stations in the box corners which are
// farther than the requested radius are dropped. Since the distance
// and price sort orders are only known after these steps, the whole
// candidates set is sorted and paginated in memory.
package stationsuc

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strings"

	"github.com/momeni/fuelfinder/pkg/core/cerr"
	"github.com/momeni/fuelfinder/pkg/core/log"
	"github.com/momeni/fuelfinder/pkg/core/model"
	"github.com/momeni/fuelfinder/pkg/core/repo"
)

// UseCase represents the stations use case.
type UseCase struct {
	pool       repo.Pool
	stationsrp repo.Stations
	catalogrp  repo.Catalog
	pricesrp   repo.Prices
	reviewsrp  repo.Reviews
	usersrp    repo.Users

	pagination    model.Pagination
	defaultRadius float64
	maxRadius     float64
}

// New instantiates a stations use case.
func New(
	p repo.Pool,
	s repo.Stations,
	c repo.Catalog,
	pr repo.Prices,
	r repo.Reviews,
	u repo.Users,
	opts ...Option,
) (*UseCase, error) {
	uc := &UseCase{
		pool:       p,
		stationsrp: s,
		catalogrp:  c,
		pricesrp:   pr,
		reviewsrp:  r,
		usersrp:    u,
	}
	for _, opt := range opts {
		if err := opt(uc); err != nil {
			return nil, fmt.Errorf("invalid option: %w", err)
		}
	}
	if uc.pagination.MaxPageSize == 0 {
		uc.pagination = model.Pagination{DefaultPageSize: 20, MaxPageSize: 100}
	}
	if uc.maxRadius == 0 {
		uc.defaultRadius, uc.maxRadius = 10, 100
	}
	return uc, nil
}

func (st *UseCase) searchSortSpec(q *model.StationQuery) model.SortSpec {
	ss := model.SortSpec{
		Keys: []string{model.SortByName, model.SortByID},
	}
	if q.Center != nil {
		ss.Keys = append(ss.Keys, model.SortByDistance)
	}
	if q.FuelTypeID != nil {
		ss.Keys = append(ss.Keys, model.SortByPrice)
	}
	switch {
	case q.Center != nil:
		ss.DefaultKey = model.SortByDistance
	case q.FuelTypeID != nil:
		ss.DefaultKey = model.SortByPrice
	default:
		ss.DefaultKey = model.SortByID
	}
	return ss
}

// Search finds the stations which match q and returns the requested
// page of them. When q has a centre, stations farther than the search
// radius are excluded and their distances are reported. When q has a
// fuel type, the current price of that fuel type is reported too.
// Sorting by distance requires a centre and sorting by price requires
// a fuel type. Stations without any known price are sorted last.
func (st *UseCase) Search(ctx context.Context, q model.StationQuery) (*model.Page[model.StationSummary], error) {
	f := model.StationFilter{
		Name:       strings.TrimSpace(q.Name),
		ChainID:    q.ChainID,
		FuelTypeID: q.FuelTypeID,
		ServiceID:  q.ServiceID,
	}
	if q.Center != nil {
		if err := q.Center.Validate(); err != nil {
			return nil, cerr.BadRequest(err)
		}
		switch {
		case q.Radius == 0:
			q.Radius = st.defaultRadius
		case q.Radius < 0 || q.Radius > st.maxRadius:
			return nil, cerr.Invalid("distance", fmt.Errorf(
				"distance must be in (0, %v] km", st.maxRadius,
			))
		}
		box := q.Center.BoundingBox(q.Radius)
		f.Box = &box
	}
	if err := q.Page.Normalize(st.pagination, st.searchSortSpec(&q)); err != nil {
		return nil, cerr.BadRequest(err)
	}
	if q.Center == nil && q.Page.SortBy != model.SortByPrice {
		return st.searchPage(ctx, f, q.Page)
	}
	var stations []model.FuelStation
	var prices []model.FuelPrice
	err := st.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) (err error) {
		stations, err = st.stationsrp.Conn(c).Find(ctx, f)
		if err != nil || f.FuelTypeID == nil || len(stations) == 0 {
			return err
		}
		prices, err = st.currentPrices(ctx, c, stations, f.FuelTypeID)
		return err
	})
	if err != nil {
		return nil, err
	}
	byStation := byStationID(prices)
	sums := make([]model.StationSummary, 0, len(stations))
	for _, s := range stations {
		sum := model.StationSummary{FuelStation: s, Price: byStation[s.ID]}
		if q.Center != nil {
			d := q.Center.DistanceTo(s.Coordinates)
			if d > q.Radius {
				continue
			}
			sum.Distance = &d
		}
		sums = append(sums, sum)
	}
	sortSummaries(sums, q.Page)
	return model.PageOf(sums, q.Page), nil
}

// searchPage lets the database sort and paginate the stations, which
// is possible when the sort key does not depend on distances or prices.
func (st *UseCase) searchPage(ctx context.Context, f model.StationFilter, pr model.PageRequest) (*model.Page[model.StationSummary], error) {
	var stations []model.FuelStation
	var prices []model.FuelPrice
	var total int64
	err := st.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) (err error) {
		stations, total, err = st.stationsrp.Conn(c).FindPage(ctx, f, pr)
		if err != nil || f.FuelTypeID == nil || len(stations) == 0 {
			return err
		}
		prices, err = st.currentPrices(ctx, c, stations, f.FuelTypeID)
		return err
	})
	if err != nil {
		return nil, err
	}
	byStation := byStationID(prices)
	sums := make([]model.StationSummary, len(stations))
	for i, s := range stations {
		sums[i] = model.StationSummary{FuelStation: s, Price: byStation[s.ID]}
	}
	return model.NewPage(sums, pr, total), nil
}

func (st *UseCase) currentPrices(
	ctx context.Context, c repo.Conn, stations []model.FuelStation, fuelTypeID *int64,
) ([]model.FuelPrice, error) {
	ids := make([]int64, len(stations))
	for i := range stations {
		ids[i] = stations[i].ID
	}
	return st.pricesrp.Conn(c).Current(ctx, ids, fuelTypeID)
}

func byStationID(prices []model.FuelPrice) map[int64]*model.FuelPrice {
	m := make(map[int64]*model.FuelPrice, len(prices))
	for i := range prices {
		m[prices[i].StationID] = &prices[i]
	}
	return m
}

func sortSummaries(sums []model.StationSummary, pr model.PageRequest) {
	var by func(a, b *model.StationSummary) int
	switch pr.SortBy {
	case model.SortByDistance:
		by = func(a, b *model.StationSummary) int {
			return cmp.Compare(*a.Distance, *b.Distance)
		}
	case model.SortByName:
		by = func(a, b *model.StationSummary) int {
			return cmp.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
		}
	case model.SortByPrice:
		by = func(a, b *model.StationSummary) int {
			return cmp.Compare(a.Price.Price, b.Price.Price)
		}
	}
	slices.SortStableFunc(sums, func(a, b model.StationSummary) int {
		if pr.SortBy == model.SortByPrice && (a.Price == nil) != (b.Price == nil) {
			// missing prices go last in both directions
			if a.Price == nil {
				return 1
			}
			return -1
		}
		c := 0
		if by != nil && (pr.SortBy != model.SortByPrice || a.Price != nil) {
			c = by(&a, &b)
		}
		if c == 0 {
			c = cmp.Compare(a.ID, b.ID)
		}
		if pr.Descending {
			return -c
		}
		return c
	})
}

// Get returns the id station with its catalog entities, opening hours,
// current prices, and rating summary.
func (st *UseCase) Get(ctx context.Context, id int64) (d *model.StationDetails, err error) {
	err = st.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		q := st.stationsrp.Conn(c)
		s, err := q.ByID(ctx, id)
		if err != nil {
			return err
		}
		d = &model.StationDetails{FuelStation: *s}
		if d.FuelTypes, err = q.FuelTypes(ctx, id); err != nil {
			return err
		}
		if d.Services, err = q.Services(ctx, id); err != nil {
			return err
		}
		if d.OpeningHours, err = q.OpeningHours(ctx, id); err != nil {
			return err
		}
		d.Prices, err = st.pricesrp.Conn(c).Current(ctx, []int64{id}, nil)
		if err != nil {
			return err
		}
		d.Rating, err = st.reviewsrp.Conn(c).Summary(ctx, id)
		return err
	})
	if err != nil {
		d = nil
	}
	return d, err
}

func requireAdmin(actor *model.User) error {
	if !actor.IsAdmin() {
		return cerr.Authorization(errors.New("admin role is required"))
	}
	return nil
}

// requireManager allows admins and the id station owners.
func (st *UseCase) requireManager(ctx context.Context, c repo.Conn, actor *model.User, id int64) error {
	q := st.stationsrp.Conn(c)
	ok, err := q.Exists(ctx, id)
	switch {
	case err != nil:
		return err
	case !ok:
		return cerr.NotFound(errors.New("fuel station not found"))
	case actor.IsAdmin():
		return nil
	}
	ok, err = q.IsOwner(ctx, id, actor.ID)
	switch {
	case err != nil:
		return err
	case !ok:
		return cerr.Authorization(
			errors.New("only admins and owners may manage this station"),
		)
	}
	return nil
}

func (st *UseCase) checkChain(ctx context.Context, c repo.Conn, in *model.StationInput) error {
	if in.ChainID == nil {
		return nil
	}
	_, err := st.catalogrp.Conn(c).ByID(ctx, model.StationChains, *in.ChainID)
	if cerr.Is(err, http.StatusNotFound) {
		return cerr.Invalid("chainId", errors.New("station chain not found"))
	}
	return err
}

// Create adds a new fuel station. Only admins may create stations.
func (st *UseCase) Create(ctx context.Context, actor *model.User, in model.StationInput) (s *model.FuelStation, err error) {
	if err = requireAdmin(actor); err != nil {
		return nil, err
	}
	if err = in.Normalize(); err != nil {
		return nil, cerr.BadRequest(err)
	}
	err = st.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		if err := st.checkChain(ctx, c, &in); err != nil {
			return err
		}
		s, err = st.stationsrp.Conn(c).Create(ctx, in, actor.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	log.Info(
		ctx, "created a fuel station", log.ID("station", s.ID),
		log.Actor(actor.ID, actor.Username),
	)
	return s, nil
}

// Update replaces the fields of the id station. Admins and the station
// owners may update it.
func (st *UseCase) Update(ctx context.Context, actor *model.User, id int64, in model.StationInput) (s *model.FuelStation, err error) {
	if err = in.Normalize(); err != nil {
		return nil, cerr.BadRequest(err)
	}
	err = st.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		if err := st.requireManager(ctx, c, actor, id); err != nil {
			return err
		}
		if err := st.checkChain(ctx, c, &in); err != nil {
			return err
		}
		s, err = st.stationsrp.Conn(c).Update(ctx, id, in, actor.ID)
		return err
	})
	if err != nil {
		s = nil
	}
	return s, err
}

// Delete removes the id station with all of its related rows.
// Only admins may delete stations.
func (st *UseCase) Delete(ctx context.Context, actor *model.User, id int64) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	err := st.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		return c.Tx(ctx, func(ctx context.Context, tx repo.Tx) error {
			return st.stationsrp.Tx(tx).Delete(ctx, id)
		})
	})
	if err != nil {
		return err
	}
	log.Info(
		ctx, "deleted a fuel station", log.ID("station", id),
		log.Actor(actor.ID, actor.Username),
	)
	return nil
}

// distinct returns the sorted unique items of ids.
func distinct(ids []int64) []int64 {
	u := slices.Clone(ids)
	slices.Sort(u)
	return slices.Compact(u)
}

func (st *UseCase) setCatalog(
	ctx context.Context,
	actor *model.User,
	id int64,
	k model.CatalogKind,
	field string,
	ids []int64,
	set func(context.Context, repo.StationsQueryer, []int64) error,
	get func(context.Context, repo.StationsQueryer) ([]model.NamedEntity, error),
) (ents []model.NamedEntity, err error) {
	ids = distinct(ids)
	err = st.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		if err := st.requireManager(ctx, c, actor, id); err != nil {
			return err
		}
		n, err := st.catalogrp.Conn(c).CountExisting(ctx, k, ids)
		if err != nil {
			return err
		}
		if n != int64(len(ids)) {
			return cerr.Invalid(field, fmt.Errorf("unknown %s ids", k))
		}
		return c.Tx(ctx, func(ctx context.Context, tx repo.Tx) error {
			q := st.stationsrp.Tx(tx)
			if err := set(ctx, q, ids); err != nil {
				return err
			}
			ents, err = get(ctx, q)
			return err
		})
	})
	if err != nil {
		ents = nil
	}
	return ents, err
}

// SetFuelTypes replaces the fuel types which are offered by the id
// station. Admins and the station owners may change them.
func (st *UseCase) SetFuelTypes(ctx context.Context, actor *model.User, id int64, fuelTypeIDs []int64) ([]model.NamedEntity, error) {
	return st.setCatalog(
		ctx, actor, id, model.FuelTypes, "fuelTypeIds", fuelTypeIDs,
		func(ctx context.Context, q repo.StationsQueryer, ids []int64) error {
			return q.SetFuelTypes(ctx, id, ids)
		},
		func(ctx context.Context, q repo.StationsQueryer) ([]model.NamedEntity, error) {
			return q.FuelTypes(ctx, id)
		},
	)
}

// SetServices replaces the services which are offered by the id
// station. Admins and the station owners may change them.
func (st *UseCase) SetServices(ctx context.Context, actor *model.User, id int64, serviceIDs []int64) ([]model.NamedEntity, error) {
	return st.setCatalog(
		ctx, actor, id, model.StationServices, "serviceIds", serviceIDs,
		func(ctx context.Context, q repo.StationsQueryer, ids []int64) error {
			return q.SetServices(ctx, id, ids)
		},
		func(ctx context.Context, q repo.StationsQueryer) ([]model.NamedEntity, error) {
			return q.Services(ctx, id)
		},
	)
}

// SetOpeningHours replaces the weekly opening hours of the id station.
// Each day of week may be given at most once and missing days mean
// that the station is closed on them.
func (st *UseCase) SetOpeningHours(ctx context.Context, actor *model.User, id int64, hours []model.OpeningHours) ([]model.OpeningHours, error) {
	if err := model.ValidateWeek(hours); err != nil {
		return nil, cerr.Invalid("openingHours", err)
	}
	slices.SortFunc(hours, func(a, b model.OpeningHours) int {
		return cmp.Compare(a.DayOfWeek, b.DayOfWeek)
	})
	err := st.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		if err := st.requireManager(ctx, c, actor, id); err != nil {
			return err
		}
		return c.Tx(ctx, func(ctx context.Context, tx repo.Tx) error {
			return st.stationsrp.Tx(tx).SetOpeningHours(ctx, id, hours)
		})
	})
	if err != nil {
		return nil, err
	}
	return hours, nil
}

// AddOwner makes the username user an owner of the id station.
// Regular users are promoted to the Owner role. Only admins may add
// owners.
func (st *UseCase) AddOwner(ctx context.Context, actor *model.User, id int64, username string) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	return st.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		return c.Tx(ctx, func(ctx context.Context, tx repo.Tx) error {
			sq, uq := st.stationsrp.Tx(tx), st.usersrp.Tx(tx)
			ok, err := sq.Exists(ctx, id)
			if err != nil {
				return err
			}
			if !ok {
				return cerr.NotFound(errors.New("fuel station not found"))
			}
			u, err := uq.ByUsername(ctx, username)
			if err != nil {
				return err
			}
			if err = sq.AddOwner(ctx, id, u.ID); err != nil {
				return err
			}
			if u.Role == model.RoleUser {
				if err = uq.SetRole(ctx, u.ID, model.RoleOwner); err != nil {
					return err
				}
			}
			log.Info(
				ctx, "added a station owner", log.ID("station", id),
				log.User(u.ID, u.Username),
				log.Actor(actor.ID, actor.Username),
			)
			return nil
		})
	})
}

// RemoveOwner revokes the ownership of the id station from the
// username user. Owners which own no more stations are demoted to the
// User role. Only admins may remove owners.
func (st *UseCase) RemoveOwner(ctx context.Context, actor *model.User, id int64, username string) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	return st.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		return c.Tx(ctx, func(ctx context.Context, tx repo.Tx) error {
			sq, uq := st.stationsrp.Tx(tx), st.usersrp.Tx(tx)
			u, err := uq.ByUsername(ctx, username)
			if err != nil {
				return err
			}
			if err = sq.RemoveOwner(ctx, id, u.ID); err != nil {
				return err
			}
			if u.Role != model.RoleOwner {
				return nil
			}
			n, err := sq.CountOwned(ctx, u.ID)
			if err != nil || n > 0 {
				return err
			}
			return uq.SetRole(ctx, u.ID, model.RoleUser)
		})
	})
}

// ListOwned returns the pr page of stations which are owned by actor.
func (st *UseCase) ListOwned(ctx context.Context, actor *model.User, pr model.PageRequest) (*model.Page[model.FuelStation], error) {
	ss := model.SortSpec{
		Keys:       []string{model.SortByID, model.SortByName},
		DefaultKey: model.SortByName,
	}
	if err := pr.Normalize(st.pagination, ss); err != nil {
		return nil, cerr.BadRequest(err)
	}
	var stations []model.FuelStation
	var total int64
	err := st.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) (err error) {
		stations, total, err = st.stationsrp.Conn(c).Owned(ctx, actor.ID, pr)
		return err
	})
	if err != nil {
		return nil, err
	}
	return model.NewPage(stations, pr, total), nil
}
