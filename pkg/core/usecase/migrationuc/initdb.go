// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package migrationuc

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/momeni/fuelfinder/pkg/core/log"
	"github.com/momeni/fuelfinder/pkg/core/model"
	"github.com/momeni/fuelfinder/pkg/core/repo"
	"github.com/momeni/fuelfinder/pkg/core/scram"
)

// Admin holds the credentials of the administrator account which is
// created while initializing a database.
type Admin struct {
	Username string
	Email    string
	Password string
}

func (a Admin) validate() error {
	if ue := model.ValidateUsername(a.Username); ue != model.UsernameOK {
		return fmt.Errorf("admin username: %w", ue)
	}
	if !strings.Contains(a.Email, "@") {
		return fmt.Errorf("admin email is invalid: %q", a.Email)
	}
	if pe := model.ValidatePassword(a.Password); pe != model.PasswordOK {
		return fmt.Errorf("admin password: %w", pe)
	}
	return nil
}

// InitDBUseCase represents the database initialization use case. It may
// be used to initialize database with development or production
// suitable data as asked by the InitDev and InitProd methods.
type InitDBUseCase struct {
	migrator   Migrator
	pool       repo.Pool
	usersrp    repo.Users
	catalogrp  repo.Catalog
	stationsrp repo.Stations
	pricesrp   repo.Prices
	hasher     scram.Hasher
	iterations int

	schemarp repo.Schema
	renew    PasswordRenewer
}

// PasswordRenewer generates fresh passwords for roles and records them
// (e.g., in a pgpass file) before calling change, so change may set
// them in the database. The returned finalizer must be called after
// the change transaction is committed, so the recorded passwords can
// be used by the following connections.
type PasswordRenewer func(
	ctx context.Context,
	change func(ctx context.Context, roles []repo.Role, passwords []string) error,
	roles ...repo.Role,
) (finalizer func() error, err error)

// NewInitDB creates an InitDBUseCase instance. The m migrator is used
// for recreating the schema, while the p pool and repositories are used
// for filling it. Admin passwords are hashed by h with iters PBKDF2
// iterations.
func NewInitDB(
	m Migrator,
	p repo.Pool,
	u repo.Users,
	c repo.Catalog,
	s repo.Stations,
	pr repo.Prices,
	h scram.Hasher,
	iters int,
) *InitDBUseCase {
	return &InitDBUseCase{
		migrator:   m,
		pool:       p,
		usersrp:    u,
		catalogrp:  c,
		stationsrp: s,
		pricesrp:   pr,
		hasher:     h,
		iterations: iters,
	}
}

// WithRoles asks InitProd and InitDev to create the repo.NormalRole
// database role (if missing), grant it access to the migrated tables,
// and renew its password using renew.
func (iduc *InitDBUseCase) WithRoles(
	s repo.Schema, renew PasswordRenewer,
) *InitDBUseCase {
	iduc.schemarp = s
	iduc.renew = renew
	return iduc
}

// InitProd rolls back all migrations (dropping all tables and their
// data) and migrates the schema up again. Thereafter, it creates the
// admin account in a single transaction.
func (iduc *InitDBUseCase) InitProd(ctx context.Context, admin Admin) error {
	return iduc.initDB(ctx, admin, nil)
}

// InitDev rolls back all migrations (dropping all tables and their
// data) and migrates the schema up again. Thereafter, it creates the
// admin account and fills the catalogs and a few sample stations with
// their prices in a single transaction, so the API may be tried out.
func (iduc *InitDBUseCase) InitDev(ctx context.Context, admin Admin) error {
	return iduc.initDB(ctx, admin, iduc.fillDevData)
}

func (iduc *InitDBUseCase) initDB(
	ctx context.Context,
	admin Admin,
	fill func(ctx context.Context, tx repo.Tx, adminID int64) error,
) error {
	if err := admin.validate(); err != nil {
		return err
	}
	hash, err := iduc.hasher.Hash(admin.Password, "", iduc.iterations)
	if err != nil {
		return fmt.Errorf("hashing admin password: %w", err)
	}
	if err = iduc.migrator.Reset(ctx); err != nil {
		return fmt.Errorf("dropping schema: %w", err)
	}
	if err = iduc.migrator.Up(ctx); err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	var finalizer func() error
	err = iduc.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		return c.Tx(ctx, func(ctx context.Context, tx repo.Tx) error {
			if iduc.schemarp != nil {
				f, err := iduc.provisionRoles(ctx, tx)
				if err != nil {
					return fmt.Errorf("provisioning roles: %w", err)
				}
				finalizer = f
			}
			u, err := iduc.usersrp.Tx(tx).Create(ctx, &model.User{
				Username:       admin.Username,
				Email:          strings.ToLower(admin.Email),
				EmailConfirmed: true,
				PasswordHash:   hash,
				Role:           model.RoleAdmin,
				Status:         model.StatusActive,
			})
			if err != nil {
				return fmt.Errorf("creating admin: %w", err)
			}
			if fill == nil {
				return nil
			}
			return fill(ctx, tx, u.ID)
		})
	})
	if err != nil {
		return fmt.Errorf("filling database: %w", err)
	}
	if finalizer != nil {
		if err = finalizer(); err != nil {
			return fmt.Errorf("finalizing renewed passwords: %w", err)
		}
	}
	log.Info(ctx, "initialized database", log.String("admin", admin.Username))
	return nil
}

func (iduc *InitDBUseCase) provisionRoles(
	ctx context.Context, tx repo.Tx,
) (func() error, error) {
	q := iduc.schemarp.Tx(tx)
	if err := q.CreateRoleIfNotExists(ctx, repo.NormalRole); err != nil {
		return nil, fmt.Errorf("creating role: %w", err)
	}
	if err := q.GrantPrivileges(ctx, repo.NormalRole); err != nil {
		return nil, fmt.Errorf("granting privileges: %w", err)
	}
	return iduc.renew(
		ctx,
		func(ctx context.Context, roles []repo.Role, passwords []string) error {
			return q.ChangePasswords(ctx, roles, passwords)
		},
		repo.NormalRole,
	)
}

type sampleStation struct {
	in       model.StationInput
	chain    string
	fuels    map[string]float64
	services []string
	hours    []model.OpeningHours
}

func everyDay(opening, closing int) []model.OpeningHours {
	hours := make([]model.OpeningHours, 7)
	for d := range hours {
		hours[d] = model.OpeningHours{
			DayOfWeek: d, Opening: opening, Closing: closing,
		}
	}
	return hours
}

var (
	devFuelTypes = []string{
		"Diesel", "Petrol 95", "Petrol 98", "LPG", "CNG", "AdBlue",
	}
	devChains   = []string{"Northwind Fuels", "Blue Pump"}
	devServices = []string{
		"Car Wash", "Shop", "Air Pump", "Toilet", "EV Charging",
	}
	devStations = []sampleStation{
		{
			in: model.StationInput{
				Name: "Northwind Alexanderplatz",
				Address: model.Address{
					Street: "Alexanderstrasse", StreetNumber: "7",
					City: "Berlin", PostalCode: "10178",
				},
				Coordinates: model.Coordinates{
					Latitude: 52.5219, Longitude: 13.4132,
				},
			},
			chain: "Northwind Fuels",
			fuels: map[string]float64{
				"Diesel": 1.64, "Petrol 95": 1.79, "Petrol 98": 1.89,
			},
			services: []string{"Shop", "Air Pump", "Toilet"},
			hours:    everyDay(0, 2359),
		},
		{
			in: model.StationInput{
				Name: "Blue Pump Kreuzberg",
				Address: model.Address{
					Street: "Skalitzer Strasse", StreetNumber: "85",
					City: "Berlin", PostalCode: "10997",
				},
				Coordinates: model.Coordinates{
					Latitude: 52.4995, Longitude: 13.4336,
				},
			},
			chain: "Blue Pump",
			fuels: map[string]float64{
				"Diesel": 1.61, "Petrol 95": 1.77, "LPG": 0.99,
			},
			services: []string{"Car Wash", "Shop"},
			hours:    everyDay(600, 2200),
		},
		{
			in: model.StationInput{
				Name: "Tankstelle am Tegeler See",
				Address: model.Address{
					Street: "Karolinenstrasse", StreetNumber: "12a",
					City: "Berlin", PostalCode: "13507",
				},
				Coordinates: model.Coordinates{
					Latitude: 52.5871, Longitude: 13.2829,
				},
			},
			fuels: map[string]float64{
				"Diesel": 1.59, "Petrol 95": 1.74, "CNG": 1.29,
			},
			services: []string{"EV Charging", "Toilet"},
			hours:    everyDay(700, 2000),
		},
	}
)

func (iduc *InitDBUseCase) createCatalog(
	ctx context.Context, q repo.CatalogQueryer, k model.CatalogKind, names []string,
) (map[string]int64, error) {
	ids := make(map[string]int64, len(names))
	for _, name := range names {
		e, err := q.Create(ctx, k, name)
		if err != nil {
			return nil, fmt.Errorf("creating %s %q: %w", k, name, err)
		}
		ids[name] = e.ID
	}
	return ids, nil
}

func (iduc *InitDBUseCase) fillDevData(ctx context.Context, tx repo.Tx, adminID int64) error {
	cq, sq, pq := iduc.catalogrp.Tx(tx), iduc.stationsrp.Tx(tx), iduc.pricesrp.Tx(tx)
	fuels, err := iduc.createCatalog(ctx, cq, model.FuelTypes, devFuelTypes)
	if err != nil {
		return err
	}
	chains, err := iduc.createCatalog(ctx, cq, model.StationChains, devChains)
	if err != nil {
		return err
	}
	services, err := iduc.createCatalog(ctx, cq, model.StationServices, devServices)
	if err != nil {
		return err
	}
	for _, ss := range devStations {
		in := ss.in
		if ss.chain != "" {
			id, ok := chains[ss.chain]
			if !ok {
				return errors.New("unknown sample chain: " + ss.chain)
			}
			in.ChainID = &id
		}
		s, err := sq.Create(ctx, in, adminID)
		if err != nil {
			return fmt.Errorf("creating station %q: %w", in.Name, err)
		}
		var fuelIDs []int64
		var prices []model.FuelPrice
		for name, price := range ss.fuels {
			fuelIDs = append(fuelIDs, fuels[name])
			prices = append(prices, model.FuelPrice{
				StationID: s.ID,
				FuelType:  model.NamedEntity{ID: fuels[name], Name: name},
				Price:     price,
				Available: true,
				Status:    model.PriceAccepted,
				Priority:  model.PriorityOwner,
				UserID:    adminID,
			})
		}
		if err = sq.SetFuelTypes(ctx, s.ID, fuelIDs); err != nil {
			return fmt.Errorf("setting fuel types of %q: %w", in.Name, err)
		}
		serviceIDs := make([]int64, len(ss.services))
		for i, name := range ss.services {
			serviceIDs[i] = services[name]
		}
		if err = sq.SetServices(ctx, s.ID, serviceIDs); err != nil {
			return fmt.Errorf("setting services of %q: %w", in.Name, err)
		}
		if err = sq.SetOpeningHours(ctx, s.ID, ss.hours); err != nil {
			return fmt.Errorf("setting opening hours of %q: %w", in.Name, err)
		}
		if _, err = pq.Create(ctx, prices); err != nil {
			return fmt.Errorf("reporting prices of %q: %w", in.Name, err)
		}
	}
	return nil
}
