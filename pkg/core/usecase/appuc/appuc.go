// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package appuc contains the application UseCase which creates all
// other use case objects from a Builder (realized by the effective
// configuration), allows them to be rebuilt when the configuration
// file is reloaded, and provides them (with atomic replacement
// support) so they may be used by the resources packages.
package appuc

import (
	"fmt"
	"sync"

	"github.com/momeni/fuelfinder/pkg/core/repo"
	"github.com/momeni/fuelfinder/pkg/core/usecase/accountsuc"
	"github.com/momeni/fuelfinder/pkg/core/usecase/catalogsuc"
	"github.com/momeni/fuelfinder/pkg/core/usecase/favoritesuc"
	"github.com/momeni/fuelfinder/pkg/core/usecase/pricesuc"
	"github.com/momeni/fuelfinder/pkg/core/usecase/reviewsuc"
	"github.com/momeni/fuelfinder/pkg/core/usecase/stationsuc"
)

// Repos holds the repository instances which are required by the
// managed use cases.
type Repos struct {
	Users     repo.Users
	Tokens    repo.Tokens
	Stations  repo.Stations
	Catalog   repo.Catalog
	Prices    repo.Prices
	Reviews   repo.Reviews
	Favorites repo.Favorites
}

// UseCase represents an application use case. It holds a database
// connection pool and all repository instances, so it can pass them
// to a Builder in order to create the managed use case objects during
// a Reload operation.
type UseCase struct {
	pool  repo.Pool
	repos Repos

	// mutex is held by Reload, so only one goroutine may build new use
	// case objects at any time, while others keep using the published
	// ones without blocking.
	mutex sync.Mutex

	// rwlock is locked for writing by updateAll whenever the new use
	// case objects are prepared and should be published atomically,
	// while it is locked by all getter methods for reading.
	rwlock sync.RWMutex

	managed managedUseCases
}

type managedUseCases struct {
	accounts  *accountsuc.UseCase
	catalogs  *catalogsuc.UseCase
	stations  *stationsuc.UseCase
	prices    *pricesuc.UseCase
	reviews   *reviewsuc.UseCase
	favorites *favoritesuc.UseCase
}

// New instantiates an application use case object and builds its
// managed use case objects using the b Builder.
func New(p repo.Pool, r Repos, b Builder) (*UseCase, error) {
	uc := &UseCase{pool: p, repos: r}
	if err := uc.Reload(b); err != nil {
		return nil, err
	}
	return uc, nil
}

// Reload creates fresh use case objects using the b Builder and
// replaces the current ones atomically. Requests which have fetched
// the old objects may complete using them. If any use case can not be
// created, the current objects are kept and an error is returned.
func (app *UseCase) Reload(b Builder) error {
	app.mutex.Lock()
	defer app.mutex.Unlock()
	managed, err := app.newManagedUseCases(b)
	if err != nil {
		return fmt.Errorf("creating use cases: %w", err)
	}
	app.updateAll(managed)
	return nil
}

func (app *UseCase) newManagedUseCases(b Builder) (m managedUseCases, err error) {
	p, r := app.pool, app.repos
	if m.accounts, err = b.NewAccountsUseCase(p, r); err != nil {
		return m, fmt.Errorf("accounts: %w", err)
	}
	if m.catalogs, err = b.NewCatalogsUseCase(p, r); err != nil {
		return m, fmt.Errorf("catalogs: %w", err)
	}
	if m.stations, err = b.NewStationsUseCase(p, r); err != nil {
		return m, fmt.Errorf("stations: %w", err)
	}
	if m.prices, err = b.NewPricesUseCase(p, r); err != nil {
		return m, fmt.Errorf("prices: %w", err)
	}
	if m.reviews, err = b.NewReviewsUseCase(p, r); err != nil {
		return m, fmt.Errorf("reviews: %w", err)
	}
	if m.favorites, err = b.NewFavoritesUseCase(p, r); err != nil {
		return m, fmt.Errorf("favorites: %w", err)
	}
	return m, nil
}
