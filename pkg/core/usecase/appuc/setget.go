// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package appuc

import (
	"github.com/momeni/fuelfinder/pkg/core/usecase/accountsuc"
	"github.com/momeni/fuelfinder/pkg/core/usecase/catalogsuc"
	"github.com/momeni/fuelfinder/pkg/core/usecase/favoritesuc"
	"github.com/momeni/fuelfinder/pkg/core/usecase/pricesuc"
	"github.com/momeni/fuelfinder/pkg/core/usecase/reviewsuc"
	"github.com/momeni/fuelfinder/pkg/core/usecase/stationsuc"
)

// updateAll atomically publishes the managed use case objects. This
// method minimizes the scope which needs to take a writing lock (after
// instantiating all relevant use case objects).
func (app *UseCase) updateAll(managed managedUseCases) {
	app.rwlock.Lock()
	defer app.rwlock.Unlock()
	app.managed = managed
}

func (app *UseCase) get() managedUseCases {
	app.rwlock.RLock()
	defer app.rwlock.RUnlock()
	return app.managed
}

// AccountsUseCase returns the currently effective accounts use case.
func (app *UseCase) AccountsUseCase() *accountsuc.UseCase {
	return app.get().accounts
}

// CatalogsUseCase returns the currently effective catalogs use case.
func (app *UseCase) CatalogsUseCase() *catalogsuc.UseCase {
	return app.get().catalogs
}

// StationsUseCase returns the currently effective stations use case.
func (app *UseCase) StationsUseCase() *stationsuc.UseCase {
	return app.get().stations
}

func (app *UseCase) PricesUseCase() *pricesuc.UseCase {
	return app.get().prices
}

func (app *UseCase) ReviewsUseCase() *reviewsuc.UseCase {
	return app.get().reviews
}

func (app *UseCase) FavoritesUseCase() *favoritesuc.UseCase {
	return app.get().favorites
}
