// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package appuc

import (
	"github.com/momeni/fuelfinder/pkg/core/repo"
	"github.com/momeni/fuelfinder/pkg/core/usecase/accountsuc"
	"github.com/momeni/fuelfinder/pkg/core/usecase/catalogsuc"
	"github.com/momeni/fuelfinder/pkg/core/usecase/favoritesuc"
	"github.com/momeni/fuelfinder/pkg/core/usecase/pricesuc"
	"github.com/momeni/fuelfinder/pkg/core/usecase/reviewsuc"
	"github.com/momeni/fuelfinder/pkg/core/usecase/stationsuc"
)

// Builder interface represents the expectations from the application
// use case builders. All use cases which can be instantiated by a
// configuration struct have one NewX method here which takes the
// database connection pool and the repositories. The configuration
// struct also provides the ports (such as the password hasher and the
// bearer token issuer) which are needed by each use case.
//
// When the configuration file is reloaded, a new Builder instance is
// obtained and passed to the Reload method, so all use case objects
// can be replaced as opaque objects. This replacement strategy requires
// the resources packages to ask the application UseCase for the actual
// use case objects, right before using them.
type Builder interface {
	NewAccountsUseCase(p repo.Pool, r Repos) (*accountsuc.UseCase, error)
	NewCatalogsUseCase(p repo.Pool, r Repos) (*catalogsuc.UseCase, error)
	NewStationsUseCase(p repo.Pool, r Repos) (*stationsuc.UseCase, error)
	NewPricesUseCase(p repo.Pool, r Repos) (*pricesuc.UseCase, error)
	NewReviewsUseCase(p repo.Pool, r Repos) (*reviewsuc.UseCase, error)
	NewFavoritesUseCase(p repo.Pool, r Repos) (*favoritesuc.UseCase, error)
}
