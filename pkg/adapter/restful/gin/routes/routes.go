// Copyright (c) 2023-2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package routes contains all resource packages and facilitates
// instantiation and registration of all repo, use case, and resource
// packages based on the user provided configuration settings.
package routes

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/momeni/fuelfinder/pkg/adapter/db/postgres/catalogrp"
	"github.com/momeni/fuelfinder/pkg/adapter/db/postgres/favoritesrp"
	"github.com/momeni/fuelfinder/pkg/adapter/db/postgres/pricesrp"
	"github.com/momeni/fuelfinder/pkg/adapter/db/postgres/reviewsrp"
	"github.com/momeni/fuelfinder/pkg/adapter/db/postgres/stationsrp"
	"github.com/momeni/fuelfinder/pkg/adapter/db/postgres/tokensrp"
	"github.com/momeni/fuelfinder/pkg/adapter/db/postgres/usersrp"
	"github.com/momeni/fuelfinder/pkg/adapter/restful/gin/accountsrs"
	"github.com/momeni/fuelfinder/pkg/adapter/restful/gin/authmw"
	"github.com/momeni/fuelfinder/pkg/adapter/restful/gin/catalogrs"
	"github.com/momeni/fuelfinder/pkg/adapter/restful/gin/favoritesrs"
	"github.com/momeni/fuelfinder/pkg/adapter/restful/gin/pricesrs"
	"github.com/momeni/fuelfinder/pkg/adapter/restful/gin/reviewsrs"
	"github.com/momeni/fuelfinder/pkg/adapter/restful/gin/serdser"
	"github.com/momeni/fuelfinder/pkg/adapter/restful/gin/stationsrs"
	"github.com/momeni/fuelfinder/pkg/adapter/restful/gin/usersrs"
	"github.com/momeni/fuelfinder/pkg/core/usecase/appuc"
)

// NewRepos instantiates all repositories which are required by the
// application use case. Each repository package is named like
// stationsrp and runs its queries on the connections or transactions
// which are passed by the use cases.
func NewRepos() appuc.Repos {
	return appuc.Repos{
		Users:     usersrp.New(),
		Tokens:    tokensrp.New(),
		Stations:  stationsrp.New(),
		Catalog:   catalogrp.New(),
		Prices:    pricesrp.New(),
		Reviews:   reviewsrp.New(),
		Favorites: favoritesrp.New(),
	}
}

// Register instantiates a series of "resource" structs, from packages
// which are named like stationsrs, in order to adapt the use cases
// interfaces with the REST APIs. These resources are registered as
// request handlers using the e gin-gonic engine instance under the
// /api/v1 prefix. Resources fetch their use cases from the app use
// case per request, so reloading the configuration takes effect for
// the next requests.
func Register(e *gin.Engine, app *appuc.UseCase) error {
	if err := serdser.RegisterValidators(); err != nil {
		return fmt.Errorf("registering validators: %w", err)
	}
	auth := authmw.New(app.AccountsUseCase)
	r := e.Group("/api/v1")
	accountsrs.Register(r, app.AccountsUseCase, auth)
	usersrs.Register(r, app.AccountsUseCase, app.ReviewsUseCase, auth)
	catalogrs.Register(r, app.CatalogsUseCase, auth)
	stationsrs.Register(r, app.StationsUseCase, auth)
	pricesrs.Register(r, app.PricesUseCase, auth)
	reviewsrs.Register(r, app.ReviewsUseCase, auth)
	favoritesrs.Register(r, app.FavoritesUseCase, auth)
	return nil
}
