// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package catalogsuc contains the catalogs UseCase which manages the
// named entities: fuel types, station chains, and station services.
// Everyone may list them, while only admins may change them.
package catalogsuc

import (
	"context"
	"errors"
	"fmt"

	"github.com/momeni/fuelfinder/pkg/core/cerr"
	"github.com/momeni/fuelfinder/pkg/core/log"
	"github.com/momeni/fuelfinder/pkg/core/model"
	"github.com/momeni/fuelfinder/pkg/core/repo"
)

// Sort keys of the catalog lists.
var sortSpec = model.SortSpec{
	Keys:       []string{"id", "name"},
	DefaultKey: "name",
}

// UseCase represents the catalogs use case.
type UseCase struct {
	pool      repo.Pool
	catalogrp repo.Catalog

	pagination model.Pagination
}

// New instantiates a catalogs use case.
func New(p repo.Pool, c repo.Catalog, opts ...Option) (*UseCase, error) {
	uc := &UseCase{pool: p, catalogrp: c}
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

// List returns the pr page of the k catalog. A non-empty name limits
// the result to entities whose names contain it, ignoring cases.
func (cat *UseCase) List(
	ctx context.Context, k model.CatalogKind, name string, pr model.PageRequest,
) (*model.Page[model.NamedEntity], error) {
	if err := pr.Normalize(cat.pagination, sortSpec); err != nil {
		return nil, cerr.BadRequest(err)
	}
	var ents []model.NamedEntity
	var total int64
	err := cat.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) (err error) {
		ents, total, err = cat.catalogrp.Conn(c).List(ctx, k, name, pr)
		return err
	})
	if err != nil {
		return nil, err
	}
	return model.NewPage(ents, pr, total), nil
}

// Get returns the id entity of the k catalog.
func (cat *UseCase) Get(ctx context.Context, k model.CatalogKind, id int64) (ent *model.NamedEntity, err error) {
	err = cat.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		ent, err = cat.catalogrp.Conn(c).ByID(ctx, k, id)
		return err
	})
	return ent, err
}

func requireAdmin(actor *model.User) error {
	if !actor.IsAdmin() {
		return cerr.Authorization(errors.New("admin role is required"))
	}
	return nil
}

// Create adds a new entity to the k catalog. Names are unique in each
// catalog, ignoring cases.
func (cat *UseCase) Create(
	ctx context.Context, actor *model.User, k model.CatalogKind, name string,
) (ent *model.NamedEntity, err error) {
	if err = requireAdmin(actor); err != nil {
		return nil, err
	}
	if name, err = k.ValidateName(name); err != nil {
		return nil, cerr.Invalid("name", err)
	}
	err = cat.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		ent, err = cat.catalogrp.Conn(c).Create(ctx, k, name)
		return err
	})
	if err != nil {
		return nil, err
	}
	log.Info(
		ctx, "created a catalog entity", log.String("catalog", string(k)),
		log.ID("id", ent.ID), log.Actor(actor.ID, actor.Username),
	)
	return ent, nil
}

// Update renames the id entity of the k catalog.
func (cat *UseCase) Update(
	ctx context.Context, actor *model.User, k model.CatalogKind, id int64, name string,
) (ent *model.NamedEntity, err error) {
	if err = requireAdmin(actor); err != nil {
		return nil, err
	}
	if name, err = k.ValidateName(name); err != nil {
		return nil, cerr.Invalid("name", err)
	}
	err = cat.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		ent, err = cat.catalogrp.Conn(c).Update(ctx, k, id, name)
		return err
	})
	return ent, err
}

// Delete removes the id entity of the k catalog. Stations which refer
// to it lose that reference.
func (cat *UseCase) Delete(ctx context.Context, actor *model.User, k model.CatalogKind, id int64) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	err := cat.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		return cat.catalogrp.Conn(c).Delete(ctx, k, id)
	})
	if err != nil {
		return err
	}
	log.Info(
		ctx, "deleted a catalog entity", log.String("catalog", string(k)),
		log.ID("id", id), log.Actor(actor.ID, actor.Username),
	)
	return nil
}
