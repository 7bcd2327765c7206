package repo

import (
	"context"

	"github.com/momeni/fuelfinder/pkg/core/model"
)

type CatalogQueryer interface {
	List(ctx context.Context, k model.CatalogKind, name string, pr model.PageRequest) ([]model.NamedEntity, int64, error)
	ByID(ctx context.Context, k model.CatalogKind, id int64) (*model.NamedEntity, error)
	Create(ctx context.Context, k model.CatalogKind, name string) (*model.NamedEntity, error)
	Update(ctx context.Context, k model.CatalogKind, id int64, name string) (*model.NamedEntity, error)
	Delete(ctx context.Context, k model.CatalogKind, id int64) error
	CountExisting(ctx context.Context, k model.CatalogKind, ids []int64) (int64, error)
}

type Catalog interface {
	Conn(Conn) CatalogQueryer
	Tx(Tx) CatalogQueryer
}
