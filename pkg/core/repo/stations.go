package repo

import (
	"context"

	"github.com/momeni/fuelfinder/pkg/core/model"
)

type StationsQueryer interface {
	Create(ctx context.Context, in model.StationInput, by int64) (*model.FuelStation, error)
	Update(ctx context.Context, id int64, in model.StationInput, by int64) (*model.FuelStation, error)
	Delete(ctx context.Context, id int64) error
	ByID(ctx context.Context, id int64) (*model.FuelStation, error)
	Exists(ctx context.Context, id int64) (bool, error)
	Find(ctx context.Context, f model.StationFilter) ([]model.FuelStation, error)
	FindPage(ctx context.Context, f model.StationFilter, pr model.PageRequest) ([]model.FuelStation, int64, error)
	Owned(ctx context.Context, userID int64, pr model.PageRequest) ([]model.FuelStation, int64, error)

	FuelTypes(ctx context.Context, id int64) ([]model.NamedEntity, error)
	SetFuelTypes(ctx context.Context, id int64, fuelTypeIDs []int64) error
	CountFuelTypes(ctx context.Context, id int64, fuelTypeIDs []int64) (int64, error)
	Services(ctx context.Context, id int64) ([]model.NamedEntity, error)
	SetServices(ctx context.Context, id int64, serviceIDs []int64) error
	OpeningHours(ctx context.Context, id int64) ([]model.OpeningHours, error)
	SetOpeningHours(ctx context.Context, id int64, hours []model.OpeningHours) error

	IsOwner(ctx context.Context, id, userID int64) (bool, error)
	AddOwner(ctx context.Context, id, userID int64) error
	RemoveOwner(ctx context.Context, id, userID int64) error
	CountOwned(ctx context.Context, userID int64) (int64, error)
}

type Stations interface {
	Conn(Conn) StationsQueryer
	Tx(Tx) StationsQueryer
}
