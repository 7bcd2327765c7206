package repo

import (
	"context"

	"github.com/momeni/fuelfinder/pkg/core/model"
)

type PricesQueryer interface {
	Create(ctx context.Context, prices []model.FuelPrice) ([]model.FuelPrice, error)
	ByID(ctx context.Context, id int64) (*model.FuelPrice, error)
	SetStatus(ctx context.Context, id int64, s model.PriceStatus) error

	// Current lists the current price of each fuel type at the given
	// stations, i.e., the newest accepted price with ties broken by the
	// descending priority. A non-nil fuelTypeID limits the result to
	// that fuel type.
	Current(ctx context.Context, stationIDs []int64, fuelTypeID *int64) ([]model.FuelPrice, error)
	History(ctx context.Context, stationID, fuelTypeID int64, pr model.PageRequest) ([]model.FuelPrice, int64, error)
	Pending(ctx context.Context, pr model.PageRequest) ([]model.FuelPrice, int64, error)
}

type Prices interface {
	Conn(Conn) PricesQueryer
	Tx(Tx) PricesQueryer
}
