package repo

import (
	"context"

	"github.com/momeni/fuelfinder/pkg/core/model"
)

type FavoritesQueryer interface {
	Add(ctx context.Context, userID, stationID int64) error
	Remove(ctx context.Context, userID, stationID int64) error
	List(ctx context.Context, userID int64, pr model.PageRequest) ([]model.Favorite, int64, error)
}

type Favorites interface {
	Conn(Conn) FavoritesQueryer
	Tx(Tx) FavoritesQueryer
}
