package repo

import (
	"context"

	"github.com/momeni/fuelfinder/pkg/core/model"
)

type ReviewsQueryer interface {
	ForStation(ctx context.Context, stationID int64, pr model.PageRequest) ([]model.Review, int64, error)
	ForUser(ctx context.Context, userID int64, pr model.PageRequest) ([]model.Review, int64, error)
	ByID(ctx context.Context, id int64) (*model.Review, error)
	Exists(ctx context.Context, stationID, userID int64) (bool, error)
	Create(ctx context.Context, r *model.Review) (*model.Review, error)
	Update(ctx context.Context, id int64, in model.ReviewInput) (*model.Review, error)
	Delete(ctx context.Context, id int64) error
	Summary(ctx context.Context, stationID int64) (model.RatingSummary, error)
}

type Reviews interface {
	Conn(Conn) ReviewsQueryer
	Tx(Tx) ReviewsQueryer
}
