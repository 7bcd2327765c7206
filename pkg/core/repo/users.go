package repo

import (
	"context"

	"github.com/momeni/fuelfinder/pkg/core/model"
)

type UsersQueryer interface {
	Create(ctx context.Context, u *model.User) (*model.User, error)
	ByID(ctx context.Context, id int64) (*model.User, error)
	ByUsername(ctx context.Context, username string) (*model.User, error)
	ByEmail(ctx context.Context, email string) (*model.User, error)
	Taken(ctx context.Context, username, email string) (usernameTaken, emailTaken bool, err error)
	UpdatePassword(ctx context.Context, id int64, hash string) error
	ConfirmEmail(ctx context.Context, id int64) error
	SetStatus(ctx context.Context, id int64, s model.AccountStatus) error
	SetRole(ctx context.Context, id int64, r model.Role) error
	Delete(ctx context.Context, id int64) error
}

type Users interface {
	Conn(Conn) UsersQueryer
	Tx(Tx) UsersQueryer
}
