package repo

import (
	"context"
	"time"

	"github.com/momeni/fuelfinder/pkg/core/model"
)

type TokensQueryer interface {
	// Replace removes all tokens of t.UserID with the same t.Kind and
	// inserts t, so each user has at most one active token per kind.
	Replace(ctx context.Context, t *model.Token) error
	Get(ctx context.Context, userID int64, kind model.TokenKind) (*model.Token, error)
	// ClaimAttempt atomically counts an attempt of the id token unless
	// it has been tried maxAttempts times already, reporting whether
	// the attempt may proceed.
	ClaimAttempt(ctx context.Context, id int64, maxAttempts int) (bool, error)
	Delete(ctx context.Context, id int64) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

type Tokens interface {
	Conn(Conn) TokensQueryer
	Tx(Tx) TokensQueryer
}
