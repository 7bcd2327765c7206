package repo

import "context"

// Queryer runs raw SQL statements. The repository packages mostly go
// through gorm, while the raw statements serve the administrative
// queries such as creating the database roles.
type Queryer interface {
	Exec(ctx context.Context, sql string, args ...any) (count int64, err error)
	Query(ctx context.Context, sql string, args ...any) (Rows, error)
}

// Rows iterates over the result set of a Query call. It holds the
// connection busy until it is closed.
type Rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
	Close() error
}
