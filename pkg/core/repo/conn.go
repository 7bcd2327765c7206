package repo

import "context"

// Pool hands out database connections to the use cases. A connection
// is held only while its handler runs, so the handlers should not
// block on anything but the database.
type Pool interface {
	Conn(ctx context.Context, handler ConnHandler) error
}

// ConnHandler uses c and returns it to the pool by returning.
type ConnHandler func(ctx context.Context, c Conn) error

// Conn is a single connection. Statements issued on it are committed
// one by one, unless they are grouped by the Tx method. For example,
// a price report is moderated in a transaction, so two moderators can
// not both take the same pending report.
type Conn interface {
	Queryer
	Tx(ctx context.Context, handler TxHandler) error
	IsConn()
}

// TxHandler runs in a transaction which is committed if it returns
// nil and is rolled back if it fails or panics.
type TxHandler func(ctx context.Context, tx Tx) error

// Tx is a READ-COMMITTED transaction. It must not be used concurrently
// or after its handler returns.
type Tx interface {
	Queryer

	// IsTx keeps a Conn from satisfying the Tx interface, so methods
	// which must run atomically can demand a Tx argument.
	IsTx()
}
