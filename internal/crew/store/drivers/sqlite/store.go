package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	msqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/aussiebroadwan/crew/internal/crew/store"
)

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

type Store struct {
	conn
}

// NewStore opens the database at path. File databases get WAL, a busy
// timeout and immediate write transactions so concurrent writers queue
// instead of failing. In-memory databases are pinned to one connection.
func NewStore(path string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn(path))
	if err != nil {
		return nil, err
	}
	if path == MemoryPath {
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return New(db), nil
}

// New wraps an open database handle.
func New(db *sql.DB) *Store {
	return &Store{conn: conn{q: db, db: db}}
}

func dsn(path string) string {
	params := []string{"_pragma=foreign_keys(1)"}
	if path != MemoryPath {
		params = append(params,
			"_pragma=busy_timeout(5000)",
			"_pragma=journal_mode(wal)",
			"_txlock=immediate",
		)
	}
	return path + "?" + strings.Join(params, "&")
}

func (s *Store) Close() error { return s.db.Close() }

// Ping verifies the database connection is still alive.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Tx starts a read/write transaction and returns a Tx-scoped Store.
func (s *Store) Tx(ctx context.Context) (store.Tx, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return newTx(tx), nil
}

// WithTx executes fn within a transaction, automatically handling commit/rollback.
func (s *Store) WithTx(ctx context.Context, fn func(tx store.Tx) error) error {
	tx, err := s.Tx(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback() // no-op after commit
	}()

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

// dbtx is satisfied by both *sql.DB and *sql.Tx.
type dbtx interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// conn is what every repo runs its queries on. db is nil inside a
// transaction.
type conn struct {
	q  dbtx
	db *sql.DB
}

// atomic runs fn in a transaction of its own unless one is already open.
func (c conn) atomic(ctx context.Context, fn func(q dbtx) error) error {
	if c.db == nil {
		return fn(c.q)
	}
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

func (c conn) Organizations() store.Organizations           { return &organizationsRepo{c} }
func (c conn) Roles() store.Roles                           { return &rolesRepo{c} }
func (c conn) Members() store.Members                       { return &membersRepo{c} }
func (c conn) Clients() store.Clients                       { return &clientsRepo{c} }
func (c conn) Profiles() store.Profiles                     { return &profilesRepo{c} }
func (c conn) Identities() store.Identities                 { return &identitiesRepo{c} }
func (c conn) Invitations() store.Invitations               { return &invitationsRepo{c} }
func (c conn) Notifications() store.Notifications           { return &notificationsRepo{c} }
func (c conn) Receipts() store.Receipts                     { return &receiptsRepo{c} }
func (c conn) ActivationRequests() store.ActivationRequests { return &activationRequestsRepo{c} }

func mapNotFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return store.ErrNotFound
	}
	return err
}

// mapConstraint turns unique and primary key violations into ErrAlreadyExists.
func mapConstraint(err error) error {
	var se *msqlite.Error
	if errors.As(err, &se) {
		switch se.Code() {
		case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
			return store.ErrAlreadyExists
		}
	}
	return err
}

// requireRow reports ErrNotFound when an update touched nothing.
func requireRow(res sql.Result, err error) error {
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func millis(t time.Time) int64 { return t.UTC().UnixMilli() }

func fromMillis(ms int64) time.Time { return time.UnixMilli(ms).UTC() }
