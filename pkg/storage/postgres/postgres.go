package postgres

import (
	"botlist/pkg/storage"
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/riverqueue/river"
	"github.com/riverqueue/river/riverdriver/riverdatabasesql"
)

// Options configure the connection pool shared by the listing store, the job
// inserter and the workers.
type Options struct {
	Username string
	Password string
	Host     string
	// SslMode is passed to libpq-style connection strings, e.g. "disable".
	SslMode  string
	Port     int
	Database string

	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
	// MaxOpenConnections caps the pool size. Zero keeps the pgxpool default.
	MaxOpenConnections int
	// MaxIdleConnections is the number of connections kept open while idle.
	MaxIdleConnections int
}

// DB is satisfied by both *sql.DB and *sql.Tx so listing queries run the same
// way inside and outside WithTx.
type DB interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	PrepareContext(ctx context.Context, query string) (*sql.Stmt, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// Builder is the part of goqu used to build listing queries. Implemented by
// *goqu.Database and *goqu.TxDatabase.
type Builder interface {
	From(table ...interface{}) *goqu.SelectDataset
	Insert(table interface{}) *goqu.InsertDataset
	Update(table interface{}) *goqu.UpdateDataset
	Delete(table interface{}) *goqu.DeleteDataset
}

// PgSQL is the PostgreSQL listing store and job inserter.
type PgSQL struct {
	// DB is a *sql.DB, or a *sql.Tx for handles returned by Begin.
	DB      DB
	Builder Builder
	// Pool is the pgx pool behind DB. It is nil on transactional handles and
	// is handed to the River workers by the serve command.
	Pool    *pgxpool.Pool

	// queue is an insert-only River client used by AddJob. It is shared by the
	// root handle and every transaction begun from it.
	queue *river.Client[*sql.Tx]
}

// Ensure PgSQL implements the storage interfaces at compile time.
var (
	_ storage.Storage   = (*PgSQL)(nil)
	_ storage.TxStorage = (*PgSQL)(nil)
)

// Close closes the database/sql wrapper and then the pgx pool.
func (p *PgSQL) Close() error {
	if db, ok := p.DB.(*sql.DB); ok {
		_ = db.Close()
	}
	if p.Pool != nil {
		p.Pool.Close()
	}

	return nil
}

// Commit commits the transaction of a handle returned by Begin.
func (p *PgSQL) Commit() error {
	db, ok := p.DB.(*sql.Tx)
	if !ok {
		return storage.ErrNotInTx
	}

	if err := db.Commit(); err != nil {
		return fmt.Errorf("could not commit tx: %w", err)
	}

	return nil
}

// Rollback aborts the transaction of a handle returned by Begin.
func (p *PgSQL) Rollback() error {
	db, ok := p.DB.(*sql.Tx)
	if !ok {
		return storage.ErrNotInTx
	}

	if err := db.Rollback(); err != nil {
		return fmt.Errorf("could not rollback tx: %w", err)
	}

	return nil
}

// Begin starts a transaction. Jobs added through the returned handle become
// visible only once it commits. Nested transactions are not supported.
func (p *PgSQL) Begin(ctx context.Context) (storage.TxStorage, error) {
	db, ok := p.DB.(*sql.DB)
	if !ok {
		return nil, storage.ErrAlreadyInTx
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("could not begin tx: %w", err)
	}

	return &PgSQL{
		DB:      tx,
		Builder: goqu.NewTx("postgres", tx),
		queue:   p.queue,
	}, nil
}

// WithTx runs cb in a transaction, rolling back when it fails.
func (p *PgSQL) WithTx(ctx context.Context, cb func(storage storage.AllStorage) error) error {
	tx, err := p.Begin(ctx)
	if err != nil {
		return err
	}

	if err := cb(tx); err != nil {
		_ = tx.Rollback()

		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("could not commit tx: %w", err)
	}

	return nil
}

// New connects a pgx pool and wraps it in a *sql.DB for goqu, goose and the
// River inserter.
func New(ctx context.Context, options Options) (*PgSQL, error) {
	connStr := fmt.Sprintf("host=%s port=%d user=%s dbname=%s password=%s sslmode=%s",
		options.Host,
		options.Port,
		options.Username,
		options.Database,
		options.Password,
		options.SslMode)
	cfg, err := pgxpool.ParseConfig(connStr)
	if err != nil {
		return nil, fmt.Errorf("could not parse pgxpool config: %w", err)
	}
	if options.MaxOpenConnections > 0 {
		cfg.MaxConns = int32(options.MaxOpenConnections) //nolint: gosec
	}
	if options.MaxIdleConnections > 0 {
		cfg.MinConns = int32(options.MaxIdleConnections) //nolint: gosec
	}
	if options.ConnMaxLifetime > 0 {
		cfg.MaxConnLifetime = options.ConnMaxLifetime
	}
	if options.ConnMaxIdleTime > 0 {
		cfg.MaxConnIdleTime = options.ConnMaxIdleTime
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("could not create pgx Pool: %w", err)
	}

	sqlDB := stdlib.OpenDBFromPool(pool)

	// a client without workers or queues can only insert jobs
	queue, err := river.NewClient(riverdatabasesql.New(sqlDB), &river.Config{})
	if err != nil {
		pool.Close()

		return nil, fmt.Errorf("could not create river queue client: %w", err)
	}

	return &PgSQL{
		DB:      sqlDB,
		Builder: goqu.Dialect("postgres").DB(sqlDB),
		Pool:    pool,
		queue:   queue,
	}, nil
}
