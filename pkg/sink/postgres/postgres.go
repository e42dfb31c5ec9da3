// Package postgres implements a record sink that loads employees into a
// PostgreSQL table with COPY, inside a single transaction.
package postgres

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/ajitpratap0/datagen/pkg/config"
	"github.com/ajitpratap0/datagen/pkg/errors"
	"github.com/ajitpratap0/datagen/pkg/logger"
	"github.com/ajitpratap0/datagen/pkg/models"
	"github.com/ajitpratap0/datagen/pkg/sink"
)

var columnTypes = map[string]string{
	models.TypeString:  "TEXT",
	models.TypeInteger: "INTEGER",
}

// Identifier splits a possibly schema-qualified table name.
func Identifier(table string) pgx.Identifier {
	return pgx.Identifier(strings.Split(table, "."))
}

// CreateTableSQL renders the DDL for the employee table.
func CreateTableSQL(table string) string {
	cols := make([]string, len(models.EmployeeSchema.Fields))
	for i, f := range models.EmployeeSchema.Fields {
		col := pgx.Identifier{f.Name}.Sanitize() + " " + columnTypes[f.Type]
		if f.Required {
			col += " NOT NULL"
		}
		cols[i] = col
	}
	return "CREATE TABLE IF NOT EXISTS " + Identifier(table).Sanitize() + " (" + strings.Join(cols, ", ") + ")"
}

// Store copies batches into one table inside one transaction.
type Store struct {
	pool   *pgxpool.Pool
	tx     pgx.Tx
	table  pgx.Identifier
	logger *zap.Logger
}

// Open connects, begins a transaction and prepares the table.
func Open(ctx context.Context, pc config.PostgresConfig, log *zap.Logger) (*Store, error) {
	poolConfig, err := pgxpool.ParseConfig(pc.DSN)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeConfig, "failed to parse connection string")
	}
	if pc.MaxConns > 0 {
		poolConfig.MaxConns = pc.MaxConns
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeConnection, "failed to create connection pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, errors.Wrap(err, errors.ErrorTypeConnection, "failed to connect to PostgreSQL")
	}

	tx, err := pool.Begin(ctx)
	if err != nil {
		pool.Close()
		return nil, errors.Wrap(err, errors.ErrorTypeConnection, "failed to begin transaction")
	}

	s := &Store{pool: pool, tx: tx, table: Identifier(pc.Table), logger: log}

	if pc.CreateTable {
		if _, err := tx.Exec(ctx, CreateTableSQL(pc.Table)); err != nil {
			_ = s.Rollback(ctx)
			return nil, errors.Wrap(err, errors.ErrorTypeIO, "failed to create table").
				WithDetail("table", pc.Table)
		}
	}
	if pc.Truncate {
		if _, err := tx.Exec(ctx, "TRUNCATE "+s.table.Sanitize()); err != nil {
			_ = s.Rollback(ctx)
			return nil, errors.Wrap(err, errors.ErrorTypeIO, "failed to truncate table").
				WithDetail("table", pc.Table)
		}
	}

	log.Info("connected to PostgreSQL",
		zap.String("table", pc.Table),
		zap.Int32("max_connections", poolConfig.MaxConns))
	return s, nil
}

// Insert copies batch into the table
func (s *Store) Insert(ctx context.Context, batch []models.Employee) error {
	n, err := s.tx.CopyFrom(ctx, s.table, models.Header(),
		pgx.CopyFromSlice(len(batch), func(i int) ([]any, error) {
			return batch[i].Row(), nil
		}))
	if err != nil {
		return errors.Wrap(err, errors.ErrorTypeIO, "COPY failed").
			WithDetail("table", s.table.Sanitize())
	}
	s.logger.Debug("batch copied", zap.Int64("rows", n))
	return nil
}

// Commit commits the transaction and closes the pool
func (s *Store) Commit(ctx context.Context) error {
	defer s.pool.Close()
	if err := s.tx.Commit(ctx); err != nil {
		return errors.Wrap(err, errors.ErrorTypeIO, "failed to commit transaction")
	}
	return nil
}

// Rollback rolls the transaction back and closes the pool
func (s *Store) Rollback(ctx context.Context) error {
	defer s.pool.Close()
	if err := s.tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		return errors.Wrap(err, errors.ErrorTypeIO, "failed to roll back transaction")
	}
	return nil
}

// New creates the postgres sink from cfg.Sinks.Postgres.
func New(ctx context.Context, cfg *config.Config) (sink.Writer, error) {
	pc := cfg.Sinks.Postgres
	if pc.DSN == "" {
		return nil, errors.New(errors.ErrorTypeConfig, "postgres sink requires a dsn")
	}
	if pc.Table == "" {
		return nil, errors.New(errors.ErrorTypeConfig, "postgres sink requires a table")
	}

	store, err := Open(ctx, pc, logger.WithContext(ctx))
	if err != nil {
		return nil, err
	}
	return sink.NewBatchWriter(store, cfg.Output.BatchSize), nil
}
