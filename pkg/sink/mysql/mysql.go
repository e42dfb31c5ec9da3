// Package mysql implements a record sink that inserts employees into a
// MySQL table with multi-row INSERT statements inside one transaction.
package mysql

import (
	"context"
	"database/sql"
	"strings"

	"github.com/go-sql-driver/mysql"
	"go.uber.org/zap"

	"github.com/ajitpratap0/datagen/pkg/config"
	"github.com/ajitpratap0/datagen/pkg/errors"
	"github.com/ajitpratap0/datagen/pkg/logger"
	"github.com/ajitpratap0/datagen/pkg/models"
	"github.com/ajitpratap0/datagen/pkg/sink"
)

var columnTypes = map[string]string{
	models.TypeString:  "VARCHAR(255)",
	models.TypeInteger: "INT",
}

// QuoteIdentifier quotes a possibly schema-qualified identifier with
// backticks.
func QuoteIdentifier(name string) string {
	parts := strings.Split(name, ".")
	for i, p := range parts {
		parts[i] = "`" + strings.ReplaceAll(p, "`", "``") + "`"
	}
	return strings.Join(parts, ".")
}

// CreateTableSQL renders the DDL for the employee table.
func CreateTableSQL(table string) string {
	cols := make([]string, len(models.EmployeeSchema.Fields))
	for i, f := range models.EmployeeSchema.Fields {
		col := QuoteIdentifier(f.Name) + " " + columnTypes[f.Type]
		if f.Required {
			col += " NOT NULL"
		}
		cols[i] = col
	}
	return "CREATE TABLE IF NOT EXISTS " + QuoteIdentifier(table) + " (" + strings.Join(cols, ", ") + ")"
}

// InsertSQL renders a multi-row INSERT for rows records and returns its
// placeholder arguments.
func InsertSQL(table string, batch []models.Employee) (string, []any) {
	header := models.Header()
	cols := make([]string, len(header))
	for i, c := range header {
		cols[i] = QuoteIdentifier(c)
	}
	placeholder := "(" + strings.TrimSuffix(strings.Repeat("?,", len(header)), ",") + ")"

	var b strings.Builder
	b.WriteString("INSERT INTO ")
	b.WriteString(QuoteIdentifier(table))
	b.WriteString(" (")
	b.WriteString(strings.Join(cols, ","))
	b.WriteString(") VALUES ")

	args := make([]any, 0, len(batch)*len(header))
	for i, rec := range batch {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(placeholder)
		args = append(args, rec.Row()...)
	}
	return b.String(), args
}

// Store inserts batches inside one transaction.
type Store struct {
	db     *sql.DB
	tx     *sql.Tx
	table  string
	logger *zap.Logger
}

// Open connects, begins a transaction and prepares the table.
func Open(ctx context.Context, mc config.MySQLConfig, log *zap.Logger) (*Store, error) {
	dsn, err := mysql.ParseDSN(mc.DSN)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeConfig, "failed to parse connection string")
	}

	connector, err := mysql.NewConnector(dsn)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeConfig, "failed to create connector")
	}
	db := sql.OpenDB(connector)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, errors.ErrorTypeConnection, "failed to connect to MySQL")
	}

	// DDL commits implicitly in MySQL, so prepare the table before the
	// transaction starts
	if mc.CreateTable {
		if _, err := db.ExecContext(ctx, CreateTableSQL(mc.Table)); err != nil {
			_ = db.Close()
			return nil, errors.Wrap(err, errors.ErrorTypeIO, "failed to create table").
				WithDetail("table", mc.Table)
		}
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, errors.ErrorTypeConnection, "failed to begin transaction")
	}

	s := &Store{db: db, tx: tx, table: mc.Table, logger: log}

	if mc.Truncate {
		// TRUNCATE would commit; DELETE stays inside the transaction
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+QuoteIdentifier(mc.Table)); err != nil {
			_ = s.Rollback(ctx)
			return nil, errors.Wrap(err, errors.ErrorTypeIO, "failed to clear table").
				WithDetail("table", mc.Table)
		}
	}

	log.Info("connected to MySQL", zap.String("addr", dsn.Addr), zap.String("table", mc.Table))
	return s, nil
}

// Insert writes batch with one statement
func (s *Store) Insert(ctx context.Context, batch []models.Employee) error {
	query, args := InsertSQL(s.table, batch)
	res, err := s.tx.ExecContext(ctx, query, args...)
	if err != nil {
		return errors.Wrap(err, errors.ErrorTypeIO, "INSERT failed").WithDetail("table", s.table)
	}
	if n, err := res.RowsAffected(); err == nil {
		s.logger.Debug("batch inserted", zap.Int64("rows", n))
	}
	return nil
}

// Commit commits the transaction and closes the database handle
func (s *Store) Commit(_ context.Context) error {
	defer s.db.Close()
	if err := s.tx.Commit(); err != nil {
		return errors.Wrap(err, errors.ErrorTypeIO, "failed to commit transaction")
	}
	return nil
}

// Rollback rolls the transaction back and closes the database handle
func (s *Store) Rollback(_ context.Context) error {
	defer s.db.Close()
	if err := s.tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		return errors.Wrap(err, errors.ErrorTypeIO, "failed to roll back transaction")
	}
	return nil
}

// New creates the mysql sink from cfg.Sinks.MySQL.
func New(ctx context.Context, cfg *config.Config) (sink.Writer, error) {
	mc := cfg.Sinks.MySQL
	if mc.DSN == "" {
		return nil, errors.New(errors.ErrorTypeConfig, "mysql sink requires a dsn")
	}
	if mc.Table == "" {
		return nil, errors.New(errors.ErrorTypeConfig, "mysql sink requires a table")
	}

	store, err := Open(ctx, mc, logger.WithContext(ctx))
	if err != nil {
		return nil, err
	}
	return sink.NewBatchWriter(store, cfg.Output.BatchSize), nil
}
