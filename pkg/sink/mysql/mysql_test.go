package mysql

import (
	"context"
	"database/sql"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/datagen/pkg/config"
	"github.com/ajitpratap0/datagen/pkg/errors"
	"github.com/ajitpratap0/datagen/pkg/generator"
	"github.com/ajitpratap0/datagen/pkg/models"
	"github.com/ajitpratap0/datagen/pkg/testutil"
)

func TestQuoteIdentifier(t *testing.T) {
	assert.Equal(t, "`employees`", QuoteIdentifier("employees"))
	assert.Equal(t, "`hr`.`employees`", QuoteIdentifier("hr.employees"))
	assert.Equal(t, "`we``ird`", QuoteIdentifier("we`ird"))
}

func TestCreateTableSQL(t *testing.T) {
	assert.Equal(t,
		"CREATE TABLE IF NOT EXISTS `employees` (`name` VARCHAR(255) NOT NULL, `email` VARCHAR(255) NOT NULL, `age` INT NOT NULL, `salary` INT NOT NULL, `department` VARCHAR(255) NOT NULL)",
		CreateTableSQL("employees"))
}

func TestInsertSQL(t *testing.T) {
	batch := []models.Employee{
		{Name: "John Brown", Email: "john.brown0@company.com", Age: 30, Salary: 50000, Department: "HR"},
		{Name: "Mary Jones", Email: "mary.jones1@company.com", Age: 41, Salary: 70000, Department: "Sales"},
	}

	query, args := InsertSQL("employees", batch)
	assert.Equal(t,
		"INSERT INTO `employees` (`name`,`email`,`age`,`salary`,`department`) VALUES (?,?,?,?,?),(?,?,?,?,?)",
		query)
	assert.Len(t, args, 10)
	assert.Equal(t, "mary.jones1@company.com", args[6])
	assert.Equal(t, 70000, args[8])
}

func TestNew_ConfigErrors(t *testing.T) {
	cfg := config.Default()
	_, err := New(context.Background(), cfg)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeConfig))

	cfg.Sinks.MySQL.DSN = "missing-database-separator"
	_, err = New(context.Background(), cfg)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeConfig))
}

func TestMySQLSink_Integration(t *testing.T) {
	dsn := testutil.RequireEnv(t, "DATAGEN_TEST_MYSQL_DSN")
	ctx := testutil.TestContext(t)

	cfg := config.Default()
	cfg.Sinks.MySQL.DSN = dsn
	cfg.Sinks.MySQL.Table = "datagen_test_employees"
	cfg.Sinks.MySQL.Truncate = true
	cfg.Output.BatchSize = 7

	w, err := New(ctx, cfg)
	require.NoError(t, err)
	_, err = generator.New(generator.WithSampler(generator.NewSampler(1))).Run(ctx, w, 50)
	require.NoError(t, err)

	parsed, err := mysql.ParseDSN(dsn)
	require.NoError(t, err)
	connector, err := mysql.NewConnector(parsed)
	require.NoError(t, err)
	db := sql.OpenDB(connector)
	defer db.Close()

	var count int
	require.NoError(t, db.QueryRowContext(ctx, "SELECT COUNT(*) FROM datagen_test_employees").Scan(&count))
	assert.Equal(t, 50, count)
}
