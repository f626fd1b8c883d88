package storage_test

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/require"

	"github.com/malusev998/currency-calc/storage"
)

const mysqlTableName = "key_value_unit"

func mysqlConnectionString() string {
	mysqlDriverConfig := mysql.NewConfig()
	mysqlDriverConfig.User = "currency"
	mysqlDriverConfig.Passwd = "currency"
	mysqlDriverConfig.DBName = "currencydb"
	mysqlDriverConfig.Net = "tcp"

	if os.Getenv("RUNNING_IN_DOCKER") != "" {
		mysqlDriverConfig.Addr = "mysql:3306"
	} else {
		mysqlDriverConfig.Addr = "localhost:3306"
	}

	return mysqlDriverConfig.FormatDSN()
}

func TestMySQLStorage_Integration(t *testing.T) {
	if os.Getenv("MYSQL_INTEGRATION") == "" {
		t.Skip("MYSQL_INTEGRATION is not set")
	}

	st, err := storage.NewMySQLStorage(storage.MySQLConfig{
		BaseConfig: storage.BaseConfig{
			Ctx:     context.Background(),
			Migrate: true,
		},
		ConnectionString: mysqlConnectionString(),
		TableName:        "key_value_integration_test",
	})
	require.NoError(t, err)
	defer st.Close()
	defer st.Drop()

	testKeyValueStorage(t, st)
}

func TestMysqlStorage_Unit(t *testing.T) {
	t.Parallel()
	db, m, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	defer db.Close()

	assert := require.New(t)
	ctx := context.Background()

	m.ExpectExec("CREATE TABLE IF NOT EXISTS key_value_unit(k VARCHAR(191) NOT NULL PRIMARY KEY, v LONGTEXT NOT NULL, updated_at DATETIME(3) NOT NULL);").
		WillReturnResult(sqlmock.NewResult(0, 0))

	st, err := storage.NewSQLStorage(ctx, db, mysqlTableName, true)
	assert.NoError(err)
	assert.Nil(m.ExpectationsWereMet())
	assert.Equal("mysql", st.GetStorageProviderName())

	insert := "INSERT INTO key_value_unit(k, v, updated_at) VALUES (?,?,?) ON DUPLICATE KEY UPDATE v = VALUES(v), updated_at = VALUES(updated_at);"
	selectValue := "SELECT v FROM key_value_unit WHERE k = ? LIMIT 1;"

	t.Run("Get_Existing", func(t *testing.T) {
		m.ExpectQuery(selectValue).
			WithArgs("conversionHistory").
			WillReturnRows(sqlmock.NewRows([]string{"v"}).AddRow("[]"))

		value, exists, err := st.Get(ctx, "conversionHistory")
		assert.NoError(err)
		assert.True(exists)
		assert.Equal("[]", value)
		assert.Nil(m.ExpectationsWereMet())
	})

	t.Run("Get_Missing", func(t *testing.T) {
		m.ExpectQuery(selectValue).
			WithArgs("missing").
			WillReturnRows(sqlmock.NewRows([]string{"v"}))

		_, exists, err := st.Get(ctx, "missing")
		assert.NoError(err)
		assert.False(exists)
		assert.Nil(m.ExpectationsWereMet())
	})

	t.Run("Get_Error", func(t *testing.T) {
		m.ExpectQuery(selectValue).
			WithArgs("broken").
			WillReturnError(sql.ErrConnDone)

		_, _, err := st.Get(ctx, "broken")
		assert.True(errors.Is(err, sql.ErrConnDone))
		assert.Nil(m.ExpectationsWereMet())
	})

	t.Run("Set", func(t *testing.T) {
		m.ExpectBegin()
		m.ExpectPrepare(insert).
			ExpectExec().
			WithArgs("conversionHistory", "[]", sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(1, 1))
		m.ExpectCommit()

		assert.NoError(st.Set(ctx, "conversionHistory", "[]"))
		assert.Nil(m.ExpectationsWereMet())
	})

	t.Run("Transaction_Not_Started", func(t *testing.T) {
		m.ExpectBegin().WillReturnError(errors.New("error while starting transaction"))

		err := st.Set(ctx, "conversionHistory", "[]")
		assert.Error(err)
		assert.Nil(m.ExpectationsWereMet())
		assert.Equal("error while starting transaction", err.Error())
	})

	t.Run("Prepare_SQL_WithError", func(t *testing.T) {
		m.ExpectBegin()
		m.ExpectPrepare(insert).
			WillReturnError(errors.New("cannot create prepare statement"))
		m.ExpectRollback()

		err := st.Set(ctx, "conversionHistory", "[]")
		assert.Nil(m.ExpectationsWereMet())
		assert.Error(err)
		assert.Equal("cannot create prepare statement", err.Error())
	})

	t.Run("Remove", func(t *testing.T) {
		m.ExpectExec("DELETE FROM key_value_unit WHERE k = ?;").
			WithArgs("conversionHistory").
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(st.Remove(ctx, "conversionHistory"))
		assert.Nil(m.ExpectationsWereMet())
	})

	t.Run("Drop", func(t *testing.T) {
		m.ExpectExec("DROP TABLE IF EXISTS key_value_unit;").
			WillReturnResult(sqlmock.NewResult(0, 0))

		assert.NoError(st.Drop())
		assert.Nil(m.ExpectationsWereMet())
	})
}
