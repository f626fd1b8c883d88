package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"

	"github.com/malusev998/currency-calc"
)

const (
	MySQLTimeFormat   = "2006-01-02 15:04:05.000"
	mysqlProviderName = "mysql"
	defaultTableName  = "key_value"
)

type mysqlStorage struct {
	ctx       context.Context
	db        *sql.DB
	tableName string
}

func NewMySQLStorage(config MySQLConfig) (currency.Storage, error) {
	db, err := sql.Open("mysql", config.ConnectionString)

	if err != nil {
		return nil, err
	}

	return NewSQLStorage(config.Ctx, db, config.TableName, config.Migrate)
}

// NewSQLStorage wraps an already opened MySQL handle.
func NewSQLStorage(ctx context.Context, db *sql.DB, tableName string, migrate bool) (currency.Storage, error) {
	if tableName == "" {
		tableName = defaultTableName
	}

	st := mysqlStorage{
		ctx:       contextOrBackground(ctx),
		db:        db,
		tableName: tableName,
	}

	if migrate {
		if err := st.Migrate(); err != nil {
			return nil, err
		}
	}

	return st, nil
}

func (m mysqlStorage) Get(ctx context.Context, key string) (string, bool, error) {
	var value string

	row := m.db.QueryRowContext(ctx, fmt.Sprintf("SELECT v FROM %s WHERE k = ? LIMIT 1;", m.tableName), key)

	if err := row.Scan(&value); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}

		return "", false, err
	}

	return value, true, nil
}

func (m mysqlStorage) Set(ctx context.Context, key, value string) error {
	tx, err := m.db.BeginTx(ctx, nil)

	if err != nil {
		return err
	}

	stmt, err := tx.PrepareContext(ctx, fmt.Sprintf("INSERT INTO %s(k, v, updated_at) VALUES (?,?,?) ON DUPLICATE KEY UPDATE v = VALUES(v), updated_at = VALUES(updated_at);", m.tableName))

	if err != nil {
		_ = tx.Rollback()
		return err
	}

	if _, err = stmt.ExecContext(ctx, key, value, time.Now().UTC().Format(MySQLTimeFormat)); err != nil {
		_ = stmt.Close()
		_ = tx.Rollback()
		return err
	}

	if err := stmt.Close(); err != nil {
		_ = tx.Rollback()
		return err
	}

	return tx.Commit()
}

func (m mysqlStorage) Remove(ctx context.Context, key string) error {
	_, err := m.db.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s WHERE k = ?;", m.tableName), key)

	return err
}

func (m mysqlStorage) Migrate() error {
	_, err := m.db.ExecContext(m.ctx, fmt.Sprintf(
		"CREATE TABLE IF NOT EXISTS %s(k VARCHAR(191) NOT NULL PRIMARY KEY, v LONGTEXT NOT NULL, updated_at DATETIME(3) NOT NULL);",
		m.tableName,
	))

	return err
}

func (m mysqlStorage) Drop() error {
	_, err := m.db.ExecContext(m.ctx, fmt.Sprintf("DROP TABLE IF EXISTS %s;", m.tableName))

	return err
}

func (m mysqlStorage) Close() error {
	return m.db.Close()
}

func (m mysqlStorage) GetStorageProviderName() string {
	return mysqlProviderName
}
