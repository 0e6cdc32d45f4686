package db

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"gorm.io/gorm"
)

// Database bundles the single connection pool of a run with its two access paths:
// GORM for writes and sqlx for plain reads.
type Database struct {
	ORM *gorm.DB
	SQL *sqlx.DB
	raw *sql.DB
}

// Connect opens the postgres pool, retrying while the server comes up
func Connect(dsn string) (*Database, error) {
	var (
		sqlDB *sql.DB
		err   error
	)

	for i := 0; i < 10; i++ {
		sqlDB, err = openPostgres(dsn)
		if err == nil {
			break
		}
		time.Sleep(500 * time.Millisecond)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}

	orm, err := InitPostgresORM(sqlDB)
	if err != nil {
		sqlDB.Close()
		return nil, err
	}

	return New(orm, sqlDB, "postgres"), nil
}

func openPostgres(dsn string) (*sql.DB, error) {
	sqlDB, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}
	if err := sqlDB.Ping(); err != nil {
		sqlDB.Close()
		return nil, err
	}
	return sqlDB, nil
}

// New wraps an open pool and its GORM handle. driverName selects the sqlx bindvar style.
func New(orm *gorm.DB, sqlDB *sql.DB, driverName string) *Database {
	return &Database{
		ORM: orm,
		SQL: sqlx.NewDb(sqlDB, driverName),
		raw: sqlDB,
	}
}

// Close releases the pool
func (d *Database) Close() error {
	return d.raw.Close()
}
