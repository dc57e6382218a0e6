package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"
)

const (
	MYSQL_CONN_MAX_LIFETIME = 5 * time.Minute
	MYSQL_MAX_OPEN_CONNS    = 10
	MYSQL_MAX_IDLE_CONNS    = 10
)

var mysqlDB *sql.DB

// OpenMySQL opens the pool on the previous CRM's database. Time columns
// are parsed into time.Time.
func OpenMySQL(uri string) error {
	cfg, err := mysql.ParseDSN(uri)
	if err != nil {
		return fmt.Errorf("[MySQL] invalid dsn: %w", err)
	}
	cfg.ParseTime = true

	connector, err := mysql.NewConnector(cfg)
	if err != nil {
		return fmt.Errorf("[MySQL] connector: %w", err)
	}

	db := sql.OpenDB(connector)
	db.SetConnMaxLifetime(MYSQL_CONN_MAX_LIFETIME)
	db.SetMaxOpenConns(MYSQL_MAX_OPEN_CONNS)
	db.SetMaxIdleConns(MYSQL_MAX_IDLE_CONNS)

	mysqlDB = db
	return nil
}

// MySQL returns the legacy pool, or nil when MYSQL_URI is not configured.
func MySQL() *sql.DB {
	return mysqlDB
}

func CloseMySQL() error {
	if mysqlDB == nil {
		return nil
	}
	return mysqlDB.Close()
}
