package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"

	"github.com/iliyamo/lagos-signal-directory/internal/config"
)

// MySQLDSN builds a read-oriented DSN for the mysql driver.
func MySQLDSN(user, pass, host, port, name string) string {
	auth := user
	if pass != "" {
		auth = fmt.Sprintf("%s:%s", user, pass)
	}
	return fmt.Sprintf("%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=true&loc=UTC",
		auth, host, port, name)
}

// OpenFromConfig connects to the SQL source selected by cfg.Source.
func OpenFromConfig(cfg config.Config) (*sql.DB, error) {
	switch cfg.Source {
	case config.SourceMySQL:
		return Open("mysql", MySQLDSN(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName))
	case config.SourcePostgres:
		return Open("postgres", cfg.DatabaseURL)
	}
	return nil, fmt.Errorf("source %q is not a SQL source", cfg.Source)
}

// Open connects with the given driver and verifies the connection.  The
// directory is read once, so the pool is kept small.
func Open(driver, dsn string) (*sql.DB, error) {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, err
	}

	// Pool settings
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(30 * time.Minute)

	// Ping with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}
