package database

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func New(connStr string, maxOpenConns int) (*sql.DB, error) {
	db, err := sql.Open("pgx", connStr)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	if maxOpenConns <= 0 {
		maxOpenConns = 25
	}

	db.SetMaxOpenConns(maxOpenConns)
	db.SetMaxIdleConns(max(maxOpenConns/5, 1))
	db.SetConnMaxLifetime(5 * time.Minute)

	return db, nil
}
