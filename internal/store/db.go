// Package store archives finished games in sqlite and answers lifetime stats
// queries over the archive.
package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	_ "embed"
	_ "github.com/mattn/go-sqlite3"

	"github.com/myrjola/gumshoe/internal/errors"
	"github.com/myrjola/gumshoe/internal/random"
)

//go:embed schema.sql
var initialiseSchemaScript string

// Database holds two connections: one serialized read/write connection and a
// read-only pool. This is a best practice mentioned in
// https://github.com/mattn/go-sqlite3/issues/1179#issuecomment-1638083995
type Database struct {
	ReadWrite *sqlx.DB
	ReadOnly  *sqlx.DB
}

// NewDatabase opens the archive at url, which is a SQLite file path or
// ":memory:" for an in-memory database.
func NewDatabase(ctx context.Context, url string) (*Database, error) {
	// For in-memory databases, we need shared cache mode so that both
	// connections access the same data, and a unique name per call so
	// parallel tests do not share state.
	cacheConfig := "&cache=private"
	if url == ":memory:" {
		id, err := random.Letters(20)
		if err != nil {
			return nil, errors.Wrap(err, "generate in-memory database name")
		}
		url = id
		cacheConfig = "&mode=memory&cache=shared"
	}

	readWriteDB, err := sqlx.ConnectContext(ctx, "sqlite3",
		fmt.Sprintf("file:%s?_txlock=immediate%s", url, cacheConfig))
	if err != nil {
		return nil, errors.Wrap(err, "open read-write database")
	}

	readWriteDB.SetMaxOpenConns(1)
	readWriteDB.SetMaxIdleConns(1)
	readWriteDB.SetConnMaxLifetime(time.Hour)
	readWriteDB.SetConnMaxIdleTime(time.Hour)
	if _, err = readWriteDB.ExecContext(ctx, `
		PRAGMA journal_mode = WAL;
		PRAGMA busy_timeout = 5000;
		PRAGMA foreign_keys = ON;
		PRAGMA synchronous = NORMAL;
	`); err != nil {
		return nil, errors.Wrap(err, "configure database")
	}

	if _, err = readWriteDB.ExecContext(ctx, initialiseSchemaScript); err != nil {
		return nil, errors.Wrap(err, "initialize schema")
	}

	readDB, err := sqlx.ConnectContext(ctx, "sqlite3",
		fmt.Sprintf("file:%s?mode=ro%s", url, cacheConfig))
	if err != nil {
		return nil, errors.Wrap(err, "open read-only database")
	}

	maxReadConns := 10
	readDB.SetMaxOpenConns(maxReadConns)
	readDB.SetMaxIdleConns(maxReadConns)
	readDB.SetConnMaxLifetime(time.Hour)
	readDB.SetConnMaxIdleTime(time.Hour)

	return &Database{ReadWrite: readWriteDB, ReadOnly: readDB}, nil
}

func (d *Database) Close() error {
	return errors.Join(d.ReadWrite.Close(), d.ReadOnly.Close())
}
