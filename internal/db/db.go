package db

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog/log"
)

var (
	DB *sqlx.DB
)

const (
	maxRetries    = 10
	retryInterval = 2 * time.Second
)

// splits a DATABASE_URL into a sqlx driver name and DSN.
// postgres:// and postgresql:// go to lib/pq, sqlite3:// and file: go to go-sqlite3.
func driverFor(databaseURL string) (string, string) {
	switch {
	case strings.HasPrefix(databaseURL, "sqlite3://"):
		return "sqlite3", strings.TrimPrefix(databaseURL, "sqlite3://")
	case strings.HasPrefix(databaseURL, "file:"):
		return "sqlite3", databaseURL
	default:
		return "postgres", databaseURL
	}
}

// Open connects to the database behind databaseURL, retrying while it comes up.
func Open(databaseURL string) (*sqlx.DB, error) {
	driver, dsn := driverFor(databaseURL)

	var (
		conn *sqlx.DB
		err  error
	)
	for attempt := 1; attempt <= maxRetries; attempt++ {
		conn, err = sqlx.Connect(driver, dsn)
		if err == nil {
			if driver == "sqlite3" {
				// one writer at a time, see configureSQLite
				if err := configureSQLite(conn); err != nil {
					conn.Close()
					return nil, err
				}
			}
			log.Info().Str("driver", driver).Msg("connected to database")
			return conn, nil
		}

		log.Error().Err(err).
			Int("attempt", attempt).
			Msgf("failed to connect to database, retrying in %s", retryInterval)

		time.Sleep(retryInterval)
	}

	return nil, fmt.Errorf("could not connect to database after %d attempts: %w", maxRetries, err)
}

// Init opens the process-wide connection and assigns it to DB.
func Init(databaseURL string) error {
	conn, err := Open(databaseURL)
	if err != nil {
		return err
	}
	DB = conn
	return nil
}

func configureSQLite(conn *sqlx.DB) error {
	conn.SetMaxOpenConns(1)
	conn.SetMaxIdleConns(1)

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	}
	for _, pragma := range pragmas {
		if _, err := conn.Exec(pragma); err != nil {
			return fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}
	return nil
}

// finds all “*.up.sql” files in migrationsPath (sorted by name)
// and executes their SQL contents in order. It ignores “*.down.sql” files.
// returns that error immediately upon execution failure
func RunMigrations(conn *sqlx.DB, migrationsPath string) error {
	pattern := filepath.Join(migrationsPath, "*.up.sql")
	files, err := filepath.Glob(pattern)
	if err != nil {
		log.Error().Err(err).Msg("failed to list up migrations")
		return fmt.Errorf("failed to glob migrations: %w", err)
	}
	if len(files) == 0 {
		// nothing to do
		return nil
	}

	sort.Strings(files)

	for _, file := range files {
		sqlBytes, err := os.ReadFile(file)
		if err != nil {
			log.Error().Err(err).Str("file", file).Msg("failed to read migration file")
			return fmt.Errorf("could not read migration %q: %w", file, err)
		}
		sqlStmt := string(sqlBytes)
		if strings.TrimSpace(sqlStmt) == "" {
			continue
		}
		if _, err := conn.Exec(sqlStmt); err != nil {
			return fmt.Errorf("error executing migration %q: %w", file, err)
		}
		log.Debug().Str("file", file).Msg("applied migration")
	}
	return nil
}
