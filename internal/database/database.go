package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"
)

var (
	ErrNotFound               = errors.New("record not found")
	ErrDuplicateEmail         = errors.New("email already registered")
	ErrDuplicateReview        = errors.New("review already exists")
	ErrHasReservations        = errors.New("caravan has reservations")
	ErrOverlap                = errors.New("dates overlap an existing reservation")
	ErrConcurrentModification = errors.New("record was modified concurrently")
	ErrReservationCancelled   = errors.New("reservation is cancelled")
)

// timeLayout keeps stored timestamps lexicographically comparable.
const timeLayout = "2006-01-02T15:04:05Z"

type DB struct {
	*sql.DB
	logger *zerolog.Logger
}

// NewDB opens the SQLite database at path and creates the schema.
// A single connection is used: SQLite serializes writers anyway, and it keeps
// ":memory:" databases alive for the lifetime of the pool.
func NewDB(path string, logger *zerolog.Logger) (*DB, error) {
	return NewDBWithTimeout(path, 5000, logger)
}

func NewDBWithTimeout(path string, busyTimeoutMS int, logger *zerolog.Logger) (*DB, error) {
	if path != ":memory:" {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	dsn := fmt.Sprintf("%s?_foreign_keys=on&_txlock=immediate&_busy_timeout=%d", path, busyTimeoutMS)
	sqlDB, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db := newDB(sqlDB, logger)
	if err := db.createTables(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	db.logger.Info().Str("path", path).Msg("database initialized")
	return db, nil
}

func newDB(sqlDB *sql.DB, logger *zerolog.Logger) *DB {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &DB{DB: sqlDB, logger: logger}
}

func (db *DB) createTables() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS users (
            id TEXT PRIMARY KEY,
            email TEXT UNIQUE NOT NULL,
            password_hash TEXT NOT NULL,
            name TEXT NOT NULL,
            contact_number TEXT,
            profile_picture TEXT,
            role TEXT NOT NULL DEFAULT 'GUEST',
            is_verified BOOLEAN NOT NULL DEFAULT 0,
            created_at TEXT NOT NULL,
            updated_at TEXT NOT NULL
        )`,
		`CREATE TABLE IF NOT EXISTS caravans (
            id TEXT PRIMARY KEY,
            host_id TEXT NOT NULL REFERENCES users(id),
            name TEXT NOT NULL,
            description TEXT NOT NULL,
            location TEXT NOT NULL,
            price_per_day INTEGER NOT NULL CHECK (price_per_day > 0),
            capacity INTEGER NOT NULL CHECK (capacity > 0),
            images TEXT NOT NULL DEFAULT '[]',
            created_at TEXT NOT NULL,
            updated_at TEXT NOT NULL
        )`,
		`CREATE TABLE IF NOT EXISTS reservations (
            id TEXT PRIMARY KEY,
            guest_id TEXT NOT NULL REFERENCES users(id),
            caravan_id TEXT NOT NULL REFERENCES caravans(id),
            start_date TEXT NOT NULL,
            end_date TEXT NOT NULL,
            total_price INTEGER NOT NULL,
            status TEXT NOT NULL DEFAULT 'PENDING',
            created_at TEXT NOT NULL,
            updated_at TEXT NOT NULL,
            CHECK (start_date < end_date)
        )`,
		`CREATE TABLE IF NOT EXISTS payments (
            id TEXT PRIMARY KEY,
            reservation_id TEXT NOT NULL REFERENCES reservations(id),
            user_id TEXT NOT NULL,
            amount INTEGER NOT NULL,
            method TEXT NOT NULL,
            status TEXT NOT NULL,
            payment_date TEXT NOT NULL
        )`,
		`CREATE TABLE IF NOT EXISTS reviews (
            id TEXT PRIMARY KEY,
            author_id TEXT NOT NULL REFERENCES users(id),
            caravan_id TEXT NOT NULL REFERENCES caravans(id),
            rating INTEGER NOT NULL CHECK (rating BETWEEN 1 AND 5),
            comment TEXT NOT NULL,
            created_at TEXT NOT NULL,
            UNIQUE (author_id, caravan_id)
        )`,

		`CREATE INDEX IF NOT EXISTS idx_caravans_host_id ON caravans(host_id)`,
		`CREATE INDEX IF NOT EXISTS idx_reservations_caravan_dates ON reservations(caravan_id, start_date, end_date)`,
		`CREATE INDEX IF NOT EXISTS idx_reservations_guest_id ON reservations(guest_id)`,
		`CREATE INDEX IF NOT EXISTS idx_reservations_status ON reservations(status)`,
		`CREATE INDEX IF NOT EXISTS idx_payments_reservation_id ON payments(reservation_id)`,
		`CREATE INDEX IF NOT EXISTS idx_reviews_caravan_id ON reviews(caravan_id)`,
	}

	for _, query := range queries {
		if _, err := db.Exec(query); err != nil {
			return fmt.Errorf("error executing query %s: %w", query, err)
		}
	}
	return nil
}

// WithTx runs fn inside a transaction, committing on success and rolling back otherwise.
func (db *DB) WithTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse time %q: %w", s, err)
	}
	return t, nil
}

// now is truncated to seconds so values read back compare equal to values written.
func now() time.Time {
	return time.Now().UTC().Truncate(time.Second)
}

func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	return false
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func stringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}
