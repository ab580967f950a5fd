package store

import (
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// Sentinel errors returned by lookups.
var (
	ErrAuctionNotFound = errors.New("auction not found")
	ErrNoBids          = errors.New("auction has no bids")
)

type Store struct {
	db *sqlx.DB
}

// NewStore creates a new database store
func NewStore(databaseURL string) (*Store, error) {
	db, err := sqlx.Connect("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// GetDB returns the underlying database connection
func (s *Store) GetDB() *sqlx.DB {
	return s.db
}

// IsNotFound reports whether err means the auction does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrAuctionNotFound)
}

// IsNoBids reports whether err means the ledger is empty.
func IsNoBids(err error) bool {
	return errors.Is(err, ErrNoBids)
}

// IsRetryable reports whether err is a transient conflict between
// concurrent bid transactions: the bid was not invalid, another one was
// simply processed first. Callers should re-run the whole
// read-validate-write sequence.
func IsRetryable(err error) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}
	switch pqErr.Code {
	case "40001", // serialization_failure
		"40P01", // deadlock_detected
		"55P03": // lock_not_available
		return true
	}
	return false
}
