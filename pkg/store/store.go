// Package store is the persistent storage of rho. It keeps the command
// history of the REPL and the values saved with the store module in a bbolt
// database.
package store

import (
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"
	"src.rho.sh/pkg/logutil"
	. "src.rho.sh/pkg/store/storedefs"
)

var logger = logutil.GetLogger("[store] ")

// DBStore is the permanent storage backend for rho. It is not thread-safe.
// In particular, the store may be closed while another goroutine is still
// accessing the database.
type DBStore interface {
	Store
	Close() error
}

// Functions run when a database is opened, to create the buckets it needs.
var initDB = map[string]func(*bolt.Tx) error{}

type dbStore struct {
	db *bolt.DB
}

// NewStore opens the database file at path, creating it if it doesn't exist.
func NewStore(path string) (DBStore, error) {
	db, err := bolt.Open(path, 0644, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, err
	}
	err = db.Update(func(tx *bolt.Tx) error {
		for name, fn := range initDB {
			if err := fn(tx); err != nil {
				return fmt.Errorf("failed to %s: %w", name, err)
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}
	logger.Println("opened store", path)
	return &dbStore{db}, nil
}

// Close closes the underlying database.
func (s *dbStore) Close() error {
	return s.db.Close()
}
