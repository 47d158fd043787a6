package repositories

import (
	"sync"

	"github.com/dgraph-io/badger/v4"
)

// Store owns the Badger database and the repositories built on it.
type Store struct {
	DB       *badger.DB
	Users    *BadgerUserRepository
	Groups   *BadgerGroupRepository
	Posts    *BadgerPostRepository
	Comments *BadgerCommentRepository

	closeOnce sync.Once
	closeErr  error
}

// Options returns the Badger options used for path. An empty path opens an
// in-memory database.
func Options(path string) badger.Options {
	if path == "" {
		return badger.DefaultOptions("").
			WithInMemory(true).
			WithLogger(nil)
	}
	return badger.DefaultOptions(path).
		WithLogger(nil).
		WithNumVersionsToKeep(1)
}

// NewStore opens the database at path and wires the repositories.
func NewStore(path string) (*Store, error) {
	db, err := badger.Open(Options(path))
	if err != nil {
		return nil, err
	}
	return NewStoreWithDB(db), nil
}

// NewStoreWithDB wires repositories around an already open database.
func NewStoreWithDB(db *badger.DB) *Store {
	return &Store{
		DB:       db,
		Users:    NewBadgerUserRepository(db),
		Groups:   NewBadgerGroupRepository(db),
		Posts:    NewBadgerPostRepository(db),
		Comments: NewBadgerCommentRepository(db),
	}
}

// Clear drops every key, sequences included.
func (s *Store) Clear() error {
	return s.DB.DropAll()
}

// Close closes the database. Calling it more than once is safe.
func (s *Store) Close() error {
	s.closeOnce.Do(func() {
		s.closeErr = s.DB.Close()
	})
	return s.closeErr
}
