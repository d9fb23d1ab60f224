package opening

import (
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
)

const keyPrefix = "opening/"

// Store keeps the opening table in BadgerDB so it is imported once and
// shared by every room.
type Store struct {
	db *badger.DB
}

// OpenStore opens (or creates) the database in dir.
func OpenStore(dir string) (*Store, error) {
	opts := badger.DefaultOptions(dir)
	opts.Logger = nil // Disable logging
	return open(opts)
}

func OpenInMemoryStore() (*Store, error) {
	opts := badger.DefaultOptions("").WithInMemory(true)
	opts.Logger = nil
	return open(opts)
}

func open(opts badger.Options) (*Store, error) {
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open opening store: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Import writes every entry of t and returns how many were written.
func (s *Store) Import(t *Table) (int, error) {
	wb := s.db.NewWriteBatch()
	defer wb.Cancel()

	n := 0
	err := t.Each(func(key, name string) error {
		n++
		return wb.Set([]byte(keyPrefix+key), []byte(name))
	})
	if err != nil {
		return 0, err
	}
	if err := wb.Flush(); err != nil {
		return 0, err
	}
	return n, nil
}

func (s *Store) Name(notations []string) (string, error) {
	if len(notations) == 0 {
		return StartingPosition, nil
	}
	var name string
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(keyPrefix + Key(notations)))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			name = string(val)
			return nil
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return "", ErrUnknownOpening
	}
	return name, err
}

// Len counts the stored openings.
func (s *Store) Len() (int, error) {
	n := 0
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(keyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			n++
		}
		return nil
	})
	return n, err
}
