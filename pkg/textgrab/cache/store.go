package cache

import (
	"errors"

	"github.com/dgraph-io/badger/v4"
)

// ErrNotFound is returned when a verdict is not in the store.
var ErrNotFound = errors.New("verdict not found")

// Store persists text verdicts in a badger database keyed by absolute
// path. It lets long-lived installations skip re-sniffing files whose
// extensions are unknown.
type Store struct {
	db *badger.DB
}

// OpenStore opens or creates a verdict store at the given directory.
func OpenStore(path string) (*Store, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil // Disable badger logging.

	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}

	return &Store{db: db}, nil
}

// Close closes the store.
func (s *Store) Close() error {
	return s.db.Close()
}

// Get retrieves the persisted verdict for a path.
func (s *Store) Get(path string) (bool, error) {
	var verdict bool

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(path))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}

		return item.Value(func(val []byte) error {
			verdict = len(val) == 1 && val[0] == 1
			return nil
		})
	})
	if err != nil {
		return false, err
	}
	return verdict, nil
}

// Put persists a verdict for a path.
func (s *Store) Put(path string, verdict bool) error {
	val := []byte{0}
	if verdict {
		val[0] = 1
	}

	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(path), val)
	})
}

// Clear removes all persisted verdicts.
func (s *Store) Clear() error {
	return s.db.DropAll()
}
