package storage

import (
	"errors"
	"fmt"

	"github.com/nspcc-dev/binrw/pkg/storage/dbconfig"
)

// ErrKeyNotFound is an error returned by Store implementations
// when a certain key is not found.
var ErrKeyNotFound = errors.New("key not found")

// ErrReadOnly is returned on attempts to modify a read-only store.
var ErrReadOnly = errors.New("store is read-only")

// Store is a KV backend for the encoded values. Keys and values passed to
// it must not be modified by the caller afterwards.
type Store interface {
	Get([]byte) ([]byte, error)
	Put(k, v []byte) error
	Delete(k []byte) error
	// Seek calls f for every KV pair with the given prefix in ascending key
	// order until f returns false. Key and value slices are only valid until
	// f returns and should not be modified. Empty prefix means all keys.
	Seek(prefix []byte, f func(k, v []byte) bool) error
	Close() error
}

// NewStore creates storage with preselected in configuration database type.
func NewStore(cfg dbconfig.DBConfiguration) (Store, error) {
	var store Store
	var err error
	switch cfg.Type {
	case dbconfig.LevelDB:
		store, err = NewLevelDBStore(cfg.LevelDBOptions)
	case dbconfig.InMemoryDB:
		store = NewMemoryStore()
	case dbconfig.BoltDB:
		store, err = NewBoltDBStore(cfg.BoltDBOptions)
	default:
		return nil, fmt.Errorf("unknown storage: %s", cfg.Type)
	}
	return store, err
}
