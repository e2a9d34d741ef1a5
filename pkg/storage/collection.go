package storage

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru"
	"github.com/nspcc-dev/binrw/pkg/io"
	"go.uber.org/zap"
)

// Collection is a set of values of the same type kept in a Store under a
// common key prefix. Recently accessed values are cached in decoded form, so
// values returned from Get and ForEach must not be modified by the caller.
type Collection[T any, PT io.Element[T]] struct {
	store   Store
	prefix  []byte
	maxSize int
	cache   *lru.Cache
	log     *zap.Logger
}

// NewCollection creates a Collection over s. Non-positive cacheSize disables
// caching.
func NewCollection[T any, PT io.Element[T]](s Store, prefix []byte, cacheSize int, log *zap.Logger) *Collection[T, PT] {
	c := &Collection[T, PT]{
		store:  s,
		prefix: append([]byte{}, prefix...),
		log:    log,
	}
	if cacheSize > 0 {
		c.cache, _ = lru.New(cacheSize) // Never errors for positive size.
	}
	return c
}

// SetMaxSize sets the limit for length prefixes of the stored values, it's
// io.MaxArraySize by default. It must be called before the Collection is used.
func (c *Collection[T, PT]) SetMaxSize(n int) {
	c.maxSize = n
}

func (c *Collection[T, PT]) key(k []byte) []byte {
	res := make([]byte, 0, len(c.prefix)+len(k))
	res = append(res, c.prefix...)
	return append(res, k...)
}

// Put encodes v and stores it under k.
func (c *Collection[T, PT]) Put(k []byte, v T) error {
	if err := PutItem(c.store, c.key(k), PT(&v)); err != nil {
		return fmt.Errorf("failed to put %x: %w", k, err)
	}
	if c.cache != nil {
		c.cache.Add(string(k), v)
	}
	c.log.Debug("item stored", zap.ByteString("key", k))
	return nil
}

// Get returns the value stored under k. ErrKeyNotFound is returned for
// missing keys.
func (c *Collection[T, PT]) Get(k []byte) (T, error) {
	if c.cache != nil {
		if v, ok := c.cache.Get(string(k)); ok {
			cacheHits.Inc()
			return v.(T), nil
		}
		cacheMisses.Inc()
	}
	v, err := GetItem[T, PT](c.store, c.key(k), c.maxSize)
	if err != nil {
		return v, err
	}
	if c.cache != nil {
		c.cache.Add(string(k), v)
	}
	return v, nil
}

// Delete removes the value stored under k if there is any.
func (c *Collection[T, PT]) Delete(k []byte) error {
	if c.cache != nil {
		c.cache.Remove(string(k))
	}
	if err := c.store.Delete(c.key(k)); err != nil {
		return fmt.Errorf("failed to delete %x: %w", k, err)
	}
	c.log.Debug("item deleted", zap.ByteString("key", k))
	return nil
}

// ForEach calls f for every value with the given key prefix in ascending key
// order until f returns false. Keys are passed without the collection prefix.
// Any value that can't be decoded stops the iteration with an error.
func (c *Collection[T, PT]) ForEach(prefix []byte, f func(k []byte, v T) bool) error {
	var decodeErr error
	err := c.store.Seek(c.key(prefix), func(k, data []byte) bool {
		key := append([]byte{}, k[len(c.prefix):]...)
		v, err := decodeItem[T, PT](data, c.maxSize)
		if err != nil {
			c.log.Warn("corrupted item", zap.ByteString("key", key), zap.Error(err))
			decodeErr = fmt.Errorf("item %x: %w", key, err)
			return false
		}
		return f(key, v)
	})
	if err != nil {
		return err
	}
	return decodeErr
}
