package storage

import (
	"bytes"
	"fmt"

	"github.com/nspcc-dev/binrw/pkg/io"
)

// PutItem encodes v and puts it into s under the given key.
func PutItem(s Store, key []byte, v io.Writable) error {
	data, err := io.ToByteArray(v)
	if err != nil {
		return fmt.Errorf("failed to encode item: %w", err)
	}
	if err := s.Put(key, data); err != nil {
		return err
	}
	encodedBytes.Add(float64(len(data)))
	return nil
}

// GetItem retrieves the value stored under the given key and decodes it. The
// whole stored value must be consumed by decoding. Length prefixes inside of
// it can't exceed io.MaxArraySize unless the limit is given explicitly.
func GetItem[T any, PT io.Decodable[T]](s Store, key []byte, maxSize ...int) (T, error) {
	data, err := s.Get(key)
	if err != nil {
		var zero T
		return zero, err
	}
	var ms int
	if len(maxSize) != 0 {
		ms = maxSize[0]
	}
	return decodeItem[T, PT](data, ms)
}

// decodeItem decodes data with the given length limit, non-positive maxSize
// means io.MaxArraySize.
func decodeItem[T any, PT io.Decodable[T]](data []byte, maxSize int) (T, error) {
	var (
		v  T
		rd = bytes.NewReader(data)
		r  = io.NewBinReaderFromIO(rd)
	)
	r.SetMaxSize(maxSize)
	PT(&v).DecodeBinary(r)
	if r.Err != nil {
		var zero T
		return zero, fmt.Errorf("failed to decode item: %w", r.Err)
	}
	if rd.Len() != 0 {
		var zero T
		return zero, fmt.Errorf("%w: %d trailing bytes after item", io.ErrInvalidData, rd.Len())
	}
	decodedBytes.Add(float64(len(data)))
	return v, nil
}
