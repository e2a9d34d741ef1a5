package io

import (
	"io"
)

// Read decodes a value of T from ior. Exactly as many bytes as T's encoding
// takes are consumed. A zero T is returned on error.
func Read[T any, PT Decodable[T]](ior io.Reader) (T, error) {
	var (
		v T
		r = NewBinReaderFromIO(ior)
	)
	PT(&v).DecodeBinary(r)
	if r.Err != nil {
		var zero T
		return zero, r.Err
	}
	return v, nil
}

// Write encodes v into iow. On error iow may have received a part of the
// encoding.
func Write(iow io.Writer, v Writable) error {
	w := NewBinWriterFromIO(iow)
	v.EncodeBinary(w)
	return w.Err
}

// ToByteArray serializes v into a new byte slice.
func ToByteArray(v Writable) ([]byte, error) {
	w := NewBufBinWriter()
	switch s := v.(type) {
	case sizeHinter:
		if size, ok := s.sizeHint(); ok {
			w.Grow(size)
		}
	case Sizer:
		w.Grow(s.Size())
	}
	v.EncodeBinary(w.BinWriter)
	if w.Err != nil {
		return nil, w.Err
	}
	return w.Bytes(), nil
}

// FromByteArray deserializes v from data. Trailing bytes are ignored.
func FromByteArray(v Readable, data []byte) error {
	r := NewBinReaderFromBuf(data)
	v.DecodeBinary(r)
	return r.Err
}
