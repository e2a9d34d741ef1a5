package schema

import (
	"fmt"

	"github.com/nspcc-dev/binrw/pkg/io"
)

// preallocLimit is the maximum number of array elements or map pairs
// reserved before they're read from the stream.
const preallocLimit = 1024

// Encode writes v into w using t's wire shape. v must follow the value model
// of t (see package documentation), ErrTypeMismatch is set otherwise. nil is
// an absent value for Optional and an error for Box.
func (t *Type) Encode(w *io.BinWriter, v any) {
	if w.Err != nil {
		return
	}
	switch t.Kind {
	case U8:
		x, ok := v.(uint8)
		if !ok {
			w.Err = t.mismatch(v)
			return
		}
		w.WriteB(x)
	case U16:
		x, ok := v.(uint16)
		if !ok {
			w.Err = t.mismatch(v)
			return
		}
		w.WriteU16LE(x)
	case U32:
		x, ok := v.(uint32)
		if !ok {
			w.Err = t.mismatch(v)
			return
		}
		w.WriteU32LE(x)
	case U64:
		x, ok := v.(uint64)
		if !ok {
			w.Err = t.mismatch(v)
			return
		}
		w.WriteU64LE(x)
	case Size:
		x, ok := v.(int)
		if !ok {
			w.Err = t.mismatch(v)
			return
		}
		w.WriteSize(x)
	case Bool:
		x, ok := v.(bool)
		if !ok {
			w.Err = t.mismatch(v)
			return
		}
		w.WriteBool(x)
	case String:
		x, ok := v.(string)
		if !ok {
			w.Err = t.mismatch(v)
			return
		}
		w.WriteString(x)
	case Bytes:
		x, ok := v.([]byte)
		if !ok {
			w.Err = t.mismatch(v)
			return
		}
		w.WriteVarBytes(x)
	case Array:
		x, ok := v.([]any)
		if !ok {
			w.Err = t.mismatch(v)
			return
		}
		w.WriteSize(len(x))
		for i := range x {
			t.Elem.Encode(w, x[i])
		}
	case Map:
		x, ok := v.(map[any]any)
		if !ok {
			w.Err = t.mismatch(v)
			return
		}
		w.WriteSize(len(x))
		for k, e := range x {
			t.Key.Encode(w, k)
			t.Elem.Encode(w, e)
		}
	case Optional:
		w.WriteBool(v != nil)
		if v != nil {
			t.Elem.Encode(w, v)
		}
	case Box:
		if v == nil {
			w.Err = fmt.Errorf("%w: can't write %s", io.ErrNilPointer, t)
			return
		}
		t.Elem.Encode(w, v)
	default:
		w.Err = fmt.Errorf("%w: unknown kind %d", ErrTypeMismatch, t.Kind)
	}
}

// Decode reads a value of t from r. Length prefixes can't exceed
// r.MaxSize() unless the limit is given explicitly. nil is returned on
// error (and for absent Optional values).
func (t *Type) Decode(r *io.BinReader, maxSize ...int) any {
	ms := r.MaxSize()
	if len(maxSize) != 0 {
		ms = maxSize[0]
	}
	v := t.decode(r, ms)
	if r.Err != nil {
		return nil
	}
	return v
}

func (t *Type) decode(r *io.BinReader, ms int) any {
	if r.Err != nil {
		return nil
	}
	switch t.Kind {
	case U8:
		return r.ReadB()
	case U16:
		return r.ReadU16LE()
	case U32:
		return r.ReadU32LE()
	case U64:
		return r.ReadU64LE()
	case Size:
		return r.ReadSize()
	case Bool:
		return r.ReadBool()
	case String:
		return r.ReadString(ms)
	case Bytes:
		return r.ReadVarBytes(ms)
	case Array:
		n := readLen(r, ms)
		arr := make([]any, 0, min(n, preallocLimit))
		for i := 0; i < n && r.Err == nil; i++ {
			arr = append(arr, t.Elem.decode(r, ms))
		}
		return arr
	case Map:
		n := readLen(r, ms)
		m := make(map[any]any, min(n, preallocLimit))
		for i := 0; i < n && r.Err == nil; i++ {
			k := t.Key.decode(r, ms)
			v := t.Elem.decode(r, ms)
			if r.Err == nil {
				m[k] = v
			}
		}
		return m
	case Optional:
		if !r.ReadBool() {
			return nil
		}
		return t.Elem.decode(r, ms)
	case Box:
		return t.Elem.decode(r, ms)
	default:
		r.Err = fmt.Errorf("%w: unknown kind %d", ErrTypeMismatch, t.Kind)
		return nil
	}
}

func readLen(r *io.BinReader, ms int) int {
	n := r.ReadSize()
	if r.Err == nil && n > ms {
		r.Err = fmt.Errorf("%w: %d > %d", io.ErrTooLarge, n, ms)
		return 0
	}
	return n
}

type counter int

func (c *counter) Write(p []byte) (int, error) {
	*c += counter(len(p))
	return len(p), nil
}

// EncodedSize returns the number of bytes v takes when encoded with t.
func (t *Type) EncodedSize(v any) (int, error) {
	var c counter
	w := io.NewBinWriterFromIO(&c)
	t.Encode(w, v)
	if w.Err != nil {
		return 0, w.Err
	}
	return int(c), nil
}

// Marshal encodes v into a new byte slice.
func (t *Type) Marshal(v any) ([]byte, error) {
	w := io.NewBufBinWriter()
	t.Encode(w.BinWriter, v)
	if w.Err != nil {
		return nil, w.Err
	}
	return w.Bytes(), nil
}

// Unmarshal decodes a value of t from data. Trailing bytes are an error.
func (t *Type) Unmarshal(data []byte, maxSize ...int) (any, error) {
	r := io.NewBinReaderFromBuf(data)
	v := t.Decode(r, maxSize...)
	if r.Err != nil {
		return nil, r.Err
	}
	if rest := r.ReadB(); r.Err == nil {
		return nil, fmt.Errorf("%w: trailing data (0x%02x...)", io.ErrInvalidData, rest)
	}
	return v, nil
}
