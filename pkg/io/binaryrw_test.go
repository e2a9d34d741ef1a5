package io

import (
	"bytes"
	"errors"
	"io"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// limitedWriter accepts up to n bytes and fails afterwards.
type limitedWriter struct {
	buf bytes.Buffer
	n   int
}

var errWriteLimit = errors.New("write limit reached")

func (w *limitedWriter) Write(p []byte) (int, error) {
	if w.buf.Len()+len(p) > w.n {
		k := w.n - w.buf.Len()
		w.buf.Write(p[:k])
		return k, errWriteLimit
	}
	return w.buf.Write(p)
}

type (
	strArray   = Array[String, *String]
	u8StrMap   = Map[U8, String, *U8, *String]
	optU32     = Optional[U32, *U32]
	boxedStr   = Box[String, *String]
	nestedMap  = Map[U8, strArray, *U8, *strArray]
	u16Array   = Array[U16, *U16]
	optStrList = Array[Optional[String, *String], *Optional[String, *String]]
)

func encode(t *testing.T, v Writable) []byte {
	data, err := ToByteArray(v)
	require.NoError(t, err)
	return data
}

func roundTrip[T any, PT Element[T]](t *testing.T, v T) {
	data := encode(t, PT(&v))
	require.Equal(t, GetSize(PT(&v)), len(data))
	actual, err := Read[T, PT](bytes.NewReader(data))
	require.NoError(t, err)
	require.Equal(t, v, actual)
}

func requireShort(t *testing.T, err error) {
	require.Error(t, err)
	require.True(t, errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF), err)
	require.Equal(t, KindIO, KindOf(err))
}

func TestWriteU16LE(t *testing.T) {
	bw := NewBufBinWriter()
	bw.WriteU16LE(2222)
	require.NoError(t, bw.Err)
	buf := bw.Bytes()
	require.Equal(t, []byte{0xAE, 0x08}, buf)

	br := NewBinReaderFromBuf(buf)
	assert.Equal(t, uint16(2222), br.ReadU16LE())
	assert.NoError(t, br.Err)
}

func TestWriteLE(t *testing.T) {
	var (
		val     uint32 = 0xdeadbeef
		readval uint32
		bin     = []byte{0xef, 0xbe, 0xad, 0xde}
	)
	bw := NewBufBinWriter()
	bw.WriteU32LE(val)
	assert.Nil(t, bw.Err)
	wrotebin := bw.Bytes()
	assert.Equal(t, wrotebin, bin)
	br := NewBinReaderFromBuf(bin)
	readval = br.ReadU32LE()
	assert.Nil(t, br.Err)
	assert.Equal(t, val, readval)
}

func TestIntegersRoundTrip(t *testing.T) {
	for _, v := range []U8{0, 222, math.MaxUint8} {
		roundTrip(t, v)
	}
	for _, v := range []U16{0, 2222, math.MaxUint16} {
		roundTrip(t, v)
	}
	for _, v := range []U32{0, 222222, math.MaxUint32} {
		roundTrip(t, v)
	}
	for _, v := range []U64{0, 22_222_222_222, math.MaxUint64} {
		roundTrip(t, v)
	}
	for _, v := range []Size{0, 2222, math.MaxInt} {
		roundTrip(t, v)
	}
	roundTrip(t, Bool(true))
	roundTrip(t, Bool(false))
}

func TestU64Layout(t *testing.T) {
	data := encode(t, U64(0x0102030405060708))
	require.Equal(t, []byte{8, 7, 6, 5, 4, 3, 2, 1}, data)
}

func TestReadBool(t *testing.T) {
	br := NewBinReaderFromBuf([]byte{0, 1, 2})
	assert.False(t, br.ReadBool())
	assert.True(t, br.ReadBool())
	assert.True(t, br.ReadBool())
	require.NoError(t, br.Err)
	br.ReadBool()
	requireShort(t, br.Err)
}

func TestSize(t *testing.T) {
	t.Run("unsupported on read", func(t *testing.T) {
		bw := NewBufBinWriter()
		bw.WriteU64LE(math.MaxUint64)
		br := NewBinReaderFromBuf(bw.Bytes())
		require.Equal(t, 0, br.ReadSize())
		require.ErrorIs(t, br.Err, ErrUnsupportedSize)
		require.Equal(t, KindUnsupported, KindOf(br.Err))
	})
	t.Run("negative on write", func(t *testing.T) {
		bw := NewBufBinWriter()
		bw.WriteSize(-1)
		require.ErrorIs(t, bw.Err, ErrUnsupportedSize)
		require.Equal(t, 0, bw.Len())
	})
}

func TestStringRoundTrip(t *testing.T) {
	const value = "TEST_VALUE"

	data := encode(t, String(value))
	expected := append([]byte{10, 0, 0, 0, 0, 0, 0, 0}, value...)
	require.Equal(t, expected, data)

	actual, err := Read[String](bytes.NewReader(data))
	require.NoError(t, err)
	require.Equal(t, String(value), actual)

	roundTrip(t, String(""))
	roundTrip(t, String("ASCII text"))
	roundTrip(t, String("Привет, 世界 👋"))
}

func TestStringLengthCountsBytes(t *testing.T) {
	data := encode(t, String("世界"))
	br := NewBinReaderFromBuf(data)
	require.Equal(t, 6, br.ReadSize())
}

func TestReadStringInvalidUTF8(t *testing.T) {
	bw := NewBufBinWriter()
	bw.WriteVarBytes([]byte{0xff, 0xfe, 0xfd})
	bw.WriteB(0x42)
	data := bw.Bytes()

	src := bytes.NewReader(data)
	br := NewBinReaderFromIO(src)
	require.Equal(t, "", br.ReadString())
	require.ErrorIs(t, br.Err, ErrInvalidData)
	require.Equal(t, KindInvalidData, KindOf(br.Err))
	// The whole declared string is consumed.
	require.Equal(t, 1, src.Len())
}

func TestVarBytes(t *testing.T) {
	roundTrip(t, Bytes{})
	roundTrip(t, Bytes{0xff, 0x00, 0x01})

	br := NewBinReaderFromBuf(encode(t, Bytes{1, 2, 3, 4}))
	require.Nil(t, br.ReadVarBytes(3))
	require.ErrorIs(t, br.Err, ErrTooLarge)
}

func TestShortReads(t *testing.T) {
	full := map[string][]byte{
		"u8":     encode(t, U8(1)),
		"u16":    encode(t, U16(1)),
		"u32":    encode(t, U32(1)),
		"u64":    encode(t, U64(1)),
		"size":   encode(t, Size(1)),
		"string": encode(t, String("TEST_VALUE")),
		"array":  encode(t, strArray{"TEST", "VALUE"}),
		"map":    encode(t, u8StrMap{22: "TEST", 254: "VALUE"}),
	}
	decoders := map[string]func(data []byte) (any, error){
		"u8":     func(d []byte) (any, error) { return Read[U8](bytes.NewReader(d)) },
		"u16":    func(d []byte) (any, error) { return Read[U16](bytes.NewReader(d)) },
		"u32":    func(d []byte) (any, error) { return Read[U32](bytes.NewReader(d)) },
		"u64":    func(d []byte) (any, error) { return Read[U64](bytes.NewReader(d)) },
		"size":   func(d []byte) (any, error) { return Read[Size](bytes.NewReader(d)) },
		"string": func(d []byte) (any, error) { return Read[String](bytes.NewReader(d)) },
		"array":  func(d []byte) (any, error) { return Read[strArray](bytes.NewReader(d)) },
		"map":    func(d []byte) (any, error) { return Read[u8StrMap](bytes.NewReader(d)) },
	}
	for name, data := range full {
		decode := decoders[name]
		t.Run(name, func(t *testing.T) {
			for l := 0; l < len(data); l++ {
				v, err := decode(data[:l])
				requireShort(t, err)
				require.Zero(t, v)
			}
			_, err := decode(data)
			require.NoError(t, err)
		})
	}
}

func TestArray(t *testing.T) {
	t.Run("two strings", func(t *testing.T) {
		expected := []string{"TEST", "VALUE"}
		data := encode(t, strArray{"TEST", "VALUE"})

		actual, err := Read[strArray](bytes.NewReader(data))
		require.NoError(t, err)
		require.Len(t, actual, len(expected))
		for i := range expected {
			require.Equal(t, expected[i], string(actual[i]))
		}
	})
	t.Run("length prefix", func(t *testing.T) {
		for _, n := range []int{0, 1, 7, 300} {
			arr := make(u16Array, n)
			for i := range arr {
				arr[i] = U16(i)
			}
			data := encode(t, arr)
			require.Equal(t, SizeLen+2*n, len(data))
			br := NewBinReaderFromBuf(data)
			require.Equal(t, n, br.ReadSize())
		}
	})
	t.Run("empty", func(t *testing.T) {
		data := encode(t, strArray{})
		require.Equal(t, make([]byte, SizeLen), data)
		actual, err := Read[strArray](bytes.NewReader(data))
		require.NoError(t, err)
		require.Len(t, actual, 0)
	})
	t.Run("generic functions", func(t *testing.T) {
		bw := NewBufBinWriter()
		WriteArray(bw.BinWriter, []U32{1, 2, 3})
		require.NoError(t, bw.Err)
		br := NewBinReaderFromBuf(bw.Bytes())
		require.Equal(t, []U32{1, 2, 3}, ReadArray[U32](br))
		require.NoError(t, br.Err)
	})
	t.Run("too big", func(t *testing.T) {
		br := NewBinReaderFromBuf(encode(t, u16Array{1, 2, 3}))
		require.Nil(t, ReadArray[U16](br, 2))
		require.ErrorIs(t, br.Err, ErrTooLarge)
	})
	t.Run("huge length on short stream", func(t *testing.T) {
		bw := NewBufBinWriter()
		bw.WriteSize(MaxArraySize)
		bw.WriteU64LE(1)
		br := NewBinReaderFromBuf(bw.Bytes())
		require.Nil(t, ReadArray[U64](br))
		requireShort(t, br.Err)
	})
	t.Run("optional elements", func(t *testing.T) {
		roundTrip(t, optStrList{Some[String]("a"), {}, Some[String]("")})
	})
}

func TestFixedArray(t *testing.T) {
	src := [4]U16{1, 2, 3, 0xffff}
	bw := NewBufBinWriter()
	WriteArray(bw.BinWriter, src[:])
	data := bw.Bytes()
	require.Equal(t, GetSize(src), len(data))

	var dst [4]U16
	br := NewBinReaderFromBuf(data)
	ReadFixedArray[U16](br, dst[:])
	require.NoError(t, br.Err)
	require.Equal(t, src, dst)

	var short [3]U16
	br = NewBinReaderFromBuf(data)
	ReadFixedArray[U16](br, short[:])
	require.ErrorIs(t, br.Err, ErrInvalidData)
}

func TestMap(t *testing.T) {
	t.Run("two pairs", func(t *testing.T) {
		expected := map[uint8]string{22: "TEST", 254: "VALUE"}
		data := encode(t, u8StrMap{22: "TEST", 254: "VALUE"})

		actual, err := Read[u8StrMap](bytes.NewReader(data))
		require.NoError(t, err)
		require.Len(t, actual, len(expected))
		for k, v := range expected {
			require.Equal(t, String(v), actual[U8(k)])
		}
	})
	t.Run("empty", func(t *testing.T) {
		roundTrip(t, u8StrMap{})
	})
	t.Run("nested", func(t *testing.T) {
		roundTrip(t, nestedMap{
			1: {"a", "b"},
			2: {},
			3: {"Привет"},
		})
	})
	t.Run("duplicate keys", func(t *testing.T) {
		bw := NewBufBinWriter()
		bw.WriteSize(3)
		for _, kv := range []struct {
			k byte
			v string
		}{{1, "first"}, {2, "other"}, {1, "last"}} {
			bw.WriteB(kv.k)
			bw.WriteString(kv.v)
		}
		br := NewBinReaderFromBuf(bw.Bytes())
		m := ReadMap[U8, String](br)
		require.NoError(t, br.Err)
		require.Equal(t, map[U8]String{1: "last", 2: "other"}, m)
	})
	t.Run("generic functions", func(t *testing.T) {
		bw := NewBufBinWriter()
		WriteMap(bw.BinWriter, map[String]U64{"one": 1, "two": 2})
		br := NewBinReaderFromBuf(bw.Bytes())
		require.Equal(t, map[String]U64{"one": 1, "two": 2}, ReadMap[String, U64](br))
		require.NoError(t, br.Err)
	})
}

func TestOptional(t *testing.T) {
	require.Equal(t, []byte{0}, encode(t, optU32{}))
	require.Equal(t, []byte{1, 5, 0, 0, 0}, encode(t, Some[U32](5)))
	roundTrip(t, optU32{})
	roundTrip(t, Some[U32](5))

	br := NewBinReaderFromBuf([]byte{1, 5, 0})
	require.Nil(t, ReadOptional[U32](br))
	requireShort(t, br.Err)
}

func TestBox(t *testing.T) {
	require.Equal(t, encode(t, String("boxed")), encode(t, NewBox[String]("boxed")))
	roundTrip(t, NewBox[String]("boxed"))

	_, err := ToByteArray(boxedStr{})
	require.ErrorIs(t, err, ErrNilPointer)
	require.Equal(t, KindUnsupported, KindOf(err))
}

// point is a codec type without the Size method.
type point struct {
	X, Y uint16
}

func (p *point) EncodeBinary(w *BinWriter) {
	w.WriteU16LE(p.X)
	w.WriteU16LE(p.Y)
}

func (p *point) DecodeBinary(r *BinReader) {
	p.X = r.ReadU16LE()
	p.Y = r.ReadU16LE()
}

func TestCompositesOfUnsizedElements(t *testing.T) {
	pointRoundTrip := func(t *testing.T, v Writable, decoded Readable, expected []byte) {
		var data []byte
		require.NotPanics(t, func() { data = encode(t, v) })
		require.Equal(t, expected, data)
		require.NoError(t, FromByteArray(decoded, data))
	}

	t.Run("array", func(t *testing.T) {
		arr := Array[point, *point]{{1, 2}, {3, 4}}
		var actual Array[point, *point]
		pointRoundTrip(t, arr, &actual, []byte{2, 0, 0, 0, 0, 0, 0, 0, 1, 0, 2, 0, 3, 0, 4, 0})
		require.Equal(t, arr, actual)
		require.Panics(t, func() { _ = arr.Size() })
		require.Panics(t, func() { _ = GetSize(arr) })
	})
	t.Run("map", func(t *testing.T) {
		m := Map[U8, point, *U8, *point]{7: {1, 2}}
		var actual Map[U8, point, *U8, *point]
		pointRoundTrip(t, m, &actual, []byte{1, 0, 0, 0, 0, 0, 0, 0, 7, 1, 0, 2, 0})
		require.Equal(t, m, actual)
	})
	t.Run("optional", func(t *testing.T) {
		o := Some[point](point{1, 2})
		var actual Optional[point, *point]
		pointRoundTrip(t, o, &actual, []byte{1, 1, 0, 2, 0})
		require.Equal(t, o, actual)

		none := Optional[point, *point]{}
		require.Equal(t, 1, none.Size())
	})
	t.Run("box", func(t *testing.T) {
		b := NewBox[point](point{1, 2})
		var actual Box[point, *point]
		pointRoundTrip(t, b, &actual, []byte{1, 0, 2, 0})
		require.Equal(t, b, actual)
	})
	t.Run("nested", func(t *testing.T) {
		arr := Array[Array[point, *point], *Array[point, *point]]{{{5, 6}}, {}}
		var actual Array[Array[point, *point], *Array[point, *point]]
		pointRoundTrip(t, arr, &actual, []byte{
			2, 0, 0, 0, 0, 0, 0, 0,
			1, 0, 0, 0, 0, 0, 0, 0, 5, 0, 6, 0,
			0, 0, 0, 0, 0, 0, 0, 0,
		})
		require.Equal(t, arr, actual)
	})
}

func TestWriterStickyError(t *testing.T) {
	lw := &limitedWriter{n: 12}
	w := NewBinWriterFromIO(lw)
	w.WriteString("TEST_VALUE")
	require.ErrorIs(t, w.Err, errWriteLimit)
	w.WriteU64LE(1)
	require.ErrorIs(t, w.Err, errWriteLimit)
	// Partially written data is left in the sink.
	require.Equal(t, 12, lw.buf.Len())

	lw = &limitedWriter{n: 20}
	err := Write(lw, strArray{"TEST", "VALUE"})
	require.ErrorIs(t, err, errWriteLimit)
	require.Equal(t, 20, lw.buf.Len())
}

func TestReaderStickyError(t *testing.T) {
	br := NewBinReaderFromBuf([]byte{1})
	br.ReadU16LE()
	requireShort(t, br.Err)
	err := br.Err
	require.Equal(t, byte(0), br.ReadB())
	require.Equal(t, "", br.ReadString())
	require.Equal(t, err, br.Err)
}

func TestBufBinWriter_Len(t *testing.T) {
	val := []byte{0xde}
	bw := NewBufBinWriter()
	bw.WriteBytes(val)
	require.Equal(t, 1, bw.Len())
}

func TestBufBinWriterErr(t *testing.T) {
	bw := NewBufBinWriter()
	bw.WriteU32LE(1)
	_ = bw.Bytes()
	bw.WriteU32LE(2)
	require.ErrorIs(t, bw.Err, ErrDrained)
	require.Nil(t, bw.Bytes())
}

func TestBufBinWriterReset(t *testing.T) {
	bw := NewBufBinWriter()
	for i := 0; i < 3; i++ {
		bw.WriteU32LE(uint32(i))
		assert.Nil(t, bw.Err)
		_ = bw.Bytes()
		assert.NotNil(t, bw.Err)
		bw.Reset()
		assert.Nil(t, bw.Err)
	}
}

func TestFromByteArray(t *testing.T) {
	var s String
	require.NoError(t, FromByteArray(&s, encode(t, String("x"))))
	require.Equal(t, String("x"), s)
	requireShort(t, FromByteArray(&s, []byte{1}))
}

func TestKindOf(t *testing.T) {
	require.Equal(t, KindNone, KindOf(nil))
	require.Equal(t, KindIO, KindOf(io.ErrUnexpectedEOF))
	require.Equal(t, KindInvalidData, KindOf(ErrTooLarge))
	require.Equal(t, "invalid data", KindInvalidData.String())
}

func TestReaderMaxSize(t *testing.T) {
	data := encode(t, u16Array{1, 2, 3})

	r := NewBinReaderFromBuf(data)
	require.Equal(t, MaxArraySize, r.MaxSize())
	r.SetMaxSize(2)
	require.Equal(t, 2, r.MaxSize())
	require.Nil(t, ReadArray[U16](r))
	require.ErrorIs(t, r.Err, ErrTooLarge)

	// Explicit limit wins.
	r = NewBinReaderFromBuf(data)
	r.SetMaxSize(2)
	require.Equal(t, []U16{1, 2, 3}, ReadArray[U16](r, 3))
	require.NoError(t, r.Err)

	r = NewBinReaderFromBuf(data)
	r.SetMaxSize(0)
	require.Equal(t, MaxArraySize, r.MaxSize())
}
