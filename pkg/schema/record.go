package schema

import (
	"fmt"

	"github.com/nspcc-dev/binrw/pkg/io"
	"gopkg.in/yaml.v3"
)

// MaxTypeExprLen is the maximum length of a type expression stored in Record.
const MaxTypeExprLen = 1024

// Record is a self-describing value: a type expression followed by the
// value encoded with this type.
type Record struct {
	Type string
	Data []byte
}

// NewRecord encodes v with t and wraps the result into Record. The encoded
// value can't be longer than io.MaxArraySize unless the limit is given
// explicitly, ErrTooLarge is returned otherwise. Records made this way can be
// decoded with the same limit.
func NewRecord(t *Type, v any, maxSize ...int) (Record, error) {
	ms := io.MaxArraySize
	if len(maxSize) != 0 {
		ms = maxSize[0]
	}
	data, err := t.Marshal(v)
	if err != nil {
		return Record{}, err
	}
	if len(data) > ms {
		return Record{}, fmt.Errorf("%w: encoded %s is too big (%d > %d)", io.ErrTooLarge, t, len(data), ms)
	}
	return Record{Type: t.String(), Data: data}, nil
}

// Schema parses the record's type expression.
func (r Record) Schema() (*Type, error) {
	return Parse(r.Type)
}

// Value decodes the record's data.
func (r Record) Value(maxSize ...int) (any, error) {
	t, err := r.Schema()
	if err != nil {
		return nil, err
	}
	return t.Unmarshal(r.Data, maxSize...)
}

// EncodeBinary implements the io.Serializable interface.
func (r Record) EncodeBinary(w *io.BinWriter) {
	w.WriteString(r.Type)
	w.WriteVarBytes(r.Data)
}

// DecodeBinary implements the io.Serializable interface. Data can't be longer
// than br.MaxSize().
func (r *Record) DecodeBinary(br *io.BinReader) {
	r.Type = br.ReadString(MaxTypeExprLen)
	r.Data = br.ReadVarBytes()
}

type recordAux struct {
	Type  string     `yaml:"type"`
	Value *yaml.Node `yaml:"value"`
}

// MarshalYAML implements the yaml.Marshaler interface.
func (r Record) MarshalYAML() (any, error) {
	t, err := r.Schema()
	if err != nil {
		return nil, err
	}
	// No length inside of Data can exceed the length of Data itself.
	v, err := t.Unmarshal(r.Data, len(r.Data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s record: %w", r.Type, err)
	}
	node, err := t.ToNode(v)
	if err != nil {
		return nil, err
	}
	return recordAux{Type: r.Type, Value: node}, nil
}

// UnmarshalYAML implements the yaml.Unmarshaler interface.
func (r *Record) UnmarshalYAML(node *yaml.Node) error {
	var aux recordAux
	if err := node.Decode(&aux); err != nil {
		return err
	}
	t, err := Parse(aux.Type)
	if err != nil {
		return err
	}
	if aux.Value == nil {
		return fmt.Errorf("%w: no value for %s record", ErrTypeMismatch, aux.Type)
	}
	v, err := t.FromNode(aux.Value)
	if err != nil {
		return err
	}
	rec, err := NewRecord(t, v)
	if err != nil {
		return err
	}
	*r = rec
	return nil
}
