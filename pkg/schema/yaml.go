package schema

import (
	"encoding/hex"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

const nullTag = "!!null"

// FromNode converts a YAML node into a value of t. Integers may be given in
// any base accepted by strconv.ParseUint with base 0, bytes are hex strings
// (optionally 0x-prefixed), `null` is an absent Optional value.
func (t *Type) FromNode(node *yaml.Node) (any, error) {
	node = resolve(node)
	if node == nil {
		return nil, fmt.Errorf("%w: empty document for %s", ErrTypeMismatch, t)
	}
	switch t.Kind {
	case Optional:
		if node.Kind == yaml.ScalarNode && node.ShortTag() == nullTag {
			return nil, nil
		}
		return t.Elem.FromNode(node)
	case Box:
		return t.Elem.FromNode(node)
	case Array:
		if node.Kind != yaml.SequenceNode {
			return nil, t.nodeMismatch(node)
		}
		arr := make([]any, 0, len(node.Content))
		for _, n := range node.Content {
			v, err := t.Elem.FromNode(n)
			if err != nil {
				return nil, err
			}
			arr = append(arr, v)
		}
		return arr, nil
	case Map:
		if node.Kind != yaml.MappingNode {
			return nil, t.nodeMismatch(node)
		}
		m := make(map[any]any, len(node.Content)/2)
		for i := 0; i+1 < len(node.Content); i += 2 {
			k, err := t.Key.FromNode(node.Content[i])
			if err != nil {
				return nil, err
			}
			v, err := t.Elem.FromNode(node.Content[i+1])
			if err != nil {
				return nil, err
			}
			m[k] = v
		}
		return m, nil
	}

	if node.Kind != yaml.ScalarNode {
		return nil, t.nodeMismatch(node)
	}
	switch t.Kind {
	case U8, U16, U32, U64:
		bits := map[Kind]int{U8: 8, U16: 16, U32: 32, U64: 64}[t.Kind]
		u, err := strconv.ParseUint(node.Value, 0, bits)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %s", ErrTypeMismatch, node.Line, err)
		}
		switch t.Kind {
		case U8:
			return uint8(u), nil
		case U16:
			return uint16(u), nil
		case U32:
			return uint32(u), nil
		default:
			return u, nil
		}
	case Size:
		u, err := strconv.ParseUint(node.Value, 0, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %s", ErrTypeMismatch, node.Line, err)
		}
		if u > math.MaxInt {
			return nil, fmt.Errorf("%w: line %d: size %d is too big", ErrTypeMismatch, node.Line, u)
		}
		return int(u), nil
	case Bool:
		var b bool
		if err := node.Decode(&b); err != nil {
			return nil, fmt.Errorf("%w: line %d: %s", ErrTypeMismatch, node.Line, err)
		}
		return b, nil
	case String:
		if node.ShortTag() == nullTag {
			return nil, t.nodeMismatch(node)
		}
		return node.Value, nil
	case Bytes:
		b, err := hex.DecodeString(strings.TrimPrefix(node.Value, "0x"))
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %s", ErrTypeMismatch, node.Line, err)
		}
		return b, nil
	}
	return nil, t.nodeMismatch(node)
}

// ToNode converts a value of t into a YAML node. Map keys are sorted so that
// the output is stable.
func (t *Type) ToNode(v any) (*yaml.Node, error) {
	switch t.Kind {
	case Optional:
		if v == nil {
			return &yaml.Node{Kind: yaml.ScalarNode, Tag: nullTag, Value: "null"}, nil
		}
		return t.Elem.ToNode(v)
	case Box:
		return t.Elem.ToNode(v)
	case Array:
		x, ok := v.([]any)
		if !ok {
			return nil, t.mismatch(v)
		}
		node := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for i := range x {
			n, err := t.Elem.ToNode(x[i])
			if err != nil {
				return nil, err
			}
			node.Content = append(node.Content, n)
		}
		return node, nil
	case Map:
		x, ok := v.(map[any]any)
		if !ok {
			return nil, t.mismatch(v)
		}
		keys := make([]any, 0, len(x))
		for k := range x {
			keys = append(keys, k)
		}
		sort.Slice(keys, func(i, j int) bool { return lessScalar(keys[i], keys[j]) })
		node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for _, k := range keys {
			kn, err := t.Key.ToNode(k)
			if err != nil {
				return nil, err
			}
			vn, err := t.Elem.ToNode(x[k])
			if err != nil {
				return nil, err
			}
			node.Content = append(node.Content, kn, vn)
		}
		return node, nil
	}

	var value, tag string
	switch x := v.(type) {
	case uint8:
		value, tag = strconv.FormatUint(uint64(x), 10), "!!int"
	case uint16:
		value, tag = strconv.FormatUint(uint64(x), 10), "!!int"
	case uint32:
		value, tag = strconv.FormatUint(uint64(x), 10), "!!int"
	case uint64:
		value, tag = strconv.FormatUint(x, 10), "!!int"
	case int:
		value, tag = strconv.Itoa(x), "!!int"
	case bool:
		value, tag = strconv.FormatBool(x), "!!bool"
	case string:
		value, tag = x, "!!str"
	case []byte:
		value, tag = hex.EncodeToString(x), "!!str"
	}
	if tag == "" || !t.holds(v) {
		return nil, t.mismatch(v)
	}
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: value}, nil
}

// holds checks that a scalar Go value has the type t expects.
func (t *Type) holds(v any) bool {
	switch v.(type) {
	case uint8:
		return t.Kind == U8
	case uint16:
		return t.Kind == U16
	case uint32:
		return t.Kind == U32
	case uint64:
		return t.Kind == U64
	case int:
		return t.Kind == Size
	case bool:
		return t.Kind == Bool
	case string:
		return t.Kind == String
	case []byte:
		return t.Kind == Bytes
	}
	return false
}

func (t *Type) nodeMismatch(node *yaml.Node) error {
	return fmt.Errorf("%w: line %d: %s can't be read from %s", ErrTypeMismatch, node.Line, t, node.ShortTag())
}

func resolve(node *yaml.Node) *yaml.Node {
	for node != nil {
		switch node.Kind {
		case yaml.DocumentNode:
			if len(node.Content) == 0 {
				return nil
			}
			node = node.Content[0]
		case yaml.AliasNode:
			node = node.Alias
		default:
			return node
		}
	}
	return nil
}

// lessScalar orders map keys: numbers numerically, false before true,
// strings lexicographically. Keys of a single map always share the type.
func lessScalar(a, b any) bool {
	switch x := a.(type) {
	case bool:
		y, _ := b.(bool)
		return !x && y
	case string:
		y, _ := b.(string)
		return x < y
	}
	return toUint64(a) < toUint64(b)
}

func toUint64(v any) uint64 {
	switch x := v.(type) {
	case uint8:
		return uint64(x)
	case uint16:
		return uint64(x)
	case uint32:
		return uint64(x)
	case uint64:
		return x
	case int:
		return uint64(x)
	}
	return 0
}

// ParseYAML parses a YAML document into a value of t.
func (t *Type) ParseYAML(data []byte) (any, error) {
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	return t.FromNode(&node)
}

// FormatYAML formats a value of t as a YAML document.
func (t *Type) FormatYAML(v any) ([]byte, error) {
	node, err := t.ToNode(v)
	if err != nil {
		return nil, err
	}
	return yaml.Marshal(node)
}
