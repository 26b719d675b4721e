package payload

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/bytedance/sonic"
	"github.com/bytedance/sonic/ast"
)

// Kind is the JSON type of a Value.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "boolean"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	default:
		return "unknown"
	}
}

// ErrInvalidJSON is returned by Decode for malformed input, including
// trailing data after the first value.
var ErrInvalidJSON = errors.New("decode payload: invalid json")

// Member is one key/value pair of an object, in document order.
type Member struct {
	Key   string
	Value Value
}

// Value is a decoded JSON value whose objects remember key order.
// The zero Value is null.
type Value struct {
	kind    Kind
	scalar  any
	items   []Value
	members []Member
}

func Null() Value { return Value{} }

func String(s string) Value { return Value{kind: KindString, scalar: s} }

func Number(f float64) Value { return Value{kind: KindNumber, scalar: f} }

func Bool(b bool) Value { return Value{kind: KindBool, scalar: b} }

func Array(items ...Value) Value { return Value{kind: KindArray, items: items} }

func Object(members ...Member) Value { return Value{kind: KindObject, members: members} }

func (v Value) Kind() Kind { return v.kind }

func (v Value) IsNull() bool { return v.kind == KindNull }

// Items returns the elements of an array value, or nil.
func (v Value) Items() []Value { return v.items }

// Members returns the members of an object value in document order, or nil.
func (v Value) Members() []Member { return v.members }

// Interface converts v to plain Go values: map[string]any, []any, string,
// float64, bool or nil.
func (v Value) Interface() any {
	switch v.kind {
	case KindArray:
		out := make([]any, len(v.items))
		for i, item := range v.items {
			out[i] = item.Interface()
		}
		return out
	case KindObject:
		out := make(map[string]any, len(v.members))
		for _, m := range v.members {
			out[m.Key] = m.Value.Interface()
		}
		return out
	case KindNull:
		return nil
	default:
		return v.scalar
	}
}

// Decode parses raw JSON into a Value. A body that is empty or only
// whitespace decodes to null, matching how the feeds answer with no data.
func Decode(data []byte) (Value, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return Null(), nil
	}
	if !sonic.Valid(data) {
		return Null(), ErrInvalidJSON
	}
	root, err := sonic.Get(data)
	if err != nil {
		return Null(), fmt.Errorf("decode payload: %w", err)
	}
	v, err := fromNode(&root)
	if err != nil {
		return Null(), fmt.Errorf("decode payload: %w", err)
	}
	return v, nil
}

func fromNode(n *ast.Node) (Value, error) {
	switch n.TypeSafe() {
	case ast.V_NULL:
		return Null(), nil
	case ast.V_TRUE:
		return Bool(true), nil
	case ast.V_FALSE:
		return Bool(false), nil
	case ast.V_STRING:
		s, err := n.String()
		if err != nil {
			return Null(), err
		}
		return String(s), nil
	case ast.V_NUMBER:
		f, err := n.Float64()
		if err != nil {
			return Null(), err
		}
		return Number(f), nil
	case ast.V_ARRAY:
		var (
			items []Value
			inner error
		)
		err := n.ForEach(func(_ ast.Sequence, child *ast.Node) bool {
			item, err := fromNode(child)
			if err != nil {
				inner = err
				return false
			}
			items = append(items, item)
			return true
		})
		if inner != nil {
			return Null(), inner
		}
		if err != nil {
			return Null(), err
		}
		return Array(items...), nil
	case ast.V_OBJECT:
		var (
			members []Member
			inner   error
		)
		err := n.ForEach(func(path ast.Sequence, child *ast.Node) bool {
			item, err := fromNode(child)
			if err != nil {
				inner = err
				return false
			}
			key := ""
			if path.Key != nil {
				key = *path.Key
			}
			members = append(members, Member{Key: key, Value: item})
			return true
		})
		if inner != nil {
			return Null(), inner
		}
		if err != nil {
			return Null(), err
		}
		return Object(members...), nil
	default:
		if err := n.Check(); err != nil {
			return Null(), err
		}
		return Null(), fmt.Errorf("unsupported json node type %d", n.TypeSafe())
	}
}
