package payload

import (
	"fmt"
)

// Record is one loosely typed row of a feed.
type Record map[string]any

// Shape is the category a payload falls into before normalization.
type Shape int

const (
	ShapeNull Shape = iota
	ShapeArray
	ShapeObjectWithArray
	ShapePlainObject
	ShapeScalar
)

func (s Shape) String() string {
	switch s {
	case ShapeNull:
		return "null"
	case ShapeArray:
		return "array"
	case ShapeObjectWithArray:
		return "object-with-array"
	case ShapePlainObject:
		return "plain-object"
	default:
		return "scalar"
	}
}

const (
	// DefaultIDProperty tags records built from the entries of a plain object.
	DefaultIDProperty = "id"

	// ValueKey holds non-object elements and scalar entry values.
	ValueKey = "value"
)

type options struct {
	idProperty string
}

// Option tweaks Normalize.
type Option func(*options)

// WithIDProperty sets the key under which a plain object's entry key is stored.
func WithIDProperty(key string) Option {
	return func(o *options) {
		if key != "" {
			o.idProperty = key
		}
	}
}

// Classify reports the shape of v.
func Classify(v Value) Shape {
	switch v.Kind() {
	case KindNull:
		return ShapeNull
	case KindArray:
		return ShapeArray
	case KindObject:
		if _, ok := firstArrayMember(v); ok {
			return ShapeObjectWithArray
		}
		return ShapePlainObject
	default:
		return ShapeScalar
	}
}

func firstArrayMember(v Value) (Member, bool) {
	for _, m := range v.Members() {
		if m.Value.Kind() == KindArray {
			return m, true
		}
	}
	return Member{}, false
}

// Normalize flattens a payload into records and describes what it did.
func Normalize(v Value, opts ...Option) ([]Record, string) {
	o := options{idProperty: DefaultIDProperty}
	for _, opt := range opts {
		opt(&o)
	}

	switch Classify(v) {
	case ShapeNull:
		return []Record{}, "empty payload"

	case ShapeArray:
		records := fromElements(v.Items())
		return records, fmt.Sprintf("data is an array with %d items", len(records))

	case ShapeObjectWithArray:
		m, _ := firstArrayMember(v)
		records := fromElements(m.Value.Items())
		return records, fmt.Sprintf("found array in property '%s' with %d items", m.Key, len(records))

	case ShapePlainObject:
		members := v.Members()
		records := make([]Record, 0, len(members))
		for _, m := range members {
			if m.Value.Kind() == KindObject {
				rec := toRecord(m.Value)
				rec[o.idProperty] = m.Key
				records = append(records, rec)
				continue
			}
			records = append(records, Record{o.idProperty: m.Key, ValueKey: m.Value.Interface()})
		}
		return records, fmt.Sprintf("converted object to array with %d items", len(records))

	default:
		return []Record{}, fmt.Sprintf("unexpected payload type: %s", v.Kind())
	}
}

func fromElements(items []Value) []Record {
	records := make([]Record, 0, len(items))
	for _, item := range items {
		if item.Kind() == KindObject {
			records = append(records, toRecord(item))
			continue
		}
		records = append(records, Record{ValueKey: item.Interface()})
	}
	return records
}

func toRecord(v Value) Record {
	members := v.Members()
	rec := make(Record, len(members))
	for _, m := range members {
		rec[m.Key] = m.Value.Interface()
	}
	return rec
}
