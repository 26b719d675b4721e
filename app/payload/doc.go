// Package payload turns the loosely shaped JSON returned by the attendance
// feeds into a flat list of records.
//
// # Shapes
//
// A decoded payload falls into exactly one Shape:
//
//	ShapeNull             null or an empty body          -> no records
//	ShapeArray            [ ... ]                        -> one record per element
//	ShapeObjectWithArray  {"data": [ ... ], ...}         -> the first array-valued property
//	ShapePlainObject      {"k1": {...}, "k2": 3}         -> one record per entry, tagged with its key
//	ShapeScalar           "text", 12, true               -> no records
//
// Object members keep the order in which they appear in the source document,
// so "first array-valued property" means first in the body as sent.
//
// Normalize never fails. Each call returns a trace line that says which
// branch was taken, for display next to the data.
package payload
