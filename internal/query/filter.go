// Package query turns sparse user filters into store query strings and
// store query strings into SQL predicates.
//
// A query string is a conjunction of comparisons such as
//
//	gender = "male" AND location.zip = "12345" AND dob <= "932871969"
//
// BuildQuery produces it from a Filter, Parse reads it back into clauses and
// ToSQL binds the clauses to columns described by the schema registry.
//
// Values are interpolated into the query string verbatim. A value holding a
// double quote can therefore change the meaning of the query; callers that
// accept untrusted filters inherit this weakness.
package query

import (
	"fmt"

	"github.com/dmitrijs2005/usersapi/internal/common"
	"github.com/dmitrijs2005/usersapi/internal/schema"
)

// Term is one filter entry: a scalar Value, or Nested sub-terms for
// object-valued fields such as "location".
type Term struct {
	Key    string
	Value  any
	Nested []Term
}

// IsNested reports whether t filters on the fields of a nested object.
func (t Term) IsNested() bool {
	return t.Nested != nil
}

// Filter is an ordered set of terms. Order is insertion order and decides
// the order of the generated clauses.
type Filter struct {
	terms []Term
}

func NewFilter() *Filter {
	return &Filter{}
}

// Set stores a scalar term. Re-setting a key keeps its original position.
func (f *Filter) Set(key string, value any) *Filter {
	if i := indexOf(f.terms, key); i >= 0 {
		f.terms[i] = Term{Key: key, Value: value}
		return f
	}
	f.terms = append(f.terms, Term{Key: key, Value: value})
	return f
}

// SetNested stores key.sub = value.
func (f *Filter) SetNested(key, sub string, value any) *Filter {
	i := indexOf(f.terms, key)
	if i < 0 {
		f.terms = append(f.terms, Term{Key: key, Nested: []Term{}})
		i = len(f.terms) - 1
	} else if !f.terms[i].IsNested() {
		f.terms[i] = Term{Key: key, Nested: []Term{}}
	}

	nested := f.terms[i].Nested
	if j := indexOf(nested, sub); j >= 0 {
		nested[j].Value = value
	} else {
		f.terms[i].Nested = append(nested, Term{Key: sub, Value: value})
	}
	return f
}

// Terms returns a copy of the terms in order.
func (f *Filter) Terms() []Term {
	if f == nil {
		return nil
	}
	out := make([]Term, len(f.terms))
	for i, t := range f.terms {
		out[i] = t
		if t.IsNested() {
			out[i].Nested = append([]Term{}, t.Nested...)
		}
	}
	return out
}

func (f *Filter) Len() int {
	if f == nil {
		return 0
	}
	return len(f.terms)
}

// Validate checks every term against obj: keys must be fields of obj or
// range keys, nesting must match the field kind, and values must be strings
// for string fields and integers for int fields.
func (f *Filter) Validate(obj *schema.Object) error {
	if f == nil {
		return nil
	}
	for _, t := range f.terms {
		if schema.IsRangeKey(t.Key) {
			if t.IsNested() {
				return fmt.Errorf("%w: %q takes a single value", common.ErrorValidation, t.Key)
			}
			if err := checkValue(t.Key, schema.KindInt, t.Value); err != nil {
				return err
			}
			continue
		}

		field, ok := obj.Field(t.Key)
		if !ok {
			return fmt.Errorf("%w: unknown filter key %q", common.ErrorValidation, t.Key)
		}

		if field.Kind != schema.KindObject {
			if t.IsNested() {
				return fmt.Errorf("%w: %q has no sub-fields", common.ErrorValidation, t.Key)
			}
			if err := checkValue(t.Key, field.Kind, t.Value); err != nil {
				return err
			}
			continue
		}

		if !t.IsNested() {
			return fmt.Errorf("%w: %q is an object, filter on its fields", common.ErrorValidation, t.Key)
		}
		for _, s := range t.Nested {
			sub, ok := field.Object.Field(s.Key)
			if !ok {
				return fmt.Errorf("%w: unknown filter key %s.%s", common.ErrorValidation, t.Key, s.Key)
			}
			if err := checkValue(t.Key+"."+s.Key, sub.Kind, s.Value); err != nil {
				return err
			}
		}
	}
	return nil
}

func checkValue(key string, kind schema.Kind, v any) error {
	switch v.(type) {
	case nil:
		return nil
	case string:
		if kind == schema.KindString {
			return nil
		}
	case int, int64:
		if kind == schema.KindInt {
			return nil
		}
	}
	return fmt.Errorf("%w: %q expects %s, got %T", common.ErrorValidation, key, kind, v)
}

func indexOf(terms []Term, key string) int {
	for i, t := range terms {
		if t.Key == key {
			return i
		}
	}
	return -1
}
