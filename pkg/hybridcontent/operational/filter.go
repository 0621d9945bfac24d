package operational

import (
	"cmp"
	"fmt"
	"reflect"
	"slices"
)

// Matches reports whether r satisfies every filter.
func Matches(r Record, filters []Filter) (bool, error) {
	for _, f := range filters {
		ok, err := matchOne(r, f)
		if err != nil || !ok {
			return false, err
		}
	}
	return true, nil
}

func matchOne(r Record, f Filter) (bool, error) {
	v, present := r[f.Field]
	switch f.Op {
	case OpEqual:
		return present && equal(v, f.Value), nil
	case OpNotEqual:
		return !present || !equal(v, f.Value), nil
	case OpIn:
		options, ok := asList(f.Value)
		if !ok {
			return false, fmt.Errorf("%w: %q needs a list value", ErrUnsupportedFilter, f.Op)
		}
		return present && slices.ContainsFunc(options, func(o any) bool { return equal(v, o) }), nil
	case OpArrayContains:
		elems, ok := asList(v)
		return ok && slices.ContainsFunc(elems, func(e any) bool { return equal(e, f.Value) }), nil
	case OpGreater, OpGreaterEqual, OpLess, OpLessEqual:
		if !present {
			return false, nil
		}
		c, ok := compare(v, f.Value)
		if !ok {
			return false, nil
		}
		switch f.Op {
		case OpGreater:
			return c > 0, nil
		case OpGreaterEqual:
			return c >= 0, nil
		case OpLess:
			return c < 0, nil
		default:
			return c <= 0, nil
		}
	}
	return false, fmt.Errorf("%w: %q", ErrUnsupportedFilter, f.Op)
}

func asList(v any) ([]any, bool) {
	if list, ok := v.([]any); ok {
		return list, true
	}
	rv := reflect.ValueOf(v)
	if !rv.IsValid() || (rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array) {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}

// toFloat normalises the numeric types produced by Go literals and JSON.
func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

func equal(a, b any) bool {
	if fa, ok := toFloat(a); ok {
		fb, ok := toFloat(b)
		return ok && fa == fb
	}
	return reflect.DeepEqual(a, b)
}

func compare(a, b any) (int, bool) {
	if fa, ok := toFloat(a); ok {
		if fb, ok := toFloat(b); ok {
			return cmp.Compare(fa, fb), true
		}
		return 0, false
	}
	sa, ok := a.(string)
	if !ok {
		return 0, false
	}
	sb, ok := b.(string)
	if !ok {
		return 0, false
	}
	return cmp.Compare(sa, sb), true
}
