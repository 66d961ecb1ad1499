// Package lens reads and replaces values nested inside structured state
// without mutating it.
//
// A Path addresses a location by a sequence of map keys, struct field names
// and slice or array indices. UpdateAt never writes through its input: it
// copies only the containers along the path and shares every other subtree
// with the original root.
package lens

import (
	"errors"
	"fmt"
	"maps"
	"reflect"
)

// Path is an ordered sequence of keys and indices locating a nested value.
type Path []any

var ErrInvalidPath = errors.New("invalid path")

// ReadAt returns the value located at path inside root.
//
// Missing map keys and out-of-range indices resolve to nil at any depth,
// including below a missing intermediate. Addressing into a value that is
// not a container, or with a key of the wrong kind, fails with ErrInvalidPath.
func ReadAt(root any, path Path) (any, error) {
	cur := root
	for i, key := range path {
		if cur == nil {
			return nil, nil
		}
		next, err := child(cur, key)
		if err != nil {
			return nil, fmt.Errorf("%w: %v: %w", ErrInvalidPath, path[:i+1], err)
		}
		cur = next
	}
	return cur, nil
}

// UpdateAt returns a new root equal to root except that the value at path
// is v. Missing intermediate map entries are created as map[string]any and
// a nil pointer along the path is replaced by a pointer to a fresh zero
// value. An empty path replaces the root itself.
func UpdateAt(root any, path Path, v any) (any, error) {
	res, err := updateAt(root, path, v)
	if err != nil {
		return nil, fmt.Errorf("%w: %v: %w", ErrInvalidPath, path, err)
	}
	return res, nil
}

func updateAt(root any, path Path, v any) (any, error) {
	if len(path) == 0 {
		return v, nil
	}
	key := path[0]

	var cur any
	if root != nil {
		var err error
		if cur, err = child(root, key); err != nil {
			return nil, err
		}
	}

	nested, err := updateAt(cur, path[1:], v)
	if err != nil {
		return nil, err
	}
	return withChild(root, key, nested)
}

var (
	errNotContainer = errors.New("not a container")
	errKeyKind      = errors.New("key kind mismatch")
	errOutOfRange   = errors.New("index out of range")
	errNoField      = errors.New("no such exported field")
	errValueType    = errors.New("value type mismatch")
)

// child returns the element of container at key, or nil when absent.
func child(container, key any) (any, error) {
	switch c := container.(type) {
	case map[string]any:
		k, ok := stringKey(key)
		if !ok {
			return nil, fmt.Errorf("%w: %T", errKeyKind, key)
		}
		return c[k], nil
	case []any:
		idx, ok := key.(int)
		if !ok {
			return nil, fmt.Errorf("%w: %T", errKeyKind, key)
		}
		if idx < 0 || idx >= len(c) {
			return nil, nil
		}
		return c[idx], nil
	}

	rv := reflect.ValueOf(container)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil, nil
		}
		rv = rv.Elem()
	}

	switch rv.Kind() {
	case reflect.Map:
		kv, err := convertTo(key, rv.Type().Key())
		if err != nil {
			return nil, err
		}
		elem := rv.MapIndex(kv)
		if !elem.IsValid() {
			return nil, nil
		}
		return elem.Interface(), nil

	case reflect.Slice, reflect.Array:
		idx, ok := key.(int)
		if !ok {
			return nil, fmt.Errorf("%w: %T", errKeyKind, key)
		}
		if idx < 0 || idx >= rv.Len() {
			return nil, nil
		}
		return rv.Index(idx).Interface(), nil

	case reflect.Struct:
		field, err := fieldOf(rv, key)
		if err != nil {
			return nil, err
		}
		return field.Interface(), nil

	default:
		return nil, fmt.Errorf("%w: %T", errNotContainer, container)
	}
}

// withChild returns a shallow copy of container with key set to v.
func withChild(container, key, v any) (any, error) {
	switch c := container.(type) {
	case nil:
		k, ok := stringKey(key)
		if !ok {
			return nil, fmt.Errorf("%w: cannot create container for %T", errKeyKind, key)
		}
		return map[string]any{k: v}, nil
	case map[string]any:
		k, ok := stringKey(key)
		if !ok {
			return nil, fmt.Errorf("%w: %T", errKeyKind, key)
		}
		out := make(map[string]any, len(c)+1)
		maps.Copy(out, c)
		out[k] = v
		return out, nil
	case []any:
		idx, ok := key.(int)
		if !ok {
			return nil, fmt.Errorf("%w: %T", errKeyKind, key)
		}
		if idx < 0 || idx > len(c) {
			return nil, fmt.Errorf("%w: %d", errOutOfRange, idx)
		}
		out := make([]any, max(len(c), idx+1))
		copy(out, c)
		out[idx] = v
		return out, nil
	}

	rv := reflect.ValueOf(container)
	switch rv.Kind() {
	case reflect.Pointer:
		pointee := reflect.Zero(rv.Type().Elem())
		if !rv.IsNil() {
			pointee = rv.Elem()
		}
		nested, err := withChild(pointee.Interface(), key, v)
		if err != nil {
			return nil, err
		}
		ptr := reflect.New(rv.Type().Elem())
		ptr.Elem().Set(reflect.ValueOf(nested))
		return ptr.Interface(), nil

	case reflect.Map:
		kv, err := convertTo(key, rv.Type().Key())
		if err != nil {
			return nil, err
		}
		vv, err := convertTo(v, rv.Type().Elem())
		if err != nil {
			return nil, err
		}
		out := reflect.MakeMapWithSize(rv.Type(), rv.Len()+1)
		iter := rv.MapRange()
		for iter.Next() {
			out.SetMapIndex(iter.Key(), iter.Value())
		}
		out.SetMapIndex(kv, vv)
		return out.Interface(), nil

	case reflect.Slice:
		idx, ok := key.(int)
		if !ok {
			return nil, fmt.Errorf("%w: %T", errKeyKind, key)
		}
		if idx < 0 || idx > rv.Len() {
			return nil, fmt.Errorf("%w: %d", errOutOfRange, idx)
		}
		vv, err := convertTo(v, rv.Type().Elem())
		if err != nil {
			return nil, err
		}
		n := max(rv.Len(), idx+1)
		out := reflect.MakeSlice(rv.Type(), n, n)
		reflect.Copy(out, rv)
		out.Index(idx).Set(vv)
		return out.Interface(), nil

	case reflect.Array:
		idx, ok := key.(int)
		if !ok {
			return nil, fmt.Errorf("%w: %T", errKeyKind, key)
		}
		if idx < 0 || idx >= rv.Len() {
			return nil, fmt.Errorf("%w: %d", errOutOfRange, idx)
		}
		vv, err := convertTo(v, rv.Type().Elem())
		if err != nil {
			return nil, err
		}
		out := reflect.New(rv.Type()).Elem()
		out.Set(rv)
		out.Index(idx).Set(vv)
		return out.Interface(), nil

	case reflect.Struct:
		out := reflect.New(rv.Type()).Elem()
		out.Set(rv)
		field, err := fieldOf(out, key)
		if err != nil {
			return nil, err
		}
		vv, err := convertTo(v, field.Type())
		if err != nil {
			return nil, err
		}
		field.Set(vv)
		return out.Interface(), nil

	default:
		return nil, fmt.Errorf("%w: %T", errNotContainer, container)
	}
}

func fieldOf(rv reflect.Value, key any) (reflect.Value, error) {
	name, ok := stringKey(key)
	if !ok {
		return reflect.Value{}, fmt.Errorf("%w: %T", errKeyKind, key)
	}
	sf, ok := rv.Type().FieldByName(name)
	if !ok || !sf.IsExported() {
		return reflect.Value{}, fmt.Errorf("%w: %s.%s", errNoField, rv.Type(), name)
	}
	field, err := rv.FieldByIndexErr(sf.Index)
	if err != nil {
		return reflect.Value{}, fmt.Errorf("%w: %s.%s", errNoField, rv.Type(), name)
	}
	return field, nil
}

func stringKey(key any) (string, bool) {
	if s, ok := key.(string); ok {
		return s, true
	}
	rv := reflect.ValueOf(key)
	if rv.Kind() == reflect.String {
		return rv.String(), true
	}
	return "", false
}

// convertTo adapts x to type t: nil becomes the zero value, assignable
// values pass through, and values of the same kind (named string or integer
// types) are converted.
func convertTo(x any, t reflect.Type) (reflect.Value, error) {
	if x == nil {
		return reflect.Zero(t), nil
	}
	xv := reflect.ValueOf(x)
	if xv.Type().AssignableTo(t) {
		return xv, nil
	}
	if sameKindFamily(xv.Kind(), t.Kind()) && xv.Type().ConvertibleTo(t) {
		return xv.Convert(t), nil
	}
	return reflect.Value{}, fmt.Errorf("%w: %T is not %s", errValueType, x, t)
}

func sameKindFamily(a, b reflect.Kind) bool {
	if a == b {
		return true
	}
	return isInteger(a) && isInteger(b)
}

func isInteger(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return true
	default:
		return false
	}
}
