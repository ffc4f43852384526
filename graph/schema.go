package graph

import (
	"fmt"
	"reflect"
)

// StateSchema defines the initial state and the merge rule applied to every
// partial update a node returns.
type StateSchema[S any] interface {
	// Init returns the initial state.
	Init() S

	// Update merges a node's partial update into the current state.
	Update(current, update S) (S, error)
}

// FieldMergeFn merges one struct field. Both values have the field's type.
type FieldMergeFn func(current, update reflect.Value) reflect.Value

// FieldMerger is a StateSchema for struct states. Fields with a registered
// merge function use it; every other exported field is overwritten when the
// update carries a non-zero value and kept otherwise.
type FieldMerger[S any] struct {
	InitialValue  S
	FieldMergeFns map[string]FieldMergeFn
}

var _ StateSchema[struct{}] = (*FieldMerger[struct{}])(nil)

// NewFieldMerger creates a FieldMerger starting from initial.
func NewFieldMerger[S any](initial S) *FieldMerger[S] {
	return &FieldMerger[S]{
		InitialValue:  initial,
		FieldMergeFns: make(map[string]FieldMergeFn),
	}
}

// RegisterFieldMerge sets the merge function for the named struct field.
func (m *FieldMerger[S]) RegisterFieldMerge(field string, fn FieldMergeFn) {
	m.FieldMergeFns[field] = fn
}

// Init returns the initial state.
func (m *FieldMerger[S]) Init() S {
	return m.InitialValue
}

// Update merges update into current field by field.
func (m *FieldMerger[S]) Update(current, update S) (S, error) {
	cur := reflect.ValueOf(current)
	if cur.Kind() != reflect.Struct {
		var zero S
		return zero, fmt.Errorf("FieldMerger only works with struct state types, got %s", cur.Kind())
	}
	upd := reflect.ValueOf(update)

	result := reflect.New(cur.Type()).Elem()
	result.Set(cur)

	t := cur.Type()
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}
		dst := result.Field(i)
		src := upd.Field(i)
		if fn, ok := m.FieldMergeFns[field.Name]; ok {
			dst.Set(fn(dst, src))
			continue
		}
		if !src.IsZero() {
			dst.Set(src)
		}
	}

	return result.Interface().(S), nil
}

// AppendSliceMerge appends update to current. The result never aliases the
// backing array of current, so concurrent readers of an older state are safe.
func AppendSliceMerge(current, update reflect.Value) reflect.Value {
	if update.Len() == 0 {
		return current
	}
	out := reflect.MakeSlice(current.Type(), 0, current.Len()+update.Len())
	out = reflect.AppendSlice(out, current)
	return reflect.AppendSlice(out, update)
}

// SumIntMerge adds integer fields.
func SumIntMerge(current, update reflect.Value) reflect.Value {
	return reflect.ValueOf(current.Int() + update.Int()).Convert(current.Type())
}

// OverwriteMerge always takes the update, even a zero value.
func OverwriteMerge(current, update reflect.Value) reflect.Value {
	return update
}

// KeepCurrentMerge keeps the first non-zero value written.
func KeepCurrentMerge(current, update reflect.Value) reflect.Value {
	if current.IsZero() {
		return update
	}
	return current
}
