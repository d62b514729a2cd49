package ir

import (
	"errors"
	"fmt"
)

// ErrDuplicateType is returned by Table.Add when the name is already present.
var ErrDuplicateType = errors.New("duplicate boxed type")

// Table is an insertion-ordered mapping from type name to BoxedType.
// Iteration order is emission order.
type Table struct {
	types []BoxedType
	index map[string]int
}

// NewTable builds a table from types in the given order.
func NewTable(types ...BoxedType) (*Table, error) {
	t := &Table{}
	for _, bt := range types {
		if err := t.Add(bt); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// MustTable is like NewTable but panics on error.
// Use only in tests or when inputs are known to be valid.
func MustTable(types ...BoxedType) *Table {
	t, err := NewTable(types...)
	if err != nil {
		panic(err)
	}
	return t
}

// Add appends a type to the end of the table.
func (t *Table) Add(bt BoxedType) error {
	if t.index == nil {
		t.index = make(map[string]int)
	}
	if _, ok := t.index[bt.Name]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateType, bt.Name)
	}
	t.index[bt.Name] = len(t.types)
	t.types = append(t.types, bt)
	return nil
}

// Lookup returns the type with the given name.
func (t *Table) Lookup(name string) (BoxedType, bool) {
	if t == nil {
		return BoxedType{}, false
	}
	i, ok := t.index[name]
	if !ok {
		return BoxedType{}, false
	}
	return t.types[i], true
}

// Types returns the types in insertion order.
// The returned slice is a copy; callers may not mutate the table through it.
func (t *Table) Types() []BoxedType {
	if t == nil {
		return nil
	}
	out := make([]BoxedType, len(t.types))
	copy(out, t.types)
	return out
}

// Names returns the type names in insertion order.
func (t *Table) Names() []string {
	if t == nil {
		return nil
	}
	names := make([]string, len(t.types))
	for i, bt := range t.types {
		names[i] = bt.Name
	}
	return names
}

// Len returns the number of types.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.types)
}
