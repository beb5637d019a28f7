//go:build cgo && kuzu

package kuzu

// #include <kuzu.h>
import "C"

// FlatTuple is one row of a query result. Values convert to Go types on
// access; see the package documentation for the type mapping.
type FlatTuple struct {
	handle     C.kuzu_flat_tuple
	numColumns uint64
	open       bool
}

// Close releases the tuple. Close is idempotent.
func (t *FlatTuple) Close() {
	if t.open {
		C.kuzu_flat_tuple_destroy(&t.handle)
		t.open = false
	}
}

// NumColumns returns the number of values in the tuple.
func (t *FlatTuple) NumColumns() uint64 {
	return t.numColumns
}

// GetValue converts the value at the given column index to its Go
// representation. NULL converts to nil.
func (t *FlatTuple) GetValue(index uint64) (any, error) {
	if !t.open {
		return nil, ErrTupleClosed
	}
	if index >= t.numColumns {
		return nil, &EngineError{Message: "column index out of range"}
	}

	var value C.kuzu_value
	if C.kuzu_flat_tuple_get_value(&t.handle, C.uint64_t(index), &value) != C.KuzuSuccess {
		return nil, &EngineError{Message: "failed to read tuple value"}
	}
	defer C.kuzu_value_destroy(&value)
	return convertValue(&value)
}

// Values converts the whole tuple into a slice of Go values.
func (t *FlatTuple) Values() ([]any, error) {
	if !t.open {
		return nil, ErrTupleClosed
	}

	out := make([]any, 0, t.numColumns)
	for i := uint64(0); i < t.numColumns; i++ {
		v, err := t.GetValue(i)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}
