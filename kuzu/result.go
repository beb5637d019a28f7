//go:build cgo && kuzu

package kuzu

// #include <kuzu.h>
import "C"
import (
	"sync"
	"time"
)

// QueryResult holds the output of one executed statement and iterates its
// tuples. Results are not safe for concurrent use.
type QueryResult struct {
	handle C.kuzu_query_result
	mu     sync.Mutex
	open   bool
}

// Close releases the result. Close is idempotent.
func (r *QueryResult) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.open {
		C.kuzu_query_result_destroy(&r.handle)
		r.open = false
	}
}

// NumColumns returns the number of columns in the result.
func (r *QueryResult) NumColumns() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.open {
		return 0
	}
	return uint64(C.kuzu_query_result_get_num_columns(&r.handle))
}

// NumTuples returns the number of tuples in the result.
func (r *QueryResult) NumTuples() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.open {
		return 0
	}
	return uint64(C.kuzu_query_result_get_num_tuples(&r.handle))
}

// Columns returns the column names in result order.
func (r *QueryResult) Columns() ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.open {
		return nil, ErrResultClosed
	}

	n := uint64(C.kuzu_query_result_get_num_columns(&r.handle))
	names := make([]string, 0, n)
	for i := uint64(0); i < n; i++ {
		var cName *C.char
		if C.kuzu_query_result_get_column_name(&r.handle, C.uint64_t(i), &cName) != C.KuzuSuccess {
			return nil, &EngineError{Message: "failed to read column name"}
		}
		names = append(names, C.GoString(cName))
		C.kuzu_destroy_string(cName)
	}
	return names, nil
}

// ColumnTypes returns the logical type of each column in result order.
func (r *QueryResult) ColumnTypes() ([]DataTypeID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.open {
		return nil, ErrResultClosed
	}

	n := uint64(C.kuzu_query_result_get_num_columns(&r.handle))
	types := make([]DataTypeID, 0, n)
	for i := uint64(0); i < n; i++ {
		var lt C.kuzu_logical_type
		if C.kuzu_query_result_get_column_data_type(&r.handle, C.uint64_t(i), &lt) != C.KuzuSuccess {
			return nil, &EngineError{Message: "failed to read column type"}
		}
		types = append(types, DataTypeID(C.kuzu_data_type_get_id(&lt)))
		C.kuzu_data_type_destroy(&lt)
	}
	return types, nil
}

// HasNext reports whether another tuple can be read.
func (r *QueryResult) HasNext() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.open {
		return false
	}
	return bool(C.kuzu_query_result_has_next(&r.handle))
}

// Next reads the next tuple. It returns ErrResultExhausted when the
// result has no more tuples. The caller must close the tuple.
func (r *QueryResult) Next() (*FlatTuple, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.open {
		return nil, ErrResultClosed
	}
	if !bool(C.kuzu_query_result_has_next(&r.handle)) {
		return nil, ErrResultExhausted
	}

	t := &FlatTuple{numColumns: uint64(C.kuzu_query_result_get_num_columns(&r.handle))}
	if C.kuzu_query_result_get_next(&r.handle, &t.handle) != C.KuzuSuccess {
		return nil, &EngineError{Message: "failed to read next tuple"}
	}
	t.open = true
	return t, nil
}

// HasNextResult reports whether the statement produced a further result,
// as multi-statement query strings do.
func (r *QueryResult) HasNextResult() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.open {
		return false
	}
	return bool(C.kuzu_query_result_has_next_query_result(&r.handle))
}

// NextResult returns the next result of a multi-statement query string.
// The caller must close it.
func (r *QueryResult) NextResult() (*QueryResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.open {
		return nil, ErrResultClosed
	}

	next := &QueryResult{}
	state := C.kuzu_query_result_get_next_query_result(&r.handle, &next.handle)
	return checkResult(next, state)
}

// ResetIterator rewinds tuple iteration to the first tuple.
func (r *QueryResult) ResetIterator() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.open {
		C.kuzu_query_result_reset_iterator(&r.handle)
	}
}

// String renders the whole result as the engine's tabular text form.
func (r *QueryResult) String() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.open {
		return ""
	}
	cStr := C.kuzu_query_result_to_string(&r.handle)
	defer C.kuzu_destroy_string(cStr)
	return C.GoString(cStr)
}

// QuerySummary reports compile and execution timings for one statement.
type QuerySummary struct {
	// CompilingTime is the time the engine spent compiling the statement.
	CompilingTime time.Duration
	// ExecutionTime is the time the engine spent executing the statement.
	ExecutionTime time.Duration
}

// Summary returns the timings recorded for this result's statement.
func (r *QueryResult) Summary() (*QuerySummary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.open {
		return nil, ErrResultClosed
	}

	var cSummary C.kuzu_query_summary
	if C.kuzu_query_result_get_query_summary(&r.handle, &cSummary) != C.KuzuSuccess {
		return nil, &EngineError{Message: "failed to read query summary"}
	}
	defer C.kuzu_query_summary_destroy(&cSummary)

	return &QuerySummary{
		CompilingTime: time.Duration(float64(C.kuzu_query_summary_get_compiling_time(&cSummary)) * float64(time.Millisecond)),
		ExecutionTime: time.Duration(float64(C.kuzu_query_summary_get_execution_time(&cSummary)) * float64(time.Millisecond)),
	}, nil
}
