//go:build cgo && kuzu

package kuzu

// #include <kuzu.h>
import "C"

// checkResult validates a freshly produced query result. On failure it
// extracts the engine's error message, destroys the result handle, and
// returns a QueryError.
func checkResult(res *QueryResult, state C.kuzu_state) (*QueryResult, error) {
	if state == C.KuzuSuccess && bool(C.kuzu_query_result_is_success(&res.handle)) {
		res.open = true
		return res, nil
	}
	msg := "query failed"
	if cMsg := C.kuzu_query_result_get_error_message(&res.handle); cMsg != nil {
		if s := C.GoString(cMsg); s != "" {
			msg = s
		}
		C.kuzu_destroy_string(cMsg)
	}
	C.kuzu_query_result_destroy(&res.handle)
	return nil, &QueryError{Message: msg}
}

// statementError extracts the error message from a failed prepare.
func statementError(handle *C.kuzu_prepared_statement) error {
	msg := "prepare failed"
	if cMsg := C.kuzu_prepared_statement_get_error_message(handle); cMsg != nil {
		if s := C.GoString(cMsg); s != "" {
			msg = s
		}
		C.kuzu_destroy_string(cMsg)
	}
	return &QueryError{Message: msg}
}
