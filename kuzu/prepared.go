//go:build cgo && kuzu

package kuzu

// #include <kuzu.h>
// #include <stdlib.h>
import "C"
import (
	"fmt"
	"sync"
	"time"
	"unsafe"

	"github.com/google/uuid"
)

// PreparedStatement is a compiled parameterized statement. Parameters are
// referenced in the statement text as $name and bound before Execute.
// Bound values persist across executions until rebound.
type PreparedStatement struct {
	handle C.kuzu_prepared_statement
	conn   *Connection
	mu     sync.Mutex
	open   bool
}

// Close releases the statement. Close is idempotent.
func (ps *PreparedStatement) Close() {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	if ps.open {
		C.kuzu_prepared_statement_destroy(&ps.handle)
		ps.open = false
	}
}

// Execute runs the statement on its connection with the bound parameters.
func (ps *PreparedStatement) Execute() (*QueryResult, error) {
	return ps.conn.Execute(ps)
}

func (ps *PreparedStatement) bind(name string, fn func(cName *C.char) C.kuzu_state) error {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	if !ps.open {
		return ErrStatementClosed
	}

	cName := C.CString(name)
	defer C.free(unsafe.Pointer(cName))

	if fn(cName) != C.KuzuSuccess {
		return &QueryError{Message: "failed to bind parameter " + name}
	}
	return nil
}

// BindBool binds a boolean parameter.
func (ps *PreparedStatement) BindBool(name string, value bool) error {
	return ps.bind(name, func(cName *C.char) C.kuzu_state {
		return C.kuzu_prepared_statement_bind_bool(&ps.handle, cName, C.bool(value))
	})
}

// BindInt64 binds an INT64 parameter.
func (ps *PreparedStatement) BindInt64(name string, value int64) error {
	return ps.bind(name, func(cName *C.char) C.kuzu_state {
		return C.kuzu_prepared_statement_bind_int64(&ps.handle, cName, C.int64_t(value))
	})
}

// BindInt32 binds an INT32 parameter.
func (ps *PreparedStatement) BindInt32(name string, value int32) error {
	return ps.bind(name, func(cName *C.char) C.kuzu_state {
		return C.kuzu_prepared_statement_bind_int32(&ps.handle, cName, C.int32_t(value))
	})
}

// BindInt16 binds an INT16 parameter.
func (ps *PreparedStatement) BindInt16(name string, value int16) error {
	return ps.bind(name, func(cName *C.char) C.kuzu_state {
		return C.kuzu_prepared_statement_bind_int16(&ps.handle, cName, C.int16_t(value))
	})
}

// BindInt8 binds an INT8 parameter.
func (ps *PreparedStatement) BindInt8(name string, value int8) error {
	return ps.bind(name, func(cName *C.char) C.kuzu_state {
		return C.kuzu_prepared_statement_bind_int8(&ps.handle, cName, C.int8_t(value))
	})
}

// BindUInt64 binds a UINT64 parameter.
func (ps *PreparedStatement) BindUInt64(name string, value uint64) error {
	return ps.bind(name, func(cName *C.char) C.kuzu_state {
		return C.kuzu_prepared_statement_bind_uint64(&ps.handle, cName, C.uint64_t(value))
	})
}

// BindUInt32 binds a UINT32 parameter.
func (ps *PreparedStatement) BindUInt32(name string, value uint32) error {
	return ps.bind(name, func(cName *C.char) C.kuzu_state {
		return C.kuzu_prepared_statement_bind_uint32(&ps.handle, cName, C.uint32_t(value))
	})
}

// BindUInt16 binds a UINT16 parameter.
func (ps *PreparedStatement) BindUInt16(name string, value uint16) error {
	return ps.bind(name, func(cName *C.char) C.kuzu_state {
		return C.kuzu_prepared_statement_bind_uint16(&ps.handle, cName, C.uint16_t(value))
	})
}

// BindUInt8 binds a UINT8 parameter.
func (ps *PreparedStatement) BindUInt8(name string, value uint8) error {
	return ps.bind(name, func(cName *C.char) C.kuzu_state {
		return C.kuzu_prepared_statement_bind_uint8(&ps.handle, cName, C.uint8_t(value))
	})
}

// BindDouble binds a DOUBLE parameter.
func (ps *PreparedStatement) BindDouble(name string, value float64) error {
	return ps.bind(name, func(cName *C.char) C.kuzu_state {
		return C.kuzu_prepared_statement_bind_double(&ps.handle, cName, C.double(value))
	})
}

// BindFloat binds a FLOAT parameter.
func (ps *PreparedStatement) BindFloat(name string, value float32) error {
	return ps.bind(name, func(cName *C.char) C.kuzu_state {
		return C.kuzu_prepared_statement_bind_float(&ps.handle, cName, C.float(value))
	})
}

// BindString binds a STRING parameter.
func (ps *PreparedStatement) BindString(name string, value string) error {
	cValue := C.CString(value)
	defer C.free(unsafe.Pointer(cValue))
	return ps.bind(name, func(cName *C.char) C.kuzu_state {
		return C.kuzu_prepared_statement_bind_string(&ps.handle, cName, cValue)
	})
}

// BindDate binds a DATE parameter from the day component of t.
func (ps *PreparedStatement) BindDate(name string, t time.Time) error {
	return ps.bind(name, func(cName *C.char) C.kuzu_state {
		return C.kuzu_prepared_statement_bind_date(&ps.handle, cName, C.kuzu_date_t{days: C.int32_t(daysFromDate(t))})
	})
}

// BindTimestamp binds a TIMESTAMP parameter with microsecond precision.
func (ps *PreparedStatement) BindTimestamp(name string, t time.Time) error {
	return ps.bind(name, func(cName *C.char) C.kuzu_state {
		return C.kuzu_prepared_statement_bind_timestamp(&ps.handle, cName, C.kuzu_timestamp_t{value: C.int64_t(microsFromTime(t))})
	})
}

// BindInterval binds an INTERVAL parameter. The duration is split into
// days and microseconds; the month component is always zero.
func (ps *PreparedStatement) BindInterval(name string, d time.Duration) error {
	days, micros := intervalFromDuration(d)
	return ps.bind(name, func(cName *C.char) C.kuzu_state {
		return C.kuzu_prepared_statement_bind_interval(&ps.handle, cName, C.kuzu_interval_t{
			months: 0,
			days:   C.int32_t(days),
			micros: C.int64_t(micros),
		})
	})
}

// BindNull binds a NULL parameter.
func (ps *PreparedStatement) BindNull(name string) error {
	return ps.bind(name, func(cName *C.char) C.kuzu_state {
		null := C.kuzu_value_create_null()
		defer C.kuzu_value_destroy(null)
		return C.kuzu_prepared_statement_bind_value(&ps.handle, cName, null)
	})
}

// BindValue binds a parameter from a Go value, dispatching on its type.
// time.Time binds as DATE when it is midnight UTC and TIMESTAMP otherwise;
// uuid.UUID binds as its string form.
func (ps *PreparedStatement) BindValue(name string, value any) error {
	switch v := value.(type) {
	case nil:
		return ps.BindNull(name)
	case bool:
		return ps.BindBool(name, v)
	case int:
		return ps.BindInt64(name, int64(v))
	case int64:
		return ps.BindInt64(name, v)
	case int32:
		return ps.BindInt32(name, v)
	case int16:
		return ps.BindInt16(name, v)
	case int8:
		return ps.BindInt8(name, v)
	case uint:
		return ps.BindUInt64(name, uint64(v))
	case uint64:
		return ps.BindUInt64(name, v)
	case uint32:
		return ps.BindUInt32(name, v)
	case uint16:
		return ps.BindUInt16(name, v)
	case uint8:
		return ps.BindUInt8(name, v)
	case float64:
		return ps.BindDouble(name, v)
	case float32:
		return ps.BindFloat(name, v)
	case string:
		return ps.BindString(name, v)
	case time.Time:
		if v.Hour() == 0 && v.Minute() == 0 && v.Second() == 0 && v.Nanosecond() == 0 && v.Location() == time.UTC {
			return ps.BindDate(name, v)
		}
		return ps.BindTimestamp(name, v)
	case time.Duration:
		return ps.BindInterval(name, v)
	case uuid.UUID:
		return ps.BindString(name, v.String())
	default:
		return &QueryError{Message: fmt.Sprintf("cannot bind parameter %s of type %T", name, value)}
	}
}

// BindMap binds every entry of params by name via BindValue.
func (ps *PreparedStatement) BindMap(params map[string]any) error {
	for name, value := range params {
		if err := ps.BindValue(name, value); err != nil {
			return err
		}
	}
	return nil
}
