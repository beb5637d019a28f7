package kuzu

import (
	"fmt"
	"math/big"
	"time"
)

// DataTypeID identifies the logical type of a column or value.
// The numeric values mirror the engine's type identifiers.
type DataTypeID int

const (
	TypeAny          DataTypeID = 0
	TypeNode         DataTypeID = 10
	TypeRel          DataTypeID = 11
	TypeRecursiveRel DataTypeID = 12
	TypeSerial       DataTypeID = 13
	TypeBool         DataTypeID = 22
	TypeInt64        DataTypeID = 23
	TypeInt32        DataTypeID = 24
	TypeInt16        DataTypeID = 25
	TypeInt8         DataTypeID = 26
	TypeUInt64       DataTypeID = 27
	TypeUInt32       DataTypeID = 28
	TypeUInt16       DataTypeID = 29
	TypeUInt8        DataTypeID = 30
	TypeInt128       DataTypeID = 31
	TypeDouble       DataTypeID = 32
	TypeFloat        DataTypeID = 33
	TypeDate         DataTypeID = 34
	TypeTimestamp    DataTypeID = 35
	TypeTimestampSec DataTypeID = 36
	TypeTimestampMs  DataTypeID = 37
	TypeTimestampNs  DataTypeID = 38
	TypeTimestampTz  DataTypeID = 39
	TypeInterval     DataTypeID = 40
	TypeDecimal      DataTypeID = 41
	TypeInternalID   DataTypeID = 42
	TypeString       DataTypeID = 50
	TypeBlob         DataTypeID = 51
	TypeList         DataTypeID = 52
	TypeArray        DataTypeID = 53
	TypeStruct       DataTypeID = 54
	TypeMap          DataTypeID = 55
	TypeUnion        DataTypeID = 56
	TypePointer      DataTypeID = 58
	TypeUUID         DataTypeID = 59
)

var dataTypeNames = map[DataTypeID]string{
	TypeAny:          "ANY",
	TypeNode:         "NODE",
	TypeRel:          "REL",
	TypeRecursiveRel: "RECURSIVE_REL",
	TypeSerial:       "SERIAL",
	TypeBool:         "BOOL",
	TypeInt64:        "INT64",
	TypeInt32:        "INT32",
	TypeInt16:        "INT16",
	TypeInt8:         "INT8",
	TypeUInt64:       "UINT64",
	TypeUInt32:       "UINT32",
	TypeUInt16:       "UINT16",
	TypeUInt8:        "UINT8",
	TypeInt128:       "INT128",
	TypeDouble:       "DOUBLE",
	TypeFloat:        "FLOAT",
	TypeDate:         "DATE",
	TypeTimestamp:    "TIMESTAMP",
	TypeTimestampSec: "TIMESTAMP_SEC",
	TypeTimestampMs:  "TIMESTAMP_MS",
	TypeTimestampNs:  "TIMESTAMP_NS",
	TypeTimestampTz:  "TIMESTAMP_TZ",
	TypeInterval:     "INTERVAL",
	TypeDecimal:      "DECIMAL",
	TypeInternalID:   "INTERNAL_ID",
	TypeString:       "STRING",
	TypeBlob:         "BLOB",
	TypeList:         "LIST",
	TypeArray:        "ARRAY",
	TypeStruct:       "STRUCT",
	TypeMap:          "MAP",
	TypeUnion:        "UNION",
	TypePointer:      "POINTER",
	TypeUUID:         "UUID",
}

// String returns the engine's name for the type identifier.
func (id DataTypeID) String() string {
	if name, ok := dataTypeNames[id]; ok {
		return name
	}
	return fmt.Sprintf("UNKNOWN(%d)", int(id))
}

// InternalID identifies a stored node or relationship by its table and the
// offset within that table.
type InternalID struct {
	// TableID identifies the node or relationship table.
	TableID uint64
	// Offset is the position of the record in its table.
	Offset uint64
}

// String renders the identifier in the table:offset form used by the shell.
func (id InternalID) String() string {
	return fmt.Sprintf("%d:%d", id.TableID, id.Offset)
}

// Node is a node value returned from a query.
type Node struct {
	// ID is the node's internal identifier.
	ID InternalID
	// Label is the node table name.
	Label string
	// Properties holds the node's property values.
	Properties map[string]any
}

// Relationship is a relationship value returned from a query.
type Relationship struct {
	// ID is the relationship's internal identifier.
	ID InternalID
	// SrcID is the internal identifier of the source node.
	SrcID InternalID
	// DstID is the internal identifier of the destination node.
	DstID InternalID
	// Label is the relationship table name.
	Label string
	// Properties holds the relationship's property values.
	Properties map[string]any
}

// RecursiveRel is a path value produced by a variable-length relationship
// pattern. Nodes holds the intermediate nodes and Rels the traversed
// relationships in path order.
type RecursiveRel struct {
	Nodes []Node
	Rels  []Relationship
}

// SystemConfig controls engine-level settings applied when a database is
// opened. Zero values for the sizes mean no explicit limit was chosen; use
// DefaultSystemConfig for the engine's own defaults.
type SystemConfig struct {
	// BufferPoolSize is the buffer pool size in bytes.
	BufferPoolSize uint64
	// MaxNumThreads caps the number of threads the engine may use.
	MaxNumThreads uint64
	// EnableCompression toggles on-disk compression for the database.
	EnableCompression bool
	// ReadOnly opens the database in read-only mode.
	ReadOnly bool
	// MaxDBSize is the maximum database size in bytes.
	MaxDBSize uint64
	// AutoCheckpoint enables automatic checkpointing after commits.
	AutoCheckpoint bool
	// CheckpointThreshold is the WAL size in bytes that triggers a checkpoint.
	CheckpointThreshold uint64
}

const (
	microsPerSecond = 1_000_000
	secondsPerDay   = 86_400
)

// dateFromDays converts a day count since the Unix epoch to midnight UTC.
func dateFromDays(days int32) time.Time {
	return time.Unix(int64(days)*secondsPerDay, 0).UTC()
}

// daysFromDate converts a time to its day count since the Unix epoch,
// flooring so pre-epoch dates land on the correct day.
func daysFromDate(t time.Time) int32 {
	secs := t.Unix()
	days := secs / secondsPerDay
	if secs%secondsPerDay < 0 {
		days--
	}
	return int32(days)
}

func timeFromMicros(micros int64) time.Time {
	return time.Unix(micros/microsPerSecond, (micros%microsPerSecond)*1000).UTC()
}

func microsFromTime(t time.Time) int64 {
	return t.Unix()*microsPerSecond + int64(t.Nanosecond())/1000
}

func timeFromNanos(ns int64) time.Time {
	return time.Unix(0, ns).UTC()
}

func timeFromMillis(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}

func timeFromSeconds(s int64) time.Time {
	return time.Unix(s, 0).UTC()
}

// durationFromInterval flattens an engine interval into a time.Duration.
// Months are approximated as 30 days; callers that need calendar-exact
// month arithmetic should keep intervals in the database.
func durationFromInterval(months, days int32, micros int64) time.Duration {
	d := time.Duration(months) * 30 * 24 * time.Hour
	d += time.Duration(days) * 24 * time.Hour
	d += time.Duration(micros) * time.Microsecond
	return d
}

// intervalFromDuration splits a duration into whole days and remaining
// microseconds. The month component is always zero.
func intervalFromDuration(d time.Duration) (days int32, micros int64) {
	days = int32(d / (24 * time.Hour))
	micros = int64((d % (24 * time.Hour)) / time.Microsecond)
	return days, micros
}

// int128ToBigInt reconstructs a signed 128-bit integer from its two's
// complement halves.
func int128ToBigInt(high int64, low uint64) *big.Int {
	out := new(big.Int).SetInt64(high)
	out.Lsh(out, 64)
	return out.Add(out, new(big.Int).SetUint64(low))
}
