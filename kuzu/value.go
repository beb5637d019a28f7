//go:build cgo && kuzu

package kuzu

// #include <kuzu.h>
import "C"
import (
	"unsafe"

	"github.com/google/uuid"
)

// convertValue maps an engine value onto its Go representation:
//
//	BOOL            bool
//	INT8..INT64     int8..int64 (SERIAL converts as int64)
//	UINT8..UINT64   uint8..uint64
//	INT128          *big.Int
//	FLOAT           float32
//	DOUBLE          float64
//	DECIMAL         string
//	STRING          string
//	BLOB            []byte
//	UUID            uuid.UUID
//	DATE            time.Time (midnight UTC)
//	TIMESTAMP*      time.Time (UTC)
//	INTERVAL        time.Duration
//	INTERNAL_ID     InternalID
//	NODE            Node
//	REL             Relationship
//	RECURSIVE_REL   RecursiveRel
//	LIST, ARRAY     []any
//	STRUCT          map[string]any
//	MAP             map[any]any
//	UNION           the active member's value
//	NULL            nil
func convertValue(v *C.kuzu_value) (any, error) {
	if bool(C.kuzu_value_is_null(v)) {
		return nil, nil
	}

	var lt C.kuzu_logical_type
	C.kuzu_value_get_data_type(v, &lt)
	id := DataTypeID(C.kuzu_data_type_get_id(&lt))
	C.kuzu_data_type_destroy(&lt)

	switch id {
	case TypeBool:
		var out C.bool
		if C.kuzu_value_get_bool(v, &out) != C.KuzuSuccess {
			return nil, conversionError(id)
		}
		return bool(out), nil

	case TypeInt64, TypeSerial:
		var out C.int64_t
		if C.kuzu_value_get_int64(v, &out) != C.KuzuSuccess {
			return nil, conversionError(id)
		}
		return int64(out), nil

	case TypeInt32:
		var out C.int32_t
		if C.kuzu_value_get_int32(v, &out) != C.KuzuSuccess {
			return nil, conversionError(id)
		}
		return int32(out), nil

	case TypeInt16:
		var out C.int16_t
		if C.kuzu_value_get_int16(v, &out) != C.KuzuSuccess {
			return nil, conversionError(id)
		}
		return int16(out), nil

	case TypeInt8:
		var out C.int8_t
		if C.kuzu_value_get_int8(v, &out) != C.KuzuSuccess {
			return nil, conversionError(id)
		}
		return int8(out), nil

	case TypeUInt64:
		var out C.uint64_t
		if C.kuzu_value_get_uint64(v, &out) != C.KuzuSuccess {
			return nil, conversionError(id)
		}
		return uint64(out), nil

	case TypeUInt32:
		var out C.uint32_t
		if C.kuzu_value_get_uint32(v, &out) != C.KuzuSuccess {
			return nil, conversionError(id)
		}
		return uint32(out), nil

	case TypeUInt16:
		var out C.uint16_t
		if C.kuzu_value_get_uint16(v, &out) != C.KuzuSuccess {
			return nil, conversionError(id)
		}
		return uint16(out), nil

	case TypeUInt8:
		var out C.uint8_t
		if C.kuzu_value_get_uint8(v, &out) != C.KuzuSuccess {
			return nil, conversionError(id)
		}
		return uint8(out), nil

	case TypeInt128:
		var out C.kuzu_int128_t
		if C.kuzu_value_get_int128(v, &out) != C.KuzuSuccess {
			return nil, conversionError(id)
		}
		return int128ToBigInt(int64(out.high), uint64(out.low)), nil

	case TypeDouble:
		var out C.double
		if C.kuzu_value_get_double(v, &out) != C.KuzuSuccess {
			return nil, conversionError(id)
		}
		return float64(out), nil

	case TypeFloat:
		var out C.float
		if C.kuzu_value_get_float(v, &out) != C.KuzuSuccess {
			return nil, conversionError(id)
		}
		return float32(out), nil

	case TypeDecimal:
		var cStr *C.char
		if C.kuzu_value_get_decimal_as_string(v, &cStr) != C.KuzuSuccess {
			return nil, conversionError(id)
		}
		out := C.GoString(cStr)
		C.kuzu_destroy_string(cStr)
		return out, nil

	case TypeString:
		var cStr *C.char
		if C.kuzu_value_get_string(v, &cStr) != C.KuzuSuccess {
			return nil, conversionError(id)
		}
		out := C.GoString(cStr)
		C.kuzu_destroy_string(cStr)
		return out, nil

	case TypeBlob:
		var cBlob *C.uint8_t
		if C.kuzu_value_get_blob(v, &cBlob) != C.KuzuSuccess {
			return nil, conversionError(id)
		}
		out := []byte(C.GoString((*C.char)(unsafe.Pointer(cBlob))))
		C.kuzu_destroy_blob(cBlob)
		return out, nil

	case TypeUUID:
		var cStr *C.char
		if C.kuzu_value_get_uuid(v, &cStr) != C.KuzuSuccess {
			return nil, conversionError(id)
		}
		s := C.GoString(cStr)
		C.kuzu_destroy_string(cStr)
		parsed, err := uuid.Parse(s)
		if err != nil {
			return nil, &EngineError{Message: "invalid uuid value: " + s}
		}
		return parsed, nil

	case TypeDate:
		var out C.kuzu_date_t
		if C.kuzu_value_get_date(v, &out) != C.KuzuSuccess {
			return nil, conversionError(id)
		}
		return dateFromDays(int32(out.days)), nil

	case TypeTimestamp:
		var out C.kuzu_timestamp_t
		if C.kuzu_value_get_timestamp(v, &out) != C.KuzuSuccess {
			return nil, conversionError(id)
		}
		return timeFromMicros(int64(out.value)), nil

	case TypeTimestampTz:
		var out C.kuzu_timestamp_tz_t
		if C.kuzu_value_get_timestamp_tz(v, &out) != C.KuzuSuccess {
			return nil, conversionError(id)
		}
		return timeFromMicros(int64(out.value)), nil

	case TypeTimestampNs:
		var out C.kuzu_timestamp_ns_t
		if C.kuzu_value_get_timestamp_ns(v, &out) != C.KuzuSuccess {
			return nil, conversionError(id)
		}
		return timeFromNanos(int64(out.value)), nil

	case TypeTimestampMs:
		var out C.kuzu_timestamp_ms_t
		if C.kuzu_value_get_timestamp_ms(v, &out) != C.KuzuSuccess {
			return nil, conversionError(id)
		}
		return timeFromMillis(int64(out.value)), nil

	case TypeTimestampSec:
		var out C.kuzu_timestamp_sec_t
		if C.kuzu_value_get_timestamp_sec(v, &out) != C.KuzuSuccess {
			return nil, conversionError(id)
		}
		return timeFromSeconds(int64(out.value)), nil

	case TypeInterval:
		var out C.kuzu_interval_t
		if C.kuzu_value_get_interval(v, &out) != C.KuzuSuccess {
			return nil, conversionError(id)
		}
		return durationFromInterval(int32(out.months), int32(out.days), int64(out.micros)), nil

	case TypeInternalID:
		var out C.kuzu_internal_id_t
		if C.kuzu_value_get_internal_id(v, &out) != C.KuzuSuccess {
			return nil, conversionError(id)
		}
		return InternalID{TableID: uint64(out.table_id), Offset: uint64(out.offset)}, nil

	case TypeList, TypeArray:
		return convertList(v)

	case TypeStruct:
		return convertStruct(v)

	case TypeMap:
		return convertMapValue(v)

	case TypeUnion:
		return convertUnion(v)

	case TypeNode:
		return convertNode(v)

	case TypeRel:
		return convertRel(v)

	case TypeRecursiveRel:
		return convertRecursiveRel(v)

	default:
		return nil, &UnsupportedTypeError{TypeID: id}
	}
}

func conversionError(id DataTypeID) error {
	return &EngineError{Message: "failed to read " + id.String() + " value"}
}

func convertList(v *C.kuzu_value) ([]any, error) {
	var size C.uint64_t
	if C.kuzu_value_get_list_size(v, &size) != C.KuzuSuccess {
		return nil, conversionError(TypeList)
	}

	out := make([]any, 0, uint64(size))
	for i := C.uint64_t(0); i < size; i++ {
		var elem C.kuzu_value
		if C.kuzu_value_get_list_element(v, i, &elem) != C.KuzuSuccess {
			return nil, conversionError(TypeList)
		}
		converted, err := convertValue(&elem)
		C.kuzu_value_destroy(&elem)
		if err != nil {
			return nil, err
		}
		out = append(out, converted)
	}
	return out, nil
}

func convertStruct(v *C.kuzu_value) (map[string]any, error) {
	var n C.uint64_t
	if C.kuzu_value_get_struct_num_fields(v, &n) != C.KuzuSuccess {
		return nil, conversionError(TypeStruct)
	}

	out := make(map[string]any, uint64(n))
	for i := C.uint64_t(0); i < n; i++ {
		var cName *C.char
		if C.kuzu_value_get_struct_field_name(v, i, &cName) != C.KuzuSuccess {
			return nil, conversionError(TypeStruct)
		}
		name := C.GoString(cName)
		C.kuzu_destroy_string(cName)

		var field C.kuzu_value
		if C.kuzu_value_get_struct_field_value(v, i, &field) != C.KuzuSuccess {
			return nil, conversionError(TypeStruct)
		}
		converted, err := convertValue(&field)
		C.kuzu_value_destroy(&field)
		if err != nil {
			return nil, err
		}
		out[name] = converted
	}
	return out, nil
}

func convertMapValue(v *C.kuzu_value) (map[any]any, error) {
	var size C.uint64_t
	if C.kuzu_value_get_map_size(v, &size) != C.KuzuSuccess {
		return nil, conversionError(TypeMap)
	}

	out := make(map[any]any, uint64(size))
	for i := C.uint64_t(0); i < size; i++ {
		var cKey C.kuzu_value
		if C.kuzu_value_get_map_key(v, i, &cKey) != C.KuzuSuccess {
			return nil, conversionError(TypeMap)
		}
		key, err := convertValue(&cKey)
		C.kuzu_value_destroy(&cKey)
		if err != nil {
			return nil, err
		}

		var cVal C.kuzu_value
		if C.kuzu_value_get_map_value(v, i, &cVal) != C.KuzuSuccess {
			return nil, conversionError(TypeMap)
		}
		value, err := convertValue(&cVal)
		C.kuzu_value_destroy(&cVal)
		if err != nil {
			return nil, err
		}
		out[key] = value
	}
	return out, nil
}

// convertUnion unwraps the active member. Union values expose their
// payload as the first struct field.
func convertUnion(v *C.kuzu_value) (any, error) {
	var member C.kuzu_value
	if C.kuzu_value_get_struct_field_value(v, 0, &member) != C.KuzuSuccess {
		return nil, conversionError(TypeUnion)
	}
	defer C.kuzu_value_destroy(&member)
	return convertValue(&member)
}

func convertInternalIDField(v *C.kuzu_value, get func(*C.kuzu_value, *C.kuzu_value) C.kuzu_state) (InternalID, error) {
	var idVal C.kuzu_value
	if get(v, &idVal) != C.KuzuSuccess {
		return InternalID{}, conversionError(TypeInternalID)
	}
	defer C.kuzu_value_destroy(&idVal)

	converted, err := convertValue(&idVal)
	if err != nil {
		return InternalID{}, err
	}
	id, ok := converted.(InternalID)
	if !ok {
		return InternalID{}, conversionError(TypeInternalID)
	}
	return id, nil
}

func convertLabelField(v *C.kuzu_value, get func(*C.kuzu_value, *C.kuzu_value) C.kuzu_state) (string, error) {
	var labelVal C.kuzu_value
	if get(v, &labelVal) != C.KuzuSuccess {
		return "", conversionError(TypeString)
	}
	defer C.kuzu_value_destroy(&labelVal)

	converted, err := convertValue(&labelVal)
	if err != nil {
		return "", err
	}
	label, ok := converted.(string)
	if !ok {
		return "", conversionError(TypeString)
	}
	return label, nil
}

func convertNode(v *C.kuzu_value) (Node, error) {
	var node Node
	var err error

	node.ID, err = convertInternalIDField(v, func(in, out *C.kuzu_value) C.kuzu_state {
		return C.kuzu_node_val_get_id_val(in, out)
	})
	if err != nil {
		return node, err
	}

	node.Label, err = convertLabelField(v, func(in, out *C.kuzu_value) C.kuzu_state {
		return C.kuzu_node_val_get_label_val(in, out)
	})
	if err != nil {
		return node, err
	}

	var n C.uint64_t
	if C.kuzu_node_val_get_property_size(v, &n) != C.KuzuSuccess {
		return node, conversionError(TypeNode)
	}
	node.Properties = make(map[string]any, uint64(n))
	for i := C.uint64_t(0); i < n; i++ {
		var cName *C.char
		if C.kuzu_node_val_get_property_name_at(v, i, &cName) != C.KuzuSuccess {
			return node, conversionError(TypeNode)
		}
		name := C.GoString(cName)
		C.kuzu_destroy_string(cName)

		var propVal C.kuzu_value
		if C.kuzu_node_val_get_property_value_at(v, i, &propVal) != C.KuzuSuccess {
			return node, conversionError(TypeNode)
		}
		converted, err := convertValue(&propVal)
		C.kuzu_value_destroy(&propVal)
		if err != nil {
			return node, err
		}
		node.Properties[name] = converted
	}
	return node, nil
}

func convertRel(v *C.kuzu_value) (Relationship, error) {
	var rel Relationship
	var err error

	rel.ID, err = convertInternalIDField(v, func(in, out *C.kuzu_value) C.kuzu_state {
		return C.kuzu_rel_val_get_id_val(in, out)
	})
	if err != nil {
		return rel, err
	}

	rel.SrcID, err = convertInternalIDField(v, func(in, out *C.kuzu_value) C.kuzu_state {
		return C.kuzu_rel_val_get_src_id_val(in, out)
	})
	if err != nil {
		return rel, err
	}

	rel.DstID, err = convertInternalIDField(v, func(in, out *C.kuzu_value) C.kuzu_state {
		return C.kuzu_rel_val_get_dst_id_val(in, out)
	})
	if err != nil {
		return rel, err
	}

	rel.Label, err = convertLabelField(v, func(in, out *C.kuzu_value) C.kuzu_state {
		return C.kuzu_rel_val_get_label_val(in, out)
	})
	if err != nil {
		return rel, err
	}

	var n C.uint64_t
	if C.kuzu_rel_val_get_property_size(v, &n) != C.KuzuSuccess {
		return rel, conversionError(TypeRel)
	}
	rel.Properties = make(map[string]any, uint64(n))
	for i := C.uint64_t(0); i < n; i++ {
		var cName *C.char
		if C.kuzu_rel_val_get_property_name_at(v, i, &cName) != C.KuzuSuccess {
			return rel, conversionError(TypeRel)
		}
		name := C.GoString(cName)
		C.kuzu_destroy_string(cName)

		var propVal C.kuzu_value
		if C.kuzu_rel_val_get_property_value_at(v, i, &propVal) != C.KuzuSuccess {
			return rel, conversionError(TypeRel)
		}
		converted, err := convertValue(&propVal)
		C.kuzu_value_destroy(&propVal)
		if err != nil {
			return rel, err
		}
		rel.Properties[name] = converted
	}
	return rel, nil
}

func convertRecursiveRel(v *C.kuzu_value) (RecursiveRel, error) {
	var out RecursiveRel

	var nodesVal C.kuzu_value
	if C.kuzu_value_get_recursive_rel_node_list(v, &nodesVal) != C.KuzuSuccess {
		return out, conversionError(TypeRecursiveRel)
	}
	nodes, err := convertList(&nodesVal)
	C.kuzu_value_destroy(&nodesVal)
	if err != nil {
		return out, err
	}

	var relsVal C.kuzu_value
	if C.kuzu_value_get_recursive_rel_rel_list(v, &relsVal) != C.KuzuSuccess {
		return out, conversionError(TypeRecursiveRel)
	}
	rels, err := convertList(&relsVal)
	C.kuzu_value_destroy(&relsVal)
	if err != nil {
		return out, err
	}

	out.Nodes = make([]Node, 0, len(nodes))
	for _, n := range nodes {
		node, ok := n.(Node)
		if !ok {
			return out, conversionError(TypeRecursiveRel)
		}
		out.Nodes = append(out.Nodes, node)
	}
	out.Rels = make([]Relationship, 0, len(rels))
	for _, r := range rels {
		rel, ok := r.(Relationship)
		if !ok {
			return out, conversionError(TypeRecursiveRel)
		}
		out.Rels = append(out.Rels, rel)
	}
	return out, nil
}
