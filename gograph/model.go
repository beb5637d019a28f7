// Package gograph provides reflection-based extraction of table metadata
// from Go struct types.
package gograph

import (
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ModelKind specifies whether a registered model maps to a node table or a
// rel table.
type ModelKind int

const (
	// ModelKindNode represents a node table.
	ModelKindNode ModelKind = iota
	// ModelKindRel represents a rel table.
	ModelKindRel
)

// FieldInfo contains metadata about a single field in a model struct,
// mapping it to a table column.
type FieldInfo struct {
	// Tag is the parsed 'kuzu' struct tag.
	Tag FieldTag
	// FieldName is the name of the field in the Go struct.
	FieldName string
	// FieldIndex is the 0-based index of the field in the Go struct.
	FieldIndex int
	// FieldType is the reflection type of the field.
	FieldType reflect.Type
	// IsPointer is true if the field is a pointer, used for optional columns.
	IsPointer bool
	// IsSlice is true if the field is a slice, mapped to a LIST column.
	IsSlice bool
	// ElemType is the base element type for slices and pointers.
	ElemType reflect.Type
	// ColumnType is the engine column type (e.g. "STRING", "INT64").
	ColumnType string
}

// ModelInfo contains comprehensive metadata about a registered model,
// including its mapping to a Go struct and its table schema.
type ModelInfo struct {
	// GoType is the reflection type of the Go struct representing the model.
	GoType reflect.Type
	// Kind indicates whether this model maps to a node or rel table.
	Kind ModelKind
	// TableName is the name of the table in the database.
	TableName string
	// Fields is a list of metadata for each property field in the model.
	Fields []FieldInfo
	// PK is the primary key field (node tables only).
	PK *FieldInfo
	// From is the source endpoint field (rel tables only).
	From *EndpointInfo
	// To is the destination endpoint field (rel tables only).
	To *EndpointInfo
	// Mult is the rel table multiplicity (rel tables only).
	Mult Multiplicity
}

// FieldByName retrieves FieldInfo by the Go struct field name.
func (m *ModelInfo) FieldByName(name string) (FieldInfo, bool) {
	for _, f := range m.Fields {
		if f.FieldName == name {
			return f, true
		}
	}
	return FieldInfo{}, false
}

// FieldByColumn retrieves FieldInfo by the table column name.
func (m *ModelInfo) FieldByColumn(column string) (FieldInfo, bool) {
	for _, f := range m.Fields {
		if f.Tag.Name == column {
			return f, true
		}
	}
	return FieldInfo{}, false
}

// ExtractModelInfo analyzes a Go struct type and extracts its table metadata.
// The struct must embed BaseNode or BaseRel to be a valid model.
func ExtractModelInfo(t reflect.Type) (*ModelInfo, error) {
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("expected struct, got %s", t.Kind())
	}

	info := &ModelInfo{GoType: t}

	kind, err := detectModelKind(t)
	if err != nil {
		return nil, err
	}
	info.Kind = kind

	// Default table name: the Go struct name.
	info.TableName = t.Name()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)

		if !field.IsExported() || field.Anonymous {
			continue
		}

		tagStr := field.Tag.Get("kuzu")
		if tagStr == "" || tagStr == "-" {
			continue
		}

		tag, err := ParseTag(tagStr)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", field.Name, err)
		}
		if tag.Skip {
			continue
		}

		if tag.TypeName != "" {
			info.TableName = tag.TypeName
		}
		if tag.MultSet {
			if kind != ModelKindRel {
				return nil, &SchemaValidationError{
					TypeName: t.Name(),
					Message:  fmt.Sprintf("field %s: mult= is only valid on rel models", field.Name),
				}
			}
			info.Mult = tag.Mult
		}

		if tag.IsEndpoint() {
			if kind != ModelKindRel {
				return nil, &SchemaValidationError{
					TypeName: t.Name(),
					Message:  fmt.Sprintf("field %s: from/to is only valid on rel models", field.Name),
				}
			}
			ep, err := buildEndpointInfo(field, i)
			if err != nil {
				return nil, fmt.Errorf("field %s: %w", field.Name, err)
			}
			if tag.From {
				if info.From != nil {
					return nil, &SchemaValidationError{TypeName: t.Name(), Message: "multiple from fields"}
				}
				info.From = ep
			} else {
				if info.To != nil {
					return nil, &SchemaValidationError{TypeName: t.Name(), Message: "multiple to fields"}
				}
				info.To = ep
			}
			continue
		}

		fi := buildFieldInfo(field, i, tag)
		if tag.IsKey() {
			if kind != ModelKindNode {
				return nil, &SchemaValidationError{
					TypeName: t.Name(),
					Message:  fmt.Sprintf("field %s: rel tables have no primary key", field.Name),
				}
			}
			if info.PK != nil {
				return nil, &SchemaValidationError{
					TypeName: t.Name(),
					Message:  fmt.Sprintf("multiple primary key fields (%s, %s)", info.PK.FieldName, field.Name),
				}
			}
			if err := validateKeyField(fi); err != nil {
				return nil, fmt.Errorf("field %s: %w", field.Name, err)
			}
		}
		info.Fields = append(info.Fields, fi)
		if tag.IsKey() {
			info.PK = &info.Fields[len(info.Fields)-1]
		}
	}

	if kind == ModelKindNode && info.PK == nil {
		return nil, &SchemaValidationError{
			TypeName: t.Name(),
			Message:  "node models must have exactly one primary key field (primary, serial or uuid)",
		}
	}
	if kind == ModelKindRel {
		if info.From == nil || info.To == nil {
			return nil, &SchemaValidationError{
				TypeName: t.Name(),
				Message:  "rel models must have exactly one from and one to field",
			}
		}
	}

	return info, nil
}

func detectModelKind(t reflect.Type) (ModelKind, error) {
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.Anonymous {
			continue
		}
		switch field.Type {
		case reflect.TypeOf(BaseNode{}):
			return ModelKindNode, nil
		case reflect.TypeOf(BaseRel{}):
			return ModelKindRel, nil
		}
	}
	return 0, fmt.Errorf("type %s must embed BaseNode or BaseRel", t.Name())
}

func buildFieldInfo(field reflect.StructField, index int, tag FieldTag) FieldInfo {
	if tag.Name == "" {
		tag.Name = toSnakeCase(field.Name)
	}

	fi := FieldInfo{
		Tag:        tag,
		FieldName:  field.Name,
		FieldIndex: index,
		FieldType:  field.Type,
	}

	ft := field.Type
	if ft.Kind() == reflect.Ptr {
		fi.IsPointer = true
		fi.ElemType = ft.Elem()
		ft = ft.Elem()
	}
	// []byte maps to BLOB, not to a LIST column.
	if ft.Kind() == reflect.Slice && ft.Elem().Kind() != reflect.Uint8 {
		fi.IsSlice = true
		fi.ElemType = ft.Elem()
		ft = ft.Elem()
		if ft.Kind() == reflect.Ptr {
			ft = ft.Elem()
		}
	}

	if tag.Serial {
		fi.ColumnType = "SERIAL"
	} else {
		fi.ColumnType = goTypeToKuzu(ft)
		if fi.IsSlice {
			fi.ColumnType += "[]"
		}
	}
	return fi
}

func buildEndpointInfo(field reflect.StructField, index int) (*EndpointInfo, error) {
	ft := field.Type
	if ft.Kind() != reflect.Ptr || ft.Elem().Kind() != reflect.Struct {
		return nil, fmt.Errorf("endpoint fields must be pointers to node structs, got %s", ft)
	}
	elem := ft.Elem()
	kind, err := detectModelKind(elem)
	if err != nil || kind != ModelKindNode {
		return nil, fmt.Errorf("endpoint type %s must embed BaseNode", elem.Name())
	}

	// The endpoint table name honors a type: override on the target struct.
	tableName := elem.Name()
	for i := 0; i < elem.NumField(); i++ {
		tagStr := elem.Field(i).Tag.Get("kuzu")
		if tagStr == "" {
			continue
		}
		tag, err := ParseTag(tagStr)
		if err != nil {
			continue
		}
		if tag.TypeName != "" {
			tableName = tag.TypeName
			break
		}
	}

	return &EndpointInfo{
		FieldName:  field.Name,
		FieldIndex: index,
		TableName:  tableName,
	}, nil
}

func validateKeyField(fi FieldInfo) error {
	if fi.IsSlice {
		return fmt.Errorf("primary key cannot be a list column")
	}
	if fi.Tag.Serial {
		switch fi.FieldType.Kind() {
		case reflect.Int, reflect.Int32, reflect.Int64:
			return nil
		}
		return fmt.Errorf("serial primary key must be an integer field, got %s", fi.FieldType)
	}
	if fi.Tag.UUID && fi.FieldType != reflect.TypeOf(uuid.UUID{}) {
		return fmt.Errorf("uuid primary key must be a uuid.UUID field, got %s", fi.FieldType)
	}
	return nil
}

// toSnakeCase converts a PascalCase Go field name to snake_case.
// e.g. "UserName" → "user_name", "HTTPCode" → "http_code"
func toSnakeCase(name string) string {
	if name == "" {
		return ""
	}
	var b strings.Builder
	runes := []rune(name)
	for i, r := range runes {
		if r >= 'A' && r <= 'Z' {
			// Insert an underscore at lower→upper and acronym→word boundaries.
			if i > 0 && (!isUpper(runes[i-1]) ||
				(i+1 < len(runes) && !isUpper(runes[i+1]))) {
				b.WriteByte('_')
			}
			b.WriteByte(byte(r - 'A' + 'a'))
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func isUpper(r rune) bool { return r >= 'A' && r <= 'Z' }

// goTypeToKuzu maps Go types to engine column type names.
func goTypeToKuzu(t reflect.Type) string {
	switch t {
	case reflect.TypeOf(time.Time{}):
		return "TIMESTAMP"
	case reflect.TypeOf(time.Duration(0)):
		return "INTERVAL"
	case reflect.TypeOf(uuid.UUID{}):
		return "UUID"
	case reflect.TypeOf([]byte(nil)):
		return "BLOB"
	}

	switch t.Kind() {
	case reflect.String:
		return "STRING"
	case reflect.Bool:
		return "BOOL"
	case reflect.Int, reflect.Int64:
		return "INT64"
	case reflect.Int32:
		return "INT32"
	case reflect.Int16:
		return "INT16"
	case reflect.Int8:
		return "INT8"
	case reflect.Uint, reflect.Uint64:
		return "UINT64"
	case reflect.Uint32:
		return "UINT32"
	case reflect.Uint16:
		return "UINT16"
	case reflect.Uint8:
		return "UINT8"
	case reflect.Float64:
		return "DOUBLE"
	case reflect.Float32:
		return "FLOAT"
	case reflect.Map:
		return "MAP(STRING, STRING)"
	default:
		return "STRING"
	}
}

// ToMap converts a registered model instance to a map keyed by column
// names. Optional nil fields are omitted. Includes "_id" when the
// instance is bound to a stored record.
func ToMap[T any](instance *T) (map[string]any, error) {
	info, err := infoFor[T]()
	if err != nil {
		return nil, err
	}

	v := reflect.ValueOf(instance).Elem()
	result := make(map[string]any)

	if id, ok := idOfValue(v); ok {
		result["_id"] = map[string]any{"table": id.TableID, "offset": id.Offset}
	}

	for _, fi := range info.Fields {
		field := v.Field(fi.FieldIndex)
		if fi.IsPointer {
			if field.IsNil() {
				continue
			}
			result[fi.Tag.Name] = field.Elem().Interface()
		} else {
			result[fi.Tag.Name] = field.Interface()
		}
	}
	return result, nil
}

// FromMap creates a new model instance from a map keyed by column names.
// This is the inverse of ToMap.
func FromMap[T any](data map[string]any) (*T, error) {
	return HydrateNew[T](data)
}

// infoFor looks up ModelInfo for the type parameter T.
func infoFor[T any]() (*ModelInfo, error) {
	var zero T
	t := reflect.TypeOf(zero)
	if t == nil {
		return nil, fmt.Errorf("gograph: cannot resolve model type")
	}
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	info, ok := LookupType(t)
	if !ok {
		return nil, &NotRegisteredError{TypeName: t.Name()}
	}
	return info, nil
}
