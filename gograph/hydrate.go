// Package gograph provides mechanisms for hydrating Go structs from query results.
package gograph

import (
	"fmt"
	"reflect"
	"time"

	"github.com/google/uuid"
)

// MaxHydrationDepth is the maximum nesting depth for recursive endpoint
// hydration. This prevents infinite loops when the graph contains cycles.
const MaxHydrationDepth = 10

// Hydrate populates the fields of a registered model struct pointer from
// a node or rel value map (the row contract: properties inline, internal
// ID under "_id").
func Hydrate(target any, data map[string]any) error {
	return hydrateWithDepth(target, data, 0, make(map[string]bool))
}

// HydrateNew creates a new instance of type T, hydrates it with the
// provided data, and returns a pointer to it.
func HydrateNew[T any](data map[string]any) (*T, error) {
	result := new(T)
	if err := Hydrate(result, data); err != nil {
		return nil, err
	}
	return result, nil
}

// hydrateRow hydrates one result row for a model. The model's value is
// expected under the varName alias; rel rows additionally carry their
// endpoint nodes under the src and dst aliases.
func hydrateRow[T any](info *ModelInfo, row map[string]any, varName string) (*T, error) {
	value, ok := row[varName].(map[string]any)
	if !ok {
		return nil, &HydrationError{
			TypeName: info.TableName,
			Field:    varName,
			Cause:    fmt.Errorf("row has no %q value", varName),
		}
	}

	result := new(T)
	visited := make(map[string]bool)
	if err := hydrateWithDepth(result, value, 0, visited); err != nil {
		return nil, err
	}

	if info.Kind == ModelKindRel {
		v := reflect.ValueOf(result).Elem()
		if err := hydrateEndpoint(v, info.From, row[srcVar], visited); err != nil {
			return nil, err
		}
		if err := hydrateEndpoint(v, info.To, row[dstVar], visited); err != nil {
			return nil, err
		}
	}
	return result, nil
}

func hydrateEndpoint(v reflect.Value, ep *EndpointInfo, data any, visited map[string]bool) error {
	nodeMap, ok := data.(map[string]any)
	if !ok {
		return nil
	}
	field := v.Field(ep.FieldIndex)
	if field.Kind() != reflect.Ptr {
		return nil
	}
	ptr := reflect.New(field.Type().Elem())
	if err := hydrateWithDepth(ptr.Interface(), nodeMap, 1, visited); err != nil {
		return fmt.Errorf("endpoint %s: %w", ep.FieldName, err)
	}
	field.Set(ptr)
	return nil
}

// hydrateWithDepth performs hydration with cycle detection and depth
// limiting. visited tracks internal IDs already hydrated in this call
// chain.
func hydrateWithDepth(target any, data map[string]any, depth int, visited map[string]bool) error {
	if depth > MaxHydrationDepth {
		return fmt.Errorf("hydration depth exceeded maximum of %d (possible cycle in graph)", MaxHydrationDepth)
	}

	v := reflect.ValueOf(target)
	if v.Kind() != reflect.Ptr || v.IsNil() {
		return fmt.Errorf("target must be a non-nil pointer to struct")
	}
	v = v.Elem()
	if v.Kind() != reflect.Struct {
		return fmt.Errorf("target must point to a struct, got %s", v.Kind())
	}

	info, ok := LookupType(v.Type())
	if !ok {
		return &NotRegisteredError{TypeName: v.Type().Name()}
	}

	// Bind the internal ID if present, detecting cycles on its string form.
	if id, ok := parseInternalID(data["_id"]); ok {
		key := id.String()
		if visited[key] {
			return nil
		}
		visited[key] = true
		setIDOnValue(v, id)
	}

	for _, fi := range info.Fields {
		val, ok := data[fi.Tag.Name]
		if !ok || val == nil {
			continue
		}
		field := v.Field(fi.FieldIndex)
		if err := setFieldValue(field, fi, val); err != nil {
			return &HydrationError{TypeName: info.TableName, Field: fi.FieldName, Cause: err}
		}
	}
	return nil
}

func setFieldValue(field reflect.Value, fi FieldInfo, val any) error {
	if fi.IsSlice {
		return setSliceField(field, fi, val)
	}

	target := fi.FieldType
	if fi.IsPointer {
		target = fi.ElemType
	}
	converted, err := coerceValue(val, target)
	if err != nil {
		return err
	}

	if fi.IsPointer {
		ptr := reflect.New(fi.ElemType)
		ptr.Elem().Set(reflect.ValueOf(converted))
		field.Set(ptr)
	} else {
		field.Set(reflect.ValueOf(converted))
	}
	return nil
}

func setSliceField(field reflect.Value, fi FieldInfo, val any) error {
	elemType := fi.ElemType

	rv := reflect.ValueOf(val)
	if rv.Kind() != reflect.Slice {
		converted, err := coerceValue(val, elemType)
		if err != nil {
			return err
		}
		slice := reflect.MakeSlice(fi.FieldType, 1, 1)
		slice.Index(0).Set(reflect.ValueOf(converted))
		field.Set(slice)
		return nil
	}

	slice := reflect.MakeSlice(fi.FieldType, rv.Len(), rv.Len())
	for i := 0; i < rv.Len(); i++ {
		converted, err := coerceValue(rv.Index(i).Interface(), elemType)
		if err != nil {
			return fmt.Errorf("index %d: %w", i, err)
		}
		slice.Index(i).Set(reflect.ValueOf(converted))
	}
	field.Set(slice)
	return nil
}

// coerceValue converts a row-contract value into the target Go type.
// Rows decoded from msgpack widen integers and may carry times and UUIDs
// as strings, so the conversions here are deliberately loose.
func coerceValue(val any, targetType reflect.Type) (any, error) {
	switch targetType {
	case reflect.TypeOf(time.Time{}):
		return coerceToTime(val)
	case reflect.TypeOf(time.Duration(0)):
		return coerceToDuration(val)
	case reflect.TypeOf(uuid.UUID{}):
		return coerceToUUID(val)
	case reflect.TypeOf([]byte(nil)):
		return coerceToBytes(val)
	}

	switch targetType.Kind() {
	case reflect.String:
		if s, ok := val.(string); ok {
			return s, nil
		}
		return fmt.Sprintf("%v", val), nil

	case reflect.Bool:
		b, ok := val.(bool)
		if !ok {
			return nil, fmt.Errorf("expected bool, got %T", val)
		}
		return b, nil

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		i64, ok := coerceToInt64(val)
		if !ok {
			return nil, fmt.Errorf("cannot coerce %T to integer", val)
		}
		out := reflect.New(targetType).Elem()
		out.SetInt(i64)
		return out.Interface(), nil

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		i64, ok := coerceToInt64(val)
		if !ok {
			return nil, fmt.Errorf("cannot coerce %T to unsigned integer", val)
		}
		out := reflect.New(targetType).Elem()
		out.SetUint(uint64(i64))
		return out.Interface(), nil

	case reflect.Float32, reflect.Float64:
		f64, ok := coerceToFloat64(val)
		if !ok {
			return nil, fmt.Errorf("cannot coerce %T to float", val)
		}
		if targetType.Kind() == reflect.Float32 {
			return float32(f64), nil
		}
		return f64, nil
	}

	// Last resort: assignable values pass through.
	rv := reflect.ValueOf(val)
	if rv.Type().AssignableTo(targetType) {
		return val, nil
	}
	if rv.Type().ConvertibleTo(targetType) {
		return rv.Convert(targetType).Interface(), nil
	}
	return nil, fmt.Errorf("cannot coerce %T to %s", val, targetType)
}

func coerceToInt64(val any) (int64, bool) {
	switch v := val.(type) {
	case int64:
		return v, true
	case int:
		return int64(v), true
	case int32:
		return int64(v), true
	case int16:
		return int64(v), true
	case int8:
		return int64(v), true
	case uint64:
		return int64(v), true
	case uint32:
		return int64(v), true
	case uint16:
		return int64(v), true
	case uint8:
		return int64(v), true
	case uint:
		return int64(v), true
	case float64:
		return int64(v), true
	case float32:
		return int64(v), true
	default:
		return 0, false
	}
}

func coerceToFloat64(val any) (float64, bool) {
	switch v := val.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint64:
		return float64(v), true
	default:
		return 0, false
	}
}

func coerceToTime(val any) (any, error) {
	switch v := val.(type) {
	case time.Time:
		return v, nil
	case string:
		for _, layout := range []string{
			time.RFC3339Nano,
			time.RFC3339,
			"2006-01-02 15:04:05.999999",
			"2006-01-02T15:04:05",
			"2006-01-02",
		} {
			if t, err := time.Parse(layout, v); err == nil {
				return t, nil
			}
		}
		return nil, fmt.Errorf("cannot parse time string: %q", v)
	default:
		return nil, fmt.Errorf("cannot coerce %T to time.Time", val)
	}
}

func coerceToDuration(val any) (any, error) {
	switch v := val.(type) {
	case time.Duration:
		return v, nil
	case int64:
		// Intervals travel as microseconds in the row contract.
		return time.Duration(v) * time.Microsecond, nil
	case float64:
		return time.Duration(v) * time.Microsecond, nil
	case string:
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("cannot parse duration string %q: %w", v, err)
		}
		return d, nil
	default:
		return nil, fmt.Errorf("cannot coerce %T to time.Duration", val)
	}
}

func coerceToUUID(val any) (any, error) {
	switch v := val.(type) {
	case uuid.UUID:
		return v, nil
	case string:
		u, err := uuid.Parse(v)
		if err != nil {
			return nil, fmt.Errorf("cannot parse uuid string %q: %w", v, err)
		}
		return u, nil
	default:
		return nil, fmt.Errorf("cannot coerce %T to uuid.UUID", val)
	}
}

func coerceToBytes(val any) (any, error) {
	switch v := val.(type) {
	case []byte:
		return v, nil
	case string:
		return []byte(v), nil
	default:
		return nil, fmt.Errorf("cannot coerce %T to []byte", val)
	}
}
