package kuzusql

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"math"
	"math/big"
	"time"

	"github.com/google/uuid"

	"github.com/CaliLuke/go-kuzu/kuzu"
)

// toDriverValue converts an engine value to a driver.Value. Scalars map
// directly; composite values (nodes, rels, lists, structs, maps) are
// JSON-encoded.
func toDriverValue(v any) (driver.Value, error) {
	switch x := v.(type) {
	case nil:
		return nil, nil
	case bool, int64, float64, string, []byte, time.Time:
		return x, nil
	case int8:
		return int64(x), nil
	case int16:
		return int64(x), nil
	case int32:
		return int64(x), nil
	case uint8:
		return int64(x), nil
	case uint16:
		return int64(x), nil
	case uint32:
		return int64(x), nil
	case uint64:
		if x > math.MaxInt64 {
			// Out of int64 range; carried as decimal text.
			return new(big.Int).SetUint64(x).String(), nil
		}
		return int64(x), nil
	case float32:
		return float64(x), nil
	case time.Duration:
		// Intervals travel as microseconds, matching the OGM row contract.
		return x.Microseconds(), nil
	case *big.Int:
		return x.String(), nil
	case uuid.UUID:
		return x.String(), nil
	case kuzu.InternalID:
		return x.String(), nil
	default:
		blob, err := json.Marshal(jsonable(v))
		if err != nil {
			return nil, fmt.Errorf("kuzusql: cannot convert %T to a driver value: %w", v, err)
		}
		return blob, nil
	}
}

// jsonable rewrites engine composites into shapes encoding/json accepts:
// map keys become strings, and scalar leaves reuse the toDriverValue
// conversions.
func jsonable(v any) any {
	switch x := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, val := range x {
			out[k] = jsonable(val)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(x))
		for k, val := range x {
			out[fmt.Sprint(jsonable(k))] = jsonable(val)
		}
		return out
	case []any:
		out := make([]any, len(x))
		for i, val := range x {
			out[i] = jsonable(val)
		}
		return out
	case kuzu.Node:
		return map[string]any{
			"_id":        x.ID.String(),
			"_label":     x.Label,
			"properties": jsonable(x.Properties),
		}
	case kuzu.Relationship:
		return map[string]any{
			"_id":        x.ID.String(),
			"_src":       x.SrcID.String(),
			"_dst":       x.DstID.String(),
			"_label":     x.Label,
			"properties": jsonable(x.Properties),
		}
	case kuzu.RecursiveRel:
		return map[string]any{
			"nodes": jsonable(anySlice(x.Nodes)),
			"rels":  jsonable(anySlice(x.Rels)),
		}
	case kuzu.InternalID:
		return x.String()
	case *big.Int:
		return x.String()
	case uuid.UUID:
		return x.String()
	case time.Duration:
		return x.Microseconds()
	default:
		return v
	}
}

func anySlice[T any](xs []T) []any {
	out := make([]any, len(xs))
	for i, x := range xs {
		out[i] = x
	}
	return out
}
