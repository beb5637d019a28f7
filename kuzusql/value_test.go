package kuzusql

import (
	"encoding/json"
	"math"
	"math/big"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CaliLuke/go-kuzu/kuzu"
)

func TestToDriverValueScalars(t *testing.T) {
	now := time.Now()
	id := uuid.MustParse("7b9f1d0a-9f3a-4a1e-8e14-000000000001")

	tests := []struct {
		name string
		in   any
		out  any
	}{
		{"nil", nil, nil},
		{"bool", true, true},
		{"int64", int64(7), int64(7)},
		{"int32 widens", int32(7), int64(7)},
		{"int8 widens", int8(-3), int64(-3)},
		{"uint32 widens", uint32(9), int64(9)},
		{"uint64 in range", uint64(9), int64(9)},
		{"float32 widens", float32(1.5), float64(1.5)},
		{"float64", 2.5, 2.5},
		{"string", "hi", "hi"},
		{"bytes", []byte{1, 2}, []byte{1, 2}},
		{"time", now, now},
		{"duration to micros", 1500 * time.Millisecond, int64(1_500_000)},
		{"uuid to string", id, id.String()},
		{"internal id", kuzu.InternalID{TableID: 2, Offset: 9}, "2:9"},
		{"big int", big.NewInt(42), "42"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := toDriverValue(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.out, got)
		})
	}
}

func TestToDriverValueUint64Overflow(t *testing.T) {
	got, err := toDriverValue(uint64(math.MaxUint64))
	require.NoError(t, err)
	assert.Equal(t, "18446744073709551615", got)
}

func TestToDriverValueNodeJSON(t *testing.T) {
	node := kuzu.Node{
		ID:    kuzu.InternalID{TableID: 0, Offset: 4},
		Label: "User",
		Properties: map[string]any{
			"name": "Alice",
			"age":  int64(30),
		},
	}
	got, err := toDriverValue(node)
	require.NoError(t, err)

	blob, ok := got.([]byte)
	require.True(t, ok, "composite values should be JSON-encoded bytes")

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(blob, &decoded))
	assert.Equal(t, "0:4", decoded["_id"])
	assert.Equal(t, "User", decoded["_label"])

	props, ok := decoded["properties"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Alice", props["name"])
}

func TestToDriverValueRelationshipJSON(t *testing.T) {
	rel := kuzu.Relationship{
		ID:         kuzu.InternalID{TableID: 3, Offset: 1},
		SrcID:      kuzu.InternalID{TableID: 0, Offset: 4},
		DstID:      kuzu.InternalID{TableID: 1, Offset: 2},
		Label:      "LivesIn",
		Properties: map[string]any{"since": int64(2020)},
	}
	got, err := toDriverValue(rel)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(got.([]byte), &decoded))
	assert.Equal(t, "0:4", decoded["_src"])
	assert.Equal(t, "1:2", decoded["_dst"])
	assert.Equal(t, "LivesIn", decoded["_label"])
}

func TestToDriverValueListJSON(t *testing.T) {
	got, err := toDriverValue([]any{int64(1), "two", nil})
	require.NoError(t, err)

	var decoded []any
	require.NoError(t, json.Unmarshal(got.([]byte), &decoded))
	require.Len(t, decoded, 3)
	assert.Equal(t, "two", decoded[1])
	assert.Nil(t, decoded[2])
}

func TestToDriverValueMapStringifiesKeys(t *testing.T) {
	got, err := toDriverValue(map[any]any{int64(1): "one", "k": int64(2)})
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(got.([]byte), &decoded))
	assert.Equal(t, "one", decoded["1"])
	assert.Equal(t, float64(2), decoded["k"])
}

func TestToDriverValueStructJSON(t *testing.T) {
	got, err := toDriverValue(map[string]any{
		"value": 2.5,
		"unit":  "kg",
		"id":    uuid.MustParse("7b9f1d0a-9f3a-4a1e-8e14-000000000001"),
	})
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(got.([]byte), &decoded))
	assert.Equal(t, "kg", decoded["unit"])
	assert.Equal(t, "7b9f1d0a-9f3a-4a1e-8e14-000000000001", decoded["id"])
}
