package gograph

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestHydrateNodeCoercions(t *testing.T) {
	registerTestModels(t)
	MustRegister[modelEvent]()

	data := map[string]any{
		"_id":     map[string]any{"table": int64(1), "offset": int64(8)},
		"_label":  "modelEvent",
		"id":      int64(8),
		"title":   "launch",
		"when_at": "2024-05-01T12:30:00Z",
		"payload": "raw bytes",
		"tags":    []any{"a", "b"},
	}

	ev, err := HydrateNew[modelEvent](data)
	if err != nil {
		t.Fatalf("HydrateNew failed: %v", err)
	}

	if ev.ID != 8 || ev.Title != "launch" {
		t.Errorf("hydrated id=%d title=%q", ev.ID, ev.Title)
	}
	want := time.Date(2024, 5, 1, 12, 30, 0, 0, time.UTC)
	if !ev.When.Equal(want) {
		t.Errorf("when = %v, want %v", ev.When, want)
	}
	if string(ev.Payload) != "raw bytes" {
		t.Errorf("payload = %q", ev.Payload)
	}
	if len(ev.Tags) != 2 || ev.Tags[0] != "a" || ev.Tags[1] != "b" {
		t.Errorf("tags = %v", ev.Tags)
	}
	if !ev.HasID() || ev.GetID().Offset != 8 {
		t.Errorf("expected bound offset 8, got %v", ev.GetID())
	}
}

func TestHydrateDurationFromMicroseconds(t *testing.T) {
	registerTestModels(t)
	type hydrateSpan struct {
		BaseNode
		Name string        `kuzu:"name,primary"`
		Took time.Duration `kuzu:"took"`
	}
	MustRegister[hydrateSpan]()

	span, err := HydrateNew[hydrateSpan](map[string]any{
		"name": "parse",
		"took": int64(1_500_000),
	})
	if err != nil {
		t.Fatalf("HydrateNew failed: %v", err)
	}
	if span.Took != 1500*time.Millisecond {
		t.Errorf("took = %v, want 1.5s", span.Took)
	}
}

func TestHydrateUUIDFromString(t *testing.T) {
	registerTestModels(t)
	MustRegister[modelDoc]()

	key := uuid.MustParse("8f14e45f-ceea-467f-a34e-d624b5f0c1a1")
	doc, err := HydrateNew[modelDoc](map[string]any{
		"key":  key.String(),
		"body": "hello",
	})
	if err != nil {
		t.Fatalf("HydrateNew failed: %v", err)
	}
	if doc.Key != key {
		t.Errorf("key = %v, want %v", doc.Key, key)
	}
}

func TestHydrateIgnoresNilAndMissingColumns(t *testing.T) {
	registerTestModels(t)

	u, err := HydrateNew[testUser](map[string]any{
		"name": "Bob",
		"age":  nil,
	})
	if err != nil {
		t.Fatalf("HydrateNew failed: %v", err)
	}
	if u.Age != nil {
		t.Errorf("age = %v, want nil", u.Age)
	}
	if u.Email != "" {
		t.Errorf("email = %q, want empty", u.Email)
	}
}

func TestHydrateUnregisteredType(t *testing.T) {
	registerTestModels(t)
	type stranger struct {
		BaseNode
		Name string `kuzu:"name,primary"`
	}

	if _, err := HydrateNew[stranger](map[string]any{"name": "x"}); err == nil {
		t.Error("expected error for unregistered type")
	}
}

func TestHydrateRowRelWithEndpoints(t *testing.T) {
	registerTestModels(t)
	info, ok := LookupTable("testLivesIn")
	if !ok {
		t.Fatal("testLivesIn not registered")
	}

	row := map[string]any{
		"e": map[string]any{
			"_id":   map[string]any{"table": int64(4), "offset": int64(2)},
			"since": int64(2020),
		},
		"src": map[string]any{
			"_id":   map[string]any{"table": int64(0), "offset": int64(1)},
			"name":  "Alice",
			"email": "alice@example.com",
		},
		"dst": map[string]any{
			"_id":        map[string]any{"table": int64(1), "offset": int64(6)},
			"name":       "Paris",
			"population": int64(2_000_000),
		},
	}

	r, err := hydrateRow[testLivesIn](info, row, "e")
	if err != nil {
		t.Fatalf("hydrateRow failed: %v", err)
	}

	if r.Since != 2020 {
		t.Errorf("since = %d, want 2020", r.Since)
	}
	if !r.HasID() || r.GetID().Offset != 2 {
		t.Errorf("expected rel bound to offset 2, got %v", r.GetID())
	}
	if r.Resident == nil || r.Resident.Name != "Alice" {
		t.Fatalf("src endpoint not hydrated: %+v", r.Resident)
	}
	if r.City == nil || r.City.Name != "Paris" || r.City.Population != 2_000_000 {
		t.Fatalf("dst endpoint not hydrated: %+v", r.City)
	}
	if !r.Resident.HasID() || r.Resident.GetID().Offset != 1 {
		t.Errorf("src endpoint not bound: %v", r.Resident.GetID())
	}
}

func TestHydrateRowMissingAlias(t *testing.T) {
	registerTestModels(t)
	info, _ := LookupTable("testUser")

	if _, err := hydrateRow[testUser](info, map[string]any{"other": 1}, "e"); err == nil {
		t.Error("expected error when row lacks the model alias")
	}
}
