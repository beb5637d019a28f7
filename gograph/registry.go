package gograph

import (
	"fmt"
	"reflect"
	"sort"
	"sync"
)

// registry holds model metadata for all registered Go struct types.
type registry struct {
	mu      sync.RWMutex
	byType  map[reflect.Type]*ModelInfo
	byTable map[string]*ModelInfo
	order   []string
}

var models = &registry{
	byType:  make(map[reflect.Type]*ModelInfo),
	byTable: make(map[string]*ModelInfo),
}

// Register extracts and stores metadata for model type T. It must be
// called once per model before the type is used with a Manager or a
// Query, typically from an init function or at program startup.
// Registering the same table name twice returns an error.
func Register[T any]() error {
	var zero T
	t := reflect.TypeOf(zero)
	if t == nil {
		return fmt.Errorf("gograph: cannot register interface type")
	}
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	info, err := ExtractModelInfo(t)
	if err != nil {
		return fmt.Errorf("gograph: register %s: %w", t.Name(), err)
	}

	if err := ValidateIdentifier(info.TableName); err != nil {
		return fmt.Errorf("gograph: register %s: %w", t.Name(), err)
	}
	for _, f := range info.Fields {
		if err := ValidateIdentifier(f.Tag.Name); err != nil {
			return fmt.Errorf("gograph: register %s: field %s: %w", t.Name(), f.FieldName, err)
		}
	}

	models.mu.Lock()
	defer models.mu.Unlock()

	if prev, exists := models.byTable[info.TableName]; exists {
		if prev.GoType == t {
			return nil
		}
		return fmt.Errorf("gograph: table %q already registered to %s", info.TableName, prev.GoType.Name())
	}

	models.byType[t] = info
	models.byTable[info.TableName] = info
	models.order = append(models.order, info.TableName)
	return nil
}

// MustRegister is like Register but panics on error. Convenient in
// package init functions where a failure is a programming bug.
func MustRegister[T any]() {
	if err := Register[T](); err != nil {
		panic(err)
	}
}

// Lookup returns the metadata registered for model type T.
func Lookup[T any]() (*ModelInfo, bool) {
	var zero T
	t := reflect.TypeOf(zero)
	if t == nil {
		return nil, false
	}
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return LookupType(t)
}

// LookupType returns the metadata registered for a reflection type.
func LookupType(t reflect.Type) (*ModelInfo, bool) {
	models.mu.RLock()
	defer models.mu.RUnlock()
	info, ok := models.byType[t]
	return info, ok
}

// LookupTable returns the metadata registered under a table name.
func LookupTable(name string) (*ModelInfo, bool) {
	models.mu.RLock()
	defer models.mu.RUnlock()
	info, ok := models.byTable[name]
	return info, ok
}

// RegisteredModels returns all registered models in registration order,
// node tables before rel tables. Rel table DDL references node tables,
// so this is also a valid creation order.
func RegisteredModels() []*ModelInfo {
	models.mu.RLock()
	defer models.mu.RUnlock()

	out := make([]*ModelInfo, 0, len(models.order))
	for _, name := range models.order {
		if info := models.byTable[name]; info.Kind == ModelKindNode {
			out = append(out, info)
		}
	}
	for _, name := range models.order {
		if info := models.byTable[name]; info.Kind == ModelKindRel {
			out = append(out, info)
		}
	}
	return out
}

// RegisteredTableNames returns the sorted names of all registered tables.
func RegisteredTableNames() []string {
	models.mu.RLock()
	defer models.mu.RUnlock()
	out := make([]string, len(models.order))
	copy(out, models.order)
	sort.Strings(out)
	return out
}

// ClearRegistry clears all registered models. Intended for tests.
func ClearRegistry() {
	models.mu.Lock()
	defer models.mu.Unlock()
	models.byType = make(map[reflect.Type]*ModelInfo)
	models.byTable = make(map[string]*ModelInfo)
	models.order = nil
}
