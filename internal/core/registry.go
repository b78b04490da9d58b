package core

import (
	"fmt"
	"sort"
	"sync"
)

var (
	registry   = make(map[string]KindDefinition)
	registryMu sync.RWMutex
)

// Register adds a kind definition to the registry.
// Panics if a kind with the same key is already registered.
func Register(def KindDefinition) {
	registryMu.Lock()
	defer registryMu.Unlock()

	if _, exists := registry[def.Info.Key]; exists {
		panic(fmt.Sprintf("record kind already registered: %s", def.Info.Key))
	}

	// Populate Columns from FieldSpecs if not set
	if len(def.Info.Columns) == 0 && len(def.FieldSpecs) > 0 {
		def.Info.Columns = make([]string, len(def.FieldSpecs))
		for i, spec := range def.FieldSpecs {
			def.Info.Columns[i] = spec.Name
		}
	}

	registry[def.Info.Key] = def
}

// Get returns a kind definition by key.
// Returns false if not found.
func Get(key string) (KindDefinition, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()

	def, ok := registry[key]
	return def, ok
}

// All returns all registered kind definitions.
// Sorted by group then by key for consistent ordering.
func All() []KindDefinition {
	registryMu.RLock()
	defer registryMu.RUnlock()

	result := make([]KindDefinition, 0, len(registry))
	for _, def := range registry {
		result = append(result, def)
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].Info.Group != result[j].Info.Group {
			return result[i].Info.Group < result[j].Info.Group
		}
		return result[i].Info.Key < result[j].Info.Key
	})

	return result
}

// Keys returns all registered kind keys, sorted alphabetically.
// Used to list the supported kinds in unsupported-kind errors.
func Keys() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	keys := make([]string, 0, len(registry))
	for k := range registry {
		keys = append(keys, k)
	}

	sort.Strings(keys)
	return keys
}

// KindCount returns the number of registered kinds.
func KindCount() int {
	registryMu.RLock()
	defer registryMu.RUnlock()
	return len(registry)
}

// Clear removes all registered kinds.
// Primarily useful for testing.
func Clear() {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry = make(map[string]KindDefinition)
}
