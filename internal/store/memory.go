package store

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"sync"
)

// Memory is an in-process Store implementation for tests and local
// development. Records are round-tripped through JSON on insert so they
// are observed in the same generic shape a real backend would return.
type Memory struct {
	mu          sync.RWMutex
	collections map[string][]Document

	// FailInsert, when non-nil, is consulted before every insert.
	// Returning a non-nil error simulates a store-level failure for
	// that record. Tests use it to exercise per-row persistence errors.
	FailInsert func(collection string, doc Document) error
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{collections: make(map[string][]Document)}
}

func (m *Memory) InsertOne(_ context.Context, collection string, record any) error {
	doc, err := toDocument(record)
	if err != nil {
		return fmt.Errorf("encode record: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.FailInsert != nil {
		if err := m.FailInsert(collection, doc); err != nil {
			return err
		}
	}

	// Mirror the unique-id constraint a real backend enforces.
	if id, ok := doc["id"]; ok && id != "" {
		for _, existing := range m.collections[collection] {
			if existing["id"] == id {
				return fmt.Errorf("duplicate id %v in collection %s", id, collection)
			}
		}
	}

	m.collections[collection] = append(m.collections[collection], doc)
	return nil
}

func (m *Memory) Find(_ context.Context, collection string, filter Filter, limit int64) ([]Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	docs := m.collections[collection]
	var result []Document
	// Newest first: inserts append, so walk backwards.
	for i := len(docs) - 1; i >= 0; i-- {
		if !matches(docs[i], filter) {
			continue
		}
		result = append(result, docs[i])
		if limit > 0 && int64(len(result)) >= limit {
			break
		}
	}
	return result, nil
}

func (m *Memory) CountDocuments(_ context.Context, collection string, filter Filter) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var count int64
	for _, doc := range m.collections[collection] {
		if matches(doc, filter) {
			count++
		}
	}
	return count, nil
}

func (m *Memory) Ping(context.Context) error { return nil }

func (m *Memory) Close(context.Context) error { return nil }

// toDocument normalizes a record into its generic decoded form.
func toDocument(record any) (Document, error) {
	data, err := json.Marshal(record)
	if err != nil {
		return nil, err
	}
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// matches reports whether every filter field equals the document's value.
// Filter values are JSON-normalized first so int/float comparisons behave
// like the real backends.
func matches(doc Document, filter Filter) bool {
	for key, want := range filter {
		normalized, err := toDocument(map[string]any{"v": want})
		if err != nil {
			return false
		}
		if !reflect.DeepEqual(doc[key], normalized["v"]) {
			return false
		}
	}
	return true
}
