package docstore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
)

// MemoryStore — потокобезопасное хранилище документов в памяти.
// Используется в тестах и при запуске без DATABASE_URL.
type MemoryStore struct {
	mu          sync.RWMutex
	collections map[string]map[string][]byte
}

// NewMemoryStore создаёт пустое хранилище.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		collections: make(map[string]map[string][]byte),
	}
}

func (s *MemoryStore) Add(ctx context.Context, collection, id string, doc any) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("memory store: marshal %s/%s: %w", collection, id, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	docs, ok := s.collections[collection]
	if !ok {
		docs = make(map[string][]byte)
		s.collections[collection] = docs
	}
	if _, ok := docs[id]; ok {
		return ErrExists
	}
	docs[id] = raw
	return nil
}

func (s *MemoryStore) Get(ctx context.Context, collection, id string, out any) error {
	s.mu.RLock()
	raw, ok := s.collections[collection][id]
	s.mu.RUnlock()

	if !ok {
		return ErrNotFound
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("memory store: unmarshal %s/%s: %w", collection, id, err)
	}
	return nil
}

func (s *MemoryStore) Set(ctx context.Context, collection, id string, doc any) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("memory store: marshal %s/%s: %w", collection, id, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	docs := s.collections[collection]
	if _, ok := docs[id]; !ok {
		return ErrNotFound
	}
	docs[id] = raw
	return nil
}

func (s *MemoryStore) Update(ctx context.Context, collection, id string, fn UpdateFunc) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	docs := s.collections[collection]
	raw, ok := docs[id]
	if !ok {
		return ErrNotFound
	}

	updated, err := fn(raw)
	if err != nil {
		return err
	}
	docs[id] = updated
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, collection, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	docs := s.collections[collection]
	if _, ok := docs[id]; !ok {
		return ErrNotFound
	}
	delete(docs, id)
	return nil
}

func (s *MemoryStore) Query(ctx context.Context, collection string, filters []Filter, out any) error {
	s.mu.RLock()
	raws := make([][]byte, 0, len(s.collections[collection]))
	ids := make([]string, 0, len(s.collections[collection]))
	for id := range s.collections[collection] {
		ids = append(ids, id)
	}
	// Порядок итерации по map случаен, сортируем по id для детерминизма.
	sort.Strings(ids)
	for _, id := range ids {
		raws = append(raws, s.collections[collection][id])
	}
	s.mu.RUnlock()

	matched := make([][]byte, 0, len(raws))
	for _, raw := range raws {
		ok, err := matchesFilters(raw, filters)
		if err != nil {
			return err
		}
		if ok {
			matched = append(matched, raw)
		}
	}
	return decodeList(matched, out)
}

func (s *MemoryStore) All(ctx context.Context, collection string, out any) error {
	return s.Query(ctx, collection, nil, out)
}

func (s *MemoryStore) Count(ctx context.Context, collection string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.collections[collection]), nil
}

// matchesFilters проверяет фильтры равенства по верхнеуровневым полям.
func matchesFilters(raw []byte, filters []Filter) (bool, error) {
	if len(filters) == 0 {
		return true, nil
	}

	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return false, fmt.Errorf("memory store: unmarshal document: %w", err)
	}

	for _, f := range filters {
		value, ok := doc[f.Field]
		if !ok {
			return false, nil
		}
		if fmt.Sprint(value) != f.Value {
			return false, nil
		}
	}
	return true, nil
}

// decodeList собирает из сырых документов JSON-массив и декодирует его в out.
func decodeList(raws [][]byte, out any) error {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, raw := range raws {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.Write(raw)
	}
	buf.WriteByte(']')

	if err := json.Unmarshal(buf.Bytes(), out); err != nil {
		return fmt.Errorf("memory store: decode list: %w", err)
	}
	return nil
}
