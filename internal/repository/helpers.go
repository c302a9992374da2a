package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/agrimitra/backend/internal/docstore"
)

// updateDoc применяет типизированную мутацию к документу коллекции,
// сохраняя атомарность, которую гарантирует docstore.Update.
func updateDoc[T any](ctx context.Context, store docstore.Store, collection, id string, fn func(*T) error) (*T, error) {
	var updated T
	err := store.Update(ctx, collection, id, func(raw []byte) ([]byte, error) {
		var doc T
		if err := json.Unmarshal(raw, &doc); err != nil {
			return nil, fmt.Errorf("repository: unmarshal %s/%s: %w", collection, id, err)
		}
		if err := fn(&doc); err != nil {
			return nil, err
		}
		updated = doc
		return json.Marshal(doc)
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}
