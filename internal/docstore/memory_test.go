package docstore

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
)

type testDoc struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Amount int    `json:"amount"`
}

func TestMemoryStore_AddGet(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	doc := testDoc{ID: "a", Status: "pending", Amount: 10}
	if err := store.Add(ctx, "bids", "a", doc); err != nil {
		t.Fatalf("Add вернул ошибку: %v", err)
	}

	if err := store.Add(ctx, "bids", "a", doc); !errors.Is(err, ErrExists) {
		t.Fatalf("повторный Add: ожидали ErrExists, получили %v", err)
	}

	var got testDoc
	if err := store.Get(ctx, "bids", "a", &got); err != nil {
		t.Fatalf("Get вернул ошибку: %v", err)
	}
	if got != doc {
		t.Fatalf("Get = %+v, ожидали %+v", got, doc)
	}

	if err := store.Get(ctx, "bids", "missing", &got); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get отсутствующего: ожидали ErrNotFound, получили %v", err)
	}
}

func TestMemoryStore_SetDelete(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	if err := store.Set(ctx, "bids", "a", testDoc{}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Set отсутствующего: ожидали ErrNotFound, получили %v", err)
	}

	if err := store.Add(ctx, "bids", "a", testDoc{ID: "a", Status: "pending"}); err != nil {
		t.Fatalf("Add вернул ошибку: %v", err)
	}
	if err := store.Set(ctx, "bids", "a", testDoc{ID: "a", Status: "accepted"}); err != nil {
		t.Fatalf("Set вернул ошибку: %v", err)
	}

	var got testDoc
	if err := store.Get(ctx, "bids", "a", &got); err != nil {
		t.Fatalf("Get вернул ошибку: %v", err)
	}
	if got.Status != "accepted" {
		t.Fatalf("после Set статус = %q, ожидали accepted", got.Status)
	}

	if err := store.Delete(ctx, "bids", "a"); err != nil {
		t.Fatalf("Delete вернул ошибку: %v", err)
	}
	if err := store.Delete(ctx, "bids", "a"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("повторный Delete: ожидали ErrNotFound, получили %v", err)
	}
}

func TestMemoryStore_QueryFilters(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	docs := []testDoc{
		{ID: "1", Status: "pending", Amount: 10},
		{ID: "2", Status: "accepted", Amount: 20},
		{ID: "3", Status: "pending", Amount: 30},
	}
	for _, d := range docs {
		if err := store.Add(ctx, "bids", d.ID, d); err != nil {
			t.Fatalf("Add вернул ошибку: %v", err)
		}
	}

	var pending []testDoc
	err := store.Query(ctx, "bids", []Filter{{Field: "status", Value: "pending"}}, &pending)
	if err != nil {
		t.Fatalf("Query вернул ошибку: %v", err)
	}
	if len(pending) != 2 {
		t.Fatalf("ожидали 2 pending документа, получили %d", len(pending))
	}
	if pending[0].ID != "1" || pending[1].ID != "3" {
		t.Fatalf("Query должен сортировать по id, получили %+v", pending)
	}

	var all []testDoc
	if err := store.All(ctx, "bids", &all); err != nil {
		t.Fatalf("All вернул ошибку: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("ожидали 3 документа, получили %d", len(all))
	}

	count, err := store.Count(ctx, "bids")
	if err != nil {
		t.Fatalf("Count вернул ошибку: %v", err)
	}
	if count != 3 {
		t.Fatalf("Count = %d, ожидали 3", count)
	}

	// Пустая коллекция декодируется в пустой список без ошибок.
	var none []testDoc
	if err := store.All(ctx, "contracts", &none); err != nil {
		t.Fatalf("All по пустой коллекции вернул ошибку: %v", err)
	}
	if len(none) != 0 {
		t.Fatalf("ожидали пустой список, получили %d", len(none))
	}
}

func TestMemoryStore_UpdateAtomic(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	if err := store.Add(ctx, "bids", "a", testDoc{ID: "a", Amount: 0}); err != nil {
		t.Fatalf("Add вернул ошибку: %v", err)
	}

	const workers = 50
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			_ = store.Update(ctx, "bids", "a", func(raw []byte) ([]byte, error) {
				var doc testDoc
				if err := json.Unmarshal(raw, &doc); err != nil {
					return nil, err
				}
				doc.Amount++
				return json.Marshal(doc)
			})
		}()
	}
	wg.Wait()

	var got testDoc
	if err := store.Get(ctx, "bids", "a", &got); err != nil {
		t.Fatalf("Get вернул ошибку: %v", err)
	}
	if got.Amount != workers {
		t.Fatalf("конкурентный Update потерял записи: amount = %d, ожидали %d", got.Amount, workers)
	}
}

func TestMemoryStore_UpdateError(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	if err := store.Add(ctx, "bids", "a", testDoc{ID: "a", Status: "pending"}); err != nil {
		t.Fatalf("Add вернул ошибку: %v", err)
	}

	wantErr := errors.New("boom")
	err := store.Update(ctx, "bids", "a", func(raw []byte) ([]byte, error) {
		return nil, wantErr
	})
	if !errors.Is(err, wantErr) {
		t.Fatalf("Update должен пробрасывать ошибку fn, получили %v", err)
	}

	// Документ не должен измениться после неудачного обновления.
	var got testDoc
	if err := store.Get(ctx, "bids", "a", &got); err != nil {
		t.Fatalf("Get вернул ошибку: %v", err)
	}
	if got.Status != "pending" {
		t.Fatalf("документ изменился после ошибки fn: %+v", got)
	}
}
