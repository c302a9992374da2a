package goroutine

import (
	"context"
	"testing"
	"time"
)

func TestSafeGo_RecoversPanic(t *testing.T) {
	done := make(chan struct{})
	SafeGo(func() {
		defer close(done)
		panic("boom")
	})

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("горутина не завершилась")
	}
	// Паника не должна ронять процесс: тест дошёл до этой точки.
}

func TestSafeGoWithContext_PassesContext(t *testing.T) {
	type ctxKey struct{}
	ctx := context.WithValue(context.Background(), ctxKey{}, "value")

	got := make(chan any, 1)
	SafeGoWithContext(ctx, func(ctx context.Context) {
		got <- ctx.Value(ctxKey{})
	})

	select {
	case v := <-got:
		if v != "value" {
			t.Errorf("контекст должен передаваться в горутину, получили %v", v)
		}
	case <-time.After(time.Second):
		t.Fatal("горутина не завершилась")
	}
}
