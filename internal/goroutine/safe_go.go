package goroutine

import (
	"context"
	"fmt"
	"os"
	"runtime/debug"

	"github.com/agrimitra/backend/internal/logger"
)

// SafeGo запускает горутину с обработкой panic.
func SafeGo(fn func()) {
	go func() {
		defer logPanic()
		fn()
	}()
}

// SafeGoWithContext запускает горутину с контекстом и обработкой panic.
func SafeGoWithContext(ctx context.Context, fn func(context.Context)) {
	go func() {
		defer logPanic()
		fn(ctx)
	}()
}

func logPanic() {
	r := recover()
	if r == nil {
		return
	}
	if logger.Log != nil {
		logger.Log.Errorf("Panic in goroutine: %v\nStack trace:\n%s", r, debug.Stack())
		return
	}
	fmt.Fprintf(os.Stderr, "[ERROR] Panic in goroutine: %v\nStack trace:\n%s\n", r, debug.Stack())
}
