package doccache

import (
	"context"
	"testing"
	"time"

	"github.com/msuny-c/fdb-viewer/internal/domain/document"
)

func TestMemoryCacheExpiry(t *testing.T) {
	ctx := context.Background()
	cache := NewMemoryCache()

	if err := cache.Set(ctx, document.Document{ID: "keep0000"}, 0); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := cache.Set(ctx, document.Document{ID: "gone0000"}, time.Nanosecond); err != nil {
		t.Fatalf("set: %v", err)
	}
	time.Sleep(time.Millisecond)

	if _, ok, _ := cache.Get(ctx, "keep0000"); !ok {
		t.Fatalf("expected entry without ttl to stay")
	}
	if _, ok, _ := cache.Get(ctx, "gone0000"); ok {
		t.Fatalf("expected expired entry to be evicted")
	}
	if _, ok, _ := cache.Get(ctx, "missing0"); ok {
		t.Fatalf("expected miss")
	}
}
