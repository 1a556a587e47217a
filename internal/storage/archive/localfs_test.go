// internal/storage/archive/localfs_test.go
package archive

import (
	"context"
	"testing"
)

func TestLocalFS_ImplementsStorage(t *testing.T) {
	var _ Storage = (*LocalFS)(nil)
}

func TestLocalFS_EmptyRoot(t *testing.T) {
	if _, err := NewLocalFS(""); err == nil {
		t.Error("expected error for empty root")
	}
}

func TestLocalFS_PutGet(t *testing.T) {
	store, err := NewLocalFS(t.TempDir())
	if err != nil {
		t.Fatalf("NewLocalFS: %v", err)
	}

	ctx := context.Background()
	data := []byte(`{"strategy":"rsi"}`)

	if err := store.Put(ctx, "backtests/rsi/btcusdt/report.json", data); err != nil {
		t.Fatalf("Put: %v", err)
	}

	got, err := store.Get(ctx, "backtests/rsi/btcusdt/report.json")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(got) != string(data) {
		t.Errorf("got %q, want %q", got, data)
	}
}

func TestLocalFS_ListReturnsSlashKeys(t *testing.T) {
	store, _ := NewLocalFS(t.TempDir())
	ctx := context.Background()

	store.Put(ctx, "backtests/rsi/btcusdt/a.json", []byte("a"))
	store.Put(ctx, "backtests/rsi/ethusdt/b.json", []byte("b"))
	store.Put(ctx, "backtests/macd/btcusdt/c.json", []byte("c"))

	keys, err := store.List(ctx, "backtests/rsi")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(keys) != 2 {
		t.Fatalf("expected 2 keys, got %d: %v", len(keys), keys)
	}
	for _, key := range keys {
		if key != "backtests/rsi/btcusdt/a.json" && key != "backtests/rsi/ethusdt/b.json" {
			t.Errorf("unexpected key %q", key)
		}
	}
}

func TestLocalFS_ListMissingPrefix(t *testing.T) {
	store, _ := NewLocalFS(t.TempDir())

	keys, err := store.List(context.Background(), "backtests/nope")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(keys) != 0 {
		t.Errorf("expected no keys, got %v", keys)
	}
}

func TestLocalFS_Delete(t *testing.T) {
	store, _ := NewLocalFS(t.TempDir())
	ctx := context.Background()

	store.Put(ctx, "stale.json", []byte("data"))
	if err := store.Delete(ctx, "stale.json"); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	if _, err := store.Get(ctx, "stale.json"); err == nil {
		t.Error("expected Get to fail after Delete")
	}
}
