package store

import (
	"context"
	"errors"
	"testing"
)

// runKVContract checks the behaviour every KV implementation shares.
func runKVContract(t *testing.T, kv KV) {
	t.Helper()
	ctx := context.Background()

	if _, err := kv.Get(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get(missing) err = %v, want ErrNotFound", err)
	}
	if err := kv.Set(ctx, "k", []byte("v1")); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got, err := kv.Get(ctx, "k")
	if err != nil || string(got) != "v1" {
		t.Fatalf("Get = %q, %v", got, err)
	}
	if err := kv.Set(ctx, "k", []byte(`{"a":1}`)); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	if got, _ := kv.Get(ctx, "k"); string(got) != `{"a":1}` {
		t.Fatalf("Get after overwrite = %q", got)
	}
	if err := kv.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := kv.Get(ctx, "k"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get after delete err = %v", err)
	}
	if err := kv.Delete(ctx, "never-set"); err != nil {
		t.Fatalf("Delete(missing) = %v, want nil", err)
	}
}
