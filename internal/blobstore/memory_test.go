package blobstore

import (
	"context"
	"errors"
	"testing"
)

func TestMemoryBackendSetGetDelete(t *testing.T) {
	backend := NewMemoryBackend()
	ctx := context.Background()

	if err := backend.Set(ctx, "trips", "t1", []byte(`{"title":"x"}`)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	value, err := backend.Get(ctx, "trips", "t1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(value) != `{"title":"x"}` {
		t.Errorf("unexpected value: %s", value)
	}

	if err := backend.Delete(ctx, "trips", "t1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := backend.Get(ctx, "trips", "t1"); !errors.Is(err, ErrKeyNotFound) {
		t.Errorf("expected ErrKeyNotFound, got: %v", err)
	}
	if err := backend.Delete(ctx, "trips", "t1"); !errors.Is(err, ErrKeyNotFound) {
		t.Errorf("expected ErrKeyNotFound on double delete, got: %v", err)
	}
}

func TestMemoryBackendCollectionsAreIndependent(t *testing.T) {
	backend := NewMemoryBackend()
	ctx := context.Background()

	if err := backend.Set(ctx, "trips", "shared", []byte(`1`)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := backend.Get(ctx, "users", "shared"); !errors.Is(err, ErrKeyNotFound) {
		t.Errorf("expected key to be scoped to its collection, got: %v", err)
	}
}

func TestMemoryBackendListPrefixAndLimit(t *testing.T) {
	backend := NewMemoryBackend()
	ctx := context.Background()

	for _, key := range []string{"a-2", "a-1", "b-1", "a-3"} {
		if err := backend.Set(ctx, "users", key, []byte(`{}`)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	tests := []struct {
		name string
		opts ListOptions
		want []string
	}{
		{"all sorted", ListOptions{}, []string{"a-1", "a-2", "a-3", "b-1"}},
		{"prefix", ListOptions{Prefix: "a-"}, []string{"a-1", "a-2", "a-3"}},
		{"prefix with limit", ListOptions{Prefix: "a-", Limit: 2}, []string{"a-1", "a-2"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			keys, err := backend.List(ctx, "users", tc.opts)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(keys) != len(tc.want) {
				t.Fatalf("expected %d keys, got %d", len(tc.want), len(keys))
			}
			for i, key := range keys {
				if key != tc.want[i] {
					t.Errorf("key %d: expected %s, got %s", i, tc.want[i], key)
				}
			}
		})
	}
}

func TestMemoryBackendGetReturnsCopy(t *testing.T) {
	backend := NewMemoryBackend()
	ctx := context.Background()

	if err := backend.Set(ctx, "users", "u1", []byte(`abc`)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	value, _ := backend.Get(ctx, "users", "u1")
	value[0] = 'X'

	again, _ := backend.Get(ctx, "users", "u1")
	if string(again) != "abc" {
		t.Error("mutating a returned value must not corrupt the stored blob")
	}
}
