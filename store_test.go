package crz_test

import (
	"context"
	"reflect"
	"sync"
	"testing"

	"github.com/crznodes/crz"
)

func TestStoreBasicOperations(t *testing.T) {
	ctx := context.Background()
	store := crz.NewStore()

	if _, ok := store.Get(ctx, "missing"); ok {
		t.Error("Expected missing key to be absent")
	}
	if err := store.Set(ctx, "key", 42); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if v, ok := store.Get(ctx, "key"); !ok || v != 42 {
		t.Errorf("Expected 42, got %v", v)
	}
	if err := store.Delete(ctx, "key"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, ok := store.Get(ctx, "key"); ok {
		t.Error("Expected key to be deleted")
	}
}

func TestStoreScope(t *testing.T) {
	ctx := context.Background()
	store := crz.NewStore()
	user := store.Scope("user")
	nested := user.Scope("prefs")

	_ = store.Set(ctx, "name", "root")
	_ = user.Set(ctx, "name", "alice")
	_ = nested.Set(ctx, "theme", "dark")

	if v, _ := store.Get(ctx, "name"); v != "root" {
		t.Errorf("Expected root value, got %v", v)
	}
	if v, _ := user.Get(ctx, "name"); v != "alice" {
		t.Errorf("Expected scoped value, got %v", v)
	}
	if v, _ := store.Get(ctx, "user:prefs:theme"); v != "dark" {
		t.Errorf("Expected nested scope to share the map, got %v", v)
	}
	if got := user.Keys(ctx); !reflect.DeepEqual(got, []string{"name", "prefs:theme"}) {
		t.Errorf("Expected scoped keys, got %v", got)
	}
}

func TestStoreKeysSorted(t *testing.T) {
	ctx := context.Background()
	store := crz.NewStore()
	for _, k := range []string{"c", "a", "b"} {
		_ = store.Set(ctx, k, k)
	}
	if got := store.Keys(ctx); !reflect.DeepEqual(got, []string{"a", "b", "c"}) {
		t.Errorf("Expected sorted keys, got %v", got)
	}
}

func TestStoreConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	store := crz.NewStore()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = store.Set(ctx, crz.OutputKey("n", "0"), i)
			store.Get(ctx, crz.OutputKey("n", "0"))
		}(i)
	}
	wg.Wait()

	if _, ok := store.Get(ctx, "out:n:0"); !ok {
		t.Error("Expected a value after concurrent writes")
	}
}

func TestSetOutputs(t *testing.T) {
	ctx := context.Background()
	desc := &crz.Descriptor{
		Outputs: []crz.OutputSpec{
			{Name: "value", Type: crz.Float},
			{Name: "", Type: crz.Any},
		},
	}

	tests := []struct {
		name string
		desc *crz.Descriptor
		want map[string]any
	}{
		{
			name: "with descriptor",
			desc: desc,
			want: map[string]any{"out:n:0": 1.5, "out:n:value": 1.5, "out:n:1": "x", "out:n:2": true},
		},
		{
			name: "without descriptor",
			want: map[string]any{"out:n:0": 1.5, "out:n:1": "x", "out:n:2": true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := crz.NewStore()
			if err := crz.SetOutputs(ctx, store, "n", tt.desc, crz.Outputs{1.5, "x", true}); err != nil {
				t.Fatalf("SetOutputs failed: %v", err)
			}
			got := make(map[string]any)
			for _, k := range store.Keys(ctx) {
				got[k], _ = store.Get(ctx, k)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Expected %v, got %v", tt.want, got)
			}
		})
	}
}
