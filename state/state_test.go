package state_test

import (
	"context"
	"errors"
	"testing"

	"github.com/artpar/tokengate/adapters/memory"
	"github.com/artpar/tokengate/ports"
	"github.com/artpar/tokengate/state"
)

type record struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestItem_SaveLoad(t *testing.T) {
	st := memory.NewKVStore()
	ctx := context.Background()
	item := state.NewItem[record]([]byte("a"))

	if _, err := item.Load(ctx, st); !errors.Is(err, state.ErrNotFound) {
		t.Fatalf("Load() before Save = %v, want ErrNotFound", err)
	}
	if ok, _ := item.Exists(ctx, st); ok {
		t.Fatal("Exists() before Save = true")
	}

	want := record{Name: "x", Count: 3}
	if err := item.Save(ctx, st, want); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	got, err := item.Load(ctx, st)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got != want {
		t.Errorf("Load() = %+v, want %+v", got, want)
	}
}

func TestMap_CRUD(t *testing.T) {
	st := memory.NewKVStore()
	ctx := context.Background()
	m := state.NewMap[record]([]byte("b"))

	if _, err := m.Get(ctx, st, "k"); !errors.Is(err, state.ErrNotFound) {
		t.Fatalf("Get() on empty map = %v, want ErrNotFound", err)
	}

	if err := m.Set(ctx, st, "k", record{Name: "v"}); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if ok, _ := m.Has(ctx, st, "k"); !ok {
		t.Fatal("Has() after Set = false")
	}
	if err := m.Delete(ctx, st, "k"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if ok, _ := m.Has(ctx, st, "k"); ok {
		t.Fatal("Has() after Delete = true")
	}
	// deleting an absent key is fine
	if err := m.Delete(ctx, st, "k"); err != nil {
		t.Fatalf("Delete() of absent key = %v", err)
	}
}

func TestMap_WalkOrderAndCursor(t *testing.T) {
	st := memory.NewKVStore()
	ctx := context.Background()
	m := state.NewMap[record]([]byte("b"))

	// another prefix must stay invisible to the walk
	other := state.NewMap[record]([]byte("c"))
	if err := other.Set(ctx, st, "zzz", record{}); err != nil {
		t.Fatal(err)
	}

	for _, k := range []string{"uion", "uatom", "uosmo"} {
		if err := m.Set(ctx, st, k, record{Name: k}); err != nil {
			t.Fatal(err)
		}
	}

	var keys []string
	err := m.Walk(ctx, st, "", 0, func(k string, _ record) error {
		keys = append(keys, k)
		return nil
	})
	if err != nil {
		t.Fatalf("Walk() error = %v", err)
	}
	want := []string{"uatom", "uion", "uosmo"}
	if len(keys) != len(want) {
		t.Fatalf("Walk() visited %v, want %v", keys, want)
	}
	for i := range want {
		if keys[i] != want[i] {
			t.Fatalf("Walk() visited %v, want %v", keys, want)
		}
	}

	// exclusive cursor and limit
	keys = nil
	err = m.Walk(ctx, st, "uatom", 1, func(k string, _ record) error {
		keys = append(keys, k)
		return nil
	})
	if err != nil {
		t.Fatalf("Walk() error = %v", err)
	}
	if len(keys) != 1 || keys[0] != "uion" {
		t.Errorf("Walk(after uatom, limit 1) visited %v, want [uion]", keys)
	}

	// early stop
	count := 0
	err = m.Walk(ctx, st, "", 0, func(string, record) error {
		count++
		return ports.ErrStopRange
	})
	if err != nil {
		t.Fatalf("Walk() with stop = %v", err)
	}
	if count != 1 {
		t.Errorf("Walk() with stop visited %d entries, want 1", count)
	}
}
