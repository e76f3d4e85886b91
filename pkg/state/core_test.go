package state_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/tair/storefront-state/pkg/state"
	"github.com/tair/storefront-state/pkg/storage"
)

type tally struct {
	Values []int `json:"values"`
	Total  int   `json:"total"`
}

func emptyTally() tally {
	return tally{Values: []int{}}
}

func appendValue(v int) func(tally) tally {
	return func(cur tally) tally {
		values := append(append([]int{}, cur.Values...), v)
		return tally{Values: values, Total: cur.Total + v}
	}
}

func TestCore_ViewIsGatedUntilRehydrate(t *testing.T) {
	core := state.NewCore("tally", emptyTally(), nil)
	defer core.Close()

	core.Update(appendValue(7))

	if core.Hydrated() {
		t.Fatal("Hydrated() = true before Rehydrate")
	}
	if got := core.View(); got.Total != 0 || len(got.Values) != 0 {
		t.Fatalf("pre-hydration View() = %+v, want empty", got)
	}

	core.Rehydrate(context.Background())

	if !core.Hydrated() {
		t.Fatal("Hydrated() = false after Rehydrate")
	}
	if got := core.View(); got.Total != 7 {
		t.Fatalf("post-hydration View().Total = %d, want 7", got.Total)
	}
}

func TestCore_RehydrateRestoresPersistedSnapshot(t *testing.T) {
	snapshots := storage.NewMemoryStore()
	payload, err := json.Marshal(tally{Values: []int{3, 4}, Total: 7})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if err := snapshots.Save(context.Background(), "tally", payload); err != nil {
		t.Fatalf("Save: %v", err)
	}

	core := state.NewCore("tally", emptyTally(), snapshots)
	defer core.Close()

	core.Rehydrate(context.Background())

	got := core.View()
	if got.Total != 7 || len(got.Values) != 2 {
		t.Fatalf("View() = %+v, want restored snapshot", got)
	}
}

func TestCore_RehydrateIsIdempotent(t *testing.T) {
	snapshots := storage.NewMemoryStore()
	payload, _ := json.Marshal(tally{Values: []int{5}, Total: 5})
	snapshots.Save(context.Background(), "tally", payload)

	core := state.NewCore("tally", emptyTally(), snapshots)
	defer core.Close()

	core.Rehydrate(context.Background())
	first := core.View()
	core.Rehydrate(context.Background())
	second := core.View()

	if first.Total != second.Total || len(first.Values) != len(second.Values) {
		t.Fatalf("repeated Rehydrate changed state: %+v vs %+v", first, second)
	}
}

func TestCore_RehydrateMalformedPayloadFallsBackToEmpty(t *testing.T) {
	snapshots := storage.NewMemoryStore()
	snapshots.Save(context.Background(), "tally", []byte("{not json"))

	core := state.NewCore("tally", emptyTally(), snapshots)
	defer core.Close()

	core.Rehydrate(context.Background())

	if !core.Hydrated() {
		t.Fatal("Hydrated() = false after Rehydrate with malformed payload")
	}
	if got := core.View(); got.Total != 0 || len(got.Values) != 0 {
		t.Fatalf("View() = %+v, want empty after malformed payload", got)
	}
}

func TestCore_CommitPersistsSnapshot(t *testing.T) {
	snapshots := storage.NewMemoryStore()
	core := state.NewCore("tally", emptyTally(), snapshots)

	core.Rehydrate(context.Background())
	core.Update(appendValue(2))
	core.Update(appendValue(3))
	core.Close()

	payload, ok, err := snapshots.Load(context.Background(), "tally")
	if err != nil || !ok {
		t.Fatalf("Load = ok=%v err=%v, want persisted snapshot", ok, err)
	}

	var persisted tally
	if err := json.Unmarshal(payload, &persisted); err != nil {
		t.Fatalf("Unmarshal persisted payload: %v", err)
	}
	if persisted.Total != 5 || len(persisted.Values) != 2 {
		t.Fatalf("persisted snapshot = %+v, want total 5 with 2 values", persisted)
	}
}

func TestCore_RejectedCommitLeavesEverythingUntouched(t *testing.T) {
	snapshots := storage.NewMemoryStore()
	core := state.NewCore("tally", emptyTally(), snapshots)
	core.Rehydrate(context.Background())

	notified := 0
	cancel := state.Subscribe(core, func(s tally) int { return s.Total }, func(int) {
		notified++
	})
	defer cancel()

	ok := core.Commit(func(cur tally) (tally, bool) {
		return appendValue(100)(cur), false
	})
	core.Close()

	if ok {
		t.Fatal("Commit returned true for a rejected mutation")
	}
	if got := core.View(); got.Total != 0 {
		t.Fatalf("View().Total = %d after rejected commit, want 0", got.Total)
	}
	if notified != 0 {
		t.Fatalf("subscriber ran %d times after rejected commit, want 0", notified)
	}
	if _, found, _ := snapshots.Load(context.Background(), "tally"); found {
		t.Fatal("rejected commit was persisted")
	}
}
