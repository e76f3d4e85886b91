package state_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/tair/storefront-state/pkg/state"
	"github.com/tair/storefront-state/pkg/storage"
)

func TestSubscribe_NotifiesOnlyWhenSelectionChanges(t *testing.T) {
	core := state.NewCore("tally", emptyTally(), nil)
	defer core.Close()
	core.Rehydrate(context.Background())

	var got []int
	cancel := state.Subscribe(core, func(s tally) int { return s.Total }, func(total int) {
		got = append(got, total)
	})
	defer cancel()

	core.Update(appendValue(2))
	// Identity mutation: the selected value is unchanged.
	core.Update(func(cur tally) tally { return cur })
	core.Update(appendValue(3))

	if len(got) != 2 || got[0] != 2 || got[1] != 5 {
		t.Fatalf("notifications = %v, want [2 5]", got)
	}
}

func TestSubscribe_UnrelatedSliceDoesNotNotify(t *testing.T) {
	core := state.NewCore("tally", emptyTally(), nil)
	defer core.Close()
	core.Rehydrate(context.Background())
	core.Update(appendValue(1))

	first := 0
	cancel := state.Subscribe(core, func(s tally) int {
		if len(s.Values) == 0 {
			return 0
		}
		return s.Values[0]
	}, func(int) {
		first++
	})
	defer cancel()

	// Appends change the collection and the total, but not the first value.
	core.Update(appendValue(9))
	core.Update(appendValue(9))

	if first != 0 {
		t.Fatalf("subscriber bound to first value ran %d times, want 0", first)
	}
}

func TestSubscribe_HydrationFlipDeliversRestoredSelection(t *testing.T) {
	snapshots := storage.NewMemoryStore()
	payload, _ := json.Marshal(tally{Values: []int{4, 4}, Total: 8})
	snapshots.Save(context.Background(), "tally", payload)

	core := state.NewCore("tally", emptyTally(), snapshots)
	defer core.Close()

	var got []int
	cancel := state.Subscribe(core, func(s tally) int { return s.Total }, func(total int) {
		got = append(got, total)
	})
	defer cancel()

	core.Rehydrate(context.Background())

	if len(got) != 1 || got[0] != 8 {
		t.Fatalf("hydration notifications = %v, want exactly [8]", got)
	}
}

func TestSubscribe_CancelStopsNotifications(t *testing.T) {
	core := state.NewCore("tally", emptyTally(), nil)
	defer core.Close()
	core.Rehydrate(context.Background())

	runs := 0
	cancel := state.Subscribe(core, func(s tally) int { return s.Total }, func(int) {
		runs++
	})

	core.Update(appendValue(1))
	cancel()
	core.Update(appendValue(1))

	if runs != 1 {
		t.Fatalf("subscriber ran %d times, want 1", runs)
	}
}
