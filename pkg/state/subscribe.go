package state

import "reflect"

// Subscribe registers fn against the slice of state produced by selector.
// fn runs only when a commit or hydration changes the selected value,
// compared structurally, so a subscriber bound to one product's quantity is
// not woken when an unrelated entry changes.
//
// Selectors observe the gated view: before hydration they see the empty
// snapshot, and the hydration flip itself is delivered as a change. The
// returned function cancels the subscription.
func Subscribe[S, V any](c *Core[S], selector func(S) V, fn func(V)) func() {
	last := selector(c.View())

	c.notifyMu.Lock()
	id := c.nextSub
	c.nextSub++
	c.subs[id] = func(view S) {
		next := selector(view)
		if reflect.DeepEqual(next, last) {
			return
		}
		last = next
		fn(next)
	}
	c.notifyMu.Unlock()

	return func() {
		c.notifyMu.Lock()
		delete(c.subs, id)
		c.notifyMu.Unlock()
	}
}
