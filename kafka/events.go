package kafka

import "time"

// StoreChangedEvent is emitted whenever a store commits a mutation or
// completes hydration. It carries the committed aggregates, not the full
// snapshot; consumers that need entries read the store's own API.
type StoreChangedEvent struct {
	EventID    string    `json:"event_id"`
	EventType  string    `json:"event_type"`
	Store      string    `json:"store"`
	ItemCount  int       `json:"item_count"`
	TotalItems int       `json:"total_items"`
	TotalPrice float64   `json:"total_price"`
	Timestamp  time.Time `json:"timestamp"`
}

// Event types
const (
	EventTypeStoreChanged = "store.changed"
)

// Kafka topics
const (
	TopicCartChanged     = "cart-changed"
	TopicWishlistChanged = "wishlist-changed"
	TopicCompareChanged  = "compare-changed"
)
