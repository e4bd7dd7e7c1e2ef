// Package notify keeps a bounded, newest-first log of decision events
// (recommendations, reroutes, availability warnings) for observability.
// There is no persistence; the feed is a fixed-size window over recent
// activity.
package notify

import (
	"sync"
	"time"

	"parkfinder/internal/domain/entities"
)

// DefaultCapacity is the number of entries the feed retains.
const DefaultCapacity = 8

// Feed is a bounded notification log. Appends assign monotonically
// increasing IDs and evict the oldest entry once capacity is exceeded.
type Feed struct {
	mu       sync.Mutex
	nextID   uint64
	capacity int
	entries  []entities.NotificationEntry // newest first
}

// NewFeed creates a feed bounded at the given capacity; non-positive
// values fall back to DefaultCapacity.
func NewFeed(capacity int) *Feed {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Feed{
		capacity: capacity,
		entries:  make([]entities.NotificationEntry, 0, capacity),
	}
}

// Append records a new entry at the head of the feed and returns it.
func (f *Feed) Append(message string, severity entities.Severity) entities.NotificationEntry {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.nextID++
	entry := entities.NotificationEntry{
		ID:        f.nextID,
		Message:   message,
		Severity:  severity,
		CreatedAt: time.Now(),
	}

	f.entries = append([]entities.NotificationEntry{entry}, f.entries...)
	if len(f.entries) > f.capacity {
		f.entries = f.entries[:f.capacity]
	}

	return entry
}

// Entries returns a copy of the current feed contents, newest first.
func (f *Feed) Entries() []entities.NotificationEntry {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]entities.NotificationEntry, len(f.entries))
	copy(out, f.entries)
	return out
}

// Len returns the number of retained entries.
func (f *Feed) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.entries)
}
