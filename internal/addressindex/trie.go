// Package addressindex provides incremental prefix search over a small
// set of known addresses. Lookups are backed by a character trie keyed
// by the lower-cased address text, so a search costs O(prefix length +
// results visited) regardless of corpus size beyond the matched subtree.
//
// The index is append-only: entries are seeded at startup and re-inserting
// the same text overwrites the stored entry (last write wins). Absence of
// matches is a valid empty result, not an error.
package addressindex

import (
	"errors"
	"strings"
	"sync"
)

// MaxResults caps how many entries a single search returns. Traversal
// stops as soon as the cap is reached.
const MaxResults = 5

// ErrInvalidCoordinates is returned by Insert for coordinates outside
// lat [-90, 90] or lng [-180, 180].
var ErrInvalidCoordinates = errors.New("coordinates out of range")

// Entry is a stored address with its position. Text keeps the original
// casing as inserted; matching is case-insensitive.
type Entry struct {
	Text string  `json:"text"`
	Lat  float64 `json:"lat"`
	Lng  float64 `json:"lng"`
}

// node is one trie level. Each node is owned exclusively by its parent;
// there are no back-references. order remembers the sequence children
// were created in so traversal is deterministic.
type node struct {
	children map[rune]*node
	order    []rune
	entry    *Entry // non-nil marks a terminal node
}

func newNode() *node {
	return &node{children: make(map[rune]*node)}
}

// Index is the prefix index. Seeding happens once at startup, searches
// come from concurrent HTTP handlers, so reads take the shared lock.
type Index struct {
	mu   sync.RWMutex
	root *node
	size int
}

// New creates an empty index.
func New() *Index {
	return &Index{root: newNode()}
}

// Insert stores text with its coordinates. The key is the lower-cased
// text; inserting the same text twice overwrites the entry at the
// existing terminal node without creating duplicate paths.
func (ix *Index) Insert(text string, lat, lng float64) error {
	if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return ErrInvalidCoordinates
	}

	ix.mu.Lock()
	defer ix.mu.Unlock()

	cur := ix.root
	for _, r := range strings.ToLower(text) {
		child, exists := cur.children[r]
		if !exists {
			child = newNode()
			cur.children[r] = child
			cur.order = append(cur.order, r)
		}
		cur = child
	}

	if cur.entry == nil {
		ix.size++
	}
	cur.entry = &Entry{Text: text, Lat: lat, Lng: lng}
	return nil
}

// Search returns up to MaxResults entries whose text begins with prefix,
// case-insensitively, in pre-order (child-insertion order). A prefix
// with no matching path yields an empty result; there is no fuzzy
// fallback.
func (ix *Index) Search(prefix string) []Entry {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	// Non-nil even when empty, so callers serialize a miss as [].
	results := make([]Entry, 0, MaxResults)

	cur := ix.root
	for _, r := range strings.ToLower(prefix) {
		child, exists := cur.children[r]
		if !exists {
			return results
		}
		cur = child
	}

	collect(cur, &results)
	return results
}

// collect walks the subtree depth-first, appending terminal entries
// until the result cap is hit. Recursion depth is bounded by address
// length.
func collect(n *node, out *[]Entry) {
	if len(*out) >= MaxResults {
		return
	}
	if n.entry != nil {
		*out = append(*out, *n.entry)
	}
	for _, r := range n.order {
		if len(*out) >= MaxResults {
			return
		}
		collect(n.children[r], out)
	}
}

// Len returns the number of stored entries.
func (ix *Index) Len() int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return ix.size
}
