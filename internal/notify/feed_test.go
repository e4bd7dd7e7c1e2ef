package notify

import (
	"fmt"
	"testing"

	"parkfinder/internal/domain/entities"
)

func TestFeed_AppendNewestFirst(t *testing.T) {
	feed := NewFeed(8)

	feed.Append("first", entities.SeverityInfo)
	feed.Append("second", entities.SeveritySuccess)

	entries := feed.Entries()
	if len(entries) != 2 {
		t.Fatalf("Expected 2 entries, got %d", len(entries))
	}
	if entries[0].Message != "second" {
		t.Errorf("Expected newest entry first, got %q", entries[0].Message)
	}
	if entries[0].Severity != entities.SeveritySuccess {
		t.Errorf("Expected severity success, got %s", entries[0].Severity)
	}
}

func TestFeed_MonotonicIDs(t *testing.T) {
	feed := NewFeed(8)

	var last uint64
	for i := 0; i < 5; i++ {
		e := feed.Append("msg", entities.SeverityInfo)
		if e.ID <= last {
			t.Errorf("Expected strictly increasing IDs, got %d after %d", e.ID, last)
		}
		last = e.ID
	}
}

func TestFeed_CapacityEviction(t *testing.T) {
	feed := NewFeed(8)

	for i := 1; i <= 9; i++ {
		feed.Append(fmt.Sprintf("msg-%d", i), entities.SeverityInfo)
	}

	entries := feed.Entries()
	if len(entries) != 8 {
		t.Fatalf("Expected feed bounded at 8 entries, got %d", len(entries))
	}
	if entries[0].Message != "msg-9" {
		t.Errorf("Expected newest entry msg-9 first, got %q", entries[0].Message)
	}
	for _, e := range entries {
		if e.Message == "msg-1" {
			t.Error("Expected the oldest entry to be evicted")
		}
	}
}

func TestFeed_DefaultCapacity(t *testing.T) {
	feed := NewFeed(0)

	for i := 0; i < 20; i++ {
		feed.Append("msg", entities.SeverityWarning)
	}
	if feed.Len() != DefaultCapacity {
		t.Errorf("Expected default capacity %d, got %d", DefaultCapacity, feed.Len())
	}
}
