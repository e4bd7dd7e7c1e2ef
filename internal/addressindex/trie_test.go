package addressindex

import (
	"fmt"
	"testing"
)

func TestIndex_InsertAndSearch(t *testing.T) {
	ix := New()

	if err := ix.Insert("Market Square", 40.4392, -80.0003); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	results := ix.Search("mark")
	if len(results) != 1 {
		t.Fatalf("Expected 1 result, got %d", len(results))
	}
	if results[0].Text != "Market Square" {
		t.Errorf("Expected original casing preserved, got %q", results[0].Text)
	}
	if results[0].Lat != 40.4392 || results[0].Lng != -80.0003 {
		t.Errorf("Unexpected coordinates: %f, %f", results[0].Lat, results[0].Lng)
	}
}

func TestIndex_SearchNoMatch(t *testing.T) {
	ix := New()
	ix.Insert("Market Square", 40.4392, -80.0003)

	results := ix.Search("xyz")
	if len(results) != 0 {
		t.Errorf("Expected empty result for unmatched prefix, got %d entries", len(results))
	}
	// Non-nil so a miss serializes as [] rather than null.
	if results == nil {
		t.Error("Expected an empty slice, got nil")
	}
}

func TestIndex_CaseInsensitivePrefix(t *testing.T) {
	ix := New()
	ix.Insert("Forbes Avenue", 40.4405, -79.9959)

	for _, prefix := range []string{"forbes", "FORBES", "FoRbEs Av"} {
		if results := ix.Search(prefix); len(results) != 1 {
			t.Errorf("Search(%q): expected 1 result, got %d", prefix, len(results))
		}
	}
}

func TestIndex_FullTextIsAPrefixOfItself(t *testing.T) {
	ix := New()
	ix.Insert("Penn Ave", 40.4420, -79.9965)

	if results := ix.Search("Penn Ave"); len(results) != 1 {
		t.Errorf("Expected the exact text to match, got %d results", len(results))
	}
	// A longer query than any stored key matches nothing.
	if results := ix.Search("Penn Avenue"); len(results) != 0 {
		t.Errorf("Expected no match for over-long prefix, got %d results", len(results))
	}
}

func TestIndex_ResultCap(t *testing.T) {
	ix := New()
	for i := 0; i < 10; i++ {
		ix.Insert(fmt.Sprintf("Grant Street %d", i), 40.44, -79.99)
	}

	results := ix.Search("grant")
	if len(results) != MaxResults {
		t.Errorf("Expected results capped at %d, got %d", MaxResults, len(results))
	}
}

func TestIndex_ReinsertOverwrites(t *testing.T) {
	ix := New()
	ix.Insert("Market Square", 40.0, -80.0)
	ix.Insert("Market Square", 40.4392, -80.0003)

	if ix.Len() != 1 {
		t.Errorf("Expected 1 entry after re-insert, got %d", ix.Len())
	}

	results := ix.Search("market")
	if len(results) != 1 {
		t.Fatalf("Expected 1 result, got %d", len(results))
	}
	if results[0].Lat != 40.4392 {
		t.Errorf("Expected last write to win, got lat %f", results[0].Lat)
	}
}

func TestIndex_SharedPrefixes(t *testing.T) {
	ix := New()
	ix.Insert("Oakland District", 40.4430, -79.9940)
	ix.Insert("Oakland Avenue", 40.4410, -79.9550)
	ix.Insert("Penn Ave", 40.4420, -79.9965)

	results := ix.Search("oak")
	if len(results) != 2 {
		t.Fatalf("Expected 2 results for shared prefix, got %d", len(results))
	}
	for _, e := range results {
		if e.Text == "Penn Ave" {
			t.Error("Penn Ave must not match prefix 'oak'")
		}
	}
}

func TestIndex_EmptyPrefixReturnsCappedAll(t *testing.T) {
	ix := New()
	ix.Insert("Fifth Ave", 40.4415, -79.9930)
	ix.Insert("Forbes Ave", 40.4405, -79.9959)

	results := ix.Search("")
	if len(results) != 2 {
		t.Errorf("Expected all entries for empty prefix, got %d", len(results))
	}
}

func TestIndex_InsertRejectsInvalidCoordinates(t *testing.T) {
	ix := New()

	if err := ix.Insert("Nowhere", 91.0, 0.0); err != ErrInvalidCoordinates {
		t.Errorf("Expected ErrInvalidCoordinates for lat 91, got %v", err)
	}
	if err := ix.Insert("Nowhere", 0.0, -181.0); err != ErrInvalidCoordinates {
		t.Errorf("Expected ErrInvalidCoordinates for lng -181, got %v", err)
	}
	if ix.Len() != 0 {
		t.Errorf("Expected no entries stored, got %d", ix.Len())
	}
}
