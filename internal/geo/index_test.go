package geo

import (
	"testing"

	"parkfinder/internal/domain/entities"
)

func TestParkingIndex_UpsertAndCount(t *testing.T) {
	ix := NewParkingIndex(6)

	ix.Upsert("Garage A", entities.NewLocation(40.4405, -79.9959))
	ix.Upsert("Garage B", entities.NewLocation(40.4415, -79.9930))

	if ix.Count() != 2 {
		t.Errorf("Expected count 2, got %d", ix.Count())
	}

	// Re-upserting the same option must not duplicate it.
	ix.Upsert("Garage A", entities.NewLocation(40.4406, -79.9958))
	if ix.Count() != 2 {
		t.Errorf("Expected count 2 after re-upsert, got %d", ix.Count())
	}
}

func TestParkingIndex_FindNearby(t *testing.T) {
	ix := NewParkingIndex(6)

	ix.Upsert("Garage A", entities.NewLocation(40.4405, -79.9959))
	ix.Upsert("Garage B", entities.NewLocation(40.4415, -79.9930))
	ix.Upsert("Far Lot", entities.NewLocation(40.6000, -79.5000))

	dest := entities.NewLocation(40.4425, -79.9945)
	nearby := ix.FindNearby(dest, 2.0)

	if len(nearby) != 2 {
		t.Fatalf("Expected 2 nearby options, got %d", len(nearby))
	}
	for _, o := range nearby {
		if o.Name == "Far Lot" {
			t.Error("Far Lot should be outside the search radius")
		}
	}
	if nearby[0].Distance > nearby[1].Distance {
		t.Error("Expected results sorted nearest first")
	}
}

func TestParkingIndex_FindNearby_Empty(t *testing.T) {
	ix := NewParkingIndex(6)

	nearby := ix.FindNearby(entities.NewLocation(40.44, -79.99), 5.0)
	if len(nearby) != 0 {
		t.Errorf("Expected no results from empty index, got %d", len(nearby))
	}
}

func TestGeohash_EncodeDecodeRoundTrip(t *testing.T) {
	lat, lng := 40.4392, -80.0003
	hash := Encode(lat, lng, 8)

	gotLat, gotLng := Decode(hash)
	if diff := gotLat - lat; diff > 0.001 || diff < -0.001 {
		t.Errorf("Decoded lat %f too far from %f", gotLat, lat)
	}
	if diff := gotLng - lng; diff > 0.001 || diff < -0.001 {
		t.Errorf("Decoded lng %f too far from %f", gotLng, lng)
	}
}

func TestGeohash_NearbyPointsSharePrefix(t *testing.T) {
	a := Encode(40.4405, -79.9959, 6)
	b := Encode(40.4415, -79.9930, 6)

	if a[:4] != b[:4] {
		t.Errorf("Expected nearby points to share a prefix: %s vs %s", a, b)
	}
}

func TestGeohash_AllNeighborsCount(t *testing.T) {
	cells := AllNeighbors(Encode(40.4405, -79.9959, 6))
	if len(cells) != 9 {
		t.Fatalf("Expected 9 cells, got %d", len(cells))
	}

	seen := make(map[string]bool)
	for _, c := range cells {
		if seen[c] {
			t.Errorf("Duplicate neighbor cell %s", c)
		}
		seen[c] = true
	}
}
