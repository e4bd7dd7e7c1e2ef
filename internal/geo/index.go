package geo

import (
	"sort"
	"sync"

	"parkfinder/internal/domain/entities"
)

// OptionWithDistance pairs a parking option name and position with its
// computed distance (km) from a query point.
type OptionWithDistance struct {
	Name     string
	Location entities.Location
	Distance float64
}

// ParkingIndex buckets parking option positions by geohash cell so that
// "options near this destination" queries only scan the center cell and
// its 8 neighbors instead of the whole inventory. Options rarely move,
// so the index is write-once-read-many; an RWMutex keeps concurrent
// searches cheap.
type ParkingIndex struct {
	mu        sync.RWMutex
	precision int
	options   map[string]map[string]entities.Location // geohash -> name -> position
}

// NewParkingIndex creates an empty index with the given geohash precision.
func NewParkingIndex(precision int) *ParkingIndex {
	return &ParkingIndex{
		precision: precision,
		options:   make(map[string]map[string]entities.Location),
	}
}

// Upsert adds an option position to the index, moving it between cells
// if it was previously indexed elsewhere.
func (ix *ParkingIndex) Upsert(name string, loc entities.Location) {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	hash := Encode(loc.Latitude, loc.Longitude, ix.precision)

	for gh, cell := range ix.options {
		if _, exists := cell[name]; exists {
			if gh == hash {
				cell[name] = loc
				return
			}
			delete(cell, name)
			if len(cell) == 0 {
				delete(ix.options, gh)
			}
			break
		}
	}

	if _, exists := ix.options[hash]; !exists {
		ix.options[hash] = make(map[string]entities.Location)
	}
	ix.options[hash][name] = loc
}

// FindNearby returns all indexed options within radiusKm of the query
// point, sorted nearest first.
func (ix *ParkingIndex) FindNearby(loc entities.Location, radiusKm float64) []OptionWithDistance {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	center := Encode(loc.Latitude, loc.Longitude, ix.precision)

	var results []OptionWithDistance
	for _, gh := range AllNeighbors(center) {
		cell, exists := ix.options[gh]
		if !exists {
			continue
		}
		for name, pos := range cell {
			d := DistanceKm(loc.Latitude, loc.Longitude, pos.Latitude, pos.Longitude)
			if d <= radiusKm {
				results = append(results, OptionWithDistance{
					Name:     name,
					Location: pos,
					Distance: d,
				})
			}
		}
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Distance != results[j].Distance {
			return results[i].Distance < results[j].Distance
		}
		return results[i].Name < results[j].Name
	})

	return results
}

// Count returns the number of indexed options.
func (ix *ParkingIndex) Count() int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	count := 0
	for _, cell := range ix.options {
		count += len(cell)
	}
	return count
}
