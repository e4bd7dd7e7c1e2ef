// Package memory provides RWMutex-guarded in-memory implementations of
// the repository interfaces. Values are stored and returned by copy so
// callers never share mutable state with the repository.
package memory

import (
	"context"
	"errors"
	"sync"

	"parkfinder/internal/domain/entities"
)

var ErrOptionNotFound = errors.New("parking option not found")

// ParkingRepository stores parking options keyed by name. Reads
// dominate (every recommendation and poll), writes come from seeding
// and the occupancy simulator.
type ParkingRepository struct {
	mu      sync.RWMutex
	options map[string]entities.ParkingOption
	order   []string // insertion order, for deterministic listings
}

func NewParkingRepository() *ParkingRepository {
	return &ParkingRepository{
		options: make(map[string]entities.ParkingOption),
	}
}

func (r *ParkingRepository) Upsert(ctx context.Context, option entities.ParkingOption) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.options[option.Name]; !exists {
		r.order = append(r.order, option.Name)
	}
	r.options[option.Name] = option
	return nil
}

func (r *ParkingRepository) GetByName(ctx context.Context, name string) (entities.ParkingOption, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	option, exists := r.options[name]
	if !exists {
		return entities.ParkingOption{}, ErrOptionNotFound
	}
	return option, nil
}

func (r *ParkingRepository) List(ctx context.Context) ([]entities.ParkingOption, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]entities.ParkingOption, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.options[name])
	}
	return out, nil
}

func (r *ParkingRepository) ListAvailable(ctx context.Context) ([]entities.ParkingOption, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]entities.ParkingOption, 0, len(r.order))
	for _, name := range r.order {
		if r.options[name].AvailableSpots > 0 {
			out = append(out, r.options[name])
		}
	}
	return out, nil
}

// AdjustAvailability applies a delta to an option's available spots,
// clamped to [0, TotalSpots], and returns the updated option.
func (r *ParkingRepository) AdjustAvailability(ctx context.Context, name string, delta int) (entities.ParkingOption, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	option, exists := r.options[name]
	if !exists {
		return entities.ParkingOption{}, ErrOptionNotFound
	}

	spots := option.AvailableSpots + delta
	if spots < 0 {
		spots = 0
	}
	if spots > option.TotalSpots {
		spots = option.TotalSpots
	}
	option.AvailableSpots = spots
	r.options[name] = option

	return option, nil
}
