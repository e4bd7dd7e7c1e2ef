package services

import (
	"errors"
	"fmt"
	"sync"

	"parkfinder/internal/config"
	"parkfinder/internal/domain/entities"
	"parkfinder/internal/geo"
	"parkfinder/internal/recommend"
	"parkfinder/pkg/utils"
)

var (
	// ErrNoSuggestionPending is returned by Accept/Decline when there is
	// nothing to decide on.
	ErrNoSuggestionPending = errors.New("no reroute suggestion pending")
	// ErrWrongTarget is returned by Accept when the offered option does
	// not match the pending suggestion's target.
	ErrWrongTarget = errors.New("option does not match the suggested target")
)

// MonitorEvent is the outcome of one position evaluation. At most one
// of the fields is set: AlmostThere when the user is within the arrival
// radius of the current choice, Suggestion when a reroute was proposed.
type MonitorEvent struct {
	AlmostThere bool
	Suggestion  *entities.RerouteSuggestion
}

// RerouteMonitor is the per-trip state machine that decides when a
// better parking option has emerged. States: Idle (nothing held),
// Monitoring (en route to the current choice), SuggestionPending (a
// proposal awaits accept/decline).
//
// Two trigger sources feed the same machine: live position updates
// (UpdatePosition) and the periodic availability poll (ApplySuggestion).
// A mutex serializes them, so a position update can never interleave
// with a poll's read-modify-write of the current choice.
//
// Hysteresis keeps the machine from flapping on GPS noise: an
// alternative must be more than HysteresisKm closer than the current
// choice to trigger, and position updates that move less than
// MinMovementKm from the last evaluated position are ignored outright.
type RerouteMonitor struct {
	mu  sync.Mutex
	cfg config.RerouteConfig

	state         entities.TripState
	destination   entities.Location
	durationHours float64
	current       entities.ParkingOption
	alternatives  []entities.ScoredOption

	lastEval   entities.Location
	hasEval    bool
	suggestion *entities.RerouteSuggestion

	// declined holds targets the user turned down since the last
	// position change. Both trigger paths honor it: the position path
	// cannot re-evaluate without movement, and ApplySuggestion rejects
	// these names outright, so a level-triggered availability poll
	// cannot nag with the same proposal every cycle.
	declined map[string]struct{}
}

// NewRerouteMonitor creates a monitor in the Idle state.
func NewRerouteMonitor(cfg config.RerouteConfig) *RerouteMonitor {
	return &RerouteMonitor{
		cfg:   cfg,
		state: entities.TripStateIdle,
	}
}

// Begin transitions Idle -> Monitoring with an accepted recommendation.
// The alternatives slice is copied; the caller keeps ownership of its own.
func (m *RerouteMonitor) Begin(current entities.ParkingOption, alternatives []entities.ScoredOption, dest entities.Location, durationHours float64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.state = entities.TripStateMonitoring
	m.current = current
	m.alternatives = append([]entities.ScoredOption(nil), alternatives...)
	m.destination = dest
	m.durationHours = durationHours
	m.hasEval = false
	m.suggestion = nil
	m.declined = nil
}

// UpdatePosition evaluates a live position against the current choice
// and the alternative set. Returns nil when nothing noteworthy happened:
// the monitor is not Monitoring, the move was below the jitter floor, or
// no alternative cleared the hysteresis margin.
func (m *RerouteMonitor) UpdatePosition(pos entities.Location) *MonitorEvent {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state != entities.TripStateMonitoring {
		return nil
	}

	if m.hasEval {
		moved := geo.DistanceKm(pos.Latitude, pos.Longitude, m.lastEval.Latitude, m.lastEval.Longitude)
		if moved < m.cfg.MinMovementKm {
			return nil
		}
	}
	m.lastEval = pos
	m.hasEval = true
	// Movement resets declined targets; they are back in play.
	m.declined = nil

	distToCurrent := geo.DistanceKm(
		pos.Latitude, pos.Longitude,
		m.current.Location.Latitude, m.current.Location.Longitude,
	)

	// Arrival imminent: no reroute is considered this close.
	if distToCurrent < m.cfg.ArrivalRadiusKm {
		return &MonitorEvent{AlmostThere: true}
	}

	// First qualifying alternative wins, in ranking order. Not the
	// globally closest: the ranking already encodes the user's
	// price/distance preference.
	for _, alt := range m.alternatives {
		if alt.Option.Name == m.current.Name {
			continue
		}
		distToAlt := geo.DistanceKm(
			pos.Latitude, pos.Longitude,
			alt.Option.Location.Latitude, alt.Option.Location.Longitude,
		)
		if distToCurrent-distToAlt > m.cfg.HysteresisKm {
			s := &entities.RerouteSuggestion{
				Message: fmt.Sprintf("%s is now %s closer than %s from your position.",
					alt.Option.Name,
					utils.FormatDistanceKm(distToCurrent-distToAlt),
					m.current.Name),
				TargetName: alt.Option.Name,
				Impact:     recommend.CompareToBest(alt.Option, m.current),
			}
			m.suggestion = s
			m.state = entities.TripStateSuggestionPending
			return &MonitorEvent{Suggestion: s}
		}
	}

	return nil
}

// ApplySuggestion feeds an externally produced suggestion (availability
// poll path) through the same state machine. Returns false when the
// monitor is not Monitoring, the suggestion targets the option already
// held, or the target was declined since the last position change.
func (m *RerouteMonitor) ApplySuggestion(s *entities.RerouteSuggestion) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state != entities.TripStateMonitoring || s == nil {
		return false
	}
	if s.TargetName == m.current.Name {
		return false
	}
	if _, wasDeclined := m.declined[s.TargetName]; wasDeclined {
		return false
	}

	m.suggestion = s
	m.state = entities.TripStateSuggestionPending
	return true
}

// Accept resolves the pending suggestion by switching to the target
// option. The previous choice joins the alternatives so it stays
// eligible for future evaluations.
func (m *RerouteMonitor) Accept(target entities.ParkingOption) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state != entities.TripStateSuggestionPending || m.suggestion == nil {
		return ErrNoSuggestionPending
	}
	if target.Name != m.suggestion.TargetName {
		return ErrWrongTarget
	}

	previous := m.current
	m.current = target

	kept := make([]entities.ScoredOption, 0, len(m.alternatives))
	for _, alt := range m.alternatives {
		if alt.Option.Name != target.Name {
			kept = append(kept, alt)
		}
	}
	kept = append(kept, entities.ScoredOption{
		Option: previous,
		Reason: "previously selected",
	})
	m.alternatives = kept

	m.suggestion = nil
	m.state = entities.TripStateMonitoring
	return nil
}

// Decline discards the pending suggestion and keeps the current choice.
// The declined target is remembered until the user moves again, so
// neither trigger path can re-propose it from a standstill.
func (m *RerouteMonitor) Decline() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state != entities.TripStateSuggestionPending {
		return ErrNoSuggestionPending
	}

	if m.declined == nil {
		m.declined = make(map[string]struct{})
	}
	m.declined[m.suggestion.TargetName] = struct{}{}

	m.suggestion = nil
	m.state = entities.TripStateMonitoring
	return nil
}

// Complete ends monitoring (trip finished or cancelled) and returns the
// monitor to Idle.
func (m *RerouteMonitor) Complete() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.state = entities.TripStateIdle
	m.alternatives = nil
	m.suggestion = nil
	m.hasEval = false
	m.declined = nil
}

// State returns the current machine state.
func (m *RerouteMonitor) State() entities.TripState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Current returns the currently held parking option.
func (m *RerouteMonitor) Current() entities.ParkingOption {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current
}

// Alternatives returns a copy of the alternative set.
func (m *RerouteMonitor) Alternatives() []entities.ScoredOption {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]entities.ScoredOption(nil), m.alternatives...)
}

// Suggestion returns the pending suggestion, or nil.
func (m *RerouteMonitor) Suggestion() *entities.RerouteSuggestion {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.suggestion
}

// LastPosition returns the most recently evaluated position, if any.
func (m *RerouteMonitor) LastPosition() (entities.Location, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastEval, m.hasEval
}
