package services

import (
	"math"
	"testing"

	"parkfinder/internal/config"
	"parkfinder/internal/domain/entities"
)

// latOffset converts a north-south distance in km to degrees of
// latitude, so test geometry can be stated in kilometers.
func latOffset(km float64) float64 {
	return km / 111.195
}

// lngOffset converts an east-west distance in km to degrees of
// longitude at the test latitude.
func lngOffset(km float64) float64 {
	return km / (111.195 * math.Cos(baseLat*math.Pi/180))
}

const (
	baseLat = 40.0
	baseLng = -80.0
)

func optionAtKm(name string, northKm float64) entities.ParkingOption {
	return entities.ParkingOption{
		Name:     name,
		Location: entities.NewLocation(baseLat+latOffset(northKm), baseLng),
	}
}

func scoredAtKm(name string, northKm float64) entities.ScoredOption {
	return entities.ScoredOption{Option: optionAtKm(name, northKm)}
}

func newTestMonitor(current entities.ParkingOption, alts ...entities.ScoredOption) *RerouteMonitor {
	m := NewRerouteMonitor(config.NewDefaultConfig().Reroute)
	m.Begin(current, alts, entities.NewLocation(baseLat, baseLng), 2)
	return m
}

func TestMonitor_StartsIdleThenMonitoring(t *testing.T) {
	m := NewRerouteMonitor(config.NewDefaultConfig().Reroute)
	if m.State() != entities.TripStateIdle {
		t.Errorf("Expected idle before Begin, got %s", m.State())
	}

	m.Begin(optionAtKm("Garage A", 1.0), nil, entities.NewLocation(baseLat, baseLng), 2)
	if m.State() != entities.TripStateMonitoring {
		t.Errorf("Expected monitoring after Begin, got %s", m.State())
	}
}

func TestMonitor_IdleIgnoresUpdates(t *testing.T) {
	m := NewRerouteMonitor(config.NewDefaultConfig().Reroute)

	if ev := m.UpdatePosition(entities.NewLocation(baseLat, baseLng)); ev != nil {
		t.Errorf("Expected nil event while idle, got %+v", ev)
	}
}

func TestMonitor_HysteresisTriggers(t *testing.T) {
	// Spec geometry: current 1.0 km away, alternative 0.7 km away.
	// Delta 0.3 km clears the 0.2 km hysteresis band.
	m := newTestMonitor(optionAtKm("Garage A", 1.0), scoredAtKm("Garage B", 0.7))

	ev := m.UpdatePosition(entities.NewLocation(baseLat, baseLng))
	if ev == nil || ev.Suggestion == nil {
		t.Fatal("Expected a reroute suggestion")
	}
	if ev.Suggestion.TargetName != "Garage B" {
		t.Errorf("Expected target Garage B, got %s", ev.Suggestion.TargetName)
	}
	if m.State() != entities.TripStateSuggestionPending {
		t.Errorf("Expected suggestion_pending, got %s", m.State())
	}
}

func TestMonitor_HysteresisHolds(t *testing.T) {
	// Alternative at 0.85 km: delta 0.15 km stays inside the band.
	m := newTestMonitor(optionAtKm("Garage A", 1.0), scoredAtKm("Garage B", 0.85))

	if ev := m.UpdatePosition(entities.NewLocation(baseLat, baseLng)); ev != nil {
		t.Errorf("Expected no event inside hysteresis band, got %+v", ev)
	}
	if m.State() != entities.TripStateMonitoring {
		t.Errorf("Expected monitoring, got %s", m.State())
	}
}

func TestMonitor_ArrivalSuppressesReroute(t *testing.T) {
	// Current choice 50 m away; an alternative right on top of the user
	// must not trigger while arrival is imminent.
	m := newTestMonitor(optionAtKm("Garage A", 0.05), scoredAtKm("Garage B", 0.0))

	ev := m.UpdatePosition(entities.NewLocation(baseLat, baseLng))
	if ev == nil || !ev.AlmostThere {
		t.Fatal("Expected an almost-there event")
	}
	if ev.Suggestion != nil {
		t.Error("Expected no suggestion inside the arrival radius")
	}
	if m.State() != entities.TripStateMonitoring {
		t.Errorf("Expected monitoring, got %s", m.State())
	}
}

func TestMonitor_FirstQualifyingAlternativeWins(t *testing.T) {
	// Both alternatives qualify; the first in ranking order is chosen
	// even though the second is closer.
	m := newTestMonitor(
		optionAtKm("Garage A", 1.0),
		scoredAtKm("Garage B", 0.6),
		scoredAtKm("Garage C", 0.2),
	)

	ev := m.UpdatePosition(entities.NewLocation(baseLat, baseLng))
	if ev == nil || ev.Suggestion == nil {
		t.Fatal("Expected a suggestion")
	}
	if ev.Suggestion.TargetName != "Garage B" {
		t.Errorf("Expected first qualifying alternative Garage B, got %s", ev.Suggestion.TargetName)
	}
}

func TestMonitor_NeverSuggestsCurrentOption(t *testing.T) {
	// An alternative entry that duplicates the current choice is skipped.
	m := newTestMonitor(optionAtKm("Garage A", 1.0), scoredAtKm("Garage A", 0.1))

	if ev := m.UpdatePosition(entities.NewLocation(baseLat, baseLng)); ev != nil {
		t.Errorf("Expected no event, got %+v", ev)
	}
}

func TestMonitor_MovementFilterIgnoresJitter(t *testing.T) {
	// Current is 1.0 km north, the alternative 0.85 km east: a 0.15 km
	// gap, inside the hysteresis band.
	alt := entities.ScoredOption{Option: entities.ParkingOption{
		Name:     "Garage B",
		Location: entities.NewLocation(baseLat, baseLng+lngOffset(0.85)),
	}}
	m := newTestMonitor(optionAtKm("Garage A", 1.0), alt)

	if ev := m.UpdatePosition(entities.NewLocation(baseLat, baseLng)); ev != nil {
		t.Fatalf("Setup: expected no event, got %+v", ev)
	}

	// 5 m of drift: below the 10 m floor, not evaluated.
	jitter := entities.NewLocation(baseLat+latOffset(0.005), baseLng)
	if ev := m.UpdatePosition(jitter); ev != nil {
		t.Errorf("Expected jitter to be ignored, got %+v", ev)
	}

	// 500 m east: the alternative is now 0.35 km away while the current
	// choice is over 1.1 km out, so the suggestion fires.
	moved := entities.NewLocation(baseLat, baseLng+lngOffset(0.5))
	ev := m.UpdatePosition(moved)
	if ev == nil || ev.Suggestion == nil {
		t.Error("Expected a suggestion after real movement")
	}
}

func TestMonitor_AcceptSwapsCurrent(t *testing.T) {
	m := newTestMonitor(optionAtKm("Garage A", 1.0), scoredAtKm("Garage B", 0.7))
	ev := m.UpdatePosition(entities.NewLocation(baseLat, baseLng))
	if ev == nil || ev.Suggestion == nil {
		t.Fatal("Setup: expected a suggestion")
	}

	target := optionAtKm("Garage B", 0.7)
	if err := m.Accept(target); err != nil {
		t.Fatalf("Accept failed: %v", err)
	}

	if m.Current().Name != "Garage B" {
		t.Errorf("Expected current Garage B, got %s", m.Current().Name)
	}
	if m.State() != entities.TripStateMonitoring {
		t.Errorf("Expected monitoring after accept, got %s", m.State())
	}
	if m.Suggestion() != nil {
		t.Error("Expected suggestion cleared after accept")
	}

	// The previous choice stays reachable as an alternative.
	found := false
	for _, alt := range m.Alternatives() {
		if alt.Option.Name == "Garage A" {
			found = true
		}
		if alt.Option.Name == "Garage B" {
			t.Error("Accepted target must leave the alternatives")
		}
	}
	if !found {
		t.Error("Expected previous choice among alternatives")
	}
}

func TestMonitor_AcceptValidation(t *testing.T) {
	m := newTestMonitor(optionAtKm("Garage A", 1.0), scoredAtKm("Garage B", 0.7))

	if err := m.Accept(optionAtKm("Garage B", 0.7)); err != ErrNoSuggestionPending {
		t.Errorf("Expected ErrNoSuggestionPending, got %v", err)
	}

	m.UpdatePosition(entities.NewLocation(baseLat, baseLng))
	if err := m.Accept(optionAtKm("Garage C", 0.5)); err != ErrWrongTarget {
		t.Errorf("Expected ErrWrongTarget, got %v", err)
	}
}

func TestMonitor_DeclineHoldsUntilMovement(t *testing.T) {
	m := newTestMonitor(optionAtKm("Garage A", 1.0), scoredAtKm("Garage B", 0.7))
	pos := entities.NewLocation(baseLat, baseLng)

	if ev := m.UpdatePosition(pos); ev == nil || ev.Suggestion == nil {
		t.Fatal("Setup: expected a suggestion")
	}
	if err := m.Decline(); err != nil {
		t.Fatalf("Decline failed: %v", err)
	}
	if m.State() != entities.TripStateMonitoring {
		t.Errorf("Expected monitoring after decline, got %s", m.State())
	}
	if m.Current().Name != "Garage A" {
		t.Errorf("Expected current unchanged, got %s", m.Current().Name)
	}

	// Same position again: inside the movement floor, no re-suggestion.
	if ev := m.UpdatePosition(pos); ev != nil {
		t.Errorf("Expected no re-suggestion without movement, got %+v", ev)
	}

	// After real movement the same target may be suggested again.
	moved := entities.NewLocation(baseLat+latOffset(0.05), baseLng)
	ev := m.UpdatePosition(moved)
	if ev == nil || ev.Suggestion == nil || ev.Suggestion.TargetName != "Garage B" {
		t.Error("Expected the target to become suggestible after movement")
	}
}

func TestMonitor_DeclinedTargetNotReappliedUntilMovement(t *testing.T) {
	m := newTestMonitor(optionAtKm("Garage A", 1.0), scoredAtKm("Garage B", 0.9))

	full := &entities.RerouteSuggestion{TargetName: "Garage B", Message: "Garage A is now full."}
	if !m.ApplySuggestion(full) {
		t.Fatal("Setup: expected suggestion to be applied")
	}
	if err := m.Decline(); err != nil {
		t.Fatalf("Decline failed: %v", err)
	}

	// The poll is level-triggered while the option stays full; a
	// declined target must not come back from a standstill.
	if m.ApplySuggestion(full) {
		t.Error("Expected declined target to be rejected without movement")
	}

	// A different target is still a valid proposal.
	other := &entities.RerouteSuggestion{TargetName: "Garage D", Message: "Garage A is now full."}
	if !m.ApplySuggestion(other) {
		t.Fatal("Expected an undeclined target to be applied")
	}
	if err := m.Decline(); err != nil {
		t.Fatalf("Decline failed: %v", err)
	}
	if m.ApplySuggestion(full) || m.ApplySuggestion(other) {
		t.Error("Expected both declined targets to stay rejected")
	}

	// Movement puts declined targets back in play.
	if ev := m.UpdatePosition(entities.NewLocation(baseLat+latOffset(0.05), baseLng)); ev != nil {
		t.Fatalf("Expected no event at this geometry, got %+v", ev)
	}
	if !m.ApplySuggestion(full) {
		t.Error("Expected target to be suggestible again after movement")
	}
}

func TestMonitor_UpdatesIgnoredWhilePending(t *testing.T) {
	m := newTestMonitor(
		optionAtKm("Garage A", 1.0),
		scoredAtKm("Garage B", 0.7),
		scoredAtKm("Garage C", 0.1),
	)

	ev := m.UpdatePosition(entities.NewLocation(baseLat, baseLng))
	if ev == nil || ev.Suggestion == nil {
		t.Fatal("Setup: expected a suggestion")
	}

	moved := entities.NewLocation(baseLat+latOffset(0.1), baseLng)
	if ev := m.UpdatePosition(moved); ev != nil {
		t.Errorf("Expected updates ignored while pending, got %+v", ev)
	}
}

func TestMonitor_ApplySuggestionAvailabilityPath(t *testing.T) {
	m := newTestMonitor(optionAtKm("Garage A", 1.0), scoredAtKm("Garage B", 0.9))

	// Suggesting the held option violates the monitor's invariant.
	self := &entities.RerouteSuggestion{TargetName: "Garage A", Message: "full"}
	if m.ApplySuggestion(self) {
		t.Error("Expected suggestion targeting current option to be rejected")
	}

	other := &entities.RerouteSuggestion{TargetName: "Garage B", Message: "Garage A is now full."}
	if !m.ApplySuggestion(other) {
		t.Fatal("Expected availability suggestion to be applied")
	}
	if m.State() != entities.TripStateSuggestionPending {
		t.Errorf("Expected suggestion_pending, got %s", m.State())
	}

	// A second suggestion cannot pile on while one is pending.
	if m.ApplySuggestion(other) {
		t.Error("Expected no stacking of suggestions")
	}
}

func TestMonitor_CompleteReturnsToIdle(t *testing.T) {
	m := newTestMonitor(optionAtKm("Garage A", 1.0), scoredAtKm("Garage B", 0.7))

	m.Complete()
	if m.State() != entities.TripStateIdle {
		t.Errorf("Expected idle after complete, got %s", m.State())
	}
	if ev := m.UpdatePosition(entities.NewLocation(baseLat, baseLng)); ev != nil {
		t.Errorf("Expected no events after completion, got %+v", ev)
	}
}
