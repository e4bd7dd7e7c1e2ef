// Package provider defines the external collaborator contract the core
// depends on for parking inventory, plus a local implementation backed
// by the in-memory repository. The core never talks to a network
// transport directly; a remote-service implementation of CandidateSource
// would slot in here without touching the engine or the monitor.
package provider

import (
	"context"
	"errors"
	"time"

	"parkfinder/internal/domain/entities"
)

// ErrServiceUnavailable signals that the candidate source could not be
// reached. Callers surface it as a degraded-mode condition; the core
// never substitutes fabricated data for it.
var ErrServiceUnavailable = errors.New("parking service unavailable")

// CandidateSource supplies parking inventory and availability signals.
type CandidateSource interface {
	// FindCandidates returns the parking options with availability near
	// the destination. The user position is needed to compute each
	// candidate's drive distance.
	FindCandidates(ctx context.Context, user, dest entities.Location, durationHours float64) ([]entities.ParkingOption, error)

	// CheckAvailability re-examines the currently held option and, when
	// it has filled up, proposes a replacement. Returns nil when the
	// current choice still stands.
	CheckAvailability(ctx context.Context, currentName string, user, dest entities.Location, durationHours float64) (*entities.RerouteSuggestion, error)

	// ReportPosition forwards position telemetry. Best-effort: failures
	// are swallowed and must never affect core state.
	ReportPosition(ctx context.Context, userID string, lat, lng float64, ts time.Time)
}
