package entities

import "time"

// TripState is the reroute monitor's state for a trip.
type TripState string

const (
	// TripStateIdle means no parking choice is being monitored.
	TripStateIdle TripState = "idle"
	// TripStateMonitoring means the user is en route to an accepted
	// parking choice and position updates are being evaluated.
	TripStateMonitoring TripState = "monitoring"
	// TripStateSuggestionPending means a reroute suggestion has been
	// issued and is waiting for the user to accept or decline.
	TripStateSuggestionPending TripState = "suggestion_pending"
)

// Trip captures one "find parking" session: who asked, where they are
// headed, and the parameters the recommendation was computed with.
// The live monitoring state lives in the trip's reroute monitor, not here.
type Trip struct {
	ID            string    `json:"id"`
	Username      string    `json:"username"`
	Origin        Location  `json:"origin"`
	Destination   Location  `json:"destination"`
	DurationHours float64   `json:"duration_hours"`
	PriceWeight   float64   `json:"price_weight"`
	CreatedAt     time.Time `json:"created_at"`
}
