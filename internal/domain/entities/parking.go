package entities

// ParkingOption describes one parking facility offered to the user.
// Inventory data (name, address, price, capacity) comes from the
// candidate source; the distance and cost fields are filled in when the
// option is evaluated against a concrete user position and destination.
// Distances are in kilometers.
type ParkingOption struct {
	Name           string   `json:"name"`
	Address        string   `json:"address"`
	Type           string   `json:"type"`
	Location       Location `json:"location"`
	PricePerHour   float64  `json:"price_per_hour"`
	EstimatedCost  float64  `json:"estimated_cost"`
	AvailableSpots int      `json:"available_spots"`
	TotalSpots     int      `json:"total_spots"`
	DriveDistance  float64  `json:"drive_distance_km"`
	WalkDistance   float64  `json:"walk_distance_km"`
	PaymentMethods []string `json:"payment_methods"`
}

// ScoredOption pairs a candidate with its computed score and a
// human-readable reason comparing it to the recommended best option.
// Scores are recomputed on every recommendation request; lower is better.
type ScoredOption struct {
	Option ParkingOption `json:"option"`
	Score  float64       `json:"score"`
	Reason string        `json:"reason"`
}

// RerouteSuggestion proposes switching the active parking choice to a
// different option. It is created by the reroute monitor (or by the
// availability checker) and consumed exactly once by accept or decline.
type RerouteSuggestion struct {
	Message    string `json:"message"`
	TargetName string `json:"target_name"`
	Impact     string `json:"impact"`
}
