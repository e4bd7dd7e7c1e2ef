// Package recommend ranks parking candidates by a weighted price/distance
// trade-off and selects the best option for a destination.
//
// Each candidate's hourly price is projected to a total cost for the
// requested duration, then cost and drive distance are min-max normalized
// across the candidate set and combined:
//
//	score = priceWeight*normCost + (1-priceWeight)*normDrive
//
// Lower scores are better. A dimension where every candidate shares the
// same value contributes zero to all scores, so a flat price sheet
// degenerates cleanly into a pure distance ranking (and vice versa).
package recommend

import (
	"errors"
	"fmt"
	"strings"

	"parkfinder/internal/domain/entities"
	"parkfinder/internal/geo"
	"parkfinder/pkg/utils"
)

var (
	// ErrNoCandidates is returned when the candidate set is empty.
	ErrNoCandidates = errors.New("no parking candidates available")
	// ErrInvalidDuration is returned when the parking duration is not positive.
	ErrInvalidDuration = errors.New("parking duration must be positive")
)

// Thresholds below which a cost or walk delta is not worth mentioning
// in an alternative's reason text.
const (
	costDeltaFloor = 0.50 // dollars
	walkDeltaFloor = 0.05 // km
)

// Recommendation is the result of one ranking run: the best candidate
// plus every other candidate annotated with its score and a trade-off
// reason relative to the best.
type Recommendation struct {
	Best         entities.ParkingOption  `json:"best"`
	BestScore    float64                 `json:"best_score"`
	Alternatives []entities.ScoredOption `json:"alternatives"`
}

// Recommend scores the candidates against the destination and returns
// the lowest-scoring one as best. Candidates must carry their drive
// distance; walk distance and estimated cost are computed here on copies,
// the input slice is never mutated. priceWeight is clamped to [0, 1].
// Ties keep the earlier candidate, so the ranking is deterministic.
func Recommend(dest entities.Location, candidates []entities.ParkingOption, durationHours, priceWeight float64) (*Recommendation, error) {
	if len(candidates) == 0 {
		return nil, ErrNoCandidates
	}
	if durationHours <= 0 {
		return nil, ErrInvalidDuration
	}
	priceWeight = entities.ClampWeight(priceWeight)

	scored := make([]entities.ParkingOption, len(candidates))
	copy(scored, candidates)

	minCost, maxCost := 0.0, 0.0
	minDrive, maxDrive := 0.0, 0.0
	for i := range scored {
		scored[i].EstimatedCost = utils.RoundCents(scored[i].PricePerHour * durationHours)
		scored[i].WalkDistance = geo.DistanceKm(
			scored[i].Location.Latitude, scored[i].Location.Longitude,
			dest.Latitude, dest.Longitude,
		)

		if i == 0 {
			minCost, maxCost = scored[i].EstimatedCost, scored[i].EstimatedCost
			minDrive, maxDrive = scored[i].DriveDistance, scored[i].DriveDistance
			continue
		}
		if scored[i].EstimatedCost < minCost {
			minCost = scored[i].EstimatedCost
		}
		if scored[i].EstimatedCost > maxCost {
			maxCost = scored[i].EstimatedCost
		}
		if scored[i].DriveDistance < minDrive {
			minDrive = scored[i].DriveDistance
		}
		if scored[i].DriveDistance > maxDrive {
			maxDrive = scored[i].DriveDistance
		}
	}

	costRange := maxCost - minCost
	driveRange := maxDrive - minDrive

	scores := make([]float64, len(scored))
	bestIdx := 0
	for i := range scored {
		var normCost, normDrive float64
		if costRange > 0 {
			normCost = (scored[i].EstimatedCost - minCost) / costRange
		}
		if driveRange > 0 {
			normDrive = (scored[i].DriveDistance - minDrive) / driveRange
		}
		scores[i] = priceWeight*normCost + (1-priceWeight)*normDrive
		if scores[i] < scores[bestIdx] {
			bestIdx = i
		}
	}

	best := scored[bestIdx]
	alternatives := make([]entities.ScoredOption, 0, len(scored)-1)
	for i := range scored {
		if i == bestIdx {
			continue
		}
		alternatives = append(alternatives, entities.ScoredOption{
			Option: scored[i],
			Score:  scores[i],
			Reason: CompareToBest(scored[i], best),
		})
	}

	return &Recommendation{
		Best:         best,
		BestScore:    scores[bestIdx],
		Alternatives: alternatives,
	}, nil
}

// CompareToBest builds a human-readable reason describing how an
// alternative trades off against the chosen option, e.g.
// "saves $1.50, 320m longer walk". Deltas too small to matter are left
// out; if nothing is worth mentioning the option is "similar option".
func CompareToBest(alt, best entities.ParkingOption) string {
	costDiff := alt.EstimatedCost - best.EstimatedCost
	walkDiff := alt.WalkDistance - best.WalkDistance

	var parts []string
	if costDiff <= -costDeltaFloor {
		parts = append(parts, fmt.Sprintf("saves $%.2f", -costDiff))
	} else if costDiff >= costDeltaFloor {
		parts = append(parts, fmt.Sprintf("costs $%.2f more", costDiff))
	}

	if walkDiff <= -walkDeltaFloor {
		parts = append(parts, fmt.Sprintf("%s shorter walk", utils.FormatDistanceKm(-walkDiff)))
	} else if walkDiff >= walkDeltaFloor {
		parts = append(parts, fmt.Sprintf("%s longer walk", utils.FormatDistanceKm(walkDiff)))
	}

	if len(parts) == 0 {
		return "similar option"
	}
	return strings.Join(parts, ", ")
}
