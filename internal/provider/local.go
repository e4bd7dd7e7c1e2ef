package provider

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"parkfinder/internal/domain/entities"
	"parkfinder/internal/geo"
	"parkfinder/internal/recommend"
	"parkfinder/internal/repository"
	"parkfinder/pkg/utils"
)

// Impact deltas below these floors are not worth reporting to the user.
const (
	impactCostFloor = 0.50 // dollars
	impactWalkFloor = 0.03 // km
)

// LocalSource serves candidates from the in-process inventory. Spatial
// filtering goes through the geohash index; live availability comes from
// the repository at query time so simulator updates are always visible.
type LocalSource struct {
	repo     repository.ParkingRepository
	index    *geo.ParkingIndex
	radiusKm float64
	log      *logrus.Entry
}

// NewLocalSource creates a source over the given inventory. Options
// already in the repository are indexed immediately.
func NewLocalSource(repo repository.ParkingRepository, index *geo.ParkingIndex, radiusKm float64) (*LocalSource, error) {
	s := &LocalSource{
		repo:     repo,
		index:    index,
		radiusKm: radiusKm,
		log:      logrus.WithField("component", "local_source"),
	}

	options, err := repo.List(context.Background())
	if err != nil {
		return nil, err
	}
	for _, opt := range options {
		index.Upsert(opt.Name, opt.Location)
	}
	return s, nil
}

// FindCandidates returns the available options within the search radius
// of the destination, each with its drive distance (user to option) and
// estimated cost filled in. An empty result is not an error.
func (s *LocalSource) FindCandidates(ctx context.Context, user, dest entities.Location, durationHours float64) ([]entities.ParkingOption, error) {
	nearby := s.index.FindNearby(dest, s.radiusKm)

	candidates := make([]entities.ParkingOption, 0, len(nearby))
	for _, hit := range nearby {
		opt, err := s.repo.GetByName(ctx, hit.Name)
		if err != nil {
			// Index and inventory briefly disagree during reseeding.
			continue
		}
		if opt.AvailableSpots <= 0 {
			continue
		}
		opt.DriveDistance = geo.DistanceKm(
			user.Latitude, user.Longitude,
			opt.Location.Latitude, opt.Location.Longitude,
		)
		opt.EstimatedCost = utils.RoundCents(opt.PricePerHour * durationHours)
		candidates = append(candidates, opt)
	}

	return candidates, nil
}

// CheckAvailability inspects the currently held option. If it has no
// spots left, the remaining candidates are re-ranked and the best one is
// proposed as a reroute target, with a summary of the cost and walk
// impact. Returns (nil, nil) while the current choice still has spots,
// or when nothing else is available to offer.
func (s *LocalSource) CheckAvailability(ctx context.Context, currentName string, user, dest entities.Location, durationHours float64) (*entities.RerouteSuggestion, error) {
	current, err := s.repo.GetByName(ctx, currentName)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrServiceUnavailable, err)
	}
	if current.AvailableSpots > 0 {
		return nil, nil
	}

	candidates, err := s.FindCandidates(ctx, user, dest, durationHours)
	if err != nil {
		return nil, err
	}
	// The full option must not be suggested back.
	filtered := candidates[:0]
	for _, c := range candidates {
		if c.Name != currentName {
			filtered = append(filtered, c)
		}
	}

	rec, err := recommend.Recommend(dest, filtered, durationHours, entities.DefaultPriceWeight)
	if err != nil {
		// Everything is full; there is nothing to redirect to.
		s.log.WithField("current", currentName).Warn("no reroute target available")
		return nil, nil
	}

	current.WalkDistance = geo.DistanceKm(
		current.Location.Latitude, current.Location.Longitude,
		dest.Latitude, dest.Longitude,
	)
	current.EstimatedCost = utils.RoundCents(current.PricePerHour * durationHours)

	return &entities.RerouteSuggestion{
		Message:    fmt.Sprintf("%s is now full. Redirecting to %s.", currentName, rec.Best.Name),
		TargetName: rec.Best.Name,
		Impact:     describeImpact(current, rec.Best),
	}, nil
}

// ReportPosition logs the telemetry ping. A remote implementation would
// post it to the tracking endpoint; either way the caller ignores the
// outcome.
func (s *LocalSource) ReportPosition(ctx context.Context, userID string, lat, lng float64, ts time.Time) {
	s.log.WithFields(logrus.Fields{
		"user": userID,
		"lat":  lat,
		"lng":  lng,
		"ts":   ts.Format(time.RFC3339),
	}).Debug("position report")
}

// describeImpact summarizes how switching from one option to another
// affects the journey, e.g. "$1.00 more and 240m longer walk".
func describeImpact(from, to entities.ParkingOption) string {
	costDiff := to.EstimatedCost - from.EstimatedCost
	walkDiff := to.WalkDistance - from.WalkDistance

	var parts []string
	if costDiff >= impactCostFloor {
		parts = append(parts, fmt.Sprintf("$%.2f more", costDiff))
	} else if costDiff <= -impactCostFloor {
		parts = append(parts, fmt.Sprintf("$%.2f less", -costDiff))
	}

	if walkDiff >= impactWalkFloor {
		parts = append(parts, fmt.Sprintf("%s longer walk", utils.FormatDistanceKm(walkDiff)))
	} else if walkDiff <= -impactWalkFloor {
		parts = append(parts, fmt.Sprintf("%s shorter walk", utils.FormatDistanceKm(-walkDiff)))
	}

	if len(parts) == 0 {
		return "minimal impact"
	}
	return strings.Join(parts, " and ")
}
