package services

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"parkfinder/internal/domain/entities"
	"parkfinder/internal/notify"
)

// NotificationService is the sink for decision events: every noteworthy
// outcome is logged and appended to the bounded notification feed. In a
// production deployment the same methods would also fan out to push
// channels.
type NotificationService struct {
	feed *notify.Feed
	log  *logrus.Entry
}

func NewNotificationService(feed *notify.Feed) *NotificationService {
	return &NotificationService{
		feed: feed,
		log:  logrus.WithField("component", "notifications"),
	}
}

// Recommendation records that a trip received its initial recommendation.
func (s *NotificationService) Recommendation(username string, best entities.ParkingOption) {
	msg := fmt.Sprintf("Recommended %s ($%.2f, %d spots available)",
		best.Name, best.EstimatedCost, best.AvailableSpots)
	s.log.WithField("user", username).Info(msg)
	s.feed.Append(msg, entities.SeveritySuccess)
}

// AlmostThere records that the user is within the arrival radius.
func (s *NotificationService) AlmostThere(name string) {
	msg := fmt.Sprintf("Almost there: %s is just ahead", name)
	s.log.Info(msg)
	s.feed.Append(msg, entities.SeverityInfo)
}

// RerouteSuggested records a new reroute proposal.
func (s *NotificationService) RerouteSuggested(sug *entities.RerouteSuggestion) {
	s.log.WithField("target", sug.TargetName).Warn(sug.Message)
	s.feed.Append(fmt.Sprintf("%s Impact: %s", sug.Message, sug.Impact), entities.SeverityWarning)
}

// RerouteAccepted records that the user switched to the suggested target.
func (s *NotificationService) RerouteAccepted(name string) {
	msg := fmt.Sprintf("Rerouted to %s", name)
	s.log.Info(msg)
	s.feed.Append(msg, entities.SeveritySuccess)
}

// RerouteDeclined records that the user kept their current choice.
func (s *NotificationService) RerouteDeclined(name string) {
	msg := fmt.Sprintf("Kept %s, reroute declined", name)
	s.log.Info(msg)
	s.feed.Append(msg, entities.SeverityInfo)
}

// LowAvailability warns that the held option is filling up.
func (s *NotificationService) LowAvailability(name string, spots int) {
	msg := fmt.Sprintf("%s only has %d spots left, consider alternatives", name, spots)
	s.log.WithField("option", name).Warn(msg)
	s.feed.Append(msg, entities.SeverityWarning)
}

// Degraded records that the candidate source could not be reached. The
// held recommendation stands; no data is fabricated to paper over it.
func (s *NotificationService) Degraded(err error) {
	s.log.WithError(err).Error("candidate source unavailable")
	s.feed.Append("Parking service unavailable, recommendations may be stale", entities.SeverityError)
}

// RecommendationExpired records that a stale, never-completed trip was
// dropped.
func (s *NotificationService) RecommendationExpired(name string) {
	msg := fmt.Sprintf("Recommendation for %s expired, search again for fresh availability", name)
	s.log.Info(msg)
	s.feed.Append(msg, entities.SeverityInfo)
}

// TripCompleted records the end of a monitored trip.
func (s *NotificationService) TripCompleted(name string) {
	msg := fmt.Sprintf("Trip complete, parked at %s", name)
	s.log.Info(msg)
	s.feed.Append(msg, entities.SeveritySuccess)
}

// Entries exposes the current feed contents, newest first.
func (s *NotificationService) Entries() []entities.NotificationEntry {
	return s.feed.Entries()
}
