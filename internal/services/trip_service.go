package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"parkfinder/internal/config"
	"parkfinder/internal/domain/entities"
	"parkfinder/internal/geo"
	"parkfinder/internal/metrics"
	"parkfinder/internal/provider"
	"parkfinder/internal/recommend"
	"parkfinder/internal/repository"
	"parkfinder/pkg/utils"
)

var ErrTripNotFound = errors.New("trip not found")

// sessionMap tracks live trips by ID, in the style of the in-memory
// repositories.
type sessionMap struct {
	mu sync.RWMutex
	m  map[string]*tripSession
}

func newSessionMap() sessionMap {
	return sessionMap{m: make(map[string]*tripSession)}
}

func (sm *sessionMap) put(id string, s *tripSession) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.m[id] = s
}

func (sm *sessionMap) get(id string) (*tripSession, bool) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	s, ok := sm.m[id]
	return s, ok
}

func (sm *sessionMap) remove(id string) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	delete(sm.m, id)
}

func (sm *sessionMap) all() []*tripSession {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	out := make([]*tripSession, 0, len(sm.m))
	for _, s := range sm.m {
		out = append(out, s)
	}
	return out
}

// tripSession binds a trip to its reroute monitor and availability
// poller. The session map is the single place live trips are tracked;
// each session's monitor serializes its own state transitions.
type tripSession struct {
	trip    *entities.Trip
	monitor *RerouteMonitor
	poller  *availabilityPoller

	// warnedLow is only touched by the session's poller goroutine.
	warnedLow bool
}

// TripStatus is a read-only snapshot of a trip for API responses.
type TripStatus struct {
	Trip         *entities.Trip              `json:"trip"`
	State        entities.TripState          `json:"state"`
	Current      entities.ParkingOption      `json:"current"`
	Alternatives []entities.ScoredOption     `json:"alternatives"`
	Suggestion   *entities.RerouteSuggestion `json:"suggestion,omitempty"`
}

// TripService orchestrates the full parking flow: candidate lookup,
// ranking, trip creation, live monitoring and the availability poll.
type TripService struct {
	cfg      *config.Config
	source   provider.CandidateSource
	parking  repository.ParkingRepository
	notifier *NotificationService
	log      *logrus.Entry

	sessions sessionMap
}

func NewTripService(
	cfg *config.Config,
	source provider.CandidateSource,
	parking repository.ParkingRepository,
	notifier *NotificationService,
) *TripService {
	return &TripService{
		cfg:      cfg,
		source:   source,
		parking:  parking,
		notifier: notifier,
		log:      logrus.WithField("component", "trip_service"),
		sessions: newSessionMap(),
	}
}

// FindParking resolves candidates near the destination, ranks them and
// starts monitoring the winner. Returns the created trip alongside the
// recommendation. Errors pass through untranslated so the transport
// layer can map them: recommend.ErrNoCandidates,
// recommend.ErrInvalidDuration, provider.ErrServiceUnavailable.
func (s *TripService) FindParking(ctx context.Context, username string, origin, dest entities.Location, durationHours, priceWeight float64) (*entities.Trip, *recommend.Recommendation, error) {
	candidates, err := s.source.FindCandidates(ctx, origin, dest, durationHours)
	if err != nil {
		metrics.RecommendationFailuresTotal.WithLabelValues("service_unavailable").Inc()
		return nil, nil, err
	}
	metrics.CandidateCount.Observe(float64(len(candidates)))

	rec, err := recommend.Recommend(dest, candidates, durationHours, priceWeight)
	if err != nil {
		switch {
		case errors.Is(err, recommend.ErrNoCandidates):
			metrics.RecommendationFailuresTotal.WithLabelValues("no_candidates").Inc()
		case errors.Is(err, recommend.ErrInvalidDuration):
			metrics.RecommendationFailuresTotal.WithLabelValues("invalid_duration").Inc()
		}
		return nil, nil, err
	}

	trip := &entities.Trip{
		ID:            utils.GenerateID(),
		Username:      username,
		Origin:        origin,
		Destination:   dest,
		DurationHours: durationHours,
		PriceWeight:   entities.ClampWeight(priceWeight),
		CreatedAt:     time.Now(),
	}

	monitor := NewRerouteMonitor(s.cfg.Reroute)
	monitor.Begin(rec.Best, rec.Alternatives, dest, durationHours)

	session := &tripSession{trip: trip, monitor: monitor}
	session.poller = newAvailabilityPoller(s.cfg.Reroute.PollInterval, func() bool {
		return s.pollTick(session)
	})
	s.sessions.put(trip.ID, session)
	session.poller.Start()

	s.notifier.Recommendation(username, rec.Best)
	metrics.RecommendationsTotal.Inc()

	s.log.WithFields(logrus.Fields{
		"trip":       trip.ID,
		"user":       username,
		"best":       rec.Best.Name,
		"candidates": len(candidates),
	}).Info("parking recommended")

	return trip, rec, nil
}

// UpdatePosition feeds a live position into the trip's monitor. The
// position is also reported to the candidate source as best-effort
// telemetry before evaluation; that call has no bearing on the result.
func (s *TripService) UpdatePosition(ctx context.Context, tripID string, pos entities.Location) (*MonitorEvent, error) {
	session, ok := s.sessions.get(tripID)
	if !ok {
		return nil, ErrTripNotFound
	}

	s.source.ReportPosition(ctx, session.trip.Username, pos.Latitude, pos.Longitude, time.Now())
	metrics.PositionUpdatesTotal.Inc()

	event := session.monitor.UpdatePosition(pos)
	if event == nil {
		return nil, nil
	}

	if event.AlmostThere {
		s.notifier.AlmostThere(session.monitor.Current().Name)
	}
	if event.Suggestion != nil {
		s.notifier.RerouteSuggested(event.Suggestion)
		metrics.RerouteSuggestionsTotal.WithLabelValues("position").Inc()
	}
	return event, nil
}

// AcceptReroute switches the trip to the pending suggestion's target.
// The target option is resolved from the trip's alternatives, falling
// back to the inventory for availability-path targets that were not in
// the original ranked set.
func (s *TripService) AcceptReroute(ctx context.Context, tripID string) (entities.ParkingOption, error) {
	session, ok := s.sessions.get(tripID)
	if !ok {
		return entities.ParkingOption{}, ErrTripNotFound
	}

	suggestion := session.monitor.Suggestion()
	if suggestion == nil {
		return entities.ParkingOption{}, ErrNoSuggestionPending
	}

	target, err := s.resolveOption(ctx, session, suggestion.TargetName)
	if err != nil {
		return entities.ParkingOption{}, err
	}

	if err := session.monitor.Accept(target); err != nil {
		return entities.ParkingOption{}, err
	}

	s.notifier.RerouteAccepted(target.Name)
	metrics.RerouteDecisionsTotal.WithLabelValues("accepted").Inc()
	return target, nil
}

// DeclineReroute discards the pending suggestion and keeps the current
// choice.
func (s *TripService) DeclineReroute(ctx context.Context, tripID string) error {
	session, ok := s.sessions.get(tripID)
	if !ok {
		return ErrTripNotFound
	}

	if err := session.monitor.Decline(); err != nil {
		return err
	}

	s.notifier.RerouteDeclined(session.monitor.Current().Name)
	metrics.RerouteDecisionsTotal.WithLabelValues("declined").Inc()
	return nil
}

// Complete ends the trip: the poller is stopped (idempotent, no further
// evaluations fire), the monitor returns to Idle and the session is
// dropped.
func (s *TripService) Complete(ctx context.Context, tripID string) error {
	session, ok := s.sessions.get(tripID)
	if !ok {
		return ErrTripNotFound
	}

	session.poller.Stop()
	name := session.monitor.Current().Name
	session.monitor.Complete()
	s.sessions.remove(tripID)

	s.notifier.TripCompleted(name)
	return nil
}

// Status returns a snapshot of the trip for API responses.
func (s *TripService) Status(tripID string) (*TripStatus, error) {
	session, ok := s.sessions.get(tripID)
	if !ok {
		return nil, ErrTripNotFound
	}

	return &TripStatus{
		Trip:         session.trip,
		State:        session.monitor.State(),
		Current:      session.monitor.Current(),
		Alternatives: session.monitor.Alternatives(),
		Suggestion:   session.monitor.Suggestion(),
	}, nil
}

// Shutdown stops all pollers. Used on server exit and in tests.
func (s *TripService) Shutdown() {
	for _, session := range s.sessions.all() {
		session.poller.Stop()
	}
}

// resolveOption finds the full option for a suggestion target: first in
// the trip's alternatives (position-path targets are always there), then
// in the inventory, filling in the derived distance and cost fields.
func (s *TripService) resolveOption(ctx context.Context, session *tripSession, name string) (entities.ParkingOption, error) {
	for _, alt := range session.monitor.Alternatives() {
		if alt.Option.Name == name {
			return alt.Option, nil
		}
	}

	option, err := s.parking.GetByName(ctx, name)
	if err != nil {
		return entities.ParkingOption{}, err
	}

	trip := session.trip
	option.EstimatedCost = utils.RoundCents(option.PricePerHour * trip.DurationHours)
	option.WalkDistance = geo.DistanceKm(
		option.Location.Latitude, option.Location.Longitude,
		trip.Destination.Latitude, trip.Destination.Longitude,
	)
	if pos, ok := session.monitor.LastPosition(); ok {
		option.DriveDistance = geo.DistanceKm(
			pos.Latitude, pos.Longitude,
			option.Location.Latitude, option.Location.Longitude,
		)
	}
	return option, nil
}

// pollTick is one availability evaluation for a trip. It funnels into
// the same monitor as position updates, so the two trigger sources can
// never interleave a transition. Returns false to end the poll loop.
func (s *TripService) pollTick(session *tripSession) bool {
	if session.monitor.State() == entities.TripStateIdle {
		return false
	}

	trip := session.trip
	if ttl := s.cfg.Reroute.SessionTTL; ttl > 0 && time.Since(trip.CreatedAt) > ttl {
		s.expire(session)
		return false
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.Reroute.PollInterval)
	defer cancel()

	user, ok := session.monitor.LastPosition()
	if !ok {
		user = trip.Origin
	}
	current := session.monitor.Current()

	suggestion, err := s.source.CheckAvailability(ctx, current.Name, user, trip.Destination, trip.DurationHours)
	if err != nil {
		s.notifier.Degraded(err)
		metrics.DegradedPollsTotal.Inc()
		return true
	}

	if suggestion != nil && session.monitor.ApplySuggestion(suggestion) {
		s.notifier.RerouteSuggested(suggestion)
		metrics.RerouteSuggestionsTotal.WithLabelValues("availability").Inc()
	}

	s.warnIfFillingUp(ctx, session, current.Name)
	return true
}

// expire drops a trip whose recommendation has gone stale without ever
// being completed. The caller ends the poll loop by returning false, so
// no poller stop is needed from inside the tick.
func (s *TripService) expire(session *tripSession) {
	name := session.monitor.Current().Name
	session.monitor.Complete()
	s.sessions.remove(session.trip.ID)

	s.notifier.RecommendationExpired(name)
	s.log.WithFields(logrus.Fields{
		"trip": session.trip.ID,
		"user": session.trip.Username,
	}).Info("trip session expired")
}

// warnIfFillingUp emits a one-shot warning when the held option drops
// below the low-spot threshold; the flag resets once availability
// recovers.
func (s *TripService) warnIfFillingUp(ctx context.Context, session *tripSession, name string) {
	option, err := s.parking.GetByName(ctx, name)
	if err != nil {
		return
	}

	low := option.AvailableSpots > 0 && option.AvailableSpots < s.cfg.Reroute.LowSpotThreshold
	if low && !session.warnedLow {
		s.notifier.LowAvailability(option.Name, option.AvailableSpots)
		session.warnedLow = true
	} else if !low {
		session.warnedLow = false
	}
}
