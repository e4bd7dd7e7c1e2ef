package provider

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"parkfinder/internal/repository"
)

// OccupancySimulator randomly perturbs parking availability on a fixed
// interval, standing in for a live inventory feed. It drives the
// availability-poll reroute path during development and tests.
type OccupancySimulator struct {
	repo     repository.ParkingRepository
	interval time.Duration
	maxDelta int
	rng      *rand.Rand
	log      *logrus.Entry

	stop chan struct{}
	once sync.Once
	wg   sync.WaitGroup
}

// NewOccupancySimulator creates a simulator that shifts a random
// option's availability by up to ±maxDelta spots every interval.
func NewOccupancySimulator(repo repository.ParkingRepository, interval time.Duration, maxDelta int) *OccupancySimulator {
	return &OccupancySimulator{
		repo:     repo,
		interval: interval,
		maxDelta: maxDelta,
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
		log:      logrus.WithField("component", "occupancy_simulator"),
		stop:     make(chan struct{}),
	}
}

// Start launches the background loop. Call Stop to end it.
func (s *OccupancySimulator) Start() {
	s.wg.Add(1)
	go s.run()
}

// Stop halts the simulator. Safe to call more than once; returns after
// the loop has exited, so no adjustment fires afterwards.
func (s *OccupancySimulator) Stop() {
	s.once.Do(func() { close(s.stop) })
	s.wg.Wait()
}

func (s *OccupancySimulator) run() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			s.tick()
		}
	}
}

func (s *OccupancySimulator) tick() {
	ctx := context.Background()

	options, err := s.repo.List(ctx)
	if err != nil || len(options) == 0 {
		return
	}

	target := options[s.rng.Intn(len(options))]
	delta := s.rng.Intn(2*s.maxDelta+1) - s.maxDelta
	if delta == 0 {
		return
	}

	updated, err := s.repo.AdjustAvailability(ctx, target.Name, delta)
	if err != nil {
		s.log.WithError(err).Warn("availability adjustment failed")
		return
	}

	s.log.WithFields(logrus.Fields{
		"option":    updated.Name,
		"delta":     delta,
		"available": updated.AvailableSpots,
		"total":     updated.TotalSpots,
	}).Debug("occupancy change")
}
