package services

import (
	"sync"
	"time"
)

// availabilityPoller runs a callback on a fixed interval until stopped.
// One poller exists per active trip; the callback is the trip's
// availability check against the candidate source, and may return false
// to end the loop itself (session expiry).
type availabilityPoller struct {
	interval time.Duration
	tick     func() bool

	stop chan struct{}
	once sync.Once
	wg   sync.WaitGroup
}

func newAvailabilityPoller(interval time.Duration, tick func() bool) *availabilityPoller {
	return &availabilityPoller{
		interval: interval,
		tick:     tick,
		stop:     make(chan struct{}),
	}
}

func (p *availabilityPoller) Start() {
	p.wg.Add(1)
	go p.run()
}

// Stop cancels the poll loop. Idempotent, and synchronous: when it
// returns, the loop has exited and no further tick will fire.
func (p *availabilityPoller) Stop() {
	p.once.Do(func() { close(p.stop) })
	p.wg.Wait()
}

func (p *availabilityPoller) run() {
	defer p.wg.Done()

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-p.stop:
			return
		case <-ticker.C:
			if !p.tick() {
				return
			}
		}
	}
}
