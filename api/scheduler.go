/*
scheduler.go - Background generation scheduler

PURPOSE:
  Periodically runs a full generation pass (all four generators plus
  the expiry sweep) so reminders surface without anyone hitting the
  generate endpoint. Every pass is idempotent, so the interval is a
  freshness knob, not a correctness one.

DESIGN:
  - Runs a background goroutine on an injectable clock ticker, so tests
    drive ticks with a mock clock instead of sleeping
  - Resolves "today" from the tenant's timezone once per pass
  - A failed pass is logged; the next tick simply tries again

CONFIGURATION:
  - Interval: How often to run (default: 1 hour)
  - Tenants:  Tenant ids to process each tick. An empty list means the
              legacy single-tenant pass.
  - Enabled:  Whether the scheduler is active (default: true)

USAGE:
  scheduler := NewGenerationScheduler(eng)
  scheduler.Start()
  // ... later
  scheduler.Stop()
*/
package api

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/fleetrent/reminder-engine/engine"
)

// GenerationScheduler handles automated reminder generation.
type GenerationScheduler struct {
	Engine   *engine.Engine
	Clock    clock.Clock
	Interval time.Duration
	Tenants  []string
	Enabled  bool

	ticker *clock.Ticker
	stop   chan struct{}
	wg     sync.WaitGroup
	mu     sync.Mutex
}

// NewGenerationScheduler creates a scheduler with the real clock and a
// one hour interval.
func NewGenerationScheduler(eng *engine.Engine) *GenerationScheduler {
	return &GenerationScheduler{
		Engine:   eng,
		Clock:    clock.New(),
		Interval: 1 * time.Hour,
		Enabled:  true,
		stop:     make(chan struct{}),
	}
}

// Start begins the scheduler.
func (gs *GenerationScheduler) Start() {
	gs.mu.Lock()
	defer gs.mu.Unlock()

	if !gs.Enabled {
		log.Println("[Scheduler] Disabled, not starting")
		return
	}

	gs.ticker = gs.Clock.Ticker(gs.Interval)
	gs.wg.Add(1)

	go gs.run()

	log.Printf("[Scheduler] Started with interval: %v", gs.Interval)
}

// Stop stops the scheduler and waits for an in-flight pass to finish.
// Safe to call when the scheduler never started, and more than once.
func (gs *GenerationScheduler) Stop() {
	gs.mu.Lock()
	defer gs.mu.Unlock()

	if gs.ticker == nil {
		return
	}
	gs.ticker.Stop()
	gs.ticker = nil
	close(gs.stop)
	gs.wg.Wait()
	log.Println("[Scheduler] Stopped")
}

func (gs *GenerationScheduler) run() {
	defer gs.wg.Done()

	// Run immediately on start
	gs.runPass()

	for {
		select {
		case <-gs.ticker.C:
			gs.runPass()
		case <-gs.stop:
			return
		}
	}
}

// runPass runs one full generation pass per configured tenant.
func (gs *GenerationScheduler) runPass() {
	ctx := context.Background()

	tenants := gs.Tenants
	if len(tenants) == 0 {
		tenants = []string{""}
	}

	for _, tenantID := range tenants {
		today := gs.Engine.ResolveToday(ctx, tenantID)
		report := gs.Engine.RunAll(ctx, tenantID, today)
		log.Printf("[Scheduler] Tenant %q on %s: vehicles=%d documents=%d rentals=%d fines=%d expired=%d",
			tenantID, today, report.Vehicles, report.Documents, report.Rentals, report.Fines, report.Expired)
	}
}
