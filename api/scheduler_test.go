package api

import (
	"context"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fleetrent/reminder-engine/engine"
	"github.com/fleetrent/reminder-engine/engine/store"
	"github.com/fleetrent/reminder-engine/templates"
)

func money(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

func newSchedulerUnderTest() (*GenerationScheduler, *store.Memory, *store.Fixtures, *clock.Mock) {
	mem := store.NewMemory()
	fx := store.NewFixtures()
	eng := engine.New(mem, fx, fx, fx, fx, fx, templates.NewResolver())

	mock := clock.NewMock()
	gs := NewGenerationScheduler(eng)
	gs.Clock = mock
	gs.Interval = time.Hour
	return gs, mem, fx, mock
}

func pendingCount(t *testing.T, mem *store.Memory) int {
	t.Helper()
	rs, err := mem.List(context.Background(), engine.ReminderFilter{Status: engine.StatusPending})
	require.NoError(t, err)
	return len(rs)
}

func TestScheduler_RunsImmediatelyAndOnTick(t *testing.T) {
	// GIVEN: A scheduler on a mock clock over one open fine
	gs, mem, fx, mock := newSchedulerUnderTest()
	today := engine.Today(nil)
	fx.Fines = []engine.Fine{{
		ID: "fine-1", Amount: money("65.00"),
		DueOn: today.AddDays(3), Status: "Open",
	}}

	// WHEN: The scheduler starts
	gs.Start()
	defer gs.Stop()

	// THEN: The immediate pass generates both open tiers
	require.Eventually(t, func() bool {
		return pendingCount(t, mem) == 2
	}, time.Second, 5*time.Millisecond)

	// WHEN: A vehicle appears and the clock advances one interval
	fx.Vehicles = []engine.Vehicle{{
		ID: "veh-1", Registration: "LX21 ABC",
		MOTDueOn: today.AddDays(10), HasImmobiliser: true,
	}}
	mock.Add(time.Hour)

	// THEN: The tick picks it up
	require.Eventually(t, func() bool {
		return pendingCount(t, mem) == 3
	}, time.Second, 5*time.Millisecond)
}

func TestScheduler_DisabledDoesNotRun(t *testing.T) {
	gs, mem, fx, mock := newSchedulerUnderTest()
	fx.Fines = []engine.Fine{{
		ID: "fine-1", Amount: money("65.00"),
		DueOn: engine.Today(nil).AddDays(3), Status: "Open",
	}}
	gs.Enabled = false

	gs.Start()
	mock.Add(2 * time.Hour)
	time.Sleep(20 * time.Millisecond)

	assert.Equal(t, 0, pendingCount(t, mem))
	gs.Stop() // safe when never started
}

func TestScheduler_StopIsIdempotent(t *testing.T) {
	gs, mem, fx, _ := newSchedulerUnderTest()
	fx.Fines = []engine.Fine{{
		ID: "fine-1", Amount: money("65.00"),
		DueOn: engine.Today(nil).AddDays(3), Status: "Open",
	}}

	gs.Start()
	require.Eventually(t, func() bool {
		return pendingCount(t, mem) == 2
	}, time.Second, 5*time.Millisecond)

	gs.Stop()
	gs.Stop() // second call must not panic
}

func TestScheduler_MultiTenantPass(t *testing.T) {
	gs, mem, fx, _ := newSchedulerUnderTest()
	today := engine.Today(nil)
	fx.Fines = []engine.Fine{
		{ID: "fine-a", Amount: money("65.00"), DueOn: today.AddDays(3),
			Status: "Open", TenantID: "tenant-a"},
		{ID: "fine-b", Amount: money("65.00"), DueOn: today.AddDays(3),
			Status: "Open", TenantID: "tenant-b"},
	}
	gs.Tenants = []string{"tenant-a"}

	gs.Start()
	defer gs.Stop()

	require.Eventually(t, func() bool {
		return pendingCount(t, mem) > 0
	}, time.Second, 5*time.Millisecond)

	// Only the configured tenant was processed
	rs, err := mem.List(context.Background(), engine.ReminderFilter{TenantID: "tenant-b"})
	require.NoError(t, err)
	assert.Empty(t, rs)
}
