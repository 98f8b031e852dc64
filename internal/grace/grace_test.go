package grace

import (
	"sync"
	"testing"
	"time"

	"github.com/danieljhkim/previewdeck/internal/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testTime = time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

type tickRecorder struct {
	mu    sync.Mutex
	ticks []Tick
}

func (r *tickRecorder) listen(t Tick) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ticks = append(r.ticks, t)
}

func (r *tickRecorder) expired(batchID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.ticks {
		if t.BatchID == batchID && t.Expired {
			return true
		}
	}
	return false
}

func (r *tickRecorder) count(batchID string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, t := range r.ticks {
		if t.BatchID == batchID {
			n++
		}
	}
	return n
}

func TestRemaining_DerivedFromClock(t *testing.T) {
	clk := clock.NewFakeClock(testTime)
	s := NewScheduler(clk, WithTick(0))
	defer s.Stop()

	s.Start("b1", testTime)
	assert.Equal(t, 5*time.Second, s.Remaining("b1"))
	assert.True(t, s.Active("b1"))

	clk.Advance(3500 * time.Millisecond)
	assert.Equal(t, 1500*time.Millisecond, s.Remaining("b1"))
	assert.Equal(t, 2, Seconds(s.Remaining("b1")))

	clk.Advance(2 * time.Second)
	assert.Zero(t, s.Remaining("b1"))
	assert.False(t, s.Active("b1"))
}

func TestRemaining_UnknownBatch(t *testing.T) {
	s := NewScheduler(clock.NewFakeClock(testTime), WithTick(0))
	assert.Zero(t, s.Remaining("missing"))
	assert.False(t, s.Active("missing"))
	assert.False(t, s.Cancel("missing"))
}

func TestCancel(t *testing.T) {
	s := NewScheduler(clock.NewFakeClock(testTime), WithTick(0))
	s.Start("b1", testTime)

	assert.True(t, s.Cancel("b1"))
	assert.False(t, s.Active("b1"))
	assert.False(t, s.Cancel("b1"))
}

func TestStart_Restarts(t *testing.T) {
	clk := clock.NewFakeClock(testTime)
	s := NewScheduler(clk, WithTick(0), WithWindow(10*time.Second))

	s.Start("b1", testTime)
	clk.Advance(8 * time.Second)
	s.Start("b1", clk.Now())

	assert.Equal(t, 10*time.Second, s.Remaining("b1"))
	assert.Equal(t, 10*time.Second, s.Window())
}

func TestCountdowns_AreIndependent(t *testing.T) {
	clk := clock.NewFakeClock(testTime)
	s := NewScheduler(clk, WithTick(0))

	s.Start("b1", testTime)
	clk.Advance(2 * time.Second)
	s.Start("b2", clk.Now())
	s.Cancel("b1")

	assert.False(t, s.Active("b1"))
	assert.Equal(t, 5*time.Second, s.Remaining("b2"))
}

func TestTicker_EmitsAndExpires(t *testing.T) {
	clk := clock.NewFakeClock(testTime)
	rec := &tickRecorder{}
	s := NewScheduler(clk, WithTick(5*time.Millisecond), WithListener(rec.listen))
	defer s.Stop()

	s.Start("b1", testTime)
	require.Eventually(t, func() bool { return rec.count("b1") >= 2 }, time.Second, 5*time.Millisecond)
	assert.False(t, rec.expired("b1"))

	clk.Advance(6 * time.Second)
	require.Eventually(t, func() bool { return rec.expired("b1") }, time.Second, 5*time.Millisecond)
}

func (s *Scheduler) tracked() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.countdowns)
}

func TestTicker_ExpiredCountdownsAreReleased(t *testing.T) {
	clk := clock.NewFakeClock(testTime)
	rec := &tickRecorder{}
	s := NewScheduler(clk, WithTick(5*time.Millisecond), WithListener(rec.listen))
	defer s.Stop()

	for _, id := range []string{"b1", "b2", "b3"} {
		s.Start(id, testTime)
	}
	require.Equal(t, 3, s.tracked())

	clk.Advance(6 * time.Second)
	require.Eventually(t, func() bool { return s.tracked() == 0 }, time.Second, 5*time.Millisecond)
	for _, id := range []string{"b1", "b2", "b3"} {
		assert.True(t, rec.expired(id), id)
		assert.Zero(t, s.Remaining(id))
	}
}

func TestStart_PrunesClosedWindowsWithoutTicker(t *testing.T) {
	clk := clock.NewFakeClock(testTime)
	s := NewScheduler(clk, WithTick(0))
	defer s.Stop()

	s.Start("b1", testTime)
	s.Start("b2", testTime)
	clk.Advance(6 * time.Second)

	s.Start("b1", clk.Now())
	s.Start("b3", clk.Now())
	assert.Equal(t, 2, s.tracked())
	assert.True(t, s.Active("b1"))
	assert.True(t, s.Active("b3"))
	assert.False(t, s.Active("b2"))
}

func TestTicker_CancelStopsTicks(t *testing.T) {
	clk := clock.NewFakeClock(testTime)
	rec := &tickRecorder{}
	s := NewScheduler(clk, WithTick(5*time.Millisecond), WithListener(rec.listen))

	s.Start("b1", testTime)
	require.Eventually(t, func() bool { return rec.count("b1") >= 1 }, time.Second, 5*time.Millisecond)
	s.Cancel("b1")
	s.Stop()

	n := rec.count("b1")
	clk.Advance(time.Minute)
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, n, rec.count("b1"))
	assert.False(t, rec.expired("b1"))
}

func TestTicker_ListenerPanicIsContained(t *testing.T) {
	clk := clock.NewFakeClock(testTime)
	var mu sync.Mutex
	calls := 0
	s := NewScheduler(clk, WithTick(5*time.Millisecond), WithListener(func(Tick) {
		mu.Lock()
		calls++
		mu.Unlock()
		panic("boom")
	}))
	defer s.Stop()

	s.Start("b1", testTime)
	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return calls >= 2
	}, time.Second, 5*time.Millisecond)
}

func TestSeconds(t *testing.T) {
	assert.Equal(t, 0, Seconds(0))
	assert.Equal(t, 0, Seconds(-time.Second))
	assert.Equal(t, 1, Seconds(200*time.Millisecond))
	assert.Equal(t, 5, Seconds(5*time.Second))
}
