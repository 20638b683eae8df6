package timer

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"fhfa-go/server/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
)

var (
	s1Validating  = Key{StatementID: "s1", Condition: models.ConditionValidating}
	s1Challenging = Key{StatementID: "s1", Condition: models.ConditionChallenging}
	s2Challenging = Key{StatementID: "s2", Condition: models.ConditionChallenging}
)

func TestStateTransitions(t *testing.T) {
	s := newState(s1Validating)
	assert.Equal(t, PhaseIdle, s.Phase)

	s = s.Tick(time.Second)
	assert.Zero(t, s.Accumulated, "idle stopwatch must not accumulate")

	s = s.Start().Tick(time.Second).Tick(500 * time.Millisecond)
	assert.True(t, s.Running())
	assert.Equal(t, 1500*time.Millisecond, s.Accumulated)

	s = s.Pause().Tick(time.Second)
	assert.Equal(t, PhasePaused, s.Phase)
	assert.Equal(t, 1500*time.Millisecond, s.Accumulated)

	s = s.Start().Tick(time.Second)
	assert.Equal(t, 2500*time.Millisecond, s.Accumulated)

	s = s.Reset()
	assert.Equal(t, PhaseIdle, s.Phase)
	assert.Zero(t, s.Accumulated)
}

func TestSecondsRoundsToTenth(t *testing.T) {
	s := State{Accumulated: 12345 * time.Millisecond}
	assert.Equal(t, 12.3, s.Seconds())

	s = State{Accumulated: 12351 * time.Millisecond}
	assert.Equal(t, 12.4, s.Seconds())
}

func TestRegistryNeverStartedTimer(t *testing.T) {
	r := NewRegistry()
	s := r.Get(s1Validating)
	assert.Equal(t, PhaseIdle, s.Phase)
	assert.Zero(t, s.Accumulated)

	r.Pause(s1Validating)
	_, ok := r.Record(s1Validating)
	assert.False(t, ok)
	r.Reset(s1Validating)
	assert.Zero(t, r.Get(s1Validating).Accumulated)
}

func TestRegistryRecordBelowResolution(t *testing.T) {
	r := NewRegistry()
	r.Start(s1Validating)
	r.Tick(40 * time.Millisecond)

	_, ok := r.Record(s1Validating)
	assert.False(t, ok, "rounds to zero")

	r.Tick(20 * time.Millisecond)
	seconds, ok := r.Record(s1Validating)
	require.True(t, ok)
	assert.Equal(t, 0.1, seconds)
}

func TestRegistrySingleActiveTimer(t *testing.T) {
	r := NewRegistry()
	r.Start(s1Validating)
	r.Tick(time.Second)

	stopped, didStop := r.Start(s2Challenging)
	assert.True(t, didStop)
	assert.Equal(t, s1Validating, stopped)
	assert.False(t, r.Get(s1Validating).Running())
	assert.True(t, r.Get(s2Challenging).Running())

	r.Tick(2 * time.Second)
	assert.Equal(t, time.Second, r.Get(s1Validating).Accumulated)
	assert.Equal(t, 2*time.Second, r.Get(s2Challenging).Accumulated)

	active, ok := r.Active()
	require.True(t, ok)
	assert.Equal(t, s2Challenging, active)
}

func TestRegistryRestartSameTimerKeepsValue(t *testing.T) {
	r := NewRegistry()
	r.Start(s1Validating)
	r.Tick(time.Second)

	_, didStop := r.Start(s1Validating)
	assert.False(t, didStop)
	r.Tick(time.Second)
	assert.Equal(t, 2*time.Second, r.Get(s1Validating).Accumulated)
}

func TestRegistryPauseStopsImmediately(t *testing.T) {
	r := NewRegistry()
	r.Start(s1Validating)
	r.Tick(time.Second)
	r.Pause(s1Validating)
	r.Tick(time.Second)

	assert.Equal(t, time.Second, r.Get(s1Validating).Accumulated)
	_, ok := r.Active()
	assert.False(t, ok)
}

func TestRegistryRecordWhileRunningIsIdempotent(t *testing.T) {
	r := NewRegistry()
	r.Start(s1Validating)
	r.Tick(4200 * time.Millisecond)

	first, ok := r.Record(s1Validating)
	require.True(t, ok)
	second, ok := r.Record(s1Validating)
	require.True(t, ok)

	assert.Equal(t, 4.2, first)
	assert.Equal(t, first, second)
	assert.True(t, r.Get(s1Validating).Running())
}

func TestRegistryResetIsAbsorbing(t *testing.T) {
	for name, prepare := range map[string]func(r *Registry){
		"running": func(r *Registry) { r.Start(s1Validating); r.Tick(time.Second) },
		"paused":  func(r *Registry) { r.Start(s1Validating); r.Tick(time.Second); r.Pause(s1Validating) },
		"idle":    func(r *Registry) {},
	} {
		t.Run(name, func(t *testing.T) {
			r := NewRegistry()
			prepare(r)
			r.Reset(s1Validating)

			s := r.Get(s1Validating)
			assert.Zero(t, s.Accumulated)
			assert.False(t, s.Running())
			_, ok := r.Record(s1Validating)
			assert.False(t, ok)
			_, active := r.Active()
			assert.False(t, active)
		})
	}
}

func TestRegistryResetOtherTimerKeepsActive(t *testing.T) {
	r := NewRegistry()
	r.Start(s1Validating)
	r.Reset(s1Challenging)

	active, ok := r.Active()
	require.True(t, ok)
	assert.Equal(t, s1Validating, active)
}

func TestRegistryForget(t *testing.T) {
	r := NewRegistry()
	r.Start(s1Challenging)
	r.Tick(time.Second)
	r.Pause(s1Challenging)
	r.Start(s1Validating)
	r.Start(s2Challenging)
	r.Start(s1Validating)

	r.Forget("s1")
	_, ok := r.Active()
	assert.False(t, ok)
	assert.Len(t, r.Snapshot(), 1)
	assert.Zero(t, r.Get(s1Challenging).Accumulated)
}

func TestRegistrySnapshotOrder(t *testing.T) {
	r := NewRegistry()
	r.Start(s2Challenging)
	r.Start(s1Challenging)
	r.Start(s1Validating)

	snap := r.Snapshot()
	require.Len(t, snap, 3)
	assert.Equal(t, s1Validating, snap[0].Key)
	assert.Equal(t, s1Challenging, snap[1].Key)
	assert.Equal(t, s2Challenging, snap[2].Key)
}

type countingTicker struct {
	ticks atomic.Int64
}

func (c *countingTicker) Tick(d time.Duration) {
	c.ticks.Add(1)
}

func TestDriverTicksUntilCancelled(t *testing.T) {
	defer goleak.VerifyNone(t)

	target := &countingTicker{}
	ctx, cancel := context.WithCancel(context.Background())
	d := NewDriver(zap.NewNop(), 5*time.Millisecond, target)
	d.Start(ctx)

	require.Eventually(t, func() bool { return target.ticks.Load() >= 3 }, time.Second, 5*time.Millisecond)
	cancel()

	select {
	case <-d.Done():
	case <-time.After(time.Second):
		t.Fatal("driver did not stop")
	}
}

func TestNewDriverDefaultInterval(t *testing.T) {
	d := NewDriver(zap.NewNop(), 0, &countingTicker{})
	assert.Equal(t, DefaultInterval, d.interval)
}
