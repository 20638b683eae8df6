package engine

import (
	"time"

	"fhfa-go/server/internal/models"
	"fhfa-go/server/internal/timer"

	"go.uber.org/zap"
)

// StartTimer runs the (statement, condition) stopwatch, pausing whichever
// stopwatch was running before.
func (s *Session) StartTimer(id string, c models.Condition) (timer.State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.getLocked(id); err != nil {
		return timer.State{}, err
	}
	k := timer.Key{StatementID: id, Condition: c}
	if stopped, ok := s.timers.Start(k); ok {
		s.log.Debug("Paused previously active timer",
			zap.String("statementID", stopped.StatementID),
			zap.String("condition", string(stopped.Condition)))
	}
	return s.timers.Get(k), nil
}

// PauseTimer stops accumulation and keeps the value.
func (s *Session) PauseTimer(id string, c models.Condition) (timer.State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.getLocked(id); err != nil {
		return timer.State{}, err
	}
	k := timer.Key{StatementID: id, Condition: c}
	s.timers.Pause(k)
	return s.timers.Get(k), nil
}

// RecordTimer commits the stopwatch value, rounded to a tenth of a second,
// as the statement's latency. Nothing is committed while the stopwatch is
// at zero.
func (s *Session) RecordTimer(id string, c models.Condition) (models.Statement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, err := s.getLocked(id)
	if err != nil {
		return models.Statement{}, err
	}
	if seconds, ok := s.timers.Record(timer.Key{StatementID: id, Condition: c}); ok {
		st.SetLatency(c, &seconds)
	}
	return st.Clone(), nil
}

// ResetTimer zeroes the stopwatch and clears the committed latency.
func (s *Session) ResetTimer(id string, c models.Condition) (models.Statement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, err := s.getLocked(id)
	if err != nil {
		return models.Statement{}, err
	}
	s.timers.Reset(timer.Key{StatementID: id, Condition: c})
	st.SetLatency(c, nil)
	return st.Clone(), nil
}

// Timer returns one stopwatch.
func (s *Session) Timer(id string, c models.Condition) timer.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.timers.Get(timer.Key{StatementID: id, Condition: c})
}

// Timers lists every stopwatch that has been touched.
func (s *Session) Timers() []timer.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.timers.Snapshot()
}

// ActiveTimer returns the running stopwatch key, if any.
func (s *Session) ActiveTimer() (timer.Key, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.timers.Active()
}

// Tick advances the running stopwatch by d.
func (s *Session) Tick(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.timers.Tick(d)
}
