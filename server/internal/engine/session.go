// Package engine holds the state of one fusion assessment and exposes every
// operation on it: statement management, annotation, probe timers, scoring,
// classification and report assembly.
package engine

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"fhfa-go/server/internal/classifier"
	"fhfa-go/server/internal/intake"
	"fhfa-go/server/internal/models"
	"fhfa-go/server/internal/report"
	"fhfa-go/server/internal/scoring"
	"fhfa-go/server/internal/timer"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Options configure new sessions.
type Options struct {
	// Extractor applies the intake rules. Nil selects the defaults.
	Extractor *intake.Extractor
	// Collaborator is the optional AI script generator. Nil disables it.
	Collaborator classifier.Collaborator
	// Now stamps reports. Nil selects time.Now.
	Now func() time.Time
}

// Session is one assessment of one subject. All methods are safe for
// concurrent use; they are serialized by a single mutex so every operation
// completes as one step.
type Session struct {
	ID        string
	CreatedAt time.Time

	log        *zap.Logger
	subject    models.Subject
	extractor  *intake.Extractor
	dispatcher *classifier.Dispatcher
	now        func() time.Time
	cancel     context.CancelFunc

	mu         sync.Mutex
	statements []models.Statement
	timers     *timer.Registry
}

// NewSession creates an empty session for subject.
func NewSession(ctx context.Context, log *zap.Logger, subject models.Subject, opts Options) *Session {
	if opts.Extractor == nil {
		opts.Extractor = intake.NewExtractor(nil, intake.DefaultThreshold)
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	ctx, cancel := context.WithCancel(ctx)
	id := newID()
	s := &Session{
		ID:        id,
		CreatedAt: opts.Now(),
		log:       log.With(zap.String("sessionID", id)),
		subject:   subject,
		extractor: opts.Extractor,
		now:       opts.Now,
		cancel:    cancel,
		timers:    timer.NewRegistry(),
	}
	if opts.Collaborator != nil {
		s.dispatcher = classifier.NewDispatcher(ctx, s.log, opts.Collaborator)
	}
	return s
}

// newID returns a time-ordered UUID, falling back to v4.
func newID() string {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return id.String()
}

// Subject returns the subject metadata.
func (s *Session) Subject() models.Subject {
	return s.subject
}

// CollaboratorEnabled reports whether AI classification is available.
func (s *Session) CollaboratorEnabled() bool {
	return s.dispatcher != nil
}

// Close aborts outstanding AI requests.
func (s *Session) Close() {
	s.cancel()
}

// Wait blocks until every outstanding AI request has been merged or dropped.
func (s *Session) Wait() {
	if s.dispatcher != nil {
		s.dispatcher.Wait()
	}
}

// Extract runs the intake rules over raw and appends the result.
func (s *Session) Extract(raw intake.RawSources) []models.Statement {
	extracted := s.extractor.ExtractStatements(raw)

	s.mu.Lock()
	defer s.mu.Unlock()

	added := make([]models.Statement, 0, len(extracted))
	for _, st := range extracted {
		added = append(added, s.addLocked(st))
	}
	s.log.Info("Statements extracted", zap.Int("count", len(added)))
	return added
}

// AddStatement appends a manually entered statement. An empty source
// selects SourceManual.
func (s *Session) AddStatement(text, title string, source models.SourceInstrument) (models.Statement, error) {
	src, err := models.ParseSource(string(source))
	if err != nil {
		return models.Statement{}, err
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return models.Statement{}, models.ErrEmptyStatement
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addLocked(models.Statement{
		Text:   text,
		Title:  strings.TrimSpace(title),
		Source: src,
	}), nil
}

func (s *Session) addLocked(st models.Statement) models.Statement {
	st.ID = newID()
	st.Classification = classifier.Fallback(st.Text, st.Context)
	s.statements = append(s.statements, st)
	return st.Clone()
}

// RemoveStatement deletes a statement together with its timers. An
// outstanding AI request for it is discarded when it resolves.
func (s *Session) RemoveStatement(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexLocked(id)
	if i < 0 {
		return fmt.Errorf("remove %s: %w", id, models.ErrStatementNotFound)
	}
	s.statements = append(s.statements[:i], s.statements[i+1:]...)
	s.timers.Forget(id)
	if s.dispatcher != nil {
		s.dispatcher.Forget(id)
	}
	return nil
}

// Statements returns a copy of the statement list in insertion order.
func (s *Session) Statements() []models.Statement {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Session) snapshotLocked() []models.Statement {
	out := make([]models.Statement, len(s.statements))
	for i, st := range s.statements {
		out[i] = st.Clone()
	}
	return out
}

// Statement returns one statement by id.
func (s *Session) Statement(id string) (models.Statement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, err := s.getLocked(id)
	if err != nil {
		return models.Statement{}, err
	}
	return st.Clone(), nil
}

func (s *Session) indexLocked(id string) int {
	for i := range s.statements {
		if s.statements[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Session) getLocked(id string) (*models.Statement, error) {
	i := s.indexLocked(id)
	if i < 0 {
		return nil, fmt.Errorf("statement %s: %w", id, models.ErrStatementNotFound)
	}
	return &s.statements[i], nil
}

// SetContext attaches a situational tag. An empty string clears it. While
// the statement only has rule-based scripts they are regenerated so they
// mention the new context.
func (s *Session) SetContext(id, text string) (models.Statement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, err := s.getLocked(id)
	if err != nil {
		return models.Statement{}, err
	}
	st.Context = text
	if st.Classification.Status == models.StatusFallback || st.Classification.Status == models.StatusUnclassified {
		usedDefault := st.Classification.UsedDefault
		st.Classification = classifier.Fallback(st.Text, st.Context)
		st.Classification.UsedDefault = usedDefault
	}
	return st.Clone(), nil
}

// SetPrecursors stores the clinician's precursor notes for a condition.
func (s *Session) SetPrecursors(id string, c models.Condition, text string) (models.Statement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, err := s.getLocked(id)
	if err != nil {
		return models.Statement{}, err
	}
	st.SetPrecursors(c, text)
	return st.Clone(), nil
}

// Score ranks the fully measured statements.
func (s *Session) Score() []models.ScoredStatement {
	return scoring.Score(s.Statements())
}

// Report assembles the report from the current state without waiting for
// outstanding AI requests.
func (s *Session) Report() models.Report {
	statements := s.Statements()
	return report.Assemble(statements, scoring.Score(statements), s.subject, s.now())
}
