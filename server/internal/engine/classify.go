package engine

import (
	"fhfa-go/server/internal/classifier"
	"fhfa-go/server/internal/models"

	"go.uber.org/zap"
)

// Classify makes sure the statement has rule-based scripts and, when a
// collaborator is configured, starts an AI request for it. started is false
// when no request was made: the collaborator is disabled, a request is
// already outstanding, or the statement already holds AI output.
func (s *Session) Classify(id string) (st models.Statement, started bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, err := s.getLocked(id)
	if err != nil {
		return models.Statement{}, false, err
	}
	if cur.Classification.Status == models.StatusUnclassified {
		cur.Classification = classifier.Fallback(cur.Text, cur.Context)
	}
	if s.dispatcher == nil || cur.Classification.Status != models.StatusFallback {
		return cur.Clone(), false, nil
	}

	req := classifier.Request{Text: cur.Text, Context: cur.Context, SubjectName: s.subject.Name}
	if !s.dispatcher.Submit(id, req, s.deliver) {
		return cur.Clone(), false, nil
	}
	cur.Classification.Status = models.StatusLoading
	return cur.Clone(), true, nil
}

// ClassifyAll calls Classify for every statement and returns how many AI
// requests were started.
func (s *Session) ClassifyAll() int {
	started := 0
	for _, st := range s.Statements() {
		if _, ok, err := s.Classify(st.ID); err == nil && ok {
			started++
		}
	}
	return started
}

// deliver merges an AI outcome into the statement with the given id. The
// result is dropped when the statement no longer exists.
func (s *Session) deliver(id string, res classifier.Result, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, lookupErr := s.getLocked(id)
	if lookupErr != nil {
		s.log.Debug("Dropping classification for missing statement", zap.String("statementID", id))
		return
	}
	if st.Classification.Status != models.StatusLoading {
		return
	}
	if err != nil {
		// The context may have changed while the request was outstanding.
		st.Classification = classifier.MarkFailed(classifier.Fallback(st.Text, st.Context))
		return
	}

	st.Classification = classifier.Merge(st.Classification, res)
	if st.Title == "" && res.SuggestedTitle != "" {
		st.Title = res.SuggestedTitle
	}
	s.log.Debug("Merged generated scripts", zap.String("statementID", id))
}
