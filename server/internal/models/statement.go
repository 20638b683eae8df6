package models

import "fmt"

// SourceInstrument identifies the inventory a statement was collected from.
type SourceInstrument string

const (
	SourceQuestionnaire SourceInstrument = "questionnaire"
	SourceScale         SourceInstrument = "scale"
	SourceParent        SourceInstrument = "parent"
	SourceManual        SourceInstrument = "manual"
)

// ParseSource maps a request value onto a SourceInstrument. An empty value
// selects SourceManual.
func ParseSource(s string) (SourceInstrument, error) {
	switch SourceInstrument(s) {
	case "":
		return SourceManual, nil
	case SourceQuestionnaire, SourceScale, SourceParent, SourceManual:
		return SourceInstrument(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownSource, s)
}

// Condition is one of the two probe scripts a statement is timed under.
type Condition string

const (
	ConditionValidating  Condition = "validating"
	ConditionChallenging Condition = "challenging"
)

// ParseCondition maps a path or form value onto a Condition.
func ParseCondition(s string) (Condition, error) {
	switch Condition(s) {
	case ConditionValidating, ConditionChallenging:
		return Condition(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownCondition, s)
}

// ClassificationStatus tracks where a statement is in the classifier lifecycle.
type ClassificationStatus string

const (
	StatusUnclassified ClassificationStatus = "unclassified"
	StatusFallback     ClassificationStatus = "fallback"
	StatusLoading      ClassificationStatus = "loading"
	StatusComplete     ClassificationStatus = "complete"
)

// Classification is the relational-frame output attached to a statement.
type Classification struct {
	RelationType        string               `json:"relationType"`
	RelationExplanation string               `json:"relationExplanation"`
	ValidatingScripts   []string             `json:"validatingScripts"`
	ChallengingScripts  []string             `json:"challengingScripts"`
	Status              ClassificationStatus `json:"status"`
	// UsedDefault is set when an AI request failed and the rule-based
	// scripts were kept.
	UsedDefault bool `json:"usedDefault"`
}

// Loading reports whether an AI request is outstanding for the statement.
func (c Classification) Loading() bool {
	return c.Status == StatusLoading
}

// Generated reports whether AI output has been merged in.
func (c Classification) Generated() bool {
	return c.Status == StatusComplete
}

// Statement is a candidate fused thought under assessment.
type Statement struct {
	ID     string           `json:"id"`
	Text   string           `json:"text"`
	Title  string           `json:"title,omitempty"`
	Source SourceInstrument `json:"source"`

	// Set only for scale-sourced statements.
	ScaleItemID string `json:"scaleItemId,omitempty"`
	ScaleScore  *int   `json:"scaleScore,omitempty"`

	Context string `json:"context"`

	ValidatingLatency  *float64 `json:"validatingLatency"`
	ChallengingLatency *float64 `json:"challengingLatency"`

	ValidatingPrecursors  string `json:"validatingPrecursors,omitempty"`
	ChallengingPrecursors string `json:"challengingPrecursors,omitempty"`

	Classification Classification `json:"classification"`
}

// Latency returns the committed latency for a condition, or nil.
func (s *Statement) Latency(c Condition) *float64 {
	if c == ConditionChallenging {
		return s.ChallengingLatency
	}
	return s.ValidatingLatency
}

// SetLatency commits or clears (nil) the latency for a condition.
func (s *Statement) SetLatency(c Condition, v *float64) {
	if c == ConditionChallenging {
		s.ChallengingLatency = v
		return
	}
	s.ValidatingLatency = v
}

// SetPrecursors stores the free-text precursor notes for a condition.
func (s *Statement) SetPrecursors(c Condition, text string) {
	if c == ConditionChallenging {
		s.ChallengingPrecursors = text
		return
	}
	s.ValidatingPrecursors = text
}

// Complete reports whether both latencies have been recorded.
func (s *Statement) Complete() bool {
	return s.ValidatingLatency != nil && s.ChallengingLatency != nil
}

// Clone returns a deep copy so callers cannot mutate session state.
func (s Statement) Clone() Statement {
	out := s
	if s.ScaleScore != nil {
		v := *s.ScaleScore
		out.ScaleScore = &v
	}
	if s.ValidatingLatency != nil {
		v := *s.ValidatingLatency
		out.ValidatingLatency = &v
	}
	if s.ChallengingLatency != nil {
		v := *s.ChallengingLatency
		out.ChallengingLatency = &v
	}
	out.Classification.ValidatingScripts = append([]string(nil), s.Classification.ValidatingScripts...)
	out.Classification.ChallengingScripts = append([]string(nil), s.Classification.ChallengingScripts...)
	return out
}
