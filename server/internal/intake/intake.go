// Package intake merges candidate statements from the three source
// instruments into a single ordered, deduplicated list.
package intake

import (
	"strings"

	"fhfa-go/server/internal/models"
)

// DefaultThreshold is the minimum endorsed score (0-4 scale) for a scale
// item to become a statement.
const DefaultThreshold = 3

// QuestionnaireResponse is the open-ended questionnaire payload.
type QuestionnaireResponse struct {
	DifficultThoughts []string `json:"difficultThoughts" yaml:"difficult_thoughts"`
}

// ScaleItemResponse is a single endorsed item of the standardized scale.
// Text may be empty when the item is resolvable from the scale definition.
type ScaleItemResponse struct {
	ItemID string `json:"id" yaml:"id"`
	Text   string `json:"text,omitempty" yaml:"text,omitempty"`
	Score  *int   `json:"score" yaml:"score"`
}

// ScaleResponse is the standardized scale payload.
type ScaleResponse struct {
	Items []ScaleItemResponse `json:"items" yaml:"items"`
}

// ParentReport is the parent free-text payload, a comma separated list.
type ParentReport struct {
	Text string `json:"text" yaml:"text"`
}

// RawSources bundles the upstream payloads. Any of them may be nil.
type RawSources struct {
	Questionnaire *QuestionnaireResponse `json:"questionnaire,omitempty" yaml:"questionnaire,omitempty"`
	Scale         *ScaleResponse         `json:"scale,omitempty" yaml:"scale,omitempty"`
	Parent        *ParentReport          `json:"parent,omitempty" yaml:"parent,omitempty"`
}

// Extractor turns raw sources into statements.
type Extractor struct {
	scale     *models.Scale
	threshold int
}

// NewExtractor creates an Extractor. scale may be nil, in which case scale
// items must carry their own text. A non-positive threshold selects
// DefaultThreshold.
func NewExtractor(scale *models.Scale, threshold int) *Extractor {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	return &Extractor{scale: scale, threshold: threshold}
}

// ExtractStatements applies the intake rules with the default extractor.
func ExtractStatements(raw RawSources) []models.Statement {
	return NewExtractor(nil, DefaultThreshold).ExtractStatements(raw)
}

// ExtractStatements returns questionnaire statements, then scale statements,
// then parent statements. Malformed entries are skipped. The returned
// statements have no ID; the session assigns one when they are added.
func (e *Extractor) ExtractStatements(raw RawSources) []models.Statement {
	statements := []models.Statement{}
	seen := make(map[string]bool)

	collect := func(s models.Statement) {
		seen[dedupeKey(s.Text)] = true
		statements = append(statements, s)
	}

	if raw.Questionnaire != nil {
		for _, thought := range raw.Questionnaire.DifficultThoughts {
			text := strings.TrimSpace(thought)
			if text == "" {
				continue
			}
			collect(newStatement(text, models.SourceQuestionnaire))
		}
	}

	if raw.Scale != nil {
		for _, item := range raw.Scale.Items {
			if item.Score == nil || !e.scale.InRange(*item.Score) || *item.Score < e.threshold {
				continue
			}
			text := strings.TrimSpace(item.Text)
			if text == "" {
				text, _ = e.scale.ItemText(item.ItemID)
				text = strings.TrimSpace(text)
			}
			if text == "" {
				continue
			}
			s := newStatement(text, models.SourceScale)
			s.ScaleItemID = item.ItemID
			score := *item.Score
			s.ScaleScore = &score
			collect(s)
		}
	}

	if raw.Parent != nil {
		for _, part := range strings.Split(raw.Parent.Text, ",") {
			text := strings.TrimSpace(part)
			if text == "" || seen[dedupeKey(text)] {
				continue
			}
			collect(newStatement(text, models.SourceParent))
		}
	}

	return statements
}

func newStatement(text string, source models.SourceInstrument) models.Statement {
	return models.Statement{
		Text:   text,
		Source: source,
		Classification: models.Classification{
			Status: models.StatusUnclassified,
		},
	}
}

func dedupeKey(text string) string {
	return strings.ToLower(strings.TrimSpace(text))
}
