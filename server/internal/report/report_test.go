package report

import (
	"testing"
	"time"

	"fhfa-go/server/internal/classifier"
	"fhfa-go/server/internal/models"
	"fhfa-go/server/internal/scoring"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func latency(v float64) *float64 { return &v }

func statement(id, text string, validating, challenging *float64) models.Statement {
	return models.Statement{
		ID:                 id,
		Text:               text,
		Source:             models.SourceQuestionnaire,
		ValidatingLatency:  validating,
		ChallengingLatency: challenging,
		Classification:     classifier.Fallback(text, ""),
	}
}

func TestAssembleOrdersCompleteThenIncomplete(t *testing.T) {
	statements := []models.Statement{
		statement("partial", "I'm not good enough", latency(12), nil),
		statement("low", "School is boring", latency(20), latency(18)),
		statement("none", "Nobody listens", nil, nil),
		statement("high", "I always fail", latency(40), latency(5)),
	}
	scored := scoring.Score(statements)
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	r := Assemble(statements, scored, models.Subject{Name: "Jordan", Age: 11}, now)

	require.Len(t, r.Rows, 4)
	assert.Equal(t, "high", r.Rows[0].Statement.ID)
	assert.Equal(t, 1, r.Rows[0].Rank)
	assert.Equal(t, models.BandHigh, r.Rows[0].Band)
	assert.Equal(t, 35, *r.Rows[0].DisplayDelta)

	assert.Equal(t, "low", r.Rows[1].Statement.ID)
	assert.Equal(t, 2, r.Rows[1].Rank)
	assert.Equal(t, models.BandLow, r.Rows[1].Band)

	assert.Equal(t, "partial", r.Rows[2].Statement.ID)
	assert.False(t, r.Rows[2].Complete)
	assert.Zero(t, r.Rows[2].Rank)
	assert.Nil(t, r.Rows[2].Delta)
	assert.Equal(t, "none", r.Rows[3].Statement.ID)
	assert.False(t, r.Rows[3].Complete)

	assert.Equal(t, "Jordan", r.Subject.Name)
	assert.Equal(t, now, r.GeneratedAt)
}

func TestAssembleRowsCarryClassification(t *testing.T) {
	statements := []models.Statement{statement("a", "If I talk, they'll laugh", latency(30), latency(10))}
	r := Assemble(statements, scoring.Score(statements), models.Subject{}, time.Time{})

	row := r.Rows[0]
	assert.Equal(t, "Conditional (if-then rule)", row.RelationType)
	assert.NotEmpty(t, row.RelationExplanation)
	assert.Len(t, row.ValidatingScripts, 1)
	assert.Len(t, row.ChallengingScripts, 1)
}

func TestAssembleSummary(t *testing.T) {
	statements := []models.Statement{
		statement("a", "I always fail", latency(40), latency(5)),
		statement("b", "School is boring", latency(20), latency(18)),
		statement("c", "Math is hard", latency(25), latency(5)),
		statement("d", "I'm weird", latency(9), nil),
	}
	r := Assemble(statements, scoring.Score(statements), models.Subject{Name: "Jordan"}, time.Time{})

	s := r.Summary
	assert.Equal(t, 4, s.TotalStatements)
	assert.Equal(t, 3, s.Complete)
	assert.Equal(t, 1, s.Incomplete)
	assert.Equal(t, 1, s.BandCounts[models.BandHigh])
	assert.Equal(t, 1, s.BandCounts[models.BandModerate])
	assert.Equal(t, 1, s.BandCounts[models.BandLow])
	assert.InDelta(t, 19.0, s.MeanDelta, 1e-9)
	require.NotNil(t, s.Highest)
	assert.Equal(t, "a", s.Highest.Statement.ID)

	assert.Contains(t, r.Narrative, "Jordan was assessed on 4 statements.")
	assert.Contains(t, r.Narrative, "3 statements were fully measured: 1 high, 1 moderate and 1 low fusion.")
	assert.Contains(t, r.Narrative, `"I always fail" (delta 35 s, High)`)
	assert.Contains(t, r.Narrative, "1 statement is incomplete")
}

func TestAssembleValidatingOnlyStatementFlaggedIncomplete(t *testing.T) {
	statements := []models.Statement{statement("v", "I'm stupid", latency(22.4), nil)}
	scored := scoring.Score(statements)
	require.Empty(t, scored)

	r := Assemble(statements, scored, models.Subject{}, time.Time{})
	require.Len(t, r.Rows, 1)
	assert.False(t, r.Rows[0].Complete)
	assert.Equal(t, 22.4, *r.Rows[0].Statement.ValidatingLatency)
	assert.Nil(t, r.Summary.Highest)
	assert.Contains(t, r.Narrative, "The subject was assessed on 1 statement.")
	assert.Contains(t, r.Narrative, "no fusion ranking is available")
}

func TestAssembleEmpty(t *testing.T) {
	r := Assemble(nil, nil, models.Subject{Name: "Kim"}, time.Time{})
	assert.Empty(t, r.Rows)
	assert.NotNil(t, r.Rows)
	assert.Equal(t, 0, r.Summary.TotalStatements)
	assert.Contains(t, r.Narrative, "0 statements")
}

func TestAssembleDoesNotAliasInput(t *testing.T) {
	statements := []models.Statement{statement("a", "I always fail", latency(40), latency(5))}
	r := Assemble(statements, scoring.Score(statements), models.Subject{}, time.Time{})

	r.Rows[0].ValidatingScripts[0] = "edited"
	assert.NotEqual(t, "edited", statements[0].Classification.ValidatingScripts[0])
}
