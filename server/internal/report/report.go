// Package report assembles scored, classified statements into the final
// assessment report.
package report

import (
	"fmt"
	"strings"
	"time"

	"fhfa-go/server/internal/models"
	"fhfa-go/server/internal/scoring"
)

// Assemble builds a report. Scored rows come first in priority order, then
// every statement missing from the scored set, flagged, in list order.
// generatedAt is stamped on the report as given.
func Assemble(statements []models.Statement, scored []models.ScoredStatement, subject models.Subject, generatedAt time.Time) models.Report {
	rows := make([]models.ReportRow, 0, len(statements))
	inScored := make(map[string]bool, len(scored))

	for i, s := range scored {
		inScored[s.Statement.ID] = true
		delta := s.Delta
		display := s.DisplayDelta()
		row := newRow(s.Statement)
		row.Rank = i + 1
		row.Complete = true
		row.Delta = &delta
		row.DisplayDelta = &display
		row.Band = s.Band
		rows = append(rows, row)
	}

	incomplete := 0
	for _, s := range statements {
		if inScored[s.ID] {
			continue
		}
		rows = append(rows, newRow(s))
		incomplete++
	}

	agg := scoring.Summarize(scored)
	summary := models.ReportSummary{
		TotalStatements: len(rows),
		Complete:        len(scored),
		Incomplete:      incomplete,
		BandCounts:      agg.BandCounts,
		MeanDelta:       agg.MeanDelta.Value,
		MedianDelta:     agg.MedianDelta.Value,
	}
	if len(scored) > 0 {
		top := rows[0]
		summary.Highest = &top
	}

	return models.Report{
		Subject:     subject,
		GeneratedAt: generatedAt,
		Rows:        rows,
		Summary:     summary,
		Narrative:   narrative(subject, summary),
	}
}

func newRow(s models.Statement) models.ReportRow {
	s = s.Clone()
	return models.ReportRow{
		Statement:           s,
		RelationType:        s.Classification.RelationType,
		RelationExplanation: s.Classification.RelationExplanation,
		ValidatingScripts:   s.Classification.ValidatingScripts,
		ChallengingScripts:  s.Classification.ChallengingScripts,
		UsedDefault:         s.Classification.UsedDefault,
	}
}

func narrative(subject models.Subject, summary models.ReportSummary) string {
	name := strings.TrimSpace(subject.Name)
	if name == "" {
		name = "The subject"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s was assessed on %s.", name, plural(summary.TotalStatements, "statement"))

	if summary.Complete == 0 {
		b.WriteString(" No statement has both latencies recorded yet, so no fusion ranking is available.")
	} else {
		fmt.Fprintf(&b, " %s fully measured: %d high, %d moderate and %d low fusion.",
			plural(summary.Complete, "statement was"),
			summary.BandCounts[models.BandHigh],
			summary.BandCounts[models.BandModerate],
			summary.BandCounts[models.BandLow])
		top := summary.Highest
		fmt.Fprintf(&b, " The highest priority statement is %q (delta %d s, %s).",
			top.Statement.Text, *top.DisplayDelta, top.Band)
	}

	if summary.Incomplete > 0 {
		fmt.Fprintf(&b, " %s incomplete and could not be scored.", plural(summary.Incomplete, "statement is"))
	}
	return b.String()
}

// plural renders "1 statement" / "2 statements", also handling the
// "statement is/was" verb forms used in the narrative.
func plural(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, noun)
	}
	switch {
	case strings.HasSuffix(noun, " is"):
		noun = strings.TrimSuffix(noun, " is") + "s are"
	case strings.HasSuffix(noun, " was"):
		noun = strings.TrimSuffix(noun, " was") + "s were"
	default:
		noun += "s"
	}
	return fmt.Sprintf("%d %s", n, noun)
}
