// Package scoring derives fusion deltas, bands and the clinical review
// priority from recorded probe latencies.
package scoring

import (
	"sort"

	"fhfa-go/server/internal/models"

	"github.com/montanaflynn/stats"
)

// Band thresholds in seconds.
const (
	HighThreshold     = 30.0
	ModerateThreshold = 15.0
)

// Delta is validating minus challenging latency. A larger value means the
// challenging (defusion) script took relatively longer to engage with.
func Delta(validating, challenging float64) float64 {
	return validating - challenging
}

// Classify maps an unrounded delta onto its band.
func Classify(delta float64) models.Band {
	switch {
	case delta >= HighThreshold:
		return models.BandHigh
	case delta >= ModerateThreshold:
		return models.BandModerate
	default:
		return models.BandLow
	}
}

// Score returns the fully measured statements ranked by descending delta.
// Statements missing either latency are left out. Ties keep input order.
func Score(statements []models.Statement) []models.ScoredStatement {
	scored := make([]models.ScoredStatement, 0, len(statements))
	for _, s := range statements {
		if !s.Complete() {
			continue
		}
		delta := Delta(*s.ValidatingLatency, *s.ChallengingLatency)
		scored = append(scored, models.ScoredStatement{
			Statement: s,
			Delta:     delta,
			Band:      Classify(delta),
		})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Delta > scored[j].Delta
	})
	return scored
}

// MetricResult is a computed value and whether it could be computed.
type MetricResult struct {
	Value      float64 `json:"value"`
	Calculated bool    `json:"calculated"`
	SampleSize int     `json:"sampleSize,omitempty"`
}

// Summary aggregates a scored set.
type Summary struct {
	BandCounts  map[models.Band]int `json:"bandCounts"`
	MeanDelta   MetricResult        `json:"meanDelta"`
	MedianDelta MetricResult        `json:"medianDelta"`
}

// Summarize counts bands and computes central tendency of the deltas.
func Summarize(scored []models.ScoredStatement) Summary {
	summary := Summary{
		BandCounts: map[models.Band]int{
			models.BandHigh:     0,
			models.BandModerate: 0,
			models.BandLow:      0,
		},
	}
	if len(scored) == 0 {
		return summary
	}

	deltas := make(stats.Float64Data, 0, len(scored))
	for _, s := range scored {
		summary.BandCounts[s.Band]++
		deltas = append(deltas, s.Delta)
	}

	if mean, err := deltas.Mean(); err == nil {
		summary.MeanDelta = MetricResult{Value: mean, Calculated: true, SampleSize: len(deltas)}
	}
	if median, err := deltas.Median(); err == nil {
		summary.MedianDelta = MetricResult{Value: median, Calculated: true, SampleSize: len(deltas)}
	}
	return summary
}
