package models

import "math"

// Band is the fusion severity derived from a statement's timing delta.
type Band string

const (
	BandLow      Band = "Low"
	BandModerate Band = "Moderate"
	BandHigh     Band = "High"
)

// ScoredStatement pairs a fully measured statement with its delta and band.
// It is recomputed from the statement list and never stored on its own.
type ScoredStatement struct {
	Statement Statement `json:"statement"`
	// Delta is validating minus challenging latency, in seconds, unrounded.
	Delta float64 `json:"delta"`
	Band  Band    `json:"band"`
}

// DisplayDelta is the delta rounded to whole seconds.
func (s ScoredStatement) DisplayDelta() int {
	return int(math.Round(s.Delta))
}
