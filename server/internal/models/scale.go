package models

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ScaleItem is one item of a standardized self-report scale.
type ScaleItem struct {
	ID   string `yaml:"id" json:"id"`
	Text string `yaml:"text" json:"text"`
}

// Scale holds the item definitions of the standardized scale used as a
// statement source. Items are endorsed on a 0-4 scale.
type Scale struct {
	Name     string      `yaml:"name" json:"name"`
	MinScore int         `yaml:"min_score" json:"minScore"`
	MaxScore int         `yaml:"max_score" json:"maxScore"`
	Items    []ScaleItem `yaml:"items" json:"items"`
}

// DefaultScaleRange is the endorsement range used when a scale file omits it.
const (
	DefaultScaleMin = 0
	DefaultScaleMax = 4
)

// LoadScale reads and parses a scale definition file.
func LoadScale(path string) (*Scale, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scale file: %w", err)
	}

	var scale Scale
	if err := yaml.Unmarshal(data, &scale); err != nil {
		return nil, fmt.Errorf("failed to unmarshal scale YAML: %w", err)
	}
	if scale.MaxScore == 0 {
		scale.MinScore, scale.MaxScore = DefaultScaleMin, DefaultScaleMax
	}

	return &scale, nil
}

// ItemText returns the text of the item with the given id.
func (s *Scale) ItemText(id string) (string, bool) {
	if s == nil {
		return "", false
	}
	for _, item := range s.Items {
		if item.ID == id {
			return item.Text, true
		}
	}
	return "", false
}

// InRange reports whether score is a valid endorsement for this scale.
func (s *Scale) InRange(score int) bool {
	lo, hi := DefaultScaleMin, DefaultScaleMax
	if s != nil && s.MaxScore != 0 {
		lo, hi = s.MinScore, s.MaxScore
	}
	return score >= lo && score <= hi
}
