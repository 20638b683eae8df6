package models

import (
	"encoding/json"
	"time"

	"github.com/lib/pq"
)

// ReportRow is one statement line of an assembled report.
type ReportRow struct {
	// Rank is the 1-based fusion priority; zero for incomplete rows.
	Rank      int       `json:"rank"`
	Statement Statement `json:"statement"`
	Complete  bool      `json:"complete"`

	Delta        *float64 `json:"delta,omitempty"`
	DisplayDelta *int     `json:"displayDelta,omitempty"`
	Band         Band     `json:"band,omitempty"`

	RelationType        string   `json:"relationType"`
	RelationExplanation string   `json:"relationExplanation"`
	ValidatingScripts   []string `json:"validatingScripts"`
	ChallengingScripts  []string `json:"challengingScripts"`
	UsedDefault         bool     `json:"usedDefault"`
}

// ReportSummary aggregates the scored rows.
type ReportSummary struct {
	TotalStatements int          `json:"totalStatements"`
	Complete        int          `json:"complete"`
	Incomplete      int          `json:"incomplete"`
	BandCounts      map[Band]int `json:"bandCounts"`
	MeanDelta       float64      `json:"meanDelta"`
	MedianDelta     float64      `json:"medianDelta"`
	// Highest is the top-priority complete row, nil when nothing was scored.
	Highest *ReportRow `json:"highest,omitempty"`
}

// Report is the structured output of an assessment.
type Report struct {
	Subject     Subject       `json:"subject"`
	GeneratedAt time.Time     `json:"generatedAt"`
	Rows        []ReportRow   `json:"rows"`
	Summary     ReportSummary `json:"summary"`
	Narrative   string        `json:"narrative"`
}

// ReportRecord is an archived report as stored by the downstream archive.
type ReportRecord struct {
	ID             int
	SessionID      string `gorm:"index"`
	SubjectName    string
	HighCount      int
	ModerateCount  int
	LowCount       int
	IncompleteRows int
	TopStatements  pq.StringArray  `gorm:"type:text[]"`
	RawData        json.RawMessage `gorm:"type:jsonb"`
	CreatedAt      time.Time
}
