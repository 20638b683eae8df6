// server/internal/repository/reports.go
package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"fhfa-go/server/internal/database"
	"fhfa-go/server/internal/models"

	"github.com/lib/pq"
)

// ErrArchiveDisabled is returned when no archive database is configured.
var ErrArchiveDisabled = errors.New("report archive disabled")

// topStatements is how many ranked statements are copied into the
// searchable column.
const topStatements = 5

// NewReportRecord flattens a report into its archive row.
func NewReportRecord(sessionID string, r models.Report) (*models.ReportRecord, error) {
	raw, err := json.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("encode report: %w", err)
	}

	top := pq.StringArray{}
	for _, row := range r.Rows {
		if !row.Complete || len(top) == topStatements {
			break
		}
		top = append(top, row.Statement.Text)
	}

	return &models.ReportRecord{
		SessionID:      sessionID,
		SubjectName:    r.Subject.Name,
		HighCount:      r.Summary.BandCounts[models.BandHigh],
		ModerateCount:  r.Summary.BandCounts[models.BandModerate],
		LowCount:       r.Summary.BandCounts[models.BandLow],
		IncompleteRows: r.Summary.Incomplete,
		TopStatements:  top,
		RawData:        raw,
		CreatedAt:      r.GeneratedAt,
	}, nil
}

// SaveReport archives an assembled report.
func SaveReport(ctx context.Context, sessionID string, r models.Report) (*models.ReportRecord, error) {
	if database.DB == nil {
		return nil, ErrArchiveDisabled
	}
	rec, err := NewReportRecord(sessionID, r)
	if err != nil {
		return nil, err
	}
	if err := database.DB.WithContext(ctx).Create(rec).Error; err != nil {
		return nil, fmt.Errorf("archive report for session %s: %w", sessionID, err)
	}
	return rec, nil
}

// ListReports returns the newest archived reports, optionally filtered by
// subject name.
func ListReports(ctx context.Context, subjectName string, limit int) ([]models.ReportRecord, error) {
	if database.DB == nil {
		return nil, ErrArchiveDisabled
	}
	if limit <= 0 {
		limit = 20
	}
	q := database.DB.WithContext(ctx).Order("created_at DESC").Limit(limit)
	if subjectName != "" {
		q = q.Where("subject_name = ?", subjectName)
	}
	var records []models.ReportRecord
	if err := q.Find(&records).Error; err != nil {
		return nil, fmt.Errorf("list archived reports: %w", err)
	}
	return records, nil
}
