// server/internal/handlers/reports.go
package handlers

import (
	"net/http"
	"strconv"

	"fhfa-go/server/internal/engine"
	"fhfa-go/server/internal/repository"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ReportHandler struct {
	log   *zap.Logger
	store *engine.Store
}

func NewReportHandler(log *zap.Logger, store *engine.Store) *ReportHandler {
	return &ReportHandler{log: log, store: store}
}

type scoreRow struct {
	StatementID  string  `json:"statementId"`
	Text         string  `json:"text"`
	Delta        float64 `json:"delta"`
	DisplayDelta int     `json:"displayDelta"`
	Band         string  `json:"band"`
}

func (h *ReportHandler) Score(c *gin.Context) {
	s, err := h.store.Get(c.Param("id"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	scored := s.Score()
	rows := make([]scoreRow, len(scored))
	for i, sc := range scored {
		rows[i] = scoreRow{
			StatementID:  sc.Statement.ID,
			Text:         sc.Statement.Text,
			Delta:        sc.Delta,
			DisplayDelta: sc.DisplayDelta(),
			Band:         string(sc.Band),
		}
	}
	c.JSON(http.StatusOK, gin.H{"scored": rows})
}

// Report assembles the report. With ?archive=true it is also stored in the
// archive database.
func (h *ReportHandler) Report(c *gin.Context) {
	s, err := h.store.Get(c.Param("id"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	r := s.Report()

	if archive, _ := strconv.ParseBool(c.Query("archive")); archive {
		rec, err := repository.SaveReport(c.Request.Context(), s.ID, r)
		if err != nil {
			respondError(c, h.log, err)
			return
		}
		h.log.Info("Report archived", zap.String("sessionID", s.ID), zap.Int("recordID", rec.ID))
		c.Header("X-Archive-Record", strconv.Itoa(rec.ID))
	}
	c.JSON(http.StatusOK, r)
}

// Archived lists archived report summaries.
func (h *ReportHandler) Archived(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	records, err := repository.ListReports(c.Request.Context(), c.Query("subject"), limit)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reports": records})
}
