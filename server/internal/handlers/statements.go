// server/internal/handlers/statements.go
package handlers

import (
	"net/http"

	"fhfa-go/server/internal/engine"
	"fhfa-go/server/internal/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type StatementHandler struct {
	log   *zap.Logger
	store *engine.Store
}

func NewStatementHandler(log *zap.Logger, store *engine.Store) *StatementHandler {
	return &StatementHandler{log: log, store: store}
}

type addStatementRequest struct {
	Text   string                  `json:"text" binding:"required"`
	Title  string                  `json:"title"`
	Source models.SourceInstrument `json:"source"`
}

type textRequest struct {
	Text string `json:"text"`
}

func (h *StatementHandler) Add(c *gin.Context) {
	s, err := h.store.Get(c.Param("id"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	var req addStatementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, h.log, err)
		return
	}
	st, err := s.AddStatement(req.Text, req.Title, req.Source)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, st)
}

func (h *StatementHandler) Remove(c *gin.Context) {
	s, err := h.store.Get(c.Param("id"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	if err := s.RemoveStatement(c.Param("sid")); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *StatementHandler) SetContext(c *gin.Context) {
	s, err := h.store.Get(c.Param("id"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	var req textRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, h.log, err)
		return
	}
	st, err := s.SetContext(c.Param("sid"), req.Text)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, st)
}

func (h *StatementHandler) SetPrecursors(c *gin.Context) {
	s, err := h.store.Get(c.Param("id"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	cond, err := models.ParseCondition(c.Param("condition"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	var req textRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, h.log, err)
		return
	}
	st, err := s.SetPrecursors(c.Param("sid"), cond, req.Text)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, st)
}

// Classify requests AI scripts for a statement. The response carries the
// rule-based scripts immediately; 202 means a request was started.
func (h *StatementHandler) Classify(c *gin.Context) {
	s, err := h.store.Get(c.Param("id"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	st, started, err := s.Classify(c.Param("sid"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	status := http.StatusOK
	if started {
		status = http.StatusAccepted
	}
	c.JSON(status, gin.H{"statement": st, "started": started})
}
