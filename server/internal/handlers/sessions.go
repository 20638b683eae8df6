// server/internal/handlers/sessions.go
package handlers

import (
	"io"
	"net/http"
	"strings"
	"time"

	"fhfa-go/server/internal/engine"
	"fhfa-go/server/internal/intake"
	"fhfa-go/server/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

type SessionHandler struct {
	log   *zap.Logger
	store *engine.Store
}

func NewSessionHandler(log *zap.Logger, store *engine.Store) *SessionHandler {
	return &SessionHandler{log: log, store: store}
}

// SessionView is the JSON shape of a session.
type SessionView struct {
	ID                  string             `json:"id"`
	CreatedAt           time.Time          `json:"createdAt"`
	Subject             models.Subject     `json:"subject"`
	CollaboratorEnabled bool               `json:"collaboratorEnabled"`
	Statements          []models.Statement `json:"statements"`
	Timers              []TimerView        `json:"timers"`
	ActiveTimer         *TimerView         `json:"activeTimer,omitempty"`
}

func newSessionView(s *engine.Session) SessionView {
	v := SessionView{
		ID:                  s.ID,
		CreatedAt:           s.CreatedAt,
		Subject:             s.Subject(),
		CollaboratorEnabled: s.CollaboratorEnabled(),
		Statements:          s.Statements(),
		Timers:              newTimerViews(s.Timers()),
	}
	if k, ok := s.ActiveTimer(); ok {
		active := newTimerView(s.Timer(k.StatementID, k.Condition))
		v.ActiveTimer = &active
	}
	return v
}

type createSessionRequest struct {
	Subject models.Subject `json:"subject"`
}

func (h *SessionHandler) Create(c *gin.Context) {
	var req createSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, h.log, err)
		return
	}
	if strings.TrimSpace(req.Subject.Name) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "subject name is required"})
		return
	}
	s := h.store.Create(req.Subject)
	c.JSON(http.StatusCreated, newSessionView(s))
}

func (h *SessionHandler) Get(c *gin.Context) {
	s, err := h.store.Get(c.Param("id"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, newSessionView(s))
}

func (h *SessionHandler) Delete(c *gin.Context) {
	if err := h.store.Delete(c.Param("id")); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Intake decodes raw instrument responses leniently and appends the
// extracted statements.
func (h *SessionHandler) Intake(c *gin.Context) {
	s, err := h.store.Get(c.Param("id"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		badRequest(c, h.log, err)
		return
	}
	// Malformed sources inside a valid payload are skipped; a payload that is
	// not JSON at all is rejected.
	if !gjson.ValidBytes(body) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid data"})
		return
	}
	added := s.Extract(intake.DecodeSources(body))
	c.JSON(http.StatusOK, gin.H{"added": added})
}
