// server/internal/handlers/timers.go
package handlers

import (
	"net/http"

	"fhfa-go/server/internal/engine"
	"fhfa-go/server/internal/models"
	"fhfa-go/server/internal/timer"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type TimerHandler struct {
	log   *zap.Logger
	store *engine.Store
}

func NewTimerHandler(log *zap.Logger, store *engine.Store) *TimerHandler {
	return &TimerHandler{log: log, store: store}
}

// TimerView is the JSON shape of one stopwatch.
type TimerView struct {
	StatementID string           `json:"statementId"`
	Condition   models.Condition `json:"condition"`
	Phase       timer.Phase      `json:"phase"`
	Seconds     float64          `json:"seconds"`
}

func newTimerView(s timer.State) TimerView {
	return TimerView{
		StatementID: s.Key.StatementID,
		Condition:   s.Key.Condition,
		Phase:       s.Phase,
		Seconds:     s.Seconds(),
	}
}

func newTimerViews(states []timer.State) []TimerView {
	out := make([]TimerView, len(states))
	for i, s := range states {
		out[i] = newTimerView(s)
	}
	return out
}

func (h *TimerHandler) List(c *gin.Context) {
	s, err := h.store.Get(c.Param("id"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"timers": newTimerViews(s.Timers())})
}

// Action handles start, pause, record and reset for one stopwatch.
func (h *TimerHandler) Action(c *gin.Context) {
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
	id := c.Param("sid")

	switch c.Param("action") {
	case "start":
		_, err = s.StartTimer(id, cond)
	case "pause":
		_, err = s.PauseTimer(id, cond)
	case "record":
		_, err = s.RecordTimer(id, cond)
	case "reset":
		_, err = s.ResetTimer(id, cond)
	default:
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown timer action"})
		return
	}
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	st, err := s.Statement(id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"timer":     newTimerView(s.Timer(id, cond)),
		"statement": st,
	})
}
