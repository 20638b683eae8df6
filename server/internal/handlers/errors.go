package handlers

import (
	"errors"
	"net/http"

	"fhfa-go/server/internal/models"
	"fhfa-go/server/internal/repository"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// respondError maps engine errors to HTTP statuses.
func respondError(c *gin.Context, log *zap.Logger, err error) {
	switch {
	case errors.Is(err, models.ErrSessionNotFound), errors.Is(err, models.ErrStatementNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, models.ErrUnknownCondition), errors.Is(err, models.ErrUnknownSource),
		errors.Is(err, models.ErrEmptyStatement):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, repository.ErrArchiveDisabled):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
	default:
		log.Error("Request failed", zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

func badRequest(c *gin.Context, log *zap.Logger, err error) {
	log.Debug("Rejected request body", zap.String("path", c.FullPath()), zap.Error(err))
	c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid data"})
}
