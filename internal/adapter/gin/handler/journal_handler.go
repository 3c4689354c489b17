package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"user-directory/internal/adapter/journal"
	"user-directory/pkg/logger"
)

// JournalReader reads the change journal, newest entries first.
type JournalReader interface {
	Entries(ctx context.Context, limit int) ([]journal.Entry, error)
}

// JournalHandler serves the change journal. A nil reader means the journal is disabled.
type JournalHandler struct {
	reader JournalReader
	log    *zap.Logger
}

// NewJournalHandler creates a new JournalHandler instance
func NewJournalHandler(reader JournalReader, log *zap.Logger) *JournalHandler {
	return &JournalHandler{reader: reader, log: log}
}

// maxJournalLimit caps a single journal read.
const maxJournalLimit = 1000

// ListEntries handles GET /v1/journal?limit=N
func (h *JournalHandler) ListEntries(c *gin.Context) {
	if h.reader == nil {
		c.JSON(http.StatusNotFound, ErrorResponse{
			Error:   "journal_disabled",
			Message: "The change journal is not enabled",
		})
		return
	}

	limit := journal.DefaultLimit
	if s := c.Query("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Error:   "invalid_limit",
				Message: "limit must be a positive number",
			})
			return
		}
		limit = min(n, maxJournalLimit)
	}

	entries, err := h.reader.Entries(c.Request.Context(), limit)
	if err != nil {
		logger.WithContext(c.Request.Context(), h.log).Error("failed to read journal", zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "internal_error",
			Message: "An internal error occurred",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"entries": entries,
		"count":   len(entries),
	})
}
