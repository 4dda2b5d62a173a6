package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/mrko7853/University-syllabus-app-sub001/internal/calendar"
	"github.com/mrko7853/University-syllabus-app-sub001/internal/metrics"
	"github.com/mrko7853/University-syllabus-app-sub001/internal/store"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	calendarContentType = "text/calendar; charset=utf-8"

	resultOK       = "ok"
	resultNotFound = "not_found"
	resultError    = "error"
	unknownKind    = "unknown"
)

type TokenLookup interface {
	GetFeedToken(ctx context.Context, token string) (*store.FeedToken, error)
}

type FeedBuilder interface {
	Build(ctx context.Context, userID string, kind store.FeedKind) (*calendar.Feed, error)
}

// PublicFeedHandlers serves calendar documents to subscribing clients. The
// token in the query string is the only credential.
type PublicFeedHandlers struct {
	tokens  TokenLookup
	feeds   FeedBuilder
	maxAge  time.Duration
	logger  *zap.Logger
	metrics metrics.Recorder
}

func NewPublicFeedHandlers(tokens TokenLookup, feeds FeedBuilder, maxAge time.Duration, logger *zap.Logger, rec metrics.Recorder) *PublicFeedHandlers {
	return &PublicFeedHandlers{
		tokens:  tokens,
		feeds:   feeds,
		maxAge:  maxAge,
		logger:  logger,
		metrics: rec,
	}
}

func (h *PublicFeedHandlers) CalendarFeed(c *gin.Context) {
	start := time.Now()
	ctx := c.Request.Context()

	token := strings.TrimSpace(c.Query("token"))
	if token == "" {
		h.notFound(c, unknownKind, start)
		return
	}

	ft, err := h.tokens.GetFeedToken(ctx, token)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			h.notFound(c, unknownKind, start)
			return
		}
		h.fail(c, unknownKind, start, "lookup feed token", err)
		return
	}
	// revoked and unknown tokens must look the same
	if !ft.IsActive || !ft.Kind.Valid() {
		h.notFound(c, unknownKind, start)
		return
	}

	feed, err := h.feeds.Build(ctx, ft.UserID, ft.Kind)
	if err != nil {
		h.fail(c, string(ft.Kind), start, "build calendar feed", err)
		return
	}

	c.Header("Cache-Control", fmt.Sprintf("private, max-age=%d", int(h.maxAge.Seconds())))
	c.Header("X-Calendar-Term", feed.Window.Label())
	c.Header("X-Calendar-Timezone", calendar.Institution.ID)
	if wantsDownload(c.Query("download")) {
		c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.ics"`, feed.Kind))
	}
	c.Data(http.StatusOK, calendarContentType, feed.Body)

	h.metrics.RecordFeedRequest(string(ft.Kind), resultOK, time.Since(start))
	h.logger.Debug("calendar feed served",
		zap.String("request_id", GetRequestID(c)),
		zap.String("kind", string(ft.Kind)),
		zap.String("term", feed.Window.Label()),
		zap.Int("events", feed.Events),
	)
}

func (h *PublicFeedHandlers) notFound(c *gin.Context, kind string, start time.Time) {
	h.metrics.RecordFeedRequest(kind, resultNotFound, time.Since(start))
	AbortJSONError(c, http.StatusNotFound, ErrorCodeNotFound, "calendar feed not found")
}

func (h *PublicFeedHandlers) fail(c *gin.Context, kind string, start time.Time, op string, err error) {
	h.metrics.RecordFeedRequest(kind, resultError, time.Since(start))
	h.logger.Error("calendar feed failed",
		zap.String("request_id", GetRequestID(c)),
		zap.String("op", op),
		zap.String("kind", kind),
		zap.Error(err),
	)
	AbortJSONError(c, http.StatusInternalServerError, ErrorCodeInternal, "failed to build calendar feed")
}

func wantsDownload(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes":
		return true
	}
	return false
}
