package main

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/mrko7853/University-syllabus-app-sub001/internal/api"
	"github.com/mrko7853/University-syllabus-app-sub001/internal/store"
	"github.com/mrko7853/University-syllabus-app-sub001/internal/subscription"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	actionEnsureFeeds   = "ensure_feeds"
	actionRotateFeeds   = "rotate_feeds"
	actionDisconnectAll = "disconnect_all"
)

type integrationManager interface {
	BuildState(ctx context.Context, userID string) (*subscription.State, error)
	CurrentMode(ctx context.Context, userID string) (store.FeedMode, error)
	EnsureFeeds(ctx context.Context, userID string, mode store.FeedMode) (*subscription.State, error)
	RotateFeeds(ctx context.Context, userID string, kinds []store.FeedKind) (*subscription.State, error)
	DisconnectAll(ctx context.Context, userID string) (*subscription.State, error)
}

type integrationRequest struct {
	Action   string   `json:"action"`
	FeedMode *string  `json:"feedMode"`
	Kinds    []string `json:"kinds"`
}

func (app *app) getIntegration(c *gin.Context) {
	userID, ok := api.GetUserID(c)
	if !ok {
		api.AbortJSONError(c, http.StatusInternalServerError, api.ErrorCodeInternal, "missing user context")
		return
	}

	state, err := app.integrations.BuildState(c.Request.Context(), userID)
	if err != nil {
		app.integrationError(c, "build state", err)
		return
	}
	c.JSON(http.StatusOK, state)
}

func (app *app) postIntegration(c *gin.Context) {
	userID, ok := api.GetUserID(c)
	if !ok {
		api.AbortJSONError(c, http.StatusInternalServerError, api.ErrorCodeInternal, "missing user context")
		return
	}

	var req integrationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.AbortJSONErrorWithDetails(c, http.StatusBadRequest, api.ErrorCodeValidation, "invalid request body", err.Error())
		return
	}

	ctx := c.Request.Context()
	action := strings.TrimSpace(req.Action)

	var (
		state *subscription.State
		err   error
	)
	switch action {
	case actionEnsureFeeds:
		var mode store.FeedMode
		mode, err = app.requestedMode(ctx, userID, req.FeedMode)
		if err == nil {
			state, err = app.integrations.EnsureFeeds(ctx, userID, mode)
		}
	case actionRotateFeeds:
		kinds := make([]store.FeedKind, 0, len(req.Kinds))
		for _, k := range req.Kinds {
			kinds = append(kinds, store.FeedKind(strings.TrimSpace(k)))
		}
		state, err = app.integrations.RotateFeeds(ctx, userID, kinds)
	case actionDisconnectAll:
		state, err = app.integrations.DisconnectAll(ctx, userID)
	case "":
		api.AbortJSONError(c, http.StatusBadRequest, api.ErrorCodeValidation, "action is required")
		return
	default:
		api.AbortJSONError(c, http.StatusBadRequest, api.ErrorCodeValidation, "unknown action: "+action)
		return
	}

	if err != nil {
		app.integrationError(c, action, err)
		return
	}

	app.logger.Info("calendar integration updated",
		zap.String("request_id", api.GetRequestID(c)),
		zap.String("user_id", userID),
		zap.String("action", action),
		zap.String("status", state.Status),
	)
	c.JSON(http.StatusOK, state)
}

// requestedMode falls back to the stored mode when the body has none.
func (app *app) requestedMode(ctx context.Context, userID string, raw *string) (store.FeedMode, error) {
	if raw != nil && strings.TrimSpace(*raw) != "" {
		return store.FeedMode(strings.TrimSpace(*raw)), nil
	}
	return app.integrations.CurrentMode(ctx, userID)
}

func (app *app) integrationError(c *gin.Context, op string, err error) {
	var verr *subscription.ValidationError
	if errors.As(err, &verr) {
		api.AbortJSONError(c, http.StatusBadRequest, api.ErrorCodeValidation, verr.Message)
		return
	}

	app.logger.Error("calendar integration failed",
		zap.String("request_id", api.GetRequestID(c)),
		zap.String("op", op),
		zap.Bool("token_exhausted", errors.Is(err, subscription.ErrTokenGenerationExhausted)),
		zap.Error(err),
	)
	api.AbortJSONError(c, http.StatusInternalServerError, api.ErrorCodeInternal, "failed to update calendar integration")
}
