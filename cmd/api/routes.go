package main

import (
	"context"
	"net/http"
	"time"

	"github.com/mrko7853/University-syllabus-app-sub001/internal/api"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func (app *app) routes() http.Handler {
	g := gin.New()
	g.HandleMethodNotAllowed = true
	g.Use(gin.Recovery(), api.RequestID(), api.Logger(app.logger), corsMiddleware())

	g.NoRoute(func(c *gin.Context) {
		api.AbortJSONError(c, http.StatusNotFound, api.ErrorCodeNotFound, "route not found")
	})
	g.NoMethod(func(c *gin.Context) {
		api.AbortJSONError(c, http.StatusMethodNotAllowed, api.ErrorCodeMethodNotAllowed, "method not allowed")
	})

	health := g.Group("/health")
	{
		health.GET("", healthHandler)
	}

	if app.config.Metrics.Enabled {
		g.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	timeout := app.config.Server.HandlerTimeout

	g.GET("/calendar-feed", withTimeout(timeout, app.publicHandlers.CalendarFeed))

	integrations := g.Group("/calendar-integrations")
	integrations.Use(api.RequireAuth(app.verifier, app.logger))
	{
		integrations.GET("", withTimeout(timeout, app.getIntegration))
		integrations.POST("", withTimeout(timeout, app.postIntegration))
	}

	return g
}

func healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "OK"})
}

func withTimeout(d time.Duration, fn gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), d)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)
		fn(c)
	}
}
