// Package router defines how HTTP routes are registered for the API.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/health-sync/internal/handler"
	"github.com/iliyamo/health-sync/internal/middleware"
)

// RegisterRoutes wires all endpoints onto the provided Echo instance.
//
// Provider-facing endpoints (OAuth callback, webhook ingress) live outside
// /v1 and carry no operator token: the callback is protected by the signed
// state parameter and the webhook by its HMAC signature. Everything under
// /v1/withings requires the static API token.
func RegisterRoutes(e *echo.Echo, h *handler.WithingsHandler, webhookLimiter echo.MiddlewareFunc, apiToken string) {
	e.GET("/healthz", handler.Health)

	e.GET("/withings/callback", h.Callback)
	e.POST("/withings/webhook", h.Webhook, webhookLimiter)

	g := e.Group("/v1/withings")
	g.Use(middleware.APIToken(apiToken))
	g.GET("/auth", h.AuthURL)
	g.GET("/status", h.Status)
	g.POST("/refresh", h.Refresh)
	g.DELETE("/disconnect", h.Disconnect)
	g.POST("/backfill", h.Backfill)
}
