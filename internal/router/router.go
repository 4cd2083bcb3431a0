package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing

	"github.com/iliyamo/lagos-signal-directory/internal/handler"
	"github.com/iliyamo/lagos-signal-directory/internal/metrics"
)

// RegisterRoutes registers the operational routes: the service banner,
// the liveness probe, Prometheus metrics and the catch-all 404.
func RegisterRoutes(e *echo.Echo, version, apiBase string) {
	e.GET("/", handler.Banner(version, apiBase))
	// Liveness probe for load balancers; does not read the directory.
	e.GET("/healthz", handler.Health)
	e.GET("/metrics", echo.WrapHandler(metrics.Handler()))
	// Any path no other route matches gets the envelope 404.
	e.RouteNotFound("/*", handler.RouteNotFound)
}

// RegisterSignal registers the read-only lookup API under apiBase.  The
// lookup group takes the cache and rate-limit middleware; health stays
// outside it so probes are never throttled or served stale.
func RegisterSignal(e *echo.Echo, h *handler.SignalHandler, apiBase string, mw ...echo.MiddlewareFunc) {
	e.GET(apiBase+"/health", h.APIHealth(apiBase))

	g := e.Group(apiBase, mw...)
	g.GET("/locations", h.ListLocations)
	g.GET("/signal/:location", h.GetLocation)
	g.GET("/signal/:location/:network", h.GetSignal)
	g.GET("/search/:query", h.Search)
	g.GET("/summary/:location", h.Summary)
}
