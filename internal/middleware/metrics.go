package middleware

import (
    "strconv"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/lagos-signal-directory/internal/metrics"
)

// Metrics records request counts and latency per route pattern.  Unmatched
// routes share one label so arbitrary paths cannot blow up cardinality.
func Metrics() echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            start := time.Now()
            err := next(c)
            if err != nil {
                // Render now so the recorded status is the one the client sees.
                c.Error(err)
            }
            route := c.Path()
            if route == "" || route == "/*" {
                route = "unmatched"
            }
            status := strconv.Itoa(c.Response().Status)
            metrics.RequestsTotal.WithLabelValues(route, status).Inc()
            metrics.RequestDurationMs.WithLabelValues(route).Observe(float64(time.Since(start).Milliseconds()))
            return nil
        }
    }
}
