package handler

import (
    "net/http"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/lagos-signal-directory/internal/model"
)

// Health is a liveness probe for load balancers.  It returns a plain text
// "ok" with a 200 status and never touches the directory.
func Health(c echo.Context) error {
    return c.String(http.StatusOK, "ok")
}

// Endpoints maps endpoint names to route patterns under base.
func Endpoints(base string) map[string]string {
    return map[string]string{
        "locations": base + "/locations",
        "signal":    base + "/signal/:location",
        "network":   base + "/signal/:location/:network",
        "search":    base + "/search/:query",
        "summary":   base + "/summary/:location",
        "health":    base + "/health",
    }
}

// APIHealth handles GET /api/health.  It always succeeds: an unavailable
// or empty directory reports zero locations.
func (h *SignalHandler) APIHealth(base string) echo.HandlerFunc {
    return func(c echo.Context) error {
        total := 0
        if d, err := h.Dir.Directory(c.Request().Context()); err == nil {
            total = d.Len()
        } else {
            c.Logger().Warnf("health: directory unavailable: %v", err)
        }
        eps := Endpoints(base)
        delete(eps, "health")
        return c.JSON(http.StatusOK, HealthResponse{
            Success:   true,
            Message:   "Mobile Signal API is healthy!",
            Status:    "online",
            Timestamp: h.Now().UTC().Format("2006-01-02T15:04:05.000Z07:00"),
            Data: HealthData{
                TotalLocations: total,
                Networks:       append([]string(nil), model.KnownNetworks...),
                Endpoints:      eps,
            },
        })
    }
}

// Banner handles GET / and describes the service.
func Banner(version, base string) echo.HandlerFunc {
    return func(c echo.Context) error {
        return c.JSON(http.StatusOK, BannerResponse{
            Success:   true,
            Message:   "Mobile Network Signal Strength API",
            Version:   version,
            Endpoints: Endpoints(base),
        })
    }
}
