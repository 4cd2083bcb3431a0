// Package handler exposes the HTTP façade over the signal directory.  Every
// handler answers with the uniform success/error envelope; lookup failures
// never escape as raw errors.
package handler

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/lagos-signal-directory/internal/directory"
	"github.com/iliyamo/lagos-signal-directory/internal/lookup"
	"github.com/iliyamo/lagos-signal-directory/internal/metrics"
	"github.com/iliyamo/lagos-signal-directory/internal/model"
	"github.com/iliyamo/lagos-signal-directory/internal/queue"
	"github.com/iliyamo/lagos-signal-directory/internal/service"
)

const (
	suggestLocations = "Please check available locations using /api/locations"
	suggestSearch    = "Try a different search term"
)

// SignalHandler bundles what the lookup endpoints need.  The directory is
// injected through a Provider rather than read from package state.
type SignalHandler struct {
	Dir       directory.Provider     // source of the immutable directory
	Misses    service.MissPublisher  // receives lookup-miss events; must not block
	ShowError bool                   // expose internal error text (development only)
	Now       func() time.Time       // clock, replaceable in tests
}

// NewSignalHandler constructs a SignalHandler and panics if the provider is nil.
func NewSignalHandler(dir directory.Provider, misses service.MissPublisher, showError bool) *SignalHandler {
	if dir == nil {
		panic("nil directory provider passed to NewSignalHandler")
	}
	if misses == nil {
		misses = service.NopPublisher{}
	}
	return &SignalHandler{Dir: dir, Misses: misses, ShowError: showError, Now: time.Now}
}

// ListLocations handles GET /api/locations.
func (h *SignalHandler) ListLocations(c echo.Context) error {
	d, err := h.Dir.Directory(c.Request().Context())
	if err != nil {
		return h.internal(c, "Error retrieving locations", err)
	}
	names := lookup.AllLocations(d)
	return c.JSON(http.StatusOK, LocationsResponse{
		Success:   true,
		Count:     len(names),
		Locations: names,
		Message:   "All available Lagos locations retrieved successfully",
	})
}

// GetLocation handles GET /api/signal/:location.
func (h *SignalHandler) GetLocation(c echo.Context) error {
	name, err := param(c, "location")
	if err != nil {
		return err
	}
	d, err := h.Dir.Directory(c.Request().Context())
	if err != nil {
		return h.internal(c, "Error retrieving signal data", err)
	}
	entry, err := lookup.GetLocation(d, name)
	metrics.Lookup("location", err == nil)
	if err != nil {
		return h.notFound(c, err)
	}
	return c.JSON(http.StatusOK, LocationResponse{
		Success:  true,
		Location: entry.Name,
		Signals:  model.Signals(entry.Readings),
		Message:  fmt.Sprintf("Signal strength data for %s retrieved successfully", entry.Name),
	})
}

// GetSignal handles GET /api/signal/:location/:network.
func (h *SignalHandler) GetSignal(c echo.Context) error {
	name, err := param(c, "location")
	if err != nil {
		return err
	}
	network, err := param(c, "network")
	if err != nil {
		return err
	}
	d, err := h.Dir.Directory(c.Request().Context())
	if err != nil {
		return h.internal(c, "Error retrieving network signal data", err)
	}
	sig, err := lookup.GetSignal(d, name, network)
	metrics.Lookup("signal", err == nil)
	if err != nil {
		return h.notFound(c, err)
	}
	return c.JSON(http.StatusOK, SignalResponse{
		Success:  true,
		Location: sig.Location,
		Network:  sig.Network,
		Strength: sig.Strength,
		Message:  fmt.Sprintf("%s signal strength in %s retrieved successfully", sig.Network, sig.Location),
	})
}

// Search handles GET /api/search/:query.  Zero matches answer 404 with a
// suggestion.
func (h *SignalHandler) Search(c echo.Context) error {
	raw, err := param(c, "query")
	if err != nil {
		return err
	}
	query := strings.ToLower(raw)
	d, err := h.Dir.Directory(c.Request().Context())
	if err != nil {
		return h.internal(c, "Error searching locations", err)
	}
	matches := lookup.Search(d, query)
	metrics.Lookup("search", len(matches) > 0)
	if len(matches) == 0 {
		h.reportMiss(c, queue.LookupMissedEvent{Kind: "search", Query: query})
		return c.JSON(http.StatusNotFound, ErrorResponse{
			Message:    "No locations found matching: " + query,
			Suggestion: suggestSearch,
		})
	}
	results := make([]SearchResult, 0, len(matches))
	for _, e := range matches {
		results = append(results, SearchResult{Location: e.Name, Signals: model.Signals(e.Readings)})
	}
	return c.JSON(http.StatusOK, SearchResponse{
		Success: true,
		Query:   query,
		Count:   len(results),
		Results: results,
		Message: fmt.Sprintf("Found %d location(s) matching your search", len(results)),
	})
}

// Summary handles GET /api/summary/:location: the all-networks average
// plus a quality tier and bar count per network.
func (h *SignalHandler) Summary(c echo.Context) error {
	name, err := param(c, "location")
	if err != nil {
		return err
	}
	d, err := h.Dir.Directory(c.Request().Context())
	if err != nil {
		return h.internal(c, "Error summarising signal data", err)
	}
	entry, err := lookup.GetLocation(d, name)
	metrics.Lookup("summary", err == nil)
	if err != nil {
		return h.notFound(c, err)
	}
	return c.JSON(http.StatusOK, struct {
		Success bool `json:"success"`
		lookup.Summary
		Message string `json:"message"`
	}{
		Success: true,
		Summary: lookup.Summarize(entry),
		Message: fmt.Sprintf("Signal summary for %s retrieved successfully", entry.Name),
	})
}

// notFound renders a lookup failure and reports the miss.
func (h *SignalHandler) notFound(c echo.Context, err error) error {
	var nf *lookup.NotFoundError
	if !errors.As(err, &nf) {
		return h.internal(c, "Error retrieving signal data", err)
	}
	if nf.Kind == lookup.KindNetwork {
		h.reportMiss(c, queue.LookupMissedEvent{Kind: string(nf.Kind), Query: nf.Input, Location: nf.Location, Network: nf.Input})
		return c.JSON(http.StatusNotFound, ErrorResponse{
			Message:           fmt.Sprintf("No data found for network: %s in %s", nf.Input, nf.Location),
			AvailableNetworks: nf.Available,
			Suggestion:        model.SuggestNetworks(),
		})
	}
	h.reportMiss(c, queue.LookupMissedEvent{Kind: string(nf.Kind), Query: nf.Input})
	return c.JSON(http.StatusNotFound, ErrorResponse{
		Message:    "No data found for location: " + nf.Input,
		Suggestion: suggestLocations,
	})
}

// internal renders an unexpected failure as a 500 envelope.
func (h *SignalHandler) internal(c echo.Context, msg string, err error) error {
	c.Logger().Errorf("%s: %v", msg, err)
	return c.JSON(http.StatusInternalServerError, ErrorResponse{
		Message: msg,
		Error:   errorText(err, h.ShowError),
	})
}

// reportMiss hands ev to the publisher.  Publishing never affects the
// response; a dropped event is only logged.
func (h *SignalHandler) reportMiss(c echo.Context, ev queue.LookupMissedEvent) {
	ev.MissedAt = h.Now().UTC().Format(time.RFC3339)
	ev.RequestID = c.Response().Header().Get(echo.HeaderXRequestID)
	if err := h.Misses.PublishMiss(c.Request().Context(), ev); err != nil {
		c.Logger().Debugf("lookup miss not published: %v", err)
	}
}

// param returns a path parameter.  A value that still contains a raw
// slash spans several segments, meaning no route really matched, so it
// answers echo.ErrNotFound.  An escaped slash (%2F) is part of the value.
func param(c echo.Context, name string) (string, error) {
	v := c.Param(name)
	if strings.Contains(v, "/") {
		return "", echo.ErrNotFound
	}
	if c.Request().URL.RawPath == "" {
		return v, nil
	}
	if u, err := url.PathUnescape(v); err == nil {
		return u, nil
	}
	return v, nil
}

func errorText(err error, show bool) string {
	if show && err != nil {
		return err.Error()
	}
	return "Internal server error"
}
