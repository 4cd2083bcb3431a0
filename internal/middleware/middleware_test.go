package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/lagos-signal-directory/internal/config"
	"github.com/iliyamo/lagos-signal-directory/internal/metrics"
)

func TestCacheKeySeparatesConcretePaths(t *testing.T) {
	cfg := config.CacheConfig{Prefix: "signal:cache", KeyStrategy: "route_query"}
	yaba := httptest.NewRequest(http.MethodGet, "/api/signal/Yaba", nil)
	yabaUpper := httptest.NewRequest(http.MethodGet, "/api/signal/YABA", nil)
	ikeja := httptest.NewRequest(http.MethodGet, "/api/signal/Ikeja", nil)

	assert.Equal(t, cacheKeyFrom(cfg, yaba), cacheKeyFrom(cfg, yabaUpper))
	assert.NotEqual(t, cacheKeyFrom(cfg, yaba), cacheKeyFrom(cfg, ikeja))
	assert.Contains(t, cacheKeyFrom(cfg, yaba), "signal:cache:")
}

func TestCacheKeyKeepsSearchEchoesApart(t *testing.T) {
	cfg := config.CacheConfig{Prefix: "signal:cache"}
	sharp := httptest.NewRequest(http.MethodGet, "/api/search/%C3%9F", nil)
	ss := httptest.NewRequest(http.MethodGet, "/api/search/ss", nil)
	upper := httptest.NewRequest(http.MethodGet, "/api/search/SS", nil)

	assert.NotEqual(t, cacheKeyFrom(cfg, sharp), cacheKeyFrom(cfg, ss))
	assert.Equal(t, cacheKeyFrom(cfg, ss), cacheKeyFrom(cfg, upper))
}

func TestCacheKeyStrategyMethod(t *testing.T) {
	cfg := config.CacheConfig{Prefix: "p", KeyStrategy: "method_route"}
	get := httptest.NewRequest(http.MethodGet, "/api/locations", nil)
	head := httptest.NewRequest(http.MethodHead, "/api/locations", nil)
	assert.NotEqual(t, cacheKeyFrom(cfg, get), cacheKeyFrom(cfg, head))
}

func TestPayloadCodec(t *testing.T) {
	hdr := http.Header{"Content-Type": []string{"application/json"}}
	bs, err := encodePayload(http.StatusOK, hdr, []byte(`{"success":true}`))
	require.NoError(t, err)

	status, gotHdr, body, ok := decodePayload(bs)
	require.True(t, ok)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "application/json", gotHdr.Get("Content-Type"))
	assert.Equal(t, `{"success":true}`, string(body))

	_, _, _, ok = decodePayload([]byte{0, 0})
	assert.False(t, ok)
	_, _, _, ok = decodePayload([]byte{0, 0, 0, 200, 0, 0, 1, 0})
	assert.False(t, ok)
}

func TestCaptureWriterLimit(t *testing.T) {
	rec := httptest.NewRecorder()
	cw := &captureWriter{ResponseWriter: rec, status: http.StatusOK, limit: 4}
	_, _ = cw.Write([]byte("abc"))
	assert.False(t, cw.truncated())
	_, _ = cw.Write([]byte("def"))
	assert.True(t, cw.truncated())
	assert.Equal(t, "abcd", cw.buf.String())
	assert.Equal(t, "abcdef", rec.Body.String())
}

func TestMiddlewareDisabledWithoutRedis(t *testing.T) {
	e := echo.New()
	called := 0
	h := func(c echo.Context) error { called++; return c.NoContent(http.StatusNoContent) }

	for _, mw := range []echo.MiddlewareFunc{
		NewRedisCache(config.CacheConfig{Enabled: true}, nil),
		NewTokenBucket(config.RateLimitConfig{Enabled: true}, nil),
	} {
		rec := httptest.NewRecorder()
		c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
		require.NoError(t, mw(h)(c))
		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Empty(t, rec.Header().Get("X-Cache"))
	}
	assert.Equal(t, 2, called)
}

func TestParseBucketResult(t *testing.T) {
	allowed, remaining, retry, ok := parseBucketResult([]interface{}{int64(1), int64(59), int64(0)})
	require.True(t, ok)
	assert.True(t, allowed)
	assert.EqualValues(t, 59, remaining)
	assert.Zero(t, retry)

	allowed, _, retry, ok = parseBucketResult([]interface{}{"0", "0", "750"})
	require.True(t, ok)
	assert.False(t, allowed)
	assert.EqualValues(t, 750, retry)

	_, _, _, ok = parseBucketResult("nope")
	assert.False(t, ok)
}

func TestBuildRateKey(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/signal/Yaba", nil)
	req.RemoteAddr = "10.0.0.7:5555"
	c := e.NewContext(req, httptest.NewRecorder())
	c.SetPath("/api/signal/:location")

	assert.Equal(t, "rl:ip:10.0.0.7:route:GET /api/signal/:location",
		buildRateKey(config.RateLimitConfig{Prefix: "rl"}, c))
	assert.Equal(t, "rl:ip:10.0.0.7",
		buildRateKey(config.RateLimitConfig{Prefix: "rl", KeyStrategy: "ip"}, c))
}

func TestMetricsRecordsRenderedStatus(t *testing.T) {
	e := echo.New()
	e.Use(Metrics())
	e.GET("/boom", func(c echo.Context) error { return errors.New("boom") })

	before := testutil.ToFloat64(metrics.RequestsTotal.WithLabelValues("/boom", "500"))
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, before+1, testutil.ToFloat64(metrics.RequestsTotal.WithLabelValues("/boom", "500")))
}
