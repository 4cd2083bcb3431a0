package middleware

import (
    "bytes"
    "context"
    "crypto/sha1"
    "fmt"
    "net/http"
    "strings"
    "time"

    "github.com/labstack/echo/v4"
    "github.com/redis/go-redis/v9"

    "github.com/iliyamo/lagos-signal-directory/internal/config"
)

// captureWriter captures response body/status while forwarding to the client.
type captureWriter struct {
    http.ResponseWriter
    status int
    buf    bytes.Buffer
    size   int64
    limit  int64
}

func (cw *captureWriter) WriteHeader(code int) { cw.status = code; cw.ResponseWriter.WriteHeader(code) }
func (cw *captureWriter) Write(b []byte) (int, error) {
    if cw.limit <= 0 || cw.size < cw.limit {
        remain := cw.limit - cw.size
        if cw.limit <= 0 {
            cw.buf.Write(b)
        } else if int64(len(b)) <= remain {
            cw.buf.Write(b)
        } else {
            cw.buf.Write(b[:remain])
        }
    }
    cw.size += int64(len(b))
    return cw.ResponseWriter.Write(b)
}

// truncated reports whether the body outgrew the capture limit.
func (cw *captureWriter) truncated() bool {
    return cw.limit > 0 && cw.size > cw.limit
}

// cacheKeyFrom builds a stable cache key.  The concrete request path is
// used rather than the route pattern so /signal/Yaba and /signal/Ikeja get
// separate entries.  Paths are lowercased the way the search handler
// lowercases its echoed query, so two paths share an entry only when they
// produce the same body.
func cacheKeyFrom(cfg config.CacheConfig, r *http.Request) string {
    path := strings.ToLower(r.URL.Path)
    query := r.URL.RawQuery

    parts := []string{}
    switch strings.ToLower(cfg.KeyStrategy) {
    case "route":
        parts = append(parts, "route", path)
    case "method_route":
        parts = append(parts, "method", r.Method, "route", path)
    case "method_route_query":
        parts = append(parts, "method", r.Method, "route", path, "q", query)
    default: // "route_query"
        parts = append(parts, "route", path, "q", query)
    }

    sum := sha1.Sum([]byte(strings.Join(parts, ":")))
    return fmt.Sprintf("%s:%x", cfg.Prefix, sum[:])
}

// NewRedisCache serves repeated successful lookups from Redis.  Only 200
// responses are stored, so misses and errors always reach the handlers
// (and publish their miss events).  Headers and body are stored together
// so clients see byte-identical responses.
func NewRedisCache(cfg config.CacheConfig, rdb *redis.Client) echo.MiddlewareFunc {
    if !cfg.Enabled || rdb == nil {
        return passThrough
    }
    ttl := cfg.TTL
    if ttl <= 0 { ttl = 5 * time.Minute }

    maxBody := int64(cfg.MaxBodyBytes)

    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            if !cfg.Methods[strings.ToUpper(c.Request().Method)] {
                return next(c)
            }

            ctx := c.Request().Context()
            key := cacheKeyFrom(cfg, c.Request())

            if bs, err := rdb.Get(ctx, key).Bytes(); err == nil {
                if status, hdr, body, ok := decodePayload(bs); ok {
                    for k, vals := range hdr {
                        if skipCachedHeader(k) { continue }
                        for _, v := range vals {
                            c.Response().Header().Add(k, v)
                        }
                    }
                    c.Response().Header().Set("X-Cache", "HIT")
                    c.Response().WriteHeader(status)
                    if len(body) > 0 {
                        _, _ = c.Response().Write(body)
                    }
                    return nil
                }
            }

            cw := &captureWriter{ResponseWriter: c.Response().Writer, status: http.StatusOK, limit: maxBody}
            c.Response().Writer = cw
            c.Response().Header().Set("X-Cache", "MISS")

            if err := next(c); err != nil {
                return err
            }

            if cw.status == http.StatusOK && !cw.truncated() {
                hdr := c.Response().Header().Clone()
                if payload, err := encodePayload(cw.status, hdr, cw.buf.Bytes()); err == nil {
                    // Detached from the request so a client hang-up still stores the entry.
                    if err := rdb.SetEx(context.WithoutCancel(ctx), key, payload, ttl).Err(); err != nil {
                        c.Logger().Warnf("cache: store %s failed: %v", key, err)
                    }
                }
            }
            return nil
        }
    }
}

// skipCachedHeader filters headers that must be recomputed per response.
func skipCachedHeader(k string) bool {
    switch http.CanonicalHeaderKey(k) {
    case "Content-Length", "X-Cache", "X-Request-Id", "Vary",
        "Access-Control-Allow-Origin", "Access-Control-Allow-Credentials",
        "X-Ratelimit-Limit", "X-Ratelimit-Remaining":
        return true
    }
    return false
}

func passThrough(next echo.HandlerFunc) echo.HandlerFunc {
    return func(c echo.Context) error { return next(c) }
}
