package config

import (
    "regexp"
    "strings"
)

// DefaultCORSOrigins allows the local dev servers and the hosted frontends.
// Entries wrapped in slashes are regular expressions.
const DefaultCORSOrigins = "http://localhost:5173,http://localhost:3000,http://localhost:3001,http://127.0.0.1:5173,/vercel\\.app$/,/netlify\\.app$/"

// OriginMatcher decides whether a browser origin may call the API.
type OriginMatcher struct {
    exact    map[string]bool
    patterns []*regexp.Regexp
}

// NewOriginMatcher compiles entries; invalid patterns are skipped.
func NewOriginMatcher(entries []string) *OriginMatcher {
    m := &OriginMatcher{exact: map[string]bool{}}
    for _, e := range entries {
        if len(e) > 2 && strings.HasPrefix(e, "/") && strings.HasSuffix(e, "/") {
            if re, err := regexp.Compile(e[1 : len(e)-1]); err == nil {
                m.patterns = append(m.patterns, re)
            }
            continue
        }
        m.exact[e] = true
    }
    return m
}

// Allow reports whether origin matches an exact entry or a pattern.
func (m *OriginMatcher) Allow(origin string) bool {
    if m.exact[origin] {
        return true
    }
    for _, re := range m.patterns {
        if re.MatchString(origin) {
            return true
        }
    }
    return false
}
