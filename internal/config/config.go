package config // package config loads application configuration from environment variables

import (
    "strings"

    "github.com/joho/godotenv" // .env support for local runs

    "github.com/iliyamo/lagos-signal-directory/internal/logger"
)

// Directory sources understood by the server and CLI.
const (
    SourceFile     = "file"
    SourceMySQL    = "mysql"
    SourcePostgres = "postgres"
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable; every one of them has a usable default so the
// service starts against the bundled snapshot with no setup.
type Config struct {
    Env         string   // application environment (development, production)
    Port        string   // HTTP port to listen on
    Version     string   // version reported by the banner endpoint
    APIBase     string   // route prefix for the API group
    Source      string   // directory source: file, mysql or postgres
    DataFile    string   // snapshot path for the file source
    DBUser      string   // mysql username
    DBPass      string   // mysql password (optional)
    DBHost      string   // mysql host address
    DBPort      string   // mysql port number
    DBName      string   // mysql database name
    DatabaseURL string   // postgres connection URL
    DBTable     string   // table holding readings for SQL sources
    CORSOrigins []string // exact origins or /regex/ patterns
}

// LoadEnv reads .env into the process environment when the file exists.
// Variables already set in the environment win.
func LoadEnv() {
    if err := godotenv.Load(); err == nil {
        logger.L().Debug("loaded .env")
    }
}

// Load reads configuration values from environment variables and returns a
// Config.  SQL connection settings are enforced only for the source that
// needs them; a missing one is fatal.
func Load() Config {
    cfg := Config{
        Env:         envStr("APP_ENV", "development"),
        Port:        envStr("APP_PORT", envStr("PORT", "3000")),
        Version:     envStr("APP_VERSION", "1.0.0"),
        APIBase:     envStr("API_BASE", "/api"),
        Source:      strings.ToLower(envStr("DIRECTORY_SOURCE", SourceFile)),
        DataFile:    envStr("DATA_FILE", "data/locations.json"),
        DBUser:      envStr("DB_USER", ""),
        DBPass:      envStr("DB_PASS", ""),
        DBHost:      envStr("DB_HOST", "localhost"),
        DBPort:      envStr("DB_PORT", "3306"),
        DBName:      envStr("DB_NAME", ""),
        DatabaseURL: envStr("DATABASE_URL", ""),
        DBTable:     envStr("DB_TABLE", "signal_readings"),
        CORSOrigins: splitList(envStr("CORS_ORIGINS", DefaultCORSOrigins)),
    }
    switch cfg.Source {
    case SourceMySQL:
        must("DB_USER", cfg.DBUser)
        must("DB_NAME", cfg.DBName)
    case SourcePostgres:
        must("DATABASE_URL", cfg.DatabaseURL)
    case SourceFile:
    default:
        logger.L().Fatalf("unknown DIRECTORY_SOURCE: %q", cfg.Source)
    }
    return cfg
}

// IsDevelopment reports whether internal error details may be shown to clients.
func (c Config) IsDevelopment() bool {
    return strings.EqualFold(c.Env, "development")
}

// must halts the process when a required value is empty.
func must(key, v string) {
    if v == "" {
        logger.L().Fatalf("missing required env var: %s", key)
    }
}

func splitList(s string) []string {
    var out []string
    for _, p := range strings.Split(s, ",") {
        if p = strings.TrimSpace(p); p != "" {
            out = append(out, p)
        }
    }
    return out
}
