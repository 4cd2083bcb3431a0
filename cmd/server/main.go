package main // Entry point package

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/iliyamo/lagos-signal-directory/internal/config"
	"github.com/iliyamo/lagos-signal-directory/internal/database"
	"github.com/iliyamo/lagos-signal-directory/internal/directory"
	"github.com/iliyamo/lagos-signal-directory/internal/handler"
	"github.com/iliyamo/lagos-signal-directory/internal/logger"
	mw "github.com/iliyamo/lagos-signal-directory/internal/middleware"
	"github.com/iliyamo/lagos-signal-directory/internal/router"
	"github.com/iliyamo/lagos-signal-directory/internal/service"
)

func main() {
	config.LoadEnv()
	cfg := config.Load() // Load environment config
	log := logger.L()

	e := echo.New()
	e.HideBanner = true
	e.Logger.SetLevel(log.Level())
	e.Logger.SetHeader(logger.Header)
	e.HTTPErrorHandler = handler.ErrorHandler(cfg.IsDevelopment())

	origins := config.NewOriginMatcher(cfg.CORSOrigins)
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{Generator: uuid.NewString}))
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:      true,
		LogStatus:   true,
		LogMethod:   true,
		LogLatency:  true,
		LogRemoteIP: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			logMsg := func(format string, args ...any) {
				switch {
				case v.Status >= 500:
					e.Logger.Errorf(format, args...)
				case v.Status >= 400:
					e.Logger.Warnf(format, args...)
				default:
					e.Logger.Infof(format, args...)
				}
			}
			logMsg("%s %s - %d - %.2fms - %s",
				v.Method,
				v.URI,
				v.Status,
				float64(v.Latency.Microseconds())/1000.0,
				v.RemoteIP,
			)
			return nil
		},
	}))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOriginFunc:  func(origin string) (bool, error) { return origins.Allow(origin), nil },
		AllowMethods:     []string{http.MethodGet, http.MethodHead, http.MethodOptions},
		AllowCredentials: true,
	}))
	e.Use(mw.Metrics())
	// Innermost, so a recovered panic is rendered before metrics and the request log read the status.
	e.Use(middleware.Recover())

	snap := directory.NewSnapshot(loader(cfg))
	// Load eagerly so quarantine warnings show at startup, not on the first request.
	if _, err := snap.Report(context.Background()); err != nil {
		log.Warnf("starting with an empty directory: %v", err)
	}

	rdb := config.NewRedisClient()
	cacheCfg := config.LoadCacheConfig()
	rateCfg := config.LoadRateLimitConfig()

	misses := service.NewMissPublisher(config.LoadEventsConfig())
	if c, ok := misses.(interface{ Close() error }); ok {
		defer c.Close()
	}

	h := handler.NewSignalHandler(snap, misses, cfg.IsDevelopment())
	router.RegisterSignal(e, h, cfg.APIBase,
		mw.NewTokenBucket(rateCfg, rdb),
		mw.NewRedisCache(cacheCfg, rdb),
	)
	router.RegisterRoutes(e, cfg.Version, cfg.APIBase)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	addr := ":" + cfg.Port // Address string with port
	go func() {
		log.Infof("listening on %s (env=%s, source=%s)", addr, cfg.Env, cfg.Source)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err) // Log and exit if server fails
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Errorf("shutdown: %v", err)
	}
	if rdb != nil {
		_ = rdb.Close()
	}
}

// loader picks the directory source named by DIRECTORY_SOURCE.  A database
// that cannot be opened degrades to an empty directory like any other load
// failure.
func loader(cfg config.Config) directory.LoadFunc {
	if cfg.Source == config.SourceFile {
		return directory.FileLoader(cfg.DataFile)
	}
	return func(ctx context.Context) (*directory.Directory, directory.Report, error) {
		db, err := database.OpenFromConfig(cfg)
		if err != nil {
			return nil, directory.Report{}, err
		}
		defer db.Close()
		return directory.SQLLoader(db, cfg.DBTable)(ctx)
	}
}
