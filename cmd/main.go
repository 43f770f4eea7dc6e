package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"gorm.io/gorm"

	"github.com/okian/skillsync/internal/adapters/http/api"
	"github.com/okian/skillsync/internal/adapters/http/swagger"
	"github.com/okian/skillsync/internal/adapters/profiles"
	"github.com/okian/skillsync/internal/adapters/repository"
	app "github.com/okian/skillsync/internal/app"
	"github.com/okian/skillsync/internal/config"
	"github.com/okian/skillsync/internal/domain/classifier"
	"github.com/okian/skillsync/internal/domain/normalize"
	"github.com/okian/skillsync/internal/domain/profile"
	"github.com/okian/skillsync/pkg/logger"
	"github.com/okian/skillsync/pkg/metrics"
)

// HTTP server timeout constants. Writes must outlive the provider timeout.
const (
	readTimeout           = 10 * time.Second
	idleTimeout           = 60 * time.Second
	readHeaderTimeout     = 5 * time.Second
	writeTimeoutMargin    = 10 * time.Second
	shutdownTimeout       = 30 * time.Second
	systemMetricsInterval = 10 * time.Second
)

func main() {
	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	log := logger.Get()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		log.Fatal(ctx, "failed to load config", logger.Error(err))
	}

	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	metrics.Configure(metricsOptions(cfg.Metrics)...)

	svc, closeStorage, err := build(ctx, cfg, log)
	if err != nil {
		log.Fatal(ctx, "failed to build service", logger.Error(err))
	}
	defer closeStorage()

	go startSystemMetricsUpdater(ctx)

	srv := newHTTPServer(cfg, svc, log)
	go func() {
		log.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error(ctx, "HTTP server failed", logger.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	log.Info(ctx, "shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "server shutdown failed", logger.Error(err))
	}
	log.Info(ctx, "server stopped")
}

// directory is the user and profile source backing the service.
type directory interface {
	profile.Reader
	profile.Directory
	Put(ctx context.Context, r profiles.Record) error
}

// build wires storage, the classifier and the service from cfg. The returned
// func releases storage resources.
func build(ctx context.Context, cfg *config.Config, log logger.Logger) (*app.Service, func(), error) {
	var (
		dir   directory
		store repository.Store
		db    *gorm.DB
	)
	closeFn := func() {}

	switch cfg.Storage.Driver {
	case repository.DriverMemory:
		mem, err := profiles.NewMemory()
		if err != nil {
			return nil, closeFn, err
		}
		dir = mem
		store = repository.NewMemoryStore(mem)
	default:
		var err error
		db, err = repository.Open(cfg.Storage.Driver, cfg.Storage.DSN, repository.WithSQLLogger(log.Named("sql")))
		if err != nil {
			return nil, closeFn, err
		}
		closeFn = func() {
			if sqlDB, err := db.DB(); err == nil {
				_ = sqlDB.Close()
			}
		}
		if err := profiles.Migrate(db); err != nil {
			closeFn()
			return nil, func() {}, err
		}
		if err := repository.Migrate(db); err != nil {
			closeFn()
			return nil, func() {}, err
		}
		dir = profiles.NewGorm(db)
		store = repository.NewGormStore(db, dir, repository.WithLogger(log.Named("store")))
	}

	for _, seed := range cfg.SeedProfiles {
		if err := dir.Put(ctx, seedRecord(seed)); err != nil {
			closeFn()
			return nil, func() {}, fmt.Errorf("seed user %d: %w", seed.UserID, err)
		}
	}
	log.Info(ctx, "storage ready",
		logger.String("driver", cfg.Storage.Driver),
		logger.Int("seeded_users", len(cfg.SeedProfiles)),
	)

	cls := classifier.New(ctx, classifierSettings(cfg.AI), classifier.WithLogger(log.Named("classifier")))

	svc := app.New(dir, dir, cls, store,
		app.WithLogger(log.Named("service")),
		app.WithNormalizer(normalize.New(normalize.WithDefaultConfidence(cfg.DefaultConfidence))),
	)
	return svc, closeFn, nil
}

func classifierSettings(c config.AIConfig) classifier.Settings {
	return classifier.Settings{
		APIKey:          c.APIKey,
		Endpoint:        c.APIURL,
		Model:           c.Model,
		Temperature:     c.Temperature,
		MaxTokens:       c.MaxTokens,
		Timeout:         time.Duration(c.TimeoutMS) * time.Millisecond,
		BreakerFailures: c.BreakerFailures,
		BreakerCooldown: time.Duration(c.BreakerCooldownMS) * time.Millisecond,
	}
}

func metricsOptions(c config.MetricsConfig) []metrics.Option {
	return []metrics.Option{
		metrics.WithNamespace(c.Namespace),
		metrics.WithSubsystem(c.Subsystem),
		metrics.WithHistogramBuckets(c.HTTPBucketsMS),
	}
}

func seedRecord(s config.SeedProfile) profiles.Record {
	r := profiles.Record{UserID: s.UserID}
	if s.NoProfile {
		return r
	}
	r.Profile = &profile.Profile{
		EducationLevel:    s.EducationLevel,
		CareerGoal:        s.CareerGoal,
		Interests:         s.Interests,
		YearsOfExperience: s.YearsOfExperience,
		Skills:            s.Skills,
	}
	return r
}

func newHTTPServer(cfg *config.Config, svc *app.Service, log logger.Logger) *http.Server {
	apiServer := api.NewServer(svc,
		api.WithLogger(log.Named("http")),
		api.WithMount(swagger.Register),
	)
	return &http.Server{
		Addr:              cfg.Addr,
		Handler:           apiServer.Routes(),
		ReadTimeout:       readTimeout,
		WriteTimeout:      time.Duration(cfg.AI.TimeoutMS)*time.Millisecond + writeTimeoutMargin,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}
}

// startSystemMetricsUpdater updates process gauges until ctx is done.
func startSystemMetricsUpdater(ctx context.Context) {
	ticker := time.NewTicker(systemMetricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateSystemMetrics()
		}
	}
}

func updateSystemMetrics() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	metrics.UpdateSystemMetrics(m.Alloc, runtime.NumGoroutine())
}
