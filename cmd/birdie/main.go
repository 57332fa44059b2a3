// Command birdie serves personalized golf deals over HTTP.
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

	"golang.org/x/sync/errgroup"

	"github.com/birdiedeals/birdie/internal/adapters/http/api"
	"github.com/birdiedeals/birdie/internal/adapters/http/auth"
	"github.com/birdiedeals/birdie/internal/adapters/http/site"
	"github.com/birdiedeals/birdie/internal/adapters/http/swagger"
	"github.com/birdiedeals/birdie/internal/adapters/klaviyo"
	"github.com/birdiedeals/birdie/internal/adapters/mq/worker"
	"github.com/birdiedeals/birdie/internal/adapters/repository"
	service "github.com/birdiedeals/birdie/internal/app"
	"github.com/birdiedeals/birdie/internal/config"
	"github.com/birdiedeals/birdie/internal/domain/catalog"
	"github.com/birdiedeals/birdie/pkg/logger"
	"github.com/birdiedeals/birdie/pkg/metrics"
)

// HTTP server timeout constants.
const (
	readTimeout           = 10 * time.Second
	writeTimeout          = 10 * time.Second
	idleTimeout           = 60 * time.Second
	readHeaderTimeout     = 5 * time.Second
	systemMetricsInterval = 10 * time.Second
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, "birdie:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if err := logger.InitWithFormat(cfg.LogFormat, os.Stdout); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	log := logger.Get()
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	cat, err := loadCatalog(cfg)
	if err != nil {
		return err
	}
	store, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	sender, err := newSender(cfg)
	if err != nil {
		_ = store.Close()
		return err
	}
	verifier, err := auth.NewVerifier(cfg.JWTSecret, auth.WithIssuer(cfg.JWTIssuer))
	if err != nil {
		_ = store.Close()
		return fmt.Errorf("token verifier: %w", err)
	}

	svc := service.New(
		service.WithLogger(log.Named("service")),
		service.WithCatalog(cat),
		service.WithStore(store),
		service.WithSender(sender),
		service.WithWorkerCount(cfg.WorkerCount),
		service.WithQueueSize(cfg.QueueSize),
		service.WithDedupeSize(cfg.DedupeSize),
		service.WithDedupeWindow(cfg.DedupeWindow()),
		service.WithDispatchTimeout(cfg.DispatchTimeout()),
	)
	if err := svc.Start(ctx); err != nil {
		return fmt.Errorf("start service: %w", err)
	}

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           newHandler(ctx, cfg, svc, verifier),
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info(gctx, "starting HTTP server",
			logger.String("addr", cfg.Addr),
			logger.Int("catalog_deals", cat.Len()),
			logger.String("store", cfg.StoreBackend),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info(gctx, "shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(gctx), cfg.ShutdownTimeout())
		defer cancel()

		var errs []error
		if err := srv.Shutdown(shutdownCtx); err != nil {
			errs = append(errs, fmt.Errorf("server shutdown: %w", err))
		}
		if err := svc.Stop(shutdownCtx); err != nil {
			errs = append(errs, fmt.Errorf("service stop: %w", err))
		}
		return errors.Join(errs...)
	})
	g.Go(func() error {
		runSystemMetrics(gctx, systemMetricsInterval)
		return nil
	})

	err = g.Wait()
	log.Info(ctx, "server stopped")
	return err
}

// newHandler assembles the routes and the outer middleware chain.
func newHandler(ctx context.Context, cfg *config.Config, svc *service.Service, v *auth.Verifier) http.Handler {
	mux := http.NewServeMux()
	site.Register(ctx, mux)
	swagger.Register(ctx, mux)
	api.NewServer(svc, svc, v).Register(ctx, mux)

	var h http.Handler = mux
	h = api.RateLimit(cfg.RateLimitPerMin, time.Minute)(h)
	h = api.CORS(cfg.Origins())(h)
	return h
}

func loadCatalog(cfg *config.Config) (*catalog.Catalog, error) {
	if cfg.CatalogPath == "" {
		return catalog.Default(), nil
	}
	c, err := catalog.LoadFile(cfg.CatalogPath)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	return c, nil
}

func openStore(ctx context.Context, cfg *config.Config) (repository.Store, error) {
	if cfg.StoreBackend != config.StoreRedis {
		return repository.NewMemoryStore(ctx), nil
	}
	s, err := repository.NewRedisStore(ctx, repository.RedisConfig{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	return s, nil
}

// newSender returns the marketing client, or a LogSink when no API key is set.
func newSender(cfg *config.Config) (worker.Sender, error) {
	if cfg.MarketingAPIKey == "" {
		return klaviyo.NewLogSink(nil), nil
	}
	c, err := klaviyo.New(cfg.MarketingAPIKey,
		klaviyo.WithBaseURL(cfg.MarketingBaseURL),
		klaviyo.WithRevision(cfg.MarketingRevision),
		klaviyo.WithRateLimit(cfg.MarketingRatePerSec),
		klaviyo.WithBreaker(cfg.BreakerFailureRatio, 0, 0),
	)
	if err != nil {
		return nil, fmt.Errorf("marketing client: %w", err)
	}
	return c, nil
}

// runSystemMetrics samples memory and goroutine counts until ctx is done.
func runSystemMetrics(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		updateSystemMetrics()
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func updateSystemMetrics() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	metrics.UpdateSystemMemoryUsage(m.Alloc)
	metrics.UpdateSystemGoroutineCount(runtime.NumGoroutine())
}
