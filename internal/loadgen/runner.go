package loadgen

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/birdiedeals/birdie/internal/domain/model"
	"github.com/birdiedeals/birdie/pkg/logger"
)

const percentageMultiplier = 100

type dealRequest struct {
	DealID string `json:"dealId"`
}

type clickResponse struct {
	OK  bool    `json:"ok"`
	URL *string `json:"url"`
}

type profileRequest struct {
	Profile model.Profile `json:"profile"`
}

// Run executes a complete traffic run. Transport failures are counted and the
// run carries on; any recommendation that fails verification makes Run
// return ErrViolation once every golfer has finished.
func Run(ctx context.Context, cfg *Config) (*Stats, error) {
	if err := validate(cfg); err != nil {
		return nil, err
	}
	log := logger.Get().Named("loadgen")

	seed := cfg.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	stats := &Stats{StartTime: time.Now()}

	log.Info(ctx, "starting birdie traffic run",
		logger.String("baseURL", cfg.BaseURL),
		logger.Int("golfers", cfg.Golfers),
		logger.Int("workers", cfg.Workers),
		logger.Any("seed", seed),
	)

	c := newClient(cfg)
	if err := c.do(ctx, http.MethodGet, "/healthz", "", nil, nil); err != nil {
		return nil, fmt.Errorf("service health check failed: %w", err)
	}

	golfers := newGenerator(seed).golfers(cfg.Golfers)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Workers)
	for i, golfer := range golfers {
		g.Go(func() error {
			stats.Golfers.Add(1)
			click := i*percentageMultiplier/max(len(golfers), 1) < cfg.ClickPct
			err := playGolfer(gctx, c, golfer, click, stats)
			switch {
			case err == nil:
				if cfg.Verbose {
					log.Debug(gctx, "golfer done", logger.String("user_id", golfer.ID))
				}
			case errors.Is(err, ErrViolation):
				stats.Violations.Add(1)
				log.Error(gctx, "recommendation violation", logger.String("user_id", golfer.ID), logger.Error(err))
			case gctx.Err() != nil:
				return gctx.Err()
			default:
				stats.Failed.Add(1)
				log.Warn(gctx, "golfer failed", logger.String("user_id", golfer.ID), logger.Error(err))
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return stats, fmt.Errorf("traffic run interrupted: %w", err)
	}

	stats.Duration = time.Since(stats.StartTime)
	displayFinalStats(ctx, log, stats)

	if n := stats.Violations.Load(); n > 0 {
		return stats, fmt.Errorf("%w: %d golfers", ErrViolation, n)
	}
	return stats, nil
}

// playGolfer saves a profile, fetches suggestions, views the top deal and
// optionally clicks it.
func playGolfer(ctx context.Context, c *client, g Golfer, click bool, stats *Stats) error { //nolint:gocritic // hugeParam: read-only
	token, err := c.token(g)
	if err != nil {
		return err
	}

	if err := c.do(ctx, http.MethodPost, "/api/profile", token, profileRequest{Profile: g.Profile}, nil); err != nil {
		return err
	}
	stats.ProfilesSaved.Add(1)

	var rec model.Recommendation
	if err := c.do(ctx, http.MethodGet, "/api/deals/suggested", token, nil, &rec); err != nil {
		return err
	}
	stats.Recommendations.Add(1)
	stats.DealsSuggested.Add(int64(len(rec.Deals)))
	if rec.GappingAnalysis != nil {
		stats.GapsReported.Add(1)
	}
	if err := verifyRecommendation(&rec); err != nil {
		return err
	}
	if len(rec.Deals) == 0 {
		return nil
	}

	top := dealRequest{DealID: rec.Deals[0].ID}
	if err := c.do(ctx, http.MethodPost, "/api/deals/view", token, top, nil); err != nil {
		return err
	}
	stats.Views.Add(1)

	if !click {
		return nil
	}
	var cr clickResponse
	if err := c.do(ctx, http.MethodPost, "/api/deals/click", token, top, &cr); err != nil {
		return err
	}
	if cr.URL == nil || *cr.URL != rec.Deals[0].URL {
		return fmt.Errorf("%w: click on %s did not return its url", ErrViolation, top.DealID)
	}
	stats.Clicks.Add(1)
	return nil
}

func validate(cfg *Config) error {
	switch {
	case cfg == nil:
		return fmt.Errorf("%w: nil config", ErrInvalidConfig)
	case cfg.BaseURL == "":
		return fmt.Errorf("%w: base url is required", ErrInvalidConfig)
	case cfg.Secret == "":
		return fmt.Errorf("%w: token secret is required", ErrInvalidConfig)
	case cfg.Golfers <= 0 || cfg.Workers <= 0:
		return fmt.Errorf("%w: golfers and workers must be positive", ErrInvalidConfig)
	case cfg.ClickPct < 0 || cfg.ClickPct > percentageMultiplier:
		return fmt.Errorf("%w: click percentage must be within 0-100", ErrInvalidConfig)
	}
	return nil
}

// displayFinalStats logs the final run statistics.
func displayFinalStats(ctx context.Context, log logger.Logger, stats *Stats) {
	var successRate, golfersPerSecond float64
	total := stats.Golfers.Load()
	if total > 0 {
		successRate = float64(total-stats.Failed.Load()-stats.Violations.Load()) / float64(total) * percentageMultiplier
	}
	if stats.Duration > 0 {
		golfersPerSecond = float64(total) / stats.Duration.Seconds()
	}

	log.Info(ctx, "final statistics",
		logger.Int("golfers", int(total)),
		logger.Int("profilesSaved", int(stats.ProfilesSaved.Load())),
		logger.Int("recommendations", int(stats.Recommendations.Load())),
		logger.Int("dealsSuggested", int(stats.DealsSuggested.Load())),
		logger.Int("gapsReported", int(stats.GapsReported.Load())),
		logger.Int("views", int(stats.Views.Load())),
		logger.Int("clicks", int(stats.Clicks.Load())),
		logger.Int("violations", int(stats.Violations.Load())),
		logger.Int("failed", int(stats.Failed.Load())),
		logger.Duration("duration", stats.Duration),
		logger.Float64("successRate", successRate),
		logger.Float64("golfersPerSecond", golfersPerSecond),
	)
}
