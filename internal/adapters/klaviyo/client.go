// Package klaviyo delivers marketing profiles and events to the Klaviyo API.
//
// Calls are rate limited and guarded by a circuit breaker. The client makes
// one attempt per call; retry policy belongs to the caller.
package klaviyo

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/birdiedeals/birdie/internal/domain/model"
	"github.com/birdiedeals/birdie/pkg/logger"
	"github.com/birdiedeals/birdie/pkg/metrics"
)

// API defaults.
const (
	DefaultBaseURL  = "https://a.klaviyo.com"
	DefaultRevision = "2025-01-15"

	profileImportPath = "/api/profile-import"
	eventsPath        = "/api/events"
	breakerName       = "klaviyo"
	maxErrorBody      = 512
)

// Client talks to the Klaviyo REST API.
type Client struct {
	baseURL      string
	apiKey       string
	revision     string
	httpClient   *http.Client
	limiter      *rate.Limiter
	breaker      *gobreaker.CircuitBreaker[struct{}]
	failureRatio float64
	minRequests  uint32
	openTimeout  time.Duration
	log          logger.Logger
}

// New creates a client. The API key is required.
func New(apiKey string, opts ...Option) (*Client, error) {
	if apiKey == "" {
		return nil, ErrNotConfigured
	}

	c := &Client{
		baseURL:      DefaultBaseURL,
		apiKey:       apiKey,
		revision:     DefaultRevision,
		httpClient:   &http.Client{Timeout: 10 * time.Second},
		limiter:      rate.NewLimiter(rate.Limit(10), 10),
		failureRatio: 0.6,
		minRequests:  10,
		openTimeout:  30 * time.Second,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.log == nil {
		c.log = logger.Get().Named("klaviyo")
	}

	next := c.httpClient.Transport
	if next == nil {
		next = http.DefaultTransport
	}
	hc := *c.httpClient
	hc.Transport = loggingRoundTripper{
		next: apiKeyRoundTripper{next: next, apiKey: c.apiKey, revision: c.revision},
		log:  c.log,
	}
	c.httpClient = &hc

	c.breaker = gobreaker.NewCircuitBreaker[struct{}](gobreaker.Settings{
		Name:        breakerName,
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     c.openTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < c.minRequests {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= c.failureRatio
		},
		IsSuccessful: func(err error) bool {
			if err == nil {
				return true
			}
			var se *StatusError
			if errors.As(err, &se) {
				return !se.Retryable()
			}
			return false
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			c.log.Warn(context.Background(), "circuit breaker state change",
				logger.String("breaker", name),
				logger.String("from", from.String()),
				logger.String("to", to.String()),
			)
			metrics.UpdateBreakerState(name, stateToFloat(to))
		},
	})
	metrics.UpdateBreakerState(breakerName, 0)

	return c, nil
}

// UpsertProfile creates or updates a profile keyed by email and external id.
func (c *Client) UpsertProfile(ctx context.Context, p Profile) error {
	return c.post(ctx, profileImportPath, profilePayload(p))
}

// TrackEvent records a custom metric event against a profile.
func (c *Client) TrackEvent(ctx context.Context, e Event) error {
	return c.post(ctx, eventsPath, eventPayload(e))
}

// Send delivers a queued notification.
func (c *Client) Send(ctx context.Context, n model.Notification) error { //nolint:gocritic // hugeParam: matches worker.Sender
	switch n.Kind {
	case model.KindProfileUpsert:
		return c.UpsertProfile(ctx, Profile{UserID: n.UserID, Email: n.Email, Properties: n.Properties})
	case model.KindEvent:
		return c.TrackEvent(ctx, Event{
			Name:       n.Name,
			UserID:     n.UserID,
			Email:      n.Email,
			Properties: n.Properties,
			Value:      n.Value,
			Time:       n.Time,
			UniqueID:   n.ID,
		})
	default:
		return fmt.Errorf("%w: %q", ErrUnknownKind, n.Kind)
	}
}

// State returns the circuit breaker state.
func (c *Client) State() gobreaker.State { return c.breaker.State() }

func (c *Client) post(ctx context.Context, path string, payload any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	_, err := c.breaker.Execute(func() (struct{}, error) {
		return struct{}{}, c.do(ctx, path, payload)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return fmt.Errorf("%w: %w", ErrCircuitOpen, err)
	}
	return err
}

func (c *Client) do(ctx context.Context, path string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s payload: %w", path, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build %s request: %w", path, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("post %s: %w", path, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated, http.StatusAccepted:
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	default:
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &StatusError{Path: path, Status: resp.StatusCode, Body: string(msg)}
	}
}

func stateToFloat(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return 0
	}
}
