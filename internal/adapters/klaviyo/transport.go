package klaviyo

import (
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/birdiedeals/birdie/pkg/logger"
)

// apiKeyRoundTripper stamps every request with the private API key and the
// pinned API revision.
type apiKeyRoundTripper struct {
	next     http.RoundTripper
	apiKey   string
	revision string
}

func (rt apiKeyRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.Header.Set("Authorization", "Klaviyo-API-Key "+rt.apiKey)
	req.Header.Set("revision", rt.revision)
	req.Header.Set("Accept", "application/json")
	if req.Body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := rt.next.RoundTrip(req)
	if err != nil {
		return nil, fmt.Errorf("next.RoundTrip: %w", err)
	}
	return resp, nil
}

// loggingRoundTripper logs method, path, status and duration under a fresh
// request id. Bodies are not logged; they carry customer emails.
type loggingRoundTripper struct {
	next http.RoundTripper
	log  logger.Logger
}

func (rt loggingRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	ctx := req.Context()
	requestID := uuid.NewString()
	req.Header.Set("X-Request-ID", requestID)
	start := time.Now()

	resp, err := rt.next.RoundTrip(req)
	if err != nil {
		rt.log.Warn(ctx, "sink request failed",
			logger.String("request_id", requestID),
			logger.String("method", req.Method),
			logger.String("path", req.URL.Path),
			logger.Duration("duration", time.Since(start)),
			logger.Error(err),
		)
		return nil, fmt.Errorf("next.RoundTrip: %w", err)
	}

	rt.log.Debug(ctx, "sink request",
		logger.String("request_id", requestID),
		logger.String("method", req.Method),
		logger.String("path", req.URL.Path),
		logger.Int("status", resp.StatusCode),
		logger.Duration("duration", time.Since(start)),
	)
	return resp, nil
}
