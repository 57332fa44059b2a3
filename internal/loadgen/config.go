// Package loadgen drives synthetic golfer traffic against a running birdie
// service and checks every recommendation it gets back.
package loadgen

import (
	"sync/atomic"
	"time"

	"github.com/birdiedeals/birdie/internal/domain/model"
)

// Config holds configuration for a traffic run.
type Config struct {
	BaseURL  string        // Base URL of the service
	Golfers  int           // Number of synthetic golfers
	Workers  int           // Number of concurrent golfers in flight
	Timeout  time.Duration // HTTP request timeout
	Secret   string        // HS256 secret shared with the service
	Issuer   string        // Optional iss claim
	Seed     uint64        // Profile generator seed; zero picks one from the clock
	ClickPct int           // Share of golfers that click their top deal, 0-100
	Verbose  bool          // Log every golfer
}

// Golfer is one synthetic user.
type Golfer struct {
	ID      string
	Email   string
	Profile model.Profile
}

// Stats holds run statistics. Counters are updated concurrently.
type Stats struct {
	Golfers         atomic.Int64
	ProfilesSaved   atomic.Int64
	Recommendations atomic.Int64
	DealsSuggested  atomic.Int64
	GapsReported    atomic.Int64
	Views           atomic.Int64
	Clicks          atomic.Int64
	Violations      atomic.Int64
	Failed          atomic.Int64
	StartTime       time.Time
	Duration        time.Duration
}
