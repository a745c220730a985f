package poster

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/okian/sackigami/pkg/metrics"
)

// Default pacer configuration constants.
const (
	defaultVarianceRatio = 0.6
	defaultFloorRatio    = 0.45
)

// PacerOption applies a configuration option to the Pacer.
type PacerOption func(*Pacer)

// WithSeed makes the delays reproducible.
func WithSeed(seed int64) PacerOption {
	return func(p *Pacer) {
		p.rng = rand.New(rand.NewSource(seed)) //nolint:gosec // delays are not security sensitive
	}
}

// WithVariance sets the variance and floor as fractions of the base delay.
func WithVariance(variance, floor float64) PacerOption {
	return func(p *Pacer) {
		if variance >= 0 {
			p.variance = variance
		}
		if floor >= 0 {
			p.floor = floor
		}
	}
}

// Pacer spaces consecutive posts by base ± variance, never less than the
// floor.
type Pacer struct {
	base     time.Duration
	variance float64
	floor    float64

	mu  sync.Mutex
	rng *rand.Rand
}

// NewPacer creates a pacer around base. A zero base disables waiting.
func NewPacer(base time.Duration, opts ...PacerOption) *Pacer {
	p := &Pacer{
		base:     max(base, 0),
		variance: defaultVarianceRatio,
		floor:    defaultFloorRatio,
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())), //nolint:gosec // delays are not security sensitive
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Base returns the configured base delay.
func (p *Pacer) Base() time.Duration { return p.base }

// Delay draws the next delay.
func (p *Pacer) Delay() time.Duration {
	if p.base == 0 {
		return 0
	}
	p.mu.Lock()
	jitter := (p.rng.Float64()*2 - 1) * p.variance
	p.mu.Unlock()

	d := time.Duration(float64(p.base) * (1 + jitter))
	return max(d, time.Duration(float64(p.base)*p.floor))
}

// Wait blocks for the next delay or until ctx is done.
func (p *Pacer) Wait(ctx context.Context) error {
	d := p.Delay()
	if d == 0 {
		return nil
	}
	metrics.RecordPacerDelay(d)

	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return fmt.Errorf("context cancelled: %w", ctx.Err())
	case <-t.C:
		return nil
	}
}
