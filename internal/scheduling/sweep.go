package scheduling

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/campuscare/student-engagement/internal/metrics"
)

// Sweep transitions scheduled meetings whose start lies further in the
// past than the grace period to completed. Nothing in the booking flow
// sets completed; this periodic pass is the only writer of that status.
type Sweep struct {
	repo  Repository
	grace time.Duration
	log   *zap.Logger

	now func() time.Time
}

func NewSweep(repo Repository, grace time.Duration, log *zap.Logger) *Sweep {
	return &Sweep{
		repo:  repo,
		grace: grace,
		log:   log,
		now:   time.Now,
	}
}

// Run performs one sweep pass.
func (s *Sweep) Run(ctx context.Context) error {
	cutoff := s.now().Add(-s.grace)

	swept, err := s.repo.CompleteElapsed(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("sweep meetings: %w", err)
	}

	metrics.ObserveSweep(swept)
	if swept > 0 {
		s.log.Info("meetings completed by sweep",
			zap.Int("count", swept),
			zap.Time("cutoff", cutoff))
	}
	return nil
}
