package worker

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/0x0BSoD/cryptoSentiment/internal/logger"
)

type Job interface {
	Name() string
	Run(ctx context.Context) error
}

// Periodic runs a job once immediately and then on every interval tick until the context is done.
// Runs happen in one goroutine, so a run that outlasts the interval delays the next tick rather than overlapping it.
type Periodic struct {
	job      Job
	interval time.Duration
}

const DefaultInterval = time.Hour

// NewPeriodic builds a worker; a non-positive interval falls back to DefaultInterval.
func NewPeriodic(job Job, interval time.Duration) *Periodic {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Periodic{job: job, interval: interval}
}

func (p *Periodic) Start(ctx context.Context) error {
	logger.Info("worker started", zap.String("worker", p.job.Name()), zap.Duration("interval", p.interval))

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.runOnce(ctx)

	for {
		select {
		case <-ctx.Done():
			logger.Info("worker stopped", zap.String("worker", p.job.Name()))
			return ctx.Err()
		case <-ticker.C:
			p.runOnce(ctx)
		}
	}
}

func (p *Periodic) runOnce(ctx context.Context) {
	if err := p.job.Run(ctx); err != nil {
		logger.Error("worker run failed", zap.String("worker", p.job.Name()), zap.Error(err))
	}
}
