package crontab

import (
	"context"
	"time"

	"github.com/mileusna/crontab"
	"github.com/rs/zerolog"

	"recipehub/media-api/internal/config"
	"recipehub/media-api/internal/domain/media"
	"recipehub/media-api/internal/infrastructure/metrics"
	"recipehub/media-api/internal/utils/platformerrors"
)

const CronJobTimeout = 10 * time.Minute

// Sweeper is the slice of media.Service the scheduler drives.
type Sweeper interface {
	SweepStale(ctx context.Context, maxAge time.Duration) (*media.SweepResult, error)
}

// Crontab runs the stale media sweep on a cron schedule as the system actor.
type Crontab struct {
	ctab    *crontab.Crontab
	sweeper Sweeper
	enabled bool
	expr    string
	maxAge  time.Duration
	log     zerolog.Logger
}

func NewCrontab(cfg *config.Config, sweeper Sweeper, log zerolog.Logger) *Crontab {
	return &Crontab{
		ctab:    crontab.New(),
		sweeper: sweeper,
		enabled: cfg.CleanupScheduleEnabled,
		expr:    cfg.CleanupCron,
		maxAge:  time.Duration(cfg.CleanupMaxAgeHours) * time.Hour,
		log:     log.With().Str("component", "crontab").Logger(),
	}
}

// Run blocks until ctx is done.
func (c *Crontab) Run(ctx context.Context) error {
	if !c.enabled {
		c.log.Info().Msg("scheduled media cleanup disabled")
		<-ctx.Done()
		c.ctab.Shutdown()
		return nil
	}

	if err := c.ctab.AddJob(c.expr, func() {
		jobCtx, cancel := context.WithTimeout(context.Background(), CronJobTimeout)
		defer cancel()
		c.sweep(jobCtx)
	}); err != nil {
		c.ctab.Shutdown()
		return platformerrors.AsError(ctx, platformerrors.LayerInfrastructure, err, "failed to add media cleanup job")
	}
	c.log.Info().Str("cron", c.expr).Dur("max_age", c.maxAge).Msg("scheduled media cleanup")

	<-ctx.Done()
	c.ctab.Shutdown()
	return nil
}

func (c *Crontab) sweep(ctx context.Context) {
	ctx = platformerrors.WithRequestID(ctx, "cron-"+media.SystemActor.UserID)
	result, err := c.sweeper.SweepStale(ctx, c.maxAge)
	if err != nil {
		c.log.Error().Err(err).Msg("scheduled media cleanup failed")
		return
	}
	metrics.RecordSweep(result.DeletedCount)
}
