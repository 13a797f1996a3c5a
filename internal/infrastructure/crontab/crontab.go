package crontab

import (
	"context"
	"time"

	"github.com/mileusna/crontab"

	"medifind-server/intake-api/internal/config"
	"medifind-server/intake-api/internal/domain/conversation"
	"medifind-server/intake-api/internal/infrastructure/logger"
	"medifind-server/intake-api/internal/infrastructure/metrics"
	"medifind-server/intake-api/internal/utils/platformerrors"
)

const (
	// RetentionSweepSchedule runs the anonymous-conversation sweep hourly.
	RetentionSweepSchedule = "0 * * * *"
	CronJobTimeout         = 10 * time.Minute
)

type Crontab struct {
	ctab                *crontab.Crontab
	conversationService *conversation.ConversationService
}

func NewCrontab(conversationService *conversation.ConversationService) *Crontab {
	return &Crontab{
		ctab:                crontab.New(),
		conversationService: conversationService,
	}
}

// Run schedules the background jobs and blocks until ctx is cancelled.
func (c *Crontab) Run(ctx context.Context) error {
	log := logger.GetLogger()

	cfg := config.GetGlobal()
	if cfg != nil && cfg.RetentionSweepEnabled {
		// execute once on server start
		c.sweepStaleConversations(ctx, cfg.AnonymousMaxIdle)

		if err := c.ctab.AddJob(RetentionSweepSchedule, func() {
			jobCtx, cancel := context.WithTimeout(context.Background(), CronJobTimeout)
			defer cancel()
			c.sweepStaleConversations(jobCtx, cfg.AnonymousMaxIdle)
		}); err != nil {
			return platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to add retention sweep job")
		}
		log.Info().Dur("max_idle", cfg.AnonymousMaxIdle).Msg("retention sweep scheduled hourly")
	}

	// Schedule environment reload job
	if err := c.ctab.AddJob("* * * * *", func() {
		config.Load()
	}); err != nil {
		return platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to add env reload job")
	}

	<-ctx.Done()
	c.ctab.Shutdown()
	return nil
}

func (c *Crontab) sweepStaleConversations(ctx context.Context, maxIdle time.Duration) {
	log := logger.GetLogger()

	deleted, err := c.conversationService.PurgeStaleAnonymous(ctx, maxIdle)
	if err != nil {
		log.Error().Err(err).Msg("retention sweep failed")
		return
	}

	if deleted > 0 {
		metrics.RetentionSweepDeleted.Add(float64(deleted))
		log.Info().Int64("deleted", deleted).Msg("removed stale anonymous conversations")
	}
}
