package jobs

import (
	"context"
	"log/slog"

	"freight/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

// HoldExpiryJob periodically sweeps orders with lapsed reservation or
// candidate holds and returns them to the feed.
type HoldExpiryJob struct {
	handler commands.ExpireHoldsCommandHandler
	spec    string
	cron    *cron.Cron
	logger  *slog.Logger
}

// NewHoldExpiryJob creates the sweep job. The spec is a six-field cron
// expression with a seconds column.
func NewHoldExpiryJob(handler commands.ExpireHoldsCommandHandler, spec string, logger *slog.Logger) *HoldExpiryJob {
	return &HoldExpiryJob{
		handler: handler,
		spec:    spec,
		cron:    cron.New(cron.WithSeconds()),
		logger:  logger.With("component", "hold_expiry_job"),
	}
}

// Start schedules the sweep.
func (j *HoldExpiryJob) Start() error {
	_, err := j.cron.AddFunc(j.spec, func() {
		ctx := context.Background()
		cmd := commands.NewExpireHoldsCommand()

		if err := j.handler.Handle(ctx, cmd); err != nil {
			j.logger.ErrorContext(ctx, "Hold expiry sweep failed", "error", err)
		}
	})

	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Hold expiry job started", "schedule", j.spec)
	return nil
}

// Stop stops the sweep.
func (j *HoldExpiryJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Hold expiry job stopped")
}
