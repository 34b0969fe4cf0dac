package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/anjaliconnect/api/application/usecases/reminder"
	"github.com/anjaliconnect/api/infrastructure/logger"
	"github.com/getsentry/sentry-go"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const defaultRunTimeout = 30 * time.Minute

// ReminderJob runs the monthly reminder batch on a cron schedule.
type ReminderJob struct {
	reminderUseCase reminder.ReminderUseCase
	logger          *logger.Logger
	cron            *cron.Cron
	schedule        string
	timeout         time.Duration
}

func NewReminderJob(
	reminderUseCase reminder.ReminderUseCase,
	logger *logger.Logger,
	schedule string,
	location *time.Location,
) (*ReminderJob, error) {
	if location == nil {
		location = time.UTC
	}

	j := &ReminderJob{
		reminderUseCase: reminderUseCase,
		logger:          logger,
		cron:            cron.New(cron.WithLocation(location)),
		schedule:        schedule,
		timeout:         defaultRunTimeout,
	}

	if _, err := cron.ParseStandard(schedule); err != nil {
		return nil, fmt.Errorf("invalid reminder schedule %q: %w", schedule, err)
	}

	return j, nil
}

// Start registers the schedule and blocks until ctx is done or Stop is called.
func (j *ReminderJob) Start(ctx context.Context) {
	if _, err := j.cron.AddFunc(j.schedule, func() { j.run(ctx) }); err != nil {
		j.logger.Error("Reminder job could not be scheduled", zap.Error(err), zap.String("schedule", j.schedule))
		return
	}

	j.cron.Start()
	j.logger.Info("Reminder job started",
		zap.String("schedule", j.schedule),
		zap.String("location", j.cron.Location().String()),
	)

	<-ctx.Done()
	j.logger.Info("Reminder job context cancelled")
	j.Stop()
}

// Stop prevents new runs and waits for a running batch to finish.
func (j *ReminderJob) Stop() {
	<-j.cron.Stop().Done()
}

func (j *ReminderJob) run(ctx context.Context) {
	j.logger.Info("Running monthly reminder job")

	startTime := time.Now()
	runCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), j.timeout)
	defer cancel()

	summary, err := j.reminderUseCase.DispatchScheduled(runCtx)
	if err != nil {
		j.logger.Error("Monthly reminder job failed",
			zap.Error(err),
			zap.String("batchID", summary.BatchID),
			zap.Duration("duration", time.Since(startTime)),
		)
		sentry.CaptureException(err)
		return
	}

	j.logger.Info("Monthly reminder job completed",
		zap.String("batchID", summary.BatchID),
		zap.Int("dispatched", summary.Dispatched),
		zap.Duration("duration", time.Since(startTime)),
	)
}
