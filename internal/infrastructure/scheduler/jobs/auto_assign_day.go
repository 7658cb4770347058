// Package jobs contains implementations of scheduled jobs for the tutoring
// scheduler.
package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/tutorhub/tutor-scheduling-hub/internal/application/command"
	"github.com/tutorhub/tutor-scheduling-hub/pkg/retry"
	"github.com/tutorhub/tutor-scheduling-hub/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// AUTO ASSIGN DAY JOB
// Runs the greedy assignment engine for an upcoming day. By default the job
// fills tomorrow's schedule each night, leaving today's sessions untouched.
// ══════════════════════════════════════════════════════════════════════════════

// AutoAssigner runs the assignment engine for one date.
type AutoAssigner interface {
	Handle(ctx context.Context, cmd command.AutoAssignCommand) (*command.AutoAssignResult, error)
}

// AutoAssignDayConfig contains configuration for the job.
type AutoAssignDayConfig struct {
	// DayOffset is how many days ahead of today to assign (1 = tomorrow).
	DayOffset int

	// Timeout is the maximum duration for one run.
	Timeout time.Duration
}

// DefaultAutoAssignDayConfig returns sensible defaults.
func DefaultAutoAssignDayConfig() AutoAssignDayConfig {
	return AutoAssignDayConfig{
		DayOffset: 1,
		Timeout:   2 * time.Minute,
	}
}

// AutoAssignDayJob fills an upcoming day's schedule automatically.
type AutoAssignDayJob struct {
	assigner AutoAssigner
	retrier  *retry.Retrier
	logger   *slog.Logger
	config   AutoAssignDayConfig
}

// NewAutoAssignDayJob creates a new AutoAssignDayJob.
func NewAutoAssignDayJob(assigner AutoAssigner, logger *slog.Logger, config AutoAssignDayConfig) *AutoAssignDayJob {
	if logger == nil {
		logger = slog.Default()
	}
	if config.DayOffset < 0 {
		config.DayOffset = 1
	}
	if config.Timeout <= 0 {
		config.Timeout = 2 * time.Minute
	}

	return &AutoAssignDayJob{
		assigner: assigner,
		retrier:  retry.AutoAssignRetrier(),
		logger:   logger.With("job", "auto_assign_day"),
		config:   config,
	}
}

// Name implements scheduler.Job.
func (j *AutoAssignDayJob) Name() string {
	return "auto_assign_day"
}

// Description implements scheduler.Job.
func (j *AutoAssignDayJob) Description() string {
	return "fills an upcoming day's lesson schedule using the assignment engine"
}

// Run implements scheduler.Job.
func (j *AutoAssignDayJob) Run(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, j.config.Timeout)
	defer cancel()

	date := timeutil.Today().AddDate(0, 0, j.config.DayOffset)

	j.logger.Info("auto-assignment run starting",
		slog.String("date", timeutil.FormatDate(date)))

	var result *command.AutoAssignResult
	err := j.retrier.Do(ctx, func(ctx context.Context) error {
		res, err := j.assigner.Handle(ctx, command.AutoAssignCommand{Date: date})
		if err != nil {
			// Storage errors are worth another attempt; anything the
			// handler reports as a result is final.
			return retry.Retryable(err)
		}
		result = res
		return nil
	})
	if err != nil {
		return fmt.Errorf("auto_assign_day: %w", err)
	}

	j.logger.Info("auto-assignment run finished",
		slog.String("date", timeutil.FormatDate(date)),
		slog.Int("assigned", result.AssignedCount))

	return nil
}
