package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/examgrid/examgrid-backend/internal/config"
	"github.com/examgrid/examgrid-backend/internal/service"
)

const (
	GradePollTimeout = 1 * time.Second
	// GradeMaxAttempts bounds requeues of a failing job so a poison
	// submission cannot spin the worker forever.
	GradeMaxAttempts = 3
)

// GradingWorker drains the grading queue and runs each submission through
// the grading service. Jobs that fail are requeued with an attempt counter.
type GradingWorker struct {
	grading *service.GradingService
	rdb     *redis.Client
	log     zerolog.Logger
}

func NewGradingWorker(grading *service.GradingService, rdb *redis.Client, log zerolog.Logger) *GradingWorker {
	return &GradingWorker{
		grading: grading,
		rdb:     rdb,
		log:     log.With().Str("component", "grading_worker").Logger(),
	}
}

type gradeJobPayload struct {
	service.GradeJob
	Attempts int `json:"attempts,omitempty"`
}

// Start runs the worker loop until ctx is cancelled. In-flight jobs are
// finished before returning.
func (w *GradingWorker) Start(ctx context.Context) {
	w.log.Info().Msg("GradingWorker started")

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("Shutdown requested")
			return

		default:
			item, err := w.rdb.BLPop(ctx, GradePollTimeout, config.WorkerKey.GradeSubmissionsQueue).Result()
			if err != nil {
				if err != redis.Nil && ctx.Err() == nil {
					w.log.Error().Err(err).Msg("BLPop error")
				}
				continue
			}

			if len(item) < 2 {
				continue
			}

			var job gradeJobPayload
			if err := json.Unmarshal([]byte(item[1]), &job); err != nil {
				w.log.Error().Err(err).Msg("Invalid JSON payload")
				continue
			}

			// The job already left the queue; grade it even if shutdown
			// started while we were blocked.
			w.process(context.Background(), job)
		}
	}
}

func (w *GradingWorker) process(ctx context.Context, job gradeJobPayload) {
	score, maxScore, err := w.grading.GradeSubmission(ctx, job.SubmissionID)
	if err == nil {
		w.log.Info().
			Str("submission_id", job.SubmissionID.String()).
			Int("score", score).
			Int("max_score", maxScore).
			Msg("graded")
		return
	}

	job.Attempts++
	if job.Attempts >= GradeMaxAttempts {
		w.log.Error().Err(err).
			Str("submission_id", job.SubmissionID.String()).
			Int("attempts", job.Attempts).
			Msg("giving up on submission")
		return
	}

	w.log.Warn().Err(err).
		Str("submission_id", job.SubmissionID.String()).
		Int("attempts", job.Attempts).
		Msg("grading failed, requeueing")
	raw, _ := json.Marshal(job)
	w.rdb.RPush(ctx, config.WorkerKey.GradeSubmissionsQueue, raw)
}
