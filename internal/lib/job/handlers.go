package job

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// handlePlaneRegisteredTask records a registered plane in the logs and, when
// the agent is running, as a New Relic custom event.
func (j *JobService) handlePlaneRegisteredTask(ctx context.Context, t *asynq.Task) error {
	var p PlaneRegisteredPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		// A malformed payload will never succeed; don't retry it.
		return fmt.Errorf("unmarshal plane registered payload: %v: %w", err, asynq.SkipRetry)
	}

	if p.PlaneID == 0 {
		return errors.Wrap(asynq.SkipRetry, "plane registered payload without plane id")
	}

	j.logger.Info().
		Str("type", TaskPlaneRegistered).
		Int64("plane_id", p.PlaneID).
		Str("name", p.Name).
		Str("kind", p.Kind).
		Msg("Processing plane registered task")

	if j.nrApp != nil {
		j.nrApp.RecordCustomEvent("PlaneRegistered", map[string]interface{}{
			"plane_id": p.PlaneID,
			"name":     p.Name,
			"kind":     p.Kind,
		})
	}

	return nil
}

// asynqLogger routes asynq's internal logging through zerolog.
type asynqLogger struct {
	logger zerolog.Logger
}

func newAsynqLogger(logger *zerolog.Logger) *asynqLogger {
	return &asynqLogger{logger: logger.With().Str("component", "asynq").Logger()}
}

func (l *asynqLogger) Debug(args ...interface{}) { l.logger.Debug().Msg(fmt.Sprint(args...)) }
func (l *asynqLogger) Info(args ...interface{})  { l.logger.Info().Msg(fmt.Sprint(args...)) }
func (l *asynqLogger) Warn(args ...interface{})  { l.logger.Warn().Msg(fmt.Sprint(args...)) }
func (l *asynqLogger) Error(args ...interface{}) { l.logger.Error().Msg(fmt.Sprint(args...)) }
func (l *asynqLogger) Fatal(args ...interface{}) { l.logger.Fatal().Msg(fmt.Sprint(args...)) }
