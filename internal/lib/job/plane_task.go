package job

import (
	"encoding/json"
	"time"

	"github.com/deppfellow/hangar/internal/model"
	"github.com/hibiken/asynq"
	"github.com/pkg/errors"
)

const (
	// TaskPlaneRegistered is emitted after a plane has been stored.
	TaskPlaneRegistered = "plane:registered"
)

// PlaneRegisteredPayload is the JSON body of a TaskPlaneRegistered task.
type PlaneRegisteredPayload struct {
	PlaneID      int64     `json:"plane_id"`
	Name         string    `json:"name"`
	Kind         string    `json:"kind"`
	RegisteredAt time.Time `json:"registered_at"`
}

// NewPlaneRegisteredTask builds the task for a stored plane.
//
// Registration events are low priority: retried a few times on the "low"
// queue and dropped after that.
func NewPlaneRegisteredTask(plane *model.Plane) (*asynq.Task, error) {
	payload, err := json.Marshal(PlaneRegisteredPayload{
		PlaneID:      plane.ID,
		Name:         plane.Name,
		Kind:         plane.Kind,
		RegisteredAt: plane.CreatedAt,
	})
	if err != nil {
		return nil, errors.Wrap(err, "marshal plane registered payload")
	}

	return asynq.NewTask(
		TaskPlaneRegistered,
		payload,
		asynq.MaxRetry(3),
		asynq.Queue("low"),
		asynq.Timeout(30*time.Second),
	), nil
}
