package tasks

import (
	"encoding/json"
	"errors"
	"fmt"
)

// TypeImageDelete removes an uploaded vehicle image after its inventory row is
// gone.
const TypeImageDelete = "image.delete"

var ErrMalformedTask = errors.New("malformed task")

type Task struct {
	Type      string `json:"type"`
	Object    string `json:"object,omitempty"`
	VehicleID int    `json:"vehicleId,omitempty"`
}

// Values is the stream entry representation: the type stays readable for
// redis-cli users and the body travels as JSON.
func (t Task) Values() map[string]any {
	body, _ := json.Marshal(t)
	return map[string]any{
		"type":    t.Type,
		"payload": string(body),
	}
}

func Decode(values map[string]any) (Task, error) {
	raw, ok := values["payload"].(string)
	if !ok {
		return Task{}, fmt.Errorf("%w: missing payload", ErrMalformedTask)
	}
	var task Task
	if err := json.Unmarshal([]byte(raw), &task); err != nil {
		return Task{}, fmt.Errorf("%w: %v", ErrMalformedTask, err)
	}
	if typ, ok := values["type"].(string); ok && task.Type == "" {
		task.Type = typ
	}
	return task, nil
}
