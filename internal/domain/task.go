package domain

import "context"

// Variables is the named-variable payload carried by a task. Keys are
// unique per task; values are whatever the engine serialized as JSON.
type Variables map[string]any

// String returns the value for key as a string, or "" if absent or not
// a string.
func (v Variables) String(key string) string {
	s, _ := v[key].(string)
	return s
}

// Map returns the value for key as nested Variables, or nil.
func (v Variables) Map(key string) Variables {
	switch m := v[key].(type) {
	case Variables:
		return m
	case map[string]any:
		return Variables(m)
	default:
		return nil
	}
}

// Task is a single unit of work delivered by the orchestration engine.
// It is created by the engine, handed to exactly one handler per
// delivery, and completed or failed based on the handler outcome.
type Task struct {
	Key                int64     `json:"key"`
	Type               string    `json:"type"`
	ProcessInstanceKey int64     `json:"process_instance_key"`
	BpmnProcessID      string    `json:"bpmn_process_id"`
	ElementID          string    `json:"element_id"`
	Retries            int32     `json:"retries"`
	Variables          Variables `json:"variables"`
}

// Handler processes one delivered task. The returned Variables are
// reported to the engine as the task's output on success; a non-nil
// error fails the task instead.
type Handler func(ctx context.Context, task *Task) (Variables, error)
