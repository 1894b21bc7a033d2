package domain

import (
	"context"
	"errors"
)

var (
	// ErrEmptyTopic is returned when subscribing with an empty topic name.
	ErrEmptyTopic = errors.New("topic cannot be empty")
	// ErrTopicRegistered is returned when a topic already has a handler.
	ErrTopicRegistered = errors.New("handler already registered for topic")
	// ErrNoHandlers is returned when running a dispatcher with no subscriptions.
	ErrNoHandlers = errors.New("no handlers registered")
)

// TaskReporter reports the outcome of a handled task back to the engine.
type TaskReporter interface {
	// Complete signals successful handling, publishing output as the
	// task's result variables.
	Complete(ctx context.Context, task *Task, output Variables) error
	// Fail signals failed handling, leaving retries attempts for the
	// engine to redeliver the task. At zero the engine raises an incident.
	Fail(ctx context.Context, task *Task, retries int32, message string) error
}

// DeliverFunc is invoked by a TaskSource for every task delivered on an
// open stream.
type DeliverFunc func(ctx context.Context, task *Task, reporter TaskReporter)

// TaskStream is a live subscription for a single topic.
type TaskStream interface {
	// Close stops delivery and waits for in-flight tasks to finish.
	Close()
}

// TaskSource opens task streams against the orchestration cluster. The
// polling loop, backoff and delivery guarantees live behind this
// interface, inside the engine client.
type TaskSource interface {
	OpenStream(topic string, deliver DeliverFunc) (TaskStream, error)
}
