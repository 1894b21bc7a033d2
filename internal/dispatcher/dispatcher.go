// internal/dispatcher/dispatcher.go
package dispatcher

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"lead-enrichment-worker/internal/domain"
	"lead-enrichment-worker/internal/metrics"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Dispatcher registers one handler per task topic and forwards every
// delivered task to it, reporting the outcome back through the
// TaskReporter the source provides. Polling, redelivery and transport
// all belong to the TaskSource; the dispatcher only owns the
// handler-invocation contract.
type Dispatcher struct {
	source   domain.TaskSource
	handlers map[string]domain.Handler
	mu       sync.Mutex
	running  bool
	logger   *slog.Logger
	tracer   trace.Tracer
}

// New creates a dispatcher backed by the given task source.
func New(source domain.TaskSource, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{
		source:   source,
		handlers: make(map[string]domain.Handler),
		logger:   logger.With("component", "dispatcher"),
		tracer:   otel.Tracer("lead-enrichment-dispatcher"),
	}
}

// Subscribe registers handler for every task delivered on topic.
// Exactly one handler may be registered per topic.
func (d *Dispatcher) Subscribe(topic string, handler domain.Handler) error {
	if topic == "" {
		return domain.ErrEmptyTopic
	}
	if handler == nil {
		return fmt.Errorf("nil handler for topic %q", topic)
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.running {
		return fmt.Errorf("cannot subscribe to %q: dispatcher already running", topic)
	}
	if _, ok := d.handlers[topic]; ok {
		return fmt.Errorf("%w: %s", domain.ErrTopicRegistered, topic)
	}
	d.handlers[topic] = handler
	return nil
}

// Topics returns the topics with a registered handler.
func (d *Dispatcher) Topics() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	topics := make([]string, 0, len(d.handlers))
	for topic := range d.handlers {
		topics = append(topics, topic)
	}
	return topics
}

// Run opens one task stream per subscribed topic and blocks until ctx
// is cancelled, then closes all streams and waits for in-flight tasks.
func (d *Dispatcher) Run(ctx context.Context) error {
	d.mu.Lock()
	if len(d.handlers) == 0 {
		d.mu.Unlock()
		return domain.ErrNoHandlers
	}
	d.running = true
	handlers := make(map[string]domain.Handler, len(d.handlers))
	for topic, h := range d.handlers {
		handlers[topic] = h
	}
	d.mu.Unlock()

	streams := make([]domain.TaskStream, 0, len(handlers))
	closeAll := func() {
		for _, s := range streams {
			s.Close()
		}
	}

	for topic, handler := range handlers {
		stream, err := d.source.OpenStream(topic, d.deliverFunc(topic, handler))
		if err != nil {
			closeAll()
			return fmt.Errorf("failed to open stream for topic %s: %w", topic, err)
		}
		streams = append(streams, stream)
		d.logger.Info("subscribed to topic", "topic", topic)
	}

	<-ctx.Done()
	d.logger.Info("closing task streams", "count", len(streams))
	closeAll()
	return nil
}

func (d *Dispatcher) deliverFunc(topic string, handler domain.Handler) domain.DeliverFunc {
	return func(ctx context.Context, task *domain.Task, reporter domain.TaskReporter) {
		d.dispatch(ctx, topic, handler, task, reporter)
	}
}

// dispatch runs the handler for one delivered task and reports exactly
// one outcome: Complete with the handler's output, or Fail.
func (d *Dispatcher) dispatch(ctx context.Context, topic string, handler domain.Handler, task *domain.Task, reporter domain.TaskReporter) {
	ctx, span := d.tracer.Start(ctx, "dispatcher.HandleTask", trace.WithAttributes(
		attribute.String("task.topic", topic),
		attribute.Int64("task.key", task.Key),
		attribute.Int64("task.process_instance_key", task.ProcessInstanceKey),
	))
	defer span.End()

	logger := d.logger.With("topic", topic, "task_key", task.Key, "process_instance_key", task.ProcessInstanceKey)

	start := time.Now()
	output, err := invoke(ctx, handler, task)
	metrics.TaskHandleDuration.WithLabelValues(topic).Observe(time.Since(start).Seconds())

	if err != nil {
		retries := task.Retries - 1
		if retries < 0 {
			retries = 0
		}

		metrics.TasksHandledTotal.WithLabelValues(topic, "failed").Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, "task handling failed")
		logger.Error("task handling failed", "error", err, "remaining_retries", retries)

		if ferr := reporter.Fail(ctx, task, retries, err.Error()); ferr != nil {
			logger.Error("failed to report task failure", "error", ferr)
		}
		return
	}

	metrics.TasksHandledTotal.WithLabelValues(topic, "completed").Inc()
	span.SetStatus(codes.Ok, "task completed")

	if cerr := reporter.Complete(ctx, task, output); cerr != nil {
		span.RecordError(cerr)
		logger.Error("failed to report task completion", "error", cerr)
		return
	}
	logger.Info("task completed", "duration", time.Since(start).String())
}

// invoke calls the handler, converting a panic into a handler error so
// a misbehaving handler fails its task instead of killing the worker.
func invoke(ctx context.Context, handler domain.Handler, task *domain.Task) (output domain.Variables, err error) {
	defer func() {
		if r := recover(); r != nil {
			output = nil
			err = fmt.Errorf("handler panicked: %v", r)
		}
	}()
	return handler(ctx, task)
}
