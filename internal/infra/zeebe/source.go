// internal/infra/zeebe/source.go
package zeebe

import (
	"context"
	"fmt"

	"lead-enrichment-worker/internal/domain"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"google.golang.org/grpc/status"
)

// OpenStream opens a Zeebe job worker for one task topic. The job
// worker long-polls the gateway and invokes deliver for every
// activated job; Close on the returned stream drains in-flight jobs.
func (c *Client) OpenStream(topic string, deliver domain.DeliverFunc) (domain.TaskStream, error) {
	if topic == "" {
		return nil, domain.ErrEmptyTopic
	}

	jobWorker := c.zbc.NewJobWorker().
		JobType(topic).
		Handler(c.jobHandler(topic, deliver)).
		Name(c.cfg.WorkerName).
		Timeout(c.cfg.JobTimeout).
		MaxJobsActive(c.cfg.MaxJobsActive).
		Concurrency(c.cfg.Concurrency).
		PollInterval(c.cfg.PollInterval).
		RequestTimeout(c.cfg.RequestTimeout).
		Open()

	return &jobStream{worker: jobWorker}, nil
}

type jobStream struct {
	worker worker.JobWorker
}

func (s *jobStream) Close() {
	s.worker.Close()
	s.worker.AwaitClose()
}

func (c *Client) jobHandler(topic string, deliver domain.DeliverFunc) worker.JobHandler {
	return func(jobClient worker.JobClient, job entities.Job) {
		// The zbc handler carries no context; reporting commands get a
		// bounded one so a stuck gateway cannot pin a handler goroutine.
		ctx, cancel := context.WithTimeout(context.Background(), c.cfg.JobTimeout)
		defer cancel()

		reporter := &jobReporter{client: jobClient}

		task, err := taskFromJob(job)
		if err != nil {
			c.logger.Error("failed to decode job variables", "topic", topic, "job_key", job.GetKey(), "error", err)
			retries := job.GetRetries() - 1
			if retries < 0 {
				retries = 0
			}
			if ferr := reporter.Fail(ctx, &domain.Task{Key: job.GetKey()}, retries, err.Error()); ferr != nil {
				c.logger.Error("failed to fail undecodable job", "job_key", job.GetKey(), "error", ferr)
			}
			return
		}

		deliver(ctx, task, reporter)
	}
}

func taskFromJob(job entities.Job) (*domain.Task, error) {
	vars, err := job.GetVariablesAsMap()
	if err != nil {
		return nil, fmt.Errorf("failed to decode variables for job %d: %w", job.GetKey(), err)
	}
	return &domain.Task{
		Key:                job.GetKey(),
		Type:               job.GetType(),
		ProcessInstanceKey: job.GetProcessInstanceKey(),
		BpmnProcessID:      job.GetBpmnProcessId(),
		ElementID:          job.GetElementId(),
		Retries:            job.GetRetries(),
		Variables:          vars,
	}, nil
}

// jobReporter reports task outcomes through the job-scoped client the
// Zeebe worker hands to its handler.
type jobReporter struct {
	client worker.JobClient
}

func (r *jobReporter) Complete(ctx context.Context, task *domain.Task, output domain.Variables) error {
	request := r.client.NewCompleteJobCommand().JobKey(task.Key)

	if len(output) > 0 {
		withVars, err := request.VariablesFromMap(output)
		if err != nil {
			return fmt.Errorf("failed to encode output variables for job %d: %w", task.Key, err)
		}
		if _, err := withVars.Send(ctx); err != nil {
			return fmt.Errorf("complete command for job %d rejected (%s): %w", task.Key, status.Code(err), err)
		}
		return nil
	}

	if _, err := request.Send(ctx); err != nil {
		return fmt.Errorf("complete command for job %d rejected (%s): %w", task.Key, status.Code(err), err)
	}
	return nil
}

func (r *jobReporter) Fail(ctx context.Context, task *domain.Task, retries int32, message string) error {
	_, err := r.client.NewFailJobCommand().
		JobKey(task.Key).
		Retries(retries).
		ErrorMessage(message).
		Send(ctx)
	if err != nil {
		return fmt.Errorf("fail command for job %d rejected (%s): %w", task.Key, status.Code(err), err)
	}
	return nil
}
