// internal/infra/zeebe/process.go
package zeebe

import (
	"context"
	"fmt"

	"lead-enrichment-worker/internal/domain"

	"google.golang.org/grpc/status"
)

// StartProcess starts the latest deployed version of the given BPMN
// process with the provided variables and returns the instance key.
func (c *Client) StartProcess(ctx context.Context, bpmnProcessID string, vars domain.Variables) (int64, error) {
	request := c.zbc.NewCreateInstanceCommand().
		BPMNProcessId(bpmnProcessID).
		LatestVersion()

	if len(vars) > 0 {
		withVars, err := request.VariablesFromMap(vars)
		if err != nil {
			return 0, fmt.Errorf("failed to encode variables for process %s: %w", bpmnProcessID, err)
		}
		request = withVars
	}

	response, err := request.Send(ctx)
	if err != nil {
		return 0, fmt.Errorf("create instance command for process %s rejected (%s): %w", bpmnProcessID, status.Code(err), err)
	}

	c.logger.Info("process instance started",
		"bpmn_process_id", bpmnProcessID,
		"process_instance_key", response.GetProcessInstanceKey(),
	)
	return response.GetProcessInstanceKey(), nil
}

// CheckTopology asks the gateway for the cluster topology. Used as the
// connection health probe.
func (c *Client) CheckTopology(ctx context.Context) (*domain.Topology, error) {
	response, err := c.zbc.NewTopologyCommand().Send(ctx)
	if err != nil {
		return nil, fmt.Errorf("topology command rejected (%s): %w", status.Code(err), err)
	}

	return &domain.Topology{
		ClusterSize:    response.GetClusterSize(),
		PartitionCount: response.GetPartitionsCount(),
		Brokers:        len(response.GetBrokers()),
		GatewayVersion: response.GetGatewayVersion(),
	}, nil
}
