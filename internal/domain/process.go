package domain

import "context"

// ProcessStarter creates new process instances on the cluster.
type ProcessStarter interface {
	// StartProcess starts the latest version of the given BPMN process
	// with the provided variables and returns the process instance key.
	StartProcess(ctx context.Context, bpmnProcessID string, vars Variables) (int64, error)
}

// Topology is a snapshot of the cluster as seen by the gateway.
type Topology struct {
	ClusterSize    int32  `json:"cluster_size"`
	PartitionCount int32  `json:"partition_count"`
	Brokers        int    `json:"brokers"`
	GatewayVersion string `json:"gateway_version"`
}

// TopologyChecker probes the cluster for reachability.
type TopologyChecker interface {
	CheckTopology(ctx context.Context) (*Topology, error)
}
