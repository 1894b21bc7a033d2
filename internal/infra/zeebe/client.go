// internal/infra/zeebe/client.go
package zeebe

import (
	"fmt"
	"log/slog"

	"lead-enrichment-worker/internal/config"

	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
)

// Client wraps the Zeebe gRPC client with the connection built from
// configuration. It implements domain.TaskSource, domain.ProcessStarter
// and domain.TopologyChecker; everything protocol-shaped (long polling,
// OAuth token refresh, stream management) stays inside zbc.
type Client struct {
	zbc    zbc.Client
	cfg    *config.Config
	logger *slog.Logger
}

// NewClient dials the cluster gateway with OAuth client-credentials
// from the configuration. Token retrieval is lazy, so an invalid secret
// surfaces on the first command rather than here.
func NewClient(cfg *config.Config, logger *slog.Logger) (*Client, error) {
	credentials, err := zbc.NewOAuthCredentialsProvider(&zbc.OAuthProviderConfig{
		ClientID:               cfg.ZeebeClientID,
		ClientSecret:           cfg.ZeebeClientSecret,
		Audience:               cfg.GatewayHost(),
		AuthorizationServerURL: cfg.ZeebeAuthServerURL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create oauth credentials provider: %w", err)
	}

	client, err := zbc.NewClient(&zbc.ClientConfig{
		GatewayAddress:      cfg.GatewayAddress(),
		CredentialsProvider: credentials,
		KeepAlive:           cfg.KeepAlive,
		DialOpts: []grpc.DialOption{
			grpc.WithStatsHandler(otelgrpc.NewClientHandler()),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create zeebe client for %s: %w", cfg.GatewayAddress(), err)
	}

	logger.Info("zeebe client created", "gateway", cfg.GatewayAddress())

	return &Client{
		zbc:    client,
		cfg:    cfg,
		logger: logger.With("component", "zeebe-client"),
	}, nil
}

// Close tears down the underlying gRPC connection.
func (c *Client) Close() error {
	return c.zbc.Close()
}
