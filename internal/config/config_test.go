package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setCredentials(t *testing.T) {
	t.Setenv("ZEEBE_CLIENT_ID", "client-id")
	t.Setenv("ZEEBE_CLIENT_SECRET", "client-secret")
	t.Setenv("CAMUNDA_CLUSTER_ID", "cluster-1234")
	t.Setenv("CAMUNDA_REGION", "bru-2")
}

func TestLoadFromEnv(t *testing.T) {
	setCredentials(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "client-id", cfg.ZeebeClientID)
	assert.Equal(t, "client-secret", cfg.ZeebeClientSecret)
	assert.Equal(t, "cluster-1234", cfg.CamundaClusterID)
	assert.Equal(t, "bru-2", cfg.CamundaRegion)

	// Defaults apply for everything not set in the environment.
	assert.Equal(t, "https://login.cloud.camunda.io/oauth/token", cfg.ZeebeAuthServerURL)
	assert.Equal(t, "lead-enrichment-worker", cfg.WorkerName)
	assert.Equal(t, 5*time.Minute, cfg.JobTimeout)
	assert.Equal(t, 32, cfg.MaxJobsActive)
	assert.Equal(t, 4, cfg.Concurrency)
	assert.Equal(t, "lead-enrichment", cfg.BpmnProcessID)
	assert.Equal(t, "@every 1m", cfg.HealthProbeSchedule)
	assert.Empty(t, cfg.EtcdEndpoints)
}

func TestLoadMissingCredentials(t *testing.T) {
	tests := []struct {
		name  string
		unset string
	}{
		{"missing client id", "ZEEBE_CLIENT_ID"},
		{"missing client secret", "ZEEBE_CLIENT_SECRET"},
		{"missing cluster id", "CAMUNDA_CLUSTER_ID"},
		{"missing region", "CAMUNDA_REGION"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setCredentials(t)
			t.Setenv(tt.unset, "")

			cfg, err := Load()
			require.Error(t, err)
			assert.Nil(t, cfg)
			assert.Contains(t, err.Error(), "invalid configuration")
		})
	}
}

func TestExplicitGatewayAddressSkipsClusterCoordinates(t *testing.T) {
	t.Setenv("ZEEBE_CLIENT_ID", "client-id")
	t.Setenv("ZEEBE_CLIENT_SECRET", "client-secret")
	t.Setenv("ZEEBE_ADDRESS", "zeebe.example.com:26500")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "zeebe.example.com:26500", cfg.GatewayAddress())
	assert.Equal(t, "zeebe.example.com", cfg.GatewayHost())
}

func TestGatewayAddress(t *testing.T) {
	tests := []struct {
		name     string
		cfg      Config
		wantAddr string
		wantHost string
	}{
		{
			name:     "camunda cloud coordinates",
			cfg:      Config{CamundaClusterID: "abc", CamundaRegion: "bru-2"},
			wantAddr: "abc.bru-2.zeebe.camunda.io:443",
			wantHost: "abc.bru-2.zeebe.camunda.io",
		},
		{
			name:     "explicit address with port",
			cfg:      Config{ZeebeAddress: "localhost:26500"},
			wantAddr: "localhost:26500",
			wantHost: "localhost",
		},
		{
			name:     "explicit address without port",
			cfg:      Config{ZeebeAddress: "zeebe.internal"},
			wantAddr: "zeebe.internal:443",
			wantHost: "zeebe.internal",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantAddr, tt.cfg.GatewayAddress())
			assert.Equal(t, tt.wantHost, tt.cfg.GatewayHost())
		})
	}
}
