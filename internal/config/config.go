// internal/config/config.go
package config

import (
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Config holds all configuration for both the worker and the API
// process. The mapstructure tags are used by Viper to unmarshal the
// data; validate tags make missing credentials a deterministic startup
// failure instead of a rejected connection later.
type Config struct {
	// Cluster coordinates. Either a full gateway address, or the
	// Camunda Cloud cluster id + region the address is derived from.
	ZeebeAddress     string `mapstructure:"zeebe_address"`
	CamundaClusterID string `mapstructure:"camunda_cluster_id" validate:"required_without=ZeebeAddress"`
	CamundaRegion    string `mapstructure:"camunda_region" validate:"required_without=ZeebeAddress"`

	// OAuth client-credentials.
	ZeebeClientID      string `mapstructure:"zeebe_client_id" validate:"required"`
	ZeebeClientSecret  string `mapstructure:"zeebe_client_secret" validate:"required"`
	ZeebeAuthServerURL string `mapstructure:"zeebe_authorization_server_url" validate:"required,url"`

	// Worker tuning, passed through to the Zeebe client.
	WorkerName     string        `mapstructure:"worker_name" validate:"required"`
	JobTimeout     time.Duration `mapstructure:"job_timeout"`
	MaxJobsActive  int           `mapstructure:"max_jobs_active" validate:"gte=1"`
	Concurrency    int           `mapstructure:"concurrency" validate:"gte=1"`
	PollInterval   time.Duration `mapstructure:"poll_interval"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	KeepAlive      time.Duration `mapstructure:"keep_alive"`

	// Lead storage. When no etcd endpoints are configured the processes
	// fall back to the in-memory repository.
	EtcdEndpoints []string      `mapstructure:"etcd_endpoints"`
	EtcdTimeout   time.Duration `mapstructure:"etcd_timeout"`

	// API process.
	BpmnProcessID  string `mapstructure:"bpmn_process_id" validate:"required"`
	WebhookToken   string `mapstructure:"webhook_token"`
	HttpListenAddr string `mapstructure:"http_listen_addr"`

	// Worker-side observability.
	MetricsListenAddr   string `mapstructure:"metrics_listen_addr"`
	HealthProbeSchedule string `mapstructure:"health_probe_schedule"`
}

// Load loads configuration from file and environment variables.
func Load() (*Config, error) {
	v := viper.New()

	// Set default values
	v.SetDefault("zeebe_authorization_server_url", "https://login.cloud.camunda.io/oauth/token")
	v.SetDefault("worker_name", "lead-enrichment-worker")
	v.SetDefault("job_timeout", "5m")
	v.SetDefault("max_jobs_active", 32)
	v.SetDefault("concurrency", 4)
	v.SetDefault("poll_interval", "100ms")
	v.SetDefault("request_timeout", "15s")
	v.SetDefault("keep_alive", "45s")
	v.SetDefault("etcd_timeout", "5s")
	v.SetDefault("bpmn_process_id", "lead-enrichment")
	v.SetDefault("http_listen_addr", ":8080")
	v.SetDefault("metrics_listen_addr", ":2112")
	v.SetDefault("health_probe_schedule", "@every 1m")

	// Set config file details
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	v.AddConfigPath(".")

	// Read environment variables. Keys without defaults must be bound
	// explicitly for AutomaticEnv to surface them through Unmarshal.
	v.AutomaticEnv()
	for _, key := range []string{
		"zeebe_address",
		"camunda_cluster_id",
		"camunda_region",
		"zeebe_client_id",
		"zeebe_client_secret",
		"webhook_token",
		"etcd_endpoints",
	} {
		if err := v.BindEnv(key); err != nil {
			return nil, err
		}
	}

	// Read the config file; it is optional and env vars win without it.
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// GatewayHost is the hostname the gateway is reached at, which doubles
// as the OAuth audience for Camunda Cloud.
func (c *Config) GatewayHost() string {
	if c.ZeebeAddress != "" {
		if host, _, err := net.SplitHostPort(c.ZeebeAddress); err == nil {
			return host
		}
		return c.ZeebeAddress
	}
	return fmt.Sprintf("%s.%s.zeebe.camunda.io", c.CamundaClusterID, c.CamundaRegion)
}

// GatewayAddress is the host:port the Zeebe client dials.
func (c *Config) GatewayAddress() string {
	if c.ZeebeAddress != "" {
		if strings.Contains(c.ZeebeAddress, ":") {
			return c.ZeebeAddress
		}
		return c.ZeebeAddress + ":443"
	}
	return c.GatewayHost() + ":443"
}
