package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		Server:   ServerConfig{Port: 8080},
		Storage:  StorageConfig{Driver: DriverPostgres},
		Sessions: SessionsConfig{Driver: DriverRedis},
		Database: DatabaseConfig{
			Host:     "localhost",
			Port:     5432,
			Database: "vendor_portal",
		},
		Redis: RedisConfig{
			Host: "localhost",
			Port: 6379,
		},
		RabbitMQ: RabbitMQConfig{
			Host: "localhost",
			Port: 5672,
			Exchange: ExchangeConfig{
				Name: "portal_events",
			},
			Queue: QueueConfig{
				Name: "payment_audit",
			},
			RoutingKey: "job.paid",
		},
		Auth: AuthConfig{SessionTTL: 24 * time.Hour},
		Worker: WorkerConfig{
			Concurrency:       4,
			MaxJobs:           100,
			JobTimeout:        30 * time.Second,
			HeartbeatInterval: 10 * time.Second,
			ShutdownTimeout:   15 * time.Second,
		},
	}
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name      string
		filePath  string
		wantErr   bool
		errString string
	}{
		{
			name:     "valid config file",
			filePath: "testdata/valid_config.yaml",
			wantErr:  false,
		},
		{
			name:      "non-existent file",
			filePath:  "testdata/nonexistent.yaml",
			wantErr:   true,
			errString: "failed to read config file",
		},
		{
			name:      "malformed yaml",
			filePath:  "testdata/malformed.yaml",
			wantErr:   true,
			errString: "failed to parse config file",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load(tt.filePath)

			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errString)
				assert.Nil(t, cfg)
			} else {
				require.NoError(t, err)
				require.NotNil(t, cfg)

				assert.Equal(t, 8080, cfg.Server.Port)
				assert.Equal(t, DriverPostgres, cfg.Storage.Driver)
				assert.Equal(t, DriverRedis, cfg.Sessions.Driver)
				assert.Equal(t, "localhost", cfg.Database.Host)
				assert.Equal(t, 5432, cfg.Database.Port)
				assert.Equal(t, "vendor_portal", cfg.Database.Database)
				assert.Equal(t, "portal_events", cfg.RabbitMQ.Exchange.Name)
				assert.Equal(t, "payment_audit", cfg.RabbitMQ.Queue.Name)
				assert.Equal(t, "job.paid", cfg.RabbitMQ.RoutingKey)
				assert.Equal(t, 24*time.Hour, cfg.Auth.SessionTTL)
				assert.Equal(t, "vendor-portal-api", cfg.App.Name)
			}
		})
	}
}

func TestConfig_ValidateAPIConfig(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*Config)
		wantErr   bool
		errString string
	}{
		{
			name:    "valid config",
			mutate:  func(c *Config) {},
			wantErr: false,
		},
		{
			name: "memory drivers need no database or redis",
			mutate: func(c *Config) {
				c.Storage.Driver = DriverMemory
				c.Sessions.Driver = DriverMemory
				c.Database = DatabaseConfig{}
				c.Redis = RedisConfig{}
			},
			wantErr: false,
		},
		{
			name: "broker section optional for api",
			mutate: func(c *Config) {
				c.RabbitMQ = RabbitMQConfig{}
			},
			wantErr: false,
		},
		{
			name: "invalid server port - too low",
			mutate: func(c *Config) {
				c.Server.Port = 0
			},
			wantErr:   true,
			errString: "invalid server port",
		},
		{
			name: "invalid server port - too high",
			mutate: func(c *Config) {
				c.Server.Port = 70000
			},
			wantErr:   true,
			errString: "invalid server port",
		},
		{
			name: "unknown storage driver",
			mutate: func(c *Config) {
				c.Storage.Driver = "sqlite"
			},
			wantErr:   true,
			errString: "invalid storage driver",
		},
		{
			name: "unknown sessions driver",
			mutate: func(c *Config) {
				c.Sessions.Driver = "memcached"
			},
			wantErr:   true,
			errString: "invalid sessions driver",
		},
		{
			name: "postgres driver requires database host",
			mutate: func(c *Config) {
				c.Database.Host = ""
			},
			wantErr:   true,
			errString: "database host is required",
		},
		{
			name: "postgres driver requires database name",
			mutate: func(c *Config) {
				c.Database.Database = ""
			},
			wantErr:   true,
			errString: "database name is required",
		},
		{
			name: "redis driver requires redis host",
			mutate: func(c *Config) {
				c.Redis.Host = ""
			},
			wantErr:   true,
			errString: "redis host is required",
		},
		{
			name: "configured broker requires exchange name",
			mutate: func(c *Config) {
				c.RabbitMQ.Exchange.Name = ""
			},
			wantErr:   true,
			errString: "rabbitmq exchange name is required",
		},
		{
			name: "configured broker requires queue name",
			mutate: func(c *Config) {
				c.RabbitMQ.Queue.Name = ""
			},
			wantErr:   true,
			errString: "rabbitmq queue name is required",
		},
		{
			name: "negative session ttl",
			mutate: func(c *Config) {
				c.Auth.SessionTTL = -time.Hour
			},
			wantErr:   true,
			errString: "session_ttl",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.ValidateAPIConfig()

			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errString)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestConfig_ValidateWorkerConfig(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*Config)
		wantErr   bool
		errString string
	}{
		{
			name:    "valid config",
			mutate:  func(c *Config) {},
			wantErr: false,
		},
		{
			name: "worker always requires database",
			mutate: func(c *Config) {
				c.Database.Host = ""
			},
			wantErr:   true,
			errString: "database host is required",
		},
		{
			name: "worker always requires broker",
			mutate: func(c *Config) {
				c.RabbitMQ.Host = ""
			},
			wantErr:   true,
			errString: "rabbitmq host is required",
		},
		{
			name: "zero concurrency",
			mutate: func(c *Config) {
				c.Worker.Concurrency = 0
			},
			wantErr:   true,
			errString: "concurrency must be greater than 0",
		},
		{
			name: "zero max jobs",
			mutate: func(c *Config) {
				c.Worker.MaxJobs = 0
			},
			wantErr:   true,
			errString: "max_jobs must be greater than 0",
		},
		{
			name: "zero job timeout",
			mutate: func(c *Config) {
				c.Worker.JobTimeout = 0
			},
			wantErr:   true,
			errString: "job_timeout must be greater than 0",
		},
		{
			name: "zero heartbeat interval",
			mutate: func(c *Config) {
				c.Worker.HeartbeatInterval = 0
			},
			wantErr:   true,
			errString: "heartbeat_interval must be greater than 0",
		},
		{
			name: "zero shutdown timeout",
			mutate: func(c *Config) {
				c.Worker.ShutdownTimeout = 0
			},
			wantErr:   true,
			errString: "shutdown_timeout must be greater than 0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.ValidateWorkerConfig()

			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errString)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestLoad_ValidateIntegration(t *testing.T) {
	t.Run("load and validate valid config", func(t *testing.T) {
		cfg, err := Load("testdata/valid_config.yaml")
		require.NoError(t, err)
		require.NotNil(t, cfg)

		require.NoError(t, cfg.ValidateAPIConfig())
		require.NoError(t, cfg.ValidateWorkerConfig())
	})

	t.Run("load config with invalid port", func(t *testing.T) {
		cfg, err := Load("testdata/invalid_port.yaml")
		require.NoError(t, err)
		require.NotNil(t, cfg)

		err = cfg.ValidateAPIConfig()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid server port")
	})

	t.Run("load config with missing database", func(t *testing.T) {
		cfg, err := Load("testdata/missing_database.yaml")
		require.NoError(t, err)
		require.NotNil(t, cfg)

		err = cfg.ValidateAPIConfig()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "database name is required")
	})
}
