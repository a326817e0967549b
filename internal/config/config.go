// Copyright 2026 The Ledgerline Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration
type Config struct {
	Server        ServerConfig
	Mongo         MongoConfig
	Auth          AuthConfig
	Webhook       WebhookConfig
	SSO           SSOConfig
	Tenancy       TenancyConfig
	Observability ObservabilityConfig
	RateLimit     RateLimitConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host         string
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// MongoConfig holds document store configuration
type MongoConfig struct {
	URI            string
	ConnectTimeout time.Duration
	TenantDBPrefix string
}

// AuthConfig holds token signing configuration
type AuthConfig struct {
	JWTSecret         string
	Issuer            string
	ProvisionTokenTTL time.Duration
	SSOTokenTTL       time.Duration
}

// WebhookConfig holds inbound webhook authentication configuration
type WebhookConfig struct {
	Secret string
}

// SSOConfig holds outbound token verification configuration
type SSOConfig struct {
	VerifyURL     string
	VerifyTimeout time.Duration
}

// TenancyConfig holds the deployment-mode switch between multi-tenant
// routing and a single implicit default namespace
type TenancyConfig struct {
	MultiTenant     bool
	DefaultTenantID string
}

// ObservabilityConfig holds logging and tracing configuration
type ObservabilityConfig struct {
	LogLevel       string
	LogFormat      string
	OTELEnabled    bool
	ServiceName    string
	ServiceVersion string
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	RequestsPerSecond float64
	Burst             int
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Host:         getEnv("SERVER_HOST", "0.0.0.0"),
			Port:         getEnv("SERVER_PORT", "8080"),
			ReadTimeout:  parseDuration("SERVER_READ_TIMEOUT", "15s"),
			WriteTimeout: parseDuration("SERVER_WRITE_TIMEOUT", "15s"),
			IdleTimeout:  parseDuration("SERVER_IDLE_TIMEOUT", "60s"),
		},
		Mongo: MongoConfig{
			URI:            getEnv("MONGO_URI", ""),
			ConnectTimeout: parseDuration("MONGO_CONNECT_TIMEOUT", "10s"),
			TenantDBPrefix: getEnv("TENANT_DB_PREFIX", "tenant_"),
		},
		Auth: AuthConfig{
			JWTSecret:         getEnv("JWT_SECRET", ""),
			Issuer:            getEnv("TOKEN_ISSUER", "ledgerline"),
			ProvisionTokenTTL: parseDuration("PROVISION_TOKEN_TTL", "2160h"),
			SSOTokenTTL:       parseDuration("SSO_TOKEN_TTL", "168h"),
		},
		Webhook: WebhookConfig{
			Secret: getEnv("WEBHOOK_SECRET", ""),
		},
		SSO: SSOConfig{
			VerifyURL:     getEnv("SSO_VERIFY_URL", ""),
			VerifyTimeout: parseDuration("SSO_VERIFY_TIMEOUT", "10s"),
		},
		Tenancy: TenancyConfig{
			MultiTenant:     parseBool("MULTI_TENANT", false),
			DefaultTenantID: getEnv("DEFAULT_TENANT_ID", "default"),
		},
		Observability: ObservabilityConfig{
			LogLevel:       getEnv("LOG_LEVEL", "info"),
			LogFormat:      getEnv("LOG_FORMAT", "json"),
			OTELEnabled:    parseBool("OTEL_ENABLED", false),
			ServiceName:    getEnv("OTEL_SERVICE_NAME", "ledgerline"),
			ServiceVersion: getEnv("OTEL_SERVICE_VERSION", "0.1.0"),
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: float64(parseInt("RATELIMIT_RPS", 10)),
			Burst:             parseInt("RATELIMIT_BURST", 20),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Mongo.URI == "" {
		return fmt.Errorf("MONGO_URI is required")
	}
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if c.Webhook.Secret == "" {
		return fmt.Errorf("WEBHOOK_SECRET is required")
	}
	return nil
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func parseBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func parseDuration(key string, defaultValue string) time.Duration {
	value := getEnv(key, defaultValue)
	d, err := time.ParseDuration(value)
	if err != nil {
		// Fallback to default
		d, _ = time.ParseDuration(defaultValue)
	}
	return d
}
