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

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/ledgerline/ledgerline/internal/config"
	"github.com/ledgerline/ledgerline/internal/identity"
	"github.com/ledgerline/ledgerline/internal/observability/logger"
	"github.com/ledgerline/ledgerline/internal/observability/metrics"
	"github.com/ledgerline/ledgerline/internal/observability/tracing"
	"github.com/ledgerline/ledgerline/internal/provision"
	"github.com/ledgerline/ledgerline/internal/sso"
	"github.com/ledgerline/ledgerline/internal/store/mongodb"
	"github.com/ledgerline/ledgerline/internal/tenant"
	"github.com/ledgerline/ledgerline/internal/token"
	transportHTTP "github.com/ledgerline/ledgerline/internal/transport/http"
)

const bcryptCost = 10

// tenantStores routes the provisioner through the shared connection
// cache, so provisioning and request resolution share one acquisition
// path and one race-safety guarantee.
type tenantStores struct {
	manager *tenant.Manager
}

func (s tenantStores) OpenStore(ctx context.Context, tenantID string) (provision.Store, error) {
	return s.manager.Acquire(ctx, tenantID)
}

func main() {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger.Init(logger.Config{
		Level:       cfg.Observability.LogLevel,
		Format:      cfg.Observability.LogFormat,
		ServiceName: cfg.Observability.ServiceName,
	})
	slog.Info("starting ledgerline",
		slog.Bool("multi_tenant", cfg.Tenancy.MultiTenant),
	)

	ctx := context.Background()

	tracer, err := tracing.New(ctx, tracing.Config{
		Enabled:        cfg.Observability.OTELEnabled,
		ServiceName:    cfg.Observability.ServiceName,
		ServiceVersion: cfg.Observability.ServiceVersion,
	})
	if err != nil {
		slog.Error("failed to initialize tracer", logger.Error(err))
	}
	defer tracer.Shutdown(ctx)

	meter := metrics.New(cfg.Observability.OTELEnabled, cfg.Observability.ServiceName)

	opener := mongodb.NewOpener(mongodb.Config{
		URI:            cfg.Mongo.URI,
		ConnectTimeout: cfg.Mongo.ConnectTimeout,
		DBPrefix:       cfg.Mongo.TenantDBPrefix,
	})
	manager := tenant.NewManager(opener, meter)

	hasher := identity.NewPasswordHasher(bcryptCost)
	provisioner := provision.NewService(tenantStores{manager: manager}, hasher)
	tokens := token.NewService(
		cfg.Auth.JWTSecret,
		cfg.Auth.Issuer,
		cfg.Auth.ProvisionTokenTTL,
		cfg.Auth.SSOTokenTTL,
	)
	verifier := sso.NewVerifier(cfg.SSO.VerifyURL, cfg.SSO.VerifyTimeout)

	handler := transportHTTP.NewHandler(manager, provisioner, tokens, verifier, transportHTTP.Options{
		WebhookSecret:   cfg.Webhook.Secret,
		DefaultTenantID: cfg.Tenancy.DefaultTenantID,
	})
	rateLimiter := transportHTTP.NewRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)
	router := transportHTTP.NewRouter(handler, rateLimiter, cfg.Tenancy.MultiTenant)

	server := &http.Server{
		Addr:         net.JoinHostPort(cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("http server listening", slog.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		slog.Error("http server failed", logger.Error(err))
	case sig := <-stop:
		slog.Info("shutting down", slog.String("signal", sig.String()))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("http server shutdown failed", logger.Error(err))
	}
	if err := manager.Shutdown(shutdownCtx); err != nil {
		slog.Error("tenant connection shutdown failed", logger.Error(err))
	}
	slog.Info("stopped")
}
