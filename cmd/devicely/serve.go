package main

import (
	"context"
	"errors"
	"log/slog"
	"os/signal"
	"sync"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/nadzzz/devicely/internal/config"
	"github.com/nadzzz/devicely/internal/health"
	"github.com/nadzzz/devicely/internal/metrics"
	"github.com/nadzzz/devicely/internal/transport"
	grpctransport "github.com/nadzzz/devicely/internal/transport/grpc"
	httptransport "github.com/nadzzz/devicely/internal/transport/http"
	mqtttransport "github.com/nadzzz/devicely/internal/transport/mqtt"
)

func serveCmd(configFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the conversion daemon",
		Long: `Run the daemon with every enabled transport (HTTP/WebSocket, gRPC, MQTT)
and the health server (/healthz, /readyz, /metrics).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			// Create root context with signal handling for graceful shutdown.
			ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()
			return serve(ctx, *configFile)
		},
	}
}

func serve(ctx context.Context, configFile string) error {
	a, err := loadApp(ctx, configFile)
	if err != nil {
		return err
	}
	defer a.close()

	slog.Info("devicely starting", "version", version)
	metrics.Init()

	transports := buildTransports(a.cfg.Transports, a)
	if len(transports) == 0 {
		return errors.New("no transports enabled, enable at least one in config")
	}

	// Start health check server.
	healthServer := health.New(a.cfg.Server.HealthPort)
	a.registerChecks(healthServer)
	go func() {
		if err := healthServer.ListenAndServe(ctx); err != nil {
			slog.Error("health server failed", "error", err)
		}
	}()

	// Start all transports.
	var wg sync.WaitGroup
	for _, t := range transports {
		wg.Add(1)
		go func(t transport.Transport) {
			defer wg.Done()
			slog.Info("starting transport", "name", t.Name())
			if err := t.Listen(ctx, a.converter.Convert); err != nil {
				slog.Error("transport failed", "name", t.Name(), "error", err)
			}
		}(t)
	}

	// Mark as ready once all transports are started.
	healthServer.SetReady(true)
	snap := a.registry.Current()
	slog.Info("devicely ready",
		"transports", len(transports),
		"health_port", a.cfg.Server.HealthPort,
		"provider", snap.ID,
		"model", snap.Model)

	// Block until shutdown signal.
	<-ctx.Done()
	slog.Info("shutdown signal received, draining...")
	healthServer.SetReady(false)

	// Close all transports gracefully.
	for _, t := range transports {
		if err := t.Close(); err != nil {
			slog.Error("transport close error", "name", t.Name(), "error", err)
		}
	}

	wg.Wait()
	slog.Info("devicely stopped")
	return nil
}

func buildTransports(cfg config.TransportsConfig, a *app) []transport.Transport {
	var transports []transport.Transport

	if cfg.GRPC.Enabled {
		transports = append(transports, grpctransport.New(cfg.GRPC.Port, a.registry))
	}
	if cfg.HTTP.Enabled {
		transports = append(transports, httptransport.New(cfg.HTTP.Port, a.registry))
	}
	if cfg.MQTT.Enabled {
		transports = append(transports, mqtttransport.New(mqtttransport.Options{
			Broker:   cfg.MQTT.Broker,
			Topic:    cfg.MQTT.Topic,
			ReplyTo:  cfg.MQTT.ReplyTo,
			ClientID: cfg.MQTT.ClientID,
			Username: cfg.MQTT.Username,
			Password: cfg.MQTT.Password,
			QoS:      cfg.MQTT.QoS,
		}))
	}
	return transports
}
