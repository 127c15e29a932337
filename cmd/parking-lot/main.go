package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"alke-parking/internal/config"
	"alke-parking/internal/demo"
	"alke-parking/internal/logging"
	"alke-parking/internal/parking"
	"alke-parking/internal/server"
)

var (
	mode = flag.String("mode", "cli", "Mode to run: cli, server, both, or demo")
	port = flag.String("port", "", "Port for HTTP server (overrides APP_PORT)")
)

func main() {
	flag.Parse()

	cfg := config.Load()
	if *port != "" {
		cfg.Port = *port
	}

	logging.Init(cfg.IsDevelopment(), cfg.LogLevel)
	log := logging.Logger()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	telemetryProvider, err := parking.NewTelemetryProvider(parking.TelemetryConfig{
		ServiceName:  cfg.OTelServiceName,
		OTLPEndpoint: cfg.OTelEndpoint,
		Disabled:     !cfg.TelemetryEnabled,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize telemetry")
	}

	lot, err := parking.NewInstrumentedParkingLot(parking.NewParkingLot(cfg.Capacity, parking.SystemClock{}), telemetryProvider)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create parking lot")
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	log.Info().Str("mode", *mode).Int("capacity", cfg.Capacity).Msg("starting alke-parking")

	switch *mode {
	case "cli":
		runCLI(ctx, cancel, lot, telemetryProvider, sigChan)
	case "server":
		runServer(cancel, cfg, lot, sigChan)
	case "both":
		runBoth(ctx, cancel, cfg, lot, telemetryProvider, sigChan)
	case "demo":
		demo.Run(ctx, lot, os.Stdout)
	default:
		log.Fatal().Str("mode", *mode).Msg("invalid mode, must be cli, server, both, or demo")
	}

	shutdownTelemetry(telemetryProvider)
}

func runCLI(ctx context.Context, cancel context.CancelFunc, lot *parking.InstrumentedParkingLot, telemetryProvider *parking.TelemetryProvider, sigChan chan os.Signal) {
	go func() {
		<-sigChan
		logging.Logger().Info().Msg("shutting down")
		cancel()
	}()

	shell := parking.NewInstrumentedShell(lot, telemetryProvider, os.Stdin, os.Stdout)
	shell.Run(ctx)
	if err := shell.Err(); err != nil {
		logging.Logger().Error().Err(err).Msg("shell stopped")
	}
}

func runServer(cancel context.CancelFunc, cfg *config.Config, lot *parking.InstrumentedParkingLot, sigChan chan os.Signal) {
	srv := server.NewServer(cfg.Port, lot, cfg.OTelServiceName)

	go func() {
		<-sigChan
		logging.Logger().Info().Msg("received shutdown signal")
		shutdownServer(srv)
		cancel()
	}()

	if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logging.Logger().Error().Err(err).Msg("server error")
	}
}

func runBoth(ctx context.Context, cancel context.CancelFunc, cfg *config.Config, lot *parking.InstrumentedParkingLot, telemetryProvider *parking.TelemetryProvider, sigChan chan os.Signal) {
	log := logging.Logger()
	srv := server.NewServer(cfg.Port, lot, cfg.OTelServiceName)

	serverDone := make(chan error, 1)
	go func() {
		serverDone <- srv.Start()
	}()

	cliDone := make(chan bool, 1)
	go func() {
		shell := parking.NewInstrumentedShell(lot, telemetryProvider, os.Stdin, os.Stdout)
		shell.Run(ctx)
		cliDone <- true
	}()

	go func() {
		<-sigChan
		log.Info().Msg("received shutdown signal")
		cancel()
	}()

	select {
	case err := <-serverDone:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("server error")
		}
	case <-cliDone:
		log.Info().Msg("CLI exited")
	case <-ctx.Done():
		log.Info().Msg("context cancelled")
	}

	shutdownServer(srv)
}

func shutdownServer(srv *server.Server) {
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logging.Logger().Error().Err(err).Msg("server shutdown error")
	}
}

func shutdownTelemetry(telemetryProvider *parking.TelemetryProvider) {
	logging.Logger().Info().Msg("shutting down telemetry")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := telemetryProvider.Shutdown(shutdownCtx); err != nil {
		logging.Logger().Error().Err(err).Msg("error shutting down telemetry")
	}
}
