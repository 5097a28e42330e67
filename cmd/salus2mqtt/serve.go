package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	adactor "github.com/berfenger/salus2mqtt/internal/adapter/actor"
	"github.com/berfenger/salus2mqtt/internal/config"
	"github.com/berfenger/salus2mqtt/internal/core/actor"
	"github.com/berfenger/salus2mqtt/internal/metrics"
	"github.com/berfenger/salus2mqtt/internal/server"
	"github.com/berfenger/salus2mqtt/internal/util/actorutil"
	"github.com/berfenger/salus2mqtt/pkg/it600"

	pactor "github.com/asynkron/protoactor-go/actor"
	"github.com/asynkron/protoactor-go/eventstream"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the bridge (default)",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func gracefulShutdown(apiServer *http.Server, done chan bool) {
	// Create context that listens for the interrupt signal from the OS.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Listen for the interrupt signal.
	<-ctx.Done()

	log.Println("shutting down gracefully, press Ctrl+C again to force")

	// in-flight requests get 5 seconds to finish
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := apiServer.Shutdown(ctx); err != nil {
		log.Printf("Server forced to shutdown with error: %v", err)
	}

	log.Println("Server exiting")

	done <- true
}

func runServe(cmd *cobra.Command, args []string) error {

	// load and print config
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	safePrintConfig(*cfg)

	logger := newLogger(cfg)
	defer logger.Sync()

	// init actor system
	as := actorutil.NewActorSystemWithZapLogger(logger)
	ctx := as.Root

	m := metrics.New()

	props := pactor.PropsFromProducer(func() pactor.Actor {
		return actor.NewMasterOfPuppetsActor(*cfg, m, gatewayActorProvider(cfg, m, logger),
			mqttActorProvider(cfg, logger), logger)
	})
	pid, err := ctx.SpawnNamed(props, "master")
	if err != nil {
		return err
	}

	apiServer := server.NewServer(*cfg, ctx, pid, m.Handler())
	done := make(chan bool, 1)

	go gracefulShutdown(apiServer, done)

	err = apiServer.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("http server error: %w", err)
	}

	<-done
	log.Println("Graceful shutdown complete.")

	ctx.Stop(pid)
	as.Shutdown()
	return nil
}

func newGatewayClient(cfg *config.Config, logger *zap.Logger, instrument ...it600.Instrument) (*it600.Gateway, error) {
	return it600.New(cfg.Gateway.Host, cfg.Gateway.EUID,
		it600.WithPort(int(cfg.Gateway.Port)),
		it600.WithRequestTimeout(cfg.Gateway.RequestTimeout()),
		it600.WithLogger(logger),
		it600.WithInstrument(instrument...))
}

// gatewayActorProvider builds a fresh client on every restart so a new
// session starts with Connect.
func gatewayActorProvider(cfg *config.Config, m *metrics.Metrics, logger *zap.Logger) actor.GatewayActorProvider {
	return func() *adactor.GatewayActor {
		client, err := newGatewayClient(cfg, logger, m.Instrument())
		if err != nil {
			panic(err)
		}
		return adactor.NewGatewayActor(client, m, cfg.Gateway.TaskTimeout(), logger)
	}
}

func mqttActorProvider(cfg *config.Config, logger *zap.Logger) actor.MQTTActorProvider {
	return func(es *eventstream.EventStream) *adactor.MQTTActor {
		return adactor.NewMQTTActor(cfg, es, logger)
	}
}
