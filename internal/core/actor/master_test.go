package actor

import (
	"testing"
	"time"

	adactor "github.com/berfenger/salus2mqtt/internal/adapter/actor"
	"github.com/berfenger/salus2mqtt/internal/core/domain"
	"github.com/berfenger/salus2mqtt/internal/metrics"
	"github.com/berfenger/salus2mqtt/internal/mqtt"
	"github.com/berfenger/salus2mqtt/pkg/it600"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/asynkron/protoactor-go/eventstream"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestMasterActor(t *testing.T) {
	server := it600.NewTestServer("001E5E0D32906128",
		it600.FixtureGateway("00:11:22:33:44:55"),
		it600.FixtureSwitch("plug", 1, false),
	)
	defer server.Close()

	as := actor.NewActorSystem()
	context := as.Root
	defer as.Shutdown()

	cfg := testGatewayConfig(t, server)
	cfg.MQTT.HADiscoveryEnable = true
	logCfg := zap.NewDevelopmentConfig()
	logCfg.Level = zap.NewAtomicLevelAt(cfg.LogLevel)
	logger := zap.Must(logCfg.Build())
	m := metrics.New()

	props := actor.PropsFromProducer(func() actor.Actor {
		return NewMasterOfPuppetsActor(cfg, m, func() *adactor.GatewayActor {
			client, err := it600.New(cfg.Gateway.Host, cfg.Gateway.EUID, it600.WithPort(int(cfg.Gateway.Port)), it600.WithLogger(logger))
			if err != nil {
				panic(err)
			}
			return adactor.NewGatewayActor(client, m, cfg.Gateway.TaskTimeout(), logger)
		}, func(es *eventstream.EventStream) *adactor.MQTTActor {
			return adactor.NewTestMQTTActor(&cfg, es, logger)
		}, logger)
	})
	pid, err := context.SpawnNamed(props, domain.ACTOR_ID_MASTER)
	require.NoError(t, err)

	assert.Eventually(t, func() bool {
		res, err := context.RequestFuture(pid, domain.ActorHealthRequest{}, 5*time.Second).Result()
		if err != nil {
			return false
		}
		healthResp, ok := res.(domain.ActorHealthResponse)
		return ok && healthResp.Healthy
	}, 5*time.Second, 100*time.Millisecond, "healthy is true")

	res, err := context.RequestFuture(pid, domain.GetSnapshotRequest{}, 2*time.Second).Result()
	require.NoError(t, err)
	assert.Contains(t, res.(domain.GetSnapshotResponse).Snapshot.Switches, "plug_1")

	// invalid payloads never reach the gateway
	context.Send(pid, adactor.ParsedCommand{Command: &mqtt.ParsedMQTTCommand{Kind: domain.KIND_SWITCH, DeviceId: "plug_1", Payload: "maybe"}})
	context.Send(pid, adactor.ParsedCommand{Command: &mqtt.ParsedMQTTCommand{Kind: domain.KIND_SWITCH, DeviceId: "plug_1", Payload: "ON"}})

	assert.Eventually(t, func() bool {
		return len(server.Writes()) == 1
	}, 3*time.Second, 50*time.Millisecond)
	assert.Equal(t, map[string]any{"SetOnOff": float64(1)}, server.Writes()[0]["sOnOffS"])

	context.Stop(pid)
}
