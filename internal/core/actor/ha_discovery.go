package actor

import (
	"context"
	"fmt"
	"time"

	"github.com/berfenger/salus2mqtt/internal/config"
	"github.com/berfenger/salus2mqtt/internal/core/domain"
	"github.com/berfenger/salus2mqtt/internal/core/events"
	"github.com/berfenger/salus2mqtt/internal/util/actorutil"
	"github.com/berfenger/salus2mqtt/pkg/it600"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/asynkron/protoactor-go/scheduler"
	"github.com/reugn/go-quartz/quartz"
	"go.uber.org/zap"
)

const haDiscoveryRetryInterval = 5 * time.Second

// HADiscoveryActor publishes the Home Assistant discovery documents once
// the gateway and the broker are reachable, and again on every cron tick.
type HADiscoveryActor struct {
	config       *config.Config
	behavior     actor.Behavior
	stash        *actorutil.Stash
	scheduler    *scheduler.TimerScheduler
	cron         quartz.Scheduler
	gatewayActor *actor.PID
	mqttActor    *actor.PID
	healthy      map[string]bool
	healthyRecv  int

	logger *zap.Logger
}

type haDiscoveryRetry struct {
}

type haDiscoveryRefresh struct {
}

// refreshJob is the quartz job that triggers a discovery refresh.
type refreshJob struct {
	system *actor.ActorSystem
	pid    *actor.PID
}

func (j *refreshJob) Execute(_ context.Context) error {
	j.system.Root.Send(j.pid, haDiscoveryRefresh{})
	return nil
}

func (j *refreshJob) Description() string {
	return "ha-discovery-refresh"
}

func NewHADiscoveryActor(config *config.Config, gatewayActor *actor.PID, mqttActor *actor.PID, logger *zap.Logger) *HADiscoveryActor {
	act := &HADiscoveryActor{
		config:       config,
		gatewayActor: gatewayActor,
		mqttActor:    mqttActor,
		behavior:     actor.NewBehavior(),
		stash:        &actorutil.Stash{},
		logger:       actorutil.ActorLogger(domain.ACTOR_ID_HA_DISCOVERY, logger),
	}
	act.behavior.Become(act.StartingReceive)
	return act
}

func (state *HADiscoveryActor) Receive(context actor.Context) {
	state.behavior.Receive(context)
}

func (state *HADiscoveryActor) StartingReceive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case *actor.Started:
		state.logger.Debug("hadiscovery@starting started")
		state.scheduler = scheduler.NewTimerScheduler(ctx)
		state.checkHealth(ctx)
	case haDiscoveryRetry:
		state.checkHealth(ctx)
	case *actor.Restarting:
		state.stopCron()
	case *actor.Stopping:
		state.stopCron()
	default:
		state.logger.Debug("hadiscovery@starting: stash", zap.String("type", fmt.Sprintf("%T", msg)))
		state.stash.Stash(ctx, msg)
	}
}

func (state *HADiscoveryActor) checkHealth(ctx actor.Context) {
	// Check gateway and MQTT actor healthy
	state.healthyRecv = 0
	state.healthy = map[string]bool{}
	for id, pid := range map[string]*actor.PID{domain.ACTOR_ID_GATEWAY: state.gatewayActor, domain.ACTOR_ID_MQTT: state.mqttActor} {
		actorutil.PipeToSelfWithRecover(ctx, ctx.RequestFuture(pid, domain.ActorHealthRequest{}, 2*time.Second), func(err error) any {
			return domain.ActorHealthResponse{
				Id:      id,
				Healthy: false,
			}
		})
	}
	state.behavior.Become(state.WaitingHealthyReceive)
}

func (state *HADiscoveryActor) retry(ctx actor.Context, reason string) {
	state.logger.Info("hadiscovery: discovery postponed", zap.String("reason", reason), zap.Duration("retry", haDiscoveryRetryInterval))
	state.scheduler.RequestOnce(haDiscoveryRetryInterval, ctx.Self(), haDiscoveryRetry{})
	state.behavior.Become(state.StartingReceive)
}

func (state *HADiscoveryActor) WaitingHealthyReceive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case domain.ActorHealthResponse:
		state.logger.Debug("hadiscovery@healthcheck ActorHealthResponse", zap.String("sender", msg.Id), zap.Bool("healthy", msg.Healthy))
		state.healthyRecv++
		state.healthy[msg.Id] = msg.Healthy
		if state.healthyRecv < 2 {
			return
		}
		if !state.healthy[domain.ACTOR_ID_GATEWAY] || !state.healthy[domain.ACTOR_ID_MQTT] {
			state.retry(ctx, "gateway or mqtt actor not healthy")
			return
		}
		actorutil.PipeToSelfWithRecover(ctx, ctx.RequestFuture(state.gatewayActor, domain.PollGatewayRequest{},
			state.config.Gateway.TaskTimeout()+2*time.Second), func(err error) any {
			return domain.PollGatewayResponse{
				ActorResponseMixIn: domain.ErrorResponse(err),
			}
		})
		state.behavior.Become(state.WaitingSnapshotReceive)
	case *actor.Stopping:
		state.stopCron()
	default:
		state.logger.Debug("hadiscovery@healthcheck: stash", zap.String("type", fmt.Sprintf("%T", msg)))
		state.stash.Stash(ctx, msg)
	}
}

func (state *HADiscoveryActor) WaitingSnapshotReceive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case domain.PollGatewayResponse:
		if msg.HasResponseError() && isEmpty(msg.Snapshot) {
			state.logger.Warn("hadiscovery@snapshot poll failed", zap.Error(msg.GetResponseError()))
			state.retry(ctx, "no devices")
			return
		}
		state.logger.Debug("hadiscovery@snapshot PollGatewayResponse")
		state.publish(ctx, msg.Snapshot)
		state.startCron(ctx)
		state.behavior.Become(state.ReadyReceive)
		state.stash.UnstashAll(ctx)
	case *actor.Stopping:
		state.stopCron()
	default:
		state.logger.Debug("hadiscovery@snapshot: stash", zap.String("type", fmt.Sprintf("%T", msg)))
		state.stash.Stash(ctx, msg)
	}
}

func (state *HADiscoveryActor) ReadyReceive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case haDiscoveryRefresh:
		state.logger.Debug("hadiscovery@ready refresh")
		actorutil.PipeToSelfWithRecover(ctx, ctx.RequestFuture(state.gatewayActor, domain.GetSnapshotRequest{}, 2*time.Second), func(err error) any {
			return domain.GetSnapshotResponse{
				ActorResponseMixIn: domain.ErrorResponse(err),
			}
		})
	case domain.GetSnapshotResponse:
		if msg.HasResponseError() {
			state.logger.Error("hadiscovery@ready GetSnapshotResponse error", zap.Error(msg.GetResponseError()))
			return
		}
		state.publish(ctx, msg.Snapshot)
	case *actor.Restarting:
		state.stopCron()
	case *actor.Stopping:
		state.stopCron()
	default:
		state.logger.Debug("hadiscovery@ready: default recv", zap.String("type", fmt.Sprintf("%T", msg)))
	}
}

func (state *HADiscoveryActor) publish(ctx actor.Context, snapshot it600.Snapshot) {
	req := events.DiscoveryFromSnapshot(state.config.MQTT.BaseTopic, snapshot)
	state.logger.Info("hadiscovery: publish discovery", zap.Int("sensors", len(req.Sensors)), zap.Int("switches", len(req.Switches)),
		zap.Int("climates", len(req.Climates)), zap.Int("covers", len(req.Covers)))
	ctx.Send(state.mqttActor, req)
}

func (state *HADiscoveryActor) startCron(ctx actor.Context) {
	expr := state.config.MQTT.HADiscoveryRefreshCron
	if expr == "" || state.cron != nil {
		return
	}
	trigger, err := quartz.NewCronTrigger(expr)
	if err != nil {
		state.logger.Error("hadiscovery: invalid refresh cron expression", zap.String("cron", expr), zap.Error(err))
		return
	}
	cron := quartz.NewStdScheduler()
	cron.Start(context.Background())
	job := quartz.NewJobDetail(&refreshJob{system: ctx.ActorSystem(), pid: ctx.Self()}, quartz.NewJobKey("ha-discovery-refresh"))
	if err := cron.ScheduleJob(job, trigger); err != nil {
		state.logger.Error("hadiscovery: could not schedule refresh", zap.Error(err))
		cron.Stop()
		return
	}
	state.cron = cron
}

func (state *HADiscoveryActor) stopCron() {
	if state.cron != nil {
		state.cron.Stop()
		state.cron = nil
	}
}

func isEmpty(s it600.Snapshot) bool {
	return s.Gateway == nil && len(s.Climate) == 0 && len(s.BinarySensors) == 0 &&
		len(s.Switches) == 0 && len(s.Covers) == 0 && len(s.Sensors) == 0
}
