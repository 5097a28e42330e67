package actor

import (
	"fmt"
	"time"

	"github.com/berfenger/salus2mqtt/internal/config"
	"github.com/berfenger/salus2mqtt/internal/core/domain"
	"github.com/berfenger/salus2mqtt/internal/core/events"
	"github.com/berfenger/salus2mqtt/internal/metrics"
	. "github.com/berfenger/salus2mqtt/internal/util/actorutil"
	"github.com/berfenger/salus2mqtt/pkg/it600"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/asynkron/protoactor-go/eventstream"
	"github.com/asynkron/protoactor-go/scheduler"
	"go.uber.org/zap"
)

// MonitorActor keeps the published state in sync with the gateway. It polls
// on a fixed cadence and forwards commands, polling again after each one.
type MonitorActor struct {
	ActorWithStates
	scheduler    *scheduler.TimerScheduler
	stash        *Stash
	gatewayActor *actor.PID
	config       *config.Config
	eventStream  *eventstream.EventStream
	metrics      *metrics.Metrics
	reachable    *bool

	logger *zap.Logger
}

type monitorTick struct {
}

// monitorPoll is an out of band poll that does not reschedule the tick chain.
type monitorPoll struct {
}

func NewMonitorActor(config *config.Config, gatewayActor *actor.PID, eventStream *eventstream.EventStream, m *metrics.Metrics, logger *zap.Logger) *MonitorActor {
	act := &MonitorActor{
		config:       config,
		gatewayActor: gatewayActor,
		stash:        &Stash{},
		eventStream:  eventStream,
		metrics:      m,
		logger:       ActorLogger(domain.ACTOR_ID_MONITOR, logger),
		ActorWithStates: ActorWithStates{
			Behavior: actor.NewBehavior(),
		},
	}
	act.Become(MonitorIdleState{actor: act})
	return act
}

func (state *MonitorActor) Receive(context actor.Context) {
	state.Behavior.Receive(context)
}

func (state *MonitorActor) requestTimeout() time.Duration {
	return state.config.Gateway.TaskTimeout() + 2*time.Second
}

func (state *MonitorActor) health(ctx actor.Context) {
	ctx.Respond(domain.ActorHealthResponse{
		Id:      domain.ACTOR_ID_MONITOR,
		Healthy: true,
		State:   state.StateName(),
	})
}

func (state *MonitorActor) startPoll(ctx actor.Context) {
	PipeToSelfWithRecover(ctx, ctx.RequestFuture(state.gatewayActor, domain.PollGatewayRequest{}, state.requestTimeout()), func(err error) any {
		return domain.PollGatewayResponse{
			ActorResponseMixIn: domain.ErrorResponse(err),
		}
	})
	state.BecomeStacked(MonitorPollingState{actor: state})
}

func (state *MonitorActor) onPollResult(msg domain.PollGatewayResponse) {
	err := msg.GetResponseError()
	state.metrics.RecordPoll(err)

	// a partial poll reached the gateway; only the failed buckets kept their devices
	reachable := err == nil || it600.IsPartialPollError(err) || !it600.IsConnectionError(err)
	if err != nil {
		state.logger.Warn("monitor@polling poll failed", zap.Error(err))
	}
	if state.reachable == nil || *state.reachable != reachable {
		state.reachable = &reachable
		state.eventStream.Publish(domain.GatewayStateEvent(reachable))
	}

	if !reachable {
		PublishAll(state.eventStream, events.UnavailableEvents(msg.Snapshot))
		return
	}
	state.metrics.RecordSnapshot(msg.Snapshot)
	PublishAll(state.eventStream, events.SnapshotToUpdateEvents(msg.Snapshot))
}

// Idle state

type MonitorIdleState struct {
	ActorState
	actor *MonitorActor
}

func (state MonitorIdleState) Name() string {
	return "idle"
}

func (state MonitorIdleState) Receive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case *actor.Started:
		state.actor.logger.Debug("monitor@idle started")
		state.actor.scheduler = scheduler.NewTimerScheduler(ctx)
		ctx.Send(ctx.Self(), monitorTick{})
	case *actor.Restarting:
	case domain.ActorHealthRequest:
		state.actor.health(ctx)
	case monitorTick:
		state.actor.logger.Debug("monitor@idle tick")
		state.actor.scheduler.RequestOnce(state.actor.config.MonitorConfig.PollInterval(), ctx.Self(), monitorTick{})
		state.actor.startPoll(ctx)
	case monitorPoll:
		state.actor.logger.Debug("monitor@idle poll")
		state.actor.startPoll(ctx)
	case domain.GatewayCommandRequest:
		state.actor.logger.Debug("monitor@idle GatewayCommandRequest", zap.String("command", msg.Command.CommandName()))
		replyTo := ForRequest(msg).ReplyTo(ctx)
		command := msg.Command
		PipeToSelfWithRecover(ctx, ctx.RequestFuture(state.actor.gatewayActor, domain.GatewayCommandRequest{Command: command},
			state.actor.requestTimeout()), func(err error) any {
			return domain.GatewayCommandResponse{
				ActorResponseMixIn: domain.ErrorResponse(err),
				Command:            command,
			}
		})
		state.actor.BecomeStacked(MonitorCommandState{actor: state.actor, replyTo: replyTo})
	default:
		state.actor.logger.Debug("monitor@idle unhandled", zap.String("type", fmt.Sprintf("%T", msg)))
	}
}

// Polling state

type MonitorPollingState struct {
	ActorState
	actor *MonitorActor
}

func (state MonitorPollingState) Name() string {
	return "polling"
}

func (state MonitorPollingState) Receive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case domain.ActorHealthRequest:
		state.actor.health(ctx)
	case domain.PollGatewayResponse:
		state.actor.logger.Debug("monitor@polling PollGatewayResponse")
		state.actor.onPollResult(msg)
		state.actor.UnbecomeStacked()
		state.actor.stash.UnstashAll(ctx)
	case monitorPoll:
		// a poll is already running
		state.actor.logger.Debug("monitor@polling drop poll")
	default:
		state.actor.logger.Debug("monitor@polling stash", zap.String("type", fmt.Sprintf("%T", msg)))
		state.actor.stash.Stash(ctx, msg)
	}
}

// Command state

type MonitorCommandState struct {
	ActorState
	actor   *MonitorActor
	replyTo *actor.PID
}

func (state MonitorCommandState) Name() string {
	return "command"
}

func (state MonitorCommandState) Receive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case domain.ActorHealthRequest:
		state.actor.health(ctx)
	case domain.GatewayCommandResponse:
		if msg.HasResponseError() {
			state.actor.logger.Error("monitor@command command failed", zap.String("command", msg.Command.CommandName()),
				zap.String("device", msg.Command.DeviceId()), zap.Error(msg.GetResponseError()))
		} else {
			state.actor.logger.Debug("monitor@command GatewayCommandResponse")
		}
		if state.replyTo != nil {
			ctx.Send(state.replyTo, msg)
		}
		if state.actor.config.MonitorConfig.PollAfterCommand {
			// a burst of commands is refreshed once, after the last one
			pending := state.actor.stash.Has(func(m any) bool {
				_, isCommand := m.(domain.GatewayCommandRequest)
				return isCommand
			})
			if !pending {
				ctx.Send(ctx.Self(), monitorPoll{})
			}
		}
		state.actor.UnbecomeStacked()
		state.actor.stash.UnstashAll(ctx)
	default:
		state.actor.logger.Debug("monitor@command stash", zap.String("type", fmt.Sprintf("%T", msg)))
		state.actor.stash.Stash(ctx, msg)
	}
}
