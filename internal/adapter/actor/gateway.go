package actor

import (
	"context"
	"fmt"
	"time"

	"github.com/berfenger/salus2mqtt/internal/core/domain"
	"github.com/berfenger/salus2mqtt/internal/core/port"
	"github.com/berfenger/salus2mqtt/internal/core/service"
	"github.com/berfenger/salus2mqtt/internal/metrics"
	"github.com/berfenger/salus2mqtt/internal/util/actorutil"
	"github.com/berfenger/salus2mqtt/pkg/it600"

	"github.com/asynkron/protoactor-go/actor"
	"go.uber.org/zap"
)

// GatewayActor owns the gateway client and serializes every exchange with
// the gateway: one poll or command runs at a time, the rest is stashed.
type GatewayActor struct {
	behavior    actor.Behavior
	stash       *actorutil.Stash
	client      port.GatewayClient
	metrics     *metrics.Metrics
	taskTimeout time.Duration
	logger      *zap.Logger
}

type gatewayConnected struct {
	mac string
	err error
}

type backgroundTaskResult struct {
	message any
	replyTo *actor.PID
}

func NewGatewayActor(client port.GatewayClient, m *metrics.Metrics, taskTimeout time.Duration, logger *zap.Logger) *GatewayActor {
	act := &GatewayActor{
		client:      client,
		metrics:     m,
		taskTimeout: taskTimeout,
		behavior:    actor.NewBehavior(),
		stash:       &actorutil.Stash{},
		logger:      actorutil.ActorLogger(domain.ACTOR_ID_GATEWAY, logger),
	}
	act.behavior.Become(act.StartingReceive)
	return act
}

func (state *GatewayActor) Receive(context actor.Context) {
	state.behavior.Receive(context)
}

func (state *GatewayActor) StartingReceive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case *actor.Started:
		state.logger.Debug("gateway@starting started")
		actorutil.NewBackgroundTaskNoError(ctx, state.connect).
			WithTimeout(state.taskTimeout + time.Second).
			Recover(func(err error) gatewayConnected {
				return gatewayConnected{err: err}
			}).PipeTo(ctx.Self())
	case gatewayConnected:
		if msg.err != nil {
			if it600.IsAuthenticationError(msg.err) {
				state.logger.Error("gateway@starting authentication failed", zap.Error(msg.err))
			} else {
				state.logger.Error("gateway@starting could not connect", zap.Error(msg.err))
			}
			panic(msg.err)
		}
		state.logger.Info("gateway@starting connected", zap.String("mac", msg.mac))
		state.behavior.Become(state.DefaultReceive)
		state.stash.UnstashAll(ctx)
	case domain.ActorHealthRequest:
		ctx.Respond(domain.ActorHealthResponse{
			Id:      domain.ACTOR_ID_GATEWAY,
			Healthy: false,
			State:   "connecting",
		})
	default:
		state.logger.Debug("gateway@starting stash", zap.String("type", fmt.Sprintf("%T", msg)))
		state.stash.Stash(ctx, msg)
	}
}

func (state *GatewayActor) DefaultReceive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case domain.ActorHealthRequest:
		state.logger.Debug("gateway@default ActorHealthRequest")
		ctx.Respond(domain.ActorHealthResponse{
			Id:      domain.ACTOR_ID_GATEWAY,
			Healthy: true,
			State:   "idle",
		})
	case domain.GetSnapshotRequest:
		state.logger.Debug("gateway@default GetSnapshotRequest")
		actorutil.ForRequest(msg).Respond(ctx, domain.GetSnapshotResponse{
			Snapshot: state.client.Snapshot(),
		})
	case domain.PollGatewayRequest:
		state.logger.Debug("gateway@default PollGatewayRequest")
		sender := actorutil.ForRequest(msg).ReplyTo(ctx)
		actorutil.MapBackgroundTask(actorutil.NewBackgroundTaskNoError(ctx, state.poll),
			mapTaskResult[domain.PollGatewayResponse](sender)).Recover(func(err error) backgroundTaskResult {
			return backgroundTaskResult{
				message: domain.PollGatewayResponse{
					ActorResponseMixIn: domain.ErrorResponse(err),
					Snapshot:           state.client.Snapshot(),
				},
				replyTo: sender,
			}
		}).WithTimeout(state.taskTimeout + time.Second).PipeTo(ctx.Self())
		state.behavior.BecomeStacked(state.WaitingGateway)
	case domain.GatewayCommandRequest:
		state.logger.Debug("gateway@default GatewayCommandRequest", zap.String("command", msg.Command.CommandName()),
			zap.String("device", msg.Command.DeviceId()))
		sender := actorutil.ForRequest(msg).ReplyTo(ctx)
		command := msg.Command
		actorutil.MapBackgroundTask(actorutil.NewBackgroundTaskNoError(ctx, func() *domain.GatewayCommandResponse {
			return state.execute(command)
		}), mapTaskResult[domain.GatewayCommandResponse](sender)).Recover(func(err error) backgroundTaskResult {
			state.metrics.RecordCommand(command.CommandName(), err)
			return backgroundTaskResult{
				message: domain.GatewayCommandResponse{
					ActorResponseMixIn: domain.ErrorResponse(err),
					Command:            command,
				},
				replyTo: sender,
			}
		}).WithTimeout(state.taskTimeout + time.Second).PipeTo(ctx.Self())
		state.behavior.BecomeStacked(state.WaitingGateway)
	default:
		state.logger.Debug("gateway@default default recv", zap.String("type", fmt.Sprintf("%T", msg)))
	}
}

func (state *GatewayActor) WaitingGateway(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case backgroundTaskResult:
		state.logger.Debug("gateway@waiting backgroundTaskResult", zap.String("type", fmt.Sprintf("%T", msg.message)))
		if msg.replyTo != nil {
			ctx.Send(msg.replyTo, msg.message)
		}
		state.behavior.UnbecomeStacked()
		state.stash.UnstashAll(ctx)
	case domain.ActorHealthRequest:
		ctx.Respond(domain.ActorHealthResponse{
			Id:      domain.ACTOR_ID_GATEWAY,
			Healthy: true,
			State:   "busy",
		})
	case domain.GetSnapshotRequest:
		actorutil.ForRequest(msg).Respond(ctx, domain.GetSnapshotResponse{
			Snapshot: state.client.Snapshot(),
		})
	default:
		state.logger.Debug("gateway@waiting stash", zap.String("type", fmt.Sprintf("%T", msg)))
		state.stash.Stash(ctx, msg)
	}
}

func (state *GatewayActor) connect() *gatewayConnected {
	cctx, cancel := context.WithTimeout(context.Background(), state.taskTimeout)
	defer cancel()
	mac, err := state.client.Connect(cctx)
	return &gatewayConnected{mac: mac, err: err}
}

func (state *GatewayActor) poll() *domain.PollGatewayResponse {
	cctx, cancel := context.WithTimeout(context.Background(), state.taskTimeout)
	defer cancel()
	err := state.client.PollStatus(cctx)
	if err != nil {
		state.logger.Warn("gateway poll failed", zap.Error(err))
	}
	return &domain.PollGatewayResponse{
		ActorResponseMixIn: domain.ErrorResponse(err),
		Snapshot:           state.client.Snapshot(),
	}
}

func (state *GatewayActor) execute(command domain.GatewayCommand) *domain.GatewayCommandResponse {
	cctx, cancel := context.WithTimeout(context.Background(), state.taskTimeout)
	defer cancel()
	err := service.ExecuteCommand(cctx, state.client, command)
	state.metrics.RecordCommand(command.CommandName(), err)
	if err != nil {
		state.logger.Warn("gateway command failed", zap.String("command", command.CommandName()),
			zap.String("device", command.DeviceId()), zap.Error(err))
	}
	return &domain.GatewayCommandResponse{
		ActorResponseMixIn: domain.ErrorResponse(err),
		Command:            command,
	}
}

func mapTaskResult[T any](sender *actor.PID) func(t *T) *backgroundTaskResult {
	return func(t *T) *backgroundTaskResult {
		return &backgroundTaskResult{
			message: *t,
			replyTo: sender,
		}
	}
}
