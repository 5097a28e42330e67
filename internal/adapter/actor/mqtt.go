package actor

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/berfenger/salus2mqtt/internal/config"
	"github.com/berfenger/salus2mqtt/internal/core/domain"
	"github.com/berfenger/salus2mqtt/internal/mqtt"
	"github.com/berfenger/salus2mqtt/internal/util/actorutil"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/asynkron/protoactor-go/eventstream"
	pahomqtt "github.com/eclipse/paho.mqtt.golang"
	"go.uber.org/zap"
)

type MQTTActor struct {
	config         *config.Config
	behavior       actor.Behavior
	stash          *actorutil.Stash
	client         *mqtt.MQTTClient
	eventStream    *eventstream.EventStream
	eventStreamSub *eventstream.Subscription
	logger         *zap.Logger

	// test actor only
	published map[string]string
	discovery []domain.PublishDiscoveryRequest
}

type MQTTConnected struct {
}

type MQTTSubscribed struct {
}

type MQTTConnectionLost struct {
	Error error
}

type publishResult struct {
	ReplyTo *actor.PID
	Error   error
}

// ParsedCommand is a command topic received from the broker, routed to the parent.
type ParsedCommand struct {
	Command *mqtt.ParsedMQTTCommand
}

type onEventStreamMessage struct {
	message any
}

type rawMessage struct {
	topic   string
	message string
	retain  bool
}

func NewMQTTActor(config *config.Config, eventStream *eventstream.EventStream, logger *zap.Logger) *MQTTActor {
	act := &MQTTActor{
		config:      config,
		eventStream: eventStream,
		behavior:    actor.NewBehavior(),
		stash:       &actorutil.Stash{},
		logger:      actorutil.ActorLogger(domain.ACTOR_ID_MQTT, logger),
	}
	act.behavior.Become(act.StartingReceive)
	return act
}

func (state *MQTTActor) Receive(context actor.Context) {
	state.behavior.Receive(context)
}

func (state *MQTTActor) StartingReceive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case *actor.Started:
		state.logger.Debug("mqtt@starting started")

		// create MQTT client
		state.client = mqtt.CreateMQTTClient(state.config, mqtt.OptsFromConfig(state.config), func(_ pahomqtt.Client) {
		}, func(_ pahomqtt.Client, err error) {
			ctx.Send(ctx.Self(), MQTTConnectionLost{Error: err})
		})

		// connect to MQTT server
		state.client.Connect(func(err error) {
			if err != nil {
				ctx.Send(ctx.Self(), MQTTConnectionLost{Error: err})
			} else {
				ctx.Send(ctx.Self(), MQTTConnected{})
			}
		}, 10*time.Second)

	case MQTTConnected:
		state.logger.Debug("mqtt@starting connected")

		state.client.Publish(state.client.BridgeStateTopic(), mqtt.MQTT_PAYLOAD_ONLINE, 0, true, func(error) {}, 500*time.Millisecond)

		state.subscribeEventStream(ctx)

		// subscribe to MQTT command topics
		state.client.SubscribeToCommandTopic(func(c pahomqtt.Client, m pahomqtt.Message) {
			cmd, err := state.client.ParseMQTTCommand(m)
			if err == nil && cmd != nil {
				ctx.Send(ctx.Self(), ParsedCommand{Command: cmd})
			}
		}, func(err error) {
			if err != nil {
				ctx.Send(ctx.Self(), MQTTConnectionLost{Error: err})
			} else {
				ctx.Send(ctx.Self(), MQTTSubscribed{})
			}
		}, 1*time.Second)
	case MQTTSubscribed:
		// init completed, transition to default state
		state.logger.Debug("mqtt@starting subscribed")
		state.behavior.Become(state.DefaultReceive)
		state.stash.UnstashAll(ctx)
	case MQTTConnectionLost:
		// if connection lost, stop actor and let supervisor decide
		state.logger.Error("mqtt@starting connection lost", zap.Error(msg.Error))
		panic(msg.Error)
	case *actor.Restarting:
		state.stop()
	case *actor.Stopping:
		state.stop()
	default:
		state.logger.Debug("mqtt@starting stash", zap.String("type", fmt.Sprintf("%T", msg)))
		state.stash.Stash(ctx, msg)
	}
}

func (state *MQTTActor) DefaultReceive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case *actor.Restarting:
		state.stop()
	case *actor.Stopping:
		state.stop()
	case domain.ActorHealthRequest:
		state.logger.Debug("mqtt@default ActorHealthRequest")
		ctx.Respond(domain.ActorHealthResponse{
			Id:      domain.ACTOR_ID_MQTT,
			Healthy: state.client.IsConnected(),
			State:   "idle",
		})
	case ParsedCommand:
		// route command to parent
		state.logger.Debug("mqtt@default parsedCommand", zap.Any("command", msg.Command))
		ctx.Send(ctx.Parent(), msg)
	case onEventStreamMessage:
		if event, ok := msg.message.(domain.UpdateEvent); ok {
			state.publishUpdate(ctx, event, false, nil)
		}
	case domain.PublishMessageRequest:
		state.logger.Debug("mqtt@default PublishMessageRequest", zap.String("topic", msg.Topic))
		state.publishMessage(ctx, msg.Topic, msg.Payload, msg.Retain, actorutil.ForRequest(msg).ReplyTo(ctx))
	case domain.PublishUpdateRequest:
		state.logger.Debug("mqtt@default PublishUpdateRequest", zap.String("type", fmt.Sprintf("%T", msg.Event)))
		var replyTo *actor.PID
		if msg.ReplyTo() != nil {
			replyTo = (*actor.PID)(msg.ReplyTo())
		}
		state.publishUpdate(ctx, msg.Event, msg.Retain, replyTo)
	case domain.PublishDiscoveryRequest:
		state.logger.Debug("mqtt@default PublishDiscoveryRequest")
		err := state.PublishHomeAssistantDiscovery(msg)
		if err != nil {
			state.logger.Error("mqtt@default PublishDiscoveryRequest error", zap.Error(err))
		}
		if msg.ReplyTo() != nil {
			ctx.Send((*actor.PID)(msg.ReplyTo()), domain.PublishDiscoveryResponse{
				ActorResponseMixIn: domain.ErrorResponse(err),
			})
		}
	case MQTTConnectionLost:
		// if connection lost, stop actor and let supervisor decide
		state.logger.Error("mqtt@default connection lost", zap.Error(msg.Error))
		panic(msg.Error)
	default:
		state.logger.Debug("mqtt@default unhandled", zap.String("type", fmt.Sprintf("%T", msg)))
	}
}

func (state *MQTTActor) subscribeEventStream(ctx actor.Context) {
	if state.eventStream == nil || state.eventStreamSub != nil {
		return
	}
	self := ctx.Self()
	system := ctx.ActorSystem()
	state.eventStreamSub = state.eventStream.Subscribe(func(value any) {
		system.Root.Send(self, onEventStreamMessage{message: value})
	})
}

func (state *MQTTActor) event2MQTTMessage(event domain.UpdateEvent) *rawMessage {
	topic := state.client.StateTopic(event.EntityKind(), event.EntityId(), event.EntityAttribute())
	switch msg := event.(type) {
	case domain.FloatUpdateEvent:
		return &rawMessage{
			topic:   topic,
			message: fmt.Sprintf(fmt.Sprintf("%%.%df", msg.Decimals), msg.Value),
		}
	case domain.BinaryUpdateEvent:
		return &rawMessage{
			topic:   topic,
			message: bool2MQTTPayload(msg.Value),
		}
	case domain.TextUpdateEvent:
		return &rawMessage{
			topic:   topic,
			message: msg.Value,
		}
	case domain.AvailabilityUpdateEvent:
		return &rawMessage{
			topic:   topic,
			message: availability2MQTTPayload(msg.Value),
			retain:  true,
		}
	case domain.BridgeStateUpdateEvent:
		return &rawMessage{
			topic:   state.client.BridgeStateTopic(),
			message: availability2MQTTPayload(msg.Value),
			retain:  true,
		}
	default:
		return nil
	}
}

func (state *MQTTActor) publishUpdate(ctx actor.Context, event domain.UpdateEvent, retain bool, replyTo *actor.PID) {
	msg := state.event2MQTTMessage(event)
	if msg == nil {
		if replyTo != nil {
			ctx.Send(replyTo, domain.PublishUpdateResponse{
				ActorResponseMixIn: domain.ErrorResponse(fmt.Errorf("unsupported update event %T", event)),
			})
		}
		return
	}
	state.logger.Sugar().Debugf("mqtt@publish: update publish %s => %s", msg.topic, msg.message)
	state.client.Publish(msg.topic, msg.message, 1, msg.retain || retain, func(err error) {
		ctx.Send(ctx.Self(), publishResult{ReplyTo: replyTo, Error: err})
	}, 5*time.Second)
	state.behavior.BecomeStacked(state.EventPublishResultReceive)
}

func (state *MQTTActor) publishMessage(ctx actor.Context, topic, payload string, retain bool, replyTo *actor.PID) {
	state.logger.Sugar().Debugf("mqtt@publish: message publish %s => %s", topic, payload)
	state.client.Publish(topic, payload, 1, retain, func(err error) {
		ctx.Send(ctx.Self(), publishResult{ReplyTo: replyTo, Error: err})
	}, 5*time.Second)
	state.behavior.BecomeStacked(state.MessagePublishResultReceive)
}

func (state *MQTTActor) MessagePublishResultReceive(ctx actor.Context) {
	state.publishResultReceive(ctx, func(err error) any {
		return domain.PublishMessageResponse{ActorResponseMixIn: domain.ErrorResponse(err)}
	})
}

func (state *MQTTActor) EventPublishResultReceive(ctx actor.Context) {
	state.publishResultReceive(ctx, func(err error) any {
		return domain.PublishUpdateResponse{ActorResponseMixIn: domain.ErrorResponse(err)}
	})
}

func (state *MQTTActor) publishResultReceive(ctx actor.Context, response func(error) any) {
	switch msg := ctx.Message().(type) {
	case publishResult:
		// log error and return to default state
		if msg.Error != nil {
			state.logger.Error("mqtt@publishing could not publish a message", zap.Error(msg.Error))
		}
		if msg.ReplyTo != nil {
			ctx.Send(msg.ReplyTo, response(msg.Error))
		}
		state.behavior.UnbecomeStacked()
		state.stash.UnstashOldest(ctx)
	case MQTTConnectionLost:
		state.logger.Error("mqtt@publishing connection lost", zap.Error(msg.Error))
		panic(msg.Error)
	case *actor.Stopping:
		state.stop()
	default:
		state.logger.Debug("mqtt@publishing stash", zap.String("type", fmt.Sprintf("%T", msg)))
		state.stash.Stash(ctx, msg)
	}
}

func (state *MQTTActor) PublishHomeAssistantDiscovery(req domain.PublishDiscoveryRequest) error {
	publish := func(topic string, msg mqtt.HADiscoveryConfig) error {
		payload, err := json.Marshal(msg)
		if err != nil {
			return err
		}
		state.client.Publish(topic, payload, 0, true, func(error) {}, 1*time.Second)
		return nil
	}
	for i := range req.Sensors {
		if err := publish(state.client.HADiscoverySensorTopic(req.Sensors[i]),
			mqtt.GenericSensorToHADiscoveryMessage(state.client, req.Sensors[i])); err != nil {
			return err
		}
	}
	for i := range req.Switches {
		if err := publish(state.client.HADiscoverySwitchTopic(req.Switches[i]),
			mqtt.GenericSwitchToHADiscoveryMessage(state.client, req.Switches[i])); err != nil {
			return err
		}
	}
	for i := range req.Climates {
		if err := publish(state.client.HADiscoveryClimateTopic(req.Climates[i]),
			mqtt.GenericClimateToHADiscoveryMessage(state.client, req.Climates[i])); err != nil {
			return err
		}
	}
	for i := range req.Covers {
		if err := publish(state.client.HADiscoveryCoverTopic(req.Covers[i]),
			mqtt.GenericCoverToHADiscoveryMessage(state.client, req.Covers[i])); err != nil {
			return err
		}
	}
	return nil
}

func (state *MQTTActor) stop() {
	state.logger.Debug("mqtt: disconnect")
	if state.eventStreamSub != nil {
		state.eventStream.Unsubscribe(state.eventStreamSub)
		state.eventStreamSub = nil
	}
	if state.client != nil {
		state.client.Publish(state.client.BridgeStateTopic(), mqtt.MQTT_PAYLOAD_OFFLINE, 0, true, func(error) {}, 500*time.Millisecond)
		state.client.Disconnect(500 * time.Millisecond)
	}
}

func bool2MQTTPayload(value bool) string {
	if value {
		return mqtt.MQTT_PAYLOAD_ON
	}
	return mqtt.MQTT_PAYLOAD_OFF
}

func availability2MQTTPayload(value bool) string {
	if value {
		return mqtt.MQTT_PAYLOAD_ONLINE
	}
	return mqtt.MQTT_PAYLOAD_OFFLINE
}

// NewTestMQTTActor builds an actor that never connects to a broker. It
// records the messages it would publish.
func NewTestMQTTActor(config *config.Config, eventStream *eventstream.EventStream, logger *zap.Logger) *MQTTActor {
	act := &MQTTActor{
		config:      config,
		eventStream: eventStream,
		behavior:    actor.NewBehavior(),
		stash:       &actorutil.Stash{},
		logger:      actorutil.ActorLogger(domain.ACTOR_ID_MQTT, logger),
	}
	act.behavior.Become(act.DummyReceive)
	return act
}

// GetPublishedRequest asks a test actor for the messages it recorded.
type GetPublishedRequest struct{}

type GetPublishedResponse struct {
	Messages  map[string]string
	Discovery []domain.PublishDiscoveryRequest
}

func (state *MQTTActor) DummyReceive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case *actor.Started:
		state.client = mqtt.CreateMQTTClient(state.config, mqtt.OptsFromConfig(state.config), nil, nil)
		state.subscribeEventStream(ctx)
		state.published = map[string]string{}
	case *actor.Stopping:
		if state.eventStreamSub != nil {
			state.eventStream.Unsubscribe(state.eventStreamSub)
			state.eventStreamSub = nil
		}
	case domain.ActorHealthRequest:
		ctx.Respond(domain.ActorHealthResponse{
			Id:      domain.ACTOR_ID_MQTT,
			Healthy: true,
			State:   "idle",
		})
	case ParsedCommand:
		ctx.Send(ctx.Parent(), msg)
	case onEventStreamMessage:
		if event, ok := msg.message.(domain.UpdateEvent); ok {
			state.record(state.event2MQTTMessage(event))
		}
	case domain.PublishUpdateRequest:
		state.record(state.event2MQTTMessage(msg.Event))
		if msg.ReplyTo() != nil {
			ctx.Send((*actor.PID)(msg.ReplyTo()), domain.PublishUpdateResponse{})
		}
	case domain.PublishMessageRequest:
		state.published[msg.Topic] = msg.Payload
		if msg.ReplyTo() != nil {
			ctx.Send((*actor.PID)(msg.ReplyTo()), domain.PublishMessageResponse{})
		}
	case domain.PublishDiscoveryRequest:
		state.discovery = append(state.discovery, msg)
		if msg.ReplyTo() != nil {
			ctx.Send((*actor.PID)(msg.ReplyTo()), domain.PublishDiscoveryResponse{})
		}
	case GetPublishedRequest:
		messages := make(map[string]string, len(state.published))
		for k, v := range state.published {
			messages[k] = v
		}
		ctx.Respond(GetPublishedResponse{
			Messages:  messages,
			Discovery: append([]domain.PublishDiscoveryRequest(nil), state.discovery...),
		})
	}
}

func (state *MQTTActor) record(msg *rawMessage) {
	if msg != nil {
		state.published[msg.topic] = msg.message
	}
}
