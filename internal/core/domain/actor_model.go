package domain

import "github.com/berfenger/salus2mqtt/pkg/it600"

const (
	ACTOR_ID_MASTER       = "master"
	ACTOR_ID_GATEWAY      = "gateway"
	ACTOR_ID_MONITOR      = "monitor"
	ACTOR_ID_MQTT         = "mqtt"
	ACTOR_ID_HA_DISCOVERY = "hadiscovery"
)

type GetSnapshotRequest struct {
	ActorRequestMixIn
}

type GetSnapshotResponse struct {
	ActorResponseMixIn
	Snapshot it600.Snapshot
}

// PollGatewayRequest asks the gateway actor for a full status poll.
type PollGatewayRequest struct {
	ActorRequestMixIn
}

// PollGatewayResponse carries the snapshot after the poll. A partial
// failure still carries the merged snapshot together with the error.
type PollGatewayResponse struct {
	ActorResponseMixIn
	Snapshot it600.Snapshot
}

type GatewayCommandRequest struct {
	ActorRequestMixIn
	Command GatewayCommand
}

type GatewayCommandResponse struct {
	ActorResponseMixIn
	Command GatewayCommand
}

type PublishMessageRequest struct {
	ActorRequestMixIn
	Topic   string
	Payload string
	Retain  bool
}

type PublishMessageResponse struct {
	ActorResponseMixIn
}

type PublishUpdateRequest struct {
	ActorRequestMixIn
	Retain bool
	Event  UpdateEvent
}

type PublishUpdateResponse struct {
	ActorResponseMixIn
}

type PublishDiscoveryRequest struct {
	ActorRequestMixIn
	Sensors  []GenericSensor
	Switches []GenericSwitch
	Climates []GenericClimate
	Covers   []GenericCover
}

type PublishDiscoveryResponse struct {
	ActorResponseMixIn
}

type ActorHealthRequest struct {
	ActorRequestMixIn
}

type ActorHealthResponse struct {
	ActorResponseMixIn
	Id      string
	Healthy bool
	State   string
}
