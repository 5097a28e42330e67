package domain

import "fmt"

// Entity kinds, used as the second level of every state topic.
const (
	KIND_CLIMATE       = "climate"
	KIND_BINARY_SENSOR = "binary_sensor"
	KIND_SWITCH        = "switch"
	KIND_COVER         = "cover"
	KIND_SENSOR        = "sensor"
	KIND_BRIDGE        = "bridge"
)

// Entity attributes, used as the last level of every state topic.
const (
	ATTR_STATE               = "state"
	ATTR_AVAILABILITY        = "availability"
	ATTR_CURRENT_TEMPERATURE = "current_temperature"
	ATTR_TARGET_TEMPERATURE  = "target_temperature"
	ATTR_MODE                = "mode"
	ATTR_ACTION              = "action"
	ATTR_PRESET              = "preset"
	ATTR_FAN_MODE            = "fan_mode"
	ATTR_HUMIDITY            = "current_humidity"
	ATTR_BATTERY             = "battery"
	ATTR_BATTERY_LOW         = "battery_low"
	ATTR_POSITION            = "position"
	ATTR_GATEWAY             = "gateway"
)

const (
	COVER_STATE_OPEN    = "open"
	COVER_STATE_CLOSED  = "closed"
	COVER_STATE_OPENING = "opening"
	COVER_STATE_CLOSING = "closing"
)

type UpdateEventMixIn struct {
	Kind      string
	Id        string
	Attribute string
}

type UpdateEvent interface {
	UpdateEvent() string
	EntityKind() string
	EntityId() string
	EntityAttribute() string
}

func (e UpdateEventMixIn) UpdateEvent() string {
	return fmt.Sprintf("%s/%s/%s", e.Kind, e.Id, e.Attribute)
}

func (e UpdateEventMixIn) EntityKind() string {
	return e.Kind
}

func (e UpdateEventMixIn) EntityId() string {
	return e.Id
}

func (e UpdateEventMixIn) EntityAttribute() string {
	return e.Attribute
}

type FloatUpdateEvent struct {
	UpdateEventMixIn
	Value    float64
	Decimals uint
}

type BinaryUpdateEvent struct {
	UpdateEventMixIn
	Value bool
}

type TextUpdateEvent struct {
	UpdateEventMixIn
	Value string
}

type AvailabilityUpdateEvent struct {
	UpdateEventMixIn
	Value bool
}

type BridgeStateUpdateEvent struct {
	UpdateEventMixIn
	Value bool
}

func BridgeStateEvent(online bool) BridgeStateUpdateEvent {
	return BridgeStateUpdateEvent{
		UpdateEventMixIn: UpdateEventMixIn{Kind: KIND_BRIDGE, Attribute: ATTR_STATE},
		Value:            online,
	}
}

// GatewayStateEvent reports whether the last poll reached the gateway.
func GatewayStateEvent(reachable bool) BinaryUpdateEvent {
	return BinaryUpdateEvent{
		UpdateEventMixIn: UpdateEventMixIn{Kind: KIND_BRIDGE, Attribute: ATTR_GATEWAY},
		Value:            reachable,
	}
}
