package events

import (
	"maps"
	"slices"

	. "github.com/berfenger/salus2mqtt/internal/core/domain"
	"github.com/berfenger/salus2mqtt/pkg/it600"
)

// SnapshotToUpdateEvents maps every device of the snapshot to its state events.
// Devices are visited in id order so the output is stable.
func SnapshotToUpdateEvents(s it600.Snapshot) []any {
	var events []any
	for _, id := range slices.Sorted(maps.Keys(s.Climate)) {
		events = append(events, ClimateToUpdateEvents(s.Climate[id])...)
	}
	for _, id := range slices.Sorted(maps.Keys(s.BinarySensors)) {
		events = append(events, BinarySensorToUpdateEvents(s.BinarySensors[id])...)
	}
	for _, id := range slices.Sorted(maps.Keys(s.Switches)) {
		events = append(events, SwitchToUpdateEvents(s.Switches[id])...)
	}
	for _, id := range slices.Sorted(maps.Keys(s.Covers)) {
		events = append(events, CoverToUpdateEvents(s.Covers[id])...)
	}
	for _, id := range slices.Sorted(maps.Keys(s.Sensors)) {
		events = append(events, SensorToUpdateEvents(s.Sensors[id])...)
	}
	return events
}

// UnavailableEvents marks every known device unavailable, used while the
// gateway cannot be reached.
func UnavailableEvents(s it600.Snapshot) []any {
	var events []any
	offline := func(kind string, d it600.Device) {
		d.Available = false
		events = append(events, availability(kind, d))
	}
	for _, id := range slices.Sorted(maps.Keys(s.Climate)) {
		offline(KIND_CLIMATE, s.Climate[id].Device)
	}
	for _, id := range slices.Sorted(maps.Keys(s.BinarySensors)) {
		offline(KIND_BINARY_SENSOR, s.BinarySensors[id].Device)
	}
	for _, id := range slices.Sorted(maps.Keys(s.Switches)) {
		offline(KIND_SWITCH, s.Switches[id].Device)
	}
	for _, id := range slices.Sorted(maps.Keys(s.Covers)) {
		offline(KIND_COVER, s.Covers[id].Device)
	}
	for _, id := range slices.Sorted(maps.Keys(s.Sensors)) {
		offline(KIND_SENSOR, s.Sensors[id].Device)
	}
	return events
}

func ClimateToUpdateEvents(c it600.Climate) []any {
	id := c.UniqueId
	events := []any{
		FloatUpdateEvent{
			UpdateEventMixIn: mixIn(KIND_CLIMATE, id, ATTR_CURRENT_TEMPERATURE),
			Value:            c.CurrentTemperature,
			Decimals:         2,
		},
		FloatUpdateEvent{
			UpdateEventMixIn: mixIn(KIND_CLIMATE, id, ATTR_TARGET_TEMPERATURE),
			Value:            c.TargetTemperature,
			Decimals:         1,
		},
		TextUpdateEvent{
			UpdateEventMixIn: mixIn(KIND_CLIMATE, id, ATTR_MODE),
			Value:            string(c.HVACMode),
		},
		TextUpdateEvent{
			UpdateEventMixIn: mixIn(KIND_CLIMATE, id, ATTR_ACTION),
			Value:            haAction(c.HVACAction),
		},
		TextUpdateEvent{
			UpdateEventMixIn: mixIn(KIND_CLIMATE, id, ATTR_PRESET),
			Value:            string(c.PresetMode),
		},
	}
	if c.FanMode != "" {
		events = append(events, TextUpdateEvent{
			UpdateEventMixIn: mixIn(KIND_CLIMATE, id, ATTR_FAN_MODE),
			Value:            string(c.FanMode),
		})
	}
	if c.CurrentHumidity != nil {
		events = append(events, FloatUpdateEvent{
			UpdateEventMixIn: mixIn(KIND_CLIMATE, id, ATTR_HUMIDITY),
			Value:            *c.CurrentHumidity,
			Decimals:         1,
		})
	}
	if c.BatteryLevel != nil {
		events = append(events,
			FloatUpdateEvent{
				UpdateEventMixIn: mixIn(KIND_CLIMATE, id, ATTR_BATTERY),
				Value:            float64(it600.BatteryPercent(*c.BatteryLevel)),
			},
			BinaryUpdateEvent{
				UpdateEventMixIn: mixIn(KIND_CLIMATE, id, ATTR_BATTERY_LOW),
				Value:            it600.BatteryLow(*c.BatteryLevel),
			})
	}
	return append(events, availability(KIND_CLIMATE, c.Device))
}

func BinarySensorToUpdateEvents(s it600.BinarySensor) []any {
	return []any{
		BinaryUpdateEvent{
			UpdateEventMixIn: mixIn(KIND_BINARY_SENSOR, s.UniqueId, ATTR_STATE),
			Value:            s.IsOn,
		},
		availability(KIND_BINARY_SENSOR, s.Device),
	}
}

func SwitchToUpdateEvents(s it600.Switch) []any {
	return []any{
		BinaryUpdateEvent{
			UpdateEventMixIn: mixIn(KIND_SWITCH, s.UniqueId, ATTR_STATE),
			Value:            s.IsOn,
		},
		availability(KIND_SWITCH, s.Device),
	}
}

func CoverToUpdateEvents(c it600.Cover) []any {
	var events []any
	if c.CurrentPosition != nil {
		events = append(events, FloatUpdateEvent{
			UpdateEventMixIn: mixIn(KIND_COVER, c.UniqueId, ATTR_POSITION),
			Value:            float64(*c.CurrentPosition),
		})
	}
	events = append(events, TextUpdateEvent{
		UpdateEventMixIn: mixIn(KIND_COVER, c.UniqueId, ATTR_STATE),
		Value:            CoverState(c),
	})
	return append(events, availability(KIND_COVER, c.Device))
}

func SensorToUpdateEvents(s it600.Sensor) []any {
	return []any{
		FloatUpdateEvent{
			UpdateEventMixIn: mixIn(KIND_SENSOR, s.UniqueId, ATTR_STATE),
			Value:            s.State,
			Decimals:         2,
		},
		availability(KIND_SENSOR, s.Device),
	}
}

// CoverState reduces the motion flags of a cover to a single state.
func CoverState(c it600.Cover) string {
	switch {
	case c.IsOpening != nil && *c.IsOpening:
		return COVER_STATE_OPENING
	case c.IsClosing != nil && *c.IsClosing:
		return COVER_STATE_CLOSING
	case c.IsClosed:
		return COVER_STATE_CLOSED
	default:
		return COVER_STATE_OPEN
	}
}

// haAction maps an hvac action to the action names Home Assistant accepts.
func haAction(action it600.HVACAction) string {
	switch action {
	case it600.HVACActionHeating:
		return "heating"
	case it600.HVACActionCooling:
		return "cooling"
	case it600.HVACActionOff:
		return "off"
	default:
		return "idle"
	}
}

func availability(kind string, d it600.Device) AvailabilityUpdateEvent {
	return AvailabilityUpdateEvent{
		UpdateEventMixIn: mixIn(kind, d.UniqueId, ATTR_AVAILABILITY),
		Value:            d.Available,
	}
}

func mixIn(kind, id, attr string) UpdateEventMixIn {
	return UpdateEventMixIn{Kind: kind, Id: id, Attribute: attr}
}
