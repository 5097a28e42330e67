package events

import (
	"testing"

	"github.com/berfenger/salus2mqtt/internal/core/domain"
	"github.com/berfenger/salus2mqtt/pkg/it600"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T {
	return &v
}

func testSnapshot() it600.Snapshot {
	return it600.Snapshot{
		Gateway: &it600.GatewayInfo{Name: "Gateway", UniqueId: "00:11:22:33:44:55", Manufacturer: "SALUS", Model: "UGE600", SWVersion: "1.2.3"},
		Climate: map[string]it600.Climate{
			"th1": {
				Device:             it600.Device{UniqueId: "th1", Name: "Living room", Available: true, Manufacturer: "SALUS"},
				Family:             it600.FamilyStandard,
				Precision:          0.1,
				CurrentTemperature: 21.5,
				TargetTemperature:  22,
				MinTemperature:     5,
				MaxTemperature:     35,
				BatteryLevel:       ptr(1),
				HVACMode:           it600.HVACModeHeat,
				HVACAction:         it600.HVACActionHeatingIdle,
				HVACModes:          []it600.HVACMode{it600.HVACModeOff, it600.HVACModeHeat, it600.HVACModeAuto},
				PresetMode:         it600.PresetFollowSchedule,
				PresetModes:        []it600.PresetMode{it600.PresetFollowSchedule, it600.PresetPermanentHold, it600.PresetOff},
			},
		},
		BinarySensors: map[string]it600.BinarySensor{
			"win": {Device: it600.Device{UniqueId: "win", Name: "Window", Available: true}, IsOn: true, DeviceClass: it600.DeviceClassWindow},
		},
		Switches: map[string]it600.Switch{
			"plug_2": {Device: it600.Device{UniqueId: "plug_2", Name: "Plug"}, IsOn: false, DeviceClass: it600.DeviceClassOutlet},
			"plug_1": {Device: it600.Device{UniqueId: "plug_1", Name: "Plug", Available: true}, IsOn: true, DeviceClass: it600.DeviceClassOutlet},
		},
		Covers: map[string]it600.Cover{
			"rs": {Device: it600.Device{UniqueId: "rs", Name: "Blind", Available: true}, CurrentPosition: ptr(30), IsOpening: ptr(true), IsClosing: ptr(false), SupportedFeatures: it600.SupportOpen | it600.SupportClose | it600.SupportSetPosition},
		},
		Sensors: map[string]it600.Sensor{
			"ps_temp": {Device: it600.Device{UniqueId: "ps_temp", Name: "Probe", Available: true}, State: 18.75, UnitOfMeasurement: it600.TemperatureCelsius, DeviceClass: it600.DeviceClassTemperature},
		},
	}
}

func findEvent(events []any, kind, id, attr string) any {
	for _, ev := range events {
		if e, ok := ev.(domain.UpdateEvent); ok && e.EntityKind() == kind && e.EntityId() == id && e.EntityAttribute() == attr {
			return ev
		}
	}
	return nil
}

func TestClimateToUpdateEvents(t *testing.T) {
	events := ClimateToUpdateEvents(testSnapshot().Climate["th1"])

	current := findEvent(events, domain.KIND_CLIMATE, "th1", domain.ATTR_CURRENT_TEMPERATURE)
	require.NotNil(t, current)
	assert.Equal(t, 21.5, current.(domain.FloatUpdateEvent).Value)

	action := findEvent(events, domain.KIND_CLIMATE, "th1", domain.ATTR_ACTION)
	require.NotNil(t, action)
	assert.Equal(t, "idle", action.(domain.TextUpdateEvent).Value)

	battery := findEvent(events, domain.KIND_CLIMATE, "th1", domain.ATTR_BATTERY)
	require.NotNil(t, battery)
	assert.Equal(t, 20.0, battery.(domain.FloatUpdateEvent).Value)

	low := findEvent(events, domain.KIND_CLIMATE, "th1", domain.ATTR_BATTERY_LOW)
	require.NotNil(t, low)
	assert.True(t, low.(domain.BinaryUpdateEvent).Value)

	assert.Nil(t, findEvent(events, domain.KIND_CLIMATE, "th1", domain.ATTR_FAN_MODE))
	assert.Nil(t, findEvent(events, domain.KIND_CLIMATE, "th1", domain.ATTR_HUMIDITY))
	assert.NotNil(t, findEvent(events, domain.KIND_CLIMATE, "th1", domain.ATTR_AVAILABILITY))
}

func TestSnapshotToUpdateEventsOrder(t *testing.T) {
	events := SnapshotToUpdateEvents(testSnapshot())

	var switchIds []string
	for _, ev := range events {
		if e, ok := ev.(domain.BinaryUpdateEvent); ok && e.Kind == domain.KIND_SWITCH {
			switchIds = append(switchIds, e.Id)
		}
	}
	assert.Equal(t, []string{"plug_1", "plug_2"}, switchIds)

	unavailable := findEvent(events, domain.KIND_SWITCH, "plug_2", domain.ATTR_AVAILABILITY)
	require.NotNil(t, unavailable)
	assert.False(t, unavailable.(domain.AvailabilityUpdateEvent).Value)

	sensor := findEvent(events, domain.KIND_SENSOR, "ps_temp", domain.ATTR_STATE)
	require.NotNil(t, sensor)
	assert.Equal(t, 18.75, sensor.(domain.FloatUpdateEvent).Value)
}

func TestCoverState(t *testing.T) {
	assert.Equal(t, domain.COVER_STATE_OPENING, CoverState(it600.Cover{IsOpening: ptr(true), IsClosing: ptr(false)}))
	assert.Equal(t, domain.COVER_STATE_CLOSING, CoverState(it600.Cover{IsOpening: ptr(false), IsClosing: ptr(true)}))
	assert.Equal(t, domain.COVER_STATE_CLOSED, CoverState(it600.Cover{IsClosed: true}))
	assert.Equal(t, domain.COVER_STATE_OPEN, CoverState(it600.Cover{CurrentPosition: ptr(50)}))

	events := CoverToUpdateEvents(testSnapshot().Covers["rs"])
	position := findEvent(events, domain.KIND_COVER, "rs", domain.ATTR_POSITION)
	require.NotNil(t, position)
	assert.Equal(t, 30.0, position.(domain.FloatUpdateEvent).Value)
}

func TestUnavailableEvents(t *testing.T) {
	events := UnavailableEvents(testSnapshot())
	require.NotEmpty(t, events)
	for _, ev := range events {
		availability, ok := ev.(domain.AvailabilityUpdateEvent)
		require.True(t, ok)
		assert.False(t, availability.Value)
		assert.Equal(t, domain.ATTR_AVAILABILITY, availability.Attribute)
	}
	assert.NotNil(t, findEvent(events, domain.KIND_SWITCH, "plug_1", domain.ATTR_AVAILABILITY))
}
