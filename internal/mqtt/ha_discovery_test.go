package mqtt

import (
	"encoding/json"
	"testing"

	"github.com/berfenger/salus2mqtt/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testDevice = domain.Device{Id: "salus_0a1b2c3d", Name: "Living room", ViaDevice: "salus_gateway_ffffffff"}

func TestHADiscoveryTopic(t *testing.T) {
	c := testClient("salus")

	assert.Equal(t, "homeassistant/switch/salus_0a1b2c3d/plug_1/config",
		c.HADiscoverySwitchTopic(domain.GenericSwitch{Device: testDevice, Id: "plug_1"}))
	assert.Equal(t, "homeassistant/climate/salus_0a1b2c3d/00_1E_5E_1/config",
		c.HADiscoveryClimateTopic(domain.GenericClimate{Device: testDevice, Id: "00:1E:5E/1"}))
}

func TestClimateDiscoveryMessage(t *testing.T) {
	c := testClient("salus")

	msg := GenericClimateToHADiscoveryMessage(c, domain.GenericClimate{
		Device:         testDevice,
		Id:             "th1",
		Name:           "Living room",
		UniqueId:       "uid_salus_0a1b2c3d_climate",
		MinTemperature: 5,
		MaxTemperature: 35,
		Modes:          []string{"off", "heat", "auto"},
		PresetModes:    []string{"Follow Schedule", "Permanent Hold", "Off"},
	})

	assert.Equal(t, "salus/climate/th1/target_temperature", msg.TemperatureStateTopic)
	assert.Equal(t, "salus/climate/th1/target_temperature/set", msg.TemperatureCommandTopic)
	assert.Equal(t, "salus/climate/th1/mode/set", msg.ModeCommandTopic)
	assert.Empty(t, msg.FanModeCommandTopic)
	assert.Empty(t, msg.CurrentHumidityTopic)
	require.Len(t, msg.Availability, 2)
	assert.Equal(t, "salus/bridge/state", msg.Availability[0].Topic)
	assert.Equal(t, "salus/climate/th1/availability", msg.Availability[1].Topic)
	assert.Equal(t, "all", msg.AvailabilityMode)

	payload, err := json.Marshal(msg)
	require.NoError(t, err)
	var raw map[string]any
	require.NoError(t, json.Unmarshal(payload, &raw))
	assert.Equal(t, []any{"salus_0a1b2c3d"}, raw["device"].(map[string]any)["identifiers"])
	assert.Equal(t, "salus_gateway_ffffffff", raw["device"].(map[string]any)["via_device"])
	assert.NotContains(t, raw, "state_topic")
	assert.NotContains(t, raw, "position_topic")
}

func TestCoverDiscoveryMessage(t *testing.T) {
	c := testClient("salus")

	msg := GenericCoverToHADiscoveryMessage(c, domain.GenericCover{Device: testDevice, Id: "rs", Position: true})
	assert.Equal(t, "salus/cover/rs/state", msg.StateTopic)
	assert.Equal(t, "salus/cover/rs/set", msg.CommandTopic)
	assert.Equal(t, "salus/cover/rs/position", msg.PositionTopic)
	assert.Equal(t, "salus/cover/rs/set_position", msg.SetPositionTopic)

	msg = GenericCoverToHADiscoveryMessage(c, domain.GenericCover{Device: testDevice, Id: "rs"})
	assert.Empty(t, msg.SetPositionTopic)
}

func TestBridgeSensorDiscoveryMessage(t *testing.T) {
	c := testClient("salus")

	msg := GenericSensorToHADiscoveryMessage(c, domain.GenericSensor{
		Device:     domain.Device{Id: "salus2mqtt_bridge_1234abcd"},
		Id:         domain.SENSOR_ID_BRIDGE_STATE,
		SensorType: domain.SENSOR_TYPE_BINARY,
		State:      domain.StateRef{Kind: domain.KIND_BRIDGE, Attribute: domain.ATTR_STATE},
	})
	assert.Equal(t, "salus/bridge/state", msg.StateTopic)
	assert.Equal(t, MQTT_PAYLOAD_ONLINE, msg.PayloadOn)
	assert.Empty(t, msg.Availability)

	msg = GenericSensorToHADiscoveryMessage(c, domain.GenericSensor{
		Device:     testDevice,
		Id:         "th1_battery_low",
		SensorType: domain.SENSOR_TYPE_BINARY,
		State:      domain.StateRef{Kind: domain.KIND_CLIMATE, Id: "th1", Attribute: domain.ATTR_BATTERY_LOW},
	})
	assert.Equal(t, "salus/climate/th1/battery_low", msg.StateTopic)
	assert.Equal(t, MQTT_PAYLOAD_ON, msg.PayloadOn)
	require.Len(t, msg.Availability, 2)
	assert.Equal(t, "salus/climate/th1/availability", msg.Availability[1].Topic)
}
