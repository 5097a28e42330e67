package mqtt

import (
	"testing"

	"github.com/berfenger/salus2mqtt/internal/config"
	"github.com/berfenger/salus2mqtt/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClient(baseTopic string) *MQTTClient {
	cfg := &config.Config{
		MQTT: config.MQTTConfig{
			Host:             "localhost",
			Port:             1883,
			BaseTopic:        baseTopic,
			HADiscoveryTopic: "homeassistant",
		},
	}
	return CreateMQTTClient(cfg, OptsFromConfig(cfg), nil, nil)
}

func TestSwitchCommandParse(t *testing.T) {
	c := testClient("loremTopic")

	cmd, err := c.ParseCommandTopic("loremTopic/switch/my_device_1/command", "on")
	require.NoError(t, err)
	assert.Equal(t, &ParsedMQTTCommand{Kind: domain.KIND_SWITCH, DeviceId: "my_device_1", Payload: "on"}, cmd)
}

func TestClimateCommandParse(t *testing.T) {
	c := testClient("salus")

	cmd, err := c.ParseCommandTopic("salus/climate/001E5E0902156B41/target_temperature/set", "21.5")
	require.NoError(t, err)
	assert.Equal(t, domain.KIND_CLIMATE, cmd.Kind)
	assert.Equal(t, "001E5E0902156B41", cmd.DeviceId)
	assert.Equal(t, "target_temperature", cmd.Attribute)
	assert.Equal(t, "21.5", cmd.Payload)
}

func TestCoverCommandParse(t *testing.T) {
	c := testClient("salus")

	cmd, err := c.ParseCommandTopic("salus/cover/rs/set_position", "40")
	require.NoError(t, err)
	assert.Equal(t, domain.KIND_COVER, cmd.Kind)
	assert.Equal(t, "set_position", cmd.Attribute)

	cmd, err = c.ParseCommandTopic("salus/cover/rs/set", "OPEN")
	require.NoError(t, err)
	assert.Equal(t, "set", cmd.Attribute)
}

func TestCommandParseIgnoresStateTopics(t *testing.T) {
	c := testClient("salus")

	for _, topic := range []string{
		"salus/switch/plug_1/state",
		"salus/climate/th1/mode",
		"salus/cover/rs/state",
		"salus/cover/rs/position",
		"salus/bridge/state",
		"other/switch/plug_1/command",
		"salus/switch/a/b/command",
	} {
		_, err := c.ParseCommandTopic(topic, "on")
		assert.ErrorIs(t, err, ErrNotACommand, topic)
	}
}

func TestTopics(t *testing.T) {
	c := testClient("salus")

	assert.Equal(t, "salus/bridge/state", c.BridgeStateTopic())
	assert.Equal(t, "salus/bridge/gateway", c.StateTopic(domain.KIND_BRIDGE, "", domain.ATTR_GATEWAY))
	assert.Equal(t, "salus/climate/th1/current_temperature", c.StateTopic(domain.KIND_CLIMATE, "th1", domain.ATTR_CURRENT_TEMPERATURE))
	assert.Equal(t, "salus/switch/plug_1/availability", c.AvailabilityTopic(domain.KIND_SWITCH, "plug_1"))
	assert.Equal(t, "salus/climate/th1/preset/set", c.ClimateCommandTopic("th1", domain.ATTR_PRESET))

	// command topics built for an entity parse back to it
	cmd, err := c.ParseCommandTopic(c.ClimateCommandTopic("th1", domain.ATTR_FAN_MODE), "Auto")
	require.NoError(t, err)
	assert.Equal(t, domain.ATTR_FAN_MODE, cmd.Attribute)
	cmd, err = c.ParseCommandTopic(c.CoverPositionCommandTopic("rs"), "10")
	require.NoError(t, err)
	assert.Equal(t, "rs", cmd.DeviceId)
}
