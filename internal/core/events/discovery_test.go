package events

import (
	"strings"
	"testing"

	"github.com/berfenger/salus2mqtt/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBridgeDevice(t *testing.T) {
	bridge := BridgeDevice("salus")
	assert.True(t, strings.HasPrefix(bridge.Id, "salus2mqtt_bridge_"))
	assert.Len(t, bridge.Id, len("salus2mqtt_bridge_")+8)
	assert.Equal(t, bridge.Id, BridgeDevice("salus").Id)
	assert.NotEqual(t, bridge.Id, BridgeDevice("salus_2").Id)
}

func TestDiscoveryFromSnapshot(t *testing.T) {
	snapshot := testSnapshot()
	req := DiscoveryFromSnapshot("salus", snapshot)

	bridge := BridgeDevice("salus")
	gateway := GatewayDevice(snapshot.Gateway, bridge)
	assert.Equal(t, bridge.Id, gateway.ViaDevice)
	assert.Equal(t, "UGE600", gateway.Model)

	require.Len(t, req.Climates, 1)
	climate := req.Climates[0]
	assert.Equal(t, "th1", climate.Id)
	assert.Equal(t, "Living room", climate.Name)
	assert.Equal(t, gateway.Id, climate.Device.ViaDevice)
	assert.Equal(t, []string{"off", "heat", "auto"}, climate.Modes)
	assert.Empty(t, climate.FanModes)
	assert.False(t, climate.HasHumidity)

	require.Len(t, req.Switches, 2)
	assert.Equal(t, "plug_1", req.Switches[0].Id)
	assert.NotEqual(t, req.Switches[0].Device.Id, req.Switches[1].Device.Id)

	require.Len(t, req.Covers, 1)
	assert.True(t, req.Covers[0].Position)

	var ids []string
	for _, s := range req.Sensors {
		ids = append(ids, s.Id)
	}
	assert.ElementsMatch(t, []string{
		domain.SENSOR_ID_BRIDGE_STATE,
		"th1_battery",
		"th1_battery_low",
		"win",
		"ps_temp",
		domain.SENSOR_ID_GATEWAY_STATE,
	}, ids)
}

func TestDiscoveryWithoutGateway(t *testing.T) {
	snapshot := testSnapshot()
	snapshot.Gateway = nil
	req := DiscoveryFromSnapshot("salus", snapshot)

	require.Len(t, req.Climates, 1)
	assert.Equal(t, BridgeDevice("salus").Id, req.Climates[0].Device.ViaDevice)
	for _, s := range req.Sensors {
		assert.NotEqual(t, domain.SENSOR_ID_GATEWAY_STATE, s.Id)
	}
}
