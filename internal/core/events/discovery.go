package events

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"maps"
	"slices"

	. "github.com/berfenger/salus2mqtt/internal/core/domain"
	"github.com/berfenger/salus2mqtt/pkg/it600"

	"github.com/carlmjohnson/versioninfo"
)

func BridgeDevice(baseTopic string) Device {
	return Device{
		Id:           fmt.Sprintf("salus2mqtt_bridge_%s", md5HashShort(baseTopic)),
		Manufacturer: "ACasal",
		Model:        "salus2mqtt",
		Version:      versioninfo.Short(),
		Name:         fmt.Sprintf("Salus2MQTT %s", md5HashShort(baseTopic)),
	}
}

func BridgeSensors(bridgeDevice Device) []GenericSensor {
	return []GenericSensor{{
		Device:         bridgeDevice,
		Id:             SENSOR_ID_BRIDGE_STATE,
		SensorType:     SENSOR_TYPE_BINARY,
		State:          StateRef{Kind: KIND_BRIDGE, Attribute: ATTR_STATE},
		Name:           "Connection state",
		DeviceClass:    DEVICE_CLASS_CONNECTIVITY,
		EntityCategory: ENTITY_CATEGORY_DIAGNOSTIC,
		UniqueId:       uniqueId(bridgeDevice.Id, SENSOR_ID_BRIDGE_STATE),
	}}
}

// GatewaySensors exposes whether the last poll reached the gateway.
func GatewaySensors(gatewayDevice Device) []GenericSensor {
	return []GenericSensor{{
		Device:         gatewayDevice,
		Id:             SENSOR_ID_GATEWAY_STATE,
		SensorType:     SENSOR_TYPE_BINARY,
		State:          StateRef{Kind: KIND_BRIDGE, Attribute: ATTR_GATEWAY},
		Name:           "Reachable",
		DeviceClass:    DEVICE_CLASS_CONNECTIVITY,
		EntityCategory: ENTITY_CATEGORY_DIAGNOSTIC,
		UniqueId:       uniqueId(gatewayDevice.Id, SENSOR_ID_GATEWAY_STATE),
	}}
}

func GatewayDevice(info *it600.GatewayInfo, bridgeDevice Device) Device {
	return Device{
		Id:           fmt.Sprintf("salus_gateway_%s", md5HashShort(info.UniqueId)),
		Name:         info.Name,
		Version:      info.SWVersion,
		Model:        info.Model,
		Manufacturer: info.Manufacturer,
		ViaDevice:    bridgeDevice.Id,
	}
}

// UnitDevice describes the physical unit behind a gateway entity.
func UnitDevice(d it600.Device, viaDevice string) Device {
	return Device{
		Id:           fmt.Sprintf("salus_%s", md5HashShort(d.UniqueId)),
		Name:         d.Name,
		Version:      d.SWVersion,
		Model:        d.Model,
		Manufacturer: d.Manufacturer,
		ViaDevice:    viaDevice,
	}
}

// DiscoveryFromSnapshot builds every Home Assistant component for the bridge,
// the gateway and the devices of the snapshot.
func DiscoveryFromSnapshot(baseTopic string, s it600.Snapshot) PublishDiscoveryRequest {
	bridge := BridgeDevice(baseTopic)
	req := PublishDiscoveryRequest{
		Sensors: BridgeSensors(bridge),
	}

	via := bridge.Id
	if s.Gateway != nil {
		via = GatewayDevice(s.Gateway, bridge).Id
	}

	for _, id := range slices.Sorted(maps.Keys(s.Climate)) {
		c := s.Climate[id]
		device := UnitDevice(c.Device, via)
		req.Climates = append(req.Climates, ClimateComponent(device, c))
		req.Sensors = append(req.Sensors, ClimateSensors(device, c)...)
	}
	for _, id := range slices.Sorted(maps.Keys(s.BinarySensors)) {
		b := s.BinarySensors[id]
		req.Sensors = append(req.Sensors, BinarySensorComponent(UnitDevice(b.Device, via), b))
	}
	for _, id := range slices.Sorted(maps.Keys(s.Switches)) {
		sw := s.Switches[id]
		req.Switches = append(req.Switches, SwitchComponent(UnitDevice(sw.Device, via), sw))
	}
	for _, id := range slices.Sorted(maps.Keys(s.Covers)) {
		c := s.Covers[id]
		req.Covers = append(req.Covers, CoverComponent(UnitDevice(c.Device, via), c))
	}
	for _, id := range slices.Sorted(maps.Keys(s.Sensors)) {
		sensor := s.Sensors[id]
		req.Sensors = append(req.Sensors, SensorComponent(UnitDevice(sensor.Device, via), sensor))
	}

	if s.Gateway != nil {
		req.Sensors = append(req.Sensors, GatewaySensors(GatewayDevice(s.Gateway, bridge))...)
	}
	return req
}

func ClimateComponent(device Device, c it600.Climate) GenericClimate {
	climate := GenericClimate{
		Device:          device,
		Id:              c.UniqueId,
		Name:            c.Name,
		UniqueId:        uniqueId(device.Id, KIND_CLIMATE),
		TemperatureUnit: "C",
		Precision:       c.Precision,
		MinTemperature:  c.MinTemperature,
		MaxTemperature:  c.MaxTemperature,
		HasHumidity:     c.CurrentHumidity != nil,
	}
	for _, mode := range c.HVACModes {
		climate.Modes = append(climate.Modes, string(mode))
	}
	for _, preset := range c.PresetModes {
		climate.PresetModes = append(climate.PresetModes, string(preset))
	}
	for _, fan := range c.FanModes {
		climate.FanModes = append(climate.FanModes, string(fan))
	}
	return climate
}

// ClimateSensors returns the diagnostic battery entities of a thermostat.
func ClimateSensors(device Device, c it600.Climate) []GenericSensor {
	if c.BatteryLevel == nil {
		return nil
	}
	return []GenericSensor{
		{
			Device:            device,
			Id:                c.UniqueId + "_" + ATTR_BATTERY,
			SensorType:        SENSOR_TYPE_SENSOR,
			State:             StateRef{Kind: KIND_CLIMATE, Id: c.UniqueId, Attribute: ATTR_BATTERY},
			Name:              "Battery",
			UniqueId:          uniqueId(device.Id, ATTR_BATTERY),
			UnitOfMeasurement: "%",
			StateClass:        STATE_CLASS_MEASUREMENT,
			DeviceClass:       DEVICE_CLASS_BATTERY,
			EntityCategory:    ENTITY_CATEGORY_DIAGNOSTIC,
		},
		{
			Device:         device,
			Id:             c.UniqueId + "_" + ATTR_BATTERY_LOW,
			SensorType:     SENSOR_TYPE_BINARY,
			State:          StateRef{Kind: KIND_CLIMATE, Id: c.UniqueId, Attribute: ATTR_BATTERY_LOW},
			Name:           "Battery low",
			UniqueId:       uniqueId(device.Id, ATTR_BATTERY_LOW),
			DeviceClass:    DEVICE_CLASS_BATTERY,
			EntityCategory: ENTITY_CATEGORY_DIAGNOSTIC,
		},
	}
}

func BinarySensorComponent(device Device, b it600.BinarySensor) GenericSensor {
	return GenericSensor{
		Device:      device,
		Id:          b.UniqueId,
		SensorType:  SENSOR_TYPE_BINARY,
		State:       StateRef{Kind: KIND_BINARY_SENSOR, Id: b.UniqueId, Attribute: ATTR_STATE},
		Name:        b.Name,
		UniqueId:    uniqueId(device.Id, KIND_BINARY_SENSOR),
		DeviceClass: b.DeviceClass,
	}
}

func SensorComponent(device Device, s it600.Sensor) GenericSensor {
	return GenericSensor{
		Device:            device,
		Id:                s.UniqueId,
		SensorType:        SENSOR_TYPE_SENSOR,
		State:             StateRef{Kind: KIND_SENSOR, Id: s.UniqueId, Attribute: ATTR_STATE},
		Name:              s.Name,
		UniqueId:          uniqueId(device.Id, KIND_SENSOR),
		UnitOfMeasurement: s.UnitOfMeasurement,
		StateClass:        STATE_CLASS_MEASUREMENT,
		DeviceClass:       s.DeviceClass,
	}
}

func SwitchComponent(device Device, s it600.Switch) GenericSwitch {
	return GenericSwitch{
		Device:      device,
		Id:          s.UniqueId,
		Name:        s.Name,
		UniqueId:    uniqueId(device.Id, KIND_SWITCH),
		DeviceClass: s.DeviceClass,
	}
}

func CoverComponent(device Device, c it600.Cover) GenericCover {
	return GenericCover{
		Device:      device,
		Id:          c.UniqueId,
		Name:        c.Name,
		UniqueId:    uniqueId(device.Id, KIND_COVER),
		DeviceClass: c.DeviceClass,
		Position:    c.SupportedFeatures&it600.SupportSetPosition != 0,
	}
}

func uniqueId(baseId, id string) string {
	return fmt.Sprintf("uid_%s_%s", baseId, id)
}

func md5Hash(text string) string {
	hash := md5.Sum([]byte(text))
	return hex.EncodeToString(hash[:])
}

func md5HashShort(text string) string {
	return md5Hash(text)[0:8]
}
