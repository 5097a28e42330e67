package mqtt

import (
	"fmt"
	"regexp"

	"github.com/berfenger/salus2mqtt/internal/core/domain"
)

const (
	HA_COMPONENT_CLIMATE = "climate"
	HA_COMPONENT_COVER   = "cover"
	HA_COMPONENT_SWITCH  = "switch"

	availabilityModeAll = "all"
)

var invalidObjectIdChars = regexp.MustCompile("[^a-zA-Z0-9_-]")

type HADiscoveryConfig struct {
	Device            HADiscoveryDevice         `json:"device"`
	StateTopic        string                    `json:"state_topic,omitempty"`
	CommandTopic      string                    `json:"command_topic,omitempty"`
	StateClass        string                    `json:"state_class,omitempty"`
	DeviceClass       string                    `json:"device_class,omitempty"`
	UnitOfMeasurement string                    `json:"unit_of_measurement,omitempty"`
	Availability      []HADiscoveryAvailability `json:"availability,omitempty"`
	AvailabilityMode  string                    `json:"availability_mode,omitempty"`
	EntityCategory    string                    `json:"entity_category,omitempty"`
	Name              string                    `json:"name"`
	UniqueId          string                    `json:"unique_id"`
	Platform          string                    `json:"platform"`
	EnabledByDefault  *bool                     `json:"enabled_by_default,omitempty"`
	PayloadOn         string                    `json:"payload_on,omitempty"`
	PayloadOff        string                    `json:"payload_off,omitempty"`
	Icon              string                    `json:"icon,omitempty"`

	// climate
	CurrentTemperatureTopic string   `json:"current_temperature_topic,omitempty"`
	CurrentHumidityTopic    string   `json:"current_humidity_topic,omitempty"`
	TemperatureStateTopic   string   `json:"temperature_state_topic,omitempty"`
	TemperatureCommandTopic string   `json:"temperature_command_topic,omitempty"`
	ModeStateTopic          string   `json:"mode_state_topic,omitempty"`
	ModeCommandTopic        string   `json:"mode_command_topic,omitempty"`
	Modes                   []string `json:"modes,omitempty"`
	ActionTopic             string   `json:"action_topic,omitempty"`
	PresetModeStateTopic    string   `json:"preset_mode_state_topic,omitempty"`
	PresetModeCommandTopic  string   `json:"preset_mode_command_topic,omitempty"`
	PresetModes             []string `json:"preset_modes,omitempty"`
	FanModeStateTopic       string   `json:"fan_mode_state_topic,omitempty"`
	FanModeCommandTopic     string   `json:"fan_mode_command_topic,omitempty"`
	FanModes                []string `json:"fan_modes,omitempty"`
	MinTemp                 float64  `json:"min_temp,omitempty"`
	MaxTemp                 float64  `json:"max_temp,omitempty"`
	TempStep                float64  `json:"temp_step,omitempty"`
	Precision               float64  `json:"precision,omitempty"`
	TemperatureUnit         string   `json:"temperature_unit,omitempty"`

	// cover
	PositionTopic    string `json:"position_topic,omitempty"`
	SetPositionTopic string `json:"set_position_topic,omitempty"`
	PayloadOpen      string `json:"payload_open,omitempty"`
	PayloadClose     string `json:"payload_close,omitempty"`
	StateOpen        string `json:"state_open,omitempty"`
	StateOpening     string `json:"state_opening,omitempty"`
	StateClosed      string `json:"state_closed,omitempty"`
	StateClosing     string `json:"state_closing,omitempty"`
}

type HADiscoveryAvailability struct {
	Topic               string `json:"topic"`
	PayloadAvailable    string `json:"payload_available,omitempty"`
	PayloadNotAvailable string `json:"payload_not_available,omitempty"`
}

type HADiscoveryDevice struct {
	Id           []string `json:"identifiers"`
	Manufacturer string   `json:"manufacturer,omitempty"`
	Version      string   `json:"sw_version,omitempty"`
	Model        string   `json:"model,omitempty"`
	Name         string   `json:"name,omitempty"`
	ViaDevice    string   `json:"via_device,omitempty"`
}

// HADiscoveryTopic returns <discovery>/<component>/<node>/<object>/config.
func (c *MQTTClient) HADiscoveryTopic(component, nodeId, objectId string) string {
	return fmt.Sprintf("%s/%s/%s/%s/config", c.cfg.HADiscoveryTopic, component, nodeId,
		invalidObjectIdChars.ReplaceAllString(objectId, "_"))
}

func (c *MQTTClient) HADiscoverySensorTopic(sensor domain.GenericSensor) string {
	return c.HADiscoveryTopic(sensor.SensorType, sensor.Device.Id, sensor.Id)
}

func (c *MQTTClient) HADiscoverySwitchTopic(s domain.GenericSwitch) string {
	return c.HADiscoveryTopic(HA_COMPONENT_SWITCH, s.Device.Id, s.Id)
}

func (c *MQTTClient) HADiscoveryClimateTopic(climate domain.GenericClimate) string {
	return c.HADiscoveryTopic(HA_COMPONENT_CLIMATE, climate.Device.Id, climate.Id)
}

func (c *MQTTClient) HADiscoveryCoverTopic(cover domain.GenericCover) string {
	return c.HADiscoveryTopic(HA_COMPONENT_COVER, cover.Device.Id, cover.Id)
}

func GenericSensorToHADiscoveryMessage(client *MQTTClient, sensor domain.GenericSensor) HADiscoveryConfig {
	disConfig := HADiscoveryConfig{
		Device:            device(sensor.Device),
		StateTopic:        client.StateTopic(sensor.State.Kind, sensor.State.Id, sensor.State.Attribute),
		StateClass:        sensor.StateClass,
		DeviceClass:       sensor.DeviceClass,
		UnitOfMeasurement: sensor.UnitOfMeasurement,
		EntityCategory:    sensor.EntityCategory,
		Name:              sensor.Name,
		UniqueId:          sensor.UniqueId,
		Icon:              sensor.Icon,
		EnabledByDefault:  sensor.EnabledByDefault,
		Platform:          "mqtt",
	}
	switch {
	case sensor.Id == domain.SENSOR_ID_BRIDGE_STATE:
		// the bridge entity must stay available to report offline
		disConfig.PayloadOn = MQTT_PAYLOAD_ONLINE
		disConfig.PayloadOff = MQTT_PAYLOAD_OFFLINE
	case sensor.SensorType == domain.SENSOR_TYPE_BINARY:
		disConfig.PayloadOn = MQTT_PAYLOAD_ON
		disConfig.PayloadOff = MQTT_PAYLOAD_OFF
		client.setAvailability(&disConfig, sensor.State.Kind, sensor.State.Id)
	default:
		client.setAvailability(&disConfig, sensor.State.Kind, sensor.State.Id)
	}
	return disConfig
}

func GenericSwitchToHADiscoveryMessage(client *MQTTClient, _switch domain.GenericSwitch) HADiscoveryConfig {
	disConfig := HADiscoveryConfig{
		Device:       device(_switch.Device),
		StateTopic:   client.StateTopic(domain.KIND_SWITCH, _switch.Id, domain.ATTR_STATE),
		CommandTopic: client.SwitchCommandTopic(_switch.Id),
		DeviceClass:  _switch.DeviceClass,
		Name:         _switch.Name,
		UniqueId:     _switch.UniqueId,
		Icon:         _switch.Icon,
		Platform:     "mqtt",
		PayloadOn:    MQTT_PAYLOAD_ON,
		PayloadOff:   MQTT_PAYLOAD_OFF,
	}
	client.setAvailability(&disConfig, domain.KIND_SWITCH, _switch.Id)
	return disConfig
}

func GenericClimateToHADiscoveryMessage(client *MQTTClient, climate domain.GenericClimate) HADiscoveryConfig {
	topic := func(attr string) string {
		return client.StateTopic(domain.KIND_CLIMATE, climate.Id, attr)
	}
	disConfig := HADiscoveryConfig{
		Device:                  device(climate.Device),
		Name:                    climate.Name,
		UniqueId:                climate.UniqueId,
		Platform:                "mqtt",
		CurrentTemperatureTopic: topic(domain.ATTR_CURRENT_TEMPERATURE),
		TemperatureStateTopic:   topic(domain.ATTR_TARGET_TEMPERATURE),
		TemperatureCommandTopic: client.ClimateCommandTopic(climate.Id, domain.ATTR_TARGET_TEMPERATURE),
		ModeStateTopic:          topic(domain.ATTR_MODE),
		ModeCommandTopic:        client.ClimateCommandTopic(climate.Id, domain.ATTR_MODE),
		Modes:                   climate.Modes,
		ActionTopic:             topic(domain.ATTR_ACTION),
		PresetModeStateTopic:    topic(domain.ATTR_PRESET),
		PresetModeCommandTopic:  client.ClimateCommandTopic(climate.Id, domain.ATTR_PRESET),
		PresetModes:             climate.PresetModes,
		MinTemp:                 climate.MinTemperature,
		MaxTemp:                 climate.MaxTemperature,
		TempStep:                0.5,
		Precision:               climate.Precision,
		TemperatureUnit:         climate.TemperatureUnit,
	}
	if len(climate.FanModes) > 0 {
		disConfig.FanModeStateTopic = topic(domain.ATTR_FAN_MODE)
		disConfig.FanModeCommandTopic = client.ClimateCommandTopic(climate.Id, domain.ATTR_FAN_MODE)
		disConfig.FanModes = climate.FanModes
	}
	if climate.HasHumidity {
		disConfig.CurrentHumidityTopic = topic(domain.ATTR_HUMIDITY)
	}
	client.setAvailability(&disConfig, domain.KIND_CLIMATE, climate.Id)
	return disConfig
}

func GenericCoverToHADiscoveryMessage(client *MQTTClient, cover domain.GenericCover) HADiscoveryConfig {
	disConfig := HADiscoveryConfig{
		Device:       device(cover.Device),
		StateTopic:   client.StateTopic(domain.KIND_COVER, cover.Id, domain.ATTR_STATE),
		CommandTopic: client.CoverCommandTopic(cover.Id),
		DeviceClass:  cover.DeviceClass,
		Name:         cover.Name,
		UniqueId:     cover.UniqueId,
		Platform:     "mqtt",
		PayloadOpen:  "OPEN",
		PayloadClose: "CLOSE",
		StateOpen:    domain.COVER_STATE_OPEN,
		StateOpening: domain.COVER_STATE_OPENING,
		StateClosed:  domain.COVER_STATE_CLOSED,
		StateClosing: domain.COVER_STATE_CLOSING,
	}
	if cover.Position {
		disConfig.PositionTopic = client.StateTopic(domain.KIND_COVER, cover.Id, domain.ATTR_POSITION)
		disConfig.SetPositionTopic = client.CoverPositionCommandTopic(cover.Id)
	}
	client.setAvailability(&disConfig, domain.KIND_COVER, cover.Id)
	return disConfig
}

// setAvailability makes an entity available only while both the bridge
// and the device are online.
func (c *MQTTClient) setAvailability(disConfig *HADiscoveryConfig, kind, id string) {
	disConfig.Availability = []HADiscoveryAvailability{{Topic: c.BridgeStateTopic()}}
	if kind != domain.KIND_BRIDGE && id != "" {
		disConfig.Availability = append(disConfig.Availability, HADiscoveryAvailability{
			Topic: c.AvailabilityTopic(kind, id),
		})
		disConfig.AvailabilityMode = availabilityModeAll
	}
}

func device(d domain.Device) HADiscoveryDevice {
	return HADiscoveryDevice{
		Id:           []string{d.Id},
		Manufacturer: d.Manufacturer,
		Version:      d.Version,
		Model:        d.Model,
		Name:         d.Name,
		ViaDevice:    d.ViaDevice,
	}
}
