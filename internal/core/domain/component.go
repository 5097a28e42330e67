package domain

const (
	SENSOR_TYPE_SENSOR = "sensor"
	SENSOR_TYPE_BINARY = "binary_sensor"

	SENSOR_ID_BRIDGE_STATE  = "bridge"
	SENSOR_ID_GATEWAY_STATE = "gateway"

	STATE_CLASS_MEASUREMENT = "measurement"

	DEVICE_CLASS_TEMPERATURE  = "temperature"
	DEVICE_CLASS_HUMIDITY     = "humidity"
	DEVICE_CLASS_BATTERY      = "battery"
	DEVICE_CLASS_CONNECTIVITY = "connectivity"

	ENTITY_CATEGORY_DIAGNOSTIC = "diagnostic"
)

type Device struct {
	Id           string
	Name         string
	Version      string
	Model        string
	Manufacturer string
	ViaDevice    string
}

// StateRef points at the state topic an entity reads from.
type StateRef struct {
	Kind      string
	Id        string
	Attribute string
}

type GenericSensor struct {
	Device            Device
	Id                string
	SensorType        string
	State             StateRef
	Name              string
	UniqueId          string
	UnitOfMeasurement string
	StateClass        string
	DeviceClass       string
	EntityCategory    string
	EnabledByDefault  *bool
	Icon              string
}

type GenericSwitch struct {
	Device      Device
	Id          string
	Name        string
	UniqueId    string
	DeviceClass string
	Icon        string
}

type GenericClimate struct {
	Device          Device
	Id              string
	Name            string
	UniqueId        string
	TemperatureUnit string
	Precision       float64
	MinTemperature  float64
	MaxTemperature  float64
	Modes           []string
	PresetModes     []string
	FanModes        []string
	HasHumidity     bool
}

type GenericCover struct {
	Device      Device
	Id          string
	Name        string
	UniqueId    string
	DeviceClass string
	Position    bool
}
