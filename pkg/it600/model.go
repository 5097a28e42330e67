package it600

import "encoding/json"

// ThermostatFamily tells which of the two thermostat payload shapes a climate device was decoded from.
type ThermostatFamily string

const (
	// FamilyStandard is the single setpoint IT600 thermostat (sIT600TH).
	FamilyStandard ThermostatFamily = "standard"
	// FamilyDualMode is the heating/cooling thermostat (sTherS + sComm + sFanS), e.g. FC600.
	FamilyDualMode ThermostatFamily = "dual_mode"
)

// Device holds the fields shared by every decoded device.
// Data is the raw identity blob that must be echoed back on writes.
type Device struct {
	Available    bool            `json:"available"`
	Name         string          `json:"name"`
	UniqueId     string          `json:"unique_id"`
	Data         json.RawMessage `json:"data"`
	Manufacturer string          `json:"manufacturer"`
	Model        string          `json:"model,omitempty"`
	SWVersion    string          `json:"sw_version,omitempty"`
}

type GatewayInfo struct {
	Name         string          `json:"name"`
	UniqueId     string          `json:"unique_id"`
	Data         json.RawMessage `json:"data"`
	Manufacturer string          `json:"manufacturer"`
	Model        string          `json:"model,omitempty"`
	SWVersion    string          `json:"sw_version,omitempty"`
}

type Climate struct {
	Device
	Family             ThermostatFamily `json:"family"`
	TemperatureUnit    string           `json:"temperature_unit"`
	Precision          float64          `json:"precision"`
	CurrentTemperature float64          `json:"current_temperature"`
	TargetTemperature  float64          `json:"target_temperature"`
	MaxTemperature     float64          `json:"max_temperature"`
	MinTemperature     float64          `json:"min_temperature"`
	CurrentHumidity    *float64         `json:"current_humidity,omitempty"`
	BatteryLevel       *int             `json:"battery_level,omitempty"`
	HVACMode           HVACMode         `json:"hvac_mode"`
	HVACAction         HVACAction       `json:"hvac_action"`
	HVACModes          []HVACMode       `json:"hvac_modes"`
	PresetMode         PresetMode       `json:"preset_mode"`
	PresetModes        []PresetMode     `json:"preset_modes"`
	FanMode            FanMode          `json:"fan_mode,omitempty"`
	FanModes           []FanMode        `json:"fan_modes,omitempty"`
	Locked             *bool            `json:"locked,omitempty"`
	SupportedFeatures  int              `json:"supported_features"`
}

type BinarySensor struct {
	Device
	IsOn        bool   `json:"is_on"`
	DeviceClass string `json:"device_class,omitempty"`
}

type Switch struct {
	Device
	IsOn        bool   `json:"is_on"`
	DeviceClass string `json:"device_class"`
}

type Cover struct {
	Device
	CurrentPosition   *int   `json:"current_position,omitempty"`
	IsOpening         *bool  `json:"is_opening,omitempty"`
	IsClosing         *bool  `json:"is_closing,omitempty"`
	IsClosed          bool   `json:"is_closed"`
	SupportedFeatures int    `json:"supported_features"`
	DeviceClass       string `json:"device_class,omitempty"`
}

type Sensor struct {
	Device
	State             float64 `json:"state"`
	UnitOfMeasurement string  `json:"unit_of_measurement"`
	DeviceClass       string  `json:"device_class"`
}

// Snapshot is a point in time view of every device map.
// Each map is consistent on its own; maps are never mutated after publication.
type Snapshot struct {
	Gateway       *GatewayInfo            `json:"gateway,omitempty"`
	Climate       map[string]Climate      `json:"climate"`
	BinarySensors map[string]BinarySensor `json:"binary_sensors"`
	Switches      map[string]Switch       `json:"switches"`
	Covers        map[string]Cover        `json:"covers"`
	Sensors       map[string]Sensor       `json:"sensors"`
}

// BatteryPercent converts the 0..5 battery scale reported by thermostats to a percentage.
func BatteryPercent(level int) int {
	return int(float64(level)/5*100 + 0.5)
}

// BatteryLow reports a critically low battery (20% or less).
func BatteryLow(level int) bool {
	return level <= 1
}
