package it600

import "time"

// protocol IV shared by every UG600/UGE600 gateway
var encryptionIV = []byte{
	0x88, 0xa6, 0xb0, 0x79, 0x5d, 0x85, 0xdb, 0xfc,
	0xe6, 0xe0, 0xb3, 0xe9, 0xa6, 0x29, 0x65, 0x4b,
}

const (
	DefaultPort           = 80
	DefaultRequestTimeout = 5 * time.Second
	DefaultPollInterval   = 30 * time.Second

	TemperatureCelsius  = "°C"
	defaultManufacturer = "SALUS"
	unknownDeviceName   = "Unknown"
	gatewayDefaultName  = "Gateway"
)

// Climate supported features (bitmask)
const (
	SupportTargetTemperature = 1
	SupportFanMode           = 8
	SupportPresetMode        = 16
)

// Cover supported features (bitmask)
const (
	SupportOpen        = 1
	SupportClose       = 2
	SupportSetPosition = 4
)

type HVACMode string

const (
	HVACModeOff  HVACMode = "off"
	HVACModeHeat HVACMode = "heat"
	HVACModeCool HVACMode = "cool"
	HVACModeAuto HVACMode = "auto"
)

type HVACAction string

const (
	HVACActionOff         HVACAction = "off"
	HVACActionHeating     HVACAction = "heating"
	HVACActionHeatingIdle HVACAction = "heating (idling)"
	HVACActionCooling     HVACAction = "cooling"
	HVACActionCoolingIdle HVACAction = "cooling (idling)"
	HVACActionIdle        HVACAction = "idle"
)

type PresetMode string

const (
	PresetFollowSchedule PresetMode = "Follow Schedule"
	PresetPermanentHold  PresetMode = "Permanent Hold"
	PresetTemporaryHold  PresetMode = "Temporary Hold"
	PresetEco            PresetMode = "Eco"
	PresetOff            PresetMode = "Off"
)

type FanMode string

const (
	FanModeAuto   FanMode = "Auto"
	FanModeHigh   FanMode = "High"
	FanModeMedium FanMode = "Medium"
	FanModeLow    FanMode = "Low"
	FanModeOff    FanMode = "Off"
)

// Device classes
const (
	DeviceClassWindow      = "window"
	DeviceClassMoisture    = "moisture"
	DeviceClassSmoke       = "smoke"
	DeviceClassValve       = "valve"
	DeviceClassReceiver    = "receiver"
	DeviceClassOutlet      = "outlet"
	DeviceClassSwitch      = "switch"
	DeviceClassTemperature = "temperature"
)

// hold type codes
const (
	holdTypeFollowSchedule = 0
	holdTypeTemporaryHold  = 1
	holdTypePermanentHold  = 2
	holdTypeOff            = 7
	holdTypeEco            = 10
)

// dual-mode thermostat codes
const (
	systemModeAuto     = 0
	systemModeCool     = 3
	systemModeHeat     = 4
	runningStateIdle   = 0
	runningStateHeat   = 33
	runningStateCool   = 66
	fanCodeOff         = 0
	fanCodeLow         = 1
	fanCodeMedium      = 2
	fanCodeHigh        = 3
	fanCodeAuto        = 5
	standardMinSetX100 = 500
	standardMaxSetX100 = 3500
	dualMinSetX100     = 500
	dualMaxSetX100     = 4000
)

const (
	modelMiniTRV  = "it600MINITRV"
	modelReceiver = "it600Receiver"

	// cover SetMoveToLevel suffix
	moveToLevelSuffix = "FFFF"
	sensorIdSuffix    = "_temp"
)

// Model identifiers for device type detection
var (
	BinarySensorModels   = []string{modelMiniTRV, modelReceiver}
	ButtonModels         = []string{"SB600", "CSB600"}
	WindowSensorModels   = []string{"SW600", "OS600"}
	MoistureSensorModels = []string{"WLS600"}
	SmokeSensorModels    = []string{"SmokeSensor-EM"}
	OutletModels         = []string{"SP600", "SPE600"}
)

var (
	standardHVACModes   = []HVACMode{HVACModeOff, HVACModeHeat, HVACModeAuto}
	dualModeHVACModes   = []HVACMode{HVACModeHeat, HVACModeCool, HVACModeAuto}
	standardPresetModes = []PresetMode{PresetFollowSchedule, PresetPermanentHold, PresetOff}
	dualModePresetModes = []PresetMode{PresetOff, PresetPermanentHold, PresetEco, PresetTemporaryHold, PresetFollowSchedule}
	dualModeFanModes    = []FanMode{FanModeAuto, FanModeHigh, FanModeMedium, FanModeLow, FanModeOff}
)
