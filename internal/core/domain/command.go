package domain

import "github.com/berfenger/salus2mqtt/pkg/it600"

// GatewayCommand is a validated intent addressed to one gateway device.
type GatewayCommand interface {
	DeviceId() string
	CommandName() string
}

type GatewayCommandMixIn struct {
	Id string
}

func (c GatewayCommandMixIn) DeviceId() string {
	return c.Id
}

type SetClimateTemperatureCommand struct {
	GatewayCommandMixIn
	Temperature float64
}

func (SetClimateTemperatureCommand) CommandName() string { return "climate_temperature" }

type SetClimateModeCommand struct {
	GatewayCommandMixIn
	Mode it600.HVACMode
}

func (SetClimateModeCommand) CommandName() string { return "climate_mode" }

type SetClimatePresetCommand struct {
	GatewayCommandMixIn
	Preset it600.PresetMode
}

func (SetClimatePresetCommand) CommandName() string { return "climate_preset" }

type SetClimateFanModeCommand struct {
	GatewayCommandMixIn
	FanMode it600.FanMode
}

func (SetClimateFanModeCommand) CommandName() string { return "climate_fan_mode" }

type SetSwitchCommand struct {
	GatewayCommandMixIn
	On bool
}

func (SetSwitchCommand) CommandName() string { return "switch" }

type SetCoverPositionCommand struct {
	GatewayCommandMixIn
	Position int
}

func (SetCoverPositionCommand) CommandName() string { return "cover_position" }

type CoverActionCommand struct {
	GatewayCommandMixIn
	Open bool
}

func (CoverActionCommand) CommandName() string { return "cover_action" }

// ensure interface compliance
var (
	_ GatewayCommand = SetClimateTemperatureCommand{}
	_ GatewayCommand = SetClimateModeCommand{}
	_ GatewayCommand = SetClimatePresetCommand{}
	_ GatewayCommand = SetClimateFanModeCommand{}
	_ GatewayCommand = SetSwitchCommand{}
	_ GatewayCommand = SetCoverPositionCommand{}
	_ GatewayCommand = CoverActionCommand{}
)
