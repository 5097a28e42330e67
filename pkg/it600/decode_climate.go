package it600

import (
	"errors"
	"strings"
)

var errNotAThermostat = errors.New("record matches no thermostat shape")

// thermostatShape is one of the two climate payload variants.
type thermostatShape interface {
	normalize(base Device) (Climate, error)
}

type standardThermostat struct {
	th    *it600THGroup
	model string
}

type dualModeThermostat struct {
	ther *therSGroup
	comm *commGroup
	fan  *fanGroup
	ui   *therUIGroup
}

func thermostatShapeOf(r *deviceRecord) (thermostatShape, error) {
	switch {
	case r.IT600TH != nil:
		return standardThermostat{th: r.IT600TH, model: r.model()}, nil
	case r.TherS != nil && r.Comm != nil && r.FanS != nil:
		return dualModeThermostat{ther: r.TherS, comm: r.Comm, fan: r.FanS, ui: r.TherUIS}, nil
	default:
		return nil, errNotAThermostat
	}
}

func decodeClimate(r *deviceRecord) (Climate, error) {
	shape, err := thermostatShapeOf(r)
	if err != nil {
		return Climate{}, err
	}
	return shape.normalize(baseDevice(r, unknownDeviceName))
}

// reportsHumidityInSunnySetpoint marks the models that reuse SunnySetpoint_x100
// to carry relative humidity.
func reportsHumidityInSunnySetpoint(model string) bool {
	return strings.Contains(model, "SQ610")
}

func (s standardThermostat) normalize(base Device) (Climate, error) {
	current, err := required("LocalTemperature_x100", s.th.LocalTemperatureX100)
	if err != nil {
		return Climate{}, err
	}
	target, err := required("HeatingSetpoint_x100", s.th.HeatingSetpointX100)
	if err != nil {
		return Climate{}, err
	}
	holdType, err := required("HoldType", s.th.HoldType)
	if err != nil {
		return Climate{}, err
	}
	runningState, err := required("RunningState", s.th.RunningState)
	if err != nil {
		return Climate{}, err
	}

	c := newClimate(base, FamilyStandard)
	c.CurrentTemperature = current / 100
	c.TargetTemperature = target / 100
	c.MaxTemperature = orDefault(s.th.MaxHeatSetpointX100, standardMaxSetX100) / 100
	c.MinTemperature = orDefault(s.th.MinHeatSetpointX100, standardMinSetX100) / 100
	if reportsHumidityInSunnySetpoint(s.model) && s.th.SunnySetpointX100 != nil {
		humidity := *s.th.SunnySetpointX100
		c.CurrentHumidity = &humidity
	}
	if s.th.BatteryLevel != nil {
		level := *s.th.BatteryLevel
		c.BatteryLevel = &level
	}

	switch holdType {
	case holdTypeOff:
		c.HVACMode = HVACModeOff
		c.PresetMode = PresetOff
	case holdTypePermanentHold:
		c.HVACMode = HVACModeHeat
		c.PresetMode = PresetPermanentHold
	default:
		c.HVACMode = HVACModeAuto
		c.PresetMode = PresetFollowSchedule
	}
	switch {
	case holdType == holdTypeOff:
		c.HVACAction = HVACActionOff
	case runningState%2 == 0:
		c.HVACAction = HVACActionIdle
	default:
		c.HVACAction = HVACActionHeating
	}

	c.HVACModes = standardHVACModes
	c.PresetModes = standardPresetModes
	c.SupportedFeatures = SupportTargetTemperature | SupportPresetMode
	return c, nil
}

func (d dualModeThermostat) normalize(base Device) (Climate, error) {
	current, err := required("LocalTemperature_x100", d.ther.LocalTemperatureX100)
	if err != nil {
		return Climate{}, err
	}
	holdType, err := required("HoldType", d.comm.HoldType)
	if err != nil {
		return Climate{}, err
	}
	runningState, err := required("RunningState", d.ther.RunningState)
	if err != nil {
		return Climate{}, err
	}
	systemMode := orDefault(d.ther.SystemMode, systemModeAuto)
	heating := systemMode == systemModeHeat

	c := newClimate(base, FamilyDualMode)
	c.CurrentTemperature = current / 100
	if heating {
		target, err := required("HeatingSetpoint_x100", d.ther.HeatingSetpointX100)
		if err != nil {
			return Climate{}, err
		}
		c.TargetTemperature = target / 100
		c.MaxTemperature = orDefault(d.ther.MaxHeatSetpointX100, dualMaxSetX100) / 100
		c.MinTemperature = orDefault(d.ther.MinHeatSetpointX100, dualMinSetX100) / 100
	} else {
		target, err := required("CoolingSetpoint_x100", d.ther.CoolingSetpointX100)
		if err != nil {
			return Climate{}, err
		}
		c.TargetTemperature = target / 100
		c.MaxTemperature = orDefault(d.ther.MaxCoolSetpointX100, dualMaxSetX100) / 100
		c.MinTemperature = orDefault(d.ther.MinCoolSetpointX100, dualMinSetX100) / 100
	}

	switch systemMode {
	case systemModeHeat:
		c.HVACMode = HVACModeHeat
	case systemModeCool:
		c.HVACMode = HVACModeCool
	default:
		c.HVACMode = HVACModeAuto
	}

	switch {
	case holdType == holdTypeOff:
		c.HVACAction = HVACActionOff
	case runningState == runningStateIdle:
		c.HVACAction = HVACActionIdle
	case heating && runningState == runningStateHeat:
		c.HVACAction = HVACActionHeating
	case heating:
		c.HVACAction = HVACActionHeatingIdle
	case runningState == runningStateCool:
		c.HVACAction = HVACActionCooling
	default:
		c.HVACAction = HVACActionCoolingIdle
	}

	c.FanMode = fanModeFromCode(orDefault(d.fan.FanMode, fanCodeAuto))
	c.PresetMode = presetFromHoldType(holdType)
	locked := d.ui != nil && d.ui.LockKey != nil && *d.ui.LockKey == 1
	c.Locked = &locked

	c.HVACModes = dualModeHVACModes
	c.PresetModes = dualModePresetModes
	c.FanModes = dualModeFanModes
	c.SupportedFeatures = SupportTargetTemperature | SupportPresetMode | SupportFanMode
	return c, nil
}

func newClimate(base Device, family ThermostatFamily) Climate {
	return Climate{
		Device:          base,
		Family:          family,
		TemperatureUnit: TemperatureCelsius,
		Precision:       0.1,
	}
}

func presetFromHoldType(holdType int) PresetMode {
	switch holdType {
	case holdTypeOff:
		return PresetOff
	case holdTypePermanentHold:
		return PresetPermanentHold
	case holdTypeEco:
		return PresetEco
	case holdTypeTemporaryHold:
		return PresetTemporaryHold
	default:
		return PresetFollowSchedule
	}
}

func fanModeFromCode(code int) FanMode {
	switch code {
	case fanCodeOff:
		return FanModeOff
	case fanCodeLow:
		return FanModeLow
	case fanCodeMedium:
		return FanModeMedium
	case fanCodeHigh:
		return FanModeHigh
	default:
		return FanModeAuto
	}
}
