package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/berfenger/salus2mqtt/internal/core/domain"
	"github.com/berfenger/salus2mqtt/internal/core/port"
	"github.com/berfenger/salus2mqtt/pkg/it600"
)

const (
	ATTR_TARGET_TEMPERATURE = "target_temperature"
	ATTR_MODE               = "mode"
	ATTR_PRESET             = "preset"
	ATTR_FAN_MODE           = "fan_mode"
	ATTR_SET                = "set"
	ATTR_SET_POSITION       = "set_position"

	PAYLOAD_ON    = "on"
	PAYLOAD_OFF   = "off"
	PAYLOAD_OPEN  = "OPEN"
	PAYLOAD_CLOSE = "CLOSE"
)

var ErrInvalidCommand = errors.New("invalid command")

var (
	hvacModes   = []it600.HVACMode{it600.HVACModeOff, it600.HVACModeHeat, it600.HVACModeCool, it600.HVACModeAuto}
	presetModes = []it600.PresetMode{it600.PresetFollowSchedule, it600.PresetPermanentHold, it600.PresetTemporaryHold, it600.PresetEco, it600.PresetOff}
	fanModes    = []it600.FanMode{it600.FanModeAuto, it600.FanModeHigh, it600.FanModeMedium, it600.FanModeLow, it600.FanModeOff}
)

// ParseCommand turns a command received for an entity into a gateway command.
// kind is the entity kind, attr is empty for switches.
func ParseCommand(kind, id, attr, payload string) (domain.GatewayCommand, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: missing device id", ErrInvalidCommand)
	}
	mixIn := domain.GatewayCommandMixIn{Id: id}
	payload = strings.TrimSpace(payload)

	switch kind {
	case domain.KIND_SWITCH:
		switch strings.ToLower(payload) {
		case PAYLOAD_ON:
			return domain.SetSwitchCommand{GatewayCommandMixIn: mixIn, On: true}, nil
		case PAYLOAD_OFF:
			return domain.SetSwitchCommand{GatewayCommandMixIn: mixIn, On: false}, nil
		}
		return nil, fmt.Errorf("%w: switch payload '%s'", ErrInvalidCommand, payload)
	case domain.KIND_CLIMATE:
		return parseClimateCommand(mixIn, attr, payload)
	case domain.KIND_COVER:
		return parseCoverCommand(mixIn, attr, payload)
	}
	return nil, fmt.Errorf("%w: unsupported kind '%s'", ErrInvalidCommand, kind)
}

func parseClimateCommand(mixIn domain.GatewayCommandMixIn, attr, payload string) (domain.GatewayCommand, error) {
	switch attr {
	case ATTR_TARGET_TEMPERATURE:
		value, err := strconv.ParseFloat(payload, 64)
		if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
			return nil, fmt.Errorf("%w: temperature '%s'", ErrInvalidCommand, payload)
		}
		return domain.SetClimateTemperatureCommand{GatewayCommandMixIn: mixIn, Temperature: value}, nil
	case ATTR_MODE:
		mode, ok := matchName(hvacModes, payload)
		if !ok {
			return nil, fmt.Errorf("%w: hvac mode '%s'", ErrInvalidCommand, payload)
		}
		return domain.SetClimateModeCommand{GatewayCommandMixIn: mixIn, Mode: mode}, nil
	case ATTR_PRESET:
		preset, ok := matchName(presetModes, payload)
		if !ok {
			return nil, fmt.Errorf("%w: preset '%s'", ErrInvalidCommand, payload)
		}
		return domain.SetClimatePresetCommand{GatewayCommandMixIn: mixIn, Preset: preset}, nil
	case ATTR_FAN_MODE:
		fan, ok := matchName(fanModes, payload)
		if !ok {
			return nil, fmt.Errorf("%w: fan mode '%s'", ErrInvalidCommand, payload)
		}
		return domain.SetClimateFanModeCommand{GatewayCommandMixIn: mixIn, FanMode: fan}, nil
	}
	return nil, fmt.Errorf("%w: climate attribute '%s'", ErrInvalidCommand, attr)
}

func parseCoverCommand(mixIn domain.GatewayCommandMixIn, attr, payload string) (domain.GatewayCommand, error) {
	switch attr {
	case ATTR_SET:
		switch strings.ToUpper(payload) {
		case PAYLOAD_OPEN:
			return domain.CoverActionCommand{GatewayCommandMixIn: mixIn, Open: true}, nil
		case PAYLOAD_CLOSE:
			return domain.CoverActionCommand{GatewayCommandMixIn: mixIn, Open: false}, nil
		}
		return nil, fmt.Errorf("%w: cover payload '%s'", ErrInvalidCommand, payload)
	case ATTR_SET_POSITION:
		position, err := strconv.Atoi(payload)
		if err != nil {
			return nil, fmt.Errorf("%w: cover position '%s'", ErrInvalidCommand, payload)
		}
		return domain.SetCoverPositionCommand{GatewayCommandMixIn: mixIn, Position: position}, nil
	}
	return nil, fmt.Errorf("%w: cover attribute '%s'", ErrInvalidCommand, attr)
}

func matchName[T ~string](names []T, payload string) (T, bool) {
	for _, name := range names {
		if strings.EqualFold(string(name), payload) {
			return name, true
		}
	}
	var zero T
	return zero, false
}

// ExecuteCommand runs cmd against the gateway.
func ExecuteCommand(ctx context.Context, client port.GatewayClient, cmd domain.GatewayCommand) error {
	id := cmd.DeviceId()
	switch c := cmd.(type) {
	case domain.SetClimateTemperatureCommand:
		return client.SetClimateTemperature(ctx, id, c.Temperature)
	case domain.SetClimateModeCommand:
		return client.SetClimateMode(ctx, id, c.Mode)
	case domain.SetClimatePresetCommand:
		return client.SetClimatePreset(ctx, id, c.Preset)
	case domain.SetClimateFanModeCommand:
		return client.SetClimateFanMode(ctx, id, c.FanMode)
	case domain.SetSwitchCommand:
		if c.On {
			return client.TurnOnSwitch(ctx, id)
		}
		return client.TurnOffSwitch(ctx, id)
	case domain.SetCoverPositionCommand:
		return client.SetCoverPosition(ctx, id, c.Position)
	case domain.CoverActionCommand:
		if c.Open {
			return client.OpenCover(ctx, id)
		}
		return client.CloseCover(ctx, id)
	}
	return fmt.Errorf("%w: %T", ErrInvalidCommand, cmd)
}
