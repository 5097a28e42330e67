package it600

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundToHalf(t *testing.T) {
	assert.Equal(t, 21.5, roundToHalf(21.4))
	assert.Equal(t, 21.0, roundToHalf(21.2))
	assert.Equal(t, 22.0, roundToHalf(21.8))
}

func TestEncodeClimateTemperature(t *testing.T) {
	standard := Climate{Device: Device{Data: json.RawMessage(`{"UniID":"th"}`)}, Family: FamilyStandard}
	entry := encodeClimateTemperature(standard, 21.3)
	assert.Equal(t, "sIT600TH", entry.Group)
	assert.Equal(t, "SetHeatingSetpoint_x100", entry.Field)
	assert.Equal(t, 2150, entry.Value)

	dual := Climate{Family: FamilyDualMode, HVACMode: HVACModeCool}
	entry = encodeClimateTemperature(dual, 24)
	assert.Equal(t, "sTherS", entry.Group)
	assert.Equal(t, "SetCoolingSetpoint_x100", entry.Field)
	assert.Equal(t, 2400, entry.Value)

	dual.HVACMode = HVACModeHeat
	assert.Equal(t, "SetHeatingSetpoint_x100", encodeClimateTemperature(dual, 24).Field)
}

func TestEncodeClimateMode(t *testing.T) {
	standard := Climate{Family: FamilyStandard}
	assert.Equal(t, 7, encodeClimateMode(standard, HVACModeOff).Value)
	assert.Equal(t, 0, encodeClimateMode(standard, HVACModeHeat).Value)
	assert.Equal(t, "SetHoldType", encodeClimateMode(standard, HVACModeAuto).Field)

	dual := Climate{Family: FamilyDualMode}
	assert.Equal(t, 4, encodeClimateMode(dual, HVACModeHeat).Value)
	assert.Equal(t, 3, encodeClimateMode(dual, HVACModeCool).Value)
	assert.Equal(t, 0, encodeClimateMode(dual, HVACModeAuto).Value)
	assert.Equal(t, "SetSystemMode", encodeClimateMode(dual, HVACModeAuto).Field)
}

func TestEncodeClimatePreset(t *testing.T) {
	standard := Climate{Family: FamilyStandard}
	assert.Equal(t, 7, encodeClimatePreset(standard, PresetOff).Value)
	assert.Equal(t, 2, encodeClimatePreset(standard, PresetPermanentHold).Value)
	assert.Equal(t, 0, encodeClimatePreset(standard, PresetEco).Value)

	dual := Climate{Family: FamilyDualMode}
	entry := encodeClimatePreset(dual, PresetEco)
	assert.Equal(t, "sComm", entry.Group)
	assert.Equal(t, 10, entry.Value)
	assert.Equal(t, 1, encodeClimatePreset(dual, PresetTemporaryHold).Value)
	assert.Equal(t, 0, encodeClimatePreset(dual, PresetFollowSchedule).Value)
}

func TestEncodeClimateFanMode(t *testing.T) {
	dual := Climate{Family: FamilyDualMode}
	assert.Equal(t, 3, encodeClimateFanMode(dual, FanModeHigh).Value)
	assert.Equal(t, 0, encodeClimateFanMode(dual, FanModeOff).Value)
	assert.Equal(t, 5, encodeClimateFanMode(dual, FanModeAuto).Value)
}

func TestEncodeCoverPosition(t *testing.T) {
	require.NoError(t, validateCoverPosition(0))
	require.NoError(t, validateCoverPosition(100))
	assert.ErrorIs(t, validateCoverPosition(150), ErrValidation)
	assert.ErrorIs(t, validateCoverPosition(-1), ErrValidation)

	cover := Cover{Device: Device{Data: json.RawMessage(`{"UniID":"rs"}`)}}
	assert.Equal(t, "00FFFF", encodeCoverPosition(cover, 0).Value)
	assert.Equal(t, "64FFFF", encodeCoverPosition(cover, 100).Value)
	assert.Equal(t, "2DFFFF", encodeCoverPosition(cover, 45).Value)
}

func TestWriteEntryEchoesIdentity(t *testing.T) {
	entry := encodeSwitch(Switch{Device: Device{Data: json.RawMessage(`{"UniID":"plug","Endpoint":1}`)}}, true)

	body, err := json.Marshal(writeRequest{RequestAttr: requestAttrWrite, Id: []writeEntry{entry}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"requestAttr":"write","id":[{"data":{"UniID":"plug","Endpoint":1},"sOnOffS":{"SetOnOff":1}}]}`, string(body))
}
