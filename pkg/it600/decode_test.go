package it600

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeStandardThermostat(t *testing.T) {
	rec := mustRecord(t, `{
		"data":{"UniID":"th1","Endpoint":1},
		"sIT600TH":{"LocalTemperature_x100":2150,"HeatingSetpoint_x100":2200,"HoldType":2,"RunningState":1,"BatteryLevel":3},
		"sZDO":{"DeviceName":"{\"deviceName\":\"Bedroom\"}","FirmwareVersion":"0x0300"},
		"sZDOInfo":{"OnlineStatus_i":1},
		"DeviceL":{"ModelIdentifier_i":"VS10WRF"}
	}`)

	c, err := decodeClimate(rec)
	require.NoError(t, err)
	assert.Equal(t, FamilyStandard, c.Family)
	assert.Equal(t, "th1", c.UniqueId)
	assert.Equal(t, "Bedroom", c.Name)
	assert.True(t, c.Available)
	assert.Equal(t, 21.5, c.CurrentTemperature)
	assert.Equal(t, 22.0, c.TargetTemperature)
	assert.Equal(t, 35.0, c.MaxTemperature)
	assert.Equal(t, 5.0, c.MinTemperature)
	assert.Equal(t, HVACModeHeat, c.HVACMode)
	assert.Equal(t, PresetPermanentHold, c.PresetMode)
	assert.Equal(t, HVACActionHeating, c.HVACAction)
	require.NotNil(t, c.BatteryLevel)
	assert.Equal(t, 3, *c.BatteryLevel)
	assert.Nil(t, c.CurrentHumidity)
	assert.Nil(t, c.FanModes)
	assert.Equal(t, SupportTargetTemperature|SupportPresetMode, c.SupportedFeatures)
}

func TestDecodeStandardThermostatModes(t *testing.T) {
	tests := []struct {
		holdType     int
		runningState int
		mode         HVACMode
		preset       PresetMode
		action       HVACAction
	}{
		{holdType: 7, runningState: 1, mode: HVACModeOff, preset: PresetOff, action: HVACActionOff},
		{holdType: 2, runningState: 0, mode: HVACModeHeat, preset: PresetPermanentHold, action: HVACActionIdle},
		{holdType: 0, runningState: 1, mode: HVACModeAuto, preset: PresetFollowSchedule, action: HVACActionHeating},
		{holdType: 1, runningState: 2, mode: HVACModeAuto, preset: PresetFollowSchedule, action: HVACActionIdle},
	}
	for _, tt := range tests {
		c, err := standardThermostat{th: &it600THGroup{
			LocalTemperatureX100: ptr(2000.0),
			HeatingSetpointX100:  ptr(2100.0),
			HoldType:             ptr(tt.holdType),
			RunningState:         ptr(tt.runningState),
		}}.normalize(Device{UniqueId: "th"})
		require.NoError(t, err)
		assert.Equal(t, tt.mode, c.HVACMode)
		assert.Equal(t, tt.preset, c.PresetMode)
		assert.Equal(t, tt.action, c.HVACAction)
	}
}

func TestDecodeStandardThermostatHumidity(t *testing.T) {
	th := &it600THGroup{
		LocalTemperatureX100: ptr(2000.0),
		HeatingSetpointX100:  ptr(2100.0),
		SunnySetpointX100:    ptr(55.0),
		HoldType:             ptr(0),
		RunningState:         ptr(0),
	}
	c, err := standardThermostat{th: th, model: "SQ610RF"}.normalize(Device{})
	require.NoError(t, err)
	require.NotNil(t, c.CurrentHumidity)
	assert.Equal(t, 55.0, *c.CurrentHumidity)

	c, err = standardThermostat{th: th, model: "VS20WRF"}.normalize(Device{})
	require.NoError(t, err)
	assert.Nil(t, c.CurrentHumidity)
}

func TestDecodeDualModeThermostat(t *testing.T) {
	rec := mustRecord(t, `{
		"data":{"UniID":"fc1"},
		"sTherS":{"LocalTemperature_x100":2400,"HeatingSetpoint_x100":2100,"CoolingSetpoint_x100":2500,"SystemMode":3,"RunningState":66},
		"sComm":{"HoldType":10},
		"sFanS":{"FanMode":2},
		"sTherUIS":{"LockKey":1}
	}`)

	c, err := decodeClimate(rec)
	require.NoError(t, err)
	assert.Equal(t, FamilyDualMode, c.Family)
	assert.Equal(t, "Unknown", c.Name)
	assert.Equal(t, 24.0, c.CurrentTemperature)
	assert.Equal(t, 25.0, c.TargetTemperature)
	assert.Equal(t, 40.0, c.MaxTemperature)
	assert.Equal(t, HVACModeCool, c.HVACMode)
	assert.Equal(t, HVACActionCooling, c.HVACAction)
	assert.Equal(t, PresetEco, c.PresetMode)
	assert.Equal(t, FanModeMedium, c.FanMode)
	require.NotNil(t, c.Locked)
	assert.True(t, *c.Locked)
	assert.Equal(t, SupportTargetTemperature|SupportPresetMode|SupportFanMode, c.SupportedFeatures)
}

func TestDecodeDualModeThermostatActions(t *testing.T) {
	tests := []struct {
		systemMode   int
		holdType     int
		runningState int
		action       HVACAction
	}{
		{systemMode: 4, holdType: 7, runningState: 33, action: HVACActionOff},
		{systemMode: 4, holdType: 0, runningState: 0, action: HVACActionIdle},
		{systemMode: 4, holdType: 0, runningState: 33, action: HVACActionHeating},
		{systemMode: 4, holdType: 0, runningState: 66, action: HVACActionHeatingIdle},
		{systemMode: 3, holdType: 0, runningState: 66, action: HVACActionCooling},
		{systemMode: 0, holdType: 0, runningState: 33, action: HVACActionCoolingIdle},
	}
	for _, tt := range tests {
		c, err := dualModeThermostat{
			ther: &therSGroup{
				LocalTemperatureX100: ptr(2000.0),
				HeatingSetpointX100:  ptr(2100.0),
				CoolingSetpointX100:  ptr(2500.0),
				SystemMode:           ptr(tt.systemMode),
				RunningState:         ptr(tt.runningState),
			},
			comm: &commGroup{HoldType: ptr(tt.holdType)},
			fan:  &fanGroup{},
		}.normalize(Device{})
		require.NoError(t, err)
		assert.Equal(t, tt.action, c.HVACAction, "system mode %d running state %d", tt.systemMode, tt.runningState)
		require.NotNil(t, c.Locked)
		assert.False(t, *c.Locked)
		assert.Equal(t, FanModeAuto, c.FanMode)
	}
}

func TestDecodeClimateMissingField(t *testing.T) {
	_, err := decodeClimate(mustRecord(t, `{"data":{"UniID":"th1"},"sIT600TH":{"HeatingSetpoint_x100":2200}}`))
	assert.ErrorContains(t, err, "LocalTemperature_x100")

	_, err = decodeClimate(mustRecord(t, `{"data":{"UniID":"x"},"sTherS":{}}`))
	assert.ErrorIs(t, err, errNotAThermostat)
}

func TestDecodeBinarySensor(t *testing.T) {
	window, err := decodeBinarySensor(mustRecord(t, `{"data":{"UniID":"w"},"sIASZS":{"ErrorIASZSAlarmed1":1},"DeviceL":{"ModelIdentifier_i":"SW600"}}`))
	require.NoError(t, err)
	assert.True(t, window.IsOn)
	assert.Equal(t, DeviceClassWindow, window.DeviceClass)

	trv, err := decodeBinarySensor(mustRecord(t, `{"data":{"UniID":"v"},"sIT600I":{"RelayStatus":0},"DeviceL":{"ModelIdentifier_i":"it600MINITRV"}}`))
	require.NoError(t, err)
	assert.False(t, trv.IsOn)
	assert.Equal(t, DeviceClassValve, trv.DeviceClass)

	_, err = decodeBinarySensor(mustRecord(t, `{"data":{"UniID":"b"},"sIASZS":{"ErrorIASZSAlarmed1":0},"DeviceL":{"ModelIdentifier_i":"SB600"}}`))
	assert.ErrorIs(t, err, errSkipRecord)

	_, err = decodeBinarySensor(mustRecord(t, `{"data":{"UniID":"r"},"DeviceL":{"ModelIdentifier_i":"it600Receiver"}}`))
	assert.ErrorIs(t, err, errSkipRecord)
}

func TestDecodeSwitch(t *testing.T) {
	s, err := decodeSwitch(mustRecord(t, `{"data":{"UniID":"plug","Endpoint":2},"sOnOffS":{"OnOff":1},"DeviceL":{"ModelIdentifier_i":"SPE600"}}`))
	require.NoError(t, err)
	assert.Equal(t, "plug_2", s.UniqueId)
	assert.Equal(t, "plug_2", s.Name)
	assert.True(t, s.IsOn)
	assert.Equal(t, DeviceClassOutlet, s.DeviceClass)

	s, err = decodeSwitch(mustRecord(t, `{"data":{"UniID":"relay"},"sOnOffS":{"OnOff":0},"DeviceL":{"ModelIdentifier_i":"SR600"}}`))
	require.NoError(t, err)
	assert.Equal(t, "relay_0", s.UniqueId)
	assert.Equal(t, DeviceClassSwitch, s.DeviceClass)
}

func TestDecodeSwitchSkipsLevelRecords(t *testing.T) {
	_, err := decodeSwitch(mustRecord(t, `{"data":{"UniID":"rs"},"sOnOffS":{"OnOff":1},"sLevelS":{"CurrentLevel":40}}`))
	assert.ErrorIs(t, err, errSkipRecord)
}

func TestDecodeCover(t *testing.T) {
	c, err := decodeCover(mustRecord(t, `{"data":{"UniID":"rs"},"sLevelS":{"CurrentLevel":30,"MoveToLevel_f":"64FFFF"}}`))
	require.NoError(t, err)
	require.NotNil(t, c.CurrentPosition)
	assert.Equal(t, 30, *c.CurrentPosition)
	require.NotNil(t, c.IsOpening)
	require.NotNil(t, c.IsClosing)
	assert.True(t, *c.IsOpening)
	assert.False(t, *c.IsClosing)
	assert.False(t, c.IsClosed)
	assert.Equal(t, SupportOpen|SupportClose|SupportSetPosition, c.SupportedFeatures)

	c, err = decodeCover(mustRecord(t, `{"data":{"UniID":"rs"},"sLevelS":{"CurrentLevel":0}}`))
	require.NoError(t, err)
	assert.True(t, c.IsClosed)
	assert.Nil(t, c.IsOpening)

	_, err = decodeCover(mustRecord(t, `{"data":{"UniID":"rs"},"sLevelS":{"CurrentLevel":0},"sButtonS":{"Mode":0}}`))
	assert.ErrorIs(t, err, errSkipRecord)
}

func TestMoveToLevelTarget(t *testing.T) {
	target, ok := moveToLevelTarget("00FFFF")
	assert.True(t, ok)
	assert.Equal(t, 0, target)

	_, ok = moveToLevelTarget("Z")
	assert.False(t, ok)
	_, ok = moveToLevelTarget("ZZFFFF")
	assert.False(t, ok)
}

func TestDecodeSensor(t *testing.T) {
	s, err := decodeSensor(mustRecord(t, `{"data":{"UniID":"ps"},"sTempS":{"MeasuredValue_x100":1875}}`))
	require.NoError(t, err)
	assert.Equal(t, "ps_temp", s.UniqueId)
	assert.Equal(t, 18.75, s.State)
	assert.Equal(t, TemperatureCelsius, s.UnitOfMeasurement)
}

func TestDecodeGateway(t *testing.T) {
	info, err := decodeGateway(mustRecord(t, `{"data":{"UniID":"gw"},"sGateway":{"NetworkLANMAC":"00:11:22:33:44:55","ModelIdentifier":"UGE600"},"sOTA":{"OTAFirmwareVersion_d":"1.2.3"}}`))
	require.NoError(t, err)
	assert.Equal(t, "00:11:22:33:44:55", info.UniqueId)
	assert.Equal(t, "UGE600", info.Name)
	assert.Equal(t, "1.2.3", info.SWVersion)
	assert.Equal(t, "SALUS", info.Manufacturer)
}

func TestParseDeviceName(t *testing.T) {
	assert.Equal(t, "Kitchen", parseDeviceName(`{"deviceName":"Kitchen"}`, "Unknown"))
	assert.Equal(t, "Unknown", parseDeviceName(`not json`, "Unknown"))
	assert.Equal(t, "Unknown", parseDeviceName("", "Unknown"))
}

func TestBattery(t *testing.T) {
	assert.Equal(t, 100, BatteryPercent(5))
	assert.Equal(t, 60, BatteryPercent(3))
	assert.Equal(t, 0, BatteryPercent(0))
	assert.True(t, BatteryLow(1))
	assert.False(t, BatteryLow(2))
}

func ptr[T any](v T) *T {
	return &v
}
