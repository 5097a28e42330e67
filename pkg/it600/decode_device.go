package it600

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strconv"
)

// errSkipRecord marks a record that does not belong to its bucket. It is not a decode failure.
var errSkipRecord = errors.New("record skipped")

func required[T any](field string, v *T) (T, error) {
	if v == nil {
		var zero T
		return zero, fmt.Errorf("missing field %s", field)
	}
	return *v, nil
}

func orDefault[T int | float64](v *T, def T) T {
	if v == nil {
		return def
	}
	return *v
}

func baseDevice(r *deviceRecord, fallbackName string) Device {
	d := Device{
		Available:    r.ZDOInfo != nil && r.ZDOInfo.OnlineStatus != nil && *r.ZDOInfo.OnlineStatus == 1,
		Name:         fallbackName,
		UniqueId:     r.uniqueId(),
		Data:         r.Data,
		Manufacturer: defaultManufacturer,
		Model:        r.model(),
	}
	if r.ZDO != nil {
		d.Name = parseDeviceName(r.ZDO.DeviceName, fallbackName)
		d.SWVersion = r.ZDO.FirmwareVersion
	}
	if r.BasicS != nil && r.BasicS.ManufactureName != "" {
		d.Manufacturer = r.BasicS.ManufactureName
	}
	return d
}

// parseDeviceName extracts deviceName from the JSON encoded sZDO.DeviceName blob.
func parseDeviceName(blob, fallback string) string {
	if blob == "" {
		return fallback
	}
	var parsed struct {
		DeviceName string `json:"deviceName"`
	}
	if err := json.Unmarshal([]byte(blob), &parsed); err != nil || parsed.DeviceName == "" {
		return fallback
	}
	return parsed.DeviceName
}

func decodeGateway(r *deviceRecord) (GatewayInfo, error) {
	mac := r.gatewayMAC()
	if mac == "" {
		return GatewayInfo{}, errSkipRecord
	}
	info := GatewayInfo{
		Name:         gatewayDefaultName,
		UniqueId:     mac,
		Data:         r.Data,
		Manufacturer: defaultManufacturer,
		Model:        r.Gateway.ModelIdentifier,
	}
	if r.Gateway.ModelIdentifier != "" {
		info.Name = r.Gateway.ModelIdentifier
	}
	if r.BasicS != nil && r.BasicS.ManufactureName != "" {
		info.Manufacturer = r.BasicS.ManufactureName
	}
	if r.OTA != nil {
		info.SWVersion = r.OTA.OTAFirmwareVersion
	}
	return info, nil
}

func decodeBinarySensor(r *deviceRecord) (BinarySensor, error) {
	model := r.model()
	if slices.Contains(ButtonModels, model) {
		return BinarySensor{}, errSkipRecord
	}

	var flag *int
	if slices.Contains(BinarySensorModels, model) {
		if r.IT600I != nil {
			flag = r.IT600I.RelayStatus
		}
	} else if r.IASZS != nil {
		flag = r.IASZS.ErrorIASZSAlarmed1
	}
	if flag == nil {
		return BinarySensor{}, errSkipRecord
	}

	return BinarySensor{
		Device:      baseDevice(r, unknownDeviceName),
		IsOn:        *flag == 1,
		DeviceClass: binarySensorClass(model),
	}, nil
}

func binarySensorClass(model string) string {
	switch {
	case slices.Contains(WindowSensorModels, model):
		return DeviceClassWindow
	case slices.Contains(MoistureSensorModels, model):
		return DeviceClassMoisture
	case slices.Contains(SmokeSensorModels, model):
		return DeviceClassSmoke
	case model == modelMiniTRV:
		return DeviceClassValve
	case model == modelReceiver:
		return DeviceClassReceiver
	default:
		return ""
	}
}

// decodeSwitch keys the switch by endpoint since one unit may expose several relays.
// Records that also carry a level group are covers.
func decodeSwitch(r *deviceRecord) (Switch, error) {
	if r.LevelS != nil || r.OnOffS == nil || r.OnOffS.OnOff == nil {
		return Switch{}, errSkipRecord
	}
	endpoint := 0
	if r.identity.Endpoint != nil {
		endpoint = *r.identity.Endpoint
	}
	id := r.uniqueId() + "_" + strconv.Itoa(endpoint)

	d := baseDevice(r, id)
	d.UniqueId = id
	class := DeviceClassSwitch
	if slices.Contains(OutletModels, d.Model) {
		class = DeviceClassOutlet
	}
	return Switch{
		Device:      d,
		IsOn:        *r.OnOffS.OnOff == 1,
		DeviceClass: class,
	}, nil
}

func decodeCover(r *deviceRecord) (Cover, error) {
	if r.ButtonS != nil && r.ButtonS.Mode != nil && *r.ButtonS.Mode == 0 {
		return Cover{}, errSkipRecord
	}
	c := Cover{
		Device:            baseDevice(r, unknownDeviceName),
		SupportedFeatures: SupportOpen | SupportClose | SupportSetPosition,
	}
	if r.LevelS == nil {
		return c, nil
	}
	c.CurrentPosition = r.LevelS.CurrentLevel
	target, ok := moveToLevelTarget(r.LevelS.MoveToLevel)
	if ok && c.CurrentPosition != nil {
		opening := *c.CurrentPosition < target
		closing := *c.CurrentPosition > target
		c.IsOpening = &opening
		c.IsClosing = &closing
	}
	c.IsClosed = c.CurrentPosition != nil && *c.CurrentPosition == 0
	return c, nil
}

// moveToLevelTarget decodes the target position from the first two hex digits of MoveToLevel_f.
func moveToLevelTarget(value string) (int, bool) {
	if len(value) < 2 {
		return 0, false
	}
	target, err := strconv.ParseUint(value[:2], 16, 8)
	if err != nil {
		return 0, false
	}
	return int(target), true
}

func decodeSensor(r *deviceRecord) (Sensor, error) {
	if r.TempS == nil || r.TempS.MeasuredValueX100 == nil {
		return Sensor{}, errSkipRecord
	}
	d := baseDevice(r, unknownDeviceName)
	d.UniqueId = r.uniqueId() + sensorIdSuffix
	return Sensor{
		Device:            d,
		State:             *r.TempS.MeasuredValueX100 / 100,
		UnitOfMeasurement: TemperatureCelsius,
		DeviceClass:       DeviceClassTemperature,
	}, nil
}
