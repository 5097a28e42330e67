package it600

import (
	"bytes"
	"encoding/json"
)

const (
	commandRead  = "read"
	commandWrite = "write"

	requestAttrReadAll  = "readall"
	requestAttrDeviceId = "deviceid"
	requestAttrWrite    = "write"

	statusSuccess = "success"
)

type readAllRequest struct {
	RequestAttr string `json:"requestAttr"`
}

type dataRef struct {
	Data json.RawMessage `json:"data"`
}

type deviceIdRequest struct {
	RequestAttr string    `json:"requestAttr"`
	Id          []dataRef `json:"id"`
}

type writeRequest struct {
	RequestAttr string       `json:"requestAttr"`
	Id          []writeEntry `json:"id"`
}

// writeEntry is one {data, <group>: {<field>: <value>}} element of a write request.
type writeEntry struct {
	Data  json.RawMessage
	Group string
	Field string
	Value any
}

func (w writeEntry) MarshalJSON() ([]byte, error) {
	return marshalBody(map[string]any{
		"data":  w.Data,
		w.Group: map[string]any{w.Field: w.Value},
	})
}

type responseEnvelope struct {
	Status string            `json:"status"`
	Id     []json.RawMessage `json:"id"`
}

// deviceRecord holds the capability groups consumed by the decoders.
// A nil group means the gateway did not report it.
type deviceRecord struct {
	Data    json.RawMessage `json:"data"`
	Gateway *gatewayGroup   `json:"sGateway"`
	BasicS  *basicGroup     `json:"sBasicS"`
	OTA     *otaGroup       `json:"sOTA"`
	ZDO     *zdoGroup       `json:"sZDO"`
	ZDOInfo *zdoInfoGroup   `json:"sZDOInfo"`
	DeviceL *deviceLGroup   `json:"DeviceL"`
	IT600TH *it600THGroup   `json:"sIT600TH"`
	TherS   *therSGroup     `json:"sTherS"`
	Comm    *commGroup      `json:"sComm"`
	FanS    *fanGroup       `json:"sFanS"`
	TherUIS *therUIGroup    `json:"sTherUIS"`
	IASZS   *iasZoneGroup   `json:"sIASZS"`
	IT600I  *it600IGroup    `json:"sIT600I"`
	OnOffS  *onOffGroup     `json:"sOnOffS"`
	LevelS  *levelGroup     `json:"sLevelS"`
	TempS   *tempGroup      `json:"sTempS"`
	ButtonS *buttonGroup    `json:"sButtonS"`

	identity deviceData
}

type deviceData struct {
	UniID    string `json:"UniID"`
	Endpoint *int   `json:"Endpoint"`
}

type gatewayGroup struct {
	NetworkLANMAC   string `json:"NetworkLANMAC"`
	ModelIdentifier string `json:"ModelIdentifier"`
}

type basicGroup struct {
	ModelIdentifier string `json:"ModelIdentifier"`
	ManufactureName string `json:"ManufactureName"`
}

type otaGroup struct {
	OTAFirmwareVersion string `json:"OTAFirmwareVersion_d"`
}

type zdoGroup struct {
	DeviceName      string `json:"DeviceName"`
	FirmwareVersion string `json:"FirmwareVersion"`
}

type zdoInfoGroup struct {
	OnlineStatus *int `json:"OnlineStatus_i"`
}

type deviceLGroup struct {
	ModelIdentifier string `json:"ModelIdentifier_i"`
}

type it600THGroup struct {
	LocalTemperatureX100 *float64 `json:"LocalTemperature_x100"`
	HeatingSetpointX100  *float64 `json:"HeatingSetpoint_x100"`
	MaxHeatSetpointX100  *float64 `json:"MaxHeatSetpoint_x100"`
	MinHeatSetpointX100  *float64 `json:"MinHeatSetpoint_x100"`
	SunnySetpointX100    *float64 `json:"SunnySetpoint_x100"`
	HoldType             *int     `json:"HoldType"`
	RunningState         *int     `json:"RunningState"`
	BatteryLevel         *int     `json:"BatteryLevel"`
}

type therSGroup struct {
	LocalTemperatureX100 *float64 `json:"LocalTemperature_x100"`
	HeatingSetpointX100  *float64 `json:"HeatingSetpoint_x100"`
	CoolingSetpointX100  *float64 `json:"CoolingSetpoint_x100"`
	MaxHeatSetpointX100  *float64 `json:"MaxHeatSetpoint_x100"`
	MinHeatSetpointX100  *float64 `json:"MinHeatSetpoint_x100"`
	MaxCoolSetpointX100  *float64 `json:"MaxCoolSetpoint_x100"`
	MinCoolSetpointX100  *float64 `json:"MinCoolSetpoint_x100"`
	SystemMode           *int     `json:"SystemMode"`
	RunningState         *int     `json:"RunningState"`
}

type commGroup struct {
	HoldType *int `json:"HoldType"`
}

type fanGroup struct {
	FanMode *int `json:"FanMode"`
}

type therUIGroup struct {
	LockKey *int `json:"LockKey"`
}

type iasZoneGroup struct {
	ErrorIASZSAlarmed1 *int `json:"ErrorIASZSAlarmed1"`
}

type it600IGroup struct {
	RelayStatus *int `json:"RelayStatus"`
}

type onOffGroup struct {
	OnOff *int `json:"OnOff"`
}

type levelGroup struct {
	CurrentLevel *int   `json:"CurrentLevel"`
	MoveToLevel  string `json:"MoveToLevel_f"`
}

type tempGroup struct {
	MeasuredValueX100 *float64 `json:"MeasuredValue_x100"`
}

type buttonGroup struct {
	Mode *int `json:"Mode"`
}

func parseRecord(raw json.RawMessage) (*deviceRecord, error) {
	var rec deviceRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, err
	}
	if len(rec.Data) > 0 {
		if err := json.Unmarshal(rec.Data, &rec.identity); err != nil {
			return nil, err
		}
	}
	return &rec, nil
}

func (r *deviceRecord) uniqueId() string {
	return r.identity.UniID
}

func (r *deviceRecord) model() string {
	if r.DeviceL == nil {
		return ""
	}
	return r.DeviceL.ModelIdentifier
}

func (r *deviceRecord) basicModel() string {
	if r.BasicS == nil {
		return ""
	}
	return r.BasicS.ModelIdentifier
}

func (r *deviceRecord) gatewayMAC() string {
	if r.Gateway == nil {
		return ""
	}
	return r.Gateway.NetworkLANMAC
}

// marshalBody encodes v without HTML escaping so raw identity blobs are echoed as received.
func marshalBody(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
