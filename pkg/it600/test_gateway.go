package it600

import (
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"sync"
	"sync/atomic"
	"time"
)

// TestServer is an in-process gateway speaking the encrypted protocol.
// It serves a fixed record set and records every write it receives.
type TestServer struct {
	server *httptest.Server
	cipher *Cipher

	mu          sync.Mutex
	records     []map[string]any
	writes      []map[string]any
	failDetails map[string]bool
	rejectWrite bool
	delay       time.Duration

	inFlight  atomic.Int32
	overlaps  atomic.Int32
	exchanges atomic.Int32
}

func NewTestServer(euid string, records ...map[string]any) *TestServer {
	c, err := NewCipher(euid)
	if err != nil {
		panic(err)
	}
	s := &TestServer{cipher: c, records: records, failDetails: map[string]bool{}}
	mux := http.NewServeMux()
	mux.HandleFunc("POST /deviceid/{command}", s.handleDeviceId)
	mux.HandleFunc("GET /", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("UGE600"))
	})
	s.server = httptest.NewServer(mux)
	return s
}

func (s *TestServer) Close() {
	s.server.Close()
}

// HostPort returns the host and port the server listens on.
func (s *TestServer) HostPort() (string, int) {
	u, _ := url.Parse(s.server.URL)
	host, port, _ := net.SplitHostPort(u.Host)
	p, _ := strconv.Atoi(port)
	return host, p
}

func (s *TestServer) SetRecords(records ...map[string]any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = records
}

// FailDetailsFor makes any deviceid exchange that includes uniID answer with garbage.
func (s *TestServer) FailDetailsFor(uniID string, fail bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failDetails[uniID] = fail
}

func (s *TestServer) RejectWrites(reject bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rejectWrite = reject
}

func (s *TestServer) SetDelay(delay time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.delay = delay
}

// Writes returns the decrypted bodies of every write request received so far.
func (s *TestServer) Writes() []map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]map[string]any, len(s.writes))
	copy(out, s.writes)
	return out
}

// Overlaps counts requests that arrived while another one was being served.
func (s *TestServer) Overlaps() int {
	return int(s.overlaps.Load())
}

func (s *TestServer) Exchanges() int {
	return int(s.exchanges.Load())
}

func (s *TestServer) handleDeviceId(w http.ResponseWriter, r *http.Request) {
	if s.inFlight.Add(1) > 1 {
		s.overlaps.Add(1)
	}
	defer s.inFlight.Add(-1)
	s.exchanges.Add(1)

	s.mu.Lock()
	delay := s.delay
	s.mu.Unlock()
	if delay > 0 {
		time.Sleep(delay)
	}

	raw, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	plain, err := s.cipher.Decrypt(raw)
	if err != nil {
		// a gateway answers requests framed with a foreign key with plain text
		_, _ = w.Write([]byte("bad request"))
		return
	}
	var req struct {
		RequestAttr string            `json:"requestAttr"`
		Id          []json.RawMessage `json:"id"`
	}
	if err := json.Unmarshal(plain, &req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	switch req.RequestAttr {
	case requestAttrReadAll:
		s.mu.Lock()
		records := s.records
		s.mu.Unlock()
		s.reply(w, statusSuccess, records)
	case requestAttrDeviceId:
		s.replyDetails(w, req.Id)
	case requestAttrWrite:
		s.mu.Lock()
		reject := s.rejectWrite
		for _, entry := range req.Id {
			var m map[string]any
			if json.Unmarshal(entry, &m) == nil {
				s.writes = append(s.writes, m)
			}
		}
		s.mu.Unlock()
		if reject {
			s.reply(w, "failed", nil)
			return
		}
		s.reply(w, statusSuccess, nil)
	default:
		s.reply(w, "failed", nil)
	}
}

func (s *TestServer) replyDetails(w http.ResponseWriter, refs []json.RawMessage) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []map[string]any
	for _, ref := range refs {
		var wanted struct {
			Data json.RawMessage `json:"data"`
		}
		if err := json.Unmarshal(ref, &wanted); err != nil {
			continue
		}
		var id deviceData
		_ = json.Unmarshal(wanted.Data, &id)
		if s.failDetails[id.UniID] {
			_, _ = w.Write([]byte("garbage!"))
			return
		}
		for _, rec := range s.records {
			if sameData(rec["data"], wanted.Data) {
				out = append(out, rec)
			}
		}
	}
	s.reply(w, statusSuccess, out)
}

func (s *TestServer) reply(w http.ResponseWriter, status string, records []map[string]any) {
	if records == nil {
		records = []map[string]any{}
	}
	body, err := json.Marshal(map[string]any{"status": status, "id": records})
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	_, _ = w.Write(s.cipher.Encrypt(body))
}

func sameData(stored any, wanted json.RawMessage) bool {
	a, err := json.Marshal(stored)
	if err != nil {
		return false
	}
	var decoded any
	if err := json.Unmarshal(wanted, &decoded); err != nil {
		return false
	}
	b, err := json.Marshal(decoded)
	if err != nil {
		return false
	}
	return string(a) == string(b)
}

// Record fixtures

func FixtureRecord(uniID string, endpoint int, groups map[string]any) map[string]any {
	rec := map[string]any{"data": map[string]any{"UniID": uniID, "Endpoint": endpoint}}
	for k, v := range groups {
		rec[k] = v
	}
	return rec
}

func FixtureGateway(mac string) map[string]any {
	return map[string]any{
		"data":     map[string]any{"UniID": mac},
		"sGateway": map[string]any{"NetworkLANMAC": mac, "ModelIdentifier": "UGE600"},
		"sOTA":     map[string]any{"OTAFirmwareVersion_d": "1.2.3"},
	}
}

func FixtureThermostat(uniID string, holdType int) map[string]any {
	return FixtureRecord(uniID, 1, map[string]any{
		"sIT600TH": map[string]any{
			"LocalTemperature_x100": 2150,
			"HeatingSetpoint_x100":  2200,
			"MaxHeatSetpoint_x100":  3500,
			"MinHeatSetpoint_x100":  500,
			"HoldType":              holdType,
			"RunningState":          1,
			"BatteryLevel":          4,
		},
		"sZDO":     map[string]any{"DeviceName": `{"deviceName":"Living room"}`, "FirmwareVersion": "0x0300"},
		"sZDOInfo": map[string]any{"OnlineStatus_i": 1},
		"DeviceL":  map[string]any{"ModelIdentifier_i": "VS20WRF"},
	})
}

func FixtureSwitch(uniID string, endpoint int, on bool) map[string]any {
	state := 0
	if on {
		state = 1
	}
	return FixtureRecord(uniID, endpoint, map[string]any{
		"sOnOffS":  map[string]any{"OnOff": state},
		"sZDOInfo": map[string]any{"OnlineStatus_i": 1},
		"DeviceL":  map[string]any{"ModelIdentifier_i": "SPE600"},
	})
}

func FixtureCover(uniID string, current int, moveToLevel string) map[string]any {
	return FixtureRecord(uniID, 1, map[string]any{
		"sLevelS":  map[string]any{"CurrentLevel": current, "MoveToLevel_f": moveToLevel},
		"sZDOInfo": map[string]any{"OnlineStatus_i": 1},
		"DeviceL":  map[string]any{"ModelIdentifier_i": "RS600"},
	})
}

func FixtureWindowSensor(uniID string, alarmed bool) map[string]any {
	state := 0
	if alarmed {
		state = 1
	}
	return FixtureRecord(uniID, 1, map[string]any{
		"sIASZS":   map[string]any{"ErrorIASZSAlarmed1": state},
		"sZDOInfo": map[string]any{"OnlineStatus_i": 1},
		"DeviceL":  map[string]any{"ModelIdentifier_i": "SW600"},
	})
}

func FixtureTemperatureSensor(uniID string, valueX100 int) map[string]any {
	return FixtureRecord(uniID, 1, map[string]any{
		"sTempS":   map[string]any{"MeasuredValue_x100": valueX100},
		"sZDOInfo": map[string]any{"OnlineStatus_i": 1},
		"DeviceL":  map[string]any{"ModelIdentifier_i": "PS600"},
	})
}
