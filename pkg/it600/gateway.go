package it600

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"math"
	"net/http"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// Gateway is a client for a single UG600/UGE600 gateway. All exchanges are
// serialized; getters read the last published snapshot and never block on
// in-flight requests.
type Gateway struct {
	host       string
	port       int
	timeout    time.Duration
	httpClient *http.Client
	cipher     *Cipher
	transport  *transport
	gate       *requestGate
	logger     *zap.Logger
	instrument []Instrument

	gatewayInfo   atomic.Pointer[GatewayInfo]
	climate       atomic.Pointer[map[string]Climate]
	binarySensors atomic.Pointer[map[string]BinarySensor]
	switches      atomic.Pointer[map[string]Switch]
	covers        atomic.Pointer[map[string]Cover]
	sensors       atomic.Pointer[map[string]Sensor]
}

type Option func(*Gateway)

func WithPort(port int) Option {
	return func(g *Gateway) {
		if port > 0 {
			g.port = port
		}
	}
}

func WithRequestTimeout(timeout time.Duration) Option {
	return func(g *Gateway) {
		if timeout > 0 {
			g.timeout = timeout
		}
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(g *Gateway) {
		if logger != nil {
			g.logger = logger
		}
	}
}

func WithHTTPClient(client *http.Client) Option {
	return func(g *Gateway) {
		if client != nil {
			g.httpClient = client
		}
	}
}

func WithInstrument(instrument ...Instrument) Option {
	return func(g *Gateway) {
		g.instrument = append(g.instrument, instrument...)
	}
}

func New(host, euid string, opts ...Option) (*Gateway, error) {
	if host == "" {
		return nil, validationError("gateway host is required")
	}
	if euid == "" {
		return nil, validationError("gateway EUID is required")
	}
	c, err := NewCipher(euid)
	if err != nil {
		return nil, err
	}
	g := &Gateway{
		host:       host,
		port:       DefaultPort,
		timeout:    DefaultRequestTimeout,
		httpClient: &http.Client{},
		cipher:     c,
		gate:       newRequestGate(),
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(g)
	}
	g.transport = newTransport(g.httpClient, g.host, g.port, g.timeout)
	g.logger = g.logger.With(zap.String("gateway", g.host))

	g.climate.Store(&map[string]Climate{})
	g.binarySensors.Store(&map[string]BinarySensor{})
	g.switches.Store(&map[string]Switch{})
	g.covers.Store(&map[string]Cover{})
	g.sensors.Store(&map[string]Sensor{})
	return g, nil
}

// Connect validates host and EUID and returns the gateway LAN MAC address.
func (g *Gateway) Connect(ctx context.Context) (string, error) {
	env, err := g.exchange(ctx, commandRead, readAllRequest{RequestAttr: requestAttrReadAll})
	if err != nil {
		if !errors.Is(err, ErrConnection) {
			return "", err
		}
		// no explicit credential status exists, disambiguate with a plain HTTP probe
		if perr := g.transport.probe(ctx); perr == nil {
			g.logger.Warn("gateway reachable but response unreadable", zap.Error(err))
			return "", fmt.Errorf("%w: check if EUID is correct (%v)", ErrAuthentication, err)
		}
		return "", connectionError("check if host/IP address is correct", err)
	}

	for _, rec := range g.parseRecords(env.Id, bucketGateway) {
		if mac := rec.gatewayMAC(); mac != "" {
			return mac, nil
		}
	}
	return "", commandError("gateway response did not contain gateway information")
}

// PollStatus refreshes every device map. A failed readall leaves every map
// untouched and its error is returned as is. A failed detail exchange only
// keeps that bucket's previous map; the other buckets are still refreshed and
// the failures are reported together as a *PollError.
func (g *Gateway) PollStatus(ctx context.Context) error {
	env, err := g.exchange(ctx, commandRead, readAllRequest{RequestAttr: requestAttrReadAll})
	if err != nil {
		return err
	}
	buckets := partition(g.parseRecords(env.Id, bucketNone))

	for _, rec := range buckets[bucketGateway] {
		info, err := decodeGateway(rec)
		if err == nil {
			g.gatewayInfo.Store(&info)
		}
	}

	failed := map[bucket]error{
		bucketClimate:      refreshBucket(ctx, g, bucketClimate, buckets[bucketClimate], decodeClimate, &g.climate),
		bucketBinarySensor: refreshBucket(ctx, g, bucketBinarySensor, buckets[bucketBinarySensor], decodeBinarySensor, &g.binarySensors),
		bucketSensor:       refreshBucket(ctx, g, bucketSensor, buckets[bucketSensor], decodeSensor, &g.sensors),
		bucketSwitch:       refreshBucket(ctx, g, bucketSwitch, buckets[bucketSwitch], decodeSwitch, &g.switches),
		bucketCover:        refreshBucket(ctx, g, bucketCover, buckets[bucketCover], decodeCover, &g.covers),
	}
	return pollError(failed)
}

func pollError(failed map[bucket]error) error {
	var pollErr PollError
	var errs []error
	for b := bucketClimate; b <= bucketCover; b++ {
		if err := failed[b]; err != nil {
			pollErr.Buckets = append(pollErr.Buckets, b.String())
			errs = append(errs, err)
		}
	}
	if len(errs) == 0 {
		return nil
	}
	pollErr.Err = errors.Join(errs...)
	return &pollErr
}

type keyed interface {
	Climate | BinarySensor | Switch | Cover | Sensor
}

func uniqueIdOf[T keyed](device T) string {
	switch d := any(device).(type) {
	case Climate:
		return d.UniqueId
	case BinarySensor:
		return d.UniqueId
	case Switch:
		return d.UniqueId
	case Cover:
		return d.UniqueId
	case Sensor:
		return d.UniqueId
	}
	return ""
}

// refreshBucket decodes the detail records of one bucket into a new map and
// swaps it in. Records that fail to decode are logged and skipped.
func refreshBucket[T keyed](ctx context.Context, g *Gateway, b bucket, records []*deviceRecord,
	decode func(*deviceRecord) (T, error), target *atomic.Pointer[map[string]T]) error {
	devices := make(map[string]T, len(records))
	if len(records) > 0 {
		detailed, err := g.readDetails(ctx, b, records)
		if err != nil {
			g.logger.Error("detail exchange failed, keeping previous devices", zap.Stringer("bucket", b), zap.Error(err))
			return fmt.Errorf("%s: %w", b, err)
		}
		skipped := 0
		for _, rec := range detailed {
			if rec.uniqueId() == "" {
				skipped++
				continue
			}
			device, err := decode(rec)
			if err != nil {
				skipped++
				if !errors.Is(err, errSkipRecord) {
					g.logger.Warn("could not decode device", zap.Stringer("bucket", b), zap.String("id", rec.uniqueId()), zap.Error(err))
				}
				continue
			}
			devices[uniqueIdOf(device)] = device
		}
		recordDecode(b, len(devices), skipped, g.instrument)
	}
	target.Store(&devices)
	return nil
}

func (g *Gateway) readDetails(ctx context.Context, b bucket, records []*deviceRecord) ([]*deviceRecord, error) {
	refs := make([]dataRef, 0, len(records))
	for _, r := range records {
		refs = append(refs, dataRef{Data: r.Data})
	}
	env, err := g.exchange(ctx, commandRead, deviceIdRequest{RequestAttr: requestAttrDeviceId, Id: refs})
	if err != nil {
		return nil, err
	}
	return g.parseRecords(env.Id, b), nil
}

func (g *Gateway) parseRecords(raw []json.RawMessage, b bucket) []*deviceRecord {
	records := make([]*deviceRecord, 0, len(raw))
	for i := range raw {
		rec, err := parseRecord(raw[i])
		if err != nil {
			g.logger.Warn("could not parse device record", zap.Stringer("bucket", b), zap.Int("index", i), zap.Error(err))
			continue
		}
		records = append(records, rec)
	}
	return records
}

// exchange runs one framed request/response round trip while holding the gate.
func (g *Gateway) exchange(ctx context.Context, command string, body any) (_ *responseEnvelope, err error) {
	plain, err := marshalBody(body)
	if err != nil {
		return nil, err
	}

	if err := g.gate.acquire(ctx); err != nil {
		return nil, fmt.Errorf("waiting for gateway: %w", err)
	}
	defer g.gate.release()

	done := recordExchange(command, g.instrument)
	defer func() { done(err) }()

	g.logger.Debug("gateway request", zap.String("command", command), zap.ByteString("body", plain))
	raw, err := g.transport.send(ctx, command, g.cipher.Encrypt(plain))
	if err != nil {
		return nil, err
	}
	decrypted, err := g.cipher.Decrypt(raw)
	if err != nil {
		return nil, connectionError("could not decrypt gateway response", err)
	}
	g.logger.Debug("gateway response", zap.String("command", command), zap.ByteString("body", decrypted))

	var env responseEnvelope
	if err := json.Unmarshal(decrypted, &env); err != nil {
		return nil, connectionError("could not parse gateway response", err)
	}
	if env.Status != statusSuccess {
		return nil, commandError("gateway rejected '%s' command", command)
	}
	return &env, nil
}

func (g *Gateway) write(ctx context.Context, entry writeEntry) error {
	_, err := g.exchange(ctx, commandWrite, writeRequest{RequestAttr: requestAttrWrite, Id: []writeEntry{entry}})
	return err
}

// Getters

func (g *Gateway) GatewayDevice() *GatewayInfo {
	info := g.gatewayInfo.Load()
	if info == nil {
		return nil
	}
	cp := *info
	return &cp
}

func (g *Gateway) ClimateDevices() map[string]Climate {
	return maps.Clone(*g.climate.Load())
}

func (g *Gateway) ClimateDevice(id string) (Climate, bool) {
	c, ok := (*g.climate.Load())[id]
	return c, ok
}

func (g *Gateway) BinarySensorDevices() map[string]BinarySensor {
	return maps.Clone(*g.binarySensors.Load())
}

func (g *Gateway) BinarySensorDevice(id string) (BinarySensor, bool) {
	d, ok := (*g.binarySensors.Load())[id]
	return d, ok
}

func (g *Gateway) SwitchDevices() map[string]Switch {
	return maps.Clone(*g.switches.Load())
}

func (g *Gateway) SwitchDevice(id string) (Switch, bool) {
	d, ok := (*g.switches.Load())[id]
	return d, ok
}

func (g *Gateway) CoverDevices() map[string]Cover {
	return maps.Clone(*g.covers.Load())
}

func (g *Gateway) CoverDevice(id string) (Cover, bool) {
	d, ok := (*g.covers.Load())[id]
	return d, ok
}

func (g *Gateway) SensorDevices() map[string]Sensor {
	return maps.Clone(*g.sensors.Load())
}

func (g *Gateway) SensorDevice(id string) (Sensor, bool) {
	d, ok := (*g.sensors.Load())[id]
	return d, ok
}

func (g *Gateway) Snapshot() Snapshot {
	return Snapshot{
		Gateway:       g.GatewayDevice(),
		Climate:       g.ClimateDevices(),
		BinarySensors: g.BinarySensorDevices(),
		Switches:      g.SwitchDevices(),
		Covers:        g.CoverDevices(),
		Sensors:       g.SensorDevices(),
	}
}

// Commands

func (g *Gateway) SetClimateTemperature(ctx context.Context, id string, temperature float64) error {
	if math.IsNaN(temperature) || math.IsInf(temperature, 0) {
		return validationError("temperature must be a finite number: %v", temperature)
	}
	c, ok := g.ClimateDevice(id)
	if !ok {
		return commandError("climate device not found: %s", id)
	}
	return g.write(ctx, encodeClimateTemperature(c, temperature))
}

// SetClimateMode sets the HVAC mode. Standard family thermostats can only be
// switched off or back on; heat and auto both clear the off hold.
func (g *Gateway) SetClimateMode(ctx context.Context, id string, mode HVACMode) error {
	c, ok := g.ClimateDevice(id)
	if !ok {
		return commandError("climate device not found: %s", id)
	}
	return g.write(ctx, encodeClimateMode(c, mode))
}

func (g *Gateway) SetClimatePreset(ctx context.Context, id string, preset PresetMode) error {
	c, ok := g.ClimateDevice(id)
	if !ok {
		return commandError("climate device not found: %s", id)
	}
	return g.write(ctx, encodeClimatePreset(c, preset))
}

func (g *Gateway) SetClimateFanMode(ctx context.Context, id string, mode FanMode) error {
	c, ok := g.ClimateDevice(id)
	if !ok {
		return commandError("climate device not found: %s", id)
	}
	if c.Family != FamilyDualMode {
		return commandError("climate device %s does not support fan modes", id)
	}
	return g.write(ctx, encodeClimateFanMode(c, mode))
}

func (g *Gateway) TurnOnSwitch(ctx context.Context, id string) error {
	return g.setSwitch(ctx, id, true)
}

func (g *Gateway) TurnOffSwitch(ctx context.Context, id string) error {
	return g.setSwitch(ctx, id, false)
}

func (g *Gateway) setSwitch(ctx context.Context, id string, on bool) error {
	s, ok := g.SwitchDevice(id)
	if !ok {
		return commandError("switch device not found: %s", id)
	}
	return g.write(ctx, encodeSwitch(s, on))
}

// SetCoverPosition moves a cover to position (0 closed, 100 open).
func (g *Gateway) SetCoverPosition(ctx context.Context, id string, position int) error {
	if err := validateCoverPosition(position); err != nil {
		return err
	}
	c, ok := g.CoverDevice(id)
	if !ok {
		return commandError("cover device not found: %s", id)
	}
	return g.write(ctx, encodeCoverPosition(c, position))
}

func (g *Gateway) OpenCover(ctx context.Context, id string) error {
	return g.SetCoverPosition(ctx, id, 100)
}

func (g *Gateway) CloseCover(ctx context.Context, id string) error {
	return g.SetCoverPosition(ctx, id, 0)
}
