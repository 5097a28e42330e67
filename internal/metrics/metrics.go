package metrics

import (
	"errors"
	"net/http"
	"time"

	"github.com/berfenger/salus2mqtt/pkg/it600"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "salus"

// Metrics holds the collectors of one bridge on a dedicated registry.
type Metrics struct {
	registry *prometheus.Registry

	exchangeDuration *prometheus.HistogramVec
	exchangeErrors   *prometheus.CounterVec
	decodedDevices   *prometheus.GaugeVec
	skippedRecords   *prometheus.GaugeVec
	commands         *prometheus.CounterVec
	polls            *prometheus.CounterVec
	connectionFailed prometheus.Gauge
	lastRefresh      prometheus.Gauge

	climateTemperature *prometheus.GaugeVec
	climateTarget      *prometheus.GaugeVec
	sensorTemperature  *prometheus.GaugeVec
	deviceAvailable    *prometheus.GaugeVec
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		exchangeDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "gateway_exchange_duration_seconds",
			Help:      "Duration of encrypted exchanges with the gateway",
			Buckets:   []float64{.05, .1, .25, .5, 1, 2, 5},
		}, []string{"command"}),
		exchangeErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "gateway_exchange_errors_total",
			Help:      "Failed exchanges with the gateway by error class",
		}, []string{"command", "class"}),
		decodedDevices: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "gateway_devices",
			Help:      "Devices decoded in the last poll by type",
		}, []string{"type"}),
		skippedRecords: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "gateway_skipped_records",
			Help:      "Records skipped in the last poll by type",
		}, []string{"type"}),
		commands: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "gateway_commands_total",
			Help:      "Commands sent to the gateway",
		}, []string{"command", "result"}),
		polls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "gateway_polls_total",
			Help:      "Status polls by result",
		}, []string{"result"}),
		connectionFailed: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "gateway_connection_failure",
			Help:      "1 when the last poll failed with a connection error",
		}),
		lastRefresh: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "gateway_last_refresh_timestamp_seconds",
			Help:      "Unix time of the last successful poll",
		}),
		climateTemperature: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "climate_current_temperature_celsius",
			Help:      "Current temperature reported by a thermostat",
		}, []string{"id", "name"}),
		climateTarget: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "climate_target_temperature_celsius",
			Help:      "Target temperature of a thermostat",
		}, []string{"id", "name"}),
		sensorTemperature: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "sensor_temperature_celsius",
			Help:      "Temperature reported by a temperature sensor",
		}, []string{"id", "name"}),
		deviceAvailable: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "device_available",
			Help:      "1 when the device is reported online by the gateway",
		}, []string{"type", "id"}),
	}
	m.registry.MustRegister(
		m.exchangeDuration,
		m.exchangeErrors,
		m.decodedDevices,
		m.skippedRecords,
		m.commands,
		m.polls,
		m.connectionFailed,
		m.lastRefresh,
		m.climateTemperature,
		m.climateTarget,
		m.sensorTemperature,
		m.deviceAvailable,
	)
	return m
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Instrument returns the hooks to register on an it600.Gateway.
func (m *Metrics) Instrument() it600.Instrument {
	return it600.Instrument{
		RecordExchange: func(command string, d time.Duration, err error) {
			m.exchangeDuration.WithLabelValues(command).Observe(d.Seconds())
			if err != nil {
				m.exchangeErrors.WithLabelValues(command, ErrorClass(err)).Inc()
			}
		},
		RecordDecode: func(bucket string, decoded, skipped int) {
			m.decodedDevices.WithLabelValues(bucket).Set(float64(decoded))
			m.skippedRecords.WithLabelValues(bucket).Set(float64(skipped))
		},
	}
}

func (m *Metrics) RecordCommand(command string, err error) {
	result := "ok"
	if err != nil {
		result = ErrorClass(err)
	}
	m.commands.WithLabelValues(command, result).Inc()
}

func (m *Metrics) RecordPoll(err error) {
	if err != nil {
		m.polls.WithLabelValues(ErrorClass(err)).Inc()
		switch {
		case it600.IsPartialPollError(err):
			m.connectionFailed.Set(0)
		case it600.IsConnectionError(err):
			m.connectionFailed.Set(1)
		}
		return
	}
	m.polls.WithLabelValues("ok").Inc()
	m.connectionFailed.Set(0)
	m.lastRefresh.SetToCurrentTime()
}

// RecordSnapshot exports the per device readings of a snapshot.
func (m *Metrics) RecordSnapshot(snapshot it600.Snapshot) {
	m.climateTemperature.Reset()
	m.climateTarget.Reset()
	m.sensorTemperature.Reset()
	m.deviceAvailable.Reset()

	for id, c := range snapshot.Climate {
		m.climateTemperature.WithLabelValues(id, c.Name).Set(c.CurrentTemperature)
		m.climateTarget.WithLabelValues(id, c.Name).Set(c.TargetTemperature)
		m.deviceAvailable.WithLabelValues("climate", id).Set(boolValue(c.Available))
	}
	for id, s := range snapshot.Sensors {
		m.sensorTemperature.WithLabelValues(id, s.Name).Set(s.State)
		m.deviceAvailable.WithLabelValues("sensor", id).Set(boolValue(s.Available))
	}
	for id, s := range snapshot.BinarySensors {
		m.deviceAvailable.WithLabelValues("binary_sensor", id).Set(boolValue(s.Available))
	}
	for id, s := range snapshot.Switches {
		m.deviceAvailable.WithLabelValues("switch", id).Set(boolValue(s.Available))
	}
	for id, c := range snapshot.Covers {
		m.deviceAvailable.WithLabelValues("cover", id).Set(boolValue(c.Available))
	}
}

// ErrorClass maps an error to the label used by the error counters.
func ErrorClass(err error) string {
	switch {
	case it600.IsPartialPollError(err):
		return "partial"
	case errors.Is(err, it600.ErrAuthentication):
		return "authentication"
	case errors.Is(err, it600.ErrConnection):
		return "connection"
	case errors.Is(err, it600.ErrValidation):
		return "validation"
	case errors.Is(err, it600.ErrCommand):
		return "command"
	default:
		return "other"
	}
}

func boolValue(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
