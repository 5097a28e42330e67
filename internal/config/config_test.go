package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("SALUS2MQTT_GATEWAY_HOST", "192.168.1.20")
	t.Setenv("SALUS2MQTT_GATEWAY_EUID", "001E5E0D32906128")
	t.Setenv("SALUS2MQTT_MQTT_BASE_TOPIC", "Salus_Home")
	t.Setenv("SALUS2MQTT_LOG_LEVEL", "debug")
	t.Setenv("PORT", "9090")
	t.Setenv("SALUS2MQTT_PORT", "")

	cfg, err := Load(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "192.168.1.20", cfg.Gateway.Host)
	assert.Equal(t, "001E5E0D32906128", cfg.Gateway.EUID)
	assert.Equal(t, uint(80), cfg.Gateway.Port)
	assert.Equal(t, uint32(5000), cfg.Gateway.RequestTimeoutMillis)
	assert.Equal(t, "salus_home", cfg.MQTT.BaseTopic)
	assert.Equal(t, "homeassistant", cfg.MQTT.HADiscoveryTopic)
	assert.Equal(t, "0 0 * * * *", cfg.MQTT.HADiscoveryRefreshCron)
	assert.Equal(t, uint32(30000), cfg.MonitorConfig.PollIntervalMillis)
	assert.True(t, cfg.MonitorConfig.PollAfterCommand)
	assert.Equal(t, uint(9090), cfg.Port)
	assert.Equal(t, zap.DebugLevel, cfg.LogLevel)
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
gateway:
  host: salus.lan
  euid: 001E5E0D32906128
  port: 8080
monitor:
  poll_interval_millis: 10000
mqtt:
  host: broker.lan
  port: 1883
  ha_discovery_enable: true
`), 0o600))
	t.Setenv("CONFIG_FILE", path)

	cfg, err := Load(viper.New())
	require.NoError(t, err)
	assert.Equal(t, "salus.lan", cfg.Gateway.Host)
	assert.Equal(t, uint(8080), cfg.Gateway.Port)
	assert.Equal(t, uint32(10000), cfg.MonitorConfig.PollIntervalMillis)
	assert.Equal(t, "broker.lan", cfg.MQTT.Host)
	assert.True(t, cfg.MQTT.HADiscoveryEnable)
}

func TestLoadValidation(t *testing.T) {
	_, err := Load(viper.New())
	assert.ErrorContains(t, err, "gateway.host")

	t.Setenv("SALUS2MQTT_GATEWAY_HOST", "192.168.1.20")
	_, err = Load(viper.New())
	assert.ErrorContains(t, err, "gateway.euid")

	t.Setenv("SALUS2MQTT_GATEWAY_EUID", "001E5E0D32906128")
	t.Setenv("SALUS2MQTT_MONITOR_POLL_INTERVAL_MILLIS", "500")
	_, err = Load(viper.New())
	assert.ErrorContains(t, err, "poll_interval_millis")

	t.Setenv("SALUS2MQTT_MONITOR_POLL_INTERVAL_MILLIS", "5000")
	t.Setenv("SALUS2MQTT_MQTT_BASE_TOPIC", "salus/home")
	_, err = Load(viper.New())
	assert.ErrorContains(t, err, "base topic")
}

func TestRedacted(t *testing.T) {
	cfg := Config{
		Gateway: GatewayConfig{Host: "salus.lan", EUID: "001E5E0D32906128"},
		MQTT:    MQTTConfig{Username: "user", Password: "secret"},
	}
	redacted := cfg.Redacted()

	assert.Equal(t, "*redacted*", redacted.Gateway.EUID)
	assert.Equal(t, "*redacted*", redacted.MQTT.Password)
	assert.Equal(t, "salus.lan", redacted.Gateway.Host)
	assert.Equal(t, "secret", cfg.MQTT.Password)
}

func TestCheckMQTTTopic(t *testing.T) {
	topic, err := CheckMQTTTopic("Salus")
	require.NoError(t, err)
	assert.Equal(t, "salus", topic)

	_, err = CheckMQTTTopic("salus/#")
	assert.Error(t, err)
	_, err = CheckMQTTTopic("")
	assert.Error(t, err)
}
