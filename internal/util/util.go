package util

import (
	"github.com/berfenger/salus2mqtt/internal/config"

	"go.uber.org/zap"
)

func LoadTestConfig() config.Config {
	return config.Config{
		LogLevel: zap.DebugLevel,
		Gateway: config.GatewayConfig{
			Host:                 "127.0.0.1",
			Port:                 80,
			EUID:                 "001E5E0D32906128",
			RequestTimeoutMillis: 2000,
		},
		MQTT: config.MQTTConfig{
			Host:             "localhost",
			Port:             1883,
			BaseTopic:        "salus",
			HADiscoveryTopic: "homeassistant",
		},
		MonitorConfig: config.MonitorConfig{
			PollIntervalMillis: 5000,
			PollAfterCommand:   true,
		},
		Port: 8080,
	}
}
