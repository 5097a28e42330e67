package config

import (
	"errors"
	"log/slog"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const EnvPrefix = "salus2mqtt"

type Config struct {
	LogLevel      zapcore.Level
	Gateway       GatewayConfig `mapstructure:"gateway"`
	MQTT          MQTTConfig    `mapstructure:"mqtt"`
	MonitorConfig MonitorConfig `mapstructure:"monitor"`
	Port          uint          `mapstructure:"port"`
	HttpLog       bool          `mapstructure:"http_log"`
}

type GatewayConfig struct {
	Host                 string
	Port                 uint
	EUID                 string `mapstructure:"euid"`
	RequestTimeoutMillis uint32 `mapstructure:"request_timeout_millis"`
}

func (c GatewayConfig) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutMillis) * time.Millisecond
}

// TaskTimeout bounds a full poll: one readall plus one detail read per device type.
func (c GatewayConfig) TaskTimeout() time.Duration {
	return 6 * c.RequestTimeout()
}

type MonitorConfig struct {
	PollIntervalMillis uint32 `mapstructure:"poll_interval_millis"`
	PollAfterCommand   bool   `mapstructure:"poll_after_command"`
}

func (c MonitorConfig) PollInterval() time.Duration {
	return time.Duration(c.PollIntervalMillis) * time.Millisecond
}

type MQTTConfig struct {
	Host                   string
	Port                   int
	Username               string
	Password               string
	BaseTopic              string `mapstructure:"base_topic"`
	HADiscoveryEnable      bool   `mapstructure:"ha_discovery_enable"`
	HADiscoveryTopic       string `mapstructure:"ha_discovery_topic"`
	HADiscoveryRefreshCron string `mapstructure:"ha_discovery_refresh_cron"`
}

func SetDefaults(v *viper.Viper) {
	v.SetDefault("log_level", "warn")
	v.SetDefault("gateway.port", 80)
	v.SetDefault("gateway.request_timeout_millis", 5000)
	v.SetDefault("monitor.poll_interval_millis", 30000)
	v.SetDefault("monitor.poll_after_command", true)
	v.SetDefault("mqtt.base_topic", "salus")
	v.SetDefault("mqtt.ha_discovery_enable", false)
	v.SetDefault("mqtt.ha_discovery_topic", "homeassistant")
	v.SetDefault("mqtt.ha_discovery_refresh_cron", "0 0 * * * *")
	v.SetDefault("port", 8080)
	v.SetDefault("http_log", false)
}

// Load reads the configuration from the environment and, when set, from the
// YAML file named by CONFIG_FILE or the viper config file.
func Load(v *viper.Viper) (*Config, error) {

	// alias PORT => SALUS2MQTT_PORT
	if port := os.Getenv("PORT"); port != "" {
		os.Setenv(strings.ToUpper(EnvPrefix)+"_PORT", port)
	}

	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindEnv(v)

	// if defined, try to load config from yaml file
	if cfgFile := os.Getenv("CONFIG_FILE"); cfgFile != "" && v.ConfigFileUsed() == "" {
		if _, err := os.Stat(cfgFile); err == nil {
			slog.Info("Using config", "file", cfgFile)
			v.SetConfigFile(cfgFile)
		}
	}
	if v.ConfigFileUsed() != "" {
		if err := v.ReadInConfig(); err != nil {
			slog.Error("Error reading config file", "error", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	cfg.LogLevel = ParseLogLevel(v.GetString("log_level"))

	if cfg.Gateway.Host == "" {
		return nil, errors.New("config param gateway.host is required")
	}
	if cfg.Gateway.EUID == "" {
		return nil, errors.New("config param gateway.euid is required")
	}
	if cfg.Gateway.RequestTimeoutMillis < 100 {
		return nil, errors.New("config param gateway.request_timeout_millis should be >= 100")
	}

	// check and fix base topic
	baseTopic, err := CheckMQTTTopic(cfg.MQTT.BaseTopic)
	if err != nil {
		return nil, errors.New("invalid base topic. can only contain letters, numbers and underscores")
	}
	cfg.MQTT.BaseTopic = baseTopic

	// check and fix homeassistant discovery topic
	hadBaseTopic, err := CheckMQTTTopic(cfg.MQTT.HADiscoveryTopic)
	if err != nil {
		return nil, errors.New("invalid homeassistant discovery topic. can only contain letters, numbers and underscores")
	}
	cfg.MQTT.HADiscoveryTopic = hadBaseTopic

	if cfg.MonitorConfig.PollIntervalMillis < 1000 {
		return nil, errors.New("config param monitor.poll_interval_millis should be >= 1000")
	}

	return &cfg, nil
}

// nested keys are only resolved from the environment once viper knows them
func bindEnv(v *viper.Viper) {
	for _, key := range []string{"gateway.host", "gateway.euid", "mqtt.host", "mqtt.port", "mqtt.username", "mqtt.password"} {
		_ = v.BindEnv(key)
	}
}

func ParseLogLevel(level string) zapcore.Level {
	switch level {
	case "trace", "debug":
		return zap.DebugLevel
	case "info":
		return zap.InfoLevel
	case "warn":
		return zap.WarnLevel
	case "error":
		return zap.ErrorLevel
	case "fatal":
		return zap.FatalLevel
	default:
		return zap.InfoLevel
	}
}

// Redacted returns a copy of the config that is safe to print.
func (c Config) Redacted() Config {
	c.MQTT.Username = "*redacted*"
	c.MQTT.Password = "*redacted*"
	c.Gateway.EUID = "*redacted*"
	return c
}

func CheckMQTTTopic(baseTopic string) (string, error) {
	// check and fix base topic
	lowerBaseTopic := strings.ToLower(baseTopic)
	baseTopicRegexp := regexp.MustCompile("^[a-z0-9_]+$")
	if !baseTopicRegexp.MatchString(lowerBaseTopic) {
		return "", errors.New("invalid topic. can only contain letters, numbers and underscores")
	}
	return lowerBaseTopic, nil
}
