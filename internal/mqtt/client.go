package mqtt

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"regexp"
	"time"

	"github.com/berfenger/salus2mqtt/internal/config"
	"github.com/berfenger/salus2mqtt/internal/core/domain"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

const (
	MQTT_PAYLOAD_ONLINE  = "online"
	MQTT_PAYLOAD_OFFLINE = "offline"
	MQTT_PAYLOAD_ON      = "on"
	MQTT_PAYLOAD_OFF     = "off"
)

var ErrNotACommand = errors.New("not a command topic")

func OptsFromConfig(cfg *config.Config) *mqtt.ClientOptions {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(fmt.Sprintf("tcp://%s:%d", cfg.MQTT.Host, cfg.MQTT.Port))
	opts.SetClientID(fmt.Sprintf("salus2mqtt_%d", rand.IntN(1000)))
	if cfg.MQTT.Username != "" && cfg.MQTT.Password != "" {
		opts.SetUsername(cfg.MQTT.Username)
		opts.SetPassword(cfg.MQTT.Password)
	}
	opts.SetAutoReconnect(false)
	opts.WillEnabled = true
	opts.WillPayload = []byte(MQTT_PAYLOAD_OFFLINE)
	opts.WillRetained = true
	opts.WillTopic = bridgeStateTopic(cfg.MQTT.BaseTopic)
	opts.WillQos = 0

	return opts
}

func CreateMQTTClient(cfg *config.Config, opts *mqtt.ClientOptions, onConnectHandler func(client mqtt.Client),
	onConnectionLostHandler func(mqtt.Client, error)) *MQTTClient {
	if onConnectHandler != nil {
		opts.OnConnect = onConnectHandler
	}
	if onConnectionLostHandler != nil {
		opts.OnConnectionLost = onConnectionLostHandler
	}
	return &MQTTClient{
		client:  mqtt.NewClient(opts),
		cfg:     cfg.MQTT,
		parsers: commandParsers(cfg.MQTT.BaseTopic),
	}
}

type MQTTClient struct {
	client  mqtt.Client
	cfg     config.MQTTConfig
	parsers []commandParser
}

// ParsedMQTTCommand is a command topic split into its parts.
// Attribute is empty for switch commands.
type ParsedMQTTCommand struct {
	Kind      string
	DeviceId  string
	Attribute string
	Payload   string
}

type commandParser struct {
	kind    string
	pattern *regexp.Regexp
}

func (c *MQTTClient) baseTopic() string {
	return c.cfg.BaseTopic
}

func (c *MQTTClient) BridgeStateTopic() string {
	return bridgeStateTopic(c.baseTopic())
}

// StateTopic returns <base>/<kind>/<id>/<attr>, or <base>/bridge/<attr> for bridge entities.
func (c *MQTTClient) StateTopic(kind, id, attr string) string {
	if kind == domain.KIND_BRIDGE {
		return fmt.Sprintf("%s/%s/%s", c.baseTopic(), domain.KIND_BRIDGE, attr)
	}
	return fmt.Sprintf("%s/%s/%s/%s", c.baseTopic(), kind, id, attr)
}

func (c *MQTTClient) AvailabilityTopic(kind, id string) string {
	return c.StateTopic(kind, id, domain.ATTR_AVAILABILITY)
}

func (c *MQTTClient) SwitchCommandTopic(id string) string {
	return fmt.Sprintf("%s/%s/%s/command", c.baseTopic(), domain.KIND_SWITCH, id)
}

func (c *MQTTClient) ClimateCommandTopic(id, attr string) string {
	return fmt.Sprintf("%s/%s/%s/%s/set", c.baseTopic(), domain.KIND_CLIMATE, id, attr)
}

func (c *MQTTClient) CoverCommandTopic(id string) string {
	return fmt.Sprintf("%s/%s/%s/set", c.baseTopic(), domain.KIND_COVER, id)
}

func (c *MQTTClient) CoverPositionCommandTopic(id string) string {
	return fmt.Sprintf("%s/%s/%s/set_position", c.baseTopic(), domain.KIND_COVER, id)
}

func (c *MQTTClient) ParseMQTTCommand(msg mqtt.Message) (*ParsedMQTTCommand, error) {
	return c.ParseCommandTopic(msg.Topic(), string(msg.Payload()))
}

func (c *MQTTClient) ParseCommandTopic(topic, payload string) (*ParsedMQTTCommand, error) {
	for _, p := range c.parsers {
		matches := p.pattern.FindStringSubmatch(topic)
		if matches == nil {
			continue
		}
		cmd := &ParsedMQTTCommand{
			Kind:     p.kind,
			DeviceId: matches[1],
			Payload:  payload,
		}
		if len(matches) > 2 {
			cmd.Attribute = matches[2]
		}
		return cmd, nil
	}
	return nil, ErrNotACommand
}

func (c *MQTTClient) Publish(topic string, payload any, qos byte, retain bool, continuation func(error), timeout time.Duration) {
	waitToken(c.client.Publish(topic, qos, retain, payload), "publish", continuation, timeout)
}

func (c *MQTTClient) Subscribe(topic string, qos byte, handler mqtt.MessageHandler, continuation func(error), timeout time.Duration) {
	waitToken(c.client.Subscribe(topic, qos, handler), "subscribe", continuation, timeout)
}

func (c *MQTTClient) SubscribeToCommandTopic(handler mqtt.MessageHandler, continuation func(error), timeout time.Duration) {
	c.Subscribe(c.commandTopic(), 1, handler, continuation, timeout)
}

func (c *MQTTClient) Unsubscribe(topic string, continuation func(error), timeout time.Duration) {
	waitToken(c.client.Unsubscribe(topic), "unsubscribe", continuation, timeout)
}

func (c *MQTTClient) Connect(continuation func(error), timeout time.Duration) {
	waitToken(c.client.Connect(), "connect", continuation, timeout)
}

func (c *MQTTClient) IsConnected() bool {
	return c.client.IsConnectionOpen()
}

func (c *MQTTClient) Disconnect(timeout time.Duration) {
	c.client.Disconnect(uint(timeout.Milliseconds()))
}

func (c *MQTTClient) commandTopic() string {
	return fmt.Sprintf("%s/#", c.baseTopic())
}

// waitToken waits for token off the caller goroutine and reports the outcome.
func waitToken(token mqtt.Token, op string, continuation func(error), timeout time.Duration) {
	go func() {
		if !token.WaitTimeout(timeout) {
			continuation(fmt.Errorf("MQTT %s timed out", op))
			return
		}
		continuation(token.Error())
	}()
}

func commandParsers(baseTopic string) []commandParser {
	base := regexp.QuoteMeta(baseTopic)
	return []commandParser{
		{
			kind:    domain.KIND_SWITCH,
			pattern: regexp.MustCompile(fmt.Sprintf("^%s/switch/([^/]+)/command$", base)),
		},
		{
			kind:    domain.KIND_CLIMATE,
			pattern: regexp.MustCompile(fmt.Sprintf("^%s/climate/([^/]+)/([a-z_]+)/set$", base)),
		},
		{
			kind:    domain.KIND_COVER,
			pattern: regexp.MustCompile(fmt.Sprintf("^%s/cover/([^/]+)/(set|set_position)$", base)),
		},
	}
}

func bridgeStateTopic(baseTopic string) string {
	return fmt.Sprintf("%s/bridge/state", baseTopic)
}
