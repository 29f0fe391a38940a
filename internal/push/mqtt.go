package push

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/netsentinel/netsentinel/internal/backend"
	"github.com/netsentinel/netsentinel/internal/errors"
	"github.com/netsentinel/netsentinel/internal/logger"
)

// MQTTConfig configures an MQTTSource.
type MQTTConfig struct {
	// Broker is a URL such as tcp://127.0.0.1:1883. A bare host:port gets
	// the tcp:// scheme.
	Broker   string
	Topic    string
	ClientID string
	// ConnectTimeout bounds the initial connect. Zero means 10s.
	ConnectTimeout time.Duration
}

// MQTTSource subscribes to the backend's overlay topic on an MQTT broker.
// The broker connection is opened lazily by Subscribe and auto-reconnects;
// the topic is re-subscribed on every (re)connect.
type MQTTSource struct {
	cfg    MQTTConfig
	log    logger.Logger
	r      *relay
	client mqtt.Client
	once   sync.Once
}

// NewMQTTSource validates cfg and returns an unconnected source.
func NewMQTTSource(cfg MQTTConfig, log logger.Logger) (*MQTTSource, error) {
	if strings.TrimSpace(cfg.Broker) == "" {
		return nil, errors.New(errors.ErrPush, "No MQTT broker configured",
			"Set push.broker in netsentinel.yaml or pass --broker")
	}
	if !strings.Contains(cfg.Broker, "://") {
		cfg.Broker = "tcp://" + cfg.Broker
	}
	if cfg.Topic == "" {
		cfg.Topic = DefaultTopic
	}
	if cfg.ClientID == "" {
		host, _ := os.Hostname()
		cfg.ClientID = fmt.Sprintf("netsentinel-%s-%d", host, time.Now().Unix())
	}
	if cfg.ConnectTimeout <= 0 {
		cfg.ConnectTimeout = 10 * time.Second
	}
	if log == nil {
		log = logger.Noop()
	}
	return &MQTTSource{cfg: cfg, log: log, r: newRelay()}, nil
}

// Config returns the effective configuration.
func (s *MQTTSource) Config() MQTTConfig {
	return s.cfg
}

// Subscribe connects to the broker and registers the topic handler.
func (s *MQTTSource) Subscribe(ctx context.Context) (<-chan backend.OverlayEvent, error) {
	ch, err := s.r.subscribe()
	if err != nil {
		return nil, err
	}

	opts := mqtt.NewClientOptions()
	opts.AddBroker(s.cfg.Broker)
	opts.SetClientID(s.cfg.ClientID)
	opts.SetKeepAlive(60 * time.Second)
	opts.SetPingTimeout(10 * time.Second)
	opts.SetConnectTimeout(s.cfg.ConnectTimeout)
	opts.SetAutoReconnect(true)
	opts.SetMaxReconnectInterval(time.Minute)
	opts.SetOnConnectHandler(s.onConnect)
	opts.SetConnectionLostHandler(s.onConnectionLost)

	s.client = mqtt.NewClient(opts)
	s.log.Debug("push: connecting to %s", s.cfg.Broker)

	token := s.client.Connect()
	select {
	case <-token.Done():
	case <-ctx.Done():
		_ = s.Close()
		return nil, ctx.Err()
	}
	if err := token.Error(); err != nil {
		_ = s.Close()
		return nil, errors.WrapWithCode(err, errors.ErrPush,
			fmt.Sprintf("Couldn't connect to MQTT broker %s", s.cfg.Broker),
			"The overlay falls back to your settings until the broker is reachable")
	}
	return ch, nil
}

func (s *MQTTSource) onConnect(client mqtt.Client) {
	token := client.Subscribe(s.cfg.Topic, 0, s.handle)
	if token.Wait() && token.Error() != nil {
		s.log.Warn("push: subscribe to %s failed: %v", s.cfg.Topic, token.Error())
		return
	}
	s.log.Debug("push: subscribed to %s", s.cfg.Topic)
}

func (s *MQTTSource) onConnectionLost(_ mqtt.Client, err error) {
	s.log.Warn("push: connection lost, reconnecting: %v", err)
}

func (s *MQTTSource) handle(_ mqtt.Client, msg mqtt.Message) {
	ev, err := backend.DecodeOverlayEvent(msg.Payload())
	if err != nil {
		s.log.Warn("push: dropping malformed event on %s: %v", msg.Topic(), err)
		return
	}
	s.r.deliver(ev)
}

// Close unsubscribes, disconnects and closes the event channel.
func (s *MQTTSource) Close() error {
	s.once.Do(func() {
		if s.client != nil && s.client.IsConnected() {
			s.client.Unsubscribe(s.cfg.Topic).WaitTimeout(250 * time.Millisecond)
			s.client.Disconnect(250)
		}
		s.r.close()
	})
	return nil
}

var _ Source = (*MQTTSource)(nil)
