package push

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/netsentinel/netsentinel/internal/backend"
	"github.com/netsentinel/netsentinel/internal/errors"
	"github.com/netsentinel/netsentinel/internal/logger"
)

// fakeMessage implements mqtt.Message.
type fakeMessage struct {
	topic   string
	payload []byte
}

func (m fakeMessage) Duplicate() bool   { return false }
func (m fakeMessage) Qos() byte         { return 0 }
func (m fakeMessage) Retained() bool    { return false }
func (m fakeMessage) Topic() string     { return m.topic }
func (m fakeMessage) MessageID() uint16 { return 1 }
func (m fakeMessage) Payload() []byte   { return m.payload }
func (m fakeMessage) Ack()              {}

func TestNewMQTTSource_Defaults(t *testing.T) {
	src, err := NewMQTTSource(MQTTConfig{Broker: "127.0.0.1:1883"}, nil)
	require.NoError(t, err)

	cfg := src.Config()
	assert.Equal(t, "tcp://127.0.0.1:1883", cfg.Broker)
	assert.Equal(t, DefaultTopic, cfg.Topic)
	assert.True(t, strings.HasPrefix(cfg.ClientID, "netsentinel-"))
	assert.NotZero(t, cfg.ConnectTimeout)
}

func TestNewMQTTSource_KeepsExplicitScheme(t *testing.T) {
	src, err := NewMQTTSource(MQTTConfig{Broker: "ws://broker:9001", Topic: "t", ClientID: "me"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "ws://broker:9001", src.Config().Broker)
	assert.Equal(t, "me", src.Config().ClientID)
}

func TestNewMQTTSource_RequiresBroker(t *testing.T) {
	_, err := NewMQTTSource(MQTTConfig{Broker: "  "}, nil)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrPush))
}

func TestMQTTSource_HandleDecodesPayload(t *testing.T) {
	log := logger.NewBufferLogger()
	src, err := NewMQTTSource(MQTTConfig{Broker: "tcp://localhost:1883"}, log)
	require.NoError(t, err)
	ch, err := src.r.subscribe()
	require.NoError(t, err)

	src.handle(nil, fakeMessage{topic: DefaultTopic, payload: []byte(`{"ping":42,"quality":"fair","enabled":true}`)})
	src.handle(nil, fakeMessage{topic: DefaultTopic, payload: []byte(`garbage`)})

	ev := <-ch
	assert.Equal(t, 42.0, ev.Ping)
	assert.Equal(t, backend.QualityFair, ev.Quality)
	assert.Len(t, ch, 0, "malformed payload is dropped")
	assert.True(t, log.Contains("warn", "malformed"))
}

func TestMQTTSource_SubscribeHonorsCanceledContext(t *testing.T) {
	// Port 1 on localhost refuses quickly; a canceled context must win either way.
	src, err := NewMQTTSource(MQTTConfig{Broker: "tcp://127.0.0.1:1"}, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = src.Subscribe(ctx)
	require.Error(t, err)
	require.NoError(t, src.Close())
}

func TestMQTTSource_CloseWithoutSubscribe(t *testing.T) {
	src, err := NewMQTTSource(MQTTConfig{Broker: "tcp://localhost:1883"}, nil)
	require.NoError(t, err)
	assert.NoError(t, src.Close())
	assert.NoError(t, src.Close())
}
