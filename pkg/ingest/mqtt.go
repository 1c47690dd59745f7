package ingest

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"go.uber.org/zap"
	"liyu1981.xyz/water-intake-service/pkg/common"
	"liyu1981.xyz/water-intake-service/pkg/config"
)

var ErrTransportTimeout = errors.New("mqtt operation timed out")

// MQTTTransport is a paho client. Messages are delivered to the handler in
// broker order, and the client does not reconnect on its own.
type MQTTTransport struct {
	client  mqtt.Client
	timeout time.Duration
	lost    chan error

	closeOnce sync.Once
}

func NewMQTTTransport(cfg config.MQTTConfig, clientID string) *MQTTTransport {
	t := &MQTTTransport{
		timeout: cfg.ConnectTimeout,
		lost:    make(chan error, 1),
	}
	if t.timeout <= 0 {
		t.timeout = 10 * time.Second
	}

	opts := mqtt.NewClientOptions().
		AddBroker(cfg.Broker).
		SetClientID(clientID).
		SetConnectTimeout(t.timeout).
		SetAutoReconnect(false).
		SetConnectRetry(false).
		SetOrderMatters(true).
		SetCleanSession(true).
		SetConnectionLostHandler(t.onConnectionLost)
	if cfg.Username != "" {
		opts.SetUsername(cfg.Username).SetPassword(cfg.Password)
	}

	t.client = mqtt.NewClient(opts)
	return t
}

func (t *MQTTTransport) logger() *zap.Logger {
	return common.GetLoggerWith(
		common.LoggerNameIngestLoop,
		zap.String(common.LoggerFieldCategory, common.LoggerCategoryTransport),
	)
}

func (t *MQTTTransport) onConnectionLost(_ mqtt.Client, err error) {
	t.logger().Error("Lost connection to broker", zap.Error(err))
	select {
	case t.lost <- err:
	default:
	}
}

func (t *MQTTTransport) wait(ctx context.Context, token mqtt.Token, op string) error {
	timer := time.NewTimer(t.timeout)
	defer timer.Stop()

	select {
	case <-token.Done():
		if err := token.Error(); err != nil {
			return fmt.Errorf("mqtt %s: %w", op, err)
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return fmt.Errorf("mqtt %s: %w", op, ErrTransportTimeout)
	}
}

func (t *MQTTTransport) Connect(ctx context.Context) error {
	opts := t.client.OptionsReader()
	t.logger().Info("Connecting to broker",
		zap.Stringer("broker", opts.Servers()[0]),
		zap.String("client_id", opts.ClientID()),
	)
	return t.wait(ctx, t.client.Connect(), "connect")
}

func (t *MQTTTransport) Subscribe(ctx context.Context, topic string, qos byte, handler Handler) error {
	token := t.client.Subscribe(topic, qos, func(_ mqtt.Client, m mqtt.Message) {
		handler(messageOf(m))
	})
	if err := t.wait(ctx, token, "subscribe"); err != nil {
		return err
	}

	if st, ok := token.(*mqtt.SubscribeToken); ok {
		// 0x80 is the broker refusing the subscription
		if granted, found := st.Result()[topic]; found && granted == 0x80 {
			return fmt.Errorf("mqtt subscribe: broker rejected %s", topic)
		}
	}

	t.logger().Info("Subscribed to topic", zap.String("topic", topic), zap.Uint8("qos", qos))
	return nil
}

// messageOf copies the payload out of the paho buffer, handlers queue it.
func messageOf(m mqtt.Message) Message {
	return Message{
		Topic:     m.Topic(),
		Payload:   append([]byte(nil), m.Payload()...),
		Duplicate: m.Duplicate(),
	}
}

func (t *MQTTTransport) Publish(ctx context.Context, topic string, qos byte, payload []byte) error {
	if !t.client.IsConnectionOpen() {
		return fmt.Errorf("mqtt publish: not connected")
	}
	return t.wait(ctx, t.client.Publish(topic, qos, false, payload), "publish")
}

func (t *MQTTTransport) Done() <-chan error {
	return t.lost
}

func (t *MQTTTransport) Close() error {
	t.closeOnce.Do(func() {
		if t.client.IsConnected() {
			t.client.Disconnect(250)
		}
	})
	return nil
}
