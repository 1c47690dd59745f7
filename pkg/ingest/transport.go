package ingest

import (
	"context"
	"fmt"
	"strconv"
)

// Handler is called once per delivered message. msg.Payload is owned by the
// handler and may be retained after it returns.
type Handler func(msg Message)

// Transport is a broker connection owned by a single Loop.
type Transport interface {
	Connect(ctx context.Context) error
	// Subscribe returns once the broker acknowledged the subscription.
	Subscribe(ctx context.Context, topic string, qos byte, handler Handler) error
	// Done delivers the error that ended an established connection.
	Done() <-chan error
	Close() error
}

type Publisher interface {
	Publish(ctx context.Context, topic string, qos byte, payload []byte) error
}

// LedMode selects one of the bottle's ring animations.
type LedMode int

const (
	LedModeOff LedMode = iota
	LedModeBooting
	LedModeError
	LedModeGoalReached
	LedModeReminder
	LedModeAlert
)

const maxLedMode = LedModeAlert

func (m LedMode) Valid() bool {
	return m >= LedModeOff && m <= maxLedMode
}

// LedPublisher sends animation commands to a bottle on "<topic format % deviceID>".
type LedPublisher struct {
	Publisher   Publisher
	TopicFormat string
	QoS         byte
}

func (p *LedPublisher) SetLedMode(ctx context.Context, deviceID string, mode LedMode) error {
	if !mode.Valid() {
		return fmt.Errorf("%w: led mode %d", ErrInvalidValue, mode)
	}
	topic := fmt.Sprintf(p.TopicFormat, deviceID)
	return p.Publisher.Publish(ctx, topic, p.QoS, []byte(strconv.Itoa(int(mode))))
}
