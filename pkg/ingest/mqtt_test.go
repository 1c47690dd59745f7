package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type stubMQTTMessage struct {
	topic     string
	payload   []byte
	duplicate bool
}

func (m *stubMQTTMessage) Duplicate() bool   { return m.duplicate }
func (m *stubMQTTMessage) Qos() byte         { return 1 }
func (m *stubMQTTMessage) Retained() bool    { return false }
func (m *stubMQTTMessage) Topic() string     { return m.topic }
func (m *stubMQTTMessage) MessageID() uint16 { return 1 }
func (m *stubMQTTMessage) Payload() []byte   { return m.payload }
func (m *stubMQTTMessage) Ack()              {}

func TestMessageOfCopiesPayload(t *testing.T) {
	buf := []byte("D1|weight|650")
	msg := messageOf(&stubMQTTMessage{topic: testTopic, payload: buf, duplicate: true})

	// paho reuses the buffer once the callback returns
	copy(buf, "XX|weight|000")

	assert.Equal(t, testTopic, msg.Topic)
	assert.True(t, msg.Duplicate)
	assert.Equal(t, "D1|weight|650", string(msg.Payload))

	event, err := Decode(msg)
	assert.NoError(t, err)
	assert.Equal(t, WeightSample{DeviceID: "D1", RawWeight: 650}, event)
}
