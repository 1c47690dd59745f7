// Package ingest receives bottle telemetry from the broker and feeds it to the
// hydration core, one message at a time per device.
package ingest

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

var (
	ErrMalformedPayload = errors.New("malformed payload")
	ErrUnknownDataType  = errors.New("unknown data type")
	ErrInvalidValue     = errors.New("invalid value")
)

const (
	DataTypeWeight     = "weight"
	DataTypeIsPickedUp = "is_picked_up"

	fieldSeparator = "|"
)

// Event is a decoded telemetry message, either a WeightSample or a
// DockStatusChanged.
type Event interface {
	Device() string
	isEvent()
}

type WeightSample struct {
	DeviceID  string
	RawWeight float64
}

func (e WeightSample) Device() string { return e.DeviceID }
func (WeightSample) isEvent()         {}

type DockStatusChanged struct {
	DeviceID   string
	IsPickedUp bool
}

func (e DockStatusChanged) Device() string { return e.DeviceID }
func (DockStatusChanged) isEvent()         {}

// Message is one delivery from the transport.
type Message struct {
	Topic     string
	Payload   []byte
	Duplicate bool
}

// Decode parses "<deviceID>|<dataType>|<value>". The device id and data type
// are taken verbatim, an empty or padded id is left for the registry to
// reject. Whitespace around the value, a trailing newline included, is
// ignored.
func Decode(msg Message) (Event, error) {
	fields := strings.Split(string(msg.Payload), fieldSeparator)
	if len(fields) != 3 {
		return nil, fmt.Errorf("%w: expected 3 fields, got %d", ErrMalformedPayload, len(fields))
	}

	deviceID := fields[0]
	dataType := fields[1]
	value := strings.TrimSpace(fields[2])

	switch dataType {
	case DataTypeWeight:
		weight, err := strconv.ParseFloat(value, 64)
		if err != nil || math.IsNaN(weight) || math.IsInf(weight, 0) {
			return nil, fmt.Errorf("%w: weight %q", ErrInvalidValue, value)
		}
		return WeightSample{DeviceID: deviceID, RawWeight: weight}, nil

	case DataTypeIsPickedUp:
		flag, err := strconv.Atoi(value)
		if err != nil || (flag != 0 && flag != 1) {
			return nil, fmt.Errorf("%w: is_picked_up %q", ErrInvalidValue, value)
		}
		return DockStatusChanged{DeviceID: deviceID, IsPickedUp: flag == 1}, nil

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDataType, dataType)
	}
}
