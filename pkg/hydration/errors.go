package hydration

import (
	"errors"
	"fmt"
)

var (
	// ErrDeviceNotFound means no user owns the referenced sensor.
	ErrDeviceNotFound = errors.New("device not found")

	// ErrTareUnknown means the owner has not configured a bottle weight yet.
	// It is a DeviceNotFound for classification purposes.
	ErrTareUnknown = fmt.Errorf("%w: bottle weight not configured", ErrDeviceNotFound)

	ErrPersistence = errors.New("persistence error")

	ErrUserNotFound      = errors.New("user not found")
	ErrUnknownField      = errors.New("unknown profile field")
	ErrInvalidFieldValue = errors.New("invalid profile field value")
	ErrDuplicateDevice   = errors.New("sensor id already registered")
)
