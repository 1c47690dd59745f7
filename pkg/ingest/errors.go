package ingest

import (
	"errors"

	"liyu1981.xyz/water-intake-service/pkg/hydration"
)

// Kind is the outcome of handling one message.
type Kind string

const (
	KindOK               Kind = "ok"
	KindMalformedPayload Kind = "malformed_payload"
	KindUnknownDataType  Kind = "unknown_data_type"
	KindInvalidValue     Kind = "invalid_value"
	KindDeviceNotFound   Kind = "device_not_found"
	KindPersistenceError Kind = "persistence_error"
)

// Kinds lists every outcome in reporting order.
var Kinds = []Kind{
	KindOK,
	KindMalformedPayload,
	KindUnknownDataType,
	KindInvalidValue,
	KindDeviceNotFound,
	KindPersistenceError,
}

// Classify maps err onto the closed outcome set. Anything unrecognised is
// treated as a store fault.
func Classify(err error) Kind {
	switch {
	case err == nil:
		return KindOK
	case errors.Is(err, ErrMalformedPayload):
		return KindMalformedPayload
	case errors.Is(err, ErrUnknownDataType):
		return KindUnknownDataType
	case errors.Is(err, ErrInvalidValue):
		return KindInvalidValue
	case errors.Is(err, hydration.ErrDeviceNotFound):
		return KindDeviceNotFound
	default:
		return KindPersistenceError
	}
}
