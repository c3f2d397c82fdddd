package adapter

import "errors"

var (
	// ErrConfiguration is returned when merchant settings are missing or unusable.
	ErrConfiguration = errors.New("configuration error")
	// ErrValidation is returned when order data cannot be mapped to gateway fields.
	ErrValidation = errors.New("validation error")
	// ErrProtocol is returned when a gateway notification is structurally malformed.
	ErrProtocol = errors.New("protocol error")
)
