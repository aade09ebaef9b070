package models

import "errors"

var (
	ErrMalformedOrder     = errors.New("malformed order record")
	ErrUnknownTemperature = errors.New("unknown temperature")
	ErrAlreadyStamped     = errors.New("order already stamped")
	ErrInvalidConfig      = errors.New("invalid config")
)
