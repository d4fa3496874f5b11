package repository

import "errors"

// Sentinel kinds for store errors.
var (
	ErrConnect        = errors.New("connect to track store failed")
	ErrStorage        = errors.New("track store unavailable")
	ErrUnknownBackend = errors.New("unknown track store backend")
)
