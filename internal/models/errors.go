package models

import "errors"

// Custom errors
var (
	ErrNetworkFailure     = errors.New("network failure at acquisition boundary")
	ErrUnrecognizedShape  = errors.New("upstream response shape not recognized")
	ErrInvalidGameSet     = errors.New("game set failed validity check")
	ErrNoReferenceTeams   = errors.New("no reference teams configured for sport")
	ErrSportNotConfigured = errors.New("sport not configured")
)
