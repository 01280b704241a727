package models

import "errors"

// Custom errors
var (
	ErrSourceUnavailable = errors.New("source unavailable")
	ErrNoData            = errors.New("no statistics available")
	ErrTeamNotFound      = errors.New("team not found")
	ErrInvalidOdds       = errors.New("invalid american odds")
)
