package models

import "errors"

// Custom errors
var (
	ErrInvalidOdds      = errors.New("odds must be greater than 1.0")
	ErrInvalidLine      = errors.New("line must be a finite number")
	ErrMissingSelection = errors.New("selection is required")
	ErrMissingBookmaker = errors.New("bookmaker is required")
	ErrInsufficientData = errors.New("insufficient data for analysis")
	ErrNotFound         = errors.New("record not found")
	ErrDuplicateKey     = errors.New("duplicate key violation")
	ErrUnknownSport     = errors.New("sport is not configured")
	ErrUnknownLeague    = errors.New("league is not configured")
	ErrUnknownMarket    = errors.New("market is not configured")
)
