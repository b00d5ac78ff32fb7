package utils

import "errors"

var (
	ErrInvalidInput     = errors.New("invalid input")
	ErrInvalidDays      = errors.New("days must be between 1 and 10")
	ErrInvalidBudget    = errors.New("budget per day must be a positive number")
	ErrInvalidMaxPerDay = errors.New("max poi per day must be between 1 and 10")
	ErrUnknownStrategy  = errors.New("unknown sequencing strategy")
	ErrDatabaseError    = errors.New("database error")
)
