package domain

import "errors"

var (
	ErrInvalidPhoneNumber = errors.New("invalid recipient number")
	ErrSessionNotFound    = errors.New("session not found")
	ErrScheduleNotFound   = errors.New("schedule table not found")
)
