package service

import "errors"

var (
	ErrSessionNotFound     = errors.New("session not found")
	ErrPlayerNotFound      = errors.New("player not found")
	ErrTransactionNotFound = errors.New("player is not part of this session")
	ErrSessionCompleted    = errors.New("session is completed and can no longer be modified")
	ErrSessionUnbalanced   = errors.New("session cannot be completed until total buy-ins equal total cash-outs")
	ErrLocationRequired    = errors.New("location is required")
	ErrNameRequired        = errors.New("name is required")
	ErrPlayerExists        = errors.New("a player with that name already exists")
	ErrInvalidAmount       = errors.New("invalid amount")
	ErrInvalidDuration     = errors.New("duration must not be negative")
	ErrInvalidDate         = errors.New("invalid session date")
	ErrInvalidImport       = errors.New("invalid import data")
)
