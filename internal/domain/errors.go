package domain

import "errors"

var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidQuote = errors.New("invalid quote")
	ErrInvalidStake = errors.New("invalid stake")
	ErrNoProviders  = errors.New("no providers allowed")
	ErrNoSource     = errors.New("no quote source configured")
)
