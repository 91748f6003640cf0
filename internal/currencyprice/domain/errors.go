package domain

import "errors"

var (
	ErrUnknownCurrency = errors.New("unknown_currency")
	ErrInvalidCurrency = errors.New("invalid_currency")
	ErrInvalidAmount   = errors.New("invalid_amount")
	ErrInvalidField    = errors.New("invalid_field")
	ErrInvalidOwner    = errors.New("invalid_owner")
)
