package domain

import "errors"

var (
	ErrCurrencyNotFound = errors.New("currency_not_found")
	ErrNotFound         = errors.New("not_found")
	ErrInvalidKind      = errors.New("invalid_entity_kind")
	ErrInvalidID        = errors.New("invalid_id")
	ErrInvalidName      = errors.New("invalid_name")
	ErrInvalidAmount    = errors.New("invalid_amount")
)
