package types

import "errors"

// Lookup errors.
var (
	ErrTableNotFound  = errors.New("table does not exist")
	ErrRecordNotFound = errors.New("record does not exist")
)

// Input and schema errors.
var (
	ErrInvalidID       = errors.New("invalid ID")
	ErrInvalidValue    = errors.New("invalid field value")
	ErrInvalidSchema   = errors.New("invalid table schema")
	ErrDuplicateTable  = errors.New("duplicate table ID")
	ErrDuplicateField  = errors.New("duplicate field ID")
	ErrDuplicateRecord = errors.New("duplicate record ID")
	ErrNotLinkField    = errors.New("field is not a link field")
	ErrTypeMismatch    = errors.New("type mismatch")
	ErrIDExhausted     = errors.New("could not generate a unique record ID")
)
