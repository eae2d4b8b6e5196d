package risk

import "errors"

// Service errors
var (
	ErrInvalidTransaction = errors.New("invalid transaction")
)
