package limitcalc

import "errors"

var (
	ErrUnknownStrategy = errors.New("unknown strategy")
	ErrEmptyFunction   = errors.New("function is empty")
	ErrVariable        = errors.New("invalid variable name")
	ErrNotFinite       = errors.New("value is not finite")
)
