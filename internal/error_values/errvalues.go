package errorvalues

import "errors"

var (
	ErrUserExists       = errors.New("such user already exists")
	ErrUserNotFound     = errors.New("user doesn't exists")
	ErrWrongCredentials = errors.New("wrong name or password")
	ErrInvalidToken     = errors.New("invalid token")

	// No blob stored yet under (user, kind); callers start from defaults.
	ErrStateNotFound = errors.New("no stored state for key")

	ErrUnknownOutcome = errors.New("unknown bet outcome")
	ErrUnknownKind    = errors.New("unknown post kind")
)
