package domain

import "errors"

// Sentinel errors returned by construction and lookup helpers across the
// domain package. The engine never recovers from these silently: invalid
// input is reported at construction time per the error-handling design.
var (
	ErrUnknownDriver    = errors.New("domain: unknown driver id")
	ErrUnknownTrack     = errors.New("domain: unknown track id")
	ErrNoSectors        = errors.New("domain: track has no sectors")
	ErrSectorGap        = errors.New("domain: sectors do not contiguously cover the lap")
	ErrInvalidDistance  = errors.New("domain: total distance must be positive")
	ErrInvalidPitLane   = errors.New("domain: pit lane speed limit must be positive")
	ErrNoDrivers        = errors.New("domain: race requires at least one driver")
	ErrDuplicateDriver  = errors.New("domain: duplicate driver id")
)
