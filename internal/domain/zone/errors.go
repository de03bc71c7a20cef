package zone

import "errors"

var (
	ErrZoneNotFound  = errors.New("zone not found")
	ErrNotAuthorized = errors.New("not authorized on zone")
	ErrInvalidLevel  = errors.New("invalid authorization level")
)
