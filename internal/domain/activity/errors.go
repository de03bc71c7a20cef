package activity

import "errors"

var (
	ErrActivityNotFound = errors.New("activity not found")
	ErrNotOwner         = errors.New("not the activity owner")
	ErrInvalidDates     = errors.New("dateEnd must not precede dateBegin")
)
