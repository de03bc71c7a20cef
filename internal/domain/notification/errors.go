package notification

import "errors"

var (
	ErrNotificationNotFound = errors.New("notification not found")
	// ErrNotParticipant is returned when no pending invitation exists for the
	// member/activity pair, including second responses to an already answered
	// invitation.
	ErrNotParticipant = errors.New("not a participant of this activity")
)
