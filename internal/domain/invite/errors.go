package invite

import "errors"

var (
	ErrInviteNotFound = errors.New("invite not found")
	ErrExpired        = errors.New("invite has expired")
	ErrAlreadyUsed    = errors.New("invite already used")
	ErrNotInviter     = errors.New("only the inviter may send this invite")
	ErrMailFailed     = errors.New("invite email delivery failed")
)
