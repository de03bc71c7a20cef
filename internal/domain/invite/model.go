package invite

import "time"

const (
	StatusPending  = "pending"
	StatusAccepted = "accepted"
	StatusRejected = "rejected"
	StatusExpired  = "expired"
)

// Invite is a token-based cross-account invitation, distinct from the in-app
// activity invitations handled by the notification engine. pending is the only
// non-terminal status.
type Invite struct {
	ID        string    `gorm:"type:uuid;primaryKey"`
	InviterID string    `gorm:"type:uuid;not null;index:idx_invites_pair,unique"`
	InvitedID string    `gorm:"type:uuid;not null;index:idx_invites_pair,unique"`
	Email     string    `gorm:"not null"`
	Token     string    `gorm:"not null;uniqueIndex"`
	Status    string    `gorm:"type:varchar(16);not null;default:pending;index"`
	InvitedAt time.Time `gorm:"autoCreateTime"`
	ExpiresAt time.Time `gorm:"not null;index"`
}

func (Invite) TableName() string { return "invites" }

func (i *Invite) Expired(now time.Time) bool {
	return now.After(i.ExpiresAt)
}

// Projection is the public shape returned by the unauthenticated token lookup.
type Projection struct {
	Token     string    `json:"token"`
	InvitedID string    `json:"invitedId"`
	Email     string    `json:"emailAddress"`
	InvitedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

func (i *Invite) Project() Projection {
	return Projection{
		Token:     i.Token,
		InvitedID: i.InvitedID,
		Email:     i.Email,
		InvitedAt: i.InvitedAt,
		ExpiresAt: i.ExpiresAt,
	}
}
