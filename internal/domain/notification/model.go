package notification

import "time"

const (
	TypeInfo       = "info"
	TypeReminder   = "reminder"
	TypeInvitation = "invitation"

	CriticalityLow    = "low"
	CriticalityMedium = "medium"
	CriticalityHigh   = "high"

	StatusPending = "pending"
	StatusRead    = "read"
	StatusDone    = "done"
)

// Notification is an in-app record driving UI badges and, for reminders, push
// delivery. The per-kind payload is normalized into typed columns instead of
// an open meta bag: ReminderAt/PushSent for reminders, RespondedAt/Accepted
// for answered invitations.
type Notification struct {
	ID          string     `gorm:"type:uuid;primaryKey"`
	MemberID    string     `gorm:"type:uuid;not null;index:idx_notifications_member_status"`
	ActivityID  *string    `gorm:"type:uuid;index"`
	SenderID    *string    `gorm:"type:uuid"`
	Type        string     `gorm:"type:varchar(16);not null"`
	Message     string     `gorm:"not null"`
	Criticality string     `gorm:"type:varchar(8)"`
	Status      string     `gorm:"type:varchar(8);not null;default:pending;index:idx_notifications_member_status"`
	ReminderAt  *time.Time
	PushSent    bool
	RespondedAt *time.Time
	Accepted    *bool
	CreatedAt   time.Time `gorm:"autoCreateTime"`
}

func (Notification) TableName() string { return "notifications" }
