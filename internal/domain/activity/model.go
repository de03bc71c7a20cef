package activity

import "time"

type Activity struct {
	ID         string     `gorm:"type:uuid;primaryKey"`
	Name       string     `gorm:"not null"`
	Place      string
	DateBegin  time.Time  `gorm:"not null;index"`
	DateEnd    *time.Time
	Reminder   *time.Time
	Note       string
	Color      string
	Validation bool
	OwnerID    string    `gorm:"type:uuid;not null;index"`
	CreatedAt  time.Time `gorm:"autoCreateTime"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime"`

	Tasks      []Task      `gorm:"foreignKey:ActivityID;references:ID;constraint:OnDelete:CASCADE"`
	Recurrence *Recurrence `gorm:"foreignKey:ActivityID;references:ID;constraint:OnDelete:CASCADE"`

	// MemberIDs is loaded from the activity_members join table; the owner is
	// always part of the set.
	MemberIDs []string `gorm:"-"`
}

func (Activity) TableName() string { return "activities" }

func (a *Activity) HasMember(memberID string) bool {
	for _, id := range a.MemberIDs {
		if id == memberID {
			return true
		}
	}
	return false
}

type Task struct {
	ID         string `gorm:"type:uuid;primaryKey"`
	ActivityID string `gorm:"type:uuid;not null;index"`
	Name       string `gorm:"not null"`
	IsOk       bool
	Position   int
}

func (Task) TableName() string { return "tasks" }

// Recurrence describes a weekly repeat window. At most one per activity,
// replaced wholesale on every activity update.
type Recurrence struct {
	ID         string    `gorm:"type:uuid;primaryKey"`
	ActivityID string    `gorm:"type:uuid;not null;uniqueIndex"`
	DateBegin  time.Time
	DateEnd    time.Time
	Monday     bool
	Tuesday    bool
	Wednesday  bool
	Thursday   bool
	Friday     bool
	Saturday   bool
	Sunday     bool
}

func (Recurrence) TableName() string { return "recurrences" }
