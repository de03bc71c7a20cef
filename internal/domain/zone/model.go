package zone

import "time"

const (
	LevelRead  = "read"
	LevelWrite = "write"
	LevelAdmin = "admin"
)

type Zone struct {
	ID        string    `gorm:"type:uuid;primaryKey"`
	Name      string    `gorm:"not null"`
	Color     string
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`

	Authorizations []Authorization `gorm:"foreignKey:ZoneID;references:ID;constraint:OnDelete:CASCADE"`
}

func (Zone) TableName() string { return "zones" }

// Authorization grants a member a level on a zone. Any level makes the zone
// visible; write gates zone edits; admin gates grants and deletion.
type Authorization struct {
	ZoneID    string    `gorm:"type:uuid;primaryKey"`
	MemberID  string    `gorm:"type:uuid;primaryKey"`
	Level     string    `gorm:"type:varchar(16);not null"`
	GrantedAt time.Time `gorm:"autoCreateTime"`
}

func (Authorization) TableName() string { return "zone_authorizations" }

func ValidLevel(level string) bool {
	switch level {
	case LevelRead, LevelWrite, LevelAdmin:
		return true
	}
	return false
}

func (z *Zone) LevelOf(memberID string) (string, bool) {
	for _, auth := range z.Authorizations {
		if auth.MemberID == memberID {
			return auth.Level, true
		}
	}
	return "", false
}

func (z *Zone) CanWrite(memberID string) bool {
	level, ok := z.LevelOf(memberID)
	return ok && (level == LevelWrite || level == LevelAdmin)
}

func (z *Zone) IsAdmin(memberID string) bool {
	level, ok := z.LevelOf(memberID)
	return ok && level == LevelAdmin
}
