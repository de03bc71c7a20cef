package member

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

const (
	// TypeLocal is a placeholder account managed inside someone else's family
	// (children, invited-but-not-signed-up adults). TypeAuth can sign in.
	TypeLocal = "local"
	TypeAuth  = "auth"
)

type Member struct {
	ID          string  `gorm:"type:uuid;primaryKey"`
	FirstName   string  `gorm:"not null"`
	LastName    string
	Email       *string `gorm:"uniqueIndex"`
	Password    string
	Token       *string `gorm:"uniqueIndex"`
	Birthday    *time.Time
	Address     string
	PhoneNumber string
	ZipCode     string
	City        string
	Avatar      string `gorm:"default:user"`
	Color       string
	PushToken   *string
	IsChild     bool
	Type        string     `gorm:"type:varchar(16);not null;default:local"`
	Tutorial    StringList `gorm:"type:jsonb"`
	CreatedAt   time.Time  `gorm:"autoCreateTime"`
	UpdatedAt   time.Time  `gorm:"autoUpdateTime"`
}

func (Member) TableName() string { return "members" }

func (m *Member) FullName() string {
	if m.LastName == "" {
		return m.FirstName
	}
	return m.FirstName + " " + m.LastName
}

func (m *Member) HasPushToken() bool {
	return m.PushToken != nil && *m.PushToken != ""
}

// StringList stores a JSON array of strings in a jsonb column. Used for the
// set of dismissed tutorial tooltips.
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		l = StringList{}
	}
	return json.Marshal(l)
}

func (l *StringList) Scan(value interface{}) error {
	if value == nil {
		*l = StringList{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	default:
		return fmt.Errorf("unsupported type %T for StringList", value)
	}
}

func (l StringList) Contains(item string) bool {
	for _, existing := range l {
		if existing == item {
			return true
		}
	}
	return false
}
