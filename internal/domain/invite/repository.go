package invite

import (
	"context"
	"time"

	"kidsweek-go/internal/domain/member"
)

type Repository interface {
	Create(ctx context.Context, invite *Invite) error
	GetByID(ctx context.Context, id string) (*Invite, error)
	GetByToken(ctx context.Context, token string) (*Invite, error)
	GetByPair(ctx context.Context, inviterID, invitedID string) (*Invite, error)
	ListForMember(ctx context.Context, memberID string) ([]Invite, error)
	Update(ctx context.Context, invite *Invite) error
	// ExpirePending flips every pending invite with expires_at < now to
	// expired and reports how many rows changed. Terminal rows are untouched.
	ExpirePending(ctx context.Context, now time.Time) (int64, error)
}

// MemberStore is the slice of the member store consumption needs.
type MemberStore interface {
	GetByID(ctx context.Context, id string) (*member.Member, error)
	GetByEmail(ctx context.Context, email string) (*member.Member, error)
	Update(ctx context.Context, m *member.Member) error
}

// Mail is the email adapter contract: send-only, fire-and-forget.
type Mail struct {
	To      string
	Subject string
	HTML    string
	Text    string
}

type Mailer interface {
	Send(ctx context.Context, mail Mail) error
}
