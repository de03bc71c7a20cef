package invite

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"kidsweek-go/internal/domain/member"
	"kidsweek-go/pkg/logger"
	"github.com/google/uuid"
)

type Service struct {
	repo    Repository
	members MemberStore
	mailer  Mailer
	ttl     time.Duration
	log     logger.Logger
	now     func() time.Time
}

func NewService(repo Repository, members MemberStore, mailer Mailer, ttl time.Duration, log logger.Logger) *Service {
	if ttl <= 0 {
		ttl = 7 * 24 * time.Hour
	}
	return &Service{
		repo:    repo,
		members: members,
		mailer:  mailer,
		ttl:     ttl,
		log:     log,
		now:     time.Now,
	}
}

func (s *Service) ListForMember(ctx context.Context, memberID string) ([]Invite, error) {
	return s.repo.ListForMember(ctx, memberID)
}

// CreateOrRegenerate issues an invite for (inviter, invited). An existing pair
// gets a fresh token, the new email, pending status and a re-armed expiry.
func (s *Service) CreateOrRegenerate(ctx context.Context, inviterID, invitedID, email string) (*Invite, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if invitedID == "" || email == "" {
		return nil, fmt.Errorf("invitedId and emailAddress are required")
	}

	token, err := member.NewToken()
	if err != nil {
		return nil, err
	}

	existing, err := s.repo.GetByPair(ctx, inviterID, invitedID)
	if err != nil && !errors.Is(err, ErrInviteNotFound) {
		return nil, err
	}

	if existing != nil {
		existing.Email = email
		existing.Token = token
		existing.Status = StatusPending
		existing.ExpiresAt = s.now().Add(s.ttl)
		if err := s.repo.Update(ctx, existing); err != nil {
			return nil, err
		}
		return existing, nil
	}

	inv := &Invite{
		ID:        uuid.NewString(),
		InviterID: inviterID,
		InvitedID: invitedID,
		Email:     email,
		Token:     token,
		Status:    StatusPending,
		InvitedAt: s.now(),
		ExpiresAt: s.now().Add(s.ttl),
	}
	if err := s.repo.Create(ctx, inv); err != nil {
		return nil, err
	}
	return inv, nil
}

// Resolve looks an invite up by token for the unauthenticated accept page.
func (s *Service) Resolve(ctx context.Context, token string) (*Invite, error) {
	inv, err := s.repo.GetByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if inv.Expired(s.now()) {
		return nil, ErrExpired
	}
	if inv.Status != StatusPending {
		return nil, ErrAlreadyUsed
	}
	return inv, nil
}

// Send emails the accept link. Only the original inviter may trigger it, and
// only while the invite is pending. A mail failure fails the request but
// mutates nothing.
func (s *Service) Send(ctx context.Context, inviterID, inviteID, url string) (*Invite, error) {
	inv, err := s.repo.GetByID(ctx, inviteID)
	if err != nil {
		return nil, err
	}
	if inv.Status != StatusPending {
		return nil, ErrAlreadyUsed
	}
	if inv.InviterID != inviterID {
		return nil, ErrNotInviter
	}

	inviter, err := s.members.GetByID(ctx, inviterID)
	if err != nil {
		return nil, err
	}

	if err := s.mailer.Send(ctx, buildInviteMail(inv.Email, inviter.FullName(), url)); err != nil {
		s.log.InternalError("invites: send mail failed", err, "invite_id", inv.ID)
		return nil, ErrMailFailed
	}
	return inv, nil
}

// Consume upgrades the invited placeholder member with real credentials and
// turns the invite terminal. The invite flip to accepted is the commit point.
func (s *Service) Consume(ctx context.Context, token, firstName, lastName, email, password string) (*member.Member, error) {
	firstName = strings.TrimSpace(firstName)
	email = strings.ToLower(strings.TrimSpace(email))
	if firstName == "" || email == "" || password == "" {
		return nil, fmt.Errorf("firstName, email and password are required")
	}

	inv, err := s.Resolve(ctx, token)
	if err != nil {
		return nil, err
	}

	m, err := s.members.GetByID(ctx, inv.InvitedID)
	if err != nil {
		return nil, err
	}

	hash, err := member.HashPassword(password)
	if err != nil {
		return nil, err
	}
	authToken, err := member.NewToken()
	if err != nil {
		return nil, err
	}

	m.FirstName = firstName
	m.LastName = strings.TrimSpace(lastName)
	m.Email = &email
	m.Password = hash
	m.Token = &authToken
	m.Type = member.TypeAuth
	if err := s.members.Update(ctx, m); err != nil {
		return nil, err
	}

	inv.Status = StatusAccepted
	if err := s.repo.Update(ctx, inv); err != nil {
		return nil, err
	}
	return m, nil
}

// ExpireDue is the hourly sweep flipping overdue pending invites to expired.
func (s *Service) ExpireDue(ctx context.Context) error {
	count, err := s.repo.ExpirePending(ctx, s.now())
	if err != nil {
		return err
	}
	if count > 0 {
		s.log.Info("invites: expired", "count", count)
	}
	return nil
}
