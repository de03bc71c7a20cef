package member

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const bcryptCost = 10

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// AddLocal creates a placeholder member with no credentials, typically a child
// profile managed from a parent's account.
func (s *Service) AddLocal(ctx context.Context, firstName, lastName string, isChild bool) (*Member, error) {
	firstName = strings.TrimSpace(firstName)
	if firstName == "" {
		return nil, fmt.Errorf("firstName is required")
	}

	m := &Member{
		ID:        uuid.NewString(),
		FirstName: firstName,
		LastName:  strings.TrimSpace(lastName),
		IsChild:   isChild,
		Type:      TypeLocal,
		Tutorial:  StringList{},
	}
	if err := s.repo.Create(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *Service) Signup(ctx context.Context, firstName, lastName, email, password string) (*Member, error) {
	firstName = strings.TrimSpace(firstName)
	email = strings.ToLower(strings.TrimSpace(email))
	if firstName == "" || email == "" || password == "" {
		return nil, fmt.Errorf("firstName, email and password are required")
	}

	if _, err := s.repo.GetByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, ErrMemberNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, err
	}

	token, err := NewToken()
	if err != nil {
		return nil, err
	}

	m := &Member{
		ID:        uuid.NewString(),
		FirstName: firstName,
		LastName:  strings.TrimSpace(lastName),
		Email:     &email,
		Password:  string(hash),
		Token:     &token,
		Type:      TypeAuth,
		Tutorial:  StringList{},
	}
	if err := s.repo.Create(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *Service) Signin(ctx context.Context, email, password string) (*Member, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, fmt.Errorf("email and password are required")
	}

	m, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrMemberNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(m.Password), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	return m, nil
}

func (s *Service) GetByEmail(ctx context.Context, email string) (*Member, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, fmt.Errorf("email is required")
	}
	return s.repo.GetByEmail(ctx, email)
}

func (s *Service) GetByToken(ctx context.Context, token string) (*Member, error) {
	return s.repo.GetByToken(ctx, token)
}

func (s *Service) SetPushToken(ctx context.Context, memberID, pushToken string) error {
	pushToken = strings.TrimSpace(pushToken)
	if pushToken == "" {
		return s.repo.UpdatePushToken(ctx, memberID, nil)
	}
	return s.repo.UpdatePushToken(ctx, memberID, &pushToken)
}

func (s *Service) DismissTooltip(ctx context.Context, memberID, key string) (*Member, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, fmt.Errorf("key is required")
	}

	m, err := s.repo.GetByID(ctx, memberID)
	if err != nil {
		return nil, err
	}
	if m.Tutorial.Contains(key) {
		return m, nil
	}

	m.Tutorial = append(m.Tutorial, key)
	if err := s.repo.UpdateTutorial(ctx, memberID, m.Tutorial); err != nil {
		return nil, err
	}
	return m, nil
}

// NewToken returns a 32-byte random hex credential used both as the bearer
// auth token and as the invite token.
func NewToken() (string, error) {
	var b [32]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "", err
	}
	return hex.EncodeToString(b[:]), nil
}

// HashPassword is exported for the invite-consumption path, which upgrades a
// placeholder member with credentials of its own.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
