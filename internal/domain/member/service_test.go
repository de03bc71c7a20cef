package member

import (
	"context"
	"errors"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

type fakeMemberRepo struct {
	members map[string]*Member
}

func newFakeMemberRepo() *fakeMemberRepo {
	return &fakeMemberRepo{members: make(map[string]*Member)}
}

func (r *fakeMemberRepo) Create(ctx context.Context, m *Member) error {
	copied := *m
	r.members[m.ID] = &copied
	return nil
}

func (r *fakeMemberRepo) GetByID(ctx context.Context, id string) (*Member, error) {
	m, ok := r.members[id]
	if !ok {
		return nil, ErrMemberNotFound
	}
	copied := *m
	return &copied, nil
}

func (r *fakeMemberRepo) GetByEmail(ctx context.Context, email string) (*Member, error) {
	for _, m := range r.members {
		if m.Email != nil && *m.Email == email {
			copied := *m
			return &copied, nil
		}
	}
	return nil, ErrMemberNotFound
}

func (r *fakeMemberRepo) GetByToken(ctx context.Context, token string) (*Member, error) {
	for _, m := range r.members {
		if m.Token != nil && *m.Token == token {
			copied := *m
			return &copied, nil
		}
	}
	return nil, ErrMemberNotFound
}

func (r *fakeMemberRepo) ListByIDs(ctx context.Context, ids []string) ([]Member, error) {
	result := make([]Member, 0, len(ids))
	for _, id := range ids {
		if m, ok := r.members[id]; ok {
			result = append(result, *m)
		}
	}
	return result, nil
}

func (r *fakeMemberRepo) Update(ctx context.Context, m *Member) error {
	if _, ok := r.members[m.ID]; !ok {
		return ErrMemberNotFound
	}
	copied := *m
	r.members[m.ID] = &copied
	return nil
}

func (r *fakeMemberRepo) UpdatePushToken(ctx context.Context, id string, token *string) error {
	m, ok := r.members[id]
	if !ok {
		return ErrMemberNotFound
	}
	m.PushToken = token
	return nil
}

func (r *fakeMemberRepo) UpdateTutorial(ctx context.Context, id string, tutorial StringList) error {
	m, ok := r.members[id]
	if !ok {
		return ErrMemberNotFound
	}
	m.Tutorial = tutorial
	return nil
}

func TestAddLocal(t *testing.T) {
	repo := newFakeMemberRepo()
	svc := NewService(repo)

	m, err := svc.AddLocal(context.Background(), "  Leo  ", "Durand", true)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if m.FirstName != "Leo" {
		t.Fatalf("expected trimmed first name, got %q", m.FirstName)
	}
	if !m.IsChild {
		t.Fatalf("expected child flag kept")
	}
	if m.Type != TypeLocal {
		t.Fatalf("expected local member, got %q", m.Type)
	}
	if m.Token != nil {
		t.Fatalf("local member must not carry an auth token")
	}
}

func TestAddLocalRequiresFirstName(t *testing.T) {
	svc := NewService(newFakeMemberRepo())
	if _, err := svc.AddLocal(context.Background(), "   ", "Durand", false); err == nil {
		t.Fatalf("expected error for empty first name")
	}
}

func TestSignup(t *testing.T) {
	repo := newFakeMemberRepo()
	svc := NewService(repo)

	m, err := svc.Signup(context.Background(), "Anna", "Durand", " Anna@Example.COM ", "s3cret")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if m.Email == nil || *m.Email != "anna@example.com" {
		t.Fatalf("expected normalized email, got %v", m.Email)
	}
	if m.Type != TypeAuth {
		t.Fatalf("expected auth member, got %q", m.Type)
	}
	if m.Token == nil || len(*m.Token) != 64 {
		t.Fatalf("expected a 64-char auth token")
	}
	if bcrypt.CompareHashAndPassword([]byte(m.Password), []byte("s3cret")) != nil {
		t.Fatalf("expected password hashed with bcrypt")
	}
}

func TestSignupEmailTaken(t *testing.T) {
	repo := newFakeMemberRepo()
	svc := NewService(repo)

	if _, err := svc.Signup(context.Background(), "Anna", "", "anna@example.com", "s3cret"); err != nil {
		t.Fatalf("first signup failed: %v", err)
	}
	_, err := svc.Signup(context.Background(), "Other", "", "ANNA@example.com", "different")
	if !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestSignin(t *testing.T) {
	repo := newFakeMemberRepo()
	svc := NewService(repo)

	created, err := svc.Signup(context.Background(), "Anna", "", "anna@example.com", "s3cret")
	if err != nil {
		t.Fatalf("signup failed: %v", err)
	}

	m, err := svc.Signin(context.Background(), "anna@example.com", "s3cret")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if m.ID != created.ID {
		t.Fatalf("expected member %s, got %s", created.ID, m.ID)
	}

	if _, err := svc.Signin(context.Background(), "anna@example.com", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials on bad password, got %v", err)
	}
	if _, err := svc.Signin(context.Background(), "nobody@example.com", "s3cret"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials on unknown email, got %v", err)
	}
}

func TestSetPushToken(t *testing.T) {
	repo := newFakeMemberRepo()
	repo.members["m-1"] = &Member{ID: "m-1", FirstName: "Anna"}
	svc := NewService(repo)

	if err := svc.SetPushToken(context.Background(), "m-1", " ExponentPushToken[x] "); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !repo.members["m-1"].HasPushToken() {
		t.Fatalf("expected push token stored")
	}

	if err := svc.SetPushToken(context.Background(), "m-1", "   "); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if repo.members["m-1"].HasPushToken() {
		t.Fatalf("expected blank input to clear the token")
	}
}

func TestDismissTooltip(t *testing.T) {
	repo := newFakeMemberRepo()
	repo.members["m-1"] = &Member{ID: "m-1", FirstName: "Anna", Tutorial: StringList{}}
	svc := NewService(repo)

	m, err := svc.DismissTooltip(context.Background(), "m-1", "calendar-intro")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !m.Tutorial.Contains("calendar-intro") {
		t.Fatalf("expected key recorded, got %v", m.Tutorial)
	}

	m, err = svc.DismissTooltip(context.Background(), "m-1", "calendar-intro")
	if err != nil {
		t.Fatalf("expected no error on replay, got %v", err)
	}
	if len(m.Tutorial) != 1 {
		t.Fatalf("expected dismissal idempotent, got %v", m.Tutorial)
	}
}
