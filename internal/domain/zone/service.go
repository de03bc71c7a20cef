package zone

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) ListForMember(ctx context.Context, memberID string) ([]Zone, error) {
	return s.repo.ListForMember(ctx, memberID)
}

// Create makes a zone with the creator as admin and every other listed member
// granted read.
func (s *Service) Create(ctx context.Context, creatorID, name, color string, memberIDs []string) (*Zone, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("name is required")
	}
	if strings.TrimSpace(color) == "" {
		return nil, fmt.Errorf("color is required")
	}

	z := &Zone{
		ID:    uuid.NewString(),
		Name:  name,
		Color: color,
	}

	err := s.repo.Transaction(ctx, func(tx Repository) error {
		if err := tx.Create(ctx, z); err != nil {
			return err
		}
		if err := tx.UpsertAuthorization(ctx, &Authorization{ZoneID: z.ID, MemberID: creatorID, Level: LevelAdmin}); err != nil {
			return err
		}
		for _, memberID := range memberIDs {
			if memberID == creatorID {
				continue
			}
			if err := tx.UpsertAuthorization(ctx, &Authorization{ZoneID: z.ID, MemberID: memberID, Level: LevelRead}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.repo.GetByID(ctx, z.ID)
}

func (s *Service) Update(ctx context.Context, memberID, zoneID, name, color string) (*Zone, error) {
	z, err := s.repo.GetByID(ctx, zoneID)
	if err != nil {
		return nil, err
	}
	if !z.CanWrite(memberID) {
		return nil, ErrNotAuthorized
	}

	if name = strings.TrimSpace(name); name == "" {
		name = z.Name
	}
	if strings.TrimSpace(color) == "" {
		color = z.Color
	}
	if err := s.repo.Update(ctx, zoneID, name, color); err != nil {
		return nil, err
	}

	return s.repo.GetByID(ctx, zoneID)
}

func (s *Service) Delete(ctx context.Context, memberID, zoneID string) (*Zone, error) {
	z, err := s.repo.GetByID(ctx, zoneID)
	if err != nil {
		return nil, err
	}
	if !z.IsAdmin(memberID) {
		return nil, ErrNotAuthorized
	}
	if err := s.repo.Delete(ctx, zoneID); err != nil {
		return nil, err
	}
	return z, nil
}

func (s *Service) GrantMember(ctx context.Context, actorID, zoneID, memberID, level string) (*Zone, error) {
	if level == "" {
		level = LevelRead
	}
	if !ValidLevel(level) {
		return nil, ErrInvalidLevel
	}

	z, err := s.repo.GetByID(ctx, zoneID)
	if err != nil {
		return nil, err
	}
	if !z.IsAdmin(actorID) {
		return nil, ErrNotAuthorized
	}

	if err := s.repo.UpsertAuthorization(ctx, &Authorization{ZoneID: zoneID, MemberID: memberID, Level: level}); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, zoneID)
}

func (s *Service) RevokeMember(ctx context.Context, actorID, zoneID, memberID string) (*Zone, error) {
	z, err := s.repo.GetByID(ctx, zoneID)
	if err != nil {
		return nil, err
	}
	if !z.IsAdmin(actorID) {
		return nil, ErrNotAuthorized
	}

	if err := s.repo.DeleteAuthorization(ctx, zoneID, memberID); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, zoneID)
}
