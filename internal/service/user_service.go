package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"rozgaarsetu/internal/domain"
	"rozgaarsetu/internal/models"

	"github.com/rs/zerolog"
)

type UserService struct {
	repo     domain.Repository
	sessions domain.SessionRepository
	logger   *zerolog.Logger
}

// NewUserService builds the profile service. sessions may be nil; profile
// reads then always hit the database.
func NewUserService(repo domain.Repository, sessions domain.SessionRepository, logger *zerolog.Logger) *UserService {
	return &UserService{repo: repo, sessions: sessions, logger: logger}
}

func (s *UserService) SaveProfile(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		return fmt.Errorf("user id is required")
	}
	if user.FullName == "" {
		return fmt.Errorf("full name is required")
	}

	switch user.Role {
	case models.RoleCustomer, models.RoleWorker, models.RoleEmployer:
	case "":
		user.Role = models.RoleCustomer
	default:
		return fmt.Errorf("unknown role: %s", user.Role)
	}

	// Skills are stored lowercased so matching never case-folds at read time.
	normalized := user.Skills[:0]
	for _, skill := range user.Skills {
		skill = strings.ToLower(strings.TrimSpace(skill))
		if skill != "" {
			normalized = append(normalized, skill)
		}
	}
	user.Skills = normalized

	if err := s.repo.UpsertUser(ctx, user); err != nil {
		return err
	}
	s.cacheProfile(ctx, user)
	return nil
}

// GetProfile serves from the session cache when a snapshot exists, falling
// back to the database and refreshing the snapshot on a miss. Cache errors
// degrade to a plain database read.
func (s *UserService) GetProfile(ctx context.Context, id string) (*models.User, error) {
	if s.sessions != nil {
		session, err := s.sessions.GetSession(ctx, id)
		if err != nil {
			s.logger.Warn().Err(err).Str("user_id", id).Msg("session cache read failed")
		} else if session != nil && session.Profile != nil {
			return session.Profile, nil
		}
	}

	user, err := s.repo.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}
	s.cacheProfile(ctx, user)
	return user, nil
}

func (s *UserService) cacheProfile(ctx context.Context, user *models.User) {
	if s.sessions == nil {
		return
	}
	session := &models.Session{UserID: user.ID, Profile: user, UpdatedAt: time.Now()}
	if err := s.sessions.SetSession(ctx, session); err != nil {
		s.logger.Warn().Err(err).Str("user_id", user.ID).Msg("session cache write failed")
	}
}

// FindWorkers filters worker profiles to those whose skills match the wanted
// trade, alias table included. Empty skill returns everyone.
func (s *UserService) FindWorkers(ctx context.Context, skill string) ([]*models.User, error) {
	workers, err := s.repo.GetWorkers(ctx)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(skill) == "" {
		return workers, nil
	}

	var matched []*models.User
	for _, w := range workers {
		if SkillMatches(w.Skills, skill) {
			matched = append(matched, w)
		}
	}
	return matched, nil
}
