package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"rozgaarsetu/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingSessionRepository struct {
	err error
}

func (f *failingSessionRepository) GetSession(ctx context.Context, userID string) (*models.Session, error) {
	return nil, f.err
}

func (f *failingSessionRepository) SetSession(ctx context.Context, session *models.Session) error {
	return f.err
}

func (f *failingSessionRepository) ClearSession(ctx context.Context, userID string) error {
	return f.err
}

func (f *failingSessionRepository) CheckRateLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	return false, f.err
}

func TestFailoverSwitchesToFallback(t *testing.T) {
	logger := zerolog.Nop()
	primary := &failingSessionRepository{err: errors.New("connection refused")}
	fallback := NewMemorySessionRepository(time.Minute)
	repo := NewFailoverSessionRepository(primary, fallback, &logger)

	ctx := context.Background()

	// First write fails over to memory; the session must still be readable.
	require.NoError(t, repo.SetSession(ctx, &models.Session{UserID: "cust-1", Profile: &models.User{ID: "cust-1"}}))

	got, err := repo.GetSession(ctx, "cust-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	require.NotNil(t, got.Profile)
	assert.Equal(t, "cust-1", got.Profile.ID)

	allowed, err := repo.CheckRateLimit(ctx, "cust-1", 1, time.Minute)
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestFailoverPrefersHealthyPrimary(t *testing.T) {
	logger := zerolog.Nop()
	primary := NewMemorySessionRepository(time.Minute)
	fallback := NewMemorySessionRepository(time.Minute)
	repo := NewFailoverSessionRepository(primary, fallback, &logger)

	ctx := context.Background()
	require.NoError(t, repo.SetSession(ctx, &models.Session{UserID: "cust-1"}))

	// The write landed on the primary, not the fallback.
	fromPrimary, _ := primary.GetSession(ctx, "cust-1")
	require.NotNil(t, fromPrimary)
	fromFallback, _ := fallback.GetSession(ctx, "cust-1")
	assert.Nil(t, fromFallback)
}
