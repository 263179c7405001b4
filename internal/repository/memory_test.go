package repository

import (
	"context"
	"testing"
	"time"

	"rozgaarsetu/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemorySessionRoundTrip(t *testing.T) {
	repo := NewMemorySessionRepository(15 * time.Minute)
	ctx := context.Background()

	got, err := repo.GetSession(ctx, "cust-1")
	require.NoError(t, err)
	assert.Nil(t, got)

	session := &models.Session{UserID: "cust-1", Profile: &models.User{ID: "cust-1", FullName: "Ramesh Kumar"}}
	require.NoError(t, repo.SetSession(ctx, session))

	got, err = repo.GetSession(ctx, "cust-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	require.NotNil(t, got.Profile)
	assert.Equal(t, "Ramesh Kumar", got.Profile.FullName)

	require.NoError(t, repo.ClearSession(ctx, "cust-1"))
	got, _ = repo.GetSession(ctx, "cust-1")
	assert.Nil(t, got)
}

func TestMemoryRateLimit(t *testing.T) {
	repo := NewMemorySessionRepository(time.Minute)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		allowed, err := repo.CheckRateLimit(ctx, "cust-1", 2, time.Minute)
		require.NoError(t, err)
		assert.True(t, allowed)
	}

	allowed, err := repo.CheckRateLimit(ctx, "cust-1", 2, time.Minute)
	require.NoError(t, err)
	assert.False(t, allowed)

	// Separate keys get separate windows.
	allowed, err = repo.CheckRateLimit(ctx, "cust-2", 2, time.Minute)
	require.NoError(t, err)
	assert.True(t, allowed)
}
