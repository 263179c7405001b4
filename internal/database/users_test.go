package database

import (
	"context"
	"testing"

	"rozgaarsetu/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpsertAndGetUser(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()

	user := &models.User{
		ID:              "work-1",
		FullName:        "Ramesh Kumar",
		Role:            models.RoleWorker,
		Phone:           "9876543210",
		Location:        "Andheri West, Mumbai",
		Skills:          []string{"plumber", "electrician"},
		ExperienceYears: 7,
		MinPrice:        300,
	}
	require.NoError(t, db.UpsertUser(ctx, user))

	got, err := db.GetUser(ctx, "work-1")
	require.NoError(t, err)
	assert.Equal(t, "Ramesh Kumar", got.FullName)
	assert.Equal(t, []string{"plumber", "electrician"}, got.Skills)
	assert.True(t, got.IsWorker())

	// Second upsert replaces fields instead of failing.
	user.Location = "Bandra, Mumbai"
	user.Skills = []string{"plumber"}
	require.NoError(t, db.UpsertUser(ctx, user))

	got, err = db.GetUser(ctx, "work-1")
	require.NoError(t, err)
	assert.Equal(t, "Bandra, Mumbai", got.Location)
	assert.Equal(t, []string{"plumber"}, got.Skills)

	_, err = db.GetUser(ctx, "no-such-user")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetWorkersFiltersByRole(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()

	require.NoError(t, db.UpsertUser(ctx, &models.User{ID: "cust-1", FullName: "Anita", Role: models.RoleCustomer}))
	require.NoError(t, db.UpsertUser(ctx, &models.User{ID: "work-1", FullName: "Ramesh", Role: models.RoleWorker}))
	require.NoError(t, db.UpsertUser(ctx, &models.User{ID: "work-2", FullName: "Suresh", Role: models.RoleWorker}))

	workers, err := db.GetWorkers(ctx)
	require.NoError(t, err)
	assert.Len(t, workers, 2)
	for _, w := range workers {
		assert.Equal(t, models.RoleWorker, w.Role)
	}
}

func TestSetTelegramChatID(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()

	require.NoError(t, db.UpsertUser(ctx, &models.User{ID: "work-1", FullName: "Ramesh", Role: models.RoleWorker}))

	require.NoError(t, db.SetTelegramChatID(ctx, "work-1", 42))
	got, err := db.GetUser(ctx, "work-1")
	require.NoError(t, err)
	assert.Equal(t, int64(42), got.TelegramChatID)

	err = db.SetTelegramChatID(ctx, "no-such-user", 42)
	assert.ErrorIs(t, err, ErrNotFound)
}
