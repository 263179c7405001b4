package database

import (
	"context"
	"testing"

	"rozgaarsetu/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeedCatalogIdempotent(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()

	categories := []models.ServiceCategory{
		{ID: "cat-plumbing", Name: "Plumbing", Description: "Taps, pipes, drainage", Icon: "🔧"},
		{ID: "cat-electrical", Name: "Electrical", Description: "Wiring and fittings", Icon: "💡"},
	}
	services := []models.Service{
		{ID: "svc-plumbing-basic", CategoryID: "cat-plumbing", Name: "Tap repair", BasePrice: 300, DurationMinutes: 60},
		{ID: "svc-electrical-fan", CategoryID: "cat-electrical", Name: "Fan installation", BasePrice: 400, DurationMinutes: 45},
	}

	require.NoError(t, db.SeedCatalog(ctx, categories, services))

	// Re-seeding with changed prices updates rather than duplicating.
	services[0].BasePrice = 350
	require.NoError(t, db.SeedCatalog(ctx, categories, services))

	cats, err := db.ListCategories(ctx)
	require.NoError(t, err)
	assert.Len(t, cats, 2)

	plumbing, err := db.ListServicesByCategory(ctx, "cat-plumbing")
	require.NoError(t, err)
	require.Len(t, plumbing, 1)
	assert.Equal(t, 350.0, plumbing[0].BasePrice)

	svc, err := db.GetService(ctx, "svc-electrical-fan")
	require.NoError(t, err)
	assert.Equal(t, "Fan installation", svc.Name)

	_, err = db.GetService(ctx, "no-such-service")
	assert.ErrorIs(t, err, ErrNotFound)
}
