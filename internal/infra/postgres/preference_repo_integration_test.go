//go:build integration

package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kislikjeka/txfeed/internal/platform/preference"
	"github.com/kislikjeka/txfeed/testutil/testdb"
)

var testDB *testdb.TestDB

func TestMain(m *testing.M) {
	ctx := context.Background()

	var err error
	testDB, err = testdb.NewTestDB(ctx)
	if err != nil {
		panic("failed to create test database: " + err.Error())
	}

	code := m.Run()

	testDB.Close(ctx)
	if code != 0 {
		panic("tests failed")
	}
}

func setupTest(t *testing.T) (*PreferenceRepository, context.Context) {
	ctx := context.Background()
	require.NoError(t, testDB.Reset(ctx))

	return NewPreferenceRepository(testDB.Pool), ctx
}

func TestPreferenceRepository_GetNotFound(t *testing.T) {
	repo, ctx := setupTest(t)

	_, err := repo.Get(ctx, uuid.New())
	assert.ErrorIs(t, err, preference.ErrPreferencesNotFound)
}

func TestPreferenceRepository_UpsertAndGet(t *testing.T) {
	repo, ctx := setupTest(t)
	userID := uuid.New()
	first := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

	require.NoError(t, repo.Upsert(ctx, &preference.Preferences{
		UserID:    userID,
		FiatCode:  "EUR",
		UpdatedAt: first,
	}))

	got, err := repo.Get(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, "EUR", got.FiatCode)
	assert.False(t, got.CryptoPreferred)
	assert.True(t, first.Equal(got.UpdatedAt))

	second := first.Add(time.Hour)
	require.NoError(t, repo.Upsert(ctx, &preference.Preferences{
		UserID:          userID,
		FiatCode:        "JPY",
		CryptoPreferred: true,
		UpdatedAt:       second,
	}))

	got, err = repo.Get(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, "JPY", got.FiatCode)
	assert.True(t, got.CryptoPreferred)
	assert.True(t, second.Equal(got.UpdatedAt))
}

func TestPreferenceRepository_WithService(t *testing.T) {
	repo, ctx := setupTest(t)
	svc := preference.NewService(repo, "USD")
	userID := uuid.New()

	prefs, err := svc.Get(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, "USD", prefs.FiatCode)

	_, err = svc.Update(ctx, &preference.Preferences{UserID: userID, FiatCode: "gbp"})
	require.NoError(t, err)

	code, err := svc.Reader(userID).PreferredFiatCode(ctx)
	require.NoError(t, err)
	assert.Equal(t, "GBP", code)
}
