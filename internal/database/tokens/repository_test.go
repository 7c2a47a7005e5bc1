package tokens

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/libraryhub/libraryhub/internal/entities"
)

func setupTestDB(t *testing.T) (*Repository, func()) {
	dbPath := "./test_tokens_" + t.Name() + ".db"

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(&entities.User{}, &entities.RefreshToken{})
	require.NoError(t, err)

	repo := NewRepository(db)

	cleanup := func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
		os.Remove(dbPath)
	}

	return repo, cleanup
}

func TestRepository_CreateAndGetByHash(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	token := &entities.RefreshToken{
		UserID:    1,
		TokenHash: "aaaa",
		ExpiresAt: time.Now().Add(time.Hour),
	}
	require.NoError(t, repo.Create(token))

	found, err := repo.GetByHash("aaaa")
	require.NoError(t, err)
	assert.Equal(t, uint(1), found.UserID)
	assert.False(t, found.Revoked())
	assert.False(t, found.Expired(time.Now()))

	_, err = repo.GetByHash("bbbb")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRepository_Revoke(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	token := &entities.RefreshToken{UserID: 1, TokenHash: "aaaa", ExpiresAt: time.Now().Add(time.Hour)}
	require.NoError(t, repo.Create(token))
	require.NoError(t, repo.Revoke(token.ID))

	found, err := repo.GetByHash("aaaa")
	require.NoError(t, err)
	assert.True(t, found.Revoked())
}

func TestRepository_RevokeAllForUser(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	expires := time.Now().Add(time.Hour)
	require.NoError(t, repo.Create(&entities.RefreshToken{UserID: 1, TokenHash: "aaaa", ExpiresAt: expires}))
	require.NoError(t, repo.Create(&entities.RefreshToken{UserID: 1, TokenHash: "bbbb", ExpiresAt: expires}))
	require.NoError(t, repo.Create(&entities.RefreshToken{UserID: 2, TokenHash: "cccc", ExpiresAt: expires}))

	require.NoError(t, repo.RevokeAllForUser(1))

	for _, hash := range []string{"aaaa", "bbbb"} {
		found, err := repo.GetByHash(hash)
		require.NoError(t, err)
		assert.True(t, found.Revoked())
	}
	other, err := repo.GetByHash("cccc")
	require.NoError(t, err)
	assert.False(t, other.Revoked())
}

func TestRepository_DeleteExpired(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	now := time.Now()
	revoked := now.Add(-time.Minute)
	require.NoError(t, repo.Create(&entities.RefreshToken{UserID: 1, TokenHash: "old", ExpiresAt: now.Add(-time.Hour)}))
	require.NoError(t, repo.Create(&entities.RefreshToken{UserID: 1, TokenHash: "live", ExpiresAt: now.Add(time.Hour)}))
	require.NoError(t, repo.Create(&entities.RefreshToken{UserID: 1, TokenHash: "revoked", ExpiresAt: now.Add(time.Hour), RevokedAt: &revoked}))

	deleted, err := repo.DeleteExpired(now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	_, err = repo.GetByHash("old")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = repo.GetByHash("live")
	assert.NoError(t, err)

	// Revoked tokens survive until expiry so reuse is distinguishable
	token, err := repo.GetByHash("revoked")
	require.NoError(t, err)
	assert.True(t, token.Revoked())
}
