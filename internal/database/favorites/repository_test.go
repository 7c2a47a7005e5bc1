package favorites

import (
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/libraryhub/libraryhub/internal/entities"
)

func setupTestDB(t *testing.T) (*Repository, func()) {
	dbPath := "./test_favorites_" + t.Name() + ".db"

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(&entities.User{}, &entities.Favorite{})
	require.NoError(t, err)

	repo := NewRepository(db)

	cleanup := func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
		os.Remove(dbPath)
	}

	return repo, cleanup
}

func TestRepository_CreateAndExists(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	exists, err := repo.Exists(1, "OL45883W")
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, repo.Create(&entities.Favorite{UserID: 1, WorkOLID: "OL45883W"}))

	exists, err = repo.Exists(1, "OL45883W")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestRepository_DuplicateFavorite(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	require.NoError(t, repo.Create(&entities.Favorite{UserID: 1, WorkOLID: "OL45883W"}))
	err := repo.Create(&entities.Favorite{UserID: 1, WorkOLID: "OL45883W"})
	assert.Error(t, err)
}

func TestRepository_ListPagination(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	for i := 0; i < 5; i++ {
		require.NoError(t, repo.Create(&entities.Favorite{
			UserID:   1,
			WorkOLID: fmt.Sprintf("OL%dW", i),
		}))
	}
	// Another user's favorites should not leak in
	require.NoError(t, repo.Create(&entities.Favorite{UserID: 2, WorkOLID: "OL45883W"}))

	page, total, err := repo.List(1, 2, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)
	assert.Len(t, page, 2)

	rest, _, err := repo.List(1, 2, 4)
	require.NoError(t, err)
	assert.Len(t, rest, 1)
}

func TestRepository_Delete(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	require.NoError(t, repo.Create(&entities.Favorite{UserID: 1, WorkOLID: "OL45883W"}))
	require.NoError(t, repo.Delete(1, "OL45883W"))

	err := repo.Delete(1, "OL45883W")
	assert.ErrorIs(t, err, ErrNotFound)
}
