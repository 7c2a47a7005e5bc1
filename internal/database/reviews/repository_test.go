package reviews

import (
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
	dbPath := "./test_reviews_" + t.Name() + ".db"

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(&entities.User{}, &entities.Review{})
	require.NoError(t, err)

	repo := NewRepository(db)

	cleanup := func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
		os.Remove(dbPath)
	}

	return repo, cleanup
}

func TestRepository_CreateAndGet(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	review := &entities.Review{UserID: 1, WorkOLID: "OL45883W", Rating: 4, Comment: "solid"}
	require.NoError(t, repo.Create(review))
	assert.NotZero(t, review.ID)

	found, err := repo.GetByUserAndWork(1, "OL45883W")
	require.NoError(t, err)
	assert.Equal(t, 4.0, found.Rating)

	_, err = repo.GetByUserAndWork(2, "OL45883W")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRepository_OneReviewPerUserAndWork(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	require.NoError(t, repo.Create(&entities.Review{UserID: 1, WorkOLID: "OL45883W", Rating: 4}))
	err := repo.Create(&entities.Review{UserID: 1, WorkOLID: "OL45883W", Rating: 2})
	assert.Error(t, err)

	// Same work by another user is fine
	require.NoError(t, repo.Create(&entities.Review{UserID: 2, WorkOLID: "OL45883W", Rating: 5}))
}

func TestRepository_ListByWork(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	require.NoError(t, repo.Create(&entities.Review{UserID: 1, WorkOLID: "OL45883W", Rating: 4}))
	require.NoError(t, repo.Create(&entities.Review{UserID: 2, WorkOLID: "OL45883W", Rating: 2}))
	require.NoError(t, repo.Create(&entities.Review{UserID: 3, WorkOLID: "OL999W", Rating: 5}))

	all, avg, err := repo.ListByWork("OL45883W")
	require.NoError(t, err)
	assert.Len(t, all, 2)
	assert.Equal(t, 3.0, avg)
}

func TestRepository_ListByWorkEmpty(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	all, avg, err := repo.ListByWork("OL45883W")
	require.NoError(t, err)
	assert.Empty(t, all)
	assert.Zero(t, avg)
}

func TestRepository_UpdateAndDelete(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	review := &entities.Review{UserID: 1, WorkOLID: "OL45883W", Rating: 4}
	require.NoError(t, repo.Create(review))

	review.Rating = 5
	review.Comment = "re-read, even better"
	require.NoError(t, repo.Save(review))

	found, err := repo.GetByID(review.ID)
	require.NoError(t, err)
	assert.Equal(t, 5.0, found.Rating)

	require.NoError(t, repo.Delete(review.ID))
	_, err = repo.GetByID(review.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
