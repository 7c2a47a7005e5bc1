package database

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/libraryhub/libraryhub/internal/entities"
)

func TestNewDatabaseMigratesSchema(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	db, err := NewDatabase(dbPath)
	require.NoError(t, err)
	defer db.Close()

	migrator := db.DB.Migrator()
	for _, model := range []any{
		&entities.User{},
		&entities.Book{},
		&entities.Review{},
		&entities.Favorite{},
		&entities.Bookshelf{},
		&entities.ShelfBook{},
		&entities.ReadingListEntry{},
		&entities.RefreshToken{},
	} {
		assert.True(t, migrator.HasTable(model), "%T", model)
	}
}

// The repositories filter on the work_olid column by name, so the OLID
// fields must not migrate under gorm's default rendering (work_ol_id).
func TestWorkOLIDColumnName(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	db, err := NewDatabase(dbPath)
	require.NoError(t, err)
	defer db.Close()

	migrator := db.DB.Migrator()
	for _, model := range []any{
		&entities.Book{},
		&entities.Review{},
		&entities.Favorite{},
		&entities.ShelfBook{},
		&entities.ReadingListEntry{},
	} {
		assert.True(t, migrator.HasColumn(model, "work_olid"), "%T", model)
	}
}
