package http

import (
	"github.com/libraryhub/libraryhub/internal/auth"
	"github.com/libraryhub/libraryhub/internal/database"
	"github.com/libraryhub/libraryhub/internal/database/books"
	"github.com/libraryhub/libraryhub/internal/database/bookshelves"
	"github.com/libraryhub/libraryhub/internal/database/readinglist"
	"github.com/libraryhub/libraryhub/internal/database/reviews"
	"github.com/libraryhub/libraryhub/internal/database/users"
	"github.com/libraryhub/libraryhub/internal/metadata"
	"github.com/libraryhub/libraryhub/internal/openlibrary"
	"github.com/libraryhub/libraryhub/internal/tasks"
)

// RouterConfig contains all dependencies and configuration needed
// to create the HTTP router. This replaces a long parameter list
// in NewRouter for better maintainability.
type RouterConfig struct {
	// Core dependencies
	Database *database.Database

	// Authentication
	AuthService    *auth.Service
	AuthMiddleware *auth.Middleware

	// Repositories
	Users       *users.Repository
	Books       *books.Repository
	Reviews     *reviews.Repository
	Bookshelves *bookshelves.Repository
	ReadingList *readinglist.Repository

	// Favorites operations
	FavoritesStore FavoritesStore

	// Catalog lookup and local book caching
	Catalog  *openlibrary.Client
	Enricher *metadata.Enricher

	// Task queue client (optional)
	TaskClient *tasks.Client

	// Application info
	Version string
}
