package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/libraryhub/libraryhub/internal/database/books"
	"github.com/libraryhub/libraryhub/internal/database/favorites"
	"github.com/libraryhub/libraryhub/internal/entities"
	"github.com/libraryhub/libraryhub/internal/metadata"
)

// FavoritesStore defines database operations for favorite books.
type FavoritesStore interface {
	Create(favorite *entities.Favorite) error
	Exists(userID uint, workOLID string) (bool, error)
	List(userID uint, limit, offset int) ([]entities.Favorite, int64, error)
	Delete(userID uint, workOLID string) error
}

// FavoriteItem is a favorite hydrated with cached book metadata.
type FavoriteItem struct {
	WorkOLID string         `json:"work_olid"`
	AddedAt  string         `json:"added_at"`
	Book     *entities.Book `json:"book,omitempty"`
}

// FavoritesController handles a user's favorite books.
type FavoritesController struct {
	store    FavoritesStore
	books    *books.Repository
	enricher *metadata.Enricher
}

// NewFavoritesController creates a new FavoritesController.
func NewFavoritesController(store FavoritesStore, bookRepo *books.Repository, enricher *metadata.Enricher) *FavoritesController {
	return &FavoritesController{store: store, books: bookRepo, enricher: enricher}
}

// List returns a page of the user's favorites, newest first, hydrated with
// cached book metadata.
// GET /api/favorites
func (fc *FavoritesController) List(c *gin.Context) {
	page, pageSize, ok := parsePagination(c)
	if !ok {
		return
	}
	userID := GetUserID(c)

	favs, total, err := fc.store.List(userID, pageSize, (page-1)*pageSize)
	if err != nil {
		respondInternalError(c, err, "list favorites")
		return
	}

	olids := make([]string, 0, len(favs))
	for _, f := range favs {
		olids = append(olids, f.WorkOLID)
	}
	cached, err := fc.books.GetByWorkOLIDs(olids)
	if err != nil {
		respondInternalError(c, err, "load cached books")
		return
	}

	items := make([]FavoriteItem, 0, len(favs))
	for _, f := range favs {
		item := FavoriteItem{
			WorkOLID: f.WorkOLID,
			AddedAt:  f.CreatedAt.Format(time.RFC3339),
		}
		if book, found := cached[f.WorkOLID]; found {
			b := book
			item.Book = &b
		}
		items = append(items, item)
	}

	c.JSON(http.StatusOK, newPaginatedResponse(items, total, page, pageSize))
}

// Add marks a work as a favorite, caching its metadata locally.
// POST /api/favorites/:olid
func (fc *FavoritesController) Add(c *gin.Context) {
	olid := c.Param("olid")
	userID := GetUserID(c)

	exists, err := fc.store.Exists(userID, olid)
	if err != nil {
		respondInternalError(c, err, "check favorite")
		return
	}
	if exists {
		respondConflict(c, "book is already in favorites")
		return
	}

	book, err := fc.enricher.EnsureBook(c.Request.Context(), olid)
	if err != nil {
		if errors.Is(err, metadata.ErrWorkNotFound) {
			respondNotFound(c, "book")
			return
		}
		respondInternalError(c, err, "resolve work")
		return
	}

	favorite := &entities.Favorite{UserID: userID, WorkOLID: olid}
	if err := fc.store.Create(favorite); err != nil {
		respondInternalError(c, err, "create favorite")
		return
	}

	respondCreated(c, FavoriteItem{
		WorkOLID: olid,
		AddedAt:  favorite.CreatedAt.Format(time.RFC3339),
		Book:     book,
	})
}

// Remove deletes a favorite.
// DELETE /api/favorites/:olid
func (fc *FavoritesController) Remove(c *gin.Context) {
	olid := c.Param("olid")
	userID := GetUserID(c)

	if err := fc.store.Delete(userID, olid); err != nil {
		if errors.Is(err, favorites.ErrNotFound) {
			respondNotFound(c, "favorite")
			return
		}
		respondInternalError(c, err, "delete favorite")
		return
	}
	respondSuccess(c, "favorite removed")
}
