package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/libraryhub/libraryhub/internal/database/books"
	"github.com/libraryhub/libraryhub/internal/database/bookshelves"
	"github.com/libraryhub/libraryhub/internal/entities"
	"github.com/libraryhub/libraryhub/internal/metadata"
)

// BookshelvesController handles user-owned bookshelves.
type BookshelvesController struct {
	shelves  *bookshelves.Repository
	books    *books.Repository
	enricher *metadata.Enricher
}

// NewBookshelvesController creates a new BookshelvesController.
func NewBookshelvesController(shelfRepo *bookshelves.Repository, bookRepo *books.Repository, enricher *metadata.Enricher) *BookshelvesController {
	return &BookshelvesController{shelves: shelfRepo, books: bookRepo, enricher: enricher}
}

// ShelfBookItem is a shelved work hydrated with cached book metadata.
type ShelfBookItem struct {
	ID       uint           `json:"id"`
	WorkOLID string         `json:"work_olid"`
	AddedAt  time.Time      `json:"added_at"`
	Book     *entities.Book `json:"book,omitempty"`
}

// ShelfDetail is a bookshelf with its hydrated books.
type ShelfDetail struct {
	ID          uint            `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	Books       []ShelfBookItem `json:"books"`
}

// Create adds a new bookshelf. Names are unique per user.
// POST /api/bookshelves
func (sc *BookshelvesController) Create(c *gin.Context) {
	userID := GetUserID(c)

	var req struct {
		Name        string `json:"name" binding:"required"`
		Description string `json:"description"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "name is required")
		return
	}

	taken, err := sc.shelves.NameTaken(userID, req.Name)
	if err != nil {
		respondInternalError(c, err, "check shelf name")
		return
	}
	if taken {
		respondConflict(c, "a bookshelf with this name already exists")
		return
	}

	shelf := &entities.Bookshelf{
		UserID:      userID,
		Name:        req.Name,
		Description: req.Description,
	}
	if err := sc.shelves.Create(shelf); err != nil {
		respondInternalError(c, err, "create bookshelf")
		return
	}
	respondCreated(c, shelf)
}

// List returns all of the user's bookshelves without their books.
// GET /api/bookshelves
func (sc *BookshelvesController) List(c *gin.Context) {
	shelves, err := sc.shelves.ListForUser(GetUserID(c))
	if err != nil {
		respondInternalError(c, err, "list bookshelves")
		return
	}
	c.JSON(http.StatusOK, shelves)
}

// Get returns one bookshelf with its books hydrated from the local cache.
// Works not yet cached are fetched from the catalog and cached on the way.
// GET /api/bookshelves/:id
func (sc *BookshelvesController) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	shelf, err := sc.shelves.GetForUser(id, GetUserID(c))
	if err != nil {
		if errors.Is(err, bookshelves.ErrNotFound) {
			respondNotFound(c, "bookshelf")
			return
		}
		respondInternalError(c, err, "get bookshelf")
		return
	}

	olids := make([]string, 0, len(shelf.Books))
	for _, sb := range shelf.Books {
		olids = append(olids, sb.WorkOLID)
	}
	cached, err := sc.books.GetByWorkOLIDs(olids)
	if err != nil {
		respondInternalError(c, err, "load cached books")
		return
	}

	detail := ShelfDetail{
		ID:          shelf.ID,
		Name:        shelf.Name,
		Description: shelf.Description,
		CreatedAt:   shelf.CreatedAt,
		Books:       make([]ShelfBookItem, 0, len(shelf.Books)),
	}
	for _, sb := range shelf.Books {
		item := ShelfBookItem{
			ID:       sb.ID,
			WorkOLID: sb.WorkOLID,
			AddedAt:  sb.AddedAt,
		}
		if book, found := cached[sb.WorkOLID]; found {
			b := book
			item.Book = &b
		} else if book, err := sc.enricher.EnsureBook(c.Request.Context(), sb.WorkOLID); err == nil {
			item.Book = book
		}
		detail.Books = append(detail.Books, item)
	}

	c.JSON(http.StatusOK, detail)
}

// Update renames a bookshelf or changes its description.
// PATCH /api/bookshelves/:id
func (sc *BookshelvesController) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	userID := GetUserID(c)

	shelf, err := sc.shelves.GetForUser(id, userID)
	if err != nil {
		if errors.Is(err, bookshelves.ErrNotFound) {
			respondNotFound(c, "bookshelf")
			return
		}
		respondInternalError(c, err, "get bookshelf")
		return
	}

	var req struct {
		Name        *string `json:"name"`
		Description *string `json:"description"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	if req.Name != nil && *req.Name != shelf.Name {
		if *req.Name == "" {
			respondBadRequest(c, "name cannot be empty")
			return
		}
		taken, err := sc.shelves.NameTaken(userID, *req.Name)
		if err != nil {
			respondInternalError(c, err, "check shelf name")
			return
		}
		if taken {
			respondConflict(c, "a bookshelf with this name already exists")
			return
		}
		shelf.Name = *req.Name
	}
	if req.Description != nil {
		shelf.Description = *req.Description
	}

	if err := sc.shelves.Save(shelf); err != nil {
		respondInternalError(c, err, "update bookshelf")
		return
	}
	c.JSON(http.StatusOK, shelf)
}

// Delete removes a bookshelf and its books.
// DELETE /api/bookshelves/:id
func (sc *BookshelvesController) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := sc.shelves.Delete(id, GetUserID(c)); err != nil {
		if errors.Is(err, bookshelves.ErrNotFound) {
			respondNotFound(c, "bookshelf")
			return
		}
		respondInternalError(c, err, "delete bookshelf")
		return
	}
	respondSuccess(c, "bookshelf deleted")
}

// AddBook places a work on a bookshelf. A work appears on a shelf once.
// POST /api/bookshelves/:id/books
func (sc *BookshelvesController) AddBook(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	shelf, err := sc.shelves.GetForUser(id, GetUserID(c))
	if err != nil {
		if errors.Is(err, bookshelves.ErrNotFound) {
			respondNotFound(c, "bookshelf")
			return
		}
		respondInternalError(c, err, "get bookshelf")
		return
	}

	var req struct {
		WorkOLID string `json:"work_olid" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "work_olid is required")
		return
	}

	onShelf, err := sc.shelves.HasBook(shelf.ID, req.WorkOLID)
	if err != nil {
		respondInternalError(c, err, "check shelf book")
		return
	}
	if onShelf {
		respondConflict(c, "book is already on this bookshelf")
		return
	}

	book, err := sc.enricher.EnsureBook(c.Request.Context(), req.WorkOLID)
	if err != nil {
		if errors.Is(err, metadata.ErrWorkNotFound) {
			respondNotFound(c, "book")
			return
		}
		respondInternalError(c, err, "resolve work")
		return
	}

	shelfBook := &entities.ShelfBook{
		BookshelfID: shelf.ID,
		WorkOLID:    req.WorkOLID,
	}
	if err := sc.shelves.AddBook(shelfBook); err != nil {
		respondInternalError(c, err, "add shelf book")
		return
	}

	respondCreated(c, ShelfBookItem{
		ID:       shelfBook.ID,
		WorkOLID: shelfBook.WorkOLID,
		AddedAt:  shelfBook.AddedAt,
		Book:     book,
	})
}

// RemoveBook takes a work off a bookshelf.
// DELETE /api/bookshelves/:id/books/:bookId
func (sc *BookshelvesController) RemoveBook(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	bookID, ok := parseIDParam(c, "bookId")
	if !ok {
		return
	}

	shelf, err := sc.shelves.GetForUser(id, GetUserID(c))
	if err != nil {
		if errors.Is(err, bookshelves.ErrNotFound) {
			respondNotFound(c, "bookshelf")
			return
		}
		respondInternalError(c, err, "get bookshelf")
		return
	}

	if err := sc.shelves.RemoveBook(shelf.ID, bookID); err != nil {
		if errors.Is(err, bookshelves.ErrBookNotFound) {
			respondNotFound(c, "book on bookshelf")
			return
		}
		respondInternalError(c, err, "remove shelf book")
		return
	}
	respondSuccess(c, "book removed from bookshelf")
}
