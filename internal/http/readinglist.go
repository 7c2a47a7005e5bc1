package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/libraryhub/libraryhub/internal/database/books"
	"github.com/libraryhub/libraryhub/internal/database/readinglist"
	"github.com/libraryhub/libraryhub/internal/entities"
	"github.com/libraryhub/libraryhub/internal/metadata"
)

// ReadingListController handles a user's personal reading list.
type ReadingListController struct {
	entries  *readinglist.Repository
	books    *books.Repository
	enricher *metadata.Enricher
}

// NewReadingListController creates a new ReadingListController.
func NewReadingListController(entryRepo *readinglist.Repository, bookRepo *books.Repository, enricher *metadata.Enricher) *ReadingListController {
	return &ReadingListController{entries: entryRepo, books: bookRepo, enricher: enricher}
}

// ReadingListItem is a reading-list entry hydrated with cached book metadata.
type ReadingListItem struct {
	entities.ReadingListEntry
	Book *entities.Book `json:"book,omitempty"`
}

// Create starts tracking a work on the user's reading list.
// POST /api/reading-list
func (rc *ReadingListController) Create(c *gin.Context) {
	userID := GetUserID(c)

	var req struct {
		WorkOLID        string `json:"work_olid" binding:"required"`
		Status          string `json:"status"`
		ProgressPercent *int   `json:"progress_percent"`
		Rating          *int   `json:"rating"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "work_olid is required")
		return
	}

	status := entities.ReadingStatusPlanned
	if req.Status != "" {
		status = entities.ReadingStatus(req.Status)
		if !entities.ValidReadingStatus(status) {
			respondBadRequest(c, "invalid status")
			return
		}
	}

	progress := 0
	if req.ProgressPercent != nil {
		if *req.ProgressPercent < 0 || *req.ProgressPercent > 100 {
			respondBadRequest(c, "progress_percent must be between 0 and 100")
			return
		}
		progress = *req.ProgressPercent
	}
	if req.Rating != nil && (*req.Rating < minRating || *req.Rating > maxRating) {
		respondBadRequest(c, "rating must be between 1 and 5")
		return
	}

	exists, err := rc.entries.Exists(userID, req.WorkOLID)
	if err != nil {
		respondInternalError(c, err, "check reading list")
		return
	}
	if exists {
		respondConflict(c, "book is already on your reading list")
		return
	}

	book, err := rc.enricher.EnsureBook(c.Request.Context(), req.WorkOLID)
	if err != nil {
		if errors.Is(err, metadata.ErrWorkNotFound) {
			respondNotFound(c, "book")
			return
		}
		respondInternalError(c, err, "resolve work")
		return
	}

	entry := &entities.ReadingListEntry{
		UserID:          userID,
		WorkOLID:        req.WorkOLID,
		Status:          status,
		ProgressPercent: progress,
		Rating:          req.Rating,
	}
	applyStatusTimestamps(entry, status)

	if err := rc.entries.Create(entry); err != nil {
		respondInternalError(c, err, "create reading list entry")
		return
	}
	respondCreated(c, ReadingListItem{ReadingListEntry: *entry, Book: book})
}

// List returns a page of the user's reading list with an optional status filter.
// GET /api/reading-list
func (rc *ReadingListController) List(c *gin.Context) {
	page, pageSize, ok := parsePagination(c)
	if !ok {
		return
	}
	userID := GetUserID(c)

	var status entities.ReadingStatus
	if raw := c.Query("status"); raw != "" {
		status = entities.ReadingStatus(raw)
		if !entities.ValidReadingStatus(status) {
			respondBadRequest(c, "invalid status")
			return
		}
	}

	entries, total, err := rc.entries.List(userID, status, pageSize, (page-1)*pageSize)
	if err != nil {
		respondInternalError(c, err, "list reading list")
		return
	}

	olids := make([]string, 0, len(entries))
	for _, e := range entries {
		olids = append(olids, e.WorkOLID)
	}
	cached, err := rc.books.GetByWorkOLIDs(olids)
	if err != nil {
		respondInternalError(c, err, "load cached books")
		return
	}

	items := make([]ReadingListItem, 0, len(entries))
	for _, e := range entries {
		item := ReadingListItem{ReadingListEntry: e}
		if book, found := cached[e.WorkOLID]; found {
			b := book
			item.Book = &b
		}
		items = append(items, item)
	}

	c.JSON(http.StatusOK, newPaginatedResponse(items, total, page, pageSize))
}

// Update modifies a reading-list entry. Moving to "reading" stamps started_at,
// moving to "completed" stamps finished_at and sets progress to 100.
// PATCH /api/reading-list/:id
func (rc *ReadingListController) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	entry, err := rc.entries.GetForUser(id, GetUserID(c))
	if err != nil {
		if errors.Is(err, readinglist.ErrNotFound) {
			respondNotFound(c, "reading list entry")
			return
		}
		respondInternalError(c, err, "get reading list entry")
		return
	}

	var req struct {
		Status          *string `json:"status"`
		ProgressPercent *int    `json:"progress_percent"`
		Rating          *int    `json:"rating"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	if req.Status != nil {
		status := entities.ReadingStatus(*req.Status)
		if !entities.ValidReadingStatus(status) {
			respondBadRequest(c, "invalid status")
			return
		}
		if status != entry.Status {
			entry.Status = status
			applyStatusTimestamps(entry, status)
		}
	}
	if req.ProgressPercent != nil {
		if *req.ProgressPercent < 0 || *req.ProgressPercent > 100 {
			respondBadRequest(c, "progress_percent must be between 0 and 100")
			return
		}
		entry.ProgressPercent = *req.ProgressPercent
	}
	if req.Rating != nil {
		if *req.Rating < minRating || *req.Rating > maxRating {
			respondBadRequest(c, "rating must be between 1 and 5")
			return
		}
		entry.Rating = req.Rating
	}

	if err := rc.entries.Save(entry); err != nil {
		respondInternalError(c, err, "update reading list entry")
		return
	}
	c.JSON(http.StatusOK, entry)
}

// Delete removes a reading-list entry.
// DELETE /api/reading-list/:id
func (rc *ReadingListController) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := rc.entries.Delete(id, GetUserID(c)); err != nil {
		if errors.Is(err, readinglist.ErrNotFound) {
			respondNotFound(c, "reading list entry")
			return
		}
		respondInternalError(c, err, "delete reading list entry")
		return
	}
	respondSuccess(c, "reading list entry removed")
}

// applyStatusTimestamps stamps started_at and finished_at on status changes.
func applyStatusTimestamps(entry *entities.ReadingListEntry, status entities.ReadingStatus) {
	now := time.Now()
	switch status {
	case entities.ReadingStatusReading:
		if entry.StartedAt == nil {
			entry.StartedAt = &now
		}
	case entities.ReadingStatusCompleted:
		if entry.StartedAt == nil {
			entry.StartedAt = &now
		}
		if entry.FinishedAt == nil {
			entry.FinishedAt = &now
		}
		entry.ProgressPercent = 100
	}
}
