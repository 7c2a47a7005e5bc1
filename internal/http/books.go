package http

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/libraryhub/libraryhub/internal/database/reviews"
	"github.com/libraryhub/libraryhub/internal/entities"
	"github.com/libraryhub/libraryhub/internal/openlibrary"
)

// BooksController serves catalog search and book detail lookups.
type BooksController struct {
	catalog *openlibrary.Client
	reviews *reviews.Repository
}

// NewBooksController creates a new BooksController.
func NewBooksController(catalog *openlibrary.Client, reviewRepo *reviews.Repository) *BooksController {
	return &BooksController{catalog: catalog, reviews: reviewRepo}
}

// SearchResponse is a page of catalog search results.
type SearchResponse struct {
	Total    int                      `json:"total"`
	Page     int                      `json:"page"`
	PageSize int                      `json:"page_size"`
	Items    []openlibrary.SearchItem `json:"items"`
}

// Search runs a fielded catalog search. Without any filter the response is
// an empty page and no upstream request is made.
// GET /api/books/search
func (bc *BooksController) Search(c *gin.Context) {
	page, pageSize, ok := parsePagination(c)
	if !ok {
		return
	}

	query := openlibrary.SearchQuery{
		Title:     c.Query("title"),
		Author:    c.Query("author"),
		Subject:   c.Query("subject"),
		ISBN:      c.Query("isbn"),
		Publisher: c.Query("publisher"),
	}
	if raw := c.Query("year"); raw != "" {
		year, err := strconv.Atoi(raw)
		if err != nil {
			respondBadRequest(c, "invalid year")
			return
		}
		query.Year = year
	}

	result, err := bc.catalog.Search(c.Request.Context(), query, page, pageSize)
	if err != nil {
		respondInternalError(c, err, "catalog search")
		return
	}

	c.JSON(http.StatusOK, SearchResponse{
		Total:    result.Total,
		Page:     page,
		PageSize: pageSize,
		Items:    result.Items,
	})
}

// Get returns the catalog record for a work or edition OLID.
// Edition OLIDs end in "M", work OLIDs in "W".
// GET /api/books/:olid
func (bc *BooksController) Get(c *gin.Context) {
	olid := c.Param("olid")
	if olid == "" {
		respondBadRequest(c, "olid is required")
		return
	}

	var (
		payload any
		err     error
	)
	if strings.HasSuffix(olid, "M") {
		payload, err = bc.catalog.GetEdition(c.Request.Context(), olid)
	} else {
		payload, err = bc.catalog.GetWork(c.Request.Context(), olid)
	}
	if err != nil {
		if errors.Is(err, openlibrary.ErrNotFound) {
			respondNotFound(c, "book")
			return
		}
		respondInternalError(c, err, "catalog lookup")
		return
	}
	c.JSON(http.StatusOK, payload)
}

// WorkReviewsResponse lists a work's reviews with the aggregate rating.
type WorkReviewsResponse struct {
	WorkOLID      string            `json:"work_olid"`
	AverageRating float64           `json:"average_rating"`
	Count         int               `json:"count"`
	Reviews       []entities.Review `json:"reviews"`
}

// ListReviews returns all reviews for a work, newest first.
// GET /api/books/:olid/reviews
func (bc *BooksController) ListReviews(c *gin.Context) {
	olid := c.Param("olid")

	all, avg, err := bc.reviews.ListByWork(olid)
	if err != nil {
		respondInternalError(c, err, "list reviews")
		return
	}
	c.JSON(http.StatusOK, WorkReviewsResponse{
		WorkOLID:      olid,
		AverageRating: avg,
		Count:         len(all),
		Reviews:       all,
	})
}
