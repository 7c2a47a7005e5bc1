package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/libraryhub/libraryhub/internal/database/reviews"
	"github.com/libraryhub/libraryhub/internal/entities"
	"github.com/libraryhub/libraryhub/internal/metadata"
)

const (
	minRating = 1
	maxRating = 5
)

// ReviewsController handles creating and editing book reviews.
type ReviewsController struct {
	reviews  *reviews.Repository
	enricher *metadata.Enricher
}

// NewReviewsController creates a new ReviewsController.
func NewReviewsController(reviewRepo *reviews.Repository, enricher *metadata.Enricher) *ReviewsController {
	return &ReviewsController{reviews: reviewRepo, enricher: enricher}
}

// Create adds the authenticated user's review of a work. A user may review
// a work only once.
// POST /api/books/:olid/reviews
func (rc *ReviewsController) Create(c *gin.Context) {
	olid := c.Param("olid")
	userID := GetUserID(c)

	var req struct {
		Rating  *float64 `json:"rating" binding:"required"`
		Comment string   `json:"comment"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "rating is required")
		return
	}
	if *req.Rating < minRating || *req.Rating > maxRating {
		respondBadRequest(c, "rating must be between 1 and 5")
		return
	}

	if _, err := rc.reviews.GetByUserAndWork(userID, olid); err == nil {
		respondConflict(c, "you have already reviewed this book")
		return
	} else if !errors.Is(err, reviews.ErrNotFound) {
		respondInternalError(c, err, "check existing review")
		return
	}

	// Verifies the work exists and caches its metadata locally
	if _, err := rc.enricher.EnsureBook(c.Request.Context(), olid); err != nil {
		if errors.Is(err, metadata.ErrWorkNotFound) {
			respondNotFound(c, "book")
			return
		}
		respondInternalError(c, err, "resolve work")
		return
	}

	review := &entities.Review{
		UserID:   userID,
		WorkOLID: olid,
		Rating:   *req.Rating,
		Comment:  req.Comment,
	}
	if err := rc.reviews.Create(review); err != nil {
		respondInternalError(c, err, "create review")
		return
	}
	respondCreated(c, review)
}

// Update edits the authenticated user's own review.
// PATCH /api/reviews/:id
func (rc *ReviewsController) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	review, err := rc.reviews.GetByID(id)
	if err != nil {
		if errors.Is(err, reviews.ErrNotFound) {
			respondNotFound(c, "review")
			return
		}
		respondInternalError(c, err, "get review")
		return
	}
	if review.UserID != GetUserID(c) {
		respondForbidden(c, "cannot modify another user's review")
		return
	}

	var req struct {
		Rating  *float64 `json:"rating"`
		Comment *string  `json:"comment"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	if req.Rating != nil {
		if *req.Rating < minRating || *req.Rating > maxRating {
			respondBadRequest(c, "rating must be between 1 and 5")
			return
		}
		review.Rating = *req.Rating
	}
	if req.Comment != nil {
		review.Comment = *req.Comment
	}

	if err := rc.reviews.Save(review); err != nil {
		respondInternalError(c, err, "update review")
		return
	}
	c.JSON(http.StatusOK, review)
}

// Delete removes the authenticated user's own review.
// DELETE /api/reviews/:id
func (rc *ReviewsController) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	review, err := rc.reviews.GetByID(id)
	if err != nil {
		if errors.Is(err, reviews.ErrNotFound) {
			respondNotFound(c, "review")
			return
		}
		respondInternalError(c, err, "get review")
		return
	}
	if review.UserID != GetUserID(c) {
		respondForbidden(c, "cannot delete another user's review")
		return
	}

	if err := rc.reviews.Delete(id); err != nil {
		respondInternalError(c, err, "delete review")
		return
	}
	respondSuccess(c, "review deleted")
}
