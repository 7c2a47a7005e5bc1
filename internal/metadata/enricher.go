// Package metadata keeps the local book cache in sync with the catalog.
//
// Book rows are created lazily the first time a work is referenced by a
// favorite, bookshelf or reading-list entry, and refreshed by background
// tasks once they grow stale.
package metadata

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/libraryhub/libraryhub/internal/database/books"
	"github.com/libraryhub/libraryhub/internal/entities"
	"github.com/libraryhub/libraryhub/internal/openlibrary"
)

// ErrWorkNotFound is returned when the work does not exist in the catalog.
var ErrWorkNotFound = errors.New("work not found in catalog")

// CatalogClient is the part of the OpenLibrary client the enricher needs.
type CatalogClient interface {
	GetWork(ctx context.Context, workOLID string) (*openlibrary.WorkMetadata, error)
}

// Enricher resolves works against the catalog and maintains the local cache.
type Enricher struct {
	client CatalogClient
	books  *books.Repository
}

// NewEnricher creates a new metadata enricher.
func NewEnricher(client CatalogClient, bookRepo *books.Repository) *Enricher {
	return &Enricher{client: client, books: bookRepo}
}

// EnsureBook returns the cached book for a work, fetching and caching it
// from the catalog on first reference. Returns ErrWorkNotFound when the
// work does not exist upstream.
func (e *Enricher) EnsureBook(ctx context.Context, workOLID string) (*entities.Book, error) {
	book, err := e.books.GetByWorkOLID(workOLID)
	if err == nil {
		return book, nil
	}
	if !errors.Is(err, books.ErrNotFound) {
		return nil, err
	}

	work, err := e.client.GetWork(ctx, workOLID)
	if err != nil {
		if errors.Is(err, openlibrary.ErrNotFound) {
			return nil, ErrWorkNotFound
		}
		return nil, fmt.Errorf("catalog lookup for %s: %w", workOLID, err)
	}

	book = &entities.Book{
		WorkOLID:      workOLID,
		Title:         work.Title,
		Authors:       strings.Join(work.Authors, ", "),
		CoverURL:      work.CoverURL,
		PublishedYear: work.Year,
		RefreshedAt:   time.Now(),
	}
	if err := e.books.Create(book); err != nil {
		// A concurrent request may have cached the same work first
		if cached, getErr := e.books.GetByWorkOLID(workOLID); getErr == nil {
			return cached, nil
		}
		return nil, fmt.Errorf("cache book %s: %w", workOLID, err)
	}
	return book, nil
}

// RefreshResult describes what a refresh changed.
type RefreshResult struct {
	Book          *entities.Book
	FieldsUpdated []string
}

// RefreshBook re-fetches a cached book from the catalog and updates any
// changed fields. The refresh timestamp advances even when nothing changed.
func (e *Enricher) RefreshBook(ctx context.Context, bookID uint) (*RefreshResult, error) {
	book, err := e.books.GetByID(bookID)
	if err != nil {
		return nil, err
	}

	work, err := e.client.GetWork(ctx, book.WorkOLID)
	if err != nil {
		if errors.Is(err, openlibrary.ErrNotFound) {
			// Work gone upstream; keep the cached copy but stop re-fetching it
			book.RefreshedAt = time.Now()
			if saveErr := e.books.Save(book); saveErr != nil {
				return nil, saveErr
			}
			return &RefreshResult{Book: book}, nil
		}
		return nil, fmt.Errorf("catalog lookup for %s: %w", book.WorkOLID, err)
	}

	result := &RefreshResult{Book: book}
	if work.Title != "" && work.Title != book.Title {
		book.Title = work.Title
		result.FieldsUpdated = append(result.FieldsUpdated, "title")
	}
	if authors := strings.Join(work.Authors, ", "); authors != "" && authors != book.Authors {
		book.Authors = authors
		result.FieldsUpdated = append(result.FieldsUpdated, "authors")
	}
	if work.CoverURL != "" && work.CoverURL != book.CoverURL {
		book.CoverURL = work.CoverURL
		result.FieldsUpdated = append(result.FieldsUpdated, "cover_url")
	}
	if work.Year != 0 && work.Year != book.PublishedYear {
		book.PublishedYear = work.Year
		result.FieldsUpdated = append(result.FieldsUpdated, "published_year")
	}

	book.RefreshedAt = time.Now()
	if err := e.books.Save(book); err != nil {
		return nil, err
	}
	return result, nil
}
