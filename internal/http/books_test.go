package http

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/libraryhub/libraryhub/internal/openlibrary"
)

func TestBookSearch(t *testing.T) {
	ts := setupTestServer(t)

	recorder := ts.do(http.MethodGet, "/api/books/search?title=dune", nil, "")
	require.Equal(t, http.StatusOK, recorder.Code)

	result := decode[SearchResponse](t, recorder)
	assert.Equal(t, 2, result.Total)
	assert.Equal(t, 1, result.Page)
	assert.Equal(t, defaultPageSize, result.PageSize)
	require.Len(t, result.Items, 2)
	assert.Equal(t, "OL1W", result.Items[0].WorkOLID)
	assert.Equal(t, "Dune", result.Items[0].Title)
}

func TestBookSearchWithoutFilters(t *testing.T) {
	ts := setupTestServer(t)

	recorder := ts.do(http.MethodGet, "/api/books/search", nil, "")
	require.Equal(t, http.StatusOK, recorder.Code)

	result := decode[SearchResponse](t, recorder)
	assert.Equal(t, 0, result.Total)
	assert.Empty(t, result.Items)
}

func TestBookSearchInvalidYear(t *testing.T) {
	ts := setupTestServer(t)

	recorder := ts.do(http.MethodGet, "/api/books/search?year=nineteen", nil, "")
	require.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestBookGetWork(t *testing.T) {
	ts := setupTestServer(t)

	recorder := ts.do(http.MethodGet, "/api/books/OL1W", nil, "")
	require.Equal(t, http.StatusOK, recorder.Code)

	work := decode[openlibrary.WorkMetadata](t, recorder)
	assert.Equal(t, "OL1W", work.WorkOLID)
	assert.Equal(t, "Dune", work.Title)
	assert.Equal(t, []string{"Frank Herbert"}, work.Authors)
	assert.Equal(t, 1965, work.Year)
}

func TestBookGetEdition(t *testing.T) {
	ts := setupTestServer(t)

	recorder := ts.do(http.MethodGet, "/api/books/OL1M", nil, "")
	require.Equal(t, http.StatusOK, recorder.Code)

	edition := decode[openlibrary.EditionMetadata](t, recorder)
	assert.Equal(t, "OL1M", edition.EditionOLID)
	assert.Equal(t, []string{"9780441172719"}, edition.ISBN)
	assert.Equal(t, 535, edition.Pages)
}

func TestBookGetUnknownWork(t *testing.T) {
	ts := setupTestServer(t)

	recorder := ts.do(http.MethodGet, "/api/books/OL999W", nil, "")
	require.Equal(t, http.StatusNotFound, recorder.Code)
}
