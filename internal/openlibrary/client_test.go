package openlibrary

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/libraryhub/libraryhub/internal/config"
)

func testClient(serverURL string) *Client {
	return NewClient(config.OpenLibrary{
		BaseURL:           serverURL,
		UserAgent:         "libraryhub-test/1.0",
		RequestsPerSecond: 1000,
		MaxRetries:        2,
		Timeout:           5 * time.Second,
	})
}

func TestSearchEmptyQuerySkipsUpstream(t *testing.T) {
	var requests int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&requests, 1)
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := testClient(server.URL)
	result, err := client.Search(context.Background(), SearchQuery{}, 1, 20)

	require.NoError(t, err)
	assert.Equal(t, 0, result.Total)
	assert.Empty(t, result.Items)
	assert.Equal(t, int64(0), atomic.LoadInt64(&requests))
}

func TestSearchParsesDocs(t *testing.T) {
	var gotQuery, gotOffset, gotLimit string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/search.json", r.URL.Path)
		gotQuery = r.URL.Query().Get("q")
		gotOffset = r.URL.Query().Get("offset")
		gotLimit = r.URL.Query().Get("limit")
		w.Write([]byte(`{
			"numFound": 42,
			"docs": [
				{"key": "/works/OL45883W", "title": "Fahrenheit 451", "author_name": ["Ray Bradbury"], "first_publish_year": 1953, "cover_i": 123},
				{"key": "/works/OL123W", "title": "No Cover"}
			]
		}`))
	}))
	defer server.Close()

	client := testClient(server.URL)
	result, err := client.Search(context.Background(), SearchQuery{Title: "Fahrenheit 451", Year: 1953}, 2, 10)

	require.NoError(t, err)
	assert.Equal(t, `title:"Fahrenheit 451" AND first_publish_year:1953`, gotQuery)
	assert.Equal(t, "10", gotOffset)
	assert.Equal(t, "10", gotLimit)
	assert.Equal(t, 42, result.Total)
	require.Len(t, result.Items, 2)
	assert.Equal(t, "OL45883W", result.Items[0].WorkOLID)
	assert.Equal(t, "Fahrenheit 451", result.Items[0].Title)
	assert.Equal(t, []string{"Ray Bradbury"}, result.Items[0].Authors)
	assert.Equal(t, 1953, result.Items[0].Year)
	assert.Equal(t, "https://covers.openlibrary.org/b/id/123-M.jpg", result.Items[0].CoverURL)
	assert.Empty(t, result.Items[1].CoverURL)
}

func TestGetWorkResolvesAuthors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/works/OL45883W.json":
			w.Write([]byte(`{
				"key": "/works/OL45883W",
				"title": "Fahrenheit 451",
				"description": {"type": "/type/text", "value": "A dystopia."},
				"covers": [456],
				"subjects": ["Censorship"],
				"first_publish_date": "October 1953",
				"authors": [{"author": {"key": "/authors/OL1A"}}]
			}`))
		case "/authors/OL1A.json":
			w.Write([]byte(`{"name": "Ray Bradbury"}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	client := testClient(server.URL)
	work, err := client.GetWork(context.Background(), "OL45883W")

	require.NoError(t, err)
	assert.Equal(t, "OL45883W", work.WorkOLID)
	assert.Equal(t, "Fahrenheit 451", work.Title)
	assert.Equal(t, "A dystopia.", work.Description)
	assert.Equal(t, []string{"Ray Bradbury"}, work.Authors)
	assert.Equal(t, 1953, work.Year)
	assert.Equal(t, "https://covers.openlibrary.org/b/id/456-M.jpg", work.CoverURL)
	assert.Equal(t, []string{"Censorship"}, work.Subjects)
}

func TestGetWorkNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	client := testClient(server.URL)
	_, err := client.GetWork(context.Background(), "OL0W")

	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetEditionFallsBackToISBNCover(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/books/OL7353617M.json", r.URL.Path)
		w.Write([]byte(`{
			"key": "/books/OL7353617M",
			"title": "Fahrenheit 451",
			"publish_date": "1993",
			"publishers": ["Simon & Schuster"],
			"isbn_13": ["9780671870362"],
			"isbn_10": ["0671870363"],
			"number_of_pages": 190,
			"languages": [{"key": "/languages/eng"}]
		}`))
	}))
	defer server.Close()

	client := testClient(server.URL)
	edition, err := client.GetEdition(context.Background(), "OL7353617M")

	require.NoError(t, err)
	assert.Equal(t, "OL7353617M", edition.EditionOLID)
	assert.Equal(t, []string{"9780671870362", "0671870363"}, edition.ISBN)
	assert.Equal(t, []string{"eng"}, edition.Languages)
	assert.Equal(t, 190, edition.Pages)
	assert.Equal(t, 1993, edition.Year)
	assert.Equal(t, "https://covers.openlibrary.org/b/isbn/9780671870362-M.jpg", edition.CoverURL)
}

func TestGetRetriesOnTooManyRequests(t *testing.T) {
	var requests int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt64(&requests, 1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write([]byte(`{"key": "/works/OL1W", "title": "Second Try"}`))
	}))
	defer server.Close()

	client := testClient(server.URL)
	work, err := client.GetWork(context.Background(), "OL1W")

	require.NoError(t, err)
	assert.Equal(t, "Second Try", work.Title)
	assert.Equal(t, int64(2), atomic.LoadInt64(&requests))
}

func TestExtractYear(t *testing.T) {
	assert.Equal(t, 1953, extractYear("October 1953"))
	assert.Equal(t, 2011, extractYear("2011-05-01"))
	assert.Equal(t, 0, extractYear("n.d."))
}
