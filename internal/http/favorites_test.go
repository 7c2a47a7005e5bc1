package http

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFavoriteAddAndList(t *testing.T) {
	ts := setupTestServer(t)
	_, token := ts.registerAndLogin("reader@example.com", "reader")

	recorder := ts.do(http.MethodPost, "/api/favorites/OL1W", nil, token)
	require.Equal(t, http.StatusCreated, recorder.Code, recorder.Body.String())
	added := decode[struct {
		WorkOLID string `json:"work_olid"`
		Book     struct {
			Title   string   `json:"title"`
			Authors []string `json:"authors"`
		} `json:"book"`
	}](t, recorder)
	assert.Equal(t, "OL1W", added.WorkOLID)
	assert.Equal(t, "Dune", added.Book.Title)
	assert.Equal(t, []string{"Frank Herbert"}, added.Book.Authors)

	recorder = ts.do(http.MethodPost, "/api/favorites/OL2W", nil, token)
	require.Equal(t, http.StatusCreated, recorder.Code)

	recorder = ts.do(http.MethodGet, "/api/favorites", nil, token)
	require.Equal(t, http.StatusOK, recorder.Code)

	page := decode[struct {
		Data []struct {
			WorkOLID string `json:"work_olid"`
			Book     *struct {
				Title   string   `json:"title"`
				Authors []string `json:"authors"`
			} `json:"book"`
		} `json:"data"`
		Total int64 `json:"total"`
	}](t, recorder)
	assert.Equal(t, int64(2), page.Total)
	require.Len(t, page.Data, 2)
	for _, item := range page.Data {
		require.NotNil(t, item.Book, item.WorkOLID)
		if item.WorkOLID == "OL1W" {
			assert.Equal(t, []string{"Frank Herbert"}, item.Book.Authors)
		}
	}
}

func TestFavoriteDuplicate(t *testing.T) {
	ts := setupTestServer(t)
	_, token := ts.registerAndLogin("reader@example.com", "reader")

	recorder := ts.do(http.MethodPost, "/api/favorites/OL1W", nil, token)
	require.Equal(t, http.StatusCreated, recorder.Code)

	recorder = ts.do(http.MethodPost, "/api/favorites/OL1W", nil, token)
	require.Equal(t, http.StatusConflict, recorder.Code)
}

func TestFavoriteUnknownWork(t *testing.T) {
	ts := setupTestServer(t)
	_, token := ts.registerAndLogin("reader@example.com", "reader")

	recorder := ts.do(http.MethodPost, "/api/favorites/OL999W", nil, token)
	require.Equal(t, http.StatusNotFound, recorder.Code)
}

func TestFavoriteRemove(t *testing.T) {
	ts := setupTestServer(t)
	_, token := ts.registerAndLogin("reader@example.com", "reader")

	recorder := ts.do(http.MethodPost, "/api/favorites/OL1W", nil, token)
	require.Equal(t, http.StatusCreated, recorder.Code)

	recorder = ts.do(http.MethodDelete, "/api/favorites/OL1W", nil, token)
	require.Equal(t, http.StatusOK, recorder.Code)

	recorder = ts.do(http.MethodDelete, "/api/favorites/OL1W", nil, token)
	require.Equal(t, http.StatusNotFound, recorder.Code)
}

func TestFavoritesArePerUser(t *testing.T) {
	ts := setupTestServer(t)
	_, readerToken := ts.registerAndLogin("reader@example.com", "reader")
	_, otherToken := ts.registerAndLogin("other@example.com", "other")

	recorder := ts.do(http.MethodPost, "/api/favorites/OL1W", nil, readerToken)
	require.Equal(t, http.StatusCreated, recorder.Code)

	recorder = ts.do(http.MethodGet, "/api/favorites", nil, otherToken)
	require.Equal(t, http.StatusOK, recorder.Code)
	page := decode[PaginatedResponse](t, recorder)
	assert.Equal(t, int64(0), page.Total)

	// Removing someone else's favorite fails
	recorder = ts.do(http.MethodDelete, "/api/favorites/OL1W", nil, otherToken)
	require.Equal(t, http.StatusNotFound, recorder.Code)
}
