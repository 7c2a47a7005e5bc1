package http

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/libraryhub/libraryhub/internal/auth"
	"github.com/libraryhub/libraryhub/internal/entities"
)

func TestRegisterAndMe(t *testing.T) {
	ts := setupTestServer(t)

	user, token := ts.registerAndLogin("reader@example.com", "reader")
	assert.Equal(t, "reader@example.com", user.Email)
	assert.Equal(t, entities.UserRoleUser, user.Role)

	recorder := ts.do(http.MethodGet, "/api/users/me", nil, token)
	require.Equal(t, http.StatusOK, recorder.Code)
	me := decode[entities.User](t, recorder)
	assert.Equal(t, user.ID, me.ID)
	assert.Equal(t, "reader", me.Username)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	ts := setupTestServer(t)
	ts.register("reader@example.com", "reader")

	recorder := ts.do(http.MethodPost, "/api/users", gin.H{
		"email":    "reader@example.com",
		"username": "other",
		"password": "password123",
	}, "")
	require.Equal(t, http.StatusConflict, recorder.Code)
}

func TestRegisterValidation(t *testing.T) {
	ts := setupTestServer(t)

	tests := []struct {
		name string
		body gin.H
	}{
		{"missing email", gin.H{"username": "reader", "password": "password123"}},
		{"bad email", gin.H{"email": "not-an-email", "username": "reader", "password": "password123"}},
		{"short password", gin.H{"email": "a@example.com", "username": "reader", "password": "short"}},
		{"long username", gin.H{"email": "a@example.com", "username": "this-username-is-way-too-long-to-accept", "password": "password123"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := ts.do(http.MethodPost, "/api/users", tt.body, "")
			assert.Equal(t, http.StatusBadRequest, recorder.Code)
		})
	}
}

func TestUserListIsAdminOnly(t *testing.T) {
	ts := setupTestServer(t)
	_, token := ts.registerAndLogin("reader@example.com", "reader")

	recorder := ts.do(http.MethodGet, "/api/users", nil, token)
	require.Equal(t, http.StatusForbidden, recorder.Code)

	admin, _ := ts.registerAndLogin("admin@example.com", "admin")
	ts.promoteToAdmin(admin)
	adminToken := ts.login("admin@example.com")

	recorder = ts.do(http.MethodGet, "/api/users", nil, adminToken)
	require.Equal(t, http.StatusOK, recorder.Code)
	all := decode[[]entities.User](t, recorder)
	assert.Len(t, all, 2)

	recorder = ts.do(http.MethodGet, fmt.Sprintf("/api/users/%d", admin.ID), nil, adminToken)
	require.Equal(t, http.StatusOK, recorder.Code)
}

func TestUserUpdateOwnAccount(t *testing.T) {
	ts := setupTestServer(t)
	user, token := ts.registerAndLogin("reader@example.com", "reader")

	recorder := ts.do(http.MethodPatch, fmt.Sprintf("/api/users/%d", user.ID), gin.H{"username": "renamed"}, token)
	require.Equal(t, http.StatusOK, recorder.Code)
	updated := decode[entities.User](t, recorder)
	assert.Equal(t, "renamed", updated.Username)
}

func TestUserCannotTouchOtherAccounts(t *testing.T) {
	ts := setupTestServer(t)
	other := ts.register("other@example.com", "other")
	_, token := ts.registerAndLogin("reader@example.com", "reader")

	recorder := ts.do(http.MethodPatch, fmt.Sprintf("/api/users/%d", other.ID), gin.H{"username": "hijacked"}, token)
	require.Equal(t, http.StatusForbidden, recorder.Code)

	recorder = ts.do(http.MethodDelete, fmt.Sprintf("/api/users/%d", other.ID), nil, token)
	require.Equal(t, http.StatusForbidden, recorder.Code)
}

func TestUserCannotPromoteSelf(t *testing.T) {
	ts := setupTestServer(t)
	user, token := ts.registerAndLogin("reader@example.com", "reader")

	recorder := ts.do(http.MethodPatch, fmt.Sprintf("/api/users/%d", user.ID), gin.H{"role": "admin"}, token)
	require.Equal(t, http.StatusForbidden, recorder.Code)
}

func TestAdminCanDeactivateAccount(t *testing.T) {
	ts := setupTestServer(t)
	user, _ := ts.registerAndLogin("reader@example.com", "reader")
	admin := ts.register("admin@example.com", "admin")
	ts.promoteToAdmin(admin)
	adminToken := ts.login("admin@example.com")

	recorder := ts.do(http.MethodPatch, fmt.Sprintf("/api/users/%d", user.ID), gin.H{"is_active": false}, adminToken)
	require.Equal(t, http.StatusOK, recorder.Code)
	updated := decode[entities.User](t, recorder)
	assert.False(t, updated.IsActive)

	// Deactivated accounts cannot log in anymore
	recorder = ts.do(http.MethodPost, "/api/auth/token", gin.H{
		"email":    "reader@example.com",
		"password": "password123",
	}, "")
	require.Equal(t, http.StatusUnauthorized, recorder.Code)
}

func TestDeactivationRevokesRefreshTokens(t *testing.T) {
	ts := setupTestServer(t)
	user := ts.register("reader@example.com", "reader")
	admin := ts.register("admin@example.com", "admin")
	ts.promoteToAdmin(admin)
	adminToken := ts.login("admin@example.com")

	recorder := ts.do(http.MethodPost, "/api/auth/token", gin.H{
		"email":    "reader@example.com",
		"password": "password123",
	}, "")
	require.Equal(t, http.StatusOK, recorder.Code)
	pair := decode[auth.TokenPair](t, recorder)

	path := fmt.Sprintf("/api/users/%d", user.ID)
	recorder = ts.do(http.MethodPatch, path, gin.H{"is_active": false}, adminToken)
	require.Equal(t, http.StatusOK, recorder.Code)
	recorder = ts.do(http.MethodPatch, path, gin.H{"is_active": true}, adminToken)
	require.Equal(t, http.StatusOK, recorder.Code)

	// Tokens issued before the deactivation stay revoked after reactivation
	recorder = ts.do(http.MethodPost, "/api/auth/refresh-token", gin.H{"refresh_token": pair.RefreshToken}, "")
	require.Equal(t, http.StatusUnauthorized, recorder.Code)

	// A fresh login works again
	ts.login("reader@example.com")
}

func TestUserDeleteCascades(t *testing.T) {
	ts := setupTestServer(t)
	user, token := ts.registerAndLogin("reader@example.com", "reader")

	recorder := ts.do(http.MethodPost, "/api/books/OL1W/reviews", gin.H{"rating": 4}, token)
	require.Equal(t, http.StatusCreated, recorder.Code)
	recorder = ts.do(http.MethodPost, "/api/favorites/OL2W", nil, token)
	require.Equal(t, http.StatusCreated, recorder.Code)

	recorder = ts.do(http.MethodDelete, fmt.Sprintf("/api/users/%d", user.ID), nil, token)
	require.Equal(t, http.StatusOK, recorder.Code)

	// The user's reviews are gone from the public listing
	recorder = ts.do(http.MethodGet, "/api/books/OL1W/reviews", nil, "")
	require.Equal(t, http.StatusOK, recorder.Code)
	listing := decode[WorkReviewsResponse](t, recorder)
	assert.Equal(t, 0, listing.Count)
}

func TestUserDeleteOwnAccount(t *testing.T) {
	ts := setupTestServer(t)
	user, token := ts.registerAndLogin("reader@example.com", "reader")

	recorder := ts.do(http.MethodDelete, fmt.Sprintf("/api/users/%d", user.ID), nil, token)
	require.Equal(t, http.StatusOK, recorder.Code)

	// The deleted account's token no longer authenticates
	recorder = ts.do(http.MethodGet, "/api/users/me", nil, token)
	require.Equal(t, http.StatusUnauthorized, recorder.Code)
}
