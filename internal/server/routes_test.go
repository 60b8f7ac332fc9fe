package server

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Routing failures keep their HTTP status instead of collapsing into a 500.
func TestUnknownRouteReturnsNotFound(t *testing.T) {
	t.Parallel()

	_, app, _ := newTestServer(t)

	status, env := doJSON(t, app, http.MethodGet, "/api/nope", nil, "")
	require.Equal(t, http.StatusNotFound, status)
	require.NotNil(t, env.Error)
	assert.Equal(t, "NOT_FOUND", env.Error.Code)
}

// Comment and admin surfaces are mounted at the root, not under /api.
func TestCommentAndAdminRoutesLiveAtRoot(t *testing.T) {
	t.Parallel()

	s, app, db := newTestServer(t)
	user, token := mustRegister(t, s, "writer", "writer@example.com")
	cat := mustCreateCategory(t, db, "Tech", "tech")
	mustCreateArticle(t, db, user, cat, "A", "a", true)

	status, _ := doJSON(t, app, http.MethodGet, "/articles/a/comments", nil, "")
	assert.Equal(t, http.StatusOK, status)

	status, _ = doJSON(t, app, http.MethodGet, "/api/articles/a/comments", nil, "")
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = doJSON(t, app, http.MethodGet, "/admin/comments", nil, token)
	assert.Equal(t, http.StatusOK, status)

	status, _ = doJSON(t, app, http.MethodGet, "/api/admin/comments", nil, token)
	assert.Equal(t, http.StatusNotFound, status)
}
