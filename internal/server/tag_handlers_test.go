package server

import (
	"net/http"
	"testing"

	"inkwell/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateTag(t *testing.T) {
	t.Parallel()

	s, app, _ := newTestServer(t)
	_, token := mustRegister(t, s, "writer", "writer@example.com")

	status, env := doJSON(t, app, http.MethodPost, "/api/tags", map[string]string{
		"name": "Go",
		"slug": "go",
	}, token)
	require.Equal(t, http.StatusCreated, status)

	var tag models.Tag
	decodeData(t, env, &tag)
	assert.Equal(t, "Go", tag.Name)
}

func TestCreateTagDuplicateSlug(t *testing.T) {
	t.Parallel()

	s, app, db := newTestServer(t)
	_, token := mustRegister(t, s, "writer", "writer@example.com")
	mustCreateTag(t, db, "Go", "go")

	status, env := doJSON(t, app, http.MethodPost, "/api/tags", map[string]string{
		"name": "Golang",
		"slug": "go",
	}, token)
	require.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "SLUG_TAKEN", env.Error.Code)
}

// Unlike categories, a referenced tag may be deleted; the association rows go
// with it and the articles survive.
func TestDeleteTagDetachesArticles(t *testing.T) {
	t.Parallel()

	s, app, db := newTestServer(t)
	user, token := mustRegister(t, s, "writer", "writer@example.com")
	cat := mustCreateCategory(t, db, "Tech", "tech")
	tag := mustCreateTag(t, db, "Go", "go")
	article := mustCreateArticle(t, db, user, cat, "A", "a", true)
	require.NoError(t, db.Model(article).Association("Tags").Append(tag))

	status, _ := doJSON(t, app, http.MethodDelete, "/api/tags/"+itoa(tag.ID), nil, token)
	require.Equal(t, http.StatusOK, status)

	var tags int64
	require.NoError(t, db.Model(&models.Tag{}).Count(&tags).Error)
	assert.Zero(t, tags)

	var fresh models.Article
	require.NoError(t, db.Preload("Tags").First(&fresh, article.ID).Error)
	assert.Empty(t, fresh.Tags)
}

func TestGetTagNotFound(t *testing.T) {
	t.Parallel()

	_, app, _ := newTestServer(t)

	status, env := doJSON(t, app, http.MethodGet, "/api/tags/missing", nil, "")
	require.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "TAG_NOT_FOUND", env.Error.Code)
}

func TestTagMutationsRequireAuth(t *testing.T) {
	t.Parallel()

	_, app, db := newTestServer(t)
	tag := mustCreateTag(t, db, "Go", "go")

	status, _ := doJSON(t, app, http.MethodPost, "/api/tags", map[string]string{"name": "X", "slug": "x"}, "")
	assert.Equal(t, http.StatusUnauthorized, status)

	status, _ = doJSON(t, app, http.MethodDelete, "/api/tags/"+itoa(tag.ID), nil, "")
	assert.Equal(t, http.StatusUnauthorized, status)
}
