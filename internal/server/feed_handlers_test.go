package server

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"inkwell/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fetchText(t *testing.T, app *fiber.App, path string) (*http.Response, string) {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, path, nil), -1)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(body)
}

func TestRSSFeed(t *testing.T) {
	t.Parallel()

	s, app, db := newTestServer(t)
	user, _ := mustRegister(t, s, "writer", "writer@example.com")
	cat := mustCreateCategory(t, db, "Tech", "tech")
	mustCreateArticle(t, db, user, cat, "Published Piece", "published-piece", true)
	mustCreateArticle(t, db, user, cat, "Hidden Draft", "hidden-draft", false)

	resp, body := fetchText(t, app, "/rss.xml")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "application/rss+xml")
	assert.Contains(t, body, "<rss")
	assert.Contains(t, body, "Published Piece")
	assert.NotContains(t, body, "Hidden Draft")
}

func TestSitemap(t *testing.T) {
	t.Parallel()

	s, app, db := newTestServer(t)
	user, _ := mustRegister(t, s, "writer", "writer@example.com")
	cat := mustCreateCategory(t, db, "Tech", "tech")
	mustCreateTag(t, db, "Go", "go")
	mustCreateArticle(t, db, user, cat, "Piece", "piece", true)
	mustCreateArticle(t, db, user, cat, "Draft", "draft", false)

	resp, body := fetchText(t, app, "/sitemap.xml")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "xml")
	assert.Contains(t, body, "<urlset")
	assert.Contains(t, body, "/articles/piece</loc>")
	assert.Contains(t, body, "/categories/tech</loc>")
	assert.Contains(t, body, "/tags/go</loc>")
	// Drafts are not advertised to crawlers.
	assert.NotContains(t, body, "/articles/draft</loc>")
	// Published articles carry a lastmod.
	assert.True(t, strings.Contains(body, "<lastmod>"))
}

func TestRobots(t *testing.T) {
	t.Parallel()

	_, app, _ := newTestServer(t)

	resp, body := fetchText(t, app, "/robots.txt")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "User-agent: *")
	assert.Contains(t, body, "Sitemap: ")
	assert.Contains(t, body, "Disallow: /admin")
}

func TestSearchEmptyQuery(t *testing.T) {
	t.Parallel()

	_, app, _ := newTestServer(t)

	status, env := doJSON(t, app, http.MethodGet, "/api/search", nil, "")
	require.Equal(t, http.StatusOK, status)

	var data struct {
		Articles   []models.Article  `json:"articles"`
		Tags       []models.Tag      `json:"tags"`
		Categories []models.Category `json:"categories"`
	}
	decodeData(t, env, &data)
	assert.Empty(t, data.Articles)
	assert.Empty(t, data.Tags)
	assert.Empty(t, data.Categories)
}

func TestSearchMatchesAcrossEntities(t *testing.T) {
	t.Parallel()

	s, app, db := newTestServer(t)
	user, _ := mustRegister(t, s, "writer", "writer@example.com")
	cat := mustCreateCategory(t, db, "Gardening", "gardening")
	mustCreateTag(t, db, "Garden Tools", "garden-tools")
	mustCreateArticle(t, db, user, cat, "My garden notes", "garden-notes", true)
	mustCreateArticle(t, db, user, cat, "Secret garden draft", "garden-draft", false)

	status, env := doJSON(t, app, http.MethodGet, "/api/search?q=garden", nil, "")
	require.Equal(t, http.StatusOK, status)

	var data struct {
		Articles   []models.Article  `json:"articles"`
		Tags       []models.Tag      `json:"tags"`
		Categories []models.Category `json:"categories"`
	}
	decodeData(t, env, &data)
	// Only the published article matches.
	require.Len(t, data.Articles, 1)
	assert.Equal(t, "garden-notes", data.Articles[0].Slug)
	assert.Len(t, data.Tags, 1)
	assert.Len(t, data.Categories, 1)
}
