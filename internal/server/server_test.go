package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"inkwell/internal/config"
	"inkwell/internal/database"
	"inkwell/internal/models"
	"inkwell/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Each test gets its own named in-memory database. cache=shared keeps the
// database alive across the pooled connections, which matters for handlers
// that write from a background goroutine.
var testDBCounter atomic.Int64

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:handlertest%d?mode=memory&cache=shared", testDBCounter.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate sqlite: %v", err)
	}

	return db
}

// newTestServer builds a full server on an in-memory database, without Redis
// and without the middleware stack, and mounts the real route table.
func newTestServer(t *testing.T) (*Server, *fiber.App, *gorm.DB) {
	t.Helper()

	db := setupTestDB(t)
	cfg := &config.Config{
		Port:      "0",
		Env:       "test",
		AppURL:    "http://localhost:3000",
		JWTSecret: "test-secret-that-is-long-enough-for-hs256",
	}

	s, err := NewServerWithDeps(cfg, db, nil)
	require.NoError(t, err)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return models.RespondWithError(c, err)
		},
	})
	s.SetupRoutes(app)

	return s, app, db
}

// mustRegister persists a user through the auth service and returns it with
// a valid bearer token.
func mustRegister(t *testing.T, s *Server, username, email string) (*models.User, string) {
	t.Helper()

	user, err := s.authService.Register(t.Context(), service.RegisterInput{
		Email:    email,
		Username: username,
		Password: "password123",
	})
	require.NoError(t, err)

	token, err := s.generateToken(user)
	require.NoError(t, err)

	return user, token
}

// envelope mirrors the response body shape for assertions.
type envelope struct {
	Success bool              `json:"success"`
	Data    json.RawMessage   `json:"data"`
	Message string            `json:"message"`
	Error   *models.ErrorBody `json:"error"`
}

// doJSON performs a request against the app and decodes the envelope.
func doJSON(t *testing.T, app *fiber.App, method, path string, body any, token string) (int, envelope) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var env envelope
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &env), "body: %s", raw)
	}
	return resp.StatusCode, env
}

// decodeData unmarshals the envelope data field into dest.
func decodeData(t *testing.T, env envelope, dest any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(env.Data, dest))
}

func itoa(id uint) string {
	return fmt.Sprintf("%d", id)
}

func articlePath(id uint) string {
	return "/api/articles/" + itoa(id)
}

// mustCreateCategory inserts a category directly.
func mustCreateCategory(t *testing.T, db *gorm.DB, name, slug string) *models.Category {
	t.Helper()
	cat := &models.Category{Name: name, Slug: slug}
	require.NoError(t, db.Create(cat).Error)
	return cat
}

// mustCreateTag inserts a tag directly.
func mustCreateTag(t *testing.T, db *gorm.DB, name, slug string) *models.Tag {
	t.Helper()
	tag := &models.Tag{Name: name, Slug: slug}
	require.NoError(t, db.Create(tag).Error)
	return tag
}

// mustCreateArticle inserts an article directly.
func mustCreateArticle(t *testing.T, db *gorm.DB, author *models.User, cat *models.Category, title, slug string, published bool) *models.Article {
	t.Helper()
	article := &models.Article{
		Title:      title,
		Slug:       slug,
		Content:    "content for " + title,
		Published:  published,
		CategoryID: cat.ID,
		AuthorID:   author.ID,
	}
	require.NoError(t, db.Create(article).Error)
	return article
}
