package server

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"inkwell/internal/config"
	"inkwell/internal/database"
	"inkwell/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret: "test-secret-test-secret-test-secret",
		Port:      "0",
		LoginURL:  "/auth/login",
		Env:       "test",
	}
}

// newTestServer builds a Server backed by an in-memory sqlite database and a
// Fiber app with all routes registered.
func newTestServer(t *testing.T) (*Server, *fiber.App, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "open sqlite")
	require.NoError(t, db.AutoMigrate(database.PersistentModels()...), "migrate sqlite")

	s, err := NewServerWithDeps(testConfig(), db, nil)
	require.NoError(t, err)

	app := fiber.New()
	s.SetupRoutes(app)

	return s, app, db
}

func createTestUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	user := &models.User{
		Username: username,
		Email:    username + "@example.com",
		Password: "hashed",
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func createTestCategory(t *testing.T, db *gorm.DB, slug string, published bool) *models.Category {
	t.Helper()
	category := &models.Category{
		Title:       "Category " + slug,
		Description: "about " + slug,
		Slug:        slug,
		IsPublished: published,
	}
	require.NoError(t, db.Create(category).Error)
	return category
}

type testPostOpts struct {
	author      *models.User
	category    *models.Category
	pubDate     time.Time
	isPublished bool
}

func createTestPost(t *testing.T, db *gorm.DB, opts testPostOpts) *models.Post {
	t.Helper()
	if opts.pubDate.IsZero() {
		opts.pubDate = time.Now().UTC().Add(-time.Hour)
	}
	post := &models.Post{
		Title:       "A post",
		Text:        "Some text",
		PubDate:     opts.pubDate,
		IsPublished: opts.isPublished,
		AuthorID:    opts.author.ID,
	}
	if opts.category != nil {
		post.CategoryID = &opts.category.ID
	}
	require.NoError(t, db.Create(post).Error)
	return post
}

func createTestComment(t *testing.T, db *gorm.DB, author *models.User, post *models.Post, text string) *models.Comment {
	t.Helper()
	comment := &models.Comment{
		Text:     text,
		AuthorID: author.ID,
		PostID:   post.ID,
	}
	require.NoError(t, db.Create(comment).Error)
	return comment
}

func commentEditURL(postID, commentID uint) string {
	return fmt.Sprintf("/posts/%d/edit_comment/%d/", postID, commentID)
}

func commentDeleteURL(postID, commentID uint) string {
	return fmt.Sprintf("/posts/%d/delete_comment/%d/", postID, commentID)
}

// authToken mints a valid JWT for the given user.
func authToken(t *testing.T, s *Server, user *models.User) string {
	t.Helper()
	token, err := s.generateToken(user.ID, user.Username)
	require.NoError(t, err)
	return token
}

// doRequest performs an HTTP request against the app, optionally
// authenticated and with a form-encoded body.
func doRequest(t *testing.T, app *fiber.App, method, path, token string, form url.Values) *http.Response {
	t.Helper()

	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req := httptest.NewRequest(method, path, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err, "app.Test")
	return resp
}

// requireRedirect asserts a 302 pointing at the expected location.
func requireRedirect(t *testing.T, resp *http.Response, location string) {
	t.Helper()
	require.Equal(t, http.StatusFound, resp.StatusCode)
	require.Equal(t, location, resp.Header.Get("Location"))
}
