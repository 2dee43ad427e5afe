package server

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"inkwell/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoryPosts_ListsOnlyPublicPostsInCategory(t *testing.T) {
	t.Parallel()

	_, app, db := newTestServer(t)
	author := createTestUser(t, db, "author")
	travel := createTestCategory(t, db, "travel", true)
	tech := createTestCategory(t, db, "tech", true)

	inCategory := createTestPost(t, db, testPostOpts{author: author, category: travel, isPublished: true})
	createTestPost(t, db, testPostOpts{author: author, category: travel, isPublished: false})
	createTestPost(t, db, testPostOpts{author: author, category: travel, isPublished: true, pubDate: time.Now().UTC().Add(time.Hour)})
	createTestPost(t, db, testPostOpts{author: author, category: tech, isPublished: true})

	resp := doRequest(t, app, http.MethodGet, "/category/travel/", "", nil)
	defer func() { _ = resp.Body.Close() }()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Category models.Category `json:"category"`
		Posts    []models.Post   `json:"posts"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "travel", body.Category.Slug)
	require.Len(t, body.Posts, 1)
	assert.Equal(t, inCategory.ID, body.Posts[0].ID)
}

func TestCategoryPosts_UnpublishedCategoryIs404(t *testing.T) {
	t.Parallel()

	_, app, db := newTestServer(t)
	createTestCategory(t, db, "secret", false)

	resp := doRequest(t, app, http.MethodGet, "/category/secret/", "", nil)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestCategoryPosts_UnknownSlugIs404(t *testing.T) {
	t.Parallel()

	_, app, _ := newTestServer(t)

	resp := doRequest(t, app, http.MethodGet, "/category/nope/", "", nil)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
