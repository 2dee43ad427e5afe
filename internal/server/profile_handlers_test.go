package server

import (
	"encoding/json"
	"net/http"
	"net/url"
	"testing"
	"time"

	"inkwell/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfile_OwnerSeesAllPostsVisitorSeesPublic(t *testing.T) {
	t.Parallel()

	s, app, db := newTestServer(t)
	owner := createTestUser(t, db, "owner")
	visitor := createTestUser(t, db, "visitor")
	category := createTestCategory(t, db, "tech", true)

	createTestPost(t, db, testPostOpts{author: owner, category: category, isPublished: true})
	createTestPost(t, db, testPostOpts{author: owner, category: category, isPublished: false})
	createTestPost(t, db, testPostOpts{author: owner, category: category, isPublished: true, pubDate: time.Now().UTC().Add(time.Hour)})
	createTestPost(t, db, testPostOpts{author: owner, isPublished: true})

	fetch := func(token string) []models.Post {
		resp := doRequest(t, app, http.MethodGet, profileURL("owner"), token, nil)
		defer func() { _ = resp.Body.Close() }()
		require.Equal(t, http.StatusOK, resp.StatusCode)
		var body struct {
			Posts []models.Post `json:"posts"`
		}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		return body.Posts
	}

	assert.Len(t, fetch(authToken(t, s, owner)), 4, "owner sees every post")
	assert.Len(t, fetch(authToken(t, s, visitor)), 1, "visitor sees only public posts")
	assert.Len(t, fetch(""), 1, "anonymous sees only public posts")
}

func TestProfile_UnknownUserIs404(t *testing.T) {
	t.Parallel()

	_, app, _ := newTestServer(t)

	resp := doRequest(t, app, http.MethodGet, profileURL("ghost"), "", nil)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestEditProfile_UpdatesOwnRecordOnly(t *testing.T) {
	t.Parallel()

	s, app, db := newTestServer(t)
	user := createTestUser(t, db, "renamer")
	other := createTestUser(t, db, "bystander")

	form := url.Values{}
	form.Set("first_name", "Ada")
	form.Set("last_name", "Lovelace")

	resp := doRequest(t, app, http.MethodPost, "/profile/edit/", authToken(t, s, user), form)
	defer func() { _ = resp.Body.Close() }()
	requireRedirect(t, resp, profileURL("renamer"))

	var reloaded models.User
	require.NoError(t, db.First(&reloaded, user.ID).Error)
	assert.Equal(t, "Ada", reloaded.FirstName)
	assert.Equal(t, "Lovelace", reloaded.LastName)

	var untouched models.User
	require.NoError(t, db.First(&untouched, other.ID).Error)
	assert.Empty(t, untouched.FirstName)
}

func TestEditProfile_RequiresAuth(t *testing.T) {
	t.Parallel()

	_, app, _ := newTestServer(t)

	resp := doRequest(t, app, http.MethodGet, "/profile/edit/", "", nil)
	defer func() { _ = resp.Body.Close() }()
	requireRedirect(t, resp, "/auth/login")
}

func TestEditProfile_RejectsTakenUsername(t *testing.T) {
	t.Parallel()

	s, app, db := newTestServer(t)
	user := createTestUser(t, db, "original")
	createTestUser(t, db, "taken")

	form := url.Values{}
	form.Set("username", "taken")

	resp := doRequest(t, app, http.MethodPost, "/profile/edit/", authToken(t, s, user), form)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var reloaded models.User
	require.NoError(t, db.First(&reloaded, user.ID).Error)
	assert.Equal(t, "original", reloaded.Username)
}
