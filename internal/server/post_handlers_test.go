package server

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"testing"
	"time"

	"inkwell/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostDetail_VisibilityRules(t *testing.T) {
	t.Parallel()

	s, app, db := newTestServer(t)
	author := createTestUser(t, db, "author")
	stranger := createTestUser(t, db, "stranger")
	visible := createTestCategory(t, db, "tech", true)
	hidden := createTestCategory(t, db, "drafts", false)

	now := time.Now().UTC()

	public := createTestPost(t, db, testPostOpts{author: author, category: visible, isPublished: true})
	unpublished := createTestPost(t, db, testPostOpts{author: author, category: visible, isPublished: false})
	scheduled := createTestPost(t, db, testPostOpts{author: author, category: visible, isPublished: true, pubDate: now.Add(time.Hour)})
	hiddenCategory := createTestPost(t, db, testPostOpts{author: author, category: hidden, isPublished: true})
	noCategory := createTestPost(t, db, testPostOpts{author: author, isPublished: true})

	authorToken := authToken(t, s, author)
	strangerToken := authToken(t, s, stranger)

	tests := []struct {
		name   string
		postID uint
		token  string
		want   int
	}{
		{"public post, anonymous", public.ID, "", http.StatusOK},
		{"public post, stranger", public.ID, strangerToken, http.StatusOK},
		{"unpublished post, anonymous", unpublished.ID, "", http.StatusNotFound},
		{"unpublished post, stranger", unpublished.ID, strangerToken, http.StatusNotFound},
		{"unpublished post, author", unpublished.ID, authorToken, http.StatusOK},
		{"scheduled post, stranger", scheduled.ID, strangerToken, http.StatusNotFound},
		{"scheduled post, author", scheduled.ID, authorToken, http.StatusOK},
		{"hidden category, stranger", hiddenCategory.ID, strangerToken, http.StatusNotFound},
		{"hidden category, author", hiddenCategory.ID, authorToken, http.StatusOK},
		{"no category, stranger", noCategory.ID, strangerToken, http.StatusNotFound},
		{"no category, author", noCategory.ID, authorToken, http.StatusOK},
		{"missing post", 9999, authorToken, http.StatusNotFound},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			resp := doRequest(t, app, http.MethodGet, postDetailURL(tc.postID), tc.token, nil)
			defer func() { _ = resp.Body.Close() }()
			assert.Equal(t, tc.want, resp.StatusCode)
		})
	}
}

func TestPostDetail_IncludesComments(t *testing.T) {
	t.Parallel()

	_, app, db := newTestServer(t)
	author := createTestUser(t, db, "author")
	category := createTestCategory(t, db, "tech", true)
	post := createTestPost(t, db, testPostOpts{author: author, category: category, isPublished: true})
	createTestComment(t, db, author, post, "first")
	createTestComment(t, db, author, post, "second")

	resp := doRequest(t, app, http.MethodGet, postDetailURL(post.ID), "", nil)
	defer func() { _ = resp.Body.Close() }()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Post     models.Post      `json:"post"`
		Comments []models.Comment `json:"comments"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Len(t, body.Comments, 2)
	// Comments come back oldest first.
	assert.Equal(t, "first", body.Comments[0].Text)
	assert.Equal(t, "second", body.Comments[1].Text)
	assert.Equal(t, 2, body.Post.CommentCount)
}

func TestIndex_OnlyPublicPosts(t *testing.T) {
	t.Parallel()

	_, app, db := newTestServer(t)
	author := createTestUser(t, db, "author")
	visible := createTestCategory(t, db, "tech", true)
	hidden := createTestCategory(t, db, "drafts", false)

	public := createTestPost(t, db, testPostOpts{author: author, category: visible, isPublished: true})
	createTestPost(t, db, testPostOpts{author: author, category: visible, isPublished: false})
	createTestPost(t, db, testPostOpts{author: author, category: visible, isPublished: true, pubDate: time.Now().UTC().Add(time.Hour)})
	createTestPost(t, db, testPostOpts{author: author, category: hidden, isPublished: true})
	createTestPost(t, db, testPostOpts{author: author, isPublished: true})

	resp := doRequest(t, app, http.MethodGet, "/", "", nil)
	defer func() { _ = resp.Body.Close() }()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Posts []models.Post `json:"posts"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Len(t, body.Posts, 1)
	assert.Equal(t, public.ID, body.Posts[0].ID)
}

func TestIndex_PaginationPastEndIsEmpty(t *testing.T) {
	t.Parallel()

	_, app, db := newTestServer(t)
	author := createTestUser(t, db, "author")
	category := createTestCategory(t, db, "tech", true)
	createTestPost(t, db, testPostOpts{author: author, category: category, isPublished: true})

	resp := doRequest(t, app, http.MethodGet, "/?page=99", "", nil)
	defer func() { _ = resp.Body.Close() }()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Posts []models.Post `json:"posts"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Empty(t, body.Posts)
}

func TestCreatePost_BindsAuthorAndRedirectsToProfile(t *testing.T) {
	t.Parallel()

	s, app, db := newTestServer(t)
	user := createTestUser(t, db, "writer")
	category := createTestCategory(t, db, "tech", true)

	form := url.Values{}
	form.Set("title", "Fresh post")
	form.Set("text", "Body text")
	form.Set("category_id", strconv.Itoa(int(category.ID)))

	resp := doRequest(t, app, http.MethodPost, "/posts/create/", authToken(t, s, user), form)
	defer func() { _ = resp.Body.Close() }()
	requireRedirect(t, resp, profileURL("writer"))

	var post models.Post
	require.NoError(t, db.First(&post, "title = ?", "Fresh post").Error)
	assert.Equal(t, user.ID, post.AuthorID)
	assert.True(t, post.IsPublished)
	assert.False(t, post.PubDate.IsZero())
}

func TestCreatePost_RequiresAuth(t *testing.T) {
	t.Parallel()

	_, app, _ := newTestServer(t)

	form := url.Values{}
	form.Set("title", "Nope")
	form.Set("text", "Nope")

	resp := doRequest(t, app, http.MethodPost, "/posts/create/", "", form)
	defer func() { _ = resp.Body.Close() }()
	requireRedirect(t, resp, "/auth/login")
}

func TestEditPost_NonAuthorRedirectsToDetailWithoutMutation(t *testing.T) {
	t.Parallel()

	s, app, db := newTestServer(t)
	author := createTestUser(t, db, "author")
	intruder := createTestUser(t, db, "intruder")
	category := createTestCategory(t, db, "tech", true)
	post := createTestPost(t, db, testPostOpts{author: author, category: category, isPublished: true})

	form := url.Values{}
	form.Set("title", "Hijacked")
	form.Set("text", "Hijacked text")

	resp := doRequest(t, app, http.MethodPost, postDetailURL(post.ID)+"edit/", authToken(t, s, intruder), form)
	defer func() { _ = resp.Body.Close() }()
	requireRedirect(t, resp, postDetailURL(post.ID))

	var reloaded models.Post
	require.NoError(t, db.First(&reloaded, post.ID).Error)
	assert.Equal(t, "A post", reloaded.Title)
}

func TestEditPost_AuthorUpdatesAndRedirectsToDetail(t *testing.T) {
	t.Parallel()

	s, app, db := newTestServer(t)
	author := createTestUser(t, db, "author")
	category := createTestCategory(t, db, "tech", true)
	post := createTestPost(t, db, testPostOpts{author: author, category: category, isPublished: true})

	form := url.Values{}
	form.Set("title", "Updated title")

	resp := doRequest(t, app, http.MethodPost, postDetailURL(post.ID)+"edit/", authToken(t, s, author), form)
	defer func() { _ = resp.Body.Close() }()
	requireRedirect(t, resp, postDetailURL(post.ID))

	var reloaded models.Post
	require.NoError(t, db.First(&reloaded, post.ID).Error)
	assert.Equal(t, "Updated title", reloaded.Title)
	assert.Equal(t, "Some text", reloaded.Text)
}

func TestDeletePost_NonAuthorRedirectsToLogin(t *testing.T) {
	t.Parallel()

	s, app, db := newTestServer(t)
	author := createTestUser(t, db, "author")
	intruder := createTestUser(t, db, "intruder")
	category := createTestCategory(t, db, "tech", true)
	post := createTestPost(t, db, testPostOpts{author: author, category: category, isPublished: true})

	resp := doRequest(t, app, http.MethodPost, postDetailURL(post.ID)+"delete/", authToken(t, s, intruder), url.Values{})
	defer func() { _ = resp.Body.Close() }()
	requireRedirect(t, resp, "/auth/login")

	var count int64
	require.NoError(t, db.Model(&models.Post{}).Where("id = ?", post.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestDeletePost_CascadesComments(t *testing.T) {
	t.Parallel()

	s, app, db := newTestServer(t)
	author := createTestUser(t, db, "author")
	commenter := createTestUser(t, db, "commenter")
	category := createTestCategory(t, db, "tech", true)
	post := createTestPost(t, db, testPostOpts{author: author, category: category, isPublished: true})
	createTestComment(t, db, commenter, post, "soon gone")

	resp := doRequest(t, app, http.MethodPost, postDetailURL(post.ID)+"delete/", authToken(t, s, author), url.Values{})
	defer func() { _ = resp.Body.Close() }()
	requireRedirect(t, resp, "/")

	var postCount, commentCount int64
	require.NoError(t, db.Model(&models.Post{}).Where("id = ?", post.ID).Count(&postCount).Error)
	require.NoError(t, db.Model(&models.Comment{}).Where("post_id = ?", post.ID).Count(&commentCount).Error)
	assert.Zero(t, postCount)
	assert.Zero(t, commentCount)
}
