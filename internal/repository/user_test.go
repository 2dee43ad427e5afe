package repository

import (
	"context"
	"testing"

	"inkwell/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserGetByUsername(t *testing.T) {
	t.Parallel()

	db := setupRepoTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	seedAuthor(t, db)

	user, err := repo.GetByUsername(ctx, "author")
	require.NoError(t, err)
	assert.Equal(t, "author@example.com", user.Email)

	_, err = repo.GetByUsername(ctx, "ghost")
	require.Error(t, err)
	appErr, ok := err.(*models.AppError)
	require.True(t, ok, "expected AppError, got %T", err)
	assert.Equal(t, "NOT_FOUND", appErr.Code)
}

func TestUserGetByEmail_AbsentIsNil(t *testing.T) {
	t.Parallel()

	db := setupRepoTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	user, err := repo.GetByEmail(ctx, "nobody@example.com")
	require.NoError(t, err)
	assert.Nil(t, user)

	seedAuthor(t, db)
	user, err = repo.GetByEmail(ctx, "author@example.com")
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, "author", user.Username)
}

func TestCategoryGetPublishedBySlug(t *testing.T) {
	t.Parallel()

	db := setupRepoTestDB(t)
	repo := NewCategoryRepository(db)
	ctx := context.Background()

	seedCategory(t, db, "open", true)
	seedCategory(t, db, "closed", false)

	category, err := repo.GetPublishedBySlug(ctx, "open")
	require.NoError(t, err)
	assert.Equal(t, "open", category.Slug)

	// Unpublished and unknown slugs are indistinguishable to callers.
	for _, slug := range []string{"closed", "missing"} {
		_, err := repo.GetPublishedBySlug(ctx, slug)
		require.Error(t, err, "slug %q", slug)
		appErr, ok := err.(*models.AppError)
		require.True(t, ok, "expected AppError, got %T", err)
		assert.Equal(t, "NOT_FOUND", appErr.Code)
	}
}
