package repository

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/allisson/forum/internal/errors"
	"github.com/allisson/forum/internal/post/domain"
	"github.com/allisson/forum/internal/testutil"
)

// createTestPost inserts a post through the repository under test.
func createTestPost(t *testing.T, repo *PostgreSQLPostRepository, userID int64, title string, publish domain.PostPublish) *domain.Post {
	t.Helper()

	post := &domain.Post{
		UserID:       userID,
		Title:        title,
		Summary:      "summary",
		Content:      "content",
		Source:       domain.SourceOriginal,
		Publish:      publish,
		AllowComment: true,
	}
	require.NoError(t, repo.Create(context.Background(), post))
	return post
}

func setupPostRepoTest(t *testing.T) (*sql.DB, *PostgreSQLPostRepository, int64) {
	t.Helper()
	testutil.SkipIfNoPostgres(t)
	db := testutil.SetupPostgresDB(t)
	t.Cleanup(func() {
		testutil.CleanupPostgresDB(t, db)
		testutil.TeardownDB(t, db)
	})

	roleID := testutil.CreateTestRole(t, db, "postgres", "members")
	userID := testutil.CreateTestUser(t, db, "postgres", "alice", roleID)
	return db, NewPostgreSQLPostRepository(db), userID
}

func TestPostgreSQLPostRepository_CreateAndGet(t *testing.T) {
	_, repo, userID := setupPostRepoTest(t)
	ctx := context.Background()

	post := createTestPost(t, repo, userID, "Hello World", domain.PublishPublic)
	assert.NotZero(t, post.ID)

	loaded, err := repo.GetByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, "Hello World", loaded.Title)
	assert.Equal(t, userID, loaded.UserID)
	assert.Equal(t, domain.PublishPublic, loaded.Publish)
	assert.True(t, loaded.AllowComment)
	assert.Zero(t, loaded.ViewCount)
	assert.Zero(t, loaded.LikeCount)
	assert.Zero(t, loaded.CommentCount)
	assert.False(t, loaded.CreatedAt.IsZero())
}

func TestPostgreSQLPostRepository_Create_DuplicateTitle(t *testing.T) {
	_, repo, userID := setupPostRepoTest(t)
	ctx := context.Background()

	createTestPost(t, repo, userID, "Hello World", domain.PublishPublic)

	duplicate := &domain.Post{
		UserID:  userID,
		Title:   "Hello World",
		Content: "other content",
		Source:  domain.SourceOriginal,
		Publish: domain.PublishPublic,
	}
	err := repo.Create(ctx, duplicate)
	assert.True(t, apperrors.Is(err, domain.ErrDuplicateTitle))
}

func TestPostgreSQLPostRepository_GetByID_NotFound(t *testing.T) {
	_, repo, _ := setupPostRepoTest(t)

	post, err := repo.GetByID(context.Background(), 999999)
	assert.Nil(t, post)
	assert.True(t, apperrors.Is(err, domain.ErrPostNotFound))
}

func TestPostgreSQLPostRepository_Update(t *testing.T) {
	_, repo, userID := setupPostRepoTest(t)
	ctx := context.Background()

	post := createTestPost(t, repo, userID, "Hello World", domain.PublishPublic)
	post.Title = "Renamed"
	post.Publish = domain.PublishAuthorOnly

	require.NoError(t, repo.Update(ctx, post))

	loaded, err := repo.GetByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", loaded.Title)
	assert.Equal(t, domain.PublishAuthorOnly, loaded.Publish)

	missing := *post
	missing.ID = 999999
	assert.True(t, apperrors.Is(repo.Update(ctx, &missing), domain.ErrPostNotFound))
}

func TestPostgreSQLPostRepository_Delete(t *testing.T) {
	_, repo, userID := setupPostRepoTest(t)
	ctx := context.Background()

	post := createTestPost(t, repo, userID, "Hello World", domain.PublishPublic)

	require.NoError(t, repo.Delete(ctx, post.ID))

	_, err := repo.GetByID(ctx, post.ID)
	assert.True(t, apperrors.Is(err, domain.ErrPostNotFound))

	// Deleting again reports not found
	assert.True(t, apperrors.Is(repo.Delete(ctx, post.ID), domain.ErrPostNotFound))
}

func TestPostgreSQLPostRepository_List_Visibility(t *testing.T) {
	db, repo, authorID := setupPostRepoTest(t)
	ctx := context.Background()

	roleID := testutil.CreateTestRole(t, db, "postgres", "readers")
	readerID := testutil.CreateTestUser(t, db, "postgres", "bob", roleID)

	public := createTestPost(t, repo, authorID, "public post", domain.PublishPublic)
	loggedIn := createTestPost(t, repo, authorID, "logged-in post", domain.PublishLoggedIn)
	authorOnly := createTestPost(t, repo, authorID, "author-only post", domain.PublishAuthorOnly)

	// Anonymous viewers see public posts only.
	posts, err := repo.List(ctx, 0, 0, 0, 50)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, public.ID, posts[0].ID)

	// An authenticated reader also sees logged-in posts.
	posts, err = repo.List(ctx, readerID, 0, 0, 50)
	require.NoError(t, err)
	require.Len(t, posts, 2)
	// Newest first
	assert.Equal(t, loggedIn.ID, posts[0].ID)
	assert.Equal(t, public.ID, posts[1].ID)

	// The author sees everything of their own.
	posts, err = repo.List(ctx, authorID, 0, 0, 50)
	require.NoError(t, err)
	require.Len(t, posts, 3)
	assert.Equal(t, authorOnly.ID, posts[0].ID)
}

func TestPostgreSQLPostRepository_List_CategoryFilter(t *testing.T) {
	db, repo, userID := setupPostRepoTest(t)
	ctx := context.Background()

	categoryRepo := NewPostgreSQLCategoryRepository(db)
	category := &domain.Category{Name: "golang"}
	require.NoError(t, categoryRepo.Create(ctx, category))

	inCategory := &domain.Post{
		UserID: userID, CategoryID: category.ID, Title: "categorized",
		Content: "c", Source: domain.SourceOriginal, Publish: domain.PublishPublic,
	}
	require.NoError(t, repo.Create(ctx, inCategory))
	createTestPost(t, repo, userID, "uncategorized", domain.PublishPublic)

	posts, err := repo.List(ctx, 0, category.ID, 0, 50)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, inCategory.ID, posts[0].ID)
}

func TestPostgreSQLPostRepository_ListByAuthor(t *testing.T) {
	_, repo, userID := setupPostRepoTest(t)
	ctx := context.Background()

	createTestPost(t, repo, userID, "first", domain.PublishPublic)
	hidden := createTestPost(t, repo, userID, "second", domain.PublishAuthorOnly)

	posts, err := repo.ListByAuthor(ctx, userID, 0, 50)
	require.NoError(t, err)
	require.Len(t, posts, 2)
	// Own listing includes restricted posts, newest first
	assert.Equal(t, hidden.ID, posts[0].ID)
}

func TestPostgreSQLPostRepository_ListHot(t *testing.T) {
	_, repo, userID := setupPostRepoTest(t)
	ctx := context.Background()

	quiet := createTestPost(t, repo, userID, "quiet", domain.PublishPublic)
	busy := createTestPost(t, repo, userID, "busy", domain.PublishPublic)
	hidden := createTestPost(t, repo, userID, "hidden but busy", domain.PublishAuthorOnly)

	require.NoError(t, repo.AdjustLikeCount(ctx, busy.ID, 3))
	require.NoError(t, repo.AdjustCommentCount(ctx, busy.ID, 2))
	require.NoError(t, repo.AdjustLikeCount(ctx, hidden.ID, 10))

	posts, err := repo.ListHot(ctx, 10)
	require.NoError(t, err)
	// Restricted posts never rank, however busy
	require.Len(t, posts, 2)
	assert.Equal(t, busy.ID, posts[0].ID)
	assert.Equal(t, quiet.ID, posts[1].ID)
	assert.Equal(t, int64(3), posts[0].LikeCount)
	assert.Equal(t, int64(2), posts[0].CommentCount)
}

func TestPostgreSQLPostRepository_IncrementViewCount(t *testing.T) {
	_, repo, userID := setupPostRepoTest(t)
	ctx := context.Background()

	post := createTestPost(t, repo, userID, "viewed", domain.PublishPublic)

	require.NoError(t, repo.IncrementViewCount(ctx, post.ID))
	require.NoError(t, repo.IncrementViewCount(ctx, post.ID))

	loaded, err := repo.GetByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), loaded.ViewCount)

	assert.True(t, apperrors.Is(repo.IncrementViewCount(ctx, 999999), domain.ErrPostNotFound))
}

func TestPostgreSQLPostRepository_Likes(t *testing.T) {
	_, repo, userID := setupPostRepoTest(t)
	ctx := context.Background()

	post := createTestPost(t, repo, userID, "liked", domain.PublishPublic)

	require.NoError(t, repo.CreateLike(ctx, post.ID, userID))

	// The (post, user) pair is unique
	err := repo.CreateLike(ctx, post.ID, userID)
	assert.True(t, apperrors.Is(err, domain.ErrAlreadyLiked))

	require.NoError(t, repo.DeleteLike(ctx, post.ID, userID))

	// Removing an absent like reports not found
	err = repo.DeleteLike(ctx, post.ID, userID)
	assert.True(t, apperrors.Is(err, domain.ErrNotLiked))
}

func TestPostgreSQLPostRepository_AdjustCounters_NotFound(t *testing.T) {
	_, repo, _ := setupPostRepoTest(t)
	ctx := context.Background()

	assert.True(t, apperrors.Is(repo.AdjustLikeCount(ctx, 999999, 1), domain.ErrPostNotFound))
	assert.True(t, apperrors.Is(repo.AdjustCommentCount(ctx, 999999, 1), domain.ErrPostNotFound))
}

func TestPostgreSQLCategoryRepository_CRUD(t *testing.T) {
	db, _, _ := setupPostRepoTest(t)
	ctx := context.Background()

	repo := NewPostgreSQLCategoryRepository(db)

	first := &domain.Category{Name: "golang", Info: "Go talk", Sort: 2}
	require.NoError(t, repo.Create(ctx, first))
	assert.NotZero(t, first.ID)

	second := &domain.Category{Name: "databases", Sort: 1}
	require.NoError(t, repo.Create(ctx, second))

	// The name is unique
	err := repo.Create(ctx, &domain.Category{Name: "golang"})
	assert.True(t, apperrors.Is(err, domain.ErrCategoryAlreadyExists))

	// Listing orders by sort
	categories, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, categories, 2)
	assert.Equal(t, "databases", categories[0].Name)
	assert.Equal(t, "golang", categories[1].Name)

	first.Info = "Go programming"
	require.NoError(t, repo.Update(ctx, first))
	loaded, err := repo.GetByID(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, "Go programming", loaded.Info)

	require.NoError(t, repo.Delete(ctx, first.ID))
	_, err = repo.GetByID(ctx, first.ID)
	assert.True(t, apperrors.Is(err, domain.ErrCategoryNotFound))
}
