package services

import (
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/eduportal/internal/app/listing"
	"github.com/yigit/eduportal/internal/app/models"
	"github.com/yigit/eduportal/internal/pkg/apperrors"
)

func TestExcerptAndReadingStats(t *testing.T) {
	long := strings.Repeat("a", 200)
	assert.Equal(t, strings.Repeat("a", 150)+"...", Excerpt(long))
	assert.Equal(t, "short...", Excerpt("short"))

	words, minutes := ReadingStats(strings.Repeat("word ", 401))
	assert.Equal(t, 401, words)
	assert.Equal(t, 3, minutes)

	words, minutes = ReadingStats("")
	assert.Equal(t, 0, words)
	assert.Equal(t, 0, minutes)
}

func TestBlogService_CreateAndStatus(t *testing.T) {
	env := newTestEnv(t)
	svc := NewBlogService(env.repos, zerolog.Nop())
	ctx := context.Background()

	_, err := svc.Create(ctx, &models.Blog{Title: "Only a title"})
	assert.Equal(t, "Title and content are required", err.Error())

	blog, err := svc.Create(ctx, &models.Blog{Title: "Hello", Content: "one two three", Category: "News"})
	require.NoError(t, err)
	assert.Equal(t, "Admin", blog.Author)
	assert.Equal(t, models.StatusDraft, blog.Status)
	assert.Equal(t, "one two three...", blog.Excerpt)
	assert.Equal(t, 3, blog.WordCount.Int())
	assert.Equal(t, 1, blog.ReadTime.Int())

	_, err = svc.SetStatus(ctx, blog.ID, "retired")
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	published, err := svc.SetStatus(ctx, blog.ID, "Published")
	require.NoError(t, err)
	assert.Equal(t, models.StatusPublished, published.Status)
	assert.Equal(t, "Hello", published.Title)
}

func TestBlogService_Reader(t *testing.T) {
	env := newTestEnv(t)
	svc := NewBlogService(env.repos, zerolog.Nop())
	ctx := context.Background()

	draft, err := svc.Create(ctx, &models.Blog{Title: "Draft", Content: "not yet", Category: "Research"})
	require.NoError(t, err)
	post, err := svc.Publish(ctx, models.RoleStudent, &models.Identity{UID: "u1", Email: "ada@uni.edu"}, &models.Blog{
		Title: "Learning Go", Content: "goroutines everywhere", Category: "Technology",
	})
	require.NoError(t, err)
	assert.Equal(t, "ada@uni.edu", post.Author)
	assert.Equal(t, "Student", post.AuthorRole)
	assert.Equal(t, models.StatusPublished, post.Status)

	env.put(t, "blogs/legacy", map[string]any{
		"title": "Old", "content": "legacy", "status": "Published", "category": "News", "views": "4", "createdAt": "2020-01-01T00:00:00.000Z",
	})

	catalog, err := svc.Published(ctx, listing.Query{})
	require.NoError(t, err)
	require.Len(t, catalog.Items, 2)
	assert.Equal(t, post.ID, catalog.Items[0].ID)
	assert.Equal(t, []string{"News", "Technology"}, catalog.Categories)

	filtered, err := svc.Published(ctx, listing.Query{Filters: map[string]string{"category": "news"}})
	require.NoError(t, err)
	require.Len(t, filtered.Items, 1)

	read, err := svc.Read(ctx, "legacy")
	require.NoError(t, err)
	assert.Equal(t, 5, read.Views.Int())

	_, err = svc.Read(ctx, draft.ID)
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
}
