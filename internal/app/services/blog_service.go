package services

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"github.com/yigit/eduportal/internal/app/listing"
	"github.com/yigit/eduportal/internal/app/models"
	"github.com/yigit/eduportal/internal/app/repositories"
	"github.com/yigit/eduportal/internal/pkg/apperrors"
	"github.com/yigit/eduportal/internal/pkg/helpers"
	"github.com/yigit/eduportal/internal/pkg/validation"
)

// Blog editor rules
const (
	ExcerptLength     = 150
	WordsPerMinute    = 200
	DefaultBlogAuthor = "Admin"
	msgBlogRequired   = "Title and content are required"
	msgBlogNotFound   = "Blog not found"
)

// BlogStatuses are the publication states a blog can be moved to
var BlogStatuses = []string{models.StatusDraft, models.StatusPublished, "archived"}

var blogSearchFields = []listing.Field[*models.Blog]{
	func(b *models.Blog) string { return b.Title },
	func(b *models.Blog) string { return b.Content },
	func(b *models.Blog) string { return b.Author },
	func(b *models.Blog) string { return b.Tags },
}

var blogFilters = map[string]listing.Field[*models.Blog]{
	"category": func(b *models.Blog) string { return b.Category },
	"status":   func(b *models.Blog) string { return b.Status },
}

var adminBlogSpec = listing.Spec[*models.Blog]{
	SearchFields: blogSearchFields,
	Filters:      blogFilters,
	SortKey:      func(b *models.Blog) string { return b.CreatedAt },
	Descending:   true,
}

var publishedBlogSpec = listing.Spec[*models.Blog]{
	Keep:         isPublished,
	SearchFields: blogSearchFields,
	Filters:      blogFilters,
	SortKey:      func(b *models.Blog) string { return b.CreatedAt },
	Descending:   true,
}

func isPublished(b *models.Blog) bool {
	return models.StatusIs(b.Status, models.StatusPublished)
}

// BlogCatalog is the reader listing with every category of published blogs
type BlogCatalog struct {
	listing.Result[*models.Blog]
	Categories []string `json:"categories"`
}

// BlogService manages blogs and the published reader
type BlogService interface {
	List(ctx context.Context, q listing.Query) (listing.Result[*models.Blog], error)
	Get(ctx context.Context, id string) (*models.Blog, error)
	Create(ctx context.Context, blog *models.Blog) (*models.Blog, error)
	Update(ctx context.Context, id string, blog *models.Blog) (*models.Blog, error)
	Delete(ctx context.Context, id string) error
	SetStatus(ctx context.Context, id, status string) (*models.Blog, error)

	// Publish creates a published blog authored by a portal user
	Publish(ctx context.Context, role models.RoleType, author *models.Identity, blog *models.Blog) (*models.Blog, error)
	Published(ctx context.Context, q listing.Query) (*BlogCatalog, error)
	// Read returns a published blog and counts the view
	Read(ctx context.Context, id string) (*models.Blog, error)
}

type blogServiceImpl struct {
	blogs  *repositories.Collection[models.Blog]
	logger zerolog.Logger
	now    Clock
}

// NewBlogService creates a new BlogService
func NewBlogService(repos *repositories.Repositories, logger zerolog.Logger) BlogService {
	return &blogServiceImpl{
		blogs:  repos.Blogs,
		logger: logger,
		now:    time.Now,
	}
}

// Excerpt returns the first ExcerptLength characters of content followed
// by an ellipsis.
func Excerpt(content string) string {
	if utf8.RuneCountInString(content) <= ExcerptLength {
		return content + "..."
	}
	return string([]rune(content)[:ExcerptLength]) + "..."
}

// ReadingStats counts the words of content and the minutes needed to read it
func ReadingStats(content string) (words, minutes int) {
	words = len(strings.Fields(content))
	minutes = (words + WordsPerMinute - 1) / WordsPerMinute
	return words, minutes
}

// prepareBlog validates the editor fields and fills the derived ones
func prepareBlog(blog *models.Blog) error {
	if err := validation.NewForm().Require(msgBlogRequired, blog.Title, blog.Content).Err(); err != nil {
		return err
	}
	if strings.TrimSpace(blog.Excerpt) == "" {
		blog.Excerpt = Excerpt(blog.Content)
	}
	words, minutes := ReadingStats(blog.Content)
	blog.WordCount = models.FlexInt(words)
	blog.ReadTime = models.FlexInt(minutes)
	return nil
}

func (s *blogServiceImpl) List(ctx context.Context, q listing.Query) (listing.Result[*models.Blog], error) {
	items, err := s.blogs.List(ctx)
	if err != nil {
		return listing.Result[*models.Blog]{}, storeErr("fetch blogs", err)
	}
	return adminBlogSpec.Apply(items, q), nil
}

func (s *blogServiceImpl) Get(ctx context.Context, id string) (*models.Blog, error) {
	blog, err := s.blogs.Get(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, msgBlogNotFound, "fetch blog")
	}
	return blog, nil
}

func (s *blogServiceImpl) Create(ctx context.Context, blog *models.Blog) (*models.Blog, error) {
	if err := prepareBlog(blog); err != nil {
		return nil, err
	}
	blog.Author = orDefault(blog.Author, DefaultBlogAuthor)
	blog.Status = orDefault(blog.Status, models.StatusDraft)
	blog.Views = 0

	created, err := s.blogs.Create(ctx, blog)
	if err != nil {
		return nil, storeErr("save blog", err)
	}
	s.logger.Info().Str("id", created.ID).Msg("Blog created")
	return created, nil
}

func (s *blogServiceImpl) Update(ctx context.Context, id string, blog *models.Blog) (*models.Blog, error) {
	if err := prepareBlog(blog); err != nil {
		return nil, err
	}
	updated, err := s.blogs.Update(ctx, id, blog)
	if err != nil {
		return nil, notFoundAs(err, msgBlogNotFound, "save blog")
	}
	return updated, nil
}

func (s *blogServiceImpl) Delete(ctx context.Context, id string) error {
	if err := s.blogs.Delete(ctx, id); err != nil {
		return notFoundAs(err, msgBlogNotFound, "delete blog")
	}
	s.logger.Info().Str("id", id).Msg("Blog deleted")
	return nil
}

// SetStatus merge-writes only the status of a blog
func (s *blogServiceImpl) SetStatus(ctx context.Context, id, status string) (*models.Blog, error) {
	status = strings.ToLower(strings.TrimSpace(status))
	valid := false
	for _, st := range BlogStatuses {
		if st == status {
			valid = true
			break
		}
	}
	if !valid {
		return nil, apperrors.NewValidationError("Invalid blog status")
	}

	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	fields := map[string]any{"status": status, "updatedAt": helpers.Timestamp(s.now())}
	if err := s.blogs.Merge(ctx, id, fields); err != nil {
		return nil, storeErr("update blog status", err)
	}
	s.logger.Info().Str("id", id).Str("status", status).Msg("Blog status changed")
	return s.Get(ctx, id)
}

func (s *blogServiceImpl) Publish(ctx context.Context, role models.RoleType, author *models.Identity, blog *models.Blog) (*models.Blog, error) {
	if err := prepareBlog(blog); err != nil {
		return nil, err
	}
	name := role.Label()
	if author != nil {
		name = orDefault(author.DisplayName, orDefault(author.Email, name))
	}
	blog.Author = name
	blog.AuthorRole = role.Label()
	blog.Status = models.StatusPublished
	blog.Views = 0
	blog.CreatedAt = ""

	created, err := s.blogs.Create(ctx, blog)
	if err != nil {
		return nil, storeErr("create blog", err)
	}
	s.logger.Info().Str("id", created.ID).Str("role", string(role)).Msg("Blog published")
	return created, nil
}

func (s *blogServiceImpl) Published(ctx context.Context, q listing.Query) (*BlogCatalog, error) {
	items, err := s.blogs.List(ctx)
	if err != nil {
		return nil, storeErr("fetch blogs", err)
	}
	published := make([]*models.Blog, 0, len(items))
	for _, b := range items {
		if isPublished(b) {
			published = append(published, b)
		}
	}
	return &BlogCatalog{
		Result:     publishedBlogSpec.Apply(published, q),
		Categories: listing.Distinct(published, func(b *models.Blog) string { return b.Category }),
	}, nil
}

// Read increments the view counter atomically. Blogs that are not
// published are reported as missing.
func (s *blogServiceImpl) Read(ctx context.Context, id string) (*models.Blog, error) {
	blog, err := s.blogs.Mutate(ctx, id, func(b *models.Blog) (map[string]any, error) {
		if !isPublished(b) {
			return nil, apperrors.NewResourceNotFoundError(msgBlogNotFound)
		}
		return map[string]any{"views": b.Views.Int() + 1}, nil
	})
	if err != nil {
		return nil, notFoundAs(err, msgBlogNotFound, "fetch blog")
	}
	return blog, nil
}
