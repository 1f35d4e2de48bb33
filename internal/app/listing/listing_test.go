package listing

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/eduportal/internal/app/models"
)

func blogSpec() Spec[*models.Blog] {
	return Spec[*models.Blog]{
		SearchFields: []Field[*models.Blog]{
			func(b *models.Blog) string { return b.Title },
			func(b *models.Blog) string { return b.Content },
			func(b *models.Blog) string { return b.Author },
			func(b *models.Blog) string { return b.Tags },
		},
		Filters: map[string]Field[*models.Blog]{
			"category": func(b *models.Blog) string { return b.Category },
		},
		SortKey:    func(b *models.Blog) string { return b.CreatedAt },
		Descending: true,
	}
}

func sampleBlogs() []*models.Blog {
	return []*models.Blog{
		{ID: "1", Title: "Intro to Robotics", Category: "Technology", CreatedAt: "2024-01-01T00:00:00Z"},
		{ID: "2", Title: "Cooking", Content: "no match here", Category: "Life", CreatedAt: "2024-03-01T00:00:00Z"},
		{ID: "3", Title: "Sensors", Tags: "hardware, ROBOTICS", Category: "Technology", CreatedAt: "2024-02-01T00:00:00Z"},
		{ID: "4", Title: "Weekly notes", Author: "The Robotics Club", Category: "Life", CreatedAt: "2024-04-01T00:00:00Z"},
		{ID: "5", Title: "Control", Content: "<p>robotics in practice</p>", Category: "Science", CreatedAt: "2023-12-01T00:00:00Z"},
	}
}

func ids(items []*models.Blog) []string {
	out := make([]string, 0, len(items))
	for _, b := range items {
		out = append(out, b.ID)
	}
	return out
}

func TestSpec_SearchIsCaseInsensitiveAcrossFields(t *testing.T) {
	got := blogSpec().Filter(sampleBlogs(), Query{Search: "robotics"})
	assert.Equal(t, []string{"4", "3", "1", "5"}, ids(got))
}

func TestSpec_Filters(t *testing.T) {
	spec := blogSpec()
	got := spec.Filter(sampleBlogs(), Query{Filters: map[string]string{"category": "technology"}})
	assert.Equal(t, []string{"3", "1"}, ids(got))

	got = spec.Filter(sampleBlogs(), Query{Filters: map[string]string{"category": FilterAll}})
	assert.Len(t, got, 5)

	got = spec.Filter(sampleBlogs(), Query{Search: "robotics", Filters: map[string]string{"category": "Life"}})
	assert.Equal(t, []string{"4"}, ids(got))
}

func TestSpec_KeepAndAscendingSort(t *testing.T) {
	spec := blogSpec()
	spec.Descending = false
	spec.Keep = func(b *models.Blog) bool { return b.Category != "Life" }
	got := spec.Filter(sampleBlogs(), Query{})
	assert.Equal(t, []string{"5", "1", "3"}, ids(got))
}

func TestSpec_ApplyPaginates(t *testing.T) {
	res := blogSpec().Apply(sampleBlogs(), Query{Page: 2, Size: 2})
	require.NotNil(t, res.Pagination)
	assert.Equal(t, []string{"3", "1"}, ids(res.Items))
	assert.Equal(t, 3, res.Pagination.TotalPages)
	assert.Equal(t, int64(5), res.Pagination.TotalItems)

	res = blogSpec().Apply(sampleBlogs(), Query{Page: 9, Size: 2})
	assert.Empty(t, res.Items)

	res = blogSpec().Apply(sampleBlogs(), Query{})
	assert.Nil(t, res.Pagination)
	assert.Len(t, res.Items, 5)
}

func TestDistinct(t *testing.T) {
	got := Distinct(sampleBlogs(), func(b *models.Blog) string { return b.Category })
	assert.Equal(t, []string{"Life", "Science", "Technology"}, got)
}

func TestParseQuery(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/?search=ai&domain=Health&ignored=x&page=2&size=5", nil)

	q := ParseQuery(c, "domain")
	assert.Equal(t, "ai", q.Search)
	assert.Equal(t, map[string]string{"domain": "Health"}, q.Filters)
	assert.Equal(t, 2, q.Page)
	assert.Equal(t, 5, q.Size)

	c, _ = gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/", nil)
	q = ParseQuery(c)
	assert.Zero(t, q.Page)
}
