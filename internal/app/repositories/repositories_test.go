package repositories

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/eduportal/internal/app/models"
	"github.com/yigit/eduportal/internal/pkg/apperrors"
	"github.com/yigit/eduportal/internal/pkg/docstore"
)

func newRepos(t *testing.T) (*Repositories, docstore.Store) {
	t.Helper()
	store := docstore.NewMemoryStore()
	return NewRepositories(store, zerolog.Nop()), store
}

func TestCollection_CRUD(t *testing.T) {
	repos, store := newRepos(t)
	ctx := context.Background()

	created, err := repos.Streams.Create(ctx, &models.Stream{Name: "Computer Science", Code: "CS", TotalSemesters: "8"})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)
	assert.NotEmpty(t, created.CreatedAt)

	raw, err := store.Get(ctx, docstore.Join(StreamsPath, created.ID, "id"))
	require.NoError(t, err)
	assert.Equal(t, created.ID, raw)

	list, err := repos.Streams.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "CS", list[0].Code)

	created.Name = "CSE"
	updated, err := repos.Streams.Update(ctx, created.ID, created)
	require.NoError(t, err)
	assert.Equal(t, "CSE", updated.Name)
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)

	require.NoError(t, repos.Streams.Delete(ctx, created.ID))
	list, err = repos.Streams.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)

	_, err = repos.Streams.Get(ctx, created.ID)
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
	assert.ErrorIs(t, repos.Streams.Delete(ctx, created.ID), apperrors.ErrResourceNotFound)
}

func TestCollection_ListOrdersByPushKey(t *testing.T) {
	repos, _ := newRepos(t)
	ctx := context.Background()
	for _, title := range []string{"first", "second", "third"} {
		_, err := repos.Blogs.Create(ctx, &models.Blog{Title: title})
		require.NoError(t, err)
	}
	list, err := repos.Blogs.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "first", list[0].Title)
	assert.Equal(t, "third", list[2].Title)
}

func TestCollection_ToleratesLegacyRecords(t *testing.T) {
	repos, store := newRepos(t)
	ctx := context.Background()
	require.NoError(t, store.Set(ctx, "seminars/legacy", map[string]any{
		"title":           "Old seminar",
		"maxParticipants": "50",
		"registrations":   float64(3),
	}))

	s, err := repos.Seminars.Get(ctx, "legacy")
	require.NoError(t, err)
	assert.Equal(t, "legacy", s.ID)
	assert.Equal(t, models.FlexInt(50), s.MaxParticipants)
	assert.Equal(t, models.FlexInt(3), s.Registrations)
}

func TestCollection_Mutate(t *testing.T) {
	repos, _ := newRepos(t)
	ctx := context.Background()

	s, err := repos.Seminars.Create(ctx, &models.Seminar{Title: "Go", MaxParticipants: 1})
	require.NoError(t, err)
	full := errors.New("full")

	register := func(item *models.Seminar) (map[string]any, error) {
		if item.IsFull() {
			return nil, full
		}
		return map[string]any{"registrations": item.Registrations.Int() + 1}, nil
	}

	got, err := repos.Seminars.Mutate(ctx, s.ID, register)
	require.NoError(t, err)
	assert.Equal(t, models.FlexInt(1), got.Registrations)
	assert.Equal(t, "Go", got.Title)

	_, err = repos.Seminars.Mutate(ctx, s.ID, register)
	assert.ErrorIs(t, err, full)

	stored, err := repos.Seminars.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, models.FlexInt(1), stored.Registrations)

	_, err = repos.Seminars.Mutate(ctx, "missing", register)
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
}

func TestCollection_MutateKeepsUntouchedFields(t *testing.T) {
	repos, store := newRepos(t)
	ctx := context.Background()
	require.NoError(t, store.Set(ctx, "seminars/legacy", map[string]any{
		"title":           "Old seminar",
		"maxParticipants": "50",
		"registrations":   float64(3),
		"room":            "B-12",
	}))

	got, err := repos.Seminars.Mutate(ctx, "legacy", func(item *models.Seminar) (map[string]any, error) {
		return map[string]any{"registrations": item.Registrations.Int() + 1}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, models.FlexInt(4), got.Registrations)
	assert.Equal(t, models.FlexInt(50), got.MaxParticipants)

	raw, err := store.Get(ctx, "seminars/legacy")
	require.NoError(t, err)
	fields := raw.(map[string]any)
	assert.Equal(t, "B-12", fields["room"])
	assert.Equal(t, "50", fields["maxParticipants"])
	assert.Equal(t, float64(4), fields["registrations"])
	assert.NotEmpty(t, fields["updatedAt"])
}

func TestCollection_ListSkipsUndecodableRecords(t *testing.T) {
	repos, store := newRepos(t)
	ctx := context.Background()
	require.NoError(t, store.Set(ctx, "blogs/b1", map[string]any{"title": "Good", "tags": "go"}))
	require.NoError(t, store.Set(ctx, "blogs/b2", map[string]any{"title": "Bad", "tags": []any{"ai", "ml"}}))

	list, err := repos.Blogs.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "b1", list[0].ID)
	assert.Equal(t, "Good", list[0].Title)
}

func TestCollection_UpdateWritesOnlyChangedFields(t *testing.T) {
	repos, store := newRepos(t)
	ctx := context.Background()
	require.NoError(t, store.Set(ctx, "seminars/legacy", map[string]any{
		"title":           "Old seminar",
		"maxParticipants": "50",
	}))

	item, err := repos.Seminars.Get(ctx, "legacy")
	require.NoError(t, err)
	item.Title = "Renamed seminar"
	updated, err := repos.Seminars.Update(ctx, "legacy", item)
	require.NoError(t, err)
	assert.Equal(t, "Renamed seminar", updated.Title)

	raw, err := store.Get(ctx, "seminars/legacy")
	require.NoError(t, err)
	fields := raw.(map[string]any)
	assert.Equal(t, "Renamed seminar", fields["title"])
	assert.Equal(t, "50", fields["maxParticipants"])
	assert.NotContains(t, fields, "registrations")
	assert.NotContains(t, fields, "description")
	assert.NotEmpty(t, fields["updatedAt"])
}

func TestGrouped_CurriculaCarryReferenceID(t *testing.T) {
	repos, store := newRepos(t)
	ctx := context.Background()

	temp, err := repos.Curricula.In("temp")
	require.NoError(t, err)
	c, err := temp.Create(ctx, &models.Curriculum{Title: "AI Basics", Status: models.StatusDraft, ReferenceID: "ignored"})
	require.NoError(t, err)

	raw, err := store.Get(ctx, docstore.Join(CurriculumDetailsPath, "temp", c.ID, "referenceId"))
	require.NoError(t, err)
	assert.Nil(t, raw)

	require.NoError(t, store.Set(ctx, "curriculumDetails/ref2/c9", map[string]any{"title": "Legacy", "status": "pending"}))

	all, err := repos.Curricula.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "ref2", all[0].ReferenceID)
	assert.Equal(t, "c9", all[0].ID)
	assert.Equal(t, "temp", all[1].ReferenceID)

	group, found, err := repos.Curricula.Find(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "temp", group)
	assert.Equal(t, "AI Basics", found.Title)
}

func TestSubjects_ByStream(t *testing.T) {
	repos, _ := newRepos(t)
	ctx := context.Background()

	sem3, err := repos.Subjects.Semester("cs", 3)
	require.NoError(t, err)
	_, err = sem3.Create(ctx, &models.Subject{Name: "Algorithms", Code: "CS301", Credits: "4"})
	require.NoError(t, err)

	groups, err := repos.Subjects.ByStream(ctx, "cs")
	require.NoError(t, err)
	require.Len(t, groups[3], 1)
	assert.Equal(t, models.FlexInt(3), groups[3][0].Semester)
	assert.Equal(t, "cs", groups[3][0].StreamID)

	require.NoError(t, repos.Subjects.DeleteStream(ctx, "cs"))
	groups, err = repos.Subjects.ByStream(ctx, "cs")
	require.NoError(t, err)
	assert.Empty(t, groups)
}

func TestVotes_CastReplacesPreviousChoice(t *testing.T) {
	repos, _ := newRepos(t)
	ctx := context.Background()
	vote := &models.Vote{TeacherEmail: "t@uni.edu", TeacherName: "T", Timestamp: "2024-01-01T00:00:00.000Z"}

	require.NoError(t, repos.Votes.Cast(ctx, "c1", models.VoteApprove, vote))
	require.NoError(t, repos.Votes.Cast(ctx, "c1", models.VoteReject, vote))

	tally, err := repos.Votes.Tally(ctx, "c1")
	require.NoError(t, err)
	assert.Empty(t, tally.Approve)
	require.Len(t, tally.Reject, 1)
	assert.Equal(t, "t@uni.edu", tally.Reject[0].TeacherEmail)

	all, err := repos.Votes.Tallies(ctx)
	require.NoError(t, err)
	assert.Contains(t, all, "c1")
}

func TestUsers_MergeAndGetAll(t *testing.T) {
	repos, _ := newRepos(t)
	ctx := context.Background()

	require.NoError(t, repos.Users.Merge(ctx, "u1", map[string]any{"email": "a@uni.edu", "role": "student"}))
	require.NoError(t, repos.Users.Merge(ctx, "u1", map[string]any{"fullName": "Ada"}))

	u, err := repos.Users.GetByUID(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "u1", u.UID)
	assert.Equal(t, "Ada", u.FullName)
	assert.Equal(t, models.RoleStudent, u.Role)

	all, err := repos.Users.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	_, err = repos.Users.GetByUID(ctx, "nobody")
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
}
