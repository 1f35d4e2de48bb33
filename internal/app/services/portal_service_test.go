package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/eduportal/internal/app/listing"
	"github.com/yigit/eduportal/internal/app/models"
	"github.com/yigit/eduportal/internal/app/models/dto"
	"github.com/yigit/eduportal/internal/pkg/apperrors"
)

func newStudentService(env *testEnv) *studentServiceImpl {
	svc := NewStudentService(env.repos, zerolog.Nop()).(*studentServiceImpl)
	svc.now = func() time.Time { return fixedNow }
	return svc
}

func TestStudentService_RegisterForSeminar(t *testing.T) {
	env := newTestEnv(t)
	svc := newStudentService(env)
	ctx := context.Background()
	env.put(t, "seminars/s1", map[string]any{"title": "Go", "maxParticipants": "2", "registrations": 1, "status": "Scheduled"})

	seminar, err := svc.RegisterForSeminar(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, 2, seminar.Registrations.Int())

	_, err = svc.RegisterForSeminar(ctx, "s1")
	assert.ErrorIs(t, err, apperrors.ErrSeminarFull)
	assert.Equal(t, MsgSeminarFull, err.Error())

	stored, err := env.repos.Seminars.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, 2, stored.Registrations.Int())

	_, err = svc.RegisterForSeminar(ctx, "missing")
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
}

func TestStudentService_RegisterForSeminarConcurrently(t *testing.T) {
	env := newTestEnv(t)
	svc := newStudentService(env)
	ctx := context.Background()
	env.put(t, "seminars/s1", map[string]any{"title": "Go", "maxParticipants": 5, "registrations": 0, "status": "Scheduled"})

	var wg sync.WaitGroup
	var mu sync.Mutex
	succeeded, full := 0, 0
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.RegisterForSeminar(ctx, "s1")
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded++
			case errors.Is(err, apperrors.ErrSeminarFull):
				full++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 5, succeeded)
	assert.Equal(t, 15, full)
	stored, err := env.repos.Seminars.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, 5, stored.Registrations.Int())
}

func TestStudentService_Listings(t *testing.T) {
	env := newTestEnv(t)
	svc := newStudentService(env)
	ctx := context.Background()

	env.put(t, "seminars", map[string]any{
		"past":      map[string]any{"title": "Past", "date": "2025-03-01", "status": "Scheduled"},
		"later":     map[string]any{"title": "Later", "date": "2025-04-01", "status": "Scheduled"},
		"today":     map[string]any{"title": "Today", "date": "2025-03-10", "status": "Scheduled"},
		"cancelled": map[string]any{"title": "Cancelled", "date": "2025-05-01", "status": "Cancelled"},
	})
	seminars, err := svc.UpcomingSeminars(ctx, listing.Query{})
	require.NoError(t, err)
	require.Len(t, seminars.Items, 2)
	assert.Equal(t, "Today", seminars.Items[0].Title)
	assert.Equal(t, "Later", seminars.Items[1].Title)

	env.put(t, "domainExperts", map[string]any{
		"e1": map[string]any{"name": "Alan", "domain": "Cybersecurity", "status": "Active"},
		"e2": map[string]any{"name": "Barbara", "domain": "Data Science", "status": "Active"},
		"e3": map[string]any{"name": "Retired", "domain": "Robotics", "status": "Inactive"},
	})
	experts, err := svc.Experts(ctx, listing.Query{Filters: map[string]string{"domain": "Data Science"}})
	require.NoError(t, err)
	require.Len(t, experts.Items, 1)
	assert.Equal(t, "Barbara", experts.Items[0].Name)
	assert.Equal(t, []string{"Cybersecurity", "Data Science"}, experts.Domains)

	env.put(t, "internships", map[string]any{
		"i1": map[string]any{"title": "Backend intern", "status": "active"},
		"i2": map[string]any{"title": "Closed", "status": "closed"},
	})
	internships, err := svc.Internships(ctx, listing.Query{})
	require.NoError(t, err)
	require.Len(t, internships.Items, 1)

	env.put(t, "hackathons", map[string]any{
		"h1": map[string]any{"title": "Ended", "endDate": "2025-03-09", "startDate": "2025-03-01", "status": "active"},
		"h2": map[string]any{"title": "B", "endDate": "2025-06-01", "startDate": "2025-05-01", "status": "active"},
		"h3": map[string]any{"title": "A", "endDate": "2025-06-01", "startDate": "2025-04-01", "status": "Active"},
	})
	hackathons, err := svc.Hackathons(ctx, listing.Query{})
	require.NoError(t, err)
	require.Len(t, hackathons.Items, 2)
	assert.Equal(t, "A", hackathons.Items[0].Title)

	env.put(t, "curriculumDetails", map[string]any{
		"temp": map[string]any{"c1": map[string]any{"title": "Distributed Systems", "level": "Advanced"}},
		"ref9": map[string]any{"c2": map[string]any{"title": "Intro to Go", "tag": "golang"}},
	})
	curricula, err := svc.Curricula(ctx, listing.Query{Search: "GOLANG"})
	require.NoError(t, err)
	require.Len(t, curricula.Items, 1)
	assert.Equal(t, "ref9", curricula.Items[0].ReferenceID)
}

func TestTeacherService_ProfileAndVotes(t *testing.T) {
	env := newTestEnv(t)
	svc := NewTeacherService(env.repos, zerolog.Nop())
	ctx := context.Background()

	req := validStudent()
	req.Email = "turing@uni.edu"
	req.FullName = "Alan Turing"
	req.EmployeeID = "E-1"
	res, err := env.auth.Register(ctx, env.sessionFor(t, "teacher"), req)
	require.NoError(t, err)
	identity := res.Session.Identity

	profile, err := svc.UpdateProfile(ctx, identity, &dto.TeacherProfileRequest{Name: "Prof. Turing", Position: "Reader", Bio: "Computability"})
	require.NoError(t, err)
	assert.Equal(t, "Prof. Turing", profile.Name)
	assert.Equal(t, "Reader", profile.Position)
	assert.Equal(t, "turing@uni.edu", profile.Email)

	stored, err := env.repos.Users.GetByUID(ctx, identity.UID)
	require.NoError(t, err)
	assert.Equal(t, "Reader", stored.Designation)
	assert.Equal(t, models.RoleTeacher, stored.Role)

	env.put(t, "curriculumDetails/temp/c1", map[string]any{"title": "Automata", "status": "draft"})
	env.put(t, "curriculumDetails/temp/c2", map[string]any{"title": "Approved", "status": "approved"})

	review, err := svc.CurriculaForReview(ctx, listing.Query{})
	require.NoError(t, err)
	require.Len(t, review.Items, 1)

	_, err = svc.Vote(ctx, identity, "c1", models.VoteApprove)
	require.NoError(t, err)
	tally, err := svc.Vote(ctx, identity, "c1", models.VoteReject)
	require.NoError(t, err)
	assert.Empty(t, tally.Approve)
	require.Len(t, tally.Reject, 1)
	assert.Equal(t, "Prof. Turing", tally.Reject[0].TeacherName)

	_, err = svc.Vote(ctx, identity, "missing", models.VoteApprove)
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
}

func TestTeacherService_CreateSeminar(t *testing.T) {
	env := newTestEnv(t)
	svc := NewTeacherService(env.repos, zerolog.Nop())
	ctx := context.Background()
	identity := &models.Identity{UID: "t1", Email: "t@uni.edu", DisplayName: "T"}

	_, err := svc.CreateSeminar(ctx, identity, &models.Seminar{Title: "Go", Date: "2025-04-01", Time: "10:00"})
	assert.Equal(t, "Please fill in all required fields", err.Error())

	_, err = svc.CreateSeminar(ctx, identity, &models.Seminar{Title: "Go", Date: "2025-04-01", Time: "10:00", MeetLink: "https://zoom.us/j/1"})
	assert.Equal(t, "Please provide a valid Google Meet link", err.Error())

	seminar, err := svc.CreateSeminar(ctx, identity, &models.Seminar{
		Title: "Go", Date: "2025-04-01", Time: "10:00", MeetLink: "https://meet.google.com/abc-defg-hij", Registrations: 9,
	})
	require.NoError(t, err)
	assert.Equal(t, models.StatusScheduled, seminar.Status)
	assert.Equal(t, 0, seminar.Registrations.Int())
	assert.Equal(t, 50, seminar.MaxParticipants.Int())
	assert.Equal(t, "T", seminar.TeacherName)

	mine, err := svc.Seminars(ctx, identity, listing.Query{})
	require.NoError(t, err)
	assert.Len(t, mine.Items, 1)
	others, err := svc.Seminars(ctx, &models.Identity{UID: "t2", Email: "x@uni.edu"}, listing.Query{})
	require.NoError(t, err)
	assert.Empty(t, others.Items)
}

func TestDeveloperService_Curricula(t *testing.T) {
	env := newTestEnv(t)
	svc := NewDeveloperService(env.repos, zerolog.Nop())
	ctx := context.Background()
	dev := &models.Identity{UID: "dev1", DeveloperID: "DEV-1"}

	created, err := svc.CreateCurriculum(ctx, dev, &models.Curriculum{Title: "Compilers", Status: "approved"})
	require.NoError(t, err)
	assert.Equal(t, DraftReference, created.ReferenceID)
	assert.Equal(t, models.StatusDraft, created.Status)
	assert.Equal(t, "dev1", created.CreatedBy)

	raw, err := env.store.Get(ctx, "curriculumDetails/temp/"+created.ID)
	require.NoError(t, err)
	_, hasRef := raw.(map[string]any)["referenceId"]
	assert.False(t, hasRef)

	env.put(t, "curriculumDetails/ref1/old", map[string]any{"title": "Legacy", "createdBy": "someone"})
	existing, err := svc.GetCurriculum(ctx, "old")
	require.NoError(t, err)
	existing.Title = "Legacy (revised)"
	updated, err := svc.UpdateCurriculum(ctx, dev, "old", existing)
	require.NoError(t, err)
	assert.Equal(t, "ref1", updated.ReferenceID)
	assert.Equal(t, "dev1", updated.UpdatedBy)
	assert.Equal(t, "someone", updated.CreatedBy)

	env.put(t, "curriculumVotes/old/approve/t@uni.edu", map[string]any{"teacherName": "T", "teacherEmail": "t@uni.edu"})
	votes, err := svc.Votes(ctx)
	require.NoError(t, err)
	require.Len(t, votes, 2)
	for _, v := range votes {
		if v.Curriculum.ID == "old" {
			assert.Equal(t, 1, v.Approve)
		} else {
			assert.Equal(t, 0, v.Approve)
		}
	}

	require.NoError(t, svc.DeleteCurriculum(ctx, "old"))
	_, err = svc.GetCurriculum(ctx, "old")
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
}

func TestDeveloperService_Events(t *testing.T) {
	env := newTestEnv(t)
	svc := NewDeveloperService(env.repos, zerolog.Nop())
	ctx := context.Background()

	_, err := svc.CreateEvent(ctx, nil, &models.CalendarEvent{Title: "No date"})
	assert.Equal(t, "Please fill in all required fields", err.Error())

	late, err := svc.CreateEvent(ctx, nil, &models.CalendarEvent{Title: "Review", Date: "2025-05-01"})
	require.NoError(t, err)
	assert.Equal(t, DefaultEventType, late.Type)
	assert.Equal(t, "curriculum-developer", late.CreatedBy)
	_, err = svc.CreateEvent(ctx, nil, &models.CalendarEvent{Title: "Kickoff", Date: "2025-04-01", Tasks: []string{"agenda"}})
	require.NoError(t, err)

	events, err := svc.Events(ctx, listing.Query{})
	require.NoError(t, err)
	require.Len(t, events.Items, 2)
	assert.Equal(t, "Kickoff", events.Items[0].Title)
	assert.Equal(t, []string{"agenda"}, events.Items[0].Tasks)
}

func TestIndustryService_StampsCompany(t *testing.T) {
	env := newTestEnv(t)
	svc := NewIndustryService(env.repos, zerolog.Nop())
	ctx := context.Background()
	company := &models.Identity{UID: "ind1", DisplayName: "Acme", CompanyID: "ACME01"}

	_, err := svc.CreateInternship(ctx, company, &models.Internship{Title: "Intern"})
	assert.Equal(t, "Please fill in all required fields", err.Error())

	internship, err := svc.CreateInternship(ctx, company, &models.Internship{
		Title: "Intern", Description: "Build things", Duration: "3 months", Location: "Remote", CompanyID: "FORGED",
	})
	require.NoError(t, err)
	assert.Equal(t, "ACME01", internship.CompanyID)
	assert.Equal(t, "Acme", internship.CompanyName)
	assert.Equal(t, PostingStatusActive, internship.Status)

	hackathon, err := svc.CreateHackathon(ctx, company, &models.Hackathon{
		Title: "Hack", Description: "d", ProblemStatement: "p", StartDate: "2025-04-01", EndDate: "2025-04-02",
	})
	require.NoError(t, err)
	assert.Equal(t, "ACME01", hackathon.CompanyID)

	// industry postings are visible to students
	students := newStudentService(env)
	listed, err := students.Internships(ctx, listing.Query{})
	require.NoError(t, err)
	assert.Len(t, listed.Items, 1)
}
