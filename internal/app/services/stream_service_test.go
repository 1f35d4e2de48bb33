package services

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/eduportal/internal/app/models"
	"github.com/yigit/eduportal/internal/pkg/apperrors"
)

func TestStreamService_Defaults(t *testing.T) {
	env := newTestEnv(t)
	svc := NewStreamService(env.repos, zerolog.Nop())
	ctx := context.Background()

	_, err := svc.CreateStream(ctx, &models.Stream{Name: "Computer Science"})
	assert.Equal(t, "Please fill in all required fields", err.Error())

	stream, err := svc.CreateStream(ctx, &models.Stream{Name: "Computer Science", Code: "CSE"})
	require.NoError(t, err)
	assert.Equal(t, models.FlexString("4"), stream.Duration)
	assert.Equal(t, models.FlexString("8"), stream.TotalSemesters)
	assert.Equal(t, "BTech", stream.Category)
}

func TestStreamService_Semesters(t *testing.T) {
	env := newTestEnv(t)
	svc := NewStreamService(env.repos, zerolog.Nop())
	ctx := context.Background()

	stream, err := svc.CreateStream(ctx, &models.Stream{Name: "Design", Code: "DES", TotalSemesters: "4"})
	require.NoError(t, err)

	subject, err := svc.CreateSubject(ctx, stream.ID, 2, &models.Subject{Name: "Typography", Code: "DES201", Credits: "3"})
	require.NoError(t, err)
	assert.Equal(t, "Core", subject.Type)
	assert.Equal(t, 2, subject.Semester.Int())
	assert.Equal(t, stream.ID, subject.StreamID)

	_, err = svc.CreateSubject(ctx, stream.ID, 5, &models.Subject{Name: "Thesis", Code: "DES501", Credits: "6"})
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
	assert.Equal(t, "Semester must be between 1 and 4", err.Error())

	_, err = svc.CreateSubject(ctx, stream.ID, 1, &models.Subject{Name: "Drawing", Code: "DES101"})
	assert.Equal(t, "Please fill in all required fields", err.Error())

	_, err = svc.CreateSubject(ctx, "nope", 1, &models.Subject{Name: "Drawing", Code: "DES101", Credits: "2"})
	assert.Equal(t, "Stream not found", err.Error())

	view, err := svc.Semesters(ctx, stream.ID)
	require.NoError(t, err)
	require.Len(t, view.Semesters, 4)
	assert.Empty(t, view.Semesters[0].Subjects)
	require.Len(t, view.Semesters[1].Subjects, 1)
	assert.Equal(t, "Typography", view.Semesters[1].Subjects[0].Name)

	subject.Name = "Advanced Typography"
	updated, err := svc.UpdateSubject(ctx, stream.ID, 2, subject.ID, subject)
	require.NoError(t, err)
	assert.Equal(t, subject.CreatedAt, updated.CreatedAt)

	require.NoError(t, svc.DeleteStream(ctx, stream.ID))
	subjects, err := env.repos.Subjects.ByStream(ctx, stream.ID)
	require.NoError(t, err)
	assert.Empty(t, subjects)
}

func TestTotalSemesters(t *testing.T) {
	assert.Equal(t, 6, TotalSemesters(&models.Stream{TotalSemesters: "6"}))
	assert.Equal(t, 8, TotalSemesters(&models.Stream{TotalSemesters: "eight"}))
	assert.Equal(t, 8, TotalSemesters(&models.Stream{}))
}
