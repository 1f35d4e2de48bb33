package services

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/eduportal/internal/app/listing"
	"github.com/yigit/eduportal/internal/app/models"
	"github.com/yigit/eduportal/internal/app/models/dto"
	"github.com/yigit/eduportal/internal/pkg/apperrors"
	"github.com/yigit/eduportal/internal/pkg/auth"
)

func acme() *models.Industry {
	return &models.Industry{
		CompanyName:  "Acme",
		Email:        "hr@acme.io",
		IndustryType: "Manufacturing",
		CompanyID:    "ACME01",
		Password:     "industry123",
	}
}

func TestAdminService_IndustryValidation(t *testing.T) {
	env := newTestEnv(t)
	svc := NewAdminService(env.repos, zerolog.Nop())
	ctx := context.Background()

	missing := acme()
	missing.IndustryType = ""
	_, err := svc.CreateIndustry(ctx, missing)
	assert.Equal(t, "Please fill in all required fields", err.Error())

	badEmail := acme()
	badEmail.Email = "not-an-email"
	_, err = svc.CreateIndustry(ctx, badEmail)
	assert.Equal(t, "Please enter a valid email address", err.Error())

	items, err := svc.ListIndustries(ctx, listing.Query{})
	require.NoError(t, err)
	assert.Empty(t, items.Items)
}

func TestAdminService_IndustryLifecycle(t *testing.T) {
	env := newTestEnv(t)
	svc := NewAdminService(env.repos, zerolog.Nop())
	ctx := context.Background()

	created, err := svc.CreateIndustry(ctx, acme())
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, models.StatusActive, created.Status)
	assert.Empty(t, created.Password)

	stored, err := svc.GetIndustry(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, auth.IsHashed(stored.Password))
	assert.True(t, auth.MatchStoredPassword(stored.Password, "industry123"))

	// the hashed password still signs in through the company id scheme
	res, err := env.auth.Login(ctx, env.sessionFor(t, "industry"), &dto.LoginRequest{CompanyID: "ACME01", Password: "industry123"})
	require.NoError(t, err)
	assert.Equal(t, created.ID, res.Session.Identity.UID)

	dup := acme()
	dup.CompanyName = "Acme Two"
	_, err = svc.CreateIndustry(ctx, dup)
	assert.ErrorIs(t, err, apperrors.ErrConflict)
	assert.Equal(t, MsgCompanyIDTaken, err.Error())

	// editing a record keeps its own company id
	stored.Location = "Berlin"
	updated, err := svc.UpdateIndustry(ctx, created.ID, stored)
	require.NoError(t, err)
	assert.Equal(t, "Berlin", updated.Location)
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)

	again, err := svc.GetIndustry(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, stored.Password, again.Password)

	require.NoError(t, svc.DeleteIndustry(ctx, created.ID))
	_, err = svc.GetIndustry(ctx, created.ID)
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
	assert.Equal(t, "Industry not found", err.Error())
}

func TestAdminService_DeveloperUniqueness(t *testing.T) {
	env := newTestEnv(t)
	svc := NewAdminService(env.repos, zerolog.Nop())
	ctx := context.Background()

	dev := func(email string) *models.CurriculumDeveloper {
		return &models.CurriculumDeveloper{
			FullName: "Grace", Email: email, Specialization: "Data Science", DeveloperID: "DEV-1", Password: "devpass",
		}
	}
	first, err := svc.CreateDeveloper(ctx, dev("grace@dev.io"))
	require.NoError(t, err)

	_, err = svc.CreateDeveloper(ctx, dev("other@dev.io"))
	assert.Equal(t, MsgDeveloperIDTaken, err.Error())

	list, err := svc.ListDevelopers(ctx, listing.Query{Search: "grace"})
	require.NoError(t, err)
	require.Len(t, list.Items, 1)
	assert.Equal(t, first.ID, list.Items[0].ID)
	assert.Empty(t, list.Items[0].Password)
}

func TestAdminService_ExpertDefaults(t *testing.T) {
	env := newTestEnv(t)
	svc := NewAdminService(env.repos, zerolog.Nop())
	ctx := context.Background()

	expert, err := svc.CreateExpert(ctx, &models.DomainExpert{
		Name: "Alan", Email: "alan@lab.org", Specialization: "Crypto", Domain: "Cybersecurity",
	})
	require.NoError(t, err)
	assert.Equal(t, models.StatusActive, expert.Status)

	_, err = svc.CreateExpert(ctx, &models.DomainExpert{Name: "Nobody"})
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	err = svc.DeleteExpert(ctx, "missing")
	assert.Equal(t, "Expert not found", err.Error())
}
