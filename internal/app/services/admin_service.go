package services

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/yigit/eduportal/internal/app/listing"
	"github.com/yigit/eduportal/internal/app/models"
	"github.com/yigit/eduportal/internal/app/repositories"
	"github.com/yigit/eduportal/internal/pkg/apperrors"
	"github.com/yigit/eduportal/internal/pkg/auth"
	"github.com/yigit/eduportal/internal/pkg/validation"
)

// Uniqueness messages of provisioned accounts
const (
	MsgCompanyIDTaken   = "Company ID already exists. Please choose a different one."
	MsgDeveloperIDTaken = "Developer ID already exists. Please choose a different one."
)

var industrySpec = listing.Spec[*models.Industry]{
	SearchFields: []listing.Field[*models.Industry]{
		func(i *models.Industry) string { return i.CompanyName },
		func(i *models.Industry) string { return i.Email },
		func(i *models.Industry) string { return i.CompanyID },
		func(i *models.Industry) string { return i.Location },
	},
	Filters: map[string]listing.Field[*models.Industry]{
		"industryType": func(i *models.Industry) string { return i.IndustryType },
		"status":       func(i *models.Industry) string { return i.Status },
	},
	SortKey:    func(i *models.Industry) string { return i.CreatedAt },
	Descending: true,
}

var developerSpec = listing.Spec[*models.CurriculumDeveloper]{
	SearchFields: []listing.Field[*models.CurriculumDeveloper]{
		func(d *models.CurriculumDeveloper) string { return d.FullName },
		func(d *models.CurriculumDeveloper) string { return d.Email },
		func(d *models.CurriculumDeveloper) string { return d.DeveloperID },
		func(d *models.CurriculumDeveloper) string { return d.Institution },
	},
	Filters: map[string]listing.Field[*models.CurriculumDeveloper]{
		"specialization": func(d *models.CurriculumDeveloper) string { return d.Specialization },
		"status":         func(d *models.CurriculumDeveloper) string { return d.Status },
	},
	SortKey:    func(d *models.CurriculumDeveloper) string { return d.CreatedAt },
	Descending: true,
}

var adminExpertSpec = listing.Spec[*models.DomainExpert]{
	SearchFields: expertSearchFields,
	Filters: map[string]listing.Field[*models.DomainExpert]{
		"domain": func(e *models.DomainExpert) string { return e.Domain },
		"status": func(e *models.DomainExpert) string { return e.Status },
	},
	SortKey:    func(e *models.DomainExpert) string { return e.CreatedAt },
	Descending: true,
}

var userSpec = listing.Spec[*models.UserProfile]{
	SearchFields: []listing.Field[*models.UserProfile]{
		func(u *models.UserProfile) string { return u.FullName },
		func(u *models.UserProfile) string { return u.Email },
		func(u *models.UserProfile) string { return u.Institution },
	},
	Filters: map[string]listing.Field[*models.UserProfile]{
		"role": func(u *models.UserProfile) string { return string(u.Role) },
	},
	SortKey:    func(u *models.UserProfile) string { return u.CreatedAt },
	Descending: true,
}

// AdminService manages the admin provisioned directories
type AdminService interface {
	ListIndustries(ctx context.Context, q listing.Query) (listing.Result[*models.Industry], error)
	GetIndustry(ctx context.Context, id string) (*models.Industry, error)
	CreateIndustry(ctx context.Context, industry *models.Industry) (*models.Industry, error)
	UpdateIndustry(ctx context.Context, id string, industry *models.Industry) (*models.Industry, error)
	DeleteIndustry(ctx context.Context, id string) error

	ListDevelopers(ctx context.Context, q listing.Query) (listing.Result[*models.CurriculumDeveloper], error)
	GetDeveloper(ctx context.Context, id string) (*models.CurriculumDeveloper, error)
	CreateDeveloper(ctx context.Context, developer *models.CurriculumDeveloper) (*models.CurriculumDeveloper, error)
	UpdateDeveloper(ctx context.Context, id string, developer *models.CurriculumDeveloper) (*models.CurriculumDeveloper, error)
	DeleteDeveloper(ctx context.Context, id string) error

	ListExperts(ctx context.Context, q listing.Query) (listing.Result[*models.DomainExpert], error)
	GetExpert(ctx context.Context, id string) (*models.DomainExpert, error)
	CreateExpert(ctx context.Context, expert *models.DomainExpert) (*models.DomainExpert, error)
	UpdateExpert(ctx context.Context, id string, expert *models.DomainExpert) (*models.DomainExpert, error)
	DeleteExpert(ctx context.Context, id string) error

	ListUsers(ctx context.Context, q listing.Query) (listing.Result[*models.UserProfile], error)
}

type adminServiceImpl struct {
	industries *repositories.Collection[models.Industry]
	developers *repositories.Collection[models.CurriculumDeveloper]
	experts    *repositories.Collection[models.DomainExpert]
	users      *repositories.UserRepository
	logger     zerolog.Logger
	now        Clock
}

// NewAdminService creates a new AdminService
func NewAdminService(repos *repositories.Repositories, logger zerolog.Logger) AdminService {
	return &adminServiceImpl{
		industries: repos.Industries,
		developers: repos.CurriculumDevelopers,
		experts:    repos.DomainExperts,
		users:      repos.Users,
		logger:     logger,
		now:        time.Now,
	}
}

// hashIfPlain hashes a password that is not already a bcrypt hash
func hashIfPlain(password string) (string, error) {
	if password == "" || auth.IsHashed(password) {
		return password, nil
	}
	return auth.HashPassword(password)
}

// publicIndustries strips stored passwords from a list result
func publicIndustries(res listing.Result[*models.Industry]) listing.Result[*models.Industry] {
	for i, item := range res.Items {
		res.Items[i] = item.Public()
	}
	return res
}

// Industries

func (s *adminServiceImpl) ListIndustries(ctx context.Context, q listing.Query) (listing.Result[*models.Industry], error) {
	items, err := s.industries.List(ctx)
	if err != nil {
		return listing.Result[*models.Industry]{}, storeErr("fetch industries", err)
	}
	return publicIndustries(industrySpec.Apply(items, q)), nil
}

func (s *adminServiceImpl) GetIndustry(ctx context.Context, id string) (*models.Industry, error) {
	industry, err := s.industries.Get(ctx, id)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrResourceNotFound) {
			return nil, apperrors.NewResourceNotFoundError("Industry not found")
		}
		return nil, storeErr("fetch industry", err)
	}
	return industry, nil
}

func (s *adminServiceImpl) validateIndustry(ctx context.Context, id string, industry *models.Industry) error {
	err := validation.NewForm().
		Require(validation.MsgRequiredFields, industry.CompanyName, industry.Email, industry.IndustryType, industry.CompanyID, industry.Password).
		Email(industry.Email, validation.MsgInvalidEmail).
		Err()
	if err != nil {
		return err
	}

	existing, err := s.industries.List(ctx)
	if err != nil {
		return storeErr("save industry", err)
	}
	for _, other := range existing {
		if other.CompanyID == industry.CompanyID && other.ID != id {
			return apperrors.NewConflictError(MsgCompanyIDTaken)
		}
	}
	return nil
}

func (s *adminServiceImpl) CreateIndustry(ctx context.Context, industry *models.Industry) (*models.Industry, error) {
	industry.CompanyID = strings.TrimSpace(industry.CompanyID)
	if err := s.validateIndustry(ctx, "", industry); err != nil {
		return nil, err
	}
	industry.Status = orDefault(industry.Status, models.StatusActive)

	hash, err := hashIfPlain(industry.Password)
	if err != nil {
		return nil, apperrors.NewOperationError("save industry", err)
	}
	industry.Password = hash

	created, err := s.industries.Create(ctx, industry)
	if err != nil {
		return nil, storeErr("save industry", err)
	}
	s.logger.Info().Str("id", created.ID).Str("companyId", created.CompanyID).Msg("Industry created")
	return created.Public(), nil
}

func (s *adminServiceImpl) UpdateIndustry(ctx context.Context, id string, industry *models.Industry) (*models.Industry, error) {
	industry.CompanyID = strings.TrimSpace(industry.CompanyID)
	if err := s.validateIndustry(ctx, id, industry); err != nil {
		return nil, err
	}
	hash, err := hashIfPlain(industry.Password)
	if err != nil {
		return nil, apperrors.NewOperationError("save industry", err)
	}
	industry.Password = hash

	updated, err := s.industries.Update(ctx, id, industry)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrResourceNotFound) {
			return nil, apperrors.NewResourceNotFoundError("Industry not found")
		}
		return nil, storeErr("save industry", err)
	}
	s.logger.Info().Str("id", id).Msg("Industry updated")
	return updated.Public(), nil
}

func (s *adminServiceImpl) DeleteIndustry(ctx context.Context, id string) error {
	if err := s.industries.Delete(ctx, id); err != nil {
		if apperrors.Is(err, apperrors.ErrResourceNotFound) {
			return apperrors.NewResourceNotFoundError("Industry not found")
		}
		return storeErr("delete industry", err)
	}
	s.logger.Info().Str("id", id).Msg("Industry deleted")
	return nil
}

// Curriculum developers

func (s *adminServiceImpl) ListDevelopers(ctx context.Context, q listing.Query) (listing.Result[*models.CurriculumDeveloper], error) {
	items, err := s.developers.List(ctx)
	if err != nil {
		return listing.Result[*models.CurriculumDeveloper]{}, storeErr("fetch curriculum developers", err)
	}
	res := developerSpec.Apply(items, q)
	for i, item := range res.Items {
		res.Items[i] = item.Public()
	}
	return res, nil
}

func (s *adminServiceImpl) GetDeveloper(ctx context.Context, id string) (*models.CurriculumDeveloper, error) {
	developer, err := s.developers.Get(ctx, id)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrResourceNotFound) {
			return nil, apperrors.NewResourceNotFoundError("Curriculum developer not found")
		}
		return nil, storeErr("fetch curriculum developer", err)
	}
	return developer, nil
}

func (s *adminServiceImpl) validateDeveloper(ctx context.Context, id string, developer *models.CurriculumDeveloper) error {
	err := validation.NewForm().
		Require(validation.MsgRequiredFields, developer.FullName, developer.Email, developer.Specialization, developer.DeveloperID, developer.Password).
		Email(developer.Email, validation.MsgInvalidEmail).
		Err()
	if err != nil {
		return err
	}

	existing, err := s.developers.List(ctx)
	if err != nil {
		return storeErr("save curriculum developer", err)
	}
	for _, other := range existing {
		if other.DeveloperID == developer.DeveloperID && other.ID != id {
			return apperrors.NewConflictError(MsgDeveloperIDTaken)
		}
	}
	return nil
}

func (s *adminServiceImpl) CreateDeveloper(ctx context.Context, developer *models.CurriculumDeveloper) (*models.CurriculumDeveloper, error) {
	developer.DeveloperID = strings.TrimSpace(developer.DeveloperID)
	if err := s.validateDeveloper(ctx, "", developer); err != nil {
		return nil, err
	}
	developer.Status = orDefault(developer.Status, models.StatusActive)

	hash, err := hashIfPlain(developer.Password)
	if err != nil {
		return nil, apperrors.NewOperationError("save curriculum developer", err)
	}
	developer.Password = hash

	created, err := s.developers.Create(ctx, developer)
	if err != nil {
		return nil, storeErr("save curriculum developer", err)
	}
	s.logger.Info().Str("id", created.ID).Str("developerId", created.DeveloperID).Msg("Curriculum developer created")
	return created.Public(), nil
}

func (s *adminServiceImpl) UpdateDeveloper(ctx context.Context, id string, developer *models.CurriculumDeveloper) (*models.CurriculumDeveloper, error) {
	developer.DeveloperID = strings.TrimSpace(developer.DeveloperID)
	if err := s.validateDeveloper(ctx, id, developer); err != nil {
		return nil, err
	}
	hash, err := hashIfPlain(developer.Password)
	if err != nil {
		return nil, apperrors.NewOperationError("save curriculum developer", err)
	}
	developer.Password = hash

	updated, err := s.developers.Update(ctx, id, developer)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrResourceNotFound) {
			return nil, apperrors.NewResourceNotFoundError("Curriculum developer not found")
		}
		return nil, storeErr("save curriculum developer", err)
	}
	s.logger.Info().Str("id", id).Msg("Curriculum developer updated")
	return updated.Public(), nil
}

func (s *adminServiceImpl) DeleteDeveloper(ctx context.Context, id string) error {
	if err := s.developers.Delete(ctx, id); err != nil {
		if apperrors.Is(err, apperrors.ErrResourceNotFound) {
			return apperrors.NewResourceNotFoundError("Curriculum developer not found")
		}
		return storeErr("delete curriculum developer", err)
	}
	s.logger.Info().Str("id", id).Msg("Curriculum developer deleted")
	return nil
}

// Domain experts

func (s *adminServiceImpl) ListExperts(ctx context.Context, q listing.Query) (listing.Result[*models.DomainExpert], error) {
	items, err := s.experts.List(ctx)
	if err != nil {
		return listing.Result[*models.DomainExpert]{}, storeErr("fetch experts", err)
	}
	return adminExpertSpec.Apply(items, q), nil
}

func (s *adminServiceImpl) GetExpert(ctx context.Context, id string) (*models.DomainExpert, error) {
	expert, err := s.experts.Get(ctx, id)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrResourceNotFound) {
			return nil, apperrors.NewResourceNotFoundError("Expert not found")
		}
		return nil, storeErr("fetch expert", err)
	}
	return expert, nil
}

func validateExpert(expert *models.DomainExpert) error {
	return validation.NewForm().
		Require(validation.MsgRequiredFields, expert.Name, expert.Email, expert.Specialization, expert.Domain).
		Email(expert.Email, validation.MsgInvalidEmail).
		Err()
}

func (s *adminServiceImpl) CreateExpert(ctx context.Context, expert *models.DomainExpert) (*models.DomainExpert, error) {
	if err := validateExpert(expert); err != nil {
		return nil, err
	}
	expert.Status = orDefault(expert.Status, models.StatusActive)

	created, err := s.experts.Create(ctx, expert)
	if err != nil {
		return nil, storeErr("save expert", err)
	}
	s.logger.Info().Str("id", created.ID).Msg("Domain expert created")
	return created, nil
}

func (s *adminServiceImpl) UpdateExpert(ctx context.Context, id string, expert *models.DomainExpert) (*models.DomainExpert, error) {
	if err := validateExpert(expert); err != nil {
		return nil, err
	}
	updated, err := s.experts.Update(ctx, id, expert)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrResourceNotFound) {
			return nil, apperrors.NewResourceNotFoundError("Expert not found")
		}
		return nil, storeErr("save expert", err)
	}
	return updated, nil
}

func (s *adminServiceImpl) DeleteExpert(ctx context.Context, id string) error {
	if err := s.experts.Delete(ctx, id); err != nil {
		if apperrors.Is(err, apperrors.ErrResourceNotFound) {
			return apperrors.NewResourceNotFoundError("Expert not found")
		}
		return storeErr("delete expert", err)
	}
	s.logger.Info().Str("id", id).Msg("Domain expert deleted")
	return nil
}

// Users

func (s *adminServiceImpl) ListUsers(ctx context.Context, q listing.Query) (listing.Result[*models.UserProfile], error) {
	users, err := s.users.GetAll(ctx)
	if err != nil {
		return listing.Result[*models.UserProfile]{}, storeErr("fetch users", err)
	}
	return userSpec.Apply(users, q), nil
}
