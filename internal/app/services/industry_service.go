package services

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/yigit/eduportal/internal/app/listing"
	"github.com/yigit/eduportal/internal/app/models"
	"github.com/yigit/eduportal/internal/app/repositories"
	"github.com/yigit/eduportal/internal/pkg/validation"
)

// Postings created by industry partners start in this status
const PostingStatusActive = "active"

var industryHackathonSpec = listing.Spec[*models.Hackathon]{
	SearchFields: hackathonSearchFields,
	Filters: map[string]listing.Field[*models.Hackathon]{
		"companyId": func(h *models.Hackathon) string { return h.CompanyID },
		"status":    func(h *models.Hackathon) string { return h.Status },
	},
	SortKey:    func(h *models.Hackathon) string { return h.CreatedAt },
	Descending: true,
}

// IndustryService backs the industry portal
type IndustryService interface {
	Internships(ctx context.Context, q listing.Query) (listing.Result[*models.Internship], error)
	CreateInternship(ctx context.Context, company *models.Identity, internship *models.Internship) (*models.Internship, error)
	Hackathons(ctx context.Context, q listing.Query) (listing.Result[*models.Hackathon], error)
	CreateHackathon(ctx context.Context, company *models.Identity, hackathon *models.Hackathon) (*models.Hackathon, error)
}

type industryServiceImpl struct {
	internships *repositories.Collection[models.Internship]
	hackathons  *repositories.Collection[models.Hackathon]
	logger      zerolog.Logger
}

// NewIndustryService creates a new IndustryService
func NewIndustryService(repos *repositories.Repositories, logger zerolog.Logger) IndustryService {
	return &industryServiceImpl{
		internships: repos.Internships,
		hackathons:  repos.Hackathons,
		logger:      logger,
	}
}

func (s *industryServiceImpl) Internships(ctx context.Context, q listing.Query) (listing.Result[*models.Internship], error) {
	items, err := s.internships.List(ctx)
	if err != nil {
		return listing.Result[*models.Internship]{}, storeErr("fetch internships", err)
	}
	return internshipSpec.Apply(items, q), nil
}

func (s *industryServiceImpl) CreateInternship(ctx context.Context, company *models.Identity, internship *models.Internship) (*models.Internship, error) {
	err := validation.NewForm().
		Require(validation.MsgRequiredFields, internship.Title, internship.Description, string(internship.Duration), internship.Location).
		Err()
	if err != nil {
		return nil, err
	}
	internship.CompanyID = company.CompanyID
	internship.CompanyName = company.DisplayName
	internship.Status = PostingStatusActive
	if internship.UniversityPartners == nil {
		internship.UniversityPartners = []string{}
	}

	created, err := s.internships.Create(ctx, internship)
	if err != nil {
		return nil, storeErr("create internship", err)
	}
	s.logger.Info().Str("id", created.ID).Str("companyId", company.CompanyID).Msg("Internship created")
	return created, nil
}

func (s *industryServiceImpl) Hackathons(ctx context.Context, q listing.Query) (listing.Result[*models.Hackathon], error) {
	items, err := s.hackathons.List(ctx)
	if err != nil {
		return listing.Result[*models.Hackathon]{}, storeErr("fetch hackathons", err)
	}
	return industryHackathonSpec.Apply(items, q), nil
}

func (s *industryServiceImpl) CreateHackathon(ctx context.Context, company *models.Identity, hackathon *models.Hackathon) (*models.Hackathon, error) {
	err := validation.NewForm().
		Require(validation.MsgRequiredFields, hackathon.Title, hackathon.Description, hackathon.ProblemStatement, hackathon.StartDate, hackathon.EndDate).
		Err()
	if err != nil {
		return nil, err
	}
	hackathon.CompanyID = company.CompanyID
	hackathon.CompanyName = company.DisplayName
	hackathon.Status = PostingStatusActive

	created, err := s.hackathons.Create(ctx, hackathon)
	if err != nil {
		return nil, storeErr("create hackathon", err)
	}
	s.logger.Info().Str("id", created.ID).Str("companyId", company.CompanyID).Msg("Hackathon created")
	return created, nil
}
