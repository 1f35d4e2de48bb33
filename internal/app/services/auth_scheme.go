package services

import (
	"context"
	"sort"
	"strings"

	"github.com/yigit/eduportal/internal/app/models"
	"github.com/yigit/eduportal/internal/app/repositories"
	"github.com/yigit/eduportal/internal/pkg/apperrors"
	"github.com/yigit/eduportal/internal/pkg/auth"
	"github.com/yigit/eduportal/internal/pkg/docstore"
)

// Scheme is how a role proves its identity: either StandardCredential or
// DirectLookupCredential.
type Scheme interface {
	scheme()
}

// StandardCredential signs in through the credential provider and keeps a
// profile under /users.
type StandardCredential struct{}

func (StandardCredential) scheme() {}

// DirectLookupCredential matches an admin provisioned record in a
// collection: any identifier field equal to the input, a matching password
// and status Active.
type DirectLookupCredential struct {
	Role             models.RoleType
	CollectionPath   string
	IdentifierFields []string
	DisplayField     string
	// IDField is copied into the identity as the role specific id
	IDField        string
	MissingMessage string
	FailureMessage string
}

func (DirectLookupCredential) scheme() {}

var (
	industryScheme = DirectLookupCredential{
		Role:             models.RoleIndustry,
		CollectionPath:   repositories.IndustriesPath,
		IdentifierFields: []string{"companyId"},
		DisplayField:     "companyName",
		IDField:          "companyId",
		MissingMessage:   "Company ID and password are required",
		FailureMessage:   "Invalid company ID or password, or account is inactive",
	}
	developerScheme = DirectLookupCredential{
		Role:             models.RoleCurriculumDeveloper,
		CollectionPath:   repositories.CurriculumDevelopersPath,
		IdentifierFields: []string{"developerId", "email"},
		DisplayField:     "fullName",
		IDField:          "developerId",
		MissingMessage:   "Email and password are required",
		FailureMessage:   "Invalid email or password, or account is inactive",
	}
)

// SchemeFor returns the credential scheme of a portal role
func SchemeFor(role models.RoleType) (Scheme, error) {
	switch role {
	case models.RoleStudent, models.RoleTeacher:
		return StandardCredential{}, nil
	case models.RoleIndustry:
		return industryScheme, nil
	case models.RoleCurriculumDeveloper:
		return developerScheme, nil
	}
	return nil, apperrors.NewValidationError("Please select a valid role")
}

func stringField(record map[string]any, key string) string {
	s, _ := record[key].(string)
	return s
}

// Lookup scans the collection for a record matching identifier and
// password. Records are visited in key order.
func (d DirectLookupCredential) Lookup(ctx context.Context, store docstore.Store, identifier, password string) (*models.Identity, error) {
	tree, err := store.Get(ctx, d.CollectionPath)
	if err != nil {
		return nil, apperrors.NewOperationError("sign in", err)
	}
	records := docstore.Children(tree)
	keys := make([]string, 0, len(records))
	for k := range records {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	identifier = strings.TrimSpace(identifier)
	for _, key := range keys {
		record, ok := records[key].(map[string]any)
		if !ok || !d.matchesIdentifier(record, identifier) {
			continue
		}
		if !auth.MatchStoredPassword(stringField(record, "password"), password) {
			continue
		}
		if stringField(record, "status") != models.StatusActive {
			continue
		}
		identity := &models.Identity{
			UID:         key,
			Email:       stringField(record, "email"),
			DisplayName: stringField(record, d.DisplayField),
		}
		switch d.Role {
		case models.RoleIndustry:
			identity.CompanyID = stringField(record, d.IDField)
		case models.RoleCurriculumDeveloper:
			identity.DeveloperID = stringField(record, d.IDField)
		}
		return identity, nil
	}
	return nil, apperrors.NewAuthError("", d.FailureMessage)
}

func (d DirectLookupCredential) matchesIdentifier(record map[string]any, identifier string) bool {
	for _, field := range d.IdentifierFields {
		v := strings.TrimSpace(stringField(record, field))
		if v == "" {
			continue
		}
		if field == "email" {
			if strings.EqualFold(v, identifier) {
				return true
			}
			continue
		}
		if v == identifier {
			return true
		}
	}
	return false
}
