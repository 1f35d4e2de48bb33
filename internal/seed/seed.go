package seed

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	appModels "github.com/yigit/eduportal/internal/app/models"
	appRepos "github.com/yigit/eduportal/internal/app/repositories"
	"github.com/yigit/eduportal/internal/config"
	"github.com/yigit/eduportal/internal/pkg/credentials"
)

// AccountEnsurer creates a credential account when it does not exist yet
type AccountEnsurer interface {
	EnsureAccount(ctx context.Context, email, password string) (bool, error)
}

var _ AccountEnsurer = (*credentials.LocalProvider)(nil)

var defaultUniversities = []appModels.University{
	{FullName: "Indian Institute of Technology Bombay", InitialName: "IITB", Location: "Mumbai", Website: "https://www.iitb.ac.in"},
	{FullName: "Indian Institute of Science", InitialName: "IISc", Location: "Bengaluru", Website: "https://iisc.ac.in"},
	{FullName: "University of Delhi", InitialName: "DU", Location: "New Delhi", Website: "https://www.du.ac.in"},
}

var defaultStreams = []appModels.Stream{
	{Name: "Bachelor of Technology", Code: "BTECH", Category: "Engineering", Duration: "4 years", TotalSemesters: "8"},
	{Name: "Bachelor of Computer Applications", Code: "BCA", Category: "Computer Science", Duration: "3 years", TotalSemesters: "6"},
}

// CreateAdminAccounts makes sure every configured administrator email can
// sign in with the seed password. Nothing happens when no seed password is set.
func CreateAdminAccounts(ctx context.Context, cfg *config.Config, provider AccountEnsurer, lgr zerolog.Logger) error {
	if cfg.Admin.SeedPassword == "" {
		lgr.Info().Msg("No admin seed password configured, skipping admin accounts")
		return nil
	}

	var finalErr error
	for _, email := range cfg.Admin.Emails {
		created, err := provider.EnsureAccount(ctx, email, cfg.Admin.SeedPassword)
		if err != nil {
			lgr.Error().Err(err).Str("email", email).Msg("Error creating admin account")
			finalErr = errors.Join(finalErr, err)
			continue
		}
		if created {
			lgr.Info().Str("email", email).Msg("Admin account created")
		}
	}
	return finalErr
}

// CreateDefaultData fills the read-only university listing and a starter set
// of streams when those collections are empty.
func CreateDefaultData(ctx context.Context, repos *appRepos.Repositories, lgr zerolog.Logger) error {
	lgr.Info().Msg("Checking/Creating default data (Universities/Streams)...")
	var finalErr error

	universities, err := repos.Universities.List(ctx)
	if err != nil {
		finalErr = errors.Join(finalErr, err)
	} else if len(universities) == 0 {
		for i := range defaultUniversities {
			u := defaultUniversities[i]
			if _, err := repos.Universities.Create(ctx, &u); err != nil {
				lgr.Error().Err(err).Str("university", u.InitialName).Msg("Error creating university")
				finalErr = errors.Join(finalErr, err)
			}
		}
	}

	streams, err := repos.Streams.List(ctx)
	if err != nil {
		finalErr = errors.Join(finalErr, err)
	} else if len(streams) == 0 {
		for i := range defaultStreams {
			s := defaultStreams[i]
			if _, err := repos.Streams.Create(ctx, &s); err != nil {
				lgr.Error().Err(err).Str("stream", s.Code).Msg("Error creating stream")
				finalErr = errors.Join(finalErr, err)
			}
		}
	}

	if finalErr != nil {
		lgr.Warn().Err(finalErr).Msg("Default data creation finished with errors")
	} else {
		lgr.Info().Msg("Default data check/creation finished.")
	}
	return finalErr
}
