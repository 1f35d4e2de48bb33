package repositories

import (
	"github.com/rs/zerolog"
	"github.com/yigit/eduportal/internal/app/models"
	"github.com/yigit/eduportal/internal/pkg/docstore"
)

// Store paths of the portal collections
const (
	UsersPath                = "users"
	BlogsPath                = "blogs"
	IndustriesPath           = "industries"
	CurriculumDevelopersPath = "curriculum-developers"
	DomainExpertsPath        = "domainExperts"
	CurriculumDetailsPath    = "curriculumDetails"
	StreamsPath              = "streams"
	StreamSubjectsPath       = "streamSubjects"
	SeminarsPath             = "seminars"
	InternshipsPath          = "internships"
	HackathonsPath           = "hackathons"
	CalendarEventsPath       = "calendarEvents"
	CurriculumVotesPath      = "curriculumVotes"
	UniversitiesPath         = "universities"
)

// Repositories holds all the repository instances
type Repositories struct {
	Store                docstore.Store
	Users                *UserRepository
	Blogs                *Collection[models.Blog]
	Industries           *Collection[models.Industry]
	CurriculumDevelopers *Collection[models.CurriculumDeveloper]
	DomainExperts        *Collection[models.DomainExpert]
	Curricula            *Grouped[models.Curriculum]
	Streams              *Collection[models.Stream]
	Subjects             *SubjectRepository
	Seminars             *Collection[models.Seminar]
	Internships          *Collection[models.Internship]
	Hackathons           *Collection[models.Hackathon]
	CalendarEvents       *Collection[models.CalendarEvent]
	Votes                *VoteRepository
	Universities         *Collection[models.University]
}

// NewRepositories initializes all repositories
func NewRepositories(store docstore.Store, logger zerolog.Logger) *Repositories {
	return &Repositories{
		Store:                store,
		Users:                NewUserRepository(store, logger),
		Blogs:                NewCollection[models.Blog](store, BlogsPath, logger),
		Industries:           NewCollection[models.Industry](store, IndustriesPath, logger),
		CurriculumDevelopers: NewCollection[models.CurriculumDeveloper](store, CurriculumDevelopersPath, logger),
		DomainExperts:        NewCollection[models.DomainExpert](store, DomainExpertsPath, logger),
		Curricula:            NewGrouped[models.Curriculum](store, CurriculumDetailsPath, "referenceId", logger),
		Streams:              NewCollection[models.Stream](store, StreamsPath, logger),
		Subjects:             NewSubjectRepository(store, logger),
		Seminars:             NewCollection[models.Seminar](store, SeminarsPath, logger),
		Internships:          NewCollection[models.Internship](store, InternshipsPath, logger),
		Hackathons:           NewCollection[models.Hackathon](store, HackathonsPath, logger),
		CalendarEvents:       NewCollection[models.CalendarEvent](store, CalendarEventsPath, logger),
		Votes:                NewVoteRepository(store, logger),
		Universities:         NewCollection[models.University](store, UniversitiesPath, logger),
	}
}
