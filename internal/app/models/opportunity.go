package models

// Seminar is a teacher hosted session at /seminars/{id}
type Seminar struct {
	ID              string     `json:"id"`
	Title           string     `json:"title"`
	Description     string     `json:"description"`
	Date            string     `json:"date"`
	Time            string     `json:"time"`
	Duration        FlexString `json:"duration"`
	MeetLink        string     `json:"meetLink"`
	Topic           string     `json:"topic"`
	Objective       string     `json:"objective"`
	Tags            string     `json:"tags"`
	MaxParticipants FlexInt    `json:"maxParticipants"`
	Registrations   FlexInt    `json:"registrations"`
	TeacherName     string     `json:"teacherName"`
	TeacherEmail    string     `json:"teacherEmail"`
	Status          string     `json:"status"`
	CreatedAt       string     `json:"createdAt"`
	UpdatedAt       string     `json:"updatedAt"`
}

// IsFull reports whether no registration slot is left. A seminar without
// a positive maxParticipants has no capacity limit.
func (s *Seminar) IsFull() bool {
	return s.MaxParticipants > 0 && s.Registrations >= s.MaxParticipants
}

// Internship is an industry posting at /internships/{id}
type Internship struct {
	ID                 string     `json:"id"`
	Title              string     `json:"title"`
	Description        string     `json:"description"`
	Requirements       string     `json:"requirements"`
	Duration           FlexString `json:"duration"`
	Stipend            FlexString `json:"stipend"`
	Location           string     `json:"location"`
	Collaboration      bool       `json:"collaboration"`
	UniversityPartners []string   `json:"universityPartners"`
	CompanyID          string     `json:"companyId"`
	CompanyName        string     `json:"companyName"`
	Status             string     `json:"status"`
	CreatedAt          string     `json:"createdAt"`
	UpdatedAt          string     `json:"updatedAt"`
}

// Hackathon is an industry challenge at /hackathons/{id}
type Hackathon struct {
	ID               string     `json:"id"`
	Title            string     `json:"title"`
	Description      string     `json:"description"`
	ProblemStatement string     `json:"problemStatement"`
	StartDate        string     `json:"startDate"`
	EndDate          string     `json:"endDate"`
	MaxTeams         FlexString `json:"maxTeams"`
	TeamSize         FlexString `json:"teamSize"`
	Prizes           string     `json:"prizes"`
	Instructions     string     `json:"instructions"`
	CompanyID        string     `json:"companyId"`
	CompanyName      string     `json:"companyName"`
	Status           string     `json:"status"`
	CreatedAt        string     `json:"createdAt"`
	UpdatedAt        string     `json:"updatedAt"`
}
