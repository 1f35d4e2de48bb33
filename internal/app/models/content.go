package models

// Blog is an article at /blogs/{id}. Tags are a comma separated string.
type Blog struct {
	ID            string  `json:"id"`
	Title         string  `json:"title"`
	Content       string  `json:"content"`
	Author        string  `json:"author"`
	AuthorRole    string  `json:"authorRole"`
	Category      string  `json:"category"`
	Tags          string  `json:"tags"`
	Status        string  `json:"status"`
	Excerpt       string  `json:"excerpt"`
	FeaturedImage string  `json:"featuredImage"`
	ReadTime      FlexInt `json:"readTime"`
	WordCount     FlexInt `json:"wordCount"`
	Views         FlexInt `json:"views"`
	CreatedAt     string  `json:"createdAt"`
	UpdatedAt     string  `json:"updatedAt"`
}

// Stream is an academic programme at /streams/{id}
type Stream struct {
	ID             string     `json:"id"`
	Name           string     `json:"name"`
	Code           string     `json:"code"`
	Description    string     `json:"description"`
	Duration       FlexString `json:"duration"`
	TotalSemesters FlexString `json:"totalSemesters"`
	Category       string     `json:"category"`
	CreatedAt      string     `json:"createdAt"`
	UpdatedAt      string     `json:"updatedAt"`
}

// Subject is a course at /streamSubjects/{streamId}/semester{n}/{id}
type Subject struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Code        string     `json:"code"`
	Credits     FlexString `json:"credits"`
	Type        string     `json:"type"`
	Description string     `json:"description"`
	Semester    FlexInt    `json:"semester"`
	StreamID    string     `json:"streamId"`
	CreatedAt   string     `json:"createdAt"`
	UpdatedAt   string     `json:"updatedAt"`
}

// SemesterSlot is one semester of a stream with its subjects
type SemesterSlot struct {
	Semester int        `json:"semester"`
	Subjects []*Subject `json:"subjects"`
}

// Curriculum is a curriculum draft at /curriculumDetails/{referenceId}/{id}
type Curriculum struct {
	ID          string     `json:"id"`
	ReferenceID string     `json:"referenceId,omitempty"`
	Title       string     `json:"title"`
	Code        string     `json:"code"`
	Description string     `json:"description"`
	Department  string     `json:"department"`
	Semester    FlexString `json:"semester"`
	Credits     FlexString `json:"credits"`
	Objectives  string     `json:"objectives"`
	Outcomes    string     `json:"outcomes"`
	Syllabus    string     `json:"syllabus"`
	Duration    FlexString `json:"duration"`
	Tag         string     `json:"tag"`
	Level       string     `json:"level"`
	Status      string     `json:"status"`
	CreatedBy   string     `json:"createdBy"`
	UpdatedBy   string     `json:"updatedBy"`
	CreatedAt   string     `json:"createdAt"`
	UpdatedAt   string     `json:"updatedAt"`
}

// Vote choices on a curriculum
const (
	VoteApprove = "approve"
	VoteReject  = "reject"
)

// Vote is a teacher vote at /curriculumVotes/{curriculumId}/{choice}/{email}
type Vote struct {
	Timestamp    string `json:"timestamp"`
	TeacherName  string `json:"teacherName"`
	TeacherEmail string `json:"teacherEmail"`
}

// VoteTally summarizes the votes on a curriculum
type VoteTally struct {
	CurriculumID string  `json:"curriculumId"`
	Approve      []*Vote `json:"approve"`
	Reject       []*Vote `json:"reject"`
}

// CalendarEvent is a planning event at /calendarEvents/{id}
type CalendarEvent struct {
	ID                 string   `json:"id"`
	Title              string   `json:"title"`
	Description        string   `json:"description"`
	Date               string   `json:"date"`
	StartTime          string   `json:"startTime"`
	EndTime            string   `json:"endTime"`
	Type               string   `json:"type"`
	CurriculumID       string   `json:"curriculumId"`
	Tasks              []string `json:"tasks"`
	GoogleMeetLink     string   `json:"googleMeetLink"`
	GoogleCalendarLink string   `json:"googleCalendarLink"`
	CreatedBy          string   `json:"createdBy"`
	CreatedAt          string   `json:"createdAt"`
	UpdatedAt          string   `json:"updatedAt"`
}
