package dto

// VoteRequest is a teacher review of a curriculum
type VoteRequest struct {
	Vote string `json:"vote" binding:"required,oneof=approve reject" example:"approve"`
}

// BlogStatusRequest changes the publication status of a blog
type BlogStatusRequest struct {
	Status string `json:"status" binding:"required" example:"published"`
}

// TeacherProfileRequest is the teacher profile form
type TeacherProfileRequest struct {
	Name           string `json:"name" example:"Dr. Jane Doe"`
	Position       string `json:"position" example:"Associate Professor"`
	Department     string `json:"department"`
	Institution    string `json:"institution"`
	Phone          string `json:"phone"`
	Experience     string `json:"experience"`
	Specialization string `json:"specialization"`
	Bio            string `json:"bio"`
}

// RegistrationResponse reports a seminar registration
type RegistrationResponse struct {
	SeminarID       string `json:"seminarId"`
	Registrations   int    `json:"registrations"`
	MaxParticipants int    `json:"maxParticipants"`
}
