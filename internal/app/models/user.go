package models

// UserProfile is the profile record at /users/{uid} for provider backed roles
type UserProfile struct {
	UID            string     `json:"uid"`
	Email          string     `json:"email"`
	FullName       string     `json:"fullName"`
	Role           RoleType   `json:"role"`
	Institution    string     `json:"institution,omitempty"`
	Department     string     `json:"department,omitempty"`
	Phone          string     `json:"phone,omitempty"`
	StudentID      string     `json:"studentId,omitempty"`
	EmployeeID     string     `json:"employeeId,omitempty"`
	Designation    string     `json:"designation,omitempty"`
	Experience     FlexString `json:"experience,omitempty"`
	Specialization string     `json:"specialization,omitempty"`
	Bio            string     `json:"bio,omitempty"`
	Status         string     `json:"status,omitempty"`
	CreatedAt      string     `json:"createdAt,omitempty"`
	UpdatedAt      string     `json:"updatedAt,omitempty"`
}

// Identity is the authenticated principal of a session
type Identity struct {
	UID         string `json:"uid"`
	Email       string `json:"email,omitempty"`
	DisplayName string `json:"displayName,omitempty"`
	CompanyID   string `json:"companyId,omitempty"`
	DeveloperID string `json:"developerId,omitempty"`
}
