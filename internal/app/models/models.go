package models

import "strings"

// RoleType defines the portal role of a session
type RoleType string

const (
	RoleStudent             RoleType = "student"
	RoleTeacher             RoleType = "teacher"
	RoleCurriculumDeveloper RoleType = "curriculum-developer"
	RoleIndustry            RoleType = "industry"
	RoleAdmin               RoleType = "admin"
)

// RoleSelection is the sentinel that returns a session to the role picker
const RoleSelection = "role-selection"

// PortalRoles are the roles that sign in through the role authentication flow
var PortalRoles = []RoleType{RoleStudent, RoleTeacher, RoleCurriculumDeveloper, RoleIndustry}

// ParseRole parses a role name, case-insensitively
func ParseRole(s string) (RoleType, bool) {
	r := RoleType(strings.ToLower(strings.TrimSpace(s)))
	switch r {
	case RoleStudent, RoleTeacher, RoleCurriculumDeveloper, RoleIndustry, RoleAdmin:
		return r, true
	}
	return "", false
}

// IsPortal reports whether r is one of the four portal roles
func (r RoleType) IsPortal() bool {
	for _, p := range PortalRoles {
		if p == r {
			return true
		}
	}
	return false
}

// Label is the human readable role name
func (r RoleType) Label() string {
	switch r {
	case RoleStudent:
		return "Student"
	case RoleTeacher:
		return "Teacher"
	case RoleCurriculumDeveloper:
		return "Curriculum Developer"
	case RoleIndustry:
		return "Industry"
	case RoleAdmin:
		return "Admin"
	}
	return string(r)
}

// Record status values
const (
	StatusActive    = "Active"
	StatusInactive  = "Inactive"
	StatusScheduled = "Scheduled"
	StatusDraft     = "draft"
	StatusPending   = "pending"
	StatusPublished = "published"
)

// StatusIs compares two status values ignoring case
func StatusIs(status, want string) bool {
	return strings.EqualFold(strings.TrimSpace(status), want)
}
