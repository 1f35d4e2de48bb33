package models

// Industry is an industry partner account at /industries/{id}
type Industry struct {
	ID           string `json:"id"`
	CompanyName  string `json:"companyName"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	IndustryType string `json:"industryType"`
	Location     string `json:"location"`
	Website      string `json:"website"`
	Description  string `json:"description"`
	CompanyID    string `json:"companyId"`
	Password     string `json:"password,omitempty"`
	Status       string `json:"status"`
	CreatedAt    string `json:"createdAt"`
	UpdatedAt    string `json:"updatedAt"`
}

// CurriculumDeveloper is a developer account at /curriculum-developers/{id}
type CurriculumDeveloper struct {
	ID             string     `json:"id"`
	FullName       string     `json:"fullName"`
	Email          string     `json:"email"`
	Phone          string     `json:"phone"`
	Institution    string     `json:"institution"`
	Department     string     `json:"department"`
	Specialization string     `json:"specialization"`
	Experience     FlexString `json:"experience"`
	DeveloperID    string     `json:"developerId"`
	Password       string     `json:"password,omitempty"`
	Status         string     `json:"status"`
	CreatedAt      string     `json:"createdAt"`
	UpdatedAt      string     `json:"updatedAt"`
}

// DomainExpert is an expert listing at /domainExperts/{id}
type DomainExpert struct {
	ID             string     `json:"id"`
	Name           string     `json:"name"`
	Email          string     `json:"email"`
	Phone          string     `json:"phone"`
	Specialization string     `json:"specialization"`
	Domain         string     `json:"domain"`
	Experience     FlexString `json:"experience"`
	Qualification  string     `json:"qualification"`
	Organization   string     `json:"organization"`
	Designation    string     `json:"designation"`
	Bio            string     `json:"bio"`
	Status         string     `json:"status"`
	CreatedAt      string     `json:"createdAt"`
	UpdatedAt      string     `json:"updatedAt"`
}

// University is a read-only listing at /universities/{id}
type University struct {
	ID          string `json:"id"`
	FullName    string `json:"fullName"`
	InitialName string `json:"initialName"`
	Location    string `json:"location"`
	Website     string `json:"website"`
	Description string `json:"description"`
}

// Public returns a copy without the stored password
func (i *Industry) Public() *Industry {
	out := *i
	out.Password = ""
	return &out
}

// Public returns a copy without the stored password
func (d *CurriculumDeveloper) Public() *CurriculumDeveloper {
	out := *d
	out.Password = ""
	return &out
}
