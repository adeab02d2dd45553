package model

import (
	"strconv"
	"strings"
)

// ProfileRecord is one parsed candidate profile as returned by the intake
// service. Field names follow the service wire contract (snake_case).
type ProfileRecord struct {
	ProfileID int    `json:"profile_id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	MobileNo  string `json:"mobile_no"`
	Sector    string `json:"sector"`
	Subsector string `json:"subsector"`
	Location  string `json:"location"`

	// Experience is a string-encoded non-negative integer ("" means 0 years).
	Experience string `json:"experience"`

	CurrentSalary  *string `json:"current_salary"`
	ExpectedSalary *string `json:"expected_salary"`

	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`

	// Cloudfront is the externally hosted document URL; Filename is the
	// original upload name.
	Cloudfront string `json:"cloudfront"`
	Filename   string `json:"filename"`
}

// ExperienceYears parses the string-encoded experience field. Empty or
// unparsable values mean "0 years".
func (p ProfileRecord) ExperienceYears() int {
	s := strings.TrimSpace(p.Experience)
	if s == "" {
		return 0
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// TrackedFields lists the profile fields an inline edit may change, in the
// order edit forms present them.
var TrackedFields = []string{
	"name",
	"email",
	"mobile_no",
	"sector",
	"subsector",
	"location",
	"experience",
	"current_salary",
	"expected_salary",
}

// FieldValue returns the string form of a tracked field. Nullable salary
// fields read as "" when unset.
func (p ProfileRecord) FieldValue(name string) string {
	switch name {
	case "name":
		return p.Name
	case "email":
		return p.Email
	case "mobile_no":
		return p.MobileNo
	case "sector":
		return p.Sector
	case "subsector":
		return p.Subsector
	case "location":
		return p.Location
	case "experience":
		return p.Experience
	case "current_salary":
		return strDeref(p.CurrentSalary)
	case "expected_salary":
		return strDeref(p.ExpectedSalary)
	}
	return ""
}

// SetFieldValue writes the string form of a tracked field. An empty value on
// a nullable salary field stores nil (the service treats "" and null alike).
func (p *ProfileRecord) SetFieldValue(name, value string) {
	switch name {
	case "name":
		p.Name = value
	case "email":
		p.Email = value
	case "mobile_no":
		p.MobileNo = value
	case "sector":
		p.Sector = value
	case "subsector":
		p.Subsector = value
	case "location":
		p.Location = value
	case "experience":
		p.Experience = value
	case "current_salary":
		p.CurrentSalary = strPtrOrNil(value)
	case "expected_salary":
		p.ExpectedSalary = strPtrOrNil(value)
	}
}

func strDeref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func strPtrOrNil(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// FilterCriteria are the optional equality filters plus the free-text search
// token. Empty fields are "unset" and must be omitted from request bodies,
// never sent as "".
type FilterCriteria struct {
	Sector     string `json:"sector,omitempty"`
	Subsector  string `json:"subsector,omitempty"`
	Location   string `json:"location,omitempty"`
	Experience string `json:"experience,omitempty"`
	Search     string `json:"search,omitempty"`
}

// IsZero reports whether no filter field and no search token is set.
func (c FilterCriteria) IsZero() bool {
	return c.Sector == "" && c.Subsector == "" && c.Location == "" &&
		c.Experience == "" && strings.TrimSpace(c.Search) == ""
}

// FilterVocabulary is the server-reported set of legal values per filterable
// field. Read-only on the client.
type FilterVocabulary struct {
	Sector     []string `json:"sector"`
	Subsector  []string `json:"subsector"`
	Location   []string `json:"location"`
	Experience []string `json:"experience"`
}
