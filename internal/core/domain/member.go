package domain

import "errors"

const (
	RoleAdmin  = "admin"
	RoleMember = "member"
)

var ErrInvalidCredentials = errors.New("invalid credentials")
var ErrNotAuthenticated = errors.New("not authenticated")
var ErrForbidden = errors.New("access forbidden")
var ErrSessionNotFound = errors.New("session not found")
var ErrSessionExpired = errors.New("session expired")

// Member is the registry's member record. The remote registry API owns its
// canonical lifecycle; the gateway passes it through and reads the handful of
// fields it needs for role gating and dashboard statistics.
type Member struct {
	ID                string `json:"_id,omitempty"`
	Name              string `json:"name"`
	NameAmharic       string `json:"nameAmharic,omitempty"`
	FatherName        string `json:"fatherName,omitempty"`
	FatherNameAmharic string `json:"fatherNameAmharic,omitempty"`
	GrandfatherName   string `json:"grandfatherName,omitempty"`
	IDNumber          string `json:"idNumber,omitempty"`
	Username          string `json:"username,omitempty"`
	Email             string `json:"email,omitempty"`
	PhoneNumber       string `json:"phoneNumber,omitempty"`
	Sex               string `json:"sex,omitempty"`
	Age               int    `json:"age,omitempty"`
	Role              string `json:"role,omitempty"`
	IsActive          *bool  `json:"isActive,omitempty"`
	IsAlive           *bool  `json:"isAlive,omitempty"`
	ServiceArea       string `json:"serviceArea,omitempty"`
	SalvationDate     string `json:"salvationDate,omitempty"`
	SalvationPlace    string `json:"salvationPlace,omitempty"`
	BaptismDateEC     string `json:"baptismDateEC,omitempty"`
	BaptizedBy        string `json:"baptizedBy,omitempty"`
	EducationLevel    string `json:"educationLevel,omitempty"`
	EmploymentStatus  string `json:"employmentStatus,omitempty"`
	Organization      string `json:"organization,omitempty"`
	ProfilePic        string `json:"profilePic,omitempty"`
	Testimony         string `json:"testimony,omitempty"`
}

// IsAdmin reports whether the member may use the admin surface.
// A nil member is simply not an admin.
func (m *Member) IsAdmin() bool {
	return m != nil && m.Role == RoleAdmin
}

// Active treats a missing isActive flag as active, matching the registry's
// default for records created before the flag existed.
func (m *Member) Active() bool {
	return m.IsActive == nil || *m.IsActive
}

// DashboardStats summarises the member list for the admin dashboard.
type DashboardStats struct {
	TotalMembers  int            `json:"totalMembers"`
	ActiveMembers int            `json:"activeMembers"`
	Admins        int            `json:"admins"`
	BySex         map[string]int `json:"bySex"`
	ByServiceArea map[string]int `json:"byServiceArea"`
}

// ComputeDashboardStats folds the full member list into dashboard counters.
func ComputeDashboardStats(members []Member) *DashboardStats {
	stats := &DashboardStats{
		BySex:         make(map[string]int),
		ByServiceArea: make(map[string]int),
	}
	for i := range members {
		m := &members[i]
		stats.TotalMembers++
		if m.Active() {
			stats.ActiveMembers++
		}
		if m.IsAdmin() {
			stats.Admins++
		}
		if m.Sex != "" {
			stats.BySex[m.Sex]++
		}
		if m.ServiceArea != "" {
			stats.ByServiceArea[m.ServiceArea]++
		}
	}
	return stats
}
