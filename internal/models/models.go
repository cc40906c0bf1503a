package models

import "time"

type CheckStatus string

const (
	CheckSuccess CheckStatus = "success"
	CheckFailure CheckStatus = "failure"
)

type IncidentStatus string

const (
	IncidentOpen     IncidentStatus = "open"
	IncidentResolved IncidentStatus = "resolved"
)

type ContactType string

const (
	ContactEmail ContactType = "email"
	ContactSlack ContactType = "slack"
	ContactSMS   ContactType = "sms"
)

// SiteStatus is the aggregate health of a site over a list of checks.
type SiteStatus string

const (
	SiteUp                SiteStatus = "up"
	SiteTransientFailures SiteStatus = "transient_failures"
	SiteFailures          SiteStatus = "failures"
)

type Site struct {
	ID        string    `json:"id" example:"5f1c2d7e-8a4b-4c3d-9e2f-1a2b3c4d5e6f"`
	Name      string    `json:"name" example:"Marketing site"`
	URL       string    `json:"url" example:"https://example.com"`
	Position  int       `json:"position" example:"0"`
	CreatedAt time.Time `json:"created_at"`
}

// Check is one immutable probe result. StatusCode and Error are nil when absent.
type Check struct {
	ID         string      `json:"id"`
	SiteID     string      `json:"site_id"`
	Status     CheckStatus `json:"status" example:"failure"`
	StatusCode *int        `json:"status_code" example:"503"`
	Error      *string     `json:"error" example:"HTTP 503"`
	DurationMS int         `json:"duration_ms" example:"150"`
	CheckedAt  time.Time   `json:"checked_at"`
}

type Incident struct {
	ID         string         `json:"id"`
	SiteID     string         `json:"site_id"`
	CheckID    string         `json:"check_id"`
	Status     IncidentStatus `json:"status" example:"open"`
	OpenedAt   time.Time      `json:"opened_at"`
	ResolvedAt *time.Time     `json:"resolved_at"`
}

// Contact is an alert destination. Address is an email address, a Slack
// webhook URL or an E.164 phone number depending on Type.
type Contact struct {
	ID        string      `json:"id"`
	Type      ContactType `json:"type" example:"email"`
	Address   string      `json:"address" example:"oncall@example.com"`
	Label     string      `json:"label,omitempty" example:"On-call"`
	CreatedAt time.Time   `json:"created_at"`
}

type CycleSummary struct {
	Sites     int `json:"sites" example:"12"`
	Checks    int `json:"checks" example:"12"`
	Incidents int `json:"incidents" example:"1"`
	Skipped   int `json:"skipped" example:"0"`
}

type SiteWithStatus struct {
	Site
	Status    SiteStatus `json:"status" example:"up"`
	LastCheck *Check     `json:"last_check,omitempty"`
}

func IntPtr(v int) *int { return &v }

func StringPtr(v string) *string { return &v }
