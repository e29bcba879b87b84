package domain

// Customer is a registry record keyed by verified email or phone.
type Customer struct {
	ID           string `json:"id" yaml:"id"`
	Name         string `json:"name" yaml:"name"`
	Email        string `json:"email" yaml:"email"`
	Phone        string `json:"phone" yaml:"phone"`
	Location     string `json:"location" yaml:"location"`
	SiteID       string `json:"site_id" yaml:"site_id"`
	HasProposals bool   `json:"has_proposals" yaml:"has_proposals"`
}

// SiteStatus is the operational snapshot of one generation site.
type SiteStatus struct {
	SiteID    string `json:"site_id" yaml:"site_id"`
	IssueFlag bool   `json:"issue_flag" yaml:"issue_flag"`
	IssueText string `json:"issue_text" yaml:"issue_text"`
	// ActionText describes the remediation already underway, shown to the
	// visitor alongside the issue.
	ActionText string `json:"action_text" yaml:"action_text"`
}

// MetricSample is one week of telemetry for a site.
type MetricSample struct {
	SiteID        string  `json:"site_id" yaml:"site_id"`
	Week          string  `json:"week" yaml:"week"`
	ProductionKWh float64 `json:"production_kwh" yaml:"production_kwh"`
	CloudinessPct float64 `json:"cloudiness_percentage" yaml:"cloudiness_percentage"`
}

// Proposal is a stored or freshly generated sales proposal.
type Proposal struct {
	ID            string  `json:"id" yaml:"id"`
	CustomerID    string  `json:"customer_id,omitempty" yaml:"customer_id"`
	Name          string  `json:"name" yaml:"name"`
	Tier          Tier    `json:"tier" yaml:"tier"`
	Price         float64 `json:"approx_price" yaml:"approx_price"`
	YearlySavings float64 `json:"estimated_yearly_savings" yaml:"estimated_yearly_savings"`
	DateCreated   string  `json:"date_created,omitempty" yaml:"date_created"`
	Status        string  `json:"status,omitempty" yaml:"status"`
}

// Department names a human escalation target with live-agent presence.
type Department string

const (
	DepartmentService Department = "service"
	DepartmentSales   Department = "sales"
)
