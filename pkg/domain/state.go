package domain

// SupportType is the top-level branch chosen at the entry menu.
type SupportType string

const (
	SupportSales   SupportType = "sales"
	SupportService SupportType = "service"
)

// AuthStep tracks progress through the authentication subflow.
type AuthStep string

const (
	AuthStepIdentifier AuthStep = "identifier"
	AuthStepOTP        AuthStep = "otp"
	AuthStepVerified   AuthStep = "verified"
	AuthStepFailed     AuthStep = "failed"
)

// IdentifierKind is the channel the visitor authenticates with.
type IdentifierKind string

const (
	IdentifierEmail IdentifierKind = "email"
	IdentifierPhone IdentifierKind = "phone"
)

// FailureChoice is the visitor's decision at the auth-failed terminal.
type FailureChoice string

const (
	FailureRetry FailureChoice = "retry"
	FailureExit  FailureChoice = "exit"
)

// LookupChoice is the visitor's decision after a failed registry lookup.
type LookupChoice string

const (
	LookupTryAgain LookupChoice = "try_again"
	LookupContinue LookupChoice = "continue_anyway"
)

// Resolution is the happy/unhappy answer to the service status report.
type Resolution string

const (
	ResolutionHappy   Resolution = "happy"
	ResolutionUnhappy Resolution = "unhappy"
)

// ServiceChannel is the escalation channel for an open service issue.
type ServiceChannel string

const (
	ChannelLiveChat ServiceChannel = "live_chat"
	ChannelTicket   ServiceChannel = "ticket"
)

// ServiceStep marks which service prompt is currently outstanding. A step is
// written when its prompt is emitted and superseded by the next prompt; it is
// the single source of truth for "already asked".
type ServiceStep string

const (
	ServiceStepUnregSize       ServiceStep = "unreg_size"
	ServiceStepUnregInverter   ServiceStep = "unreg_inverter"
	ServiceStepUnregYear       ServiceStep = "unreg_year"
	ServiceStepUnregMonitoring ServiceStep = "unreg_monitoring"
	ServiceStepUnregInstaller  ServiceStep = "unreg_installer"
	ServiceStepResolution      ServiceStep = "resolution"
	ServiceStepCategory        ServiceStep = "category"
	ServiceStepDescription     ServiceStep = "description"
	ServiceStepChannel         ServiceStep = "channel"
	ServiceStepClosed          ServiceStep = "closed"
)

// SalesStep serializes the sales intake stages.
type SalesStep string

const (
	SalesStepGreeting       SalesStep = "greeting"
	SalesStepReview         SalesStep = "review"
	SalesStepReviewComplete SalesStep = "review_complete"
	SalesStepName           SalesStep = "name"
	SalesStepContact        SalesStep = "contact"
	SalesStepContext        SalesStep = "context"
	SalesStepSegment        SalesStep = "segment"
	SalesStepBill           SalesStep = "bill"
	SalesStepIncrease       SalesStep = "increase"
	SalesStepCount          SalesStep = "count"
	SalesStepBrands         SalesStep = "brands"
	SalesStepTier           SalesStep = "tier"
	SalesStepGenerating     SalesStep = "generating"
	SalesStepOptions        SalesStep = "options"
	SalesStepConfirm        SalesStep = "confirm"
	SalesStepHandoff        SalesStep = "handoff"
)

// ReviewChoice is the existing-customer branch decision.
type ReviewChoice string

const (
	ReviewOld ReviewChoice = "review_old"
	CreateNew ReviewChoice = "create_new"
)

// ReviewResult is the outcome of reviewing past proposals.
type ReviewResult string

const (
	ReviewSelect      ReviewResult = "select"
	ReviewGenerateNew ReviewResult = "generate_new"
)

// Segment classifies the sales customer.
type Segment string

const (
	SegmentResidential Segment = "Residential"
	SegmentCommercial  Segment = "Commercial"
	SegmentIndustrial  Segment = "Industrial"
)

// Tier is the proposal budget classification.
type Tier string

const (
	TierPremium  Tier = "Premium"
	TierStandard Tier = "Standard"
	TierBudget   Tier = "Budget"
)

// HandoffKind is how the visitor wants to reach the sales representative.
type HandoffKind string

const (
	HandoffCall HandoffKind = "call"
	HandoffChat HandoffKind = "chat"
)

// BrandNone is stored when the visitor declines a brand preference; it marks
// the brands stage as answered while leaving the preference empty.
const BrandNone = "none"

// AuthState holds the authentication slots.
type AuthState struct {
	Step          AuthStep       `json:"step,omitempty"`
	Verified      bool           `json:"verified"`
	Kind          IdentifierKind `json:"identifier_type,omitempty"`
	Identifier    string         `json:"identifier_value,omitempty"`
	OTPRetries    int            `json:"otp_retries"`
	FailureChoice FailureChoice  `json:"failure_choice,omitempty"`
}

// RegistryState holds the customer-directory slots. Found is tri-state: nil
// means no lookup has happened yet.
type RegistryState struct {
	Found         *bool        `json:"in_directory,omitempty"`
	CustomerID    string       `json:"customer_id,omitempty"`
	CustomerName  string       `json:"customer_name,omitempty"`
	Location      string       `json:"location,omitempty"`
	SiteID        string       `json:"site_id,omitempty"`
	HasProposals  bool         `json:"has_proposals"`
	LookupRetries int          `json:"lookup_retries"`
	RetryChoice   LookupChoice `json:"retry_choice,omitempty"`
}

// UnregisteredSystem collects setup details for systems outside the registry.
type UnregisteredSystem struct {
	SystemSize       string `json:"system_size,omitempty"`
	InverterModel    string `json:"inverter_model,omitempty"`
	InstallYear      string `json:"install_year,omitempty"`
	MonitoringActive *bool  `json:"monitoring_active,omitempty"`
	Installer        string `json:"installer,omitempty"`
}

// ServiceState holds the service-triage slots.
type ServiceState struct {
	Step         ServiceStep        `json:"step,omitempty"`
	IssueFlag    *bool              `json:"issue_flag,omitempty"`
	IssueText    string             `json:"issue_text,omitempty"`
	ActionText   string             `json:"action_text,omitempty"`
	Metrics      []MetricSample     `json:"metrics,omitempty"`
	Category     string             `json:"category,omitempty"`
	Description  string             `json:"description,omitempty"`
	TicketID     string             `json:"ticket_id,omitempty"`
	Resolution   Resolution         `json:"resolution,omitempty"`
	AgentOnline  *bool              `json:"agent_online,omitempty"`
	Channel      ServiceChannel     `json:"channel,omitempty"`
	Unregistered UnregisteredSystem `json:"unregistered"`
}

// SalesIntake holds the progressively collected proposal inputs.
type SalesIntake struct {
	Name                string  `json:"name,omitempty"`
	ContactComplement   string  `json:"contact_complement,omitempty"`
	PostalCode          string  `json:"postal_code,omitempty"`
	Segment             Segment `json:"segment,omitempty"`
	MonthlyBill         string  `json:"monthly_bill,omitempty"`
	ConsumptionIncrease string  `json:"consumption_increase,omitempty"`
	SolutionCount       int     `json:"solution_count,omitempty"`
	BrandPreference     string  `json:"brand_preference,omitempty"`
	BudgetTier          Tier    `json:"budget_tier,omitempty"`
}

// SalesState holds the sales-flow slots.
type SalesState struct {
	Step               SalesStep    `json:"step,omitempty"`
	ReviewChoice       ReviewChoice `json:"review_choice,omitempty"`
	ReviewResult       ReviewResult `json:"review_result,omitempty"`
	Proposals          []Proposal   `json:"proposals,omitempty"`
	ChosenProposalID   string       `json:"chosen_proposal_id,omitempty"`
	ChosenProposalName string       `json:"chosen_proposal_name,omitempty"`
	AgentOnline        *bool        `json:"agent_online,omitempty"`
	Handoff            HandoffKind  `json:"handoff,omitempty"`
	Intake             SalesIntake  `json:"intake"`
}

// State is the full session record for one conversation thread. Every slot
// starts unset and is written by exactly one node category; only the explicit
// reset node clears slots once set.
type State struct {
	ThreadID    string      `json:"thread_id"`
	SupportType SupportType `json:"support_type,omitempty"`
	Greeted     bool        `json:"greeted"`
	Closed      bool        `json:"closed"`

	Messages []Message `json:"messages"`

	Auth     AuthState     `json:"auth"`
	Registry RegistryState `json:"registry"`
	Service  ServiceState  `json:"service"`
	Sales    SalesState    `json:"sales"`

	// Note carries a non-fatal error marker (e.g. missing backing data).
	Note string `json:"note,omitempty"`
}

// NewState creates an empty session for a thread.
func NewState(threadID string) *State {
	return &State{
		ThreadID: threadID,
		Auth:     AuthState{Step: AuthStepIdentifier},
		Messages: []Message{},
	}
}

// LastMessage returns the most recent message, or nil for an empty history.
func (s *State) LastMessage() *Message {
	if len(s.Messages) == 0 {
		return nil
	}
	return &s.Messages[len(s.Messages)-1]
}

// LastHuman returns the content of the most recent message when it was sent
// by the visitor, and ok=false otherwise. Nodes use this to decide whether a
// fresh reply is available for capture.
func (s *State) LastHuman() (string, bool) {
	m := s.LastMessage()
	if m == nil || m.Role != RoleHuman {
		return "", false
	}
	return m.Content, true
}

// Clone returns a deep copy safe to hand across goroutine boundaries.
func (s *State) Clone() *State {
	out := *s
	out.Messages = make([]Message, len(s.Messages))
	copy(out.Messages, s.Messages)
	if s.Registry.Found != nil {
		v := *s.Registry.Found
		out.Registry.Found = &v
	}
	if s.Service.IssueFlag != nil {
		v := *s.Service.IssueFlag
		out.Service.IssueFlag = &v
	}
	if s.Service.AgentOnline != nil {
		v := *s.Service.AgentOnline
		out.Service.AgentOnline = &v
	}
	if s.Service.Unregistered.MonitoringActive != nil {
		v := *s.Service.Unregistered.MonitoringActive
		out.Service.Unregistered.MonitoringActive = &v
	}
	if s.Sales.AgentOnline != nil {
		v := *s.Sales.AgentOnline
		out.Sales.AgentOnline = &v
	}
	out.Service.Metrics = make([]MetricSample, len(s.Service.Metrics))
	copy(out.Service.Metrics, s.Service.Metrics)
	out.Sales.Proposals = make([]Proposal, len(s.Sales.Proposals))
	copy(out.Sales.Proposals, s.Sales.Proposals)
	return &out
}

// AppendMessage adds a message to the history, deriving a stable ID when the
// message carries none.
func (s *State) AppendMessage(m Message) {
	if m.ID == "" {
		m.ID = MessageID(m.Role, m.Content, len(s.Messages))
	}
	s.Messages = append(s.Messages, m)
}
