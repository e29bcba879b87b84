package domain

// Patch is the only way nodes mutate a session. Nil pointer fields leave the
// corresponding slot untouched; set fields overwrite. Messages are appended,
// never rewritten. Applying the same patch to the resulting state is a no-op
// for every field except the message append, which nodes guard with step
// markers.
type Patch struct {
	SupportType *SupportType
	Greeted     *bool
	Closed      *bool
	Note        *string

	Messages []Message

	Auth     *AuthPatch
	Registry *RegistryPatch
	Service  *ServicePatch
	Sales    *SalesPatch

	// AwaitInput pauses the engine after this patch is applied. The run ends
	// and the thread waits for the next human message.
	AwaitInput bool
}

// AuthPatch overwrites authentication slots.
type AuthPatch struct {
	Step          *AuthStep
	Verified      *bool
	Kind          *IdentifierKind
	Identifier    *string
	OTPRetries    *int
	FailureChoice *FailureChoice
}

// RegistryPatch overwrites customer-directory slots.
type RegistryPatch struct {
	Found         *bool
	CustomerID    *string
	CustomerName  *string
	Location      *string
	SiteID        *string
	HasProposals  *bool
	LookupRetries *int
	RetryChoice   *LookupChoice
}

// ServicePatch overwrites service-triage slots.
type ServicePatch struct {
	Step        *ServiceStep
	IssueFlag   *bool
	IssueText   *string
	ActionText  *string
	Metrics     []MetricSample
	Category    *string
	Description *string
	TicketID    *string
	Resolution  *Resolution
	AgentOnline *bool
	Channel     *ServiceChannel

	SystemSize       *string
	InverterModel    *string
	InstallYear      *string
	MonitoringActive *bool
	Installer        *string
}

// SalesPatch overwrites sales-flow slots.
type SalesPatch struct {
	Step               *SalesStep
	ReviewChoice       *ReviewChoice
	ReviewResult       *ReviewResult
	Proposals          []Proposal
	ChosenProposalID   *string
	ChosenProposalName *string
	AgentOnline        *bool
	Handoff            *HandoffKind

	Name                *string
	ContactComplement   *string
	PostalCode          *string
	Segment             *Segment
	MonthlyBill         *string
	ConsumptionIncrease *string
	SolutionCount       *int
	BrandPreference     *string
	BudgetTier          *Tier
}

// IsZero reports whether applying the patch would change nothing.
func (p Patch) IsZero() bool {
	return p.SupportType == nil && p.Greeted == nil && p.Closed == nil &&
		p.Note == nil && len(p.Messages) == 0 &&
		p.Auth == nil && p.Registry == nil && p.Service == nil && p.Sales == nil &&
		!p.AwaitInput
}

// Apply merges the patch into the state in place. Appended messages receive
// stable IDs derived from their final position in the history.
func (p Patch) Apply(s *State) {
	setStr := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	setBool := func(dst *bool, src *bool) {
		if src != nil {
			*dst = *src
		}
	}
	setBoolPtr := func(dst **bool, src *bool) {
		if src != nil {
			v := *src
			*dst = &v
		}
	}
	setInt := func(dst *int, src *int) {
		if src != nil {
			*dst = *src
		}
	}

	if p.SupportType != nil {
		s.SupportType = *p.SupportType
	}
	setBool(&s.Greeted, p.Greeted)
	setBool(&s.Closed, p.Closed)
	setStr(&s.Note, p.Note)

	if a := p.Auth; a != nil {
		if a.Step != nil {
			s.Auth.Step = *a.Step
		}
		setBool(&s.Auth.Verified, a.Verified)
		if a.Kind != nil {
			s.Auth.Kind = *a.Kind
		}
		setStr(&s.Auth.Identifier, a.Identifier)
		setInt(&s.Auth.OTPRetries, a.OTPRetries)
		if a.FailureChoice != nil {
			s.Auth.FailureChoice = *a.FailureChoice
		}
	}

	if r := p.Registry; r != nil {
		setBoolPtr(&s.Registry.Found, r.Found)
		setStr(&s.Registry.CustomerID, r.CustomerID)
		setStr(&s.Registry.CustomerName, r.CustomerName)
		setStr(&s.Registry.Location, r.Location)
		setStr(&s.Registry.SiteID, r.SiteID)
		setBool(&s.Registry.HasProposals, r.HasProposals)
		setInt(&s.Registry.LookupRetries, r.LookupRetries)
		if r.RetryChoice != nil {
			s.Registry.RetryChoice = *r.RetryChoice
		}
	}

	if v := p.Service; v != nil {
		if v.Step != nil {
			s.Service.Step = *v.Step
		}
		setBoolPtr(&s.Service.IssueFlag, v.IssueFlag)
		setStr(&s.Service.IssueText, v.IssueText)
		setStr(&s.Service.ActionText, v.ActionText)
		if v.Metrics != nil {
			s.Service.Metrics = v.Metrics
		}
		setStr(&s.Service.Category, v.Category)
		setStr(&s.Service.Description, v.Description)
		setStr(&s.Service.TicketID, v.TicketID)
		if v.Resolution != nil {
			s.Service.Resolution = *v.Resolution
		}
		setBoolPtr(&s.Service.AgentOnline, v.AgentOnline)
		if v.Channel != nil {
			s.Service.Channel = *v.Channel
		}
		setStr(&s.Service.Unregistered.SystemSize, v.SystemSize)
		setStr(&s.Service.Unregistered.InverterModel, v.InverterModel)
		setStr(&s.Service.Unregistered.InstallYear, v.InstallYear)
		setBoolPtr(&s.Service.Unregistered.MonitoringActive, v.MonitoringActive)
		setStr(&s.Service.Unregistered.Installer, v.Installer)
	}

	if sp := p.Sales; sp != nil {
		if sp.Step != nil {
			s.Sales.Step = *sp.Step
		}
		if sp.ReviewChoice != nil {
			s.Sales.ReviewChoice = *sp.ReviewChoice
		}
		if sp.ReviewResult != nil {
			s.Sales.ReviewResult = *sp.ReviewResult
		}
		if sp.Proposals != nil {
			s.Sales.Proposals = sp.Proposals
		}
		setStr(&s.Sales.ChosenProposalID, sp.ChosenProposalID)
		setStr(&s.Sales.ChosenProposalName, sp.ChosenProposalName)
		setBoolPtr(&s.Sales.AgentOnline, sp.AgentOnline)
		if sp.Handoff != nil {
			s.Sales.Handoff = *sp.Handoff
		}
		setStr(&s.Sales.Intake.Name, sp.Name)
		setStr(&s.Sales.Intake.ContactComplement, sp.ContactComplement)
		setStr(&s.Sales.Intake.PostalCode, sp.PostalCode)
		if sp.Segment != nil {
			s.Sales.Intake.Segment = *sp.Segment
		}
		setStr(&s.Sales.Intake.MonthlyBill, sp.MonthlyBill)
		setStr(&s.Sales.Intake.ConsumptionIncrease, sp.ConsumptionIncrease)
		setInt(&s.Sales.Intake.SolutionCount, sp.SolutionCount)
		setStr(&s.Sales.Intake.BrandPreference, sp.BrandPreference)
		if sp.BudgetTier != nil {
			s.Sales.Intake.BudgetTier = *sp.BudgetTier
		}
	}

	for _, m := range p.Messages {
		s.AppendMessage(m)
	}
}

// Ptr is a small helper for building patches from literals.
func Ptr[T any](v T) *T { return &v }
