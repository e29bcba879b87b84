package ports

import (
	"context"

	"github.com/sunbun/assistant/pkg/domain"
)

// CustomerDirectory resolves verified identifiers to registry records.
type CustomerDirectory interface {
	// FindByIdentifier looks up a customer by the identifier they verified
	// with. Returns domain.ErrNotFound when the identifier has no record.
	FindByIdentifier(ctx context.Context, kind domain.IdentifierKind, value string) (domain.Customer, error)
}

// OTPVerifier checks one-time codes sent to an identifier.
type OTPVerifier interface {
	// Verify reports whether code matches the one issued for the identifier.
	Verify(ctx context.Context, kind domain.IdentifierKind, identifier, code string) (bool, error)
}

// SiteTelemetry exposes operational data for generation sites.
type SiteTelemetry interface {
	// Status returns the current operational snapshot for a site.
	// Returns domain.ErrNotFound for unknown sites.
	Status(ctx context.Context, siteID string) (domain.SiteStatus, error)

	// WeeklyMetrics returns recent telemetry samples for a site, oldest
	// first. An empty slice is a valid answer for a healthy site with no
	// recorded history.
	WeeklyMetrics(ctx context.Context, siteID string) ([]domain.MetricSample, error)
}

// ProposalCatalog stores past proposals and generates new ones.
type ProposalCatalog interface {
	// ByCustomer returns stored proposals for a customer, possibly empty.
	ByCustomer(ctx context.Context, customerID string) ([]domain.Proposal, error)

	// Generate builds proposal options from the collected intake.
	Generate(ctx context.Context, intake domain.SalesIntake) ([]domain.Proposal, error)
}

// AgentPresence reports whether a live agent is available for a department.
type AgentPresence interface {
	Online(ctx context.Context, dept domain.Department) (bool, error)
}
