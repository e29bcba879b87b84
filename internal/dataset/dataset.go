// Package dataset backs the assistant's data collaborator ports with a YAML
// fixture compiled into the binary. It stands in for the CRM, monitoring
// platform, and OTP delivery services in demos and tests; an override file
// can replace the embedded data at startup.
package dataset

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/sunbun/assistant/pkg/domain"
)

//go:embed data/dataset.yaml
var embedded []byte

type otpRecord struct {
	Identifier string `yaml:"identifier"`
	OTP        string `yaml:"otp"`
}

type agentRecord struct {
	Department string `yaml:"department"`
	Online     bool   `yaml:"online"`
}

type proposalTemplate struct {
	Name          string      `yaml:"name"`
	Tier          domain.Tier `yaml:"tier"`
	Price         float64     `yaml:"approx_price"`
	YearlySavings float64     `yaml:"estimated_yearly_savings"`
}

type document struct {
	Customers []domain.Customer     `yaml:"customers"`
	Sites     []domain.SiteStatus   `yaml:"sites"`
	Metrics   []domain.MetricSample `yaml:"weekly_metrics"`
	EmailOTPs []otpRecord           `yaml:"email_otps"`
	SMSOTPs   []otpRecord           `yaml:"sms_otps"`
	Proposals []domain.Proposal     `yaml:"proposals"`
	Templates []proposalTemplate    `yaml:"proposal_templates"`
	Agents    []agentRecord         `yaml:"agents"`
}

// Provider implements the CustomerDirectory, OTPVerifier, SiteTelemetry,
// ProposalCatalog, and AgentPresence ports from a loaded fixture document.
type Provider struct {
	doc document
}

// Load parses the embedded fixture.
func Load() (*Provider, error) {
	return parse(embedded)
}

// LoadFile parses a fixture from disk, for deployments that want their own
// demo data without rebuilding.
func LoadFile(path string) (*Provider, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read dataset: %w", err)
	}
	return parse(raw)
}

func parse(raw []byte) (*Provider, error) {
	var doc document
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse dataset: %w", err)
	}
	return &Provider{doc: doc}, nil
}

// FindByIdentifier resolves a customer by verified email or phone.
func (p *Provider) FindByIdentifier(ctx context.Context, kind domain.IdentifierKind, value string) (domain.Customer, error) {
	for _, c := range p.doc.Customers {
		if kind == domain.IdentifierEmail && strings.EqualFold(c.Email, value) {
			return c, nil
		}
		if kind == domain.IdentifierPhone && c.Phone == value {
			return c, nil
		}
	}
	return domain.Customer{}, domain.ErrNotFound
}

// Verify checks a one-time code against the table for the channel.
func (p *Provider) Verify(ctx context.Context, kind domain.IdentifierKind, identifier, code string) (bool, error) {
	table := p.doc.EmailOTPs
	if kind == domain.IdentifierPhone {
		table = p.doc.SMSOTPs
	}
	for _, rec := range table {
		if strings.EqualFold(rec.Identifier, identifier) && rec.OTP == code {
			return true, nil
		}
	}
	return false, nil
}

// Status returns the operational snapshot of a site.
func (p *Provider) Status(ctx context.Context, siteID string) (domain.SiteStatus, error) {
	for _, s := range p.doc.Sites {
		if s.SiteID == siteID {
			return s, nil
		}
	}
	return domain.SiteStatus{}, domain.ErrNotFound
}

// WeeklyMetrics returns telemetry samples for a site, oldest first.
func (p *Provider) WeeklyMetrics(ctx context.Context, siteID string) ([]domain.MetricSample, error) {
	var out []domain.MetricSample
	for _, m := range p.doc.Metrics {
		if m.SiteID == siteID {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Week < out[j].Week })
	return out, nil
}

// ByCustomer returns stored proposals for a customer.
func (p *Provider) ByCustomer(ctx context.Context, customerID string) ([]domain.Proposal, error) {
	var out []domain.Proposal
	for _, pr := range p.doc.Proposals {
		if pr.CustomerID == customerID {
			out = append(out, pr)
		}
	}
	return out, nil
}

// Generate builds proposal options from templates matching the requested
// budget tier. Falls back to the full template set when the tier has no
// entries, and clamps the option count to the available templates.
func (p *Provider) Generate(ctx context.Context, intake domain.SalesIntake) ([]domain.Proposal, error) {
	tier := intake.BudgetTier
	if tier == "" {
		tier = domain.TierStandard
	}

	var pool []proposalTemplate
	for _, t := range p.doc.Templates {
		if t.Tier == tier {
			pool = append(pool, t)
		}
	}
	if len(pool) == 0 {
		pool = p.doc.Templates
	}

	count := intake.SolutionCount
	if count < 1 {
		count = 1
	}
	if count > len(pool) {
		count = len(pool)
	}

	out := make([]domain.Proposal, 0, count)
	for i, t := range pool[:count] {
		out = append(out, domain.Proposal{
			ID:            fmt.Sprintf("PROP-OPT-%d", i+1),
			Name:          t.Name,
			Tier:          t.Tier,
			Price:         t.Price,
			YearlySavings: t.YearlySavings,
			Status:        "Draft",
		})
	}
	return out, nil
}

// Online reports live-agent presence for a department.
func (p *Provider) Online(ctx context.Context, dept domain.Department) (bool, error) {
	for _, a := range p.doc.Agents {
		if strings.EqualFold(a.Department, string(dept)) {
			return a.Online, nil
		}
	}
	return false, nil
}
