package flow

import (
	"context"
	"errors"
	"fmt"

	"github.com/sunbun/assistant/pkg/domain"
	"github.com/sunbun/assistant/pkg/graph"
)

// lookupNode resolves the verified identifier against the customer registry.
// The first miss offers a retry for service visitors; the second miss moves
// on to the unregistered-system path.
func lookupNode(deps Deps) graph.Node {
	return func(ctx context.Context, s *domain.State) (domain.Patch, error) {
		customer, err := deps.Directory.FindByIdentifier(ctx, s.Auth.Kind, s.Auth.Identifier)
		if err == nil {
			return domain.Patch{
				Registry: &domain.RegistryPatch{
					Found:        domain.Ptr(true),
					CustomerID:   domain.Ptr(customer.ID),
					CustomerName: domain.Ptr(customer.Name),
					Location:     domain.Ptr(customer.Location),
					SiteID:       domain.Ptr(customer.SiteID),
					HasProposals: domain.Ptr(customer.HasProposals),
				},
				Messages: []domain.Message{
					domain.NewAssistant(fmt.Sprintf("Hi %s from %s, welcome back to SunBun.", customer.Name, customer.Location)),
				},
			}, nil
		}
		if !errors.Is(err, domain.ErrNotFound) {
			return domain.Patch{}, err
		}
		deps.Logger.Debug("Registry miss",
			"thread_id", s.ThreadID,
			"kind", s.Auth.Kind,
			"retries", s.Registry.LookupRetries,
		)

		// Sales visitors skip the retry question; the sales greeting explains
		// the situation and moves straight into intake.
		if s.SupportType == domain.SupportSales {
			return domain.Patch{
				Registry: &domain.RegistryPatch{
					Found:         domain.Ptr(false),
					LookupRetries: domain.Ptr(s.Registry.LookupRetries + 1),
				},
			}, nil
		}

		if s.Registry.LookupRetries == 0 {
			return domain.Patch{
				Registry: &domain.RegistryPatch{
					Found:         domain.Ptr(false),
					LookupRetries: domain.Ptr(1),
				},
				Messages: []domain.Message{
					domain.NewAssistant("We couldn't find a system in our records matching this email/phone."),
					domain.NewAssistant("If you are an existing SunBun customer, please make sure you're using the same email or phone number that you used for your monitoring portal."),
					domain.NewAssistant(
						"Would you like to try a different email/phone?",
						domain.Option{Label: "Try again", Value: "try_again"},
						domain.Option{Label: "No, continue anyway", Value: "continue_anyway"},
					),
				},
				AwaitInput: true,
			}, nil
		}

		return domain.Patch{
			Registry: &domain.RegistryPatch{
				Found:         domain.Ptr(false),
				LookupRetries: domain.Ptr(s.Registry.LookupRetries + 1),
			},
			Messages: []domain.Message{
				domain.NewAssistant("It looks like we don't have your system in our records. We can still help, but we'll need a few details about your setup."),
			},
		}, nil
	}
}

func lookupRouter(s *domain.State) graph.NodeID {
	if s.SupportType == domain.SupportSales {
		return NodeSalesStart
	}
	if s.Registry.Found != nil && *s.Registry.Found {
		return NodeServiceStatus
	}
	if s.Registry.LookupRetries >= 2 {
		return NodeServiceUnregistered
	}
	return graph.End
}

// lookupChoiceNode owns the try-again/continue decision after a registry
// miss. The choice itself is captured at the boundary; a reply that names
// neither option re-renders the question.
func lookupChoiceNode(ctx context.Context, s *domain.State) (domain.Patch, error) {
	if s.Registry.RetryChoice != "" {
		return domain.Patch{}, nil
	}
	if _, ok := s.LastHuman(); ok {
		return domain.Patch{
			Messages: []domain.Message{
				domain.NewAssistant(
					"Please choose one of the options: would you like to try a different email/phone?",
					domain.Option{Label: "Try again", Value: "try_again"},
					domain.Option{Label: "No, continue anyway", Value: "continue_anyway"},
				),
			},
			AwaitInput: true,
		}, nil
	}
	return domain.Patch{AwaitInput: true}, nil
}

func lookupChoiceRouter(s *domain.State) graph.NodeID {
	switch s.Registry.RetryChoice {
	case domain.LookupTryAgain:
		return NodeAuthReset
	case domain.LookupContinue:
		return NodeServiceUnregistered
	default:
		return graph.End
	}
}
