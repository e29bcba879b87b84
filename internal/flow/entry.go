package flow

import (
	"context"
	"fmt"

	"github.com/sunbun/assistant/pkg/domain"
	"github.com/sunbun/assistant/pkg/graph"
)

// entryNode greets the visitor once and keeps asking for a support branch
// until one is chosen. Branch selection itself happens at the boundary (see
// ApplyIntent); this node only renders prompts.
func entryNode(ctx context.Context, s *domain.State) (domain.Patch, error) {
	if s.Closed || s.SupportType != "" {
		return domain.Patch{}, nil
	}

	if !s.Greeted {
		name := s.Registry.CustomerName
		if name == "" {
			name = "there"
		}
		return domain.Patch{
			Greeted: domain.Ptr(true),
			Messages: []domain.Message{
				domain.NewAssistant(
					fmt.Sprintf("Hi %s, how can we help you today?", name),
					domain.Option{Label: "Sales Support – I'm interested in buying / upgrading a system", Value: "sales"},
					domain.Option{Label: "Service Support – I need help with an existing or new system", Value: "service"},
				),
			},
			AwaitInput: true,
		}, nil
	}

	// Greeted, branch still unset. If the visitor just said something that
	// didn't classify, re-render the menu; otherwise stay quiet.
	if _, ok := s.LastHuman(); ok {
		return domain.Patch{
			Messages: []domain.Message{
				domain.NewAssistant(
					"Please select one of the support options below to proceed:",
					domain.Option{Label: "Sales Support", Value: "sales"},
					domain.Option{Label: "Service Support", Value: "service"},
				),
			},
			AwaitInput: true,
		}, nil
	}
	return domain.Patch{AwaitInput: true}, nil
}

// entryRouter dispatches a resumed run to wherever the persisted state left
// off. Authentication takes precedence over the post-lookup branches so that
// a reset identifier actually restarts the auth loop.
func entryRouter(s *domain.State) graph.NodeID {
	if s.Closed || s.SupportType == "" {
		return graph.End
	}

	if s.Auth.Step == domain.AuthStepFailed {
		switch s.Auth.FailureChoice {
		case domain.FailureRetry:
			return NodeAuthReset
		case domain.FailureExit:
			return NodeClose
		default:
			return graph.End
		}
	}

	if !s.Auth.Verified {
		if s.Auth.Step == domain.AuthStepOTP {
			return NodeAuthVerify
		}
		return NodeAuthCollect
	}

	if s.Registry.Found == nil {
		return NodeLookup
	}

	if s.SupportType == domain.SupportSales {
		return NodeSalesStart
	}

	// Service branch.
	if !*s.Registry.Found {
		if s.Service.Step != "" {
			return serviceNodeFor(s)
		}
		return NodeLookupChoice
	}
	return serviceNodeFor(s)
}

// serviceNodeFor maps the persisted service step to the node that owns it.
func serviceNodeFor(s *domain.State) graph.NodeID {
	switch s.Service.Step {
	case "":
		return NodeServiceStatus
	case domain.ServiceStepUnregSize, domain.ServiceStepUnregInverter,
		domain.ServiceStepUnregYear, domain.ServiceStepUnregMonitoring,
		domain.ServiceStepUnregInstaller:
		return NodeServiceUnregistered
	case domain.ServiceStepResolution:
		return NodeServiceStatus
	case domain.ServiceStepCategory:
		return NodeServiceCapture
	case domain.ServiceStepDescription:
		return NodeServiceContext
	case domain.ServiceStepChannel:
		return NodeServiceAvailability
	default:
		return graph.End
	}
}

// closeNode ends the conversation after an explicit exit.
func closeNode(ctx context.Context, s *domain.State) (domain.Patch, error) {
	if s.Closed {
		return domain.Patch{}, nil
	}
	return domain.Patch{
		Closed: domain.Ptr(true),
		Messages: []domain.Message{
			domain.NewAssistant("No problem. If you need anything else, just start a new conversation. Have a great day!"),
		},
	}, nil
}
