package flow

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/sunbun/assistant/pkg/domain"
	"github.com/sunbun/assistant/pkg/graph"
)

// salesStartNode greets the sales visitor. Customers with stored proposals
// get the review-or-create choice; everyone else moves straight into intake.
func salesStartNode(deps Deps) graph.Node {
	return func(ctx context.Context, s *domain.State) (domain.Patch, error) {
		if s.Sales.Step != "" {
			return domain.Patch{}, nil
		}

		name := s.Registry.CustomerName
		if name == "" {
			name = "there"
		}

		var messages []domain.Message
		if s.Registry.Found != nil && !*s.Registry.Found {
			messages = append(messages, domain.NewAssistant("We couldn't find an existing SunBun system under your details. Let's collect some information to prepare a customized solar proposal for you."))
		}
		messages = append(messages, domain.NewAssistant(fmt.Sprintf("Hi %s, how can we help with your solar plans today?", name)))

		registered := s.Registry.Found != nil && *s.Registry.Found
		if registered && s.Registry.HasProposals {
			stored, err := deps.Catalog.ByCustomer(ctx, s.Registry.CustomerID)
			if err != nil {
				return domain.Patch{}, err
			}
			messages = append(messages,
				domain.NewAssistant("We see that we've previously shared one or more proposals with you."),
				domain.NewAssistant(
					"Would you like to review those, or create new options?",
					domain.Option{Label: "Review old proposals", Value: "review_old"},
					domain.Option{Label: "Create new proposals", Value: "create_new"},
				),
			)
			return domain.Patch{
				Sales: &domain.SalesPatch{
					Step:      domain.Ptr(domain.SalesStepGreeting),
					Proposals: stored,
				},
				Messages:   messages,
				AwaitInput: true,
			}, nil
		}

		return domain.Patch{
			Sales: &domain.SalesPatch{
				Step:         domain.Ptr(domain.SalesStepGreeting),
				ReviewChoice: domain.Ptr(domain.CreateNew),
			},
			Messages: messages,
		}, nil
	}
}

// salesRouter is the shared dispatcher for every sales node. It reads the
// step marker and the captured choices and picks the node that owns the next
// turn, or End to wait for input.
func salesRouter(s *domain.State) graph.NodeID {
	switch s.Sales.Step {
	case domain.SalesStepGreeting:
		switch s.Sales.ReviewChoice {
		case domain.ReviewOld:
			return NodeSalesReview
		case domain.CreateNew:
			return NodeSalesCapture
		default:
			return graph.End
		}
	case domain.SalesStepReview:
		return graph.End
	case domain.SalesStepReviewComplete:
		switch s.Sales.ReviewResult {
		case domain.ReviewGenerateNew:
			return NodeSalesCapture
		case domain.ReviewSelect:
			return NodeSalesConfirm
		default:
			return graph.End
		}
	case domain.SalesStepName, domain.SalesStepContact, domain.SalesStepContext,
		domain.SalesStepSegment, domain.SalesStepBill, domain.SalesStepIncrease,
		domain.SalesStepCount, domain.SalesStepBrands, domain.SalesStepTier:
		return NodeSalesCapture
	case domain.SalesStepGenerating:
		return NodeSalesGenerate
	case domain.SalesStepOptions:
		if s.Sales.ChosenProposalID != "" {
			return NodeSalesConfirm
		}
		return graph.End
	case domain.SalesStepConfirm:
		if s.Sales.Handoff != "" {
			return NodeSalesHandoff
		}
		return graph.End
	default:
		return graph.End
	}
}

// salesReviewNode lists the stored proposals as cards and waits for the
// select-or-generate decision.
func salesReviewNode(ctx context.Context, s *domain.State) (domain.Patch, error) {
	if s.Sales.Step == domain.SalesStepReview {
		return domain.Patch{}, nil
	}

	messages := []domain.Message{domain.NewAssistant("Here are your past proposals:")}
	for _, p := range s.Sales.Proposals {
		card := fmt.Sprintf("**Proposal:** %s\n**Price:** $%.0f\n**Savings:** $%.0f/yr\n**Date:** %s\n**Status:** %s",
			p.Name, p.Price, p.YearlySavings, p.DateCreated, p.Status)
		messages = append(messages, domain.NewAssistant(card))
	}
	messages = append(messages, domain.NewAssistant(
		"Would you like to proceed with any of these proposals, or generate new options?",
		domain.Option{Label: "Select a proposal", Value: "select"},
		domain.Option{Label: "Generate new options", Value: "generate_new"},
	))

	return domain.Patch{
		Sales:      &domain.SalesPatch{Step: domain.Ptr(domain.SalesStepReview)},
		Messages:   messages,
		AwaitInput: true,
	}, nil
}

// salesStage is one ask-once/capture stage of the proposal intake.
type salesStage struct {
	step    domain.SalesStep
	skip    func(s *domain.State) bool
	filled  func(s *domain.State) bool
	prompts func() []domain.Message
	record  func(s *domain.State, content string) domain.Patch
}

func salesStages() []salesStage {
	text := func(step domain.SalesStep, prompt string, set func(v string) *domain.SalesPatch, get func(s *domain.State) string) salesStage {
		return salesStage{
			step:    step,
			filled:  func(s *domain.State) bool { return get(s) != "" },
			prompts: func() []domain.Message { return []domain.Message{domain.NewAssistant(prompt)} },
			record: func(_ *domain.State, content string) domain.Patch {
				return domain.Patch{Sales: set(content)}
			},
		}
	}

	registered := func(s *domain.State) bool {
		return s.Registry.Found != nil && *s.Registry.Found
	}

	stages := []salesStage{
		text(domain.SalesStepName, "May I have your full name?",
			func(v string) *domain.SalesPatch { return &domain.SalesPatch{Name: domain.Ptr(v)} },
			func(s *domain.State) string { return s.Sales.Intake.Name }),
		text(domain.SalesStepContact, "Is there a secondary phone or email we should keep on file?",
			func(v string) *domain.SalesPatch { return &domain.SalesPatch{ContactComplement: domain.Ptr(v)} },
			func(s *domain.State) string { return s.Sales.Intake.ContactComplement }),
		text(domain.SalesStepContext, "Please provide your postal code and city.",
			func(v string) *domain.SalesPatch { return &domain.SalesPatch{PostalCode: domain.Ptr(v)} },
			func(s *domain.State) string { return s.Sales.Intake.PostalCode }),
		{
			step:   domain.SalesStepSegment,
			filled: func(s *domain.State) bool { return s.Sales.Intake.Segment != "" },
			prompts: func() []domain.Message {
				return []domain.Message{domain.NewAssistant(
					"Are you a Residential, Commercial, or Industrial customer?",
					domain.Option{Label: "Residential", Value: "Residential"},
					domain.Option{Label: "Commercial", Value: "Commercial"},
					domain.Option{Label: "Industrial", Value: "Industrial"},
				)}
			},
			record: func(_ *domain.State, content string) domain.Patch {
				seg := domain.SegmentResidential
				switch {
				case strings.Contains(strings.ToLower(content), "commercial"):
					seg = domain.SegmentCommercial
				case strings.Contains(strings.ToLower(content), "industrial"):
					seg = domain.SegmentIndustrial
				}
				return domain.Patch{Sales: &domain.SalesPatch{Segment: domain.Ptr(seg)}}
			},
		},
		text(domain.SalesStepBill, "What is your average monthly electricity bill (in currency)?",
			func(v string) *domain.SalesPatch { return &domain.SalesPatch{MonthlyBill: domain.Ptr(v)} },
			func(s *domain.State) string { return s.Sales.Intake.MonthlyBill }),
		text(domain.SalesStepIncrease, "By what percentage do you expect your electricity consumption to increase in the next few years (e.g., EV, heating, new loads)?",
			func(v string) *domain.SalesPatch { return &domain.SalesPatch{ConsumptionIncrease: domain.Ptr(v)} },
			func(s *domain.State) string { return s.Sales.Intake.ConsumptionIncrease }),
		{
			step:   domain.SalesStepCount,
			filled: func(s *domain.State) bool { return s.Sales.Intake.SolutionCount != 0 },
			prompts: func() []domain.Message {
				return []domain.Message{domain.NewAssistant("How many solution options would you like to evaluate right now? (1-3)")}
			},
			record: func(_ *domain.State, content string) domain.Patch {
				count := 1
				if n, err := strconv.Atoi(digitsOnly(content)); err == nil && n > 0 {
					count = n
				}
				if count > 3 {
					count = 3
				}
				return domain.Patch{Sales: &domain.SalesPatch{SolutionCount: domain.Ptr(count)}}
			},
		},
		{
			step:   domain.SalesStepBrands,
			filled: func(s *domain.State) bool { return s.Sales.Intake.BrandPreference != "" },
			prompts: func() []domain.Message {
				return []domain.Message{domain.NewAssistant("Do you have any brand preferences for Inverters (Enphase, SolarEdge, Sungrow, GoodWe) or Modules (Jinko, Trina, Waaree)?")}
			},
			record: func(_ *domain.State, content string) domain.Patch {
				pref := strings.TrimSpace(content)
				switch strings.ToLower(pref) {
				case "no", "none", "nope", "no preference":
					pref = domain.BrandNone
				}
				return domain.Patch{Sales: &domain.SalesPatch{BrandPreference: domain.Ptr(pref)}}
			},
		},
		{
			step: domain.SalesStepTier,
			// A concrete brand preference already pins the design; only ask
			// for a budget tier when the visitor had no preference.
			skip:   func(s *domain.State) bool { return s.Sales.Intake.BrandPreference != domain.BrandNone },
			filled: func(s *domain.State) bool { return s.Sales.Intake.BudgetTier != "" },
			prompts: func() []domain.Message {
				return []domain.Message{domain.NewAssistant(
					"Would you prefer Premium, Standard, or Budget options?",
					domain.Option{Label: "Premium", Value: "Premium"},
					domain.Option{Label: "Standard", Value: "Standard"},
					domain.Option{Label: "Budget", Value: "Budget"},
				)}
			},
			record: func(_ *domain.State, content string) domain.Patch {
				tier := domain.TierStandard
				switch {
				case strings.Contains(strings.ToLower(content), "premium"):
					tier = domain.TierPremium
				case strings.Contains(strings.ToLower(content), "budget"):
					tier = domain.TierBudget
				}
				return domain.Patch{Sales: &domain.SalesPatch{BudgetTier: domain.Ptr(tier)}}
			},
		},
	}

	// Registered customers are already on file; skip the identity stages.
	stages[0].skip = registered
	stages[1].skip = registered
	return stages
}

// salesCaptureNode progressively collects the proposal inputs, one stage per
// turn, then announces generation.
func salesCaptureNode(ctx context.Context, s *domain.State) (domain.Patch, error) {
	first := true
	for _, stage := range salesStages() {
		if stage.skip != nil && stage.skip(s) {
			continue
		}
		if stage.filled(s) {
			first = false
			continue
		}
		if content, ok := s.LastHuman(); ok && s.Sales.Step == stage.step {
			return stage.record(s, content), nil
		}
		messages := stage.prompts()
		if first {
			messages = append([]domain.Message{
				domain.NewAssistant("Great! Let's get some details for your new proposal."),
			}, messages...)
		}
		return domain.Patch{
			Sales:      &domain.SalesPatch{Step: domain.Ptr(stage.step)},
			Messages:   messages,
			AwaitInput: true,
		}, nil
	}

	if s.Sales.Step != domain.SalesStepGenerating {
		return domain.Patch{
			Sales: &domain.SalesPatch{Step: domain.Ptr(domain.SalesStepGenerating)},
			Messages: []domain.Message{
				domain.NewAssistant("Give us a moment while we design the best options based on your requirements."),
			},
		}, nil
	}
	return domain.Patch{}, nil
}

// salesGenerateNode builds the proposal options and renders a Select button
// per option.
func salesGenerateNode(deps Deps) graph.Node {
	return func(ctx context.Context, s *domain.State) (domain.Patch, error) {
		if s.Sales.Step == domain.SalesStepOptions {
			return domain.Patch{}, nil
		}

		options, err := deps.Catalog.Generate(ctx, s.Sales.Intake)
		if err != nil {
			return domain.Patch{}, err
		}

		messages := []domain.Message{domain.NewAssistant("I've designed these options for you:")}
		var buttons []domain.Option
		for _, p := range options {
			messages = append(messages, domain.NewAssistant(
				fmt.Sprintf("%s | Expected Savings: $%.0f/yr | Price: $%.0f", p.Name, p.YearlySavings, p.Price)))
			buttons = append(buttons, domain.Option{Label: "Select " + p.Name, Value: p.Name})
		}
		messages = append(messages, domain.NewAssistant("Which option would you like to select?", buttons...))

		return domain.Patch{
			Sales: &domain.SalesPatch{
				Step:      domain.Ptr(domain.SalesStepOptions),
				Proposals: options,
			},
			Messages:   messages,
			AwaitInput: true,
		}, nil
	}
}

// salesConfirmNode acknowledges the chosen proposal. With a sales agent
// online the visitor picks call or chat; offline gets the follow-up script.
func salesConfirmNode(deps Deps) graph.Node {
	return func(ctx context.Context, s *domain.State) (domain.Patch, error) {
		if s.Sales.Step == domain.SalesStepConfirm {
			return domain.Patch{}, nil
		}

		online, err := deps.Presence.Online(ctx, domain.DepartmentSales)
		if err != nil {
			return domain.Patch{}, err
		}

		chosen := s.Sales.ChosenProposalName
		if chosen == "" {
			chosen = "the selected"
		}
		messages := []domain.Message{
			domain.NewAssistant(fmt.Sprintf("Thank you for your interest in the %s option.", chosen)),
		}

		if online {
			messages = append(messages, domain.NewAssistant(
				"Would you prefer to speak with our sales representative via call or chat?",
				domain.Option{Label: "Call", Value: "call"},
				domain.Option{Label: "Chat", Value: "chat"},
			))
			return domain.Patch{
				Sales: &domain.SalesPatch{
					Step:        domain.Ptr(domain.SalesStepConfirm),
					AgentOnline: domain.Ptr(true),
				},
				Messages:   messages,
				AwaitInput: true,
			}, nil
		}

		messages = append(messages,
			domain.NewAssistant("Our sales team is currently unavailable for live conversations, but we've logged your interest."),
			domain.NewAssistant("You'll receive a call or email from our team soon with the next steps."),
			domain.NewAssistant("Thank you for considering SunBun. We'll be in touch shortly."),
		)
		return domain.Patch{
			Sales: &domain.SalesPatch{
				Step:        domain.Ptr(domain.SalesStepConfirm),
				AgentOnline: domain.Ptr(false),
			},
			Closed:   domain.Ptr(true),
			Messages: messages,
		}, nil
	}
}

// salesHandoffNode emits the live-handoff script for the chosen channel.
func salesHandoffNode(ctx context.Context, s *domain.State) (domain.Patch, error) {
	if s.Sales.Step == domain.SalesStepHandoff {
		return domain.Patch{}, nil
	}

	content := "Great, connecting you with our sales representative in this chat now."
	if s.Sales.Handoff == domain.HandoffCall {
		content = "Perfect. Our sales representative will call you shortly at your registered number."
	}
	return domain.Patch{
		Sales:    &domain.SalesPatch{Step: domain.Ptr(domain.SalesStepHandoff)},
		Closed:   domain.Ptr(true),
		Messages: []domain.Message{domain.NewAssistant(content)},
	}, nil
}
