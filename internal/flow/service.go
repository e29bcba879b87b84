package flow

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/sunbun/assistant/pkg/domain"
	"github.com/sunbun/assistant/pkg/graph"
)

func newTicketID(prefix string) string {
	return prefix + strings.ToUpper(uuid.New().String()[:8])
}

var issueCategories = []domain.Option{
	{Label: "Production Issue", Value: "Production Issue"},
	{Label: "System Not Working", Value: "System Not Working"},
	{Label: "Communication Loss", Value: "Communication Loss"},
	{Label: "Battery Failure", Value: "Battery Failure"},
	{Label: "Inverter Failure", Value: "Inverter Failure"},
	{Label: "Others", Value: "Others"},
}

var resolutionQuestion = domain.NewAssistant(
	"Does this answer your question, or would you like to speak to support?",
	domain.Option{Label: "I'm happy with this explanation", Value: "happy"},
	domain.Option{Label: "I still need help", Value: "unhappy"},
)

// serviceStatusNode reports the monitoring status of the visitor's site and
// asks whether that settles the question. Re-entry after the report is a
// no-op; the router dispatches on the captured resolution.
func serviceStatusNode(deps Deps) graph.Node {
	return func(ctx context.Context, s *domain.State) (domain.Patch, error) {
		if s.Service.Step != "" || s.Service.Resolution != "" {
			return domain.Patch{}, nil
		}

		intro := domain.NewAssistant("Let me quickly check the current status of your solar system in our monitoring platform.")

		status, err := deps.Telemetry.Status(ctx, s.Registry.SiteID)
		if err != nil {
			if !errors.Is(err, domain.ErrNotFound) {
				return domain.Patch{}, err
			}
			// No monitoring record. Keep the conversation moving so the
			// visitor can still escalate.
			analysis := "We couldn't retrieve monitoring data for your system right now."
			return domain.Patch{
				Note:    domain.Ptr("site " + s.Registry.SiteID + " not in monitoring platform"),
				Service: &domain.ServicePatch{Step: domain.Ptr(domain.ServiceStepResolution), IssueFlag: domain.Ptr(false), IssueText: domain.Ptr(analysis)},
				Messages: []domain.Message{
					intro,
					domain.NewAssistant(analysis),
					resolutionQuestion,
				},
				AwaitInput: true,
			}, nil
		}

		if status.IssueFlag {
			return domain.Patch{
				Service: &domain.ServicePatch{
					Step:       domain.Ptr(domain.ServiceStepResolution),
					IssueFlag:  domain.Ptr(true),
					IssueText:  domain.Ptr(status.IssueText),
					ActionText: domain.Ptr(status.ActionText),
				},
				Messages: []domain.Message{
					intro,
					domain.NewAssistant("We are currently seeing an issue on your system."),
					domain.NewAssistant("Issue: " + status.IssueText + "."),
					domain.NewAssistant("Recommended action: " + status.ActionText + "."),
					resolutionQuestion,
				},
				AwaitInput: true,
			}, nil
		}

		metrics, err := deps.Telemetry.WeeklyMetrics(ctx, s.Registry.SiteID)
		if err != nil {
			return domain.Patch{}, err
		}

		var analysis string
		if len(metrics) == 0 {
			analysis = "Your system does not show any active faults and no recent monitoring data is available."
		} else {
			var totalProd, totalCloud float64
			for _, m := range metrics {
				totalProd += m.ProductionKWh
				totalCloud += m.CloudinessPct
			}
			avgCloud := totalCloud / float64(len(metrics))
			analysis = fmt.Sprintf("Your system is performing normally. Weekly production: %.1f kWh. Average cloudiness: %.1f%%.", totalProd, avgCloud)
			if avgCloud > 50 {
				analysis += " Higher cloudiness might affect production this week."
			}
		}

		return domain.Patch{
			Service: &domain.ServicePatch{
				Step:      domain.Ptr(domain.ServiceStepResolution),
				IssueFlag: domain.Ptr(false),
				IssueText: domain.Ptr(analysis),
				Metrics:   metrics,
			},
			Messages: []domain.Message{
				intro,
				domain.NewAssistant(analysis),
				resolutionQuestion,
			},
			AwaitInput: true,
		}, nil
	}
}

func serviceResolutionRouter(s *domain.State) graph.NodeID {
	switch s.Service.Resolution {
	case domain.ResolutionHappy:
		return NodeServiceNPS
	case domain.ResolutionUnhappy:
		return NodeServiceCapture
	default:
		return graph.End
	}
}

// matchCategory maps a reply onto one of the known issue categories by
// keyword. Free text that names no category counts as "Others".
func matchCategory(content string) string {
	c := strings.ToLower(content)
	for _, opt := range issueCategories {
		if strings.Contains(c, strings.ToLower(opt.Value)) {
			return opt.Value
		}
	}
	return "Others"
}

// serviceCaptureNode asks for the issue category and records the pick.
func serviceCaptureNode(ctx context.Context, s *domain.State) (domain.Patch, error) {
	if s.Service.Category != "" {
		return domain.Patch{}, nil
	}

	if content, ok := s.LastHuman(); ok && s.Service.Step == domain.ServiceStepCategory {
		return domain.Patch{Service: &domain.ServicePatch{Category: domain.Ptr(matchCategory(content))}}, nil
	}

	return domain.Patch{
		Service: &domain.ServicePatch{Step: domain.Ptr(domain.ServiceStepCategory)},
		Messages: []domain.Message{
			domain.NewAssistant("Sorry to hear that. Let's understand the issue in a bit more detail."),
			domain.NewAssistant("Please select the category that best describes your issue:", issueCategories...),
		},
		AwaitInput: true,
	}, nil
}

func serviceCaptureRouter(s *domain.State) graph.NodeID {
	if s.Service.Category != "" {
		return NodeServiceContext
	}
	return graph.End
}

// serviceContextNode collects the free-text description and photo evidence.
func serviceContextNode(ctx context.Context, s *domain.State) (domain.Patch, error) {
	if s.Service.Description != "" {
		return domain.Patch{}, nil
	}

	if content, ok := s.LastHuman(); ok && s.Service.Step == domain.ServiceStepDescription {
		return domain.Patch{Service: &domain.ServicePatch{Description: domain.Ptr(content)}}, nil
	}

	return domain.Patch{
		Service: &domain.ServicePatch{Step: domain.Ptr(domain.ServiceStepDescription)},
		Messages: []domain.Message{
			domain.NewAssistant("Please describe the issue in your own words."),
			domain.NewAssistant("If possible, please upload photos or screenshots that show what you're seeing (inverter screen, app screenshots, physical damage, etc.)."),
		},
		AwaitInput: true,
	}, nil
}

func serviceContextRouter(s *domain.State) graph.NodeID {
	if s.Service.Description != "" {
		return NodeServiceAvailability
	}
	return graph.End
}

// serviceAvailabilityNode checks live-agent presence. With an agent online
// the visitor picks between live chat and a ticket; offline goes straight to
// a ticket.
func serviceAvailabilityNode(deps Deps) graph.Node {
	return func(ctx context.Context, s *domain.State) (domain.Patch, error) {
		if s.Service.AgentOnline != nil {
			return domain.Patch{}, nil
		}

		online, err := deps.Presence.Online(ctx, domain.DepartmentService)
		if err != nil {
			return domain.Patch{}, err
		}
		if !online {
			return domain.Patch{Service: &domain.ServicePatch{AgentOnline: domain.Ptr(false)}}, nil
		}

		return domain.Patch{
			Service: &domain.ServicePatch{
				AgentOnline: domain.Ptr(true),
				Step:        domain.Ptr(domain.ServiceStepChannel),
			},
			Messages: []domain.Message{
				domain.NewAssistant(
					"We have a service executive available right now. Would you like to start a live chat, or create a ticket instead?",
					domain.Option{Label: "Start live chat", Value: "live_chat"},
					domain.Option{Label: "Create a ticket", Value: "ticket"},
				),
			},
			AwaitInput: true,
		}, nil
	}
}

func serviceAvailabilityRouter(s *domain.State) graph.NodeID {
	if s.Service.AgentOnline == nil {
		return graph.End
	}
	if !*s.Service.AgentOnline {
		return NodeServiceTicket
	}
	switch s.Service.Channel {
	case domain.ChannelLiveChat:
		return NodeServiceLiveChat
	case domain.ChannelTicket:
		return NodeServiceTicket
	default:
		return graph.End
	}
}

func serviceLiveChatNode(ctx context.Context, s *domain.State) (domain.Patch, error) {
	if s.Closed {
		return domain.Patch{}, nil
	}
	return domain.Patch{
		Service: &domain.ServicePatch{Step: domain.Ptr(domain.ServiceStepClosed)},
		Closed:  domain.Ptr(true),
		Messages: []domain.Message{
			domain.NewAssistant("Connecting you with our service team now. Please stay in this chat window."),
		},
	}, nil
}

// serviceTicketNode creates the escalation ticket and closes the thread.
func serviceTicketNode(ctx context.Context, s *domain.State) (domain.Patch, error) {
	if s.Service.TicketID != "" {
		return domain.Patch{}, nil
	}

	ticketID := newTicketID("TICKET-")

	var messages []domain.Message
	if s.Service.AgentOnline != nil && *s.Service.AgentOnline {
		messages = append(messages, domain.NewAssistant("We have a service executive available right now. I've also created a ticket for your records."))
	} else {
		messages = append(messages, domain.NewAssistant("Our service team is currently offline. I'll create a ticket with all the details you've shared so we can follow up."))
	}
	messages = append(messages, domain.NewAssistant(fmt.Sprintf("Your service ticket has been created. Ticket number: %s. Our team will reach out to you shortly.", ticketID)))

	return domain.Patch{
		Service: &domain.ServicePatch{
			TicketID: domain.Ptr(ticketID),
			Step:     domain.Ptr(domain.ServiceStepClosed),
		},
		Closed:   domain.Ptr(true),
		Messages: messages,
	}, nil
}

// serviceNPSNode logs the resolution and closes with the satisfaction ask.
func serviceNPSNode(ctx context.Context, s *domain.State) (domain.Patch, error) {
	if s.Service.TicketID != "" {
		return domain.Patch{}, nil
	}
	return domain.Patch{
		Service: &domain.ServicePatch{
			TicketID: domain.Ptr(newTicketID("RESOLVED-")),
			Step:     domain.Ptr(domain.ServiceStepClosed),
		},
		Closed: domain.Ptr(true),
		Messages: []domain.Message{
			domain.NewAssistant("Great, we'll log that your query has been resolved."),
			domain.NewAssistant("On a scale of 1 to 10, how satisfied are you with the support you received just now?"),
			domain.NewAssistant("Anything else you'd like to share about your experience?"),
			domain.NewAssistant("Thank you. Your feedback helps us improve. Have a great day!"),
		},
	}, nil
}

// unregStage is one ask-once/capture stage of the unregistered-system intake.
type unregStage struct {
	step   domain.ServiceStep
	filled func(s *domain.State) bool
	ask    func() domain.Patch
	record func(content string) domain.Patch
}

func unregStages() []unregStage {
	text := func(step domain.ServiceStep, prompt string, set func(v string) *domain.ServicePatch, get func(s *domain.State) string) unregStage {
		return unregStage{
			step:   step,
			filled: func(s *domain.State) bool { return get(s) != "" },
			ask: func() domain.Patch {
				return domain.Patch{
					Service:    &domain.ServicePatch{Step: domain.Ptr(step)},
					Messages:   []domain.Message{domain.NewAssistant(prompt)},
					AwaitInput: true,
				}
			},
			record: func(content string) domain.Patch {
				return domain.Patch{Service: set(content)}
			},
		}
	}

	return []unregStage{
		text(domain.ServiceStepUnregSize, "Approximate system size (kWp)?",
			func(v string) *domain.ServicePatch { return &domain.ServicePatch{SystemSize: domain.Ptr(v)} },
			func(s *domain.State) string { return s.Service.Unregistered.SystemSize }),
		text(domain.ServiceStepUnregInverter, "Inverter brand/model?",
			func(v string) *domain.ServicePatch { return &domain.ServicePatch{InverterModel: domain.Ptr(v)} },
			func(s *domain.State) string { return s.Service.Unregistered.InverterModel }),
		text(domain.ServiceStepUnregYear, "Year of installation?",
			func(v string) *domain.ServicePatch { return &domain.ServicePatch{InstallYear: domain.Ptr(v)} },
			func(s *domain.State) string { return s.Service.Unregistered.InstallYear }),
		{
			step:   domain.ServiceStepUnregMonitoring,
			filled: func(s *domain.State) bool { return s.Service.Unregistered.MonitoringActive != nil },
			ask: func() domain.Patch {
				return domain.Patch{
					Service: &domain.ServicePatch{Step: domain.Ptr(domain.ServiceStepUnregMonitoring)},
					Messages: []domain.Message{
						domain.NewAssistant("Is online monitoring active?",
							domain.Option{Label: "Yes", Value: "Yes"},
							domain.Option{Label: "No", Value: "No"},
						),
					},
					AwaitInput: true,
				}
			},
			record: func(content string) domain.Patch {
				active := strings.EqualFold(strings.TrimSpace(content), "yes")
				return domain.Patch{Service: &domain.ServicePatch{MonitoringActive: domain.Ptr(active)}}
			},
		},
		text(domain.ServiceStepUnregInstaller, "Who installed your system? (Enter name or 'Don't remember')",
			func(v string) *domain.ServicePatch { return &domain.ServicePatch{Installer: domain.Ptr(v)} },
			func(s *domain.State) string { return s.Service.Unregistered.Installer }),
	}
}

// serviceUnregisteredNode walks the setup questions for systems we have no
// record of, one slot per turn, then hands over to issue capture.
func serviceUnregisteredNode(ctx context.Context, s *domain.State) (domain.Patch, error) {
	stages := unregStages()
	for i, stage := range stages {
		if stage.filled(s) {
			continue
		}
		if content, ok := s.LastHuman(); ok && s.Service.Step == stage.step {
			return stage.record(content), nil
		}
		patch := stage.ask()
		if i == 0 && s.Service.Step == "" {
			patch.Messages = append([]domain.Message{
				domain.NewAssistant("We can still help, but we'll need a few details about your setup."),
			}, patch.Messages...)
		}
		return patch, nil
	}
	return domain.Patch{}, nil
}

func serviceUnregisteredRouter(s *domain.State) graph.NodeID {
	for _, stage := range unregStages() {
		if !stage.filled(s) {
			return NodeServiceUnregistered
		}
	}
	return NodeServiceCapture
}
