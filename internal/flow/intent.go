package flow

import (
	"strings"

	"github.com/sunbun/assistant/pkg/domain"
)

// ApplyIntent classifies one inbound human message against the current state
// and returns a patch recording any choice it expresses. Only enumerated
// decisions are classified here (branch selection, yes/no style choices,
// proposal picks); free-text answers are captured by the node that asked for
// them. The patch is empty when the message expresses no recognizable choice,
// in which case the owning node re-prompts.
func ApplyIntent(s *domain.State, content string) domain.Patch {
	c := strings.ToLower(strings.TrimSpace(content))
	if c == "" || s.Closed {
		return domain.Patch{}
	}

	if s.SupportType == "" {
		if strings.Contains(c, "sale") || strings.Contains(c, "buy") {
			return domain.Patch{SupportType: domain.Ptr(domain.SupportSales)}
		}
		if strings.Contains(c, "service") || strings.Contains(c, "fix") || strings.Contains(c, "support") {
			return domain.Patch{SupportType: domain.Ptr(domain.SupportService)}
		}
		return domain.Patch{}
	}

	if s.Auth.Step == domain.AuthStepFailed && s.Auth.FailureChoice == "" {
		if strings.Contains(c, "retry") || strings.Contains(c, "try again") {
			return domain.Patch{Auth: &domain.AuthPatch{FailureChoice: domain.Ptr(domain.FailureRetry)}}
		}
		if strings.Contains(c, "exit") {
			return domain.Patch{Auth: &domain.AuthPatch{FailureChoice: domain.Ptr(domain.FailureExit)}}
		}
		return domain.Patch{}
	}

	if s.Registry.Found != nil && !*s.Registry.Found &&
		s.Registry.RetryChoice == "" && s.Registry.LookupRetries == 1 &&
		s.SupportType == domain.SupportService && s.Service.Step == "" {
		if strings.Contains(c, "try") && strings.Contains(c, "again") {
			return domain.Patch{Registry: &domain.RegistryPatch{RetryChoice: domain.Ptr(domain.LookupTryAgain)}}
		}
		if strings.Contains(c, "continue") {
			return domain.Patch{Registry: &domain.RegistryPatch{RetryChoice: domain.Ptr(domain.LookupContinue)}}
		}
		return domain.Patch{}
	}

	if s.Service.Step == domain.ServiceStepResolution && s.Service.Resolution == "" {
		if strings.Contains(c, "happy") && !strings.Contains(c, "unhappy") {
			return domain.Patch{Service: &domain.ServicePatch{Resolution: domain.Ptr(domain.ResolutionHappy)}}
		}
		if strings.Contains(c, "unhappy") || strings.Contains(c, "help") {
			return domain.Patch{Service: &domain.ServicePatch{Resolution: domain.Ptr(domain.ResolutionUnhappy)}}
		}
		return domain.Patch{}
	}

	if s.Service.Step == domain.ServiceStepChannel && s.Service.Channel == "" {
		if strings.Contains(c, "chat") {
			return domain.Patch{Service: &domain.ServicePatch{Channel: domain.Ptr(domain.ChannelLiveChat)}}
		}
		if strings.Contains(c, "ticket") {
			return domain.Patch{Service: &domain.ServicePatch{Channel: domain.Ptr(domain.ChannelTicket)}}
		}
		return domain.Patch{}
	}

	switch s.Sales.Step {
	case domain.SalesStepGreeting:
		if s.Sales.ReviewChoice != "" {
			return domain.Patch{}
		}
		if strings.Contains(c, "old") || strings.Contains(c, "review") {
			return domain.Patch{Sales: &domain.SalesPatch{ReviewChoice: domain.Ptr(domain.ReviewOld)}}
		}
		if strings.Contains(c, "new") || strings.Contains(c, "create") {
			return domain.Patch{Sales: &domain.SalesPatch{ReviewChoice: domain.Ptr(domain.CreateNew)}}
		}
	case domain.SalesStepReview:
		if strings.Contains(c, "select") || strings.Contains(c, "proceed") {
			return domain.Patch{Sales: &domain.SalesPatch{
				Step:               domain.Ptr(domain.SalesStepReviewComplete),
				ReviewResult:       domain.Ptr(domain.ReviewSelect),
				ChosenProposalName: domain.Ptr("your previous"),
			}}
		}
		if strings.Contains(c, "new") || strings.Contains(c, "generate") {
			return domain.Patch{Sales: &domain.SalesPatch{
				Step:         domain.Ptr(domain.SalesStepReviewComplete),
				ReviewResult: domain.Ptr(domain.ReviewGenerateNew),
			}}
		}
	case domain.SalesStepOptions:
		if s.Sales.ChosenProposalID != "" {
			return domain.Patch{}
		}
		for _, p := range s.Sales.Proposals {
			if strings.Contains(c, strings.ToLower(p.Name)) {
				return domain.Patch{Sales: &domain.SalesPatch{
					ChosenProposalID:   domain.Ptr(p.ID),
					ChosenProposalName: domain.Ptr(p.Name),
				}}
			}
		}
	case domain.SalesStepConfirm:
		if s.Sales.Handoff != "" {
			return domain.Patch{}
		}
		if strings.Contains(c, "call") {
			return domain.Patch{Sales: &domain.SalesPatch{Handoff: domain.Ptr(domain.HandoffCall)}}
		}
		if strings.Contains(c, "chat") {
			return domain.Patch{Sales: &domain.SalesPatch{Handoff: domain.Ptr(domain.HandoffChat)}}
		}
	}

	return domain.Patch{}
}
