package flow

import (
	"context"
	"regexp"
	"strings"

	"github.com/sunbun/assistant/pkg/domain"
	"github.com/sunbun/assistant/pkg/graph"
)

var otpPattern = regexp.MustCompile(`\b\d{6}\b`)

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// authCollectNode asks for an identifier, or captures one from the latest
// reply. A token containing "@" is treated as email; anything with digits as
// a phone number, keeping only the digits.
func authCollectNode(ctx context.Context, s *domain.State) (domain.Patch, error) {
	if content, ok := s.LastHuman(); ok && s.Auth.Step == domain.AuthStepIdentifier {
		if strings.Contains(content, "@") {
			fields := strings.Fields(strings.TrimSpace(content))
			return domain.Patch{Auth: &domain.AuthPatch{
				Identifier: domain.Ptr(fields[len(fields)-1]),
				Kind:       domain.Ptr(domain.IdentifierEmail),
			}}, nil
		}
		if digits := digitsOnly(content); digits != "" {
			return domain.Patch{Auth: &domain.AuthPatch{
				Identifier: domain.Ptr(digits),
				Kind:       domain.Ptr(domain.IdentifierPhone),
			}}, nil
		}
	}

	return domain.Patch{
		Auth: &domain.AuthPatch{Step: domain.Ptr(domain.AuthStepIdentifier)},
		Messages: []domain.Message{
			domain.NewAssistant(
				"Please continue with either your registered email or phone number.",
				domain.Option{Label: "Use email", Value: "email"},
				domain.Option{Label: "Use phone", Value: "phone"},
			),
		},
		AwaitInput: true,
	}, nil
}

func authCollectRouter(s *domain.State) graph.NodeID {
	if s.Auth.Identifier != "" {
		return NodeAuthSendOTP
	}
	return graph.End
}

// authSendOTPNode simulates dispatching a one-time code over the chosen
// channel and arms the verification step.
func authSendOTPNode(ctx context.Context, s *domain.State) (domain.Patch, error) {
	channel := "email"
	if s.Auth.Kind == domain.IdentifierPhone {
		channel = "SMS"
	}
	return domain.Patch{
		Auth: &domain.AuthPatch{
			Step:       domain.Ptr(domain.AuthStepOTP),
			OTPRetries: domain.Ptr(0),
		},
		Messages: []domain.Message{
			domain.NewAssistant("We're sending you a one-time code. Please check your " + channel + " and enter the code here."),
		},
		AwaitInput: true,
	}, nil
}

// authVerifyNode checks the code in the latest reply. A mismatch increments
// the retry counter without pausing, so the router can decide at exactly
// three failures whether to fail the authentication.
func authVerifyNode(deps Deps) graph.Node {
	return func(ctx context.Context, s *domain.State) (domain.Patch, error) {
		content, ok := s.LastHuman()
		if !ok {
			return domain.Patch{AwaitInput: true}, nil
		}

		code := ""
		if m := otpPattern.FindString(content); m != "" {
			code = m
		} else {
			code = digitsOnly(content)
		}
		if code == "" {
			return domain.Patch{
				Messages: []domain.Message{
					domain.NewAssistant("I didn't catch a 6-digit code. Please enter the OTP sent to your device."),
				},
				AwaitInput: true,
			}, nil
		}

		valid, err := deps.OTP.Verify(ctx, s.Auth.Kind, s.Auth.Identifier, code)
		if err != nil {
			return domain.Patch{}, err
		}
		if valid {
			return domain.Patch{Auth: &domain.AuthPatch{
				Verified: domain.Ptr(true),
				Step:     domain.Ptr(domain.AuthStepVerified),
			}}, nil
		}

		deps.Logger.Debug("OTP mismatch",
			"thread_id", s.ThreadID,
			"retries", s.Auth.OTPRetries+1,
		)
		return domain.Patch{
			Auth: &domain.AuthPatch{
				Verified:   domain.Ptr(false),
				OTPRetries: domain.Ptr(s.Auth.OTPRetries + 1),
			},
			Messages: []domain.Message{
				domain.NewAssistant("That code doesn't look right. Please try again."),
			},
		}, nil
	}
}

func authVerifyRouter(s *domain.State) graph.NodeID {
	if s.Auth.Verified {
		return NodeLookup
	}
	if s.Auth.OTPRetries >= 3 {
		return NodeAuthFailed
	}
	return graph.End
}

// authFailedNode is the terminal prompt after three bad codes.
func authFailedNode(ctx context.Context, s *domain.State) (domain.Patch, error) {
	return domain.Patch{
		Auth: &domain.AuthPatch{Step: domain.Ptr(domain.AuthStepFailed)},
		Messages: []domain.Message{
			domain.NewAssistant(
				"We couldn't verify your identity right now. Would you like to try again or exit?",
				domain.Option{Label: "Retry authentication", Value: "retry"},
				domain.Option{Label: "Exit", Value: "exit"},
			),
		},
		AwaitInput: true,
	}, nil
}

// authResetNode clears the auth slots so a different identifier can be used.
// It also clears the lookup retry choice so the lookup branch starts fresh.
func authResetNode(ctx context.Context, s *domain.State) (domain.Patch, error) {
	return domain.Patch{
		Auth: &domain.AuthPatch{
			Verified:      domain.Ptr(false),
			Step:          domain.Ptr(domain.AuthStepIdentifier),
			Identifier:    domain.Ptr(""),
			OTPRetries:    domain.Ptr(0),
			FailureChoice: domain.Ptr(domain.FailureChoice("")),
		},
		Registry: &domain.RegistryPatch{
			RetryChoice: domain.Ptr(domain.LookupChoice("")),
		},
	}, nil
}
