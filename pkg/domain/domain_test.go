package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessageIDStable(t *testing.T) {
	a := MessageID(RoleHuman, "hello", 3)
	b := MessageID(RoleHuman, "hello", 3)
	assert.Equal(t, a, b, "same inputs must hash to the same id")
	assert.NotEqual(t, a, MessageID(RoleHuman, "hello", 4))
	assert.NotEqual(t, a, MessageID(RoleAssistant, "hello", 3))
	assert.Contains(t, a, "human-")
}

func TestAppendMessageAssignsID(t *testing.T) {
	s := NewState("t1")
	s.AppendMessage(NewHuman("hi"))
	s.AppendMessage(NewAssistant("hello", Option{Label: "Yes", Value: "yes"}))

	require.Len(t, s.Messages, 2)
	assert.Equal(t, MessageID(RoleHuman, "hi", 0), s.Messages[0].ID)
	assert.Equal(t, MessageID(RoleAssistant, "hello", 1), s.Messages[1].ID)

	// Explicit IDs survive untouched.
	s.AppendMessage(Message{ID: "custom", Role: RoleHuman, Content: "x"})
	assert.Equal(t, "custom", s.Messages[2].ID)
}

func TestPatchApplyOverwritesOnlySetFields(t *testing.T) {
	s := NewState("t1")
	s.Auth.Identifier = "ana@example.com"
	s.Auth.Kind = IdentifierEmail

	p := Patch{
		Auth: &AuthPatch{
			Step:       Ptr(AuthStepOTP),
			OTPRetries: Ptr(1),
		},
	}
	p.Apply(s)

	assert.Equal(t, AuthStepOTP, s.Auth.Step)
	assert.Equal(t, 1, s.Auth.OTPRetries)
	assert.Equal(t, "ana@example.com", s.Auth.Identifier, "unset fields stay")
	assert.Equal(t, IdentifierEmail, s.Auth.Kind)
}

func TestPatchApplyIdempotentForSlots(t *testing.T) {
	s := NewState("t1")
	p := Patch{
		SupportType: Ptr(SupportService),
		Registry:    &RegistryPatch{Found: Ptr(true), CustomerID: Ptr("C-001")},
		Service:     &ServicePatch{Step: Ptr(ServiceStepResolution)},
	}
	p.Apply(s)
	first := s.Clone()
	p.Apply(s)

	assert.Equal(t, first.SupportType, s.SupportType)
	assert.Equal(t, first.Registry, s.Registry)
	assert.Equal(t, first.Service, s.Service)
}

func TestPatchApplyAppendsMessages(t *testing.T) {
	s := NewState("t1")
	s.AppendMessage(NewHuman("hi"))

	p := Patch{Messages: []Message{NewAssistant("welcome")}}
	p.Apply(s)

	require.Len(t, s.Messages, 2)
	assert.Equal(t, RoleAssistant, s.Messages[1].Role)
	assert.Equal(t, MessageID(RoleAssistant, "welcome", 1), s.Messages[1].ID)
}

func TestPatchIsZero(t *testing.T) {
	assert.True(t, Patch{}.IsZero())
	assert.False(t, Patch{AwaitInput: true}.IsZero())
	assert.False(t, Patch{Greeted: Ptr(true)}.IsZero())
	assert.False(t, Patch{Messages: []Message{NewAssistant("x")}}.IsZero())
}

func TestCloneIsDeep(t *testing.T) {
	s := NewState("t1")
	s.Registry.Found = Ptr(true)
	s.Service.Metrics = []MetricSample{{SiteID: "S-1", Week: "2025-W01", ProductionKWh: 120}}
	s.AppendMessage(NewHuman("hi"))

	c := s.Clone()
	*c.Registry.Found = false
	c.Service.Metrics[0].ProductionKWh = 0
	c.Messages[0].Content = "changed"

	assert.True(t, *s.Registry.Found)
	assert.Equal(t, 120.0, s.Service.Metrics[0].ProductionKWh)
	assert.Equal(t, "hi", s.Messages[0].Content)
}

func TestLastHuman(t *testing.T) {
	s := NewState("t1")
	_, ok := s.LastHuman()
	assert.False(t, ok)

	s.AppendMessage(NewHuman("question"))
	got, ok := s.LastHuman()
	require.True(t, ok)
	assert.Equal(t, "question", got)

	s.AppendMessage(NewAssistant("answer"))
	_, ok = s.LastHuman()
	assert.False(t, ok, "assistant reply consumes the pending human input")
}
