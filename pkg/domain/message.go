package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
)

// Role identifies the author of a conversation message.
type Role string

const (
	RoleHuman     Role = "human"
	RoleAssistant Role = "ai"
)

// Option is a clickable choice attached to an assistant message. The UI
// renders the label and sends the value back as a human message.
type Option struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Message is one turn of the conversation. ID is stable across re-renders:
// when empty it is derived from role, content, and list position at the
// moment the message is appended to the state (see Patch.Apply).
type Message struct {
	ID      string   `json:"id"`
	Role    Role     `json:"type"`
	Content string   `json:"content"`
	Options []Option `json:"options,omitempty"`
}

// NewAssistant builds an assistant message with optional choice buttons.
func NewAssistant(content string, options ...Option) Message {
	return Message{Role: RoleAssistant, Content: content, Options: options}
}

// NewHuman builds a human message.
func NewHuman(content string) Message {
	return Message{Role: RoleHuman, Content: content}
}

// MessageID derives a stable identifier for a message at a given position.
// The same role, content, and position always hash to the same ID, which the
// UI relies on to reconcile re-rendered histories.
func MessageID(role Role, content string, position int) string {
	sum := sha256.Sum256([]byte(string(role) + "\x00" + content + "\x00" + strconv.Itoa(position)))
	return string(role) + "-" + hex.EncodeToString(sum[:6])
}
