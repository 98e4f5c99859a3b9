package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/kotrzina/calassist/pkg/config"
	"github.com/kotrzina/calassist/pkg/prometheus"
	"github.com/sirupsen/logrus"
)

// ErrInvalidAPIKey is returned when the provider rejects the key (HTTP 401)
// or when there is no key at all.
var ErrInvalidAPIKey = errors.New("settings error: incorrect or missing API key")

type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Conversation is an ordered message history of a single invocation
// Appending never modifies the receiver.
type Conversation struct {
	messages []Message
}

// NewConversation starts a conversation with the system instruction
func NewConversation(system string) Conversation {
	return Conversation{messages: []Message{{Role: RoleSystem, Content: system}}}
}

func (c Conversation) With(m Message) Conversation {
	messages := make([]Message, len(c.messages), len(c.messages)+1)
	copy(messages, c.messages)

	return Conversation{messages: append(messages, m)}
}

func (c Conversation) WithUser(text string) Conversation {
	return c.With(Message{Role: RoleUser, Content: text})
}

// Messages returns a copy of the history from the oldest message
func (c Conversation) Messages() []Message {
	messages := make([]Message, len(c.messages))
	copy(messages, c.messages)

	return messages
}

func (c Conversation) Len() int {
	return len(c.messages)
}

// System joins all system messages
func (c Conversation) System() string {
	var parts []string
	for _, m := range c.messages {
		if m.Role == RoleSystem {
			parts = append(parts, m.Content)
		}
	}

	return strings.Join(parts, "\n\n")
}

// Last returns the newest message
func (c Conversation) Last() (Message, bool) {
	if len(c.messages) == 0 {
		return Message{}, false
	}

	return c.messages[len(c.messages)-1], true
}

type Reply struct {
	Message Message `json:"message"`
	Cost    Cost    `json:"cost"`
}

type Cost struct {
	Input  int `json:"input"`
	Output int `json:"output"`
}

// Provider sends a conversation to a chat-completion API
// Complete issues exactly one request and never retries.
type Provider interface {
	Name() string
	Model() string
	Complete(ctx context.Context, apiKey string, conversation Conversation) (Reply, error)
}

func NewProvider(conf *config.Config, m *prometheus.Monitor, l *logrus.Logger) (Provider, error) {
	switch conf.Provider {
	case config.ProviderOpenAi:
		return NewOpenAi(conf, m, l), nil
	case config.ProviderAnthropic:
		return NewAnthropic(conf, m, l), nil
	default:
		return nil, fmt.Errorf("unknown provider: %s", conf.Provider)
	}
}

func checkConversation(apiKey string, conversation Conversation) error {
	if strings.TrimSpace(apiKey) == "" {
		return ErrInvalidAPIKey
	}

	if conversation.Len() == 0 {
		return errors.New("no messages")
	}

	return nil
}
