package ai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/kotrzina/calassist/pkg/config"
	"github.com/kotrzina/calassist/pkg/prometheus"
	"github.com/liushuangls/go-anthropic/v2"
	"github.com/sirupsen/logrus"
)

const anthropicAuthenticationError = "authentication_error"

type Anthropic struct {
	baseURL   string
	model     string
	maxTokens int

	monitor *prometheus.Monitor
	logger  *logrus.Logger
}

func NewAnthropic(conf *config.Config, m *prometheus.Monitor, l *logrus.Logger) *Anthropic {
	return &Anthropic{
		baseURL:   conf.AnthropicBaseURL,
		model:     conf.AnthropicModel,
		maxTokens: 1000,

		monitor: m,
		logger:  l,
	}
}

func (ai *Anthropic) Name() string {
	return config.ProviderAnthropic
}

func (ai *Anthropic) Model() string {
	return ai.model
}

func (ai *Anthropic) Complete(ctx context.Context, apiKey string, conversation Conversation) (Reply, error) {
	if err := checkConversation(apiKey, conversation); err != nil {
		return Reply{}, err
	}

	// system messages go to the dedicated field
	var messages []anthropic.Message
	for _, message := range conversation.Messages() {
		switch message.Role {
		case RoleSystem:
			continue
		case RoleAssistant:
			messages = append(messages, anthropic.NewAssistantTextMessage(message.Content))
		default:
			messages = append(messages, anthropic.NewUserTextMessage(message.Content))
		}
	}

	if len(messages) == 0 {
		return Reply{}, errors.New("no user messages")
	}

	client := anthropic.NewClient(apiKey, anthropic.WithBaseURL(ai.baseURL))

	start := time.Now()
	resp, err := client.CreateMessages(ctx, anthropic.MessagesRequest{
		Model:     anthropic.Model(ai.model),
		System:    conversation.System(),
		Messages:  messages,
		MaxTokens: ai.maxTokens,
	})
	ai.monitor.CompletionDuration.WithLabelValues(ai.Name()).Observe(time.Since(start).Seconds())
	if err != nil {
		var reqErr *anthropic.RequestError
		if errors.As(err, &reqErr) && reqErr.StatusCode == http.StatusUnauthorized {
			return Reply{}, ErrInvalidAPIKey
		}

		var e *anthropic.APIError
		if errors.As(err, &e) {
			if string(e.Type) == anthropicAuthenticationError {
				return Reply{}, ErrInvalidAPIKey
			}

			return Reply{}, fmt.Errorf("messages error, type: %s, message: %s", e.Type, e.Message)
		}

		return Reply{}, fmt.Errorf("messages error: %w", err)
	}

	if len(resp.Content) == 0 {
		return Reply{}, errors.New("anthropic response contains no content")
	}

	ai.monitor.AnthropicInputTokens.WithLabelValues().Add(float64(resp.Usage.InputTokens))
	ai.monitor.AnthropicOutputTokens.WithLabelValues().Add(float64(resp.Usage.OutputTokens))

	ai.logger.WithField("billing", "input").Infof("Anthropic input tokens: %d", resp.Usage.InputTokens)
	ai.logger.WithField("billing", "output").Infof("Anthropic output tokens: %d", resp.Usage.OutputTokens)

	return Reply{
		Message: Message{
			Role:    RoleAssistant,
			Content: resp.Content[len(resp.Content)-1].GetText(),
		},
		Cost: Cost{
			Input:  resp.Usage.InputTokens,
			Output: resp.Usage.OutputTokens,
		},
	}, nil
}
