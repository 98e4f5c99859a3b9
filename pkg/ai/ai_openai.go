package ai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/kotrzina/calassist/pkg/config"
	"github.com/kotrzina/calassist/pkg/prometheus"
	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
	"github.com/sirupsen/logrus"
)

type OpenAi struct {
	baseURL    string
	model      string
	httpClient *http.Client

	monitor *prometheus.Monitor
	logger  *logrus.Logger
}

func NewOpenAi(conf *config.Config, m *prometheus.Monitor, l *logrus.Logger) *OpenAi {
	return &OpenAi{
		baseURL: conf.OpenAiBaseURL,
		model:   conf.OpenAiModel,

		monitor: m,
		logger:  l,
	}
}

func (ai *OpenAi) Name() string {
	return config.ProviderOpenAi
}

func (ai *OpenAi) Model() string {
	return ai.model
}

// client is created for every call because the API key comes with the request
func (ai *OpenAi) client(apiKey string) openai.Client {
	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithBaseURL(ai.baseURL),
		option.WithMaxRetries(0),
	}
	if ai.httpClient != nil {
		opts = append(opts, option.WithHTTPClient(ai.httpClient))
	}

	return openai.NewClient(opts...)
}

func (ai *OpenAi) Complete(ctx context.Context, apiKey string, conversation Conversation) (Reply, error) {
	if err := checkConversation(apiKey, conversation); err != nil {
		return Reply{}, err
	}

	history := conversation.Messages()
	messages := make([]openai.ChatCompletionMessageParamUnion, len(history))
	for i, message := range history {
		switch message.Role {
		case RoleSystem:
			messages[i] = openai.SystemMessage(message.Content)
		case RoleAssistant:
			messages[i] = openai.AssistantMessage(message.Content)
		default:
			messages[i] = openai.UserMessage(message.Content)
		}
	}

	param := openai.ChatCompletionNewParams{
		Messages: messages,
		Model:    ai.model,
	}

	client := ai.client(apiKey)

	start := time.Now()
	resp, err := client.Chat.Completions.New(ctx, param)
	ai.monitor.CompletionDuration.WithLabelValues(ai.Name()).Observe(time.Since(start).Seconds())
	if err != nil {
		var apiErr *openai.Error
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized {
			return Reply{}, ErrInvalidAPIKey
		}

		return Reply{}, fmt.Errorf("openai client error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return Reply{}, errors.New("openai response contains no choices")
	}

	ai.monitor.OpenAiInputTokens.WithLabelValues().Add(float64(resp.Usage.PromptTokens))
	ai.monitor.OpenAiOutputTokens.WithLabelValues().Add(float64(resp.Usage.CompletionTokens))

	ai.logger.WithField("billing", "input").Infof("OpenAI input tokens: %d", resp.Usage.PromptTokens)
	ai.logger.WithField("billing", "output").Infof("OpenAI output tokens: %d", resp.Usage.CompletionTokens)

	return Reply{
		Message: Message{
			Role:    RoleAssistant,
			Content: resp.Choices[0].Message.Content,
		},
		Cost: Cost{
			Input:  int(resp.Usage.PromptTokens),
			Output: int(resp.Usage.CompletionTokens),
		},
	}, nil
}
