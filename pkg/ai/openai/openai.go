package openai

import (
	"sync"

	"github.com/medkg/medgraph/pkg/ai"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

// Client talks to an OpenAI-compatible chat completion API. The builder uses
// it against DeepSeek for extraction and against the same endpoint for answer
// generation.
//
// A Client should be created using NewClient.
type Client struct {
	extractionModel string
	answerModel     string

	baseURL string
	apiKey  string

	metricsLock sync.Mutex
	metrics     ai.ModelMetrics

	ChatClient *openai.Client
}

// NewClientParams defines the configuration for creating a new Client.
//
// ExtractionModel is used for structured extraction calls.
// AnswerModel is used for free-text answer generation.
// BaseURL and APIKey configure the chat completion endpoint.
type NewClientParams struct {
	ExtractionModel string
	AnswerModel     string

	BaseURL string
	APIKey  string
}

// NewClient creates a Client configured with the provided parameters.
//
// Example:
//
//	client := openai.NewClient(openai.NewClientParams{
//		ExtractionModel: "deepseek-chat",
//		AnswerModel:     "deepseek-chat",
//		BaseURL:         "https://api.deepseek.com/v1",
//		APIKey:          os.Getenv("DEEPSEEK_API_KEY"),
//	})
func NewClient(params NewClientParams) *Client {
	chatClient := newOpenaiClient(params.BaseURL, params.APIKey)

	return &Client{
		extractionModel: params.ExtractionModel,
		answerModel:     params.AnswerModel,

		baseURL: params.BaseURL,
		apiKey:  params.APIKey,

		metricsLock: sync.Mutex{},
		metrics: ai.ModelMetrics{
			InputTokens:  0,
			OutputTokens: 0,
			TotalTokens:  0,
			DurationMs:   0,
		},

		ChatClient: chatClient,
	}
}

func newOpenaiClient(
	baseURL string,
	apiKey string,
) *openai.Client {
	if apiKey == "" {
		return nil
	}
	options := []option.RequestOption{
		option.WithAPIKey(apiKey),
	}

	if baseURL != "" {
		options = append(options, option.WithBaseURL(baseURL))
	}

	client := openai.NewClient(options...)

	return &client
}

func (c *Client) modifyMetrics(delta ai.ModelMetrics) {
	c.metricsLock.Lock()
	defer c.metricsLock.Unlock()

	c.metrics.InputTokens += delta.InputTokens
	c.metrics.OutputTokens += delta.OutputTokens
	c.metrics.TotalTokens += delta.TotalTokens
	c.metrics.DurationMs += delta.DurationMs
}

// ResetMetrics clears the accumulated token and duration counters.
func (c *Client) ResetMetrics() {
	c.metricsLock.Lock()
	defer c.metricsLock.Unlock()

	c.metrics = ai.ModelMetrics{}
}

// GetMetrics returns a snapshot of the accumulated usage metrics.
func (c *Client) GetMetrics() ai.ModelMetrics {
	c.metricsLock.Lock()
	defer c.metricsLock.Unlock()

	return c.metrics
}
