package ollama

import (
	"context"
	"encoding/json"
	"errors"
	"reflect"

	"github.com/medkg/medgraph/pkg/ai"

	"github.com/ollama/ollama/api"
	"github.com/pkoukk/tiktoken-go"
)

// GenerateText sends a single-turn prompt and returns assistant text.
func (c *Client) GenerateText(
	ctx context.Context,
	prompt string,
	opts ...ai.GenerateOption,
) (string, error) {
	options := ai.GenerateOptions{
		Model:       c.answerModel,
		Temperature: 0.7,
	}
	for _, o := range opts {
		o(&options)
	}

	req, err := buildChatRequest(options, prompt)
	if err != nil {
		return "", err
	}

	final, err := c.doChat(ctx, req)
	if err != nil {
		return "", err
	}

	return final.Message.Content, nil
}

// GenerateStructured sends a prompt with a generic JSON format constraint and
// decodes the response leniently. An error indicates a failed request, never
// malformed output.
func (c *Client) GenerateStructured(
	ctx context.Context,
	prompt string,
	opts ...ai.GenerateOption,
) (any, error) {
	options := ai.GenerateOptions{
		Model:       c.extractionModel,
		Temperature: 0.1,
	}
	for _, o := range opts {
		o(&options)
	}

	req, err := buildChatRequest(options, prompt)
	if err != nil {
		return nil, err
	}
	req.Format = json.RawMessage(`"json"`)

	final, err := c.doChat(ctx, req)
	if err != nil {
		return nil, err
	}

	value, _ := ai.DecodeLenient(final.Message.Content)
	return value, nil
}

// GenerateStructuredAs enforces a JSON schema derived from out and unmarshals
// the response into it. The name and description parameters are accepted for
// interface parity; Ollama constrains output through the schema alone.
func (c *Client) GenerateStructuredAs(
	ctx context.Context,
	name string,
	description string,
	prompt string,
	out any,
	opts ...ai.GenerateOption,
) error {
	if out == nil {
		return errors.New("out must be a non-nil pointer")
	}
	rv := reflect.ValueOf(out)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return errors.New("out must be a non-nil pointer")
	}

	schemaObj := ai.GenerateSchema(out)
	formatBytes, err := json.Marshal(schemaObj)
	if err != nil {
		return err
	}

	options := ai.GenerateOptions{
		Model:       c.extractionModel,
		Temperature: 0.1,
	}
	for _, o := range opts {
		o(&options)
	}

	req, err := buildChatRequest(options, prompt)
	if err != nil {
		return err
	}
	req.Format = json.RawMessage(formatBytes)

	final, err := c.doChat(ctx, req)
	if err != nil {
		return err
	}

	return ai.DecodeInto(final.Message.Content, out)
}

func buildChatRequest(options ai.GenerateOptions, prompt string) (*api.ChatRequest, error) {
	msgs := []api.Message{}
	for _, sp := range options.SystemPrompts {
		msgs = append(msgs, api.Message{Role: "system", Content: sp})
	}
	msgs = append(msgs, api.Message{Role: "user", Content: prompt})

	stream := false
	req := &api.ChatRequest{
		Model:    options.Model,
		Messages: msgs,
		Stream:   &stream,
		Options:  map[string]any{"temperature": options.Temperature},
	}
	if options.MaxTokens > 0 {
		req.Options["num_predict"] = options.MaxTokens
	}
	if options.TopP > 0 {
		req.Options["top_p"] = options.TopP
	}

	// Grow the context window when the prompt alone exceeds the default.
	enc, err := tiktoken.GetEncoding("o200k_base")
	if err != nil {
		return nil, err
	}
	tokens := 200 + len(enc.Encode(prompt, nil, nil))
	if tokens > 4096 {
		req.Options["num_ctx"] = tokens
	}

	return req, nil
}

func (c *Client) doChat(ctx context.Context, req *api.ChatRequest) (*api.ChatResponse, error) {
	if err := c.reqLock.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	defer c.reqLock.Release(1)

	var final api.ChatResponse
	if err := c.Client.Chat(ctx, req, func(cr api.ChatResponse) error {
		final.Message.Content += cr.Message.Content
		if cr.Done {
			final.Done = true
			final.Metrics = cr.Metrics
		}
		return nil
	}); err != nil {
		return nil, err
	}

	durationMs := final.Metrics.TotalDuration.Milliseconds()
	c.modifyMetrics(ai.ModelMetrics{
		InputTokens:  final.Metrics.PromptEvalCount,
		OutputTokens: final.Metrics.EvalCount,
		TotalTokens:  final.Metrics.PromptEvalCount + final.Metrics.EvalCount,
		DurationMs:   durationMs,
	})

	return &final, nil
}
