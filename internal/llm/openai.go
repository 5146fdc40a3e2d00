package llm

import (
	"context"
	"fmt"

	oagc "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

type openAIClient struct {
	oac *oagc.Client
}

var _ Client = &openAIClient{}

// New returns a Client backed by an OpenAI-compatible chat completion
// endpoint. Extra headers are attached to every request.
func New(baseURL, apiKey string, headers map[string]string) Client {
	opts := []option.RequestOption{
		option.WithBaseURL(baseURL),
		option.WithAPIKey(apiKey),
	}
	for k, v := range headers {
		opts = append(opts, option.WithHeader(k, v))
	}

	return &openAIClient{oac: oagc.NewClient(opts...)}
}

func (c *openAIClient) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	var msgs []oagc.ChatCompletionMessageParamUnion
	if req.System != "" {
		msgs = append(msgs, oagc.SystemMessage(req.System))
	}
	if req.ImageURL != "" {
		msgs = append(msgs, oagc.UserMessageParts(
			oagc.TextPart(req.Text),
			oagc.ImagePart(req.ImageURL),
		))
	} else {
		msgs = append(msgs, oagc.UserMessage(req.Text))
	}

	params := oagc.ChatCompletionNewParams{
		Model:    oagc.F(req.Model),
		Messages: oagc.F(msgs),
	}
	if req.MaxTokens > 0 {
		params.MaxTokens = oagc.Int(req.MaxTokens)
	}

	resp, err := c.oac.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("completion returned no choices")
	}

	return resp.Choices[0].Message.Content, nil
}
