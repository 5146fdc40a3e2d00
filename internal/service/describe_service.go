package service

import (
	"context"
	"fmt"
	"net/url"

	"go.uber.org/zap"

	"github.com/Padi142/beer-guesser/internal/domain"
	"github.com/Padi142/beer-guesser/internal/llm"
)

const describeMaxTokens = 8192

// The prompt constrains the model to packaging appearance only. Brand
// names printed on the bottle must stay out of the description so the
// guessing step stays honest.
const describePrompt = `Describe this beer bottle for brand identification only.
Focus strictly on bottle appearance, logo style, visible text, label composition, colors, symbols, and other distinctive packaging features.
Do not mention taste or aroma. Keep it concise and factual.
Do not mention any text that is written in the bottle that would indicate the brand name.
Focus on distinctive features like logo, colors, symbols or animals on the bottle.
Do not output any text not related to the visual description of the bottle. Eq. Based on the image, here is...
Do not format the text. Output plain text without markdown, lists, or extra formatting.
Describe the features of the bottle in grand detail.`

type DescribeService interface {
	Describe(ctx context.Context, imageURL string, model domain.DescriptionModel) (string, error)
}

type describeService struct {
	llm llm.Client
	log *zap.Logger
}

func NewDescribeService(client llm.Client, log *zap.Logger) DescribeService {
	return &describeService{
		llm: client,
		log: log,
	}
}

// Describe asks the vision model for a textual description of the
// bottle at imageURL. One shot, no retry, no caching.
func (s *describeService) Describe(ctx context.Context, imageURL string, model domain.DescriptionModel) (string, error) {
	parsed, err := url.Parse(imageURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return "", fmt.Errorf("invalid image url %q", imageURL)
	}

	text, err := s.llm.Complete(ctx, llm.CompletionRequest{
		Model:     model.UpstreamID(),
		Text:      describePrompt,
		ImageURL:  imageURL,
		MaxTokens: describeMaxTokens,
	})
	if err != nil {
		return "", err
	}

	s.log.Info("Description generated",
		zap.String("model", string(model)),
		zap.Int("descriptionLength", len(text)))

	return text, nil
}
