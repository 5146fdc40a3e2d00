package service

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/Padi142/beer-guesser/internal/domain"
	"github.com/Padi142/beer-guesser/internal/llm"
)

const (
	guessMaxTokens = 10000

	// Returned when the model reply carries no <guess> tag. Not an
	// error: the raw reasoning still goes back to the caller.
	unknownBrand = "Unknown"

	guessSystemPrompt = "You are a Czech beer brand classifier. For each example, shortly reason first, then provide the final brand inside <guess>...</guess> tags."
)

// First match wins, case-insensitive, dot matches newlines.
var guessTagRe = regexp.MustCompile(`(?is)<guess>(.*?)</guess>`)

type GuessService interface {
	Guess(ctx context.Context, description string, allowedBrands []string, model domain.GuessModel) (*domain.GuessResponse, error)
}

type guessService struct {
	llm llm.Client
	log *zap.Logger
}

func NewGuessService(client llm.Client, log *zap.Logger) GuessService {
	return &guessService{
		llm: client,
		log: log,
	}
}

// Guess asks the text model to pick one brand from allowedBrands for
// the given description. The extracted brand is not validated against
// the candidate list; whatever the model put inside the tag passes
// through verbatim.
func (s *guessService) Guess(ctx context.Context, description string, allowedBrands []string, model domain.GuessModel) (*domain.GuessResponse, error) {
	s.log.Info("Guess requested",
		zap.Int("descriptionLength", len(description)),
		zap.Int("allowedBrandsCount", len(allowedBrands)),
		zap.String("model", string(model)))

	brandList := strings.Join(allowedBrands, ", ")
	prompt := fmt.Sprintf(`Identify the most likely Czech beer brand from this bottle description. Think step-by-step, then put your final answer inside <guess>...</guess>.
Description: %s
Candidate brands (choose one exact name): %s`, description, brandList)

	text, err := s.llm.Complete(ctx, llm.CompletionRequest{
		Model:     model.UpstreamID(),
		System:    guessSystemPrompt,
		Text:      prompt,
		MaxTokens: guessMaxTokens,
	})
	if err != nil {
		return nil, err
	}

	brand := extractBrand(text)

	s.log.Info("Guess completed",
		zap.String("model", string(model)),
		zap.String("brand", brand),
		zap.Int("reasoningLength", len(text)))

	return &domain.GuessResponse{
		Brand:     brand,
		Reasoning: text,
	}, nil
}

func extractBrand(text string) string {
	match := guessTagRe.FindStringSubmatch(text)
	if match == nil {
		return unknownBrand
	}
	return strings.TrimSpace(match[1])
}
