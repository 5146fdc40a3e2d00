package domain

import (
	"errors"
	"fmt"
	"time"
)

// BeersPrefix scopes every object this application touches within the
// shared bucket. Keys outside it are never listed, deleted or created.
const BeersPrefix = "beers/"

var (
	ErrInvalidKey       = errors.New("key outside beers prefix")
	ErrUnsupportedModel = errors.New("unsupported model")
)

// ImageRecord is one gallery entry, re-derived on every list call.
// Src is a time-limited signed read URL and goes stale after an hour.
type ImageRecord struct {
	ID         string     `json:"id"`
	Src        string     `json:"src"`
	Alt        string     `json:"alt"`
	Filename   string     `json:"filename"`
	UploadedAt *time.Time `json:"uploadedAt"`
	Size       int64      `json:"size"`
}

// UploadTicket permits one direct browser upload to storage at Key.
// Expiry and conditions are enforced by the provider, not tracked here.
type UploadTicket struct {
	URL    string            `json:"url"`
	Fields map[string]string `json:"fields"`
	Key    string            `json:"key"`
}

type DeleteImageRequest struct {
	Key string `json:"key"`
}

type UploadRequest struct {
	FileName string `json:"fileName"`
}

type DescribeRequest struct {
	ImageURL string `json:"imageUrl"`
	Model    string `json:"model"`
}

type DescribeResponse struct {
	Description string `json:"description"`
}

type GuessRequest struct {
	Description   string   `json:"description"`
	AllowedBrands []string `json:"allowedBrands"`
	Model         string   `json:"model"`
}

type GuessResponse struct {
	Brand     string `json:"brand"`
	Reasoning string `json:"reasoning"`
}

// DescriptionModel selects the vision model used for describe requests.
type DescriptionModel string

const (
	DescriptionModelGPT51       DescriptionModel = "gpt-5.1"
	DescriptionModelGeminiFlash DescriptionModel = "gemini-flash"
	DescriptionModelGeminiPro   DescriptionModel = "gemini-pro"
)

const DefaultDescriptionModel = DescriptionModelGeminiFlash

// ResolveDescriptionModel maps a request selector to a known model,
// defaulting when absent and rejecting unknown values at the boundary.
func ResolveDescriptionModel(id string) (DescriptionModel, error) {
	if id == "" {
		return DefaultDescriptionModel, nil
	}
	switch m := DescriptionModel(id); m {
	case DescriptionModelGPT51, DescriptionModelGeminiFlash, DescriptionModelGeminiPro:
		return m, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedModel, id)
}

// UpstreamID returns the full model name sent to the completion service.
func (m DescriptionModel) UpstreamID() string {
	switch m {
	case DescriptionModelGPT51:
		return "openai/gpt-5.1"
	case DescriptionModelGeminiFlash:
		return "google/gemini-2.5-flash"
	case DescriptionModelGeminiPro:
		return "google/gemini-2.5-pro"
	}
	return ""
}

// GuessModel selects the text model used for brand guessing.
type GuessModel string

const GuessModelQwen3 GuessModel = "Qwen/Qwen3-30B-A3B-Instruct-2507:ovtsznhz12dzk34njrvose0m"

const DefaultGuessModel = GuessModelQwen3

func ResolveGuessModel(id string) (GuessModel, error) {
	if id == "" {
		return DefaultGuessModel, nil
	}
	if m := GuessModel(id); m == GuessModelQwen3 {
		return m, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedModel, id)
}

// UpstreamID returns the full model name sent to the completion service.
// For guess models the selector is already the upstream name.
func (m GuessModel) UpstreamID() string {
	return string(m)
}
