package services

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"closetapi/models"

	"google.golang.org/genai"
)

// LLMModelName selects the Gemini model for a call.
type LLMModelName int32

const (
	Flash25 LLMModelName = iota
	Flash25Image
	Pro25
)

func (t LLMModelName) String() string {
	switch t {
	case Flash25:
		return "gemini-2.5-flash"
	case Flash25Image:
		return "gemini-2.5-flash-image-preview"
	case Pro25:
		return "gemini-2.5-pro"
	default:
		return "gemini-2.5-flash"
	}
}

const inferenceTimeout = 120 * time.Second

func floatPointer(f float32) *float32 {
	return &f
}

// LLMProvider is the inference gateway contract. It shapes requests and
// unwraps responses, nothing else; all parsing and validation of the returned
// text happens in the pipelines.
type LLMProvider interface {
	ExtractArticle(ctx context.Context, image []byte, mimeType string) (string, error)
	Recommend(ctx context.Context, prompt string) (string, error)
	Visualize(ctx context.Context, prompt string) ([]byte, string, error)
}

type GeminiService struct {
	client *genai.Client
}

func NewGeminiService(ctx context.Context) (*GeminiService, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  os.Getenv("GOOGLE_API_KEY"),
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}
	return &GeminiService{client: client}, nil
}

// The extraction instruction asks for a sassy spoken confirmation plus the
// article fields. The schema rides inside the prompt because the service has
// no out-of-band schema binding; hex colors are demanded explicitly.
func extractionInstruction() string {
	return `You are a fashion closet assistant cataloging a clothing item from a photo. ` +
		`Analyze the clothing item in the image and respond with a single JSON object: ` +
		`{"article": Article, "narrative": string}. ` +
		`Article must use ONLY this JSON schema: ` + models.PromptSchema() + `. ` +
		`Leave the "id" field out, it is assigned later. ` +
		`All color values must be 6-digit hex strings like "#c0ffee", never color names. ` +
		`The "narrative" is a short, sassy spoken confirmation that the item was added to the closet, ` +
		`mentioning what the item is. Return only the JSON object.`
}

func (g *GeminiService) ExtractArticle(ctx context.Context, image []byte, mimeType string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, inferenceTimeout)
	defer cancel()

	if mimeType == "" {
		mimeType = http.DetectContentType(image)
	}
	parts := []*genai.Part{
		{InlineData: &genai.Blob{MIMEType: mimeType, Data: image}},
		{Text: extractionInstruction()},
	}

	result, err := g.client.Models.GenerateContent(ctx, Flash25.String(), []*genai.Content{{Parts: parts}}, &genai.GenerateContentConfig{
		CandidateCount:  1,
		MaxOutputTokens: 8192,
		Temperature:     floatPointer(0.8),
	})
	if err != nil {
		return "", fmt.Errorf("extract call failed: %v: %w", err, ErrUpstreamUnavailable)
	}
	if result.PromptFeedback != nil {
		return "", fmt.Errorf("content violation: %s: %w", result.PromptFeedback.BlockReasonMessage, ErrEmptyResponse)
	}
	text := result.Text()
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("extract call: %w", ErrEmptyResponse)
	}
	if result.UsageMetadata != nil {
		fmt.Printf("[Gemini] Extract tokens IT: %d, OT: %d, TOT: %d\n",
			result.UsageMetadata.PromptTokenCount, result.UsageMetadata.CandidatesTokenCount, result.UsageMetadata.TotalTokenCount)
	}
	return text, nil
}

func (g *GeminiService) Recommend(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, inferenceTimeout)
	defer cancel()

	parts := []*genai.Part{{Text: prompt}}
	result, err := g.client.Models.GenerateContent(ctx, Flash25.String(), []*genai.Content{{Parts: parts}}, &genai.GenerateContentConfig{
		CandidateCount:  1,
		MaxOutputTokens: 16384,
		Temperature:     floatPointer(0.8),
	})
	if err != nil {
		return "", fmt.Errorf("recommend call failed: %v: %w", err, ErrUpstreamUnavailable)
	}
	if result.PromptFeedback != nil {
		return "", fmt.Errorf("content violation: %s: %w", result.PromptFeedback.BlockReasonMessage, ErrEmptyResponse)
	}
	text := result.Text()
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("recommend call: %w", ErrEmptyResponse)
	}
	return text, nil
}

// Visualize requests an image generation and scans every returned part for
// the first inline image payload. Text-only responses are a hard failure: a
// recommendation without a render is not returned.
func (g *GeminiService) Visualize(ctx context.Context, prompt string) ([]byte, string, error) {
	ctx, cancel := context.WithTimeout(ctx, inferenceTimeout)
	defer cancel()

	parts := []*genai.Part{{Text: prompt}}
	result, err := g.client.Models.GenerateContent(ctx, Flash25Image.String(), []*genai.Content{{Parts: parts}}, &genai.GenerateContentConfig{
		CandidateCount:  1,
		MaxOutputTokens: 32768,
		Temperature:     floatPointer(1),
	})
	if err != nil {
		return nil, "", fmt.Errorf("visualize call failed: %v: %w", err, ErrUpstreamUnavailable)
	}
	if result.PromptFeedback != nil {
		return nil, "", fmt.Errorf("content violation: %s: %w", result.PromptFeedback.BlockReasonMessage, ErrMissingImagePart)
	}
	return firstInlineImage(result)
}

func firstInlineImage(result *genai.GenerateContentResponse) ([]byte, string, error) {
	if result == nil {
		return nil, "", fmt.Errorf("nil response: %w", ErrMissingImagePart)
	}
	for _, cand := range result.Candidates {
		for _, rating := range cand.SafetyRatings {
			if rating.Blocked {
				return nil, "", fmt.Errorf("content blocked by safety setting %s: %w", rating.Category, ErrMissingImagePart)
			}
		}
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			inline := part.InlineData
			if inline == nil {
				continue
			}
			if strings.HasPrefix(inline.MIMEType, "image/") && len(inline.Data) > 0 {
				return inline.Data, inline.MIMEType, nil
			}
		}
	}
	return nil, "", fmt.Errorf("scanned %d candidates: %w", len(result.Candidates), ErrMissingImagePart)
}
