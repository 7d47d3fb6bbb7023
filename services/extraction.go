package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"closetapi/models"

	"github.com/getsentry/sentry-go"
	"github.com/google/uuid"
)

// ExtractionService turns one clothing photo into a validated Article in the
// closet store plus a spoken-style confirmation. Validation happens strictly
// before persistence; a failed request never leaves a partial record behind.
type ExtractionService struct {
	LLM   LLMProvider
	Store ClosetStoreProvider
}

type ExtractionResult struct {
	Article   models.Article
	Narrative string
}

type extractionPayload struct {
	Article   models.Article `json:"article"`
	Narrative string         `json:"narrative"`
}

func (s *ExtractionService) Extract(ctx context.Context, image []byte) (*ExtractionResult, error) {
	mimeType := http.DetectContentType(image)
	fmt.Printf("[Extract] Image size: %d bytes, type: %s\n", len(image), mimeType)

	raw, err := s.LLM.ExtractArticle(ctx, image, mimeType)
	if err != nil {
		sentry.CaptureException(fmt.Errorf("[Extract] inference failed: %w", err))
		return nil, err
	}

	payloadText, err := ExtractJSONPayload(raw)
	if err != nil {
		sentry.CaptureException(fmt.Errorf("[Extract] payload extraction failed: %w", err))
		return nil, err
	}

	var payload extractionPayload
	if err := json.Unmarshal([]byte(payloadText), &payload); err != nil {
		sentry.CaptureException(fmt.Errorf("[Extract] JSON parse failed on %q: %v", payloadText, err))
		return nil, fmt.Errorf("failed to parse extraction response %q: %v: %w", payloadText, err, ErrMalformedPayload)
	}

	if err := models.ValidateArticle(&payload.Article); err != nil {
		sentry.CaptureException(fmt.Errorf("[Extract] schema violation: %w", err))
		return nil, err
	}

	payload.Article.ID = uuid.NewString()

	if err := s.Store.PutArticle(ctx, payload.Article); err != nil {
		sentry.CaptureException(fmt.Errorf("[Extract] store put failed: %w", err))
		return nil, err
	}
	fmt.Printf("[Extract] Article %s (%s / %s) saved\n", payload.Article.ID, payload.Article.MainCategory, payload.Article.SubCategory)

	return &ExtractionResult{Article: payload.Article, Narrative: payload.Narrative}, nil
}
