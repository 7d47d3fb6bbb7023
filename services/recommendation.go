package services

import (
	"context"
	"encoding/json"
	"fmt"

	"closetapi/models"

	"github.com/getsentry/sentry-go"
)

// Recommendation modes. Strict resolves every recommended id against the
// catalog snapshot and fails on unknown ids; freeform accepts articles as the
// model returned them, including re-described ones.
const (
	ModeStrict   = "strict"
	ModeFreeform = "freeform"
)

// RecommendationService turns a free-text ask plus live context into a
// selected article subset, a narrative and a rendered visualization. Every
// external call is single-shot; any failure aborts the whole request.
type RecommendationService struct {
	LLM      LLMProvider
	Weather  WeatherProvider
	Store    ClosetStoreProvider
	Mode     string
	Location string
	Gender   string
}

type OutfitResult struct {
	Articles  []models.Article
	Narrative string
	Image     []byte
	ImageMIME string
}

type recommendationPayload struct {
	Articles  []models.Article `json:"articles"`
	Narrative string           `json:"narrative"`
}

func (s *RecommendationService) Recommend(ctx context.Context, ask string) (*OutfitResult, error) {
	contextService := &ContextService{Weather: s.Weather, Store: s.Store, Location: s.Location}
	snapshot, err := contextService.Snapshot(ctx)
	if err != nil {
		sentry.CaptureException(fmt.Errorf("[Outfit] context snapshot failed: %w", err))
		return nil, err
	}
	fmt.Printf("[Outfit] Context ready: %d articles, weather %q\n", len(snapshot.Catalog), snapshot.Weather.Condition)

	prompt, err := s.selectionPrompt(ask, snapshot)
	if err != nil {
		return nil, err
	}

	raw, err := s.LLM.Recommend(ctx, prompt)
	if err != nil {
		sentry.CaptureException(fmt.Errorf("[Outfit] selection inference failed: %w", err))
		return nil, err
	}

	payloadText, err := ExtractJSONPayload(raw)
	if err != nil {
		sentry.CaptureException(fmt.Errorf("[Outfit] payload extraction failed: %w", err))
		return nil, err
	}

	var payload recommendationPayload
	if err := json.Unmarshal([]byte(payloadText), &payload); err != nil {
		sentry.CaptureException(fmt.Errorf("[Outfit] JSON parse failed on %q: %v", payloadText, err))
		return nil, fmt.Errorf("failed to parse recommendation response %q: %v: %w", payloadText, err, ErrMalformedPayload)
	}

	articles := payload.Articles
	if s.Mode == ModeStrict {
		articles, err = resolveCatalogArticles(articles, snapshot.Catalog)
		if err != nil {
			sentry.CaptureException(fmt.Errorf("[Outfit] strict resolution failed: %w", err))
			return nil, err
		}
	}
	fmt.Printf("[Outfit] Selected %d articles\n", len(articles))

	image, imageMIME, err := s.LLM.Visualize(ctx, visualizationPrompt(articles, s.Gender))
	if err != nil {
		sentry.CaptureException(fmt.Errorf("[Outfit] visualization failed: %w", err))
		return nil, err
	}
	fmt.Printf("[Outfit] Rendered image: %d bytes (%s)\n", len(image), imageMIME)

	return &OutfitResult{
		Articles:  articles,
		Narrative: payload.Narrative,
		Image:     image,
		ImageMIME: imageMIME,
	}, nil
}

func (s *RecommendationService) selectionPrompt(ask string, snapshot *ContextSnapshot) (string, error) {
	catalogJSON, err := json.Marshal(snapshot.Catalog)
	if err != nil {
		return "", fmt.Errorf("failed to encode catalog for prompt: %w", err)
	}
	return fmt.Sprintf(`You are a personal stylist picking an outfit from a closet.

Request: %q
Location: %s
Current weather: %s
The wearer is %s; only pick items with a matching or "Unisex" gender field.

Closet catalog (JSON array of articles): %s

Pick the articles from the catalog that best satisfy the request given the
weather. Respond with a single JSON object {"articles": [Article, ...], "narrative": string}
where each Article keeps the exact field set of the catalog entries including "id",
and "narrative" is a short spoken-style description of the outfit and why it fits
the request and the weather. Return only the JSON object.`,
		ask, s.Location, snapshot.Weather.String(), s.Gender, string(catalogJSON)), nil
}

func visualizationPrompt(articles []models.Article, gender string) string {
	articlesJSON, _ := json.Marshal(articles)
	return fmt.Sprintf(`Generate a photorealistic head-to-torso image of a %s person wearing exactly
these clothing articles together: %s.
Match the colors, fabrics and patterns of every article precisely, using the hex color
values as given. Neutral studio background, natural soft lighting, fashion e-commerce
style. Output an image.`, gender, string(articlesJSON))
}

func resolveCatalogArticles(recommended, catalog []models.Article) ([]models.Article, error) {
	byID := make(map[string]models.Article, len(catalog))
	for _, article := range catalog {
		byID[article.ID] = article
	}
	resolved := make([]models.Article, 0, len(recommended))
	for _, article := range recommended {
		canonical, ok := byID[article.ID]
		if !ok {
			return nil, fmt.Errorf("article id %q: %w", article.ID, ErrUnknownArticle)
		}
		resolved = append(resolved, canonical)
	}
	return resolved, nil
}
