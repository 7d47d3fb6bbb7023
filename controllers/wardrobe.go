package controllers

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"

	"closetapi/models"
	"closetapi/services"
	"closetapi/tasks"

	"github.com/getsentry/sentry-go"
	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/labstack/echo/v4"
)

type AddImageIn struct {
	ImageB64 string `json:"image_b64" validate:"required"`
}

type AddImageResponse struct {
	Narrative string         `json:"narrative"`
	Article   models.Article `json:"article"`
}

type OutfitIn struct {
	Prompt string `json:"prompt" validate:"required,max=1000"`
}

type OutfitResponse struct {
	Narrative string           `json:"narrative"`
	Articles  []models.Article `json:"articles"`
	ImageB64  string           `json:"image_b64"`
	ImageMIME string           `json:"image_mime"`
	ImageURL  *string          `json:"image_url,omitempty"`
}

type ClosetListResponse struct {
	Articles []models.Article `json:"articles"`
}

type WardrobeController struct {
	Store      services.ClosetStoreProvider
	LLM        services.LLMProvider
	Weather    services.WeatherProvider
	AWSService services.AWSServiceProvider
	URLCache   services.URLCacheServiceProvider
}

func (controller *WardrobeController) WardrobeRoutes(e *echo.Echo) {
	e.POST("/add_image", controller.AddImage)
	e.POST("/outfit", controller.Outfit)
	e.GET("/closet", controller.ListCloset)
}

// errorStatus maps pipeline failure kinds to HTTP codes. Schema violations
// and malformed payloads are the caller-visible 422s; upstream trouble is a
// 502 so clients can tell our bug from a dependency outage.
func errorStatus(err error) int {
	var fieldErr *models.FieldError
	switch {
	case errors.As(err, &fieldErr):
		return http.StatusUnprocessableEntity
	case errors.Is(err, services.ErrMalformedPayload), errors.Is(err, services.ErrUnknownArticle):
		return http.StatusUnprocessableEntity
	case errors.Is(err, services.ErrEmptyResponse),
		errors.Is(err, services.ErrMissingImagePart),
		errors.Is(err, services.ErrUpstreamUnavailable):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

func (controller *WardrobeController) AddImage(c echo.Context) error {
	var req AddImageIn
	if err := c.Bind(&req); err != nil {
		fmt.Println(err)
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}
	if err := c.Validate(req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	image, err := base64.StdEncoding.DecodeString(req.ImageB64)
	if err != nil || len(image) == 0 {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "image_b64 is not valid base64 image data"})
	}

	extraction := services.ExtractionService{LLM: controller.LLM, Store: controller.Store}
	result, err := extraction.Extract(c.Request().Context(), image)
	if err != nil {
		return c.JSON(errorStatus(err), map[string]string{"error": err.Error()})
	}

	controller.enqueueNarration(c, "extraction", result.Article.ID, result.Narrative)

	return c.JSON(http.StatusCreated, AddImageResponse{
		Narrative: result.Narrative,
		Article:   result.Article,
	})
}

func (controller *WardrobeController) Outfit(c echo.Context) error {
	var req OutfitIn
	if err := c.Bind(&req); err != nil {
		fmt.Println(err)
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}
	if err := c.Validate(req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	recommendation := services.RecommendationService{
		LLM:      controller.LLM,
		Weather:  controller.Weather,
		Store:    controller.Store,
		Mode:     services.GetEnv("RECOMMEND_MODE", services.ModeFreeform),
		Location: services.GetEnv("WEATHER_LOCATION", "Los Angeles"),
		Gender:   services.GetEnv("WARDROBE_GENDER", "male"),
	}
	result, err := recommendation.Recommend(c.Request().Context(), req.Prompt)
	if err != nil {
		return c.JSON(errorStatus(err), map[string]string{"error": err.Error()})
	}

	response := OutfitResponse{
		Narrative: result.Narrative,
		Articles:  result.Articles,
		ImageB64:  base64.StdEncoding.EncodeToString(result.Image),
		ImageMIME: result.ImageMIME,
	}
	if url := controller.storeRender(c.Request().Context(), result.Image); url != "" {
		response.ImageURL = &url
	}

	controller.enqueueNarration(c, "outfit", uuid.NewString(), result.Narrative)

	return c.JSON(http.StatusOK, response)
}

func (controller *WardrobeController) ListCloset(c echo.Context) error {
	articles, err := controller.Store.ScanArticles(c.Request().Context())
	if err != nil {
		sentry.CaptureException(err)
		return c.JSON(errorStatus(err), map[string]string{"error": "Failed to fetch closet"})
	}
	if articles == nil {
		articles = []models.Article{}
	}
	return c.JSON(http.StatusOK, ClosetListResponse{Articles: articles})
}

// storeRender persists the rendered outfit to the bucket and returns a cached
// presigned read URL. Best effort: the response already carries the image
// bytes, so any failure here only loses the convenience link.
func (controller *WardrobeController) storeRender(ctx context.Context, image []byte) string {
	if controller.AWSService == nil || controller.URLCache == nil {
		return ""
	}
	bucketName := services.GetEnv("R2_BUCKET_NAME", "")
	objectKey := fmt.Sprintf("renders/outfit-%s.png", uuid.NewString())

	uploadUrl, err := controller.AWSService.PresignLink(ctx, bucketName, objectKey)
	if err != nil {
		sentry.CaptureException(fmt.Errorf("[Outfit] render presign failed: %w", err))
		return ""
	}
	_, statusCode, err := controller.AWSService.UploadToPresignedURL(ctx, bucketName, uploadUrl, image)
	if err != nil || statusCode != 200 {
		sentry.CaptureException(fmt.Errorf("[Outfit] render upload failed, status %d: %v", statusCode, err))
		return ""
	}
	url, err := controller.URLCache.GetReadURL(ctx, objectKey)
	if err != nil {
		sentry.CaptureException(fmt.Errorf("[Outfit] render read URL failed: %w", err))
		return ""
	}
	return url
}

// enqueueNarration hands the narrative to the speech worker. A missing queue
// client or a failed enqueue never touches the primary response.
func (controller *WardrobeController) enqueueNarration(c echo.Context, kind, refID, narrative string) {
	asynqClient, ok := c.Get("__asynqclient").(*asynq.Client)
	if !ok || asynqClient == nil {
		fmt.Printf("[%s: %s] No queue client, skipping narration\n", kind, refID)
		return
	}
	task, err := tasks.NewNarrationTask(kind, refID, narrative)
	if err != nil {
		sentry.CaptureException(fmt.Errorf("[%s: %s] failed to create narration task: %w", kind, refID, err))
		return
	}
	info, err := asynqClient.Enqueue(task, asynq.MaxRetry(3), asynq.Queue("speech"))
	if err != nil {
		sentry.CaptureException(fmt.Errorf("[%s: %s] failed to enqueue narration: %w", kind, refID, err))
		return
	}
	fmt.Println("[Queue] Narration task submitted, Ref: ", refID, " Task ID: ", info.ID)
}
