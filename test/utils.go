package test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"

	"closetapi/models"
	"closetapi/services"
)

func JsonString(model interface{}) string {
	bytes, _ := json.Marshal(model)
	return string(bytes)
}

func NewJSONRequest(method string, target string, param interface{}) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(JsonString(param)))
	req.Header.Add("Content-Type", "application/json")
	req.Header.Add("Accept", "application/json")
	return req
}

// LLMMock implements services.LLMProvider with canned responses per
// operation.
type LLMMock struct {
	ExtractResponse   string
	ExtractErr        error
	RecommendResponse string
	RecommendErr      error
	VisualizeImage    []byte
	VisualizeMIME     string
	VisualizeErr      error

	RecommendPrompts []string
	VisualizePrompts []string
}

func (m *LLMMock) ExtractArticle(ctx context.Context, image []byte, mimeType string) (string, error) {
	if m.ExtractErr != nil {
		return "", m.ExtractErr
	}
	return m.ExtractResponse, nil
}

func (m *LLMMock) Recommend(ctx context.Context, prompt string) (string, error) {
	m.RecommendPrompts = append(m.RecommendPrompts, prompt)
	if m.RecommendErr != nil {
		return "", m.RecommendErr
	}
	return m.RecommendResponse, nil
}

func (m *LLMMock) Visualize(ctx context.Context, prompt string) ([]byte, string, error) {
	m.VisualizePrompts = append(m.VisualizePrompts, prompt)
	if m.VisualizeErr != nil {
		return nil, "", m.VisualizeErr
	}
	mime := m.VisualizeMIME
	if mime == "" {
		mime = "image/png"
	}
	return m.VisualizeImage, mime, nil
}

// ClosetStoreMock keeps articles in memory behind the store contract.
type ClosetStoreMock struct {
	mu      sync.Mutex
	Items   []models.Article
	PutErr  error
	ScanErr error
}

func (m *ClosetStoreMock) PutArticle(ctx context.Context, article models.Article) error {
	if m.PutErr != nil {
		return m.PutErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Items = append(m.Items, article)
	return nil
}

func (m *ClosetStoreMock) ScanArticles(ctx context.Context) ([]models.Article, error) {
	if m.ScanErr != nil {
		return nil, m.ScanErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.Article, len(m.Items))
	copy(out, m.Items)
	return out, nil
}

type WeatherMock struct {
	Snapshot *services.WeatherSnapshot
	Err      error
}

func (m *WeatherMock) Current(ctx context.Context, location string) (*services.WeatherSnapshot, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	if m.Snapshot != nil {
		return m.Snapshot, nil
	}
	return &services.WeatherSnapshot{Location: location, Condition: "Sunny", TempC: 24}, nil
}

type SpeechMock struct {
	Audio []byte
	Err   error
	Calls int
}

func (m *SpeechMock) Synthesize(ctx context.Context, text string) ([]byte, error) {
	m.Calls++
	if m.Err != nil {
		return nil, m.Err
	}
	if m.Audio != nil {
		return m.Audio, nil
	}
	return []byte("ID3fake-mp3-bytes"), nil
}

// AWSProviderMock mirrors the provider without touching the network. MockUrl
// can point at an httptest server for upload paths.
type AWSProviderMock struct {
	MockUrl    string
	UploadErr  error
	UploadCode int
	Uploads    [][]byte
}

func (m *AWSProviderMock) InitPresignClient(ctx context.Context) error {
	return nil
}

func (m *AWSProviderMock) PresignLink(ctx context.Context, bucketName string, fileName string) (string, error) {
	if m.MockUrl != "" {
		return m.MockUrl, nil
	}
	return fmt.Sprintf("https://example.com/%s/%s", bucketName, fileName), nil
}

func (m *AWSProviderMock) UploadToPresignedURL(ctx context.Context, bucketName, url string, fileContent []byte) (string, int, error) {
	if m.UploadErr != nil {
		return "", 0, m.UploadErr
	}
	m.Uploads = append(m.Uploads, fileContent)
	code := m.UploadCode
	if code == 0 {
		code = 200
	}
	return "", code, nil
}

func (m *AWSProviderMock) GetPresignedR2FileReadURL(ctx context.Context, bucketName, fileKey string) (string, error) {
	return fmt.Sprintf("https://example.com/read/%s/%s", bucketName, fileKey), nil
}

type URLCacheMock struct{}

func (m *URLCacheMock) GetReadURL(ctx context.Context, objectKey string) (string, error) {
	return "https://example.com/cached/" + objectKey, nil
}
