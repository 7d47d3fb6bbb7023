package services

import (
	"context"
	"fmt"

	"closetapi/models"
)

// ContextSnapshot is the {weather, catalog} bundle gathered fresh for one
// recommendation request.
type ContextSnapshot struct {
	Weather *WeatherSnapshot
	Catalog []models.Article
}

type ContextService struct {
	Weather  WeatherProvider
	Store    ClosetStoreProvider
	Location string
}

// Snapshot fetches live weather for the configured location and the full
// catalog. Either failure aborts the whole recommendation, there is no
// degraded mode.
func (s *ContextService) Snapshot(ctx context.Context) (*ContextSnapshot, error) {
	weather, err := s.Weather.Current(ctx, s.Location)
	if err != nil {
		return nil, fmt.Errorf("context weather fetch: %w", err)
	}
	catalog, err := s.Store.ScanArticles(ctx)
	if err != nil {
		return nil, fmt.Errorf("context catalog scan: %w", err)
	}
	return &ContextSnapshot{Weather: weather, Catalog: catalog}, nil
}
