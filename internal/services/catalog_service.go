package services

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"tripforge/internal/models/db_models"
	"tripforge/internal/repositories"
	"tripforge/pkg/utils"
)

// CatalogServiceInterface turns raw catalog rows into sanitized canonical
// POIs. Sanitation happens here defensively on every load; the core never
// trusts upstream normalization.
type CatalogServiceInterface interface {
	LoadCity(ctx context.Context, city string) ([]db_models.POI, error)
	LoadCategory(ctx context.Context, city string, category db_models.Category) ([]db_models.POI, error)
}

type catalogService struct {
	catalog repositories.POICatalog
	logger  *zap.Logger
}

func NewCatalogService(catalog repositories.POICatalog, logger *zap.Logger) CatalogServiceInterface {
	return &catalogService{catalog: catalog, logger: logger}
}

func (s *catalogService) LoadCity(ctx context.Context, city string) ([]db_models.POI, error) {
	records, err := s.catalog.ListByCity(ctx, city)
	if err != nil {
		s.logger.Error("catalog query failed", zap.String("city", city), zap.Error(err))
		return nil, utils.ErrDatabaseError
	}

	pois := make([]db_models.POI, 0, len(records))
	seen := make(map[string]struct{}, len(records))
	for i, rec := range records {
		poi := sanitizeRecord(rec, i, city)
		key := poi.UniqueKey()
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		pois = append(pois, poi)
	}

	s.logger.Debug("catalog loaded",
		zap.String("city", city),
		zap.Int("records", len(records)),
		zap.Int("pois", len(pois)))
	return pois, nil
}

func (s *catalogService) LoadCategory(ctx context.Context, city string, category db_models.Category) ([]db_models.POI, error) {
	all, err := s.LoadCity(ctx, city)
	if err != nil {
		return nil, err
	}
	var out []db_models.POI
	for _, poi := range all {
		if poi.Category == category {
			out = append(out, poi)
		}
	}
	return out, nil
}

// sanitizeRecord never fails: malformed fields degrade to absent values and a
// usable name is always synthesized.
func sanitizeRecord(rec db_models.POIRecord, row int, city string) db_models.POI {
	name := strings.TrimSpace(rec.Name)
	if name == "" {
		name = strings.TrimSpace(rec.PlaceID)
	}
	if name == "" {
		name = strings.TrimSpace(rec.Address)
	}
	if name == "" {
		name = fmt.Sprintf("poi-%d", row)
	}

	poi := db_models.POI{
		Name:        name,
		Category:    db_models.CanonicalCategory(rec.Category),
		Tags:        utils.SplitTags(rec.Tag),
		RawTag:      rec.Tag,
		Description: rec.Description,
		Address:     rec.Address,
		City:        city,
		PlaceID:     strings.TrimSpace(rec.PlaceID),
		ImageURL1:   rec.ImageURL1,
		ImageURL2:   rec.ImageURL2,
	}

	if lat, ok := utils.ParseCoordinate(rec.Lat); ok {
		if lon, ok := utils.ParseCoordinate(rec.Lon); ok && utils.ValidCoordinates(lat, lon) {
			poi.Lat = &lat
			poi.Lon = &lon
		}
	}
	if cost, ok := utils.ParseNumeric(rec.AvgCost); ok && cost >= 0 {
		poi.AvgCost = &cost
	}
	if rating, ok := utils.ParseNumeric(rec.Rating); ok && rating >= 0 {
		poi.Rating = &rating
	}
	return poi
}
