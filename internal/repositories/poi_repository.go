package repositories

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"tripforge/internal/models/db_models"
	"tripforge/pkg/utils"
)

// POICatalog supplies raw catalog rows for a city. Filling the table is the
// ingestion collaborator's job; the planning core only reads.
type POICatalog interface {
	ListByCity(ctx context.Context, city string) ([]db_models.POIRecord, error)
}

type poiCatalog struct {
	db *gorm.DB
}

func NewPOICatalog(db *gorm.DB) POICatalog {
	return &poiCatalog{db: db}
}

func (r *poiCatalog) ListByCity(ctx context.Context, city string) ([]db_models.POIRecord, error) {
	var records []db_models.POIRecord
	err := r.db.WithContext(ctx).
		Where("lower(city) = ?", strings.ToLower(strings.TrimSpace(city))).
		Find(&records).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return records, nil
}

// memoryCatalog serves a fixed record set; used by tests and offline runs.
type memoryCatalog struct {
	records []db_models.POIRecord
}

func NewMemoryCatalog(records []db_models.POIRecord) POICatalog {
	return &memoryCatalog{records: records}
}

func (m *memoryCatalog) ListByCity(_ context.Context, city string) ([]db_models.POIRecord, error) {
	want := utils.Fold(strings.TrimSpace(city))
	var out []db_models.POIRecord
	for _, rec := range m.records {
		if utils.Fold(rec.City) == want {
			out = append(out, rec)
		}
	}
	return out, nil
}
