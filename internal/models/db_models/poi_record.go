package db_models

// POIRecord is a catalog row exactly as it was ingested. Sources disagree on
// column types, so everything that varies is kept as a raw string; the
// catalog service sanitizes records into POI values and never trusts these
// fields directly.
type POIRecord struct {
	BaseModel
	City        string `gorm:"index"`
	Name        string
	Category    string `gorm:"index"`
	Tag         string
	Description string
	Lat         string
	Lon         string
	AvgCost     string
	Rating      string
	Reviews     string
	Address     string
	ImageURL1   string
	ImageURL2   string
	PlaceID     string
}

func (POIRecord) TableName() string { return "poi_records" }
