package models

// CleaningService is a catalog entry shown on the public site
type CleaningService struct {
	Slug      string  `json:"slug"`
	Name      string  `json:"name"`
	Summary   string  `json:"summary"`
	FromPrice float64 `json:"fromPrice"`
}
