package pricing

import (
	"fmt"

	"github.com/spf13/viper"
)

// BedroomRate is the flat price and base labour hours for a property size
type BedroomRate struct {
	Price float64 `mapstructure:"price" json:"price"`
	Hours float64 `mapstructure:"hours" json:"hours"`
}

type CommercialRates struct {
	RatePerHour      float64 `mapstructure:"rate_per_hour" json:"ratePerHour"`
	M2PerCleanerHour float64 `mapstructure:"m2_per_cleaner_hour" json:"m2PerCleanerHour"`
	MinHours         float64 `mapstructure:"min_hours" json:"minHours"`
}

type CarpetPrices struct {
	Room     float64 `mapstructure:"room" json:"room"`
	Stairs   float64 `mapstructure:"stairs" json:"stairs"`
	Rug      float64 `mapstructure:"rug" json:"rug"`
	Sofa2    float64 `mapstructure:"sofa2" json:"sofa2"`
	Sofa3    float64 `mapstructure:"sofa3" json:"sofa3"`
	Armchair float64 `mapstructure:"armchair" json:"armchair"`
	Mattress float64 `mapstructure:"mattress" json:"mattress"`
}

type AddonPrices struct {
	Oven          float64 `mapstructure:"oven" json:"oven"`
	Fridge        float64 `mapstructure:"fridge" json:"fridge"`
	Cabinets      float64 `mapstructure:"cabinets" json:"cabinets"`
	Limescale     float64 `mapstructure:"limescale" json:"limescale"`
	WindowPerPane float64 `mapstructure:"window_per_pane" json:"windowPerPane"`
	WindowsMin    float64 `mapstructure:"windows_min" json:"windowsMin"`
}

// ModifierRates holds percentage multipliers (as fractions) and flat surcharges
type ModifierRates struct {
	UrgentPct  float64 `mapstructure:"urgent_pct" json:"urgentPct"`
	WeekendPct float64 `mapstructure:"weekend_pct" json:"weekendPct"`
	NoLift     float64 `mapstructure:"no_lift" json:"noLift"`
	OuterArea  float64 `mapstructure:"outer_area" json:"outerArea"`
}

type Minimums struct {
	Domestic   float64 `mapstructure:"domestic" json:"domestic"`
	Commercial float64 `mapstructure:"commercial" json:"commercial"`
}

// Table is the complete static pricing configuration bound by an Engine
type Table struct {
	EndOfTenancy      map[string]BedroomRate `mapstructure:"end_of_tenancy" json:"endOfTenancy"`
	Deep              map[string]BedroomRate `mapstructure:"deep" json:"deep"`
	Commercial        CommercialRates        `mapstructure:"commercial" json:"commercial"`
	Carpets           CarpetPrices           `mapstructure:"carpets" json:"carpets"`
	Addons            AddonPrices            `mapstructure:"addons" json:"addons"`
	Modifiers         ModifierRates          `mapstructure:"modifiers" json:"modifiers"`
	BundleDiscountPct float64                `mapstructure:"bundle_discount_pct" json:"bundleDiscountPct"`
	Minimums          Minimums               `mapstructure:"minimums" json:"minimums"`
	VATRate           float64                `mapstructure:"vat_rate" json:"vatRate"`
	EstimateBandPct   float64                `mapstructure:"estimate_band_pct" json:"estimateBandPct"`
	HoursPerCleaner   float64                `mapstructure:"hours_per_cleaner" json:"hoursPerCleaner"`
}

// DefaultTable returns the published price list
func DefaultTable() Table {
	return Table{
		EndOfTenancy: map[string]BedroomRate{
			"studio": {Price: 110, Hours: 3},
			"1":      {Price: 130, Hours: 4},
			"2":      {Price: 160, Hours: 6},
			"3":      {Price: 200, Hours: 8},
			"4":      {Price: 250, Hours: 10},
			"5plus":  {Price: 300, Hours: 12},
		},
		Deep: map[string]BedroomRate{
			"studio": {Price: 90, Hours: 3},
			"1":      {Price: 110, Hours: 4},
			"2":      {Price: 140, Hours: 5},
			"3":      {Price: 175, Hours: 7},
			"4":      {Price: 215, Hours: 9},
			"5plus":  {Price: 260, Hours: 11},
		},
		Commercial: CommercialRates{
			RatePerHour:      20,
			M2PerCleanerHour: 60,
			MinHours:         2,
		},
		Carpets: CarpetPrices{
			Room:     25,
			Stairs:   30,
			Rug:      30,
			Sofa2:    40,
			Sofa3:    55,
			Armchair: 20,
			Mattress: 35,
		},
		Addons: AddonPrices{
			Oven:          35,
			Fridge:        20,
			Cabinets:      20,
			Limescale:     15,
			WindowPerPane: 3,
			WindowsMin:    15,
		},
		Modifiers: ModifierRates{
			UrgentPct:  0.20,
			WeekendPct: 0.10,
			NoLift:     10,
			OuterArea:  10,
		},
		BundleDiscountPct: 0.10,
		Minimums: Minimums{
			Domestic:   80,
			Commercial: 120,
		},
		VATRate:         0.20,
		EstimateBandPct: 0.10,
		HoursPerCleaner: 4,
	}
}

// LoadTable reads a YAML (or JSON/TOML) price list. Keys missing from the
// file keep their DefaultTable values.
func LoadTable(path string) (Table, error) {
	table := DefaultTable()
	if path == "" {
		return table, nil
	}

	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return Table{}, fmt.Errorf("failed to read pricing table %s: %w", path, err)
	}

	if err := v.Unmarshal(&table); err != nil {
		return Table{}, fmt.Errorf("failed to decode pricing table: %w", err)
	}

	if err := table.Validate(); err != nil {
		return Table{}, fmt.Errorf("invalid pricing table: %w", err)
	}

	return table, nil
}

// Validate rejects tables the engine cannot price with
func (t Table) Validate() error {
	if t.Commercial.M2PerCleanerHour <= 0 {
		return fmt.Errorf("commercial.m2_per_cleaner_hour must be positive")
	}
	if t.HoursPerCleaner <= 0 {
		return fmt.Errorf("hours_per_cleaner must be positive")
	}
	if t.VATRate < 0 || t.EstimateBandPct < 0 || t.BundleDiscountPct < 0 {
		return fmt.Errorf("rates must not be negative")
	}
	return nil
}
