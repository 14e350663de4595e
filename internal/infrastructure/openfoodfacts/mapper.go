package openfoodfacts

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/caloriefinder/backend/internal/domain"
)

// Open Food Facts nutriment keys for key macronutrients
const (
	NutrimentKeyEnergyKcal   = "energy-kcal_100g"
	NutrimentKeyProteins     = "proteins_100g"
	NutrimentKeyFat          = "fat_100g"
	NutrimentKeyCarbohydrate = "carbohydrates_100g"
)

// nullSentinel is what the provider sometimes stores instead of an absent value
const nullSentinel = "null"

// ExtractNutrition picks the four macronutrients out of a nutriments mapping.
// A field is set only when the source value is present and non-zero.
func ExtractNutrition(nutriments map[string]any) domain.NutritionSummary {
	var summary domain.NutritionSummary
	if len(nutriments) == 0 {
		return summary
	}

	summary.Kcal100g = nutrimentValue(nutriments, NutrimentKeyEnergyKcal)
	summary.Protein100g = nutrimentValue(nutriments, NutrimentKeyProteins)
	summary.Fat100g = nutrimentValue(nutriments, NutrimentKeyFat)
	summary.Carbs100g = nutrimentValue(nutriments, NutrimentKeyCarbohydrate)

	return summary
}

// nutrimentValue coerces a nutriment to a number, or nil when absent or zero.
// Non-empty numeric strings count as present even when they parse to zero.
func nutrimentValue(nutriments map[string]any, key string) *float64 {
	switch v := nutriments[key].(type) {
	case float64:
		return truthy(v)
	case float32:
		return truthy(float64(v))
	case int:
		return truthy(float64(v))
	case int64:
		return truthy(float64(v))
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return nil
		}
		return truthy(f)
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return nil
		}
		return &f
	}
	return nil
}

func truthy(v float64) *float64 {
	if v == 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

// NormalizeProduct turns a provider product into a display record.
// Blank or "null" names and brands become placeholders; absent barcode and
// quantity become domain.MissingValue. Applying it to its own output is a no-op.
func NormalizeProduct(raw domain.RawProduct) domain.ProductRecord {
	return domain.ProductRecord{
		Name:       displayText(raw.Name, domain.UnknownProductName),
		Brand:      displayText(raw.Brands, domain.MissingValue),
		Barcode:    orMissing(raw.Code),
		Quantity:   orMissing(raw.Quantity),
		Nutriments: raw.Nutriments,
	}
}

func displayText(s, placeholder string) string {
	s = strings.TrimSpace(s)
	if s == "" || s == nullSentinel {
		return placeholder
	}
	return s
}

func orMissing(s string) string {
	if s == "" {
		return domain.MissingValue
	}
	return s
}
