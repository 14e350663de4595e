package openfoodfacts

import (
	"encoding/json"
	"testing"

	"github.com/caloriefinder/backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(v float64) *float64 { return &v }

func TestExtractNutrition(t *testing.T) {
	tests := []struct {
		name       string
		nutriments map[string]any
		want       domain.NutritionSummary
	}{
		{
			name: "all four nutrients",
			nutriments: map[string]any{
				"energy-kcal_100g":   149.0,
				"proteins_100g":      7.7,
				"fat_100g":           7.9,
				"carbohydrates_100g": 11.7,
				"salt_100g":          0.1,
			},
			want: domain.NutritionSummary{
				Kcal100g:    ptr(149),
				Protein100g: ptr(7.7),
				Fat100g:     ptr(7.9),
				Carbs100g:   ptr(11.7),
			},
		},
		{
			name: "missing keys stay absent",
			nutriments: map[string]any{
				"energy-kcal_100g":   52.0,
				"carbohydrates_100g": 14.0,
			},
			want: domain.NutritionSummary{
				Kcal100g:  ptr(52),
				Carbs100g: ptr(14),
			},
		},
		{
			name: "zero is treated as absent",
			nutriments: map[string]any{
				"energy-kcal_100g": 0.0,
				"fat_100g":         0,
			},
			want: domain.NutritionSummary{},
		},
		{
			name: "numeric strings are coerced",
			nutriments: map[string]any{
				"proteins_100g":      " 3.2 ",
				"fat_100g":           "n/a",
				"carbohydrates_100g": "",
			},
			want: domain.NutritionSummary{
				Protein100g: ptr(3.2),
			},
		},
		{
			name: "json numbers and ints",
			nutriments: map[string]any{
				"energy-kcal_100g": json.Number("250"),
				"proteins_100g":    int64(12),
			},
			want: domain.NutritionSummary{
				Kcal100g:    ptr(250),
				Protein100g: ptr(12),
			},
		},
		{
			name: "non-numeric values are absent",
			nutriments: map[string]any{
				"energy-kcal_100g": true,
				"proteins_100g":    nil,
				"fat_100g":         map[string]any{"value": 3},
			},
			want: domain.NutritionSummary{},
		},
		{
			name:       "nil mapping",
			nutriments: nil,
			want:       domain.NutritionSummary{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractNutrition(tt.nutriments)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtractNutrition_MissingKeyNeverZero(t *testing.T) {
	keys := []string{NutrimentKeyEnergyKcal, NutrimentKeyProteins, NutrimentKeyFat, NutrimentKeyCarbohydrate}

	for _, missing := range keys {
		nutriments := map[string]any{}
		for _, k := range keys {
			if k != missing {
				nutriments[k] = 1.0
			}
		}

		got := ExtractNutrition(nutriments)
		fields := map[string]*float64{
			NutrimentKeyEnergyKcal:   got.Kcal100g,
			NutrimentKeyProteins:     got.Protein100g,
			NutrimentKeyFat:          got.Fat100g,
			NutrimentKeyCarbohydrate: got.Carbs100g,
		}
		for k, v := range fields {
			if k == missing {
				assert.Nil(t, v, "field for %s should be absent", k)
			} else {
				require.NotNil(t, v, "field for %s should be present", k)
			}
		}
	}
}

func TestNormalizeProduct(t *testing.T) {
	nutriments := map[string]any{"energy-kcal_100g": 60.0}

	tests := []struct {
		name string
		raw  domain.RawProduct
		want domain.ProductRecord
	}{
		{
			name: "complete product is trimmed",
			raw: domain.RawProduct{
				Code:       "3017620422003",
				Name:       "  Nutella ",
				Brands:     " Ferrero",
				Quantity:   "400 g",
				Nutriments: nutriments,
			},
			want: domain.ProductRecord{
				Name:       "Nutella",
				Brand:      "Ferrero",
				Barcode:    "3017620422003",
				Quantity:   "400 g",
				Nutriments: nutriments,
			},
		},
		{
			name: "blank name and null brand become placeholders",
			raw: domain.RawProduct{
				Name:   "   ",
				Brands: "null",
			},
			want: domain.ProductRecord{
				Name:     domain.UnknownProductName,
				Brand:    domain.MissingValue,
				Barcode:  domain.MissingValue,
				Quantity: domain.MissingValue,
			},
		},
		{
			name: "empty name with brand",
			raw: domain.RawProduct{
				Name:   "",
				Brands: "Acme",
			},
			want: domain.ProductRecord{
				Name:     domain.UnknownProductName,
				Brand:    "Acme",
				Barcode:  domain.MissingValue,
				Quantity: domain.MissingValue,
			},
		},
		{
			name: "null name",
			raw: domain.RawProduct{
				Name:   "null",
				Brands: "Acme",
				Code:   "12345678",
			},
			want: domain.ProductRecord{
				Name:     domain.UnknownProductName,
				Brand:    "Acme",
				Barcode:  "12345678",
				Quantity: domain.MissingValue,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeProduct(tt.raw))
		})
	}
}

func TestNormalizeProduct_Idempotent(t *testing.T) {
	inputs := []domain.RawProduct{
		{Name: " Oat Drink ", Brands: "Oatly", Code: "7394376616037", Quantity: "1 l"},
		{Name: "", Brands: ""},
		{Name: "null", Brands: "null", Nutriments: map[string]any{"fat_100g": 1.5}},
	}

	for _, raw := range inputs {
		once := NormalizeProduct(raw)
		twice := NormalizeProduct(once.AsRaw())
		assert.Equal(t, once, twice)
	}
}
