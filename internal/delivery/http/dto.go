package http

import (
	"strconv"

	"github.com/caloriefinder/backend/internal/domain"
	"github.com/caloriefinder/backend/internal/usecase"
)

const nothingFoundMessage = "nothing found"

// nutritionDisplay holds table-ready strings: kcal without decimals, grams with one
type nutritionDisplay struct {
	Kcal    string `json:"kcal"`
	Protein string `json:"protein"`
	Fat     string `json:"fat"`
	Carbs   string `json:"carbs"`
}

type productResponse struct {
	Name      string                  `json:"name"`
	Brand     string                  `json:"brand"`
	Barcode   string                  `json:"barcode"`
	Quantity  string                  `json:"quantity"`
	Nutrition domain.NutritionSummary `json:"nutrition"`
	Display   nutritionDisplay        `json:"display"`
}

type searchResponse struct {
	Seq      uint64            `json:"seq"`
	Query    string            `json:"query"`
	Kind     domain.QueryKind  `json:"kind"`
	Count    int               `json:"count"`
	Products []productResponse `json:"products"`
	Message  string            `json:"message,omitempty"`
}

func newProductResponse(record domain.ProductRecord, nutrition domain.NutritionSummary) productResponse {
	return productResponse{
		Name:      record.Name,
		Brand:     record.Brand,
		Barcode:   record.Barcode,
		Quantity:  record.Quantity,
		Nutrition: nutrition,
		Display: nutritionDisplay{
			Kcal:    formatNutrient(nutrition.Kcal100g, 0),
			Protein: formatNutrient(nutrition.Protein100g, 1),
			Fat:     formatNutrient(nutrition.Fat100g, 1),
			Carbs:   formatNutrient(nutrition.Carbs100g, 1),
		},
	}
}

func newSearchResponse(result *domain.SearchResult) searchResponse {
	resp := searchResponse{
		Seq:      result.Seq,
		Query:    result.Query,
		Kind:     result.Kind,
		Count:    len(result.Products),
		Products: make([]productResponse, 0, len(result.Products)),
	}
	for _, record := range result.Products {
		resp.Products = append(resp.Products, newProductResponse(record, usecase.ExtractNutrition(record.Nutriments)))
	}
	if result.Empty() {
		resp.Message = nothingFoundMessage
	}
	return resp
}

func formatNutrient(v *float64, decimals int) string {
	if v == nil {
		return domain.MissingValue
	}
	return strconv.FormatFloat(*v, 'f', decimals, 64)
}
