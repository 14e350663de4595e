package domain

// NutritionSummary holds the per-100g macronutrients of a product.
// A nil field means the provider did not report a (non-zero) value.
type NutritionSummary struct {
	Kcal100g    *float64 `json:"kcal_100g,omitempty"`
	Protein100g *float64 `json:"protein_100g,omitempty"`
	Fat100g     *float64 `json:"fat_100g,omitempty"`
	Carbs100g   *float64 `json:"carbs_100g,omitempty"`
}

// IsEmpty reports whether no nutrient is known
func (n NutritionSummary) IsEmpty() bool {
	return n.Kcal100g == nil && n.Protein100g == nil && n.Fat100g == nil && n.Carbs100g == nil
}
