package domain

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// Provider keys mapped onto RawProduct fields
const (
	keyCode       = "code"
	keyName       = "product_name"
	keyBrands     = "brands"
	keyQuantity   = "quantity"
	keyNutriments = "nutriments"
)

// UnmarshalJSON decodes a product object leniently.
// Scalar values of the text fields are converted to strings; a product that
// is not an object decodes as empty instead of failing the whole response.
func (p *RawProduct) UnmarshalJSON(data []byte) error {
	*p = RawProduct{}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil
	}

	for key, value := range fields {
		switch key {
		case keyCode:
			p.Code = scalarString(value)
		case keyName:
			p.Name = scalarString(value)
		case keyBrands:
			p.Brands = scalarString(value)
		case keyQuantity:
			p.Quantity = scalarString(value)
		case keyNutriments:
			var nutriments map[string]any
			if err := json.Unmarshal(value, &nutriments); err == nil {
				p.Nutriments = nutriments
			}
		default:
			if p.Other == nil {
				p.Other = make(map[string]json.RawMessage)
			}
			p.Other[key] = value
		}
	}

	return nil
}

// MarshalJSON writes the product back in provider shape, unknown keys included
func (p RawProduct) MarshalJSON() ([]byte, error) {
	fields := make(map[string]any, len(p.Other)+5)
	for key, value := range p.Other {
		fields[key] = value
	}

	if p.Code != "" {
		fields[keyCode] = p.Code
	}
	if p.Name != "" {
		fields[keyName] = p.Name
	}
	if p.Brands != "" {
		fields[keyBrands] = p.Brands
	}
	if p.Quantity != "" {
		fields[keyQuantity] = p.Quantity
	}
	if len(p.Nutriments) > 0 {
		fields[keyNutriments] = p.Nutriments
	}

	return json.Marshal(fields)
}

// scalarString renders a JSON scalar as text.
// null, false, zero, objects and arrays count as absent.
func scalarString(raw json.RawMessage) string {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return ""
	}

	switch t := v.(type) {
	case string:
		return t
	case json.Number:
		if f, err := t.Float64(); err == nil && f == 0 {
			return ""
		}
		return t.String()
	case bool:
		if t {
			return strconv.FormatBool(t)
		}
	}
	return ""
}
