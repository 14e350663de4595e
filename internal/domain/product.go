package domain

import "encoding/json"

// Placeholders substituted for absent display fields
const (
	UnknownProductName = "Unknown product"
	MissingValue       = "—"
)

// RawProduct is a product object as returned by the Open Food Facts API.
// Keys without a field of their own are kept in Other so the object
// survives a round trip through the cache. See codec.go for the JSON form.
type RawProduct struct {
	Code       string
	Name       string
	Brands     string
	Quantity   string
	Nutriments map[string]any
	Other      map[string]json.RawMessage
}

// IsEmpty reports whether the provider sent an empty product object
func (p *RawProduct) IsEmpty() bool {
	return p == nil ||
		(p.Code == "" && p.Name == "" && p.Brands == "" && p.Quantity == "" &&
			len(p.Nutriments) == 0 && len(p.Other) == 0)
}

// LookupResponse is the per-barcode document of the product API.
// Status is 1 when the product exists.
type LookupResponse struct {
	Status        int         `json:"status"`
	StatusVerbose string      `json:"status_verbose,omitempty"`
	Code          string      `json:"code,omitempty"`
	Product       *RawProduct `json:"product"`
}

// Found reports whether the document describes an existing product
func (r *LookupResponse) Found() bool {
	return r != nil && r.Status == 1 && !r.Product.IsEmpty()
}

// NotFoundResponse returns the canonical "no such product" document
func NotFoundResponse() *LookupResponse {
	return &LookupResponse{Status: 0, Product: nil}
}

// SearchResponse is the body of the search endpoint
type SearchResponse struct {
	Count    int          `json:"count"`
	Page     int          `json:"page"`
	PageSize int          `json:"page_size"`
	Products []RawProduct `json:"products"`
}

// ProductRecord is a normalized product ready for display.
// Name and Brand are never empty.
type ProductRecord struct {
	Name       string         `json:"name"`
	Brand      string         `json:"brand"`
	Barcode    string         `json:"barcode"`
	Quantity   string         `json:"quantity"`
	Nutriments map[string]any `json:"nutriments,omitempty"`
}

// AsRaw converts the record back into provider shape
func (r ProductRecord) AsRaw() RawProduct {
	return RawProduct{
		Code:       r.Barcode,
		Name:       r.Name,
		Brands:     r.Brand,
		Quantity:   r.Quantity,
		Nutriments: r.Nutriments,
	}
}

// QueryKind tells how a query was routed to the provider
type QueryKind string

const (
	QueryKindBarcode QueryKind = "barcode"
	QueryKindText    QueryKind = "text"
)

// SearchResult is the ordered outcome of one search
type SearchResult struct {
	Seq      uint64          `json:"seq"`
	Query    string          `json:"query"`
	Kind     QueryKind       `json:"kind"`
	Products []ProductRecord `json:"products"`
}

// Empty reports whether nothing was found
func (r *SearchResult) Empty() bool {
	return r == nil || len(r.Products) == 0
}

// ProductDetails backs the product detail view
type ProductDetails struct {
	Product   ProductRecord    `json:"product"`
	Nutrition NutritionSummary `json:"nutrition"`
}
