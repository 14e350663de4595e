package domain

import "context"

// LookupCache stores successful barcode lookups for the process lifetime
type LookupCache interface {
	Get(ctx context.Context, barcode string) (*LookupResponse, error)
	Set(ctx context.Context, barcode string, doc *LookupResponse) error
}

// FoodDataClient defines the interface for talking to the product database
type FoodDataClient interface {
	LookupByBarcode(ctx context.Context, barcode string) (*LookupResponse, error)
	SearchByName(ctx context.Context, query string, pageSize int) ([]RawProduct, error)
}
