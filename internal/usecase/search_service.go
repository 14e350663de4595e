package usecase

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync/atomic"

	"github.com/caloriefinder/backend/internal/domain"
	"github.com/caloriefinder/backend/internal/infrastructure/openfoodfacts"
)

const (
	// DefaultTextPageSize is the result count requested for free-text searches
	DefaultTextPageSize = 25

	// minBarcodeLength is the shortest all-digit query routed to a barcode lookup (EAN-8)
	minBarcodeLength = 8
)

// SearchServiceConfig holds configuration for the search service
type SearchServiceConfig struct {
	TextPageSize       int
	EnableDebugLogging bool
}

// SearchService routes user queries to the food database and shapes the results
type SearchService struct {
	client             domain.FoodDataClient
	textPageSize       int
	enableDebugLogging bool
	seq                atomic.Uint64
}

// NewSearchService creates a new search service with dependencies
func NewSearchService(client domain.FoodDataClient, config SearchServiceConfig) *SearchService {
	pageSize := config.TextPageSize
	if pageSize <= 0 {
		pageSize = DefaultTextPageSize
	}

	return &SearchService{
		client:             client,
		textPageSize:       pageSize,
		enableDebugLogging: config.EnableDebugLogging,
	}
}

// ClassifyQuery decides whether a trimmed query is a barcode or free text.
// Only ASCII digits count; the query must be at least 8 characters long.
func ClassifyQuery(query string) domain.QueryKind {
	if len(query) < minBarcodeLength {
		return domain.QueryKindText
	}
	for i := 0; i < len(query); i++ {
		if query[i] < '0' || query[i] > '9' {
			return domain.QueryKindText
		}
	}
	return domain.QueryKindBarcode
}

// Search runs one query synchronously.
// Flow: trim -> classify -> lookup or search -> normalize -> drop unnamed products.
// An empty result is a success; client failures are returned as-is.
func (s *SearchService) Search(ctx context.Context, query string) (*domain.SearchResult, error) {
	return s.search(ctx, s.nextSeq(), query)
}

func (s *SearchService) nextSeq() uint64 {
	return s.seq.Add(1)
}

func (s *SearchService) search(ctx context.Context, seq uint64, query string) (*domain.SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, domain.ErrEmptyQuery
	}

	kind := ClassifyQuery(query)
	if s.enableDebugLogging {
		log.Printf("[Search] #%d query=%q kind=%s", seq, query, kind)
	}

	var candidates []domain.RawProduct
	switch kind {
	case domain.QueryKindBarcode:
		doc, err := s.client.LookupByBarcode(ctx, query)
		if err != nil {
			return nil, err
		}
		if doc.Found() {
			candidates = []domain.RawProduct{*doc.Product}
		}
	default:
		products, err := s.client.SearchByName(ctx, query, s.textPageSize)
		if err != nil {
			return nil, err
		}
		candidates = products
	}

	records := make([]domain.ProductRecord, 0, len(candidates))
	for _, raw := range candidates {
		record := openfoodfacts.NormalizeProduct(raw)
		if record.Name == domain.UnknownProductName {
			continue
		}
		records = append(records, record)
	}

	if s.enableDebugLogging {
		log.Printf("[Search] #%d %d of %d candidates kept", seq, len(records), len(candidates))
	}

	return &domain.SearchResult{
		Seq:      seq,
		Query:    query,
		Kind:     kind,
		Products: records,
	}, nil
}

// Details loads one product for the detail view.
// The lookup is served from the cache when the barcode was seen before.
func (s *SearchService) Details(ctx context.Context, barcode string) (*domain.ProductDetails, error) {
	barcode = strings.TrimSpace(barcode)
	if barcode == "" || barcode == domain.MissingValue {
		return nil, domain.ErrEmptyQuery
	}

	doc, err := s.client.LookupByBarcode(ctx, barcode)
	if err != nil {
		return nil, err
	}
	if !doc.Found() {
		return nil, fmt.Errorf("%w: %s", domain.ErrProductNotFound, barcode)
	}

	record := openfoodfacts.NormalizeProduct(*doc.Product)
	return &domain.ProductDetails{
		Product:   record,
		Nutrition: openfoodfacts.ExtractNutrition(record.Nutriments),
	}, nil
}

// ExtractNutrition exposes nutrient extraction to consumers of the service
func ExtractNutrition(nutriments map[string]any) domain.NutritionSummary {
	return openfoodfacts.ExtractNutrition(nutriments)
}

// NormalizeProduct exposes product normalization to consumers of the service
func NormalizeProduct(raw domain.RawProduct) domain.ProductRecord {
	return openfoodfacts.NormalizeProduct(raw)
}
