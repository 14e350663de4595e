package openfoodfacts

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/caloriefinder/backend/internal/domain"
)

const (
	DefaultBaseURL        = "https://world.openfoodfacts.org"
	DefaultUserAgent      = "FoodCalorieFinder/2.0"
	DefaultLookupTimeout  = 8 * time.Second
	DefaultSearchTimeout  = 10 * time.Second
	DefaultSearchPageSize = 20
)

// Config holds the provider settings of the client
type Config struct {
	BaseURL       string
	UserAgent     string
	LookupTimeout time.Duration
	SearchTimeout time.Duration
}

// Client handles communication with the Open Food Facts API
type Client struct {
	httpClient    *http.Client
	cache         domain.LookupCache
	baseURL       string
	userAgent     string
	lookupTimeout time.Duration
	searchTimeout time.Duration
	debug         bool
}

// NewClient creates a new Open Food Facts client.
// Successful barcode lookups are stored in cache, which must not be nil.
func NewClient(cfg Config, cache domain.LookupCache) *Client {
	c := &Client{
		httpClient:    &http.Client{},
		cache:         cache,
		baseURL:       strings.TrimRight(cfg.BaseURL, "/"),
		userAgent:     cfg.UserAgent,
		lookupTimeout: cfg.LookupTimeout,
		searchTimeout: cfg.SearchTimeout,
	}

	if c.baseURL == "" {
		c.baseURL = DefaultBaseURL
	}
	if c.userAgent == "" {
		c.userAgent = DefaultUserAgent
	}
	if c.lookupTimeout <= 0 {
		c.lookupTimeout = DefaultLookupTimeout
	}
	if c.searchTimeout <= 0 {
		c.searchTimeout = DefaultSearchTimeout
	}

	return c
}

// SetDebug enables verbose request logging
func (c *Client) SetDebug(debug bool) {
	c.debug = debug
}

// doRequest executes an HTTP GET request with proper headers and error handling
func (c *Client) doRequest(ctx context.Context, reqURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	if c.debug {
		log.Printf("[OFF] GET %s", reqURL)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}

	return resp, nil
}

// LookupByBarcode fetches the product document for a barcode.
// Cached documents are returned without a network call. Unknown products and
// non-200 answers yield the canonical not-found document with a nil error;
// network and decoding failures yield a *domain.LookupError.
func (c *Client) LookupByBarcode(ctx context.Context, barcode string) (*domain.LookupResponse, error) {
	cached, err := c.cache.Get(ctx, barcode)
	if err == nil {
		if c.debug {
			log.Printf("[OFF] Cache hit for barcode %s", barcode)
		}
		return cached, nil
	}
	if !errors.Is(err, domain.ErrCacheMiss) {
		log.Printf("[OFF] Cache read failed for barcode %s: %v", barcode, err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.lookupTimeout)
	defer cancel()

	reqURL := fmt.Sprintf("%s/api/v0/product/%s.json", c.baseURL, url.PathEscape(barcode))

	resp, err := c.doRequest(ctx, reqURL)
	if err != nil {
		log.Printf("[OFF] Lookup request error for %s: %v", barcode, err)
		return nil, &domain.LookupError{Barcode: barcode, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		log.Printf("[OFF] Lookup of %s returned status %d", barcode, resp.StatusCode)
		return domain.NotFoundResponse(), nil
	}

	var doc domain.LookupResponse
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		log.Printf("[OFF] JSON decode error for %s: %v", barcode, err)
		return nil, &domain.LookupError{Barcode: barcode, Err: fmt.Errorf("failed to decode response: %w", err)}
	}

	if !doc.Found() {
		log.Printf("[OFF] No product for barcode %s", barcode)
		return domain.NotFoundResponse(), nil
	}

	if err := c.cache.Set(ctx, barcode, &doc); err != nil {
		log.Printf("[OFF] Cache write failed for barcode %s: %v", barcode, err)
	}

	return &doc, nil
}

// SearchByName runs a full-text product search.
// Products with neither a name nor a brand are dropped; provider order is kept.
func (c *Client) SearchByName(ctx context.Context, query string, pageSize int) ([]domain.RawProduct, error) {
	log.Printf("[OFF] SearchByName called with query: %q", query)

	if pageSize <= 0 {
		pageSize = DefaultSearchPageSize
	}

	ctx, cancel := context.WithTimeout(ctx, c.searchTimeout)
	defer cancel()

	params := url.Values{}
	params.Add("search_terms", query)
	params.Add("json", "1")
	params.Add("page_size", strconv.Itoa(pageSize))

	reqURL := fmt.Sprintf("%s/cgi/search.pl?%s", c.baseURL, params.Encode())

	resp, err := c.doRequest(ctx, reqURL)
	if err != nil {
		log.Printf("[OFF] Search request error for %q: %v", query, err)
		return nil, &domain.SearchError{Query: query, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		log.Printf("[OFF] Search API error - Status: %d, Body: %s", resp.StatusCode, string(body))
		return nil, &domain.SearchError{Query: query, Err: fmt.Errorf("unexpected status %d", resp.StatusCode)}
	}

	var searchResp domain.SearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&searchResp); err != nil {
		log.Printf("[OFF] JSON decode error: %v", err)
		return nil, &domain.SearchError{Query: query, Err: fmt.Errorf("failed to decode response: %w", err)}
	}

	products := make([]domain.RawProduct, 0, len(searchResp.Products))
	for _, p := range searchResp.Products {
		if p.Name != "" || p.Brands != "" {
			products = append(products, p)
		}
	}

	log.Printf("[OFF] Found %d products for query: %q", len(products), query)
	return products, nil
}
