package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/caloriefinder/backend/internal/domain"
	"github.com/caloriefinder/backend/internal/usecase"
	"github.com/gin-gonic/gin"
)

// Handler holds dependencies for HTTP handlers
type Handler struct {
	searchService  *usecase.SearchService
	originPatterns []string
}

// NewHandler creates a new HTTP handler.
// searchService may be nil; product endpoints then answer 501.
func NewHandler(searchService *usecase.SearchService, allowedOrigins []string) *Handler {
	return &Handler{
		searchService:  searchService,
		originPatterns: wsOriginPatterns(allowedOrigins),
	}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "caloriefinder-backend",
		"version": "1.0.0",
	})
}

// SearchProducts handles GET /api/v1/products/search?q=...
// The search runs as a background task; the handler waits for its single outcome.
func (h *Handler) SearchProducts(c *gin.Context) {
	if !h.configured(c) {
		return
	}

	var (
		status int
		body   any
	)
	task := h.searchService.Execute(c.Request.Context(), c.Query("q"), usecase.Callbacks{
		OnSuccess: func(result *domain.SearchResult) {
			status, body = http.StatusOK, newSearchResponse(result)
		},
		OnFailure: func(err error) {
			status, body = errorStatus(err), gin.H{"error": err.Error()}
		},
	})
	<-task.Done()

	c.JSON(status, body)
}

// GetProduct handles GET /api/v1/products/:barcode for the detail view
func (h *Handler) GetProduct(c *gin.Context) {
	if !h.configured(c) {
		return
	}

	details, err := h.searchService.Details(c.Request.Context(), c.Param("barcode"))
	if err != nil {
		c.JSON(errorStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, newProductResponse(details.Product, details.Nutrition))
}

func (h *Handler) configured(c *gin.Context) bool {
	if h.searchService == nil {
		c.JSON(http.StatusNotImplemented, gin.H{
			"error": "Product search not configured",
		})
		return false
	}
	return true
}

// errorStatus maps domain errors onto HTTP status codes
func errorStatus(err error) int {
	switch {
	case errors.Is(err, domain.ErrEmptyQuery):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrProductNotFound):
		return http.StatusNotFound
	case errors.Is(err, context.Canceled):
		return http.StatusServiceUnavailable
	case errors.Is(err, domain.ErrProviderFailure):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
