// Package api is the thin HTTP layer over the retrieval engine: it parses
// and validates query parameters, invokes the engine and serializes the
// ranked results.
package api

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/pageza/recipesearch/internal/search"
)

// Version reported by the root endpoint.
const Version = "1.0.0"

// SearchHandler exposes the retrieval engine endpoints.
type SearchHandler struct {
	engine *search.Engine
}

// NewSearchHandler creates a handler around a built engine.
func NewSearchHandler(engine *search.Engine) *SearchHandler {
	return &SearchHandler{engine: engine}
}

// RegisterRoutes mounts the search endpoints on the router group.
func (h *SearchHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/search", h.TextSearch)
	router.GET("/ingredient-search", h.IngredientSearch)
	router.GET("/similar-ingredients/:ingredient", h.SimilarIngredients)
	router.POST("/image-search", h.ImageSearch)
	router.POST("/multimodal-search", h.MultimodalSearch)
	router.GET("/recipes/:id", h.GetRecipe)
}

// Root describes the service and its endpoints.
func (h *SearchHandler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "recipe search engine API",
		"version": Version,
		"recipes": h.engine.Recipes(),
		"endpoints": gin.H{
			"/api/v1/search":                          "text search",
			"/api/v1/ingredient-search":               "ingredient search",
			"/api/v1/similar-ingredients/:ingredient": "similar ingredient lookup",
			"/api/v1/image-search":                    "image search",
			"/api/v1/multimodal-search":               "multimodal search",
			"/api/v1/recipes/:id":                     "recipe details",
		},
	})
}

// TextSearch handles GET /search?query=...&top_k=...
func (h *SearchHandler) TextSearch(c *gin.Context) {
	topK, ok := parseTopK(c, search.DefaultTopK)
	if !ok {
		return
	}

	results, err := h.engine.TextSearch(c.Request.Context(), c.Query("query"), topK)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "search failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": results})
}

// IngredientSearch handles GET /ingredient-search?ingredients=a,b&top_k=...
// The comma-joined ingredients parameter is split here; the engine receives
// the list.
func (h *SearchHandler) IngredientSearch(c *gin.Context) {
	raw := c.Query("ingredients")
	if raw == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ingredients parameter is required"})
		return
	}
	topK, ok := parseTopK(c, search.DefaultTopK)
	if !ok {
		return
	}

	ingredients := strings.Split(raw, ",")
	for i := range ingredients {
		ingredients[i] = strings.TrimSpace(ingredients[i])
	}

	results, err := h.engine.IngredientSearch(c.Request.Context(), ingredients, topK)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "search failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": results})
}

// SimilarIngredients handles GET /similar-ingredients/:ingredient?top_k=...
func (h *SearchHandler) SimilarIngredients(c *gin.Context) {
	topK, ok := parseTopK(c, 5)
	if !ok {
		return
	}

	groups := h.engine.SimilarIngredients(c.Param("ingredient"), topK)
	c.JSON(http.StatusOK, gin.H{"results": groups})
}

// ImageSearch handles POST /image-search with a multipart "file" field.
func (h *SearchHandler) ImageSearch(c *gin.Context) {
	topK, ok := parseTopK(c, search.DefaultTopK)
	if !ok {
		return
	}

	image, ok := readImageFile(c)
	if !ok {
		return
	}

	results, err := h.engine.ImageSearch(c.Request.Context(), image, topK)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "image search failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": results})
}

// MultimodalSearch handles POST /multimodal-search with an optional
// multipart "file" field and an optional "text" form value.
func (h *SearchHandler) MultimodalSearch(c *gin.Context) {
	topK, ok := parseTopK(c, search.DefaultTopK)
	if !ok {
		return
	}

	var image []byte
	if file, err := c.FormFile("file"); err == nil && file != nil {
		opened, err := file.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read uploaded file"})
			return
		}
		defer opened.Close()
		data, err := io.ReadAll(opened)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read uploaded file"})
			return
		}
		image = data
	}

	result, err := h.engine.MultimodalSearch(c.Request.Context(), image, c.PostForm("text"), topK)
	if err != nil {
		if errors.Is(err, search.ErrNoQueryModality) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "no query modality supplied",
				"code":  "missing_query_modality",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "multimodal search failed"})
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetRecipe handles GET /recipes/:id.
func (h *SearchHandler) GetRecipe(c *gin.Context) {
	recipe := h.engine.GetRecipe(c.Param("id"))
	if recipe == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "recipe not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"recipe": recipe})
}

// parseTopK reads the top_k query parameter. Invalid values end the request
// with 400 and return ok=false.
func parseTopK(c *gin.Context, fallback int) (int, bool) {
	raw := c.Query("top_k")
	if raw == "" {
		return fallback, true
	}
	topK, err := strconv.Atoi(raw)
	if err != nil || topK <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "top_k must be a positive integer"})
		return 0, false
	}
	return topK, true
}

// readImageFile reads the multipart "file" field. A missing or unreadable
// file ends the request with 400 and returns ok=false.
func readImageFile(c *gin.Context) ([]byte, bool) {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file field is required"})
		return nil, false
	}
	opened, err := file.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read uploaded file"})
		return nil, false
	}
	defer opened.Close()

	data, err := io.ReadAll(opened)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read uploaded file"})
		return nil, false
	}
	return data, true
}
