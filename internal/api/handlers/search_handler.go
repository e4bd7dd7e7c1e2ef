package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"parkfinder/internal/addressindex"
	"parkfinder/internal/metrics"
)

type SearchHandler struct {
	index *addressindex.Index
}

func NewSearchHandler(index *addressindex.Index) *SearchHandler {
	return &SearchHandler{index: index}
}

// Search handles GET /api/addresses/search?q=<prefix>
//
// An empty query is valid and returns the first entries in insertion
// order, which front-ends use to pre-populate the picker.
func (h *SearchHandler) Search(c *gin.Context) {
	metrics.AddressSearchesTotal.Inc()

	results := h.index.Search(c.Query("q"))
	c.JSON(http.StatusOK, gin.H{
		"results": results,
		"count":   len(results),
	})
}
