package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"brokercrm/server/internal/labels"
)

// GetLookup returns a localized lookup table. The language follows the
// Accept-Language header unless a lang query parameter is given.
func (h *Handler) GetLookup(c *gin.Context) {
	accept := c.GetHeader("Accept-Language")
	if lang := c.Query("lang"); lang != "" {
		accept = lang
	}
	lang := h.catalog.Match(accept)

	entries, err := h.catalog.Lookup(labels.Kind(c.Param("kind")), lang)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	c.Header("Content-Language", lang.String())
	c.JSON(http.StatusOK, entries)
}

// ListLookups returns the names of the available lookup tables.
func (h *Handler) ListLookups(c *gin.Context) {
	c.JSON(http.StatusOK, labels.Kinds())
}
