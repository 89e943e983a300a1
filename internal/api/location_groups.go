package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"brokercrm/server/config"
)

type LocationGroupHandler struct {
	groups *config.LocationGroups
	logger *logrus.Logger
}

func NewLocationGroupHandler(groups *config.LocationGroups, logger *logrus.Logger) *LocationGroupHandler {
	if logger == nil {
		logger = logrus.New()
	}
	return &LocationGroupHandler{
		groups: groups,
		logger: logger,
	}
}

// SetupLocationGroupRoutes adds location group routes to the router
func SetupLocationGroupRoutes(router *gin.Engine, groups *config.LocationGroups, logger *logrus.Logger) {
	handler := NewLocationGroupHandler(groups, logger)

	router.GET("/api/location-groups", handler.ListLocationGroups)
	router.GET("/api/location-groups/:name", handler.GetLocationGroup)
	router.PUT("/api/location-groups/:name", handler.UpdateLocationGroup)
	router.DELETE("/api/location-groups/:name", handler.DeleteLocationGroup)
}

// ListLocationGroups returns all location groups
func (h *LocationGroupHandler) ListLocationGroups(c *gin.Context) {
	c.JSON(http.StatusOK, h.groups.List())
}

// GetLocationGroup returns a specific location group
func (h *LocationGroupHandler) GetLocationGroup(c *gin.Context) {
	group := h.groups.Get(c.Param("name"))
	if group == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Location group not found"})
		return
	}
	c.JSON(http.StatusOK, group)
}

// UpdateLocationGroup creates or replaces a location group
func (h *LocationGroupHandler) UpdateLocationGroup(c *gin.Context) {
	name := c.Param("name")
	var group config.LocationGroup
	if err := c.ShouldBindJSON(&group); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// Ensure the name in the URL matches the name in the body
	if config.NormalizeLocation(group.Name) != config.NormalizeLocation(name) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Name in URL does not match name in body"})
		return
	}

	if err := h.groups.Upsert(group); err != nil {
		h.logger.WithError(err).WithField("group", name).Error("Failed to save location group")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save location group"})
		return
	}

	c.JSON(http.StatusOK, group)
}

// DeleteLocationGroup deletes a location group
func (h *LocationGroupHandler) DeleteLocationGroup(c *gin.Context) {
	name := c.Param("name")
	if err := h.groups.Delete(name); err != nil {
		if err == config.ErrLocationGroupNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Location group not found"})
			return
		}
		h.logger.WithError(err).WithField("group", name).Error("Failed to delete location group")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete location group"})
		return
	}

	c.Status(http.StatusNoContent)
}
