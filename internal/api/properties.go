package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"brokercrm/server/internal/models"
)

type PropertyRequest struct {
	ID           string     `json:"id" binding:"omitempty,uuid"`
	Title        string     `json:"title" binding:"required"`
	PropertyType string     `json:"property_type" binding:"required,oneof=apartment villa townhouse duplex land commercial chalet"`
	Status       string     `json:"status" binding:"omitempty,oneof=draft available reserved sold rented inactive"`
	Price        float64    `json:"price" binding:"gte=0"`
	Bedrooms     *int       `json:"bedrooms" binding:"omitempty,gte=0"`
	BuiltArea    *float64   `json:"built_area" binding:"omitempty,gte=0"`
	City         string     `json:"city" binding:"required"`
	District     string     `json:"district"`
	Street       string     `json:"street"`
	ListingDate  *time.Time `json:"listing_date"`
}

type UpsertPropertiesRequest struct {
	Properties []PropertyRequest `json:"properties" binding:"required,min=1,dive"`
}

// UpsertProperties inserts or replaces a batch of listings keyed by id.
func (h *Handler) UpsertProperties(c *gin.Context) {
	var req UpsertPropertiesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	batch := make([]*models.Property, len(req.Properties))
	for i, p := range req.Properties {
		status := models.PropertyStatus(p.Status)
		if status == "" {
			status = models.PropertyStatusDraft
		}
		batch[i] = &models.Property{
			UUID:         p.ID,
			Title:        p.Title,
			PropertyType: models.PropertyType(p.PropertyType),
			Status:       status,
			Price:        p.Price,
			Bedrooms:     p.Bedrooms,
			BuiltArea:    p.BuiltArea,
			City:         p.City,
			District:     p.District,
			Street:       p.Street,
			ListingDate:  p.ListingDate,
		}
	}

	if err := h.store.UpsertProperties(c.Request.Context(), batch); err != nil {
		h.respondError(c, err, "Failed to store properties")
		return
	}

	h.logger.WithField("batch_size", len(batch)).Info("Stored properties batch")
	c.JSON(http.StatusOK, gin.H{"properties": batch})
}
