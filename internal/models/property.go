package models

import (
	"time"

	"brokercrm/server/internal/matching"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PropertyStatus is the listing state of a property.
type PropertyStatus string

const (
	PropertyStatusDraft     PropertyStatus = "draft"
	PropertyStatusAvailable PropertyStatus = "available"
	PropertyStatusReserved  PropertyStatus = "reserved"
	PropertyStatusSold      PropertyStatus = "sold"
	PropertyStatusRented    PropertyStatus = "rented"
	PropertyStatusInactive  PropertyStatus = "inactive"
)

var PropertyStatuses = []PropertyStatus{
	PropertyStatusDraft,
	PropertyStatusAvailable,
	PropertyStatusReserved,
	PropertyStatusSold,
	PropertyStatusRented,
	PropertyStatusInactive,
}

// PropertyType is the kind of unit being listed.
type PropertyType string

const (
	PropertyTypeApartment  PropertyType = "apartment"
	PropertyTypeVilla      PropertyType = "villa"
	PropertyTypeTownhouse  PropertyType = "townhouse"
	PropertyTypeDuplex     PropertyType = "duplex"
	PropertyTypeLand       PropertyType = "land"
	PropertyTypeCommercial PropertyType = "commercial"
	PropertyTypeChalet     PropertyType = "chalet"
)

var PropertyTypes = []PropertyType{
	PropertyTypeApartment,
	PropertyTypeVilla,
	PropertyTypeTownhouse,
	PropertyTypeDuplex,
	PropertyTypeLand,
	PropertyTypeCommercial,
	PropertyTypeChalet,
}

// Property is a listing that can be offered to clients.
type Property struct {
	ID           uint           `gorm:"primaryKey" json:"-"`
	UUID         string         `gorm:"size:36;uniqueIndex;not null" json:"id"`
	Title        string         `json:"title"`
	PropertyType PropertyType   `gorm:"size:20;index" json:"property_type"`
	Status       PropertyStatus `gorm:"size:20;default:draft;index" json:"status"`
	Price        float64        `json:"price"`
	Bedrooms     *int           `json:"bedrooms,omitempty"`
	BuiltArea    *float64       `json:"built_area,omitempty"`
	City         string         `gorm:"index" json:"city"`
	District     string         `json:"district,omitempty"`
	Street       string         `json:"street,omitempty"`
	ListingDate  *time.Time     `json:"listing_date,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// BeforeCreate assigns the public identifier.
func (p *Property) BeforeCreate(tx *gorm.DB) error {
	if p.UUID == "" {
		p.UUID = uuid.NewString()
	}
	return nil
}

// Snapshot returns the attributes the matching engine compares.
func (p *Property) Snapshot() matching.PropertySnapshot {
	return matching.PropertySnapshot{
		ID:           p.UUID,
		Price:        p.Price,
		Bedrooms:     p.Bedrooms,
		BuiltArea:    p.BuiltArea,
		City:         p.City,
		PropertyType: string(p.PropertyType),
		Status:       string(p.Status),
	}
}

// Snapshots converts a batch of listings.
func Snapshots(properties []Property) []matching.PropertySnapshot {
	out := make([]matching.PropertySnapshot, len(properties))
	for i := range properties {
		out[i] = properties[i].Snapshot()
	}
	return out
}
