package models

import (
	"time"

	"brokercrm/server/internal/followup"
	"brokercrm/server/internal/matching"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ClientStatus is the position of a client in the sales pipeline.
type ClientStatus string

const (
	ClientStatusLead        ClientStatus = "lead"
	ClientStatusProspect    ClientStatus = "prospect"
	ClientStatusClient      ClientStatus = "client"
	ClientStatusInactive    ClientStatus = "inactive"
	ClientStatusBlacklisted ClientStatus = "blacklisted"
)

// ClientStatuses lists every status in pipeline order.
var ClientStatuses = []ClientStatus{
	ClientStatusLead,
	ClientStatusProspect,
	ClientStatusClient,
	ClientStatusInactive,
	ClientStatusBlacklisted,
}

// Valid reports whether s is a known status.
func (s ClientStatus) Valid() bool {
	for _, known := range ClientStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// IsActive is true for statuses still in the pipeline.
func (s ClientStatus) IsActive() bool {
	return s == ClientStatusLead || s == ClientStatusProspect || s == ClientStatusClient
}

// CanBeContacted is false for inactive and blacklisted clients.
func (s ClientStatus) CanBeContacted() bool {
	return s != ClientStatusInactive && s != ClientStatusBlacklisted
}

// NextStatus returns the status a client is promoted to, if any.
func (s ClientStatus) NextStatus() (ClientStatus, bool) {
	switch s {
	case ClientStatusLead:
		return ClientStatusProspect, true
	case ClientStatusProspect:
		return ClientStatusClient, true
	}
	return "", false
}

// ContactableStatuses returns the statuses follow-up reminders are sent for.
func ContactableStatuses() []ClientStatus {
	var out []ClientStatus
	for _, s := range ClientStatuses {
		if s.CanBeContacted() {
			out = append(out, s)
		}
	}
	return out
}

// Client is a prospective buyer or tenant with stated preferences.
type Client struct {
	ID              uint              `gorm:"primaryKey" json:"-"`
	UUID            string            `gorm:"size:36;uniqueIndex;not null" json:"id"`
	Name            string            `gorm:"not null" json:"name"`
	Email           string            `json:"email,omitempty"`
	Phone           string            `json:"phone,omitempty"`
	Status          ClientStatus      `gorm:"size:20;default:lead;index" json:"status"`
	Priority        followup.Priority `gorm:"size:20;default:medium" json:"priority"`
	AssignedAgentID *string           `gorm:"size:36;index" json:"assigned_agent_id,omitempty"`
	Notes           string            `json:"notes,omitempty"`

	MinBudget              *float64 `json:"min_budget,omitempty"`
	MaxBudget              *float64 `json:"max_budget,omitempty"`
	MinBedrooms            *int     `json:"min_bedrooms,omitempty"`
	MaxBedrooms            *int     `json:"max_bedrooms,omitempty"`
	MinArea                *float64 `json:"min_area,omitempty"`
	MaxArea                *float64 `json:"max_area,omitempty"`
	PreferredLocations     []string `gorm:"serializer:json" json:"preferred_locations,omitempty"`
	PreferredPropertyTypes []string `gorm:"serializer:json" json:"preferred_property_types,omitempty"`

	LastContactedAt *time.Time `json:"last_contacted_at,omitempty"`
	NextFollowUpAt  *time.Time `gorm:"index" json:"next_follow_up_at,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// BeforeCreate assigns the public identifier and moves timestamps to UTC.
func (c *Client) BeforeCreate(tx *gorm.DB) error {
	if c.UUID == "" {
		c.UUID = uuid.NewString()
	}
	c.LastContactedAt = utc(c.LastContactedAt)
	c.NextFollowUpAt = utc(c.NextFollowUpAt)
	return nil
}

// Criteria returns the client's preferences in the matching engine's form.
func (c *Client) Criteria() matching.Criteria {
	return matching.Criteria{
		MinBudget:              c.MinBudget,
		MaxBudget:              c.MaxBudget,
		MinBedrooms:            c.MinBedrooms,
		MaxBedrooms:            c.MaxBedrooms,
		MinArea:                c.MinArea,
		MaxArea:                c.MaxArea,
		PreferredLocations:     c.PreferredLocations,
		PreferredPropertyTypes: c.PreferredPropertyTypes,
	}
}

// SetCriteria copies preferences onto the record.
func (c *Client) SetCriteria(criteria matching.Criteria) {
	c.MinBudget = criteria.MinBudget
	c.MaxBudget = criteria.MaxBudget
	c.MinBedrooms = criteria.MinBedrooms
	c.MaxBedrooms = criteria.MaxBedrooms
	c.MinArea = criteria.MinArea
	c.MaxArea = criteria.MaxArea
	c.PreferredLocations = criteria.PreferredLocations
	c.PreferredPropertyTypes = criteria.PreferredPropertyTypes
}

// Plan returns the client's follow-up timestamps.
func (c *Client) Plan() followup.Plan {
	return followup.Plan{
		Priority:        c.Priority,
		LastContactedAt: c.LastContactedAt,
		NextFollowUpAt:  c.NextFollowUpAt,
	}
}

// ApplyPlan copies a computed plan back onto the record.
func (c *Client) ApplyPlan(plan followup.Plan) {
	c.Priority = plan.Priority
	c.LastContactedAt = plan.LastContactedAt
	c.NextFollowUpAt = plan.NextFollowUpAt
}

// utc stores timestamps in one zone so SQLite's text comparisons order them.
func utc(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
