package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"brokercrm/server/internal/database"
	"brokercrm/server/internal/followup"
	"brokercrm/server/internal/matching"
	"brokercrm/server/internal/models"
)

type CreateClientRequest struct {
	Name            string  `json:"name" binding:"required"`
	Email           string  `json:"email" binding:"omitempty,email"`
	Phone           string  `json:"phone"`
	Status          string  `json:"status" binding:"omitempty,oneof=lead prospect client inactive blacklisted"`
	Priority        string  `json:"priority" binding:"omitempty,oneof=low medium high urgent vip"`
	AssignedAgentID *string `json:"assigned_agent_id"`
	Notes           string  `json:"notes"`
	matching.Criteria
}

type ScheduleFollowUpRequest struct {
	At time.Time `json:"at" binding:"required"`
}

type PriorityRequest struct {
	Priority string `json:"priority" binding:"required,oneof=low medium high urgent vip"`
}

type StatusRequest struct {
	Status string `json:"status" binding:"required,oneof=lead prospect client inactive blacklisted"`
}

// ClientResponse adds the follow-up state derived at request time.
type ClientResponse struct {
	*models.Client
	IsOverdueForFollowUp bool `json:"is_overdue_for_follow_up"`
	FollowUpDueToday     bool `json:"follow_up_due_today"`
	DaysSinceLastContact *int `json:"days_since_last_contact,omitempty"`
}

func (h *Handler) clientResponse(client *models.Client) ClientResponse {
	now := h.clock.Now()
	plan := client.Plan()
	resp := ClientResponse{
		Client:               client,
		IsOverdueForFollowUp: followup.IsOverdue(plan, now),
		FollowUpDueToday:     followup.IsDueToday(plan, now),
	}
	if days, ok := followup.DaysSinceLastContact(plan, now); ok {
		resp.DaysSinceLastContact = &days
	}
	return resp
}

// CreateClient stores a client and schedules its first follow-up from its priority.
func (h *Handler) CreateClient(c *gin.Context) {
	var req CreateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if err := req.Criteria.Validate(); err != nil {
		h.respondError(c, err, "Failed to create client")
		return
	}

	client := &models.Client{
		Name:            req.Name,
		Email:           req.Email,
		Phone:           req.Phone,
		Status:          models.ClientStatus(req.Status),
		Priority:        followup.Priority(req.Priority),
		AssignedAgentID: req.AssignedAgentID,
		Notes:           req.Notes,
	}
	if client.Status == "" {
		client.Status = models.ClientStatusLead
	}
	if client.Priority == "" {
		client.Priority = followup.PriorityMedium
	}
	client.SetCriteria(req.Criteria)
	client.ApplyPlan(h.followUps.ScheduleAutoFollowUp(client.Plan()))

	if err := h.store.CreateClient(c.Request.Context(), client); err != nil {
		h.respondError(c, err, "Failed to create client")
		return
	}

	c.JSON(http.StatusCreated, h.clientResponse(client))
}

func (h *Handler) GetClient(c *gin.Context) {
	client, err := h.store.GetClient(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err, "Failed to get client")
		return
	}
	c.JSON(http.StatusOK, h.clientResponse(client))
}

// GetClientMatches ranks the available properties for a client.
func (h *Handler) GetClientMatches(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			badRequest(c, errors.New("limit must be a non-negative integer"))
			return
		}
		limit = parsed
	}

	ctx := c.Request.Context()
	client, err := h.store.GetClient(ctx, c.Param("id"))
	if err != nil {
		h.respondError(c, err, "Failed to get client")
		return
	}

	properties, err := h.store.ListAvailableProperties(ctx)
	if err != nil {
		h.respondError(c, err, "Failed to list properties")
		return
	}

	criteria := client.Criteria().Normalize(h.groups)
	matches := h.engine.Rank(criteria, models.Snapshots(properties), limit)

	h.logger.WithFields(logrus.Fields{
		"client_id":  client.UUID,
		"candidates": len(properties),
		"matches":    len(matches),
	}).Debug("Ranked properties for client")

	c.JSON(http.StatusOK, gin.H{
		"client_id": client.UUID,
		"matches":   matches,
	})
}

// MarkContacted records a contact now and schedules the next follow-up.
func (h *Handler) MarkContacted(c *gin.Context) {
	h.updatePlan(c, func(plan followup.Plan) followup.Plan {
		return h.followUps.MarkAsContacted(plan)
	})
}

// ScheduleFollowUp sets an explicit follow-up date.
func (h *Handler) ScheduleFollowUp(c *gin.Context) {
	var req ScheduleFollowUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	h.updatePlan(c, func(plan followup.Plan) followup.Plan {
		return h.followUps.ScheduleAt(plan, req.At)
	})
}

// UpdatePriority changes the priority and reschedules the follow-up from now.
func (h *Handler) UpdatePriority(c *gin.Context) {
	var req PriorityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	h.updatePlan(c, func(plan followup.Plan) followup.Plan {
		return h.followUps.ChangePriority(plan, followup.Priority(req.Priority))
	})
}

func (h *Handler) updatePlan(c *gin.Context, apply database.PlanUpdate) {
	client, err := h.store.SaveFollowUp(c.Request.Context(), c.Param("id"), apply)
	if err != nil {
		h.respondError(c, err, "Failed to save follow-up")
		return
	}

	c.JSON(http.StatusOK, h.clientResponse(client))
}

func (h *Handler) UpdateClientStatus(c *gin.Context) {
	var req StatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	ctx := c.Request.Context()
	id := c.Param("id")
	status := models.ClientStatus(req.Status)
	if err := h.store.UpdateClientStatus(ctx, id, status); err != nil {
		h.respondError(c, err, "Failed to update client status")
		return
	}

	client, err := h.store.GetClient(ctx, id)
	if err != nil {
		h.respondError(c, err, "Failed to get client")
		return
	}
	c.JSON(http.StatusOK, h.clientResponse(client))
}

// GetDueFollowUps lists clients whose follow-up is due, optionally for one agent.
func (h *Handler) GetDueFollowUps(c *gin.Context) {
	clients, err := h.store.ClientsNeedingFollowUp(c.Request.Context(), h.clock.Now(), c.Query("agent_id"))
	if err != nil {
		h.respondError(c, err, "Failed to get due follow-ups")
		return
	}

	resp := make([]ClientResponse, len(clients))
	for i := range clients {
		resp[i] = h.clientResponse(&clients[i])
	}
	c.JSON(http.StatusOK, resp)
}
