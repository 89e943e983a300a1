package api

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"brokercrm/server/internal/models"
	"brokercrm/server/internal/queue"
	"brokercrm/server/internal/tasks"
)

type RecurrenceRequest struct {
	Type            string     `json:"type" binding:"required"`
	Interval        int        `json:"interval"`
	DaysOfWeek      []int      `json:"days_of_week"`
	EndDate         *time.Time `json:"end_date"`
	OccurrenceLimit *int       `json:"occurrence_limit"`
}

type CreateTaskRequest struct {
	Title       string             `json:"title" binding:"required"`
	Description string             `json:"description"`
	Type        string             `json:"type" binding:"omitempty,oneof=follow_up property_viewing contract_signing payment_collection other"`
	Priority    string             `json:"priority" binding:"omitempty,oneof=low medium high urgent"`
	AssignedTo  *string            `json:"assigned_to"`
	ClientID    *string            `json:"client_id"`
	PropertyID  *string            `json:"property_id"`
	DealID      *string            `json:"deal_id"`
	DueDate     *time.Time         `json:"due_date"`
	Recurrence  *RecurrenceRequest `json:"recurrence"`
}

type CompleteTaskRequest struct {
	Notes string `json:"notes"`
}

// TaskResponse adds the due-date state derived at request time.
type TaskResponse struct {
	tasks.Task
	IsOverdue  bool `json:"is_overdue"`
	IsDueToday bool `json:"is_due_today"`
	DaysLeft   *int `json:"days_left,omitempty"`
}

func (h *Handler) taskResponse(task tasks.Task) TaskResponse {
	now := h.clock.Now()
	resp := TaskResponse{
		Task:       task,
		IsOverdue:  task.IsOverdue(now),
		IsDueToday: task.IsDueToday(now),
	}
	if days, ok := task.DaysLeft(now); ok {
		resp.DaysLeft = &days
	}
	return resp
}

func (r *RecurrenceRequest) rule() (*tasks.RecurrenceRule, error) {
	recurrenceType, err := tasks.ParseRecurrenceType(r.Type)
	if err != nil {
		return nil, err
	}
	rule := &tasks.RecurrenceRule{
		Type:            recurrenceType,
		Interval:        r.Interval,
		DaysOfWeek:      r.DaysOfWeek,
		EndDate:         r.EndDate,
		OccurrenceLimit: r.OccurrenceLimit,
	}
	if err := rule.Validate(); err != nil {
		return nil, err
	}
	return rule, nil
}

func (h *Handler) CreateTask(c *gin.Context) {
	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	task := tasks.Task{
		Title:       req.Title,
		Description: req.Description,
		Type:        tasks.Type(req.Type),
		Status:      tasks.StatusPending,
		Priority:    tasks.Priority(req.Priority),
		AssignedTo:  req.AssignedTo,
		ClientID:    req.ClientID,
		PropertyID:  req.PropertyID,
		DealID:      req.DealID,
		DueDate:     req.DueDate,
	}
	if task.Type == "" {
		task.Type = tasks.TypeFollowUp
	}
	if task.Priority == "" {
		task.Priority = tasks.PriorityMedium
	}
	if req.Recurrence != nil {
		rule, err := req.Recurrence.rule()
		if err != nil {
			h.respondError(c, err, "Failed to create task")
			return
		}
		task.IsRecurring = true
		task.Recurrence = rule
	}

	record := models.TaskFromDomain(task)
	if err := h.store.CreateTask(c.Request.Context(), record); err != nil {
		h.respondError(c, err, "Failed to create task")
		return
	}

	c.JSON(http.StatusCreated, h.taskResponse(record.Domain()))
}

func (h *Handler) GetTask(c *gin.Context) {
	record, err := h.store.GetTask(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err, "Failed to get task")
		return
	}
	c.JSON(http.StatusOK, h.taskResponse(record.Domain()))
}

// CompleteTask closes a task and hands recurring ones to the occurrence
// processor. The spawn runs inline when the queue refuses the task.
func (h *Handler) CompleteTask(c *gin.Context) {
	var req CompleteTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		badRequest(c, err)
		return
	}

	ctx := c.Request.Context()
	record, err := h.store.CompleteTask(ctx, c.Param("id"), h.clock.Now(), req.Notes)
	if err != nil {
		h.respondError(c, err, "Failed to complete task")
		return
	}

	resp := gin.H{"task": h.taskResponse(record.Domain())}
	if !record.IsRecurring {
		c.JSON(http.StatusOK, resp)
		return
	}

	logger := h.logger.WithField("task_id", record.UUID)
	if h.completions != nil {
		err = h.completions.Push(queue.Completion{TaskID: record.UUID, CompletedAt: *record.CompletedAt})
		if err == nil {
			resp["next_occurrence_queued"] = true
			c.JSON(http.StatusOK, resp)
			return
		}
		logger.WithError(err).Warn("Completion queue rejected task, spawning inline")
	}

	if h.spawner == nil {
		logger.Warn("No occurrence spawner configured")
		resp["next_occurrence_queued"] = false
		c.JSON(http.StatusOK, resp)
		return
	}

	next, err := h.spawner.Process(ctx, record.UUID)
	if err != nil {
		// The completion itself is stored; only the follow-on occurrence failed.
		logger.WithError(err).Error("Failed to spawn next occurrence")
		resp["next_occurrence_error"] = err.Error()
		c.JSON(http.StatusOK, resp)
		return
	}
	resp["next_occurrence_queued"] = false
	if next != nil {
		resp["next_occurrence"] = h.taskResponse(next.Domain())
	}
	c.JSON(http.StatusOK, resp)
}

// PreviewNextOccurrence computes the occurrence that would follow a task
// without storing it.
func (h *Handler) PreviewNextOccurrence(c *gin.Context) {
	ctx := c.Request.Context()
	record, err := h.store.GetTask(ctx, c.Param("id"))
	if err != nil {
		h.respondError(c, err, "Failed to get task")
		return
	}

	task := record.Domain()
	existing, err := h.store.CountChain(ctx, task.RootID())
	if err != nil {
		h.respondError(c, err, "Failed to count task occurrences")
		return
	}

	next, err := h.calculator.Next(task, existing)
	if err != nil {
		h.respondError(c, err, "Failed to compute next occurrence")
		return
	}

	h.logger.WithFields(logrus.Fields{
		"task_id":     task.ID,
		"occurrences": existing,
		"has_next":    next != nil,
	}).Debug("Previewed next occurrence")

	if next == nil {
		c.JSON(http.StatusOK, gin.H{"next_occurrence": nil})
		return
	}
	next.ID = ""
	c.JSON(http.StatusOK, gin.H{"next_occurrence": h.taskResponse(*next)})
}
