package followup

import (
	"time"

	"brokercrm/server/internal/clock"
)

// Plan holds the contact timestamps of one client.
type Plan struct {
	Priority        Priority   `json:"priority"`
	LastContactedAt *time.Time `json:"last_contacted_at,omitempty"`
	NextFollowUpAt  *time.Time `json:"next_follow_up_at,omitempty"`
}

// Scheduler derives follow-up dates. It never modifies the plan it is given.
type Scheduler struct {
	clock clock.Clock
}

// NewScheduler returns a scheduler reading "now" from c (wall clock if nil).
func NewScheduler(c clock.Clock) *Scheduler {
	return &Scheduler{clock: clock.OrSystem(c)}
}

// Now exposes the scheduler's clock reading.
func (s *Scheduler) Now() time.Time {
	return s.clock.Now()
}

// ScheduleAutoFollowUp sets the next follow-up to now plus the priority cadence.
func (s *Scheduler) ScheduleAutoFollowUp(plan Plan) Plan {
	next := s.clock.Now().AddDate(0, 0, DaysForPriority(plan.Priority))
	plan.NextFollowUpAt = &next
	return plan
}

// MarkAsContacted records a contact now and schedules the next one.
func (s *Scheduler) MarkAsContacted(plan Plan) Plan {
	now := s.clock.Now()
	plan.LastContactedAt = &now
	return s.ScheduleAutoFollowUp(plan)
}

// ScheduleAt sets an explicit follow-up date.
func (s *Scheduler) ScheduleAt(plan Plan, at time.Time) Plan {
	plan.NextFollowUpAt = &at
	return plan
}

// ChangePriority switches the priority and reschedules with the new cadence.
func (s *Scheduler) ChangePriority(plan Plan, p Priority) Plan {
	plan.Priority = p
	return s.ScheduleAutoFollowUp(plan)
}

// IsOverdue reports whether a follow-up is set and now is past it.
func IsOverdue(plan Plan, now time.Time) bool {
	return plan.NextFollowUpAt != nil && now.After(*plan.NextFollowUpAt)
}

// IsDueToday reports whether the follow-up falls on now's calendar day.
func IsDueToday(plan Plan, now time.Time) bool {
	if plan.NextFollowUpAt == nil {
		return false
	}
	return sameDay(plan.NextFollowUpAt.In(now.Location()), now)
}

// DaysSinceLastContact returns whole days elapsed since the last contact.
func DaysSinceLastContact(plan Plan, now time.Time) (int, bool) {
	if plan.LastContactedAt == nil {
		return 0, false
	}
	return int(now.Sub(*plan.LastContactedAt).Hours() / 24), true
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
