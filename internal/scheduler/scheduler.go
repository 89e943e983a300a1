package scheduler

import (
	"context"
	"os"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"brokercrm/server/internal/clock"
	"brokercrm/server/internal/models"
)

// JobType represents the periodic jobs run by the scheduler
type JobType int

const (
	JobTypeFollowUpSweep JobType = iota
	JobTypeOverdueTasks
)

// String returns the string representation of a JobType
func (j JobType) String() string {
	switch j {
	case JobTypeFollowUpSweep:
		return "follow_up_sweep"
	case JobTypeOverdueTasks:
		return "overdue_tasks"
	default:
		return "unknown"
	}
}

// DigestSource provides the records the sweep reports on.
type DigestSource interface {
	ClientsNeedingFollowUp(ctx context.Context, now time.Time, agentID string) ([]models.Client, error)
	OverdueTasks(ctx context.Context, now time.Time) ([]models.Task, error)
}

// Digest summarises one sweep.
type Digest struct {
	RunAt        time.Time
	DueFollowUps int
	OverdueTasks int
	// Per assignee counts; unassigned work is keyed by "".
	FollowUpsByAgent map[string]int
	TasksByAgent     map[string]int
}

// Scheduler periodically reports clients that are due for contact and tasks
// that are overdue.
type Scheduler struct {
	source   DigestSource
	clock    clock.Clock
	interval time.Duration
	logger   *logrus.Logger
	stopChan chan struct{}
	wg       sync.WaitGroup
	jobMutex sync.Mutex // Ensures sequential job execution
}

// NewScheduler creates a new scheduler
func NewScheduler(source DigestSource, clk clock.Clock, interval time.Duration, logger *logrus.Logger) *Scheduler {
	if logger == nil {
		logger = logrus.New()
		logger.SetFormatter(&logrus.JSONFormatter{})
		logger.SetOutput(os.Stdout)
		logger.SetLevel(logrus.InfoLevel)
	}
	if interval <= 0 {
		interval = time.Minute
	}

	return &Scheduler{
		source:   source,
		clock:    clock.OrSystem(clk),
		interval: interval,
		logger:   logger,
		stopChan: make(chan struct{}),
	}
}

// Start runs a sweep immediately and then on every interval.
func (s *Scheduler) Start() {
	s.wg.Add(1)
	go s.runScheduler()
}

func (s *Scheduler) runScheduler() {
	defer s.wg.Done()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		<-s.stopChan
		cancel()
	}()

	s.logger.Info("Running startup follow-up sweep")
	s.RunJobs(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopChan:
			return
		case <-ticker.C:
			s.RunJobs(ctx)
		}
	}
}

// RunJobs executes every job once and returns what was found. A failing job
// is logged and leaves its part of the digest empty.
func (s *Scheduler) RunJobs(ctx context.Context) Digest {
	s.jobMutex.Lock()
	defer s.jobMutex.Unlock()

	digest := Digest{
		RunAt:            s.clock.Now(),
		FollowUpsByAgent: map[string]int{},
		TasksByAgent:     map[string]int{},
	}

	clients, err := s.source.ClientsNeedingFollowUp(ctx, digest.RunAt, "")
	if err != nil {
		s.logger.WithError(err).WithField("job_type", JobTypeFollowUpSweep.String()).Error("Job failed")
	} else {
		digest.DueFollowUps = len(clients)
		for _, c := range clients {
			digest.FollowUpsByAgent[deref(c.AssignedAgentID)]++
		}
	}

	overdue, err := s.source.OverdueTasks(ctx, digest.RunAt)
	if err != nil {
		s.logger.WithError(err).WithField("job_type", JobTypeOverdueTasks.String()).Error("Job failed")
	} else {
		digest.OverdueTasks = len(overdue)
		for _, t := range overdue {
			digest.TasksByAgent[deref(t.AssignedTo)]++
		}
	}

	s.logDigest(digest)
	return digest
}

func (s *Scheduler) logDigest(d Digest) {
	if d.DueFollowUps == 0 && d.OverdueTasks == 0 {
		s.logger.WithField("run_at", d.RunAt).Debug("Nothing due")
		return
	}

	for agent, count := range d.FollowUpsByAgent {
		s.logger.WithFields(logrus.Fields{
			"job_type": JobTypeFollowUpSweep.String(),
			"agent_id": agent,
			"clients":  count,
		}).Info("Clients due for follow-up")
	}
	for agent, count := range d.TasksByAgent {
		s.logger.WithFields(logrus.Fields{
			"job_type": JobTypeOverdueTasks.String(),
			"agent_id": agent,
			"tasks":    count,
		}).Info("Overdue tasks")
	}
}

// Stop gracefully stops the scheduler
func (s *Scheduler) Stop() {
	close(s.stopChan)
	s.wg.Wait()
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
