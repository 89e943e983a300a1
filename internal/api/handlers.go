package api

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"brokercrm/server/config"
	"brokercrm/server/internal/clock"
	"brokercrm/server/internal/database"
	"brokercrm/server/internal/followup"
	"brokercrm/server/internal/labels"
	"brokercrm/server/internal/matching"
	"brokercrm/server/internal/models"
	"brokercrm/server/internal/queue"
	"brokercrm/server/internal/tasks"
)

// Store is the persistence used by the handlers. *database.Database
// implements it.
type Store interface {
	CreateClient(ctx context.Context, client *models.Client) error
	GetClient(ctx context.Context, id string) (*models.Client, error)
	SaveFollowUp(ctx context.Context, id string, update database.PlanUpdate) (*models.Client, error)
	UpdateClientStatus(ctx context.Context, id string, status models.ClientStatus) error
	ClientsNeedingFollowUp(ctx context.Context, now time.Time, agentID string) ([]models.Client, error)

	UpsertProperties(ctx context.Context, batch []*models.Property) error
	ListAvailableProperties(ctx context.Context) ([]models.Property, error)

	CreateTask(ctx context.Context, task *models.Task) error
	GetTask(ctx context.Context, id string) (*models.Task, error)
	CompleteTask(ctx context.Context, id string, now time.Time, notes string) (*models.Task, error)
	CountChain(ctx context.Context, rootID string) (int, error)
}

// CompletionPublisher accepts completed tasks for occurrence spawning.
type CompletionPublisher interface {
	Push(c queue.Completion) error
}

// OccurrenceSpawner spawns an occurrence synchronously. It is used when the
// completion queue refuses a task.
type OccurrenceSpawner interface {
	Process(ctx context.Context, taskID string) (*models.Task, error)
}

// Dependencies groups the services the handlers call into.
type Dependencies struct {
	Store       Store
	Clock       clock.Clock
	Engine      *matching.Engine
	FollowUps   *followup.Scheduler
	Calculator  *tasks.Calculator
	Groups      *config.LocationGroups
	Completions CompletionPublisher
	Spawner     OccurrenceSpawner
	Catalog     *labels.Catalog
}

type Handler struct {
	store       Store
	clock       clock.Clock
	engine      *matching.Engine
	followUps   *followup.Scheduler
	calculator  *tasks.Calculator
	groups      *config.LocationGroups
	completions CompletionPublisher
	spawner     OccurrenceSpawner
	catalog     *labels.Catalog
	logger      *logrus.Logger
}

func NewHandler(deps Dependencies, logger *logrus.Logger) *Handler {
	if logger == nil {
		logger = logrus.New()
		logger.SetFormatter(&logrus.JSONFormatter{})
		logger.SetOutput(os.Stdout)
	}

	h := &Handler{
		store:       deps.Store,
		clock:       clock.OrSystem(deps.Clock),
		engine:      deps.Engine,
		followUps:   deps.FollowUps,
		calculator:  deps.Calculator,
		groups:      deps.Groups,
		completions: deps.Completions,
		spawner:     deps.Spawner,
		catalog:     deps.Catalog,
		logger:      logger,
	}
	if h.engine == nil {
		h.engine = matching.NewEngine(1, matching.DefaultLimit)
	}
	if h.followUps == nil {
		h.followUps = followup.NewScheduler(h.clock)
	}
	if h.calculator == nil {
		h.calculator = tasks.NewCalculator(h.clock)
	}
	if h.catalog == nil {
		h.catalog = labels.NewCatalog()
	}
	return h
}

// respondError maps domain errors to status codes. message is returned for
// unexpected failures so internals do not leak.
func (h *Handler) respondError(c *gin.Context, err error, message string) {
	var verr *matching.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"error": verr.Error(), "fields": verr.FieldErrors})
	case errors.Is(err, database.ErrNotFound), errors.Is(err, config.ErrLocationGroupNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, tasks.ErrNotCompletable):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case isRecurrenceConfigError(err):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	default:
		h.logger.WithError(err).Error(message)
		c.JSON(http.StatusInternalServerError, gin.H{"error": message})
	}
}

func isRecurrenceConfigError(err error) bool {
	return tasks.IsRecurrenceError(err) ||
		errors.Is(err, tasks.ErrUnknownRecurrenceType) ||
		errors.Is(err, tasks.ErrInvalidInterval) ||
		errors.Is(err, tasks.ErrInvalidWeekday) ||
		errors.Is(err, tasks.ErrInvalidOccurrenceLimit)
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}
