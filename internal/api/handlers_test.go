package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"brokercrm/server/config"
	"brokercrm/server/internal/clock"
	"brokercrm/server/internal/database"
	"brokercrm/server/internal/models"
	"brokercrm/server/internal/queue"
)

// MockStore is a mock implementation of Store
type MockStore struct {
	mock.Mock
}

func (m *MockStore) CreateClient(ctx context.Context, client *models.Client) error {
	return m.Called(ctx, client).Error(0)
}

func (m *MockStore) GetClient(ctx context.Context, id string) (*models.Client, error) {
	args := m.Called(ctx, id)
	client, _ := args.Get(0).(*models.Client)
	return client, args.Error(1)
}

// SaveFollowUp applies update to the client configured with Return.
func (m *MockStore) SaveFollowUp(ctx context.Context, id string, update database.PlanUpdate) (*models.Client, error) {
	args := m.Called(ctx, id)
	client, _ := args.Get(0).(*models.Client)
	if client != nil {
		client.ApplyPlan(update(client.Plan()))
	}
	return client, args.Error(1)
}

func (m *MockStore) UpdateClientStatus(ctx context.Context, id string, status models.ClientStatus) error {
	return m.Called(ctx, id, status).Error(0)
}

func (m *MockStore) ClientsNeedingFollowUp(ctx context.Context, now time.Time, agentID string) ([]models.Client, error) {
	args := m.Called(ctx, now, agentID)
	clients, _ := args.Get(0).([]models.Client)
	return clients, args.Error(1)
}

func (m *MockStore) UpsertProperties(ctx context.Context, batch []*models.Property) error {
	return m.Called(ctx, batch).Error(0)
}

func (m *MockStore) ListAvailableProperties(ctx context.Context) ([]models.Property, error) {
	args := m.Called(ctx)
	properties, _ := args.Get(0).([]models.Property)
	return properties, args.Error(1)
}

func (m *MockStore) CreateTask(ctx context.Context, task *models.Task) error {
	return m.Called(ctx, task).Error(0)
}

func (m *MockStore) GetTask(ctx context.Context, id string) (*models.Task, error) {
	args := m.Called(ctx, id)
	task, _ := args.Get(0).(*models.Task)
	return task, args.Error(1)
}

func (m *MockStore) CompleteTask(ctx context.Context, id string, now time.Time, notes string) (*models.Task, error) {
	args := m.Called(ctx, id, now, notes)
	task, _ := args.Get(0).(*models.Task)
	return task, args.Error(1)
}

func (m *MockStore) CountChain(ctx context.Context, rootID string) (int, error) {
	args := m.Called(ctx, rootID)
	return args.Int(0), args.Error(1)
}

// MockPublisher is a mock implementation of CompletionPublisher
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Push(c queue.Completion) error {
	return m.Called(c).Error(0)
}

// MockSpawner is a mock implementation of OccurrenceSpawner
type MockSpawner struct {
	mock.Mock
}

func (m *MockSpawner) Process(ctx context.Context, taskID string) (*models.Task, error) {
	args := m.Called(ctx, taskID)
	task, _ := args.Get(0).(*models.Task)
	return task, args.Error(1)
}

var testNow = time.Date(2026, time.October, 15, 10, 0, 0, 0, time.UTC)

func init() {
	gin.SetMode(gin.TestMode)
}

func setupRouter(deps Dependencies) *gin.Engine {
	if deps.Clock == nil {
		deps.Clock = clock.NewManual(testNow)
	}
	if deps.Groups == nil {
		deps.Groups = config.NewLocationGroups(config.DefaultLocationGroups...)
	}
	logger := logrus.New()

	router := gin.New()
	SetupRoutes(router, NewHandler(deps, logger))
	SetupLocationGroupRoutes(router, deps.Groups, logger)
	return router
}

func doRequest(router *gin.Engine, method, path string, body any, headers ...string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		if raw, ok := body.(string); ok {
			buf.WriteString(raw)
		} else {
			_ = json.NewEncoder(&buf).Encode(body)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func f64(v float64) *float64 { return &v }
func intp(v int) *int        { return &v }

func TestRespondErrorMapping(t *testing.T) {
	store := &MockStore{}
	router := setupRouter(Dependencies{Store: store})

	store.On("GetClient", mock.Anything, "missing").Return(nil, assert.AnError).Once()
	w := doRequest(router, http.MethodGet, "/api/clients/missing", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Failed to get client", decode[map[string]string](t, w)["error"])
}

func TestCriteriaValidationErrorBody(t *testing.T) {
	router := setupRouter(Dependencies{Store: &MockStore{}})

	w := doRequest(router, http.MethodPost, "/api/clients", gin.H{
		"name":       "Omar",
		"min_budget": 3_000_000,
		"max_budget": 1_000_000,
		"min_area":   -5,
	})

	require.Equal(t, http.StatusBadRequest, w.Code)
	body := decode[struct {
		Error  string            `json:"error"`
		Fields map[string]string `json:"fields"`
	}](t, w)
	assert.Contains(t, body.Fields, "max_budget")
	assert.Contains(t, body.Fields, "min_area")
}
