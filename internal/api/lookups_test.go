package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"brokercrm/server/internal/labels"
)

func TestGetLookup(t *testing.T) {
	router := setupRouter(Dependencies{Store: &MockStore{}})

	w := doRequest(router, http.MethodGet, "/api/lookups/client_statuses", nil, "Accept-Language", "ar-EG,ar;q=0.9")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ar", w.Header().Get("Content-Language"))

	entries := decode[[]labels.Entry](t, w)
	require.Len(t, entries, 5)
	assert.Equal(t, labels.Entry{Value: "client", Label: "عميل", Color: "green", Icon: "heroicon-o-user-check"}, entries[2])

	w = doRequest(router, http.MethodGet, "/api/lookups/task_types?lang=en", nil, "Accept-Language", "ar")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Follow-up", decode[[]labels.Entry](t, w)[0].Label)

	w = doRequest(router, http.MethodGet, "/api/lookups/planets", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListLookups(t *testing.T) {
	router := setupRouter(Dependencies{Store: &MockStore{}})

	w := doRequest(router, http.MethodGet, "/api/lookups", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.ElementsMatch(t, labels.Kinds(), decode[[]labels.Kind](t, w))
}
