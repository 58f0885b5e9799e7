package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/BTreeMap/PetDiary/internal/models"
	"github.com/BTreeMap/PetDiary/internal/store"
	"github.com/BTreeMap/PetDiary/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type brokenStore struct {
	store.Store
}

func (brokenStore) Stats(context.Context) (models.Stats, error) {
	return models.Stats{}, errors.New("database is locked")
}

func serve(t *testing.T, st store.Store, method, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	rr := httptest.NewRecorder()
	NewServer(":0", st).Handler().ServeHTTP(rr, req)
	return rr
}

func TestHealthHandler(t *testing.T) {
	rr := serve(t, store.NewInMemoryStore(), http.MethodGet, "/health")
	testutil.AssertHTTPStatus(t, http.StatusOK, rr.Code, "GET /health")
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

	var body map[string]any
	testutil.MustUnmarshalJSON(t, rr.Body.Bytes(), &body)
	assert.Equal(t, "healthy", body["status"])
	assert.NotEmpty(t, body["timestamp"])
}

func TestHealthHandlerDegraded(t *testing.T) {
	rr := serve(t, brokenStore{}, http.MethodGet, "/health")
	testutil.AssertHTTPStatus(t, http.StatusServiceUnavailable, rr.Code, "GET /health")

	var body map[string]any
	testutil.MustUnmarshalJSON(t, rr.Body.Bytes(), &body)
	assert.Equal(t, "degraded", body["status"])
}

func TestStatsHandler(t *testing.T) {
	st := store.NewInMemoryStore()
	u, pet := testutil.SeedPet(t, st, 100, "Rex", models.SpeciesDog)
	ctx := context.Background()
	require.NoError(t, st.CreateEntry(ctx, &models.Entry{PetID: pet.ID, Type: models.EntryTypeMeds, Text: "pill"}))
	require.NoError(t, st.CreateReminder(ctx, &models.Reminder{UserID: u.ID, PetID: pet.ID, Title: "Repeat"}))

	rr := serve(t, st, http.MethodGet, "/stats")
	testutil.AssertHTTPStatus(t, http.StatusOK, rr.Code, "GET /stats")

	var body struct {
		Status Status       `json:"status"`
		Result models.Stats `json:"result"`
	}
	testutil.MustUnmarshalJSON(t, rr.Body.Bytes(), &body)
	assert.Equal(t, StatusOK, body.Status)
	assert.Equal(t, models.Stats{Users: 1, Pets: 1, Entries: 1, PendingReminders: 1}, body.Result)
}

func TestStatsHandlerError(t *testing.T) {
	rr := serve(t, brokenStore{}, http.MethodGet, "/stats")
	testutil.AssertHTTPStatus(t, http.StatusInternalServerError, rr.Code, "GET /stats")

	var body Response
	testutil.MustUnmarshalJSON(t, rr.Body.Bytes(), &body)
	assert.Equal(t, StatusError, body.Status)
}

func TestUnknownRouteAndMethod(t *testing.T) {
	st := store.NewInMemoryStore()
	testutil.AssertHTTPStatus(t, http.StatusNotFound, serve(t, st, http.MethodGet, "/nope").Code, "GET /nope")
	testutil.AssertHTTPStatus(t, http.StatusMethodNotAllowed, serve(t, st, http.MethodPost, "/stats").Code, "POST /stats")
}

func TestRunStopsOnCancel(t *testing.T) {
	s := NewServer("127.0.0.1:0", store.NewInMemoryStore())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.NoError(t, s.Run(ctx))
}
