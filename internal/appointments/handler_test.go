package appointments

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingStore struct{ *MemoryStore }

func (failingStore) Create(ctx context.Context, rec Record) (string, error) {
	return "", errors.New("write failed")
}

func (failingStore) ListRecent(ctx context.Context, limit int) ([]Record, error) {
	return nil, errors.New("read failed")
}

func newTestRouter(store Store) (http.Handler, *recordingNotifier) {
	n := &recordingNotifier{}
	h := NewHandler(NewService(store, n, nil, ServiceConfig{}, nil, nil), nil)
	r := chi.NewRouter()
	r.Post("/api/booking/appointments", h.Log)
	r.Get("/admin/appointments", h.List)
	r.Get("/admin/appointments/{id}", h.Get)
	r.Get("/client/appointments", h.ListForClient)
	return r, n
}

func requestBody(t *testing.T, v any) *strings.Reader {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return strings.NewReader(string(b))
}

func TestHandlerLog(t *testing.T) {
	router, n := newTestRouter(NewMemoryStore())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/booking/appointments", requestBody(t, validRequest())))

	require.Equal(t, http.StatusCreated, rec.Code)
	var res Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.True(t, res.Success)
	assert.NotEmpty(t, res.InquiryID)
	assert.Len(t, n.chats, 1)
}

func TestHandlerLog_Validation(t *testing.T) {
	router, n := newTestRouter(NewMemoryStore())

	req := validRequest()
	req.UPITransactionID = ""
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/booking/appointments", requestBody(t, req)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "upiTransactionId")

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/booking/appointments", strings.NewReader("{")))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Zero(t, n.calls())
}

func TestHandlerLog_StoreFailure(t *testing.T) {
	router, _ := newTestRouter(failingStore{NewMemoryStore()})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/booking/appointments", requestBody(t, validRequest())))

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	var res Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.False(t, res.Success)
	assert.Equal(t, FailureMessage, res.Message)
}

func TestHandlerReads(t *testing.T) {
	store := NewMemoryStore()
	id, err := store.Create(context.Background(), NewRecord(validRequest()))
	require.NoError(t, err)
	router, _ := newTestRouter(store)

	tests := []struct {
		name       string
		path       string
		wantStatus int
		wantBody   string
	}{
		{"list", "/admin/appointments", http.StatusOK, `"count":1`},
		{"list with limit", "/admin/appointments?limit=5", http.StatusOK, id},
		{"bad limit", "/admin/appointments?limit=zero", http.StatusBadRequest, "limit"},
		{"get", "/admin/appointments/" + id, http.StatusOK, `"upiTransactionId":"UPI123456"`},
		{"get missing", "/admin/appointments/nope", http.StatusNotFound, "not found"},
		{"client list", "/client/appointments?email=asha@example.com", http.StatusOK, `"program":"General Inquiry"`},
		{"client list without email", "/client/appointments", http.StatusBadRequest, "email"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))
			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.wantBody)
		})
	}
}

func TestHandlerList_StoreError(t *testing.T) {
	router, _ := newTestRouter(failingStore{NewMemoryStore()})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin/appointments", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
