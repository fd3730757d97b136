package backend_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/stockalert/pkg/backend"
	"github.com/dmitrymomot/stockalert/pkg/logger"
	"github.com/dmitrymomot/stockalert/pkg/notifications"
)

type fakeService struct {
	mu      sync.Mutex
	records []backend.Record
	reads   map[string]bool
	created []backend.Record
	token   string
}

func newFakeService(t *testing.T, records ...backend.Record) (*fakeService, *httptest.Server) {
	t.Helper()

	f := &fakeService{records: records, reads: map[string]bool{}, token: "secret"}

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("Authorization") != "Bearer "+f.token {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	})
	r.Get("/notifications", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		includeRead := r.URL.Query().Get("include_read") == "true"
		out := []backend.Record{}
		for _, rec := range f.records {
			if rec.IsRead && !includeRead {
				continue
			}
			out = append(out, rec)
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(out)
	})
	r.Patch("/notifications/{id}/read", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			IsRead bool `json:"is_read"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, "bad body", http.StatusBadRequest)
			return
		}
		id := chi.URLParam(r, "id")
		if id == "missing" {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		f.mu.Lock()
		f.reads[id] = body.IsRead
		f.mu.Unlock()
		w.WriteHeader(http.StatusNoContent)
	})
	r.Post("/notifications", func(w http.ResponseWriter, r *http.Request) {
		var rec backend.Record
		if err := json.NewDecoder(r.Body).Decode(&rec); err != nil {
			http.Error(w, "bad body", http.StatusBadRequest)
			return
		}
		f.mu.Lock()
		f.created = append(f.created, rec)
		f.mu.Unlock()
		w.WriteHeader(http.StatusCreated)
	})

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return f, srv
}

func newClient(srv *httptest.Server, token string) *backend.Client {
	return backend.New(srv.URL+"/", backend.WithBearerToken(token), backend.WithLogger(logger.Discard()))
}

func TestClient_List(t *testing.T) {
	t.Parallel()

	created := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	_, srv := newFakeService(t,
		backend.Record{ID: "a", Type: "low_stock", Title: "Low", Category: "inventory", Priority: "high", CreatedAt: created},
		backend.Record{ID: "b", Type: "purchase_order", Title: "PO", CreatedAt: created, IsRead: true},
	)
	c := newClient(srv, "secret")

	unread, err := c.List(context.Background(), false)
	require.NoError(t, err)
	require.Len(t, unread, 1)
	assert.Equal(t, "a", unread[0].ID)
	assert.Equal(t, notifications.PriorityHigh, unread[0].Priority)
	assert.True(t, created.Equal(unread[0].Timestamp))

	all, err := c.List(context.Background(), true)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.True(t, all[1].Read)
	assert.Equal(t, notifications.CategoryOrder, all[1].Category, "category derived from type")
	assert.Equal(t, notifications.PriorityMedium, all[1].Priority, "priority derived from type")
}

func TestClient_MarkRead(t *testing.T) {
	t.Parallel()

	f, srv := newFakeService(t)
	c := newClient(srv, "secret")

	require.NoError(t, c.MarkRead(context.Background(), "n1", true))
	f.mu.Lock()
	assert.True(t, f.reads["n1"])
	f.mu.Unlock()

	err := c.MarkRead(context.Background(), "missing", true)
	var se *backend.StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusNotFound, se.StatusCode)
	assert.ErrorIs(t, err, backend.ErrUnexpectedStatus)

	assert.ErrorIs(t, c.MarkRead(context.Background(), "", true), backend.ErrEmptyID)
}

func TestClient_Create(t *testing.T) {
	t.Parallel()

	f, srv := newFakeService(t)
	c := newClient(srv, "secret")

	n := notifications.Notification{
		ID:        "n1",
		Type:      notifications.TypeOutOfStock,
		Category:  notifications.CategoryInventory,
		Priority:  notifications.PriorityCritical,
		Title:     "Out of Stock",
		Message:   "Widget is out of stock at Main",
		Timestamp: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
		Metadata:  &notifications.Metadata{ItemID: "p1", LocationID: "w1", MinStockLevel: 5},
	}
	require.NoError(t, c.Create(context.Background(), n))

	f.mu.Lock()
	defer f.mu.Unlock()
	require.Len(t, f.created, 1)
	got := f.created[0]
	assert.Equal(t, "n1", got.ID)
	assert.Equal(t, "out_of_stock", got.Type)
	assert.Equal(t, "critical", got.Priority)
	assert.False(t, got.IsRead)
	require.NotNil(t, got.Metadata)
	assert.Equal(t, "p1", got.Metadata.ItemID)
}

func TestClient_Unauthorized(t *testing.T) {
	t.Parallel()

	_, srv := newFakeService(t)
	c := newClient(srv, "wrong")

	_, err := c.List(context.Background(), true)
	var se *backend.StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusUnauthorized, se.StatusCode)
	assert.Equal(t, "unauthorized", se.Body)
}

func TestClient_DecodeError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("not json"))
	}))
	t.Cleanup(srv.Close)

	_, err := backend.New(srv.URL).List(context.Background(), false)
	assert.ErrorIs(t, err, backend.ErrDecodeResponse)
}

func TestRecord_RoundTrip(t *testing.T) {
	t.Parallel()

	n := notifications.Notification{
		ID:        "n1",
		Type:      notifications.TypeLowStock,
		Category:  notifications.CategoryInventory,
		Priority:  notifications.PriorityHigh,
		Title:     "Low Stock Alert",
		Timestamp: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
		Read:      true,
	}
	assert.Equal(t, n, backend.FromNotification(n).Notification())
}
