package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dmitrymomot/stockalert/pkg/logger"
	"github.com/dmitrymomot/stockalert/pkg/notifications"
	"github.com/dmitrymomot/stockalert/pkg/push"
)

type errorResponse struct {
	Error string `json:"error"`
}

type countResponse struct {
	Count int `json:"count"`
}

type passResponse struct {
	Items            int    `json:"items"`
	Dispatched       int    `json:"dispatched"`
	DeliveryFailures int    `json:"delivery_failures"`
	Suppressed       int    `json:"suppressed"`
	Disabled         int    `json:"disabled"`
	DurationMS       int64  `json:"duration_ms"`
	Error            string `json:"error,omitempty"`
}

type unsubscribeRequest struct {
	Endpoint string `json:"endpoint"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, status int, err error) {
	if status >= http.StatusInternalServerError {
		h.logger.LogAttrs(r.Context(), slog.LevelError, "api request failed",
			slog.String("path", r.URL.Path),
			logger.Error(err),
		)
	}
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func decode(w http.ResponseWriter, r *http.Request, v any) error {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(v); err != nil {
		return errors.Join(ErrInvalidBody, err)
	}
	return nil
}

// GET /notifications[?category=&unread=true]
func (h *Handler) listNotifications(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	unread := q.Get("unread") == "true"

	var list []notifications.Notification
	switch c := q.Get("category"); {
	case c != "":
		list = h.ledger.ByCategory(notifications.Category(c))
		if unread {
			filtered := list[:0]
			for _, n := range list {
				if !n.Read {
					filtered = append(filtered, n)
				}
			}
			list = filtered
		}
	case unread:
		list = h.ledger.UnreadOnly()
	default:
		list = h.ledger.Notifications()
	}
	if list == nil {
		list = []notifications.Notification{}
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *Handler) unreadCount(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, countResponse{Count: h.ledger.UnreadCount()})
}

func (h *Handler) markRead(w http.ResponseWriter, r *http.Request) {
	if err := h.ledger.MarkAsRead(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.writeLedgerError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) markAllRead(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, countResponse{Count: h.ledger.MarkAllAsRead(r.Context())})
}

func (h *Handler) removeNotification(w http.ResponseWriter, r *http.Request) {
	if err := h.ledger.Remove(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.writeLedgerError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) clearNotifications(w http.ResponseWriter, r *http.Request) {
	h.ledger.ClearAll(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) sync(w http.ResponseWriter, r *http.Request) {
	if err := h.ledger.Sync(r.Context()); err != nil {
		h.writeError(w, r, http.StatusBadGateway, err)
		return
	}
	writeJSON(w, http.StatusOK, countResponse{Count: h.ledger.UnreadCount()})
}

func (h *Handler) writeLedgerError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, notifications.ErrNotificationNotFound) {
		h.writeError(w, r, http.StatusNotFound, err)
		return
	}
	h.writeError(w, r, http.StatusInternalServerError, err)
}

func (h *Handler) check(w http.ResponseWriter, r *http.Request) {
	res := h.checker.CheckNow(r.Context())
	if res.Skipped {
		h.writeError(w, r, http.StatusConflict, ErrCheckInProgress)
		return
	}

	out := passResponse{
		Items:            res.Items,
		Dispatched:       res.Dispatched,
		DeliveryFailures: res.DeliveryFailures,
		Suppressed:       res.Suppressed,
		Disabled:         res.Disabled,
		DurationMS:       res.Duration.Milliseconds(),
	}
	if res.Err != nil {
		out.Error = res.Err.Error()
		writeJSON(w, http.StatusBadGateway, out)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) getPreferences(w http.ResponseWriter, r *http.Request) {
	p, err := h.prefs.Load(r.Context())
	if err != nil {
		// Load still returns usable defaults.
		h.logger.LogAttrs(r.Context(), slog.LevelWarn, "serving default preferences", logger.Error(err))
	}
	writeJSON(w, http.StatusOK, p)
}

// PUT /preferences decodes over the current preferences, so omitted fields keep their value.
func (h *Handler) putPreferences(w http.ResponseWriter, r *http.Request) {
	p, _ := h.prefs.Load(r.Context())
	if err := decode(w, r, &p); err != nil {
		h.writeError(w, r, http.StatusBadRequest, err)
		return
	}
	if err := h.prefs.Save(r.Context(), p); err != nil {
		if errors.Is(err, notifications.ErrInvalidPreferences) {
			h.writeError(w, r, http.StatusUnprocessableEntity, err)
			return
		}
		h.writeError(w, r, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *Handler) vapidKey(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"public_key": h.vapid})
}

func (h *Handler) subscribe(w http.ResponseWriter, r *http.Request) {
	var sub push.Subscription
	if err := decode(w, r, &sub); err != nil {
		h.writeError(w, r, http.StatusBadRequest, err)
		return
	}
	if err := h.subs.Add(r.Context(), sub); err != nil {
		if errors.Is(err, push.ErrInvalidSubscription) {
			h.writeError(w, r, http.StatusUnprocessableEntity, err)
			return
		}
		h.writeError(w, r, http.StatusInternalServerError, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
}

func (h *Handler) unsubscribe(w http.ResponseWriter, r *http.Request) {
	var req unsubscribeRequest
	if err := decode(w, r, &req); err != nil {
		h.writeError(w, r, http.StatusBadRequest, err)
		return
	}
	if err := h.subs.Remove(r.Context(), req.Endpoint); err != nil {
		h.writeError(w, r, http.StatusInternalServerError, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)

		h.logger.LogAttrs(r.Context(), slog.LevelDebug, "api request",
			logger.Component("api"),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("status", ww.Status()),
			logger.Duration(time.Since(start)),
		)
	})
}
