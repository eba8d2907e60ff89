package httptransport

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	appreport "xbet/internal/app/report"
	"xbet/internal/game"
	"xbet/internal/ledger"
	"xbet/internal/store"

	"github.com/go-chi/chi/v5"
)

type AdminStore interface {
	Ping(ctx context.Context) error
	ListAccounts(ctx context.Context, limit, offset int) ([]store.AccountSummary, error)
	ListJournal(ctx context.Context, f store.JournalFilter, limit, offset int) ([]store.JournalEntry, error)
}

type AdminHandlers struct {
	store   AdminStore
	coord   *ledger.Coordinator
	reports *appreport.Service
}

func NewAdminHandlers(st AdminStore, coord *ledger.Coordinator, reports *appreport.Service) *AdminHandlers {
	return &AdminHandlers{store: st, coord: coord, reports: reports}
}

func (h *AdminHandlers) Health() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := h.store.Ping(r.Context()); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]any{"ok": false, "db": "down"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"ok": true, "db": "up"})
	}
}

func (h *AdminHandlers) Accounts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, offset, ok := ParsePagination(r)
		if !ok {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_request")
			return
		}
		items, err := h.store.ListAccounts(r.Context(), limit, offset)
		if err != nil {
			WriteHTTPError(w, http.StatusInternalServerError, "internal_error")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"items": items, "limit": limit, "offset": offset})
	}
}

func (h *AdminHandlers) Journal() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, offset, ok := ParsePagination(r)
		if !ok {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_request")
			return
		}
		q := r.URL.Query()
		f := store.JournalFilter{Type: q.Get("type")}
		if v := q.Get("account_id"); v != "" {
			id, err := strconv.ParseInt(v, 10, 64)
			if err != nil {
				WriteHTTPError(w, http.StatusBadRequest, "invalid_request")
				return
			}
			f.AccountID = &id
		}
		if v := q.Get("from"); v != "" {
			if t, err := time.Parse(time.RFC3339, v); err == nil {
				f.From = &t
			}
		}
		if v := q.Get("to"); v != "" {
			if t, err := time.Parse(time.RFC3339, v); err == nil {
				f.To = &t
			}
		}
		items, err := h.store.ListJournal(r.Context(), f, limit, offset)
		if err != nil {
			WriteHTTPError(w, http.StatusInternalServerError, "internal_error")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"items": items, "limit": limit, "offset": offset})
	}
}

func (h *AdminHandlers) Reports() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, offset, ok := ParsePagination(r)
		if !ok {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_request")
			return
		}
		q := r.URL.Query()
		resp, err := h.reports.ListAll(r.Context(), q.Get("status"), q.Get("category"), limit, offset)
		if err != nil {
			writeReportError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func (h *AdminHandlers) ReportStatus() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_request")
			return
		}
		var body struct {
			Status string `json:"status"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_json")
			return
		}
		rep, err := h.reports.SetStatus(r.Context(), id, body.Status)
		if err != nil {
			writeReportError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, rep)
	}
}

// RebuildStats recomputes one account's stats row when account_id and game
// are given, or reconciles every row otherwise.
func (h *AdminHandlers) RebuildStats() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			AccountID int64  `json:"account_id"`
			Game      string `json:"game"`
		}
		if r.ContentLength != 0 {
			if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
				WriteHTTPError(w, http.StatusBadRequest, "invalid_json")
				return
			}
		}
		if body.AccountID == 0 && body.Game == "" {
			rep, err := h.coord.ReconcileStats(r.Context())
			if err != nil {
				writeLedgerError(w, err)
				return
			}
			writeJSON(w, http.StatusOK, rep)
			return
		}
		if body.AccountID <= 0 {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_request")
			return
		}
		changed, err := h.coord.RebuildStats(r.Context(), body.AccountID, game.ID(body.Game))
		if err != nil {
			writeLedgerError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"ok": true, "changed": changed})
	}
}
