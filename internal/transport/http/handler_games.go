package httptransport

import (
	"encoding/json"
	"net/http"
	"strings"

	"xbet/internal/game"
	"xbet/internal/ledger"
	"xbet/internal/store"

	"github.com/go-chi/chi/v5"
)

type GameHandlers struct {
	coord *ledger.Coordinator
}

func NewGameHandlers(coord *ledger.Coordinator) *GameHandlers {
	return &GameHandlers{coord: coord}
}

type playRequest struct {
	Wager     json.RawMessage `json:"wager"`
	Choice    string          `json:"choice"`
	Outcome   string          `json:"outcome,omitempty"`
	RequestID string          `json:"request_id,omitempty"`
}

func (h *GameHandlers) Play() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		metricPlayRequests.Add(1)
		var body playRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_json")
			return
		}
		wager, err := parseAmount(body.Wager)
		if err != nil {
			WriteHTTPError(w, http.StatusBadRequest, ledger.ErrInvalidWager.Error())
			return
		}
		requestID := body.RequestID
		if requestID == "" {
			requestID = strings.TrimSpace(r.Header.Get("Idempotency-Key"))
		}
		acc, _ := AccountFromContext(r.Context())
		out, err := h.coord.SettleWager(r.Context(), ledger.WagerRequest{
			AccountID:     acc.ID,
			Game:          game.ID(chi.URLParam(r, "game")),
			Wager:         wager,
			Input:         body.Choice,
			ClientOutcome: body.Outcome,
			RequestID:     requestID,
		})
		if err != nil {
			writeLedgerError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func (h *GameHandlers) History() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, offset, ok := ParsePagination(r)
		if !ok {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_request")
			return
		}
		acc, _ := AccountFromContext(r.Context())
		items, err := h.coord.History(r.Context(), acc.ID, game.ID(chi.URLParam(r, "game")), limit, offset)
		if err != nil {
			writeLedgerError(w, err)
			return
		}
		if items == nil {
			items = []store.PlayRecord{}
		}
		writeJSON(w, http.StatusOK, map[string]any{"items": items, "limit": limit, "offset": offset})
	}
}

func (h *GameHandlers) Stats() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		acc, _ := AccountFromContext(r.Context())
		st, err := h.coord.Stats(r.Context(), acc.ID, game.ID(chi.URLParam(r, "game")))
		if err != nil {
			writeLedgerError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, st)
	}
}
