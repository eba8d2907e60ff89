package httptransport

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"xbet/internal/ledger"
	"xbet/internal/money"

	"github.com/shopspring/decimal"
)

type WalletHandlers struct {
	coord *ledger.Coordinator
}

func NewWalletHandlers(coord *ledger.Coordinator) *WalletHandlers {
	return &WalletHandlers{coord: coord}
}

func (h *WalletHandlers) Balance() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		acc, _ := AccountFromContext(r.Context())
		bal, err := h.coord.GetBalance(r.Context(), acc.ID)
		if err != nil {
			writeLedgerError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, bal)
	}
}

func (h *WalletHandlers) Deposit() http.HandlerFunc {
	return h.transfer(h.coord.Deposit)
}

func (h *WalletHandlers) Withdraw() http.HandlerFunc {
	return h.transfer(h.coord.Withdraw)
}

type transferFunc func(ctx context.Context, accountID int64, amount decimal.Decimal) (*ledger.Transfer, error)

func (h *WalletHandlers) transfer(fn transferFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Amount json.RawMessage `json:"amount"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_json")
			return
		}
		amount, err := parseAmount(body.Amount)
		if err != nil {
			WriteHTTPError(w, http.StatusBadRequest, ledger.ErrInvalidAmount.Error())
			return
		}
		acc, _ := AccountFromContext(r.Context())
		out, err := fn(r.Context(), acc.ID, amount)
		if err != nil {
			writeLedgerError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// parseAmount accepts either a JSON number or a numeric string.
func parseAmount(raw json.RawMessage) (decimal.Decimal, error) {
	s := strings.TrimSpace(string(raw))
	if uq, err := strconv.Unquote(s); err == nil {
		s = uq
	}
	return money.Parse(s)
}
