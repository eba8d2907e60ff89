package store

import (
	"encoding/json"

	"xbet/internal/money"
)

// The marshalers below keep monetary fields at two digits of scale on the
// wire. Decoding is left to decimal, which accepts either form.

func (b Balance) MarshalJSON() ([]byte, error) {
	type plain Balance
	return json.Marshal(struct {
		plain
		Amount money.Amount `json:"balance"`
	}{plain(b), money.Amount(b.Amount)})
}

func (p PlayRecord) MarshalJSON() ([]byte, error) {
	type plain PlayRecord
	return json.Marshal(struct {
		plain
		Wager         money.Amount `json:"wager"`
		WinLoss       money.Amount `json:"win_loss_amount"`
		BalanceBefore money.Amount `json:"balance_before"`
		BalanceAfter  money.Amount `json:"balance_after"`
	}{plain(p), money.Amount(p.Wager), money.Amount(p.WinLoss), money.Amount(p.BalanceBefore), money.Amount(p.BalanceAfter)})
}

// MarshalJSON also carries the derived win percentage.
func (g GameStats) MarshalJSON() ([]byte, error) {
	type plain GameStats
	return json.Marshal(struct {
		plain
		TotalWagered  money.Amount `json:"total_wagered"`
		TotalWon      money.Amount `json:"total_won"`
		TotalLost     money.Amount `json:"total_lost"`
		NetProfit     money.Amount `json:"net_profit"`
		WinPercentage float64      `json:"win_percentage"`
	}{
		plain(g),
		money.Amount(g.TotalWagered), money.Amount(g.TotalWon), money.Amount(g.TotalLost), money.Amount(g.NetProfit),
		g.WinPercentage(),
	})
}

func (e JournalEntry) MarshalJSON() ([]byte, error) {
	type plain JournalEntry
	return json.Marshal(struct {
		plain
		Amount       money.Amount `json:"amount"`
		BalanceAfter money.Amount `json:"balance_after"`
	}{plain(e), money.Amount(e.Amount), money.Amount(e.BalanceAfter)})
}

func (a AccountSummary) MarshalJSON() ([]byte, error) {
	type plain AccountSummary
	return json.Marshal(struct {
		plain
		Balance money.Amount `json:"balance"`
	}{plain(a), money.Amount(a.Balance)})
}
