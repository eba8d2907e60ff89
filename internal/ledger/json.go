package ledger

import (
	"encoding/json"

	"xbet/internal/money"
)

func (s Settlement) MarshalJSON() ([]byte, error) {
	type plain Settlement
	return json.Marshal(struct {
		plain
		BalanceBefore money.Amount `json:"balance_before"`
		BalanceAfter  money.Amount `json:"balance_after"`
	}{plain(s), money.Amount(s.BalanceBefore), money.Amount(s.BalanceAfter)})
}

func (t Transfer) MarshalJSON() ([]byte, error) {
	type plain Transfer
	return json.Marshal(struct {
		plain
		BalanceBefore money.Amount `json:"balance_before"`
		BalanceAfter  money.Amount `json:"new_balance"`
	}{plain(t), money.Amount(t.BalanceBefore), money.Amount(t.BalanceAfter)})
}
