package game

import (
	"encoding/json"

	"xbet/internal/money"

	"github.com/shopspring/decimal"
)

type ID string

const (
	Wheel ID = "wheel"
	RPS   ID = "rps"
)

type Result string

const (
	Win  Result = "win"
	Lose Result = "lose"
	Tie  Result = "tie"
)

// Outcome is what a single settled round resolved to. Net is the signed
// balance change: +wager on a win, -wager on a loss, zero on a tie.
type Outcome struct {
	Value  string          `json:"outcome"`
	Result Result          `json:"result"`
	Net    decimal.Decimal `json:"net_amount"`
}

func (o Outcome) MarshalJSON() ([]byte, error) {
	type plain Outcome
	return json.Marshal(struct {
		plain
		Net money.Amount `json:"net_amount"`
	}{plain(o), money.Amount(o.Net)})
}
