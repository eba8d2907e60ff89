package game

import "github.com/shopspring/decimal"

const (
	ColorBlue  = "blue"
	ColorWhite = "white"
)

// wheel is the two-colour wheel: even money, no ties.
type wheel struct{}

func (wheel) ID() ID { return Wheel }

func (wheel) Inputs() []string { return []string{ColorBlue, ColorWhite} }

func (wheel) Outcomes() []string { return []string{ColorBlue, ColorWhite} }

func (w wheel) Settle(wager decimal.Decimal, input, outcome string) (Outcome, error) {
	if err := ValidateInput(w, input); err != nil {
		return Outcome{}, err
	}
	if err := ValidateOutcome(w, outcome); err != nil {
		return Outcome{}, err
	}
	res := Lose
	if input == outcome {
		res = Win
	}
	return Outcome{Value: outcome, Result: res, Net: net(res, wager)}, nil
}
