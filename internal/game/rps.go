package game

import "github.com/shopspring/decimal"

const (
	Rock     = "rock"
	Paper    = "paper"
	Scissors = "scissors"
)

var beats = map[string]string{
	Rock:     Scissors,
	Scissors: Paper,
	Paper:    Rock,
}

// rps is rock-paper-scissors against a house opponent. A win returns twice
// the stake, so the net effect on balance is +wager.
type rps struct{}

func (rps) ID() ID { return RPS }

func (rps) Inputs() []string { return []string{Rock, Paper, Scissors} }

func (rps) Outcomes() []string { return []string{Rock, Paper, Scissors} }

func (g rps) Settle(wager decimal.Decimal, input, outcome string) (Outcome, error) {
	if err := ValidateInput(g, input); err != nil {
		return Outcome{}, err
	}
	if err := ValidateOutcome(g, outcome); err != nil {
		return Outcome{}, err
	}
	var res Result
	switch {
	case input == outcome:
		res = Tie
	case beats[input] == outcome:
		res = Win
	default:
		res = Lose
	}
	return Outcome{Value: outcome, Result: res, Net: net(res, wager)}, nil
}
