package game

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	ErrUnknownGame    = errors.New("unknown_game")
	ErrInvalidChoice  = errors.New("invalid_choice")
	ErrInvalidOutcome = errors.New("invalid_outcome")
)

// Engine resolves one round of a game. Implementations are pure: they never
// read or write balances.
type Engine interface {
	ID() ID
	// Inputs lists the legal player choices.
	Inputs() []string
	// Outcomes lists the values the house side can resolve to.
	Outcomes() []string
	// Settle resolves a round for a given player input and house outcome.
	Settle(wager decimal.Decimal, input, outcome string) (Outcome, error)
}

var engines = map[ID]Engine{
	Wheel: wheel{},
	RPS:   rps{},
}

func Lookup(id ID) (Engine, error) {
	e, ok := engines[ID(strings.ToLower(string(id)))]
	if !ok {
		return nil, ErrUnknownGame
	}
	return e, nil
}

func All() []Engine {
	return []Engine{engines[Wheel], engines[RPS]}
}

// Normalize lower-cases and trims a choice value.
func Normalize(v string) string {
	return strings.ToLower(strings.TrimSpace(v))
}

func ValidateInput(e Engine, input string) error {
	if !contains(e.Inputs(), input) {
		return ErrInvalidChoice
	}
	return nil
}

func ValidateOutcome(e Engine, outcome string) error {
	if !contains(e.Outcomes(), outcome) {
		return ErrInvalidOutcome
	}
	return nil
}

// Draw picks a house outcome uniformly from the engine's outcome domain.
func Draw(e Engine, src Source) string {
	outs := e.Outcomes()
	return outs[src.IntN(len(outs))]
}

func contains(vals []string, v string) bool {
	for _, x := range vals {
		if x == v {
			return true
		}
	}
	return false
}

func net(r Result, wager decimal.Decimal) decimal.Decimal {
	switch r {
	case Win:
		return wager
	case Lose:
		return wager.Neg()
	default:
		return decimal.Zero
	}
}
