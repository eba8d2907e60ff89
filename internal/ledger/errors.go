package ledger

import (
	"context"
	"errors"

	"xbet/internal/game"
	"xbet/internal/money"
	"xbet/internal/store"
)

var (
	ErrInvalidRequest          = errors.New("invalid_request")
	ErrInvalidWager            = errors.New("invalid_wager")
	ErrInvalidAmount           = money.ErrInvalidAmount
	ErrInvalidChoice           = game.ErrInvalidChoice
	ErrInvalidOutcome          = game.ErrInvalidOutcome
	ErrUnknownGame             = game.ErrUnknownGame
	ErrClientOutcomeNotAllowed = errors.New("client_outcome_not_allowed")
	ErrInsufficientFunds       = store.ErrInsufficientFunds
	ErrRequestReused           = errors.New("request_id_reused")
	ErrAccountNotFound         = errors.New("account_not_found")
	ErrTryAgain                = errors.New("try_again")
)

// Kind separates "your input was invalid" from "valid but refused" from
// "try again later" so callers never collapse them.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindRejected
	KindNotFound
	KindTransient
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindRejected:
		return "rejected"
	case KindNotFound:
		return "not_found"
	case KindTransient:
		return "transient"
	default:
		return "internal"
	}
}

func Classify(err error) Kind {
	switch {
	case err == nil:
		return KindInternal
	case errors.Is(err, ErrInvalidRequest),
		errors.Is(err, ErrInvalidWager),
		errors.Is(err, ErrInvalidAmount),
		errors.Is(err, ErrInvalidChoice),
		errors.Is(err, ErrInvalidOutcome),
		errors.Is(err, ErrUnknownGame),
		errors.Is(err, ErrClientOutcomeNotAllowed):
		return KindValidation
	case errors.Is(err, ErrInsufficientFunds),
		errors.Is(err, ErrRequestReused):
		return KindRejected
	case errors.Is(err, ErrAccountNotFound):
		return KindNotFound
	case errors.Is(err, ErrTryAgain),
		errors.Is(err, context.DeadlineExceeded):
		return KindTransient
	default:
		return KindInternal
	}
}

func mapStoreErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, store.ErrTxConflict):
		return ErrTryAgain
	case errors.Is(err, store.ErrNotFound):
		return ErrAccountNotFound
	default:
		return err
	}
}
