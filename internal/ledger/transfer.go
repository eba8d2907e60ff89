package ledger

import (
	"context"

	"xbet/internal/money"
	"xbet/internal/store"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

type Transfer struct {
	Entry         store.JournalEntry `json:"entry"`
	BalanceBefore decimal.Decimal    `json:"balance_before"`
	BalanceAfter  decimal.Decimal    `json:"new_balance"`
}

func (c *Coordinator) Deposit(ctx context.Context, accountID int64, amount decimal.Decimal) (*Transfer, error) {
	return c.transfer(ctx, accountID, amount, store.JournalDeposit)
}

// Withdraw refuses with ErrInsufficientFunds when amount exceeds the
// balance; nothing is written in that case.
func (c *Coordinator) Withdraw(ctx context.Context, accountID int64, amount decimal.Decimal) (*Transfer, error) {
	return c.transfer(ctx, accountID, amount, store.JournalWithdraw)
}

func (c *Coordinator) transfer(ctx context.Context, accountID int64, amount decimal.Decimal, kind string) (*Transfer, error) {
	out, err := c.doTransfer(ctx, accountID, amount, kind)
	countOutcome(err, metricTransferTotal, metricTransferRejected, metricTransferErrors)
	if err != nil && Classify(err) == KindInternal {
		log.Error().Err(err).Int64("account_id", accountID).Str("type", kind).Msg("transfer failed")
	}
	return out, err
}

func (c *Coordinator) doTransfer(ctx context.Context, accountID int64, amount decimal.Decimal, kind string) (*Transfer, error) {
	if accountID <= 0 {
		return nil, ErrInvalidRequest
	}
	if err := money.Positive(amount); err != nil {
		return nil, ErrInvalidAmount
	}
	if max := c.policy.MaxTransferAmount; max.IsPositive() && amount.GreaterThan(max) {
		return nil, ErrInvalidAmount
	}
	delta := amount
	if kind == store.JournalWithdraw {
		delta = amount.Neg()
	}

	var result *Transfer
	err := c.store.InTx(ctx, func(tx store.LedgerTx) error {
		bal, err := tx.LockBalance(ctx, accountID)
		if err != nil {
			return err
		}
		if kind == store.JournalWithdraw && bal.Amount.LessThan(amount) {
			return ErrInsufficientFunds
		}
		after, err := tx.ApplyDelta(ctx, accountID, delta)
		if err != nil {
			return err
		}
		entry := store.JournalEntry{
			AccountID:    accountID,
			Type:         kind,
			Amount:       delta,
			BalanceAfter: after.Amount,
			RefType:      "transfer",
			RefID:        store.NewRefID(kind),
		}
		if err := tx.InsertJournal(ctx, &entry); err != nil {
			return err
		}
		result = &Transfer{Entry: entry, BalanceBefore: bal.Amount, BalanceAfter: after.Amount}
		return nil
	})
	if err != nil {
		return nil, mapStoreErr(err)
	}
	return result, nil
}
