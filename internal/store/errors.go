package store

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrDuplicateEmail    = errors.New("duplicate_email")
	ErrDuplicatePhone    = errors.New("duplicate_phone")
	ErrDuplicateRequest  = errors.New("duplicate_request")
	ErrInsufficientFunds = errors.New("insufficient_funds")
	// ErrTxConflict means the transaction kept losing lock or serialization
	// races and the retry budget ran out. Callers should try again later.
	ErrTxConflict = errors.New("tx_conflict")
)

const (
	pgUniqueViolation      = "23505"
	pgForeignKeyViolation  = "23503"
	pgCheckViolation       = "23514"
	pgSerializationFailure = "40001"
	pgDeadlockDetected     = "40P01"
	pgLockNotAvailable     = "55P03"
	pgQueryCanceled        = "57014"
)

func mapNotFound(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// mapConstraint turns unique/foreign-key violations into store sentinels.
func mapConstraint(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case pgUniqueViolation:
		switch pgErr.ConstraintName {
		case "accounts_email_uniq":
			return ErrDuplicateEmail
		case "accounts_phone_uniq":
			return ErrDuplicatePhone
		case "play_history_request_uniq":
			return ErrDuplicateRequest
		}
	case pgForeignKeyViolation:
		return ErrNotFound
	case pgCheckViolation:
		if pgErr.ConstraintName == "ledger_balance_nonneg" {
			return ErrInsufficientFunds
		}
	}
	return err
}

func isRetryable(err error) bool {
	switch pgCode(err) {
	case pgSerializationFailure, pgDeadlockDetected, pgLockNotAvailable:
		return true
	}
	return false
}
