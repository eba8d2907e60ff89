package httptransport

import (
	"errors"
	"net/http"

	appaccount "xbet/internal/app/account"
	appreport "xbet/internal/app/report"
	"xbet/internal/ledger"

	"github.com/rs/zerolog/log"
)

var ledgerCodes = []error{
	ledger.ErrInvalidRequest,
	ledger.ErrInvalidWager,
	ledger.ErrInvalidAmount,
	ledger.ErrInvalidChoice,
	ledger.ErrInvalidOutcome,
	ledger.ErrUnknownGame,
	ledger.ErrClientOutcomeNotAllowed,
	ledger.ErrInsufficientFunds,
	ledger.ErrRequestReused,
	ledger.ErrAccountNotFound,
	ledger.ErrTryAgain,
}

func ledgerCode(err error) string {
	for _, c := range ledgerCodes {
		if errors.Is(err, c) {
			return c.Error()
		}
	}
	return "internal_error"
}

// writeLedgerError maps coordinator errors by kind. Internal errors are
// already logged by the coordinator and leave the response opaque.
func writeLedgerError(w http.ResponseWriter, err error) {
	switch ledger.Classify(err) {
	case ledger.KindValidation:
		WriteHTTPError(w, http.StatusBadRequest, ledgerCode(err))
	case ledger.KindRejected:
		if errors.Is(err, ledger.ErrInsufficientFunds) {
			WriteHTTPError(w, http.StatusUnprocessableEntity, ledgerCode(err))
			return
		}
		WriteHTTPError(w, http.StatusConflict, ledgerCode(err))
	case ledger.KindNotFound:
		WriteHTTPError(w, http.StatusNotFound, ledgerCode(err))
	case ledger.KindTransient:
		metricTransientResponses.Add(1)
		w.Header().Set("Retry-After", "1")
		WriteHTTPError(w, http.StatusServiceUnavailable, ledger.ErrTryAgain.Error())
	default:
		WriteHTTPError(w, http.StatusInternalServerError, "internal_error")
	}
}

func writeAccountError(w http.ResponseWriter, err error) {
	var verr *appaccount.ValidationError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"error":  appaccount.ErrValidationFailed.Error(),
			"field":  verr.Field,
			"reason": verr.Reason,
		})
	case errors.Is(err, appaccount.ErrInvalidRequest):
		WriteHTTPError(w, http.StatusBadRequest, "invalid_request")
	case errors.Is(err, appaccount.ErrDuplicateEmail):
		WriteHTTPError(w, http.StatusConflict, "duplicate_email")
	case errors.Is(err, appaccount.ErrDuplicatePhone):
		WriteHTTPError(w, http.StatusConflict, "duplicate_phone")
	case errors.Is(err, appaccount.ErrInvalidCredentials):
		WriteHTTPError(w, http.StatusUnauthorized, "invalid_credentials")
	case errors.Is(err, appaccount.ErrUnauthenticated):
		WriteHTTPError(w, http.StatusUnauthorized, "unauthenticated")
	default:
		log.Error().Err(err).Msg("account request failed")
		WriteHTTPError(w, http.StatusInternalServerError, "internal_error")
	}
}

func writeReportError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, appreport.ErrInvalidRequest):
		WriteHTTPError(w, http.StatusBadRequest, "invalid_request")
	case errors.Is(err, appreport.ErrInvalidCategory):
		WriteHTTPError(w, http.StatusBadRequest, "invalid_category")
	case errors.Is(err, appreport.ErrInvalidStatus):
		WriteHTTPError(w, http.StatusBadRequest, "invalid_status")
	case errors.Is(err, appreport.ErrReportNotFound):
		WriteHTTPError(w, http.StatusNotFound, "report_not_found")
	default:
		log.Error().Err(err).Msg("report request failed")
		WriteHTTPError(w, http.StatusInternalServerError, "internal_error")
	}
}
