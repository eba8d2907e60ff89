package httptransport

import (
	"encoding/json"
	"net/http"

	appreport "xbet/internal/app/report"
)

type ReportHandlers struct {
	svc *appreport.Service
}

func NewReportHandlers(svc *appreport.Service) *ReportHandlers {
	return &ReportHandlers{svc: svc}
}

func (h *ReportHandlers) Submit() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body appreport.SubmitInput
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_json")
			return
		}
		acc, _ := AccountFromContext(r.Context())
		rep, err := h.svc.Submit(r.Context(), acc.ID, body)
		if err != nil {
			writeReportError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, rep)
	}
}

func (h *ReportHandlers) ListMine() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, offset, ok := ParsePagination(r)
		if !ok {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_request")
			return
		}
		acc, _ := AccountFromContext(r.Context())
		resp, err := h.svc.ListMine(r.Context(), acc.ID, limit, offset)
		if err != nil {
			writeReportError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, resp)
	}
}
