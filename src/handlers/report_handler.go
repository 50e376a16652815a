package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"

	"fintrack-server/src/ledger"
	"fintrack-server/src/logger"
	"fintrack-server/src/middleware"
	"fintrack-server/src/util"
)

// GetMonthlyReport serves ?year=&month=. Unless both are given the current
// month is reported.
func GetMonthlyReport(svc *ledger.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())
		userID := middleware.UserIDFromContext(r.Context())

		var (
			report ledger.MonthlyReport
			err    error
		)
		rawYear, rawMonth := r.URL.Query().Get("year"), r.URL.Query().Get("month")
		if rawYear != "" && rawMonth != "" {
			year, errY := strconv.Atoi(rawYear)
			month, errM := strconv.Atoi(rawMonth)
			if errY != nil || errM != nil {
				util.WriteError(w, http.StatusBadRequest, "invalid year or month")
				return
			}
			report, err = svc.MonthlyReport(r.Context(), userID, year, month)
		} else {
			report, err = svc.CurrentMonthlyReport(r.Context(), userID)
		}
		if err != nil {
			writeLedgerError(w, log, err, "build monthly report")
			return
		}
		util.WriteJSON(w, http.StatusOK, report)
	}
}

// ExportCSV streams the user's transactions as a spreadsheet friendly CSV
// attachment.
func ExportCSV(svc *ledger.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())
		userID := middleware.UserIDFromContext(r.Context())

		period, err := ledger.ParsePeriod(r.URL.Query().Get("startDate"), r.URL.Query().Get("endDate"))
		if err != nil {
			writeLedgerError(w, log, err, "export transactions")
			return
		}

		var buf bytes.Buffer
		if err := svc.ExportCSV(r.Context(), userID, period, &buf); err != nil {
			writeLedgerError(w, log, err, "export transactions")
			return
		}

		filename := fmt.Sprintf("transacoes-%s.csv", svc.Now().Format("2006-01-02"))
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", "attachment; filename="+filename)
		w.WriteHeader(http.StatusOK)
		if _, err := buf.WriteTo(w); err != nil {
			log.Warn().Err(err).Msg("Failed to write CSV export")
			return
		}
		log.Info().Str("period", periodLabel(period)).Msg("Exported transactions")
	}
}

func periodLabel(p *ledger.Period) string {
	if p == nil {
		return "all"
	}
	return p.String()
}
