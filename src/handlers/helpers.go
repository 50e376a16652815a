package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"fintrack-server/src/ledger"
	"fintrack-server/src/util"
)

func decodeJSON(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}

// urlID parses a positive integer path parameter.
func urlID(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// writeLedgerError maps report engine failures onto HTTP statuses.
func writeLedgerError(w http.ResponseWriter, log zerolog.Logger, err error, msg string) {
	switch {
	case errors.Is(err, ledger.ErrInvalidPeriod):
		util.WriteError(w, http.StatusBadRequest, "invalid period")
	case errors.Is(err, ledger.ErrInvalidMonth):
		util.WriteError(w, http.StatusBadRequest, "invalid year or month")
	default:
		log.Error().Err(err).Msg("Failed to " + msg)
		util.WriteError(w, http.StatusInternalServerError, "failed to "+msg)
	}
}
