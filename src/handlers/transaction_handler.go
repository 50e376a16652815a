package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"cloud.google.com/go/civil"
	"github.com/jackc/pgx/v5/pgxpool"

	db "fintrack-server/src/db/sql"
	"fintrack-server/src/ledger"
	"fintrack-server/src/logger"
	"fintrack-server/src/middleware"
	"fintrack-server/src/models"
	"fintrack-server/src/util"
)

const defaultTransactionLimit = 100

// transactionFromRequest validates the body and checks that a referenced
// category belongs to userID.
func transactionFromRequest(r *http.Request, pool *pgxpool.Pool, userID int64) (*models.Transaction, []util.FieldError, error) {
	var req models.TransactionRequest
	if err := decodeJSON(r, &req); err != nil {
		return nil, []util.FieldError{{Field: "body", Message: "invalid request"}}, nil
	}
	date, errs := util.ValidateTransaction(req)
	if len(errs) > 0 {
		return nil, errs, nil
	}

	if req.CategoryID != nil {
		_, err := db.GetCategoryByID(r.Context(), pool, userID, *req.CategoryID)
		if errors.Is(err, db.ErrNotFound) {
			return nil, []util.FieldError{{Field: "category_id", Message: "category not found"}}, nil
		}
		if err != nil {
			return nil, nil, err
		}
	}

	return &models.Transaction{
		UserID:      userID,
		CategoryID:  req.CategoryID,
		Description: strings.TrimSpace(req.Description),
		Amount:      req.Amount,
		Type:        req.Type,
		Date:        date,
	}, nil, nil
}

func CreateTransaction(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())
		userID := middleware.UserIDFromContext(r.Context())

		txn, errs, err := transactionFromRequest(r, pool, userID)
		if err != nil {
			log.Error().Err(err).Msg("Failed to check transaction category")
			util.WriteError(w, http.StatusInternalServerError, "failed to create transaction")
			return
		}
		if len(errs) > 0 {
			util.WriteValidationErrors(w, errs)
			return
		}

		created, err := db.CreateTransaction(r.Context(), pool, txn)
		if err != nil {
			log.Error().Err(err).Msg("Failed to create transaction")
			util.WriteError(w, http.StatusInternalServerError, "failed to create transaction")
			return
		}

		log.Info().Int64("transaction_id", created.ID).Str("type", string(created.Type)).Msg("Created transaction")
		util.WriteJSON(w, http.StatusCreated, created)
	}
}

// parseTransactionFilter reads startDate, endDate, type, category_id, limit
// and offset from the query string.
func parseTransactionFilter(r *http.Request) (models.TransactionFilter, []util.FieldError) {
	q := r.URL.Query()
	filter := models.TransactionFilter{Limit: defaultTransactionLimit}
	var errs []util.FieldError

	for _, p := range []struct {
		name string
		dst  **civil.Date
	}{
		{"startDate", &filter.StartDate},
		{"endDate", &filter.EndDate},
	} {
		raw := q.Get(p.name)
		if raw == "" {
			continue
		}
		d, err := civil.ParseDate(raw)
		if err != nil {
			errs = append(errs, util.FieldError{Field: p.name, Message: "invalid date"})
			continue
		}
		*p.dst = &d
	}

	if raw := q.Get("type"); raw != "" {
		t := models.TransactionType(raw)
		if !t.Valid() {
			errs = append(errs, util.FieldError{Field: "type", Message: "type must be income or expense"})
		} else {
			filter.Type = &t
		}
	}

	if raw := q.Get("category_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			errs = append(errs, util.FieldError{Field: "category_id", Message: "invalid category id"})
		} else {
			filter.CategoryID = &id
		}
	}

	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			errs = append(errs, util.FieldError{Field: "limit", Message: "limit must be a positive integer"})
		} else {
			filter.Limit = n
		}
	}

	if raw := q.Get("offset"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			errs = append(errs, util.FieldError{Field: "offset", Message: "offset must not be negative"})
		} else {
			filter.Offset = n
		}
	}

	return filter, errs
}

func GetTransactions(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())
		userID := middleware.UserIDFromContext(r.Context())

		filter, errs := parseTransactionFilter(r)
		if len(errs) > 0 {
			util.WriteValidationErrors(w, errs)
			return
		}

		transactions, err := db.GetTransactions(r.Context(), pool, userID, filter)
		if err != nil {
			log.Error().Err(err).Msg("Failed to fetch transactions")
			util.WriteError(w, http.StatusInternalServerError, "failed to fetch transactions")
			return
		}
		util.WriteJSON(w, http.StatusOK, transactions)
	}
}

func GetTransactionByID(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())
		userID := middleware.UserIDFromContext(r.Context())

		transactionID, ok := urlID(r, "id")
		if !ok {
			util.WriteError(w, http.StatusBadRequest, "invalid transaction id")
			return
		}

		txn, err := db.GetTransactionByID(r.Context(), pool, userID, transactionID)
		if errors.Is(err, db.ErrNotFound) {
			util.WriteError(w, http.StatusNotFound, "transaction not found")
			return
		}
		if err != nil {
			log.Error().Err(err).Int64("transaction_id", transactionID).Msg("Failed to fetch transaction")
			util.WriteError(w, http.StatusInternalServerError, "failed to fetch transaction")
			return
		}
		util.WriteJSON(w, http.StatusOK, txn)
	}
}

func UpdateTransaction(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())
		userID := middleware.UserIDFromContext(r.Context())

		transactionID, ok := urlID(r, "id")
		if !ok {
			util.WriteError(w, http.StatusBadRequest, "invalid transaction id")
			return
		}

		txn, errs, err := transactionFromRequest(r, pool, userID)
		if err != nil {
			log.Error().Err(err).Msg("Failed to check transaction category")
			util.WriteError(w, http.StatusInternalServerError, "failed to update transaction")
			return
		}
		if len(errs) > 0 {
			util.WriteValidationErrors(w, errs)
			return
		}
		txn.ID = transactionID

		updated, err := db.UpdateTransaction(r.Context(), pool, txn)
		if errors.Is(err, db.ErrNotFound) {
			util.WriteError(w, http.StatusNotFound, "transaction not found")
			return
		}
		if err != nil {
			log.Error().Err(err).Int64("transaction_id", transactionID).Msg("Failed to update transaction")
			util.WriteError(w, http.StatusInternalServerError, "failed to update transaction")
			return
		}

		log.Info().Int64("transaction_id", transactionID).Msg("Updated transaction")
		util.WriteJSON(w, http.StatusOK, updated)
	}
}

func DeleteTransaction(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())
		userID := middleware.UserIDFromContext(r.Context())

		transactionID, ok := urlID(r, "id")
		if !ok {
			util.WriteError(w, http.StatusBadRequest, "invalid transaction id")
			return
		}

		err := db.DeleteTransaction(r.Context(), pool, userID, transactionID)
		if errors.Is(err, db.ErrNotFound) {
			util.WriteError(w, http.StatusNotFound, "transaction not found")
			return
		}
		if err != nil {
			log.Error().Err(err).Int64("transaction_id", transactionID).Msg("Failed to delete transaction")
			util.WriteError(w, http.StatusInternalServerError, "failed to delete transaction")
			return
		}

		log.Info().Int64("transaction_id", transactionID).Msg("Deleted transaction")
		util.WriteJSON(w, http.StatusOK, map[string]string{"message": "transaction deleted"})
	}
}

// GetSummary returns income, expense and balance totals, over all time unless
// both startDate and endDate are given.
func GetSummary(svc *ledger.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())
		userID := middleware.UserIDFromContext(r.Context())

		period, err := ledger.ParsePeriod(r.URL.Query().Get("startDate"), r.URL.Query().Get("endDate"))
		if err != nil {
			writeLedgerError(w, log, err, "compute summary")
			return
		}

		summary, err := svc.Summary(r.Context(), userID, period)
		if err != nil {
			writeLedgerError(w, log, err, "compute summary")
			return
		}
		util.WriteJSON(w, http.StatusOK, summary)
	}
}
