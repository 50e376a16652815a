package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	cache "fintrack-server/src/db"
	db "fintrack-server/src/db/sql"
	"fintrack-server/src/logger"
	"fintrack-server/src/middleware"
	"fintrack-server/src/models"
	"fintrack-server/src/util"
)

type categoryRequest struct {
	Name  string                 `json:"name"`
	Type  models.TransactionType `json:"type"`
	Color string                 `json:"color"`
}

func CreateCategory(pool *pgxpool.Pool, c *cache.Cache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())
		userID := middleware.UserIDFromContext(r.Context())

		var req categoryRequest
		if err := decodeJSON(r, &req); err != nil {
			util.WriteError(w, http.StatusBadRequest, "invalid request")
			return
		}
		req.Name = strings.TrimSpace(req.Name)
		if errs := util.ValidateCategory(req.Name, req.Type, req.Color); len(errs) > 0 {
			util.WriteValidationErrors(w, errs)
			return
		}
		if req.Color == "" {
			req.Color = models.DefaultCategoryColor
		}

		created, err := db.CreateCategory(r.Context(), pool, &models.Category{
			UserID: userID,
			Name:   req.Name,
			Type:   req.Type,
			Color:  req.Color,
		})
		if errors.Is(err, db.ErrDuplicate) {
			util.WriteError(w, http.StatusBadRequest, "category already exists")
			return
		}
		if err != nil {
			log.Error().Err(err).Msg("Failed to create category")
			util.WriteError(w, http.StatusInternalServerError, "failed to create category")
			return
		}
		c.ClearCategories(userID)

		log.Info().Int64("category_id", created.ID).Str("type", string(created.Type)).Msg("Created category")
		util.WriteJSON(w, http.StatusCreated, created)
	}
}

// GetCategories lists the user's categories, optionally only those of ?type=.
func GetCategories(pool *pgxpool.Pool, c *cache.Cache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())
		userID := middleware.UserIDFromContext(r.Context())

		var typ *models.TransactionType
		if raw := r.URL.Query().Get("type"); raw != "" {
			t := models.TransactionType(raw)
			if !t.Valid() {
				util.WriteError(w, http.StatusBadRequest, "type must be income or expense")
				return
			}
			typ = &t
		}

		categories, err := db.GetCategoriesCached(r.Context(), pool, c, userID, typ)
		if err != nil {
			log.Error().Err(err).Msg("Failed to fetch categories")
			util.WriteError(w, http.StatusInternalServerError, "failed to fetch categories")
			return
		}
		util.WriteJSON(w, http.StatusOK, categories)
	}
}

func UpdateCategory(pool *pgxpool.Pool, c *cache.Cache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())
		userID := middleware.UserIDFromContext(r.Context())

		categoryID, ok := urlID(r, "id")
		if !ok {
			util.WriteError(w, http.StatusBadRequest, "invalid category id")
			return
		}

		var req categoryRequest
		if err := decodeJSON(r, &req); err != nil {
			util.WriteError(w, http.StatusBadRequest, "invalid request")
			return
		}
		req.Name = strings.TrimSpace(req.Name)
		if errs := util.ValidateCategory(req.Name, req.Type, req.Color); len(errs) > 0 {
			util.WriteValidationErrors(w, errs)
			return
		}

		updated, err := db.UpdateCategory(r.Context(), pool, &models.Category{
			ID:     categoryID,
			UserID: userID,
			Name:   req.Name,
			Color:  req.Color,
		})
		switch {
		case errors.Is(err, db.ErrNotFound):
			util.WriteError(w, http.StatusNotFound, "category not found")
			return
		case errors.Is(err, db.ErrDuplicate):
			util.WriteError(w, http.StatusBadRequest, "category already exists")
			return
		case err != nil:
			log.Error().Err(err).Int64("category_id", categoryID).Msg("Failed to update category")
			util.WriteError(w, http.StatusInternalServerError, "failed to update category")
			return
		}
		c.ClearCategories(userID)

		log.Info().Int64("category_id", categoryID).Msg("Updated category")
		util.WriteJSON(w, http.StatusOK, updated)
	}
}

func DeleteCategory(pool *pgxpool.Pool, c *cache.Cache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())
		userID := middleware.UserIDFromContext(r.Context())

		categoryID, ok := urlID(r, "id")
		if !ok {
			util.WriteError(w, http.StatusBadRequest, "invalid category id")
			return
		}

		err := db.DeleteCategory(r.Context(), pool, userID, categoryID)
		if errors.Is(err, db.ErrNotFound) {
			util.WriteError(w, http.StatusNotFound, "category not found")
			return
		}
		if err != nil {
			log.Error().Err(err).Int64("category_id", categoryID).Msg("Failed to delete category")
			util.WriteError(w, http.StatusInternalServerError, "failed to delete category")
			return
		}
		c.ClearCategories(userID)

		log.Info().Int64("category_id", categoryID).Msg("Deleted category")
		util.WriteJSON(w, http.StatusOK, map[string]string{"message": "category deleted"})
	}
}
