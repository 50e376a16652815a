package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"

	db "fintrack-server/src/db/sql"
	"fintrack-server/src/logger"
	"fintrack-server/src/middleware"
	"fintrack-server/src/util"
)

func UpdateProfile(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())
		userID := middleware.UserIDFromContext(r.Context())

		var req struct {
			Name string `json:"name"`
		}
		if err := decodeJSON(r, &req); err != nil {
			util.WriteError(w, http.StatusBadRequest, "invalid request")
			return
		}
		req.Name = strings.TrimSpace(req.Name)
		if req.Name == "" {
			util.WriteValidationErrors(w, []util.FieldError{{Field: "name", Message: "name is required"}})
			return
		}

		user, err := db.UpdateUserName(r.Context(), pool, userID, req.Name)
		if errors.Is(err, db.ErrNotFound) {
			util.WriteError(w, http.StatusNotFound, "user not found")
			return
		}
		if err != nil {
			log.Error().Err(err).Msg("Failed to update user")
			util.WriteError(w, http.StatusInternalServerError, "failed to update user")
			return
		}

		log.Info().Msg("Updated user profile")
		util.WriteJSON(w, http.StatusOK, user)
	}
}

func ChangePassword(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())
		user, ok := middleware.UserFromContext(r.Context())
		if !ok {
			util.WriteError(w, http.StatusUnauthorized, "not authenticated")
			return
		}

		var req struct {
			CurrentPassword string `json:"current_password"`
			NewPassword     string `json:"new_password"`
		}
		if err := decodeJSON(r, &req); err != nil {
			util.WriteError(w, http.StatusBadRequest, "invalid request")
			return
		}

		if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(req.CurrentPassword)); err != nil {
			log.Warn().Msg("Invalid current password attempt")
			util.WriteError(w, http.StatusUnauthorized, "current password is incorrect")
			return
		}

		if !util.ValidatePassword(req.NewPassword) {
			util.WriteValidationErrors(w, []util.FieldError{{Field: "new_password", Message: "password must be at least 6 characters"}})
			return
		}

		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
		if err != nil {
			log.Error().Err(err).Msg("Failed to hash new password")
			util.WriteError(w, http.StatusInternalServerError, "internal error")
			return
		}

		if err := db.UpdateUserPassword(r.Context(), pool, user.ID, string(hashedPassword)); err != nil {
			log.Error().Err(err).Msg("Failed to update user password")
			util.WriteError(w, http.StatusInternalServerError, "internal error")
			return
		}

		log.Info().Msg("User password changed")
		util.WriteJSON(w, http.StatusOK, map[string]string{"message": "password changed successfully"})
	}
}
