package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"

	db "fintrack-server/src/db/sql"
	"fintrack-server/src/logger"
	"fintrack-server/src/middleware"
	"fintrack-server/src/models"
	"fintrack-server/src/util"
)

// AuthConfig signs the tokens handed out on register and login.
type AuthConfig struct {
	Secret string
	TTL    time.Duration
}

func (a AuthConfig) issue(userID int64) (string, error) {
	return util.IssueToken(a.Secret, userID, a.TTL, time.Now())
}

func Register(pool *pgxpool.Pool, auth AuthConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		var req models.RegisterRequest
		if err := decodeJSON(r, &req); err != nil {
			util.WriteError(w, http.StatusBadRequest, "invalid request")
			return
		}
		req.Name = strings.TrimSpace(req.Name)
		req.Email = strings.ToLower(strings.TrimSpace(req.Email))

		if errs := util.ValidateRegister(req); len(errs) > 0 {
			util.WriteValidationErrors(w, errs)
			return
		}

		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			log.Error().Err(err).Str("email", req.Email).Msg("Failed to hash password")
			util.WriteError(w, http.StatusInternalServerError, "internal error")
			return
		}

		user, err := db.CreateUser(r.Context(), pool, req, string(hashedPassword))
		if errors.Is(err, db.ErrDuplicate) {
			util.WriteError(w, http.StatusBadRequest, "email already registered")
			return
		}
		if err != nil {
			log.Error().Err(err).Str("email", req.Email).Msg("Failed to create user")
			util.WriteError(w, http.StatusInternalServerError, "failed to register user")
			return
		}

		token, err := auth.issue(user.ID)
		if err != nil {
			log.Error().Err(err).Int64("user_id", user.ID).Msg("Failed to generate token")
			util.WriteError(w, http.StatusInternalServerError, "error generating token")
			return
		}

		log.Info().Int64("user_id", user.ID).Msg("Registered user")
		util.WriteJSON(w, http.StatusCreated, models.AuthResponse{User: user, Token: token})
	}
}

func Login(pool *pgxpool.Pool, auth AuthConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		var credentials struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		if err := decodeJSON(r, &credentials); err != nil {
			util.WriteError(w, http.StatusBadRequest, "invalid request")
			return
		}
		credentials.Email = strings.ToLower(strings.TrimSpace(credentials.Email))

		if errs := util.ValidateLogin(credentials.Email, credentials.Password); len(errs) > 0 {
			util.WriteValidationErrors(w, errs)
			return
		}

		user, err := db.GetUserByEmail(r.Context(), pool, credentials.Email)
		if errors.Is(err, db.ErrNotFound) {
			util.WriteError(w, http.StatusUnauthorized, "invalid email or password")
			return
		}
		if err != nil {
			log.Error().Err(err).Msg("Failed to look up user during login")
			util.WriteError(w, http.StatusInternalServerError, "failed to log in")
			return
		}

		if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(credentials.Password)); err != nil {
			log.Warn().Int64("user_id", user.ID).Str("remote_addr", r.RemoteAddr).Msg("Invalid password attempt")
			util.WriteError(w, http.StatusUnauthorized, "invalid email or password")
			return
		}

		token, err := auth.issue(user.ID)
		if err != nil {
			log.Error().Err(err).Int64("user_id", user.ID).Msg("Failed to generate token")
			util.WriteError(w, http.StatusInternalServerError, "error generating token")
			return
		}

		log.Info().Int64("user_id", user.ID).Msg("Successful login")
		util.WriteJSON(w, http.StatusOK, models.AuthResponse{User: user, Token: token})
	}
}

// Me returns the authenticated user.
func Me() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := middleware.UserFromContext(r.Context())
		if !ok {
			util.WriteError(w, http.StatusUnauthorized, "not authenticated")
			return
		}
		util.WriteJSON(w, http.StatusOK, user)
	}
}
