package handlers

import (
	"net/http"

	cache "fintrack-server/src/db"
	"fintrack-server/src/logger"
	"fintrack-server/src/util"
)

// ClearCache drops every cached category list.
func ClearCache(c *cache.Cache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())
		c.ClearAll()
		log.Info().Msg("Cleared category cache")
		util.WriteJSON(w, http.StatusOK, map[string]string{"message": "cache cleared"})
	}
}
