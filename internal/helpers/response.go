package helpers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"dashboard/internal/models"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func RespondWithJSON(w http.ResponseWriter, code int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		zap.L().Error("Failed to encode response", zap.Error(err))
	}
}

func RespondWithError(w http.ResponseWriter, code int, errors []string) {
	RespondWithJSON(w, code, models.Error{Status: code, Error: errors})
}

// ParseIDs reads the numeric path parameters id0, id1, ... in order.
func ParseIDs(w http.ResponseWriter, r *http.Request) ([]int64, bool) {
	var ids []int64

	for i := 0; ; i++ {
		key := "id" + strconv.Itoa(i)
		raw := chi.URLParam(r, key)
		if raw == "" {
			break
		}

		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			RespondWithError(w, http.StatusBadRequest, []string{"INVALID_ID"})
			return nil, false
		}
		ids = append(ids, id)
	}

	return ids, true
}
