package api

import (
	"net/http"
)

type healthResponse struct {
	Status string `json:"status"`
}

func HealthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		RespondJSON(r.Context(), w, http.StatusOK, healthResponse{Status: "ok"})
	}
}
