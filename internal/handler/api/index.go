package api

import (
	"net/http"
)

func IndexHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		RespondHTML(r.Context(), w, http.StatusOK, indexPage, nil)
	}
}
