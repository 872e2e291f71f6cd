package api

import (
	"net/http"
)

func NotFoundHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		WriteText(r.Context(), w, http.StatusNotFound, "This page does not exist.", nil)
	}
}
