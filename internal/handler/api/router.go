package api

import (
	"net/http"

	"github.com/fhuszti/upload-relay-go/internal/middleware"
	"github.com/fhuszti/upload-relay-go/internal/session"
	"github.com/fhuszti/upload-relay-go/internal/usecase/upload"
	"github.com/go-chi/chi/v5"
	chiMw "github.com/go-chi/chi/v5/middleware"
)

type RouterDeps struct {
	Sessions       *session.Manager
	Passcode       string
	Relayer        upload.FileRelayer
	MaxUploadBytes int64
}

func NewRouter(deps RouterDeps) http.Handler {
	r := chi.NewRouter()
	r.Use(chiMw.RequestID)
	r.Use(chiMw.Logger)
	r.Use(chiMw.Recoverer)
	r.Use(middleware.WithSession(deps.Sessions))

	r.NotFound(NotFoundHandler())
	r.MethodNotAllowed(MethodNotAllowedHandler())

	r.Get("/healthz", HealthHandler())
	r.Get(middleware.LoginPath, LoginFormHandler(deps.Sessions))
	r.Post(middleware.LoginPath, LoginHandler(deps.Sessions, deps.Passcode))
	r.Get("/logout", LogoutHandler(deps.Sessions))

	r.Get("/", IndexHandler())
	r.Post("/upload", UploadHandler(deps.Relayer, deps.MaxUploadBytes))

	return r
}
