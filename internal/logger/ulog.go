package logger

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/fhuszti/upload-relay-go/internal/api_context"
	"github.com/go-chi/chi/v5/middleware"
)

var std *slog.Logger

// --- handler that appends req_id (and sid once the gate let the caller in) ---

type requestAttrHandler struct{ h slog.Handler }

func (r requestAttrHandler) Enabled(ctx context.Context, lvl slog.Level) bool {
	return r.h.Enabled(ctx, lvl)
}

func (r requestAttrHandler) Handle(ctx context.Context, rec slog.Record) error {
	if reqID := middleware.GetReqID(ctx); reqID != "" {
		rec.AddAttrs(slog.String("req_id", reqID))
	} else {
		rec.AddAttrs(slog.String("req_id", "system"))
	}
	if sess, ok := api_context.SessionFromContext(ctx); ok {
		rec.AddAttrs(slog.String("sid", sess.ID()))
	}
	return r.h.Handle(ctx, rec)
}

func (r requestAttrHandler) WithAttrs(a []slog.Attr) slog.Handler {
	return requestAttrHandler{h: r.h.WithAttrs(a)}
}
func (r requestAttrHandler) WithGroup(n string) slog.Handler {
	return requestAttrHandler{h: r.h.WithGroup(n)}
}

// --- public API ---

// Init
// ENV:
//
//	LOG_FORMAT    json|text (default: json)
//	LOG_LEVEL     debug|info|warn|error (default: info)
//	LOG_SOURCE    true|false (default: false)
func Init() {
	level := parseLevel(getEnv("LOG_LEVEL", "info"))
	addSource := parseBool(getEnv("LOG_SOURCE", "false"))
	format := strings.ToLower(getEnv("LOG_FORMAT", "json"))

	opts := &slog.HandlerOptions{Level: level, AddSource: addSource}

	var base slog.Handler
	if format == "text" {
		base = slog.NewTextHandler(os.Stdout, opts)
	} else {
		base = slog.NewJSONHandler(os.Stdout, opts)
	}

	SetHandler(base)

	// Keep legacy log.Printf visible (no ctx → no req_id).
	log.SetFlags(0)
	log.SetOutput(slog.NewLogLogger(base, slog.LevelInfo).Writer())
}

// SetHandler installs h as the sink of the package logger. Tests use it to capture output.
func SetHandler(h slog.Handler) {
	std = slog.New(requestAttrHandler{h: h}).With("svc", "upload-relay")
	slog.SetDefault(std)
}

// --- small helpers ---

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseLevel(s string) slog.Leveler {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func parseBool(s string) bool {
	b, _ := strconv.ParseBool(s)
	return b
}

func activeLogger() *slog.Logger {
	if std != nil {
		return std
	}
	return slog.Default()
}

// --- convenience wrappers ---

func Info(ctx context.Context, msg string, attrs ...any) {
	activeLogger().InfoContext(ctx, msg, attrs...)
}
func Warn(ctx context.Context, msg string, attrs ...any) {
	activeLogger().WarnContext(ctx, msg, attrs...)
}
func Error(ctx context.Context, msg string, attrs ...any) {
	activeLogger().ErrorContext(ctx, msg, attrs...)
}
func Debug(ctx context.Context, msg string, attrs ...any) {
	activeLogger().DebugContext(ctx, msg, attrs...)
}

func Infof(ctx context.Context, format string, a ...any) {
	activeLogger().InfoContext(ctx, fmt.Sprintf(format, a...))
}
func Errorf(ctx context.Context, format string, a ...any) {
	activeLogger().ErrorContext(ctx, fmt.Sprintf(format, a...))
}
func Warnf(ctx context.Context, format string, a ...any) {
	activeLogger().WarnContext(ctx, fmt.Sprintf(format, a...))
}
func Debugf(ctx context.Context, format string, a ...any) {
	activeLogger().DebugContext(ctx, fmt.Sprintf(format, a...))
}
