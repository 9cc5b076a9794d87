package relay

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/abhisek/aiquiz/internal/logging"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"
)

// maxBodyBytes caps request bodies.
const maxBodyBytes = 1 << 20

const healthText = "AI Backend is running"

// Handler serves the relay HTTP contract.
type Handler struct {
	upstream Upstream
	model    string
}

// NewHandler creates a handler forwarding to up, filling model into
// requests that name none.
func NewHandler(up Upstream, model string) *Handler {
	return &Handler{upstream: up, model: model}
}

// NewRouter wires the relay routes and middleware.
func NewRouter(h *Handler, allowedOrigins []string) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(corsMiddleware(allowedOrigins).Handler)

	r.Get("/", h.Health)
	r.Post("/api/generate", h.Generate)

	return r
}

func corsMiddleware(origins []string) *cors.Cors {
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "Authorization", "X-Requested-With"},
		MaxAge:         300,
	})
}

// requestLogger tags the context with the request id and logs one line
// per request.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := logging.WithFields(r.Context(), logrus.Fields{
			"request_id": middleware.GetReqID(r.Context()),
		})
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r.WithContext(ctx))

		logging.WithContext(ctx).WithFields(logrus.Fields{
			"method":      r.Method,
			"path":        r.URL.Path,
			"status":      ww.Status(),
			"bytes":       ww.BytesWritten(),
			"duration_ms": time.Since(start).Milliseconds(),
		}).Info("request served")
	})
}

func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	io.WriteString(w, healthText)
}

func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) {
	log := logging.WithContext(r.Context())

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		log.WithError(err).Warn("failed to read request body")
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request body from client"})
		return
	}

	req, err := DecodeChatRequest(body)
	if err != nil {
		log.WithError(err).Warn("rejected request body")
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request body from client"})
		return
	}
	req.SetDefaultModel(h.model)

	out, err := h.upstream.Forward(r.Context(), req)
	if err != nil {
		var upErr *UpstreamError
		if errors.As(err, &upErr) {
			log.WithField("status", upErr.StatusCode).Warnf("upstream error: %s", upErr.Body)
			writeJSON(w, upErr.StatusCode, map[string]string{
				"error":   "Failed to fetch from upstream provider",
				"details": upErr.Body,
			})
			return
		}
		log.WithError(err).Error("relay failed")
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Server Error"})
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	w.Write(out)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// Serve runs the HTTP server until ctx is cancelled, then shuts down
// gracefully within cfg.ShutdownTimeout.
func Serve(ctx context.Context, cfg Config, handler http.Handler) error {
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logrus.WithField("addr", "http://localhost:"+cfg.Port).Info("AI backend running")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	logrus.Info("server shut down gracefully")
	return nil
}
