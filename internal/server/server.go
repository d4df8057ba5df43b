// Package server assembles the checkbook HTTP handler: the Connect ledger
// service, health and metrics endpoints, and optionally the browser front end.
package server

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"connectrpc.com/connect"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/mmynk/checkbook/internal/api"
	"github.com/mmynk/checkbook/internal/ledger"
	"github.com/mmynk/checkbook/internal/metrics"
	"github.com/mmynk/checkbook/internal/middleware"
	"github.com/mmynk/checkbook/internal/receipt"
	"github.com/mmynk/checkbook/internal/service"
)

// Options configures the handler.
type Options struct {
	// StaticPath is a directory of front-end files served on "/". Empty
	// disables static serving.
	StaticPath string
	// MaxRequestBytes caps a single RPC message. Zero means no limit.
	MaxRequestBytes int64
	// AllowedOrigins lists the browser origins granted CORS access. Empty
	// means any origin.
	AllowedOrigins []string
}

// NewHandler wires the ledger service and auxiliary endpoints into one
// h2c-capable handler.
func NewHandler(store *ledger.Store, scanner receipt.Extractor, opts Options) (http.Handler, error) {
	mux := http.NewServeMux()

	handlerOpts := []connect.HandlerOption{
		connect.WithInterceptors(
			metrics.Interceptor(),
			middleware.RequireSession(store, api.SessionProcedures...),
			middleware.LoggingInterceptor(),
		),
	}
	if opts.MaxRequestBytes > 0 {
		handlerOpts = append(handlerOpts, connect.WithReadMaxBytes(int(opts.MaxRequestBytes)))
	}
	path, handler := api.NewLedgerServiceHandler(service.NewLedgerService(store, scanner), handlerOpts...)
	mux.Handle(path, handler)

	mux.Handle("GET /metrics", metrics.Handler())
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})

	if opts.StaticPath != "" {
		static, err := staticHandler(opts.StaticPath)
		if err != nil {
			return nil, err
		}
		mux.Handle("/", static)
	}

	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return h2c.NewHandler(loggingMiddleware(corsMiddleware(origins, mux)), &http2.Server{}), nil
}

// staticHandler serves the front end. Unknown paths fall back to index.html.
func staticHandler(staticPath string) (http.Handler, error) {
	staticDir, err := filepath.Abs(staticPath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve static path: %w", err)
	}
	slog.Info("Serving static files", "path", staticDir)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/"+api.LedgerServiceName) {
			http.NotFound(w, r)
			return
		}

		urlPath := r.URL.Path
		if urlPath == "/" {
			urlPath = "/index.html"
		}

		filePath := filepath.Join(staticDir, filepath.Clean(urlPath))
		if _, err := os.Stat(filePath); os.IsNotExist(err) {
			http.ServeFile(w, r, filepath.Join(staticDir, "index.html"))
			return
		}

		http.ServeFile(w, r, filePath)
	}), nil
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Unwrap() http.ResponseWriter { return r.ResponseWriter }

// loggingMiddleware logs each HTTP request with its status and duration.
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		slog.Debug("HTTP request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"remote_addr", r.RemoteAddr,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

// corsMiddleware answers preflight requests and sets CORS headers for the
// allowed origins. "*" allows any origin.
func corsMiddleware(allowed []string, next http.Handler) http.Handler {
	anyOrigin := slices.Contains(allowed, "*")
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		switch {
		case anyOrigin:
			w.Header().Set("Access-Control-Allow-Origin", "*")
		case origin != "" && slices.Contains(allowed, origin):
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Add("Vary", "Origin")
		default:
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
			return
		}
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", strings.Join(connectHeaders, ", "))
		w.Header().Set("Access-Control-Expose-Headers", "Connect-Protocol-Version, Connect-Timeout-Ms")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

var connectHeaders = []string{"Content-Type", "Connect-Protocol-Version", "Connect-Timeout-Ms"}
