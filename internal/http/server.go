// Package http exposes the transaction API: CSV upload, filtered queries,
// monthly summaries and the chat passthrough.
package http

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"budgetai/internal/identity"
	"budgetai/internal/ingest"
	"budgetai/internal/log"
	"budgetai/internal/query"
	"budgetai/internal/report"
)

// Chatter is the assistant boundary; nil when no model is configured.
type Chatter interface {
	Prompt(ctx context.Context, query string) (string, error)
}

// Deleter removes a user's ledger when the account goes away.
type Deleter interface {
	DeleteByUser(ctx context.Context, userID string) (int64, error)
}

// Deps wires the server's collaborators.
type Deps struct {
	Ingest   *ingest.Service
	Query    *query.Service
	Report   *report.Engine
	Chat     Chatter
	Identity identity.Provider
	Deleter  Deleter

	// UploadMaxBytes caps the accepted multipart body size.
	UploadMaxBytes int64
}

type Server struct {
	http.Server
	deps        Deps
	rateLimiter *rateLimiter

	shutdownOnce sync.Once
}

// NewServer configures routes and returns a ready-to-run server.
func NewServer(addr string, deps Deps) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:    addr,
			Handler: mux,
		},
		deps:        deps,
		rateLimiter: newRateLimiter(),
	}

	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /status", handleStatus)

	mux.HandleFunc("POST /upload/csv", s.withMiddleware(s.handleUploadCSV))

	mux.HandleFunc("GET /query/transactions", s.withMiddleware(s.handleTransactions))
	mux.HandleFunc("POST /query/transactions/category", s.withMiddleware(s.handleTransactionsByCategory))
	mux.HandleFunc("POST /query/transactions/amount", s.withMiddleware(s.handleTransactionsByAmount))
	mux.HandleFunc("POST /query/transactions/date", s.withMiddleware(s.handleTransactionsByDate))
	mux.HandleFunc("GET /query/transactions/categories", s.withMiddleware(s.handleCategories))
	mux.HandleFunc("GET /query/transactions/totals", s.withMiddleware(s.handleTransactionTotals))
	mux.HandleFunc("GET /query/transactions/date_range", s.withMiddleware(s.handleTransactionRange))

	mux.HandleFunc("POST /chat/prompt", s.withMiddleware(s.handleChatPrompt))

	mux.HandleFunc("POST /user/login", s.withMiddleware(s.handleLogin))
	mux.HandleFunc("POST /user/signout", s.withMiddleware(s.handleSignout))
	mux.HandleFunc("DELETE /user", s.withMiddleware(s.handleDeleteUser))

	return s
}

// Shutdown gracefully stops the server and its cleanup routines.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		if s.rateLimiter != nil {
			s.rateLimiter.stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

// withMiddleware adds request ids, logging, security headers, CORS, rate
// limiting and panic recovery around a handler.
func (s *Server) withMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		clientIP := r.Header.Get("X-Forwarded-For")
		if clientIP == "" {
			clientIP = r.Header.Get("X-Real-IP")
		}
		if clientIP == "" {
			clientIP = r.RemoteAddr
		}

		requestID := generateRequestID()
		ctx := context.WithValue(r.Context(), requestIDKey{}, requestID)
		r = r.WithContext(ctx)

		slog.InfoContext(ctx, "Request started",
			log.FieldRequestID, requestID,
			log.FieldMethod, r.Method,
			log.FieldPath, r.URL.Path,
			log.FieldClientIP, clientIP,
			log.FieldUserAgent, r.Header.Get("User-Agent"))

		// Rate limit the write paths.
		if (r.Method == http.MethodPost || r.Method == http.MethodDelete) && !s.rateLimiter.allow(clientIP) {
			slog.WarnContext(ctx, "Rate limit exceeded", log.FieldClientIP, clientIP, log.FieldMethod, r.Method, log.FieldPath, r.URL.Path)
			w.Header().Set("Retry-After", "60")
			writeError(w, http.StatusTooManyRequests, "Rate limit exceeded. Please try again later.")
			return
		}

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		defer func() {
			if rec := recover(); rec != nil {
				slog.ErrorContext(ctx, "Panic recovered",
					log.FieldRequestID, requestID,
					"panic", rec,
					log.FieldPath, r.URL.Path)
				writeError(rw, http.StatusInternalServerError, "Internal server error")
			}
			duration := time.Since(start)
			slog.InfoContext(ctx, "Request completed",
				log.FieldRequestID, requestID,
				log.FieldMethod, r.Method,
				log.FieldPath, r.URL.Path,
				log.FieldStatus, rw.statusCode,
				log.FieldDuration, duration.Milliseconds(),
				log.FieldClientIP, clientIP)
		}()

		next(rw, r)
	}
}

type requestIDKey struct{}

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func generateRequestID() string {
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		return fmt.Sprintf("req_%d", time.Now().UnixNano())
	}
	return "req_" + hex.EncodeToString(bytes)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Simple in-memory rate limiter keyed by client IP.
type rateLimiter struct {
	mu           sync.Mutex
	clients      map[string]*clientInfo
	stopCleanup  chan struct{}
	shutdownOnce sync.Once
}

type clientInfo struct {
	lastRequest time.Time
	requests    int
}

func newRateLimiter() *rateLimiter {
	rl := &rateLimiter{
		clients:     make(map[string]*clientInfo),
		stopCleanup: make(chan struct{}),
	}
	go rl.startCleanup()
	return rl
}

func (rl *rateLimiter) startCleanup() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.cleanupStaleEntries()
		case <-rl.stopCleanup:
			return
		}
	}
}

// cleanupStaleEntries removes client entries idle for more than 10 minutes.
func (rl *rateLimiter) cleanupStaleEntries() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cutoff := time.Now().Add(-10 * time.Minute)
	for ip, client := range rl.clients {
		if client.lastRequest.Before(cutoff) {
			delete(rl.clients, ip)
		}
	}
}

func (rl *rateLimiter) stop() {
	rl.shutdownOnce.Do(func() {
		if rl.stopCleanup != nil {
			close(rl.stopCleanup)
		}
	})
}

func (rl *rateLimiter) allow(clientIP string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	client, exists := rl.clients[clientIP]

	if !exists {
		rl.clients[clientIP] = &clientInfo{
			lastRequest: now,
			requests:    1,
		}
		return true
	}

	// Reset counter if more than 1 minute has passed.
	if now.Sub(client.lastRequest) > time.Minute {
		client.requests = 1
		client.lastRequest = now
		return true
	}

	// Allow up to 60 requests per minute.
	client.requests++
	client.lastRequest = now

	return client.requests <= 60
}
