// internal/httpserver/server.go
//
// HTTP server wiring for the duosweeper backend.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs, access log).
//   - Public endpoints: "/", "/health", "/questions/count".
//   - Match endpoints: mounted under /match (see routes_match.go).
//   - History endpoints: mounted under /history (see routes_history.go).
//
// Notes:
//   - Match creation hands out one seat token per player; actions on a match require
//     the bearer token of the seat that is acting (see seats.go).
//   - History is optional. Without a database the server still plays matches but
//     the leaderboard answers 503.
//   - Finished matches are dropped from memory once FinishedTTL has passed; their
//     log is then served from history.

package httpserver

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/duosweeper/internal/config"
	"github.com/robalobadob/duosweeper/internal/history"
	"github.com/robalobadob/duosweeper/internal/question"
	"github.com/robalobadob/duosweeper/internal/store"
)

// Server bundles the router, the live session store and the history database.
type Server struct {
	r       *chi.Mux
	store   store.Store
	history *history.Store
	cfg     config.Config
	now     func() time.Time
}

// New constructs a Server, installs middleware, and registers routes.
// hist may be nil.
func New(st store.Store, hist *history.Store, cfg config.Config) *Server {
	s := &Server{r: chi.NewRouter(), store: st, history: hist, cfg: cfg, now: time.Now}

	// --- middleware ---
	s.r.Use(chimw.RequestID)                 // add X-Request-ID
	s.r.Use(chimw.RealIP)                    // set RemoteAddr from X-Forwarded-For etc.
	s.r.Use(accessLog)                       // one zerolog line per request
	s.r.Use(chimw.Recoverer)                 // recover from panics
	s.r.Use(chimw.Timeout(10 * time.Second)) // bound handler time
	s.r.Use(jsonContentType)                 // default JSON responses
	s.r.Use(cors(cfg.ClientOrigin))

	// --- diagnostics ---
	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"service":"duosweeper","endpoints":["/health","POST /match","/match/{id}","/history/leaderboard"]}`))
	})
	s.r.Get("/health", s.handleHealth)
	s.r.Get("/questions/count", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]int{"count": question.Count()})
	})

	s.mountMatch()
	s.mountHistory()

	// JSON 404 for easier debugging
	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"not_found","path":"`+r.URL.Path+`"}`, http.StatusNotFound)
	})
	return s
}

// Start begins serving HTTP on addr.
func (s *Server) Start(addr string) error {
	go s.sweepLoop(time.Minute)
	return http.ListenAndServe(addr, s.r)
}

func (s *Server) sweepLoop(every time.Duration) {
	t := time.NewTicker(every)
	defer t.Stop()
	for range t.C {
		s.sweep()
	}
}

// sweep evicts matches that finished more than FinishedTTL ago.
func (s *Server) sweep() int {
	n := s.store.Prune(context.Background(), s.now().Add(-s.cfg.FinishedTTL))
	if n > 0 {
		log.Debug().Int("evicted", n).Int("live", s.store.Len()).Msg("finished matches pruned")
	}
	return n
}

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	res := map[string]any{"ok": true, "matches": s.store.Len()}
	if s.history != nil {
		if err := s.history.Ping(r.Context()); err != nil {
			log.Warn().Err(err).Msg("history ping")
			res["ok"] = false
			w.WriteHeader(http.StatusServiceUnavailable)
		}
	}
	_ = json.NewEncoder(w).Encode(res)
}

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// cors enables credentialed CORS for a single origin.
func cors(origin string) func(http.Handler) http.Handler {
	if origin == "" {
		origin = "http://localhost:5173"
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Vary", "Origin")
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// accessLog writes one structured line per request.
func accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		defer func() {
			log.Info().
				Str("reqId", chimw.GetReqID(r.Context())).
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", ww.Status()).
				Int("bytes", ww.BytesWritten()).
				Dur("elapsed", time.Since(start)).
				Msg("http")
		}()
		next.ServeHTTP(ww, r)
	})
}

// httpError writes a {"error":code} body.
func httpError(w http.ResponseWriter, code string, status int) {
	http.Error(w, `{"error":"`+code+`"}`, status)
}
