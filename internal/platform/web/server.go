package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"

	"github.com/vovakirdan/gridsnake/internal/registry"
	"github.com/vovakirdan/gridsnake/internal/session"
	"github.com/vovakirdan/gridsnake/internal/snake"
	"github.com/vovakirdan/gridsnake/internal/storage"
)

// Resolver turns a variant ID into the options to play it with.
type Resolver func(id string) (registry.Variant, error)

// Config configures the websocket server.
type Config struct {
	Address string
	Variant string   // Used when the client does not pick one
	Resolve Resolver // Defaults to registry.Get
}

// Server bundles the router, the live sessions and the run ledger.
type Server struct {
	cfg      Config
	r        *chi.Mux
	http     *http.Server
	ledger   *storage.Store
	sessions *session.Registry
	upgrader websocket.Upgrader
	logger   *log.Logger
}

// New constructs a Server and registers its routes. ledger may be nil.
func New(cfg Config, ledger *storage.Store, logger *log.Logger) *Server {
	if cfg.Resolve == nil {
		cfg.Resolve = registry.Get
	}
	if cfg.Variant == "" {
		cfg.Variant = registry.DefaultVariant
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}

	s := &Server{
		cfg:      cfg,
		r:        chi.NewRouter(),
		ledger:   ledger,
		sessions: session.NewRegistry(),
		logger:   logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Browsers on any origin may play; nothing here is privileged.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}

	s.r.Use(chimw.RequestID)
	s.r.Use(chimw.RealIP)
	s.r.Use(chimw.Recoverer)

	// The websocket handler lives as long as the game, so the timeout only
	// covers the JSON API.
	s.r.Group(func(r chi.Router) {
		r.Use(chimw.Timeout(10 * time.Second))
		r.Use(jsonContentType)

		r.Get("/health", s.handleHealth)
		r.Get("/variants", s.handleVariants)
		r.Get("/runs", s.handleRuns)
		r.Get("/runs/stats", s.handleStats)
		r.Get("/sessions/{id}/runs", s.handleSessionRuns)
	})
	s.r.Get("/ws", s.handleWS)

	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not_found", "path": r.URL.Path})
	})

	s.http = &http.Server{
		Addr:              cfg.Address,
		Handler:           s.r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	return s
}

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

// Sessions exposes the live session registry. The serve command reports
// its size on shutdown.
func (s *Server) Sessions() *session.Registry { return s.sessions }

// ListenAndServe serves until Shutdown is called.
func (s *Server) ListenAndServe() error {
	s.logger.Info("starting websocket server", "address", s.cfg.Address)

	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("web: http server: %w", err)
	}
	return nil
}

// Shutdown stops accepting requests and ends every live session.
func (s *Server) Shutdown(ctx context.Context) error {
	err := s.http.Shutdown(ctx)
	s.sessions.CloseAll()
	return err
}

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "sessions": s.sessions.Count()})
}

// variantDTO is the JSON view of a registered variant.
type variantDTO struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	GridSize    int    `json:"grid_size"`
	TickMS      int64  `json:"tick_ms"`
	DebounceMS  int64  `json:"debounce_ms"`
	Scoring     bool   `json:"scoring"`
}

func (s *Server) handleVariants(w http.ResponseWriter, r *http.Request) {
	list := registry.List()
	out := make([]variantDTO, 0, len(list))
	for _, v := range list {
		o := v.Options
		out = append(out, variantDTO{
			ID:          v.ID,
			Title:       v.Title,
			Description: v.Description,
			GridSize:    o.GridSize,
			TickMS:      o.TickInterval.Milliseconds(),
			DebounceMS:  o.DirectionDebounce.Milliseconds(),
			Scoring:     o.Scoring,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

// runDTO is the JSON view of a ledger entry.
type runDTO struct {
	Session   string    `json:"session"`
	Variant   string    `json:"variant"`
	Score     int       `json:"score"`
	Length    int       `json:"length"`
	Ticks     int64     `json:"ticks"`
	Reason    string    `json:"reason"`
	StartedAt time.Time `json:"started_at"`
	EndedAt   time.Time `json:"ended_at"`
}

func toRunDTOs(entries []storage.RunEntry) []runDTO {
	out := make([]runDTO, 0, len(entries))
	for _, e := range entries {
		out = append(out, runDTO{
			Session:   e.Session,
			Variant:   e.Variant,
			Score:     e.Score,
			Length:    e.Length,
			Ticks:     e.Ticks,
			Reason:    string(e.Reason),
			StartedAt: e.StartedAt.UTC(),
			EndedAt:   e.EndedAt.UTC(),
		})
	}
	return out
}

func queryLimit(r *http.Request) int {
	n, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || n <= 0 || n > 100 {
		return 10
	}
	return n
}

func (s *Server) handleRuns(w http.ResponseWriter, r *http.Request) {
	if s.ledger == nil {
		writeJSON(w, http.StatusOK, []runDTO{})
		return
	}

	entries, err := s.ledger.TopRuns(r.URL.Query().Get("variant"), queryLimit(r))
	if err != nil {
		s.logger.Error("cannot list runs", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "ledger_unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, toRunDTOs(entries))
}

func (s *Server) handleSessionRuns(w http.ResponseWriter, r *http.Request) {
	if s.ledger == nil {
		writeJSON(w, http.StatusOK, []runDTO{})
		return
	}

	entries, err := s.ledger.SessionRuns(chi.URLParam(r, "id"), queryLimit(r))
	if err != nil {
		s.logger.Error("cannot list session runs", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "ledger_unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, toRunDTOs(entries))
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	if s.ledger == nil {
		writeJSON(w, http.StatusOK, map[string]any{})
		return
	}

	stats, err := s.ledger.Stats()
	if err != nil {
		s.logger.Error("cannot compute stats", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "ledger_unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// handleWS upgrades the request and plays one session over the socket
// until either side goes away.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	variantID := r.URL.Query().Get("variant")
	if variantID == "" {
		variantID = s.cfg.Variant
	}
	v, err := s.cfg.Resolve(variantID)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "unknown_variant", "variant": variantID})
		return
	}

	ws, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already replied to the client.
		s.logger.Debug("upgrade failed", "error", err)
		return
	}

	id := session.NewID()
	logger := s.logger.With("session", id.String(), "remote", r.RemoteAddr)
	conn := newConn(ws, logger)

	var recorder snake.RunRecorder
	if s.ledger != nil {
		recorder = s.ledger.ForSession(id.String())
	}

	sess, err := session.New(session.Config{
		ID:       id,
		Variant:  v.ID,
		Options:  v.Options,
		Renderer: conn,
		Scores:   conn,
		Recorder: recorder,
		Logger:   logger,
	})
	if err != nil {
		logger.Error("cannot create session", "error", err)
		conn.Send(ErrorMsg{Type: MsgError, Message: "cannot create session"})
		conn.Close()
		conn.writeLoop()
		return
	}

	s.sessions.Register(sess)
	defer s.sessions.Unregister(id)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go sess.Run(ctx)
	go conn.writeLoop()
	go func() {
		// A closed session (server shutdown) closes the socket too.
		select {
		case <-sess.Done():
			conn.Close()
		case <-conn.Done():
		}
	}()

	logger.Info("session started", "variant", v.ID)
	conn.Send(WelcomeMsg{Type: MsgWelcome, ID: id.String(), Variant: v.ID, Size: v.Options.GridSize})

	conn.readLoop(func(msg ClientMessage) {
		switch msg.Type {
		case MsgStart:
			sess.Start()
		case MsgStop:
			sess.Stop()
		case MsgTurn:
			d, err := snake.ParseDirection(msg.Dir)
			if err != nil {
				conn.Send(ErrorMsg{Type: MsgError, Message: err.Error()})
				return
			}
			sess.Turn(d)
		default:
			conn.Send(ErrorMsg{Type: MsgError, Message: "unknown message type " + strconv.Quote(msg.Type)})
		}
	})

	cancel()
	<-sess.Done()
	conn.Close()
	logger.Info("session ended")
}
