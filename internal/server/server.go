package server

import (
	"net/http"

	"quizshow/internal/config"
	"quizshow/internal/web"

	"github.com/a-h/templ"
	"gorm.io/gorm"
)

// Server owns the live game registry, the websocket hub and the persistence
// handle. conn may be nil for a memory-only server.
type Server struct {
	store *Store
	db    *gorm.DB
	ws    *wsHub
	cfg   config.Config

	// persistGame points at persistProvisionedGame; a seam for tests that
	// need the provisioning write to fail without a database.
	persistGame func(game *Game) error
}

func New(conn *gorm.DB, cfg config.Config) *Server {
	s := &Server{
		store: NewStore(cfg.KeyLength),
		db:    conn,
		ws:    newWSHub(),
		cfg:   cfg,
	}
	s.persistGame = s.persistProvisionedGame
	return s
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleWelcome)
	mux.Handle("/player", pageHandler(web.PlayerPage()))
	mux.Handle("/moderator", pageHandler(web.ModeratorPage()))
	mux.Handle("/spectator", pageHandler(web.SpectatorPage()))
	mux.HandleFunc("/static/styles.css", handleStylesheet)
	mux.HandleFunc("/ws/player", s.handlePlayerWS)
	mux.HandleFunc("/ws/moderator", s.handleModeratorWS)
	mux.HandleFunc("/ws/spectator", s.handleSpectatorWS)
	mux.HandleFunc("/ws/admin", s.handleAdminWS)
	mux.Handle("/api/", s.apiHandler())
	return mux
}

func (s *Server) handleWelcome(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_ = web.Welcome().Render(r.Context(), w)
}

func handleStylesheet(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/css; charset=utf-8")
	_, _ = w.Write([]byte(web.Stylesheet))
}

func pageHandler(component templ.Component) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_ = component.Render(r.Context(), w)
	})
}
