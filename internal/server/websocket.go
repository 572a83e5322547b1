package server

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
)

// session is the role-specific half of a connection: moderator, player,
// spectator and admin all share this lifecycle but diverge in command
// vocabulary and rendered views.
type session interface {
	connect()
	handleMessage(data []byte)
	handleTopic(topic string, payload EventPayload) error
	disconnect()
}

// inboundMessage is the envelope for every client frame. Unknown types and
// malformed frames are ignored; a stray client message must never end the
// session.
type inboundMessage struct {
	Type        string   `json:"type"`
	GameCode    string   `json:"gameCode"`
	QuestionID  int      `json:"questionId"`
	PlayerID    int      `json:"playerId"`
	Value       string   `json:"value"`
	Count       *int     `json:"count"`
	GameName    string   `json:"gameName"`
	PlayerNames []string `json:"playerNames"`
}

type client struct {
	conn    *websocket.Conn
	sess    session
	userID  string
	writeMu sync.Mutex
}

// send serializes writes: the broadcast path and the client's own command
// responses share the connection.
func (c *client) send(text string) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.conn.WriteMessage(websocket.TextMessage, []byte(text))
}

func (c *client) sendJSON(payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return c.send(string(data))
}

// wsHub maps gameID to the set of live connections in that game's group,
// regardless of role. Delivery within one game is serialized through a
// per-game send lock, so recipients observe moderator commands in the order
// they were issued.
type wsHub struct {
	mu     sync.Mutex
	groups map[string]map[*client]struct{}
	sends  map[string]*sync.Mutex
}

func newWSHub() *wsHub {
	return &wsHub{
		groups: make(map[string]map[*client]struct{}),
		sends:  make(map[string]*sync.Mutex),
	}
}

// Join is idempotent.
func (h *wsHub) Join(gameID string, c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	group := h.groups[gameID]
	if group == nil {
		group = make(map[*client]struct{})
		h.groups[gameID] = group
	}
	group[c] = struct{}{}
}

// Leave removes the connection and reports whether it was a member.
func (h *wsHub) Leave(gameID string, c *client) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	group := h.groups[gameID]
	if group == nil {
		return false
	}
	if _, ok := group[c]; !ok {
		return false
	}
	delete(group, c)
	if len(group) == 0 {
		delete(h.groups, gameID)
	}
	return true
}

// Broadcast fans a topic out to every member of the game's group. Delivery
// is best-effort per recipient: a broken connection is evicted and announced
// but never blocks the others. An empty group is a no-op.
func (h *wsHub) Broadcast(gameID, topic string, payload EventPayload) {
	h.mu.Lock()
	group := h.groups[gameID]
	members := make([]*client, 0, len(group))
	for c := range group {
		members = append(members, c)
	}
	sendLock := h.sends[gameID]
	if sendLock == nil {
		sendLock = &sync.Mutex{}
		h.sends[gameID] = sendLock
	}
	h.mu.Unlock()
	if len(members) == 0 {
		return
	}

	sendLock.Lock()
	var failed []*client
	for _, c := range members {
		if err := c.sess.handleTopic(topic, payload); err != nil {
			failed = append(failed, c)
		}
	}
	sendLock.Unlock()

	for _, c := range failed {
		h.evict(gameID, c)
	}
}

// evict drops a connection whose last write failed, then tells the rest of
// the group. Eviction happens outside the send lock so the user_left
// broadcast cannot deadlock.
func (h *wsHub) evict(gameID string, c *client) {
	if !h.Leave(gameID, c) {
		return
	}
	_ = c.conn.Close()
	log.Printf("ws evicted game_id=%s user_id=%s", gameID, c.userID)
	h.Broadcast(gameID, topicUserLeft, EventPayload{UserID: c.userID})
}

func (s *Server) broadcast(gameID, topic string, payload EventPayload) {
	if s.ws == nil {
		return
	}
	s.ws.Broadcast(gameID, topic, payload)
}

// leaveGame handles the voluntary half of departure: leave the group, then a
// presence broadcast for whoever is still connected.
func (s *Server) leaveGame(gameID string, c *client) {
	if gameID == "" {
		return
	}
	if s.ws.Leave(gameID, c) {
		s.ws.Broadcast(gameID, topicUserLeft, EventPayload{UserID: c.userID})
	}
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

func (s *Server) handleModeratorWS(w http.ResponseWriter, r *http.Request) {
	s.serveWS(w, r, func(c *client) session {
		return &moderatorSession{srv: s, c: c}
	})
}

func (s *Server) handlePlayerWS(w http.ResponseWriter, r *http.Request) {
	s.serveWS(w, r, func(c *client) session {
		return &playerSession{srv: s, c: c}
	})
}

func (s *Server) handleSpectatorWS(w http.ResponseWriter, r *http.Request) {
	s.serveWS(w, r, func(c *client) session {
		return &spectatorSession{srv: s, c: c}
	})
}

func (s *Server) handleAdminWS(w http.ResponseWriter, r *http.Request) {
	s.serveWS(w, r, func(c *client) session {
		return &adminSession{srv: s, c: c}
	})
}

func (s *Server) serveWS(w http.ResponseWriter, r *http.Request, build func(c *client) session) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	log.Printf("ws connected path=%s remote=%s", r.URL.Path, r.RemoteAddr)
	c := &client{conn: conn}
	c.sess = build(c)
	c.sess.connect()
	go s.readWS(c)
}

func (s *Server) readWS(c *client) {
	defer c.sess.disconnect()
	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			log.Printf("ws disconnected user_id=%s error=%v", c.userID, err)
			return
		}
		c.sess.handleMessage(data)
	}
}
