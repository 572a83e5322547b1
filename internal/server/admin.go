package server

import (
	"encoding/json"
	"log"
)

// adminSession is the bootstrap socket: a single create-game request and
// response, no group membership, no live protocol.
type adminSession struct {
	srv *Server
	c   *client
}

func (a *adminSession) connect() {}

func (a *adminSession) handleMessage(data []byte) {
	var msg inboundMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return
	}
	if msg.Type != "create-game" {
		return
	}
	name := msg.GameName
	if name == "" {
		name = "New Game"
	}
	game, err := a.srv.CreateGame(GameSpec{Name: name, Participants: msg.PlayerNames})
	if err != nil {
		log.Printf("admin create-game failed error=%v", err)
		_ = a.c.sendJSON(map[string]string{"error": "failed to create game"})
		return
	}
	_ = a.c.sendJSON(map[string]string{"gameId": game.ID})
}

func (a *adminSession) handleTopic(topic string, payload EventPayload) error {
	return nil
}

func (a *adminSession) disconnect() {}
