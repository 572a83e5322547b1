package server

import (
	"encoding/json"
	"log"

	"quizshow/internal/web"
)

// spectatorSession is view-only: it logs in with the game's spectator key,
// follows every view and score change, and never sends a command.
type spectatorSession struct {
	srv    *Server
	c      *client
	gameID string
}

func (sp *spectatorSession) connect() {
	sp.pushLogin()
}

func (sp *spectatorSession) handleMessage(data []byte) {
	var msg inboundMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return
	}
	if msg.Type == "login" {
		sp.login(msg.GameCode)
	}
}

func (sp *spectatorSession) login(code string) {
	gameID, err := sp.srv.store.FindGameBySpectatorKey(code)
	if err != nil {
		sp.pushLogin()
		return
	}
	// Switching games leaves the old group first, otherwise its broadcasts
	// keep arriving on this connection.
	if sp.gameID != "" && sp.gameID != gameID {
		sp.srv.leaveGame(sp.gameID, sp.c)
	}
	rejoining := sp.gameID == gameID
	sp.gameID = gameID
	sp.c.userID = roleSpectator
	sp.srv.ws.Join(gameID, sp.c)
	log.Printf("spectator login game_id=%s", gameID)
	if !rejoining {
		sp.srv.broadcast(gameID, topicUserEntered, EventPayload{UserID: sp.c.userID})
	}
	_ = sp.pushView()
	_ = sp.pushScoreSetup()
}

func (sp *spectatorSession) pushView() error {
	if sp.gameID == "" {
		sp.pushLogin()
		return nil
	}
	var frames []string
	err := sp.srv.store.ViewGame(sp.gameID, func(game *Game) error {
		switch game.View.Page {
		case pageQuestion:
			frames = append(frames, renderFragment(web.QuestionPanel(roleSpectator)))
			if question := game.activeQuestion(); question != nil {
				frames = append(frames,
					renderFragment(web.QuestionText(question.Text, game.View.QuestionVisible)),
					renderFragment(web.AnswerWrap(question.Answer, game.View.AnswerVisible)),
				)
			}
		default:
			frames = []string{renderBoardFragment(game, false)}
		}
		return nil
	})
	if err != nil {
		sp.pushLogin()
		return nil
	}
	return sp.sendFrames(frames)
}

func (sp *spectatorSession) pushScoreSetup() error {
	var frames []string
	err := sp.srv.store.ViewGame(sp.gameID, func(game *Game) error {
		frames = append(frames, renderFragment(web.ScoreSetup(buildParticipantViews(game))))
		frames = append(frames, renderScoreFragments(game)...)
		return nil
	})
	if err != nil {
		return nil
	}
	return sp.sendFrames(frames)
}

func (sp *spectatorSession) handleTopic(topic string, payload EventPayload) error {
	switch topic {
	case topicViewUpdate:
		return sp.pushView()
	case topicScoreUpdate:
		var frames []string
		if err := sp.srv.store.ViewGame(sp.gameID, func(game *Game) error {
			frames = renderScoreFragments(game)
			return nil
		}); err != nil {
			return nil
		}
		return sp.sendFrames(frames)
	case topicAnswerUpdate:
		var frame string
		if err := sp.srv.store.ViewGame(sp.gameID, func(game *Game) error {
			if question := game.activeQuestion(); question != nil {
				frame = renderFragment(web.AnswerWrap(question.Answer, game.View.AnswerVisible))
			}
			return nil
		}); err != nil || frame == "" {
			return nil
		}
		return sp.c.send(frame)
	case topicTimerUpdate:
		return sp.c.send(renderFragment(web.Timer(payload.Count)))
	}
	return nil
}

func (sp *spectatorSession) disconnect() {
	sp.srv.leaveGame(sp.gameID, sp.c)
}

func (sp *spectatorSession) pushLogin() {
	_ = sp.c.send(renderFragment(web.LoginPrompt(roleSpectator)))
}

func (sp *spectatorSession) sendFrames(frames []string) error {
	for _, frame := range frames {
		if err := sp.c.send(frame); err != nil {
			return err
		}
	}
	return nil
}
