package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"quizshow/internal/web"
)

// playerSession serves one connected contestant. Before login it only knows
// how to show the login prompt; after login it renders the shared view from
// the contestant's perspective.
type playerSession struct {
	srv           *Server
	c             *client
	gameID        string
	participantID int
}

func (p *playerSession) connect() {
	p.pushLogin()
}

func (p *playerSession) handleMessage(data []byte) {
	var msg inboundMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return
	}
	switch msg.Type {
	case "login":
		p.login(msg.GameCode)
	case "buzzer-click":
		p.buzz()
	case "question-click":
		// board clicks are moderator-only; players just look at it
	}
}

func (p *playerSession) login(code string) {
	gameID, participantID, err := p.srv.store.FindParticipantByKey(code)
	if err != nil {
		p.pushLogin()
		return
	}
	// Switching games leaves the old group first, otherwise its broadcasts
	// keep arriving on this connection.
	if p.gameID != "" && p.gameID != gameID {
		p.srv.leaveGame(p.gameID, p.c)
	}
	rejoining := p.gameID == gameID
	p.gameID = gameID
	p.participantID = participantID
	p.c.userID = fmt.Sprintf("player-%d", participantID)
	p.srv.ws.Join(gameID, p.c)
	log.Printf("player login game_id=%s participant_id=%d", gameID, participantID)
	if !rejoining {
		p.srv.broadcast(gameID, topicUserEntered, EventPayload{UserID: p.c.userID, ParticipantID: participantID})
	}
	_ = p.pushView()
	_ = p.pushScoreSetup()
}

func (p *playerSession) buzz() {
	if p.gameID == "" {
		return
	}
	err := p.srv.Buzz(p.gameID, p.participantID)
	if err != nil && !errors.Is(err, ErrConflict) && !errors.Is(err, ErrNotFound) {
		log.Printf("buzz failed game_id=%s participant_id=%d error=%v", p.gameID, p.participantID, err)
	}
}

// pushView recomputes whichever fragment matches the shared view's page.
func (p *playerSession) pushView() error {
	if p.gameID == "" {
		p.pushLogin()
		return nil
	}
	var frames []string
	err := p.srv.store.ViewGame(p.gameID, func(game *Game) error {
		switch game.View.Page {
		case pageQuestion:
			frames = p.questionFrames(game)
		default:
			frames = []string{renderBoardFragment(game, false)}
		}
		return nil
	})
	if err != nil {
		p.pushLogin()
		return nil
	}
	return p.sendFrames(frames)
}

func (p *playerSession) questionFrames(game *Game) []string {
	frames := []string{renderFragment(web.QuestionPanel(rolePlayer))}
	if question := game.activeQuestion(); question != nil {
		frames = append(frames,
			renderFragment(web.QuestionText(question.Text, game.View.QuestionVisible)),
			renderFragment(web.AnswerWrap(question.Answer, game.View.AnswerVisible)),
		)
	}
	frames = append(frames, p.buzzerFrame(game))
	return frames
}

func (p *playerSession) buzzerFrame(game *Game) string {
	disabled := game.BuzzersLocked
	if participant := game.findParticipant(p.participantID); participant != nil {
		disabled = participant.RoundLock || game.BuzzersLocked
	}
	return renderFragment(web.Buzzer(disabled))
}

func (p *playerSession) pushScoreSetup() error {
	var frames []string
	err := p.srv.store.ViewGame(p.gameID, func(game *Game) error {
		frames = append(frames, renderFragment(web.ScoreSetup(buildParticipantViews(game))))
		frames = append(frames, renderScoreFragments(game)...)
		return nil
	})
	if err != nil {
		return nil
	}
	return p.sendFrames(frames)
}

func (p *playerSession) handleTopic(topic string, payload EventPayload) error {
	switch topic {
	case topicBuzzUpdate:
		var frame string
		if err := p.srv.store.ViewGame(p.gameID, func(game *Game) error {
			frame = p.buzzerFrame(game)
			return nil
		}); err != nil {
			return nil
		}
		return p.c.send(frame)
	case topicViewUpdate:
		return p.pushView()
	case topicScoreUpdate:
		var frames []string
		if err := p.srv.store.ViewGame(p.gameID, func(game *Game) error {
			frames = renderScoreFragments(game)
			return nil
		}); err != nil {
			return nil
		}
		return p.sendFrames(frames)
	case topicAnswerUpdate:
		var frame string
		if err := p.srv.store.ViewGame(p.gameID, func(game *Game) error {
			if question := game.activeQuestion(); question != nil {
				frame = renderFragment(web.AnswerWrap(question.Answer, game.View.AnswerVisible))
			}
			return nil
		}); err != nil || frame == "" {
			return nil
		}
		return p.c.send(frame)
	case topicTimerUpdate:
		return p.c.send(renderFragment(web.Timer(payload.Count)))
	}
	return nil
}

func (p *playerSession) disconnect() {
	p.srv.leaveGame(p.gameID, p.c)
}

func (p *playerSession) pushLogin() {
	_ = p.c.send(renderFragment(web.LoginPrompt(rolePlayer)))
}

func (p *playerSession) sendFrames(frames []string) error {
	for _, frame := range frames {
		if err := p.c.send(frame); err != nil {
			return err
		}
	}
	return nil
}
