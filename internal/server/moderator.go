package server

import (
	"encoding/json"
	"errors"
	"log"

	"quizshow/internal/web"
)

// moderatorSession drives the shared board. Commands that lose a race or hit
// a state conflict are dropped silently: a double-click on "rate" after the
// buzz was cleared is normal traffic, not an error.
type moderatorSession struct {
	srv    *Server
	c      *client
	gameID string
}

func (m *moderatorSession) connect() {
	m.pushLogin()
}

func (m *moderatorSession) handleMessage(data []byte) {
	var msg inboundMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return
	}
	if msg.Type == "login" {
		m.login(msg.GameCode)
		return
	}
	if m.gameID == "" {
		return
	}
	var err error
	switch msg.Type {
	case "question-click":
		err = m.srv.SelectQuestion(m.gameID, msg.QuestionID)
	case "show-question-click":
		err = m.srv.ToggleQuestionVisible(m.gameID)
	case "show-answer-click":
		err = m.srv.ToggleAnswerVisible(m.gameID)
	case "player-buzzer-lock":
		err = m.srv.ToggleParticipantLock(m.gameID, msg.PlayerID)
	case "toggle-all-buzzers":
		err = m.srv.ToggleAllBuzzers(m.gameID)
	case "rate-answer":
		err = m.srv.RateAnswer(m.gameID, msg.Value)
	case "exit-question":
		err = m.srv.ExitQuestion(m.gameID)
	case "timer-update":
		if msg.Count != nil {
			err = m.srv.TimerUpdate(m.gameID, *msg.Count)
		}
	}
	if err != nil && !errors.Is(err, ErrConflict) && !errors.Is(err, ErrNotFound) {
		log.Printf("moderator command failed game_id=%s type=%s error=%v", m.gameID, msg.Type, err)
	}
}

func (m *moderatorSession) login(code string) {
	gameID, err := m.srv.store.FindGameByModeratorKey(code)
	if err != nil {
		m.pushLogin()
		return
	}
	// Switching games leaves the old group first, otherwise its broadcasts
	// keep arriving on this connection.
	if m.gameID != "" && m.gameID != gameID {
		m.srv.leaveGame(m.gameID, m.c)
	}
	rejoining := m.gameID == gameID
	m.gameID = gameID
	m.c.userID = roleModerator
	m.srv.ws.Join(gameID, m.c)
	log.Printf("moderator login game_id=%s", gameID)
	if !rejoining {
		m.srv.broadcast(gameID, topicUserEntered, EventPayload{UserID: m.c.userID})
	}
	_ = m.pushView()
	_ = m.pushScoreSetup()
}

func (m *moderatorSession) pushView() error {
	if m.gameID == "" {
		m.pushLogin()
		return nil
	}
	var frames []string
	err := m.srv.store.ViewGame(m.gameID, func(game *Game) error {
		switch game.View.Page {
		case pageQuestion:
			frames = m.questionFrames(game)
		default:
			frames = []string{renderBoardFragment(game, true)}
		}
		return nil
	})
	if err != nil {
		m.pushLogin()
		return nil
	}
	return m.sendFrames(frames)
}

// questionFrames renders the moderator's question page: the text is always
// readable here, the answer carries its players-can-see state, and the buzz
// panel doubles as the per-player lock switchboard.
func (m *moderatorSession) questionFrames(game *Game) []string {
	frames := []string{renderFragment(web.QuestionPanel(roleModerator))}
	if question := game.activeQuestion(); question != nil {
		frames = append(frames,
			renderFragment(web.QuestionText(question.Text, true)),
			renderFragment(web.ModeratorAnswer(question.Answer, game.View.AnswerVisible)),
		)
	}
	frames = append(frames, m.buzzFrames(game)...)
	frames = append(frames, renderFragment(web.ScoreSetup(buildParticipantViews(game))))
	return frames
}

func (m *moderatorSession) buzzFrames(game *Game) []string {
	return []string{
		renderFragment(web.BuzzPanel(buildParticipantViews(game), game.BuzzersLocked)),
		renderFragment(web.RateAnswerPanel(game.BuzzPlayerID != nil)),
	}
}

func (m *moderatorSession) pushScoreSetup() error {
	var frames []string
	err := m.srv.store.ViewGame(m.gameID, func(game *Game) error {
		frames = append(frames, renderFragment(web.ScoreSetup(buildParticipantViews(game))))
		frames = append(frames, renderScoreFragments(game)...)
		return nil
	})
	if err != nil {
		return nil
	}
	return m.sendFrames(frames)
}

func (m *moderatorSession) handleTopic(topic string, payload EventPayload) error {
	switch topic {
	case topicBuzzUpdate:
		var frames []string
		if err := m.srv.store.ViewGame(m.gameID, func(game *Game) error {
			frames = m.buzzFrames(game)
			return nil
		}); err != nil {
			return nil
		}
		return m.sendFrames(frames)
	case topicViewUpdate:
		return m.pushView()
	case topicScoreUpdate:
		var frames []string
		if err := m.srv.store.ViewGame(m.gameID, func(game *Game) error {
			frames = renderScoreFragments(game)
			return nil
		}); err != nil {
			return nil
		}
		return m.sendFrames(frames)
	case topicAnswerUpdate:
		var frame string
		if err := m.srv.store.ViewGame(m.gameID, func(game *Game) error {
			if question := game.activeQuestion(); question != nil {
				frame = renderFragment(web.ModeratorAnswer(question.Answer, game.View.AnswerVisible))
			}
			return nil
		}); err != nil || frame == "" {
			return nil
		}
		return m.c.send(frame)
	case topicTimerUpdate:
		return m.c.send(renderFragment(web.Timer(payload.Count)))
	}
	return nil
}

func (m *moderatorSession) disconnect() {
	m.srv.leaveGame(m.gameID, m.c)
}

func (m *moderatorSession) pushLogin() {
	_ = m.c.send(renderFragment(web.LoginPrompt(roleModerator)))
}

func (m *moderatorSession) sendFrames(frames []string) error {
	for _, frame := range frames {
		if err := m.c.send(frame); err != nil {
			return err
		}
	}
	return nil
}
