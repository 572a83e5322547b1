package server

import (
	"fmt"
	"log"
)

// CreateGame provisions a game plus its participants and registers it for
// live play. Used by the admin bootstrap socket and the bulk import API.
// Provisioning is all-or-nothing: a failed database write unregisters the
// game again, so no unbacked game is ever reachable.
func (s *Server) CreateGame(spec GameSpec) (*Game, error) {
	game := s.store.CreateGame(spec)
	if err := s.persistGame(game); err != nil {
		s.store.RemoveGame(game.ID)
		return nil, err
	}
	log.Printf("game created game_id=%s name=%s participants=%d tables=%d",
		game.ID, game.Name, len(game.Participants), len(game.Tables))
	return game, nil
}

// Buzz is the race-critical claim path. The whole check-and-set runs inside
// the game's critical section: the first claimant flips BuzzersLocked and
// every later claimant observes the lock and is rejected.
func (s *Server) Buzz(gameID string, participantID int) error {
	game, err := s.store.UpdateGame(gameID, func(game *Game) error {
		participant := game.findParticipant(participantID)
		if participant == nil {
			return ErrNotFound
		}
		if participant.RoundLock || game.BuzzersLocked {
			return ErrConflict
		}
		game.BuzzersLocked = true
		participant.RoundLock = true
		winner := participant.ID
		game.BuzzPlayerID = &winner
		return nil
	})
	if err != nil {
		return err
	}
	s.persistBuzzState(game)
	s.persistEvent(game, "buzz_claimed", EventPayload{ParticipantID: participantID})
	log.Printf("buzz claimed game_id=%s participant_id=%d", gameID, participantID)
	s.broadcast(gameID, topicBuzzUpdate, EventPayload{ParticipantID: participantID})
	return nil
}

// RateAnswer resolves the current buzz. Correct answers pay the question's
// points and retire it; wrong answers cost points * LooseFactor (scores may
// go negative); skip changes nothing. The buzz holder is always cleared, but
// BuzzersLocked stays put: only exit-question or toggle-all-buzzers reopen
// the round.
func (s *Server) RateAnswer(gameID string, value string) error {
	var (
		winner   Participant
		question *BoardQuestion
		scored   bool
	)
	game, err := s.store.UpdateGame(gameID, func(game *Game) error {
		if game.View.ActiveQuestionID == nil || game.BuzzPlayerID == nil {
			return ErrConflict
		}
		active := game.activeQuestion()
		if active == nil {
			return fmt.Errorf("%w: active question missing", ErrConflict)
		}
		participant := game.findParticipant(*game.BuzzPlayerID)
		if participant == nil {
			return fmt.Errorf("%w: buzz holder missing", ErrConflict)
		}
		switch value {
		case ratingCorrect:
			participant.Score += active.Points
			active.IsPlayed = true
			scored = true
		case ratingWrong:
			participant.Score -= int(float64(active.Points) * s.cfg.LooseFactor)
			scored = true
		case ratingSkip:
		default:
			return fmt.Errorf("%w: unknown rating %q", ErrConflict, value)
		}
		game.BuzzPlayerID = nil
		winner = *participant
		question = active
		return nil
	})
	if err != nil {
		return err
	}
	s.persistParticipant(game, winner)
	s.persistQuestionFlags(game, *question)
	s.persistBuzzState(game)
	s.persistEvent(game, "answer_rated", EventPayload{ParticipantID: winner.ID, Value: value})
	log.Printf("answer rated game_id=%s participant_id=%d value=%s score=%d", gameID, winner.ID, value, winner.Score)
	if scored {
		s.broadcast(gameID, topicScoreUpdate, EventPayload{ParticipantID: winner.ID})
	}
	s.broadcast(gameID, topicBuzzUpdate, EventPayload{})
	return nil
}

// SelectQuestion transitions the shared view onto a question. At most one
// question is active across the whole game; a played question cannot come
// back.
func (s *Server) SelectQuestion(gameID string, questionID int) error {
	var (
		question    BoardQuestion
		deactivated *BoardQuestion
	)
	game, err := s.store.UpdateGame(gameID, func(game *Game) error {
		selected, table := game.findQuestion(questionID)
		if selected == nil {
			return ErrNotFound
		}
		if selected.IsPlayed {
			return fmt.Errorf("%w: question already played", ErrConflict)
		}
		if active := game.activeQuestion(); active != nil && active != selected {
			active.IsActive = false
			deactivated = active
		}
		selected.IsActive = true
		game.View.Page = pageQuestion
		game.View.QuestionVisible = false
		game.View.AnswerVisible = false
		id := selected.ID
		game.View.ActiveQuestionID = &id
		tableID := table.ID
		game.View.ActiveTableID = &tableID
		question = *selected
		return nil
	})
	if err != nil {
		return err
	}
	if deactivated != nil {
		s.persistQuestionFlags(game, *deactivated)
	}
	s.persistQuestionFlags(game, question)
	s.persistView(game)
	s.persistEvent(game, "question_selected", EventPayload{QuestionID: questionID})
	log.Printf("question selected game_id=%s question_id=%d points=%d", gameID, questionID, question.Points)
	s.broadcast(gameID, topicViewUpdate, EventPayload{QuestionID: questionID})
	return nil
}

// ToggleQuestionVisible flips whether players can read the question text.
// Only meaningful on the question page; on the board the flag must stay
// false.
func (s *Server) ToggleQuestionVisible(gameID string) error {
	game, err := s.store.UpdateGame(gameID, func(game *Game) error {
		if game.View.Page != pageQuestion {
			return ErrConflict
		}
		game.View.QuestionVisible = !game.View.QuestionVisible
		return nil
	})
	if err != nil {
		return err
	}
	s.persistView(game)
	s.broadcast(gameID, topicViewUpdate, EventPayload{})
	return nil
}

func (s *Server) ToggleAnswerVisible(gameID string) error {
	game, err := s.store.UpdateGame(gameID, func(game *Game) error {
		if game.View.Page != pageQuestion {
			return ErrConflict
		}
		game.View.AnswerVisible = !game.View.AnswerVisible
		return nil
	})
	if err != nil {
		return err
	}
	s.persistView(game)
	s.broadcast(gameID, topicAnswerUpdate, EventPayload{})
	return nil
}

// ToggleParticipantLock is the moderator's manual per-player lock switch.
func (s *Server) ToggleParticipantLock(gameID string, participantID int) error {
	var toggled Participant
	game, err := s.store.UpdateGame(gameID, func(game *Game) error {
		participant := game.findParticipant(participantID)
		if participant == nil {
			return ErrNotFound
		}
		participant.RoundLock = !participant.RoundLock
		toggled = *participant
		return nil
	})
	if err != nil {
		return err
	}
	s.persistParticipant(game, toggled)
	log.Printf("participant lock toggled game_id=%s participant_id=%d locked=%t", gameID, participantID, toggled.RoundLock)
	s.broadcast(gameID, topicBuzzUpdate, EventPayload{ParticipantID: participantID})
	return nil
}

// ToggleAllBuzzers flips the global lock. Reopening while a claim is held
// also releases the holder, otherwise the holder invariant would break.
func (s *Server) ToggleAllBuzzers(gameID string) error {
	game, err := s.store.UpdateGame(gameID, func(game *Game) error {
		game.BuzzersLocked = !game.BuzzersLocked
		if !game.BuzzersLocked {
			game.BuzzPlayerID = nil
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.persistBuzzState(game)
	s.broadcast(gameID, topicBuzzUpdate, EventPayload{})
	return nil
}

// ExitQuestion retires the active question and resets the round: view back to
// the board, buzz lock released, every participant unlocked.
func (s *Server) ExitQuestion(gameID string) error {
	var (
		question BoardQuestion
		unlocked []Participant
	)
	game, err := s.store.UpdateGame(gameID, func(game *Game) error {
		active := game.activeQuestion()
		if active == nil {
			return ErrConflict
		}
		active.IsActive = false
		active.IsPlayed = true
		question = *active
		game.View.Page = pageBoard
		game.View.QuestionVisible = false
		game.View.AnswerVisible = false
		game.View.ActiveQuestionID = nil
		game.BuzzPlayerID = nil
		game.BuzzersLocked = false
		for i := range game.Participants {
			game.Participants[i].RoundLock = false
			unlocked = append(unlocked, game.Participants[i])
		}
		return nil
	})
	if err != nil {
		return err
	}
	for _, participant := range unlocked {
		s.persistParticipant(game, participant)
	}
	s.persistQuestionFlags(game, question)
	s.persistView(game)
	s.persistBuzzState(game)
	s.persistEvent(game, "question_exited", EventPayload{QuestionID: question.ID})
	log.Printf("question exited game_id=%s question_id=%d", gameID, question.ID)
	s.broadcast(gameID, topicViewUpdate, EventPayload{})
	return nil
}

// TimerUpdate relays the moderator client's countdown to the group. The
// server never ticks; it only forwards counts and locks the buzzers when the
// count reaches zero.
func (s *Server) TimerUpdate(gameID string, count int) error {
	if _, ok := s.store.GetGame(gameID); !ok {
		return ErrNotFound
	}
	s.broadcast(gameID, topicTimerUpdate, EventPayload{Count: count})
	if count != 0 {
		return nil
	}
	game, err := s.store.UpdateGame(gameID, func(game *Game) error {
		game.BuzzersLocked = true
		return nil
	})
	if err != nil {
		return err
	}
	s.persistBuzzState(game)
	log.Printf("timer expired game_id=%s", gameID)
	s.broadcast(gameID, topicBuzzUpdate, EventPayload{})
	return nil
}
