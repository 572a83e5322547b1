package server

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"quizshow/internal/config"
)

func openRound(t *testing.T, srv *Server, game *Game) int {
	t.Helper()
	questionID := firstQuestionID(t, game)
	if err := srv.SelectQuestion(game.ID, questionID); err != nil {
		t.Fatalf("select question: %v", err)
	}
	return questionID
}

func TestCreateGameRollsBackOnPersistFailure(t *testing.T) {
	srv := New(nil, config.Default())
	srv.persistGame = func(*Game) error {
		return fmt.Errorf("%w: capability key collision", ErrConflict)
	}

	_, err := srv.CreateGame(testGameSpec())
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
	// The failed game must not stay reachable in the registry.
	if _, ok := srv.store.GetGame("game-1"); ok {
		t.Fatal("failed provisioning left the game registered")
	}

	srv.persistGame = func(*Game) error { return nil }
	game, err := srv.CreateGame(testGameSpec())
	if err != nil {
		t.Fatalf("create game after rollback: %v", err)
	}
	if _, ok := srv.store.GetGame(game.ID); !ok {
		t.Fatal("game missing after successful provisioning")
	}
}

func TestBuzzFirstClaimWins(t *testing.T) {
	srv, game := newQuizServer(t)
	openRound(t, srv, game)

	var wg sync.WaitGroup
	winners := make(chan int, len(game.Participants))
	for _, participant := range game.Participants {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			if err := srv.Buzz(game.ID, id); err == nil {
				winners <- id
			}
		}(participant.ID)
	}
	wg.Wait()
	close(winners)

	var claimed []int
	for id := range winners {
		claimed = append(claimed, id)
	}
	if len(claimed) != 1 {
		t.Fatalf("expected exactly one successful buzz, got %d", len(claimed))
	}

	state := snapshotGame(t, srv, game.ID)
	if !state.BuzzersLocked {
		t.Fatal("buzzers must lock after a claim")
	}
	if state.BuzzPlayerID == nil || *state.BuzzPlayerID != claimed[0] {
		t.Fatalf("buzz holder mismatch: holder=%v winner=%d", state.BuzzPlayerID, claimed[0])
	}
	for _, participant := range state.Participants {
		locked := participant.ID == claimed[0]
		if participant.RoundLock != locked {
			t.Fatalf("participant %d round lock = %t, want %t", participant.ID, participant.RoundLock, locked)
		}
	}
}

func TestBuzzWhileLockedRejected(t *testing.T) {
	srv, game := newQuizServer(t)
	openRound(t, srv, game)

	if err := srv.Buzz(game.ID, game.Participants[0].ID); err != nil {
		t.Fatalf("first buzz: %v", err)
	}
	err := srv.Buzz(game.ID, game.Participants[1].ID)
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict for second buzz, got %v", err)
	}
	err = srv.Buzz(game.ID, 9999)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown participant, got %v", err)
	}
}

func TestRateAnswerCorrect(t *testing.T) {
	srv, game := newQuizServer(t)
	questionID := openRound(t, srv, game)
	winner := game.Participants[0]
	if err := srv.Buzz(game.ID, winner.ID); err != nil {
		t.Fatalf("buzz: %v", err)
	}

	if err := srv.RateAnswer(game.ID, ratingCorrect); err != nil {
		t.Fatalf("rate answer: %v", err)
	}

	state := snapshotGame(t, srv, game.ID)
	scored := state.Participants[0]
	if scored.Score != 100 {
		t.Fatalf("expected score 100, got %d", scored.Score)
	}
	question, _ := state.findQuestion(questionID)
	if !question.IsPlayed {
		t.Fatal("correct answer must retire the question")
	}
	if state.BuzzPlayerID != nil {
		t.Fatal("buzz holder must be cleared after rating")
	}
	if !state.BuzzersLocked {
		t.Fatal("rating alone must not reopen the buzzers")
	}
}

func TestRateAnswerWrongAppliesPenalty(t *testing.T) {
	srv, game := newQuizServer(t)
	openRound(t, srv, game)
	winner := game.Participants[0]
	if err := srv.Buzz(game.ID, winner.ID); err != nil {
		t.Fatalf("buzz: %v", err)
	}

	// Default loose factor is 0.5, so a wrong 100-point answer costs 50.
	if err := srv.RateAnswer(game.ID, ratingWrong); err != nil {
		t.Fatalf("rate answer: %v", err)
	}
	state := snapshotGame(t, srv, game.ID)
	if state.Participants[0].Score != -50 {
		t.Fatalf("expected score -50, got %d", state.Participants[0].Score)
	}
	if question := state.activeQuestion(); question == nil || question.IsPlayed {
		t.Fatal("wrong answer must leave the question in play")
	}
}

func TestRateAnswerSkipChangesNothing(t *testing.T) {
	srv, game := newQuizServer(t)
	openRound(t, srv, game)
	if err := srv.Buzz(game.ID, game.Participants[1].ID); err != nil {
		t.Fatalf("buzz: %v", err)
	}

	if err := srv.RateAnswer(game.ID, ratingSkip); err != nil {
		t.Fatalf("rate answer: %v", err)
	}
	state := snapshotGame(t, srv, game.ID)
	for _, participant := range state.Participants {
		if participant.Score != 0 {
			t.Fatalf("skip must not touch scores, participant %d has %d", participant.ID, participant.Score)
		}
	}
	if state.BuzzPlayerID != nil {
		t.Fatal("skip must clear the buzz holder")
	}
}

func TestRateAnswerWithoutHolder(t *testing.T) {
	srv, game := newQuizServer(t)
	openRound(t, srv, game)

	err := srv.RateAnswer(game.ID, ratingCorrect)
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict without a buzz holder, got %v", err)
	}

	if err := srv.Buzz(game.ID, game.Participants[0].ID); err != nil {
		t.Fatalf("buzz: %v", err)
	}
	err = srv.RateAnswer(game.ID, "maybe")
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict for unknown rating, got %v", err)
	}
}

func TestSelectQuestionRules(t *testing.T) {
	srv, game := newQuizServer(t)
	first := game.Tables[0].Columns[0].Questions[0].ID
	second := game.Tables[0].Columns[0].Questions[1].ID

	if err := srv.SelectQuestion(game.ID, first); err != nil {
		t.Fatalf("select first: %v", err)
	}
	// Selecting another question moves the single active marker.
	if err := srv.SelectQuestion(game.ID, second); err != nil {
		t.Fatalf("select second: %v", err)
	}
	state := snapshotGame(t, srv, game.ID)
	active := 0
	for _, column := range state.Tables[0].Columns {
		for _, question := range column.Questions {
			if question.IsActive {
				active++
			}
		}
	}
	if active != 1 {
		t.Fatalf("expected exactly one active question, got %d", active)
	}
	if state.View.ActiveQuestionID == nil || *state.View.ActiveQuestionID != second {
		t.Fatalf("active question id = %v, want %d", state.View.ActiveQuestionID, second)
	}
	if state.View.QuestionVisible || state.View.AnswerVisible {
		t.Fatal("a freshly selected question starts hidden")
	}

	if err := srv.SelectQuestion(game.ID, 9999); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	// Retire the second question, then try to bring it back.
	if err := srv.ExitQuestion(game.ID); err != nil {
		t.Fatalf("exit question: %v", err)
	}
	if err := srv.SelectQuestion(game.ID, second); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict selecting a played question, got %v", err)
	}
}

func TestVisibilityTogglesRequireQuestionPage(t *testing.T) {
	srv, game := newQuizServer(t)

	if err := srv.ToggleQuestionVisible(game.ID); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict on the board page, got %v", err)
	}
	if err := srv.ToggleAnswerVisible(game.ID); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict on the board page, got %v", err)
	}

	openRound(t, srv, game)
	if err := srv.ToggleQuestionVisible(game.ID); err != nil {
		t.Fatalf("toggle question: %v", err)
	}
	if err := srv.ToggleAnswerVisible(game.ID); err != nil {
		t.Fatalf("toggle answer: %v", err)
	}
	state := snapshotGame(t, srv, game.ID)
	if !state.View.QuestionVisible || !state.View.AnswerVisible {
		t.Fatal("toggles did not flip the visibility flags")
	}
}

func TestExitQuestionResetsRound(t *testing.T) {
	srv, game := newQuizServer(t)
	questionID := openRound(t, srv, game)
	third := game.Participants[2]
	if err := srv.Buzz(game.ID, third.ID); err != nil {
		t.Fatalf("buzz: %v", err)
	}

	if err := srv.ExitQuestion(game.ID); err != nil {
		t.Fatalf("exit question: %v", err)
	}

	state := snapshotGame(t, srv, game.ID)
	if state.View.Page != pageBoard {
		t.Fatalf("expected board page, got %q", state.View.Page)
	}
	if state.View.ActiveQuestionID != nil {
		t.Fatal("active question must be cleared")
	}
	if state.View.QuestionVisible || state.View.AnswerVisible {
		t.Fatal("visibility flags must reset on the board")
	}
	if state.BuzzersLocked {
		t.Fatal("buzzers must reopen")
	}
	if state.BuzzPlayerID != nil {
		t.Fatal("buzz holder must be cleared")
	}
	for _, participant := range state.Participants {
		if participant.RoundLock {
			t.Fatalf("participant %d still round-locked", participant.ID)
		}
	}
	question, _ := state.findQuestion(questionID)
	if !question.IsPlayed || question.IsActive {
		t.Fatalf("exited question flags: played=%t active=%t", question.IsPlayed, question.IsActive)
	}

	if err := srv.ExitQuestion(game.ID); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict with no active question, got %v", err)
	}
}

func TestToggleAllBuzzersReleasesHolder(t *testing.T) {
	srv, game := newQuizServer(t)
	openRound(t, srv, game)
	if err := srv.Buzz(game.ID, game.Participants[0].ID); err != nil {
		t.Fatalf("buzz: %v", err)
	}

	// Unlocking while a claim is held releases it.
	if err := srv.ToggleAllBuzzers(game.ID); err != nil {
		t.Fatalf("toggle all buzzers: %v", err)
	}
	state := snapshotGame(t, srv, game.ID)
	if state.BuzzersLocked {
		t.Fatal("buzzers should be unlocked")
	}
	if state.BuzzPlayerID != nil {
		t.Fatal("unlocking must release the buzz holder")
	}

	if err := srv.ToggleAllBuzzers(game.ID); err != nil {
		t.Fatalf("toggle all buzzers: %v", err)
	}
	if state := snapshotGame(t, srv, game.ID); !state.BuzzersLocked {
		t.Fatal("buzzers should be locked again")
	}
}

func TestToggleParticipantLock(t *testing.T) {
	srv, game := newQuizServer(t)
	target := game.Participants[1]

	if err := srv.ToggleParticipantLock(game.ID, target.ID); err != nil {
		t.Fatalf("toggle lock: %v", err)
	}
	state := snapshotGame(t, srv, game.ID)
	if !state.Participants[1].RoundLock {
		t.Fatal("participant should be locked")
	}

	// A locked player cannot claim even with the global lock open.
	openRound(t, srv, game)
	if err := srv.Buzz(game.ID, target.ID); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict for locked participant, got %v", err)
	}

	if err := srv.ToggleParticipantLock(game.ID, target.ID); err != nil {
		t.Fatalf("toggle lock: %v", err)
	}
	if state := snapshotGame(t, srv, game.ID); state.Participants[1].RoundLock {
		t.Fatal("participant should be unlocked again")
	}

	if err := srv.ToggleParticipantLock(game.ID, 9999); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestTimerZeroLocksBuzzers(t *testing.T) {
	srv, game := newQuizServer(t)
	openRound(t, srv, game)

	if err := srv.TimerUpdate(game.ID, 5); err != nil {
		t.Fatalf("timer update: %v", err)
	}
	if state := snapshotGame(t, srv, game.ID); state.BuzzersLocked {
		t.Fatal("a running timer must not lock buzzers")
	}

	if err := srv.TimerUpdate(game.ID, 0); err != nil {
		t.Fatalf("timer update: %v", err)
	}
	if state := snapshotGame(t, srv, game.ID); !state.BuzzersLocked {
		t.Fatal("timer expiry must lock buzzers")
	}

	if err := srv.TimerUpdate("game-404", 3); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
