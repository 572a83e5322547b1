package server

import (
	"net"
	"net/http"
	"net/http/httptest"
	"testing"

	"quizshow/internal/config"
)

func newTestServer(t *testing.T, handler http.Handler) *httptest.Server {
	t.Helper()
	listener, err := net.Listen("tcp4", "127.0.0.1:0")
	if err != nil {
		t.Skipf("skipping test; listen unavailable: %v", err)
	}
	ts := &httptest.Server{
		Listener: listener,
		Config:   &http.Server{Handler: handler},
	}
	ts.Start()
	return ts
}

// newQuizServer builds a memory-only server with one provisioned game:
// three players and a small two-column board.
func newQuizServer(t *testing.T) (*Server, *Game) {
	t.Helper()
	srv := New(nil, config.Default())
	game, err := srv.CreateGame(testGameSpec())
	if err != nil {
		t.Fatalf("create game: %v", err)
	}
	return srv, game
}

func testGameSpec() GameSpec {
	return GameSpec{
		Name:         "Friday Night",
		Participants: []string{"Ada", "Grace", "Edsger"},
		Tables: []TableSpec{{
			Name: "Round 1",
			Columns: []ColumnSpec{
				{Name: "Science", Questions: []QuestionSpec{
					{Question: "Closest star to Earth?", Answer: "The Sun", Points: 100},
					{Question: "Chemical symbol for gold?", Answer: "Au", Points: 200},
				}},
				{Name: "History", Questions: []QuestionSpec{
					{Question: "Year of the first moon landing?", Answer: "1969", Points: 100},
				}},
			},
		}},
	}
}

// snapshotGame copies the game under its lock so assertions never race the
// server's own goroutines.
func snapshotGame(t *testing.T, srv *Server, gameID string) Game {
	t.Helper()
	var snapshot Game
	err := srv.store.ViewGame(gameID, func(game *Game) error {
		snapshot = *game
		snapshot.Participants = append([]Participant(nil), game.Participants...)
		return nil
	})
	if err != nil {
		t.Fatalf("view game %s: %v", gameID, err)
	}
	return snapshot
}

func firstQuestionID(t *testing.T, game *Game) int {
	t.Helper()
	if len(game.Tables) == 0 || len(game.Tables[0].Columns) == 0 || len(game.Tables[0].Columns[0].Questions) == 0 {
		t.Fatal("test game has no questions")
	}
	return game.Tables[0].Columns[0].Questions[0].ID
}
