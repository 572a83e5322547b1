package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"quizshow/internal/config"
)

func postGame(t *testing.T, baseURL, doc string) (int, map[string]any) {
	t.Helper()
	resp, err := http.Post(baseURL+"/api/games", "application/json", bytes.NewReader([]byte(doc)))
	if err != nil {
		t.Fatalf("post game: %v", err)
	}
	defer resp.Body.Close()
	var body map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return resp.StatusCode, body
}

func TestImportGameEndpoint(t *testing.T) {
	srv := New(nil, config.Default())
	ts := newTestServer(t, srv.Handler())
	t.Cleanup(ts.Close)

	status, body := postGame(t, ts.URL, `{
		"name": "API Game",
		"participants": [{"name": "Ada"}, {"name": "Grace"}],
		"tables": [{"name": "Round 1", "columns": [{"name": "Science", "questions": [
			{"question": "Closest star?", "answer": "The Sun", "points": 100}
		]}]}]
	}`)
	if status != http.StatusCreated {
		t.Fatalf("expected 201, got %d (%v)", status, body)
	}
	gameID, ok := body["gameId"].(string)
	if !ok || gameID == "" {
		t.Fatalf("missing gameId in %v", body)
	}

	resp, err := http.Get(ts.URL + "/api/games/" + gameID)
	if err != nil {
		t.Fatalf("get game: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var snapshot gameSnapshot
	if err := json.NewDecoder(resp.Body).Decode(&snapshot); err != nil {
		t.Fatalf("decode snapshot: %v", err)
	}
	if snapshot.Name != "API Game" || snapshot.Page != pageBoard {
		t.Fatalf("unexpected snapshot header: %+v", snapshot)
	}
	if len(snapshot.Participants) != 2 || len(snapshot.Tables) != 1 {
		t.Fatalf("unexpected snapshot shape: %+v", snapshot)
	}
}

func TestImportGameRejectsInvalidDocument(t *testing.T) {
	srv := New(nil, config.Default())
	ts := newTestServer(t, srv.Handler())
	t.Cleanup(ts.Close)

	// One broken question rejects the whole document.
	status, body := postGame(t, ts.URL, `{
		"name": "Broken",
		"participants": [{"name": "Ada"}],
		"tables": [{"name": "R", "columns": [{"name": "C", "questions": [
			{"question": "Fine?", "answer": "Yes", "points": 100},
			{"question": "Broken?", "answer": "No points"}
		]}]}]
	}`)
	if status != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", status)
	}
	if _, ok := body["error"]; !ok {
		t.Fatalf("expected error field in %v", body)
	}

	resp, err := http.Get(ts.URL + "/api/games/game-1")
	if err != nil {
		t.Fatalf("get game: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("rejected import must create nothing, got %d", resp.StatusCode)
	}
}

func TestGameKeysEndpoint(t *testing.T) {
	srv := New(nil, config.Default())
	ts := newTestServer(t, srv.Handler())
	t.Cleanup(ts.Close)

	game, err := srv.CreateGame(testGameSpec())
	if err != nil {
		t.Fatalf("create game: %v", err)
	}

	resp, err := http.Get(ts.URL + "/api/games/" + game.ID + "/keys")
	if err != nil {
		t.Fatalf("get keys: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var keys keysResponse
	if err := json.NewDecoder(resp.Body).Decode(&keys); err != nil {
		t.Fatalf("decode keys: %v", err)
	}
	if keys.ModeratorKey != game.ModeratorKey || keys.SpectatorKey != game.SpectatorKey {
		t.Fatal("key mismatch")
	}
	if len(keys.Participants) != len(game.Participants) {
		t.Fatalf("expected %d participant keys, got %d", len(game.Participants), len(keys.Participants))
	}

	resp, err = http.Get(ts.URL + "/api/games/game-404/keys")
	if err != nil {
		t.Fatalf("get keys: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}

func TestSnapshotHidesSecrets(t *testing.T) {
	srv := New(nil, config.Default())
	ts := newTestServer(t, srv.Handler())
	t.Cleanup(ts.Close)

	game, err := srv.CreateGame(testGameSpec())
	if err != nil {
		t.Fatalf("create game: %v", err)
	}

	resp, err := http.Get(ts.URL + "/api/games/" + game.ID)
	if err != nil {
		t.Fatalf("get game: %v", err)
	}
	defer resp.Body.Close()
	var raw bytes.Buffer
	if _, err := raw.ReadFrom(resp.Body); err != nil {
		t.Fatalf("read body: %v", err)
	}
	body := raw.String()
	for _, secret := range []string{game.ModeratorKey, game.SpectatorKey, "The Sun", "Closest star"} {
		if strings.Contains(body, secret) {
			t.Fatalf("snapshot leaked %q", secret)
		}
	}
}
