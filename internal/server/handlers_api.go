package server

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
)

// apiHandler mounts the JSON API. Pages and websockets stay on the plain mux;
// only the REST surface runs through gin.
func (s *Server) apiHandler() http.Handler {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	api := router.Group("/api")
	api.POST("/games", s.handleImportGame)
	api.GET("/games/:gameID", s.handleGetGame)
	api.GET("/games/:gameID/keys", s.handleGetKeys)
	return router
}

func (s *Server) handleImportGame(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot read body"})
		return
	}
	spec, err := DecodeGameImport(body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	game, err := s.CreateGame(spec)
	if errors.Is(err, ErrConflict) {
		c.JSON(http.StatusConflict, gin.H{"error": "key collision, retry the import"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create game"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"gameId": game.ID})
}

type gameSnapshot struct {
	ID            string                `json:"id"`
	Name          string                `json:"name"`
	Page          string                `json:"page"`
	BuzzersLocked bool                  `json:"buzzers_locked"`
	BuzzPlayerID  *int                  `json:"buzz_player_id"`
	Participants  []participantSnapshot `json:"participants"`
	Tables        []tableSnapshot       `json:"tables"`
}

type participantSnapshot struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	Score     int    `json:"score"`
	RoundLock bool   `json:"round_lock"`
}

type tableSnapshot struct {
	ID      int              `json:"id"`
	Name    string           `json:"name"`
	Columns []columnSnapshot `json:"columns"`
}

type columnSnapshot struct {
	ID        int                `json:"id"`
	Name      string             `json:"name"`
	Questions []questionSnapshot `json:"questions"`
}

type questionSnapshot struct {
	ID       int  `json:"id"`
	Points   int  `json:"points"`
	IsPlayed bool `json:"is_played"`
	IsActive bool `json:"is_active"`
}

// handleGetGame returns the public game state. Question texts, answers and
// capability keys never appear here.
func (s *Server) handleGetGame(c *gin.Context) {
	var snapshot gameSnapshot
	err := s.store.ViewGame(c.Param("gameID"), func(game *Game) error {
		snapshot = buildGameSnapshot(game)
		return nil
	})
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "game not found"})
		return
	}
	c.JSON(http.StatusOK, snapshot)
}

type keysResponse struct {
	ModeratorKey string           `json:"moderator_key"`
	SpectatorKey string           `json:"spectator_key"`
	Participants []participantKey `json:"participants"`
}

type participantKey struct {
	ID         int    `json:"id"`
	Name       string `json:"name"`
	PrivateKey string `json:"private_key"`
}

func (s *Server) handleGetKeys(c *gin.Context) {
	var keys keysResponse
	err := s.store.ViewGame(c.Param("gameID"), func(game *Game) error {
		keys.ModeratorKey = game.ModeratorKey
		keys.SpectatorKey = game.SpectatorKey
		for _, participant := range game.Participants {
			keys.Participants = append(keys.Participants, participantKey{
				ID:         participant.ID,
				Name:       participant.Name,
				PrivateKey: participant.PrivateKey,
			})
		}
		return nil
	})
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "game not found"})
		return
	}
	c.JSON(http.StatusOK, keys)
}

func buildGameSnapshot(game *Game) gameSnapshot {
	snapshot := gameSnapshot{
		ID:            game.ID,
		Name:          game.Name,
		Page:          game.View.Page,
		BuzzersLocked: game.BuzzersLocked,
		BuzzPlayerID:  game.BuzzPlayerID,
	}
	for _, participant := range game.Participants {
		snapshot.Participants = append(snapshot.Participants, participantSnapshot{
			ID:        participant.ID,
			Name:      participant.Name,
			Score:     participant.Score,
			RoundLock: participant.RoundLock,
		})
	}
	for _, table := range game.Tables {
		tableSnap := tableSnapshot{ID: table.ID, Name: table.Name}
		for _, column := range table.Columns {
			columnSnap := columnSnapshot{ID: column.ID, Name: column.Name}
			for _, question := range column.Questions {
				columnSnap.Questions = append(columnSnap.Questions, questionSnapshot{
					ID:       question.ID,
					Points:   question.Points,
					IsPlayed: question.IsPlayed,
					IsActive: question.IsActive,
				})
			}
			tableSnap.Columns = append(tableSnap.Columns, columnSnap)
		}
		snapshot.Tables = append(snapshot.Tables, tableSnap)
	}
	return snapshot
}
