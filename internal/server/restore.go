package server

import (
	"fmt"
	"log"

	"quizshow/internal/db"
)

// RestoreGames loads every persisted game into the live registry. Called once
// at boot, before the listener starts accepting connections.
func (s *Server) RestoreGames() error {
	if s.db == nil {
		return nil
	}
	var rows []db.Game
	err := s.db.
		Preload("Participants").
		Preload("Tables.Columns.Questions.Question").
		Preload("View").
		Find(&rows).Error
	if err != nil {
		return fmt.Errorf("load games: %w", err)
	}
	for i := range rows {
		game := restoreGame(&rows[i])
		if err := s.store.RestoreGame(game); err != nil {
			log.Printf("restore skipped game_id=%s error=%v", game.ID, err)
			continue
		}
		log.Printf("game restored game_id=%s name=%s participants=%d tables=%d",
			game.ID, game.Name, len(game.Participants), len(game.Tables))
	}
	return nil
}

// restoreGame rebuilds the live shape from a persisted row tree. Restored
// entities reuse their row ids as live ids, which keeps the foreign keys in
// the view and buzz columns directly translatable.
func restoreGame(row *db.Game) *Game {
	game := &Game{
		ID:            fmt.Sprintf("game-%d", row.ID),
		DBID:          row.ID,
		Name:          row.Name,
		ModeratorKey:  row.ModeratorKey,
		SpectatorKey:  row.SpectatorKey,
		BuzzersLocked: row.BuzzersLocked,
		View: CurrentView{
			Page:            row.View.Page,
			QuestionVisible: row.View.QuestionVisible,
			AnswerVisible:   row.View.AnswerVisible,
		},
	}
	if game.View.Page == "" {
		game.View.Page = pageBoard
	}
	if row.BuzzPlayerID != nil {
		id := int(*row.BuzzPlayerID)
		game.BuzzPlayerID = &id
	}
	if row.View.ActiveQuestionID != nil {
		id := int(*row.View.ActiveQuestionID)
		game.View.ActiveQuestionID = &id
	}
	if row.View.ActiveTableID != nil {
		id := int(*row.View.ActiveTableID)
		game.View.ActiveTableID = &id
	}
	for _, participant := range row.Participants {
		game.Participants = append(game.Participants, Participant{
			ID:         int(participant.ID),
			DBID:       participant.ID,
			Name:       participant.Name,
			Score:      participant.Score,
			RoundLock:  participant.RoundLock,
			PrivateKey: participant.PrivateKey,
		})
	}
	for _, tableRow := range row.Tables {
		table := BoardTable{ID: int(tableRow.ID), DBID: tableRow.ID, Name: tableRow.Name}
		for _, columnRow := range tableRow.Columns {
			column := BoardColumn{ID: int(columnRow.ID), DBID: columnRow.ID, Name: columnRow.Name}
			for _, questionRow := range columnRow.Questions {
				column.Questions = append(column.Questions, BoardQuestion{
					ID:       int(questionRow.ID),
					DBID:     questionRow.ID,
					Text:     questionRow.Question.Text,
					Answer:   questionRow.Question.Answer,
					Points:   questionRow.Points,
					IsPlayed: questionRow.IsPlayed,
					IsActive: questionRow.IsActive,
				})
			}
			table.Columns = append(table.Columns, column)
		}
		game.Tables = append(game.Tables, table)
	}
	return game
}
