package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"quizshow/internal/db"

	"github.com/jackc/pgconn"
	"gorm.io/datatypes"
)

// The persistence layer mirrors live state into Postgres so a restarted
// server can pick games back up. Every write happens outside the per-game
// critical section; snapshots are taken under ViewGame first. With no
// database configured the server runs purely in memory and every persist
// call is a no-op.

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// persistProvisionedGame writes the full game tree in one transaction and
// copies the assigned row ids back into the live game.
func (s *Server) persistProvisionedGame(game *Game) error {
	if s.db == nil {
		return nil
	}
	row := db.Game{
		Name:          game.Name,
		ModeratorKey:  game.ModeratorKey,
		SpectatorKey:  game.SpectatorKey,
		BuzzersLocked: game.BuzzersLocked,
		View:          db.CurrentView{Page: game.View.Page},
	}
	for _, participant := range game.Participants {
		row.Participants = append(row.Participants, db.Participant{
			Name:       participant.Name,
			Score:      participant.Score,
			RoundLock:  participant.RoundLock,
			PrivateKey: participant.PrivateKey,
		})
	}
	for _, table := range game.Tables {
		tableRow := db.BoardTable{Name: table.Name}
		for _, column := range table.Columns {
			columnRow := db.BoardColumn{Name: column.Name}
			for _, question := range column.Questions {
				columnRow.Questions = append(columnRow.Questions, db.BoardQuestion{
					Question: db.Question{Text: question.Text, Answer: question.Answer},
					Points:   question.Points,
				})
			}
			tableRow.Columns = append(tableRow.Columns, columnRow)
		}
		row.Tables = append(row.Tables, tableRow)
	}
	if err := s.db.Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: capability key collision", ErrConflict)
		}
		return err
	}

	// Row ids land back on the live game under its lock; the transaction is
	// already committed by now.
	_, err := s.store.UpdateGame(game.ID, func(live *Game) error {
		live.DBID = row.ID
		for i := range live.Participants {
			if i < len(row.Participants) {
				live.Participants[i].DBID = row.Participants[i].ID
			}
		}
		for t := range live.Tables {
			if t >= len(row.Tables) {
				break
			}
			live.Tables[t].DBID = row.Tables[t].ID
			for c := range live.Tables[t].Columns {
				if c >= len(row.Tables[t].Columns) {
					break
				}
				live.Tables[t].Columns[c].DBID = row.Tables[t].Columns[c].ID
				for q := range live.Tables[t].Columns[c].Questions {
					if q >= len(row.Tables[t].Columns[c].Questions) {
						break
					}
					live.Tables[t].Columns[c].Questions[q].DBID = row.Tables[t].Columns[c].Questions[q].ID
				}
			}
		}
		return nil
	})
	return err
}

// persistBuzzState snapshots the buzz flags under the game lock, then writes
// them. The holder is stored as the participant's row id.
func (s *Server) persistBuzzState(game *Game) {
	if s.db == nil || game.DBID == 0 {
		return
	}
	var (
		locked bool
		holder *uint
	)
	if err := s.store.ViewGame(game.ID, func(live *Game) error {
		locked = live.BuzzersLocked
		if live.BuzzPlayerID != nil {
			if participant := live.findParticipant(*live.BuzzPlayerID); participant != nil && participant.DBID != 0 {
				id := participant.DBID
				holder = &id
			}
		}
		return nil
	}); err != nil {
		return
	}
	err := s.db.Model(&db.Game{}).Where("id = ?", game.DBID).
		Updates(map[string]any{"buzzers_locked": locked, "buzz_player_id": holder}).Error
	if err != nil {
		log.Printf("persist buzz state failed game_id=%s error=%v", game.ID, err)
	}
}

func (s *Server) persistParticipant(game *Game, participant Participant) {
	if s.db == nil || participant.DBID == 0 {
		return
	}
	err := s.db.Model(&db.Participant{}).Where("id = ?", participant.DBID).
		Updates(map[string]any{"score": participant.Score, "round_lock": participant.RoundLock}).Error
	if err != nil {
		log.Printf("persist participant failed game_id=%s participant_id=%d error=%v", game.ID, participant.ID, err)
	}
}

func (s *Server) persistView(game *Game) {
	if s.db == nil || game.DBID == 0 {
		return
	}
	var (
		view       CurrentView
		questionID *uint
		tableID    *uint
	)
	if err := s.store.ViewGame(game.ID, func(live *Game) error {
		view = live.View
		if question := live.activeQuestion(); question != nil && question.DBID != 0 {
			id := question.DBID
			questionID = &id
		}
		if live.View.ActiveTableID != nil {
			if table := live.findTable(*live.View.ActiveTableID); table != nil && table.DBID != 0 {
				id := table.DBID
				tableID = &id
			}
		}
		return nil
	}); err != nil {
		return
	}
	err := s.db.Model(&db.CurrentView{}).Where("game_id = ?", game.DBID).
		Updates(map[string]any{
			"page":               view.Page,
			"question_visible":   view.QuestionVisible,
			"answer_visible":     view.AnswerVisible,
			"active_question_id": questionID,
			"active_table_id":    tableID,
		}).Error
	if err != nil {
		log.Printf("persist view failed game_id=%s error=%v", game.ID, err)
	}
}

func (s *Server) persistQuestionFlags(game *Game, question BoardQuestion) {
	if s.db == nil || question.DBID == 0 {
		return
	}
	err := s.db.Model(&db.BoardQuestion{}).Where("id = ?", question.DBID).
		Updates(map[string]any{"is_played": question.IsPlayed, "is_active": question.IsActive}).Error
	if err != nil {
		log.Printf("persist question failed game_id=%s question_id=%d error=%v", game.ID, question.ID, err)
	}
}

// persistEvent appends to the game's audit trail. Events are write-only from
// the server's point of view; losing one is logged but never fails the
// command that produced it.
func (s *Server) persistEvent(game *Game, eventType string, payload EventPayload) {
	if s.db == nil || game.DBID == 0 {
		return
	}
	payload.GameID = game.ID
	data, err := json.Marshal(payload)
	if err != nil {
		return
	}
	row := db.Event{GameID: game.DBID, Type: eventType, Payload: datatypes.JSON(data)}
	if err := s.db.Create(&row).Error; err != nil {
		log.Printf("persist event failed game_id=%s type=%s error=%v", game.ID, eventType, err)
	}
}
