package server

import (
	"bytes"
	"context"

	"quizshow/internal/web"

	"github.com/a-h/templ"
)

func renderFragment(component templ.Component) string {
	var buf bytes.Buffer
	if err := component.Render(context.Background(), &buf); err != nil {
		return ""
	}
	return buf.String()
}

func buildBoardView(game *Game) (web.BoardView, bool) {
	table := game.currentTable()
	if table == nil {
		return web.BoardView{}, false
	}
	view := web.BoardView{Name: table.Name}
	for _, column := range table.Columns {
		columnView := web.BoardColumnView{Name: column.Name}
		for _, question := range column.Questions {
			columnView.Cells = append(columnView.Cells, web.QuestionCellView{
				ID:       question.ID,
				Points:   question.Points,
				IsPlayed: question.IsPlayed,
				IsActive: question.IsActive,
			})
		}
		view.Columns = append(view.Columns, columnView)
	}
	return view, true
}

func buildParticipantViews(game *Game) []web.ParticipantView {
	views := make([]web.ParticipantView, 0, len(game.Participants))
	for _, participant := range game.Participants {
		views = append(views, web.ParticipantView{
			ID:        participant.ID,
			Name:      participant.Name,
			Score:     participant.Score,
			RoundLock: participant.RoundLock,
			IsWinner:  game.BuzzPlayerID != nil && *game.BuzzPlayerID == participant.ID,
		})
	}
	return views
}

func renderBoardFragment(game *Game, clickable bool) string {
	view, ok := buildBoardView(game)
	if !ok {
		return renderFragment(web.EmptyBoard())
	}
	return renderFragment(web.Board(view, clickable))
}

func renderScoreFragments(game *Game) []string {
	frames := make([]string, 0, len(game.Participants))
	for _, participant := range game.Participants {
		frames = append(frames, renderFragment(web.Score(participant.ID, participant.Score)))
	}
	return frames
}
