package web

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

// Fragments are pushed over the websocket as standalone text frames. Each
// carries a stable wrapper id so the client swaps it in place; the server
// re-renders whole fragments instead of diffing.

func LoginPrompt(role string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, `<div id="view_wrap">
  <form id="login_form" class="login" data-role="`+escape(role)+`">
    <h2>Enter your game code</h2>
    <input name="gameCode" placeholder="Game code" autocomplete="off" required/>
    <button type="submit" class="primary">Join</button>
  </form>
</div>
`)
		return err
	})
}

func Board(view BoardView, clickable bool) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		write := func(s string) error {
			_, err := io.WriteString(w, s)
			return err
		}
		if err := write(`<div id="view_wrap">
  <div class="board" data-clickable="` + boolAttr(clickable) + `">
    <h2 class="board-name">` + escape(view.Name) + `</h2>
    <div class="board-columns">
`); err != nil {
			return err
		}
		for _, column := range view.Columns {
			if err := write(`      <div class="board-column">
        <div class="column-name">` + escape(column.Name) + `</div>
`); err != nil {
				return err
			}
			for _, cell := range column.Cells {
				classes := "cell"
				if cell.IsPlayed {
					classes += " played"
				}
				if cell.IsActive {
					classes += " active"
				}
				if err := write(`        <button class="` + classes + `" data-question-id="` + itoa(cell.ID) + `"` + disabledAttr(cell.IsPlayed || !clickable) + `>` + itoa(cell.Points) + `</button>
`); err != nil {
					return err
				}
			}
			if err := write("      </div>\n"); err != nil {
				return err
			}
		}
		return write(`    </div>
  </div>
</div>
`)
	})
}

func EmptyBoard() templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, `<div id="view_wrap"><div class="board empty">No board configured for this game.</div></div>
`)
		return err
	})
}

// QuestionPanel is the shell for the question page; the inner wraps are
// filled by separate fragment pushes so each topic can refresh just its own
// region.
func QuestionPanel(role string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var err error
		switch role {
		case "moderator":
			_, err = io.WriteString(w, `<div id="view_wrap" class="question-page moderator">
  <div id="question_text_wrap"></div>
  <div id="answer_wrap"></div>
  <div id="timer_wrap"></div>
  <div id="buzz_panel_wrap"></div>
  <div id="rate_answer_wrap"></div>
  <button id="start_timer" class="secondary">Start timer</button>
  <button id="exit_question" class="secondary">Back to board</button>
</div>
`)
		case "player":
			_, err = io.WriteString(w, `<div id="view_wrap" class="question-page player">
  <div id="question_text_wrap"></div>
  <div id="buzzer_wrap"></div>
  <div id="answer_wrap"></div>
  <div id="timer_wrap"></div>
</div>
`)
		default:
			_, err = io.WriteString(w, `<div id="view_wrap" class="question-page spectator">
  <div id="question_text_wrap"></div>
  <div id="answer_wrap"></div>
  <div id="timer_wrap"></div>
</div>
`)
		}
		return err
	})
}

func QuestionText(text string, visible bool) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if !visible {
			_, err := io.WriteString(w, `<div id="question_text_wrap" class="hidden"></div>
`)
			return err
		}
		_, err := io.WriteString(w, `<div id="question_text_wrap"><p class="question-text">`+escape(text)+`</p></div>
`)
		return err
	})
}

func AnswerWrap(text string, visible bool) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if !visible {
			_, err := io.WriteString(w, `<div id="answer_wrap" class="hidden"></div>
`)
			return err
		}
		_, err := io.WriteString(w, `<div id="answer_wrap"><p class="answer-text">`+escape(text)+`</p></div>
`)
		return err
	})
}

// ModeratorAnswer always shows the answer text; the flag only marks whether
// players can currently see it.
func ModeratorAnswer(text string, visible bool) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		state := "hidden from players"
		if visible {
			state = "shown to players"
		}
		_, err := io.WriteString(w, `<div id="answer_wrap"><p class="answer-text">`+escape(text)+`</p><span class="answer-state">`+state+`</span></div>
`)
		return err
	})
}

func Buzzer(disabled bool) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, `<div id="buzzer_wrap"><button id="buzzer" class="buzzer"`+disabledAttr(disabled)+`>Buzz</button></div>
`)
		return err
	})
}

func BuzzPanel(participants []ParticipantView, buzzersLocked bool) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		write := func(s string) error {
			_, err := io.WriteString(w, s)
			return err
		}
		lockLabel := "Unlock all"
		if !buzzersLocked {
			lockLabel = "Lock all"
		}
		if err := write(`<div id="buzz_panel_wrap">
  <button id="toggle_all_buzzers" class="secondary">` + lockLabel + `</button>
  <ul class="buzz-list">
`); err != nil {
			return err
		}
		for _, participant := range participants {
			classes := "buzz-entry"
			if participant.RoundLock {
				classes += " locked"
			}
			if participant.IsWinner {
				classes += " winner"
			}
			if err := write(`    <li class="` + classes + `" data-player-id="` + itoa(participant.ID) + `">` + escape(participant.Name) + `</li>
`); err != nil {
				return err
			}
		}
		return write(`  </ul>
</div>
`)
	})
}

// RateAnswerPanel renders the true/false/skip controls only while a buzz is
// held; otherwise the wrap is emptied in place.
func RateAnswerPanel(active bool) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if !active {
			_, err := io.WriteString(w, `<div id="rate_answer_wrap"></div>
`)
			return err
		}
		_, err := io.WriteString(w, `<div id="rate_answer_wrap">
  <button data-rate="true" class="rate correct">Correct</button>
  <button data-rate="false" class="rate wrong">Wrong</button>
  <button data-rate="skip" class="rate skip">Skip</button>
</div>
`)
		return err
	})
}

func ScoreSetup(participants []ParticipantView) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		write := func(s string) error {
			_, err := io.WriteString(w, s)
			return err
		}
		if err := write(`<div id="score_setup_wrap">
  <ul class="scores">
`); err != nil {
			return err
		}
		for _, participant := range participants {
			if err := write(`    <li class="score-entry">` + escape(participant.Name) + `: <span id="score_` + itoa(participant.ID) + `">` + itoa(participant.Score) + `</span></li>
`); err != nil {
				return err
			}
		}
		return write(`  </ul>
</div>
`)
	})
}

func Score(id int, score int) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, `<span id="score_`+itoa(id)+`">`+itoa(score)+`</span>
`)
		return err
	})
}

func Timer(count int) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, `<div id="timer_wrap"><span class="timer">`+itoa(count)+`</span></div>
`)
		return err
	})
}

func boolAttr(value bool) string {
	if value {
		return "true"
	}
	return "false"
}

func disabledAttr(disabled bool) string {
	if disabled {
		return " disabled"
	}
	return ""
}
