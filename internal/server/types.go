package server

const (
	pageBoard    = "board"
	pageQuestion = "question"
)

const (
	topicViewUpdate   = "view_update"
	topicBuzzUpdate   = "buzz_update"
	topicScoreUpdate  = "score_update"
	topicAnswerUpdate = "answer_text_update"
	topicTimerUpdate  = "timer_update"
	topicUserEntered  = "user_entered"
	topicUserLeft     = "user_left"
)

const (
	roleModerator = "moderator"
	rolePlayer    = "player"
	roleSpectator = "spectator"
)

const (
	ratingCorrect = "true"
	ratingWrong   = "false"
	ratingSkip    = "skip"
)

type Game struct {
	ID            string
	DBID          uint
	Name          string
	ModeratorKey  string
	SpectatorKey  string
	BuzzersLocked bool
	BuzzPlayerID  *int
	View          CurrentView
	Participants  []Participant
	Tables        []BoardTable
}

type Participant struct {
	ID         int
	DBID       uint
	Name       string
	Score      int
	RoundLock  bool
	PrivateKey string
}

// CurrentView is the single visual state shared by every client of a game.
type CurrentView struct {
	Page             string
	QuestionVisible  bool
	AnswerVisible    bool
	ActiveQuestionID *int
	ActiveTableID    *int
}

type BoardTable struct {
	ID      int
	DBID    uint
	Name    string
	Columns []BoardColumn
}

type BoardColumn struct {
	ID        int
	DBID      uint
	Name      string
	Questions []BoardQuestion
}

// BoardQuestion is one cell on the board. IsPlayed is terminal: a played
// question can never be selected again.
type BoardQuestion struct {
	ID       int
	DBID     uint
	Text     string
	Answer   string
	Points   int
	IsPlayed bool
	IsActive bool
}

func (g *Game) findParticipant(id int) *Participant {
	for i := range g.Participants {
		if g.Participants[i].ID == id {
			return &g.Participants[i]
		}
	}
	return nil
}

func (g *Game) findQuestion(id int) (*BoardQuestion, *BoardTable) {
	for t := range g.Tables {
		table := &g.Tables[t]
		for c := range table.Columns {
			for q := range table.Columns[c].Questions {
				if table.Columns[c].Questions[q].ID == id {
					return &table.Columns[c].Questions[q], table
				}
			}
		}
	}
	return nil, nil
}

func (g *Game) activeQuestion() *BoardQuestion {
	if g.View.ActiveQuestionID == nil {
		return nil
	}
	question, _ := g.findQuestion(*g.View.ActiveQuestionID)
	return question
}

func (g *Game) findTable(id int) *BoardTable {
	for i := range g.Tables {
		if g.Tables[i].ID == id {
			return &g.Tables[i]
		}
	}
	return nil
}

// currentTable picks the table the view points at, falling back to the first
// table so a freshly provisioned game has a board to show.
func (g *Game) currentTable() *BoardTable {
	if g.View.ActiveTableID != nil {
		if table := g.findTable(*g.View.ActiveTableID); table != nil {
			return table
		}
	}
	if len(g.Tables) > 0 {
		return &g.Tables[0]
	}
	return nil
}
