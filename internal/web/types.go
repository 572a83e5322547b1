package web

type BoardView struct {
	Name    string
	Columns []BoardColumnView
}

type BoardColumnView struct {
	Name  string
	Cells []QuestionCellView
}

type QuestionCellView struct {
	ID       int
	Points   int
	IsPlayed bool
	IsActive bool
}

type ParticipantView struct {
	ID        int
	Name      string
	Score     int
	RoundLock bool
	IsWinner  bool
}
