package db

import (
	"time"

	"gorm.io/datatypes"
)

type Game struct {
	ID            uint   `gorm:"primaryKey"`
	Name          string `gorm:"size:100;not null"`
	ModeratorKey  string `gorm:"size:128;uniqueIndex;not null"`
	SpectatorKey  string `gorm:"size:128;uniqueIndex;not null"`
	BuzzersLocked bool   `gorm:"not null;default:false"`
	BuzzPlayerID  *uint
	CreatedAt     time.Time `gorm:"not null"`
	UpdatedAt     time.Time `gorm:"not null"`
	Participants  []Participant
	Tables        []BoardTable `gorm:"many2many:game_tables"`
	View          CurrentView
	Events        []Event
}

type Participant struct {
	ID         uint   `gorm:"primaryKey"`
	GameID     uint   `gorm:"index;not null"`
	Name       string `gorm:"size:100;not null"`
	Score      int    `gorm:"not null;default:0"`
	RoundLock  bool   `gorm:"not null;default:false"`
	PrivateKey string `gorm:"size:128;uniqueIndex;not null"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

type Question struct {
	ID     uint   `gorm:"primaryKey"`
	Text   string `gorm:"size:280;not null"`
	Answer string `gorm:"size:280;not null"`
}

// BoardQuestion places a question on the board with a point value.
// IsPlayed is terminal: once set it never reverts.
type BoardQuestion struct {
	ID         uint `gorm:"primaryKey"`
	QuestionID uint `gorm:"index;not null"`
	Question   Question
	Points     int  `gorm:"not null"`
	IsPlayed   bool `gorm:"not null;default:false"`
	IsActive   bool `gorm:"not null;default:false"`
}

type BoardColumn struct {
	ID        uint            `gorm:"primaryKey"`
	Name      string          `gorm:"size:100;not null"`
	Questions []BoardQuestion `gorm:"many2many:column_questions"`
}

type BoardTable struct {
	ID      uint          `gorm:"primaryKey"`
	Name    string        `gorm:"size:100;not null"`
	Columns []BoardColumn `gorm:"many2many:table_columns"`
}

type CurrentView struct {
	ID               uint   `gorm:"primaryKey"`
	GameID           uint   `gorm:"uniqueIndex;not null"`
	Page             string `gorm:"size:32;not null"`
	QuestionVisible  bool   `gorm:"not null;default:false"`
	AnswerVisible    bool   `gorm:"not null;default:false"`
	ActiveQuestionID *uint
	ActiveTableID    *uint
	UpdatedAt        time.Time `gorm:"not null"`
}

type Event struct {
	ID        uint           `gorm:"primaryKey"`
	GameID    uint           `gorm:"index;not null"`
	Type      string         `gorm:"size:64;not null"`
	Payload   datatypes.JSON `gorm:"type:jsonb;not null"`
	CreatedAt time.Time      `gorm:"not null"`
}
