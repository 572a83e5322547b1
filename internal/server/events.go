package server

// EventPayload rides along with a broadcast topic and doubles as the payload
// of persisted audit events. Topics carry what changed, never the new state:
// recipients always re-render from the registry.
type EventPayload struct {
	GameID        string `json:"game_id,omitempty"`
	UserID        string `json:"user_id,omitempty"`
	ParticipantID int    `json:"participant_id,omitempty"`
	QuestionID    int    `json:"question_id,omitempty"`
	Value         string `json:"value,omitempty"`
	Count         int    `json:"count"`
}
