package server

import (
	"errors"
	"fmt"
	"sync"
)

var (
	// ErrNotFound means a key or id resolved to nothing.
	ErrNotFound = errors.New("not found")
	// ErrConflict means the mutation would violate a state invariant,
	// e.g. buzzing while buzzers are locked. Losing a race is normal
	// traffic, so the protocol boundary swallows it.
	ErrConflict = errors.New("conflict")
)

// GameSpec describes a game to provision. Tables may be empty; the admin
// bootstrap path creates board-less games for manual play.
type GameSpec struct {
	Name         string
	Participants []string
	Tables       []TableSpec
}

type TableSpec struct {
	Name    string
	Columns []ColumnSpec
}

type ColumnSpec struct {
	Name      string
	Questions []QuestionSpec
}

type QuestionSpec struct {
	Question string
	Answer   string
	Points   int
}

// Store is the in-memory registry of running games. Every mutation goes
// through UpdateGame, which serializes access per game via a lazily created
// lock table; this is what makes the buzz check-and-set atomic.
type Store struct {
	mu                sync.Mutex
	nextID            int
	nextParticipantID int
	nextItemID        int
	keyLength         int
	games             map[string]*Game
	locks             map[string]*sync.Mutex
}

func NewStore(keyLength int) *Store {
	return &Store{
		nextID:            1,
		nextParticipantID: 1,
		nextItemID:        1,
		keyLength:         keyLength,
		games:             make(map[string]*Game),
		locks:             make(map[string]*sync.Mutex),
	}
}

func (s *Store) CreateGame(spec GameSpec) *Game {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := fmt.Sprintf("game-%d", s.nextID)
	s.nextID++
	game := &Game{
		ID:           id,
		Name:         spec.Name,
		ModeratorKey: newCapabilityKey(s.keyLength),
		SpectatorKey: newCapabilityKey(s.keyLength),
		View:         CurrentView{Page: pageBoard},
	}
	for _, name := range spec.Participants {
		game.Participants = append(game.Participants, Participant{
			ID:         s.nextParticipantID,
			Name:       name,
			PrivateKey: newCapabilityKey(s.keyLength),
		})
		s.nextParticipantID++
	}
	for _, tableSpec := range spec.Tables {
		table := BoardTable{ID: s.nextItemID, Name: tableSpec.Name}
		s.nextItemID++
		for _, columnSpec := range tableSpec.Columns {
			column := BoardColumn{ID: s.nextItemID, Name: columnSpec.Name}
			s.nextItemID++
			for _, questionSpec := range columnSpec.Questions {
				column.Questions = append(column.Questions, BoardQuestion{
					ID:     s.nextItemID,
					Text:   questionSpec.Question,
					Answer: questionSpec.Answer,
					Points: questionSpec.Points,
				})
				s.nextItemID++
			}
			table.Columns = append(table.Columns, column)
		}
		game.Tables = append(game.Tables, table)
	}
	s.games[id] = game
	return game
}

// RestoreGame registers a game loaded from the backing store, keeping the id
// counters ahead of everything already assigned.
func (s *Store) RestoreGame(game *Game) error {
	if game == nil {
		return errors.New("game is nil")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.games[game.ID]; ok {
		return errors.New("game already running")
	}
	s.games[game.ID] = game
	if id := gameSortKey(game.ID); id >= s.nextID {
		s.nextID = id + 1
	}
	for _, participant := range game.Participants {
		if participant.ID >= s.nextParticipantID {
			s.nextParticipantID = participant.ID + 1
		}
	}
	for _, table := range game.Tables {
		s.bumpItemID(table.ID)
		for _, column := range table.Columns {
			s.bumpItemID(column.ID)
			for _, question := range column.Questions {
				s.bumpItemID(question.ID)
			}
		}
	}
	return nil
}

func (s *Store) bumpItemID(id int) {
	if id >= s.nextItemID {
		s.nextItemID = id + 1
	}
}

// RemoveGame unregisters a game and its lock, e.g. when provisioning fails
// after the registry entry was created. Removing an absent id is a no-op.
func (s *Store) RemoveGame(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.games, id)
	delete(s.locks, id)
}

func (s *Store) GetGame(id string) (*Game, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	game, ok := s.games[id]
	return game, ok
}

// lockFor returns the per-game lock, creating it on first use. Locks live as
// long as the game entry itself.
func (s *Store) lockFor(id string) (*sync.Mutex, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.games[id]; !ok {
		return nil, false
	}
	lock := s.locks[id]
	if lock == nil {
		lock = &sync.Mutex{}
		s.locks[id] = lock
	}
	return lock, true
}

// UpdateGame runs update inside the game's critical section. A non-nil error
// from update leaves no trace in the registry contract: callers must not
// mutate state before deciding to fail.
func (s *Store) UpdateGame(id string, update func(game *Game) error) (*Game, error) {
	lock, ok := s.lockFor(id)
	if !ok {
		return nil, ErrNotFound
	}
	lock.Lock()
	defer lock.Unlock()
	s.mu.Lock()
	game := s.games[id]
	s.mu.Unlock()
	if game == nil {
		return nil, ErrNotFound
	}
	if err := update(game); err != nil {
		return nil, err
	}
	return game, nil
}

// ViewGame runs view under the same per-game lock as UpdateGame so readers
// never observe a half-applied mutation.
func (s *Store) ViewGame(id string, view func(game *Game) error) error {
	lock, ok := s.lockFor(id)
	if !ok {
		return ErrNotFound
	}
	lock.Lock()
	defer lock.Unlock()
	s.mu.Lock()
	game := s.games[id]
	s.mu.Unlock()
	if game == nil {
		return ErrNotFound
	}
	return view(game)
}

func (s *Store) FindGameByModeratorKey(key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, game := range s.games {
		if key != "" && game.ModeratorKey == key {
			return game.ID, nil
		}
	}
	return "", ErrNotFound
}

func (s *Store) FindGameBySpectatorKey(key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, game := range s.games {
		if key != "" && game.SpectatorKey == key {
			return game.ID, nil
		}
	}
	return "", ErrNotFound
}

// FindParticipantByKey resolves a player's private capability key to the game
// and participant it belongs to.
func (s *Store) FindParticipantByKey(key string) (string, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if key == "" {
		return "", 0, ErrNotFound
	}
	for _, game := range s.games {
		for i := range game.Participants {
			if game.Participants[i].PrivateKey == key {
				return game.ID, game.Participants[i].ID, nil
			}
		}
	}
	return "", 0, ErrNotFound
}

func gameSortKey(id string) int {
	var value int
	if _, err := fmt.Sscanf(id, "game-%d", &value); err != nil {
		return 0
	}
	return value
}
