package game

import (
	"fmt"
	"slices"
	"time"

	"github.com/watergate-game/watergate-server-go/internal/game/cards"
	"github.com/watergate-game/watergate-server-go/internal/game/track"
)

// TokenView is the observable state of one token.
type TokenView struct {
	Type     track.TokenType `json:"type"`
	ID       string          `json:"id"`
	Label    string          `json:"label,omitempty"`
	Position int             `json:"position"`
	Owner    string          `json:"owner,omitempty"`
	FaceUp   bool            `json:"face_up,omitempty"`
	// Colors holds the true colors. It is stripped from player views while
	// the token is face-down.
	Colors        []track.Color `json:"colors,omitempty"`
	DisplayColors []string      `json:"display_colors,omitempty"`
	// Moves counts the completed moves of this token over the game.
	Moves int `json:"moves"`
}

// PlayerView is the observable state of one player.
type PlayerView struct {
	ID                   string       `json:"id"`
	Role                 cards.Role   `json:"role"`
	Hand                 []cards.Card `json:"hand,omitempty"`
	HandSize             int          `json:"hand_size"`
	DiscardedCards       []cards.Card `json:"discarded_cards,omitempty"`
	ExcludedCards        []cards.Card `json:"excluded_cards,omitempty"`
	RoundCapturedTokens  []string     `json:"round_captured_tokens"`
	PowerTokensCaptured  int          `json:"power_tokens_captured"`
	CapturedEvidence     []int        `json:"captured_evidence,omitempty"`
	RemainingDeckCards   int          `json:"remaining_deck_cards"`
	CardsPlayedThisRound int          `json:"cards_played_this_round"`
}

// Snapshot is a point-in-time copy of a game. It shares nothing with the
// engine.
type Snapshot struct {
	GameID              string         `json:"game_id"`
	Round               int            `json:"round"`
	Phase               string         `json:"phase"`
	CurrentPlayerTurn   string         `json:"current_player_turn,omitempty"`
	FirstPlayerID       string         `json:"first_player_id,omitempty"`
	RemainingTurns      int            `json:"remaining_turns"`
	PreparationComplete bool           `json:"preparation_complete"`
	CardPhaseComplete   bool           `json:"card_phase_complete"`
	EvaluationComplete  bool           `json:"evaluation_complete"`
	AutoProgress        bool           `json:"auto_progress"`
	Moving              bool           `json:"moving"`
	Initiative          TokenView      `json:"initiative"`
	Power               TokenView      `json:"power"`
	Evidence            []TokenView    `json:"evidence"`
	Players             []PlayerView   `json:"players"`
	PowerTokensTotal    int            `json:"power_tokens_total"`
	PowerTokensLeft     int            `json:"power_tokens_remaining"`
	Selection           *SelectionView `json:"selection,omitempty"`
	Checksum            string         `json:"checksum,omitempty"`
	Timestamp           time.Time      `json:"timestamp"`
}

// PowerPoolExhausted reports whether every power token has been captured.
func (s *Snapshot) PowerPoolExhausted() bool {
	return s.PowerTokensLeft <= 0
}

// Player returns the view of a player by id.
func (s *Snapshot) Player(id string) (PlayerView, bool) {
	for _, p := range s.Players {
		if p.ID == id {
			return p, true
		}
	}
	return PlayerView{}, false
}

// EvidenceToken returns the view of an evidence token by id.
func (s *Snapshot) EvidenceToken(id int) (TokenView, bool) {
	ref := track.EvidenceRef(id).String()
	for _, t := range s.Evidence {
		if t.ID == ref {
			return t, true
		}
	}
	return TokenView{}, false
}

func markerView(m track.Marker) TokenView {
	return TokenView{
		Type:     m.Type,
		ID:       string(m.Type),
		Label:    m.Label,
		Position: m.Position,
		Owner:    m.Owner,
	}
}

func evidenceView(e track.Evidence) TokenView {
	return TokenView{
		Type:          track.TokenEvidence,
		ID:            track.EvidenceRef(e.ID).String(),
		Position:      e.Position,
		Owner:         e.Owner,
		FaceUp:        e.FaceUp,
		Colors:        slices.Clone(e.Colors),
		DisplayColors: e.DisplayColors(),
	}
}

func tokenTags(list []track.TokenType) []string {
	out := make([]string, len(list))
	for i, t := range list {
		out[i] = string(t)
	}
	return out
}

// snapshotLocked builds a full snapshot. Callers hold e.mu.
func (e *Engine) snapshotLocked() *Snapshot {
	s := &Snapshot{
		GameID:              e.id,
		Round:               e.rounds.Round(),
		Phase:               e.rounds.Phase().String(),
		CurrentPlayerTurn:   e.rounds.CurrentPlayer(),
		FirstPlayerID:       e.rounds.FirstPlayer(),
		RemainingTurns:      e.rounds.RemainingTurns(),
		PreparationComplete: e.rounds.PreparationComplete(),
		CardPhaseComplete:   e.rounds.CardPhaseComplete(),
		EvaluationComplete:  e.rounds.EvaluationComplete(),
		AutoProgress:        e.autoProgress,
		Moving:              e.moving != nil,
		Initiative:          markerView(e.board.Initiative),
		Power:               markerView(e.board.Power),
		Evidence:            make([]TokenView, 0, len(e.board.Evidence)),
		Players:             make([]PlayerView, 0, len(e.order)),
		PowerTokensTotal:    e.powerTotal,
		PowerTokensLeft:     e.powerRemaining,
		Timestamp:           time.Now(),
	}
	for _, ev := range e.board.Evidence {
		s.Evidence = append(s.Evidence, evidenceView(ev))
	}
	s.Initiative.Moves = e.tokenMoves.Moves(s.Initiative.ID)
	s.Power.Moves = e.tokenMoves.Moves(s.Power.ID)
	for i := range s.Evidence {
		s.Evidence[i].Moves = e.tokenMoves.Moves(s.Evidence[i].ID)
	}
	for _, id := range e.order {
		p := e.players[id]
		s.Players = append(s.Players, PlayerView{
			ID:                   p.ID,
			Role:                 p.Role,
			Hand:                 cards.CloneAll(p.Hand),
			HandSize:             len(p.Hand),
			DiscardedCards:       cards.CloneAll(p.DiscardedCards),
			ExcludedCards:        cards.CloneAll(p.ExcludedCards),
			RoundCapturedTokens:  tokenTags(p.RoundCapturedTokens),
			PowerTokensCaptured:  p.PowerTokensCaptured,
			CapturedEvidence:     slices.Clone(p.CapturedEvidence),
			RemainingDeckCards:   p.RemainingDeckCards,
			CardsPlayedThisRound: e.cardsPlayed.Count(p.ID),
		})
	}
	if e.selection != nil {
		view := e.selectionViewLocked()
		s.Selection = &view
	}
	s.Checksum = s.ComputeChecksum()
	return s
}

// Snapshot returns the full game state, including both hands and the true
// colors of face-down evidence.
func (e *Engine) Snapshot() *Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshotLocked()
}

// View returns the state as seen by playerID: the opponent's hand and the
// colors of face-down evidence are hidden, and only the viewer's own
// selection is included. The checksum covers the full state so that all
// clients of a game compare the same value.
func (e *Engine) View(playerID string) (*Snapshot, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, ok := e.players[playerID]; !ok {
		return nil, ErrUnknownPlayer
	}
	return e.snapshotLocked().redactedFor(playerID), nil
}

// ReplayView returns the recorded phase-transition snapshot at index as
// seen by playerID, together with the number of recorded snapshots. A
// negative index addresses the latest one.
func (e *Engine) ReplayView(playerID string, index int) (*Snapshot, int, error) {
	e.mu.Lock()
	_, ok := e.players[playerID]
	e.mu.Unlock()
	if !ok {
		return nil, 0, ErrUnknownPlayer
	}

	size := e.replay.Size()
	if index < 0 {
		index = size - 1
	}
	state := e.replay.GetStateAt(index)
	if state == nil {
		return nil, size, fmt.Errorf("%w: %d of %d", ErrNoReplayState, index, size)
	}
	return state.redactedFor(playerID), size, nil
}

// redactedFor returns a copy of s with what playerID may not see removed.
// s itself is left untouched.
func (s *Snapshot) redactedFor(playerID string) *Snapshot {
	out := *s
	out.Players = slices.Clone(s.Players)
	out.Evidence = slices.Clone(s.Evidence)
	for i := range out.Players {
		if out.Players[i].ID != playerID {
			out.Players[i].Hand = nil
			out.Players[i].ExcludedCards = nil
		}
	}
	for i := range out.Evidence {
		if !out.Evidence[i].FaceUp {
			out.Evidence[i].Colors = nil
		}
	}
	if out.Selection != nil && out.Selection.PlayerID != playerID {
		out.Selection = nil
	}
	return &out
}
