package game

import (
	"go.uber.org/zap"

	"github.com/watergate-game/watergate-server-go/internal/game/rules"
	"github.com/watergate-game/watergate-server-go/internal/game/track"
)

// Move is an in-flight token move. The board is updated one cell per Step;
// the final step applies capture when the token lands on an edge. At most
// one Move exists per game at a time, and it always runs to completion.
type Move struct {
	engine   *Engine
	ref      track.Ref
	playerID string
	path     track.Path
	index    int
	done     bool
}

// Ref returns the token being moved.
func (m *Move) Ref() track.Ref { return m.ref }

// Path returns the full step sequence. It can be walked independently of
// the move's progress.
func (m *Move) Path() track.Path { return m.path }

// Step applies the next cell and reports whether more steps remain.
// Calling Step on a finished move returns the final cell and false.
func (m *Move) Step() (int, bool) {
	m.engine.mu.Lock()
	defer m.engine.mu.Unlock()
	return m.engine.stepLocked(m)
}

// Finish applies every remaining step and returns the final cell.
func (m *Move) Finish() int {
	m.engine.mu.Lock()
	defer m.engine.mu.Unlock()
	return m.engine.finishLocked(m)
}

// Done reports whether the move has completed.
func (m *Move) Done() bool {
	m.engine.mu.Lock()
	defer m.engine.mu.Unlock()
	return m.done
}

// MoveToken starts moving a token by steps cells and returns the move for
// the caller to tick. Requests are silently rejected (nil, false) while
// another move is in flight, for zero steps, for unknown or captured
// evidence, and when the token is already on the edge it is moving toward.
func (e *Engine) MoveToken(ref track.Ref, steps int) (*Move, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.beginMoveLocked(ref, steps, "")
}

func (e *Engine) beginMoveLocked(ref track.Ref, steps int, playerID string) (*Move, bool) {
	if e.moving != nil || steps == 0 {
		return nil, false
	}
	current, ok := e.board.Position(ref)
	if !ok {
		return nil, false
	}
	if ref.Type == track.TokenEvidence && e.board.Owner(ref) != "" {
		return nil, false
	}
	path := track.NewPath(current, steps)
	if path.Empty() {
		return nil, false
	}

	m := &Move{engine: e, ref: ref, playerID: playerID, path: path}
	e.moving = m

	if e.logger != nil {
		e.logger.Debug("token move started",
			zap.String("game_id", e.id),
			zap.String("token", ref.String()),
			zap.Int("from", path.From()),
			zap.Int("to", path.To()),
		)
	}
	return m, true
}

func (e *Engine) stepLocked(m *Move) (int, bool) {
	if m.done {
		return m.path.To(), false
	}

	m.index++
	pos := m.path.At(m.index)
	e.board.SetPosition(m.ref, pos)
	e.publish(rules.NewEventWithAmount(rules.EventTokenStepped, e.id, m.playerID, m.ref.String(), pos))

	if m.index < m.path.Len() {
		return pos, true
	}

	m.done = true
	if e.moving == m {
		e.moving = nil
	}

	moved := rules.NewEventWithAmount(rules.EventTokenMoved, e.id, m.playerID, m.ref.String(), pos)
	moved.Metadata["from"] = itoa(m.path.From())
	e.publish(moved)

	if track.IsAtCaptureEdge(pos) {
		e.captureLocked(m.ref, pos)
	}
	return pos, false
}

func (e *Engine) finishLocked(m *Move) int {
	pos, more := e.stepLocked(m)
	for more {
		pos, more = e.stepLocked(m)
	}
	return pos
}

// moveNowLocked runs a move to completion under the current lock hold.
// It reports false when the request was rejected as a no-op.
func (e *Engine) moveNowLocked(ref track.Ref, steps int, playerID string) bool {
	m, ok := e.beginMoveLocked(ref, steps, playerID)
	if !ok {
		return false
	}
	e.finishLocked(m)
	return true
}

// FlipTokenFaceUp reveals an evidence token. Unknown ids are ignored.
func (e *Engine) FlipTokenFaceUp(id int) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.flipLocked(id, "")
}

func (e *Engine) flipLocked(id int, playerID string) bool {
	ev := e.board.EvidenceByID(id)
	if ev == nil {
		return false
	}
	if ev.FaceUp {
		return true
	}
	e.board.Flip(id)
	evt := rules.NewEvent(rules.EventTokenFlipped, e.id, playerID, track.EvidenceRef(id).String())
	evt.Data = joinColors(ev.Colors)
	e.publish(evt)
	return true
}

// FindFaceDownTokenWithColor returns the first unowned face-down evidence
// token carrying color.
func (e *Engine) FindFaceDownTokenWithColor(color track.Color) (int, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.board.FindFaceDown(color)
}

// GetFaceUpTokenIdByColor returns the first unowned face-up evidence token
// carrying color.
func (e *Engine) GetFaceUpTokenIdByColor(color track.Color) (int, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.board.FindFaceUp(color)
}
