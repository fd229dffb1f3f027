package game

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"

	"github.com/watergate-game/watergate-server-go/internal/game/cards"
)

// checksumVersion is bumped whenever the canonical rendering changes.
const checksumVersion = 1

// ComputeChecksum returns a hex SHA-256 over a canonical rendering of the
// snapshot. Timestamp, Checksum and the selection are excluded, and
// evidence and players are rendered in sorted order.
func (s *Snapshot) ComputeChecksum() string {
	sum := sha256.Sum256([]byte(s.buildDeterministicRepresentation()))
	return hex.EncodeToString(sum[:])
}

// VerifyChecksum reports whether expected matches the snapshot's content.
func (s *Snapshot) VerifyChecksum(expected string) bool {
	return s.ComputeChecksum() == expected
}

func (s *Snapshot) buildDeterministicRepresentation() string {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "V%d\n", checksumVersion)
	fmt.Fprintf(&buf, "GAME:%s|%d|%s|%s|%s|%d|%t|%t|%t|%t\n",
		s.GameID,
		s.Round,
		s.Phase,
		s.CurrentPlayerTurn,
		s.FirstPlayerID,
		s.RemainingTurns,
		s.PreparationComplete,
		s.CardPhaseComplete,
		s.EvaluationComplete,
		s.AutoProgress,
	)
	fmt.Fprintf(&buf, "POOL:%d|%d\n", s.PowerTokensTotal, s.PowerTokensLeft)

	writeToken(&buf, s.Initiative)
	writeToken(&buf, s.Power)

	evidence := sortedTokens(s.Evidence)
	for _, t := range evidence {
		writeToken(&buf, t)
	}

	players := make([]PlayerView, len(s.Players))
	copy(players, s.Players)
	sort.Slice(players, func(i, j int) bool { return players[i].ID < players[j].ID })
	for _, p := range players {
		fmt.Fprintf(&buf, "PLAYER:%s|%s|%d|%d|%d\n",
			p.ID, p.Role, p.PowerTokensCaptured, p.RemainingDeckCards, p.HandSize)
		fmt.Fprintf(&buf, "  HAND:%s\n", cardIDs(p.Hand))
		fmt.Fprintf(&buf, "  DISCARD:%s\n", cardIDs(p.DiscardedCards))
		fmt.Fprintf(&buf, "  EXCLUDED:%s\n", cardIDs(p.ExcludedCards))
		fmt.Fprintf(&buf, "  ROUND:%s\n", strings.Join(p.RoundCapturedTokens, ","))
		ids := make([]string, len(p.CapturedEvidence))
		for i, id := range p.CapturedEvidence {
			ids[i] = fmt.Sprint(id)
		}
		fmt.Fprintf(&buf, "  EVIDENCE:%s\n", strings.Join(ids, ","))
	}

	return buf.String()
}

func writeToken(buf *bytes.Buffer, t TokenView) {
	colors := make([]string, len(t.Colors))
	for i, c := range t.Colors {
		colors[i] = string(c)
	}
	fmt.Fprintf(buf, "TOKEN:%s|%s|%d|%s|%t|%s\n",
		t.Type, t.ID, t.Position, t.Owner, t.FaceUp, strings.Join(colors, ","))
}

func sortedTokens(list []TokenView) []TokenView {
	out := make([]TokenView, len(list))
	copy(out, list)
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func cardIDs(list []cards.Card) string {
	ids := make([]string, len(list))
	for i, c := range list {
		ids[i] = c.ID
	}
	return strings.Join(ids, ",")
}
