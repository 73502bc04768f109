package fixtures

import (
	"errors"
	"sort"

	"github.com/Dosada05/cricket-fixtures/models"
)

var ErrNotEnoughTeams = errors.New("not enough teams to generate fixtures (minimum 2)")

// ParticipantKind tags a ParticipantRef.
type ParticipantKind string

const (
	ParticipantTeam          ParticipantKind = "team"
	ParticipantMatchWinner   ParticipantKind = "match_winner"
	ParticipantGroupPosition ParticipantKind = "group_position"
	ParticipantStageSlot     ParticipantKind = "stage_slot"
)

// ParticipantRef is a symbolic, plan-internal participant reference. It is
// never persisted directly: at persistence time a Team ref on both slots makes
// a concrete match, anything else becomes match_participant_sources rows.
type ParticipantRef struct {
	Kind ParticipantKind

	TeamID int // ParticipantTeam

	Round int // ParticipantMatchWinner: 1-based round
	Slot  int // ParticipantMatchWinner: 0-based slot within the round, creation order

	GroupID  int // ParticipantGroupPosition
	StageID  int // ParticipantStageSlot
	Position int // ParticipantGroupPosition / ParticipantStageSlot
}

func TeamRef(teamID int) ParticipantRef {
	return ParticipantRef{Kind: ParticipantTeam, TeamID: teamID}
}

func MatchWinnerRef(round, slot int) ParticipantRef {
	return ParticipantRef{Kind: ParticipantMatchWinner, Round: round, Slot: slot}
}

func GroupPositionRef(groupID, position int) ParticipantRef {
	return ParticipantRef{Kind: ParticipantGroupPosition, GroupID: groupID, Position: position}
}

func StageSlotRef(stageID, position int) ParticipantRef {
	return ParticipantRef{Kind: ParticipantStageSlot, StageID: stageID, Position: position}
}

// PlanMatch is one pairing in an abstract plan. Round is 1-based; Slot is the
// 0-based creation index within the round, which is exactly what later rounds'
// MatchWinner refs point at.
type PlanMatch struct {
	Round int
	Slot  int
	Home  ParticipantRef
	Away  ParticipantRef
}

// Plan is the output of a generator: an ordered set of pairings forming a
// forward-only DAG. Persisting rounds in ascending order guarantees every
// MatchWinner ref resolves against already-written matches.
type Plan struct {
	Matches       []PlanMatch
	PairingMethod models.PairingMethod
}

// RoundNumbers returns the distinct round numbers of the plan in ascending order.
func (p *Plan) RoundNumbers() []int {
	seen := make(map[int]bool)
	var rounds []int
	for _, m := range p.Matches {
		if !seen[m.Round] {
			seen[m.Round] = true
			rounds = append(rounds, m.Round)
		}
	}
	sort.Ints(rounds)
	return rounds
}

// MatchesInRound returns the plan matches of one round in slot order.
func (p *Plan) MatchesInRound(round int) []PlanMatch {
	var out []PlanMatch
	for _, m := range p.Matches {
		if m.Round == round {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Slot < out[j].Slot })
	return out
}
