package fixtures

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateRoundRobinEvenTeams(t *testing.T) {
	teams := []int{10, 20, 30, 40, 50, 60}

	plan, err := GenerateRoundRobin(teams, false)
	require.NoError(t, err)

	require.Len(t, plan.Matches, 15) // N(N-1)/2
	assert.Equal(t, []int{1, 2, 3, 4, 5}, plan.RoundNumbers())

	pairsSeen := make(map[string]int)
	for _, round := range plan.RoundNumbers() {
		matches := plan.MatchesInRound(round)
		require.Len(t, matches, 3)

		playedThisRound := make(map[int]bool)
		for _, m := range matches {
			require.Equal(t, ParticipantTeam, m.Home.Kind)
			require.Equal(t, ParticipantTeam, m.Away.Kind)

			assert.False(t, playedThisRound[m.Home.TeamID], "team %d plays twice in round %d", m.Home.TeamID, round)
			assert.False(t, playedThisRound[m.Away.TeamID], "team %d plays twice in round %d", m.Away.TeamID, round)
			playedThisRound[m.Home.TeamID] = true
			playedThisRound[m.Away.TeamID] = true

			a, b := m.Home.TeamID, m.Away.TeamID
			if a > b {
				a, b = b, a
			}
			pairsSeen[fmt.Sprintf("%d-%d", a, b)]++
		}
	}

	assert.Len(t, pairsSeen, 15)
	for pair, count := range pairsSeen {
		assert.Equal(t, 1, count, "pair %s scheduled more than once", pair)
	}
}

func TestGenerateRoundRobinOddTeams(t *testing.T) {
	teams := []int{1, 2, 3, 4, 5}

	plan, err := GenerateRoundRobin(teams, false)
	require.NoError(t, err)

	require.Len(t, plan.Matches, 10)
	assert.Equal(t, []int{1, 2, 3, 4, 5}, plan.RoundNumbers())

	byes := make(map[int]int)
	for _, round := range plan.RoundNumbers() {
		matches := plan.MatchesInRound(round)
		require.Len(t, matches, 2)

		playing := make(map[int]bool)
		for _, m := range matches {
			playing[m.Home.TeamID] = true
			playing[m.Away.TeamID] = true
		}
		for _, id := range teams {
			if !playing[id] {
				byes[id]++
			}
		}
	}

	// Каждая команда пропускает ровно один тур.
	for _, id := range teams {
		assert.Equal(t, 1, byes[id], "team %d byes", id)
	}
}

func TestGenerateRoundRobinDouble(t *testing.T) {
	teams := []int{1, 2, 3, 4}

	plan, err := GenerateRoundRobin(teams, true)
	require.NoError(t, err)

	require.Len(t, plan.Matches, 12) // N(N-1)
	assert.Equal(t, []int{1, 2, 3, 4, 5, 6}, plan.RoundNumbers())

	// Вторая половина повторяет первую с переменой хозяев поля.
	firstLeg := make(map[string]int)
	for _, m := range plan.Matches {
		if m.Round <= 3 {
			firstLeg[fmt.Sprintf("%d-%d", m.Home.TeamID, m.Away.TeamID)] = m.Round
		}
	}
	for _, m := range plan.Matches {
		if m.Round > 3 {
			firstRound, ok := firstLeg[fmt.Sprintf("%d-%d", m.Away.TeamID, m.Home.TeamID)]
			require.True(t, ok, "return fixture %d vs %d has no first leg", m.Home.TeamID, m.Away.TeamID)
			assert.Equal(t, firstRound+3, m.Round)
		}
	}
}

func TestGenerateRoundRobinTwoTeams(t *testing.T) {
	plan, err := GenerateRoundRobin([]int{7, 8}, false)
	require.NoError(t, err)
	require.Len(t, plan.Matches, 1)
	assert.Equal(t, 1, plan.Matches[0].Round)
}

func TestGenerateRoundRobinNotEnoughTeams(t *testing.T) {
	_, err := GenerateRoundRobin([]int{1}, false)
	assert.ErrorIs(t, err, ErrNotEnoughTeams)

	_, err = GenerateRoundRobin(nil, true)
	assert.ErrorIs(t, err, ErrNotEnoughTeams)
}
