package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dosada05/cricket-fixtures/models"
)

type standingsFixture struct {
	tournamentRepo *fakeTournamentRepo
	stageRepo      *fakeStageRepo
	matchRepo      *fakeMatchRepo
	inningsRepo    *fakeInningsRepo
	service        StandingsService
}

func newStandingsFixture() *standingsFixture {
	f := &standingsFixture{
		tournamentRepo: newFakeTournamentRepo(),
		stageRepo:      newFakeStageRepo(),
		matchRepo:      newFakeMatchRepo(),
		inningsRepo:    &fakeInningsRepo{},
	}
	f.service = NewStandingsService(f.stageRepo, f.matchRepo, f.tournamentRepo, f.inningsRepo)
	return f
}

func (f *standingsFixture) addTournament(id int, teams ...*models.Team) {
	f.tournamentRepo.tournaments[id] = &models.Tournament{ID: id, Name: "Test Cup"}
	f.tournamentRepo.teams[id] = teams
}

func (f *standingsFixture) addStage(stage *models.Stage, entries ...*models.StageTeamEntry) {
	f.stageRepo.stages[stage.ID] = stage
	f.stageRepo.entries[stage.ID] = entries
}

func (f *standingsFixture) addPublishedMatch(tournamentID, stageID int, mutate func(*models.Match)) *models.Match {
	m := &models.Match{
		TournamentID:  tournamentID,
		StageID:       &stageID,
		FixtureStatus: models.FixtureStatusPublished,
	}
	mutate(m)
	return f.matchRepo.add(m)
}

func entry(stageID, teamID, seed int) *models.StageTeamEntry {
	return &models.StageTeamEntry{StageID: stageID, TeamID: teamID, Seed: seed}
}

func TestGetStandingsMixedOutcomes(t *testing.T) {
	f := newStandingsFixture()
	f.addTournament(1,
		&models.Team{ID: 101, Name: "Strikers"},
		&models.Team{ID: 102, Name: "Hurricanes"},
		&models.Team{ID: 103, Name: "Renegades"},
		&models.Team{ID: 104, Name: "Scorchers"},
	)
	f.addStage(&models.Stage{ID: 5, TournamentID: 1, StageType: "league"},
		entry(5, 101, 1), entry(5, 102, 2), entry(5, 103, 3), entry(5, 104, 4))

	// 101 beats 102, 103 ties 104, 101 vs 103 abandoned, 102 vs 104 drawn.
	f.addPublishedMatch(1, 5, func(m *models.Match) {
		m.Team1ID, m.Team2ID = intPtr(101), intPtr(102)
		m.IsCompleted = true
		m.WinnerID = intPtr(101)
	})
	f.addPublishedMatch(1, 5, func(m *models.Match) {
		m.Team1ID, m.Team2ID = intPtr(103), intPtr(104)
		m.IsCompleted = true
		m.IsTied = true
	})
	f.addPublishedMatch(1, 5, func(m *models.Match) {
		m.Team1ID, m.Team2ID = intPtr(101), intPtr(103)
		m.IsAbandoned = true
	})
	f.addPublishedMatch(1, 5, func(m *models.Match) {
		m.Team1ID, m.Team2ID = intPtr(102), intPtr(104)
		m.IsCompleted = true
		m.Result = strPtr("Match drawn due to rain")
	})

	result, err := f.service.GetStandings(context.Background(), StandingsInput{
		TournamentID: 1,
		StageID:      intPtr(5),
	})
	require.NoError(t, err)
	require.Len(t, result.Rows, 4)
	assert.Equal(t, 4, result.MatchCount)

	// 101: win 2 + abandoned 1 = 3. 103/104 on 2, both without wins or NRR,
	// seed breaks the tie. 102: loss 0 + draw 1 = 1.
	assert.Equal(t, 101, result.Rows[0].TeamID)
	assert.Equal(t, 3, result.Rows[0].Points)
	assert.Equal(t, 1, result.Rows[0].Rank)
	assert.Equal(t, "Strikers", result.Rows[0].TeamName)
	assert.Equal(t, "WA", result.Rows[0].RecentForm)

	assert.Equal(t, 103, result.Rows[1].TeamID)
	assert.Equal(t, 2, result.Rows[1].Points)
	assert.Equal(t, 104, result.Rows[2].TeamID)
	assert.Equal(t, 2, result.Rows[2].Points)

	assert.Equal(t, 102, result.Rows[3].TeamID)
	assert.Equal(t, 1, result.Rows[3].Points)
	assert.Equal(t, 4, result.Rows[3].Rank)
	assert.Equal(t, "LD", result.Rows[3].RecentForm)
}

func TestGetStandingsNetRunRate(t *testing.T) {
	f := newStandingsFixture()
	f.addTournament(1,
		&models.Team{ID: 201, Name: "Kings"},
		&models.Team{ID: 202, Name: "Royals"},
		&models.Team{ID: 203, Name: "Titans"},
	)
	f.addStage(&models.Stage{ID: 7, TournamentID: 1, StageType: "league"},
		entry(7, 201, 1), entry(7, 202, 2), entry(7, 203, 3))

	m1 := f.addPublishedMatch(1, 7, func(m *models.Match) {
		m.Team1ID, m.Team2ID = intPtr(201), intPtr(203)
		m.IsCompleted = true
		m.WinnerID = intPtr(201)
	})
	m2 := f.addPublishedMatch(1, 7, func(m *models.Match) {
		m.Team1ID, m.Team2ID = intPtr(202), intPtr(203)
		m.IsCompleted = true
		m.WinnerID = intPtr(202)
	})

	// 201: 300 runs off 300 balls, conceded 250 off 300 -> 6.00 - 5.00 = 1.00.
	f.inningsRepo.rows = []*models.Innings{
		{MatchID: m1.ID, BattingTeamID: 201, BowlingTeamID: 203, Runs: 300, Balls: 300},
		{MatchID: m1.ID, BattingTeamID: 203, BowlingTeamID: 201, Runs: 250, Balls: 300},
		// 202: 180 off 240, conceded 150 off 240 -> 4.50 - 3.75 = 0.75.
		{MatchID: m2.ID, BattingTeamID: 202, BowlingTeamID: 203, Runs: 180, Balls: 240},
		{MatchID: m2.ID, BattingTeamID: 203, BowlingTeamID: 202, Runs: 150, Balls: 240},
	}

	result, err := f.service.GetStandings(context.Background(), StandingsInput{
		TournamentID: 1,
		StageID:      intPtr(7),
	})
	require.NoError(t, err)
	require.Len(t, result.Rows, 3)

	// Обе команды на 2 очках, порядок решает NRR.
	assert.Equal(t, 201, result.Rows[0].TeamID)
	assert.InDelta(t, 1.0, result.Rows[0].NetRunRate, 0.0001)
	assert.Equal(t, 202, result.Rows[1].TeamID)
	assert.InDelta(t, 0.75, result.Rows[1].NetRunRate, 0.0001)
	assert.Equal(t, 203, result.Rows[2].TeamID)
}

func TestGetStandingsZeroOversGuard(t *testing.T) {
	f := newStandingsFixture()
	f.addTournament(1, &models.Team{ID: 1, Name: "A"}, &models.Team{ID: 2, Name: "B"})
	f.addStage(&models.Stage{ID: 3, TournamentID: 1}, entry(3, 1, 1), entry(3, 2, 2))

	m := f.addPublishedMatch(1, 3, func(m *models.Match) {
		m.Team1ID, m.Team2ID = intPtr(1), intPtr(2)
		m.IsCompleted = true
		m.WinnerID = intPtr(1)
	})
	// Только один иннингс: у обеих команд нет полного цикла bat+bowl -> NRR 0.
	f.inningsRepo.rows = []*models.Innings{
		{MatchID: m.ID, BattingTeamID: 1, BowlingTeamID: 2, Runs: 200, Balls: 120},
	}

	result, err := f.service.GetStandings(context.Background(), StandingsInput{TournamentID: 1, StageID: intPtr(3)})
	require.NoError(t, err)
	assert.Zero(t, result.Rows[0].NetRunRate)
	assert.Zero(t, result.Rows[1].NetRunRate)
}

func TestGetStandingsAbandonedBeatsWinner(t *testing.T) {
	f := newStandingsFixture()
	f.addTournament(1, &models.Team{ID: 1, Name: "A"}, &models.Team{ID: 2, Name: "B"})
	f.addStage(&models.Stage{ID: 3, TournamentID: 1}, entry(3, 1, 1), entry(3, 2, 2))

	// Противоречивые флаги скоринга: abandoned имеет высший приоритет.
	f.addPublishedMatch(1, 3, func(m *models.Match) {
		m.Team1ID, m.Team2ID = intPtr(1), intPtr(2)
		m.IsAbandoned = true
		m.WinnerID = intPtr(1)
	})

	result, err := f.service.GetStandings(context.Background(), StandingsInput{TournamentID: 1, StageID: intPtr(3)})
	require.NoError(t, err)
	for _, row := range result.Rows {
		assert.Equal(t, 1, row.Abandoned)
		assert.Equal(t, 0, row.Won)
		assert.Equal(t, 1, row.Points)
	}
}

func TestGetStandingsExcludesDraftsByDefault(t *testing.T) {
	f := newStandingsFixture()
	f.addTournament(1, &models.Team{ID: 1, Name: "A"}, &models.Team{ID: 2, Name: "B"})
	f.addStage(&models.Stage{ID: 3, TournamentID: 1}, entry(3, 1, 1), entry(3, 2, 2))

	draft := &models.Match{
		TournamentID:  1,
		StageID:       intPtr(3),
		Team1ID:       intPtr(1),
		Team2ID:       intPtr(2),
		FixtureStatus: models.FixtureStatusDraft,
		IsCompleted:   true,
		WinnerID:      intPtr(1),
	}
	f.matchRepo.add(draft)

	result, err := f.service.GetStandings(context.Background(), StandingsInput{TournamentID: 1, StageID: intPtr(3)})
	require.NoError(t, err)
	assert.Equal(t, 0, result.MatchCount)
	assert.Equal(t, 0, result.Rows[0].MatchesPlayed)

	withDrafts, err := f.service.GetStandings(context.Background(), StandingsInput{
		TournamentID: 1,
		StageID:      intPtr(3),
		IncludeDraft: true,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, withDrafts.MatchCount)
	assert.Equal(t, 1, withDrafts.Rows[0].MatchesPlayed)
}

func TestGetStandingsIgnoresUnfinishedAndDeferredMatches(t *testing.T) {
	f := newStandingsFixture()
	f.addTournament(1, &models.Team{ID: 1, Name: "A"}, &models.Team{ID: 2, Name: "B"})
	f.addStage(&models.Stage{ID: 3, TournamentID: 1}, entry(3, 1, 1), entry(3, 2, 2))

	// Запланирован, но не завершён.
	f.addPublishedMatch(1, 3, func(m *models.Match) {
		m.Team1ID, m.Team2ID = intPtr(1), intPtr(2)
	})
	// Завершён, но слоты команд ещё не разрешены.
	f.addPublishedMatch(1, 3, func(m *models.Match) {
		m.IsCompleted = true
	})

	result, err := f.service.GetStandings(context.Background(), StandingsInput{TournamentID: 1, StageID: intPtr(3)})
	require.NoError(t, err)
	assert.Equal(t, 0, result.MatchCount)
}

func TestGetStandingsWithoutStageUsesTournamentTeams(t *testing.T) {
	f := newStandingsFixture()
	f.addTournament(1,
		&models.Team{ID: 11, Name: "First"},
		&models.Team{ID: 12, Name: "Second"},
	)

	result, err := f.service.GetStandings(context.Background(), StandingsInput{TournamentID: 1})
	require.NoError(t, err)
	require.Len(t, result.Rows, 2)
	assert.Equal(t, 11, result.Rows[0].TeamID)
	assert.Equal(t, 1, result.Rows[0].Seed)
	assert.Equal(t, 12, result.Rows[1].TeamID)
	assert.Equal(t, 2, result.Rows[1].Seed)
}

func TestGetStandingsCustomPointsConfig(t *testing.T) {
	f := newStandingsFixture()
	f.addTournament(1, &models.Team{ID: 1, Name: "A"}, &models.Team{ID: 2, Name: "B"})
	metadata := `{"points_config":{"win_points":4,"tie_points":2,"draw_points":2,"abandoned_points":0,"tie_breaker_order":["points","seed"]}}`
	f.addStage(&models.Stage{ID: 3, TournamentID: 1, Metadata: &metadata},
		entry(3, 1, 1), entry(3, 2, 2))

	f.addPublishedMatch(1, 3, func(m *models.Match) {
		m.Team1ID, m.Team2ID = intPtr(1), intPtr(2)
		m.IsCompleted = true
		m.WinnerID = intPtr(2)
	})

	result, err := f.service.GetStandings(context.Background(), StandingsInput{TournamentID: 1, StageID: intPtr(3)})
	require.NoError(t, err)
	assert.Equal(t, 2, result.Rows[0].TeamID)
	assert.Equal(t, 4, result.Rows[0].Points)
	assert.Equal(t, 0, result.Rows[1].Points)
}

func TestGetStandingsHeadToHead(t *testing.T) {
	f := newStandingsFixture()
	f.addTournament(1,
		&models.Team{ID: 1, Name: "A"},
		&models.Team{ID: 2, Name: "B"},
		&models.Team{ID: 3, Name: "C"},
	)
	metadata := `{"points_config":{"win_points":2,"tie_points":1,"draw_points":1,"abandoned_points":1,"tie_breaker_order":["points","head_to_head","seed"]}}`
	// Посев нарочно против личных встреч: команда 2 ниже посеяна, но била 1.
	f.addStage(&models.Stage{ID: 3, TournamentID: 1, Metadata: &metadata},
		entry(3, 1, 1), entry(3, 2, 2), entry(3, 3, 3))

	f.addPublishedMatch(1, 3, func(m *models.Match) {
		m.Team1ID, m.Team2ID = intPtr(1), intPtr(2)
		m.IsCompleted = true
		m.WinnerID = intPtr(2)
	})
	f.addPublishedMatch(1, 3, func(m *models.Match) {
		m.Team1ID, m.Team2ID = intPtr(1), intPtr(3)
		m.IsCompleted = true
		m.WinnerID = intPtr(1)
	})
	f.addPublishedMatch(1, 3, func(m *models.Match) {
		m.Team1ID, m.Team2ID = intPtr(2), intPtr(3)
		m.IsCompleted = true
		m.WinnerID = intPtr(3)
	})

	result, err := f.service.GetStandings(context.Background(), StandingsInput{TournamentID: 1, StageID: intPtr(3)})
	require.NoError(t, err)

	// Все по 2 очка; круговая порука личных встреч: 2 бил 1, 1 бил 3, 3 бил 2.
	// Попарное сравнение решает каждую соседнюю пару.
	require.Len(t, result.Rows, 3)
	for _, row := range result.Rows {
		assert.Equal(t, 2, row.Points)
	}
}

func TestGetStandingsTournamentNotFound(t *testing.T) {
	f := newStandingsFixture()

	_, err := f.service.GetStandings(context.Background(), StandingsInput{TournamentID: 42})
	assert.ErrorIs(t, err, ErrTournamentNotFound)
}

func TestGetStandingsStageFromOtherTournament(t *testing.T) {
	f := newStandingsFixture()
	f.addTournament(1, &models.Team{ID: 1, Name: "A"})
	f.addStage(&models.Stage{ID: 3, TournamentID: 99})

	_, err := f.service.GetStandings(context.Background(), StandingsInput{TournamentID: 1, StageID: intPtr(3)})
	assert.ErrorIs(t, err, ErrStageNotFound)
}
