package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/Dosada05/cricket-fixtures/models"
	"github.com/Dosada05/cricket-fixtures/repositories"
)

// nrrTolerance is the near-equality window for net run rate comparisons in
// the tie-break chain.
const nrrTolerance = 0.0001

const recentFormLength = 5

type StandingsInput struct {
	TournamentID int
	StageID      *int
	StageGroupID *int
	IncludeDraft bool
}

type StandingsResult struct {
	Rows       []models.StandingRow `json:"rows"`
	MatchCount int                  `json:"match_count"`
}

// StandingsService derives ranked, tie-broken standings from finalized match
// outcomes and innings totals. The computation is pure and re-derived on every
// call; nothing is cached or written.
type StandingsService interface {
	GetStandings(ctx context.Context, input StandingsInput) (*StandingsResult, error)
}

type standingsService struct {
	stageRepo      repositories.StageRepository
	matchRepo      repositories.MatchRepository
	tournamentRepo repositories.TournamentRepository
	inningsRepo    repositories.InningsRepository
}

func NewStandingsService(
	stageRepo repositories.StageRepository,
	matchRepo repositories.MatchRepository,
	tournamentRepo repositories.TournamentRepository,
	inningsRepo repositories.InningsRepository,
) StandingsService {
	return &standingsService{
		stageRepo:      stageRepo,
		matchRepo:      matchRepo,
		tournamentRepo: tournamentRepo,
		inningsRepo:    inningsRepo,
	}
}

// teamAccum is the per-team accumulator; it never leaves this package.
type teamAccum struct {
	teamID       int
	seed         int
	name         string
	played       int
	won          int
	lost         int
	tied         int
	drawn        int
	abandoned    int
	points       int
	runsScored   int
	runsConceded int
	ballsFaced   int
	ballsBowled  int
	form         []models.MatchOutcome
}

func (s *standingsService) GetStandings(ctx context.Context, input StandingsInput) (*StandingsResult, error) {
	var (
		stage   *models.Stage
		entries []*models.StageTeamEntry
		teams   []*models.Team
		matches []*models.Match
	)

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if _, err := s.tournamentRepo.GetByID(gCtx, nil, input.TournamentID); err != nil {
			if errors.Is(err, repositories.ErrTournamentNotFound) {
				return ErrTournamentNotFound
			}
			return err
		}
		return nil
	})

	if input.StageID != nil {
		stageID := *input.StageID
		g.Go(func() error {
			st, err := s.stageRepo.GetByID(gCtx, nil, stageID)
			if err != nil {
				if errors.Is(err, repositories.ErrStageNotFound) {
					return ErrStageNotFound
				}
				return err
			}
			if st.TournamentID != input.TournamentID {
				return ErrStageNotFound
			}
			stage = st

			stageEntries, err := s.stageRepo.ListEntries(gCtx, nil, stageID, input.StageGroupID)
			if err != nil {
				return err
			}
			entries = stageEntries
			return nil
		})
	}

	g.Go(func() error {
		tournamentTeams, err := s.tournamentRepo.ListTeams(gCtx, nil, input.TournamentID)
		if err != nil {
			return err
		}
		teams = tournamentTeams
		return nil
	})

	g.Go(func() error {
		filter := repositories.MatchFilter{
			StageID:      input.StageID,
			StageGroupID: input.StageGroupID,
		}
		if !input.IncludeDraft {
			published := models.FixtureStatusPublished
			filter.Status = &published
		}
		loaded, err := s.matchRepo.ListByTournament(gCtx, nil, input.TournamentID, filter)
		if err != nil {
			return err
		}
		matches = loaded
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	pointsConfig := models.DefaultStagePointsConfig()
	if stage != nil {
		pointsConfig = models.ParsePointsConfig(stage.Metadata)
	}

	accums := s.buildTeamUniverse(entries, teams)

	finalized := make([]*models.Match, 0, len(matches))
	for _, m := range matches {
		if m.Finalized() && m.Concrete() {
			finalized = append(finalized, m)
		}
	}

	matchIDs := make([]int, 0, len(finalized))
	for _, m := range finalized {
		matchIDs = append(matchIDs, m.ID)
	}
	innings, err := s.inningsRepo.ListByMatchIDs(ctx, nil, matchIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load innings for standings: %w", err)
	}
	inningsByMatch := make(map[int][]*models.Innings)
	for _, in := range innings {
		inningsByMatch[in.MatchID] = append(inningsByMatch[in.MatchID], in)
	}

	headToHeadWins := make(map[[2]int]int)

	for _, m := range finalized {
		team1, team2 := *m.Team1ID, *m.Team2ID
		for _, teamID := range []int{team1, team2} {
			accum, tracked := accums[teamID]
			if !tracked {
				continue
			}
			outcome := classifyOutcome(m, teamID)
			accum.played++
			switch outcome {
			case models.OutcomeWon:
				accum.won++
				accum.points += pointsConfig.WinPoints
			case models.OutcomeLost:
				accum.lost++
			case models.OutcomeTied:
				accum.tied++
				accum.points += pointsConfig.TiePoints
			case models.OutcomeDrawn:
				accum.drawn++
				accum.points += pointsConfig.DrawPoints
			case models.OutcomeAbandoned:
				accum.abandoned++
				accum.points += pointsConfig.AbandonedPoints
			}
			accum.form = append(accum.form, outcome)
			if len(accum.form) > recentFormLength {
				accum.form = accum.form[len(accum.form)-recentFormLength:]
			}

			for _, in := range inningsByMatch[m.ID] {
				if in.BattingTeamID == teamID {
					accum.runsScored += in.Runs
					accum.ballsFaced += in.Balls
				}
				if in.BowlingTeamID == teamID {
					accum.runsConceded += in.Runs
					accum.ballsBowled += in.Balls
				}
			}
		}

		if m.WinnerID != nil && !m.IsAbandoned && !m.IsTied {
			loser := team1
			if *m.WinnerID == team1 {
				loser = team2
			}
			headToHeadWins[[2]int{*m.WinnerID, loser}]++
		}
	}

	rows := make([]models.StandingRow, 0, len(accums))
	for _, accum := range accums {
		rows = append(rows, models.StandingRow{
			TeamID:        accum.teamID,
			TeamName:      accum.name,
			Seed:          accum.seed,
			MatchesPlayed: accum.played,
			Won:           accum.won,
			Lost:          accum.lost,
			Tied:          accum.tied,
			Drawn:         accum.drawn,
			Abandoned:     accum.abandoned,
			Points:        accum.points,
			NetRunRate:    netRunRate(accum),
			RecentForm:    formString(accum.form),
		})
	}

	s.rankRows(rows, pointsConfig.TieBreakerOrder, headToHeadWins)

	return &StandingsResult{Rows: rows, MatchCount: len(finalized)}, nil
}

// buildTeamUniverse resolves which teams appear in the table: stage entries
// with their seeds when a stage is given, otherwise every tournament team
// seeded by listing order.
func (s *standingsService) buildTeamUniverse(entries []*models.StageTeamEntry, teams []*models.Team) map[int]*teamAccum {
	nameByTeam := make(map[int]string, len(teams))
	for _, t := range teams {
		nameByTeam[t.ID] = t.Name
	}

	accums := make(map[int]*teamAccum)
	if len(entries) > 0 {
		for _, e := range entries {
			accums[e.TeamID] = &teamAccum{
				teamID: e.TeamID,
				seed:   e.Seed,
				name:   nameByTeam[e.TeamID],
			}
		}
		return accums
	}
	for i, t := range teams {
		accums[t.ID] = &teamAccum{teamID: t.ID, seed: i + 1, name: t.Name}
	}
	return accums
}

// classifyOutcome resolves one team's outcome for a finalized match. The
// precedence is fixed: abandoned beats tied beats a drawn result text beats
// the winner id; a finalized match with none of those counts as abandoned.
func classifyOutcome(m *models.Match, teamID int) models.MatchOutcome {
	switch {
	case m.IsAbandoned:
		return models.OutcomeAbandoned
	case m.IsTied:
		return models.OutcomeTied
	case m.Result != nil && strings.Contains(strings.ToLower(*m.Result), "draw"):
		return models.OutcomeDrawn
	case m.WinnerID != nil:
		if *m.WinnerID == teamID {
			return models.OutcomeWon
		}
		return models.OutcomeLost
	default:
		return models.OutcomeAbandoned
	}
}

// netRunRate computes runs per over scored minus runs per over conceded,
// overs always being balls/6 regardless of the match format's balls-per-over.
// Returns 0 when either overs value is 0.
func netRunRate(accum *teamAccum) float64 {
	oversFaced := float64(accum.ballsFaced) / 6.0
	oversBowled := float64(accum.ballsBowled) / 6.0
	if oversFaced == 0 || oversBowled == 0 {
		return 0
	}
	nrr := float64(accum.runsScored)/oversFaced - float64(accum.runsConceded)/oversBowled
	return math.Round(nrr*100) / 100
}

func formString(form []models.MatchOutcome) string {
	var sb strings.Builder
	for _, o := range form {
		sb.WriteString(string(o))
	}
	return sb.String()
}

// rankRows sorts rows through the configured tie-break chain, trying each
// criterion in order and falling through on equality. Unresolved ties fall
// back to seed ascending. Rank is assigned from the final order.
func (s *standingsService) rankRows(rows []models.StandingRow, tieBreakers []string, headToHeadWins map[[2]int]int) {
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		for _, criterion := range tieBreakers {
			switch criterion {
			case models.TieBreakPoints:
				if a.Points != b.Points {
					return a.Points > b.Points
				}
			case models.TieBreakNetRunRate:
				if math.Abs(a.NetRunRate-b.NetRunRate) > nrrTolerance {
					return a.NetRunRate > b.NetRunRate
				}
			case models.TieBreakWins:
				if a.Won != b.Won {
					return a.Won > b.Won
				}
			case models.TieBreakHeadToHead:
				aWins := headToHeadWins[[2]int{a.TeamID, b.TeamID}]
				bWins := headToHeadWins[[2]int{b.TeamID, a.TeamID}]
				if aWins != bWins {
					return aWins > bWins
				}
			case models.TieBreakSeed:
				if a.Seed != b.Seed {
					return a.Seed < b.Seed
				}
			}
		}
		return a.Seed < b.Seed
	})

	for i := range rows {
		rows[i].Rank = i + 1
	}
}
