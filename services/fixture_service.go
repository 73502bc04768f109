package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/Dosada05/cricket-fixtures/fixtures"
	"github.com/Dosada05/cricket-fixtures/models"
	"github.com/Dosada05/cricket-fixtures/repositories"
)

type ParticipantSourceInput struct {
	TeamSlot           int                          `json:"team_slot"`
	SourceType         models.ParticipantSourceType `json:"source_type"`
	SourceMatchID      *int                         `json:"source_match_id,omitempty"`
	SourceStageID      *int                         `json:"source_stage_id,omitempty"`
	SourceStageGroupID *int                         `json:"source_stage_group_id,omitempty"`
	SourcePosition     *int                         `json:"source_position,omitempty"`
	SourceTeamID       *int                         `json:"source_team_id,omitempty"`
}

type CreateDraftMatchInput struct {
	TournamentID int                      `json:"tournament_id"`
	StageID      *int                     `json:"stage_id,omitempty"`
	StageGroupID *int                     `json:"stage_group_id,omitempty"`
	RoundNumber  *int                     `json:"round_number,omitempty"`
	Team1ID      *int                     `json:"team1_id,omitempty"`
	Team2ID      *int                     `json:"team2_id,omitempty"`
	VenueID      *int                     `json:"venue_id,omitempty"`
	ScheduledAt  *time.Time               `json:"scheduled_at,omitempty"`
	Sources      []ParticipantSourceInput `json:"participant_sources,omitempty"`
}

type UpdateDraftMatchInput struct {
	MatchID int `json:"-"`
	CreateDraftMatchInput
}

type AutoGenerateInput struct {
	TournamentID          int        `json:"tournament_id"`
	StageID               int        `json:"stage_id"`
	StageGroupID          *int       `json:"stage_group_id,omitempty"`
	StartDate             *time.Time `json:"start_date,omitempty"`
	VenueIDs              []int      `json:"venue_ids,omitempty"`
	OverwriteDrafts       bool       `json:"overwrite_drafts"`
	RespectExistingDrafts bool       `json:"respect_existing_drafts"`
}

type GenerationResult struct {
	FixtureVersionID  int  `json:"fixture_version_id"`
	CreatedMatchCount int  `json:"created_match_count"`
	CreatedRoundCount int  `json:"created_round_count"`
	Skipped           bool `json:"skipped"`
}

type ListFixturesInput struct {
	TournamentID int
	StageID      *int
	IncludeDraft bool
	Status       *models.FixtureStatus
}

type FixtureService interface {
	CreateDraftMatch(ctx context.Context, input CreateDraftMatchInput) (*models.Match, error)
	UpdateDraftMatch(ctx context.Context, input UpdateDraftMatchInput) (*models.Match, error)
	DeleteDraftMatch(ctx context.Context, tournamentID, matchID int) error
	AutoGenerateFixtures(ctx context.Context, input AutoGenerateInput) (*GenerationResult, error)
	AutoGenerateNextSwissRound(ctx context.Context, tournamentID, stageID int) (*GenerationResult, error)
	ListFixtures(ctx context.Context, input ListFixturesInput) ([]*models.Match, error)
}

type fixtureService struct {
	tx             repositories.TxRunner
	tournamentRepo repositories.TournamentRepository
	stageRepo      repositories.StageRepository
	matchRepo      repositories.MatchRepository
	sourceRepo     repositories.ParticipantSourceRepository
	versionRepo    repositories.FixtureVersionRepository
	roundRepo      repositories.FixtureRoundRepository
	versionMatches repositories.VersionMatchRepository
	changeLog      repositories.ChangeLogRepository
	venueRepo      repositories.VenueRepository
	standings      StandingsService
	logger         *slog.Logger
	now            func() time.Time
}

func NewFixtureService(
	tx repositories.TxRunner,
	tournamentRepo repositories.TournamentRepository,
	stageRepo repositories.StageRepository,
	matchRepo repositories.MatchRepository,
	sourceRepo repositories.ParticipantSourceRepository,
	versionRepo repositories.FixtureVersionRepository,
	roundRepo repositories.FixtureRoundRepository,
	versionMatches repositories.VersionMatchRepository,
	changeLog repositories.ChangeLogRepository,
	venueRepo repositories.VenueRepository,
	standings StandingsService,
	logger *slog.Logger,
) FixtureService {
	return &fixtureService{
		tx:             tx,
		tournamentRepo: tournamentRepo,
		stageRepo:      stageRepo,
		matchRepo:      matchRepo,
		sourceRepo:     sourceRepo,
		versionRepo:    versionRepo,
		roundRepo:      roundRepo,
		versionMatches: versionMatches,
		changeLog:      changeLog,
		venueRepo:      venueRepo,
		standings:      standings,
		logger:         logger,
		now:            time.Now,
	}
}

// --- manual draft CRUD ---

func (s *fixtureService) CreateDraftMatch(ctx context.Context, input CreateDraftMatchInput) (*models.Match, error) {
	if _, err := s.getTournament(ctx, input.TournamentID); err != nil {
		return nil, err
	}
	if err := s.checkStageAndGroup(ctx, input.TournamentID, input.StageID, input.StageGroupID); err != nil {
		return nil, err
	}
	concrete, err := validateParticipantMode(input.Team1ID, input.Team2ID, input.Sources)
	if err != nil {
		return nil, err
	}

	match := &models.Match{
		TournamentID:  input.TournamentID,
		StageID:       input.StageID,
		StageGroupID:  input.StageGroupID,
		RoundNumber:   input.RoundNumber,
		VenueID:       input.VenueID,
		ScheduledAt:   input.ScheduledAt,
		FixtureStatus: models.FixtureStatusDraft,
	}
	if concrete {
		match.Team1ID = input.Team1ID
		match.Team2ID = input.Team2ID
	}

	err = s.tx.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		if err := s.matchRepo.Create(ctx, exec, match); err != nil {
			return err
		}
		if !concrete {
			for _, src := range input.Sources {
				row := sourceRowFromInput(match.ID, src)
				if err := s.sourceRepo.Create(ctx, exec, &row); err != nil {
					return err
				}
				match.Sources = append(match.Sources, row)
			}
		}
		matchID := match.ID
		return s.changeLog.Append(ctx, exec, &models.FixtureChangeLog{
			TournamentID: input.TournamentID,
			StageID:      input.StageID,
			MatchID:      &matchID,
			Action:       models.ChangeActionDraftCreated,
		})
	})
	if err != nil {
		return nil, err
	}
	return match, nil
}

func (s *fixtureService) UpdateDraftMatch(ctx context.Context, input UpdateDraftMatchInput) (*models.Match, error) {
	match, err := s.getDraftMatch(ctx, input.TournamentID, input.MatchID)
	if err != nil {
		return nil, err
	}
	if err := s.checkStageAndGroup(ctx, input.TournamentID, input.StageID, input.StageGroupID); err != nil {
		return nil, err
	}
	concrete, err := validateParticipantMode(input.Team1ID, input.Team2ID, input.Sources)
	if err != nil {
		return nil, err
	}

	match.StageID = input.StageID
	match.StageGroupID = input.StageGroupID
	match.RoundNumber = input.RoundNumber
	match.VenueID = input.VenueID
	match.ScheduledAt = input.ScheduledAt
	if concrete {
		match.Team1ID = input.Team1ID
		match.Team2ID = input.Team2ID
	} else {
		// Switching to source mode clears the team slots and any toss call
		// recorded against the previously named teams.
		match.Team1ID = nil
		match.Team2ID = nil
		match.TossWinnerID = nil
		match.TossDecision = nil
	}

	err = s.tx.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		if err := s.matchRepo.UpdateDraftFields(ctx, exec, match); err != nil {
			return err
		}
		if err := s.sourceRepo.DeleteByMatchIDs(ctx, exec, []int{match.ID}); err != nil {
			return err
		}
		match.Sources = nil
		if !concrete {
			for _, src := range input.Sources {
				row := sourceRowFromInput(match.ID, src)
				if err := s.sourceRepo.Create(ctx, exec, &row); err != nil {
					return err
				}
				match.Sources = append(match.Sources, row)
			}
		}
		matchID := match.ID
		return s.changeLog.Append(ctx, exec, &models.FixtureChangeLog{
			TournamentID: input.TournamentID,
			StageID:      input.StageID,
			MatchID:      &matchID,
			Action:       models.ChangeActionDraftUpdated,
		})
	})
	if err != nil {
		return nil, err
	}
	return match, nil
}

func (s *fixtureService) DeleteDraftMatch(ctx context.Context, tournamentID, matchID int) error {
	match, err := s.getDraftMatch(ctx, tournamentID, matchID)
	if err != nil {
		return err
	}

	return s.tx.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		if err := s.sourceRepo.DeleteByMatchIDs(ctx, exec, []int{match.ID}); err != nil {
			return err
		}
		// Change-log rows referencing the match survive, detached.
		if err := s.changeLog.DetachMatches(ctx, exec, []int{match.ID}); err != nil {
			return err
		}
		if err := s.matchRepo.DeleteByIDs(ctx, exec, []int{match.ID}); err != nil {
			return err
		}
		payload := fmt.Sprintf(`{"deleted_match_id":%d}`, match.ID)
		return s.changeLog.Append(ctx, exec, &models.FixtureChangeLog{
			TournamentID: tournamentID,
			StageID:      match.StageID,
			Action:       models.ChangeActionDraftDeleted,
			Payload:      &payload,
		})
	})
}

// --- batch auto-generation ---

func (s *fixtureService) AutoGenerateFixtures(ctx context.Context, input AutoGenerateInput) (*GenerationResult, error) {
	tournament, err := s.getTournament(ctx, input.TournamentID)
	if err != nil {
		return nil, err
	}
	stage, err := s.getStage(ctx, input.TournamentID, input.StageID)
	if err != nil {
		return nil, err
	}
	if input.StageGroupID != nil {
		group, err := s.stageRepo.GetGroup(ctx, nil, *input.StageGroupID)
		if err != nil {
			if errors.Is(err, repositories.ErrStageGroupNotFound) {
				return nil, ErrInvalidStageGroup
			}
			return nil, err
		}
		if group.StageID != stage.ID {
			return nil, ErrInvalidStageGroup
		}
	}

	entries, err := s.stageRepo.ListEntries(ctx, nil, stage.ID, input.StageGroupID)
	if err != nil {
		return nil, err
	}

	format := fixtures.NormalizeFormat(stage.Format, stage.StageType)
	plan, err := s.buildPlan(ctx, stage, format, entries)
	if err != nil {
		return nil, err
	}

	venues, err := s.resolveVenues(ctx, input.TournamentID, input.VenueIDs)
	if err != nil {
		return nil, err
	}

	start := tournament.StartDate
	if input.StartDate != nil {
		start = *input.StartDate
	}
	scheduled, err := fixtures.AllocateSchedule(plan, venues, start)
	if err != nil {
		if errors.Is(err, fixtures.ErrNoVenues) {
			return nil, ErrNoVenuesAvailable
		}
		return nil, err
	}

	draft := models.FixtureStatusDraft
	existingDrafts, err := s.matchRepo.ListByTournament(ctx, nil, input.TournamentID, repositories.MatchFilter{
		StageID: &stage.ID,
		Status:  &draft,
	})
	if err != nil {
		return nil, err
	}

	var overwriteIDs []int
	if len(existingDrafts) > 0 {
		if !input.OverwriteDrafts {
			// Default behavior: existing drafts are respected and generation
			// is skipped without touching anything.
			s.logger.Info("fixture generation skipped, drafts exist",
				slog.Int("tournament_id", input.TournamentID),
				slog.Int("stage_id", stage.ID),
				slog.Int("existing_drafts", len(existingDrafts)))
			return &GenerationResult{Skipped: true}, nil
		}
		for _, m := range existingDrafts {
			overwriteIDs = append(overwriteIDs, m.ID)
		}
	}

	action := models.ChangeActionAutoGenerated
	result, err := s.persistPlan(ctx, stage, input.StageGroupID, scheduled, plan.PairingMethod, action, overwriteIDs)
	if err != nil {
		return nil, err
	}

	s.logger.Info("fixtures auto-generated",
		slog.Int("tournament_id", input.TournamentID),
		slog.Int("stage_id", stage.ID),
		slog.Int("fixture_version_id", result.FixtureVersionID),
		slog.Int("matches", result.CreatedMatchCount),
		slog.Int("rounds", result.CreatedRoundCount))
	return result, nil
}

func (s *fixtureService) AutoGenerateNextSwissRound(ctx context.Context, tournamentID, stageID int) (*GenerationResult, error) {
	tournament, err := s.getTournament(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	stage, err := s.getStage(ctx, tournamentID, stageID)
	if err != nil {
		return nil, err
	}
	if fixtures.NormalizeFormat(stage.Format, stage.StageType) != models.FormatSwiss {
		return nil, ErrSwissRoundNotReady
	}

	entries, err := s.stageRepo.ListEntries(ctx, nil, stage.ID, nil)
	if err != nil {
		return nil, err
	}
	if len(entries) < 2 {
		return nil, ErrInsufficientTeams
	}

	swissEntries, err := s.buildSwissEntries(ctx, tournamentID, stage.ID, entries)
	if err != nil {
		return nil, err
	}

	maxRound, err := s.matchRepo.MaxRoundNumber(ctx, nil, stage.ID)
	if err != nil {
		return nil, err
	}
	nextRound := maxRound + 1

	pairings, err := fixtures.GenerateSwissRound(swissEntries, nextRound)
	if err != nil {
		if errors.Is(err, fixtures.ErrNotEnoughTeams) {
			return nil, ErrInsufficientTeams
		}
		return nil, err
	}
	if len(pairings) == 0 {
		return nil, ErrSwissRoundNotReady
	}

	venues, err := s.resolveVenues(ctx, tournamentID, nil)
	if err != nil {
		return nil, err
	}
	start := tournament.StartDate.AddDate(0, 0, nextRound-1)
	scheduled, err := fixtures.AllocateSchedule(fixtures.SwissPlan(pairings), venues, start)
	if err != nil {
		if errors.Is(err, fixtures.ErrNoVenues) {
			return nil, ErrNoVenuesAvailable
		}
		return nil, err
	}

	result, err := s.persistPlan(ctx, stage, nil, scheduled, models.PairingSwiss, models.ChangeActionSwissGenerated, nil)
	if err != nil {
		return nil, err
	}

	s.logger.Info("swiss round generated",
		slog.Int("tournament_id", tournamentID),
		slog.Int("stage_id", stage.ID),
		slog.Int("round", nextRound),
		slog.Int("matches", result.CreatedMatchCount))
	return result, nil
}

func (s *fixtureService) ListFixtures(ctx context.Context, input ListFixturesInput) ([]*models.Match, error) {
	if _, err := s.getTournament(ctx, input.TournamentID); err != nil {
		return nil, err
	}

	filter := repositories.MatchFilter{StageID: input.StageID}
	switch {
	case input.Status != nil:
		filter.Status = input.Status
	case !input.IncludeDraft:
		published := models.FixtureStatusPublished
		filter.Status = &published
	}

	matches, err := s.matchRepo.ListByTournament(ctx, nil, input.TournamentID, filter)
	if err != nil {
		return nil, err
	}

	deferredIDs := make([]int, 0)
	for _, m := range matches {
		if !m.Concrete() {
			deferredIDs = append(deferredIDs, m.ID)
		}
	}
	sources, err := s.sourceRepo.ListByMatchIDs(ctx, nil, deferredIDs)
	if err != nil {
		return nil, err
	}
	sourcesByMatch := make(map[int][]models.MatchParticipantSource)
	for _, src := range sources {
		sourcesByMatch[src.MatchID] = append(sourcesByMatch[src.MatchID], *src)
	}

	now := s.now()
	for _, m := range matches {
		m.Sources = sourcesByMatch[m.ID]
		m.TemporalStatus = temporalStatus(m, now)
	}
	return matches, nil
}

// temporalStatus classifies a match against "now": a finalized match is past,
// a live or already-started one is live, everything else is upcoming.
func temporalStatus(m *models.Match, now time.Time) models.TemporalStatus {
	if m.Finalized() {
		return models.TemporalStatusPast
	}
	if m.IsLive {
		return models.TemporalStatusLive
	}
	if m.ScheduledAt != nil && !now.Before(*m.ScheduledAt) {
		return models.TemporalStatusLive
	}
	return models.TemporalStatusUpcoming
}

// --- plan construction helpers ---

func (s *fixtureService) buildPlan(ctx context.Context, stage *models.Stage, format models.StageFormat, entries []*models.StageTeamEntry) (*fixtures.Plan, error) {
	teamIDs := make([]int, 0, len(entries))
	for _, e := range entries {
		teamIDs = append(teamIDs, e.TeamID)
	}

	switch format {
	case models.FormatSingleRoundRobin, models.FormatDoubleRoundRobin:
		plan, err := fixtures.GenerateRoundRobin(teamIDs, format == models.FormatDoubleRoundRobin)
		if err != nil {
			return nil, ErrInsufficientTeams
		}
		return plan, nil

	case models.FormatSingleElimination, models.FormatDoubleElimination:
		if len(teamIDs) >= 2 {
			plan, err := fixtures.GenerateSingleElimination(teamIDs)
			if err != nil {
				return nil, ErrInsufficientTeams
			}
			return plan, nil
		}
		// A playoff stage without entries can still be bracketed from its
		// declarative advancement rules: the first round seeds become
		// deferred group-position references.
		seeds, err := s.advancementSeeds(ctx, stage.ID)
		if err != nil {
			return nil, err
		}
		plan, err := fixtures.GenerateEliminationFromRefs(seeds)
		if err != nil {
			return nil, ErrInsufficientTeams
		}
		return plan, nil

	case models.FormatSwiss:
		swissEntries := make([]fixtures.SwissEntry, 0, len(entries))
		for _, e := range entries {
			swissEntries = append(swissEntries, fixtures.SwissEntry{
				TeamID:    e.TeamID,
				Seed:      e.Seed,
				Opponents: map[int]bool{},
			})
		}
		pairings, err := fixtures.GenerateSwissRound(swissEntries, 1)
		if err != nil {
			return nil, ErrInsufficientTeams
		}
		return fixtures.SwissPlan(pairings), nil
	}

	return nil, fmt.Errorf("unsupported stage format %q", format)
}

func (s *fixtureService) advancementSeeds(ctx context.Context, stageID int) ([]fixtures.ParticipantRef, error) {
	advancements, err := s.stageRepo.ListAdvancementsInto(ctx, nil, stageID)
	if err != nil {
		return nil, err
	}
	if len(advancements) < 2 {
		return nil, ErrInsufficientTeams
	}
	seeds := make([]fixtures.ParticipantRef, 0, len(advancements))
	for _, a := range advancements {
		if a.FromStageGroupID != nil {
			ref := fixtures.GroupPositionRef(*a.FromStageGroupID, a.PositionFrom)
			ref.StageID = a.FromStageID
			seeds = append(seeds, ref)
		} else {
			seeds = append(seeds, fixtures.StageSlotRef(a.FromStageID, a.PositionFrom))
		}
	}
	return seeds, nil
}

func (s *fixtureService) buildSwissEntries(ctx context.Context, tournamentID, stageID int, entries []*models.StageTeamEntry) ([]fixtures.SwissEntry, error) {
	standings, err := s.standings.GetStandings(ctx, StandingsInput{
		TournamentID: tournamentID,
		StageID:      &stageID,
		IncludeDraft: true,
	})
	if err != nil {
		return nil, err
	}
	rowByTeam := make(map[int]models.StandingRow, len(standings.Rows))
	for _, row := range standings.Rows {
		rowByTeam[row.TeamID] = row
	}

	// Opponent history covers every generated match of the stage, drafts
	// included, so a pending pairing is not repeated either.
	stageMatches, err := s.matchRepo.ListByTournament(ctx, nil, tournamentID, repositories.MatchFilter{StageID: &stageID})
	if err != nil {
		return nil, err
	}
	opponents := make(map[int]map[int]bool)
	for _, m := range stageMatches {
		if !m.Concrete() {
			continue
		}
		t1, t2 := *m.Team1ID, *m.Team2ID
		if opponents[t1] == nil {
			opponents[t1] = map[int]bool{}
		}
		if opponents[t2] == nil {
			opponents[t2] = map[int]bool{}
		}
		opponents[t1][t2] = true
		opponents[t2][t1] = true
	}

	swissEntries := make([]fixtures.SwissEntry, 0, len(entries))
	for _, e := range entries {
		row := rowByTeam[e.TeamID]
		history := opponents[e.TeamID]
		if history == nil {
			history = map[int]bool{}
		}
		swissEntries = append(swissEntries, fixtures.SwissEntry{
			TeamID:    e.TeamID,
			Seed:      e.Seed,
			Points:    row.Points,
			TieBreaks: [3]float64{row.NetRunRate, float64(row.Won), 0},
			Opponents: history,
		})
	}
	return swissEntries, nil
}

// persistPlan writes one generation batch atomically: a draft fixture
// version, its rounds in ascending order, then matches round-by-round in plan
// order. Because rounds are written strictly in increasing order, every
// MatchWinner(round, slot) reference resolves against the local
// (round, slot) -> match id table filled by prior rounds.
func (s *fixtureService) persistPlan(
	ctx context.Context,
	stage *models.Stage,
	stageGroupID *int,
	scheduled []fixtures.ScheduledMatch,
	pairingMethod models.PairingMethod,
	action models.ChangeLogAction,
	overwriteIDs []int,
) (*GenerationResult, error) {
	result := &GenerationResult{}

	err := s.tx.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		if len(overwriteIDs) > 0 {
			if err := s.sourceRepo.DeleteByMatchIDs(ctx, exec, overwriteIDs); err != nil {
				return err
			}
			if err := s.changeLog.DetachMatches(ctx, exec, overwriteIDs); err != nil {
				return err
			}
			if err := s.matchRepo.DeleteByIDs(ctx, exec, overwriteIDs); err != nil {
				return err
			}
		}

		versionNumber, err := s.versionRepo.NextVersionNumber(ctx, exec, stage.TournamentID)
		if err != nil {
			return err
		}
		label := fmt.Sprintf("%s v%d", pairingMethod, versionNumber)
		version := &models.FixtureVersion{
			TournamentID:  stage.TournamentID,
			StageID:       &stage.ID,
			VersionNumber: versionNumber,
			Status:        models.VersionStatusDraft,
			Label:         &label,
		}
		if err := s.versionRepo.Create(ctx, exec, version); err != nil {
			return err
		}
		result.FixtureVersionID = version.ID

		byRound := make(map[int][]fixtures.ScheduledMatch)
		var roundNumbers []int
		for _, sm := range scheduled {
			if _, seen := byRound[sm.Round]; !seen {
				roundNumbers = append(roundNumbers, sm.Round)
			}
			byRound[sm.Round] = append(byRound[sm.Round], sm)
		}
		sort.Ints(roundNumbers)

		roundIDs := make(map[int]int, len(roundNumbers))
		for _, rn := range roundNumbers {
			round := &models.FixtureRound{
				TournamentID:     stage.TournamentID,
				StageID:          stage.ID,
				FixtureVersionID: version.ID,
				RoundNumber:      rn,
				RoundName:        fmt.Sprintf("Round %d", rn),
				PairingMethod:    pairingMethod,
			}
			if err := s.roundRepo.Create(ctx, exec, round); err != nil {
				return err
			}
			roundIDs[rn] = round.ID
		}
		result.CreatedRoundCount = len(roundNumbers)

		resolved := make(map[[2]int]int) // (round, slot) -> match id
		var matchIDs []int
		var snapshots []string

		for _, rn := range roundNumbers {
			for _, sm := range byRound[rn] {
				roundNumber := sm.Round
				roundID := roundIDs[rn]
				venueID := sm.VenueID
				startsAt := sm.StartsAt

				match := &models.Match{
					TournamentID:     stage.TournamentID,
					StageID:          &stage.ID,
					StageGroupID:     stageGroupID,
					FixtureRoundID:   &roundID,
					RoundNumber:      &roundNumber,
					VenueID:          &venueID,
					ScheduledAt:      &startsAt,
					FixtureStatus:    models.FixtureStatusDraft,
					FixtureVersionID: &version.ID,
				}

				concrete := sm.Home.Kind == fixtures.ParticipantTeam && sm.Away.Kind == fixtures.ParticipantTeam
				if concrete {
					home, away := sm.Home.TeamID, sm.Away.TeamID
					match.Team1ID = &home
					match.Team2ID = &away
				}

				if err := s.matchRepo.Create(ctx, exec, match); err != nil {
					return err
				}
				resolved[[2]int{sm.Round, sm.Slot}] = match.ID

				if !concrete {
					for i, ref := range [2]fixtures.ParticipantRef{sm.Home, sm.Away} {
						row, err := sourceRowFromRef(match.ID, i+1, ref, resolved)
						if err != nil {
							return err
						}
						if err := s.sourceRepo.Create(ctx, exec, &row); err != nil {
							return err
						}
						match.Sources = append(match.Sources, row)
					}
				}

				snapshot, err := json.Marshal(match)
				if err != nil {
					return fmt.Errorf("failed to snapshot match %d: %w", match.ID, err)
				}
				matchIDs = append(matchIDs, match.ID)
				snapshots = append(snapshots, string(snapshot))
			}
		}
		result.CreatedMatchCount = len(matchIDs)

		if err := s.versionMatches.BatchCreate(ctx, exec, version.ID, matchIDs, snapshots); err != nil {
			return err
		}

		payload := fmt.Sprintf(`{"match_count":%d,"round_count":%d,"overwritten":%d}`,
			len(matchIDs), len(roundNumbers), len(overwriteIDs))
		return s.changeLog.Append(ctx, exec, &models.FixtureChangeLog{
			TournamentID:     stage.TournamentID,
			StageID:          &stage.ID,
			FixtureVersionID: &version.ID,
			Action:           action,
			Payload:          &payload,
		})
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// --- shared validation helpers ---

func (s *fixtureService) getTournament(ctx context.Context, tournamentID int) (*models.Tournament, error) {
	tournament, err := s.tournamentRepo.GetByID(ctx, nil, tournamentID)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, err
	}
	return tournament, nil
}

func (s *fixtureService) getStage(ctx context.Context, tournamentID, stageID int) (*models.Stage, error) {
	stage, err := s.stageRepo.GetByID(ctx, nil, stageID)
	if err != nil {
		if errors.Is(err, repositories.ErrStageNotFound) {
			return nil, ErrStageNotFound
		}
		return nil, err
	}
	if stage.TournamentID != tournamentID {
		return nil, ErrStageNotFound
	}
	return stage, nil
}

func (s *fixtureService) checkStageAndGroup(ctx context.Context, tournamentID int, stageID, stageGroupID *int) error {
	if stageID == nil {
		if stageGroupID != nil {
			return ErrInvalidStageGroup
		}
		return nil
	}
	stage, err := s.getStage(ctx, tournamentID, *stageID)
	if err != nil {
		return err
	}
	if stageGroupID != nil {
		group, err := s.stageRepo.GetGroup(ctx, nil, *stageGroupID)
		if err != nil {
			if errors.Is(err, repositories.ErrStageGroupNotFound) {
				return ErrInvalidStageGroup
			}
			return err
		}
		if group.StageID != stage.ID {
			return ErrInvalidStageGroup
		}
	}
	return nil
}

func (s *fixtureService) getDraftMatch(ctx context.Context, tournamentID, matchID int) (*models.Match, error) {
	match, err := s.matchRepo.GetByID(ctx, nil, matchID)
	if err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return nil, ErrFixtureMatchNotFound
		}
		return nil, err
	}
	if match.TournamentID != tournamentID {
		return nil, ErrFixtureMatchNotFound
	}
	if match.FixtureStatus != models.FixtureStatusDraft {
		return nil, ErrFixtureMatchNotDraft
	}
	return match, nil
}

// validateParticipantMode enforces the concrete-xor-deferred invariant:
// concrete needs two distinct team ids and no sources, deferred needs no team
// ids and exactly one well-formed source per slot.
func validateParticipantMode(team1ID, team2ID *int, sources []ParticipantSourceInput) (concrete bool, err error) {
	hasTeams := team1ID != nil || team2ID != nil
	hasSources := len(sources) > 0

	switch {
	case hasTeams && hasSources:
		return false, ErrInvalidParticipantMode
	case !hasTeams && !hasSources:
		return false, ErrInvalidParticipantMode
	case hasTeams:
		if team1ID == nil || team2ID == nil {
			return false, ErrInvalidTeamSelection
		}
		if *team1ID == *team2ID {
			return false, ErrInvalidTeamSelection
		}
		return true, nil
	}

	if len(sources) != 2 {
		return false, ErrInvalidParticipantSources
	}
	slots := map[int]bool{}
	for _, src := range sources {
		if src.TeamSlot != 1 && src.TeamSlot != 2 {
			return false, ErrInvalidParticipantSources
		}
		if slots[src.TeamSlot] {
			return false, ErrInvalidParticipantSources
		}
		slots[src.TeamSlot] = true

		switch src.SourceType {
		case models.SourceTypeMatch:
			if src.SourceMatchID == nil {
				return false, ErrInvalidParticipantSources
			}
		case models.SourceTypePosition:
			if src.SourcePosition == nil || (src.SourceStageID == nil && src.SourceStageGroupID == nil) {
				return false, ErrInvalidParticipantSources
			}
		case models.SourceTypeTeam:
			if src.SourceTeamID == nil {
				return false, ErrInvalidParticipantSources
			}
		default:
			return false, ErrInvalidParticipantSources
		}
	}
	return false, nil
}

func sourceRowFromInput(matchID int, src ParticipantSourceInput) models.MatchParticipantSource {
	return models.MatchParticipantSource{
		MatchID:            matchID,
		TeamSlot:           src.TeamSlot,
		SourceType:         src.SourceType,
		SourceMatchID:      src.SourceMatchID,
		SourceStageID:      src.SourceStageID,
		SourceStageGroupID: src.SourceStageGroupID,
		SourcePosition:     src.SourcePosition,
		SourceTeamID:       src.SourceTeamID,
	}
}

// sourceRowFromRef turns a symbolic plan reference into a participant source
// row; MatchWinner refs resolve through the local (round, slot) table.
func sourceRowFromRef(matchID, slot int, ref fixtures.ParticipantRef, resolved map[[2]int]int) (models.MatchParticipantSource, error) {
	row := models.MatchParticipantSource{MatchID: matchID, TeamSlot: slot}

	switch ref.Kind {
	case fixtures.ParticipantTeam:
		teamID := ref.TeamID
		row.SourceType = models.SourceTypeTeam
		row.SourceTeamID = &teamID

	case fixtures.ParticipantMatchWinner:
		sourceID, ok := resolved[[2]int{ref.Round, ref.Slot}]
		if !ok {
			return row, fmt.Errorf("unresolved match winner reference (round %d, slot %d)", ref.Round, ref.Slot)
		}
		row.SourceType = models.SourceTypeMatch
		row.SourceMatchID = &sourceID

	case fixtures.ParticipantGroupPosition:
		groupID, position := ref.GroupID, ref.Position
		row.SourceType = models.SourceTypePosition
		row.SourceStageGroupID = &groupID
		row.SourcePosition = &position
		if ref.StageID != 0 {
			stageID := ref.StageID
			row.SourceStageID = &stageID
		}

	case fixtures.ParticipantStageSlot:
		stageID, position := ref.StageID, ref.Position
		row.SourceType = models.SourceTypePosition
		row.SourceStageID = &stageID
		row.SourcePosition = &position

	default:
		return row, fmt.Errorf("unknown participant reference kind %q", ref.Kind)
	}
	return row, nil
}

// resolveVenues applies the venue fallback chain: the explicitly requested
// venues, then the tournament's venue pool, then every known venue.
func (s *fixtureService) resolveVenues(ctx context.Context, tournamentID int, venueIDs []int) ([]models.Venue, error) {
	var (
		rows []*models.Venue
		err  error
	)
	switch {
	case len(venueIDs) > 0:
		rows, err = s.venueRepo.ListByIDs(ctx, nil, venueIDs)
	default:
		rows, err = s.venueRepo.ListByTournament(ctx, nil, tournamentID)
		if err == nil && len(rows) == 0 {
			rows, err = s.venueRepo.ListAll(ctx, nil)
		}
	}
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrNoVenuesAvailable
	}

	venues := make([]models.Venue, 0, len(rows))
	for _, v := range rows {
		venues = append(venues, *v)
	}
	return venues, nil
}
