package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Dosada05/cricket-fixtures/models"
	"github.com/Dosada05/cricket-fixtures/repositories"
)

type PublishInput struct {
	TournamentID int     `json:"tournament_id"`
	StageID      *int    `json:"stage_id,omitempty"`
	MatchIDs     []int   `json:"match_ids"`
	Reason       *string `json:"reason,omitempty"`
}

type PublishResult struct {
	FixtureVersionID    int       `json:"fixture_version_id"`
	VersionNumber       int       `json:"version_number"`
	PublishedMatchCount int       `json:"published_match_count"`
	PublishedAt         time.Time `json:"published_at"`
}

type PublishService interface {
	PublishFixtureMatches(ctx context.Context, input PublishInput) (*PublishResult, error)
}

type publishService struct {
	tx             repositories.TxRunner
	tournamentRepo repositories.TournamentRepository
	matchRepo      repositories.MatchRepository
	versionRepo    repositories.FixtureVersionRepository
	versionMatches repositories.VersionMatchRepository
	changeLog      repositories.ChangeLogRepository
	logger         *slog.Logger
	now            func() time.Time
}

func NewPublishService(
	tx repositories.TxRunner,
	tournamentRepo repositories.TournamentRepository,
	matchRepo repositories.MatchRepository,
	versionRepo repositories.FixtureVersionRepository,
	versionMatches repositories.VersionMatchRepository,
	changeLog repositories.ChangeLogRepository,
	logger *slog.Logger,
) PublishService {
	return &publishService{
		tx:             tx,
		tournamentRepo: tournamentRepo,
		matchRepo:      matchRepo,
		versionRepo:    versionRepo,
		versionMatches: versionMatches,
		changeLog:      changeLog,
		logger:         logger,
		now:            time.Now,
	}
}

// PublishFixtureMatches promotes a set of draft matches to published in one
// atomic step. Validation is all-or-nothing: one unknown, foreign or already
// published match fails the whole batch and nothing is written.
func (s *publishService) PublishFixtureMatches(ctx context.Context, input PublishInput) (*PublishResult, error) {
	if len(input.MatchIDs) == 0 {
		return nil, ErrNoFixtureMatchesToPublish
	}

	if _, err := s.tournamentRepo.GetByID(ctx, nil, input.TournamentID); err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, err
	}

	matches, err := s.matchRepo.ListByIDs(ctx, nil, input.MatchIDs)
	if err != nil {
		return nil, err
	}
	if len(matches) != len(input.MatchIDs) {
		return nil, ErrFixtureMatchNotFound
	}
	for _, m := range matches {
		if m.TournamentID != input.TournamentID {
			return nil, ErrFixtureMatchNotFound
		}
		if m.FixtureStatus != models.FixtureStatusDraft {
			return nil, ErrFixtureMatchNotDraft
		}
	}

	publishedAt := s.now()
	result := &PublishResult{PublishedMatchCount: len(matches), PublishedAt: publishedAt}

	err = s.tx.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		// Exactly one published version per tournament: the previous one is
		// archived in the same transaction that creates its successor.
		if err := s.versionRepo.ArchivePublished(ctx, exec, input.TournamentID, publishedAt); err != nil {
			return err
		}

		versionNumber, err := s.versionRepo.NextVersionNumber(ctx, exec, input.TournamentID)
		if err != nil {
			return err
		}
		label := fmt.Sprintf("published v%d", versionNumber)
		version := &models.FixtureVersion{
			TournamentID:  input.TournamentID,
			StageID:       input.StageID,
			VersionNumber: versionNumber,
			Status:        models.VersionStatusPublished,
			Label:         &label,
			PublishedAt:   &publishedAt,
		}
		if err := s.versionRepo.Create(ctx, exec, version); err != nil {
			return err
		}
		result.FixtureVersionID = version.ID
		result.VersionNumber = versionNumber

		if err := s.matchRepo.MarkPublished(ctx, exec, input.MatchIDs, version.ID); err != nil {
			return err
		}

		matchIDs := make([]int, 0, len(matches))
		snapshots := make([]string, 0, len(matches))
		for _, m := range matches {
			m.FixtureStatus = models.FixtureStatusPublished
			m.FixtureVersionID = &version.ID
			snapshot, err := json.Marshal(m)
			if err != nil {
				return fmt.Errorf("failed to snapshot match %d: %w", m.ID, err)
			}
			matchIDs = append(matchIDs, m.ID)
			snapshots = append(snapshots, string(snapshot))
		}
		if err := s.versionMatches.BatchCreate(ctx, exec, version.ID, matchIDs, snapshots); err != nil {
			return err
		}

		if err := s.tournamentRepo.UpdateFixturePointers(ctx, exec, input.TournamentID, version.ID, publishedAt); err != nil {
			return err
		}

		payload := fmt.Sprintf(`{"match_count":%d,"version_number":%d}`, len(matchIDs), versionNumber)
		return s.changeLog.Append(ctx, exec, &models.FixtureChangeLog{
			TournamentID:     input.TournamentID,
			StageID:          input.StageID,
			FixtureVersionID: &version.ID,
			Action:           models.ChangeActionPublished,
			Payload:          &payload,
			Reason:           input.Reason,
		})
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("fixtures published",
		slog.Int("tournament_id", input.TournamentID),
		slog.Int("fixture_version_id", result.FixtureVersionID),
		slog.Int("version_number", result.VersionNumber),
		slog.Int("matches", result.PublishedMatchCount))
	return result, nil
}
